package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/splitora/client/internal/session"
	"github.com/splitora/client/internal/token"
)

// Renewer renews the stored session. Satisfied by *httpclient.Client.
type Renewer interface {
	Refresh(ctx context.Context) (session.Session, error)
}

// TokenRefresher periodically renews the access credential shortly before it
// expires so that calls rarely hit a 401.
type TokenRefresher struct {
	logger   *zap.Logger
	store    session.Store
	renewer  Renewer
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
}

// DefaultInterval is used when a non-positive interval is configured.
const DefaultInterval = time.Minute

// NewTokenRefresher constructs a background job that checks every interval.
func NewTokenRefresher(logger *zap.Logger, store session.Store, renewer Renewer, interval time.Duration) *TokenRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &TokenRefresher{
		logger:   logger,
		store:    store,
		renewer:  renewer,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the check loop until Stop is called or ctx is done.
func (r *TokenRefresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("token_refresher.started", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ticker.C:
			r.runOnce(ctx)
		case <-r.stopCh:
			r.logger.Info("token_refresher.stopped (manual stop)")
			return
		case <-ctx.Done():
			r.logger.Info("token_refresher.stopped (context canceled)")
			return
		}
	}
}

// Stop halts the refresher.
func (r *TokenRefresher) Stop() {
	close(r.stopCh)
}

// runOnce renews the session if its access credential is about to expire.
// It reports whether a renewal was attempted.
func (r *TokenRefresher) runOnce(ctx context.Context) bool {
	sess, ok, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Warn("token_refresher.load_failed", zap.Error(err))
		return false
	}
	if !ok || !token.ShouldRefresh(sess.AccessToken, r.now()) {
		return false
	}

	start := time.Now()
	if _, err := r.renewer.Refresh(ctx); err != nil {
		// the next 401 goes through the regular recovery path
		r.logger.Warn("token_refresher.refresh_failed", zap.Error(err))
		return true
	}
	r.logger.Info("token_refresher.success", zap.Duration("duration", time.Since(start)))
	return true
}
