package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/splitora/client/internal/apierr"
	"github.com/splitora/client/internal/eventbus"
	"github.com/splitora/client/internal/metrics"
	"github.com/splitora/client/internal/rate"
	"github.com/splitora/client/internal/session"
	"github.com/splitora/client/pkg/model"
)

// DefaultTimeout bounds every outbound call, renewal included.
const DefaultTimeout = 10 * time.Second

// RefreshPath is the renewal endpoint.
const RefreshPath = "/auth/refresh"

var errSessionGone = errors.New("session cleared before renewal")

// ReauthHandler is told when the user has to log in again.
type ReauthHandler interface {
	RequireReauth(ctx context.Context, message string)
}

// ReauthFunc adapts a function to ReauthHandler.
type ReauthFunc func(ctx context.Context, message string)

func (f ReauthFunc) RequireReauth(ctx context.Context, message string) { f(ctx, message) }

// Client mediates every Splitora API call: it attaches the stored access
// credential, renews it once when the backend answers 401, replays the call
// with the new credential, and asks for re-authentication when renewal is
// impossible. Safe for concurrent use; concurrent renewals of the same
// session share one refresh call.
type Client struct {
	logger  *zap.Logger
	http    *http.Client
	baseURL string
	store   session.Store
	reauth  ReauthHandler
	rateMgr *rate.Manager
	bus     *eventbus.EventBus
	timeout time.Duration

	refreshes singleflight.Group
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimiter waits on rateMgr, keyed by resource, before each call.
func WithRateLimiter(rateMgr *rate.Manager) Option { return func(c *Client) { c.rateMgr = rateMgr } }

// WithEventBus publishes session lifecycle events on bus.
func WithEventBus(bus *eventbus.EventBus) Option { return func(c *Client) { c.bus = bus } }

// New creates a Client for baseURL. reauth is required; it is the only way
// the rest of the program learns that the session is gone.
func New(logger *zap.Logger, baseURL string, store session.Store, reauth ReauthHandler, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		logger:  logger,
		http:    &http.Client{},
		baseURL: baseURL,
		store:   store,
		reauth:  reauth,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.reauth == nil {
		c.reauth = ReauthFunc(func(_ context.Context, message string) {
			logger.Error("session_client.reauth_required_unhandled", zap.String("message", message))
		})
	}
	return c
}

// Send issues req and returns the unwrapped result payload.
func (c *Client) Send(ctx context.Context, req Request) (json.RawMessage, error) {
	body, err := c.SendRaw(ctx, req)
	if err != nil {
		return nil, err
	}
	return Unwrap(body), nil
}

// SendRaw issues req and returns the full response body without unwrapping
// the envelope. Authentication handling is identical to Send.
func (c *Client) SendRaw(ctx context.Context, req Request) (json.RawMessage, error) {
	payload, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	if c.rateMgr != nil {
		if err := c.rateMgr.Wait(ctx, req.resource()); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	sess, _ := c.loadSession(ctx)
	return c.attempt(ctx, req, payload, sess.AccessToken, 0)
}

// Do issues req and decodes the unwrapped payload into out.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	data, err := c.Send(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		metrics.IncError("session_client", "decode_failed")
		c.logger.Warn("session_client.decode_failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return fmt.Errorf("decode %s %s: %w", req.Method, req.Path, err)
	}
	return nil
}

// attempt runs one pass of the call state machine. retries counts how many
// times this call already went through renewal; it never exceeds one.
func (c *Client) attempt(ctx context.Context, req Request, payload []byte, bearer string, retries int) (json.RawMessage, error) {
	status, body, err := c.roundTrip(ctx, req, payload, bearer)
	if err != nil {
		return nil, err
	}

	switch {
	case status >= 200 && status < 300:
		if failedEnvelope(body) {
			return nil, &apierr.Error{
				Kind:       apierr.KindServer,
				Message:    apierr.Message(body, ""),
				Status:     status,
				StatusText: http.StatusText(status),
				Body:       body,
			}
		}
		return body, nil

	case status == http.StatusUnauthorized && retries == 0:
		next, err := c.recoverSession(ctx, bearer)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("session_client.replay",
			zap.String("method", req.Method),
			zap.String("path", req.Path))
		return c.attempt(ctx, req, payload, next.AccessToken, retries+1)

	case status == http.StatusUnauthorized:
		// the renewed credential was rejected as well
		cause := apierr.FromResponse(status, body)
		c.invalidate(ctx, apierr.SessionExpiredMessage, "replay_unauthorized")
		return nil, apierr.ReauthRequired(apierr.SessionExpiredMessage, cause)

	default:
		return nil, apierr.FromResponse(status, body)
	}
}

// recoverSession obtains a usable session after a 401 answered to a call
// made with bearer. If another call already renewed the session in the
// meantime the stored one is reused instead of renewing again.
func (c *Client) recoverSession(ctx context.Context, bearer string) (session.Session, error) {
	current, ok := c.loadSession(ctx)
	if !ok {
		metrics.IncRefresh("no_refresh_token")
		c.invalidate(ctx, apierr.NoRefreshMessage, "no_refresh_token")
		return session.Session{}, apierr.ReauthRequired(apierr.NoRefreshMessage, nil)
	}
	if current.AccessToken != bearer {
		c.logger.Debug("session_client.refresh_skipped_already_rotated")
		return current, nil
	}

	next, err := c.renew(ctx, current)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return session.Session{}, apierr.Network(ctxErr)
		}
		c.logger.Warn("session_client.refresh_failed", zap.Error(err))
		c.invalidate(ctx, apierr.SessionExpiredMessage, "refresh_failed")
		return session.Session{}, apierr.ReauthRequired(apierr.SessionExpiredMessage, err)
	}
	return next, nil
}

// Refresh renews the stored session on demand. Unlike the renewal that
// follows a 401 it does not clear the session or signal re-authentication
// on failure; that is left to the caller.
func (c *Client) Refresh(ctx context.Context) (session.Session, error) {
	current, ok := c.loadSession(ctx)
	if !ok {
		metrics.IncRefresh("no_refresh_token")
		return session.Session{}, apierr.ReauthRequired(apierr.NoRefreshMessage, nil)
	}
	return c.renew(ctx, current)
}

// Store returns the session store the client reads credentials from.
func (c *Client) Store() session.Store { return c.store }

// Publish forwards event to the client's event bus, if any.
func (c *Client) Publish(event any) { c.publish(event) }

// renew runs at most one refresh call per renewal credential at a time;
// callers arriving while it is in flight wait for its result. A flight that
// starts after the stored session moved past current returns the stored
// session, so a rotated refresh token is never presented again.
func (c *Client) renew(ctx context.Context, current session.Session) (session.Session, error) {
	ch := c.refreshes.DoChan(current.RefreshToken, func() (any, error) {
		rctx := context.WithoutCancel(ctx)
		stored, ok := c.loadSession(rctx)
		if !ok {
			return session.Session{}, errSessionGone
		}
		if stored.AccessToken != current.AccessToken {
			metrics.IncRefresh("skipped")
			c.logger.Debug("session_client.refresh_skipped_already_rotated")
			return stored, nil
		}
		return c.refresh(rctx, current)
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.RefreshCoalesced.Inc()
		}
		if res.Err != nil {
			return session.Session{}, res.Err
		}
		return res.Val.(session.Session), nil
	case <-ctx.Done():
		return session.Session{}, ctx.Err()
	}
}

// refresh performs the renewal call and stores the resulting session.
func (c *Client) refresh(ctx context.Context, current session.Session) (session.Session, error) {
	payload, err := json.Marshal(map[string]string{"refreshToken": current.RefreshToken})
	if err != nil {
		return session.Session{}, err
	}

	status, body, err := c.roundTrip(ctx, Post(RefreshPath, nil), payload, "")
	if err != nil {
		metrics.IncRefresh("failed")
		return session.Session{}, err
	}
	if status < 200 || status >= 300 || failedEnvelope(body) {
		metrics.IncRefresh("failed")
		return session.Session{}, fmt.Errorf("refresh rejected: %w", apierr.FromResponse(status, body))
	}

	var tp model.TokenPair
	if err := json.Unmarshal(Unwrap(body), &tp); err != nil {
		metrics.IncRefresh("failed")
		return session.Session{}, fmt.Errorf("decode refresh response: %w", err)
	}
	if tp.AccessToken == "" {
		metrics.IncRefresh("failed")
		return session.Session{}, errors.New("no access token received from refresh")
	}

	next := session.Rotate(current, tp.AccessToken, tp.RefreshToken)
	if err := c.store.Save(ctx, next); err != nil {
		metrics.IncRefresh("failed")
		return session.Session{}, fmt.Errorf("store refreshed session: %w", err)
	}

	metrics.IncRefresh("ok")
	c.logger.Info("session_client.token_refreshed", zap.Bool("refresh_rotated", tp.RefreshToken != ""))
	c.publish(eventbus.SessionRefreshed{Meta: eventbus.NewMeta(), RefreshRotated: tp.RefreshToken != ""})
	return next, nil
}

// invalidate clears the stored session and signals that the user must log in again.
func (c *Client) invalidate(ctx context.Context, message, reason string) {
	if err := c.store.Clear(ctx); err != nil {
		metrics.IncError("session_client", "clear_failed")
		c.logger.Error("session_client.clear_failed", zap.Error(err))
	}
	metrics.IncReauth()
	c.logger.Warn("session_client.reauth_required", zap.String("reason", reason))
	c.publish(eventbus.SessionCleared{Meta: eventbus.NewMeta(), Reason: reason})
	c.reauth.RequireReauth(ctx, message)
}

func (c *Client) loadSession(ctx context.Context) (session.Session, bool) {
	sess, ok, err := c.store.Load(ctx)
	if err != nil {
		metrics.IncError("session_client", "load_failed")
		c.logger.Warn("session_client.session_load_failed", zap.Error(err))
		return session.Session{}, false
	}
	return sess, ok
}

// publish delivers synchronously so subscribers observe lifecycle events in
// the order they happened.
func (c *Client) publish(event any) {
	if c.bus != nil {
		c.bus.PublishSync(event)
	}
}

// roundTrip performs one HTTP exchange. A transport failure, including the
// per-call timeout, is reported as a network error.
func (c *Client) roundTrip(ctx context.Context, req Request, payload []byte, bearer string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resource := req.resource()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.IncAPIRequest(resource, req.Method, "network_error")
		c.logger.Warn("session_client.http_failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return 0, nil, apierr.Network(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	metrics.ObserveDuration(metrics.APIRequestDuration, start, resource, req.Method)
	if err != nil {
		metrics.IncAPIRequest(resource, req.Method, "network_error")
		return 0, nil, apierr.Network(fmt.Errorf("read response: %w", err))
	}

	metrics.IncAPIRequest(resource, req.Method, outcome(resp.StatusCode))
	c.logger.Debug("session_client.http_response",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	return resp.StatusCode, body, nil
}

func outcome(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "ok"
	case status == http.StatusUnauthorized:
		return "unauthorized"
	case status >= 500:
		return "server_error"
	default:
		return "client_error"
	}
}
