// Package authstate tracks whether the user is logged in and whether the
// re-authentication prompt is showing.
package authstate

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/splitora/client/internal/apierr"
	"github.com/splitora/client/internal/eventbus"
	"github.com/splitora/client/internal/session"
)

// Status is the user's authentication status.
type Status int

const (
	LoggedOut Status = iota
	LoggedIn
)

func (s Status) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// Logouter performs a full logout. Satisfied by *splitora.Client.
type Logouter interface {
	Logout(ctx context.Context) error
}

// State is safe for concurrent use. It implements the re-authentication
// handler of the session client.
type State struct {
	logger *zap.Logger
	bus    *eventbus.EventBus

	mu            sync.RWMutex
	status        Status
	promptMessage string
	promptShown   bool
}

// New initialises the state from whatever session store currently holds.
func New(ctx context.Context, logger *zap.Logger, store session.Store, bus *eventbus.EventBus) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &State{logger: logger, bus: bus, promptMessage: apierr.SessionExpiredMessage}
	if sess, ok, err := store.Load(ctx); err != nil {
		logger.Warn("authstate.load_failed", zap.Error(err))
	} else if ok && IsAuthenticated(sess) {
		s.status = LoggedIn
	}
	if bus != nil {
		eventbus.Subscribe(bus, func(eventbus.SessionEstablished) { s.LoggedIn() })
		eventbus.Subscribe(bus, func(e eventbus.SessionCleared) { s.cleared(e.Reason) })
	}
	return s
}

// IsAuthenticated reports whether sess carries both credentials.
func IsAuthenticated(sess session.Session) bool { return sess.Valid() }

func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Prompt returns the re-authentication message and whether it is showing.
func (s *State) Prompt() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.promptMessage, s.promptShown
}

// RequireReauth marks the user logged out and shows the prompt. An empty
// message keeps the default.
func (s *State) RequireReauth(_ context.Context, message string) {
	if message == "" {
		message = apierr.SessionExpiredMessage
	}
	s.mu.Lock()
	s.status = LoggedOut
	s.promptMessage = message
	s.promptShown = true
	s.mu.Unlock()

	s.logger.Info("authstate.reauth_required", zap.String("message", message))
	if s.bus != nil {
		s.bus.Publish(eventbus.ReauthRequired{Meta: eventbus.NewMeta(), Message: message})
	}
}

// LoggedIn records a successful login and hides the prompt.
func (s *State) LoggedIn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = LoggedIn
	s.promptShown = false
}

// DismissPrompt hides the prompt without changing the status.
func (s *State) DismissPrompt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promptShown = false
}

// Logout runs l and marks the user logged out. The prompt is hidden since
// the logout was requested.
func (s *State) Logout(ctx context.Context, l Logouter) error {
	err := l.Logout(ctx)
	s.mu.Lock()
	s.status = LoggedOut
	s.promptShown = false
	s.mu.Unlock()
	return err
}

func (s *State) cleared(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = LoggedOut
	s.logger.Debug("authstate.session_cleared", zap.String("reason", reason))
}
