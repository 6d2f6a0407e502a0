package authstate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/splitora/client/internal/apierr"
	"github.com/splitora/client/internal/eventbus"
	"github.com/splitora/client/internal/session"
)

type logoutFunc func(ctx context.Context) error

func (f logoutFunc) Logout(ctx context.Context) error { return f(ctx) }

func TestNew_StatusFromStore(t *testing.T) {
	ctx := context.Background()
	st := session.NewMemoryStore()
	assert.Equal(t, LoggedOut, New(ctx, zap.NewNop(), st, nil).Status())

	require.NoError(t, st.Save(ctx, session.Session{AccessToken: "A", RefreshToken: "R"}))
	assert.Equal(t, LoggedIn, New(ctx, zap.NewNop(), st, nil).Status())
}

func TestRequireReauth(t *testing.T) {
	ctx := context.Background()
	st := session.NewMemoryStore()
	require.NoError(t, st.Save(ctx, session.Session{AccessToken: "A", RefreshToken: "R"}))

	bus := eventbus.New()
	var published atomic.Value
	eventbus.Subscribe(bus, func(e eventbus.ReauthRequired) { published.Store(e.Message) })

	s := New(ctx, zap.NewNop(), st, bus)
	s.RequireReauth(ctx, apierr.NoRefreshMessage)
	bus.Wait()

	assert.Equal(t, LoggedOut, s.Status())
	msg, shown := s.Prompt()
	assert.True(t, shown)
	assert.Equal(t, apierr.NoRefreshMessage, msg)
	assert.Equal(t, apierr.NoRefreshMessage, published.Load())
}

func TestRequireReauth_DefaultMessage(t *testing.T) {
	s := New(context.Background(), nil, session.NewMemoryStore(), nil)
	s.RequireReauth(context.Background(), "")

	msg, shown := s.Prompt()
	assert.True(t, shown)
	assert.Equal(t, "Your session has expired. Please log in again.", msg)
}

func TestLoggedInHidesPrompt(t *testing.T) {
	s := New(context.Background(), nil, session.NewMemoryStore(), nil)
	s.RequireReauth(context.Background(), "x")
	s.LoggedIn()

	_, shown := s.Prompt()
	assert.False(t, shown)
	assert.Equal(t, LoggedIn, s.Status())
}

func TestDismissPrompt(t *testing.T) {
	s := New(context.Background(), nil, session.NewMemoryStore(), nil)
	s.RequireReauth(context.Background(), "x")
	s.DismissPrompt()

	_, shown := s.Prompt()
	assert.False(t, shown)
	assert.Equal(t, LoggedOut, s.Status())
}

func TestLogout(t *testing.T) {
	s := New(context.Background(), nil, session.NewMemoryStore(), nil)
	s.LoggedIn()

	var called bool
	err := s.Logout(context.Background(), logoutFunc(func(context.Context) error {
		called = true
		return errors.New("disk full")
	}))
	require.Error(t, err)
	assert.True(t, called)
	assert.Equal(t, LoggedOut, s.Status(), "status changes even when clearing failed")
}

func TestFollowsSessionEvents(t *testing.T) {
	bus := eventbus.New()
	s := New(context.Background(), nil, session.NewMemoryStore(), bus)

	bus.PublishSync(eventbus.SessionEstablished{Meta: eventbus.NewMeta()})
	assert.Equal(t, LoggedIn, s.Status())

	bus.PublishSync(eventbus.SessionCleared{Meta: eventbus.NewMeta(), Reason: "logout"})
	assert.Equal(t, LoggedOut, s.Status())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "logged_in", LoggedIn.String())
	assert.Equal(t, "logged_out", LoggedOut.String())
}
