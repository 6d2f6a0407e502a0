// Package splitora exposes the Splitora backend operations as typed calls
// on top of the session-aware HTTP client.
package splitora

import (
	"time"

	"go.uber.org/zap"

	"github.com/splitora/client/internal/httpclient"
	"github.com/splitora/client/internal/session"
	"github.com/splitora/client/pkg/cache"
	"github.com/splitora/client/pkg/model"
)

// Client is the typed Splitora API.
type Client struct {
	logger   *zap.Logger
	http     *httpclient.Client
	store    session.Store
	profiles *cache.Cache[model.User]
}

// Option customises a Client.
type Option func(*Client)

// WithProfileCache keeps the profile returned by Profile for ttl, per
// access credential.
func WithProfileCache(ttl time.Duration) Option {
	return func(c *Client) { c.profiles = cache.New[model.User](ttl) }
}

// New wraps hc. Credentials returned by login and registration are written
// to the store hc reads from.
func New(logger *zap.Logger, hc *httpclient.Client, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		logger:   logger,
		http:     hc,
		store:    hc.Store(),
		profiles: cache.New[model.User](0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Profiles exposes the profile cache so its cleaner can be scheduled.
func (c *Client) Profiles() *cache.Cache[model.User] { return c.profiles }
