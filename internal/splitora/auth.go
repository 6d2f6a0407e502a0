package splitora

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/splitora/client/internal/eventbus"
	"github.com/splitora/client/internal/httpclient"
	"github.com/splitora/client/internal/session"
	"github.com/splitora/client/internal/token"
	"github.com/splitora/client/pkg/model"
	"github.com/splitora/client/pkg/utils"
)

// ErrMissingTokens is returned when login or registration succeeds without
// issuing both credentials.
var ErrMissingTokens = errors.New("splitora: authentication response did not include both tokens")

// Login authenticates and stores the issued session.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	c.logger.Info("splitora.login.start", zap.String("email", utils.MaskEmail(creds.Email)))
	return c.establish(ctx, "login", httpclient.Post("/auth/login", creds))
}

// Register creates an account and stores the issued session.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	c.logger.Info("splitora.register.start", zap.String("email", utils.MaskEmail(reg.Email)))
	return c.establish(ctx, "register", httpclient.Post("/auth/register", reg))
}

func (c *Client) establish(ctx context.Context, op string, req httpclient.Request) (*model.User, error) {
	var tp model.TokenPair
	if err := c.http.Do(ctx, req, &tp); err != nil {
		c.logger.Warn("splitora."+op+".failed", zap.Error(err))
		return nil, err
	}
	if tp.AccessToken == "" || tp.RefreshToken == "" {
		return nil, ErrMissingTokens
	}

	if err := c.store.Save(ctx, session.Session{AccessToken: tp.AccessToken, RefreshToken: tp.RefreshToken}); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	c.http.Publish(eventbus.SessionEstablished{Meta: eventbus.NewMeta()})

	user := tp.User
	if user == nil {
		if u, err := token.UserFromToken(tp.AccessToken); err == nil {
			user = u
		} else {
			c.logger.Debug("splitora.user_from_token_failed", zap.Error(err))
		}
	}
	c.logger.Info("splitora."+op+".ok", zap.String("access_token", utils.MaskToken(tp.AccessToken)))
	return user, nil
}

// Logout tells the backend to revoke the renewal credential and clears the
// local session. Backend failures are logged and ignored; the local session
// is always cleared.
func (c *Client) Logout(ctx context.Context) error {
	sess, ok, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn("splitora.logout.load_failed", zap.Error(err))
	}
	if ok {
		body := map[string]string{"refreshToken": sess.RefreshToken}
		if _, err := c.http.Send(ctx, httpclient.Post("/auth/logout", body)); err != nil {
			c.logger.Warn("splitora.logout.remote_failed", zap.Error(err))
		}
	}

	c.profiles.Purge()
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	c.http.Publish(eventbus.SessionCleared{Meta: eventbus.NewMeta(), Reason: "logout"})
	c.logger.Info("splitora.logout.ok")
	return nil
}

// Refresh renews the access credential now.
func (c *Client) Refresh(ctx context.Context) error {
	_, err := c.http.Refresh(ctx)
	return err
}

// Profile returns the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	key := ""
	if sess, ok, _ := c.store.Load(ctx); ok {
		key = sess.AccessToken
		if u, hit := c.profiles.Get(key); hit {
			return &u, nil
		}
	}

	var u model.User
	if err := c.http.Do(ctx, httpclient.Get("/user"), &u); err != nil {
		return nil, err
	}
	if key != "" {
		c.profiles.Put(key, u)
	}
	return &u, nil
}

// UpdateProfile changes the editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, in model.ProfileUpdate) (*model.User, error) {
	var u model.User
	if err := c.http.Do(ctx, httpclient.Put("/auth/profile", in), &u); err != nil {
		return nil, err
	}
	c.profiles.Purge()
	return &u, nil
}

// CurrentUser reads the identity from the stored access credential without
// calling the backend.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	sess, ok, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return token.UserFromToken(sess.AccessToken)
}
