// Package session persists the credential pair that authorizes API calls.
//
// A Session is either fully present (access and renewal credential) or
// absent. Every Store writes and clears both credentials together, so a
// reader never observes half a session.
package session

import (
	"context"
	"errors"
)

// Storage keys for the two credentials.
const (
	AccessTokenKey  = "user_token"
	RefreshTokenKey = "refresh_token"
)

// ErrIncomplete is returned when saving a session that lacks either credential.
var ErrIncomplete = errors.New("session: access and refresh tokens are required")

// Session is the stored credential pair.
type Session struct {
	AccessToken  string `json:"user_token"`
	RefreshToken string `json:"refresh_token"`
}

// Valid reports whether both credentials are present.
func (s Session) Valid() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}

// Store persists one Session.
type Store interface {
	// Load returns the stored session and whether one exists.
	Load(ctx context.Context) (Session, bool, error)
	// Save replaces the stored session.
	Save(ctx context.Context, s Session) error
	// Clear removes both credentials.
	Clear(ctx context.Context) error
}

// Rotate returns the session that results from a renewal: the new access
// credential always replaces the old one, the renewal credential only when
// the server issued a new one.
func Rotate(old Session, accessToken, refreshToken string) Session {
	next := Session{AccessToken: accessToken, RefreshToken: old.RefreshToken}
	if refreshToken != "" {
		next.RefreshToken = refreshToken
	}
	return next
}
