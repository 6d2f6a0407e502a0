// Package token reads claims out of access tokens without verifying their
// signature. The backend remains the authority; these helpers only decide
// when the client should renew ahead of expiry and who is logged in.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/splitora/client/pkg/model"
)

// RefreshWindow is how far ahead of expiry a token is considered due for renewal.
const RefreshWindow = 5 * time.Minute

// ErrNoExpiry is returned for tokens without an exp claim.
var ErrNoExpiry = errors.New("token has no exp claim")

var parser = jwt.NewParser()

// Inspect decodes the claims of raw without verifying its signature.
func Inspect(raw string) (jwt.MapClaims, error) {
	if raw == "" {
		return nil, errors.New("empty token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

// Expiration returns the exp claim of raw.
func Expiration(raw string) (time.Time, error) {
	claims, err := Inspect(raw)
	if err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read exp: %w", err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// Expired reports whether raw is past its expiry at now. Unreadable tokens count as expired.
func Expired(raw string, now time.Time) bool {
	exp, err := Expiration(raw)
	if err != nil {
		return true
	}
	return exp.Before(now)
}

// ShouldRefresh reports whether raw expires within RefreshWindow of now.
// An empty token never needs refreshing; an unreadable one always does.
func ShouldRefresh(raw string, now time.Time) bool {
	if raw == "" {
		return false
	}
	exp, err := Expiration(raw)
	if err != nil {
		return true
	}
	return exp.Before(now.Add(RefreshWindow))
}

// UserFromToken extracts the identity claims of raw.
func UserFromToken(raw string) (*model.User, error) {
	claims, err := Inspect(raw)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:       str(claims, "sub"),
		Email:    str(claims, "email"),
		Username: str(claims, "username"),
		Name:     str(claims, "name"),
		Roles:    []string{},
	}
	if u.ID == "" {
		u.ID = str(claims, "userId")
	}
	if roles, ok := claims["roles"].([]any); ok {
		for _, r := range roles {
			if s, ok := r.(string); ok {
				u.Roles = append(u.Roles, s)
			}
		}
	}
	return u, nil
}

func str(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}
