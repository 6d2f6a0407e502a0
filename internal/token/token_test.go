package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestExpiration(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := sign(t, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})

	got, err := Expiration(raw)
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))
}

func TestExpiration_Missing(t *testing.T) {
	raw := sign(t, jwt.MapClaims{"sub": "u1"})
	_, err := Expiration(raw)
	assert.ErrorIs(t, err, ErrNoExpiry)
}

func TestExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, Expired(sign(t, jwt.MapClaims{"exp": now.Add(time.Minute).Unix()}), now))
	assert.True(t, Expired(sign(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}), now))
	assert.True(t, Expired("not-a-jwt", now))
	assert.True(t, Expired("", now))
}

func TestShouldRefresh(t *testing.T) {
	now := time.Now()

	assert.False(t, ShouldRefresh("", now), "no token, nothing to refresh")
	assert.True(t, ShouldRefresh("garbage", now), "unreadable token must be refreshed")
	assert.True(t, ShouldRefresh(sign(t, jwt.MapClaims{"exp": now.Add(3 * time.Minute).Unix()}), now))
	assert.False(t, ShouldRefresh(sign(t, jwt.MapClaims{"exp": now.Add(30 * time.Minute).Unix()}), now))
}

func TestUserFromToken(t *testing.T) {
	raw := sign(t, jwt.MapClaims{
		"sub":      "user-42",
		"email":    "jane@example.com",
		"username": "jane",
		"roles":    []string{"member", "admin"},
	})

	u, err := UserFromToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-42", u.ID)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, "jane", u.Username)
	assert.Equal(t, []string{"member", "admin"}, u.Roles)
}

func TestUserFromToken_FallsBackToUserID(t *testing.T) {
	raw := sign(t, jwt.MapClaims{"userId": float64(7)})

	u, err := UserFromToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "7", u.ID)
	assert.Empty(t, u.Roles)
}

func TestInspect_Invalid(t *testing.T) {
	_, err := Inspect("")
	assert.Error(t, err)
	_, err = Inspect("a.b")
	assert.Error(t, err)
}
