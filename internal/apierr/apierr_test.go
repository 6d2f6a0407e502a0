package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Precedence(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		statusText string
		want       string
	}{
		{"nested data message", `{"success":false,"data":{"message":"group not found","error":"x"},"message":"outer"}`, "Not Found", "group not found"},
		{"nested data error", `{"data":{"error":"bad amount"},"message":"outer"}`, "Bad Request", "bad amount"},
		{"top-level message", `{"success":false,"message":"email taken","error":"conflict"}`, "Conflict", "email taken"},
		{"top-level error", `{"success":false,"error":"forbidden"}`, "Forbidden", "forbidden"},
		{"error object", `{"error":{"code":"E1","message":"quota exceeded"}}`, "Too Many Requests", "quota exceeded"},
		{"status text fallback", `{"success":false}`, "Internal Server Error", "Internal Server Error"},
		{"non-json body", `<html>oops</html>`, "Bad Gateway", "Bad Gateway"},
		{"generic fallback", ``, "", DefaultMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Message([]byte(tc.body), tc.statusText))
		})
	}
}

func TestFromResponse_Kinds(t *testing.T) {
	assert.Equal(t, KindAuthExpired, FromResponse(http.StatusUnauthorized, nil).Kind)
	assert.Equal(t, KindValidation, FromResponse(http.StatusBadRequest, nil).Kind)
	assert.Equal(t, KindValidation, FromResponse(http.StatusUnprocessableEntity, nil).Kind)
	assert.Equal(t, KindValidation, FromResponse(http.StatusConflict, nil).Kind)
	assert.Equal(t, KindServer, FromResponse(http.StatusNotFound, nil).Kind)
	assert.Equal(t, KindServer, FromResponse(http.StatusInternalServerError, nil).Kind)
}

func TestFromResponse_CarriesStatus(t *testing.T) {
	err := FromResponse(http.StatusNotFound, []byte(`{"message":"no such group"}`))
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "Not Found", err.StatusText)
	assert.Equal(t, "no such group", err.Message)
	assert.False(t, err.Network())
	assert.Contains(t, err.Error(), "404")
}

func TestSentinels_MatchByKind(t *testing.T) {
	wrapped := fmt.Errorf("list groups: %w", ReauthRequired(SessionExpiredMessage, errors.New("refresh 401")))

	assert.True(t, errors.Is(wrapped, ErrReauthRequired))
	assert.False(t, errors.Is(wrapped, ErrNetwork))
	assert.Equal(t, KindReauthRequired, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestNetwork(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Network(cause)

	require.True(t, err.Network())
	assert.Equal(t, NetworkMessage, err.Message)
	assert.Zero(t, err.Status)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrNetwork)
}
