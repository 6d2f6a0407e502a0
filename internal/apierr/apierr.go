// Package apierr classifies failed Splitora API calls into the kinds the
// rest of the client reacts to, each carrying a display-ready message.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the category of a failed call.
type Kind int

const (
	KindUnknown Kind = iota
	// KindAuthExpired is an unauthorized response that has not been retried yet.
	KindAuthExpired
	// KindReauthRequired means the session could not be renewed.
	KindReauthRequired
	// KindNetwork means no response was received.
	KindNetwork
	// KindServer is a failure envelope or a non-2xx status.
	KindServer
	// KindValidation is a request the backend rejected as invalid.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindAuthExpired:
		return "authentication_expired"
	case KindReauthRequired:
		return "reauthentication_required"
	case KindNetwork:
		return "network_unreachable"
	case KindServer:
		return "server_error"
	case KindValidation:
		return "validation_error"
	default:
		return "unknown"
	}
}

// Sentinels usable with errors.Is against any *Error of the same kind.
var (
	ErrAuthExpired    = &Error{Kind: KindAuthExpired}
	ErrReauthRequired = &Error{Kind: KindReauthRequired}
	ErrNetwork        = &Error{Kind: KindNetwork}
	ErrServer         = &Error{Kind: KindServer}
	ErrValidation     = &Error{Kind: KindValidation}
)

const (
	DefaultMessage        = "An error occurred"
	NetworkMessage        = "Network error. Please check your connection."
	NoRefreshMessage      = "No refresh token available. Please log in again."
	SessionExpiredMessage = "Your session has expired. Please log in again."
)

// Error is the uniform error surfaced to callers.
type Error struct {
	Kind       Kind
	Message    string
	Status     int
	StatusText string
	Body       []byte
	Cause      error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches on kind so callers can use the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Network reports whether no response was received at all.
func (e *Error) Network() bool { return e.Kind == KindNetwork }

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Network builds a NetworkUnreachable error wrapping the transport failure.
func Network(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: NetworkMessage, Cause: cause}
}

// ReauthRequired builds the error returned when the session could not be renewed.
func ReauthRequired(message string, cause error) *Error {
	return &Error{Kind: KindReauthRequired, Message: message, Status: http.StatusUnauthorized, Cause: cause}
}

// FromResponse classifies a completed HTTP exchange that was not a success.
func FromResponse(status int, body []byte) *Error {
	kind := KindServer
	switch status {
	case http.StatusUnauthorized:
		kind = KindAuthExpired
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		kind = KindValidation
	}
	statusText := http.StatusText(status)
	return &Error{
		Kind:       kind,
		Message:    Message(body, statusText),
		Status:     status,
		StatusText: statusText,
		Body:       body,
	}
}

// Message picks the most specific human-readable message from a failure
// body: a nested data.message or data.error, then the top-level message or
// error, then statusText, then DefaultMessage.
func Message(body []byte, statusText string) string {
	var env struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
		Data    json.RawMessage `json:"data"`
	}
	if len(body) > 0 && json.Unmarshal(body, &env) == nil {
		if len(env.Data) > 0 {
			var nested struct {
				Message json.RawMessage `json:"message"`
				Error   json.RawMessage `json:"error"`
			}
			if json.Unmarshal(env.Data, &nested) == nil {
				if msg := text(nested.Message); msg != "" {
					return msg
				}
				if msg := text(nested.Error); msg != "" {
					return msg
				}
			}
		}
		if msg := text(env.Message); msg != "" {
			return msg
		}
		if msg := text(env.Error); msg != "" {
			return msg
		}
	}
	if statusText != "" {
		return statusText
	}
	return DefaultMessage
}

// text renders a JSON value as a message: strings as-is, objects via their
// own message field.
func text(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return strings.TrimSpace(obj.Message)
	}
	return ""
}
