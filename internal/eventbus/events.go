package eventbus

import (
	"time"

	"github.com/google/uuid"
)

// Meta identifies one occurrence of a session event.
type Meta struct {
	ID uuid.UUID
	At time.Time
}

// NewMeta stamps a new event.
func NewMeta() Meta {
	return Meta{ID: uuid.New(), At: time.Now().UTC()}
}

// SessionEstablished is published after login or registration stored a session.
type SessionEstablished struct {
	Meta
}

// SessionRefreshed is published after a renewal stored a new access credential.
type SessionRefreshed struct {
	Meta
	RefreshRotated bool
}

// SessionCleared is published whenever stored credentials are removed.
type SessionCleared struct {
	Meta
	Reason string
}

// ReauthRequired is published when the user must log in again.
type ReauthRequired struct {
	Meta
	Message string
}
