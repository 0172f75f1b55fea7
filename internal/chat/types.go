// Package chat implements the conversation session lifecycle: the
// controller that owns the session id, the append-only transcript, and
// the sequential upload coordinator.
package chat

import (
	"io"
	"time"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the transcript. Turns are never edited or
// deleted after creation.
type Turn struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// UploadedFile is a client-side ledger entry for a file attached to the
// current session. It is never re-sent to the server.
type UploadedFile struct {
	Name      string
	MIMEType  string
	SizeBytes int64
}

// FileUpload is a candidate file handed to the upload coordinator.
type FileUpload struct {
	Name     string
	MIMEType string
	Size     int64
	Content  io.Reader
}

// State is the controller's lifecycle state. There is no error state:
// failures are reported as transcript content and the controller always
// settles back into Fresh or Active.
type State int

const (
	// StateFresh means no conversation content is shown (welcome state).
	// A session id may still be held, e.g. right after StartNew.
	StateFresh State = iota
	// StateRestoring is a transient startup-only state while a stored
	// session is being fetched.
	StateRestoring
	// StateActive means the transcript holds turns for the current session.
	StateActive
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateRestoring:
		return "restoring"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}
