package tui

import "github.com/docchat-dev/docchat/internal/chat"

// ============================================================================
// Controller Event Messages
// ============================================================================

// TurnAppendedMsg carries a turn that was added to the transcript.
type TurnAppendedMsg struct {
	Turn chat.Turn
}

// TranscriptResetMsg signals that the transcript was discarded wholesale.
type TranscriptResetMsg struct{}

// LoadingChangedMsg reports the pending-action flag.
type LoadingChangedMsg struct {
	Loading bool
}

// SessionChangedMsg carries the new session id, or "" when the session
// was discarded.
type SessionChangedMsg struct {
	ID string
}

// FileUploadedMsg signals that a file entered the uploaded-file ledger.
type FileUploadedMsg struct {
	File chat.UploadedFile
}

// UploadFailedMsg signals that a single file in a batch failed.
type UploadFailedMsg struct {
	Name   string
	Reason string
}

// ============================================================================
// Lifecycle Messages
// ============================================================================

// RestoreDoneMsg signals that the startup restore has settled.
type RestoreDoneMsg struct{}

// opDoneMsg signals that a user-triggered controller operation returned.
type opDoneMsg struct{}
