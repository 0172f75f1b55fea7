package chat

// Sink receives controller events for presentation. It is the only
// surface the core exposes toward rendering code: implementations
// translate these signals into visible UI state and must not call back
// into the Controller.
type Sink interface {
	// TurnAppended is emitted for every turn added to the transcript,
	// including restored history and error turns.
	TurnAppended(turn Turn)
	// TranscriptReset is emitted when the transcript is discarded
	// wholesale (new session, or restore about to repopulate it).
	TranscriptReset()
	// LoadingChanged reports the pending-action flag. It drives the
	// loading indicator and nothing else.
	LoadingChanged(loading bool)
	// SessionChanged reports a new session id, or "" when the session
	// was discarded.
	SessionChanged(id string)
	// FileUploaded is emitted when a file has been accepted into the
	// uploaded-file ledger.
	FileUploaded(file UploadedFile)
	// UploadFailed is emitted when a single file in a batch failed.
	UploadFailed(name, reason string)
}

// NopSink is a Sink that ignores every event.
type NopSink struct{}

func (NopSink) TurnAppended(Turn)           {}
func (NopSink) TranscriptReset()            {}
func (NopSink) LoadingChanged(bool)         {}
func (NopSink) SessionChanged(string)       {}
func (NopSink) FileUploaded(UploadedFile)   {}
func (NopSink) UploadFailed(string, string) {}
