package chat

import "time"

// Transcript is the ordered, append-only sequence of turns for the
// current session, plus the uploaded-file ledger that shares its
// lifetime. It is a pure state container: the Controller is its sole
// owner and synchronizes all access.
type Transcript struct {
	turns []Turn
	files []UploadedFile
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a turn at the end of the transcript and returns it with
// its timestamp filled in. No operation may reorder or remove turns.
func (t *Transcript) Append(turn Turn) Turn {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	t.turns = append(t.turns, turn)
	return turn
}

// AddFile records an uploaded file in the ledger.
func (t *Transcript) AddFile(file UploadedFile) {
	t.files = append(t.files, file)
}

// Reset discards all turns and the uploaded-file ledger. Used when a
// new session begins.
func (t *Transcript) Reset() {
	t.turns = nil
	t.files = nil
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Snapshot returns a copy of the turn sequence. Callers observe, never
// mutate, the transcript.
func (t *Transcript) Snapshot() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Files returns a copy of the uploaded-file ledger.
func (t *Transcript) Files() []UploadedFile {
	out := make([]UploadedFile, len(t.files))
	copy(out, t.files)
	return out
}
