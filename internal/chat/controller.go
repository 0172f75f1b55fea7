package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/docchat-dev/docchat/internal/api"
	"github.com/docchat-dev/docchat/internal/log"
)

// Backend is the slice of the HTTP API the controller consumes.
// *api.Client satisfies it.
type Backend interface {
	StartConversation(ctx context.Context) (string, error)
	SendMessage(ctx context.Context, sessionID, message string) (*api.ChatReply, error)
	UploadFile(ctx context.Context, sessionID, name string, content io.Reader) (string, error)
	GetConversation(ctx context.Context, sessionID string) ([]api.Message, error)
}

// SessionStore is the durable slot holding the session id between runs.
// *session.Store satisfies it.
type SessionStore interface {
	Save(id string) error
	Load() (string, bool, error)
	Clear() error
}

// Controller owns the session identifier and orchestrates restore,
// new-chat, send and upload operations. It is the sole writer of the
// SessionStore and the sole mutator of the transcript.
//
// Each operation snapshots the session generation it was issued
// against and discards its network result on resumption if the
// generation has moved on, so a slow response can never attach to a
// session it does not belong to.
//
// No operation returns an error: transport and server failures are
// converted into assistant-role error turns, which is the controller's
// single error-reporting channel.
type Controller struct {
	mu         sync.Mutex
	backend    Backend
	store      SessionStore
	sink       Sink
	logger     *log.Logger
	transcript *Transcript
	sessionID  string
	state      State
	generation uint64
	loading    bool
}

// NewController creates a Controller in the Fresh state. sink may be
// nil; logger may be nil to disable event logging.
func NewController(backend Backend, store SessionStore, sink Sink, logger *log.Logger) *Controller {
	if sink == nil {
		sink = NopSink{}
	}
	return &Controller{
		backend:    backend,
		store:      store,
		sink:       sink,
		logger:     logger,
		transcript: NewTranscript(),
		state:      StateFresh,
	}
}

// SessionID returns the current session id, or "" if none.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// State returns the controller's lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loading reports whether a user-initiated network action is outstanding.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Snapshot returns a copy of the current transcript.
func (c *Controller) Snapshot() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Snapshot()
}

// Files returns a copy of the uploaded-file ledger.
func (c *Controller) Files() []UploadedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Files()
}

// Restore loads the stored session id and rebuilds the transcript from
// the backend. With no stored id the controller stays Fresh. A fetch
// failure of any kind is treated as "no such session": the id is
// dropped, the durable slot is cleared and the controller returns to
// Fresh. Restore never reports an error to the caller.
func (c *Controller) Restore(ctx context.Context) {
	c.mu.Lock()
	id, ok, err := c.store.Load()
	if err != nil || !ok {
		c.state = StateFresh
		c.mu.Unlock()
		return
	}
	c.sessionID = id
	c.state = StateRestoring
	gen := c.generation
	c.mu.Unlock()

	messages, err := c.backend.GetConversation(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	if err != nil {
		c.clearSessionLocked()
		c.state = StateFresh
		c.logEvent(log.LogEvent{Event: log.EventRestoreFailed, SessionID: id, Error: err.Error()})
		return
	}
	if len(messages) == 0 {
		// Nothing to show, but the session stays valid.
		c.state = StateFresh
		c.logEvent(log.LogEvent{Event: log.EventSessionRestored, SessionID: id})
		return
	}

	c.transcript.Reset()
	c.sink.TranscriptReset()
	for _, m := range messages {
		turn := c.transcript.Append(Turn{Role: Role(m.Type), Content: m.Content})
		c.sink.TurnAppended(turn)
	}
	c.state = StateActive
	c.logEvent(log.LogEvent{Event: log.EventSessionRestored, SessionID: id, Turns: len(messages)})
}

// StartNew requests a fresh conversation from the backend. On success
// the new id is adopted and persisted, the transcript and ledger are
// discarded, and the welcome state is shown. On failure the current
// state is kept and the failure is reported as an error turn.
func (c *Controller) StartNew(ctx context.Context) {
	id, err := c.backend.StartConversation(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.appendErrorTurnLocked("Failed to start new conversation")
		return
	}

	c.adoptSessionLocked(id)
	c.transcript.Reset()
	c.sink.TranscriptReset()
	c.state = StateFresh
	c.logEvent(log.LogEvent{Event: log.EventConversationStarted, SessionID: id})
}

// SendMessage sends one user turn. Empty or whitespace-only text is a
// no-op. The user turn is appended optimistically and survives a
// failed round-trip; failures become error turns. The pending-action
// flag is always cleared on completion.
func (c *Controller) SendMessage(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	c.mu.Lock()
	turn := c.transcript.Append(Turn{Role: RoleUser, Content: text})
	c.sink.TurnAppended(turn)
	c.setLoadingLocked(true)
	sid := c.sessionID
	gen := c.generation
	c.mu.Unlock()

	reply, err := c.backend.SendMessage(ctx, sid, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.setLoadingLocked(false)
	if c.generation != gen {
		// The session moved on while this send was in flight.
		return
	}
	if err != nil {
		c.appendErrorTurnLocked(failureText(err, "Failed to send message"))
		c.logEvent(log.LogEvent{Event: log.EventMessageFailed, SessionID: sid, Error: err.Error()})
		return
	}

	// The returned id may differ from what was sent, e.g. when no
	// session existed yet.
	c.adoptSessionLocked(reply.SessionID)
	assistant := c.transcript.Append(Turn{Role: RoleAssistant, Content: reply.Content})
	c.sink.TurnAppended(assistant)
	c.state = StateActive
	c.logEvent(log.LogEvent{Event: log.EventMessageSent, SessionID: c.sessionID})
}

// setLoadingLocked updates the pending-action flag. A single boolean
// with no reference counting: overlapping actions may clear it while
// another is still outstanding.
func (c *Controller) setLoadingLocked(loading bool) {
	if c.loading == loading {
		return
	}
	c.loading = loading
	c.sink.LoadingChanged(loading)
}

// adoptSessionLocked installs a server-confirmed session id, persists
// it, and bumps the generation so results of actions issued against
// the previous id are discarded.
func (c *Controller) adoptSessionLocked(id string) {
	if id == "" || id == c.sessionID {
		return
	}
	c.sessionID = id
	c.generation++
	_ = c.store.Save(id)
	c.sink.SessionChanged(id)
}

// clearSessionLocked drops the in-memory id and the durable slot.
func (c *Controller) clearSessionLocked() {
	c.sessionID = ""
	c.generation++
	_ = c.store.Clear()
	c.sink.SessionChanged("")
}

func (c *Controller) appendErrorTurnLocked(message string) {
	turn := c.transcript.Append(Turn{Role: RoleAssistant, Content: "Error: " + message})
	c.sink.TurnAppended(turn)
}

func (c *Controller) logEvent(event log.LogEvent) {
	if c.logger == nil {
		return
	}
	_ = c.logger.Append(event)
}

// failureText renders an error for transcript display: server-reported
// messages verbatim, a generic fallback for transport failures.
func failureText(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
