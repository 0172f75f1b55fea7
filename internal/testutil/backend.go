// Package testutil provides test helper utilities for docchat tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// StoredMessage mirrors the backend's message shape.
type StoredMessage struct {
	Type    string `json:"message_type"`
	Content string `json:"content"`
}

// FakeBackend is an in-memory stand-in for the docchat backend. It
// implements all six endpoints over httptest, records requests in
// arrival order, and can be scripted to fail individual operations.
type FakeBackend struct {
	mu            sync.Mutex
	server        *httptest.Server
	conversations map[string][]StoredMessage
	nextID        int
	requests      []string

	// Failure scripting: a non-empty string makes the operation fail
	// with that error message.
	FailStart  string
	FailChat   string
	FailUpload string

	// ReplyFn produces the assistant reply for a chat turn. Defaults
	// to an echo.
	ReplyFn func(message string) string
}

// NewFakeBackend starts the fake server. It is shut down when the test
// finishes.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	b := &FakeBackend{
		conversations: make(map[string][]StoredMessage),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/conversations/start/", b.handleStart)
	mux.HandleFunc("POST /api/chat/", b.handleChat)
	mux.HandleFunc("POST /api/upload/", b.handleUpload)
	mux.HandleFunc("GET /api/conversations/", b.handleList)
	mux.HandleFunc("GET /api/conversations/{id}/", b.handleGet)
	mux.HandleFunc("DELETE /api/conversations/{id}/delete/", b.handleDelete)
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the base URL of the fake server.
func (b *FakeBackend) URL() string {
	return b.server.URL
}

// Requests returns the recorded "METHOD path" lines in arrival order.
func (b *FakeBackend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.requests))
	copy(out, b.requests)
	return out
}

// Seed installs a conversation with the given messages.
func (b *FakeBackend) Seed(sessionID string, messages []StoredMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[sessionID] = messages
}

// Messages returns the stored messages for a session.
func (b *FakeBackend) Messages(sessionID string) []StoredMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]StoredMessage, len(b.conversations[sessionID]))
	copy(out, b.conversations[sessionID])
	return out
}

func (b *FakeBackend) record(r *http.Request) {
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
}

func (b *FakeBackend) newSessionID() string {
	b.nextID++
	return fmt.Sprintf("conv-%d", b.nextID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (b *FakeBackend) handleStart(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(r)

	if b.FailStart != "" {
		writeError(w, http.StatusInternalServerError, b.FailStart)
		return
	}
	id := b.newSessionID()
	b.conversations[id] = nil
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (b *FakeBackend) handleChat(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(r)

	if b.FailChat != "" {
		writeError(w, http.StatusInternalServerError, b.FailChat)
		return
	}

	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := req.SessionID
	if id == "" {
		id = b.newSessionID()
	}

	reply := "echo: " + req.Message
	if b.ReplyFn != nil {
		reply = b.ReplyFn(req.Message)
	}

	b.conversations[id] = append(b.conversations[id],
		StoredMessage{Type: "user", Content: req.Message},
		StoredMessage{Type: "assistant", Content: reply},
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"ai_message": map[string]string{"content": reply},
	})
}

func (b *FakeBackend) handleUpload(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(r)

	if b.FailUpload != "" {
		writeError(w, http.StatusInternalServerError, b.FailUpload)
		return
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	id := r.FormValue("session_id")
	if id == "" {
		id = b.newSessionID()
	} else if _, ok := b.conversations[id]; !ok {
		b.conversations[id] = nil
	}

	writeJSON(w, http.StatusOK, map[string]string{"session_id": id})
}

func (b *FakeBackend) handleGet(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(r)

	id := r.PathValue("id")
	messages, ok := b.conversations[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if messages == nil {
		messages = []StoredMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"messages":   messages,
	})
}

func (b *FakeBackend) handleList(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(r)

	out := make([]map[string]any, 0, len(b.conversations))
	for id, messages := range b.conversations {
		if messages == nil {
			messages = []StoredMessage{}
		}
		out = append(out, map[string]any{
			"session_id": id,
			"messages":   messages,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *FakeBackend) handleDelete(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(r)

	id := r.PathValue("id")
	if _, ok := b.conversations[id]; !ok {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	delete(b.conversations, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation deleted successfully"})
}
