package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestSendMessageParsesReply(t *testing.T) {
	var gotBody chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"session_id": "abc",
			"ai_message": map[string]string{"content": "Hi there"},
		})
	})

	reply, err := client.SendMessage(context.Background(), "", "Hello")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if reply.SessionID != "abc" {
		t.Errorf("session id: got %q, want %q", reply.SessionID, "abc")
	}
	if reply.Content != "Hi there" {
		t.Errorf("content: got %q, want %q", reply.Content, "Hi there")
	}
	if gotBody.Message != "Hello" {
		t.Errorf("request message: got %q, want %q", gotBody.Message, "Hello")
	}
	if gotBody.SessionID != "" {
		t.Errorf("request session id should be omitted, got %q", gotBody.SessionID)
	}
}

func TestSendMessageIncludesSessionID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["session_id"] != "abc" {
			t.Errorf("session_id: got %v, want abc", body["session_id"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"session_id": "abc",
			"ai_message": map[string]string{"content": "ok"},
		})
	})

	if _, err := client.SendMessage(context.Background(), "abc", "Hello"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
}

func TestErrorEnvelopeSurfacedVerbatim(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "message too long"})
	})

	_, err := client.SendMessage(context.Background(), "", "Hello")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", apiErr.Status)
	}
	if apiErr.Message != "message too long" {
		t.Errorf("message: got %q, want %q", apiErr.Message, "message too long")
	}
}

func TestErrorWithoutEnvelopeUsesStatusText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>oops</html>"))
	})

	_, err := client.StartConversation(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("message: got %q", apiErr.Message)
	}
}

func TestUploadFileMultipartFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "report.pdf" {
			t.Errorf("filename: got %q, want report.pdf", header.Filename)
		}
		if got := r.FormValue("session_id"); got != "abc" {
			t.Errorf("session_id field: got %q, want abc", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"session_id": "abc"})
	})

	id, err := client.UploadFile(context.Background(), "abc", "report.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if id != "abc" {
		t.Errorf("session id: got %q, want abc", id)
	}
}

func TestUploadFileOmitsEmptySessionID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if _, ok := r.MultipartForm.Value["session_id"]; ok {
			t.Error("session_id field should be absent when no session exists")
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"session_id": "fresh"})
	})

	id, err := client.UploadFile(context.Background(), "", "a.png", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if id != "fresh" {
		t.Errorf("session id: got %q, want fresh", id)
	}
}

func TestGetConversationPreservesOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/conversations/abc/" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"session_id": "abc",
			"messages": []map[string]string{
				{"message_type": "user", "content": "one"},
				{"message_type": "assistant", "content": "two"},
				{"message_type": "user", "content": "three"},
			},
		})
	})

	messages, err := client.GetConversation(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}
	want := []string{"one", "two", "three"}
	if len(messages) != len(want) {
		t.Fatalf("message count: got %d, want %d", len(messages), len(want))
	}
	for i, content := range want {
		if messages[i].Content != content {
			t.Errorf("message %d: got %q, want %q", i, messages[i].Content, content)
		}
	}
}

func TestDeleteConversation(t *testing.T) {
	var called bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete || r.URL.Path != "/api/conversations/abc/delete/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	})

	if err := client.DeleteConversation(context.Background(), "abc"); err != nil {
		t.Fatalf("DeleteConversation failed: %v", err)
	}
	if !called {
		t.Error("delete endpoint was not called")
	}
}
