// types.go defines the request and response shapes of the backend API.
package api

import "time"

// Message is a single stored message as returned by the backend.
type Message struct {
	Type    string `json:"message_type"` // user, assistant
	Content string `json:"content"`
}

// ChatReply is the result of sending a chat turn.
type ChatReply struct {
	SessionID string
	Content   string
}

// Conversation is a conversation summary as returned by the list endpoint.
type Conversation struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// chatRequest is the request body for POST /api/chat/.
// SessionID is omitted when empty, which tells the backend to assign one.
type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// startResponse is the response body for POST /api/conversations/start/.
type startResponse struct {
	SessionID string `json:"session_id"`
}

// chatResponse is the response body for POST /api/chat/.
type chatResponse struct {
	SessionID string `json:"session_id"`
	AIMessage struct {
		Content string `json:"content"`
	} `json:"ai_message"`
}

// uploadResponse is the response body for POST /api/upload/.
type uploadResponse struct {
	SessionID string `json:"session_id"`
}

// conversationResponse is the response body for GET /api/conversations/{id}/.
type conversationResponse struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}

// errorResponse is the error envelope carried by non-2xx responses.
type errorResponse struct {
	Error string `json:"error"`
}
