// Package api provides the HTTP client for the docchat backend.
// This file implements the client itself: request construction, the
// error envelope, and one method per backend endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const jsonContentType = "application/json"

// APIError is a server-reported failure: a non-2xx status with an error
// payload. Transport failures are returned as ordinary errors instead.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Client talks to the docchat backend over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// StartConversation requests a new conversation and returns its session id.
func (c *Client) StartConversation(ctx context.Context) (string, error) {
	var resp startResponse
	if err := c.postJSON(ctx, "/api/conversations/start/", nil, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

// SendMessage sends one user turn. sessionID may be empty, which asks the
// backend to create a conversation and assign an id.
func (c *Client) SendMessage(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	req := chatRequest{Message: message, SessionID: sessionID}
	var resp chatResponse
	if err := c.postJSON(ctx, "/api/chat/", req, &resp); err != nil {
		return nil, err
	}
	return &ChatReply{SessionID: resp.SessionID, Content: resp.AIMessage.Content}, nil
}

// UploadFile submits one file as multipart form data. sessionID may be empty;
// the returned id is the session the file was attached to.
func (c *Client) UploadFile(ctx context.Context, sessionID, name string, content io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("write file %s: %w", name, err)
	}
	if sessionID != "" {
		if err := writer.WriteField("session_id", sessionID); err != nil {
			return "", fmt.Errorf("write session field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload/", &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	var resp uploadResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

// GetConversation fetches the stored transcript for sessionID.
func (c *Client) GetConversation(ctx context.Context, sessionID string) ([]Message, error) {
	path := fmt.Sprintf("/api/conversations/%s/", sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build conversation request: %w", err)
	}
	req.Header.Set("Accept", jsonContentType)
	req.Header.Set("X-Request-ID", uuid.NewString())

	var resp conversationResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// ListConversations returns summaries of all conversations on the backend.
func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/conversations/", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	req.Header.Set("Accept", jsonContentType)
	req.Header.Set("X-Request-ID", uuid.NewString())

	var resp []Conversation
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteConversation removes the conversation identified by sessionID.
func (c *Client) DeleteConversation(ctx context.Context, sessionID string) error {
	path := fmt.Sprintf("/api/conversations/%s/delete/", sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	return c.do(req, nil)
}

// postJSON issues a POST with a JSON body (nil for an empty body) and
// decodes the response into out.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", jsonContentType)
	req.Header.Set("Accept", jsonContentType)
	req.Header.Set("X-Request-ID", uuid.NewString())

	return c.do(req, out)
}

// do executes the request, maps non-2xx responses to *APIError, and
// unmarshals a successful body into out when out is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var envelope errorResponse
		if err := json.Unmarshal(data, &envelope); err != nil || envelope.Error == "" {
			return &APIError{Status: res.StatusCode, Message: http.StatusText(res.StatusCode)}
		}
		return &APIError{Status: res.StatusCode, Message: envelope.Error}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
