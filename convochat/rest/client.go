package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client provides access to the conversation directory API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new REST API client.
// baseURL should be the base URL of the API, e.g., "http://localhost:8000/api".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURLForHost returns the API base URL served next to the chat socket.
func BaseURLForHost(host string) string {
	return "http://" + host + "/api"
}

// SetHTTPClient allows setting a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.httpClient = client
	}
}

// ListUsers returns every user known to the server.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var resp []User
	if err := c.get(ctx, "/users/", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListConversations returns the conversations userID participates in.
func (c *Client) ListConversations(ctx context.Context, userID int64) ([]Conversation, error) {
	var resp []Conversation
	if err := c.post(ctx, "/conversations/", ListConversationsRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateConversation creates a conversation owned by req.UserID.
func (c *Client) CreateConversation(ctx context.Context, req CreateConversationRequest) (*Conversation, error) {
	if len(req.Participants) == 0 {
		return nil, fmt.Errorf("create conversation: no participants")
	}
	body := createConversationBody{
		UserID:       req.UserID,
		Title:        req.Title,
		Participants: strings.Join(req.Participants, ","),
	}
	var resp Conversation
	if err := c.post(ctx, "/conversations/create/", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Helper methods

func (c *Client) post(ctx context.Context, path string, body, dest any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, dest)
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("api error (status %d): %s", resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("http error: %s (status %d)", strings.TrimSpace(string(body)), resp.StatusCode)
	}

	if dest != nil {
		if err := json.Unmarshal(body, dest); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
