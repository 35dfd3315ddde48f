package rest

import "time"

// User is a chat account as the directory API exposes it.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Conversation represents conversation metadata. Its ID is what the chat
// widget dials as the conversation identifier.
type Conversation struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Owner     User      `json:"owner"`
}

// ListConversationsRequest selects conversations the user participates in.
type ListConversationsRequest struct {
	UserID int64 `json:"user_id"`
}

// CreateConversationRequest is the request body for creating a conversation.
// The owner is added as a participant by the server.
type CreateConversationRequest struct {
	UserID       int64    `json:"user_id"`
	Title        string   `json:"title"`
	Participants []string `json:"-"` // participant emails
}

// createConversationBody is the wire form: participants travel as one
// comma-separated string.
type createConversationBody struct {
	UserID       int64  `json:"user_id"`
	Title        string `json:"title"`
	Participants string `json:"conversation_participants"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
