package convochat

import "encoding/json"

const (
	// server -> client
	TypeHistoricalMessages = "historical_messages"
	TypeMessage            = "message"
	TypeChatHistory        = "chat.history"
	TypeChatMessage        = "chat.message"
	TypeChatJoin           = "chat.join"
	TypeChatTyping         = "chat.typing"
	TypeChatStopTyping     = "chat.stop_typing"
	TypeChatLeave          = "chat.leave"

	// client -> server, besides TypeMessage
	TypeJoin       = "join"
	TypeTyping     = "typing"
	TypeStopTyping = "stop_typing"
	TypeLeave      = "leave"
)

// Message is a single chat line.
type Message struct {
	User      string `json:"user"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// UnmarshalJSON accepts the text under "content" or, when that key is
// absent, under "message".
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		User      string  `json:"user"`
		Content   *string `json:"content"`
		Message   string  `json:"message"`
		Timestamp string  `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.User = raw.User
	m.Timestamp = raw.Timestamp
	if raw.Content != nil {
		m.Content = *raw.Content
	} else {
		m.Content = raw.Message
	}
	return nil
}

// ServerFrame is the envelope server -> client. History entries are kept
// raw so each one decodes on its own.
type ServerFrame struct {
	Type     string            `json:"type"`
	Messages []json.RawMessage `json:"messages,omitempty"`
	Message  *Message          `json:"message,omitempty"`
	User     string            `json:"user,omitempty"`
	UserID   json.RawMessage   `json:"user_id,omitempty"`
}

// MessageFrame carries user input client -> server.
type MessageFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ControlFrame carries a bare action client -> server.
type ControlFrame struct {
	Type string `json:"type"`
}
