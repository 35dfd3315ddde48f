package convochat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Dispatcher routes server frames to registered callbacks.
type Dispatcher struct {
	onRender   func(Message)
	onPresence func(PresenceEvent)
	onUnknown  func(string)
}

func (d *Dispatcher) SetOnRender(fn func(Message))         { d.onRender = fn }
func (d *Dispatcher) SetOnPresence(fn func(PresenceEvent)) { d.onPresence = fn }
func (d *Dispatcher) SetOnUnknown(fn func(string))         { d.onUnknown = fn }

// Dispatch decodes one frame and invokes callbacks in frame order.
// A frame that is not valid JSON produces ErrorSerialization and no callbacks.
func (d *Dispatcher) Dispatch(data []byte) error {
	var frame ServerFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return WrapError(ErrorSerialization, "failed to unmarshal frame", err)
	}
	switch frame.Type {
	case TypeHistoricalMessages, TypeChatHistory:
		return d.history(frame.Messages)
	case TypeMessage, TypeChatMessage:
		if frame.Message == nil {
			return NewError(ErrorInvalidFrame, frame.Type+" frame without message")
		}
		d.render(*frame.Message)
	case TypeChatJoin:
		ev := PresenceEvent{Kind: PresenceJoined, User: frame.User, UserID: rawID(frame.UserID)}
		if frame.Message != nil {
			ev.User = frame.Message.User
			ev.Text = frame.Message.Content
		}
		if id := joinUserID(data); id != "" {
			ev.UserID = id
		}
		d.presence(ev)
	case TypeChatTyping:
		d.presence(PresenceEvent{Kind: PresenceTyping, User: frame.User, UserID: rawID(frame.UserID)})
	case TypeChatStopTyping:
		d.presence(PresenceEvent{Kind: PresenceStopTyping, User: frame.User, UserID: rawID(frame.UserID)})
	case TypeChatLeave:
		d.presence(PresenceEvent{Kind: PresenceLeft, User: frame.User, UserID: rawID(frame.UserID)})
	default:
		if d.onUnknown != nil {
			d.onUnknown(frame.Type)
		}
	}
	return nil
}

// history renders every entry that decodes, in order. Entries that do not
// are skipped and reported once the rest have rendered.
func (d *Dispatcher) history(entries []json.RawMessage) error {
	var bad int
	var first error
	for _, raw := range entries {
		var m Message
		if err := json.Unmarshal(raw, &m); err != nil {
			if first == nil {
				first = err
			}
			bad++
			continue
		}
		d.render(m)
	}
	if bad > 0 {
		return WrapError(ErrorInvalidFrame, fmt.Sprintf("skipped %d of %d history entries", bad, len(entries)), first)
	}
	return nil
}

func (d *Dispatcher) render(m Message) {
	if d.onRender != nil {
		d.onRender(m)
	}
}

func (d *Dispatcher) presence(ev PresenceEvent) {
	if d.onPresence != nil {
		d.onPresence(ev)
	}
}

// joinUserID pulls message.user_id out of a chat.join frame.
func joinUserID(data []byte) string {
	var join struct {
		Message struct {
			UserID json.RawMessage `json:"user_id"`
		} `json:"message"`
	}
	if err := json.Unmarshal(data, &join); err != nil {
		return ""
	}
	return rawID(join.Message.UserID)
}

// rawID renders a numeric or string JSON id as plain text.
func rawID(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return s
}
