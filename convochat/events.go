package convochat

// PresenceKind tells what a participant did.
type PresenceKind string

const (
	PresenceJoined     PresenceKind = "joined"
	PresenceTyping     PresenceKind = "typing"
	PresenceStopTyping PresenceKind = "stop_typing"
	PresenceLeft       PresenceKind = "left"
)

// PresenceEvent emitted when a participant joins, leaves or types.
// Text is set only for joins, where the server supplies a notice.
type PresenceEvent struct {
	Kind   PresenceKind
	User   string
	UserID string
	Text   string
}
