package convochat

// ConnectionState represents the current state of the WebSocket connection.
type ConnectionState int

const (
	// StateConnecting lasts from construction until the socket opens.
	StateConnecting ConnectionState = iota

	// StateOpen means the socket is open and frames flow both ways.
	StateOpen
)

// String returns the string representation of a ConnectionState.
func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
