package convochat

import "time"

// Config controls how the widget connects.
type Config struct {
	Host             string // host[:port] the page was served from
	ConversationID   string // opaque, used verbatim as a path segment
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration // 0 keeps an idle conversation open
	WriteTimeout     time.Duration
	ReadLimit        int64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		ReadLimit:        1 << 20,
	}
}

func (c Config) validate() error {
	if c.Host == "" {
		return NewError(ErrorInvalidConfig, "empty host")
	}
	if c.ReadLimit < 0 {
		return NewError(ErrorInvalidConfig, "negative read limit")
	}
	return nil
}
