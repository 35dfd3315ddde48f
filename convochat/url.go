package convochat

import "strings"

const upperhex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s the way browsers' encodeURIComponent
// does: everything except ASCII letters, digits and -_.!~*'() is escaped
// byte by byte from its UTF-8 form.
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// ChatURL returns the socket URL for a conversation served from host.
func ChatURL(host, conversationID string) string {
	return "ws://" + host + "/ws/chat/" + EncodeComponent(conversationID) + "/"
}
