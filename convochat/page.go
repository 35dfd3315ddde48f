package convochat

import (
	"fmt"
	"io"
	"sync"
)

// Renderer is the message container lines are appended to.
type Renderer interface {
	Append(line string)
}

// Input is the text field the user types into.
type Input interface {
	Value() string
	SetValue(v string)
}

// Page holds the host collaborators a widget is wired to.
type Page struct {
	Messages Renderer
	Input    Input
}

// FormatLine renders a message as "{user}: {content}".
func FormatLine(m Message) string {
	return m.User + ": " + m.Content
}

// SubmitEvent is a form submission. Hosts perform their default action
// (e.g. navigation) only when DefaultPrevented reports false.
type SubmitEvent struct {
	mu        sync.Mutex
	prevented bool
}

func (e *SubmitEvent) PreventDefault() {
	e.mu.Lock()
	e.prevented = true
	e.mu.Unlock()
}

func (e *SubmitEvent) DefaultPrevented() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prevented
}

// MessageList is an in-memory, append-only message container.
type MessageList struct {
	mu    sync.RWMutex
	lines []string
}

func (l *MessageList) Append(line string) {
	l.mu.Lock()
	l.lines = append(l.lines, line)
	l.mu.Unlock()
}

// Lines returns a copy of the rendered lines, oldest first.
func (l *MessageList) Lines() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len returns the number of rendered lines.
func (l *MessageList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.lines)
}

// LineRenderer writes each line to w followed by a newline.
type LineRenderer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewLineRenderer(w io.Writer) *LineRenderer {
	return &LineRenderer{w: w}
}

func (r *LineRenderer) Append(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.w, line)
}

// TextField is an in-memory Input safe for concurrent use.
type TextField struct {
	mu    sync.Mutex
	value string
}

func (f *TextField) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *TextField) SetValue(v string) {
	f.mu.Lock()
	f.value = v
	f.mu.Unlock()
}
