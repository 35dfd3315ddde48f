package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/convochat/convochat"
)

// formSubmitter applies the widget's form rules to a field without a socket.
type formSubmitter struct {
	field  convochat.Input
	sent   []string
	events []*convochat.SubmitEvent
	err    error
}

func (s *formSubmitter) Submit(_ context.Context, ev *convochat.SubmitEvent) error {
	ev.PreventDefault()
	s.events = append(s.events, ev)
	if s.err != nil {
		return s.err
	}
	v := s.field.Value()
	if strings.TrimSpace(v) == "" {
		return nil
	}
	s.sent = append(s.sent, v)
	s.field.SetValue("")
	return nil
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestModelEnterSubmitsInput(t *testing.T) {
	m := New(context.Background(), "conversation 42")
	s := &formSubmitter{field: m.Field()}
	m.Attach(s)

	typeText(m, "hello")
	require.Equal(t, "hello", m.Field().Value())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Equal(t, []string{"hello"}, s.sent)
	require.Equal(t, "", m.Field().Value())
	require.Len(t, s.events, 1)
	require.True(t, s.events[0].DefaultPrevented())
}

func TestModelEnterOnBlankKeepsInput(t *testing.T) {
	m := New(context.Background(), "c")
	s := &formSubmitter{field: m.Field()}
	m.Attach(s)

	typeText(m, "   ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Empty(t, s.sent)
	require.Equal(t, "   ", m.Field().Value())
}

func TestModelShowsSubmitError(t *testing.T) {
	m := New(context.Background(), "c")
	m.Attach(&formSubmitter{field: m.Field(), err: errors.New("not_connected: socket is not open")})

	typeText(m, "hi")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Contains(t, m.View(), "not_connected")
}

func TestModelAppendsLines(t *testing.T) {
	m := New(context.Background(), "c")
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m.Update(LineMsg("alice: hi"))
	m.Update(LineMsg("bob: yo"))
	m.Update(StatusMsg("connected"))

	require.Equal(t, []string{"alice: hi", "bob: yo"}, m.Lines())
	view := m.View()
	require.Contains(t, view, "alice: hi")
	require.Contains(t, view, "bob: yo")
	require.Contains(t, view, "connected")
}

func TestModelTypedLettersDoNotScroll(t *testing.T) {
	m := New(context.Background(), "c")
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 8})
	for i := 0; i < 20; i++ {
		m.Update(LineMsg("line"))
	}
	require.True(t, m.viewport.AtBottom())

	typeText(m, "k")
	require.True(t, m.viewport.AtBottom())
	require.Equal(t, "k", m.Field().Value())
}

func TestModelQuitKeys(t *testing.T) {
	m := New(context.Background(), "c")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}
