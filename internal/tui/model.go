// Package tui hosts a chat widget in a terminal: a scrolling message list
// above a single-line input whose Enter key submits the form.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/convochat/convochat"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFDF5")).Background(lipgloss.Color("62")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	inputStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62"))
)

// header + status line + bordered input
const chromeHeight = 1 + 1 + 3

// Submitter handles form submissions.
type Submitter interface {
	Submit(ctx context.Context, ev *convochat.SubmitEvent) error
}

// LineMsg appends a rendered line to the message list.
type LineMsg string

// StatusMsg replaces the status line.
type StatusMsg string

// Model is the bubbletea model. Use it through its pointer.
type Model struct {
	ctx       context.Context
	title     string
	submitter Submitter

	input    textinput.Model
	viewport viewport.Model
	lines    []string
	status   string
	err      error
	width    int
}

// New returns a model titled title. Submissions use ctx.
func New(ctx context.Context, title string) *Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message"
	ti.Prompt = "> "
	ti.Focus()

	vp := viewport.New(80, 20)
	// letters typed into the input must not scroll the list
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	return &Model{
		ctx:      ctx,
		title:    title,
		input:    ti,
		viewport: vp,
		status:   "connecting",
		width:    80,
	}
}

// Attach sets the widget that receives submissions.
func (m *Model) Attach(s Submitter) { m.submitter = s }

// Field exposes the text input to the widget.
func (m *Model) Field() convochat.Input { return field{m: m} }

// Lines returns the rendered lines.
func (m *Model) Lines() []string { return m.lines }

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.input.Width = max(msg.Width-4-len(m.input.Prompt), 1)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.submit()
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case LineMsg:
		m.lines = append(m.lines, string(msg))
		m.refresh()
		return m, nil

	case StatusMsg:
		m.status = string(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(inputStyle.Width(max(m.width-2, 1)).Render(m.input.View()))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	return b.String()
}

func (m *Model) submit() {
	m.err = nil
	if m.submitter == nil {
		return
	}
	ev := &convochat.SubmitEvent{}
	if err := m.submitter.Submit(m.ctx, ev); err != nil {
		m.err = err
	}
}

func (m *Model) refresh() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// field adapts the text input to convochat.Input. It is only touched from
// the bubbletea event loop, inside Update.
type field struct {
	m *Model
}

func (f field) Value() string     { return f.m.input.Value() }
func (f field) SetValue(v string) { f.m.input.SetValue(v) }

// ProgramRenderer forwards rendered lines into a running program.
type ProgramRenderer struct {
	p *tea.Program
}

func NewProgramRenderer(p *tea.Program) ProgramRenderer {
	return ProgramRenderer{p: p}
}

func (r ProgramRenderer) Append(line string) {
	r.p.Send(LineMsg(line))
}
