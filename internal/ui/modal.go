package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// promptKind says what a submitted prompt should trigger.
type promptKind int

const (
	promptSubmitFile promptKind = iota
	promptSubmitURL
	promptDownload
	promptPreview
)

// promptField is one labelled text input of a prompt.
type promptField struct {
	label string
	input textinput.Model
}

// promptModal collects one or more values and emits a promptSubmittedMsg.
type promptModal struct {
	kind   promptKind
	title  string
	jobID  string // set for job-scoped prompts
	fields []promptField
	focus  int
}

// promptSubmittedMsg carries the values of a confirmed prompt, in field order.
type promptSubmittedMsg struct {
	kind   promptKind
	jobID  string
	values []string
}

func newPrompt(kind promptKind, title, jobID string, fields ...promptField) *promptModal {
	p := &promptModal{kind: kind, title: title, jobID: jobID, fields: fields}
	if len(p.fields) > 0 {
		p.fields[0].input.Focus()
	}
	return p
}

// newField builds a prompt input with an optional initial value.
func newField(label, placeholder, value string) promptField {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = placeholder
	ti.CharLimit = 4096
	ti.Width = 48
	ti.SetValue(value)
	ti.CursorEnd()
	return promptField{label: label, input: ti}
}

func (p *promptModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Escape):
			return p, nil, true
		case key.Matches(km, keys.Confirm):
			submitted := promptSubmittedMsg{kind: p.kind, jobID: p.jobID, values: p.values()}
			return p, func() tea.Msg { return submitted }, true
		case key.Matches(km, keys.Tab), km.String() == "down":
			p.moveFocus(1)
			return p, nil, false
		case key.Matches(km, keys.ShiftTab), km.String() == "up":
			p.moveFocus(-1)
			return p, nil, false
		}
	}
	if len(p.fields) == 0 {
		return p, nil, false
	}
	var cmd tea.Cmd
	p.fields[p.focus].input, cmd = p.fields[p.focus].input.Update(msg)
	return p, cmd, false
}

func (p *promptModal) values() []string {
	out := make([]string, len(p.fields))
	for i, f := range p.fields {
		out[i] = strings.TrimSpace(f.input.Value())
	}
	return out
}

func (p *promptModal) moveFocus(delta int) {
	if len(p.fields) < 2 {
		return
	}
	p.fields[p.focus].input.Blur()
	p.focus = (p.focus + delta + len(p.fields)) % len(p.fields)
	p.fields[p.focus].input.Focus()
}

func (p *promptModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(p.title))
	b.WriteString("\n\n")
	for i, f := range p.fields {
		label := styles.MutedText
		if i == p.focus {
			label = styles.AccentText
		}
		b.WriteString(label.Render(f.label))
		b.WriteString("\n")
		b.WriteString(f.input.View())
		b.WriteString("\n\n")
	}
	hint := "enter confirm · esc cancel"
	if len(p.fields) > 1 {
		hint = "tab next field · " + hint
	}
	b.WriteString(styles.FaintText.Render(hint))

	return placeModal(theme, width, height, 60, b.String())
}

// confirmModal asks a yes/no question about a job.
type confirmModal struct {
	title string
	body  string
	jobID string
}

// cancelConfirmedMsg is emitted when the user confirms a cancellation.
type cancelConfirmedMsg struct {
	jobID string
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Yes), key.Matches(km, keys.Confirm):
		confirmed := cancelConfirmedMsg{jobID: c.jobID}
		return c, func() tea.Msg { return confirmed }, true
	case key.Matches(km, keys.No), key.Matches(km, keys.Escape):
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	content := styles.DangerText.Render(c.title) + "\n\n" +
		styles.Text.Render(c.body) + "\n\n" +
		styles.FaintText.Render("y confirm · n/esc keep")
	return placeModal(theme, width, height, 50, content)
}

// placeModal frames content and centers it on screen.
func placeModal(theme Theme, width, height, modalWidth int, content string) string {
	if width > 0 && modalWidth > width-4 {
		modalWidth = max(width-4, 20)
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
