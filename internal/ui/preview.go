package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/five82/quickscript/internal/bridge"
)

// previewState holds the last local file opened for preview.
type previewState struct {
	path    string
	content string
	lines   int

	// markdown is set for .md files; they are rendered unless raw is toggled.
	markdown      bool
	raw           bool
	rendered      string
	renderedWidth int
}

func (p previewState) showRendered() bool {
	return p.markdown && !p.raw && p.rendered != ""
}

func isMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// renderMarkdown renders md for a terminal of the given width.
func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

func (m Model) handlePreviewLoaded(msg previewLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setFlash(bridge.Message(msg.err), true)
		return m, nil
	}
	m.preview = previewState{
		path:     msg.path,
		content:  msg.content,
		lines:    strings.Count(msg.content, "\n") + 1,
		markdown: isMarkdownPath(msg.path),
	}
	m.currentView = ViewPreview
	m.updatePreviewViewport()
	m.previewViewport.GotoTop()
	m.setFlash(fmt.Sprintf("Opened %s (%d lines)", msg.path, m.preview.lines), false)
	return m, nil
}

// updatePreviewViewport sizes the viewport and renders the file with line numbers.
func (m *Model) updatePreviewViewport() {
	if !m.ready {
		return
	}
	width := max(m.width-2, 10)
	height := max(m.contentHeight()-2, 1)
	if m.previewViewport.Width == 0 {
		m.previewViewport = viewport.New(width, height)
	}
	m.previewViewport.Width = width
	m.previewViewport.Height = height

	if m.preview.markdown && !m.preview.raw && m.preview.renderedWidth != width {
		out, err := renderMarkdown(m.preview.content, width)
		if err != nil {
			out = ""
		}
		m.preview.rendered = out
		m.preview.renderedWidth = width
	}
	m.previewViewport.SetContent(m.renderPreviewContent(width))
}

func (m Model) renderPreviewContent(width int) string {
	bg := newPainter(m.theme.FocusBg)
	styles := m.theme.Styles()
	if m.preview.path == "" {
		return bg.fill(bg.paint("Press o to open a local text file", styles.MutedText), width)
	}

	if m.preview.showRendered() {
		return m.preview.rendered
	}

	lines := strings.Split(strings.TrimRight(m.preview.content, "\n"), "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = bg.fill(
			bg.paint(fmt.Sprintf("%4d │ ", i+1), styles.FaintText)+bg.paint(line, styles.Text),
			width)
	}
	return strings.Join(out, "\n")
}

// renderPreview renders the preview view.
func (m Model) renderPreview() string {
	title := "Preview · " + truncateMiddle(m.preview.path, max(m.width/2, 20))
	if m.preview.showRendered() {
		title += " · markdown"
	}
	return m.renderTitledBox(title, m.previewViewport.View(), m.width, m.contentHeight(), true)
}

// handlePreviewKey scrolls the preview.
func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.RenderMarkdown):
		if m.preview.markdown {
			m.preview.raw = !m.preview.raw
			m.updatePreviewViewport()
			m.previewViewport.GotoTop()
		}
	case key.Matches(msg, m.keys.Down):
		m.previewViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.previewViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.previewViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.previewViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.previewViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.previewViewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.previewViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.previewViewport.PageUp()
	}
	return m, nil
}
