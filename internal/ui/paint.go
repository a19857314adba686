package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// painter draws text onto one background color. lipgloss resets the
// background after each styled segment, so every run of spaces between
// segments is painted explicitly.
type painter struct {
	bg lipgloss.Color
}

func newPainter(bg string) painter {
	return painter{bg: lipgloss.Color(bg)}
}

// paint renders text in style with the background under every cell.
func (p painter) paint(text string, style lipgloss.Style) string {
	style = style.Background(p.bg)
	var b strings.Builder
	for text != "" {
		i := strings.IndexByte(text, ' ')
		switch {
		case i < 0:
			b.WriteString(style.Render(text))
			text = ""
		case i == 0:
			n := len(text) - len(strings.TrimLeft(text, " "))
			b.WriteString(p.blank(n))
			text = text[n:]
		default:
			b.WriteString(style.Render(text[:i]))
			text = text[i:]
		}
	}
	return b.String()
}

// blank returns n painted spaces.
func (p painter) blank(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(p.bg).Render(strings.Repeat(" ", n))
}

// fill pads content to width with the background.
func (p painter) fill(content string, width int) string {
	return lipgloss.NewStyle().Background(p.bg).Width(width).Render(content)
}
