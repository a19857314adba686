package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quickscript/internal/backend"
	"github.com/five82/quickscript/internal/bridge"
)

// renderHeader renders the status bar: backend health and job counts.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.StylesOn(m.theme.Surface)
	bg := newPainter(m.theme.Surface)
	sep := bg.blank(2)

	parts := []string{bg.paint("quickscript", styles.Logo)}

	switch {
	case m.snapshot.LastUpdated.IsZero():
		parts = append(parts, bg.paint("Connecting...", styles.WarningText.Bold(true)))
	case m.snapshot.IsOffline():
		parts = append(parts, bg.paint("● BACKEND "+classifyConnectionError(m.snapshot.LastError), styles.DangerText))
	case m.snapshot.LastError != nil:
		parts = append(parts, bg.paint("● Retrying...", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.paint("● ON", styles.SuccessText))
	}

	active, done, failed := m.countJobs()
	parts = append(parts,
		bg.paint("Jobs:", styles.MutedText)+bg.blank(1)+bg.paint(fmt.Sprintf("%d", len(m.jobs)), styles.Text))
	if active > 0 {
		activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(backend.StatusProcessing)))
		parts = append(parts,
			bg.paint("Active:", styles.MutedText)+bg.blank(1)+bg.paint(fmt.Sprintf("%d", active), activeStyle))
	}
	if done > 0 {
		parts = append(parts,
			bg.paint("Done:", styles.MutedText)+bg.blank(1)+bg.paint(fmt.Sprintf("%d", done), styles.SuccessText))
	}
	if failed > 0 {
		parts = append(parts,
			bg.paint("Failed:", styles.MutedText)+bg.blank(1)+bg.paint(fmt.Sprintf("%d", failed), styles.DangerText))
	}

	if m.width >= LayoutCompactWidth && !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.paint("updated "+humanizeDuration(time.Since(m.snapshot.LastUpdated))+" ago", styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// countJobs tallies listed jobs by coarse state.
func (m Model) countJobs() (active, done, failed int) {
	for _, row := range m.rows() {
		switch row.status() {
		case backend.StatusQueued, backend.StatusProcessing:
			active++
		case backend.StatusComplete:
			done++
		case backend.StatusFailed:
			failed++
		}
	}
	return active, done, failed
}

// classifyConnectionError condenses a poll failure for the header.
func classifyConnectionError(err error) string {
	var shellErr *bridge.Error
	if errors.As(err, &shellErr) {
		switch shellErr.Kind {
		case bridge.KindTransport:
			return "UNREACHABLE"
		case bridge.KindDecode:
			return "BAD RESPONSE"
		}
	}
	return "ERROR"
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.StylesOn(m.theme.Surface)
	bg := newPainter(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"/", "Search"},
			{"n/N", "Next/Prev"},
			{"q", "Jobs"},
			{"?", "More"},
		}
	case ViewPreview:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"o", "Open"},
			{"q", "Jobs"},
			{"l", "Log"},
			{"?", "More"},
		}
	default: // ViewJobs
		commands = []cmd{
			{"a", "File"},
			{"u", "URL"},
			{"r", "Refresh"},
			{"d", "Download"},
			{"x", "Cancel"},
			{"o", "Preview"},
			{"l", "Log"},
			{"Tab", "Focus"},
			{"?", "More"},
		}
	}

	colon := bg.paint(":", styles.MutedText)
	sep := bg.blank(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.paint(c.key, styles.AccentText)+colon+bg.paint(c.desc, styles.MutedText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.paint("T", styles.AccentText)+colon+bg.paint(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderFooter shows the last action result while it is fresh.
func (m Model) renderFooter() string {
	styles := m.theme.StylesOn(m.theme.Surface)
	bg := newPainter(m.theme.Surface)

	content := ""
	if m.flash.text != "" && time.Since(m.flash.at) < flashDuration {
		style := styles.SuccessText
		if m.flash.isErr {
			style = styles.DangerText
		}
		content = bg.paint(truncate(m.flash.text, max(m.width-2, 10)), style)
	} else if m.snapshot.LastError != nil {
		content = bg.paint(truncate(bridge.Message(m.snapshot.LastError), max(m.width-2, 10)), styles.WarningText)
	}
	return styles.Footer.Width(m.width).Render(content)
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}
