package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quickscript/internal/backend"
	"github.com/five82/quickscript/internal/state"
)

// Display states for jobs that have no parsed backend status.
const (
	statusPending = "pending" // registered, not polled yet
	statusUnknown = "unknown" // polled, payload is not a job status
)

// jobRow is one job as the table shows it.
type jobRow struct {
	id    string
	entry state.JobEntry
	found bool // entry came from the latest snapshot
}

// status returns the label used for the badge and status colors.
func (r jobRow) status() string {
	switch {
	case !r.found:
		return statusPending
	case r.entry.HasStatus:
		return strings.ToLower(r.entry.Status.Status)
	case r.entry.Err != nil:
		return backend.StatusFailed
	default:
		return statusUnknown
	}
}

// rows pairs the registry order with the latest snapshot.
func (m Model) rows() []jobRow {
	rows := make([]jobRow, 0, len(m.jobs))
	for _, id := range m.jobs {
		entry, ok := m.snapshot.Job(id)
		rows = append(rows, jobRow{id: id, entry: entry, found: ok})
	}
	return rows
}

// selectedJob returns the highlighted job id, or "" when the list is empty.
func (m Model) selectedJob() string {
	if m.selectedRow < 0 || m.selectedRow >= len(m.jobs) {
		return ""
	}
	return m.jobs[m.selectedRow]
}

// selectJob moves the selection to id if it is listed.
func (m *Model) selectJob(id string) {
	for i, j := range m.jobs {
		if j == id {
			m.selectedRow = i
			return
		}
	}
}

// updateJobsTable clamps the selection after the job list changed.
func (m *Model) updateJobsTable() {
	if len(m.jobs) == 0 {
		m.selectedRow = 0
		return
	}
	if m.selectedRow >= len(m.jobs) {
		m.selectedRow = len(m.jobs) - 1
	}
}

// handleJobsKey processes keyboard input for the jobs view.
func (m Model) handleJobsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SubmitFile):
		m.modal = newPrompt(promptSubmitFile, "Submit file", "",
			newField("Path", "~/Recordings/interview.m4a", ""))
		return m, nil

	case key.Matches(msg, m.keys.SubmitURL):
		m.modal = newPrompt(promptSubmitURL, "Submit URL", "",
			newField("URL", "https://www.youtube.com/watch?v=…", ""))
		return m, nil
	}

	jobID := m.selectedJob()
	if jobID == "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, fetchStatusCmd(m.ctx, m.ops, jobID)

	case key.Matches(msg, m.keys.Download):
		pathField := newField("Save to", m.defaultSavePath(jobID, m.prefs.Format), "")
		m.modal = newPrompt(promptDownload, "Download result of "+truncateMiddle(jobID, 24), jobID,
			newField("Format ("+strings.Join(backend.Formats, ", ")+")", m.prefs.Format, m.prefs.Format),
			pathField)
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.modal = &confirmModal{
			title: "Cancel job",
			body:  fmt.Sprintf("Delete job %s on the backend?", jobID),
			jobID: jobID,
		}
		return m, nil
	}

	if m.focusedPane == 1 {
		return m.scrollDetail(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(m.jobs)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = len(m.jobs) - 1
	default:
		return m, nil
	}
	m.updateDetailViewport()
	m.detailViewport.GotoTop()
	return m, nil
}

func (m Model) scrollDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.detailViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.detailViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.detailViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.detailViewport.HalfPageUp()
	}
	return m, nil
}

// paneWidths splits the jobs view between table and detail.
// Extra wide (>= 160): 30% table, 70% detail. Default: 40% table, 60% detail.
func (m Model) paneWidths() (table, detail int) {
	if m.width >= LayoutExtraWideWidth {
		table = m.width * 30 / 100
	} else {
		table = m.width * 40 / 100
	}
	return table, m.width - table
}

// renderJobs renders the jobs view with split layout (table + detail).
func (m Model) renderJobs() string {
	styles := m.theme.Styles()
	contentHeight := m.contentHeight()

	if len(m.jobs) == 0 {
		emptyMsg := styles.MutedText.Render("No jobs submitted yet") + "\n\n" +
			styles.FaintText.Render("a submit file · u submit URL · o preview a local file")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	tableWidth, detailWidth := m.paneWidths()

	// === Table Pane ===
	tableFocused := m.focusedPane == 0
	tableBg := m.theme.SurfaceAlt
	if tableFocused {
		tableBg = m.theme.FocusBg
	}
	tableTitle := fmt.Sprintf("Jobs (%d)", len(m.jobs))
	tableContent := m.renderJobsTable(tableWidth-2, tableBg) // -2 for borders
	tablePane := m.renderTitledBox(tableTitle, tableContent, tableWidth, contentHeight, tableFocused)

	// === Detail Pane ===
	detailPane := m.renderTitledBox("Details", m.detailViewport.View(), detailWidth, contentHeight, m.focusedPane == 1)

	// Join side-by-side
	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, detailPane)
}

// renderJobsTable renders the jobs as styled rows.
func (m Model) renderJobsTable(width int, bgColor string) string {
	var lines []string
	for i, row := range m.rows() {
		rowBg := bgColor
		if i == m.selectedRow {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatJobRow(row, width, rowBg, i == m.selectedRow)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			Render(content))
	}
	return strings.Join(lines, "\n")
}

// formatJobRow formats a row as "<status> <id> <progress>".
// When selected is true, uses SelectionText color for all text to ensure contrast.
func (m Model) formatJobRow(row jobRow, width int, bgColor string, selected bool) string {
	bg := newPainter(bgColor)
	styles := m.theme.Styles()

	status := row.status()
	badge := m.theme.StatusBadge(status).Render(padRight(titleCase(status), 10))

	progress := ""
	if row.entry.HasStatus {
		progress = fmt.Sprintf("%3.0f%%", clampPercent(row.entry.Status.Progress*100))
	}

	idWidth := max(width-lipgloss.Width(badge)-len(progress)-3, 4)
	idStyle := styles.Text
	if selected {
		idStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
	}
	id := bg.paint(padRight(truncateMiddle(row.id, idWidth), idWidth), idStyle)

	return bg.blank(1) + badge + bg.blank(1) + id + bg.blank(1) + bg.paint(progress, styles.MutedText)
}

// updateDetailViewport renders the selected job into the detail viewport.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	_, detailWidth := m.paneWidths()
	innerWidth := max(detailWidth-2, 10)
	innerHeight := max(m.contentHeight()-2, 1)

	if m.detailViewport.Width == 0 {
		m.detailViewport = viewport.New(innerWidth, innerHeight)
	}
	m.detailViewport.Width = innerWidth
	m.detailViewport.Height = innerHeight
	m.detailViewport.SetContent(m.renderDetailContent(innerWidth))
}

// renderDetailContent lists the selected job's fields and its raw payload.
func (m Model) renderDetailContent(width int) string {
	styles := m.theme.Styles()
	jobID := m.selectedJob()
	if jobID == "" {
		return styles.MutedText.Render("Select a job")
	}

	row := jobRow{id: jobID}
	row.entry, row.found = m.snapshot.Job(jobID)

	raw := row.entry.Raw
	fetchedNote := ""
	if f, ok := m.fetched[jobID]; ok && f.err == nil && f.at.After(m.snapshot.LastUpdated) {
		raw = f.raw
		row.found = true
		row.entry.Status, row.entry.HasStatus = backend.ParseStatus(f.raw)
		row.entry.Err = nil
		fetchedNote = "fetched " + f.at.Format("15:04:05")
	}

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted)).Width(10)
	field := func(b *strings.Builder, name, value string, style lipgloss.Style) {
		b.WriteString(label.Render(name))
		b.WriteString(style.Render(value))
		b.WriteString("\n")
	}

	var b strings.Builder
	field(&b, "Job", jobID, styles.Text.Bold(true))

	status := row.status()
	field(&b, "Status", titleCase(status), lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(status))))

	if row.entry.HasStatus {
		st := row.entry.Status
		percent := clampPercent(st.Progress * 100)
		barWidth := max(min(width-10-6, 40), 5)
		field(&b, "Progress", renderProgressBar(percent, barWidth)+fmt.Sprintf(" %3.0f%%", percent), styles.AccentText)
		if msg := st.MessageText(); msg != "" {
			msgStyle := styles.Text
			if strings.EqualFold(st.Status, backend.StatusFailed) {
				msgStyle = styles.DangerText
			}
			field(&b, "Message", msg, msgStyle)
		}
		if st.ResultURL != nil && *st.ResultURL != "" {
			field(&b, "Result", *st.ResultURL, styles.InfoText)
		}
		if st.Done() {
			field(&b, "", "press d to download ("+strings.Join(backend.Formats, ", ")+")", styles.FaintText)
		}
	}
	if row.entry.Err != nil {
		field(&b, "Error", row.entry.Err.Error(), styles.DangerText)
	}
	if !row.found {
		field(&b, "", "waiting for first status poll", styles.FaintText)
	}

	if len(raw) > 0 {
		b.WriteString("\n")
		title := "Payload"
		if fetchedNote != "" {
			title += " (" + fetchedNote + ")"
		}
		b.WriteString(styles.AccentText.Bold(true).Render(title))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(prettyJSON(raw)))
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Frame style: ┌─── Title ───┐
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := newPainter(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	// Build the top border with embedded title
	innerWidth := max(width-2, 0) // Account for left and right border chars
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0) // -2 for spaces around title
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.paint("┌", borderStyle) +
		bg.paint(strings.Repeat("─", leftPad), borderStyle) +
		bg.paint(" "+title+" ", titleStyle) +
		bg.paint(strings.Repeat("─", rightPad), borderStyle) +
		bg.paint("┐", borderStyle)

	bottomBorder := bg.paint("└", borderStyle) +
		bg.paint(strings.Repeat("─", innerWidth), borderStyle) +
		bg.paint("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0) // -2 for top and bottom borders

	paddedLines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.paint("│", borderStyle)+
				contentStyle.Render(line)+
				bg.paint("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}

// renderProgressBar renders a text-based progress bar without percentage text.
func renderProgressBar(percent float64, width int) string {
	percent = clampPercent(percent)
	filled := min(int(float64(width)*percent/100), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// prettyJSON indents raw for display, falling back to the raw text.
func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
