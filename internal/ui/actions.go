package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/quickscript/internal/bridge"
	"github.com/five82/quickscript/internal/config"
)

// opDoneMsg reports the outcome of a shell operation started from the UI.
type opDoneMsg struct {
	op      string
	jobID   string
	subject string // path or URL the user entered
	format  string // download format
	err     error
}

type statusFetchedMsg struct {
	jobID string
	raw   json.RawMessage
	err   error
}

type previewLoadedMsg struct {
	path    string
	content string
	err     error
}

func submitFileCmd(ctx context.Context, ops Operations, path string) tea.Cmd {
	return func() tea.Msg {
		id, err := ops.SubmitFile(ctx, path)
		return opDoneMsg{op: bridge.OpSubmitFile, jobID: id, subject: path, err: err}
	}
}

func submitURLCmd(ctx context.Context, ops Operations, rawURL string) tea.Cmd {
	return func() tea.Msg {
		id, err := ops.SubmitURL(ctx, rawURL)
		return opDoneMsg{op: bridge.OpSubmitURL, jobID: id, subject: rawURL, err: err}
	}
}

func fetchStatusCmd(ctx context.Context, ops Operations, jobID string) tea.Cmd {
	return func() tea.Msg {
		raw, err := ops.GetStatus(ctx, jobID)
		return statusFetchedMsg{jobID: jobID, raw: raw, err: err}
	}
}

func downloadCmd(ctx context.Context, ops Operations, jobID, format, savePath string) tea.Cmd {
	return func() tea.Msg {
		saved, err := ops.DownloadResult(ctx, jobID, format, savePath)
		return opDoneMsg{op: bridge.OpDownloadResult, jobID: jobID, subject: saved, format: format, err: err}
	}
}

func readLocalFileCmd(ctx context.Context, ops Operations, path string) tea.Cmd {
	return func() tea.Msg {
		content, err := ops.ReadLocalFile(ctx, path)
		return previewLoadedMsg{path: path, content: content, err: err}
	}
}

func cancelJobCmd(ctx context.Context, ops Operations, jobID string) tea.Cmd {
	return func() tea.Msg {
		_, err := ops.CancelJob(ctx, jobID)
		return opDoneMsg{op: bridge.OpCancelJob, jobID: jobID, err: err}
	}
}

// handlePrompt turns a confirmed prompt into the matching operation.
func (m *Model) handlePrompt(msg promptSubmittedMsg) tea.Cmd {
	if m.ops == nil {
		return nil
	}
	first := ""
	if len(msg.values) > 0 {
		first = msg.values[0]
	}

	switch msg.kind {
	case promptSubmitFile:
		if first == "" {
			m.setFlash("no file path entered", true)
			return nil
		}
		return submitFileCmd(m.ctx, m.ops, expandUserPath(first))

	case promptSubmitURL:
		if first == "" {
			m.setFlash("no URL entered", true)
			return nil
		}
		return submitURLCmd(m.ctx, m.ops, first)

	case promptDownload:
		format := strings.ToLower(first)
		if format == "" {
			format = m.prefs.Format
		}
		savePath := ""
		if len(msg.values) > 1 {
			savePath = msg.values[1]
		}
		if savePath == "" {
			savePath = m.defaultSavePath(msg.jobID, format)
		}
		return downloadCmd(m.ctx, m.ops, msg.jobID, format, expandUserPath(savePath))

	case promptPreview:
		if first == "" {
			m.setFlash("no file path entered", true)
			return nil
		}
		return readLocalFileCmd(m.ctx, m.ops, expandUserPath(first))
	}
	return nil
}

// handleOpDone reports an operation result and refreshes the job list.
func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	m.refreshJobs()

	if msg.err != nil {
		m.setFlash(bridge.Message(msg.err), true)
		m.updateJobsTable()
		return m, nil
	}

	switch msg.op {
	case bridge.OpSubmitFile:
		m.setFlash(fmt.Sprintf("Submitted %s as job %s", filepath.Base(msg.subject), msg.jobID), false)
		m.selectJob(msg.jobID)
	case bridge.OpSubmitURL:
		m.setFlash(fmt.Sprintf("Submitted %s as job %s", truncateMiddle(msg.subject, 60), msg.jobID), false)
		m.selectJob(msg.jobID)
	case bridge.OpDownloadResult:
		m.setFlash("Saved "+msg.subject, false)
		if msg.format != "" && msg.format != m.prefs.Format {
			m.prefs.Format = msg.format
			m.savePrefs()
		}
	case bridge.OpCancelJob:
		m.setFlash("Cancelled job "+msg.jobID, false)
		delete(m.fetched, msg.jobID)
	}

	m.updateJobsTable()
	m.updateDetailViewport()
	return m, nil
}

// defaultSavePath names a download after its job in the download directory.
func (m Model) defaultSavePath(jobID, format string) string {
	name := jobID + "." + format
	if m.downloadDir == "" {
		return name
	}
	return filepath.Join(m.downloadDir, name)
}

// expandUserPath resolves a leading ~ and leaves anything else untouched.
func expandUserPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}
