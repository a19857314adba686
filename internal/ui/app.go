package ui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/quickscript/internal/prefs"
	"github.com/five82/quickscript/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewJobs View = iota
	ViewLogs
	ViewPreview
)

// Operations are the shell operations the UI drives.
// It is implemented by *bridge.Shell.
type Operations interface {
	Jobs() []string
	SubmitFile(ctx context.Context, path string) (string, error)
	SubmitURL(ctx context.Context, rawURL string) (string, error)
	GetStatus(ctx context.Context, jobID string) (json.RawMessage, error)
	DownloadResult(ctx context.Context, jobID, format, savePath string) (string, error)
	ReadLocalFile(ctx context.Context, path string) (string, error)
	CancelJob(ctx context.Context, jobID string) (bool, error)
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Ops         Operations
	Store       *state.Store
	LogPath     string // session log shown in the logs view
	DownloadDir string // default directory for downloaded results
	PollTick    time.Duration
	Prefs       prefs.Prefs
	PrefsPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	ops         Operations
	store       *state.Store
	logPath     string
	downloadDir string
	prefsPath   string
	prefs       prefs.Prefs
	pollTick    time.Duration
	keys        keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	focusedPane int // 0 = table, 1 = detail

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	jobs        []string // registry order
	fetched     map[string]fetchedStatus

	// Jobs state
	selectedRow    int
	detailViewport viewport.Model

	// Log state
	logViewport viewport.Model
	logState    logState

	// Preview state
	previewViewport viewport.Model
	preview         previewState

	// Overlays
	modal    Modal
	showHelp bool

	flash flashMessage
}

// fetchedStatus is a status fetched on demand for one job.
type fetchedStatus struct {
	raw json.RawMessage
	err error
	at  time.Time
}

// flashMessage is the result of the last action, shown in the footer.
type flashMessage struct {
	text  string
	isErr bool
	at    time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	userPrefs := opts.Prefs
	if strings.TrimSpace(userPrefs.Format) == "" {
		userPrefs.Format = prefs.Defaults().Format
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		ops:         opts.Ops,
		store:       opts.Store,
		logPath:     opts.LogPath,
		downloadDir: opts.DownloadDir,
		prefsPath:   prefsPath,
		prefs:       userPrefs,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(userPrefs.Theme),
		currentView: ViewJobs,
		fetched:     make(map[string]fetchedStatus),
		logState:    newLogState(),
	}
	m.refreshJobs()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateJobsTable()
		m.updateDetailViewport()
		m.updateLogViewport()
		m.updatePreviewViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.refreshJobs()
		m.updateJobsTable()
		m.updateDetailViewport()
		return m, nil

	case promptSubmittedMsg:
		cmd := m.handlePrompt(msg)
		return m, cmd

	case cancelConfirmedMsg:
		return m, cancelJobCmd(m.ctx, m.ops, msg.jobID)

	case opDoneMsg:
		return m.handleOpDone(msg)

	case statusFetchedMsg:
		m.fetched[msg.jobID] = fetchedStatus{raw: msg.raw, err: msg.err, at: time.Now()}
		if msg.err != nil {
			m.setFlash(msg.err.Error(), true)
		}
		m.updateDetailViewport()
		return m, nil

	case previewLoadedMsg:
		return m.handlePreviewLoaded(msg)

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	// Forward everything else (cursor blink and the like) to an open modal.
	if m.modal != nil {
		var cmd tea.Cmd
		var done bool
		m.modal, cmd, done = m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An open modal swallows every key.
	if m.modal != nil {
		var cmd tea.Cmd
		var done bool
		m.modal, cmd, done = m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		}
		return m, cmd
	}

	// Handle help overlay
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// The log search input owns the keyboard while active.
	if m.currentView == ViewLogs && m.logState.searchActive {
		return m.handleLogSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.updateDetailViewport()
		m.updateLogViewport()
		m.updatePreviewViewport()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.toggleFocus(1)

	case key.Matches(msg, m.keys.ShiftTab):
		return m.toggleFocus(-1)

	case key.Matches(msg, m.keys.ViewJobs):
		m.currentView = ViewJobs
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, refreshLogsCmd(m.logPath) // Fetch immediately

	case key.Matches(msg, m.keys.ViewPreview):
		if m.preview.path != "" {
			m.currentView = ViewPreview
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenPreview):
		m.modal = newPrompt(promptPreview, "Preview local file", "",
			newField("Path", "~/transcripts/talk.md", m.preview.path))
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewLogs && m.logState.searchRegex != nil {
			m.clearLogSearch()
			m.updateLogViewport()
			return m, nil
		}
		m.currentView = ViewJobs
		return m, nil
	}

	// View-specific keys
	switch m.currentView {
	case ViewJobs:
		return m.handleJobsKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	case ViewPreview:
		return m.handlePreviewKey(msg)
	}

	return m, nil
}

// toggleFocus cycles focus through views.
// Cycle: Jobs(table) → Jobs(detail) → Logs → Preview (if loaded) → Jobs(table)
func (m Model) toggleFocus(dir int) (tea.Model, tea.Cmd) {
	type stop struct {
		view View
		pane int
	}
	stops := []stop{{ViewJobs, 0}, {ViewJobs, 1}, {ViewLogs, 0}}
	if m.preview.path != "" {
		stops = append(stops, stop{ViewPreview, 0})
	}

	current := 0
	for i, s := range stops {
		if s.view == m.currentView && (s.view != ViewJobs || s.pane == m.focusedPane) {
			current = i
			break
		}
	}
	next := stops[(current+dir+len(stops))%len(stops)]
	m.currentView = next.view
	if next.view == ViewJobs {
		m.focusedPane = next.pane
	}
	if m.currentView == ViewLogs {
		return m, refreshLogsCmd(m.logPath) // Fetch immediately when entering logs
	}
	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	m.refreshJobs()
	m.updateJobsTable()

	// Fetch latest snapshot
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	// Refresh logs if in log view and following
	if m.currentView == ViewLogs && m.logState.follow {
		cmds = append(cmds, refreshLogsCmd(m.logPath))
	}

	// Schedule next tick
	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

// refreshJobs reloads the registry order from the shell.
func (m *Model) refreshJobs() {
	if m.ops == nil {
		return
	}
	m.jobs = m.ops.Jobs()
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = flashMessage{text: text, isErr: isErr, at: time.Now()}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.setFlash("save preferences: "+err.Error(), true)
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + backend status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderContent())
	b.WriteString("\n")

	b.WriteString(m.renderFooter())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewJobs:
		return m.renderJobs()
	case ViewLogs:
		return m.renderLogs()
	case ViewPreview:
		return m.renderPreview()
	default:
		return ""
	}
}

func (m Model) contentHeight() int {
	return max(m.height-chromeHeight, 3)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		// Shut down by the caller, not a failure.
		return nil
	}
	return err
}
