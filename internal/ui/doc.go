// Package ui provides the quickscript terminal user interface.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program styled with Lipgloss. Model is the root
// state; it never talks to the backend directly. Every action goes through
// the Operations interface (implemented by *bridge.Shell) inside a tea.Cmd,
// so the update loop stays responsive while a request is in flight. Status
// polling runs outside the program: the UI only reads state.Store snapshots
// on its own tick.
//
// # Package Structure
//
//   - app.go: Model, Options, the update loop and Run
//   - actions.go: commands wrapping the shell operations and their results
//   - jobs.go: jobs table and detail pane
//   - logs.go: session log view with follow mode and regex search
//   - preview.go: read-only viewer for a local text file, with Markdown
//     rendered through Glamour
//   - modal.go: prompt and confirmation dialogs
//   - header.go: status bar, command bar and footer
//   - help.go, keys.go: key bindings and the help overlay
//   - theme.go: palettes, status colors and text styles
//   - paint.go: background-safe rendering of styled segments
//
// # Views
//
//   - Jobs (q): every job submitted in this session, in submission order,
//     with status badge and progress. The detail pane shows the parsed
//     fields and the raw status payload.
//   - Logs (l): tail of the session log file.
//   - Preview (v): the last file opened with o. Markdown files are
//     rendered; m switches between rendered and raw text.
//
// Tab cycles Jobs(table) → Jobs(detail) → Logs → Preview.
//
// # Actions
//
// From the jobs view: a submits a local file, u submits a URL, r fetches
// the selected job's status immediately, d downloads its result (format
// and save path prompt; the last format used is remembered in prefs),
// x cancels it after confirmation. Results and failures are shown in the
// footer for a few seconds.
//
// # Themes
//
// T cycles Nightfox, Kanagawa and Slate. The choice is saved to prefs.toml.
package ui
