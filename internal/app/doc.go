// Package app provides the orchestration layer for quickscript.
//
// # Overview
//
// This package is the composition root. Open turns a config file into a
// ready Session (config, logger, bridge shell over an empty job registry),
// which the one-shot CLI commands use directly. Run additionally starts the
// status poller and hands everything to the terminal UI.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Open()     │
//	└──────┬───────┘
//	       ├─────> config.Load()        Read ~/.config/quickscript/config.toml
//	       ├─────> newLogger()          slog text handler on <log_dir>/quickscript.log
//	       ├─────> backend.NewClient()  HTTP client for the processing backend
//	       └─────> bridge.New()         Shell over state.NewRegistry()
//
//	┌──────────────┐
//	│   Run()      │ Open, then
//	└──────┬───────┘
//	       ├─────> prefs.Load()         Theme and default download format
//	       ├─────> StartPoller()        Background status refresh
//	       └─────> ui.Run()             Terminal UI (blocks)
//
// # Polling Behavior
//
// The poller walks the job registry on every tick (default 2 seconds) and
// calls GetStatus for each handle in submission order. The results replace
// the job list in the shared state.Store.
//
//   - A transport failure aborts the poll; the store keeps the previous job
//     list and counts the failure so the UI can show the backend as offline.
//   - Any other failure is attached to the job it concerns.
//   - Payloads that do not parse as a job status (such as the backend's
//     "Job not found" detail) are kept raw for the detail pane.
//
// # Logging
//
// The UI owns the terminal, so the logger writes only to the log file. The
// level comes from log_level in the config file.
package app
