// Package config loads the quickscript configuration file.
//
// # Overview
//
// The desktop shell needs to know where the processing backend listens and
// where to keep its own log file. Both are read once at startup from a small
// TOML file; nothing is reloaded while the process runs.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/quickscript/config.toml
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Backend: http://localhost:8000
//   - Log directory: ~/.local/share/quickscript/logs
//   - Log file: <log_dir>/quickscript.log
//   - Log level: info
//   - Download directory: ~/Downloads
//
// # TOML Format
//
//	api_url = "http://localhost:8000"
//	log_dir = "~/.local/share/quickscript/logs"
//	log_level = "debug"
//	download_dir = "~/Downloads"
//
// All fields are optional. Tilde expansion is performed for paths.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files and TOML
// parse errors. A missing file is not an error.
package config
