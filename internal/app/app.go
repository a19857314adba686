package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/five82/quickscript/internal/backend"
	"github.com/five82/quickscript/internal/bridge"
	"github.com/five82/quickscript/internal/config"
	"github.com/five82/quickscript/internal/prefs"
	"github.com/five82/quickscript/internal/state"
	"github.com/five82/quickscript/internal/ui"
)

// Options configure a quickscript session.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/quickscript/prefs.toml
	PollEvery  time.Duration // zero uses default
	APIURL     string        // overrides api_url from the config file
}

// Session holds the components shared by the terminal UI and the one-shot
// commands. Close releases the log file.
type Session struct {
	Config config.Config
	Logger *slog.Logger
	Shell  *bridge.Shell

	logFile io.Closer
}

// Open loads configuration, opens the log file and builds the shell over a
// fresh job registry.
func Open(opts Options) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}

	logger, logFile, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	client, err := backend.NewClient(cfg.APIURL)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("init backend client: %w", err)
	}
	logger.Debug("session opened", "api_url", client.BaseURL(), "log_level", cfg.LogLevel)

	return &Session{
		Config:  cfg,
		Logger:  logger,
		Shell:   bridge.New(client, state.NewRegistry(), logger),
		logFile: logFile,
	}, nil
}

// Close closes the log file.
func (s *Session) Close() error {
	if s == nil || s.logFile == nil {
		return nil
	}
	return s.logFile.Close()
}

// Run boots the terminal UI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	sess, err := Open(opts)
	if err != nil {
		return err
	}
	defer sess.Close()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	store := &state.Store{}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = opts.PollEvery
	}

	// Start background poller
	StartPoller(ctx, store, sess.Shell, sess.Logger, interval)

	uiOpts := ui.Options{
		Context:     ctx,
		Ops:         sess.Shell,
		Store:       store,
		LogPath:     sess.Config.LogPath(),
		DownloadDir: sess.Config.DownloadDir,
		PollTick:    interval,
		Prefs:       userPrefs,
		PrefsPath:   opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
