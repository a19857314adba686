package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/five82/quickscript/internal/backend"
	"github.com/five82/quickscript/internal/bridge"
	"github.com/five82/quickscript/internal/state"
)

const defaultPollInterval = 2 * time.Second

// StatusSource lists the registered jobs and fetches their status.
// It is implemented by *bridge.Shell.
type StatusSource interface {
	Jobs() []string
	GetStatus(ctx context.Context, jobID string) (json.RawMessage, error)
}

var _ StatusSource = (*bridge.Shell)(nil)

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, src StatusSource, logger *slog.Logger, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			refresh(ctx, store, src, logger)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// refresh fetches every registered job in registry order. A transport failure
// marks the whole poll as failed and keeps the previous snapshot; any other
// failure is recorded on the job it belongs to.
func refresh(ctx context.Context, store *state.Store, src StatusSource, logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ids := src.Jobs()
	entries := make([]state.JobEntry, 0, len(ids))
	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		raw, err := src.GetStatus(ctx, id)
		if err != nil {
			if bridge.KindOf(err) == bridge.KindTransport {
				store.Update(nil, err)
				logger.Warn("status poll failed", "job_id", id, "error", err)
				return
			}
			entries = append(entries, state.JobEntry{ID: id, Err: err})
			continue
		}
		entry := state.JobEntry{ID: id, Raw: raw}
		entry.Status, entry.HasStatus = backend.ParseStatus(raw)
		entries = append(entries, entry)
	}
	store.Update(entries, nil)
}
