package state

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/quickscript/internal/backend"
)

// JobEntry is the latest known status of one registered job.
type JobEntry struct {
	ID        string
	Raw       json.RawMessage
	Status    backend.JobStatus
	HasStatus bool // Raw parsed as a job status
	Err       error
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Jobs                []JobEntry
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the backend has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Job returns the entry for id, if present.
func (s Snapshot) Job(id string) (JobEntry, bool) {
	for _, j := range s.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return JobEntry{}, false
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored job list. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) Update(jobs []JobEntry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Jobs = cloneJobs(jobs)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Jobs = cloneJobs(s.snapshot.Jobs)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneJobs(jobs []JobEntry) []JobEntry {
	if len(jobs) == 0 {
		return nil
	}
	dup := make([]JobEntry, len(jobs))
	for i, j := range jobs {
		j.Raw = slices.Clone(j.Raw)
		dup[i] = j
	}
	return dup
}
