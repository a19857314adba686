// Package state holds the shell's shared in-memory state.
//
// # Registry
//
// Registry is the job registry: the ordered list of job handles this
// session has submitted. Submits append after the backend accepted the job,
// a successful cancel removes the first matching handle. Every access takes
// the mutex for the duration of the read or write only; it is never held
// across network or file I/O. Nothing is persisted.
//
// Duplicate handles are not deduplicated and Remove takes out only one.
// Concurrent Adds never lose an entry, but their relative order is
// unspecified.
//
// # Store
//
// Store mediates between the background poller and the UI:
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ GetStatus(id)… │            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	│      ↓         │ (RWMutex)  │      ↓          │
//	│  repeat...     │            │  render UI      │
//	└────────────────┘            └─────────────────┘
//
// Update with a non-nil error keeps the previous job list and bumps
// ConsecutiveFailures; a successful Update replaces the list and resets the
// counter. Snapshot returns deep copies so callers can't mutate stored data.
//
// Both types are ready to use as zero values.
package state
