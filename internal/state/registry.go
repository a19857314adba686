package state

import (
	"slices"
	"sync"
)

// Registry tracks the job handles this session has submitted. It is not a
// source of truth for job existence; the backend is.
type Registry struct {
	mu   sync.Mutex
	jobs []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends jobID. Duplicates are kept.
func (r *Registry) Add(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, jobID)
}

// Remove deletes the first entry equal to jobID and reports whether one was found.
func (r *Registry) Remove(jobID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := slices.Index(r.jobs, jobID)
	if idx < 0 {
		return false
	}
	r.jobs = slices.Delete(r.jobs, idx, idx+1)
	return true
}

// Contains reports whether jobID is registered.
func (r *Registry) Contains(jobID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.jobs, jobID)
}

// Snapshot returns a copy of the registered handles in insertion order.
func (r *Registry) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.jobs)
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}
