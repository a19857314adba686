package state

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/quickscript/internal/backend"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	jobs := []JobEntry{
		{ID: "a", Raw: json.RawMessage(`{"job_id":"a"}`), Status: backend.JobStatus{JobID: "a"}, HasStatus: true},
		{ID: "b"},
	}

	before := time.Now()
	s.Update(jobs, nil)

	snap := s.Snapshot()
	if len(snap.Jobs) != 2 || snap.Jobs[0].ID != "a" {
		t.Fatalf("snapshot jobs = %#v, want 2 jobs", snap.Jobs)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
	if entry, ok := snap.Job("a"); !ok || !entry.HasStatus {
		t.Fatalf("Job(a) = %#v, %v; want entry with status", entry, ok)
	}
	if _, ok := snap.Job("zzz"); ok {
		t.Fatalf("Job(zzz) found, want missing")
	}

	// Returned snapshot should be independent of the stored one.
	snap.Jobs[0].ID = "mutated"
	snap.Jobs[0].Raw[0] = '['
	snap2 := s.Snapshot()
	if snap2.Jobs[0].ID != "a" || string(snap2.Jobs[0].Raw) != `{"job_id":"a"}` {
		t.Fatalf("Snapshot should clone jobs; got %#v", snap2.Jobs[0])
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]JobEntry{{ID: "a"}}, nil)

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if len(snap.Jobs) != 1 || snap.Jobs[0].ID != "a" {
		t.Fatalf("jobs changed on error: got %#v", snap.Jobs)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("cloned error should still wrap the original")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("zero store = %#v, want online with 0 failures", snap)
	}

	s.Update(nil, errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, errors.New("fail 2"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, nil)
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}
}
