package feed

import (
	"sync"
	"testing"
	"time"
)

// commitRecorder collects committed terms.
type commitRecorder struct {
	mu    sync.Mutex
	terms []string
}

func (r *commitRecorder) commit(term string) {
	r.mu.Lock()
	r.terms = append(r.terms, term)
	r.mu.Unlock()
}

func (r *commitRecorder) committed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.terms))
	copy(out, r.terms)
	return out
}

func (r *commitRecorder) waitFor(t *testing.T, n int, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		if len(r.committed()) >= n {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d commits, got %v", n, r.committed())
		case <-time.After(time.Millisecond):
		}
	}
}

// TestDebouncerCommitsAfterInactivity verifies only the last keystroke
// of a burst commits, once, after the delay.
func TestDebouncerCommitsAfterInactivity(t *testing.T) {
	rec := &commitRecorder{}
	d := NewSearchDebouncer(20*time.Millisecond, rec.commit)
	defer d.Stop()

	d.Set("c")
	d.Set("ca")
	d.Set("cat")

	rec.waitFor(t, 1, 2*time.Second)

	// Give a stray second timer a chance to fire before asserting.
	time.Sleep(50 * time.Millisecond)
	terms := rec.committed()
	if len(terms) != 1 || terms[0] != "cat" {
		t.Errorf("committed terms: got %v, want [cat]", terms)
	}
}

// TestDebouncerCommitImmediate verifies the Enter-key path fires
// synchronously and cancels the pending timer.
func TestDebouncerCommitImmediate(t *testing.T) {
	rec := &commitRecorder{}
	d := NewSearchDebouncer(20*time.Millisecond, rec.commit)
	defer d.Stop()

	d.Set("do")
	d.Commit("dog")

	terms := rec.committed()
	if len(terms) != 1 || terms[0] != "dog" {
		t.Fatalf("committed terms: got %v, want [dog]", terms)
	}

	// The debounce timer for "do" must not fire afterwards.
	time.Sleep(50 * time.Millisecond)
	if terms := rec.committed(); len(terms) != 1 {
		t.Errorf("stale timer fired: %v", terms)
	}
}

// TestDebouncerStop verifies nothing commits after Stop.
func TestDebouncerStop(t *testing.T) {
	rec := &commitRecorder{}
	d := NewSearchDebouncer(10*time.Millisecond, rec.commit)

	d.Set("abandoned")
	d.Stop()

	time.Sleep(40 * time.Millisecond)
	if terms := rec.committed(); len(terms) != 0 {
		t.Errorf("stopped debouncer committed %v", terms)
	}

	d.Set("late")
	d.Commit("late")
	if terms := rec.committed(); len(terms) != 0 {
		t.Errorf("stopped debouncer accepted input: %v", terms)
	}
}
