package feed

import (
	"sync"
	"time"
)

// SearchDebouncer turns keystroke-level search input into committed
// search terms. A term commits after a fixed period of inactivity, or
// immediately via Commit (the Enter-key path); whichever fires first
// cancels the other's pending timer.
type SearchDebouncer struct {
	delay  time.Duration
	commit func(term string)

	mu      sync.Mutex
	pending string
	timer   *time.Timer
	stopped bool
}

// NewSearchDebouncer creates a debouncer that calls commit with the
// settled term. commit may be invoked from a timer goroutine.
func NewSearchDebouncer(delay time.Duration, commit func(term string)) *SearchDebouncer {
	return &SearchDebouncer{
		delay:  delay,
		commit: commit,
	}
}

// Set registers keystroke input and restarts the inactivity timer.
func (d *SearchDebouncer) Set(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.pending = term
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		term := d.pending
		d.timer = nil
		d.mu.Unlock()
		d.commit(term)
	})
}

// Commit commits the term immediately, cancelling any pending timer.
func (d *SearchDebouncer) Commit(term string) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = term
	d.mu.Unlock()
	d.commit(term)
}

// Stop cancels any pending commit. The debouncer is unusable afterwards.
func (d *SearchDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
