package feed

import (
	"github.com/timmy/memeboard/internal/domain"
)

// Cursor tracks the next page to request within one query session.
// Pages are 1-indexed; a fresh cursor starts at 1. Once the has-more
// rule fails the cursor is exhausted and never advances again.
type Cursor struct {
	next      int
	exhausted bool
}

// NewCursor returns a cursor positioned at page 1.
func NewCursor() *Cursor {
	return &Cursor{next: 1}
}

// Next returns the page to request and whether a request should be
// issued at all. A false second value means the session is exhausted.
func (c *Cursor) Next() (int, bool) {
	if c.exhausted {
		return 0, false
	}
	return c.next, true
}

// Advance moves the cursor past a successfully fetched page.
// The sole advancement rule: next = P+1 iff P*pageSize < total.
// A failed fetch must not call Advance, so a retry re-requests the
// same page.
func (c *Cursor) Advance(page domain.PageResult) {
	if page.HasMore() {
		c.next = page.Page + 1
		return
	}
	c.exhausted = true
}

// Exhausted reports whether no further pages exist.
func (c *Cursor) Exhausted() bool {
	return c.exhausted
}
