package feed

import (
	"context"
	"testing"
	"time"

	"github.com/timmy/memeboard/internal/domain"
)

func newTestManager(fetcher PageFetcher, debounce time.Duration) *Manager {
	return NewManager(fetcher, NewQueryCache(), nil, SessionConfig{PageSize: 30}, debounce)
}

// TestManagerCommitSearchResetsSession verifies a committed term closes
// the old session and the replacement starts at page 1 with the new
// term.
func TestManagerCommitSearchResetsSession(t *testing.T) {
	fetcher := newFakeFetcher(95)
	m := newTestManager(fetcher, time.Hour) // debounce never fires in this test
	defer m.Close()

	ctx := context.Background()
	first := m.Session(domain.FeedScopePublic)
	if err := first.FetchNext(ctx); err != nil {
		t.Fatalf("initial fetch failed: %v", err)
	}

	m.CommitSearch(domain.FeedScopePublic, "cats")

	second := m.Session(domain.FeedScopePublic)
	if second == first {
		t.Fatal("commit should replace the session")
	}
	if second.Key().Search != "cats" {
		t.Errorf("new session search: got %q, want cats", second.Key().Search)
	}
	if snap := second.Snapshot(); len(snap.Items) != 0 {
		t.Errorf("new session inherited %d items from the old key", len(snap.Items))
	}

	if err := second.FetchNext(ctx); err != nil {
		t.Fatalf("fetch under new term failed: %v", err)
	}
	pages := fetcher.requestedPages()
	if pages[len(pages)-1] != 1 {
		t.Errorf("new session first request: got page %d, want 1", pages[len(pages)-1])
	}
}

// TestManagerCommitSameTermIsNoop verifies re-committing the active term
// keeps the session (and its scroll position) intact.
func TestManagerCommitSameTermIsNoop(t *testing.T) {
	fetcher := newFakeFetcher(95)
	m := newTestManager(fetcher, time.Hour)
	defer m.Close()

	m.CommitSearch(domain.FeedScopePublic, "cats")
	first := m.Session(domain.FeedScopePublic)

	m.CommitSearch(domain.FeedScopePublic, "cats")
	if m.Session(domain.FeedScopePublic) != first {
		t.Error("re-committing the same term replaced the session")
	}
}

// TestManagerDebouncedSearch verifies keystrokes commit after the
// inactivity delay.
func TestManagerDebouncedSearch(t *testing.T) {
	fetcher := newFakeFetcher(95)
	m := newTestManager(fetcher, 20*time.Millisecond)
	defer m.Close()

	m.SetSearch(domain.FeedScopePublic, "c")
	m.SetSearch(domain.FeedScopePublic, "ca")
	m.SetSearch(domain.FeedScopePublic, "cat")

	deadline := time.After(2 * time.Second)
	for {
		if m.Session(domain.FeedScopePublic).Key().Search == "cat" {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("debounced term never committed, session key: %q",
				m.Session(domain.FeedScopePublic).Key().Search)
		case <-time.After(time.Millisecond):
		}
	}
}

// TestManagerInvalidate verifies invalidation drops cached pages and
// the replacement session refetches from page 1 under the same key.
func TestManagerInvalidate(t *testing.T) {
	fetcher := newFakeFetcher(95)
	m := newTestManager(fetcher, time.Hour)
	defer m.Close()

	ctx := context.Background()
	s := m.Session(domain.FeedScopeMine)
	if err := s.FetchNext(ctx); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if err := s.FetchNext(ctx); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	m.Invalidate(domain.FeedScopeMine)

	fresh := m.Session(domain.FeedScopeMine)
	if fresh == s {
		t.Fatal("invalidate should replace the session")
	}
	if snap := fresh.Snapshot(); len(snap.Items) != 0 {
		t.Fatalf("invalidated session restored %d stale items", len(snap.Items))
	}

	if err := fresh.FetchNext(ctx); err != nil {
		t.Fatalf("post-invalidate fetch failed: %v", err)
	}
	pages := fetcher.requestedPages()
	if pages[len(pages)-1] != 1 {
		t.Errorf("post-invalidate request: got page %d, want 1", pages[len(pages)-1])
	}
}

// TestManagerScopesAreIndependent verifies public and personal sessions
// do not share state.
func TestManagerScopesAreIndependent(t *testing.T) {
	fetcher := newFakeFetcher(95)
	m := newTestManager(fetcher, time.Hour)
	defer m.Close()

	if err := m.Session(domain.FeedScopePublic).FetchNext(context.Background()); err != nil {
		t.Fatalf("public fetch failed: %v", err)
	}

	if snap := m.Session(domain.FeedScopeMine).Snapshot(); len(snap.Items) != 0 {
		t.Errorf("personal session has %d items from the public fetch", len(snap.Items))
	}

	m.CommitSearch(domain.FeedScopePublic, "cats")
	if m.Session(domain.FeedScopeMine).Key().Search != "" {
		t.Error("public search leaked into the personal scope")
	}
}
