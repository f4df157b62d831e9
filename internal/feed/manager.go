package feed

import (
	"sync"
	"time"

	"github.com/timmy/memeboard/internal/domain"
	"github.com/timmy/memeboard/internal/logger"
	"github.com/timmy/memeboard/internal/monitoring"
)

// Manager owns the active fetch session per feed scope and applies
// search-term changes to them. Committing a new term closes the old
// session (cancelling its outstanding request) and starts a fresh one
// at page 1; the two sessions never share pages.
type Manager struct {
	fetcher PageFetcher
	cache   *QueryCache
	metrics *monitoring.Metrics
	cfg     SessionConfig
	delay   time.Duration

	mu         sync.Mutex
	sessions   map[domain.FeedScope]*Session
	debouncers map[domain.FeedScope]*SearchDebouncer
	closed     bool
}

// NewManager wires a manager around an injected fetcher and cache.
func NewManager(fetcher PageFetcher, cache *QueryCache, metrics *monitoring.Metrics, cfg SessionConfig, debounce time.Duration) *Manager {
	if debounce <= 0 {
		debounce = time.Second
	}
	return &Manager{
		fetcher:    fetcher,
		cache:      cache,
		metrics:    metrics,
		cfg:        cfg,
		delay:      debounce,
		sessions:   make(map[domain.FeedScope]*Session),
		debouncers: make(map[domain.FeedScope]*SearchDebouncer),
	}
}

// Session returns the active session for a scope, creating an
// unfiltered one when none exists.
func (m *Manager) Session(scope domain.FeedScope) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionLocked(scope)
}

func (m *Manager) sessionLocked(scope domain.FeedScope) *Session {
	s, ok := m.sessions[scope]
	if !ok {
		s = NewSession(domain.QueryKey{Scope: scope}, m.fetcher, m.cache, m.metrics, m.cfg)
		m.sessions[scope] = s
	}
	return s
}

// SetSearch registers keystroke input; the term commits after the
// inactivity delay.
func (m *Manager) SetSearch(scope domain.FeedScope, term string) {
	m.debouncer(scope).Set(term)
}

// CommitSearch commits a term immediately (the Enter-key path),
// cancelling any pending debounce timer.
func (m *Manager) CommitSearch(scope domain.FeedScope, term string) {
	m.debouncer(scope).Commit(term)
}

func (m *Manager) debouncer(scope domain.FeedScope) *SearchDebouncer {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.debouncers[scope]
	if !ok {
		d = NewSearchDebouncer(m.delay, func(term string) {
			m.commit(scope, term)
		})
		m.debouncers[scope] = d
	}
	return d
}

// commit switches the scope to a new QueryKey. A no-op when the term is
// unchanged, so repeated commits of the same search don't reset scroll
// state.
func (m *Manager) commit(scope domain.FeedScope, term string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	old := m.sessionLocked(scope)
	if old.Key().Search == term {
		return
	}

	old.Close()
	key := domain.QueryKey{Scope: scope, Search: term}
	// The superseded session's cached pages are dropped; a stale search
	// result set is worthless once the user has moved on.
	if m.cache != nil {
		m.cache.Invalidate(old.Key())
	}
	m.sessions[scope] = NewSession(key, m.fetcher, m.cache, m.metrics, m.cfg)

	logger.Debug("Feed session reset: scope=%s search=%q", scope, term)
}

// Invalidate closes the scope's session and drops its cached pages so
// the next access refetches from page 1. Called when a generation job
// completes.
func (m *Manager) Invalidate(scope domain.FeedScope) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cache != nil {
		m.cache.InvalidateScope(scope)
	}
	if s, ok := m.sessions[scope]; ok {
		search := s.Key().Search
		s.Close()
		m.sessions[scope] = NewSession(domain.QueryKey{Scope: scope, Search: search}, m.fetcher, m.cache, m.metrics, m.cfg)
	}
}

// Close tears down every session and debouncer.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for _, d := range m.debouncers {
		d.Stop()
	}
	for _, s := range m.sessions {
		s.Close()
	}
}
