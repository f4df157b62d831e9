package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/timmy/memeboard/internal/backend"
	"github.com/timmy/memeboard/internal/domain"
	"github.com/timmy/memeboard/internal/logger"
	"github.com/timmy/memeboard/internal/monitoring"
)

// ErrFetchInProgress is returned when a next-page fetch is requested
// while the previous one for the same session is still outstanding.
var ErrFetchInProgress = errors.New("feed: fetch already in progress")

// ErrExhausted is returned when no further pages exist.
var ErrExhausted = errors.New("feed: session exhausted")

// PageFetcher issues one page request. Implemented by the backend client
// and by test fakes.
type PageFetcher interface {
	ListMemes(ctx context.Context, scope domain.FeedScope, search string, page, pageSize int) (*domain.PageResult, error)
}

// SessionConfig holds per-session tuning.
type SessionConfig struct {
	PageSize      int
	RetryAttempts int // total attempts per page, including the first
}

// Snapshot is the aggregate fetch state exposed to the rendering layer.
type Snapshot struct {
	Items          []domain.MemeSummary `json:"items"`
	Total          int                  `json:"total"`
	IsFetching     bool                 `json:"isFetching"`
	IsFetchingNext bool                 `json:"isFetchingNext"`
	HasNext        bool                 `json:"hasNext"`
	LastError      string               `json:"lastError,omitempty"`
}

// Session is one infinite-scroll fetch session bound to a single
// QueryKey. Pages are fetched strictly in increasing cursor order and
// appended in that order; at most one request is in flight at a time,
// which removes out-of-order arrival by construction.
type Session struct {
	key     domain.QueryKey
	fetcher PageFetcher
	cache   *QueryCache
	metrics *monitoring.Metrics
	cfg     SessionConfig

	// closeCtx governs the session lifetime; Close cancels it so an
	// outstanding request cannot mutate a superseded session.
	closeCtx  context.Context
	closeFn   context.CancelFunc

	mu       sync.Mutex
	cursor   *Cursor
	pages    []domain.PageResult
	items    []domain.MemeSummary
	fetching bool
	lastErr  error
	closed   bool
}

// NewSession creates a session for key, restoring previously fetched
// pages from the cache when present.
func NewSession(key domain.QueryKey, fetcher PageFetcher, cache *QueryCache, metrics *monitoring.Metrics, cfg SessionConfig) *Session {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 30
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		key:      key,
		fetcher:  fetcher,
		cache:    cache,
		metrics:  metrics,
		cfg:      cfg,
		closeCtx: ctx,
		closeFn:  cancel,
		cursor:   NewCursor(),
	}

	if cache != nil {
		for _, page := range cache.Get(key) {
			s.appendLocked(page)
		}
	}
	return s
}

// Key returns the session's query identity.
func (s *Session) Key() domain.QueryKey {
	return s.key
}

// Seed installs a page known ahead of time (e.g. rendered server-side)
// so the first paint needs no network round trip. Only an empty session
// accepts a seed; subsequent pages always go through the network path.
func (s *Session) Seed(page domain.PageResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pages) > 0 || s.closed {
		return
	}
	s.appendLocked(page)
	s.storeCacheLocked()
}

// FetchNext fetches the next page and merges it. It blocks until the
// page arrives or fails; run it from its own goroutine when the caller
// must stay responsive. Returns ErrFetchInProgress when a fetch is
// already outstanding and ErrExhausted when no next page exists.
func (s *Session) FetchNext(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return context.Canceled
	}
	if s.fetching {
		s.mu.Unlock()
		return ErrFetchInProgress
	}
	page, ok := s.cursor.Next()
	if !ok {
		s.mu.Unlock()
		return ErrExhausted
	}
	s.fetching = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.fetching = false
		s.mu.Unlock()
	}()

	// Tie the request both to the caller and to the session lifetime:
	// closing the session cancels the in-flight request.
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.closeCtx, cancel)
	defer stop()

	result, err := s.fetchWithRetry(reqCtx, page)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.IncFetchErrors(string(backend.KindOf(err)))
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		// Torn down while the request was in flight; drop the result.
		return context.Canceled
	}
	s.lastErr = nil
	s.appendLocked(*result)
	s.cursor.Advance(*result)
	s.storeCacheLocked()

	logger.With(logger.Fields{
		logger.FieldQuery: s.key.Search,
		logger.FieldScope: string(s.key.Scope),
	}).WithPage(result.Page).WithCount(len(result.Items)).
		Debug(ctx, "Feed page merged")

	return nil
}

// fetchWithRetry issues the page request with a bounded retry budget.
// Only retryable failures (transport, decode) consume extra attempts;
// client errors surface immediately.
func (s *Session) fetchWithRetry(ctx context.Context, page int) (*domain.PageResult, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.RetryAttempts; attempt++ {
		result, err := s.fetcher.ListMemes(ctx, s.key.Scope, s.key.Search, page, s.cfg.PageSize)
		if err == nil {
			if s.metrics != nil {
				s.metrics.IncPagesFetched()
			}
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return nil, err
		}
		logger.CtxWarn(ctx, "Feed page %d fetch attempt %d/%d failed: %v",
			page, attempt, s.cfg.RetryAttempts, err)
	}
	return nil, fmt.Errorf("feed: page %d failed after %d attempts: %w", page, s.cfg.RetryAttempts, lastErr)
}

// Snapshot returns the aggregate state for rendering. The items slice is
// shared and must be treated as read-only by callers.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Items:          s.items,
		IsFetching:     s.fetching,
		IsFetchingNext: s.fetching && len(s.pages) > 0,
		HasNext:        !s.cursor.Exhausted(),
	}
	if len(s.pages) > 0 {
		snap.Total = s.pages[len(s.pages)-1].Total
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}

// Close tears the session down and cancels any outstanding request.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.closeFn()
}

// appendLocked merges a page at the end of the ordered collection and
// advances the cursor bookkeeping for restored pages. Callers hold s.mu
// or have exclusive access.
func (s *Session) appendLocked(page domain.PageResult) {
	s.pages = append(s.pages, page)
	s.items = append(s.items, page.Items...)
	// Restored/seeded pages position the cursor as if fetched normally.
	if p, ok := s.cursor.Next(); ok && p <= page.Page {
		s.cursor.Advance(page)
	}
}

func (s *Session) storeCacheLocked() {
	if s.cache != nil {
		pages := make([]domain.PageResult, len(s.pages))
		copy(pages, s.pages)
		s.cache.Put(s.key, pages)
	}
}
