package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timmy/memeboard/internal/domain"
	"github.com/timmy/memeboard/internal/feed"
	"github.com/timmy/memeboard/internal/imageproxy"
	"github.com/timmy/memeboard/internal/layout"
)

// FeedHandler serves the gallery feed: snapshots, next-page advances,
// search commits, and virtualized masonry layouts.
type FeedHandler struct {
	feeds    *feed.Manager
	proxy    *imageproxy.Service
	gap      float64
	overscan int
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(feeds *feed.Manager, proxy *imageproxy.Service, gap float64, overscan int) *FeedHandler {
	return &FeedHandler{
		feeds:    feeds,
		proxy:    proxy,
		gap:      gap,
		overscan: overscan,
	}
}

func feedScope(c *gin.Context) domain.FeedScope {
	if c.Query("scope") == string(domain.FeedScopeMine) {
		return domain.FeedScopeMine
	}
	return domain.FeedScopePublic
}

// Snapshot handles GET /api/feed.
// Returns the merged collection and fetch flags for the current session.
// The personal scope additionally groups items by creation day.
func (h *FeedHandler) Snapshot(c *gin.Context) {
	scope := feedScope(c)
	session := h.feeds.Session(scope)
	snap := session.Snapshot()

	resp := gin.H{
		"search":   session.Key().Search,
		"snapshot": snap,
	}
	if scope == domain.FeedScopeMine {
		resp["groups"] = feed.GroupByDate(snap.Items, time.Now())
	}
	c.JSON(http.StatusOK, resp)
}

// Next handles POST /api/feed/next.
// Advances the session one page. The scroll sentinel on the client
// calls this when it enters the viewport.
func (h *FeedHandler) Next(c *gin.Context) {
	session := h.feeds.Session(feedScope(c))

	err := session.FetchNext(c.Request.Context())
	switch {
	case err == nil, errors.Is(err, feed.ErrExhausted), errors.Is(err, feed.ErrFetchInProgress):
		// All three leave the session in a consistent state worth
		// rendering; exhausted and in-progress are not failures.
		c.JSON(http.StatusOK, gin.H{
			"search":   session.Key().Search,
			"snapshot": session.Snapshot(),
		})
	default:
		writeError(c, err)
	}
}

// searchRequest is the body of PUT /api/feed/search.
type searchRequest struct {
	Term   string `json:"term"`
	Commit bool   `json:"commit"`
}

// Search handles PUT /api/feed/search.
// Keystroke input debounces; commit=true (the Enter key) applies the
// term immediately.
func (h *FeedHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search request: " + err.Error()})
		return
	}

	scope := feedScope(c)
	if req.Commit {
		h.feeds.CommitSearch(scope, req.Term)
	} else {
		h.feeds.SetSearch(scope, req.Term)
	}
	c.JSON(http.StatusAccepted, gin.H{"term": req.Term, "committed": req.Commit})
}

// Layout handles GET /api/feed/layout.
// Computes the masonry layout for the current viewport and returns only
// the virtualized window of slots.
func (h *FeedHandler) Layout(c *gin.Context) {
	width, err := strconv.Atoi(c.DefaultQuery("width", "1280"))
	if err != nil || width <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width must be a positive integer"})
		return
	}
	scrollTop, _ := strconv.ParseFloat(c.DefaultQuery("scrollTop", "0"), 64)
	viewportHeight, _ := strconv.ParseFloat(c.DefaultQuery("viewportHeight", "800"), 64)

	session := h.feeds.Session(feedScope(c))
	snap := session.Snapshot()

	items := h.withProbedDimensions(snap.Items)
	lanes := layout.LanesForWidth(width, nil)
	full := layout.Compute(items, layout.Params{
		ContainerWidth: float64(width),
		Lanes:          lanes,
		Gap:            h.gap,
	})
	window := layout.Visible(full, scrollTop, viewportHeight, h.overscan)

	c.JSON(http.StatusOK, gin.H{
		"lanes":       lanes,
		"columnWidth": full.ColumnWidth,
		"window":      window,
		"itemCount":   len(items),
		"hasNext":     snap.HasNext,
	})
}

// withProbedDimensions upgrades estimated item dimensions with sizes
// probed by the image proxy, so layout jumps shrink as real images
// arrive.
func (h *FeedHandler) withProbedDimensions(items []domain.MemeSummary) []domain.MemeSummary {
	if h.proxy == nil {
		return items
	}
	out := make([]domain.MemeSummary, len(items))
	copy(out, items)
	for i := range out {
		if d, ok := h.proxy.Dimensions(out[i].ImageURL); ok && d.Width > 0 && d.Height > 0 {
			out[i].Width = d.Width
			out[i].Height = d.Height
		}
	}
	return out
}
