package domain

import (
	"time"
)

// MemeStatus represents the generation status of a meme.
// Values include MemeStatusPending, MemeStatusProcessing,
// MemeStatusCompleted, and MemeStatusFailed.
type MemeStatus string

const (
	MemeStatusPending    MemeStatus = "pending"
	MemeStatusProcessing MemeStatus = "processing"
	MemeStatusCompleted  MemeStatus = "completed"
	MemeStatusFailed     MemeStatus = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s MemeStatus) Terminal() bool {
	return s == MemeStatusCompleted || s == MemeStatusFailed
}

// Fallback dimensions used when the backend does not report image size.
// The layout engine needs a usable aspect ratio for every item.
const (
	DefaultMemeWidth  = 300
	DefaultMemeHeight = 400
)

// MemeSummary is the unit item of the gallery feed.
// Fields mirror the backend meme resource; engagement counters are
// informational only and never drive client behavior.
type MemeSummary struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ImageURL  string     `json:"imageUrl"`
	Author    string     `json:"author,omitempty"`
	Style     string     `json:"style,omitempty"`
	Status    MemeStatus `json:"status"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Likes     int        `json:"likes"`
	Views     int        `json:"views"`
	Downloads int        `json:"downloadCount"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// AspectRatio returns width/height, or 0 when either dimension is unknown.
// Callers must treat 0 as "use the default ratio".
func (m MemeSummary) AspectRatio() float64 {
	if m.Width <= 0 || m.Height <= 0 {
		return 0
	}
	return float64(m.Width) / float64(m.Height)
}

// PageResult is one page of the gallery feed as returned by the backend.
type PageResult struct {
	Items    []MemeSummary `json:"data"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Total    int           `json:"total"`
}

// HasMore reports whether a page after this one exists.
// The sole has-more rule: page*pageSize < total.
func (p PageResult) HasMore() bool {
	return p.Page*p.PageSize < p.Total
}

// FeedScope selects which gallery collection a query session reads.
type FeedScope string

const (
	FeedScopePublic FeedScope = "public"
	FeedScopeMine   FeedScope = "my"
)

// QueryKey identifies one logical infinite-scroll session.
// Changing either field starts a fresh session at page 1; pages fetched
// under different keys must never be merged.
type QueryKey struct {
	Search string
	Scope  FeedScope
}

// String renders the key in a stable form usable as a cache map key.
func (k QueryKey) String() string {
	return string(k.Scope) + "\x00" + k.Search
}
