package imageproxy

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/timmy/memeboard/internal/logger"
	"github.com/timmy/memeboard/internal/monitoring"
	"github.com/timmy/memeboard/internal/storage"
)

// Dimensions are probed pixel dimensions of a cached image.
type Dimensions struct {
	Width  int
	Height int
}

// Service fetches origin images once, caches the bytes in object
// storage, and records probed dimensions for the layout engine.
type Service struct {
	origin  *resty.Client
	store   storage.ObjectStorage
	metrics *monitoring.Metrics

	mu   sync.RWMutex
	dims map[string]Dimensions // origin URL -> probed size
}

// NewService creates an image proxy backed by store.
func NewService(store storage.ObjectStorage, metrics *monitoring.Metrics) *Service {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &Service{
		origin:  client,
		store:   store,
		metrics: metrics,
		dims:    make(map[string]Dimensions),
	}
}

// Result is one proxied image.
type Result struct {
	Data        []byte
	ContentType string
	Dims        Dimensions
}

// Fetch returns the image at rawURL, serving from the cache when
// possible. Only http(s) origins are allowed.
func (s *Service) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("imageproxy: invalid origin url %q", rawURL)
	}

	key := cacheKey(rawURL)

	exists, err := s.store.Exists(ctx, key)
	if err == nil && exists {
		body, err := s.store.Download(ctx, key)
		if err == nil {
			defer body.Close()
			data, err := io.ReadAll(body)
			if err == nil {
				if s.metrics != nil {
					s.metrics.IncProxyRequests("hit")
				}
				return s.result(rawURL, data), nil
			}
		}
		// Cache read failed; fall through to the origin.
		logger.CtxWarn(ctx, "Image cache read failed for %s: %v", rawURL, err)
	}

	resp, err := s.origin.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncProxyRequests("error")
		}
		return nil, fmt.Errorf("imageproxy: origin fetch failed: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		if s.metrics != nil {
			s.metrics.IncProxyRequests("error")
		}
		return nil, fmt.Errorf("imageproxy: origin returned HTTP %d", resp.StatusCode())
	}

	data := resp.Body()
	if err := s.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), resp.Header().Get("Content-Type")); err != nil {
		// The image still renders; the next request refetches.
		logger.CtxWarn(ctx, "Image cache write failed for %s: %v", rawURL, err)
	}

	if s.metrics != nil {
		s.metrics.IncProxyRequests("miss")
	}
	return s.result(rawURL, data), nil
}

// Dimensions returns the probed size of an origin URL when known.
func (s *Service) Dimensions(rawURL string) (Dimensions, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dims[rawURL]
	return d, ok
}

func (s *Service) result(rawURL string, data []byte) *Result {
	res := &Result{Data: data, ContentType: sniffContentType(data)}

	if w, h, err := ProbeDimensions(data); err == nil {
		res.Dims = Dimensions{Width: w, Height: h}
		s.mu.Lock()
		s.dims[rawURL] = res.Dims
		s.mu.Unlock()
	}
	return res
}

func cacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return "images/" + hex.EncodeToString(sum[:])
}

func sniffContentType(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8:
		return "image/jpeg"
	case len(data) >= 8 && string(data[1:4]) == "PNG":
		return "image/png"
	case len(data) >= 6 && string(data[:3]) == "GIF":
		return "image/gif"
	case len(data) >= 12 && string(data[8:12]) == "WEBP":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
