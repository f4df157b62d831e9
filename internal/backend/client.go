package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/timmy/memeboard/internal/logger"
)

// Config holds configuration for the backend API client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is the HTTP client for the upstream meme/auth REST API.
// The session token travels in a cookie (and optionally a bearer header
// after login); on a 401 the client performs exactly one refresh attempt
// and retries the original request once.
type Client struct {
	http *resty.Client

	// refreshMu serializes refresh attempts so concurrent 401s trigger
	// a single refresh call.
	refreshMu sync.Mutex

	tokenMu     sync.RWMutex
	accessToken string
}

// New creates a new backend API client.
// Parameters:
//   - cfg: client configuration including the backend base URL.
//
// Returns:
//   - *Client: initialized client.
func New(cfg *Config) *Client {
	jar, _ := cookiejar.New(nil)

	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Content-Type", "application/json")
	client.SetCookieJar(jar)
	// Set timeout to prevent hanging requests
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)

	return &Client{http: client}
}

// setAccessToken stores the bearer token applied to subsequent requests.
func (c *Client) setAccessToken(token string) {
	c.tokenMu.Lock()
	c.accessToken = token
	c.tokenMu.Unlock()
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	req.SetError(&apiErrorBody{})
	c.tokenMu.RLock()
	if c.accessToken != "" {
		req.SetHeader("Authorization", "Bearer "+c.accessToken)
	}
	c.tokenMu.RUnlock()
	return req
}

// apiErrorBody is the error envelope the backend uses for failures.
type apiErrorBody struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func (b *apiErrorBody) text() string {
	if b == nil {
		return ""
	}
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// execute runs fn, applying the single refresh-and-retry rule on 401.
// fn must build a fresh request on every call; resty requests are not
// reusable after execution.
func (c *Client) execute(ctx context.Context, fn func(ctx context.Context) (*resty.Response, error)) (*resty.Response, error) {
	resp, err := fn(ctx)
	if err != nil {
		return nil, wrapTransport(resp, err)
	}
	if resp.StatusCode() != http.StatusUnauthorized {
		return resp, nil
	}

	logger.CtxInfo(ctx, "Received 401, attempting token refresh")
	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		return nil, &APIError{
			Kind:       ErrKindUnauthorized,
			StatusCode: http.StatusUnauthorized,
			Message:    "session refresh failed",
			Err:        refreshErr,
		}
	}

	resp, err = fn(ctx)
	if err != nil {
		return nil, wrapTransport(resp, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		// Second 401 is final. No further retry loop.
		return nil, &APIError{
			Kind:       ErrKindUnauthorized,
			StatusCode: http.StatusUnauthorized,
			Message:    "unauthorized after token refresh",
		}
	}
	return resp, nil
}

// wrapTransport classifies request-level errors. resty returns a non-nil
// response alongside an unmarshal failure, which lets decode errors be
// told apart from connection errors.
func wrapTransport(resp *resty.Response, err error) *APIError {
	if resp != nil && resp.RawResponse != nil {
		return &APIError{
			Kind:       ErrKindDecode,
			StatusCode: resp.StatusCode(),
			Message:    "unexpected response shape",
			Err:        err,
		}
	}
	return &APIError{
		Kind:    ErrKindTransport,
		Message: err.Error(),
		Err:     err,
	}
}

// checkStatus maps non-2xx responses to the error taxonomy.
func checkStatus(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}

	body, _ := resp.Error().(*apiErrorBody)
	msg := body.text()
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d: %s", code, string(resp.Body()))
	}

	kind := ErrKindClient
	switch {
	case code == http.StatusNotFound:
		kind = ErrKindNotFound
	case code >= 500:
		kind = ErrKindTransport
	}

	return &APIError{Kind: kind, StatusCode: code, Message: msg}
}
