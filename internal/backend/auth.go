package backend

import (
	"context"
	"net/http"

	"github.com/timmy/memeboard/internal/domain"
)

// Login authenticates the user. The session cookie is captured by the
// client's cookie jar; an access token, when present, is applied to
// subsequent requests as a bearer header.
func (c *Client) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	var result domain.AuthResponse

	// Auth endpoints bypass execute(): a 401 here means wrong
	// credentials, not an expired session.
	resp, err := c.request(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/auth/login")
	if err != nil {
		return nil, wrapTransport(resp, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	if result.AccessToken != "" {
		c.setAccessToken(result.AccessToken)
	}
	return &result, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	var result domain.AuthResponse

	resp, err := c.request(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/auth/register")
	if err != nil {
		return nil, wrapTransport(resp, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	if result.AccessToken != "" {
		c.setAccessToken(result.AccessToken)
	}
	return &result, nil
}

// Logout terminates the session and drops the local token.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.request(ctx).Post("/auth/logout")
	if err != nil {
		return wrapTransport(resp, err)
	}
	c.setAccessToken("")
	return checkStatus(resp)
}

// Refresh renews the session. Serialized so concurrent 401s trigger a
// single upstream refresh call.
func (c *Client) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	var result domain.AuthResponse
	resp, err := c.request(ctx).
		SetResult(&result).
		Post("/auth/refresh")
	if err != nil {
		return wrapTransport(resp, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return &APIError{
			Kind:       ErrKindUnauthorized,
			StatusCode: http.StatusUnauthorized,
			Message:    "refresh token rejected",
		}
	}
	if err := checkStatus(resp); err != nil {
		return err
	}

	if result.AccessToken != "" {
		c.setAccessToken(result.AccessToken)
	}
	return nil
}
