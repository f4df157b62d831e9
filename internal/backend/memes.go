package backend

import (
	"context"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/timmy/memeboard/internal/domain"
)

// ListMemes fetches one page of the gallery feed.
// Parameters:
//   - ctx: context for cancellation; aborting it cancels the request.
//   - scope: public or personal collection.
//   - search: committed search term, empty for the unfiltered feed.
//   - page: 1-indexed page cursor.
//   - pageSize: items per page.
//
// Returns:
//   - *domain.PageResult: decoded page with pagination metadata.
//   - error: *APIError classified per the error taxonomy.
func (c *Client) ListMemes(ctx context.Context, scope domain.FeedScope, search string, page, pageSize int) (*domain.PageResult, error) {
	var result domain.PageResult

	path := "/memes/public"
	params := map[string]string{
		"page":     strconv.Itoa(page),
		"pageSize": strconv.Itoa(pageSize),
	}
	if search != "" {
		params["search"] = search
	}
	if scope == domain.FeedScopeMine {
		// The personal feed endpoint paginates by limit/offset.
		path = "/memes/my"
		params = map[string]string{
			"limit":  strconv.Itoa(pageSize),
			"offset": strconv.Itoa((page - 1) * pageSize),
		}
	}

	resp, err := c.execute(ctx, func(ctx context.Context) (*resty.Response, error) {
		return c.request(ctx).
			SetQueryParams(params).
			SetResult(&result).
			Get(path)
	})
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	// Normalize pagination metadata the offset endpoint omits.
	if result.Page == 0 {
		result.Page = page
	}
	if result.PageSize == 0 {
		result.PageSize = pageSize
	}
	normalizeItems(result.Items)

	return &result, nil
}

// normalizeItems fills layout-critical fields the backend may omit.
func normalizeItems(items []domain.MemeSummary) {
	for i := range items {
		if items[i].Width <= 0 {
			items[i].Width = domain.DefaultMemeWidth
		}
		if items[i].Height <= 0 {
			items[i].Height = domain.DefaultMemeHeight
		}
		if items[i].Title == "" {
			items[i].Title = "Untitled"
		}
	}
}

// Generate submits a meme generation request.
// Returns the accepted job (status pending) or an error.
func (c *Client) Generate(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerationJob, error) {
	var job domain.GenerationJob

	resp, err := c.execute(ctx, func(ctx context.Context) (*resty.Response, error) {
		return c.request(ctx).
			SetBody(req).
			SetResult(&job).
			Post("/memes/generate")
	})
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	if job.ID == "" {
		return nil, &APIError{Kind: ErrKindDecode, StatusCode: resp.StatusCode(), Message: "generate response missing job id"}
	}

	return &job, nil
}

// JobStatus polls the status of a generation job.
// A 404 maps to ErrKindNotFound, which the poller treats as a lost job.
func (c *Client) JobStatus(ctx context.Context, id string) (*domain.GenerationJob, error) {
	var job domain.GenerationJob

	resp, err := c.execute(ctx, func(ctx context.Context) (*resty.Response, error) {
		return c.request(ctx).
			SetResult(&job).
			Get("/memes/" + id + "/status")
	})
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return &job, nil
}

// Styles fetches the available generation style tags.
func (c *Client) Styles(ctx context.Context) ([]string, error) {
	var styles []string

	resp, err := c.execute(ctx, func(ctx context.Context) (*resty.Response, error) {
		return c.request(ctx).
			SetResult(&styles).
			Get("/memes/styles")
	})
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return styles, nil
}
