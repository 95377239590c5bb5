// Package scholar fetches author citation profiles from SerpAPI's
// Google Scholar Author engine.
package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the SerpAPI search endpoint.
	BaseURL = "https://serpapi.com/search.json"

	// Engine is the SerpAPI engine for Google Scholar author profiles.
	Engine = "google_scholar_author"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 1 request per second, conservative for SerpAPI plans.
	RateLimit = 1.0

	// PageSize is the maximum articles per page the engine returns.
	PageSize = 100
)

// Client is a rate-limited HTTP client for the scholar provider.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the SerpAPI key.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// NewClient creates a new scholar provider client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	// Check for API key in environment
	if key := os.Getenv("SERPAPI_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	}
	if resp.StatusCode == 429 {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode == 404 {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// fetchPage fetches one page of the author profile.
func (c *Client) fetchPage(ctx context.Context, authorID string, start int) (*searchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("engine", Engine)
	params.Set("author_id", authorID)
	params.Set("api_key", c.apiKey)
	params.Set("num", strconv.Itoa(PageSize))
	if start > 0 {
		params.Set("start", strconv.Itoa(start))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	var page searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	// SerpAPI reports failures in-band with a 200 status
	if page.Error != "" {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    page.Error,
			AuthorID:   authorID,
		}
	}

	return &page, nil
}

// FetchAuthor fetches the author's complete current profile, following
// article pagination until the listing is exhausted. The call is not
// retried; any failure is returned to the caller as-is.
func (c *Client) FetchAuthor(ctx context.Context, authorID string) (*Profile, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if authorID == "" {
		return nil, fmt.Errorf("%w: empty author id", ErrNotFound)
	}

	profile := &Profile{AuthorID: authorID}

	for start := 0; ; start += PageSize {
		page, err := c.fetchPage(ctx, authorID, start)
		if err != nil {
			return nil, err
		}

		if start == 0 {
			profile.Name = page.Author.Name
			profile.Affiliations = page.Author.Affiliations
			applyCitedBy(profile, page.CitedBy.Table)
		}

		for _, a := range page.Articles {
			profile.Articles = append(profile.Articles, Article{
				Title:     a.Title,
				Year:      a.Year,
				Citations: a.CitedBy.Value,
			})
		}

		if len(page.Articles) < PageSize || page.Pagination.Next == "" {
			break
		}
	}

	return profile, nil
}

// applyCitedBy copies the aggregate metrics out of the cited_by table.
// Rows the provider omits leave the corresponding metric at zero.
func applyCitedBy(profile *Profile, table []citedByRow) {
	for _, row := range table {
		switch {
		case row.Citations != nil:
			profile.TotalCitations = row.Citations.All
		case row.HIndex != nil:
			profile.HIndex = row.HIndex.All
		case row.I10Index != nil:
			profile.I10Index = row.I10Index.All
		}
	}
}
