package logbook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const (
	BaseURL = "https://log.concept2.com/api"

	// acceptHeader selects the v1 Logbook API
	acceptHeader = "application/vnd.c2logbook.v1+json"

	// MaxPerPage is the largest page size the Logbook API accepts
	MaxPerPage = 250

	// MachineRower is the result type for indoor rowers
	MachineRower = "rower"

	maxRetries = 3
)

// ErrUnauthorized is returned when the token is rejected
var ErrUnauthorized = errors.New("logbook rejected the access token")

// APIError is a non-2xx response from the Logbook API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// Client is a Concept2 Logbook API client
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *RateLimiter
}

// NewClient creates a new Logbook API client
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return NewClientWithHTTP(oauth2.NewClient(context.Background(), tokenSource), BaseURL)
}

// NewClientWithHTTP creates a client against baseURL using httpClient,
// which is expected to add authorization itself
func NewClientWithHTTP(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		rateLimiter: NewRateLimiter(),
	}
}

// GetUser fetches the authenticated user
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	var resp userResponse
	if err := c.getJSON(ctx, "/users/me", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &resp.Data, nil
}

// GetResults fetches one page of rower results completed on or after from.
// A zero from fetches from the beginning.
func (c *Client) GetResults(ctx context.Context, from time.Time, page, perPage int) (*ResultsPage, error) {
	params := url.Values{}
	if !from.IsZero() {
		params.Set("from", from.UTC().Format("2006-01-02"))
	}
	params.Set("type", MachineRower)
	params.Set("page", strconv.Itoa(page))
	params.Set("number", strconv.Itoa(perPage))

	var results ResultsPage
	if err := c.getJSON(ctx, "/users/me/results", params, &results); err != nil {
		return nil, fmt.Errorf("fetching results: %w", err)
	}
	return &results, nil
}

// GetAllResults fetches all results on or after from
// It handles pagination automatically and respects rate limits
func (c *Client) GetAllResults(ctx context.Context, from time.Time, onProgress func(fetched int)) ([]Result, error) {
	var allResults []Result
	page := 1

	for {
		results, err := c.GetResults(ctx, from, page, MaxPerPage)
		if err != nil {
			return allResults, fmt.Errorf("fetching page %d: %w", page, err)
		}

		if len(results.Data) == 0 {
			break
		}

		allResults = append(allResults, results.Data...)

		if onProgress != nil {
			onProgress(len(allResults))
		}

		p := results.Meta.Pagination
		if p.TotalPages > 0 {
			if page >= p.TotalPages {
				break
			}
		} else if len(results.Data) < MaxPerPage {
			break // Last page
		}

		page++
	}

	return allResults, nil
}

// GetStrokes fetches per-stroke samples for a result
func (c *Client) GetStrokes(ctx context.Context, resultID int64) ([]Stroke, error) {
	var resp strokesResponse
	path := fmt.Sprintf("/users/me/results/%d/strokes", resultID)
	if err := c.getJSON(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching strokes for %d: %w", resultID, err)
	}
	return resp.Data, nil
}

// RateLimitStatus returns the current rate limit status
func (c *Client) RateLimitStatus() (remaining int, blockedUntil time.Time) {
	return c.rateLimiter.Status()
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	resp, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", acceptHeader)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		// Update rate limiter from response
		c.rateLimiter.UpdateFromResponse(resp)

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp, nil
		case resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, string(body))
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
}
