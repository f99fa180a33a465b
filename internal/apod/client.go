// Package apod talks to NASA's Astronomy Picture of the Day API. It is
// the demo consumer for a resolved API key: one authenticated GET, a
// JSON body, and a rate limit header worth keeping an eye on.
package apod

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the public APOD endpoint.
const DefaultBaseURL = "https://api.nasa.gov/planetary/apod"

// Picture is one day's entry. URL points at the media itself and is
// empty only for entries NASA published without one.
type Picture struct {
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	Date        string `json:"date"`
	URL         string `json:"url"`
	HDURL       string `json:"hdurl,omitempty"`
	MediaType   string `json:"media_type"`
	Copyright   string `json:"copyright,omitempty"`
}

// Params narrows the request. Zero values mean today's picture.
type Params struct {
	// Date in YYYY-MM-DD form
	Date string
	// HD asks the API to include the hdurl field
	HD bool
}

// Client issues authenticated APOD requests. The API key goes into the
// api_key query parameter, never into a header or the URL path logs.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	rateLimitRemaining int
}

type Option func(*Client)

// WithBaseURL overrides the endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient builds a client around the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimitRemaining: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves one picture entry. Non-200 responses become errors
// carrying the API's own message when the body has one.
func (c *Client) Fetch(ctx context.Context, params Params) (*Picture, error) {
	query := url.Values{}
	query.Set("api_key", c.apiKey)
	if params.Date != "" {
		query.Set("date", params.Date)
	}
	if params.HD {
		query.Set("hd", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch picture: %w", err)
	}
	defer resp.Body.Close()

	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if n, err := strconv.Atoi(remaining); err == nil {
			c.rateLimitRemaining = n
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body)
	}

	var picture Picture
	if err := json.Unmarshal(body, &picture); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &picture, nil
}

// RateLimitRemaining reports the X-RateLimit-Remaining value from the
// last response, or -1 before any request completed.
func (c *Client) RateLimitRemaining() int {
	return c.rateLimitRemaining
}

// The API uses two error shapes: api.nasa.gov's gateway wraps denials
// in {"error": {"code", "message"}} while the service itself returns
// {"code", "msg"} for bad parameters.
func apiError(status int, body []byte) error {
	var payload struct {
		Msg   string `json:"msg"`
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		message = payload.Error.Message
		if message == "" {
			message = payload.Msg
		}
	}
	if message == "" {
		return fmt.Errorf("unexpected status %d", status)
	}
	return fmt.Errorf("%s (status %d)", message, status)
}
