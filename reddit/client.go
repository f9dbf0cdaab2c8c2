// Package reddit implements the upstream data-fetch collaborator against
// the public Reddit JSON API. It fetches the most recent page of an
// account's comments and submissions and hands the loosely-typed payload to
// the normalizer; it never interprets the data itself.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/reddit-ranger/ranger/detect"
)

const (
	DefaultHost      = "https://www.reddit.com"
	DefaultUserAgent = "ranger/1.0 (bot-likelihood analysis)"

	// matches the upstream page limit; pagination is out of scope
	fetchLimit = 100
)

type Client struct {
	Host      string
	UserAgent string
	HTTP      *http.Client
}

func NewClient(host string) *Client {
	if host == "" {
		host = DefaultHost
	}
	return &Client{
		Host:      host,
		UserAgent: DefaultUserAgent,
		HTTP:      robustHTTPClient(),
	}
}

// robustHTTPClient wraps transport-level retries (connection errors, 5xx,
// 429 with Retry-After) behind the stdlib client interface. Result-level
// retry policy stays with the engine's callers.
func robustHTTPClient() *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil
	client := retryClient.StandardClient()
	client.Timeout = 20 * time.Second
	return client
}

var _ interface {
	FetchProfile(ctx context.Context, username string) (*detect.RawProfile, error)
} = (*Client)(nil)

// FetchProfile retrieves the account metadata plus its recent comments and
// submissions. Not-found maps to detect.ErrAccountNotFound; everything else
// that goes wrong upstream maps to detect.ErrUpstreamUnavailable.
func (c *Client) FetchProfile(ctx context.Context, username string) (*detect.RawProfile, error) {
	var about aboutResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/user/%s/about.json", username), &about); err != nil {
		return nil, err
	}
	if about.Data.Name == "" {
		return nil, fmt.Errorf("account %q: %w", username, detect.ErrAccountNotFound)
	}

	raw := &detect.RawProfile{
		Username:     about.Data.Name,
		LinkKarma:    about.Data.LinkKarma,
		CommentKarma: about.Data.CommentKarma,
	}
	if about.Data.CreatedUTC != nil {
		raw.CreatedAt = *about.Data.CreatedUTC
	}

	var comments listingResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/user/%s/comments.json?limit=%d", username, fetchLimit), &comments); err != nil {
		return nil, err
	}
	var submitted listingResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/user/%s/submitted.json?limit=%d", username, fetchLimit), &submitted); err != nil {
		return nil, err
	}

	raw.Activities = append(raw.Activities, thingsToActivities(comments.Data.Children)...)
	raw.Activities = append(raw.Activities, thingsToActivities(submitted.Data.Children)...)
	return raw, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.Host+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %v: %w", path, err, detect.ErrUpstreamUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("fetching %s: %w", path, detect.ErrAccountNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("fetching %s: status %d: %w", path, resp.StatusCode, detect.ErrUpstreamUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return fmt.Errorf("reading %s: %v: %w", path, err, detect.ErrUpstreamUnavailable)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s: %v: %w", path, err, detect.ErrUpstreamUnavailable)
	}
	return nil
}
