// Package client issues the CRUD calls of the console against the REST record
// store. Every failure, transport or status, is logged and surfaced as an
// *APIError; nothing is retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout of zero leaves requests unbounded.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
	// Now is used for server-assigned defaults such as creation dates.
	Now func() time.Time
}

// Client is the shared HTTP layer of every resource.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        zerolog.Logger
	now        func() time.Time
}

// New validates the options and builds a Client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		log:        opts.Logger,
		now:        now,
	}, nil
}

// BaseURL returns the backend root the client points at.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return c.fail(method, path, 0, fmt.Errorf("marshaling request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return c.fail(method, path, 0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(method, path, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return c.fail(method, path, resp.StatusCode, nil)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return c.fail(method, path, resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func (c *Client) fail(method, path string, status int, cause error) error {
	apiErr := &APIError{Method: method, Path: path, StatusCode: status, Err: cause}
	c.log.Error().
		Err(cause).
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Msg("backend request failed")
	return apiErr
}
