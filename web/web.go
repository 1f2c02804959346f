// Package web defines the page-fetching contract consumed by the stash and
// an http.Client-based implementation, plus optional wrappers that rate-limit
// or breaker-guard outbound fetches.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Fetcher retrieves the content of a URL. Implementations must honor ctx
// cancellation; failed fetches are reported as errors, never as empty
// content.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Func adapts a plain function to the Fetcher interface.
type Func func(ctx context.Context, url string) (string, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// DefaultTimeout bounds a single page fetch when no custom http.Client is
// supplied.
const DefaultTimeout = 20 * time.Second

// maxBodySize caps how much of a response body is read (4 MiB).
const maxBodySize = 4 << 20

// Client fetches pages over HTTP.
type Client struct {
	hc        *http.Client
	userAgent string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.hc = hc }
}

// WithUserAgent sets the User-Agent header sent with every fetch.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates an HTTP page fetcher.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		hc: &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch retrieves the page at url. Non-2xx responses and transport failures
// are errors; the body is read up to an internal size cap.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("web: url must start with http:// or https://, got %q", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("web: fetch %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
