// Package adapter provides shared plumbing for marketplace site adapters.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrStructureChanged reports that a required field could not be extracted
// from a page, the usual sign that the target site's markup changed and the
// adapter needs updating.
var ErrStructureChanged = errors.New("page structure changed")

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Client fetches marketplace pages over HTTP. Site adapters share one
// client per browsing session; cookies persist across requests within it.
type Client struct {
	http *resty.Client
}

// NewClient builds an HTTP client with a cookie jar, a browser user agent
// and the given request timeout.
func NewClient(timeout time.Duration) *Client {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err == nil {
		client.SetCookieJar(jar)
	}
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(timeout)
	return &Client{http: client}
}

// Get fetches url and returns the page body. Any non-200 status is an
// error: marketplaces answer rate-limited or blocked requests with error
// pages that must never be parsed as results.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode())
	}
	return resp.String(), nil
}
