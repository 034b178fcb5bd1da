package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// RequestOptions carries the optional knobs for one request.
type RequestOptions struct {
	Headers map[string]string
	Params  map[string]string
	Timeout time.Duration
}

// Response is the status and raw body of a completed request. Non-2xx
// statuses are returned here, not as errors: callers classify them.
type Response struct {
	Status int
	Body   []byte
}

// Client performs single HTTP requests with no retry or backoff of its own.
type Client struct {
	http *http.Client
}

// New creates a client with the given default timeout.
func New(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// PerformRequest issues one request. Content-Type defaults to
// application/json and can be overridden through options. A transport
// failure is the only error case; any HTTP status is a successful Response.
func (c *Client) PerformRequest(ctx context.Context, method, rawURL string, body []byte, opts RequestOptions) (*Response, error) {
	if method == "" {
		return nil, fmt.Errorf("invalid HTTP method")
	}
	if rawURL == "" {
		return nil, fmt.Errorf("invalid HTTP URL")
	}

	if len(opts.Params) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP URL: %w", err)
		}
		q := u.Query()
		for k, v := range opts.Params {
			if v == "" {
				continue
			}
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("❌ [%s] %s - %v", method, rawURL, err)
		return nil, fmt.Errorf("error while performing http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Printf("🌐 [%s] %s - %d", method, rawURL, resp.StatusCode)
	return &Response{Status: resp.StatusCode, Body: respBody}, nil
}
