// Package scraper holds the pieces shared by every upstream source adapter:
// page fetching, selector-list extraction and the failure-to-empty guard.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"price-scout/utils"
)

// maxBodyBytes bounds how much of an upstream page is read.
const maxBodyBytes = 8 << 20

// BrowserHeaders identify requests as a desktop browser. The scraped sites
// gate their search pages on client identification.
var BrowserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language":           "en-IN,en;q=0.9",
	"Upgrade-Insecure-Requests": "1",
}

// PageFetcher turns a URL into the HTML of the page behind it.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// HTTPFetcher fetches pages with a plain HTTP GET and the browser header set.
type HTTPFetcher struct {
	client *http.Client
	retry  *utils.RetryConfig
}

// NewHTTPFetcher creates an HTTPFetcher. A nil retry config makes exactly one attempt.
func NewHTTPFetcher(client *http.Client, retry *utils.RetryConfig) *HTTPFetcher {
	if client == nil {
		client = utils.NewHTTPClient(0)
	}
	cfg := utils.RetryConfig{MaxAttempts: 1}
	if retry != nil {
		cfg = *retry
	}
	if cfg.IsRetryable == nil {
		cfg.IsRetryable = isTransient
	}
	return &HTTPFetcher{client: client, retry: &cfg}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	var body []byte
	op := "fetch " + hostOf(pageURL)

	err := f.retry.Do(ctx, op, func() error {
		b, err := f.get(ctx, pageURL)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	return body, err
}

func (f *HTTPFetcher) get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range BrowserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}
	return body, nil
}

// isTransient retries network errors, 429 and 5xx. Other statuses and
// context cancellation are final.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	return true
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
