package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	// ListingTimeout bounds a listing page fetch.
	ListingTimeout = 10 * time.Second
	// DetailTimeout bounds a detail page fetch.
	DetailTimeout = 12 * time.Second
)

// FetchError covers transport failures, timeouts and non-2xx responses.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

func NewFetcher(userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{},
		userAgent:  userAgent,
	}
}

// Run performs a GET and returns the response body as UTF-8 text.
// Pages served with a legacy or missing charset declaration (EUC-KR
// boards are common) are re-decoded via the detected encoding.
func (f *Fetcher) Run(ctx context.Context, url string, timeout time.Duration) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("failed to detect encoding: %w", err)}
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return string(data), nil
}
