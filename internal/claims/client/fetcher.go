package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxDocumentSize bounds how much of a provider response is read.
const maxDocumentSize = 1 << 20

// ErrResponseTooLarge is returned when a provider response exceeds maxDocumentSize.
var ErrResponseTooLarge = errors.New("response too large")

// Fetcher performs an authenticated GET and returns the raw response.
type Fetcher interface {
	Fetch(ctx context.Context, url, bearer string) (status int, body []byte, err error)
}

// HTTPFetcher is a Fetcher over net/http.
type HTTPFetcher struct {
	httpClient *http.Client
}

// NewHTTPFetcher creates a fetcher. A nil client uses http.DefaultClient.
func NewHTTPFetcher(httpClient *http.Client) *HTTPFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPFetcher{httpClient: httpClient}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, bearer string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxDocumentSize {
		return resp.StatusCode, nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxDocumentSize)
	}
	return resp.StatusCode, body, nil
}
