package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Fetcher discovers and downloads the OpenAPI document from a live backend
type Fetcher struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewFetcher creates a new instance of Fetcher
func NewFetcher(baseURL string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// Fetch tries a list of well-known documentation URLs and returns the first
// document that parses
func (f *Fetcher) Fetch(ctx context.Context) (*Document, error) {
	urls := []string{
		fmt.Sprintf("%s/swagger/v1/swagger.json", f.baseURL),
		fmt.Sprintf("%s/swagger.json", f.baseURL),
		fmt.Sprintf("%s/v1/swagger.json", f.baseURL),
		fmt.Sprintf("%s/api/swagger.json", f.baseURL),
		fmt.Sprintf("%s/api/v1/swagger.json", f.baseURL),
		fmt.Sprintf("%s/openapi.json", f.baseURL),
	}

	var lastErr error
	for _, url := range urls {
		doc, err := f.fetchOne(ctx, url)
		if err != nil {
			f.logger.Warn("failed to fetch OpenAPI documentation", "url", url, "error", err)
			lastErr = err
			continue
		}
		f.logger.Info("fetched OpenAPI documentation", "url", url)
		return doc, nil
	}

	return nil, fmt.Errorf("failed to fetch OpenAPI documentation from any known URL. Last error: %v", lastErr)
}

// FetchURL downloads and parses the document at an explicit URL, skipping
// the well-known URL probing
func (f *Fetcher) FetchURL(ctx context.Context, url string) (*Document, error) {
	return f.fetchOne(ctx, url)
}

// fetchOne downloads and parses the document at the given URL
func (f *Fetcher) fetchOne(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return Load(body)
}
