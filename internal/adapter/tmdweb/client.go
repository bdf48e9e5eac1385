// Package tmdweb fetches earthquake warning bulletins from the TMD
// warning-and-events page.
package tmdweb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-alert-service/internal/domain"
)

// DefaultPageURL is the TMD earthquake warning listing.
const DefaultPageURL = "https://www.tmd.go.th/warning-and-events/warning-earthquake"

// Client implements poller.Source by fetching the warning page markup and
// extracting bulletin rows. The page is server-rendered; a plain GET is
// enough, no browser involved.
type Client struct {
	httpClient *http.Client
	pageURL    string
	logger     *slog.Logger
}

// NewClient creates a warning-page client. Pass an empty pageURL for the
// default listing.
func NewClient(pageURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if pageURL == "" {
		pageURL = DefaultPageURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		pageURL:    pageURL,
		logger:     logger,
	}
}

// Fetch downloads the listing and returns one raw record per bulletin row.
func (c *Client) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("page error: status %d: %s", resp.StatusCode, body)
	}

	records, err := parseWarningRows(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("warning page fetched", "records", len(records))
	return records, nil
}
