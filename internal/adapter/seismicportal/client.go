// Package seismicportal fetches seismic events from an FDSN event query
// endpoint (EMSC seismic portal shape).
package seismicportal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/quake-alert-service/internal/domain"
)

// DefaultBaseURL is the EMSC FDSN event query endpoint.
const DefaultBaseURL = "https://www.seismicportal.eu/fdsnws/event/1/query"

// Client implements poller.Source against an FDSN event query endpoint.
// Each fetch asks for the trailing lookback window, optionally constrained
// to a bounding box so the server prefilters by region.
type Client struct {
	httpClient *http.Client
	baseURL    string
	window     time.Duration
	bounds     *domain.BoundingBox
	logger     *slog.Logger
}

// NewClient creates a feed client. Pass an empty baseURL for the default
// endpoint and a nil bounds to skip the server-side box filter.
func NewClient(baseURL string, timeout, window time.Duration, bounds *domain.BoundingBox, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		window:     window,
		bounds:     bounds,
		logger:     logger,
	}
}

// Fetch queries the feed for events within the lookback window and maps
// each GeoJSON feature to a raw record.
func (c *Client) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	now := time.Now().UTC()
	params := url.Values{
		"format":    {"json"},
		"starttime": {now.Add(-c.window).Format(time.RFC3339)},
		"endtime":   {now.Format(time.RFC3339)},
	}
	if c.bounds != nil {
		params.Set("minlat", fmt.Sprintf("%g", c.bounds.MinLat))
		params.Set("maxlat", fmt.Sprintf("%g", c.bounds.MaxLat))
		params.Set("minlon", fmt.Sprintf("%g", c.bounds.MinLon))
		params.Set("maxlon", fmt.Sprintf("%g", c.bounds.MaxLon))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	// FDSN endpoints answer 204 when the window holds no events.
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("feed error: status %d: %s", resp.StatusCode, body)
	}

	var feed response
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	records := make([]domain.RawRecord, 0, len(feed.Features))
	for _, f := range feed.Features {
		records = append(records, domain.RawRecord{
			SourceID:  f.Properties.SourceID,
			Region:    f.Properties.FlynnRegion,
			Magnitude: f.Properties.Mag,
			Lat:       f.Properties.Lat,
			Lon:       f.Properties.Lon,
			Time:      f.Properties.Time,
		})
	}
	c.logger.Debug("feed fetched", "records", len(records))
	return records, nil
}

// FDSN GeoJSON response types. Numeric properties are pointers because the
// feed omits fields it has no value for.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties properties `json:"properties"`
}

type properties struct {
	SourceID    string   `json:"source_id"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Mag         *float64 `json:"mag"`
	FlynnRegion string   `json:"flynn_region"`
	Time        string   `json:"time"`
}
