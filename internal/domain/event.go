package domain

import "time"

// RegionUnspecified is the sentinel region label for records whose source
// did not supply one.
const RegionUnspecified = "unspecified"

// RawRecord is a source-shaped record before normalization. Field presence
// varies by adapter: the FDSN feed fills SourceID and the numeric fields,
// the warning-page adapter fills Title, Description, and Link.
type RawRecord struct {
	SourceID    string
	Title       string
	Description string
	Link        string
	Region      string
	Magnitude   *float64
	Lat         *float64
	Lon         *float64
	Time        string // RFC3339 origin time or a DDMMYYYYHHmm link token
}

// Geo is a WGS-84 latitude/longitude coordinate pair in degrees.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BoundingBox is an axis-aligned lat/lon rectangle.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether g lies within the box, boundaries included.
func (b BoundingBox) Contains(g Geo) bool {
	return g.Lat >= b.MinLat && g.Lat <= b.MaxLat &&
		g.Lon >= b.MinLon && g.Lon <= b.MaxLon
}

// SeismicEvent is the canonical, source-independent representation of one
// seismic record. It is constructed fresh every poll cycle; only the ID
// survives across cycles, inside the dedup store.
//
// Magnitude and Geo are nil when the source record carried no parseable
// value. A nil magnitude never passes the relevance filter.
type SeismicEvent struct {
	ID         string    `json:"id"`
	Magnitude  *float64  `json:"magnitude,omitempty"`
	Geo        *Geo      `json:"geo,omitempty"`
	Region     string    `json:"region"`
	OccurredAt time.Time `json:"occurred_at"`
}
