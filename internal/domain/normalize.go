package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrMissingIdentifier is returned when no stable identifier can be derived
// from a raw record. Such records are dropped, not retried: without an id
// there is no way to suppress the duplicate on the next poll.
var ErrMissingIdentifier = errors.New("no stable identifier in record")

var (
	// linkTokenRe matches the 12-digit bulletin token at the end of a
	// warning-page link, e.g. ".../warning-earthquake/260320251330".
	linkTokenRe = regexp.MustCompile(`/(\d{12})$`)

	// magnitudeRe extracts a labelled decimal magnitude from free text.
	// Matches the Thai label used by the warning page ("ขนาด 4.5") as well
	// as the common Latin forms ("magnitude 4.5", "M5.2").
	magnitudeRe = regexp.MustCompile(`(?:ขนาด|[Mm]agnitude|M)\s*(\d+(?:\.\d+)?)`)
)

// tokenZone is the fixed offset the 12-digit bulletin tokens are quoted in.
// Thailand does not observe daylight saving, so a fixed zone is exact.
var tokenZone = time.FixedZone("ICT", 7*60*60)

// Normalize maps one raw source record into a canonical SeismicEvent.
//
// It is total over optional fields: absent magnitude or coordinates yield
// nil pointers, an absent region yields RegionUnspecified, and an
// unparseable timestamp falls back to the current time. The only failure is
// ErrMissingIdentifier when neither a source id nor a link token exists.
func Normalize(raw RawRecord) (SeismicEvent, error) {
	id, err := extractID(raw)
	if err != nil {
		return SeismicEvent{}, err
	}

	return SeismicEvent{
		ID:         id,
		Magnitude:  extractMagnitude(raw),
		Geo:        extractGeo(raw),
		Region:     extractRegion(raw),
		OccurredAt: parseEventTime(raw.Time),
	}, nil
}

// extractID prefers the source-assigned identifier and falls back to the
// 12-digit token embedded in the record's link.
func extractID(raw RawRecord) (string, error) {
	if raw.SourceID != "" {
		return raw.SourceID, nil
	}
	if m := linkTokenRe.FindStringSubmatch(raw.Link); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: link %q", ErrMissingIdentifier, raw.Link)
}

// extractMagnitude prefers the numeric field and falls back to scanning the
// title and description for a labelled decimal. Returns nil when neither
// yields a value; absent magnitude is not an error.
func extractMagnitude(raw RawRecord) *float64 {
	if raw.Magnitude != nil {
		return raw.Magnitude
	}
	for _, text := range []string{raw.Title, raw.Description} {
		m := magnitudeRe.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &v
		}
	}
	return nil
}

// extractGeo returns the record's coordinates, or nil when either axis is
// missing or out of range. Out-of-range values are discarded rather than
// propagated so downstream code never sees an invalid coordinate.
func extractGeo(raw RawRecord) *Geo {
	if raw.Lat == nil || raw.Lon == nil {
		return nil
	}
	lat, lon := *raw.Lat, *raw.Lon
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil
	}
	return &Geo{Lat: lat, Lon: lon}
}

func extractRegion(raw RawRecord) string {
	if raw.Region != "" {
		return raw.Region
	}
	if raw.Title != "" {
		return raw.Title
	}
	return RegionUnspecified
}

// parseEventTime accepts an RFC 3339 timestamp or a 12-digit DDMMYYYYHHmm
// token. Anything else falls back to the current time so the event remains
// placeable on a timeline.
func parseEventTime(value string) time.Time {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, ok := parseBulletinToken(value); ok {
		return t
	}
	return clock.Now()
}

// parseBulletinToken interprets a DDMMYYYYHHmm token in the token zone.
// The round-trip through time.Date is re-checked so that tokens like
// "320120251030" (day 32) are rejected instead of silently normalized.
func parseBulletinToken(token string) (time.Time, bool) {
	if len(token) != 12 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(token[0:2])
	month, err2 := strconv.Atoi(token[2:4])
	year, err3 := strconv.Atoi(token[4:8])
	hour, err4 := strconv.Atoi(token[8:10])
	minute, err5 := strconv.Atoi(token[10:12])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, tokenZone)
	if t.Day() != day || t.Month() != time.Month(month) || t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, false
	}
	return t, true
}
