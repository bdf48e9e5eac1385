package domain

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// valueUnknown is rendered for optional fields the source did not supply.
const valueUnknown = "unknown"

// printer applies locale digit grouping to distances, e.g. 1234.5 → "1,234.5".
var printer = message.NewPrinter(language.English)

// DisplayLocation returns the timezone alerts are rendered in. Falls back to
// a fixed UTC+7 zone when the tz database is not available in the runtime
// image.
func DisplayLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		return tokenZone
	}
	return loc
}

// FormatAlert renders the fixed user-facing alert template for an event.
// Total: absent magnitude or coordinates render as sentinel strings rather
// than failing.
func FormatAlert(event SeismicEvent, center Geo, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("⚠️ Earthquake Alert ⚠️\n\n")
	fmt.Fprintf(&b, "Region: %s\n", event.Region)
	fmt.Fprintf(&b, "Magnitude: %s\n", formatMagnitude(event.Magnitude))
	fmt.Fprintf(&b, "Distance: %s\n", formatDistanceFrom(event.Geo, center))
	fmt.Fprintf(&b, "Time: %s", event.OccurredAt.In(loc).Format("2 January 2006 15:04:05"))
	return b.String()
}

func formatMagnitude(magnitude *float64) string {
	if magnitude == nil {
		return valueUnknown
	}
	return fmt.Sprintf("M%.1f", *magnitude)
}

func formatDistanceFrom(geo *Geo, center Geo) string {
	if geo == nil {
		return valueUnknown
	}
	return formatDistance(DistanceKm(*geo, center))
}

func formatDistance(km float64) string {
	return printer.Sprintf("%.1f km", km)
}
