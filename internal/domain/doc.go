// Package domain models seismic-event records and the rules that decide
// which of them warrant a notification.
//
// # Data Sources
//
// Events arrive from one of two upstream sources, selected at startup:
//
// EMSC seismic portal (https://www.seismicportal.eu/fdsnws/event/1/query):
// an FDSN event query returning GeoJSON. Each feature carries a
// source-assigned identifier (source_id), numeric coordinates and magnitude,
// a Flynn-Engdahl region label, and an ISO-8601 origin time. The query is
// pre-filtered server-side with a bounding box and a 24-hour window.
//
// TMD earthquake warning page (https://www.tmd.go.th): an HTML listing of
// warning bulletins. Rows carry no structured fields; the only stable
// identifier is a 12-digit token at the end of each bulletin link:
//
//	DDMMYYYYHHmm  →  e.g. "260320251330" = 26 March 2025, 13:30
//
// The token doubles as the event timestamp and is interpreted in UTC+7
// (Thailand has no daylight saving). Magnitude, when present, is embedded in
// the bulletin title or description as a labelled decimal, e.g. "ขนาด 4.5"
// or "M5.2".
//
// # Normalization Rules
//
// Normalize is total over optional fields: a record missing magnitude,
// coordinates, or region still yields a canonical event with the field
// absent (nil pointer) or a sentinel region label. Only a record from which
// no identifier can be derived is rejected, with ErrMissingIdentifier. A
// timestamp that fails every known format falls back to the fetch time so
// that an event is always placeable on a timeline.
//
// # Relevance
//
// IsRelevant applies the magnitude threshold, an optional bounding box, and
// an optional great-circle radius around a fixed center point. The box and
// radius checks are independent and conjunctive: the box acts as a coarse
// regional prefilter, the radius as the precise cutoff. An absent magnitude
// never satisfies the threshold. Events without coordinates fail the
// geographic checks unless the policy explicitly allows them — useful for
// the warning page, which is already a regionally scoped source.
package domain
