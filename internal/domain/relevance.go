package domain

// Policy holds the magnitude and geography thresholds deciding which events
// warrant a notification. It is built once at startup and never mutated.
//
// Bounds and MaxDistanceKm are independently optional: a nil Bounds skips
// the box check, a non-positive MaxDistanceKm skips the radius check. When
// both are set they are conjunctive — the box is a coarse regional
// prefilter, the radius the precise cutoff.
type Policy struct {
	MinMagnitude  float64
	Center        Geo
	MaxDistanceKm float64
	Bounds        *BoundingBox

	// AllowMissingCoords lets events without coordinates bypass the
	// geographic checks. Off by default: a record that cannot be placed
	// is not relevant unless the operator explicitly says otherwise.
	AllowMissingCoords bool
}

// IsRelevant reports whether event passes the policy. Pure and total: no
// side effects, no error conditions.
func IsRelevant(event SeismicEvent, policy Policy) bool {
	if event.Magnitude == nil || *event.Magnitude < policy.MinMagnitude {
		return false
	}

	if event.Geo == nil {
		return policy.AllowMissingCoords
	}

	if policy.Bounds != nil && !policy.Bounds.Contains(*event.Geo) {
		return false
	}
	if policy.MaxDistanceKm > 0 && DistanceKm(*event.Geo, policy.Center) > policy.MaxDistanceKm {
		return false
	}
	return true
}
