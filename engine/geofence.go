/*
geofence.go - GPS location validation for punch events

PURPOSE:
  Validates an observed coordinate against a reference fence (center+radius
  or polygon) using great-circle distance. The check has THREE outcomes, not
  two: passed, failed, and not-applicable. A rule with GPS validation
  disabled reports not-applicable rather than a pass, so downstream
  reporting can distinguish "checked and inside" from "never checked".

FAIL-CLOSED POLICY:
  Degenerate input (missing coordinate, radius <= 0 with no polygon,
  latitude/longitude outside the WGS84 domain) fails the check rather than
  erroring out. A punch without a GPS fix under an enabled rule is a
  rejection, full stop.
*/
package engine

import "math"

// =============================================================================
// GEOFENCE DEFINITION
// =============================================================================

// Geofence is a spatial boundary: a circle around Center when RadiusMeters
// is positive, or the polygon described by Vertices when present (three or
// more points). When both are set the polygon wins.
type Geofence struct {
	Name         string
	Center       Coordinate
	RadiusMeters float64
	Vertices     []Coordinate
}

// GeofenceOutcome is the three-valued result of a geofence check.
type GeofenceOutcome string

const (
	GeofencePassed        GeofenceOutcome = "passed"
	GeofenceFailed        GeofenceOutcome = "failed"
	GeofenceNotApplicable GeofenceOutcome = "not_applicable"
)

// GeofenceResult carries the outcome plus the computed distance to the
// fence center (zero when not computable).
type GeofenceResult struct {
	Outcome        GeofenceOutcome
	DistanceMeters float64
}

// WithinRange reports whether the check passed. Not-applicable is neither a
// pass nor a failure; callers deciding acceptance must branch on Outcome.
func (r GeofenceResult) WithinRange() bool { return r.Outcome == GeofencePassed }

// =============================================================================
// VALIDATION
// =============================================================================

const earthRadiusMeters = 6371000.0

// Validate checks an observed coordinate against the fence. enabled mirrors
// RuleConfig.GPSValidationEnabled: when false the check is skipped entirely
// and reported as not-applicable.
func Validate(fence *Geofence, observed *Coordinate, enabled bool) GeofenceResult {
	if !enabled {
		return GeofenceResult{Outcome: GeofenceNotApplicable}
	}
	if fence == nil || observed == nil || !observed.Valid() {
		return GeofenceResult{Outcome: GeofenceFailed}
	}

	if len(fence.Vertices) >= 3 {
		dist := HaversineMeters(polygonCentroid(fence.Vertices), *observed)
		if pointInPolygon(*observed, fence.Vertices) {
			return GeofenceResult{Outcome: GeofencePassed, DistanceMeters: dist}
		}
		return GeofenceResult{Outcome: GeofenceFailed, DistanceMeters: dist}
	}

	if fence.RadiusMeters <= 0 || !fence.Center.Valid() {
		return GeofenceResult{Outcome: GeofenceFailed}
	}

	dist := HaversineMeters(fence.Center, *observed)
	if dist <= fence.RadiusMeters {
		return GeofenceResult{Outcome: GeofencePassed, DistanceMeters: dist}
	}
	return GeofenceResult{Outcome: GeofenceFailed, DistanceMeters: dist}
}

// HaversineMeters computes the great-circle distance between two points.
func HaversineMeters(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// pointInPolygon uses the ray-casting rule on lat/lon treated as planar.
// Fences are building-scale, so planar treatment is within GPS noise.
func pointInPolygon(p Coordinate, vertices []Coordinate) bool {
	inside := false
	n := len(vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := vertices[i], vertices[j]
		if (vi.Latitude > p.Latitude) != (vj.Latitude > p.Latitude) {
			cross := (vj.Longitude-vi.Longitude)*(p.Latitude-vi.Latitude)/(vj.Latitude-vi.Latitude) + vi.Longitude
			if p.Longitude < cross {
				inside = !inside
			}
		}
	}
	return inside
}

func polygonCentroid(vertices []Coordinate) Coordinate {
	var lat, lon float64
	for _, v := range vertices {
		lat += v.Latitude
		lon += v.Longitude
	}
	n := float64(len(vertices))
	return Coordinate{Latitude: lat / n, Longitude: lon / n}
}
