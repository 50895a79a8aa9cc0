// Package geomath provides the pure, total geometric functions the rest of
// saferoute builds on: haversine distance, bearing, elliptical-corridor
// membership, and point-on-segment projection.
//
// Every function here is deterministic and allocation-free; none of them
// perform I/O, logging, or validation beyond clamping degenerate inputs to
// a sane output (see NearestPointOnSegment). Coord wraps orb.Point so the
// rest of the module can hand coordinates straight to orb's geodesy
// (orb/geo) and planar (orb/planar) helpers without a conversion layer.
package geomath

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// Coord is a (longitude, latitude) pair, matching orb's point convention
// internally while presenting latitude-first accessors to the rest of
// saferoute, which treats every public API as (lat, lon).
type Coord orb.Point

// NewCoord builds a Coord from (lat, lon) order.
func NewCoord(lat, lon float64) Coord {
	return Coord{lon, lat}
}

// Lat returns the latitude component.
func (c Coord) Lat() float64 { return c[1] }

// Lon returns the longitude component.
func (c Coord) Lon() float64 { return c[0] }

// Point returns the orb.Point view of c, for interop with orb/geo and
// orb/planar.
func (c Coord) Point() orb.Point { return orb.Point(c) }

// Valid reports whether c holds finite, in-range coordinates. It does not
// check whether c lies inside any particular service area; see
// request.ValidateCoordinate for that.
func (c Coord) Valid() bool {
	lat, lon := c.Lat(), c.Lon()
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}

	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// DistanceM returns the great-circle distance between a and b in meters.
// Monotone; zero iff a and b are the same point. Delegates to orb/geo's
// haversine implementation so saferoute never hand-rolls geodesy.
func DistanceM(a, b Coord) float64 {
	return geo.Distance(a.Point(), b.Point())
}

// BearingDeg returns the initial bearing from a to b in degrees, in
// [0, 360).
func BearingDeg(a, b Coord) float64 {
	brng := geo.Bearing(a.Point(), b.Point())
	if brng < 0 {
		brng += 360
	}

	return brng
}

// CorridorWidthM returns the elliptical-corridor width used by
// WithinEllipse for a route whose direct start-end distance is directM:
// max(corridorFraction * directM, corridorMinM).
func CorridorWidthM(directM, corridorFraction, corridorMinM float64) float64 {
	width := corridorFraction * directM
	if width < corridorMinM {
		return corridorMinM
	}

	return width
}

// WithinEllipse reports whether p lies within the elliptical corridor with
// foci f1, f2 and the given corridor width: true iff
// distance(p,f1) + distance(p,f2) <= distance(f1,f2) + corridorM.
func WithinEllipse(p, f1, f2 Coord, corridorM float64) bool {
	return DistanceM(p, f1)+DistanceM(p, f2) <= DistanceM(f1, f2)+corridorM
}

// NearestPointOnSegment returns the orthogonal projection of p onto the
// segment [a,b], clamped to the segment's endpoints. If a and b coincide,
// it returns a. The projection parameter t is computed directly in
// lon/lat degree space (a flat approximation, adequate at the sub-city
// scale saferoute operates at), then reused to interpolate the returned
// Coord exactly between a and b.
func NearestPointOnSegment(p, a, b Coord) Coord {
	if a == b {
		return a
	}

	ax, ay := a.Point()[0], a.Point()[1]
	bx, by := b.Point()[0], b.Point()[1]
	px, py := p.Point()[0], p.Point()[1]

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a
	}

	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return Coord{ax + t*dx, ay + t*dy}
}

// DistanceToSegmentM returns the geodesic distance in meters from p to the
// nearest point on segment [a,b], as given by NearestPointOnSegment.
func DistanceToSegmentM(p, a, b Coord) float64 {
	nearest := NearestPointOnSegment(p, a, b)

	return DistanceM(p, nearest)
}

// metersPerDegreeLat approximates how many meters one degree of latitude
// spans; used only to scale FastPlanarDistanceM's degree-space distance
// into a meters estimate for cheap bounding-box pre-filtering.
const metersPerDegreeLat = 111_320.0

// FastPlanarDistanceM returns a cheap, non-geodesic distance estimate
// between a and b in meters, computed with orb/planar's flat-earth
// Euclidean distance in degree-space (longitude scaled by the cosine of
// the mean latitude) and scaled by metersPerDegreeLat.
// It is accurate to within a few percent at Washington DC's latitude and
// over the short ranges saferoute's spatial grid queries span; it suits
// ranking or pre-filtering candidates before an exact DistanceM call, not
// a final reported distance.
func FastPlanarDistanceM(a, b Coord) float64 {
	k := math.Cos((a.Lat() + b.Lat()) / 2 * math.Pi / 180)
	pa := orb.Point{a.Lon() * k, a.Lat()}
	pb := orb.Point{b.Lon() * k, b.Lat()}

	return planar.Distance(pa, pb) * metersPerDegreeLat
}
