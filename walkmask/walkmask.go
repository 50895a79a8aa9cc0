// Package walkmask implements a read-only set of quantized lat/lon cells
// flagged walkable from an external extract of the street-tag corpus,
// exposing a "point or nearby-point walkable" predicate and a
// concentric-ring nearest-walkable search.
//
// Mask is built once offline and then shared read-only across every
// request; it never mutates after construction.
package walkmask

import (
	"errors"
	"fmt"
	"math"
)

// keyPrecision is the fixed "lat.4f, lon.4f" quantization used for
// walkable-tag keys (~11m resolution at DC's latitude), distinct from
// internal/ids.CoordPrecision which governs graph node identity.
const keyPrecision = 4

// searchStepDeg is the nearby-point search step: ~0.0001 degrees (~11m).
const searchStepDeg = 0.0001

// searchRingRadius is the half-width, in steps, of the 21x21 nearby-point
// grid searched by IsWalkable's fallback (±100m at searchStepDeg).
const searchRingRadius = 10

// ErrNoWalkableNearby is returned by NearestWalkable when no walkable cell
// is found within maxDeg of the query point.
var ErrNoWalkableNearby = errors.New("walkmask: no walkable cell within search radius")

// Mask is an immutable set of walkable quantized-coordinate keys.
type Mask struct {
	cells map[string]struct{}
}

// New builds a Mask from a list of (lat, lon) pairs known to be walkable
// (an external extract of the street-tag corpus, already filtered to
// walkable road types upstream of saferoute). Complexity: O(n).
func New(walkablePoints [][2]float64) *Mask {
	cells := make(map[string]struct{}, len(walkablePoints))
	for _, p := range walkablePoints {
		cells[key(p[0], p[1])] = struct{}{}
	}

	return &Mask{cells: cells}
}

// key quantizes (lat, lon) to the mask's fixed 4-decimal precision.
func key(lat, lon float64) string {
	return fmt.Sprintf("%.*f,%.*f", keyPrecision, lat, keyPrecision, lon)
}

// IsWalkable reports whether (lat, lon) is walkable: either an exact
// quantized-key hit, or a hit within the 21x21 grid of 0.0001-degree
// offsets centered on the cell containing (lat, lon).
func (m *Mask) IsWalkable(lat, lon float64) bool {
	if _, ok := m.cells[key(lat, lon)]; ok {
		return true
	}

	scale := math.Pow10(keyPrecision)
	baseLat, baseLon := math.Round(lat*scale)/scale, math.Round(lon*scale)/scale
	for dRow := -searchRingRadius; dRow <= searchRingRadius; dRow++ {
		for dCol := -searchRingRadius; dCol <= searchRingRadius; dCol++ {
			probeLat := baseLat + float64(dRow)*searchStepDeg
			probeLon := baseLon + float64(dCol)*searchStepDeg
			if _, ok := m.cells[key(probeLat, probeLon)]; ok {
				return true
			}
		}
	}

	return false
}

// NearestWalkable expands concentrically in searchStepDeg rings from
// (lat, lon) and returns the coordinates of the first walkable cell
// center found, along with the radial offset in degrees actually needed.
// If (lat, lon) itself falls in a walkable cell it is returned unchanged
// with a zero offset. Returns ErrNoWalkableNearby if no walkable cell
// exists within maxDeg.
func (m *Mask) NearestWalkable(lat, lon, maxDeg float64) (foundLat, foundLon, offsetDeg float64, err error) {
	if _, ok := m.cells[key(lat, lon)]; ok {
		return lat, lon, 0, nil
	}

	maxRing := int(maxDeg / searchStepDeg)
	for ring := 1; ring <= maxRing; ring++ {
		if found, fl, fn, ok := m.scanRing(lat, lon, ring); ok {
			return fl, fn, found, nil
		}
	}

	return 0, 0, 0, fmt.Errorf("%w: (%.6f,%.6f) within %.6f degrees", ErrNoWalkableNearby, lat, lon, maxDeg)
}

// scanRing checks every cell on the perimeter of the square ring at the
// given ring index (1-based) around (lat, lon), returning the first hit in
// a deterministic scan order (row-major over the ring perimeter).
func (m *Mask) scanRing(lat, lon float64, ring int) (offsetDeg, foundLat, foundLon float64, ok bool) {
	step := searchStepDeg
	for dRow := -ring; dRow <= ring; dRow++ {
		for dCol := -ring; dCol <= ring; dCol++ {
			// Only the perimeter of this ring; interior cells were
			// already checked by a smaller ring index.
			if dRow != -ring && dRow != ring && dCol != -ring && dCol != ring {
				continue
			}
			probeLat := lat + float64(dRow)*step
			probeLon := lon + float64(dCol)*step
			if _, hit := m.cells[key(probeLat, probeLon)]; hit {
				scale := math.Pow10(keyPrecision)
				return float64(ring) * step, math.Round(probeLat*scale) / scale, math.Round(probeLon*scale) / scale, true
			}
		}
	}

	return 0, 0, 0, false
}

// Len returns the number of distinct walkable cells in the mask.
func (m *Mask) Len() int {
	return len(m.cells)
}
