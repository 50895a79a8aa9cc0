// Package spatialgrid implements a uniform lat/lon grid keyed by a
// quantized cell id, giving O(1)-average proximity queries over whatever
// entity type a caller chooses to index (street segments during safety
// scoring, edges during intersection splitting, graph nodes for request
// snapping).
//
// The grid makes one guarantee and one trade-off explicit: no false
// negatives for queries whose radius is <= the configured cell size
// (QueryRadius always scans every cell the query's bounding box touches),
// and false positives are expected from the cell scan — QueryRadius
// always re-filters those candidates by geomath.DistanceM from the query
// point to each entity's Center.
//
// The cell-addressing idiom and nested-map-of-sets storage shape follow a
// fixed dense raster grid's by-(x,y)-index approach, generalized here to
// an open, sparse set of quantized lat/lon cells.
package spatialgrid

import (
	"fmt"
	"math"

	"github.com/dcsaferoutes/saferoute/geomath"
	"gonum.org/v1/gonum/floats"
)

// DefaultSegmentCellSizeDeg is the cell size used for segment/crime
// spatial indexing: ~0.002 degrees, approximately 200m at DC's latitude.
const DefaultSegmentCellSizeDeg = 0.002

// DefaultIntersectionCellSizeDeg is the finer cell size used while
// bucketing edges for implicit-intersection detection.
const DefaultIntersectionCellSizeDeg = 0.0005

// Entity is anything a Grid can index: a bounding box in lat/lon plus an
// opaque payload returned by QueryRadius. Bounds allows an entity (e.g. a
// multi-point street segment) to occupy every cell its bounding box
// overlaps, not just the cell containing a single point.
type Entity struct {
	// ID is an opaque, caller-assigned identifier, returned in query
	// results to let the caller dereference its own data.
	ID string
	// Center is the representative point used for exact-distance
	// re-filtering in QueryRadius.
	Center geomath.Coord
	// MinLat, MinLon, MaxLat, MaxLon bound the entity; for a point
	// entity, Min == Max == Center.
	MinLat, MinLon, MaxLat, MaxLon float64
}

// Grid is a uniform quantized lat/lon grid. The zero value is not usable;
// construct with New.
type Grid struct {
	cellSizeDeg float64
	cells       map[cellKey]map[string]Entity
}

// cellKey is the quantized (row, col) address of a grid cell.
type cellKey struct {
	row, col int64
}

// New returns an empty Grid with the given cell size in degrees. Panics
// if cellSizeDeg <= 0, since a non-positive cell size can never bound a
// query correctly.
func New(cellSizeDeg float64) *Grid {
	if cellSizeDeg <= 0 {
		panic("spatialgrid: cellSizeDeg must be positive")
	}

	return &Grid{
		cellSizeDeg: cellSizeDeg,
		cells:       make(map[cellKey]map[string]Entity),
	}
}

// cellOf returns the cellKey containing (lat, lon).
func (g *Grid) cellOf(lat, lon float64) cellKey {
	return cellKey{
		row: int64(math.Floor(lat / g.cellSizeDeg)),
		col: int64(math.Floor(lon / g.cellSizeDeg)),
	}
}

// Insert adds e to every cell its bounding box overlaps. Complexity:
// O(cells touched), typically O(1) for point-like entities and O(k) for a
// segment spanning k cells.
func (g *Grid) Insert(e Entity) {
	minRow := int64(math.Floor(e.MinLat / g.cellSizeDeg))
	maxRow := int64(math.Floor(e.MaxLat / g.cellSizeDeg))
	minCol := int64(math.Floor(e.MinLon / g.cellSizeDeg))
	maxCol := int64(math.Floor(e.MaxLon / g.cellSizeDeg))

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			key := cellKey{row, col}
			bucket, ok := g.cells[key]
			if !ok {
				bucket = make(map[string]Entity)
				g.cells[key] = bucket
			}
			bucket[e.ID] = e
		}
	}
}

// QueryRadius returns every indexed entity whose Center lies within
// radiusM meters of center, ordered by ascending distance from center.
// Candidates are drawn from every cell overlapping a bounding box of
// radiusM around center (no false negatives for radiusM <= the grid's
// cell size) and filtered to the exact radius using geomath.DistanceM.
//
// Complexity: O(candidates in the scanned cells), where candidates is
// typically small and bounded by entity density.
func (g *Grid) QueryRadius(center geomath.Coord, radiusM float64) []Entity {
	// Convert the search radius to an approximate degree span, padded by
	// one cell in each direction so no candidate on a cell boundary is
	// missed.
	degSpan := radiusM/geomath.DistanceM(geomath.NewCoord(0, 0), geomath.NewCoord(0, 1)) + g.cellSizeDeg

	minRow := int64(math.Floor((center.Lat() - degSpan) / g.cellSizeDeg))
	maxRow := int64(math.Floor((center.Lat() + degSpan) / g.cellSizeDeg))
	minCol := int64(math.Floor((center.Lon() - degSpan) / g.cellSizeDeg))
	maxCol := int64(math.Floor((center.Lon() + degSpan) / g.cellSizeDeg))

	seen := make(map[string]struct{})
	var candidates []Entity
	var dists []float64

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			bucket, ok := g.cells[cellKey{row, col}]
			if !ok {
				continue
			}
			for id, e := range bucket {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				d := geomath.DistanceM(center, e.Center)
				if d <= radiusM {
					candidates = append(candidates, e)
					dists = append(dists, d)
				}
			}
		}
	}

	inds := make([]int, len(dists))
	for i := range inds {
		inds[i] = i
	}
	floats.Argsort(dists, inds)

	ordered := make([]Entity, len(candidates))
	for i, idx := range inds {
		ordered[i] = candidates[idx]
	}

	return ordered
}

// CellKeyString returns a stable, human-readable string for the cell
// containing (lat, lon); used in log fields and tests, never in hot-loop
// comparisons.
func (g *Grid) CellKeyString(lat, lon float64) string {
	k := g.cellOf(lat, lon)

	return fmt.Sprintf("%d,%d", k.row, k.col)
}

// Len returns the number of distinct entities currently indexed across all
// cells (an entity spanning multiple cells counts once).
func (g *Grid) Len() int {
	seen := make(map[string]struct{})
	for _, bucket := range g.cells {
		for id := range bucket {
			seen[id] = struct{}{}
		}
	}

	return len(seen)
}
