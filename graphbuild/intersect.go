package graphbuild

import "github.com/dcsaferoutes/saferoute/geomath"

// intersectionParallelToleranceM is the perpendicular distance, in
// meters, below which two near-parallel or overlapping edges are treated
// as crossing at the point where they come closest.
const intersectionParallelToleranceM = 1.0

// findIntersection reports whether segment (a1,a2) and segment (b1,b2)
// cross or nearly-overlap, and if so returns the point to split both
// edges at. Segments sharing an endpoint are never tested here — callers
// filter those out before calling findIntersection.
func findIntersection(a1, a2, b1, b2 geomath.Coord) (geomath.Coord, bool) {
	if p, ok := properIntersection(a1, a2, b1, b2); ok {
		return p, true
	}

	return nearParallelOverlap(a1, a2, b1, b2)
}

// properIntersection solves the standard 2D segment-segment intersection
// using lon/lat as planar x/y; valid at city scale where the curvature of
// the earth is negligible over a single block.
func properIntersection(a1, a2, b1, b2 geomath.Coord) (geomath.Coord, bool) {
	dx1, dy1 := a2.Lon()-a1.Lon(), a2.Lat()-a1.Lat()
	dx2, dy2 := b2.Lon()-b1.Lon(), b2.Lat()-b1.Lat()

	denom := dx1*dy2 - dy1*dx2
	if denom == 0 {
		return geomath.Coord{}, false
	}

	dx3, dy3 := b1.Lon()-a1.Lon(), b1.Lat()-a1.Lat()
	t := (dx3*dy2 - dy3*dx2) / denom
	u := (dx3*dy1 - dy3*dx1) / denom

	if t < 0 || t > 1 || u < 0 || u > 1 {
		return geomath.Coord{}, false
	}

	return geomath.NewCoord(a1.Lat()+t*dy1, a1.Lon()+t*dx1), true
}

// nearParallelOverlap handles the case where properIntersection found no
// crossing point because the two segments are (near-)parallel but run
// close enough together, within intersectionParallelToleranceM, to be
// treated as meeting. The split point is the closest pair of projected
// points, averaged.
func nearParallelOverlap(a1, a2, b1, b2 geomath.Coord) (geomath.Coord, bool) {
	candidates := []struct {
		p, onOther geomath.Coord
	}{
		{a1, geomath.NearestPointOnSegment(a1, b1, b2)},
		{a2, geomath.NearestPointOnSegment(a2, b1, b2)},
		{b1, geomath.NearestPointOnSegment(b1, a1, a2)},
		{b2, geomath.NearestPointOnSegment(b2, a1, a2)},
	}

	bestDist := intersectionParallelToleranceM
	var best geomath.Coord
	found := false

	for _, c := range candidates {
		d := geomath.DistanceM(c.p, c.onOther)
		if d <= bestDist {
			bestDist = d
			best = geomath.NewCoord((c.p.Lat()+c.onOther.Lat())/2, (c.p.Lon()+c.onOther.Lon())/2)
			found = true
		}
	}

	return best, found
}
