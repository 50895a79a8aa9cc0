package geomath_test

import (
	"math"
	"testing"

	"github.com/dcsaferoutes/saferoute/geomath"
)

func TestDistanceM_ZeroIffEqual(t *testing.T) {
	a := geomath.NewCoord(38.8977, -77.0365)
	if d := geomath.DistanceM(a, a); d != 0 {
		t.Fatalf("expected 0 distance for identical points, got %v", d)
	}

	b := geomath.NewCoord(38.8893, -77.0502)
	if d := geomath.DistanceM(a, b); d <= 0 {
		t.Fatalf("expected positive distance for distinct points, got %v", d)
	}
}

func TestDistanceM_WhiteHouseToLincolnMemorial(t *testing.T) {
	// E1 scenario: direct distance approximately 1700m (+/- 50m).
	start := geomath.NewCoord(38.8977, -77.0365)
	end := geomath.NewCoord(38.8893, -77.0502)

	d := geomath.DistanceM(start, end)
	if math.Abs(d-1700) > 100 {
		t.Fatalf("expected distance near 1700m, got %v", d)
	}
}

func TestDistanceM_Monotone(t *testing.T) {
	a := geomath.NewCoord(38.9, -77.0)
	b := geomath.NewCoord(38.91, -77.0)
	c := geomath.NewCoord(38.93, -77.0)

	if geomath.DistanceM(a, b) >= geomath.DistanceM(a, c) {
		t.Fatalf("expected distance(a,b) < distance(a,c) for colinear points further apart")
	}
}

func TestBearingDeg_InRange(t *testing.T) {
	a := geomath.NewCoord(38.9, -77.0)
	b := geomath.NewCoord(38.91, -77.01)

	brng := geomath.BearingDeg(a, b)
	if brng < 0 || brng >= 360 {
		t.Fatalf("expected bearing in [0,360), got %v", brng)
	}
}

func TestCorridorWidthM(t *testing.T) {
	tests := []struct {
		directM, fraction, minM, want float64
	}{
		{1000, 0.3, 200, 300},
		{100, 0.3, 200, 200},
		{0, 0.3, 200, 200},
	}
	for _, tt := range tests {
		got := geomath.CorridorWidthM(tt.directM, tt.fraction, tt.minM)
		if got != tt.want {
			t.Fatalf("CorridorWidthM(%v,%v,%v) = %v, want %v", tt.directM, tt.fraction, tt.minM, got, tt.want)
		}
	}
}

func TestWithinEllipse_FocusIsAlwaysInside(t *testing.T) {
	f1 := geomath.NewCoord(38.9, -77.0)
	f2 := geomath.NewCoord(38.91, -77.01)

	if !geomath.WithinEllipse(f1, f1, f2, 0) {
		t.Fatalf("a focus must always lie within its own ellipse")
	}
}

func TestWithinEllipse_FarAwayPointExcluded(t *testing.T) {
	f1 := geomath.NewCoord(38.9, -77.0)
	f2 := geomath.NewCoord(38.91, -77.01)
	far := geomath.NewCoord(39.5, -76.0)

	if geomath.WithinEllipse(far, f1, f2, 200) {
		t.Fatalf("expected a distant point to be excluded from a tight corridor")
	}
}

func TestNearestPointOnSegment_DegenerateSegment(t *testing.T) {
	a := geomath.NewCoord(38.9, -77.0)
	p := geomath.NewCoord(38.95, -77.05)

	got := geomath.NearestPointOnSegment(p, a, a)
	if got != a {
		t.Fatalf("expected degenerate segment to project to its single point, got %v", got)
	}
}

func TestNearestPointOnSegment_ClampsToEndpoints(t *testing.T) {
	a := geomath.NewCoord(38.90, -77.00)
	b := geomath.NewCoord(38.91, -77.00)
	// p is "before" a along the segment's direction; projection must clamp to a.
	p := geomath.NewCoord(38.89, -77.00)

	got := geomath.NearestPointOnSegment(p, a, b)
	if got != a {
		t.Fatalf("expected projection to clamp to endpoint a, got %v", got)
	}
}

func TestNearestPointOnSegment_Midpoint(t *testing.T) {
	a := geomath.NewCoord(38.90, -77.00)
	b := geomath.NewCoord(38.92, -77.00)
	p := geomath.NewCoord(38.91, -76.90) // off to the side, same latitude as midpoint

	got := geomath.NearestPointOnSegment(p, a, b)
	if math.Abs(got.Lat()-38.91) > 1e-6 {
		t.Fatalf("expected projection near midpoint latitude 38.91, got %v", got.Lat())
	}
}

func TestFastPlanarDistanceM_ApproximatesHaversineAtShortRange(t *testing.T) {
	a := geomath.NewCoord(38.8977, -77.0365)
	b := geomath.NewCoord(38.8893, -77.0502)

	exact := geomath.DistanceM(a, b)
	fast := geomath.FastPlanarDistanceM(a, b)

	if math.Abs(exact-fast)/exact > 0.1 {
		t.Fatalf("expected fast planar distance within 10%% of exact haversine, exact=%v fast=%v", exact, fast)
	}
}
