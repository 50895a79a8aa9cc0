package spatialgrid_test

import (
	"testing"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/spatialgrid"
)

func pointEntity(id string, lat, lon float64) spatialgrid.Entity {
	return spatialgrid.Entity{
		ID:     id,
		Center: geomath.NewCoord(lat, lon),
		MinLat: lat, MaxLat: lat,
		MinLon: lon, MaxLon: lon,
	}
}

func TestQueryRadius_FindsNearbyPoints(t *testing.T) {
	g := spatialgrid.New(spatialgrid.DefaultSegmentCellSizeDeg)
	g.Insert(pointEntity("near", 38.9000, -77.0000))
	g.Insert(pointEntity("far", 39.5000, -76.0000))

	results := g.QueryRadius(geomath.NewCoord(38.9001, -77.0001), 50)
	if len(results) != 1 || results[0].ID != "near" {
		t.Fatalf("expected exactly the near entity, got %+v", results)
	}
}

func TestQueryRadius_OrdersByDistanceAscending(t *testing.T) {
	g := spatialgrid.New(spatialgrid.DefaultSegmentCellSizeDeg)
	g.Insert(pointEntity("b", 38.9005, -77.0000))
	g.Insert(pointEntity("a", 38.9001, -77.0000))

	results := g.QueryRadius(geomath.NewCoord(38.9000, -77.0000), 200)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "b" {
		t.Fatalf("expected order [a,b] by distance, got [%s,%s]", results[0].ID, results[1].ID)
	}
}

func TestQueryRadius_NoFalseNegativesWithinCellSize(t *testing.T) {
	cellSize := spatialgrid.DefaultSegmentCellSizeDeg
	g := spatialgrid.New(cellSize)
	center := geomath.NewCoord(38.9, -77.0)
	// Place an entity just barely inside radius but potentially in a
	// neighboring cell relative to the query center.
	target := geomath.NewCoord(38.9 + cellSize*0.9, -77.0)
	g.Insert(spatialgrid.Entity{
		ID: "edge-case", Center: target,
		MinLat: target.Lat(), MaxLat: target.Lat(),
		MinLon: target.Lon(), MaxLon: target.Lon(),
	})

	radiusM := geomath.DistanceM(center, target) + 1
	results := g.QueryRadius(center, radiusM)
	found := false
	for _, r := range results {
		if r.ID == "edge-case" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected no false negatives for a query radius <= cell size, got %+v", results)
	}
}

func TestInsert_SpansMultipleCellsForBoundingBox(t *testing.T) {
	cellSize := spatialgrid.DefaultSegmentCellSizeDeg
	g := spatialgrid.New(cellSize)
	g.Insert(spatialgrid.Entity{
		ID:     "segment",
		Center: geomath.NewCoord(38.9, -77.0),
		MinLat: 38.9, MaxLat: 38.9 + cellSize*3,
		MinLon: -77.0, MaxLon: -77.0,
	})

	if g.Len() != 1 {
		t.Fatalf("expected a single logical entity despite spanning cells, got %d", g.Len())
	}

	far := geomath.NewCoord(38.9+cellSize*3, -77.0)
	results := g.QueryRadius(far, 10)
	if len(results) != 1 {
		t.Fatalf("expected the multi-cell entity discoverable from its far end, got %+v", results)
	}
}
