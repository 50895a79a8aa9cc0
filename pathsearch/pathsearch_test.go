package pathsearch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/pathsearch"
	"github.com/dcsaferoutes/saferoute/routing"
)

// buildLineGraph builds a 5-node straight chain A-B-C-D-E, each hop 0.0005
// degrees of latitude apart (roughly 55m), with a uniform safety score so
// alpha variation only changes which detour paths are reachable.
func buildLineGraph(t *testing.T, scores []int) (*routing.Graph, []int) {
	t.Helper()

	rb := routing.NewBuilder(8)
	idxs := make([]int, 5)
	for i := 0; i < 5; i++ {
		idxs[i] = rb.AddNode(geomath.NewCoord(38.9000+float64(i)*0.0005, -77.0450))
	}
	for i := 0; i < 4; i++ {
		a, b := idxs[i], idxs[i+1]
		length := geomath.DistanceM(geomath.NewCoord(38.9000+float64(i)*0.0005, -77.0450), geomath.NewCoord(38.9000+float64(i+1)*0.0005, -77.0450))
		rb.AddEdge(a, b, length, scores[i], []geomath.Coord{rb.NodeCoord(a), rb.NodeCoord(b)})
	}

	g, err := rb.Freeze()
	require.NoError(t, err)

	return g, idxs
}

// buildDetourGraph builds a diamond: start -> mid1 -> end (short, dangerous)
// and start -> mid2a -> mid2b -> end (longer, safe), so a detour kind can
// choose the safe path only when its budget allows the extra distance.
func buildDetourGraph(t *testing.T) (g *routing.Graph, start, end int) {
	t.Helper()

	rb := routing.NewBuilder(8)
	s := rb.AddNode(geomath.NewCoord(38.9000, -77.0450))
	mid1 := rb.AddNode(geomath.NewCoord(38.9005, -77.0450))
	e := rb.AddNode(geomath.NewCoord(38.9010, -77.0450))
	mid2a := rb.AddNode(geomath.NewCoord(38.9003, -77.0460))
	mid2b := rb.AddNode(geomath.NewCoord(38.9007, -77.0460))

	addStraight := func(a, b int, score int) {
		length := geomath.DistanceM(rb.NodeCoord(a), rb.NodeCoord(b))
		rb.AddEdge(a, b, length, score, []geomath.Coord{rb.NodeCoord(a), rb.NodeCoord(b)})
	}

	addStraight(s, mid1, 10)
	addStraight(mid1, e, 10)
	addStraight(s, mid2a, 95)
	addStraight(mid2a, mid2b, 95)
	addStraight(mid2b, e, 95)

	graph, err := rb.Freeze()
	require.NoError(t, err)

	return graph, s, e
}

func TestDijkstra_FindsShortestChainPath(t *testing.T) {
	g, idxs := buildLineGraph(t, []int{50, 50, 50, 50})

	result, err := pathsearch.Dijkstra(g, idxs[0], idxs[4])
	require.NoError(t, err)
	assert.Equal(t, idxs, result.Path)
	assert.Greater(t, result.TotalDistanceM, 0.0)
}

func TestDijkstra_DisconnectedReturnsNoRouteFound(t *testing.T) {
	rb := routing.NewBuilder(4)
	a := rb.AddNode(geomath.NewCoord(38.9000, -77.0450))
	b := rb.AddNode(geomath.NewCoord(38.9500, -77.0900))
	g, err := rb.Freeze()
	require.NoError(t, err)

	_, err = pathsearch.Dijkstra(g, a, b)
	assert.ErrorIs(t, err, pathsearch.ErrNoRouteFound)
}

func TestDijkstra_InvalidNodeIndex(t *testing.T) {
	g, idxs := buildLineGraph(t, []int{50, 50, 50, 50})

	_, err := pathsearch.Dijkstra(g, idxs[0], 999)
	assert.ErrorIs(t, err, pathsearch.ErrInvalidNode)
}

func TestAStar_QuickestMatchesDijkstraDistance(t *testing.T) {
	g, idxs := buildLineGraph(t, []int{10, 90, 30, 70})

	dijkstraResult, err := pathsearch.Dijkstra(g, idxs[0], idxs[4])
	require.NoError(t, err)

	astarResult, err := pathsearch.AStar(context.Background(), g, idxs[0], idxs[4], pathsearch.Quickest())
	require.NoError(t, err)

	assert.InDelta(t, dijkstraResult.TotalDistanceM, astarResult.TotalDistanceM, 1e-6)
	assert.Equal(t, dijkstraResult.Path, astarResult.Path)
}

func TestAStar_SafestPrefersSaferLongerPath(t *testing.T) {
	g, s, e := buildDetourGraph(t)

	result, err := pathsearch.AStar(context.Background(), g, s, e, pathsearch.Safest())
	require.NoError(t, err)

	assert.Equal(t, 4, len(result.Path), "safest path should route through the two safe midpoints")
}

func TestAStar_DetourBudgetBoundsTotalDistance(t *testing.T) {
	g, s, e := buildDetourGraph(t)

	quickest, err := pathsearch.Dijkstra(g, s, e)
	require.NoError(t, err)

	kind, err := pathsearch.Detour(5)
	require.NoError(t, err)

	result, err := pathsearch.AStar(context.Background(), g, s, e, kind, pathsearch.WithQuickestDistanceM(quickest.TotalDistanceM))
	require.NoError(t, err)

	assert.LessOrEqual(t, result.TotalDistanceM, quickest.TotalDistanceM*1.05+1e-6)
}

func TestAStar_InvalidDetourPercentRejected(t *testing.T) {
	_, err := pathsearch.Detour(7)
	assert.Error(t, err)
}

func TestAStar_DisconnectedReturnsNoRouteFound(t *testing.T) {
	rb := routing.NewBuilder(4)
	a := rb.AddNode(geomath.NewCoord(38.9000, -77.0450))
	b := rb.AddNode(geomath.NewCoord(38.9500, -77.0900))
	g, err := rb.Freeze()
	require.NoError(t, err)

	_, err = pathsearch.AStar(context.Background(), g, a, b, pathsearch.Balanced())
	assert.ErrorIs(t, err, pathsearch.ErrNoRouteFound)
}

func TestAStar_PathHasNoRepeatedNode(t *testing.T) {
	g, idxs := buildLineGraph(t, []int{40, 60, 20, 80})

	result, err := pathsearch.AStar(context.Background(), g, idxs[0], idxs[4], pathsearch.Balanced())
	require.NoError(t, err)

	seen := make(map[int]struct{}, len(result.Path))
	for _, idx := range result.Path {
		_, dup := seen[idx]
		assert.False(t, dup, "path must not repeat node %d", idx)
		seen[idx] = struct{}{}
	}
}
