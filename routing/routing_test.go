package routing_test

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/routing"
)

// buildSmallGraph builds a four-node diamond: A-B, A-C, B-D, C-D, plus a
// disconnected singleton E, so LargestComponentSize has something to
// distinguish from NodeCount.
func buildSmallGraph(t *testing.T) *routing.Graph {
	t.Helper()

	b := routing.NewBuilder(5)
	a := b.AddNode(geomath.NewCoord(38.9000, -77.0400))
	bb := b.AddNode(geomath.NewCoord(38.9010, -77.0400))
	c := b.AddNode(geomath.NewCoord(38.9000, -77.0410))
	d := b.AddNode(geomath.NewCoord(38.9010, -77.0410))
	e := b.AddNode(geomath.NewCoord(38.9100, -77.0500))
	_ = e

	mustAddEdge := func(x, y int) {
		lengthM := geomath.DistanceM(b.NodeCoord(x), b.NodeCoord(y))
		_, inserted := b.AddEdge(x, y, lengthM, 75, []geomath.Coord{b.NodeCoord(x), b.NodeCoord(y)})
		require.True(t, inserted)
	}
	mustAddEdge(a, bb)
	mustAddEdge(a, c)
	mustAddEdge(bb, d)
	mustAddEdge(c, d)

	g, err := b.Freeze()
	require.NoError(t, err)

	return g
}

func TestFreeze_ProducesValidGraph(t *testing.T) {
	g := buildSmallGraph(t)

	assert.Equal(t, 5, g.NodeCount())
	assert.Equal(t, 4, g.EdgeCount())
	assert.Equal(t, 4, g.LargestComponentSize(), "the diamond component should have 4 nodes, singleton excluded")
	require.NoError(t, g.Validate())
}

func TestFreeze_IsOrderIndependent(t *testing.T) {
	// Insert the same logical graph via two different construction orders
	// and confirm Freeze produces structurally identical output.
	build := func(order []int) *routing.Graph {
		coords := []geomath.Coord{
			geomath.NewCoord(38.9000, -77.0400),
			geomath.NewCoord(38.9010, -77.0400),
			geomath.NewCoord(38.9000, -77.0410),
		}
		b := routing.NewBuilder(3)
		idx := make([]int, 3)
		for _, pos := range order {
			idx[pos] = b.AddNode(coords[pos])
		}
		l1 := geomath.DistanceM(coords[0], coords[1])
		l2 := geomath.DistanceM(coords[0], coords[2])
		b.AddEdge(idx[0], idx[1], l1, 80, []geomath.Coord{coords[0], coords[1]})
		b.AddEdge(idx[0], idx[2], l2, 60, []geomath.Coord{coords[0], coords[2]})
		g, err := b.Freeze()
		require.NoError(t, err)

		return g
	}

	g1 := build([]int{0, 1, 2})
	g2 := build([]int{2, 1, 0})

	require.Equal(t, g1.NodeCount(), g2.NodeCount())
	require.Equal(t, g1.EdgeCount(), g2.EdgeCount())
	for i := 0; i < g1.NodeCount(); i++ {
		assert.Equal(t, g1.Node(i).ID, g2.Node(i).ID)
	}
	for i := 0; i < g1.EdgeCount(); i++ {
		assert.Equal(t, g1.Edge(i).ID, g2.Edge(i).ID)
	}
}

func TestAddEdge_DuplicateIsNoOp(t *testing.T) {
	b := routing.NewBuilder(2)
	a := b.AddNode(geomath.NewCoord(38.9, -77.0))
	c := b.AddNode(geomath.NewCoord(38.91, -77.0))

	_, inserted := b.AddEdge(a, c, 100, 50, []geomath.Coord{b.NodeCoord(a), b.NodeCoord(c)})
	require.True(t, inserted)

	_, insertedAgain := b.AddEdge(c, a, 999, 10, []geomath.Coord{b.NodeCoord(c), b.NodeCoord(a)})
	assert.False(t, insertedAgain)
	assert.Equal(t, 1, b.EdgeCount())
}

func TestAddNode_CollapsesCoincidentCoordinates(t *testing.T) {
	b := routing.NewBuilder(1)
	a := b.AddNode(geomath.NewCoord(38.900000001, -77.040000001))
	bb := b.AddNode(geomath.NewCoord(38.9, -77.04))

	assert.Equal(t, a, bb, "coordinates equal at 6 decimal places must collapse to one node")
}

func TestGraph_EdgeBetweenIsBidirectional(t *testing.T) {
	g := buildSmallGraph(t)

	a := g.Nodes()[0].Index
	nb := g.Neighbors(a)
	require.NotEmpty(t, nb)

	edgeForward, ok := g.EdgeBetween(a, nb[0])
	require.True(t, ok)
	edgeBackward, ok := g.EdgeBetween(nb[0], a)
	require.True(t, ok)
	assert.Equal(t, edgeForward.ID, edgeBackward.ID)
}

func TestEdgeWeights_Blend(t *testing.T) {
	w := routing.EdgeWeights{WDistance: 100, WSafety: 40}

	assert.InDelta(t, 100.0, w.Blend(1.0), 1e-9, "alpha=1 must reduce to pure distance")
	assert.InDelta(t, 40.0, w.Blend(0.0), 1e-9, "alpha=0 must reduce to pure safety")
	assert.InDelta(t, 70.0, w.Blend(0.5), 1e-9)
}

func TestEdge_OtherEndpointPanicsOnNonEndpoint(t *testing.T) {
	g := buildSmallGraph(t)
	e := g.Edges()[0]

	assert.Panics(t, func() {
		e.OtherEndpoint(9999)
	})
}

func TestEdge_PolylineFromReversesDirection(t *testing.T) {
	g := buildSmallGraph(t)
	e := g.Edges()[0]

	forward := e.PolylineFrom(e.Source)
	backward := e.PolylineFrom(e.Target)

	require.Len(t, backward, len(forward))
	for i := range forward {
		assert.Equal(t, forward[i], backward[len(backward)-1-i])
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	g := buildSmallGraph(t)
	dir := t.TempDir()

	require.NoError(t, g.Save(dir))

	loaded, err := routing.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, g.NodeCount(), loaded.NodeCount())
	assert.Equal(t, g.EdgeCount(), loaded.EdgeCount())
	assert.Equal(t, g.LargestComponentSize(), loaded.LargestComponentSize())

	for i := 0; i < g.NodeCount(); i++ {
		assert.Equal(t, g.Node(i).ID, loaded.Node(i).ID)
		assert.InDelta(t, g.Node(i).Lat(), loaded.Node(i).Lat(), 1e-9)
		assert.InDelta(t, g.Node(i).Lon(), loaded.Node(i).Lon(), 1e-9)
	}
	for i := 0; i < g.EdgeCount(); i++ {
		assert.Equal(t, g.Edge(i).ID, loaded.Edge(i).ID)
		assert.Equal(t, g.Edge(i).SafetyScore, loaded.Edge(i).SafetyScore)
	}
}

func TestLoad_MissingDirectoryReturnsDataUnavailable(t *testing.T) {
	_, err := routing.Load(t.TempDir() + "/does-not-exist")

	assert.True(t, errors.Is(err, routing.ErrDataUnavailable))
}

func TestLoad_MalformedEdgesFileReturnsGraphCorrupt(t *testing.T) {
	g := buildSmallGraph(t)
	dir := t.TempDir()
	require.NoError(t, g.Save(dir))

	data, err := os.ReadFile(dir + "/graph.edges")
	require.NoError(t, err)
	corrupted := append([]byte(nil), data...)
	corrupted = append(corrupted, []byte("not json")...)
	require.NoError(t, os.WriteFile(dir+"/graph.edges", corrupted, 0o644))

	_, err = routing.Load(dir)
	assert.True(t, errors.Is(err, routing.ErrGraphCorrupt))
}

func TestValidate_AcceptsWellFormedGraph(t *testing.T) {
	g := buildSmallGraph(t)
	require.NoError(t, g.Validate())
}
