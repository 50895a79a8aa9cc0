package request

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/routing"
	"github.com/dcsaferoutes/saferoute/walkmask"
)

// buildLineEngine builds a 5-node straight chain inside the DC service
// area, ~55m per hop, with a matching walkable mask covering every node
// exactly, and wires both into an Engine without touching disk.
func buildLineEngine(t *testing.T, scores []int) (*Engine, []geomath.Coord) {
	t.Helper()

	rb := routing.NewBuilder(8)
	coords := make([]geomath.Coord, 5)
	idxs := make([]int, 5)
	for i := 0; i < 5; i++ {
		coords[i] = geomath.NewCoord(38.9000+float64(i)*0.0005, -77.0450)
		idxs[i] = rb.AddNode(coords[i])
	}
	for i := 0; i < 4; i++ {
		a, b := idxs[i], idxs[i+1]
		length := geomath.DistanceM(coords[i], coords[i+1])
		rb.AddEdge(a, b, length, scores[i], []geomath.Coord{coords[i], coords[i+1]})
	}

	graph, err := rb.Freeze()
	require.NoError(t, err)

	walkable := make([][2]float64, len(coords))
	for i, c := range coords {
		walkable[i] = [2]float64{c.Lat(), c.Lon()}
	}
	mask := walkmask.New(walkable)

	engine := &Engine{
		graph:    graph,
		mask:     mask,
		nodeGrid: buildNodeGrid(graph),
		cfg:      DefaultConfig(WithLogger(zap.NewNop())),
	}

	return engine, coords
}

func TestValidateCoordinate_RejectsNaN(t *testing.T) {
	err := ValidateCoordinate(geomath.NewCoord(math.NaN(), -77.0))
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestValidateCoordinate_RejectsOutsideServiceArea(t *testing.T) {
	err := ValidateCoordinate(geomath.NewCoord(40.7128, -74.0060)) // New York
	assert.ErrorIs(t, err, ErrOutsideServiceArea)
}

func TestValidateCoordinate_AcceptsInsideServiceArea(t *testing.T) {
	err := ValidateCoordinate(geomath.NewCoord(38.9072, -77.0369))
	assert.NoError(t, err)
}

func TestParseRouteKind_ValidKinds(t *testing.T) {
	for _, s := range []string{"quickest", "balanced", "safest", "detour10", "detour30"} {
		_, err := ParseRouteKind(s)
		assert.NoError(t, err, "route kind %q should parse", s)
	}
}

func TestParseRouteKind_RejectsUnknown(t *testing.T) {
	_, err := ParseRouteKind("fastest")
	assert.ErrorIs(t, err, ErrInvalidRouteKind)
}

func TestParseRouteKind_RejectsInvalidDetourPercent(t *testing.T) {
	_, err := ParseRouteKind("detour7")
	assert.ErrorIs(t, err, ErrInvalidRouteKind)
}

func TestEngine_Route_ShortCircuitForNearbyPoints(t *testing.T) {
	engine, coords := buildLineEngine(t, []int{50, 50, 50, 50})

	nearby := geomath.NewCoord(coords[0].Lat()+0.0000005, coords[0].Lon())
	resp, err := engine.Route(context.Background(), coords[0], nearby, RouteRequest{RouteKind: "quickest"})
	require.NoError(t, err)

	assert.Equal(t, 50.0, resp.Metrics.SafetyScore)
	assert.Len(t, resp.Waypoints, 2)
	assert.Less(t, resp.Metrics.DistanceM, shortCircuitDistanceM)
}

func TestEngine_Route_ExactSameStartAndEnd(t *testing.T) {
	engine, coords := buildLineEngine(t, []int{50, 50, 50, 50})

	resp, err := engine.Route(context.Background(), coords[0], coords[0], RouteRequest{RouteKind: "quickest"})
	require.NoError(t, err)

	assert.Equal(t, 0.0, resp.Metrics.DistanceM)
	assert.Equal(t, 0.0, resp.Metrics.DurationS)
}

func TestEngine_Route_QuickestAcrossChain(t *testing.T) {
	engine, coords := buildLineEngine(t, []int{10, 90, 30, 70})

	resp, err := engine.Route(context.Background(), coords[0], coords[4], RouteRequest{RouteKind: "quickest"})
	require.NoError(t, err)

	assert.Greater(t, resp.Metrics.DistanceM, shortCircuitDistanceM)
	assert.Equal(t, 0.0, resp.Metrics.DistanceIncreasePct)
}

func TestEngine_Route_IncludesDebugInfoWhenRequested(t *testing.T) {
	engine, coords := buildLineEngine(t, []int{50, 50, 50, 50})

	resp, err := engine.Route(context.Background(), coords[0], coords[4], RouteRequest{RouteKind: "balanced", IncludeDebug: true})
	require.NoError(t, err)

	require.NotNil(t, resp.Debug)
	assert.NotEmpty(t, resp.Debug.StartNodeID)
	assert.NotEmpty(t, resp.Debug.EndNodeID)
	assert.Greater(t, resp.Debug.CorridorWidthM, 0.0)
	assert.Equal(t, int(routing.DebugTileZoom), resp.Debug.TileZ)
}

func TestEngine_Route_InvalidRouteKindRejected(t *testing.T) {
	engine, coords := buildLineEngine(t, []int{50, 50, 50, 50})

	_, err := engine.Route(context.Background(), coords[0], coords[4], RouteRequest{RouteKind: "fastest"})
	assert.ErrorIs(t, err, ErrInvalidRouteKind)
}

func TestEngine_Route_CoordinateOutsideServiceAreaRejected(t *testing.T) {
	engine, coords := buildLineEngine(t, []int{50, 50, 50, 50})

	_, err := engine.Route(context.Background(), coords[0], geomath.NewCoord(40.7128, -74.0060), RouteRequest{RouteKind: "quickest"})
	assert.ErrorIs(t, err, ErrOutsideServiceArea)
}

func TestEngine_Route_UnreachableDestinationReturnsNoRouteFound(t *testing.T) {
	engine, coords := buildLineEngine(t, []int{50, 50, 50, 50})

	// An isolated extra node is added directly to a fresh graph+mask pair
	// so it shares no edges with the chain.
	rb := routing.NewBuilder(8)
	for _, c := range coords {
		rb.AddNode(c)
	}
	isolated := geomath.NewCoord(38.9500, -77.0900)
	rb.AddNode(isolated)
	for i := 0; i < len(coords)-1; i++ {
		length := geomath.DistanceM(coords[i], coords[i+1])
		rb.AddEdge(i, i+1, length, 50, []geomath.Coord{coords[i], coords[i+1]})
	}
	graph, err := rb.Freeze()
	require.NoError(t, err)

	walkable := make([][2]float64, 0, len(coords)+1)
	for _, c := range coords {
		walkable = append(walkable, [2]float64{c.Lat(), c.Lon()})
	}
	walkable = append(walkable, [2]float64{isolated.Lat(), isolated.Lon()})
	engine.graph = graph
	engine.mask = walkmask.New(walkable)
	engine.nodeGrid = buildNodeGrid(graph)

	_, err = engine.Route(context.Background(), coords[0], isolated, RouteRequest{RouteKind: "quickest"})
	assert.ErrorIs(t, err, ErrNoRouteFound)
}

func TestEngine_NewSession_ShortCircuitsForNearbyPointsWithoutTouchingGraph(t *testing.T) {
	engine, coords := buildLineEngine(t, []int{50, 50, 50, 50})

	nearby := geomath.NewCoord(coords[0].Lat()+0.0000005, coords[0].Lon())
	session, err := engine.NewSession(coords[0], nearby)
	require.NoError(t, err)

	resp, err := session.Route(context.Background(), RouteRequest{RouteKind: "quickest"})
	require.NoError(t, err)

	assert.Equal(t, 50.0, resp.Metrics.SafetyScore)
	assert.Less(t, resp.Metrics.DistanceM, shortCircuitDistanceM)

	// A garbage route_kind must not matter: the short-circuit never
	// reaches ParseRouteKind.
	resp2, err := session.Route(context.Background(), RouteRequest{RouteKind: "not-a-real-kind"})
	require.NoError(t, err)
	assert.Equal(t, resp.Metrics.DistanceM, resp2.Metrics.DistanceM)
}

func TestEngine_NewSession_SharesQuickestBaselineAcrossRoutes(t *testing.T) {
	engine, coords := buildLineEngine(t, []int{10, 90, 30, 70})

	session, err := engine.NewSession(coords[0], coords[4])
	require.NoError(t, err)

	quickest, err := session.Route(context.Background(), RouteRequest{RouteKind: "quickest"})
	require.NoError(t, err)
	require.NotNil(t, session.quickest)

	safest, err := session.Route(context.Background(), RouteRequest{RouteKind: "safest"})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, safest.Metrics.DistanceIncreasePct, 0.0)
	assert.Greater(t, quickest.Metrics.DistanceM, 0.0)
}

func TestSnapToGraph_FindsNearestNodeForOffPathPoint(t *testing.T) {
	engine, coords := buildLineEngine(t, []int{50, 50, 50, 50})

	offPath := geomath.NewCoord(coords[2].Lat(), coords[2].Lon()+0.0002)
	idx, _, err := engine.snapToGraph(offPath)
	require.NoError(t, err)
	assert.Equal(t, engine.graph.Node(idx).Coord, coords[2])
}
