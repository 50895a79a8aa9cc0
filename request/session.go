package request

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/pathsearch"
	"github.com/dcsaferoutes/saferoute/routeassembler"
	"github.com/dcsaferoutes/saferoute/routing"
)

// shortCircuitDistanceM is the direct-distance threshold below which a
// request is answered with a straight two-point route and no search.
const shortCircuitDistanceM = 100.0

// shortCircuitSafetyScore is the neutral score reported for a
// short-circuited route (midpoint of the [1,100] scale).
const shortCircuitSafetyScore = 50.0

// Session batches several RouteRequests against the same validated
// start/end pair, computing the shared baseline quickest distance once so
// safest/detour{P} requests in the same session don't each re-run Dijkstra.
type Session struct {
	engine                   *Engine
	start                    geomath.Coord
	end                      geomath.Coord
	shortCircuit             bool
	directM                  float64
	startIdx, endIdx         int
	startOffsetM, endOffsetM float64
	quickest                 *pathsearch.Result
}

// NewSession validates start and end and, unless they fall within
// shortCircuitDistanceM of each other, snaps each onto the graph (via the
// walkable mask and nearest-node search). A Session built from two nearby
// points never touches the graph: every Route call on it returns the
// direct two-point result immediately, matching the guarantee
// Engine.Route gives a one-off caller.
func (e *Engine) NewSession(start, end geomath.Coord) (*Session, error) {
	if err := ValidateCoordinate(start); err != nil {
		return nil, err
	}
	if err := ValidateCoordinate(end); err != nil {
		return nil, err
	}

	directM := geomath.DistanceM(start, end)
	if directM < shortCircuitDistanceM {
		return &Session{engine: e, start: start, end: end, shortCircuit: true, directM: directM}, nil
	}

	startIdx, startOffsetM, err := e.snapToGraph(start)
	if err != nil {
		return nil, err
	}
	endIdx, endOffsetM, err := e.snapToGraph(end)
	if err != nil {
		return nil, err
	}

	return &Session{
		engine:       e,
		start:        start,
		end:          end,
		startIdx:     startIdx,
		endIdx:       endIdx,
		startOffsetM: startOffsetM,
		endOffsetM:   endOffsetM,
	}, nil
}

// quickestResult computes and caches the session's baseline Dijkstra
// result, shared across every Route call in the session.
func (s *Session) quickestResult(ctx context.Context) (pathsearch.Result, error) {
	if s.quickest != nil {
		return *s.quickest, nil
	}

	_ = ctx // Dijkstra has no cancellation point; context kept for symmetry with AStar.
	result, err := pathsearch.Dijkstra(s.engine.graph, s.startIdx, s.endIdx)
	if err != nil {
		return pathsearch.Result{}, wrapSearchError(err)
	}
	s.quickest = &result

	return result, nil
}

// Route resolves one RouteRequest against the session's validated,
// snapped start/end pair. A session built from two nearby points (see
// NewSession) always returns the direct short-circuit result here,
// regardless of req.RouteKind.
func (s *Session) Route(ctx context.Context, req RouteRequest) (RouteResponse, error) {
	cfg := s.engine.cfg

	if s.shortCircuit {
		walkingSpeed := cfg.walkingSpeedKmh
		if req.WalkingSpeedKmhOverride > 0 {
			walkingSpeed = req.WalkingSpeedKmhOverride
		}

		return shortCircuitResponse(s.start, s.end, s.directM, walkingSpeed), nil
	}

	kind, err := ParseRouteKind(req.RouteKind)
	if err != nil {
		return RouteResponse{}, err
	}

	quickest, err := s.quickestResult(ctx)
	if err != nil {
		return RouteResponse{}, err
	}

	timeout := cfg.searchTimeout
	if req.TimeoutOverride > 0 {
		timeout = req.TimeoutOverride
	}
	walkingSpeed := cfg.walkingSpeedKmh
	if req.WalkingSpeedKmhOverride > 0 {
		walkingSpeed = req.WalkingSpeedKmhOverride
	}

	result, err := pathsearch.AStar(ctx, s.engine.graph, s.startIdx, s.endIdx, kind,
		pathsearch.WithLogger(cfg.logger),
		pathsearch.WithSearchTimeout(timeout),
		pathsearch.WithIterationLogInterval(cfg.iterationLogInterval),
		pathsearch.WithCorridorFraction(cfg.corridorFraction),
		pathsearch.WithCorridorMinMeters(cfg.corridorMinM),
		pathsearch.WithQuickestDistanceM(quickest.TotalDistanceM),
	)
	if err != nil {
		return RouteResponse{}, wrapSearchError(err)
	}

	route, err := routeassembler.Assemble(s.engine.graph, result.Path, quickest.TotalDistanceM,
		routeassembler.WithWalkingSpeedKmh(walkingSpeed))
	if err != nil {
		return RouteResponse{}, fmt.Errorf("request: assembling route: %w", err)
	}

	resp := RouteResponse{
		Waypoints: route.Waypoints,
		Polyline:  route.Polyline,
		Metrics: Metrics{
			DistanceM:           route.Metrics.DistanceM,
			DurationS:           route.Metrics.DurationS,
			SafetyScore:         route.Metrics.SafetyScore,
			DistanceIncreasePct: route.Metrics.DistanceIncreasePct,
		},
	}

	if req.IncludeDebug {
		corridorM := geomath.CorridorWidthM(geomath.DistanceM(s.start, s.end), cfg.corridorFraction, cfg.corridorMinM)
		midpoint := geomath.NewCoord((s.start.Lat()+s.end.Lat())/2, (s.start.Lon()+s.end.Lon())/2)
		tile := routing.TileHintAt(midpoint)
		resp.Debug = &DebugInfo{
			CorridorWidthM: corridorM,
			NodesExplored:  result.NodesExplored,
			StartNodeID:    s.engine.graph.Node(s.startIdx).ID,
			EndNodeID:      s.engine.graph.Node(s.endIdx).ID,
			SnappedOffsetM: s.startOffsetM + s.endOffsetM,
			TileX:          tile.X,
			TileY:          tile.Y,
			TileZ:          int(tile.Z),
		}
	}

	cfg.logger.Info("route resolved",
		zap.String("route_kind", kind.String()),
		zap.Float64("distance_m", route.Metrics.DistanceM),
		zap.Float64("duration_s", route.Metrics.DurationS))

	return resp, nil
}

// Route builds a one-off Session for start/end and resolves req against
// it, including the sub-100m short-circuit. Prefer NewSession directly
// when issuing several route_kind requests for the same start/end.
func (e *Engine) Route(ctx context.Context, start, end geomath.Coord, req RouteRequest) (RouteResponse, error) {
	session, err := e.NewSession(start, end)
	if err != nil {
		return RouteResponse{}, err
	}

	return session.Route(ctx, req)
}

// shortCircuitResponse builds the direct two-point route returned for
// sub-100m trips: no search, neutral safety score.
func shortCircuitResponse(start, end geomath.Coord, directM, walkingSpeedKmh float64) RouteResponse {
	waypoints := []geomath.Coord{start, end}
	durationS := 0.0
	if directM > 0 {
		durationS = directM / (walkingSpeedKmh * 1000 / 3600)
	}

	return RouteResponse{
		Waypoints: waypoints,
		Polyline:  waypoints,
		Metrics: Metrics{
			DistanceM:   directM,
			DurationS:   durationS,
			SafetyScore: shortCircuitSafetyScore,
		},
	}
}
