// Package request implements the Request API: coordinate validation, the
// short-circuit for very-short trips, walkability snapping, route-kind
// dispatch over pathsearch, and the error taxonomy presented to callers.
package request

import (
	"time"

	"github.com/dcsaferoutes/saferoute/geomath"
)

// RouteRequest is one route query against an Engine or Session.
type RouteRequest struct {
	// RouteKind names the blend and detour budget; see ParseRouteKind.
	RouteKind string
	// IncludeDebug requests DebugInfo in the response.
	IncludeDebug bool
	// TimeoutOverride, if non-zero, overrides the Engine's configured
	// search timeout for this request only.
	TimeoutOverride time.Duration
	// WalkingSpeedKmhOverride, if non-zero, overrides the Engine's
	// configured walking speed for this request only.
	WalkingSpeedKmhOverride float64
}

// Metrics is the aggregate figures reported for a resolved route.
type Metrics struct {
	DistanceM           float64
	DurationS           float64
	SafetyScore         float64
	DistanceIncreasePct float64
}

// DebugInfo is included in a RouteResponse when the request asked for it.
type DebugInfo struct {
	CorridorWidthM float64
	NodesExplored  int
	StartNodeID    string
	EndNodeID      string
	SnappedOffsetM float64
	// TileX, TileY, TileZ identify the routing.DebugTileZoom vector tile
	// the route's midpoint falls in, for an external tile packer.
	TileX, TileY uint32
	TileZ        int
}

// RouteResponse is the Request API's success shape.
type RouteResponse struct {
	Waypoints []geomath.Coord
	Polyline  []geomath.Coord
	Metrics   Metrics
	Debug     *DebugInfo
}
