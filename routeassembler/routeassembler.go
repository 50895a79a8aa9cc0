// Package routeassembler turns a node path produced by pathsearch into the
// client-facing shape: a stitched polyline, a downsampled waypoint list,
// and the aggregate distance/duration/safety metrics.
package routeassembler

import (
	"errors"
	"fmt"
	"math"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/routing"
)

// ErrBrokenPath is returned when two consecutive path node indices have no
// connecting edge in the graph — a contract violation by the caller (every
// path handed to Assemble must come from a search over the same graph).
var ErrBrokenPath = errors.New("routeassembler: path contains a gap with no connecting edge")

// neutralSafetyScore is reported for a degenerate (single-point or
// zero-length) route, matching the short-circuit neutral score used
// elsewhere for sub-100m direct routes.
const neutralSafetyScore = 50.0

const maxWaypoints = 25

const defaultWalkingSpeedKmh = 5.0

// Option configures Assemble.
type Option func(*config)

type config struct {
	walkingSpeedKmh float64
}

// WithWalkingSpeedKmh overrides the walking speed used to convert distance
// into duration; defaults to 5 km/h.
func WithWalkingSpeedKmh(kmh float64) Option {
	return func(c *config) { c.walkingSpeedKmh = kmh }
}

// Metrics aggregates a route's distance, duration, safety, and detour
// figures.
type Metrics struct {
	DistanceM           float64
	DurationS           float64
	SafetyScore         float64
	DistanceIncreasePct float64
}

// Route is the fully assembled, client-facing result.
type Route struct {
	Waypoints []geomath.Coord
	Polyline  []geomath.Coord
	Metrics   Metrics
}

// Assemble stitches the edges along path into a single polyline, downsamples
// it into a waypoint list, and aggregates the route's metrics.
// quickestDistanceM is the baseline Dijkstra distance between the same
// start and end, used to compute DistanceIncreasePct; pass the route's own
// distance (or 0) when no baseline applies, which yields 0%.
func Assemble(g *routing.Graph, path []int, quickestDistanceM float64, opts ...Option) (Route, error) {
	cfg := config{walkingSpeedKmh: defaultWalkingSpeedKmh}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(path) == 0 {
		return Route{}, fmt.Errorf("routeassembler: empty path")
	}

	if len(path) == 1 {
		p := g.Node(path[0]).Coord
		return Route{
			Waypoints: []geomath.Coord{p},
			Polyline:  []geomath.Coord{p},
			Metrics:   Metrics{SafetyScore: neutralSafetyScore},
		}, nil
	}

	polyline, totalDistanceM, weightedSafetySum, err := stitch(g, path)
	if err != nil {
		return Route{}, err
	}

	safetyScore := neutralSafetyScore
	if totalDistanceM > 0 {
		safetyScore = weightedSafetySum / totalDistanceM
	}

	durationS := totalDistanceM / kmhToMetersPerSecond(cfg.walkingSpeedKmh)

	distanceIncreasePct := 0.0
	if quickestDistanceM > 0 {
		distanceIncreasePct = (totalDistanceM - quickestDistanceM) / quickestDistanceM * 100
	}

	return Route{
		Waypoints: downsample(polyline, len(path)),
		Polyline:  polyline,
		Metrics: Metrics{
			DistanceM:           totalDistanceM,
			DurationS:           durationS,
			SafetyScore:         safetyScore,
			DistanceIncreasePct: distanceIncreasePct,
		},
	}, nil
}

// stitch walks consecutive path node pairs, looks up each connecting edge
// (regardless of the edge's stored source/target direction), and appends
// its polyline oriented for traversal, skipping the first point of every
// edge after the first to avoid a duplicated vertex at each join.
func stitch(g *routing.Graph, path []int) (polyline []geomath.Coord, totalDistanceM, weightedSafetySum float64, err error) {
	for i := 0; i+1 < len(path); i++ {
		edge, ok := g.EdgeBetween(path[i], path[i+1])
		if !ok {
			return nil, 0, 0, fmt.Errorf("%w: nodes %d -> %d", ErrBrokenPath, path[i], path[i+1])
		}

		oriented := edge.PolylineFrom(path[i])
		if i == 0 {
			polyline = append(polyline, oriented...)
		} else {
			polyline = append(polyline, oriented[1:]...)
		}

		totalDistanceM += edge.LengthM
		weightedSafetySum += edge.LengthM * float64(edge.SafetyScore)
	}

	return polyline, totalDistanceM, weightedSafetySum, nil
}

// downsample returns polyline unchanged when the path has at most
// maxWaypoints nodes; otherwise it samples every ceil(nodeCount/maxWaypoints)
// points, always keeping the final point.
func downsample(polyline []geomath.Coord, nodeCount int) []geomath.Coord {
	if nodeCount <= maxWaypoints || len(polyline) <= 1 {
		out := make([]geomath.Coord, len(polyline))
		copy(out, polyline)

		return out
	}

	step := int(math.Ceil(float64(nodeCount) / maxWaypoints))
	sampled := make([]geomath.Coord, 0, len(polyline)/step+1)
	for i := 0; i < len(polyline); i += step {
		sampled = append(sampled, polyline[i])
	}

	last := polyline[len(polyline)-1]
	if sampled[len(sampled)-1] != last {
		sampled = append(sampled, last)
	}

	return sampled
}

// kmhToMetersPerSecond converts a km/h speed into m/s.
func kmhToMetersPerSecond(kmh float64) float64 {
	return kmh * 1000 / 3600
}
