// Package routing defines the immutable, integer-indexed RoutingGraph that
// PathSearch and RouteAssembler consume, plus the deterministic
// serialization of its four on-disk artifacts.
//
// RoutingGraph is built once, offline, by graphbuild.Build via the
// mutable Builder in this package, then Freeze'd into dense, read-only
// arrays. Hash maps keyed by string-formatted node IDs never appear in a
// search hot loop: canonical string IDs (internal/ids) are used only
// during construction and on the load/save path; every hot-path structure
// here (Nodes, Edges, adjacency, edgeLookup) is addressed by small integer
// index.
package routing

import "github.com/dcsaferoutes/saferoute/geomath"

// Node is a routing graph vertex: a stable ID (the quantized-coordinate
// key, kept for serialization and debugging) plus its coordinate. Created
// on demand by Builder.AddNode; never removed once the graph is built.
type Node struct {
	// ID is the canonical, deterministic string key derived from
	// (round(lat,6), round(lon,6)) — see internal/ids.QuantizeCoord.
	ID string
	// Index is this node's dense position in Graph.Nodes; equal to its
	// slice index, kept alongside ID for convenience in log fields.
	Index int
	Coord geomath.Coord
}

// Lat returns the node's latitude.
func (n Node) Lat() float64 { return n.Coord.Lat() }

// Lon returns the node's longitude.
func (n Node) Lon() float64 { return n.Coord.Lon() }

// EdgeWeights bundles the two pre-computed per-edge weight channels:
// distance in meters, and a safety cost in "meter equivalent" units (0 =
// safest, 100 = most dangerous). The blended cost is computed lazily at
// search time as alpha*WDistance + (1-alpha)*WSafety.
type EdgeWeights struct {
	WDistance float64
	WSafety   float64
}

// Blend returns alpha*WDistance + (1-alpha)*WSafety, the per-edge search
// cost for blend factor alpha.
func (w EdgeWeights) Blend(alpha float64) float64 {
	return alpha*w.WDistance + (1-alpha)*w.WSafety
}

// Edge is an undirected routing graph edge between two nodes, identified
// canonically by (min(node_a,node_b), max(node_a,node_b)) so that
// duplicate-direction inserts collapse.
type Edge struct {
	// ID is the canonical edge key: internal/ids.CanonicalEdgeKey of the
	// two endpoint node keys.
	ID string
	// Index is this edge's dense position in Graph.Edges.
	Index int
	// Source and Target are node indices; Source < Target is NOT
	// guaranteed (the polyline is stored source->target in the order the
	// parent segment was traversed; canonical ordering lives in ID, not
	// in Source/Target) — see EdgeWeights and Graph.EdgeBetween for
	// direction-independent access.
	Source, Target int
	LengthM        float64
	// SafetyScore is the normalized [1,100] score inherited from the
	// parent street segment; FallbackSafetyScore when the parent segment
	// carried none.
	SafetyScore int
	Weights     EdgeWeights
	// Polyline is ordered Source -> Target and has at least two points.
	Polyline []geomath.Coord
}

// OtherEndpoint returns the node index at the far end of e from node idx.
// Panics if idx is neither endpoint, since that indicates a caller bug
// (the edge was looked up via adjacency, which only ever yields edges
// actually incident to idx).
func (e Edge) OtherEndpoint(idx int) int {
	switch idx {
	case e.Source:
		return e.Target
	case e.Target:
		return e.Source
	default:
		panic("routing: OtherEndpoint called with a non-endpoint node index")
	}
}

// PolylineFrom returns e's polyline oriented starting at node index from
// (i.e. reversed if from == e.Target), so callers walking a path never
// need to special-case traversal direction.
func (e Edge) PolylineFrom(from int) []geomath.Coord {
	if from == e.Source {
		out := make([]geomath.Coord, len(e.Polyline))
		copy(out, e.Polyline)

		return out
	}

	out := make([]geomath.Coord, len(e.Polyline))
	for i, c := range e.Polyline {
		out[len(e.Polyline)-1-i] = c
	}

	return out
}
