// Package pathsearch implements the two algorithms that share a
// routing.Graph: plain Dijkstra for distance-only shortest path, and a
// blended A* that trades distance against accumulated safety cost
// according to a route kind's alpha.
//
// Both algorithms use a lazy-decrease-key binary heap (container/heap):
// a cheaper distance to an already-queued node is pushed as a new heap
// entry rather than updating the existing one in place, and a stale entry
// is simply skipped when popped if its node is already closed.
package pathsearch

import "errors"

// Sentinel errors returned by Dijkstra and AStar.
var (
	// ErrNoRouteFound is returned when the open set empties without ever
	// reaching the goal node and no detour budget was in play — typically
	// means start and end are in different connected components.
	ErrNoRouteFound = errors.New("pathsearch: no route found")

	// ErrSearchTimeout is returned when the configured wall-clock budget
	// elapses before a search concludes.
	ErrSearchTimeout = errors.New("pathsearch: search exceeded timeout")

	// ErrInfeasibleDetour is returned when a detour route kind's implied
	// max_distance_m cannot be satisfied — the quickest route itself
	// already exceeds the detour budget being searched for.
	ErrInfeasibleDetour = errors.New("pathsearch: requested detour budget is infeasible")

	// ErrCycleDetected is returned if path reconstruction revisits a node,
	// which indicates a parent-pointer bug rather than a bad input graph;
	// every correctly-relaxed search is acyclic by construction.
	ErrCycleDetected = errors.New("pathsearch: cycle detected while reconstructing path")

	// ErrInvalidNode is returned when a start or end node index is outside
	// the graph's range.
	ErrInvalidNode = errors.New("pathsearch: node index out of range")
)

// Result is the outcome of a successful search.
type Result struct {
	// Path is the sequence of node indices from start to end, inclusive.
	Path []int
	// TotalDistanceM is the sum of length_m along Path, independent of
	// which cost function (distance-only or blended) drove the search.
	TotalDistanceM float64
	// NodesExplored counts how many nodes were popped off the open set
	// (closed), for debug reporting.
	NodesExplored int
}
