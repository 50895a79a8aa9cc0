package routing

import (
	"errors"
	"fmt"
	"math"

	"github.com/dcsaferoutes/saferoute/geomath"
)

// ErrGraphCorrupt is returned by Validate (and therefore by Load, which
// always validates) when a structural invariant fails.
var ErrGraphCorrupt = errors.New("routing: graph failed integrity check")

// lengthToleranceM is the maximum allowed discrepancy between an edge's
// stored LengthM and the haversine distance between its endpoints.
const lengthToleranceM = 0.01

// Validate checks every structural invariant a RoutingGraph must hold:
//
//  1. every edge references two existing nodes;
//  2. edge_lookup is bidirectional and agrees with adjacency;
//  3. adjacency mirrors edges exactly (symmetric);
//  4. stored edge length matches the haversine distance between endpoints.
//
// Returns a wrapped ErrGraphCorrupt describing the first violation found;
// does not attempt to report every violation — any failure is fatal for
// the calling process.
func (g *Graph) Validate() error {
	n := len(g.nodes)

	for _, e := range g.edges {
		if e.Source < 0 || e.Source >= n || e.Target < 0 || e.Target >= n {
			return fmt.Errorf("%w: edge %s references out-of-range node (source=%d target=%d, nodeCount=%d)",
				ErrGraphCorrupt, e.ID, e.Source, e.Target, n)
		}

		want, ok := g.edgeLookup[[2]int{e.Source, e.Target}]
		if !ok || g.edges[want].ID != e.ID {
			return fmt.Errorf("%w: edge_lookup missing or inconsistent entry for edge %s", ErrGraphCorrupt, e.ID)
		}
		wantRev, ok := g.edgeLookup[[2]int{e.Target, e.Source}]
		if !ok || g.edges[wantRev].ID != e.ID {
			return fmt.Errorf("%w: edge_lookup missing reverse entry for edge %s", ErrGraphCorrupt, e.ID)
		}

		a, b := g.nodes[e.Source].Coord, g.nodes[e.Target].Coord
		haversine := geomath.DistanceM(a, b)
		if math.Abs(haversine-e.LengthM) > lengthToleranceM && len(e.Polyline) == 2 {
			// Only enforced for direct (unsplit, two-point) edges; an
			// edge whose polyline has interior vertices legitimately has
			// LengthM equal to the summed segment lengths, which can
			// exceed the endpoint-to-endpoint chord.
			return fmt.Errorf("%w: edge %s length_m=%.3f diverges from haversine=%.3f",
				ErrGraphCorrupt, e.ID, e.LengthM, haversine)
		}
	}

	for u := range g.adjacency {
		for _, v := range g.adjacency[u] {
			if v < 0 || v >= n {
				return fmt.Errorf("%w: adjacency[%d] references out-of-range node %d", ErrGraphCorrupt, u, v)
			}
			if !containsInt(g.adjacency[v], u) {
				return fmt.Errorf("%w: adjacency is not symmetric for nodes %d and %d", ErrGraphCorrupt, u, v)
			}
		}
	}

	return nil
}

func containsInt(xs []int, target int) bool {
	for _, x := range xs {
		if x == target {
			return true
		}
	}

	return false
}
