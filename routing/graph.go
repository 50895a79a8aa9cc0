package routing

import "sort"

// Graph is the immutable, integer-indexed routing graph shared read-only
// by every search. Construct it with Builder.Freeze or Load; there is no
// public mutator — once built, a Graph never changes, so no locking is
// needed on any read path.
type Graph struct {
	nodes []Node
	edges []Edge

	// adjacency[i] lists the node indices directly reachable from node i,
	// sorted ascending for deterministic iteration order: tie-breaks fall
	// through to node ID, which is monotonic in index after Freeze's
	// canonical sort.
	adjacency [][]int

	// edgeLookup maps an (a,b) node-index pair (both orderings) to the
	// edge index connecting them; bidirectional and kept consistent with
	// adjacency.
	edgeLookup map[[2]int]int

	// keyToIndex maps a node's canonical string key back to its dense
	// index, for resolving snapped coordinates during request handling.
	keyToIndex map[string]int

	// largestComponentSize is recorded by buildFromNodesEdges
	// for diagnostics: callers can compare it against NodeCount to detect
	// a graph that isn't fully connected.
	largestComponentSize int
}

// buildFromNodesEdges constructs a Graph's derived indexes (adjacency,
// edgeLookup, keyToIndex, component size) from an already dense-indexed,
// canonically-sorted node/edge set. Used by both Builder.Freeze and Load.
func buildFromNodesEdges(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		nodes:      nodes,
		edges:      edges,
		adjacency:  make([][]int, len(nodes)),
		edgeLookup: make(map[[2]int]int, len(edges)*2),
		keyToIndex: make(map[string]int, len(nodes)),
	}

	for _, n := range nodes {
		g.keyToIndex[n.ID] = n.Index
	}

	for _, e := range edges {
		g.adjacency[e.Source] = append(g.adjacency[e.Source], e.Target)
		g.adjacency[e.Target] = append(g.adjacency[e.Target], e.Source)
		g.edgeLookup[[2]int{e.Source, e.Target}] = e.Index
		g.edgeLookup[[2]int{e.Target, e.Source}] = e.Index
	}


	for i := range g.adjacency {
		sort.Ints(g.adjacency[i])
	}

	g.largestComponentSize = largestComponentSize(g.adjacency)

	return g
}

// largestComponentSize returns the size of the largest connected
// component in an adjacency list, via a simple iterative BFS/flood fill.
func largestComponentSize(adjacency [][]int) int {
	visited := make([]bool, len(adjacency))
	best := 0
	for start := range adjacency {
		if visited[start] {
			continue
		}
		size := 0
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			size++
			for _, v := range adjacency[u] {
				if !visited[v] {
					visited[v] = true
					queue = append(queue, v)
				}
			}
		}
		if size > best {
			best = size
		}
	}

	return best
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node at the given dense index.
func (g *Graph) Node(idx int) Node { return g.nodes[idx] }

// Edge returns the edge at the given dense index.
func (g *Graph) Edge(idx int) Edge { return g.edges[idx] }

// Nodes returns a read-only view of every node, in canonical-key order.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns a read-only view of every edge, in canonical-key order.
func (g *Graph) Edges() []Edge { return g.edges }

// Neighbors returns the node indices adjacent to idx, sorted ascending.
// The returned slice is owned by the Graph and must not be mutated.
func (g *Graph) Neighbors(idx int) []int { return g.adjacency[idx] }

// EdgeBetween returns the edge connecting node indices a and b, checking
// both directions.
func (g *Graph) EdgeBetween(a, b int) (Edge, bool) {
	idx, ok := g.edgeLookup[[2]int{a, b}]
	if !ok {
		return Edge{}, false
	}

	return g.edges[idx], true
}

// NodeIndexForKey resolves a canonical node key (internal/ids.QuantizeCoord
// output) to its dense index.
func (g *Graph) NodeIndexForKey(key string) (int, bool) {
	idx, ok := g.keyToIndex[key]

	return idx, ok
}

// LargestComponentSize returns the number of nodes in the graph's largest
// connected component; equal to NodeCount() iff the graph is fully
// connected.
func (g *Graph) LargestComponentSize() int { return g.largestComponentSize }
