package routing

import (
	"sort"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/internal/ids"
)

// Builder accumulates nodes and edges during offline graph construction
// (graphbuild.Build is the only intended caller) and produces an
// immutable Graph via Freeze. It is not safe for concurrent use; a single
// goroutine owns a Builder for the duration of one build.
//
// Edges are keyed by their canonical key so graphbuild's
// implicit-intersection pass can delete and re-insert edges by key while
// splitting, without needing to track dense integer indices that would
// otherwise be invalidated by the deletion (see AddEdge, RemoveEdge).
type Builder struct {
	interner *ids.Interner
	coords   map[int]geomath.Coord
	edges    map[string]*edgeDraft
}

// edgeDraft is the mutable, in-progress form of an Edge: everything Edge
// has except Index, which is only assigned once the edge set is final
// (Freeze sorts by ID for determinism).
type edgeDraft struct {
	id             string
	source, target int
	lengthM        float64
	safetyScore    int
	weights        EdgeWeights
	polyline       []geomath.Coord
}

// NewBuilder returns an empty Builder sized for an expected nodeHint
// vertices.
func NewBuilder(nodeHint int) *Builder {
	return &Builder{
		interner: ids.NewInterner(nodeHint),
		coords:   make(map[int]geomath.Coord, nodeHint),
		edges:    make(map[string]*edgeDraft),
	}
}

// AddNode interns (lat, lon) at internal/ids.CoordPrecision and returns
// its dense node index, creating one on first sight. Geometrically
// coincident vertices from different input segments collapse to the same
// index.
func (b *Builder) AddNode(c geomath.Coord) int {
	key := ids.QuantizeCoord(c.Lat(), c.Lon())
	idx := b.interner.Intern(key)
	if _, ok := b.coords[idx]; !ok {
		b.coords[idx] = c
	}

	return idx
}

// NodeKey returns the canonical string key for a node index already
// interned by AddNode.
func (b *Builder) NodeKey(idx int) string {
	return b.interner.Key(idx)
}

// NodeCoord returns the coordinate stored for a node index.
func (b *Builder) NodeCoord(idx int) geomath.Coord {
	return b.coords[idx]
}

// EdgeKey returns the canonical key two node indices would produce,
// without inserting anything; AddEdge uses it to detect an existing edge,
// and its result can be passed to HasEdge.
func (b *Builder) EdgeKey(aIdx, bIdx int) string {
	return ids.CanonicalEdgeKey(b.interner.Key(aIdx), b.interner.Key(bIdx))
}

// HasEdge reports whether an edge with the given canonical key exists.
func (b *Builder) HasEdge(key string) bool {
	_, ok := b.edges[key]

	return ok
}

// AddEdge inserts an undirected edge between aIdx and bIdx with the given
// length, safety score, and source->target polyline. A duplicate insert
// (same canonical key already present) is a no-op and returns false, so
// re-inserting the same pair from either direction is idempotent. lengthM
// and safetyScore determine EdgeWeights (see weightsFor).
func (b *Builder) AddEdge(aIdx, bIdx int, lengthM float64, safetyScore int, polyline []geomath.Coord) (key string, inserted bool) {
	key = b.EdgeKey(aIdx, bIdx)
	if _, exists := b.edges[key]; exists {
		return key, false
	}

	pl := make([]geomath.Coord, len(polyline))
	copy(pl, polyline)

	b.edges[key] = &edgeDraft{
		id:          key,
		source:      aIdx,
		target:      bIdx,
		lengthM:     lengthM,
		safetyScore: safetyScore,
		weights:     weightsFor(lengthM, safetyScore),
		polyline:    pl,
	}

	return key, true
}

// RemoveEdge deletes the edge with the given canonical key, if present.
// Used by the implicit-intersection split to delete the two original
// crossing edges before inserting their four replacements.
func (b *Builder) RemoveEdge(key string) {
	delete(b.edges, key)
}

// Edge returns the current draft for a canonical edge key, or false if no
// such edge exists (e.g. it was already split and removed).
func (b *Builder) Edge(key string) (aIdx, bIdx int, lengthM float64, safetyScore int, polyline []geomath.Coord, ok bool) {
	d, exists := b.edges[key]
	if !exists {
		return 0, 0, 0, 0, nil, false
	}

	pl := make([]geomath.Coord, len(d.polyline))
	copy(pl, d.polyline)

	return d.source, d.target, d.lengthM, d.safetyScore, pl, true
}

// EdgeKeys returns a snapshot of every currently live edge key, in
// arbitrary order; callers that need determinism should sort the result
// (Freeze does this internally).
func (b *Builder) EdgeKeys() []string {
	keys := make([]string, 0, len(b.edges))
	for k := range b.edges {
		keys = append(keys, k)
	}

	return keys
}

// NodeCount returns the number of distinct interned nodes so far.
func (b *Builder) NodeCount() int {
	return b.interner.Len()
}

// EdgeCount returns the number of currently live edges.
func (b *Builder) EdgeCount() int {
	return len(b.edges)
}

// weightsFor computes the pre-computed per-edge weight vector from a raw
// length and normalized [1,100] safety score:
//
//	w_distance = length_m
//	w_safety   = (1 - (safety_score-1)/99) * 100
func weightsFor(lengthM float64, safetyScore int) EdgeWeights {
	safety := float64(safetyScore)
	wSafety := (1 - (safety-1)/99) * 100

	return EdgeWeights{WDistance: lengthM, WSafety: wSafety}
}

// Freeze finalizes the builder into an immutable Graph: nodes and edges
// are assigned dense indices in canonical-key sorted order, so the
// resulting Graph, and therefore its serialization, is independent of
// construction order — identical inputs yield byte-identical outputs.
// Adjacency and edgeLookup are built, and Validate is run.
func (b *Builder) Freeze() (*Graph, error) {
	nodeKeys := b.interner.Keys()
	sortedNodeOrder := make([]int, len(nodeKeys))
	for i := range sortedNodeOrder {
		sortedNodeOrder[i] = i
	}
	sort.Slice(sortedNodeOrder, func(i, j int) bool {
		return nodeKeys[sortedNodeOrder[i]] < nodeKeys[sortedNodeOrder[j]]
	})

	// oldToNew maps the builder's interning-order index to the final,
	// canonically-sorted dense index.
	oldToNew := make([]int, len(nodeKeys))
	nodes := make([]Node, len(nodeKeys))
	for newIdx, oldIdx := range sortedNodeOrder {
		oldToNew[oldIdx] = newIdx
		nodes[newIdx] = Node{
			ID:    nodeKeys[oldIdx],
			Index: newIdx,
			Coord: b.coords[oldIdx],
		}
	}

	edgeKeys := b.EdgeKeys()
	sort.Strings(edgeKeys)

	edges := make([]Edge, len(edgeKeys))
	for i, key := range edgeKeys {
		d := b.edges[key]
		edges[i] = Edge{
			ID:          key,
			Index:       i,
			Source:      oldToNew[d.source],
			Target:      oldToNew[d.target],
			LengthM:     d.lengthM,
			SafetyScore: d.safetyScore,
			Weights:     d.weights,
			Polyline:    d.polyline,
		}
	}

	g := buildFromNodesEdges(nodes, edges)

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}
