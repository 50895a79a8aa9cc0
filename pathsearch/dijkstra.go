package pathsearch

import (
	"container/heap"
	"math"

	"github.com/dcsaferoutes/saferoute/routing"
)

// Dijkstra computes the distance-only shortest path between two node
// indices in g, using edge length in meters as the sole cost. It underlies
// the quickest route kind and supplies the baseline quickest distance that
// a detour route kind's max_distance_m is computed from.
//
// Processes nodes in order of increasing distance from start via a
// lazy-decrease-key min-heap: a cheaper distance to an already-queued node
// is pushed as a fresh heap entry, and a stale entry is skipped on pop once
// its node is closed.
func Dijkstra(g *routing.Graph, startIdx, endIdx int) (Result, error) {
	if startIdx < 0 || startIdx >= g.NodeCount() || endIdx < 0 || endIdx >= g.NodeCount() {
		return Result{}, ErrInvalidNode
	}

	r := &dijkstraRunner{
		g:      g,
		dist:   make([]float64, g.NodeCount()),
		prev:   make([]int, g.NodeCount()),
		closed: make([]bool, g.NodeCount()),
	}
	r.init(startIdx)
	explored := r.process(endIdx)

	if !r.closed[endIdx] {
		return Result{NodesExplored: explored}, ErrNoRouteFound
	}

	path, err := reconstructPath(r.prev, startIdx, endIdx)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Path:           path,
		TotalDistanceM: r.dist[endIdx],
		NodesExplored:  explored,
	}, nil
}

// dijkstraRunner holds the mutable state of a single Dijkstra run.
type dijkstraRunner struct {
	g      *routing.Graph
	dist   []float64
	prev   []int
	closed []bool
	pq     distPQ
}

func (r *dijkstraRunner) init(startIdx int) {
	for i := range r.dist {
		r.dist[i] = math.Inf(1)
		r.prev[i] = -1
	}
	r.dist[startIdx] = 0

	r.pq = make(distPQ, 0, r.g.NodeCount())
	heap.Init(&r.pq)
	heap.Push(&r.pq, &distItem{idx: startIdx, dist: 0})
}

// process runs the main loop, stopping as soon as endIdx is closed since
// Dijkstra only needs a single-target answer here, never a full distance
// table.
func (r *dijkstraRunner) process(endIdx int) (explored int) {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*distItem)
		u := item.idx
		if r.closed[u] {
			continue
		}
		r.closed[u] = true
		explored++

		if u == endIdx {
			return explored
		}

		r.relax(u)
	}

	return explored
}

func (r *dijkstraRunner) relax(u int) {
	for _, v := range r.g.Neighbors(u) {
		if r.closed[v] {
			continue
		}
		edge, ok := r.g.EdgeBetween(u, v)
		if !ok {
			continue
		}

		newDist := r.dist[u] + edge.LengthM
		if newDist >= r.dist[v] {
			continue
		}

		r.dist[v] = newDist
		r.prev[v] = u
		heap.Push(&r.pq, &distItem{idx: v, dist: newDist})
	}
}

// reconstructPath walks prev from endIdx back to startIdx, detecting a
// cycle (which would indicate corrupt parent pointers rather than a bad
// graph) by capping the walk at the node count.
func reconstructPath(prev []int, startIdx, endIdx int) ([]int, error) {
	path := []int{endIdx}
	cur := endIdx
	for cur != startIdx {
		cur = prev[cur]
		if cur == -1 {
			return nil, ErrNoRouteFound
		}
		path = append(path, cur)
		if len(path) > len(prev) {
			return nil, ErrCycleDetected
		}
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

// distItem is a (node index, distance) pair ordered by distance ascending.
type distItem struct {
	idx  int
	dist float64
}

// distPQ is a lazy-decrease-key min-heap of *distItem.
type distPQ []*distItem

func (pq distPQ) Len() int            { return len(pq) }
func (pq distPQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq distPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *distPQ) Push(x interface{}) { *pq = append(*pq, x.(*distItem)) }
func (pq *distPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
