package pathsearch

import (
	"container/heap"
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/routing"
)

// searchState names a step of AStar's run for logging; it never leaves
// this package as a value other callers branch on.
type searchState int

const (
	stateInit searchState = iota
	stateExpanding
	stateRelaxing
	stateSuccess
	stateNoRoute
	stateTimeout
	stateInfeasibleDetour
)

func (s searchState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateExpanding:
		return "expanding"
	case stateRelaxing:
		return "relaxing"
	case stateSuccess:
		return "success"
	case stateNoRoute:
		return "no_route"
	case stateTimeout:
		return "timeout"
	case stateInfeasibleDetour:
		return "infeasible_detour"
	default:
		return "unknown"
	}
}

const (
	defaultSearchTimeout        = 25 * time.Second
	defaultIterationLogInterval = 500
	defaultCorridorFraction     = 0.30
	defaultCorridorMinM         = 200.0
)

// Options configures a single AStar call.
type Options struct {
	logger                *zap.Logger
	searchTimeout         time.Duration
	iterationLogInterval  int
	corridorFraction      float64
	corridorMinM          float64
	quickestDistanceM     *float64
	maxDistanceOverrideM  *float64
}

// Option configures Options.
type Option func(*Options)

// WithLogger overrides the search's logger; defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.logger = logger }
}

// WithSearchTimeout overrides the wall-clock budget; defaults to 25s.
func WithSearchTimeout(d time.Duration) Option {
	return func(o *Options) { o.searchTimeout = d }
}

// WithIterationLogInterval sets how many node expansions pass between
// context-cancellation and timeout checks; defaults to 500.
func WithIterationLogInterval(n int) Option {
	return func(o *Options) { o.iterationLogInterval = n }
}

// WithCorridorFraction overrides the corridor-width fraction of direct
// distance; defaults to 0.30.
func WithCorridorFraction(f float64) Option {
	return func(o *Options) { o.corridorFraction = f }
}

// WithCorridorMinMeters overrides the corridor's minimum width in meters;
// defaults to 200.
func WithCorridorMinMeters(m float64) Option {
	return func(o *Options) { o.corridorMinM = m }
}

// WithQuickestDistanceM supplies a precomputed quickest-route distance so
// a detour search doesn't need to re-run Dijkstra as a first pass; callers
// batching several route kinds for the same start/end in one request
// session should compute this once and share it.
func WithQuickestDistanceM(d float64) Option {
	return func(o *Options) { o.quickestDistanceM = &d }
}

// WithMaxDistanceM overrides the derived max_distance_m outright, bypassing
// the detour-percent computation.
func WithMaxDistanceM(d float64) Option {
	return func(o *Options) { o.maxDistanceOverrideM = &d }
}

func defaultOptions() Options {
	return Options{
		logger:               zap.NewNop(),
		searchTimeout:        defaultSearchTimeout,
		iterationLogInterval: defaultIterationLogInterval,
		corridorFraction:     defaultCorridorFraction,
		corridorMinM:         defaultCorridorMinM,
	}
}

// AStar searches g for the route between startIdx and endIdx that
// minimizes kind's blend of distance and safety cost.
//
// State machine: Init -> Expanding <-> Relaxing, terminating in exactly one
// of Success, NoRouteFound (ErrNoRouteFound), SearchTimeout
// (ErrSearchTimeout), or InfeasibleDetour (ErrInfeasibleDetour).
//
// The search is bounded by three independent mechanisms: an elliptical
// corridor around the start/end pair (WithinEllipse) that a candidate node
// must lie within to be expanded, a max_distance_m budget derived from
// kind's detour percent (or overridden via WithMaxDistanceM) that a
// candidate's accumulated real distance must not exceed, and a wall-clock
// timeout checked every iterationLogInterval expansions.
func AStar(ctx context.Context, g *routing.Graph, startIdx, endIdx int, kind RouteKind, opts ...Option) (Result, error) {
	if startIdx < 0 || startIdx >= g.NodeCount() || endIdx < 0 || endIdx >= g.NodeCount() {
		return Result{}, ErrInvalidNode
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	startCoord, endCoord := g.Node(startIdx).Coord, g.Node(endIdx).Coord
	directM := geomath.DistanceM(startCoord, endCoord)
	corridorM := geomath.CorridorWidthM(directM, cfg.corridorFraction, cfg.corridorMinM)

	maxDistanceM := math.Inf(1)
	switch {
	case cfg.maxDistanceOverrideM != nil:
		maxDistanceM = *cfg.maxDistanceOverrideM
	case kind.IsDetour():
		quickestM := 0.0
		if cfg.quickestDistanceM != nil {
			quickestM = *cfg.quickestDistanceM
		} else {
			baseline, err := Dijkstra(g, startIdx, endIdx)
			if err != nil {
				return Result{}, err
			}
			quickestM = baseline.TotalDistanceM
		}
		maxDistanceM = (1 + float64(kind.DetourPercent())/100) * quickestM
	}

	r := &astarRunner{
		g:            g,
		kind:         kind,
		endCoord:     endCoord,
		startCoord:   startCoord,
		corridorM:    corridorM,
		maxDistanceM: maxDistanceM,
		cfg:          cfg,
		deadline:     time.Now().Add(cfg.searchTimeout),
		gCost:        make([]float64, g.NodeCount()),
		gDist:        make([]float64, g.NodeCount()),
		prev:         make([]int, g.NodeCount()),
		closed:       make([]bool, g.NodeCount()),
	}

	state, explored, err := r.run(ctx, startIdx, endIdx)
	cfg.logger.Debug("astar finished",
		zap.String("route_kind", kind.String()),
		zap.String("final_state", state.String()),
		zap.Int("nodes_explored", explored))

	if err != nil {
		return Result{NodesExplored: explored}, err
	}

	path, perr := reconstructPath(r.prev, startIdx, endIdx)
	if perr != nil {
		return Result{}, perr
	}

	return Result{
		Path:           path,
		TotalDistanceM: r.gDist[endIdx],
		NodesExplored:  explored,
	}, nil
}

type astarRunner struct {
	g            *routing.Graph
	kind         RouteKind
	startCoord   geomath.Coord
	endCoord     geomath.Coord
	corridorM    float64
	maxDistanceM float64
	cfg          Options
	deadline     time.Time

	gCost  []float64 // blended cost accumulated to reach each node
	gDist  []float64 // real distance in meters accumulated to reach each node
	prev   []int
	closed []bool
	pq     astarPQ
}

func (r *astarRunner) heuristic(idx int) float64 {
	straight := geomath.DistanceM(r.g.Node(idx).Coord, r.endCoord)

	return straight * (r.kind.Alpha() + 0.1)
}

func (r *astarRunner) run(ctx context.Context, startIdx, endIdx int) (searchState, int, error) {
	for i := range r.gCost {
		r.gCost[i] = math.Inf(1)
		r.gDist[i] = math.Inf(1)
		r.prev[i] = -1
	}
	r.gCost[startIdx] = 0
	r.gDist[startIdx] = 0

	r.pq = make(astarPQ, 0, r.g.NodeCount())
	heap.Init(&r.pq)
	heap.Push(&r.pq, &astarItem{idx: startIdx, f: r.heuristic(startIdx), g: 0, dist: 0})

	explored := 0

	for r.pq.Len() > 0 {
		explored++
		if explored%r.cfg.iterationLogInterval == 0 {
			if ctx.Err() != nil {
				return stateTimeout, explored, ErrSearchTimeout
			}
			if time.Now().After(r.deadline) {
				return stateTimeout, explored, ErrSearchTimeout
			}
		}

		// Expanding: pop the best open candidate.
		item := heap.Pop(&r.pq).(*astarItem)
		u := item.idx
		if r.closed[u] {
			continue
		}
		r.closed[u] = true

		if u == endIdx {
			return stateSuccess, explored, nil
		}

		// Relaxing: offer u's neighbors a cheaper path through u.
		r.relax(u)
	}

	if r.kind.IsDetour() {
		return stateInfeasibleDetour, explored, ErrInfeasibleDetour
	}

	return stateNoRoute, explored, ErrNoRouteFound
}

func (r *astarRunner) relax(u int) {
	for _, v := range r.g.Neighbors(u) {
		if r.closed[v] {
			continue
		}

		if !geomath.WithinEllipse(r.g.Node(v).Coord, r.startCoord, r.endCoord, r.corridorM) {
			continue
		}

		edge, ok := r.g.EdgeBetween(u, v)
		if !ok {
			continue
		}

		newDist := r.gDist[u] + edge.LengthM
		if newDist > r.maxDistanceM {
			continue
		}

		newCost := r.gCost[u] + edge.Weights.Blend(r.kind.Alpha())
		if newCost >= r.gCost[v] {
			continue
		}

		r.gCost[v] = newCost
		r.gDist[v] = newDist
		r.prev[v] = u
		heap.Push(&r.pq, &astarItem{
			idx:  v,
			f:    newCost + r.heuristic(v),
			g:    newCost,
			dist: newDist,
		})
	}
}

// astarItem is a candidate node with its f-cost, blended g-cost, and real
// accumulated distance, the three values used in sequence to break ties
// deterministically: f ascending, then real distance ascending, then node
// index ascending.
type astarItem struct {
	idx  int
	f    float64
	g    float64
	dist float64
}

type astarPQ []*astarItem

func (pq astarPQ) Len() int { return len(pq) }
func (pq astarPQ) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].idx < pq[j].idx
}
func (pq astarPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *astarPQ) Push(x interface{}) { *pq = append(*pq, x.(*astarItem)) }
func (pq *astarPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
