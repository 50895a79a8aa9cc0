package request

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/routing"
	"github.com/dcsaferoutes/saferoute/spatialgrid"
	"github.com/dcsaferoutes/saferoute/walkmask"
)

// Engine loads a RoutingGraph and WalkabilityMask once at startup and
// answers route requests against them. The zero value is not usable;
// construct with NewEngine.
type Engine struct {
	graph    *routing.Graph
	mask     *walkmask.Mask
	nodeGrid *spatialgrid.Grid
	cfg      Config
}

// NewEngine resolves cfg.dataDir to the first directory containing a
// graph.nodes file, loads the graph and walkable mask from it, and builds
// the nearest-node spatial index used to snap request coordinates onto the
// graph.
func NewEngine(cfg Config) (*Engine, error) {
	dir, err := resolveDataDir(cfg.dataDir)
	if err != nil {
		return nil, err
	}

	graph, err := routing.Load(dir)
	if err != nil {
		return nil, wrapLoadError(err)
	}

	mask, err := walkmask.Load(dir)
	if err != nil {
		return nil, wrapLoadError(err)
	}

	cfg.logger.Info("engine loaded",
		zap.String("data_dir", dir),
		zap.Int("node_count", graph.NodeCount()),
		zap.Int("edge_count", graph.EdgeCount()),
		zap.Int("walkable_cells", mask.Len()))

	return &Engine{
		graph:    graph,
		mask:     mask,
		nodeGrid: buildNodeGrid(graph),
		cfg:      cfg,
	}, nil
}

// resolveDataDir returns the first directory in dirs containing a
// graph.nodes file.
func resolveDataDir(dirs []string) (string, error) {
	for _, dir := range dirs {
		if _, err := os.Stat(filepath.Join(dir, "graph.nodes")); err == nil {
			return dir, nil
		}
	}

	return "", fmt.Errorf("%w: no graph.nodes found in any of %v", ErrDataUnavailable, dirs)
}

// buildNodeGrid indexes every graph node by coordinate so a request
// coordinate can be snapped to its nearest node via expanding-radius
// queries.
func buildNodeGrid(g *routing.Graph) *spatialgrid.Grid {
	grid := spatialgrid.New(spatialgrid.DefaultSegmentCellSizeDeg)
	for _, n := range g.Nodes() {
		grid.Insert(spatialgrid.Entity{
			ID:     strconv.Itoa(n.Index),
			Center: n.Coord,
			MinLat: n.Lat(), MaxLat: n.Lat(),
			MinLon: n.Lon(), MaxLon: n.Lon(),
		})
	}

	return grid
}

// nearestNodeSearchRadiiM are the expanding radii tried by nearestNode.
var nearestNodeSearchRadiiM = []float64{50, 100, 250, 500, 1000, defaultNearestNodeSearchCapM}

// nearestNode returns the index of the graph node closest to c and the
// distance to it, searching outward in expanding radii up to
// defaultNearestNodeSearchCapM.
func (e *Engine) nearestNode(c geomath.Coord) (idx int, distanceM float64, ok bool) {
	for _, radius := range nearestNodeSearchRadiiM {
		candidates := e.nodeGrid.QueryRadius(c, radius)
		if len(candidates) > 0 {
			best := candidates[0]
			nodeIdx, err := strconv.Atoi(best.ID)
			if err != nil {
				continue
			}

			return nodeIdx, geomath.DistanceM(c, best.Center), true
		}
	}

	return 0, 0, false
}

// snapToGraph resolves a validated coordinate to a graph node index,
// expanding into the walkable mask first if the point itself isn't
// walkable, then finding the nearest graph node to the (possibly snapped)
// point. offsetM reports how far the mask-snap moved the point (0 if the
// original point was already walkable).
func (e *Engine) snapToGraph(c geomath.Coord) (idx int, offsetM float64, err error) {
	queryLat, queryLon := c.Lat(), c.Lon()

	if !e.mask.IsWalkable(queryLat, queryLon) {
		maxDeg := defaultSnapSearchRadiusM / metersPerDegreeApprox
		snappedLat, snappedLon, offsetDeg, snapErr := e.mask.NearestWalkable(queryLat, queryLon, maxDeg)
		if snapErr != nil {
			return 0, 0, fmt.Errorf("%w", &WalkabilityError{Coord: c, SearchedRadiusM: defaultSnapSearchRadiusM})
		}
		queryLat, queryLon = snappedLat, snappedLon
		offsetM = offsetDeg * metersPerDegreeApprox
	}

	nodeIdx, _, found := e.nearestNode(geomath.NewCoord(queryLat, queryLon))
	if !found {
		return 0, 0, fmt.Errorf("%w", &WalkabilityError{Coord: c, SearchedRadiusM: defaultNearestNodeSearchCapM})
	}

	return nodeIdx, offsetM, nil
}

// metersPerDegreeApprox converts a degree offset from walkmask's
// fixed-step search into an approximate meter offset for debug reporting;
// accurate enough for a human-facing "how far did we snap" figure, never
// used for a routing decision.
const metersPerDegreeApprox = 111_320.0
