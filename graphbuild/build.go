package graphbuild

import (
	"sort"

	"go.uber.org/zap"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/routing"
	"github.com/dcsaferoutes/saferoute/safety"
	"github.com/dcsaferoutes/saferoute/spatialgrid"
	"github.com/dcsaferoutes/saferoute/walkmask"
)

// Builder drives offline graph construction from filtered, scored street
// segments. The zero value is not usable; construct with NewBuilder.
type Builder struct {
	logger *zap.Logger
	filter RoadTypeFilter
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger overrides the Builder's logger; defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithRoadTypeFilter overrides the default road-type eligibility table.
func WithRoadTypeFilter(filter RoadTypeFilter) Option {
	return func(b *Builder) { b.filter = filter }
}

// NewBuilder returns a Builder configured by opts.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		logger: zap.NewNop(),
		filter: DefaultRoadTypeFilter(),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build filters inputs, constructs a dense-vertex graph, splits implicit
// intersections, and returns the finished, validated routing.Graph.
func (b *Builder) Build(inputs []InputSegment, mask *walkmask.Mask) (*routing.Graph, error) {
	eligible, dropped := b.filterSegments(inputs, mask)
	b.logger.Info("segment filtering complete",
		zap.Int("eligible", len(eligible)),
		zap.Int("dropped", dropped))

	rb := routing.NewBuilder(len(eligible) * 2)
	for _, in := range eligible {
		b.addSegmentEdges(rb, in)
	}

	b.splitImplicitIntersections(rb)

	graph, err := rb.Freeze()
	if err != nil {
		return nil, err
	}

	if graph.LargestComponentSize() < graph.NodeCount() {
		b.logger.Warn("graph is not fully connected",
			zap.Int("node_count", graph.NodeCount()),
			zap.Int("largest_component", graph.LargestComponentSize()))
	}

	return graph, nil
}

// filterSegments drops segments whose road type is denied, or whose
// polyline has no walkable endpoint (OR-semantics: only one endpoint
// needs to be walkable, tolerating slight OSM/mask misalignment).
func (b *Builder) filterSegments(inputs []InputSegment, mask *walkmask.Mask) (eligible []InputSegment, dropped int) {
	for _, in := range inputs {
		seg := in.Segment
		if !b.filter.Allow(seg.RoadType) {
			dropped++
			continue
		}

		first := seg.Polyline[0]
		last := seg.Polyline[len(seg.Polyline)-1]
		if mask != nil && !mask.IsWalkable(first.Lat(), first.Lon()) && !mask.IsWalkable(last.Lat(), last.Lon()) {
			dropped++
			continue
		}

		eligible = append(eligible, in)
	}

	return eligible, dropped
}

// addSegmentEdges performs dense-vertex construction for one segment:
// every consecutive polyline vertex pair becomes a node pair plus an
// undirected edge, collapsing coincident vertices across segments via
// routing.Builder.AddNode.
func (b *Builder) addSegmentEdges(rb *routing.Builder, in InputSegment) {
	score := FallbackSafetyScore
	if in.Score != nil {
		score = *in.Score
	} else {
		b.logger.Warn("segment has no safety score, using fallback",
			zap.String("segment_id", in.Segment.ID),
			zap.Int("fallback_score", FallbackSafetyScore))
	}

	poly := in.Segment.Polyline
	for i := 0; i+1 < len(poly); i++ {
		aIdx := rb.AddNode(poly[i])
		bIdx := rb.AddNode(poly[i+1])
		lengthM := geomath.DistanceM(poly[i], poly[i+1])
		rb.AddEdge(aIdx, bIdx, lengthM, score, []geomath.Coord{poly[i], poly[i+1]})
	}
}

// splitImplicitIntersections finds pairs of edges that cross without
// sharing an endpoint and replaces each crossing pair with four edges
// meeting at a newly inserted node. Runs exactly one pass over the edge
// set present when it is called: edges created by a split are not
// themselves re-checked for further intersections, matching the
// single-pass construction this builder performs.
func (b *Builder) splitImplicitIntersections(rb *routing.Builder) {
	keys := rb.EdgeKeys()
	sort.Strings(keys)

	grid := spatialgrid.New(spatialgrid.DefaultIntersectionCellSizeDeg)
	for _, key := range keys {
		aIdx, bIdx, _, _, _, ok := rb.Edge(key)
		if !ok {
			continue
		}
		a, bb := rb.NodeCoord(aIdx), rb.NodeCoord(bIdx)
		minLat, maxLat := a.Lat(), bb.Lat()
		if minLat > maxLat {
			minLat, maxLat = maxLat, minLat
		}
		minLon, maxLon := a.Lon(), bb.Lon()
		if minLon > maxLon {
			minLon, maxLon = maxLon, minLon
		}
		grid.Insert(spatialgrid.Entity{
			ID:     key,
			Center: geomath.NewCoord((a.Lat()+bb.Lat())/2, (a.Lon()+bb.Lon())/2),
			MinLat: minLat,
			MinLon: minLon,
			MaxLat: maxLat,
			MaxLon: maxLon,
		})
	}

	// radiusM approximates one grid cell in meters, so QueryRadius pulls in
	// every edge sharing or neighboring this edge's bucket.
	radiusM := geomath.DistanceM(geomath.NewCoord(0, 0), geomath.NewCoord(0, spatialgrid.DefaultIntersectionCellSizeDeg))
	seenPairs := make(map[[2]string]struct{})

	for _, key := range keys {
		aIdx, bIdx, _, _, _, ok := rb.Edge(key)
		if !ok {
			continue
		}
		center := geomath.NewCoord((rb.NodeCoord(aIdx).Lat()+rb.NodeCoord(bIdx).Lat())/2, (rb.NodeCoord(aIdx).Lon()+rb.NodeCoord(bIdx).Lon())/2)

		for _, cand := range grid.QueryRadius(center, radiusM) {
			otherKey := cand.ID
			if otherKey == key {
				continue
			}

			pairKey := canonicalPair(key, otherKey)
			if _, seen := seenPairs[pairKey]; seen {
				continue
			}
			seenPairs[pairKey] = struct{}{}

			b.tryIntersect(rb, key, otherKey)
		}
	}
}

// canonicalPair returns a 2-element array with the two keys in a fixed
// order, used to dedupe pair checks that would otherwise surface once per
// shared grid cell.
func canonicalPair(a, b string) [2]string {
	if a <= b {
		return [2]string{a, b}
	}

	return [2]string{b, a}
}

// tryIntersect tests whether keyA and keyB still exist, don't share an
// endpoint, and cross; if so it replaces both with four new edges meeting
// at the crossing point.
func (b *Builder) tryIntersect(rb *routing.Builder, keyA, keyB string) {
	a1, a2, _, scoreA, _, ok := rb.Edge(keyA)
	if !ok {
		return
	}
	b1, b2, _, scoreB, _, ok := rb.Edge(keyB)
	if !ok {
		return
	}

	if sharesEndpoint(a1, a2, b1, b2) {
		return
	}

	coordA1, coordA2 := rb.NodeCoord(a1), rb.NodeCoord(a2)
	coordB1, coordB2 := rb.NodeCoord(b1), rb.NodeCoord(b2)

	point, crosses := findIntersection(coordA1, coordA2, coordB1, coordB2)
	if !crosses {
		return
	}

	rb.RemoveEdge(keyA)
	rb.RemoveEdge(keyB)

	newIdx := rb.AddNode(point)
	newCoord := rb.NodeCoord(newIdx)

	addSplitEdge := func(endpoint int, score int) {
		endpointCoord := rb.NodeCoord(endpoint)
		length := geomath.DistanceM(endpointCoord, newCoord)
		rb.AddEdge(endpoint, newIdx, length, score, []geomath.Coord{endpointCoord, newCoord})
	}
	addSplitEdge(a1, scoreA)
	addSplitEdge(a2, scoreA)
	addSplitEdge(b1, scoreB)
	addSplitEdge(b2, scoreB)

	b.logger.Debug("split implicit intersection",
		zap.String("edge_a", keyA),
		zap.String("edge_b", keyB),
		zap.Float64("split_lat", point.Lat()),
		zap.Float64("split_lon", point.Lon()))
}

// sharesEndpoint reports whether the two node-index pairs share any
// endpoint.
func sharesEndpoint(a1, a2, b1, b2 int) bool {
	return a1 == b1 || a1 == b2 || a2 == b1 || a2 == b2
}
