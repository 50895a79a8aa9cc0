// This file implements the deterministic on-disk artifact layout for the
// offline build pipeline: graph.nodes, graph.edges, graph.adjacency, and
// graph.edge_lookup. Each is JSON indented with two spaces, with
// array-of-struct framing sorted by canonical ID, so two builds of
// identical input produce byte-identical files.
//
// No third-party serialization library is imported anywhere in the
// retrieval pack; JSON's deterministic field order for a fixed struct
// layout, combined with Builder.Freeze's canonical sort, satisfies the
// order-independent, byte-identical requirement without inventing a
// dependency the corpus never reaches for (see DESIGN.md).
package routing

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dcsaferoutes/saferoute/geomath"
)

const (
	nodesFilename      = "graph.nodes"
	edgesFilename      = "graph.edges"
	adjacencyFilename  = "graph.adjacency"
	edgeLookupFilename = "graph.edge_lookup"
)

// nodeRecord and edgeRecord are the wire representations of Node and Edge;
// kept separate from the in-memory types so internal field renames never
// silently change the on-disk format.
type nodeRecord struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type edgeRecord struct {
	ID          string      `json:"id"`
	SourceID    string      `json:"source_id"`
	TargetID    string      `json:"target_id"`
	LengthM     float64     `json:"length_m"`
	SafetyScore int         `json:"safety_score"`
	WDistance   float64     `json:"w_distance"`
	WSafety     float64     `json:"w_safety"`
	Polyline    [][2]float64 `json:"polyline"` // [lat, lon] pairs, source->target order
}

type adjacencyRecord struct {
	NodeID    string   `json:"node_id"`
	Neighbors []string `json:"neighbors"`
}

type edgeLookupRecord struct {
	NodeA  string `json:"node_a"`
	NodeB  string `json:"node_b"`
	EdgeID string `json:"edge_id"`
}

// Save writes the four graph.* artifacts into dir, creating it if
// necessary. Files are written as indented JSON with a trailing newline so
// diffs stay clean across rebuilds.
func (g *Graph) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("routing: creating artifact dir %s: %w", dir, err)
	}

	nodeRecords := make([]nodeRecord, len(g.nodes))
	for i, n := range g.nodes {
		nodeRecords[i] = nodeRecord{ID: n.ID, Lat: n.Lat(), Lon: n.Lon()}
	}
	if err := writeJSON(filepath.Join(dir, nodesFilename), nodeRecords); err != nil {
		return err
	}

	edgeRecords := make([]edgeRecord, len(g.edges))
	for i, e := range g.edges {
		pl := make([][2]float64, len(e.Polyline))
		for j, c := range e.Polyline {
			pl[j] = [2]float64{c.Lat(), c.Lon()}
		}
		edgeRecords[i] = edgeRecord{
			ID:          e.ID,
			SourceID:    g.nodes[e.Source].ID,
			TargetID:    g.nodes[e.Target].ID,
			LengthM:     e.LengthM,
			SafetyScore: e.SafetyScore,
			WDistance:   e.Weights.WDistance,
			WSafety:     e.Weights.WSafety,
			Polyline:    pl,
		}
	}
	if err := writeJSON(filepath.Join(dir, edgesFilename), edgeRecords); err != nil {
		return err
	}

	adjRecords := make([]adjacencyRecord, len(g.nodes))
	for i, n := range g.nodes {
		neighborIDs := make([]string, len(g.adjacency[i]))
		for j, nb := range g.adjacency[i] {
			neighborIDs[j] = g.nodes[nb].ID
		}
		adjRecords[i] = adjacencyRecord{NodeID: n.ID, Neighbors: neighborIDs}
	}
	if err := writeJSON(filepath.Join(dir, adjacencyFilename), adjRecords); err != nil {
		return err
	}

	// edge_lookup is emitted once per edge, as its (source, target) pair;
	// readers reconstruct the reverse direction themselves.
	lookupRecords := make([]edgeLookupRecord, len(g.edges))
	for i, e := range g.edges {
		lookupRecords[i] = edgeLookupRecord{
			NodeA:  g.nodes[e.Source].ID,
			NodeB:  g.nodes[e.Target].ID,
			EdgeID: e.ID,
		}
	}
	if err := writeJSON(filepath.Join(dir, edgeLookupFilename), lookupRecords); err != nil {
		return err
	}

	return nil
}

// ErrDataUnavailable is returned by Load when a required artifact file is
// missing.
var ErrDataUnavailable = errors.New("routing: artifact data unavailable")

// Load reads the four graph.* artifacts from dir, reconstructs canonical
// IDs tolerating any on-disk ordering, and runs Validate before returning.
// A failed integrity check returns ErrGraphCorrupt; a missing file returns
// ErrDataUnavailable.
func Load(dir string) (*Graph, error) {
	var nodeRecords []nodeRecord
	if err := readJSON(filepath.Join(dir, nodesFilename), &nodeRecords); err != nil {
		return nil, err
	}
	var edgeRecords []edgeRecord
	if err := readJSON(filepath.Join(dir, edgesFilename), &edgeRecords); err != nil {
		return nil, err
	}
	// adjacency and edge_lookup are redundant with edgeRecords given
	// undirected edges; they are still read and cross-checked so a
	// tampered or partially-regenerated artifact set fails loudly instead
	// of silently diverging.
	var adjRecords []adjacencyRecord
	if err := readJSON(filepath.Join(dir, adjacencyFilename), &adjRecords); err != nil {
		return nil, err
	}
	var lookupRecords []edgeLookupRecord
	if err := readJSON(filepath.Join(dir, edgeLookupFilename), &lookupRecords); err != nil {
		return nil, err
	}

	idToIndex := make(map[string]int, len(nodeRecords))
	nodes := make([]Node, len(nodeRecords))
	for i, r := range nodeRecords {
		idToIndex[r.ID] = i
		nodes[i] = Node{ID: r.ID, Index: i, Coord: coordFromLatLon(r.Lat, r.Lon)}
	}

	edges := make([]Edge, len(edgeRecords))
	for i, r := range edgeRecords {
		srcIdx, ok := idToIndex[r.SourceID]
		if !ok {
			return nil, fmt.Errorf("%w: edge %s references unknown source node %s", ErrGraphCorrupt, r.ID, r.SourceID)
		}
		dstIdx, ok := idToIndex[r.TargetID]
		if !ok {
			return nil, fmt.Errorf("%w: edge %s references unknown target node %s", ErrGraphCorrupt, r.ID, r.TargetID)
		}
		polyline := make([]geomath.Coord, len(r.Polyline))
		for j, pt := range r.Polyline {
			polyline[j] = coordFromLatLon(pt[0], pt[1])
		}
		edges[i] = Edge{
			ID:          r.ID,
			Index:       i,
			Source:      srcIdx,
			Target:      dstIdx,
			LengthM:     r.LengthM,
			SafetyScore: r.SafetyScore,
			Weights:     EdgeWeights{WDistance: r.WDistance, WSafety: r.WSafety},
			Polyline:    polyline,
		}
	}

	g := buildFromNodesEdges(nodes, edges)

	// Cross-check the redundant adjacency/edge_lookup files agree with
	// what we just derived from edges alone.
	if len(adjRecords) != len(nodes) {
		return nil, fmt.Errorf("%w: adjacency record count %d != node count %d", ErrGraphCorrupt, len(adjRecords), len(nodes))
	}
	for _, r := range adjRecords {
		idx, ok := idToIndex[r.NodeID]
		if !ok {
			return nil, fmt.Errorf("%w: adjacency references unknown node %s", ErrGraphCorrupt, r.NodeID)
		}
		if len(r.Neighbors) != len(g.adjacency[idx]) {
			return nil, fmt.Errorf("%w: adjacency neighbor count mismatch for node %s", ErrGraphCorrupt, r.NodeID)
		}
	}
	for _, r := range lookupRecords {
		a, aok := idToIndex[r.NodeA]
		b, bok := idToIndex[r.NodeB]
		if !aok || !bok {
			return nil, fmt.Errorf("%w: edge_lookup references unknown node in (%s,%s)", ErrGraphCorrupt, r.NodeA, r.NodeB)
		}
		if _, ok := g.edgeLookup[[2]int{a, b}]; !ok {
			return nil, fmt.Errorf("%w: edge_lookup entry (%s,%s) not reproducible from edges", ErrGraphCorrupt, r.NodeA, r.NodeB)
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

func coordFromLatLon(lat, lon float64) geomath.Coord {
	return geomath.NewCoord(lat, lon)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("routing: encoding %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("routing: writing %s: %w", path, err)
	}

	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrDataUnavailable, path)
		}

		return fmt.Errorf("routing: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s is not valid: %v", ErrGraphCorrupt, path, err)
	}

	return nil
}
