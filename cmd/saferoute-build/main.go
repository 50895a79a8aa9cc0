// Command saferoute-build runs the offline pipeline: it scores street
// segments against crime incidents, builds the routing graph, and writes
// every on-disk artifact (graph.*, walkable-mask, scored-segments) to a
// target directory.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/graphbuild"
	"github.com/dcsaferoutes/saferoute/internal/obslog"
	"github.com/dcsaferoutes/saferoute/safety"
	"github.com/dcsaferoutes/saferoute/walkmask"
)

// segmentRecord and incidentRecord are the wire shapes of the two input
// files; they decouple the CLI's JSON contract from safety's internal
// geomath.Coord representation.
type segmentRecord struct {
	ID         string       `json:"id"`
	Polyline   [][2]float64 `json:"polyline"`
	StreetName string       `json:"street_name"`
	RoadType   string       `json:"road_type"`
	Quadrant   string       `json:"quadrant"`
}

type incidentRecord struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	OffenseKind string  `json:"offense_kind"`
	Year        int     `json:"year"`
	TimeOfDay   string  `json:"time_of_day"`
}

func main() {
	segmentsPath := flag.String("segments", "", "path to street segments JSON file (required)")
	incidentsPath := flag.String("incidents", "", "path to crime incidents JSON file (required)")
	walkablePath := flag.String("walkable", "", "path to walkable-points JSON file ([][lat,lon]) (required)")
	outDir := flag.String("out", "./data", "directory to write graph/mask/scored-segments artifacts to")
	debug := flag.Bool("debug", false, "enable debug-level structured logging")
	flag.Parse()

	if *segmentsPath == "" || *incidentsPath == "" || *walkablePath == "" {
		flag.Usage()
		log.Fatal("saferoute-build: -segments, -incidents, and -walkable are all required")
	}

	level := obslog.InfoLevel()
	if *debug {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger := obslog.New("saferoute-build", level)
	defer logger.Sync()

	segments, err := loadSegments(*segmentsPath)
	if err != nil {
		logger.Fatal("loading segments", zap.Error(err))
	}
	incidents, err := loadIncidents(*incidentsPath)
	if err != nil {
		logger.Fatal("loading incidents", zap.Error(err))
	}
	walkablePoints, err := loadWalkablePoints(*walkablePath)
	if err != nil {
		logger.Fatal("loading walkable points", zap.Error(err))
	}

	mask := walkmask.New(walkablePoints)

	scorer := safety.NewScorer(safety.WithLogger(logger))
	scored := scorer.Score(segments, incidents)

	inputs := make([]graphbuild.InputSegment, len(scored))
	for i, s := range scored {
		inputs[i] = graphbuild.FromScoredSegment(s)
	}

	builder := graphbuild.NewBuilder(graphbuild.WithLogger(logger))
	graph, err := builder.Build(inputs, mask)
	if err != nil {
		logger.Fatal("building graph", zap.Error(err))
	}

	if err := graph.Save(*outDir); err != nil {
		logger.Fatal("saving graph artifacts", zap.Error(err))
	}
	if err := mask.Save(*outDir); err != nil {
		logger.Fatal("saving walkable mask", zap.Error(err))
	}
	if err := safety.Save(*outDir, scored); err != nil {
		logger.Fatal("saving scored segments", zap.Error(err))
	}

	logger.Info("build complete",
		zap.String("out_dir", *outDir),
		zap.Int("segments_in", len(segments)),
		zap.Int("segments_scored", len(scored)),
		zap.Int("nodes", graph.NodeCount()),
		zap.Int("edges", graph.EdgeCount()),
		zap.Int("largest_component", graph.LargestComponentSize()))
}

func loadSegments(path string) ([]safety.StreetSegment, error) {
	var records []segmentRecord
	if err := readJSONFile(path, &records); err != nil {
		return nil, err
	}

	segments := make([]safety.StreetSegment, len(records))
	for i, r := range records {
		polyline := make([]geomath.Coord, len(r.Polyline))
		for j, p := range r.Polyline {
			polyline[j] = geomath.NewCoord(p[0], p[1])
		}
		segments[i] = safety.StreetSegment{
			ID:         r.ID,
			Polyline:   polyline,
			StreetName: r.StreetName,
			RoadType:   safety.RoadType(r.RoadType),
			Quadrant:   r.Quadrant,
		}
	}

	return segments, nil
}

func loadIncidents(path string) ([]safety.CrimeIncident, error) {
	var records []incidentRecord
	if err := readJSONFile(path, &records); err != nil {
		return nil, err
	}

	incidents := make([]safety.CrimeIncident, len(records))
	for i, r := range records {
		incidents[i] = safety.CrimeIncident{
			Location:    geomath.NewCoord(r.Lat, r.Lon),
			OffenseKind: safety.OffenseKind(r.OffenseKind),
			Year:        r.Year,
			TimeOfDay:   safety.TimeOfDay(r.TimeOfDay),
		}
	}

	return incidents, nil
}

func loadWalkablePoints(path string) ([][2]float64, error) {
	var points [][2]float64
	if err := readJSONFile(path, &points); err != nil {
		return nil, err
	}

	return points, nil
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("saferoute-build: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("saferoute-build: parsing %s: %w", path, err)
	}

	return nil
}
