// Command saferoute-serve loads a built graph/mask data directory and
// answers a single route request from the command line, printing the
// Request API's JSON response to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/internal/obslog"
	"github.com/dcsaferoutes/saferoute/request"
)

// responseRecord is the JSON wire shape printed to stdout; it flattens
// request.RouteResponse's geomath.Coord slices into plain [lat,lon] pairs.
type responseRecord struct {
	Waypoints []pointRecord `json:"waypoints"`
	Polyline  []pointRecord `json:"polyline"`
	Metrics   metricsRecord `json:"metrics"`
	Debug     *debugRecord  `json:"debug,omitempty"`
}

type pointRecord [2]float64

type metricsRecord struct {
	DistanceM           float64 `json:"distance_m"`
	DurationS           float64 `json:"duration_s"`
	SafetyScore         float64 `json:"safety_score"`
	DistanceIncreasePct float64 `json:"distance_increase_pct"`
}

type debugRecord struct {
	CorridorWidthM float64 `json:"corridor_width_m"`
	NodesExplored  int     `json:"nodes_explored"`
	StartNodeID    string  `json:"start_node_id"`
	EndNodeID      string  `json:"end_node_id"`
	SnappedOffsetM float64 `json:"snapped_offset_m"`
	TileX          uint32  `json:"tile_x"`
	TileY          uint32  `json:"tile_y"`
	TileZ          int     `json:"tile_z"`
}

func main() {
	dataDir := flag.String("data", "./data", "directory containing built graph/mask artifacts")
	startLat := flag.Float64("start-lat", 0, "start latitude (required)")
	startLon := flag.Float64("start-lon", 0, "start longitude (required)")
	endLat := flag.Float64("end-lat", 0, "end latitude (required)")
	endLon := flag.Float64("end-lon", 0, "end longitude (required)")
	routeKind := flag.String("route-kind", "balanced", `one of "quickest", "balanced", "safest", or "detour{5,10,...,30}"`)
	includeDebug := flag.Bool("debug-info", false, "include DebugInfo in the response")
	timeout := flag.Duration("timeout", 25*time.Second, "per-search wall-clock budget")
	flag.Parse()

	if *startLat == 0 && *startLon == 0 && *endLat == 0 && *endLon == 0 {
		flag.Usage()
		log.Fatal("saferoute-serve: -start-lat/-start-lon/-end-lat/-end-lon are all required")
	}

	logger := obslog.New("saferoute-serve", obslog.InfoLevel())
	defer logger.Sync()

	engine, err := request.NewEngine(request.DefaultConfig(
		request.WithDataDir(*dataDir),
		request.WithLogger(logger),
	))
	if err != nil {
		logger.Fatal("loading engine", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+time.Second)
	defer cancel()

	resp, err := engine.Route(ctx,
		geomath.NewCoord(*startLat, *startLon),
		geomath.NewCoord(*endLat, *endLon),
		request.RouteRequest{
			RouteKind:       *routeKind,
			IncludeDebug:    *includeDebug,
			TimeoutOverride: *timeout,
		})
	if err != nil {
		logger.Fatal("resolving route", zap.Error(err))
	}

	printResponse(resp)
}

func printResponse(resp request.RouteResponse) {
	out := responseRecord{
		Waypoints: toPoints(resp.Waypoints),
		Polyline:  toPoints(resp.Polyline),
		Metrics: metricsRecord{
			DistanceM:           resp.Metrics.DistanceM,
			DurationS:           resp.Metrics.DurationS,
			SafetyScore:         resp.Metrics.SafetyScore,
			DistanceIncreasePct: resp.Metrics.DistanceIncreasePct,
		},
	}
	if resp.Debug != nil {
		out.Debug = &debugRecord{
			CorridorWidthM: resp.Debug.CorridorWidthM,
			NodesExplored:  resp.Debug.NodesExplored,
			StartNodeID:    resp.Debug.StartNodeID,
			EndNodeID:      resp.Debug.EndNodeID,
			SnappedOffsetM: resp.Debug.SnappedOffsetM,
			TileX:          resp.Debug.TileX,
			TileY:          resp.Debug.TileY,
			TileZ:          resp.Debug.TileZ,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "saferoute-serve: encoding response: %v\n", err)
		os.Exit(1)
	}
}

func toPoints(coords []geomath.Coord) []pointRecord {
	points := make([]pointRecord, len(coords))
	for i, c := range coords {
		points[i] = pointRecord{c.Lat(), c.Lon()}
	}

	return points
}
