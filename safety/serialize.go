// This file implements the "scored-segments" artifact: the hand-off point
// between SafetyScorer and GraphBuilder in the offline pipeline, following
// the same deterministic JSON layout as routing.Graph's artifacts.
package safety

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dcsaferoutes/saferoute/geomath"
)

const scoredSegmentsFilename = "scored-segments"

// ErrDataUnavailable is returned by Load when the artifact file is
// missing.
var ErrDataUnavailable = errors.New("safety: artifact data unavailable")

type scoredSegmentRecord struct {
	ID           string       `json:"id"`
	Polyline     [][2]float64 `json:"polyline"`
	StreetName   string       `json:"street_name"`
	RoadType     string       `json:"road_type"`
	Quadrant     string       `json:"quadrant"`
	ScoreOverall int          `json:"score_overall"`
	ScoreDay     int          `json:"score_day"`
	ScoreNight   int          `json:"score_night"`
}

// Save writes segments to dir/scored-segments as a JSON array, in the
// order given; callers that need determinism should sort by segment ID
// before calling Save (Score itself preserves input order).
func Save(dir string, segments []ScoredSegment) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("safety: creating artifact dir %s: %w", dir, err)
	}

	records := make([]scoredSegmentRecord, len(segments))
	for i, s := range segments {
		pl := make([][2]float64, len(s.Segment.Polyline))
		for j, c := range s.Segment.Polyline {
			pl[j] = [2]float64{c.Lat(), c.Lon()}
		}
		records[i] = scoredSegmentRecord{
			ID:           s.Segment.ID,
			Polyline:     pl,
			StreetName:   s.Segment.StreetName,
			Quadrant:     s.Segment.Quadrant,
			RoadType:     string(s.Segment.RoadType),
			ScoreOverall: s.ScoreOverall,
			ScoreDay:     s.ScoreDay,
			ScoreNight:   s.ScoreNight,
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("safety: encoding scored segments: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, scoredSegmentsFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("safety: writing %s: %w", path, err)
	}

	return nil
}

// Load reads the scored-segments artifact from dir. Returns
// ErrDataUnavailable if the file does not exist.
func Load(dir string) ([]ScoredSegment, error) {
	path := filepath.Join(dir, scoredSegmentsFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, path)
		}

		return nil, fmt.Errorf("safety: reading %s: %w", path, err)
	}

	var records []scoredSegmentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("safety: %s is not valid: %w", path, err)
	}

	segments := make([]ScoredSegment, len(records))
	for i, r := range records {
		pl := make([]geomath.Coord, len(r.Polyline))
		for j, pt := range r.Polyline {
			pl[j] = geomath.NewCoord(pt[0], pt[1])
		}
		segments[i] = ScoredSegment{
			Segment: StreetSegment{
				ID:         r.ID,
				Polyline:   pl,
				StreetName: r.StreetName,
				RoadType:   RoadType(r.RoadType),
				Quadrant:   r.Quadrant,
			},
			ScoreOverall: r.ScoreOverall,
			ScoreDay:     r.ScoreDay,
			ScoreNight:   r.ScoreNight,
		}
	}

	return segments, nil
}
