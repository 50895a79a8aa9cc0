// Package graphbuild implements the offline construction of a
// routing.Graph from scored street segments: filtering ineligible road
// types and unwalkable segments, dense-vertex construction, implicit
// intersection splitting, and edge-weight precomputation.
package graphbuild

import "github.com/dcsaferoutes/saferoute/safety"

// FallbackSafetyScore is assigned to an edge whose parent segment carries
// no safety score at all (as opposed to a segment that was scored and
// came out at the bottom of the scale). It is deliberately the midpoint
// of the [1,100] scale: an unscored segment is neither assumed safe nor
// assumed dangerous.
const FallbackSafetyScore = 50

// InputSegment pairs a street segment with an optional safety score. A
// nil Score models a segment that never went through SafetyScorer (e.g.
// it was added to the street corpus after the last scoring run); Build
// assigns FallbackSafetyScore to every edge derived from it and logs the
// assignment.
type InputSegment struct {
	Segment safety.StreetSegment
	Score   *int
}

// FromScoredSegment converts a safety.ScoredSegment (always carrying a
// score) into an InputSegment using its overall score.
func FromScoredSegment(s safety.ScoredSegment) InputSegment {
	score := s.ScoreOverall

	return InputSegment{Segment: s.Segment, Score: &score}
}
