// Package safety implements the offline safety scorer: it consumes street
// segments and multi-year crime incidents and produces a normalized
// per-segment safety score in [1, 100], higher meaning safer.
//
// Scoring proceeds in two phases. First every incident contributes a
// spatially- and temporally-decayed weight to every nearby segment's raw
// accumulator (see Score). Second, once every incident has been applied,
// the raw accumulators are log-transformed and IQR-normalized into the
// final [1,100] scale (see Distribution and Distribution.normalize). Both phases
// are pure functions of their inputs — running the incidents in a
// different order changes nothing.
package safety

import "github.com/dcsaferoutes/saferoute/geomath"

// RoadType classifies a StreetSegment for the purposes of GraphBuilder's
// filtering step; SafetyScorer itself is agnostic to RoadType and scores
// whatever segments it is given.
type RoadType string

// Recognized road types. Alleys, driveways, and private ways are never
// walkable per policy and are dropped before graph construction.
const (
	RoadTypeStreet    RoadType = "street"
	RoadTypeAvenue    RoadType = "avenue"
	RoadTypePath      RoadType = "path"
	RoadTypeAlley     RoadType = "alley"
	RoadTypeDriveway  RoadType = "driveway"
	RoadTypePrivate   RoadType = "private"
	RoadTypeFootway   RoadType = "footway"
	RoadTypeCrosswalk RoadType = "crosswalk"
)

// StreetSegment is an immutable input record: a named stretch of street
// described by an ordered polyline of at least two points.
type StreetSegment struct {
	ID         string
	Polyline   []geomath.Coord
	StreetName string
	RoadType   RoadType
	Quadrant   string
}

// Center approximates the segment's representative point as the midpoint
// between its first and last vertex; used only for the coarse
// incident-to-segment proximity query, not for any length computation.
func (s StreetSegment) Center() geomath.Coord {
	first := s.Polyline[0]
	last := s.Polyline[len(s.Polyline)-1]

	return geomath.NewCoord((first.Lat()+last.Lat())/2, (first.Lon()+last.Lon())/2)
}

// Bounds returns the segment polyline's bounding box.
func (s StreetSegment) Bounds() (minLat, minLon, maxLat, maxLon float64) {
	minLat, minLon = s.Polyline[0].Lat(), s.Polyline[0].Lon()
	maxLat, maxLon = minLat, minLon
	for _, p := range s.Polyline[1:] {
		if p.Lat() < minLat {
			minLat = p.Lat()
		}
		if p.Lat() > maxLat {
			maxLat = p.Lat()
		}
		if p.Lon() < minLon {
			minLon = p.Lon()
		}
		if p.Lon() > maxLon {
			maxLon = p.Lon()
		}
	}

	return minLat, minLon, maxLat, maxLon
}

// OffenseKind is a fixed category of crime incident, each carrying a
// distinct contribution weight in the scorer (see offenseWeights).
type OffenseKind string

// Recognized offense kinds, ordered here from most to least severe; the
// ordering has no runtime meaning beyond documentation, offenseWeights is
// the source of truth.
const (
	OffenseHomicide  OffenseKind = "homicide"
	OffenseRobbery   OffenseKind = "robbery"
	OffenseAssault   OffenseKind = "assault"
	OffenseBurglary  OffenseKind = "burglary"
	OffenseTheft     OffenseKind = "theft"
	OffenseVandalism OffenseKind = "vandalism"
	OffenseOther     OffenseKind = "other"
)

// TimeOfDay buckets an incident for the day/night score variants.
type TimeOfDay string

const (
	Day   TimeOfDay = "day"
	Night TimeOfDay = "night"
)

// CrimeIncident is an immutable input record: a single reported offense
// at a point location.
type CrimeIncident struct {
	Location    geomath.Coord
	OffenseKind OffenseKind
	Year        int
	TimeOfDay   TimeOfDay
}

// ScoredSegment pairs an input segment with its three normalized safety
// scores. ScoreOverall blends all incidents regardless of time of day;
// ScoreDay and ScoreNight isolate each bucket.
type ScoredSegment struct {
	Segment      StreetSegment
	ScoreOverall int
	ScoreDay     int
	ScoreNight   int
}
