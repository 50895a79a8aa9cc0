package safety

import (
	"math"

	"go.uber.org/zap"

	"github.com/dcsaferoutes/saferoute/geomath"
	"github.com/dcsaferoutes/saferoute/spatialgrid"
)

// offenseWeights is the fixed base-weight table keyed by offense kind;
// homicide is weighted highest, a minor offense lowest. Values are
// arbitrary units that only matter relative to one another, since the
// final score is IQR-normalized against the whole corpus regardless of
// scale.
var offenseWeights = map[OffenseKind]float64{
	OffenseHomicide:  100,
	OffenseRobbery:   40,
	OffenseAssault:   35,
	OffenseBurglary:  20,
	OffenseTheft:     10,
	OffenseVandalism: 5,
	OffenseOther:     1,
}

// defaultOffenseWeight is used for any OffenseKind absent from
// offenseWeights, logged once per occurrence at Warn so an unrecognized
// category in upstream data is visible without failing the whole run.
const defaultOffenseWeight = 1

// BaseRadiusM is the search radius, in meters, within which an incident
// contributes to a segment's score.
const BaseRadiusM = 200.0

// decayDivisor controls the exponential falloff of an incident's
// contribution with distance: decay = exp(-d / (BaseRadiusM/decayDivisor)).
const decayDivisor = 5.0

// Scorer computes normalized safety scores for a set of street segments
// given a set of crime incidents. The zero value is not usable; construct
// with NewScorer.
type Scorer struct {
	logger      *zap.Logger
	baseRadiusM float64
	yearMin     int
	yearCurrent int
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithLogger overrides the Scorer's logger; defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scorer) { s.logger = logger }
}

// WithBaseRadiusM overrides BaseRadiusM for experimentation; must be
// positive.
func WithBaseRadiusM(radiusM float64) Option {
	return func(s *Scorer) {
		if radiusM > 0 {
			s.baseRadiusM = radiusM
		}
	}
}

// WithYearRange sets the [yearMin, yearCurrent] window used by the
// temporal weight; yearCurrent must be >= yearMin or the default (computed
// from the incident set at Score time) is kept.
func WithYearRange(yearMin, yearCurrent int) Option {
	return func(s *Scorer) {
		if yearCurrent >= yearMin {
			s.yearMin = yearMin
			s.yearCurrent = yearCurrent
		}
	}
}

// NewScorer returns a Scorer configured by opts.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		logger:      zap.NewNop(),
		baseRadiusM: BaseRadiusM,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// accumulator tracks a single segment's raw weighted score across the
// three buckets scoring maintains in parallel.
type accumulator struct {
	overall, day, night float64
}

// Score applies every incident to every nearby segment, then normalizes
// the resulting raw accumulators into [1,100] scores per segment,
// independently for the overall, day, and night buckets. The returned
// slice preserves the input segment order.
func (s *Scorer) Score(segments []StreetSegment, incidents []CrimeIncident) []ScoredSegment {
	yearMin, yearCurrent := s.yearMin, s.yearCurrent
	if yearCurrent <= yearMin {
		yearMin, yearCurrent = inferYearRange(incidents)
	}

	grid := spatialgrid.New(spatialgrid.DefaultSegmentCellSizeDeg)
	for _, seg := range segments {
		minLat, minLon, maxLat, maxLon := seg.Bounds()
		grid.Insert(spatialgrid.Entity{
			ID:     seg.ID,
			Center: seg.Center(),
			MinLat: minLat,
			MinLon: minLon,
			MaxLat: maxLat,
			MaxLon: maxLon,
		})
	}

	acc := make(map[string]*accumulator, len(segments))
	for _, seg := range segments {
		acc[seg.ID] = &accumulator{}
	}

	radiusM := s.baseRadiusM
	if radiusM <= 0 {
		radiusM = BaseRadiusM
	}
	decayScale := radiusM / decayDivisor

	for _, inc := range incidents {
		baseWeight, ok := offenseWeights[inc.OffenseKind]
		if !ok {
			baseWeight = defaultOffenseWeight
			s.logger.Warn("unrecognized offense kind, using default weight",
				zap.String("offense_kind", string(inc.OffenseKind)),
				zap.Float64("default_weight", defaultOffenseWeight))
		}

		// A single-year incident set has no temporal spread to weight
		// against; treat every incident as maximally recent rather than
		// dividing by zero.
		span := float64(yearCurrent - yearMin)
		temporalWeight := 1.0
		if span > 0 {
			temporalWeight = float64(inc.Year-yearMin) / span
		}
		if temporalWeight < 0.5 {
			temporalWeight = 0.5
		}

		w := baseWeight * temporalWeight

		for _, cand := range grid.QueryRadius(inc.Location, radiusM) {
			d := geomath.DistanceM(inc.Location, cand.Center)
			decay := math.Exp(-d / decayScale)
			contribution := w * decay

			a := acc[cand.ID]
			a.overall += contribution
			switch inc.TimeOfDay {
			case Day:
				a.day += contribution
			case Night:
				a.night += contribution
			}
		}
	}

	rawOverall := make([]float64, len(segments))
	rawDay := make([]float64, len(segments))
	rawNight := make([]float64, len(segments))
	for i, seg := range segments {
		a := acc[seg.ID]
		rawOverall[i] = a.overall
		rawDay[i] = a.day
		rawNight[i] = a.night
	}

	distOverall := fitDistribution(rawOverall)
	distDay := fitDistribution(rawDay)
	distNight := fitDistribution(rawNight)

	scored := make([]ScoredSegment, len(segments))
	for i, seg := range segments {
		scored[i] = ScoredSegment{
			Segment:      seg,
			ScoreOverall: distOverall.normalize(rawOverall[i]),
			ScoreDay:     distDay.normalize(rawDay[i]),
			ScoreNight:   distNight.normalize(rawNight[i]),
		}
	}

	s.logger.Info("safety scoring complete",
		zap.Int("segments", len(segments)),
		zap.Int("incidents", len(incidents)),
		zap.Int("year_min", yearMin),
		zap.Int("year_current", yearCurrent))

	return scored
}

// inferYearRange derives [yearMin, yearCurrent] from the incident set when
// the caller did not supply one explicitly via WithYearRange.
func inferYearRange(incidents []CrimeIncident) (yearMin, yearCurrent int) {
	if len(incidents) == 0 {
		return 0, 0
	}

	yearMin, yearCurrent = incidents[0].Year, incidents[0].Year
	for _, inc := range incidents[1:] {
		if inc.Year < yearMin {
			yearMin = inc.Year
		}
		if inc.Year > yearCurrent {
			yearCurrent = inc.Year
		}
	}

	return yearMin, yearCurrent
}
