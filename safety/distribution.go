package safety

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Distribution is the IQR-based normalization fitted over one bucket's
// (overall, day, or night) non-zero raw weighted scores, log-transformed.
// It is computed once per bucket after every incident has been applied,
// then used to map each segment's raw score into [1,99]; segments with a
// raw score of exactly zero always map to 100 regardless of Distribution.
type Distribution struct {
	SortedLogScores []float64
	Q1, Q3, IQR     float64
	Lower, Upper    float64
}

// fitDistribution computes a Distribution over the non-zero entries of
// raw. An empty or all-zero raw slice yields the zero Distribution, which
// Distribution.normalize treats as "every non-zero raw score maps to the
// midpoint" since there is no spread to normalize against.
func fitDistribution(raw []float64) Distribution {
	logScores := make([]float64, 0, len(raw))
	for _, r := range raw {
		if r > 0 {
			logScores = append(logScores, math.Log(r+1))
		}
	}
	sort.Float64s(logScores)

	if len(logScores) == 0 {
		return Distribution{}
	}

	q1 := stat.Quantile(0.25, stat.Empirical, logScores, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, logScores, nil)
	iqr := q3 - q1

	return Distribution{
		SortedLogScores: logScores,
		Q1:              q1,
		Q3:              q3,
		IQR:             iqr,
		Lower:           q1 - 1.5*iqr,
		Upper:           q3 + 1.5*iqr,
	}
}

// normalizedMidpoint is returned for a non-zero raw score when a
// Distribution has no usable spread (a single distinct log value, so
// Lower == Upper) — there is nothing to normalize against, so the segment
// is treated as neither particularly safe nor dangerous relative to its
// peers.
const normalizedMidpoint = 50

// normalize maps a raw accumulated score into [1,100]: exactly 0 maps to
// 100 (safest); otherwise the log-transformed score is clamped to
// [d.Lower, d.Upper] and linearly mapped onto 99 (at Lower) down to 1 (at
// Upper), then rounded.
func (d Distribution) normalize(raw float64) int {
	if raw == 0 {
		return 100
	}
	if d.Upper == d.Lower {
		return normalizedMidpoint
	}

	l := math.Log(raw + 1)
	if l < d.Lower {
		l = d.Lower
	}
	if l > d.Upper {
		l = d.Upper
	}

	// l == Lower -> 99, l == Upper -> 1.
	frac := (l - d.Lower) / (d.Upper - d.Lower)
	score := 99 - frac*98

	rounded := int(math.Round(score))
	if rounded < 1 {
		rounded = 1
	}
	if rounded > 99 {
		rounded = 99
	}

	return rounded
}
