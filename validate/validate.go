// Package validate computes the approximate local-validation statistic for
// loops: each loop's maternal-paternal difference standardized against the
// run-wide empirical distribution of that difference.
//
// This substitutes a global population for a true distance-matched local
// background and is a documented approximation pending a better model.
package validate

import (
	"math"

	"github.com/montanaflynn/stats"
)

// ZScores standardizes each diff against the mean and population standard
// deviation of the whole slice. Degenerate inputs (fewer than two loops, or
// zero variance) yield NaN for every entry rather than dividing by zero;
// writers render NaN as NA.
func ZScores(diffs []float64) []float64 {
	ans := make([]float64, len(diffs))
	if len(diffs) < 2 {
		return fillNaN(ans)
	}
	mean, err := stats.Mean(diffs)
	if err != nil {
		return fillNaN(ans)
	}
	sd, err := stats.StandardDeviationPopulation(diffs)
	if err != nil || sd == 0 {
		return fillNaN(ans)
	}
	for i := range diffs {
		ans[i] = (diffs[i] - mean) / sd
	}
	return ans
}

func fillNaN(s []float64) []float64 {
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
