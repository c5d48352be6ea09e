package validate

import (
	"math"
	"testing"
)

func TestZScores(t *testing.T) {
	z := ZScores([]float64{-2, 0, 2})
	// mean 0, population stdev sqrt(8/3)
	sd := math.Sqrt(8.0 / 3.0)
	expected := []float64{-2 / sd, 0, 2 / sd}
	for i := range z {
		if math.Abs(z[i]-expected[i]) > 1e-12 {
			t.Error("z-score", i, "was", z[i], "expected", expected[i])
		}
	}
}

func TestZScoresSingleLoop(t *testing.T) {
	z := ZScores([]float64{5})
	if len(z) != 1 || !math.IsNaN(z[0]) {
		t.Error("expected NaN sentinel for a single loop, got", z)
	}
}

func TestZScoresZeroVariance(t *testing.T) {
	z := ZScores([]float64{3, 3, 3, 3})
	for i := range z {
		if !math.IsNaN(z[i]) {
			t.Error("expected NaN sentinel for zero-variance diffs, got", z[i])
		}
	}
}

func TestZScoresEmpty(t *testing.T) {
	if len(ZScores(nil)) != 0 {
		t.Error("expected empty result for empty input")
	}
}
