package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestBinomialTwoSided(t *testing.T) {
	tests := []struct {
		m, p     int
		expected float64
	}{
		{0, 0, 1.0},
		{5, 5, 1.0},
		{1, 0, 1.0},         // 2 * 0.5 capped
		{10, 0, 0.001953125}, // 2 * 0.5^10
		{0, 10, 0.001953125},
		{8, 2, 0.109375}, // standard two-sided binomial at n=10
		{2, 8, 0.109375},
	}
	for _, test := range tests {
		got := BinomialTwoSided(test.m, test.p)
		if !almostEqual(got, test.expected, 1e-12) {
			t.Error("p-value for", test.m, test.p, "was", got, "expected", test.expected)
		}
	}
}

func TestBinomialSymmetry(t *testing.T) {
	for m := 0; m <= 20; m++ {
		for p := 0; p <= 20; p++ {
			if !almostEqual(BinomialTwoSided(m, p), BinomialTwoSided(p, m), 1e-12) {
				t.Error("p-value not symmetric for", m, p)
			}
		}
	}
}

func TestLog2Ratio(t *testing.T) {
	if Log2Ratio(0, 0, 1) != 0 {
		t.Error("expected zero ratio for zero counts, got", Log2Ratio(0, 0, 1))
	}
	if !almostEqual(Log2Ratio(3, 1, 1), 1.0, 1e-12) {
		t.Error("expected log2((3+1)/(1+1)) = 1, got", Log2Ratio(3, 1, 1))
	}
	if !almostEqual(Log2Ratio(1, 3, 1), -1.0, 1e-12) {
		t.Error("expected log2((1+1)/(3+1)) = -1, got", Log2Ratio(1, 3, 1))
	}
}

func TestAdjustBH(t *testing.T) {
	pvals := []float64{0.01, 0.02, 0.03, 0.50}
	qvals := AdjustBH(pvals)
	expected := []float64{0.04, 0.04, 0.04, 0.50}
	for i := range qvals {
		if !almostEqual(qvals[i], expected[i], 1e-12) {
			t.Error("q-value", i, "was", qvals[i], "expected", expected[i])
		}
		if qvals[i] < pvals[i] {
			t.Error("q-value", qvals[i], "smaller than p-value", pvals[i])
		}
	}
	// non-decreasing in ascending p-value order
	for i := 1; i < len(qvals); i++ {
		if qvals[i] < qvals[i-1] {
			t.Error("q-values not monotone:", qvals)
		}
	}
}

func TestAdjustBHUnsortedInput(t *testing.T) {
	pvals := []float64{0.50, 0.01, 0.03, 0.02}
	qvals := AdjustBH(pvals)
	expected := []float64{0.50, 0.04, 0.04, 0.04}
	for i := range qvals {
		if !almostEqual(qvals[i], expected[i], 1e-12) {
			t.Error("q-value", i, "was", qvals[i], "expected", expected[i])
		}
	}
}

func TestAdjustBHClipsToOne(t *testing.T) {
	qvals := AdjustBH([]float64{0.9, 0.95, 1.0})
	for i := range qvals {
		if qvals[i] > 1 {
			t.Error("q-value above 1:", qvals[i])
		}
	}
}

func TestAdjustBHEmpty(t *testing.T) {
	if AdjustBH(nil) != nil {
		t.Error("expected nil q-values for empty input")
	}
}
