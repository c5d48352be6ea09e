// Package stats implements the exact binomial test, effect-size ratio, and
// Benjamini-Hochberg correction used to score allele-specific counts.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultPseudocount is added to both counts before ratio computation.
const DefaultPseudocount float64 = 1.0

// BinomialTwoSided returns the exact two-sided p-value for observing counts
// (m, p) under Binomial(m+p, 0.5). The null is symmetric, so doubling the
// smaller tail is exact rather than an approximation. Zero total evidence
// yields 1: no evidence, no significance.
func BinomialTwoSided(m, p int) float64 {
	n := m + p
	if n == 0 {
		return 1
	}
	k := m
	if p < m {
		k = p
	}
	b := distuv.Binomial{N: float64(n), P: 0.5}
	pv := 2 * b.CDF(float64(k))
	if pv > 1 {
		pv = 1
	}
	return pv
}

// Log2Ratio returns log2((m+pseudocount)/(p+pseudocount)). The pseudocount
// keeps the ratio finite when either side is zero.
func Log2Ratio(m, p int, pseudocount float64) float64 {
	return math.Log2((float64(m) + pseudocount) / (float64(p) + pseudocount))
}

// AdjustBH applies the Benjamini-Hochberg step-up correction to one feature
// class's p-values, returning q-values in input order. Monotonicity is
// enforced by a running minimum from the largest rank downward; tied p-values
// keep their input order. Each q-value satisfies q >= p and q <= 1. Callers
// must never mix feature classes in one call.
func AdjustBH(pvals []float64) []float64 {
	n := len(pvals)
	if n == 0 {
		return nil
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return pvals[order[i]] < pvals[order[j]]
	})
	ans := make([]float64, n)
	minQ := 1.0
	for rank := n; rank >= 1; rank-- {
		idx := order[rank-1]
		q := pvals[idx] * float64(n) / float64(rank)
		if q < minQ {
			minQ = q
		}
		ans[idx] = minQ
	}
	return ans
}
