// Package calls turns corrected statistics into a categorical bias call.
package calls

import "math"

// Call is the terminal bias annotation for one feature. A call is a
// deterministic function of counts and thresholds and is never recomputed.
type Call string

const (
	Maternal     Call = "Maternal"
	Paternal     Call = "Paternal"
	Balanced     Call = "Balanced"
	Undetermined Call = "Undetermined"
)

// Thresholds control bias calling. MinTotal is the minimum informative count
// (reads for peaks, pairs for loops) required to attempt a call.
type Thresholds struct {
	MinTotal         int
	MaxAmbiguousFrac float64
	FDR              float64
	MinAbsLog2       float64
	MinFold          float64
}

// ForPeak assigns a call from peak evidence. Peaks are exempt from the
// ambiguous-fraction gate.
func ForPeak(m, p int, fdr, log2Ratio float64, t Thresholds) Call {
	return decide(m, p, -1, fdr, log2Ratio, t)
}

// ForLoop additionally applies the ambiguous-fraction gate, with ambiguous
// pairs entering the denominator but never the informative total.
func ForLoop(m, p, ambiguous int, fdr, log2Ratio float64, t Thresholds) Call {
	frac := 0.0
	if m+p+ambiguous > 0 {
		frac = float64(ambiguous) / float64(m+p+ambiguous)
	}
	return decide(m, p, frac, fdr, log2Ratio, t)
}

// decide applies the rules in fixed precedence; the first matching rule wins.
// Coverage and ambiguity run before significance, and significance before
// effect size, so a highly significant but small-effect feature is Balanced.
// This ordering is a compatibility contract with downstream consumers.
func decide(m, p int, ambiguousFrac, fdr, log2Ratio float64, t Thresholds) Call {
	if m+p < t.MinTotal {
		return Undetermined
	}
	if ambiguousFrac >= 0 && ambiguousFrac > t.MaxAmbiguousFrac {
		return Undetermined
	}
	if fdr > t.FDR {
		return Balanced
	}
	if math.Abs(log2Ratio) < t.MinAbsLog2 {
		return Balanced
	}
	if float64(m) >= float64(p)*t.MinFold {
		return Maternal
	}
	if float64(p) >= float64(m)*t.MinFold {
		return Paternal
	}
	return Balanced
}
