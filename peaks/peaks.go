// Package peaks tallies allele-specific read support in a symmetric window
// around each peak's reference point.
package peaks

import (
	"fmt"

	"github.com/SFGLab/lophos/allele"
	"github.com/SFGLab/lophos/features"
	"github.com/vertgenlab/gonomics/sam"
)

// Fetcher retrieves reads overlapping a zero-based half-open interval.
type Fetcher interface {
	Fetch(chrom string, start, end int) ([]sam.Sam, error)
}

// Counts is the immutable per-peak result of one counting pass. Ambiguous
// and excluded reads never contribute to a peak's total.
type Counts struct {
	features.Peak
	Maternal int
	Paternal int
}

// Total returns the informative read count.
func (c Counts) Total() int {
	return c.Maternal + c.Paternal
}

// Count scans [midpoint-window, midpoint+window) for every peak and tallies
// classified reads. Peaks are independent: each gets its own result record
// and no state is shared between them. A retrieval failure aborts the whole
// class, since a partially counted class would corrupt the FDR correction.
func Count(f Fetcher, pks []features.Peak, window int, pt allele.Patterns, filt allele.Filter) ([]Counts, error) {
	ans := make([]Counts, 0, len(pks))
	for i := range pks {
		mid := pks[i].Midpoint()
		reads, err := f.Fetch(pks[i].Chrom, mid-window, mid+window)
		if err != nil {
			return nil, fmt.Errorf("counting peak %s: %w", pks[i].Name, err)
		}
		c := Counts{Peak: pks[i]}
		for j := range reads {
			switch allele.Classify(reads[j], pt, filt) {
			case allele.Maternal:
				c.Maternal++
			case allele.Paternal:
				c.Paternal++
			}
		}
		ans = append(ans, c)
	}
	return ans, nil
}
