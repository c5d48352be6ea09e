// Package loops tallies read pairs bridging the two padded anchors of each
// loop. A pair supports a loop only when one mate falls in each anchor.
package loops

import (
	"fmt"

	"github.com/SFGLab/lophos/allele"
	"github.com/SFGLab/lophos/features"
	"github.com/vertgenlab/gonomics/numbers"
	"github.com/vertgenlab/gonomics/sam"
)

// Fetcher retrieves reads overlapping a zero-based half-open interval.
type Fetcher interface {
	Fetch(chrom string, start, end int) ([]sam.Sam, error)
}

const pairedFlag uint16 = 0x1

// Counts is the immutable per-loop result of one counting pass.
// MaternalPairs+PaternalPairs is the informative total used for testing;
// AmbiguousPairs feeds only the ambiguous-fraction gate. ExcludedReads holds
// pairs seen in an anchor but rejected by quality, duplicate, or geometry
// filters, so every pair observed in either anchor lands in exactly one
// bucket: maternal + paternal + ambiguous + excluded.
type Counts struct {
	features.Loop
	MaternalPairs  int
	PaternalPairs  int
	AmbiguousPairs int
	ExcludedReads  int
}

// TotalPairs returns the informative pair count.
func (c Counts) TotalPairs() int {
	return c.MaternalPairs + c.PaternalPairs
}

// AmbiguousFrac returns ambiguous/(informative+ambiguous), 0 when empty.
func (c Counts) AmbiguousFrac() float64 {
	denom := c.TotalPairs() + c.AmbiguousPairs
	if denom == 0 {
		return 0
	}
	return float64(c.AmbiguousPairs) / float64(denom)
}

type anchor struct {
	chrom string
	start int
	end   int
}

// contains tests a read start position against the padded interval.
func (a anchor) contains(chrom string, pos int) bool {
	return chrom == a.chrom && pos >= a.start && pos < a.end
}

// Count tallies bridging pairs for every loop. Loops are independent; a
// retrieval failure aborts the whole class.
func Count(f Fetcher, lps []features.Loop, pad int, pt allele.Patterns, filt allele.Filter) ([]Counts, error) {
	ans := make([]Counts, 0, len(lps))
	for i := range lps {
		c, err := countLoop(f, lps[i], pad, pt, filt)
		if err != nil {
			return nil, fmt.Errorf("counting loop %s: %w", lps[i].Name, err)
		}
		ans = append(ans, c)
	}
	return ans, nil
}

func countLoop(f Fetcher, l features.Loop, pad int, pt allele.Patterns, filt allele.Filter) (Counts, error) {
	a1 := anchor{chrom: l.Chrom1, start: numbers.Max(0, l.Start1-pad), end: l.End1 + pad}
	a2 := anchor{chrom: l.Chrom2, start: numbers.Max(0, l.Start2-pad), end: l.End2 + pad}

	reads1, err := f.Fetch(a1.chrom, a1.start, a1.end)
	if err != nil {
		return Counts{}, err
	}
	reads2, err := f.Fetch(a2.chrom, a2.start, a2.end)
	if err != nil {
		return Counts{}, err
	}

	c := Counts{Loop: l}
	// Each pair is keyed by read name in the seen set, so a pair retrievable
	// from both anchor sides is counted exactly once.
	seen := make(map[string]bool)
	tally(reads1, a2, indexByName(reads2), seen, &c, pt, filt)
	// Second side catches pairs whose first-anchor mate was not retrievable.
	tally(reads2, a1, indexByName(reads1), seen, &c, pt, filt)
	return c, nil
}

func indexByName(reads []sam.Sam) map[string]sam.Sam {
	m := make(map[string]sam.Sam, len(reads))
	for i := range reads {
		if _, ok := m[reads[i].QName]; !ok {
			m[reads[i].QName] = reads[i]
		}
	}
	return m
}

// tally processes reads retrieved from one anchor, testing each read's mate
// position against the far anchor. mates indexes the far anchor's reads by
// name for the agreement check. The first-scanned mate decides the pair's
// bucket: a pair whose anchor-1 mate fails the quality gate is Excluded even
// when the anchor-2 mate alone would have classified it.
func tally(reads []sam.Sam, far anchor, mates map[string]sam.Sam, seen map[string]bool, c *Counts, pt allele.Patterns, filt allele.Filter) {
	for i := range reads {
		if seen[reads[i].QName] {
			continue
		}
		seen[reads[i].QName] = true

		lbl := allele.Classify(reads[i], pt, filt)
		if lbl == allele.Excluded {
			c.ExcludedReads++
			continue
		}
		mateChrom, matePos, ok := mateLocus(reads[i])
		if !ok {
			// No usable mate information: keep as ambiguous evidence rather
			// than dropping the read silently.
			c.AmbiguousPairs++
			continue
		}
		if !far.contains(mateChrom, matePos) {
			c.ExcludedReads++
			continue
		}
		// Bridging pair. When the mate record was retrieved, both mates must
		// agree on a haplotype; disagreement demotes the pair to ambiguous.
		if mate, found := mates[reads[i].QName]; found {
			mateLbl := allele.Classify(mate, pt, filt)
			if mateLbl != allele.Excluded && mateLbl != lbl {
				lbl = allele.Ambiguous
			}
		}
		switch lbl {
		case allele.Maternal:
			c.MaternalPairs++
		case allele.Paternal:
			c.PaternalPairs++
		default:
			c.AmbiguousPairs++
		}
	}
}

// mateLocus returns the mate's chromosome and zero-based start position.
// ok is false for unpaired reads and reads with no recorded mate position.
func mateLocus(r sam.Sam) (chrom string, pos int, ok bool) {
	if r.Flag&pairedFlag == 0 || r.RNext == "" || r.RNext == "*" || r.PNext == 0 {
		return "", 0, false
	}
	chrom = r.RNext
	if chrom == "=" {
		chrom = r.RName
	}
	return chrom, int(r.PNext) - 1, true
}
