package loops

import (
	"testing"

	"github.com/SFGLab/lophos/allele"
	"github.com/SFGLab/lophos/features"
	"github.com/vertgenlab/gonomics/sam"
)

type mockFetcher struct {
	reads map[string][]sam.Sam
}

func (m mockFetcher) Fetch(chrom string, start, end int) ([]sam.Sam, error) {
	var ans []sam.Sam
	for _, r := range m.reads[chrom] {
		p := int(r.Pos) - 1
		if p >= start && p < end {
			ans = append(ans, r)
		}
	}
	return ans, nil
}

// makePair builds both mates of a read pair on one chromosome.
func makePair(name, chrom string, pos1, pos2 int, tag1, tag2 string, mapq1, mapq2 uint8) (sam.Sam, sam.Sam) {
	var a, b sam.Sam
	a.QName = name
	a.RName = chrom
	a.Pos = uint32(pos1 + 1)
	a.MapQ = mapq1
	a.Flag = pairedFlag
	a.RNext = "="
	a.PNext = uint32(pos2 + 1)
	if tag1 != "" {
		a.Extra = "RG:Z:" + tag1
	}
	b.QName = name
	b.RName = chrom
	b.Pos = uint32(pos2 + 1)
	b.MapQ = mapq2
	b.Flag = pairedFlag
	b.RNext = "="
	b.PNext = uint32(pos1 + 1)
	if tag2 != "" {
		b.Extra = "RG:Z:" + tag2
	}
	return a, b
}

func defaultPatterns(t *testing.T) allele.Patterns {
	pt, err := allele.CompilePatterns("", "", "")
	if err != nil {
		t.Fatalf("failed to compile patterns: %v", err)
	}
	return pt
}

var testLoop = features.Loop{
	Chrom1: "chr1", Start1: 1000, End1: 1100,
	Chrom2: "chr1", Start2: 5000, End2: 5100,
	Name: "loopA",
}

func countOne(t *testing.T, reads []sam.Sam, pad int) Counts {
	pt := defaultPatterns(t)
	f := mockFetcher{reads: map[string][]sam.Sam{"chr1": reads}}
	counts, err := Count(f, []features.Loop{testLoop}, pad, pt, allele.Filter{MinMapQ: 30})
	if err != nil {
		t.Fatalf("unexpected counting error: %v", err)
	}
	if len(counts) != 1 {
		t.Fatal("expected 1 result, got", len(counts))
	}
	return counts[0]
}

func TestBridgingPairCountedOnce(t *testing.T) {
	a, b := makePair("p1", "chr1", 1050, 5050, "maternal", "maternal", 60, 60)
	c := countOne(t, []sam.Sam{a, b}, 100)
	if c.MaternalPairs != 1 || c.PaternalPairs != 0 || c.AmbiguousPairs != 0 {
		t.Error("expected exactly one maternal pair, got", c.MaternalPairs, c.PaternalPairs, c.AmbiguousPairs)
	}
}

func TestMateDisagreementIsAmbiguous(t *testing.T) {
	a, b := makePair("p1", "chr1", 1050, 5050, "maternal", "paternal", 60, 60)
	c := countOne(t, []sam.Sam{a, b}, 100)
	if c.AmbiguousPairs != 1 || c.MaternalPairs != 0 || c.PaternalPairs != 0 {
		t.Error("expected one ambiguous pair for disagreeing mates, got", c)
	}
}

func TestMateOutsideAnchorsExcluded(t *testing.T) {
	a, b := makePair("p1", "chr1", 1050, 300000, "maternal", "maternal", 60, 60)
	c := countOne(t, []sam.Sam{a, b}, 100)
	if c.ExcludedReads != 1 || c.TotalPairs() != 0 || c.AmbiguousPairs != 0 {
		t.Error("expected pair with far mate outside anchors to be excluded, got", c)
	}
}

func TestUnpairedReadIsAmbiguous(t *testing.T) {
	var s sam.Sam
	s.QName = "single"
	s.RName = "chr1"
	s.Pos = 1051
	s.MapQ = 60
	s.Extra = "RG:Z:maternal"
	c := countOne(t, []sam.Sam{s}, 100)
	if c.AmbiguousPairs != 1 {
		t.Error("expected read without mate information to count as ambiguous, got", c)
	}
}

func TestLowQualityPairExcludedOnce(t *testing.T) {
	a, b := makePair("p1", "chr1", 1050, 5050, "maternal", "maternal", 10, 60)
	c := countOne(t, []sam.Sam{a, b}, 100)
	// every pair lands in exactly one bucket; the failing mate is seen first
	// from anchor 1 and sends the whole pair to the excluded bucket
	total := c.MaternalPairs + c.PaternalPairs + c.AmbiguousPairs + c.ExcludedReads
	if total != 1 {
		t.Error("expected the pair to land in exactly one bucket, got", c)
	}
	if c.ExcludedReads != 1 {
		t.Error("expected pair with a failing mate to be excluded, got", c)
	}
}

func TestOverlappingAnchorsNoDoubleCount(t *testing.T) {
	shortRange := features.Loop{
		Chrom1: "chr1", Start1: 1000, End1: 1100,
		Chrom2: "chr1", Start2: 1100, End2: 1200,
		Name: "shortRange",
	}
	// both mates fall inside both padded anchors
	a, b := makePair("p1", "chr1", 1060, 1100, "paternal", "paternal", 60, 60)
	pt := defaultPatterns(t)
	f := mockFetcher{reads: map[string][]sam.Sam{"chr1": {a, b}}}
	counts, err := Count(f, []features.Loop{shortRange}, 50, pt, allele.Filter{MinMapQ: 30})
	if err != nil {
		t.Fatalf("unexpected counting error: %v", err)
	}
	c := counts[0]
	if c.PaternalPairs != 1 || c.MaternalPairs != 0 || c.AmbiguousPairs != 0 {
		t.Error("pair visible from both anchors must be counted exactly once, got", c)
	}
}

func TestAmbiguousFrac(t *testing.T) {
	c := Counts{MaternalPairs: 7, PaternalPairs: 3, AmbiguousPairs: 15}
	if c.AmbiguousFrac() != 0.6 {
		t.Error("expected ambiguous fraction 0.6, got", c.AmbiguousFrac())
	}
	var empty Counts
	if empty.AmbiguousFrac() != 0 {
		t.Error("expected zero ambiguous fraction for empty counts, got", empty.AmbiguousFrac())
	}
}
