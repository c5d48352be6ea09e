// Package phase runs the full allele-specific counting and calling pipeline:
// classify reads, count per feature, test, correct, call, and validate.
package phase

import (
	"fmt"
	"log"

	"github.com/SFGLab/lophos/allele"
	"github.com/SFGLab/lophos/bamio"
	"github.com/SFGLab/lophos/calls"
	"github.com/SFGLab/lophos/config"
	"github.com/SFGLab/lophos/features"
	"github.com/SFGLab/lophos/loops"
	"github.com/SFGLab/lophos/peaks"
	"github.com/SFGLab/lophos/stats"
	"github.com/SFGLab/lophos/validate"
)

// Options names the inputs and outputs of one run.
type Options struct {
	Bam       string // coordinate-sorted, indexed BAM with haplotype tags
	Peaks     string // BED
	Loops     string // BEDPE
	OutPrefix string // writes OutPrefix.peaks.bed, .loops.bedpe, .summary.tsv
	Config    config.Config
	Verbose   int
}

// PeakResult is one peak's terminal record: counts, statistics, and call.
type PeakResult struct {
	peaks.Counts
	Log2Ratio float64
	PValue    float64
	FDR       float64
	Call      calls.Call
}

// LoopResult is one loop's terminal record. LocalZ is NaN when local
// validation is off or the run's diff distribution is degenerate.
type LoopResult struct {
	loops.Counts
	Log2Ratio float64
	PValue    float64
	FDR       float64
	Call      calls.Call
	LocalZ    float64
}

// Results bundles both fully annotated feature classes for one run.
type Results struct {
	Peaks []PeakResult
	Loops []LoopResult
}

// PeakStats derives a test statistic per peak and corrects the whole class
// in a single BH pass. The class must be complete: correction over a partial
// class would be silently wrong.
func PeakStats(cs []peaks.Counts, pseudocount float64) []PeakResult {
	ans := make([]PeakResult, len(cs))
	pvals := make([]float64, len(cs))
	for i := range cs {
		ans[i].Counts = cs[i]
		ans[i].Log2Ratio = stats.Log2Ratio(cs[i].Maternal, cs[i].Paternal, pseudocount)
		pvals[i] = stats.BinomialTwoSided(cs[i].Maternal, cs[i].Paternal)
		ans[i].PValue = pvals[i]
	}
	qvals := stats.AdjustBH(pvals)
	for i := range qvals {
		ans[i].FDR = qvals[i]
	}
	return ans
}

// LoopStats is the loop-class analog of PeakStats. Ambiguous pairs never
// enter the test; they only feed the ambiguity gate at calling time.
func LoopStats(cs []loops.Counts, pseudocount float64) []LoopResult {
	ans := make([]LoopResult, len(cs))
	pvals := make([]float64, len(cs))
	for i := range cs {
		ans[i].Counts = cs[i]
		ans[i].Log2Ratio = stats.Log2Ratio(cs[i].MaternalPairs, cs[i].PaternalPairs, pseudocount)
		pvals[i] = stats.BinomialTwoSided(cs[i].MaternalPairs, cs[i].PaternalPairs)
		ans[i].PValue = pvals[i]
	}
	qvals := stats.AdjustBH(pvals)
	for i := range qvals {
		ans[i].FDR = qvals[i]
	}
	return ans
}

// CallPeaks assigns the terminal call to every peak result.
func CallPeaks(rs []PeakResult, t calls.Thresholds) {
	for i := range rs {
		rs[i].Call = calls.ForPeak(rs[i].Maternal, rs[i].Paternal, rs[i].FDR, rs[i].Log2Ratio, t)
	}
}

// CallLoops assigns the terminal call to every loop result.
func CallLoops(rs []LoopResult, t calls.Thresholds) {
	for i := range rs {
		rs[i].Call = calls.ForLoop(rs[i].MaternalPairs, rs[i].PaternalPairs, rs[i].AmbiguousPairs, rs[i].FDR, rs[i].Log2Ratio, t)
	}
}

// AnnotateLocalZ standardizes each loop's maternal-paternal difference
// against the whole run's loop population.
func AnnotateLocalZ(rs []LoopResult) {
	diffs := make([]float64, len(rs))
	for i := range rs {
		diffs[i] = float64(rs[i].MaternalPairs - rs[i].PaternalPairs)
	}
	for i, z := range validate.ZScores(diffs) {
		rs[i].LocalZ = z
	}
}

// Analyze runs testing, correction, calling, and optional local validation
// on completed count tables. Input order is preserved end to end.
func Analyze(pc []peaks.Counts, lc []loops.Counts, cfg config.Config) Results {
	var res Results
	res.Peaks = PeakStats(pc, cfg.Pseudocount)
	CallPeaks(res.Peaks, cfg.PeakThresholds())
	res.Loops = LoopStats(lc, cfg.Pseudocount)
	CallLoops(res.Loops, cfg.LoopThresholds())
	if cfg.Validation == config.ValidateLocal {
		AnnotateLocalZ(res.Loops)
	}
	return res
}

// Run executes the whole pipeline. It either writes complete, internally
// consistent tables for both classes or returns an error with nothing
// written: per-feature failures are never swallowed.
func Run(opts Options) error {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	pt, err := allele.CompilePatterns(cfg.MaternalPattern, cfg.PaternalPattern, cfg.OriginTag)
	if err != nil {
		return err
	}
	if cfg.Threads > 1 {
		log.Println("NOTE: -threads is reserved; counting currently runs on a single thread")
	}

	pks, err := features.LoadPeaks(opts.Peaks)
	if err != nil {
		return err
	}
	lps, err := features.LoadLoops(opts.Loops)
	if err != nil {
		return err
	}
	if opts.Verbose > 0 {
		log.Println("loaded", len(pks), "peaks and", len(lps), "loops")
	}

	br := bamio.Open(opts.Bam)
	defer br.Close()
	if err = checkChroms(br, pks, lps); err != nil {
		return err
	}

	filt := cfg.Filter()
	peakCounts, err := peaks.Count(br, pks, cfg.PeakWindow, pt, filt)
	if err != nil {
		return fmt.Errorf("peak counting failed, no output written: %w", err)
	}
	if opts.Verbose > 0 {
		log.Println("counted", len(peakCounts), "peaks")
	}
	loopCounts, err := loops.Count(br, lps, cfg.AnchorPad, pt, filt)
	if err != nil {
		return fmt.Errorf("loop counting failed, no output written: %w", err)
	}
	if opts.Verbose > 0 {
		log.Println("counted", len(loopCounts), "loops")
	}

	res := Analyze(peakCounts, loopCounts, cfg)

	withZ := cfg.Validation == config.ValidateLocal
	WritePeaks(opts.OutPrefix+".peaks.bed", res.Peaks)
	WriteLoops(opts.OutPrefix+".loops.bedpe", res.Loops, withZ)
	WriteSummary(opts.OutPrefix+".summary.tsv", res)
	if opts.Verbose > 0 {
		log.Println("wrote", opts.OutPrefix+".peaks.bed,", opts.OutPrefix+".loops.bedpe,", opts.OutPrefix+".summary.tsv")
	}
	return nil
}

// checkChroms rejects features naming chromosomes absent from the alignment
// header before any counting begins.
func checkChroms(br *bamio.Reader, pks []features.Peak, lps []features.Loop) error {
	for i := range pks {
		if !br.HasChrom(pks[i].Chrom) {
			return fmt.Errorf("peak row %d (%s): chromosome %q not in alignment header", i+1, pks[i].Name, pks[i].Chrom)
		}
	}
	for i := range lps {
		if !br.HasChrom(lps[i].Chrom1) {
			return fmt.Errorf("loop row %d (%s): chromosome %q not in alignment header", i+1, lps[i].Name, lps[i].Chrom1)
		}
		if !br.HasChrom(lps[i].Chrom2) {
			return fmt.Errorf("loop row %d (%s): chromosome %q not in alignment header", i+1, lps[i].Name, lps[i].Chrom2)
		}
	}
	return nil
}
