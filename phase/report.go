package phase

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// formatFloat renders statistics deterministically; NaN becomes the NA
// sentinel expected by downstream parsers.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WritePeaks writes the headerless peaks table. Column order is frozen:
// chrom, start, end, peak_id, maternal, paternal, total, log2_ratio,
// p_value, fdr, bias_call.
func WritePeaks(filename string, rs []PeakResult) {
	out := fileio.EasyCreate(filename)
	for i := range rs {
		fmt.Fprintf(out, "%s\t%d\t%d\t%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
			rs[i].Chrom, rs[i].Start, rs[i].End, rs[i].Name,
			rs[i].Maternal, rs[i].Paternal, rs[i].Total(),
			formatFloat(rs[i].Log2Ratio), formatFloat(rs[i].PValue), formatFloat(rs[i].FDR), rs[i].Call)
	}
	err := out.Close()
	exception.PanicOnErr(err)
}

// WriteLoops writes the headerless loops table. The first 15 columns are
// frozen: chrom1..end2, loop_id, maternal_pairs, paternal_pairs,
// ambiguous_pairs, total_pairs, log2_ratio_pairs, p_value_pairs, fdr_pairs,
// bias_call. Local validation appends local_z as a 16th column.
func WriteLoops(filename string, rs []LoopResult, withZ bool) {
	out := fileio.EasyCreate(filename)
	for i := range rs {
		fmt.Fprintf(out, "%s\t%d\t%d\t%s\t%d\t%d\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\t%s",
			rs[i].Chrom1, rs[i].Start1, rs[i].End1,
			rs[i].Chrom2, rs[i].Start2, rs[i].End2, rs[i].Name,
			rs[i].MaternalPairs, rs[i].PaternalPairs, rs[i].AmbiguousPairs, rs[i].TotalPairs(),
			formatFloat(rs[i].Log2Ratio), formatFloat(rs[i].PValue), formatFloat(rs[i].FDR), rs[i].Call)
		if withZ {
			fmt.Fprintf(out, "\t%s", formatFloat(rs[i].LocalZ))
		}
		fmt.Fprintln(out)
	}
	err := out.Close()
	exception.PanicOnErr(err)
}

// WriteSummary writes metric/value counts per class per call category.
func WriteSummary(filename string, res Results) {
	out := fileio.EasyCreate(filename)
	fmt.Fprintf(out, "metric\tvalue\n")
	writeClassSummary(out, "peaks", peakCallCounts(res.Peaks))
	writeClassSummary(out, "loops", loopCallCounts(res.Loops))
	err := out.Close()
	exception.PanicOnErr(err)
}

type callCounts struct {
	total        int
	maternal     int
	paternal     int
	balanced     int
	undetermined int
}

func writeClassSummary(out *fileio.EasyWriter, class string, c callCounts) {
	fmt.Fprintf(out, "%s_total\t%d\n", class, c.total)
	fmt.Fprintf(out, "%s_maternal\t%d\n", class, c.maternal)
	fmt.Fprintf(out, "%s_paternal\t%d\n", class, c.paternal)
	fmt.Fprintf(out, "%s_balanced\t%d\n", class, c.balanced)
	fmt.Fprintf(out, "%s_undetermined\t%d\n", class, c.undetermined)
}

func peakCallCounts(rs []PeakResult) callCounts {
	var c callCounts
	c.total = len(rs)
	for i := range rs {
		tallyCall(&c, string(rs[i].Call))
	}
	return c
}

func loopCallCounts(rs []LoopResult) callCounts {
	var c callCounts
	c.total = len(rs)
	for i := range rs {
		tallyCall(&c, string(rs[i].Call))
	}
	return c
}

func tallyCall(c *callCounts, call string) {
	switch call {
	case "Maternal":
		c.maternal++
	case "Paternal":
		c.paternal++
	case "Balanced":
		c.balanced++
	case "Undetermined":
		c.undetermined++
	}
}
