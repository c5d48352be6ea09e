package report

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/guptarohit/asciigraph"
	"github.com/montanaflynn/stats"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// SummaryParams controls the summary command.
type SummaryParams struct {
	Dir          string
	Prefix       string // inferred from Dir when empty
	FDR          float64
	MinReadsPeak int
	MinPairsLoop int
	Hist         bool   // print terminal histograms of the log2 ratios
	PlotFile     string // write a PNG histogram when non-empty
	WriteTSV     bool
}

var callCategories = []string{"Maternal", "Paternal", "Balanced", "Undetermined"}

// Summarize recomputes QC metrics from a run's written tables, prints them,
// and optionally writes <prefix>.quick_qc.tsv alongside the inputs.
func Summarize(p SummaryParams) error {
	prefix := p.Prefix
	var err error
	if prefix == "" {
		if prefix, err = DetectPrefix(p.Dir); err != nil {
			return err
		}
	}
	peakRows, err := ReadPeaksTable(filepath.Join(p.Dir, prefix+".peaks.bed"))
	if err != nil {
		return err
	}
	loopRows, err := ReadLoopsTable(filepath.Join(p.Dir, prefix+".loops.bedpe"))
	if err != nil {
		return err
	}

	var peaksSignif int
	peakTotals := make([]float64, len(peakRows))
	peakRatios := make([]float64, len(peakRows))
	peakCalls := make(map[string]int)
	for i := range peakRows {
		peakTotals[i] = float64(peakRows[i].Total)
		peakRatios[i] = peakRows[i].Log2Ratio
		peakCalls[peakRows[i].Call]++
		if peakRows[i].FDR <= p.FDR && peakRows[i].Total >= p.MinReadsPeak {
			peaksSignif++
		}
	}
	var loopsSignif int
	loopTotals := make([]float64, len(loopRows))
	loopRatios := make([]float64, len(loopRows))
	loopCalls := make(map[string]int)
	for i := range loopRows {
		loopTotals[i] = float64(loopRows[i].TotalPairs)
		loopRatios[i] = loopRows[i].Log2Ratio
		loopCalls[loopRows[i].Call]++
		if loopRows[i].FDR <= p.FDR && loopRows[i].TotalPairs >= p.MinPairsLoop {
			loopsSignif++
		}
	}

	rows := [][2]string{
		{"peaks_total", fmt.Sprint(len(peakRows))},
		{"loops_total", fmt.Sprint(len(loopRows))},
		{"peaks_signif", fmt.Sprint(peaksSignif)},
		{"loops_signif", fmt.Sprint(loopsSignif)},
		{"peaks_total_reads_median", fmt.Sprintf("%.3f", median(peakTotals))},
		{"loops_total_pairs_median", fmt.Sprintf("%.3f", median(loopTotals))},
	}
	for _, call := range callCategories {
		rows = append(rows, [2]string{"peaks_calls_" + call, fmt.Sprint(peakCalls[call])})
	}
	for _, call := range callCategories {
		rows = append(rows, [2]string{"loops_calls_" + call, fmt.Sprint(loopCalls[call])})
	}
	rows = append(rows,
		[2]string{"fdr_threshold", fmt.Sprint(p.FDR)},
		[2]string{"min_reads_peak", fmt.Sprint(p.MinReadsPeak)},
		[2]string{"min_pairs_loop", fmt.Sprint(p.MinPairsLoop)},
	)

	fmt.Println("QC SUMMARY")
	for _, r := range rows {
		fmt.Printf("%s\t%s\n", r[0], r[1])
	}

	if p.Hist {
		printHist("peaks log2_ratio", peakRatios)
		printHist("loops log2_ratio_pairs", loopRatios)
	}
	if p.PlotFile != "" {
		if err = plotRatios(p.PlotFile, peakRatios, loopRatios); err != nil {
			return err
		}
	}

	if p.WriteTSV {
		out := fileio.EasyCreate(filepath.Join(p.Dir, prefix+".quick_qc.tsv"))
		fmt.Fprintf(out, "metric\tvalue\n")
		for _, r := range rows {
			fmt.Fprintf(out, "%s\t%s\n", r[0], r[1])
		}
		err = out.Close()
		exception.PanicOnErr(err)
	}
	return nil
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m, err := stats.Median(vals)
	if err != nil {
		return math.NaN()
	}
	return m
}

// binRatios bins values symmetrically around zero for histogram display.
func binRatios(vals []float64, nbins int) []float64 {
	bins := make([]float64, nbins)
	var max float64
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if math.Abs(v) > max {
			max = math.Abs(v)
		}
	}
	if max == 0 {
		max = 1
	}
	width := 2 * max / float64(nbins)
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		idx := int((v + max) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= nbins {
			idx = nbins - 1
		}
		bins[idx]++
	}
	return bins
}

func printHist(caption string, vals []float64) {
	if len(vals) == 0 {
		return
	}
	fmt.Println(asciigraph.Plot(binRatios(vals, 21),
		asciigraph.Height(8),
		asciigraph.Caption(caption)))
}
