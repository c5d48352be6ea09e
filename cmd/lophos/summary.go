package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/SFGLab/lophos/config"
	"github.com/SFGLab/lophos/report"
	"github.com/vertgenlab/gonomics/exception"
)

func summaryUsage(summaryFlags *flag.FlagSet) {
	fmt.Print(
		"summary - recompute QC metrics from the tables written by 'lophos phase'\n\n" +
			"Usage:\n" +
			"  lophos summary [options] -dir outputDir\n\n" +
			"Options:\n")
	summaryFlags.PrintDefaults()
}

func runSummary(args []string) {
	var err error
	summaryFlags := flag.NewFlagSet("summary", flag.ExitOnError)

	def := config.Default()
	dir := summaryFlags.String("dir", ".", "Directory holding the phase output tables.")
	prefix := summaryFlags.String("prefix", "", "Run prefix of the tables to read. Inferred from -dir when only one run is present.")
	fdr := summaryFlags.Float64("fdr", def.FDR, "Adjusted p-value threshold used for the significance counts.")
	minReadsPeak := summaryFlags.Int("minReadsPeak", def.MinReadsPeak, "Minimum informative reads for a peak to count as significant.")
	minPairsLoop := summaryFlags.Int("minPairsLoop", def.MinPairsLoop, "Minimum informative pairs for a loop to count as significant.")
	hist := summaryFlags.Bool("hist", false, "Print terminal histograms of the log2 ratios.")
	plotFile := summaryFlags.String("plot", "", "Write a PNG histogram of the log2 ratios to this file.")
	noTsv := summaryFlags.Bool("noTsv", false, "Do not write prefix.quick_qc.tsv.")

	err = summaryFlags.Parse(args)
	exception.PanicOnErr(err)
	summaryFlags.Usage = func() { summaryUsage(summaryFlags) }

	err = report.Summarize(report.SummaryParams{
		Dir:          *dir,
		Prefix:       *prefix,
		FDR:          *fdr,
		MinReadsPeak: *minReadsPeak,
		MinPairsLoop: *minPairsLoop,
		Hist:         *hist,
		PlotFile:     *plotFile,
		WriteTSV:     !*noTsv,
	})
	if err != nil {
		log.Fatal(err)
	}
}
