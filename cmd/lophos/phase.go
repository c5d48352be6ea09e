package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/SFGLab/lophos/config"
	"github.com/SFGLab/lophos/phase"
	"github.com/pkg/profile"
	"github.com/vertgenlab/gonomics/exception"
)

func phaseUsage(phaseFlags *flag.FlagSet) {
	fmt.Print(
		"phase - quantify maternal/paternal allelic bias for peaks and chromatin loops\n" +
			"\tReads must carry a haplotype tag (default RG) whose value matches the\n" +
			"\tmaternal or paternal pattern. Output tables are written next to -o.\n\n" +
			"Usage:\n" +
			"  lophos phase [options] -i input.bam -p peaks.bed -l loops.bedpe -o outPrefix\n\n" +
			"Options:\n")
	phaseFlags.PrintDefaults()
}

func runPhase(args []string) {
	var err error
	phaseFlags := flag.NewFlagSet("phase", flag.ExitOnError)

	def := config.Default()
	cpuprofile := phaseFlags.Bool("cpuprofile", false, "write cpu profile")
	memprofile := phaseFlags.Bool("memprofile", false, "write memory profile")
	input := phaseFlags.String("i", "", "Input bam file with haplotype tags. Must be coordinate sorted and indexed.")
	peakFile := phaseFlags.String("p", "", "Input bed file with peak intervals.")
	loopFile := phaseFlags.String("l", "", "Input bedpe file with loop anchor pairs.")
	outPrefix := phaseFlags.String("o", "", "Output prefix. Writes prefix.peaks.bed, prefix.loops.bedpe, and prefix.summary.tsv.")
	configFile := phaseFlags.String("config", "", "YAML file with parameter overrides. Flags set on the command line take precedence over the file.")
	minMapQ := phaseFlags.Int("mapq", def.MinMapQ, "Minimum mapping quality. Reads below threshold are excluded.")
	peakWindow := phaseFlags.Int("peakWindow", def.PeakWindow, "Half-width in bp of the counting window centered on each peak midpoint.")
	anchorPad := phaseFlags.Int("anchorPad", def.AnchorPad, "Padding in bp added to each side of a loop anchor before fetching reads.")
	minReadsPeak := phaseFlags.Int("minReadsPeak", def.MinReadsPeak, "Minimum informative reads for a peak to receive a directional call.")
	minPairsLoop := phaseFlags.Int("minPairsLoop", def.MinPairsLoop, "Minimum informative bridging pairs for a loop to receive a directional call.")
	fdr := phaseFlags.Float64("fdr", def.FDR, "Benjamini-Hochberg adjusted p-value threshold for significance.")
	minFold := phaseFlags.Float64("minFold", def.MinFold, "Minimum fold change between the major and minor haplotype for a directional call.")
	minAbsLog2 := phaseFlags.Float64("minAbsLog2", def.MinAbsLog2, "Minimum absolute log2 ratio for a directional call.")
	maxAmbiguousFrac := phaseFlags.Float64("maxAmbiguousFrac", def.MaxAmbiguousFrac, "Maximum tolerated fraction of ambiguous pairs for a loop call.")
	pseudocount := phaseFlags.Float64("pseudocount", def.Pseudocount, "Pseudocount added to both haplotype counts for the log2 ratio.")
	keepDuplicates := phaseFlags.Bool("keepDuplicates", def.KeepDuplicates, "Keep reads flagged as PCR/optical duplicates.")
	matPattern := phaseFlags.String("matPattern", def.MaternalPattern, "Case-insensitive regular expression matching maternal tag values.")
	patPattern := phaseFlags.String("patPattern", def.PaternalPattern, "Case-insensitive regular expression matching paternal tag values.")
	tag := phaseFlags.String("tag", def.OriginTag, "Two-character bam tag holding the haplotype of origin.")
	validate := phaseFlags.String("validate", def.Validation, "Loop validation mode: 'local' appends a local z-score column, 'none' disables it.")
	threads := phaseFlags.Int("threads", def.Threads, "Number of processor threads. Currently counting runs on a single thread; values > 1 are accepted and noted in the log.")
	verbose := phaseFlags.Int("verbose", 0, "Level of verbosity in log.")

	err = phaseFlags.Parse(args)
	exception.PanicOnErr(err)
	phaseFlags.Usage = func() { phaseUsage(phaseFlags) }

	if *memprofile && *cpuprofile {
		phaseFlags.Usage()
		errExit("\nERROR: -memprofile and -cpuprofile are mutually exclusive")
	}
	if *memprofile {
		defer profile.Start(profile.MemProfile).Stop()
	}
	if *cpuprofile {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	if *input == "" || *peakFile == "" || *loopFile == "" || *outPrefix == "" {
		phaseFlags.Usage()
		errExit("\nERROR: must specify bam (-i), peaks (-p), loops (-l), and output prefix (-o)")
	}

	cfg := config.Default()
	if *configFile != "" {
		if err = cfg.ApplyFile(*configFile); err != nil {
			errExit("\nERROR: " + err.Error())
		}
	}

	// flags set explicitly on the command line win over the config file
	phaseFlags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mapq":
			cfg.MinMapQ = *minMapQ
		case "peakWindow":
			cfg.PeakWindow = *peakWindow
		case "anchorPad":
			cfg.AnchorPad = *anchorPad
		case "minReadsPeak":
			cfg.MinReadsPeak = *minReadsPeak
		case "minPairsLoop":
			cfg.MinPairsLoop = *minPairsLoop
		case "fdr":
			cfg.FDR = *fdr
		case "minFold":
			cfg.MinFold = *minFold
		case "minAbsLog2":
			cfg.MinAbsLog2 = *minAbsLog2
		case "maxAmbiguousFrac":
			cfg.MaxAmbiguousFrac = *maxAmbiguousFrac
		case "pseudocount":
			cfg.Pseudocount = *pseudocount
		case "keepDuplicates":
			cfg.KeepDuplicates = *keepDuplicates
		case "matPattern":
			cfg.MaternalPattern = *matPattern
		case "patPattern":
			cfg.PaternalPattern = *patPattern
		case "tag":
			cfg.OriginTag = *tag
		case "validate":
			cfg.Validation = *validate
		case "threads":
			cfg.Threads = *threads
		}
	})

	err = phase.Run(phase.Options{
		Bam:       *input,
		Peaks:     *peakFile,
		Loops:     *loopFile,
		OutPrefix: *outPrefix,
		Config:    cfg,
		Verbose:   *verbose,
	})
	if err != nil {
		log.Fatal(err)
	}
}
