// Package report reads a completed run's output tables back and derives QC
// summaries from them.
package report

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// PeakRow mirrors one row of the frozen peaks table.
type PeakRow struct {
	Chrom     string
	Start     int
	End       int
	Name      string
	Maternal  int
	Paternal  int
	Total     int
	Log2Ratio float64
	PValue    float64
	FDR       float64
	Call      string
}

// LoopRow mirrors one row of the frozen loops table. LocalZ is NaN when the
// run was written without local validation.
type LoopRow struct {
	Chrom1         string
	Start1         int
	End1           int
	Chrom2         string
	Start2         int
	End2           int
	Name           string
	MaternalPairs  int
	PaternalPairs  int
	AmbiguousPairs int
	TotalPairs     int
	Log2Ratio      float64
	PValue         float64
	FDR            float64
	Call           string
	LocalZ         float64
}

// DetectPrefix infers the run prefix from *.peaks.bed and *.loops.bedpe in
// dir. Exactly one common prefix must exist; otherwise the caller must pass
// the prefix explicitly.
func DetectPrefix(dir string) (string, error) {
	peakFiles, err := filepath.Glob(filepath.Join(dir, "*.peaks.bed"))
	if err != nil {
		return "", err
	}
	loopFiles, err := filepath.Glob(filepath.Join(dir, "*.loops.bedpe"))
	if err != nil {
		return "", err
	}
	peakPrefixes := make(map[string]bool)
	for _, f := range peakFiles {
		peakPrefixes[strings.TrimSuffix(filepath.Base(f), ".peaks.bed")] = true
	}
	common := make(map[string]bool)
	for _, f := range loopFiles {
		p := strings.TrimSuffix(filepath.Base(f), ".loops.bedpe")
		if peakPrefixes[p] {
			common[p] = true
		}
	}
	candidates := maps.Keys(common)
	slices.Sort(candidates)
	if len(candidates) != 1 {
		return "", fmt.Errorf("could not uniquely infer run prefix in %s (candidates: %v); pass -prefix explicitly", dir, candidates)
	}
	return candidates[0], nil
}

func parseFloatField(s, file string, row int) (float64, error) {
	if s == "NA" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s row %d: bad float %q", file, row, s)
	}
	return v, nil
}

func parseIntField(s, file string, row int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s row %d: bad integer %q", file, row, s)
	}
	return v, nil
}

// ReadPeaksTable parses a written peaks table.
func ReadPeaksTable(filename string) ([]PeakRow, error) {
	var ans []PeakRow
	var line string
	var done bool
	var err error
	in := fileio.EasyOpen(filename)
	defer in.Close()
	for line, done = fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		words := strings.Split(line, "\t")
		if len(words) != 11 {
			return nil, fmt.Errorf("%s row %d: expected 11 columns, got %d", filename, len(ans)+1, len(words))
		}
		var r PeakRow
		r.Chrom, r.Name, r.Call = words[0], words[3], words[10]
		row := len(ans) + 1
		if r.Start, err = parseIntField(words[1], filename, row); err != nil {
			return nil, err
		}
		if r.End, err = parseIntField(words[2], filename, row); err != nil {
			return nil, err
		}
		if r.Maternal, err = parseIntField(words[4], filename, row); err != nil {
			return nil, err
		}
		if r.Paternal, err = parseIntField(words[5], filename, row); err != nil {
			return nil, err
		}
		if r.Total, err = parseIntField(words[6], filename, row); err != nil {
			return nil, err
		}
		if r.Log2Ratio, err = parseFloatField(words[7], filename, row); err != nil {
			return nil, err
		}
		if r.PValue, err = parseFloatField(words[8], filename, row); err != nil {
			return nil, err
		}
		if r.FDR, err = parseFloatField(words[9], filename, row); err != nil {
			return nil, err
		}
		ans = append(ans, r)
	}
	return ans, nil
}

// ReadLoopsTable parses a written loops table, with or without the trailing
// local_z column.
func ReadLoopsTable(filename string) ([]LoopRow, error) {
	var ans []LoopRow
	var line string
	var done bool
	var err error
	in := fileio.EasyOpen(filename)
	defer in.Close()
	for line, done = fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		words := strings.Split(line, "\t")
		if len(words) != 15 && len(words) != 16 {
			return nil, fmt.Errorf("%s row %d: expected 15 or 16 columns, got %d", filename, len(ans)+1, len(words))
		}
		var r LoopRow
		r.Chrom1, r.Chrom2, r.Name, r.Call = words[0], words[3], words[6], words[14]
		r.LocalZ = math.NaN()
		row := len(ans) + 1
		if r.Start1, err = parseIntField(words[1], filename, row); err != nil {
			return nil, err
		}
		if r.End1, err = parseIntField(words[2], filename, row); err != nil {
			return nil, err
		}
		if r.Start2, err = parseIntField(words[4], filename, row); err != nil {
			return nil, err
		}
		if r.End2, err = parseIntField(words[5], filename, row); err != nil {
			return nil, err
		}
		if r.MaternalPairs, err = parseIntField(words[7], filename, row); err != nil {
			return nil, err
		}
		if r.PaternalPairs, err = parseIntField(words[8], filename, row); err != nil {
			return nil, err
		}
		if r.AmbiguousPairs, err = parseIntField(words[9], filename, row); err != nil {
			return nil, err
		}
		if r.TotalPairs, err = parseIntField(words[10], filename, row); err != nil {
			return nil, err
		}
		if r.Log2Ratio, err = parseFloatField(words[11], filename, row); err != nil {
			return nil, err
		}
		if r.PValue, err = parseFloatField(words[12], filename, row); err != nil {
			return nil, err
		}
		if r.FDR, err = parseFloatField(words[13], filename, row); err != nil {
			return nil, err
		}
		if len(words) == 16 {
			if r.LocalZ, err = parseFloatField(words[15], filename, row); err != nil {
				return nil, err
			}
		}
		ans = append(ans, r)
	}
	return ans, nil
}
