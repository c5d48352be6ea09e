// Package config holds the run configuration consumed by the counting and
// calling engine, with optional YAML file overrides.
package config

import (
	"fmt"
	"os"

	"github.com/SFGLab/lophos/allele"
	"github.com/SFGLab/lophos/calls"
	"gopkg.in/yaml.v3"
)

// Validation modes for loops.
const (
	ValidateNone  string = "none"
	ValidateLocal string = "local"
)

// Config is the full parameter surface of one run. Values are immutable once
// a run starts.
type Config struct {
	MinMapQ          int     `yaml:"min_mapq"`
	PeakWindow       int     `yaml:"peak_window"`
	AnchorPad        int     `yaml:"anchor_pad"`
	MinReadsPeak     int     `yaml:"min_reads_peak"`
	MinPairsLoop     int     `yaml:"min_pairs_loop"`
	FDR              float64 `yaml:"fdr"`
	MinFold          float64 `yaml:"min_fold"`
	MinAbsLog2       float64 `yaml:"min_abs_log2"`
	MaxAmbiguousFrac float64 `yaml:"max_ambiguous_frac"`
	Pseudocount      float64 `yaml:"pseudocount"`
	KeepDuplicates   bool    `yaml:"keep_duplicates"`
	MaternalPattern  string  `yaml:"maternal_pattern"`
	PaternalPattern  string  `yaml:"paternal_pattern"`
	OriginTag        string  `yaml:"origin_tag"`
	Validation       string  `yaml:"validate_loops"`
	Threads          int     `yaml:"threads"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		MinMapQ:          30,
		PeakWindow:       500,
		AnchorPad:        10000,
		MinReadsPeak:     5,
		MinPairsLoop:     3,
		FDR:              0.05,
		MinFold:          1.5,
		MinAbsLog2:       0,
		MaxAmbiguousFrac: 0.5,
		Pseudocount:      1.0,
		KeepDuplicates:   false,
		MaternalPattern:  allele.DefaultMaternalPattern,
		PaternalPattern:  allele.DefaultPaternalPattern,
		OriginTag:        allele.DefaultOriginTag,
		Validation:       ValidateLocal,
		Threads:          1,
	}
}

// ApplyFile overlays values from a YAML file onto c. Keys absent from the
// file keep their current values.
func (c *Config) ApplyFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", filename, err)
	}
	return nil
}

// Validate rejects contradictory thresholds before any counting begins.
func (c Config) Validate() error {
	if c.MinMapQ < 0 || c.MinMapQ > 255 {
		return fmt.Errorf("min_mapq must be in [0,255], got %d", c.MinMapQ)
	}
	if c.PeakWindow <= 0 {
		return fmt.Errorf("peak_window must be > 0, got %d", c.PeakWindow)
	}
	if c.AnchorPad < 0 {
		return fmt.Errorf("anchor_pad must be >= 0, got %d", c.AnchorPad)
	}
	if c.MinReadsPeak < 0 || c.MinPairsLoop < 0 {
		return fmt.Errorf("minimum totals must be >= 0, got %d and %d", c.MinReadsPeak, c.MinPairsLoop)
	}
	if c.FDR <= 0 || c.FDR > 1 {
		return fmt.Errorf("fdr threshold must be in (0,1], got %g", c.FDR)
	}
	if c.MinFold < 1 {
		return fmt.Errorf("min_fold must be >= 1, got %g", c.MinFold)
	}
	if c.MinAbsLog2 < 0 {
		return fmt.Errorf("min_abs_log2 must be >= 0, got %g", c.MinAbsLog2)
	}
	if c.MaxAmbiguousFrac < 0 || c.MaxAmbiguousFrac > 1 {
		return fmt.Errorf("max_ambiguous_frac must be in [0,1], got %g", c.MaxAmbiguousFrac)
	}
	if c.Pseudocount <= 0 {
		return fmt.Errorf("pseudocount must be > 0, got %g", c.Pseudocount)
	}
	if c.Validation != ValidateNone && c.Validation != ValidateLocal {
		return fmt.Errorf("validate_loops must be %q or %q, got %q", ValidateNone, ValidateLocal, c.Validation)
	}
	if c.Threads < 1 {
		return fmt.Errorf("threads must be >= 1, got %d", c.Threads)
	}
	return nil
}

// Filter returns the per-read gates derived from the configuration.
func (c Config) Filter() allele.Filter {
	return allele.Filter{MinMapQ: uint8(c.MinMapQ), KeepDups: c.KeepDuplicates}
}

// PeakThresholds returns the calling thresholds for the peak class.
func (c Config) PeakThresholds() calls.Thresholds {
	return calls.Thresholds{
		MinTotal:         c.MinReadsPeak,
		MaxAmbiguousFrac: c.MaxAmbiguousFrac,
		FDR:              c.FDR,
		MinAbsLog2:       c.MinAbsLog2,
		MinFold:          c.MinFold,
	}
}

// LoopThresholds returns the calling thresholds for the loop class.
func (c Config) LoopThresholds() calls.Thresholds {
	t := c.PeakThresholds()
	t.MinTotal = c.MinPairsLoop
	return t
}
