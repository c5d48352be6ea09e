package config

import "testing"

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Error("default configuration failed validation:", err)
	}
}

func TestApplyFile(t *testing.T) {
	c := Default()
	if err := c.ApplyFile("testdata/override.yaml"); err != nil {
		t.Fatalf("unexpected error applying config file: %v", err)
	}
	if c.MinMapQ != 20 || c.AnchorPad != 5000 || c.FDR != 0.1 {
		t.Error("overridden values not applied:", c.MinMapQ, c.AnchorPad, c.FDR)
	}
	if !c.KeepDuplicates || c.MaternalPattern != "^hap1$" {
		t.Error("overridden values not applied:", c.KeepDuplicates, c.MaternalPattern)
	}
	// untouched keys keep defaults
	if c.PeakWindow != 500 || c.MinPairsLoop != 3 || c.Validation != ValidateLocal {
		t.Error("defaults clobbered by partial override:", c.PeakWindow, c.MinPairsLoop, c.Validation)
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	bad := []func(*Config){
		func(c *Config) { c.FDR = 0 },
		func(c *Config) { c.FDR = 1.5 },
		func(c *Config) { c.MinFold = 0.5 },
		func(c *Config) { c.PeakWindow = 0 },
		func(c *Config) { c.AnchorPad = -1 },
		func(c *Config) { c.MaxAmbiguousFrac = 1.2 },
		func(c *Config) { c.Pseudocount = 0 },
		func(c *Config) { c.Validation = "global" },
		func(c *Config) { c.Threads = 0 },
	}
	for i, mutate := range bad {
		c := Default()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Error("case", i, "expected a validation error")
		}
	}
}

func TestThresholds(t *testing.T) {
	c := Default()
	pk := c.PeakThresholds()
	lp := c.LoopThresholds()
	if pk.MinTotal != 5 || lp.MinTotal != 3 {
		t.Error("wrong class minimums:", pk.MinTotal, lp.MinTotal)
	}
	if pk.FDR != lp.FDR || pk.MinFold != lp.MinFold {
		t.Error("classes must share the remaining thresholds")
	}
}
