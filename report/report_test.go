package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPeaksTable = "chr1\t100\t200\tpkA\t20\t2\t22\t2.807355\t0.000121\t0.000363\tMaternal\n" +
	"chr1\t300\t400\tpkB\t3\t1\t4\t1\t0.625\t0.9375\tUndetermined\n" +
	"chr2\t100\t200\tpkC\t10\t10\t20\t0\t1\t1\tBalanced\n"

const testLoopsTable = "chr1\t1000\t2000\tchr1\t50000\t51000\tlpA\t14\t1\t1\t15\t2.906891\t0.000977\t0.001953\tMaternal\t0.7071\n" +
	"chr2\t1000\t2000\tchr2\t90000\t91000\tlpB\t5\t6\t0\t11\t-0.222392\t1\t1\tBalanced\tNA\n"

func writeRun(t *testing.T, dir, prefix string) {
	if err := os.WriteFile(filepath.Join(dir, prefix+".peaks.bed"), []byte(testPeaksTable), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, prefix+".loops.bedpe"), []byte(testLoopsTable), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReadPeaksTable(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "run")
	rows, err := ReadPeaksTable(filepath.Join(dir, "run.peaks.bed"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatal("expected 3 rows, got", len(rows))
	}
	if rows[0].Name != "pkA" || rows[0].Maternal != 20 || rows[0].Call != "Maternal" {
		t.Error("unexpected first row:", rows[0])
	}
	if rows[2].Total != 20 || rows[2].FDR != 1 {
		t.Error("unexpected third row:", rows[2])
	}
}

func TestReadLoopsTable(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "run")
	rows, err := ReadLoopsTable(filepath.Join(dir, "run.loops.bedpe"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatal("expected 2 rows, got", len(rows))
	}
	if rows[0].Name != "lpA" || rows[0].MaternalPairs != 14 || rows[0].TotalPairs != 15 {
		t.Error("unexpected first row:", rows[0])
	}
	if rows[0].LocalZ != 0.7071 {
		t.Error("expected local z 0.7071, got", rows[0].LocalZ)
	}
	if !math.IsNaN(rows[1].LocalZ) {
		t.Error("expected NaN for NA local z, got", rows[1].LocalZ)
	}
}

func TestDetectPrefix(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "sample1")
	prefix, err := DetectPrefix(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefix != "sample1" {
		t.Error("expected prefix sample1, got", prefix)
	}

	// a second run makes the prefix ambiguous
	writeRun(t, dir, "sample2")
	if _, err = DetectPrefix(dir); err == nil {
		t.Error("expected error for ambiguous prefix")
	}
}

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "run")
	err := Summarize(SummaryParams{
		Dir:          dir,
		FDR:          0.05,
		MinReadsPeak: 5,
		MinPairsLoop: 3,
		WriteTSV:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "run.quick_qc.tsv"))
	if err != nil {
		t.Fatalf("quick qc file not written: %v", err)
	}
	qc := string(data)
	for _, expected := range []string{
		"peaks_total\t3",
		"loops_total\t2",
		"peaks_signif\t1",
		"loops_signif\t1",
		"peaks_calls_Maternal\t1",
		"peaks_calls_Balanced\t1",
		"peaks_calls_Undetermined\t1",
		"loops_calls_Maternal\t1",
		"loops_calls_Balanced\t1",
		"min_pairs_loop\t3",
	} {
		if !strings.Contains(qc, expected) {
			t.Error("quick qc missing line:", expected)
		}
	}
}

func TestBinRatios(t *testing.T) {
	bins := binRatios([]float64{-1, 0, 0, 1}, 4)
	var total float64
	for _, b := range bins {
		total += b
	}
	if total != 4 {
		t.Error("expected all 4 values binned, got", total)
	}
	if bins[0] != 1 || bins[3] != 1 {
		t.Error("extremes must land in the outer bins, got", bins)
	}
}
