package roi

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voxometry/voxometry/logging"
	"github.com/voxometry/voxometry/voxel"
)

func TestRecordPreservesOrder(t *testing.T) {
	r := NewRecord()
	r.Set("b", 1)
	r.Set("a", 2)
	r.Set("b", 3) // overwrite keeps position

	names := r.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Errorf("unexpected order %v", names)
	}
	if v, _ := r.Get("b"); v != 3 {
		t.Errorf("overwrite lost: b = %v", v)
	}
}

func TestAnalyzeStatic(t *testing.T) {
	vol := voxel.NewVolume([3]int{10, 10, 10}, voxel.UnitSpacing)
	for i := range vol.Data {
		vol.Data[i] = float64(i % 50)
	}
	mask := voxel.NewMask([3]int{10, 10, 10})
	mask.Fill(2, 5, 3, 7, 4, 9)

	a := NewAnalyzer(DefaultOptions(), &logging.NoOpLogger{})
	record, err := a.AnalyzeStatic(vol, mask)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v, ok := record.Get("volume_mm3"); !ok || v != 60.0 {
		t.Errorf("volume_mm3 = %v (present %v), want 60", v, ok)
	}
	for _, name := range []string{"min", "max", "mean", "median", "std", "skew", "kurtosis", "p25", "p75", "entropy"} {
		if _, ok := record.Get(name); !ok {
			t.Errorf("metric %s missing", name)
		}
	}
	if v, ok := record.Get("surface_area_mm2"); !ok || v <= 0 {
		t.Errorf("surface_area_mm2 = %v (present %v), want positive", v, ok)
	}
}

func TestAnalyzeStaticEmptyMask(t *testing.T) {
	vol := voxel.NewVolume([3]int{4, 4, 4}, voxel.UnitSpacing)
	mask := voxel.NewMask([3]int{4, 4, 4})

	a := NewAnalyzer(DefaultOptions(), &logging.NoOpLogger{})
	record, err := a.AnalyzeStatic(vol, mask)
	if err != nil {
		t.Fatalf("empty ROI is degenerate but valid, got %v", err)
	}

	if v, _ := record.Get("mean"); !math.IsNaN(v) {
		t.Errorf("mean on empty ROI = %v, want NaN", v)
	}
	if v, _ := record.Get("volume_mm3"); v != 0 {
		t.Errorf("volume on empty ROI = %v, want 0", v)
	}
}

func TestAnalyzeStaticShapeMismatch(t *testing.T) {
	vol := voxel.NewVolume([3]int{4, 4, 4}, voxel.UnitSpacing)
	mask := voxel.NewMask([3]int{4, 4, 5})

	a := NewAnalyzer(DefaultOptions(), &logging.NoOpLogger{})
	var mismatch *voxel.ShapeMismatchError
	if _, err := a.AnalyzeStatic(vol, mask); !errors.As(err, &mismatch) {
		t.Fatalf("expected ShapeMismatchError, got %v", err)
	}
}

func TestAnalyzeStaticSkipSurfaceArea(t *testing.T) {
	vol := voxel.NewVolume([3]int{4, 4, 4}, voxel.UnitSpacing)
	mask := voxel.NewMask([3]int{4, 4, 4})
	mask.Fill(1, 3, 1, 3, 1, 3)

	opts := DefaultOptions()
	opts.SkipSurfaceArea = true
	a := NewAnalyzer(opts, &logging.NoOpLogger{})

	record, err := a.AnalyzeStatic(vol, mask)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := record.Get("surface_area_mm2"); ok {
		t.Error("surface_area_mm2 should be omitted when the capability is off")
	}
}

func TestAnalyzeTemporal(t *testing.T) {
	nTime, dims := 12, [3]int{2, 2, 2}
	data := make([]float64, nTime*8)
	for tp := 0; tp < nTime; tp++ {
		for v := 0; v < 8; v++ {
			data[tp*8+v] = float64(tp)
		}
	}
	series, err := voxel.NewSeries([4]int{nTime, 2, 2, 2}, 0, voxel.UnitSpacing, data)
	if err != nil {
		t.Fatalf("building series: %v", err)
	}
	mask := voxel.NewMask(dims)
	mask.Fill(0, 2, 0, 2, 0, 2)

	opts := DefaultOptions()
	opts.MotionCheck = true
	a := NewAnalyzer(opts, &logging.NoOpLogger{})

	result, err := a.AnalyzeTemporal(series, mask)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.MeanCurve) != nTime || len(result.StdCurve) != nTime {
		t.Fatalf("curve lengths %d/%d, want %d", len(result.MeanCurve), len(result.StdCurve), nTime)
	}
	if got := result.Features["temporal_mean"]; got != 5.5 {
		t.Errorf("temporal_mean = %v, want 5.5", got)
	}
	// A perfect ramp has constant frame differences: no motion.
	if len(result.MotionFrames) != 0 {
		t.Errorf("motion frames %v on a linear ramp, want none", result.MotionFrames)
	}
}

func TestCompareMasks(t *testing.T) {
	a := voxel.NewMask([3]int{5, 5, 5})
	b := voxel.NewMask([3]int{5, 5, 5})
	a.Fill(1, 3, 1, 3, 1, 3)
	b.Fill(2, 4, 2, 4, 2, 4)

	analyzer := NewAnalyzer(DefaultOptions(), &logging.NoOpLogger{})
	record, err := analyzer.CompareMasks(a, b, voxel.UnitSpacing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := record.Get("dice"); math.Abs(v-0.125) > 1e-9 {
		t.Errorf("dice = %v, want 0.125", v)
	}
	if v, ok := record.Get("hausdorff_mm"); !ok || v <= 0 {
		t.Errorf("hausdorff_mm = %v (present %v), want positive", v, ok)
	}

	empty := voxel.NewMask([3]int{5, 5, 5})
	record, err = analyzer.CompareMasks(a, empty, voxel.UnitSpacing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := record.Get("hausdorff_mm"); !math.IsInf(v, 1) {
		t.Errorf("hausdorff_mm against empty mask = %v, want +Inf", v)
	}
}

func TestFeatureRecordSortedColumns(t *testing.T) {
	record := FeatureRecord(map[string]float64{"z": 1, "a": 2, "m": 3})
	names := record.Names()
	if names[0] != "a" || names[1] != "m" || names[2] != "z" {
		t.Errorf("columns not sorted: %v", names)
	}
}

func TestWriteRecordsSentinels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	r1 := NewRecord()
	r1.Set("mean", math.NaN())
	r1.Set("hausdorff", math.Inf(1))
	r1.Set("volume_mm3", 60)
	r2 := NewRecord()
	r2.Set("mean", 1.5)
	r2.Set("volume_mm3", 10)
	r2.Set("surface_area_mm2", 42)

	err := WriteRecords(path, map[string]*Record{"roi_a": r1, "roi_b": r2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	content := string(data)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "roi,") {
		t.Errorf("header should start with roi column: %s", lines[0])
	}
	if !strings.Contains(content, "NaN") {
		t.Error("NaN sentinel not rendered literally")
	}
	if !strings.Contains(content, "+Inf") {
		t.Error("+Inf sentinel not rendered literally")
	}
	// roi_a has no surface area: its cell in that column is empty.
	if !strings.Contains(lines[1], ",,") && !strings.HasSuffix(lines[1], ",") {
		t.Errorf("missing optional metric should leave an empty cell: %s", lines[1])
	}
}

func TestWriteCurves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curves.csv")

	err := WriteCurves(path, map[string]Curves{
		"roi_a": {Mean: []float64{1, 2, 3}, Std: []float64{0.1, 0.2, 0.3}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 timepoints, got %d lines", len(lines))
	}
	if lines[0] != "timepoint,roi_a_mean,roi_a_std" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "0,1,0.1" {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	yaml := `
outputDir: out
entropyBins: 32
cases:
  - name: case1
    image: /data/main
    rois: [/data/roi1, /data/roi2]
    temporal: true
    samplingInterval: 2.0
    motionCheck: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputDir != "out" || cfg.EntropyBins != 32 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// Unspecified fields keep defaults.
	if cfg.MotionThreshold != 2.0 {
		t.Errorf("motionThreshold default = %v, want 2.0", cfg.MotionThreshold)
	}
	if len(cfg.Cases) != 1 || cfg.Cases[0].SamplingInterval != 2.0 || !cfg.Cases[0].Temporal {
		t.Errorf("case not parsed: %+v", cfg.Cases)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("config without cases should be invalid")
	}

	cfg.Cases = []CaseConfig{{Image: "", ROIs: []string{"x"}}}
	if err := cfg.Validate(); err == nil {
		t.Error("case without image should be invalid")
	}

	cfg.Cases = []CaseConfig{{Image: "img", ROIs: nil}}
	if err := cfg.Validate(); err == nil {
		t.Error("case without ROIs should be invalid")
	}

	cfg.Cases = []CaseConfig{{Image: "img", ROIs: []string{"r"}, SamplingInterval: -1}}
	if err := cfg.Validate(); err == nil {
		t.Error("negative sampling interval should be invalid")
	}
}
