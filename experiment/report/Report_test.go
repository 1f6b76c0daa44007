package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/godagger/dagger"
)

func rounds() []dagger.RoundStats {
	return []dagger.RoundStats{
		{
			Round:          1,
			Mean:           10,
			Std:            2,
			Returns:        []float64{8, 12},
			ValidationLoss: math.NaN(),
			NewSamples:     20,
			DatasetSize:    21,
		},
		{
			Round:          2,
			Mean:           15.5,
			Std:            0.5,
			Returns:        []float64{15, 16},
			ValidationLoss: 0.125,
			NewSamples:     20,
			DatasetSize:    41,
		},
	}
}

func TestSummary(t *testing.T) {
	var out bytes.Buffer
	if err := Summary(&out, rounds(), false); err != nil {
		t.Fatal(err)
	}
	s := out.String()

	for _, want := range []string{
		"round 1  returns [8.0000, 12.0000]",
		"mean return 15.5000  std of return 0.5000",
		"validation loss n/a  new samples 20  dataset size 21",
		"validation loss 0.125000",
		"mean rewards: [10.0000, 15.5000]",
		"std dev: [2.0000, 0.5000]",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%v", want, s)
		}
	}
	if strings.Contains(s, "\x1b[") {
		t.Error("uncolored summary contains escape codes")
	}

	out.Reset()
	if err := Summary(&out, rounds(), true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "\x1b[") {
		t.Error("colored summary contains no escape codes")
	}
}

func TestPlot(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.png")
	if err := Plot(filename, "Walk-v0", rounds()); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(filename); err != nil || info.Size() == 0 {
		t.Errorf("plot not written: %v", err)
	}

	if err := Plot(filename, "", nil); err == nil {
		t.Error("expected error plotting no rounds")
	}
}

func TestChart(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.html")
	if err := Chart(filename, "Walk-v0", rounds()); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "mean return") {
		t.Error("chart does not contain the mean return series")
	}

	if err := Chart(filename, "", nil); err == nil {
		t.Error("expected error charting no rounds")
	}
}
