package progressbar

import (
	"bytes"
	"strings"
	"testing"
)

func TestManualProgressBar(t *testing.T) {
	var out bytes.Buffer
	p := NewManualProgressBar(&out, "round 1", 10, 4)

	for i := 0; i < 6; i++ {
		p.Increment()
	}
	if p.Progress() != 1 {
		t.Errorf("want progress capped at 1 have %v", p.Progress())
	}

	p.Display()
	p.Finish()
	s := out.String()
	if !strings.Contains(s, "round 1 |") {
		t.Errorf("label missing from %q", s)
	}
	if !strings.Contains(s, "100.00%") {
		t.Errorf("percentage missing from %q", s)
	}
	if strings.Count(s, "█") != 10 {
		t.Errorf("want 10 filled cells in %q", s)
	}
}

func TestManualProgressBarZeroMax(t *testing.T) {
	p := NewManualProgressBar(&bytes.Buffer{}, "", 5, 0)
	if p.Progress() != 0 {
		t.Errorf("want 0 progress have %v", p.Progress())
	}
	p.Increment()
	if p.Progress() != 1 {
		t.Errorf("want progress 1 have %v", p.Progress())
	}
}
