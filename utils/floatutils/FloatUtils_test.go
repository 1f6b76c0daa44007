package floatutils

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-2, -1, 1, -1},
		{3, -1, 1, 1},
		{1, 1, 1, 1},
	}

	for _, test := range tests {
		if have := Clip(test.value, test.min, test.max); have != test.want {
			t.Errorf("clip(%v, %v, %v): want %v have %v", test.value,
				test.min, test.max, test.want, have)
		}
		in := r1.Interval{Min: test.min, Max: test.max}
		if have := ClipInterval(test.value, in); have != test.want {
			t.Errorf("clipInterval(%v, %v): want %v have %v", test.value, in,
				test.want, have)
		}
	}
}

func TestSign(t *testing.T) {
	for value, want := range map[float64]float64{-3: -1, 0: 0, 0.1: 1} {
		if have := Sign(value); have != want {
			t.Errorf("sign(%v): want %v have %v", value, want, have)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		value, want float64
	}{
		{0, 0},
		{1, 1},
		{math.Pi + 0.5, -math.Pi + 0.5},
		{-math.Pi - 0.5, math.Pi - 0.5},
		{7, 7 - 2*math.Pi},
	}

	for _, test := range tests {
		have := Wrap(test.value, -math.Pi, math.Pi)
		if math.Abs(have-test.want) > 1e-9 {
			t.Errorf("wrap(%v): want %v have %v", test.value, test.want, have)
		}
	}
}
