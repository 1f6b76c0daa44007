package timestep

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestStepType(t *testing.T) {
	obs := mat.NewVecDense(2, []float64{0.1, 0.2})

	tests := []struct {
		step             TimeStep
		first, mid, last bool
		name             string
	}{
		{New(First, 0, 0.99, obs, 0), true, false, false, "First"},
		{New(Mid, 1, 0.99, obs, 1), false, true, false, "Mid"},
		{New(Last, 1, 0.99, obs, 2), false, false, true, "Last"},
	}

	for _, test := range tests {
		if test.step.First() != test.first {
			t.Errorf("first: \n\twant(%v) \n\thave(%v)", test.first,
				test.step.First())
		}
		if test.step.Mid() != test.mid {
			t.Errorf("mid: \n\twant(%v) \n\thave(%v)", test.mid,
				test.step.Mid())
		}
		if test.step.Last() != test.last {
			t.Errorf("last: \n\twant(%v) \n\thave(%v)", test.last,
				test.step.Last())
		}
		if test.step.StepType.String() != test.name {
			t.Errorf("string: \n\twant(%v) \n\thave(%v)", test.name,
				test.step.StepType.String())
		}
	}
}

func TestIsZero(t *testing.T) {
	if !(TimeStep{}).IsZero() {
		t.Error("isZero: zero TimeStep should be zero")
	}

	step := New(First, 0, 1.0, mat.NewVecDense(1, nil), 0)
	if step.IsZero() {
		t.Error("isZero: TimeStep with an observation should not be zero")
	}
}
