package acrobot

import (
	"math"
	"testing"

	"github.com/samuelfneumann/godagger/environment"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func starter(state ...float64) environment.Starter {
	bounds := make([]r1.Interval, len(state))
	for i, s := range state {
		bounds[i] = r1.Interval{Min: s, Max: s}
	}
	return environment.NewUniformStarter(bounds, 1)
}

func TestSwingUpStepLimit(t *testing.T) {
	const steps = 15
	a, _, err := NewContinuous(NewSwingUp(starter(0, 0, 0, 0), steps,
		GoalHeight), 1)
	if err != nil {
		t.Fatal(err)
	}
	if a.MaxSteps() != steps {
		t.Errorf("want max steps %v have %v", steps, a.MaxSteps())
	}

	for i := 1; i <= steps; i++ {
		step, last, err := a.Step(mat.NewVecDense(ActionDims, nil))
		if err != nil {
			t.Fatal(err)
		}
		if step.Reward != minReward {
			t.Fatalf("step %v: want reward %v have %v", i, minReward,
				step.Reward)
		}
		if last != (i == steps) {
			t.Fatalf("step %v: want last %v have %v", i, i == steps, last)
		}

		// Without torque the acrobot hangs at rest
		if h := TipHeight(step.Observation); math.Abs(h+2) > 1e-6 {
			t.Fatalf("step %v: want tip height -2 have %v", i, h)
		}
	}
}

func TestSwingUpGoal(t *testing.T) {
	a, _, err := NewContinuous(NewSwingUp(starter(math.Pi, 0, 0, 0), 100,
		GoalHeight), 1)
	if err != nil {
		t.Fatal(err)
	}

	step, last, err := a.Step(mat.NewVecDense(ActionDims, []float64{1}))
	if err != nil {
		t.Fatal(err)
	}
	if !last || step.Reward != maxReward {
		t.Errorf("want goal reached with reward %v have last %v reward %v",
			maxReward, last, step.Reward)
	}
	if !a.AtGoal(step.Observation) {
		t.Error("state above the goal line is not at the goal")
	}
}

func TestBounds(t *testing.T) {
	a, _, err := NewContinuous(NewSwingUp(starter(0, 0, 0, 0), 200,
		GoalHeight), 1)
	if err != nil {
		t.Fatal(err)
	}

	spec := a.ObservationSpec()
	action := mat.NewVecDense(ActionDims, []float64{10})
	for i := 0; i < 200; i++ {
		step, last, err := a.Step(action)
		if err != nil {
			t.Fatal(err)
		}
		for j := 0; j < ObservationDims; j++ {
			v := step.Observation.AtVec(j)
			if v < spec.LowerBound.AtVec(j) || v > spec.UpperBound.AtVec(j) {
				t.Fatalf("step %v: feature %v = %v out of bounds", i, j, v)
			}
		}
		if last {
			break
		}
	}

	if _, _, err := a.Step(mat.NewVecDense(2, nil)); err == nil {
		t.Error("expected error stepping with 2-dimensional action")
	}
}

func TestInvalidStart(t *testing.T) {
	tests := map[string]environment.Starter{
		"dims":     starter(0, 0),
		"angle":    starter(4, 0, 0, 0),
		"velocity": starter(0, 0, 0, 10*math.Pi),
	}
	for name, s := range tests {
		if _, _, err := NewContinuous(NewSwingUp(s, 10, GoalHeight),
			1); err == nil {
			t.Errorf("%v: expected error from invalid start", name)
		}
	}
}
