package cartpole

import (
	"testing"

	ts "github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
)

// fixed starts every episode in the same state
type fixed []float64

func (f fixed) Start() *mat.VecDense {
	return mat.NewVecDense(len(f), append([]float64{}, f...))
}

func TestBalanceStepLimit(t *testing.T) {
	// The upright pole at rest is an equilibrium
	task := NewBalance(fixed{0, 0, 0, 0}, 10, FailAngle)
	c, step, err := NewContinuous(task, 0.99)
	if err != nil {
		t.Fatal(err)
	}
	if !step.First() || step.Number != 0 {
		t.Errorf("want first timestep have %v", step)
	}
	if c.MaxSteps() != 10 {
		t.Errorf("want step limit 10 have %v", c.MaxSteps())
	}

	var done bool
	steps := 0
	for !done {
		step, done, err = c.Step(mat.NewVecDense(1, []float64{0}))
		if err != nil {
			t.Fatal(err)
		}
		steps++
		if step.Reward != 1 {
			t.Errorf("want reward 1 have %v", step.Reward)
		}
	}
	if steps != 10 || !step.Last() {
		t.Errorf("want 10 steps ending in a last timestep have %v, %v",
			steps, step)
	}
}

func TestBalanceFall(t *testing.T) {
	task := NewBalance(fixed{0, 0, 0.01, 0}, 1000, FailAngle)
	c, _, err := NewContinuous(task, 0.99)
	if err != nil {
		t.Fatal(err)
	}

	// Pushing the cart right tips the pole left, out of balance
	var step ts.TimeStep
	var done bool
	for steps := 0; !done; steps++ {
		if steps >= 1000 {
			t.Fatal("pole never fell")
		}
		step, done, err = c.Step(mat.NewVecDense(1, []float64{5}))
		if err != nil {
			t.Fatal(err)
		}
	}
	if step.Number >= 1000 {
		t.Errorf("episode ended by the step limit at %v", step.Number)
	}
	if c.ObservationSpec().Dim() != 4 || c.ActionSpec().Dim() != 1 {
		t.Error("wrong specification dimensions")
	}

	if _, _, err := c.Step(mat.NewVecDense(2, nil)); err == nil {
		t.Error("expected error for 2-dimensional action")
	}

	step, err = c.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if !step.First() || step.Observation.AtVec(2) != 0.01 {
		t.Errorf("reset did not restart the episode: %v", step)
	}
}

func TestInvalidStart(t *testing.T) {
	task := NewBalance(fixed{10, 0, 0, 0}, 10, FailAngle)
	if _, _, err := NewContinuous(task, 0.99); err == nil {
		t.Error("expected error for start outside the track")
	}
}
