package mountaincar

import (
	"fmt"

	env "github.com/samuelfneumann/godagger/environment"
	ts "github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
)

// Continuous implements the classic control Mountain Car environment.
// In this environment, the agent controls a car in a valley between two
// hills. The car is underpowered and cannot drive up the hill unless
// it rocks back and forth from hill to hill, using its momentum to
// gradually climb higher.
//
// State features consist of the x position of the car and its velocity.
// The sign of the velocity denotes direction, with negative meaning
// that the car is travelling left. Upon reaching the left wall, the
// velocity of the car is set to 0.
//
// Actions are 1-dimensional and continuous, the force to apply to the
// car. Actions are clipped to [MinContinuousAction,
// MaxContinuousAction].
type Continuous struct {
	*base
}

// NewContinuous creates a new Continuous action Mountain Car
// environment with the argument task
func NewContinuous(t env.Task, discount float64) (*Continuous,
	ts.TimeStep, error) {
	baseEnv, firstStep, err := newBase(t, discount)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newContinuous: %v", err)
	}

	return &Continuous{baseEnv}, firstStep, nil
}

// ActionSpec returns the action specification of the environment
func (m *Continuous) ActionSpec() env.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{MinContinuousAction})
	upperBound := mat.NewVecDense(ActionDims, []float64{MaxContinuousAction})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Continuous)
}

// Step takes one environmental step given action a and returns the next
// timestep and whether the episode has ended
func (m *Continuous) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a.Len() != ActionDims {
		return ts.TimeStep{}, true, fmt.Errorf("step: actions should be "+
			"%v-dimensional but got %v", ActionDims, a.Len())
	}

	force := a.AtVec(0)
	if force > MaxContinuousAction {
		force = MaxContinuousAction
	} else if force < MinContinuousAction {
		force = MinContinuousAction
	}

	nextStep, last := m.update(a, m.nextState(force))
	return nextStep, last, nil
}
