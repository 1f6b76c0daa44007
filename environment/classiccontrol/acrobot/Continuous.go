package acrobot

import (
	"fmt"

	env "github.com/samuelfneumann/godagger/environment"
	ts "github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
)

// Continuous implements the classic control environment Acrobot. In
// this environment, a double hinged and double linked pendulum is
// attached to a single actuated fixed base. Torque can be applied to
// the base to swing the double pendulum (acrobot) around.
//
// Actions are 1-dimensional, the torque applied to the base, and are
// clipped to [MinContinuousAction, MaxContinuousAction].
type Continuous struct {
	*base
}

// NewContinuous returns a new Acrobot environment with continuous
// actions
func NewContinuous(t env.Task, discount float64) (*Continuous,
	ts.TimeStep, error) {
	acrobot, firstStep, err := newBase(t, discount)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newContinuous: %v", err)
	}

	return &Continuous{acrobot}, firstStep, nil
}

// ActionSpec returns the action specification of the environment
func (c *Continuous) ActionSpec() env.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{MinContinuousAction})
	upperBound := mat.NewVecDense(ActionDims, []float64{MaxContinuousAction})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Continuous)
}

// Step takes one environmental step given action a and returns the next
// timestep and whether the episode has ended
func (c *Continuous) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a.Len() != ActionDims {
		return ts.TimeStep{}, true, fmt.Errorf("step: actions should be "+
			"%v-dimensional but got %v", ActionDims, a.Len())
	}

	next, last := c.update(a, c.nextState(a.AtVec(0)))
	return next, last, nil
}
