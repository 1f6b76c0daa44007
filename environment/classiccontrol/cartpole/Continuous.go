package cartpole

import (
	"fmt"

	env "github.com/samuelfneumann/godagger/environment"
	ts "github.com/samuelfneumann/godagger/timestep"
	"github.com/samuelfneumann/godagger/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

// Continuous implements the classic control environment Cartpole with
// continuous actions. In this environment, a pole is attached to a
// cart, which can move horizontally along a track. Gravity pulls the
// pole downwards so that balancing it in an upright position is very
// difficult.
//
// The state features are continuous and consist of the cart's x
// position and speed, as well as the pole's angle from the positive
// y-axis and the pole's angular velocity. Upon reaching an end of the
// track, the cart stops. The pole's angle is wrapped so that it stays
// in [-π, π).
//
// Actions are 1-dimensional and continuous, consisting of the
// direction and magnitude of force to apply to the cart. Actions are
// bounded in [-1, 1], and actions outside this range are clipped.
type Continuous struct {
	*base
}

// NewContinuous constructs a new Cartpole environment with continuous
// actions
func NewContinuous(t env.Task, discount float64) (*Continuous,
	ts.TimeStep, error) {
	base, firstStep, err := newBase(t, discount)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newContinuous: %v", err)
	}
	return &Continuous{base}, firstStep, nil
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
// state as a timestep.TimeStep and a bool indicating whether or not the
// episode has ended
func (c *Continuous) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a.Len() != ActionDims {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions should be "+
			"%v-dimensional but got %v", ActionDims, a.Len())
	}

	direction := floatutils.Clip(a.AtVec(0), MinContinuousAction,
		MaxContinuousAction)

	return c.update(a, c.nextState(direction))
}
