// Package cartpole implements the Cartpole classic control environment
package cartpole

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/godagger/environment"
	ts "github.com/samuelfneumann/godagger/timestep"
	"github.com/samuelfneumann/godagger/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// Physical constants
	Gravity        float64 = 9.8
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	TotalMass      float64 = CartMass + PoleMass
	HalfPoleLength float64 = 0.5  // half of pole length
	ForceMag       float64 = 10.0 // Magnification of force applied
	Dt             float64 = 0.02 // seconds between state updates

	// Bounds (+/-) on state variabels
	PositionBounds        float64 = 2.4
	SpeedBounds           float64 = math.MaxFloat64
	AngleBounds           float64 = math.Pi
	AngularVelocityBounds float64 = math.MaxFloat64

	MinContinuousAction float64 = -1.0
	MaxContinuousAction float64 = 1.0

	ObservationDims int = 4
	ActionDims      int = 1
)

// base implements the physics of the Cartpole environment. Concrete
// Cartpole environments embed a base and convert their actions into a
// direction and magnitude of force in [-1, 1].
type base struct {
	env.Task
	lastStep              ts.TimeStep
	discount              float64
	positionBounds        r1.Interval
	speedBounds           r1.Interval
	angleBounds           r1.Interval
	angularVelocityBounds r1.Interval
}

// newBase constructs a new base Cartpole environment
func newBase(t env.Task, discount float64) (*base, ts.TimeStep, error) {
	c := &base{
		Task:           t,
		discount:       discount,
		positionBounds: r1.Interval{Min: -PositionBounds, Max: PositionBounds},
		speedBounds:    r1.Interval{Min: -SpeedBounds, Max: SpeedBounds},
		angleBounds:    r1.Interval{Min: -AngleBounds, Max: AngleBounds},
		angularVelocityBounds: r1.Interval{Min: -AngularVelocityBounds,
			Max: AngularVelocityBounds},
	}

	firstStep, err := c.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, err
	}
	return c, firstStep, nil
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (c *base) Reset() (ts.TimeStep, error) {
	state := c.Start()
	if err := c.validateState(state); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}

	c.lastStep = ts.New(ts.First, 0, c.discount, state, 0)
	return c.lastStep, nil
}

// CurrentTimeStep returns the last TimeStep that occurred in the
// environment
func (c *base) CurrentTimeStep() ts.TimeStep {
	return c.lastStep
}

// MaxSteps returns the step limit of the environment's Task
func (c *base) MaxSteps() int {
	return env.TaskStepLimit(c.Task)
}

// ObservationSpec returns the observation specification of the
// environment
func (c *base) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)

	lower := []float64{c.positionBounds.Min, c.speedBounds.Min,
		c.angleBounds.Min, c.angularVelocityBounds.Min}
	lowerBound := mat.NewVecDense(ObservationDims, lower)

	upper := []float64{c.positionBounds.Max, c.speedBounds.Max,
		c.angleBounds.Max, c.angularVelocityBounds.Max}
	upperBound := mat.NewVecDense(ObservationDims, upper)

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (c *base) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{c.discount})
	upperBound := mat.NewVecDense(1, []float64{c.discount})

	return env.NewSpec(shape, env.Discount, lowerBound, upperBound,
		env.Continuous)
}

// nextState computes the next state of the environment when force is
// applied to the cart in the given direction. The direction is in
// [-1, 1] and scales the force magnitude.
func (c *base) nextState(direction float64) *mat.VecDense {
	state := c.lastStep.Observation
	x, xDot := state.AtVec(0), state.AtVec(1)
	th, thDot := state.AtVec(2), state.AtVec(3)

	force := direction * ForceMag

	// Calculate physical variables to determine next state
	cosTheta := math.Cos(th)
	sinTheta := math.Sin(th)

	poleMassOverLength := PoleMass * HalfPoleLength

	temp := (force + poleMassOverLength*thDot*thDot*sinTheta) / TotalMass
	thAcc := (Gravity*sinTheta - cosTheta*temp) / (HalfPoleLength *
		(4.0/3.0 - PoleMass*cosTheta*cosTheta/TotalMass))
	xAcc := temp - poleMassOverLength*thAcc*cosTheta/TotalMass

	// Update state variables using Euler kinematic integration
	x += Dt * xDot
	xDot += Dt * xAcc
	th += Dt * thDot
	thDot += Dt * thAcc

	// The cart stops at the ends of the track
	if x < c.positionBounds.Min || x > c.positionBounds.Max {
		x = floatutils.ClipInterval(x, c.positionBounds)
		xDot = 0
	}
	th = floatutils.Wrap(th, c.angleBounds.Min, c.angleBounds.Max)

	return mat.NewVecDense(ObservationDims, []float64{x, xDot, th, thDot})
}

// update transitions the environment to nextState after action was
// taken and returns the resulting TimeStep
func (c *base) update(action mat.Vector, nextState *mat.VecDense) (
	ts.TimeStep, bool, error) {
	reward := c.GetReward(c.lastStep.Observation, action, nextState)
	nextStep := ts.New(ts.Mid, reward, c.discount, nextState,
		c.lastStep.Number+1)

	// Check if the step ends the episode
	c.End(&nextStep)

	c.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// validateState ensures that a state observation is valid and between
// the physical bounds of the Cartpole environment
func (c *base) validateState(obs mat.Vector) error {
	if obs.Len() != ObservationDims {
		return fmt.Errorf("state should have %v features but has %v",
			ObservationDims, obs.Len())
	}

	bounds := []r1.Interval{c.positionBounds, c.speedBounds, c.angleBounds,
		c.angularVelocityBounds}
	names := []string{"position", "speed", "angle", "angular velocity"}
	for i := range bounds {
		if obs.AtVec(i) < bounds[i].Min || obs.AtVec(i) > bounds[i].Max {
			return fmt.Errorf("%v %v is not within bounds %v", names[i],
				obs.AtVec(i), bounds[i])
		}
	}
	return nil
}

func (c *base) String() string {
	msg := "Cartpole  |  Position: %v  | Speed: %v  |  Angle: %v" +
		"  |  Angular Velocity: %v"

	state := c.lastStep.Observation
	position, speed := state.AtVec(0), state.AtVec(1)
	angle, velocity := state.AtVec(2), state.AtVec(3)

	return fmt.Sprintf(msg, position, speed, angle, velocity)
}
