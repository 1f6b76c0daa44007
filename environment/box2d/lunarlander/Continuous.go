package lunarlander

import (
	"github.com/samuelfneumann/godagger/environment"
	"github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
)

// Continuous implements the lunar lander environment. In this
// environment, an agent can fly a ship within a set bounding box
// viewport. At the bottom of the viewport is the moon, and the agent
// can land the ship on the moon. There is a landing pad on the moon,
// which is a completely horizontal portion of the moon and it is
// always located at the point (0, 0).
//
// State observations are vectors consisting of the following features
// in the following order:
//
//	1. The x distance from the lander to the center of the viewport
//	   Bounds: [-1, 1]
//	2. The y distance from the lander to the landing pad
//	   Bounds: [0, 1]
//	   Technically, the upper bound is ((ViewportH - (Lander.Top -
//	   Lander.Centre) - LegDown)/Scale - l.helipadY) /
//	   (ViewportH/Scale - l.helipadY) due to how the state observation
//	   is constructed, but an approximation of 1.0 is sufficient. The
//	   lander may fly above the viewport, in which case this feature
//	   exceeds 1.
//	3. The x velocity of the lander
//	   Bounds: the bounds depend on the physical constants of the
// 	   Box2D universe. With the defaults in this file, the bounds are
//	   [-20, 20]
//	4. The y velocity of the lander
//	   Bounds: the bounds depend on the physical constants of the
// 	   Box2D universe. With the defaults in this file, the bounds are
//	   [-20, 20]
//	5. The angle of the lander
//	   Bounds: normalized between [-π, π]
//	6. The angular velocity of the lander
//	   Bounds: [-40, 40]
//	7. Whether the left leg has contact with the ground
//	   Bounds: feature in the set {0, 1}
//	8. Whether the right leg has contact with the ground
//	   Bounds: feature in the set {0, 1}
//
// More information on the Lunar Lander environment can be found at:
// https://gym.openai.com/envs/LunarLander-v2/
// https://gym.openai.com/envs/LunarLanderContinuous-v2/
//
// This implementation draws a boundary around the viewport which the
// lander does not collide with. Leaving the viewport through either
// side ends the episode. The lander angle is normalized to [-π, π],
// and the y position is normalized by the distance from the landing pad
// to the top of the viewport. Observation bounds therefore differ
// from those of the OpenAI Gym implementation.
//
// Any Task used in this struct must have a specific range of values
// for its Starter. The Starter should return a vector of 3 elements
// in the following order:
//
//	1. The x position to start at in the Box2D world. The specific
//	   values that this element can take on must be in the interval
//	   [0.05 * (ViewportW / Scale), 0.95 * (ViewportW / Scale)].
//	   The default value to use in the Starter is InitialX for the
//	   lower and upper bounds.
//	2. The y position to start at in the Box2D world. The specific
//	   values that this element can take on must be in the interval
//	   [ViewportH / Scale / 2, InitialY].
//	   The default value to use in the Starter is InitialY for the
//	   lower and upper bounds.
//	3. The initial random force to apply to the lander. This can be any
//	   value, but the default is InitialRandom for the lower and
//	   upper bounds for the Starter.
//
// Actions are 2-dimensional and continuous. The first coordinate
// corresponds to power that the main engine should apply and is
// bounded between [-1, 1]. The sub-interval [-1, 0] results in the
// main engine staying off. The sub-interval (0, 1) throttles the
// main engine from 50% to 100% power. The second action coordinate
// corresponds to the power to apply to one of the orientation/side
// engines. The interval [-1, -0.5) fires the left engine from 100% to
// 50% power. The interval [-0.5, 0.5] results in both orientation
// engines being off. The interval (0.5, 1.0] fires the right engine
// from 50% to 100% power. Actions in each dimension outside of the
// range [-1, 1] are clipped.
//
// Continuous implements the environment.Environment interface.
type Continuous struct {
	*lunarLander
}

// NewContinuous returns a new lunar lander environment with continuous
// actions and the first TimeStep of its first episode
func NewContinuous(task environment.Task, discount float64,
	seed uint64) (*Continuous, timestep.TimeStep, error) {
	l, step, err := newLunarLander(task, discount, seed)
	if err != nil {
		return nil, timestep.TimeStep{}, err
	}
	return &Continuous{l}, step, nil
}

// ActionSpec returns the action specification of the environment
func (c *Continuous) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{
		MinContinuousAction,
		MinContinuousAction,
	})
	upperBound := mat.NewVecDense(ActionDims, []float64{
		MaxContinuousAction,
		MaxContinuousAction,
	})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Continuous)
}
