package cartpole

import (
	"math"

	env "github.com/samuelfneumann/godagger/environment"
	ts "github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	FailAngle float64 = 12 * 2 * math.Pi / 360
)

// Balance implements the classic control Cartpole Balance task. In this
// Task, the goal of the agent is to balance the pole on the cart in
// an upright position for as long as possible.
//
// The rewards are +1 for every timestep on which the pole is within
// the fail angle θ of upright, and -1 otherwise.
//
// Episodes end after a step limit, after the pole has fallen past the
// fail angle, or after the cart reaches the end of the track.
type Balance struct {
	env.Starter
	stepLimiter     *env.StepLimit
	positionLimiter *env.IntervalLimit
	angleLimiter    *env.IntervalLimit
	failAngle       float64
}

// NewBalance creates and returns a new Balance task
func NewBalance(s env.Starter, episodeSteps int, failAngle float64) *Balance {
	stepLimiter := env.NewStepLimit(episodeSteps)

	// The cart is stopped at the track ends, so strictly inside them
	// means still in play
	edge := math.Nextafter(PositionBounds, 0)
	positionLimiter := env.NewIntervalLimit(
		[]r1.Interval{{Min: -edge, Max: edge}}, []int{0})
	angleLimiter := env.NewIntervalLimit(
		[]r1.Interval{{Min: -failAngle, Max: failAngle}}, []int{2})

	return &Balance{s, stepLimiter, positionLimiter, angleLimiter, failAngle}
}

// End checks if a TimeStep is the last in an episode. If so, it adjusts
// the TimeStep's StepType to timestep.Last and returns true. Otherwise,
// the function does not adjust the TimeStep and returns false.
func (b *Balance) End(t *ts.TimeStep) bool {
	return b.angleLimiter.End(t) || b.positionLimiter.End(t) ||
		b.stepLimiter.End(t)
}

// MaxSteps returns the step limit of the task
func (b *Balance) MaxSteps() int {
	return b.stepLimiter.MaxSteps()
}

// GetReward returns the reward for an action taken in some state,
// resulting in a transition to the next state nextState.
func (b *Balance) GetReward(_ mat.Vector, _ mat.Vector,
	nextState mat.Vector) float64 {
	angle := math.Abs(nextState.AtVec(2))

	// Angle of 0 is pointing straight up
	if angle < b.failAngle {
		return 1.0
	}
	return -1.0
}

// AtGoal returns whether or not the pole is balanced
func (b *Balance) AtGoal(state mat.Matrix) bool {
	return math.Abs(state.At(2, 0)) < b.failAngle
}
