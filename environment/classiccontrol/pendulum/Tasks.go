package pendulum

import (
	"math"

	"github.com/samuelfneumann/godagger/environment"
	"gonum.org/v1/gonum/mat"
)

// SwingUp implements a task where the agent must swing the pendulum up
// and hold it in a vertical position. Rewards are the cosine of the
// pendulum angle measured from the positive y-axis. The goal state
// is the pendulum sticking straight up, at which point the agent gets
// a reward of 1.0 on each timestep
type SwingUp struct {
	environment.Starter
	*environment.StepLimit
}

// NewSwingUp creates and returns a new SwingUp task
func NewSwingUp(s environment.Starter, maxSteps int) *SwingUp {
	return &SwingUp{s, environment.NewStepLimit(maxSteps)}
}

// GetReward gets the reward for the transition to nextState
func (s *SwingUp) GetReward(_, _ mat.Vector, nextState mat.Vector) float64 {
	return math.Cos(nextState.AtVec(0))
}

// AtGoal determines whether or not the current state is the goal state
func (s *SwingUp) AtGoal(state mat.Matrix) bool {
	return state.At(0, 0) == 0
}
