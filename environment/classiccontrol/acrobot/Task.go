package acrobot

import (
	"math"

	"github.com/samuelfneumann/godagger/environment"
	ts "github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
)

const (
	// GoalHeight is the height above the fixed base that the tip of the
	// second link must reach in the classic control problem
	GoalHeight float64 = LinkLength1

	maxReward, minReward float64 = 0.0, -1.0
)

// SwingUp implements the classic control Acrobot task where the
// agent must swing the tip of the second link above some set
// height.
//
// A reward of -1.0 is given on all timesteps except for the timestep
// which transitions the tip above the goal line, which is rewarded
// with 0.0. Episodes end when the tip swings above the goal height or
// a step limit is reached.
type SwingUp struct {
	environment.Starter
	stepLimit  *environment.StepLimit
	goalHeight float64
	lineEnder  *environment.FunctionEnder
}

// NewSwingUp returns a new SwingUp task with start state distribution
// defined by s, episodic step limit stepLimit, and goal height
// goalHeight
func NewSwingUp(s environment.Starter, stepLimit int,
	goalHeight float64) *SwingUp {
	task := &SwingUp{
		Starter:    s,
		stepLimit:  environment.NewStepLimit(stepLimit),
		goalHeight: goalHeight,
	}
	task.lineEnder = environment.NewFunctionEnder(func(obs *mat.VecDense) bool {
		return task.aboveLine(obs)
	})
	return task
}

// TipHeight returns the height of the tip of the second link above the
// fixed base in the argument state
func TipHeight(state mat.Vector) float64 {
	theta1, theta2 := state.AtVec(0), state.AtVec(1)
	return -LinkLength1*math.Cos(theta1) - LinkLength2*math.Cos(theta1+theta2)
}

func (s *SwingUp) aboveLine(state mat.Vector) bool {
	return TipHeight(state) > s.goalHeight
}

// AtGoal returns whether the argument state is a goal state
func (s *SwingUp) AtGoal(state mat.Matrix) bool {
	r, _ := state.Dims()
	obs := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		obs.SetVec(i, state.At(i, 0))
	}
	return s.aboveLine(obs)
}

// MaxSteps returns the number of steps after which episodes are cut off
func (s *SwingUp) MaxSteps() int {
	return s.stepLimit.MaxSteps()
}

// End determines if a timestep is the last timestep in the episode.
// If so, it changes the TimeStep's StepType to timestep.Last.
func (s *SwingUp) End(t *ts.TimeStep) bool {
	if s.lineEnder.End(t) {
		return true
	}
	return s.stepLimit.End(t)
}

// GetReward returns the reward for the transition into nextState
func (s *SwingUp) GetReward(_, _, nextState mat.Vector) float64 {
	if s.aboveLine(nextState) {
		return maxReward
	}
	return minReward
}
