package mountaincar

import (
	"github.com/samuelfneumann/godagger/environment"
	"github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
)

const (
	// Commonly used goal position
	GoalPosition float64 = 0.45

	// GoalReward is the reward for reaching the goal
	GoalReward float64 = 100.0

	// ActionCost scales the squared force subtracted from each reward
	ActionCost float64 = 0.1
)

// Goal implements the classic control task of reaching a goal on
// Mountain Car. In this task, the agent must drive the car up the
// hill and reach the goal position.
//
// Rewards are -ActionCost times the squared force on each timestep,
// plus GoalReward for the action which transitions the car to the
// goal. Episodes end after a step limit or when the car reaches the
// goal.
type Goal struct {
	environment.Starter
	goalEnder *environment.FunctionEnder
	stepEnder *environment.StepLimit
	goalX     float64
}

// NewGoal creates and returns a new Goal struct given a Starter, which
// determines the starting states; the maximum number of episode
// steps; and the goal x position.
func NewGoal(s environment.Starter, episodeSteps int, goalX float64) *Goal {
	stepEnder := environment.NewStepLimit(episodeSteps)

	goalEnder := environment.NewFunctionEnder(func(obs *mat.VecDense) bool {
		return obs.AtVec(0) >= goalX
	})
	return &Goal{s, goalEnder, stepEnder, goalX}
}

// AtGoal returns whether the argument state is at the goal
func (g *Goal) AtGoal(state mat.Matrix) bool {
	return state.At(0, 0) >= g.goalX
}

// GetReward returns the reward for the force in action resulting in
// nextState
func (g *Goal) GetReward(_ mat.Vector, action mat.Vector,
	nextState mat.Vector) float64 {
	force := action.AtVec(0)
	reward := -ActionCost * force * force

	if nextState.AtVec(0) >= g.goalX {
		reward += GoalReward
	}
	return reward
}

// MaxSteps returns the number of steps after which episodes are cut off
func (g *Goal) MaxSteps() int {
	return g.stepEnder.MaxSteps()
}

// End determines if a timestep is the last timestep in the episode,
// either because the goal was reached or because of the step limit.
// If so, it changes the TimeStep's StepType to timestep.Last.
func (g *Goal) End(t *timestep.TimeStep) bool {
	if g.goalEnder.End(t) {
		return true
	}
	return g.stepEnder.End(t)
}
