// Package environment outlines the interfaces and structs needed to
// implement concrete environments.
//
// An Environment is stateful and must be reset before each episode.
// Environments which know their own default episode length implement
// StepLimiter, and environments which can be visualized implement
// Renderer.
package environment

import (
	ts "github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when an episode should end. If End returns true,
// it must also set the StepType of the argument TimeStep to
// timestep.Last.
type Ender interface {
	End(*ts.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment as well as the starting and ending conditions of episodes
type Task interface {
	Starter
	Ender
	GetReward(state, action, nextState mat.Vector) float64
	AtGoal(state mat.Matrix) bool
}

// Environment implements a simulated environment
type Environment interface {
	// Reset resets the environment between episodes and returns the
	// first TimeStep of the next episode
	Reset() (ts.TimeStep, error)

	// Step takes one environmental step given some action, returning
	// the next TimeStep and whether the episode has ended
	Step(action *mat.VecDense) (ts.TimeStep, bool, error)

	CurrentTimeStep() ts.TimeStep
	ObservationSpec() Spec
	ActionSpec() Spec
	DiscountSpec() Spec
}

// Renderer is an Environment that can be visualized
type Renderer interface {
	Environment
	Render() error
}

// StepLimiter is an Environment with a default episode step limit
type StepLimiter interface {
	Environment
	MaxSteps() int
}

// Closer is an Environment which holds resources that must be released
// once the environment is no longer needed
type Closer interface {
	Environment
	Close() error
}

// TaskStepLimit returns the number of steps after which the Task or
// Ender t ends episodes, or 0 if t does not limit the number of steps
func TaskStepLimit(t Ender) int {
	if l, ok := t.(interface{ MaxSteps() int }); ok {
		return l.MaxSteps()
	}
	return 0
}
