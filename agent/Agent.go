// Package agent defines the policies that act in environments
package agent

import (
	"github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
)

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. A Policy returns an
// error if it cannot produce an action for the observation of the
// argument TimeStep, for example because the observation has the
// wrong number of features.
type Policy interface {
	SelectAction(t timestep.TimeStep) (*mat.VecDense, error)
}

// PolicyFunc adapts an ordinary function to the Policy interface
type PolicyFunc func(obs mat.Vector) (*mat.VecDense, error)

// SelectAction returns f applied to the observation of t
func (f PolicyFunc) SelectAction(t timestep.TimeStep) (*mat.VecDense, error) {
	return f(t.Observation)
}
