// Package experiment implements running a policy in an environment
// for a number of episodes, tracking the data the episodes generate.
package experiment

import (
	ts "github.com/samuelfneumann/godagger/timestep"
)

// Experiment runs episodes of some policy in some environment.
// Experiments send each TimeStep to Trackers using the Tracker's
// Track() method, which determine which data from the TimeStep is
// kept.
type Experiment interface {
	// RunEpisode runs a single episode and returns its return
	RunEpisode() (float64, error)

	// Run runs episodes episodes and returns their returns
	Run(episodes int) ([]float64, error)
}

// Observer is notified of each TimeStep on which the policy of an
// Experiment selects an action, before the action is selected. The
// last TimeStep of an episode is never observed since no action is
// taken on it. An error returned by an Observer aborts the Experiment.
type Observer interface {
	Observe(t ts.TimeStep) error
}

// ObserverFunc adapts an ordinary function to the Observer interface
type ObserverFunc func(t ts.TimeStep) error

// Observe returns f(t)
func (f ObserverFunc) Observe(t ts.TimeStep) error {
	return f(t)
}
