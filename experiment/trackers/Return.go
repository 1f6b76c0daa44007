package trackers

import (
	"fmt"

	ts "github.com/samuelfneumann/godagger/timestep"
)

// Return tracks and saves the return of each rollout. When an
// environment returns a TimeStep, this Tracker will extract the reward
// and accumulate the return of the rollout.
//
// A rollout ends either when a Last TimeStep is tracked or when
// EndEpisode is called, so rollouts truncated at a step cap are
// recorded as well.
type Return struct {
	lastTimeStep   int
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker which saves to
// filename
func NewReturn(filename string) *Return {
	return &Return{
		lastTimeStep: -1,
		filename:     filename,
	}
}

// Track tracks the rewards seen on a timestep. The reward of the first
// timestep of a rollout is included in the return, environments report
// a reward of 0 on reset.
//
// Track panics if it is called for non-sequential timesteps
func (r *Return) Track(step ts.TimeStep) {
	if r.lastTimeStep+1 != step.Number {
		msg := fmt.Sprintf("track: last two timesteps tracked are not "+
			"sequential: timestep %v --> timestep %v were tracked",
			r.lastTimeStep, step.Number)
		panic(msg)
	}

	r.currentReturn += step.Reward
	r.lastTimeStep = step.Number

	if step.Last() {
		r.EndEpisode()
	}
}

// EndEpisode records the return of the current rollout and starts a
// new one. Calling EndEpisode when no rollout is open does nothing.
func (r *Return) EndEpisode() {
	if r.lastTimeStep < 0 {
		return
	}
	r.episodeReturns = append(r.episodeReturns, r.currentReturn)
	r.currentReturn = 0.0
	r.lastTimeStep = -1
}

// Returns returns the returns of all finished rollouts, in order
func (r *Return) Returns() []float64 {
	return append([]float64{}, r.episodeReturns...)
}

// Reset discards all tracked returns
func (r *Return) Reset() {
	r.episodeReturns = nil
	r.currentReturn = 0
	r.lastTimeStep = -1
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return) Save() error {
	return save(r.filename, r.episodeReturns)
}
