package trackers

import (
	"github.com/samuelfneumann/godagger/timestep"
)

// EpisodeLength tracks and saves the number of environment steps taken
// in each rollout
type EpisodeLength struct {
	current        int
	open           bool
	episodeLengths []int
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength tracker which will save
// its data at the specified location filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track records the step number of t. The first timestep of a rollout
// has number 0, so a rollout's length is the number of its last
// timestep.
func (e *EpisodeLength) Track(t timestep.TimeStep) {
	e.current = t.Number
	e.open = true
	if t.Last() {
		e.EndEpisode()
	}
}

// EndEpisode records the length of the current rollout. Calling
// EndEpisode when no rollout is open does nothing.
func (e *EpisodeLength) EndEpisode() {
	if !e.open {
		return
	}
	e.episodeLengths = append(e.episodeLengths, e.current)
	e.current = 0
	e.open = false
}

// Lengths returns the lengths of all finished rollouts, in order
func (e *EpisodeLength) Lengths() []int {
	return append([]int{}, e.episodeLengths...)
}

// Total returns the total number of steps over all finished rollouts
func (e *EpisodeLength) Total() int {
	total := 0
	for _, l := range e.episodeLengths {
		total += l
	}
	return total
}

// Reset discards all tracked lengths
func (e *EpisodeLength) Reset() {
	e.episodeLengths = nil
	e.current = 0
	e.open = false
}

// Save saves the data tracked by the EpisodeLength Tracker to disk.
func (e *EpisodeLength) Save() error {
	return save(e.filename, e.episodeLengths)
}
