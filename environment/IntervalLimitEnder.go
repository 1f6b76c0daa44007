package environment

import (
	"fmt"

	ts "github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/spatial/r1"
)

// IntervalLimit implements the Ender interface to end episodes
// whenever a single feature in a feature vector leaves some interval
type IntervalLimit struct {
	intervals []r1.Interval
	indices   []int
}

// NewIntervalLimit creates and returns a new inteval limit. Episodes
// end when observation feature obsIndices[i] leaves limits[i].
func NewIntervalLimit(limits []r1.Interval, obsIndices []int) *IntervalLimit {
	if len(limits) != len(obsIndices) {
		panic(fmt.Sprintf("newIntervalLimit: limits should have same "+
			"length as observation indices \n\twant(%v) \n\thave(%v)",
			len(obsIndices), len(limits)))
	}

	return &IntervalLimit{limits, obsIndices}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode temrination. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last.
func (i *IntervalLimit) End(t *ts.TimeStep) bool {
	for index := range i.indices {
		featureIndex := i.indices[index]
		interval := i.intervals[index]

		if t.Observation.AtVec(featureIndex) > interval.Max ||
			t.Observation.AtVec(featureIndex) < interval.Min {
			t.StepType = ts.Last
			return true
		}
	}
	return false
}
