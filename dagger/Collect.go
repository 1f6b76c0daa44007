package dagger

import (
	"fmt"

	"github.com/samuelfneumann/godagger/dataset"
	env "github.com/samuelfneumann/godagger/environment"
	"github.com/samuelfneumann/godagger/experiment"
	"github.com/samuelfneumann/godagger/experiment/trackers"
	"github.com/samuelfneumann/godagger/expert"
	ts "github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"
)

// recorder is a Policy which records each observation it acts on
// together with the action taken
type recorder struct {
	oracle expert.Oracle
	data   *dataset.Dataset
}

func (r *recorder) SelectAction(t ts.TimeStep) (*mat.VecDense, error) {
	action, err := r.oracle.Label(t.Observation)
	if err != nil {
		return nil, err
	}
	if err := r.data.Append(t.Observation, action); err != nil {
		return nil, err
	}
	return action, nil
}

// Collect runs rollouts of the expert oracle in environment e and
// returns the (observation, expert action) pairs visited, together with
// the return of each rollout. Rollouts are capped at maxSteps steps, or
// at the environment's default step limit if maxSteps is 0. The data of
// each Tracker in t is saved once all rollouts have finished.
func Collect(oracle expert.Oracle, e env.Environment, rollouts,
	maxSteps int, render bool, t ...trackers.Tracker) (*dataset.Dataset,
	[]float64, error) {
	if rollouts < 1 {
		return nil, nil, fmt.Errorf("collect: number of rollouts must be "+
			"positive, got %v", rollouts)
	}
	steps, err := StepLimit(e, maxSteps)
	if err != nil {
		return nil, nil, fmt.Errorf("collect: %v", err)
	}

	data, err := dataset.New(e.ObservationSpec().Dim(), e.ActionSpec().Dim())
	if err != nil {
		return nil, nil, fmt.Errorf("collect: %v", err)
	}
	online, err := experiment.NewOnline(e, &recorder{oracle, data}, steps, t)
	if err != nil {
		return nil, nil, fmt.Errorf("collect: %v", err)
	}
	online.SetRender(render)

	returns, err := online.Run(rollouts)
	if err != nil {
		return nil, nil, fmt.Errorf("collect: %v", err)
	}
	if err := online.Save(); err != nil {
		return nil, nil, fmt.Errorf("collect: could not save tracked "+
			"data: %v", err)
	}
	klog.Infof("collected %d expert samples over %d rollouts", data.Len(),
		rollouts)
	return data, returns, nil
}
