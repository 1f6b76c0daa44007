package experiment

import (
	"fmt"

	"github.com/samuelfneumann/godagger/agent"
	env "github.com/samuelfneumann/godagger/environment"
	"github.com/samuelfneumann/godagger/experiment/trackers"
	ts "github.com/samuelfneumann/godagger/timestep"
	"k8s.io/klog/v2"
)

// progressInterval is the number of steps between progress log lines
const progressInterval = 100

// Online is an Experiment that runs a fixed policy online. Each
// episode lasts until the environment ends it or until maxSteps steps
// have been taken, whichever comes first.
type Online struct {
	env.Environment
	agent.Policy
	maxSteps  int
	render    bool
	trackers  []trackers.Tracker
	observers []Observer
}

// NewOnline creates and returns a new online experiment of policy p in
// environment e. The steps parameter caps the number of steps of each
// episode and must be positive. The t parameter is a slice of
// trackers.Tracker which determine what data is kept.
func NewOnline(e env.Environment, p agent.Policy, steps int,
	t []trackers.Tracker, o ...Observer) (*Online, error) {
	if steps < 1 {
		return nil, fmt.Errorf("newOnline: step cap must be positive, "+
			"got %v", steps)
	}
	return &Online{
		Environment: e,
		Policy:      p,
		maxSteps:    steps,
		trackers:    t,
		observers:   o,
	}, nil
}

// SetRender sets whether the environment is rendered after each step.
// Environments which cannot be rendered are never rendered.
func (o *Online) SetRender(render bool) {
	o.render = render
}

// Register registers a trackers.Tracker with an Experiment so that
// data generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Observe registers an Observer with the Experiment
func (o *Online) Observe(obs Observer) {
	o.observers = append(o.observers, obs)
}

// RunEpisode runs a single episode of the experiment and returns its
// return
func (o *Online) RunEpisode() (float64, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return 0, fmt.Errorf("runEpisode: could not reset environment: %v",
			err)
	}
	o.track(step)

	var ret float64
	steps := 0
	for {
		for _, obs := range o.observers {
			if err := obs.Observe(step); err != nil {
				return ret, fmt.Errorf("runEpisode: step %v: %v", steps, err)
			}
		}

		action, err := o.Policy.SelectAction(step)
		if err != nil {
			return ret, fmt.Errorf("runEpisode: step %v: could not select "+
				"action: %v", steps, err)
		}

		var done bool
		step, done, err = o.Environment.Step(action)
		if err != nil {
			return ret, fmt.Errorf("runEpisode: step %v: could not step "+
				"environment: %v", steps, err)
		}
		o.track(step)
		ret += step.Reward
		steps++

		if o.render {
			if r, ok := o.Environment.(env.Renderer); ok {
				if err := r.Render(); err != nil {
					return ret, fmt.Errorf("runEpisode: could not render: %v",
						err)
				}
			}
		}

		if steps%progressInterval == 0 {
			klog.V(1).Infof("%d/%d", steps, o.maxSteps)
		}

		if done || step.Last() || steps >= o.maxSteps {
			break
		}
	}

	// Close the episode in trackers for episodes cut short by the cap
	for _, t := range o.trackers {
		t.EndEpisode()
	}
	return ret, nil
}

// Run runs episodes episodes of the experiment
func (o *Online) Run(episodes int) ([]float64, error) {
	returns := make([]float64, 0, episodes)
	for i := 0; i < episodes; i++ {
		klog.V(1).Infof("iter %d", i)
		ret, err := o.RunEpisode()
		if err != nil {
			return returns, fmt.Errorf("run: episode %v: %v", i, err)
		}
		returns = append(returns, ret)
	}
	return returns, nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return err
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}
