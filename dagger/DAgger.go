// Package dagger implements DAgger (Dataset Aggregation) training of a
// regression policy.
//
// Each round, the policy is trained on the aggregated dataset, rolled
// out in an environment, and every observation it visits is labelled
// with the action an expert would take there. The labelled observations
// are appended to the dataset before the next round.
package dagger

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/samuelfneumann/godagger/agent"
	"github.com/samuelfneumann/godagger/dataset"
	env "github.com/samuelfneumann/godagger/environment"
	"github.com/samuelfneumann/godagger/experiment"
	"github.com/samuelfneumann/godagger/experiment/checkpointer"
	"github.com/samuelfneumann/godagger/experiment/trackers"
	"github.com/samuelfneumann/godagger/expert"
	"github.com/samuelfneumann/godagger/regression"
	ts "github.com/samuelfneumann/godagger/timestep"
	"github.com/samuelfneumann/godagger/utils/progressbar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"k8s.io/klog/v2"
)

// Model is a trainable policy
type Model interface {
	Fit(X, Y mat.Matrix, batchSize, epochs int) error
	Evaluate(X, Y mat.Matrix) (float64, error)
	Policy() agent.Policy
	checkpointer.Serializable
}

// Loader loads a Model saved at path
type Loader func(path string) (Model, error)

// LoadRegression loads a regression.Model
func LoadRegression(path string) (Model, error) {
	m, err := regression.Load(path)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// EnvFactory creates a new environment
type EnvFactory func() (env.Environment, error)

// DAgger runs DAgger rounds. A DAgger is not safe for concurrent use.
type DAgger struct {
	config       Config
	data         *dataset.Dataset
	model        Model
	oracle       expert.Oracle
	newEnv       EnvFactory
	checkpointer checkpointer.Checkpointer
	loader       Loader

	stats   []RoundStats
	returns *trackers.Return
	round   int
	out     io.Writer
}

// New returns a new DAgger which trains model on data, aggregating the
// labels of oracle on the environments created by newEnv. The model is
// saved to checkpointer after every round.
func New(c Config, data *dataset.Dataset, model Model, oracle expert.Oracle,
	newEnv EnvFactory, cp checkpointer.Checkpointer) (*DAgger, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if data == nil || data.Len() == 0 {
		return nil, fmt.Errorf("new: initial dataset is empty")
	}
	if model == nil || oracle == nil || newEnv == nil || cp == nil {
		return nil, fmt.Errorf("new: model, oracle, environment factory " +
			"and checkpointer must all be non-nil")
	}

	return &DAgger{
		config:       c,
		data:         data,
		model:        model,
		oracle:       oracle,
		newEnv:       newEnv,
		checkpointer: cp,
		returns:      trackers.NewReturn(c.ReturnsFile),
		out:          os.Stderr,
	}, nil
}

// SetLoader sets the loader used to reload the model from its
// checkpoint before each round's rollouts. Without a loader, rollouts
// use the in-memory model.
func (d *DAgger) SetLoader(l Loader) {
	d.loader = l
}

// SetOutput sets where the progress bar is displayed
func (d *DAgger) SetOutput(w io.Writer) {
	d.out = w
}

// Dataset returns the aggregated dataset
func (d *DAgger) Dataset() *dataset.Dataset {
	return d.data
}

// Model returns the current model
func (d *DAgger) Model() Model {
	return d.model
}

// Stats returns the statistics of all completed rounds
func (d *DAgger) Stats() []RoundStats {
	return append([]RoundStats{}, d.stats...)
}

// Run saves the initial model as the checkpoint of round 0, then runs
// all configured rounds. Any error aborts the run. The statistics of
// the rounds completed before the error are still returned.
func (d *DAgger) Run() ([]RoundStats, error) {
	if d.round == 0 {
		cp, err := d.checkpointer.Checkpoint(0, d.model)
		if err != nil {
			return d.Stats(), fmt.Errorf("run: could not save initial "+
				"model: %v", err)
		}
		klog.V(1).Infof("saved initial model to %v", cp.Path)
	}

	for d.round < d.config.Rounds {
		if _, err := d.Round(); err != nil {
			return d.Stats(), fmt.Errorf("run: %v", err)
		}
	}

	if d.config.ReturnsFile != "" {
		if err := d.returns.Save(); err != nil {
			return d.Stats(), fmt.Errorf("run: could not save returns: %v",
				err)
		}
		klog.V(1).Infof("saved returns to %v", d.config.ReturnsFile)
	}
	return d.Stats(), nil
}

// Round runs the next round of DAgger and returns its statistics
func (d *DAgger) Round() (RoundStats, error) {
	r := d.round + 1
	klog.Infof("round %d/%d", r, d.config.Rounds)

	loss, cp, err := d.train(r)
	if err != nil {
		return RoundStats{}, fmt.Errorf("round %v: %v", r, err)
	}

	if d.loader != nil {
		if err := d.reload(cp); err != nil {
			return RoundStats{}, fmt.Errorf("round %v: %v", r, err)
		}
	}

	buffer, returns, lengths, err := d.rollout(r)
	if err != nil {
		return RoundStats{}, fmt.Errorf("round %v: %v", r, err)
	}

	mean, std := stat.PopMeanStdDev(returns, nil)
	if err := d.data.AppendDataset(buffer); err != nil {
		return RoundStats{}, fmt.Errorf("round %v: could not aggregate "+
			"data: %v", r, err)
	}

	stats := RoundStats{
		Round:          r,
		Mean:           mean,
		Std:            std,
		Returns:        returns,
		Lengths:        lengths,
		ValidationLoss: loss,
		NewSamples:     buffer.Len(),
		DatasetSize:    d.data.Len(),
		Checkpoint:     cp,
	}
	d.stats = append(d.stats, stats)
	d.round = r

	klog.Infof("round %d: mean return %.4f std %.4f, %d new samples, "+
		"dataset size %d", r, mean, std, stats.NewSamples, stats.DatasetSize)
	return stats, nil
}

// train shuffles and splits the dataset, fits the model on the
// training split and evaluates it on the validation split, then saves
// the model. The validation loss is NaN when the validation split is
// empty.
func (d *DAgger) train(r int) (float64, checkpointer.Checkpoint, error) {
	d.data.Shuffle(d.config.Seed)
	train, validation, err := d.data.Split(d.config.TrainFraction)
	if err != nil {
		return 0, checkpointer.Checkpoint{}, err
	}

	err = d.model.Fit(train.Observations(), train.Actions(),
		d.config.BatchSize, d.config.Epochs)
	if err != nil {
		return 0, checkpointer.Checkpoint{}, fmt.Errorf("could not fit "+
			"model: %v", err)
	}

	loss, err := d.model.Evaluate(validation.Observations(),
		validation.Actions())
	if err != nil {
		return 0, checkpointer.Checkpoint{}, fmt.Errorf("could not "+
			"evaluate model: %v", err)
	}
	if math.IsNaN(loss) {
		klog.Warningf("round %d: validation loss is NaN (%d validation "+
			"samples)", r, validation.Len())
	} else {
		klog.Infof("round %d: validation loss %.6f", r, loss)
	}

	cp, err := d.checkpointer.Checkpoint(r, d.model)
	if err != nil {
		return 0, checkpointer.Checkpoint{}, err
	}
	return loss, cp, nil
}

// reload replaces the model with the one saved at cp
func (d *DAgger) reload(cp checkpointer.Checkpoint) error {
	m, err := d.loader(cp.Path)
	if err != nil {
		return fmt.Errorf("could not reload model: %v", err)
	}

	// Checkpoints hold weights only, carry the optimizer state over
	if loaded, ok := m.(*regression.Model); ok {
		if prev, ok := d.model.(*regression.Model); ok {
			if err := loaded.Resume(prev); err != nil {
				return fmt.Errorf("could not reload model: %v", err)
			}
		}
	}
	if c, ok := d.model.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("could not close model: %v", err)
		}
	}
	d.model = m
	return nil
}

// rollout runs the round's rollouts of the model in a new environment
// and returns the expert labelled observations it visited, together
// with the return and length of each rollout
func (d *DAgger) rollout(r int) (*dataset.Dataset, []float64, []int,
	error) {
	e, err := d.newEnv()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not create environment: %v",
			err)
	}
	defer closeEnv(e)

	maxSteps, err := StepLimit(e, d.config.MaxSteps)
	if err != nil {
		return nil, nil, nil, err
	}

	buffer, err := dataset.New(d.data.ObservationDim(), d.data.ActionDim())
	if err != nil {
		return nil, nil, nil, err
	}
	label := experiment.ObserverFunc(func(t ts.TimeStep) error {
		action, err := d.oracle.Label(t.Observation)
		if err != nil {
			return fmt.Errorf("could not label observation: %v", err)
		}
		return buffer.Append(t.Observation, action)
	})

	lengths := trackers.NewEpisodeLength("")
	online, err := experiment.NewOnline(e, d.model.Policy(), maxSteps,
		[]trackers.Tracker{lengths, d.returns}, label)
	if err != nil {
		return nil, nil, nil, err
	}
	online.SetRender(d.config.Render)

	returns, err := d.runRollouts(online, r)
	if err != nil {
		return nil, nil, nil, err
	}
	return buffer, returns, lengths.Lengths(), nil
}

func (d *DAgger) runRollouts(e *experiment.Online, r int) ([]float64,
	error) {
	var bar *progressbar.ManualProgressBar
	if d.config.Progress {
		bar = progressbar.NewManualProgressBar(d.out,
			fmt.Sprintf("round %d", r), 40, d.config.Rollouts)
		bar.Display()
		defer bar.Finish()
	}

	returns := make([]float64, 0, d.config.Rollouts)
	for i := 0; i < d.config.Rollouts; i++ {
		klog.V(1).Infof("iter %d", i)
		ret, err := e.RunEpisode()
		if err != nil {
			return nil, fmt.Errorf("rollout %v: %v", i, err)
		}
		returns = append(returns, ret)

		if bar != nil {
			bar.Increment()
			bar.Display()
		}
	}
	return returns, nil
}

// StepLimit returns the step cap for rollouts in e. A positive
// maxSteps is returned unchanged, otherwise the environment's default
// step limit is used.
func StepLimit(e env.Environment, maxSteps int) (int, error) {
	if maxSteps > 0 {
		return maxSteps, nil
	}
	if l, ok := e.(env.StepLimiter); ok && l.MaxSteps() > 0 {
		return l.MaxSteps(), nil
	}
	return 0, fmt.Errorf("stepLimit: no step cap given and environment " +
		"has no default step limit")
}

func closeEnv(e env.Environment) {
	if c, ok := e.(env.Closer); ok {
		if err := c.Close(); err != nil {
			klog.Errorf("could not close environment: %v", err)
		}
	}
}
