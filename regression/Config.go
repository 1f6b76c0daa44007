package regression

import (
	"fmt"

	"github.com/samuelfneumann/godagger/initwfn"
	"github.com/samuelfneumann/godagger/network"
	"github.com/samuelfneumann/godagger/solver"
)

// Config describes the architecture and training hyperparameters of a
// regression Model
type Config struct {
	// HiddenSizes[i] is the number of units in hidden layer i, and
	// Activations[i] is the name of its activation function. Every
	// hidden layer has a bias unit. The output layer is always linear.
	HiddenSizes []int
	Activations []string

	Loss    LossType
	Solver  *solver.Solver
	InitWFn *initwfn.InitWFn

	// EvalBatch is the batch size used by Evaluate. DefaultConfig sizes
	// it to the CPU cache with EvalBatchSize.
	EvalBatch int

	// Seed seeds the minibatch order of Fit
	Seed uint64

	// Device is the device to train on, only "cpu" is supported
	Device string
}

// DefaultConfig returns the configuration used by DAgger: three
// hidden layers of 128 ReLU units trained with Adam on the mean
// squared error.
func DefaultConfig() Config {
	s, err := solver.NewDefaultAdam(1e-3, 1)
	if err != nil {
		panic(fmt.Sprintf("defaultConfig: could not create solver: %v", err))
	}
	init, err := initwfn.NewGlorotU(1.0)
	if err != nil {
		panic(fmt.Sprintf("defaultConfig: could not create initializer: %v",
			err))
	}

	hidden := []int{128, 128, 128}
	return Config{
		HiddenSizes: hidden,
		Activations: []string{"relu", "relu", "relu"},
		Loss:        MSE,
		Solver:      s,
		InitWFn:     init,
		EvalBatch:   EvalBatchSize(hidden),
		Seed:        0,
		Device:      CPU,
	}
}

// Validate returns an error if the Config cannot be used to build a
// Model
func (c Config) Validate() error {
	if len(c.HiddenSizes) != len(c.Activations) {
		return fmt.Errorf("validate: %v hidden layers but %v activations",
			len(c.HiddenSizes), len(c.Activations))
	}
	for i, size := range c.HiddenSizes {
		if size < 1 {
			return fmt.Errorf("validate: hidden layer %v has %v units", i,
				size)
		}
	}
	if _, err := c.activations(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if err := c.Loss.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if c.Solver == nil {
		return fmt.Errorf("validate: no solver")
	}
	if c.InitWFn == nil {
		return fmt.Errorf("validate: no weight initializer")
	}
	if c.EvalBatch < 1 {
		return fmt.Errorf("validate: evaluation batch size must be "+
			"positive, got %v", c.EvalBatch)
	}
	return checkDevice(c.Device)
}

func (c Config) activations() ([]*network.Activation, error) {
	acts := make([]*network.Activation, len(c.Activations))
	for i, name := range c.Activations {
		act, err := network.ActivationByName(name)
		if err != nil {
			return nil, err
		}
		acts[i] = act
	}
	return acts, nil
}

func (c Config) biases() []bool {
	biases := make([]bool, len(c.HiddenSizes))
	for i := range biases {
		biases[i] = true
	}
	return biases
}
