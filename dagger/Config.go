package dagger

import (
	"fmt"
	"math"
)

// Config configures a DAgger run
type Config struct {
	// Rounds is the number of train, rollout, aggregate rounds
	Rounds int

	// Rollouts is the number of rollouts of the learned policy per round
	Rollouts int

	// MaxSteps caps the number of steps of each rollout. If MaxSteps is
	// 0, the environment's default step limit is used.
	MaxSteps int

	Epochs    int
	BatchSize int

	// TrainFraction is the fraction of the dataset used for training
	// each round, the rest is used for validation
	TrainFraction float64

	// Seed seeds the shuffle of the dataset. The same seed is used
	// every round.
	Seed uint64

	Render bool

	// Progress displays a progress bar over the rollouts of each round
	Progress bool

	// ReturnsFile is the file the returns of all rollouts are saved to
	// once all rounds have run. If empty, returns are not saved.
	ReturnsFile string
}

// DefaultConfig returns the default configuration: 5 rounds of 20
// rollouts, training for 2 epochs with a batch size of 64 on 80% of
// the data
func DefaultConfig() Config {
	return Config{
		Rounds:        5,
		Rollouts:      20,
		Epochs:        2,
		BatchSize:     64,
		TrainFraction: 0.8,
	}
}

// Validate returns an error if the configuration cannot be run
func (c Config) Validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("number of rounds must be positive, got %v",
			c.Rounds)
	}
	if c.Rollouts < 1 {
		return fmt.Errorf("number of rollouts must be positive, got %v",
			c.Rollouts)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("step cap must be non-negative, got %v", c.MaxSteps)
	}
	if c.Epochs < 1 {
		return fmt.Errorf("number of epochs must be positive, got %v",
			c.Epochs)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive, got %v", c.BatchSize)
	}
	if c.TrainFraction <= 0 || c.TrainFraction > 1 ||
		math.IsNaN(c.TrainFraction) {
		return fmt.Errorf("train fraction must be in (0, 1], got %v",
			c.TrainFraction)
	}
	return nil
}
