package dagger

import (
	"github.com/samuelfneumann/godagger/experiment/checkpointer"
)

// RoundStats are the statistics of a single DAgger round
type RoundStats struct {
	Round int

	// Mean and Std are the mean and population standard deviation of
	// the returns of the round's rollouts
	Mean float64
	Std  float64

	Returns []float64
	Lengths []int

	// ValidationLoss is NaN when the validation split was empty
	ValidationLoss float64

	// NewSamples is the number of expert labelled samples aggregated
	// in the round and DatasetSize the size of the dataset afterwards
	NewSamples  int
	DatasetSize int

	Checkpoint checkpointer.Checkpoint
}

// Means returns the mean return of each round
func Means(stats []RoundStats) []float64 {
	means := make([]float64, len(stats))
	for i := range stats {
		means[i] = stats[i].Mean
	}
	return means
}

// StdDevs returns the standard deviation of the returns of each round
func StdDevs(stats []RoundStats) []float64 {
	stds := make([]float64, len(stats))
	for i := range stats {
		stds[i] = stats[i].Std
	}
	return stds
}
