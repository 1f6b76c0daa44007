package expert

import (
	"fmt"

	"github.com/samuelfneumann/godagger/regression"
	"gonum.org/v1/gonum/mat"
)

// Network is an expert backed by a trained regression model
type Network struct {
	model *regression.Model
}

// NewNetwork returns an expert which labels observations with the
// predictions of model
func NewNetwork(model *regression.Model) *Network {
	return &Network{model}
}

// LoadNetwork loads a Network expert from a saved regression model
func LoadNetwork(path string) (*Network, error) {
	model, err := regression.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loadNetwork: %v", err)
	}
	return NewNetwork(model), nil
}

// Label returns the model's prediction for obs
func (n *Network) Label(obs mat.Vector) (*mat.VecDense, error) {
	if err := checkWidth(obs, n.model.Features()); err != nil {
		return nil, fmt.Errorf("label: %v", err)
	}
	return n.model.Act(obs)
}

// Close releases the resources of the underlying model
func (n *Network) Close() error {
	return n.model.Close()
}
