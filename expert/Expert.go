// Package expert implements expert policies which label observations
// with the actions an expert would take.
package expert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samuelfneumann/godagger/agent"
	"github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
)

// Oracle labels observations with expert actions
type Oracle interface {
	Label(obs mat.Vector) (*mat.VecDense, error)
}

// Func adapts an ordinary function to the Oracle interface
type Func func(obs mat.Vector) (*mat.VecDense, error)

// Label returns f(obs)
func (f Func) Label(obs mat.Vector) (*mat.VecDense, error) {
	return f(obs)
}

// Load loads an expert from the file at path. Files with a .json
// extension hold a Linear expert and all other files hold a saved
// regression model.
func Load(path string) (Oracle, error) {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return LoadLinear(path)
	}
	return LoadNetwork(path)
}

// policy is an Oracle acting as a Policy
type policy struct {
	Oracle
}

// SelectAction returns the expert action for the observation of t
func (p policy) SelectAction(t timestep.TimeStep) (*mat.VecDense, error) {
	return p.Label(t.Observation)
}

// AsPolicy returns a Policy which takes the actions o labels
// observations with
func AsPolicy(o Oracle) agent.Policy {
	return policy{o}
}

func checkWidth(obs mat.Vector, want int) error {
	if obs.Len() != want {
		return fmt.Errorf("expert takes observations with %v features but "+
			"got %v", want, obs.Len())
	}
	return nil
}
