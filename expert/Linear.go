package expert

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Linear is an expert whose action is an affine function of the
// observation, a = W·o + b
type Linear struct {
	weights *mat.Dense
	bias    *mat.VecDense
}

// linearRecord is the JSON form of a Linear expert. Weights has one
// row per action dimension and one column per observation feature.
type linearRecord struct {
	Weights [][]float64
	Bias    []float64
}

// NewLinear returns a new Linear expert. The weights must have one row
// per action dimension, and bias one entry per action dimension.
func NewLinear(weights *mat.Dense, bias *mat.VecDense) (*Linear, error) {
	r, _ := weights.Dims()
	if bias.Len() != r {
		return nil, fmt.Errorf("newLinear: %v weight rows but bias has "+
			"length %v", r, bias.Len())
	}
	return &Linear{mat.DenseCopyOf(weights), mat.VecDenseCopyOf(bias)}, nil
}

// LoadLinear loads a Linear expert from a JSON file
func LoadLinear(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadLinear: %v", err)
	}

	var r linearRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("loadLinear: could not decode %v: %v", path,
			err)
	}
	if len(r.Weights) == 0 || len(r.Weights[0]) == 0 {
		return nil, fmt.Errorf("loadLinear: %v: missing weights", path)
	}

	cols := len(r.Weights[0])
	backing := make([]float64, 0, len(r.Weights)*cols)
	for i, row := range r.Weights {
		if len(row) != cols {
			return nil, fmt.Errorf("loadLinear: %v: weight row %v has %v "+
				"columns, want %v", path, i, len(row), cols)
		}
		backing = append(backing, row...)
	}
	if len(r.Bias) != len(r.Weights) {
		return nil, fmt.Errorf("loadLinear: %v: %v weight rows but bias "+
			"has length %v", path, len(r.Weights), len(r.Bias))
	}

	weights := mat.NewDense(len(r.Weights), cols, backing)
	return NewLinear(weights, mat.NewVecDense(len(r.Bias), r.Bias))
}

// Save saves the Linear expert as JSON to the file at path
func (l *Linear) Save(path string) error {
	rows, _ := l.weights.Dims()
	r := linearRecord{
		Weights: make([][]float64, rows),
		Bias:    append([]float64{}, l.bias.RawVector().Data...),
	}
	for i := range r.Weights {
		r.Weights[i] = mat.Row(nil, i, l.weights)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("save: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}

// Label returns W·obs + b
func (l *Linear) Label(obs mat.Vector) (*mat.VecDense, error) {
	rows, cols := l.weights.Dims()
	if err := checkWidth(obs, cols); err != nil {
		return nil, fmt.Errorf("label: %v", err)
	}

	action := mat.NewVecDense(rows, nil)
	action.MulVec(l.weights, obs)
	action.AddVec(action, l.bias)
	return action, nil
}
