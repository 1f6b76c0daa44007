package regression

import (
	"fmt"
	"math"

	G "gorgonia.org/gorgonia"
)

// LossType is the name of a regression loss
type LossType string

const (
	// MSE is the mean squared error
	MSE LossType = "mse"

	// MSLE is the mean squared logarithmic error. Both predictions and
	// targets y are mapped to log(max(y, ε) + 1) before taking the
	// squared error.
	MSLE LossType = "msle"
)

// msleEpsilon is the lower clip applied before taking logarithms
const msleEpsilon = 1e-7

// Validate returns an error if l is not a known loss
func (l LossType) Validate() error {
	switch l {
	case MSE, MSLE:
		return nil
	}
	return fmt.Errorf("unknown loss %q", l)
}

// target maps a regression target into the space the loss compares
// predictions in
func (l LossType) target(y float64) float64 {
	if l == MSLE {
		return math.Log(math.Max(y, msleEpsilon) + 1)
	}
	return y
}

// lossNode adds the loss between pred and target to pred's graph. The
// squared errors are multiplied elementwise by mask and summed, then
// divided by count, so that padded rows of a partial batch can be
// masked out. Targets are expected to already be mapped by
// LossType.target.
func lossNode(l LossType, pred, target, mask, count *G.Node) (*G.Node,
	error) {
	switch l {
	case MSE:
	case MSLE:
		eps := G.NewConstant(msleEpsilon)
		one := G.NewConstant(1.0)

		// max(pred, ε) = relu(pred - ε) + ε
		clipped := G.Must(G.Add(G.Must(G.Rectify(G.Must(G.Sub(pred, eps)))),
			eps))
		pred = G.Must(G.Log(G.Must(G.Add(clipped, one))))
	default:
		return nil, fmt.Errorf("lossNode: unknown loss %q", l)
	}

	diff, err := G.Sub(pred, target)
	if err != nil {
		return nil, fmt.Errorf("lossNode: %v", err)
	}
	sq, err := G.Square(diff)
	if err != nil {
		return nil, fmt.Errorf("lossNode: %v", err)
	}
	masked, err := G.HadamardProd(sq, mask)
	if err != nil {
		return nil, fmt.Errorf("lossNode: %v", err)
	}
	sum, err := G.Sum(masked)
	if err != nil {
		return nil, fmt.Errorf("lossNode: %v", err)
	}
	return G.Div(sum, count)
}
