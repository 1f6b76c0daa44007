package network

import (
	"bytes"
	"encoding/gob"
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Layer is a single layer of a feed forward network
type Layer interface {
	fwd(*G.Node) (*G.Node, error)
	CloneTo(g *G.ExprGraph) Layer
	Weights() *G.Node
	Bias() *G.Node
	Activation() *Activation
}

// fcLayer implements a fully connected layer of a feed forward neural
// network
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     *Activation
}

// addfcLayers adds one fully connected layer per element of hiddenSizes
// to the graph g. Layer i has hiddenSizes[i] units, a bias unit if
// biases[i] is true, and activation activations[i]. The first layer
// takes features inputs.
func addfcLayers(g *G.ExprGraph, hiddenSizes []int, biases []bool,
	activations []*Activation, init G.InitWFn, features int) []Layer {
	layers := make([]Layer, 0, len(hiddenSizes))

	in := features
	for i, out := range hiddenSizes {
		weights := G.NewMatrix(
			g,
			tensor.Float64,
			G.WithShape(in, out),
			G.WithName(fmt.Sprintf("L%dW", i)),
			G.WithInit(init),
		)

		var bias *G.Node
		if biases[i] {
			bias = G.NewVector(
				g,
				tensor.Float64,
				G.WithShape(out),
				G.WithName(fmt.Sprintf("L%dB", i)),
				G.WithInit(G.Zeroes()),
			)
		}

		layers = append(layers, &fcLayer{
			weights: weights,
			bias:    bias,
			act:     activations[i],
		})
		in = out
	}
	return layers
}

// fwd adds the forward pass of the fcLayer to the computational graph
func (f *fcLayer) fwd(x *G.Node) (*G.Node, error) {
	x = G.Must(G.Mul(x, f.Weights()))
	if f.Bias() != nil {
		// Broadcast the bias weights to all samples along the batch
		// dimension
		x = G.Must(G.BroadcastAdd(x, f.Bias(), nil, []byte{0}))
	}
	if f.Activation() == nil || f.Activation().IsIdentity() {
		return x, nil
	}
	return f.Activation().fwd(x)
}

// CloneTo clones an fcLayer to a new computational graph
func (f *fcLayer) CloneTo(g *G.ExprGraph) Layer {
	var newBias *G.Node
	if f.Bias() != nil {
		newBias = f.Bias().CloneTo(g)
	}

	return &fcLayer{
		weights: f.Weights().CloneTo(g),
		bias:    newBias,
		act:     f.act,
	}
}

func (f *fcLayer) Activation() *Activation {
	return f.act
}

func (f *fcLayer) Bias() *G.Node {
	return f.bias
}

func (f *fcLayer) Weights() *G.Node {
	return f.weights
}

// GobEncode implements the gob.GobEncoder interface. Only the values
// of the weights and bias are encoded, the structure of the layer is
// encoded by the network that owns it.
func (f *fcLayer) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	weights, err := valueData(f.Weights())
	if err != nil {
		return nil, fmt.Errorf("gobencode: %v", err)
	}
	if err := enc.Encode(weights); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode weights: %v", err)
	}

	hasBias := f.Bias() != nil
	if err := enc.Encode(hasBias); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode bias flag: %v",
			err)
	}
	if hasBias {
		bias, err := valueData(f.Bias())
		if err != nil {
			return nil, fmt.Errorf("gobencode: %v", err)
		}
		if err := enc.Encode(bias); err != nil {
			return nil, fmt.Errorf("gobencode: could not encode bias: %v", err)
		}
	}

	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface. The layer must
// already have weight and bias nodes of the encoded shapes, which are
// set to the decoded values.
func (f *fcLayer) GobDecode(in []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(in))

	var weights []float64
	if err := dec.Decode(&weights); err != nil {
		return fmt.Errorf("gobdecode: could not decode weights: %v", err)
	}
	if err := letData(f.Weights(), weights); err != nil {
		return fmt.Errorf("gobdecode: %v", err)
	}

	var hasBias bool
	if err := dec.Decode(&hasBias); err != nil {
		return fmt.Errorf("gobdecode: could not decode bias flag: %v", err)
	}
	if hasBias != (f.Bias() != nil) {
		return fmt.Errorf("gobdecode: encoded bias does not match layer")
	}
	if !hasBias {
		return nil
	}

	var bias []float64
	if err := dec.Decode(&bias); err != nil {
		return fmt.Errorf("gobdecode: could not decode bias: %v", err)
	}
	return letData(f.Bias(), bias)
}

// letData sets the value of node to a tensor of the node's shape
// backed by data
func letData(node *G.Node, data []float64) error {
	if len(data) != node.Shape().TotalSize() {
		return fmt.Errorf("letData: node %v expects %v values but got %v",
			node.Name(), node.Shape().TotalSize(), len(data))
	}
	t := tensor.New(
		tensor.WithShape(node.Shape().Clone()...),
		tensor.WithBacking(data),
	)
	return G.Let(node, t)
}

// valueData returns a copy of the float64 values held by node
func valueData(node *G.Node) ([]float64, error) {
	t, ok := node.Value().(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("valueData: node %v does not hold a dense "+
			"tensor", node.Name())
	}
	data := make([]float64, t.Shape().TotalSize())
	copy(data, t.Float64s())
	return data, nil
}
