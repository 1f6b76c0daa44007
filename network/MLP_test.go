package network

import (
	"math"
	"testing"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func newTestMLP(t *testing.T, batch int) NeuralNet {
	t.Helper()
	net, err := NewMLP(3, batch, 2, G.NewGraph(), []int{5, 4},
		[]bool{true, true}, G.GlorotU(1.0),
		[]*Activation{ReLU(), TanH()})
	if err != nil {
		t.Fatalf("newMLP: %v", err)
	}
	return net
}

// forward runs the forward pass of net on input and returns the output
func forward(t *testing.T, net NeuralNet, input []float64) []float64 {
	t.Helper()
	if err := net.SetInput(input); err != nil {
		t.Fatalf("setInput: %v", err)
	}
	vm := G.NewTapeMachine(net.Graph())
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		t.Fatalf("runAll: %v", err)
	}
	out := net.Output().(*tensor.Dense).Float64s()
	return append([]float64{}, out...)
}

func TestNewMLPValidation(t *testing.T) {
	tests := []struct {
		name        string
		hidden      []int
		biases      []bool
		activations []*Activation
	}{
		{"activations", []int{4}, []bool{true}, nil},
		{"biases", []int{4}, nil, []*Activation{ReLU()}},
		{"size", []int{0}, []bool{true}, []*Activation{ReLU()}},
	}

	for _, test := range tests {
		_, err := NewMLP(3, 1, 2, G.NewGraph(), test.hidden, test.biases,
			G.GlorotU(1.0), test.activations)
		if err == nil {
			t.Errorf("%v: expected error", test.name)
		}
	}
}

func TestMLPShapes(t *testing.T) {
	net := newTestMLP(t, 4)
	if net.Features() != 3 || net.Outputs() != 2 || net.BatchSize() != 4 {
		t.Fatalf("unexpected dimensions: features %v outputs %v batch %v",
			net.Features(), net.Outputs(), net.BatchSize())
	}

	// 3 layers, each with weights and a bias
	if len(net.Learnables()) != 6 {
		t.Errorf("want 6 learnables have %v", len(net.Learnables()))
	}

	out := forward(t, net, make([]float64, 12))
	if len(out) != 8 {
		t.Errorf("want 8 outputs have %v", len(out))
	}

	if err := net.SetInput(make([]float64, 5)); err == nil {
		t.Error("expected error for wrong input size")
	}
}

func TestCloneWithBatch(t *testing.T) {
	net := newTestMLP(t, 1)
	clone, err := net.CloneWithBatch(2)
	if err != nil {
		t.Fatal(err)
	}

	in := []float64{0.5, -1, 2}
	want := forward(t, net, in)
	have := forward(t, clone, append(append([]float64{}, in...), in...))
	for i := range want {
		if math.Abs(want[i]-have[i]) > 1e-12 ||
			math.Abs(want[i]-have[i+2]) > 1e-12 {
			t.Fatalf("clone predicts %v, original predicts %v", have, want)
		}
	}
}

func TestGobRoundTripPredicts(t *testing.T) {
	net := newTestMLP(t, 1)
	in := []float64{1, 2, 3}
	want := forward(t, net, in)

	encoded, err := net.GobEncode()
	if err != nil {
		t.Fatalf("gobEncode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	have := forward(t, decoded, in)
	for i := range want {
		if math.Abs(want[i]-have[i]) > 1e-12 {
			t.Fatalf("decoded net predicts %v, original predicts %v",
				have, want)
		}
	}

	if _, err := Decode([]byte("garbage")); err == nil {
		t.Error("expected error decoding garbage")
	}
}

func TestActivationByName(t *testing.T) {
	for _, name := range []string{"relu", "tanh", "identity", "sigmoid"} {
		a, err := ActivationByName(name)
		if err != nil {
			t.Errorf("%v: %v", name, err)
			continue
		}
		if a.String() != name {
			t.Errorf("want %v have %v", name, a.String())
		}
	}
	if _, err := ActivationByName("softsign"); err == nil {
		t.Error("expected error for unknown activation")
	}
}
