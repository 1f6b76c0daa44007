package expert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/godagger/regression"
	"github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
)

func TestLinearLabel(t *testing.T) {
	weights := mat.NewDense(2, 3, []float64{
		1, 0, 0,
		0, 1, 1,
	})
	l, err := NewLinear(weights, mat.NewVecDense(2, []float64{0.5, -1}))
	if err != nil {
		t.Fatal(err)
	}

	action, err := l.Label(mat.NewVecDense(3, []float64{1, 2, 3}))
	if err != nil {
		t.Fatal(err)
	}
	want := mat.NewVecDense(2, []float64{1.5, 4})
	if !mat.EqualApprox(action, want, 1e-12) {
		t.Errorf("want %v have %v", want.RawVector().Data,
			action.RawVector().Data)
	}

	if _, err := l.Label(mat.NewVecDense(2, nil)); err == nil {
		t.Error("expected error labelling wrong observation width")
	}

	if _, err := NewLinear(weights, mat.NewVecDense(3, nil)); err == nil {
		t.Error("expected error for mismatched bias")
	}
}

func TestLoadLinear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expert.json")
	contents := `{"Weights": [[2, 0], [0, 3]], "Bias": [1, 1]}`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	o, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := o.(*Linear); !ok {
		t.Fatalf("want *Linear have %T", o)
	}

	// Acting as a policy gives the expert's labels
	obs := mat.NewVecDense(2, []float64{1, 1})
	action, err := AsPolicy(o).SelectAction(timestep.New(timestep.First, 0,
		1, obs, 0))
	if err != nil {
		t.Fatal(err)
	}
	if action.AtVec(0) != 3 || action.AtVec(1) != 4 {
		t.Errorf("want [3 4] have %v", action.RawVector().Data)
	}

	bad := []string{
		`{"Weights": [[1, 2], [3]], "Bias": [0, 0]}`,
		`{"Weights": [[1, 2]], "Bias": [0, 0]}`,
		`{"Bias": [0]}`,
		`not json`,
	}
	for _, b := range bad {
		if err := os.WriteFile(path, []byte(b), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("load(%v): expected error", b)
		}
	}
}

func TestLinearSave(t *testing.T) {
	l, err := NewLinear(mat.NewDense(1, 2, []float64{1, -1}),
		mat.NewVecDense(1, []float64{0.25}))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "linear.json")
	if err := l.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadLinear(path)
	if err != nil {
		t.Fatal(err)
	}
	obs := mat.NewVecDense(2, []float64{3, 1})
	want, _ := l.Label(obs)
	have, _ := loaded.Label(obs)
	if !mat.Equal(want, have) {
		t.Errorf("want %v have %v", want.RawVector().Data,
			have.RawVector().Data)
	}
}

func TestNetworkExpert(t *testing.T) {
	c := regression.DefaultConfig()
	c.HiddenSizes = []int{8}
	c.Activations = []string{"tanh"}
	model, err := regression.New(3, 2, c)
	if err != nil {
		t.Fatal(err)
	}
	defer model.Close()

	path := filepath.Join(t.TempDir(), "expert.bin")
	if err := model.Save(path); err != nil {
		t.Fatal(err)
	}

	o, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	n, ok := o.(*Network)
	if !ok {
		t.Fatalf("want *Network have %T", o)
	}
	defer n.Close()

	obs := mat.NewVecDense(3, []float64{0.1, 0.2, 0.3})
	want, err := model.Act(obs)
	if err != nil {
		t.Fatal(err)
	}
	have, err := n.Label(obs)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.EqualApprox(want, have, 1e-12) {
		t.Errorf("want %v have %v", want.RawVector().Data,
			have.RawVector().Data)
	}

	if _, err := n.Label(mat.NewVecDense(2, nil)); err == nil {
		t.Error("expected error labelling wrong observation width")
	}
}

func TestFunc(t *testing.T) {
	var o Oracle = Func(func(obs mat.Vector) (*mat.VecDense, error) {
		return mat.NewVecDense(1, []float64{obs.AtVec(0) * 2}), nil
	})
	action, err := o.Label(mat.NewVecDense(1, []float64{4}))
	if err != nil {
		t.Fatal(err)
	}
	if action.AtVec(0) != 8 {
		t.Errorf("want 8 have %v", action.AtVec(0))
	}
}
