package regression

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/godagger/initwfn"
	"github.com/samuelfneumann/godagger/solver"
	"github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
)

func smallConfig(t *testing.T) Config {
	t.Helper()
	c := DefaultConfig()
	c.HiddenSizes = []int{16}
	c.Activations = []string{"relu"}

	s, err := solver.NewDefaultAdam(1e-2, 1)
	if err != nil {
		t.Fatal(err)
	}
	c.Solver = s
	return c
}

// linearData returns n rows of inputs x in R^2 with targets
// (x0 + x1, x0 - x1)
func linearData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 2, nil)
	Y := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		x0 := float64(i%7)/7 - 0.5
		x1 := float64(i%5)/5 - 0.5
		X.SetRow(i, []float64{x0, x1})
		Y.SetRow(i, []float64{x0 + x1, x0 - x1})
	}
	return X, Y
}

func TestFitReducesLoss(t *testing.T) {
	m, err := New(2, 2, smallConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	// 30 rows with a batch size of 8 leaves a partial final batch
	X, Y := linearData(30)
	before, err := m.Evaluate(X, Y)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Fit(X, Y, 8, 100); err != nil {
		t.Fatalf("fit: %v", err)
	}

	after, err := m.Evaluate(X, Y)
	if err != nil {
		t.Fatal(err)
	}
	if !(after < before) {
		t.Errorf("loss did not decrease: before %v after %v", before, after)
	}
}

func TestFitValidation(t *testing.T) {
	m, err := New(2, 2, smallConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	X, Y := linearData(4)
	tests := []struct {
		name          string
		X, Y          mat.Matrix
		batch, epochs int
	}{
		{"batch", X, Y, 0, 1},
		{"epochs", X, Y, 2, 0},
		{"rows", X, mat.NewDense(3, 2, nil), 2, 1},
		{"features", mat.NewDense(4, 3, nil), Y, 2, 1},
		{"outputs", X, mat.NewDense(4, 1, nil), 2, 1},
		{"empty", &mat.Dense{}, &mat.Dense{}, 2, 1},
	}
	for _, test := range tests {
		if err := m.Fit(test.X, test.Y, test.batch, test.epochs); err == nil {
			t.Errorf("%v: expected error", test.name)
		}
	}
}

func TestEvaluateEmpty(t *testing.T) {
	m, err := New(2, 2, smallConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	loss, err := m.Evaluate(&mat.Dense{}, &mat.Dense{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !math.IsNaN(loss) {
		t.Errorf("want NaN loss on empty data have %v", loss)
	}
}

func TestPredictBatchSizesAgree(t *testing.T) {
	m, err := New(2, 2, smallConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	X, _ := linearData(5)
	one, err := m.Predict(X, 1)
	if err != nil {
		t.Fatal(err)
	}
	three, err := m.Predict(X, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.EqualApprox(one, three, 1e-12) {
		t.Errorf("predictions depend on batch size:\n%v\n%v",
			mat.Formatted(one), mat.Formatted(three))
	}

	// The policy acts with the same predictions
	obs := mat.NewVecDense(2, X.RawRowView(2))
	action, err := m.Policy().SelectAction(timestep.New(timestep.First, 0,
		1, obs, 0))
	if err != nil {
		t.Fatal(err)
	}
	if !mat.EqualApprox(action, one.RowView(2), 1e-12) {
		t.Errorf("policy action %v differs from prediction %v",
			mat.Formatted(action.T()), mat.Formatted(one.RowView(2).T()))
	}

	if _, err := m.Act(mat.NewVecDense(3, nil)); err == nil {
		t.Error("expected error acting on wrong observation width")
	}
}

func TestSaveLoad(t *testing.T) {
	c := smallConfig(t)
	c.Loss = MSLE
	m, err := New(2, 2, c)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	X, Y := linearData(10)
	if err := m.Fit(X, Y, 4, 2); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "model.bin")
	if err := m.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer loaded.Close()

	if loaded.Config().Loss != MSLE {
		t.Errorf("want loss %v have %v", MSLE, loaded.Config().Loss)
	}
	want, err := m.Predict(X, 4)
	if err != nil {
		t.Fatal(err)
	}
	have, err := loaded.Predict(X, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.EqualApprox(want, have, 1e-12) {
		t.Error("loaded model predicts differently from saved model")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Error("expected error loading missing file")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"device", func(c *Config) { c.Device = "cuda:0" }},
		{"loss", func(c *Config) { c.Loss = "huber" }},
		{"activations", func(c *Config) { c.Activations = []string{"relu"} }},
		{"activation name", func(c *Config) {
			c.Activations = []string{"relu", "relu", "swish"}
		}},
		{"solver", func(c *Config) { c.Solver = nil }},
		{"eval batch", func(c *Config) { c.EvalBatch = 0 }},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
	for _, test := range tests {
		c := DefaultConfig()
		test.modify(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%v: expected error", test.name)
		}
	}
}

func TestMSLETarget(t *testing.T) {
	tests := []struct {
		y, want float64
	}{
		{0, math.Log(msleEpsilon + 1)},
		{-3, math.Log(msleEpsilon + 1)},
		{math.E - 1, 1},
	}
	for _, test := range tests {
		if have := MSLE.target(test.y); math.Abs(have-test.want) > 1e-12 {
			t.Errorf("target(%v): want %v have %v", test.y, test.want, have)
		}
	}
	if MSE.target(-3) != -3 {
		t.Error("mse should not transform targets")
	}
}

func TestResume(t *testing.T) {
	c := smallConfig(t)
	init, err := initwfn.NewConstant(0.1)
	if err != nil {
		t.Fatal(err)
	}
	c.InitWFn = init

	// Full batches make each epoch independent of the shuffled order
	const batch = 10
	X, Y := linearData(batch)

	// continuous trains for two epochs without reloading
	continuous, err := New(2, 2, c)
	if err != nil {
		t.Fatal(err)
	}
	defer continuous.Close()
	for i := 0; i < 2; i++ {
		if err := continuous.Fit(X, Y, batch, 1); err != nil {
			t.Fatal(err)
		}
	}
	want, err := continuous.Predict(X, batch)
	if err != nil {
		t.Fatal(err)
	}

	saved, err := New(2, 2, c)
	if err != nil {
		t.Fatal(err)
	}
	defer saved.Close()
	if err := saved.Fit(X, Y, batch, 1); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "model.bin")
	if err := saved.Save(path); err != nil {
		t.Fatal(err)
	}

	fresh, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fresh.Close()
	if err := fresh.Fit(X, Y, batch, 1); err != nil {
		t.Fatal(err)
	}
	freshPred, err := fresh.Predict(X, batch)
	if err != nil {
		t.Fatal(err)
	}
	if mat.EqualApprox(want, freshPred, 1e-9) {
		t.Error("model trained with fresh optimizer state predicts the " +
			"same as the continuously trained model")
	}

	resumed, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	defer resumed.Close()
	if err := resumed.Resume(saved); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if err := resumed.Fit(X, Y, batch, 1); err != nil {
		t.Fatal(err)
	}
	have, err := resumed.Predict(X, batch)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.EqualApprox(want, have, 1e-6) {
		t.Errorf("resumed model predicts differently from the "+
			"continuously trained model:\nwant %v\nhave %v",
			mat.Formatted(want), mat.Formatted(have))
	}

	other, err := New(3, 2, c)
	if err != nil {
		t.Fatal(err)
	}
	defer other.Close()
	if err := other.Resume(saved); err == nil {
		t.Error("expected error resuming from a different architecture")
	}
}

func TestEvalBatchSize(t *testing.T) {
	tests := []struct {
		name   string
		l2     int
		hidden []int
		want   int
	}{
		{"unknown cache", -1, []int{128}, fallbackEvalBatch},
		{"256KiB", 256 * 1024, []int{128, 128, 128}, 85},
		{"1MiB", 1 << 20, []int{128, 128, 128}, 341},
		{"small cache", 4096, []int{128, 128, 128}, minEvalBatch},
		{"no hidden layers", 1 << 20, nil, maxEvalBatch},
	}
	for _, test := range tests {
		if have := evalBatchSize(test.l2, test.hidden); have != test.want {
			t.Errorf("%v: want %v have %v", test.name, test.want, have)
		}
	}

	if have := EvalBatchSize([]int{128}); have < minEvalBatch ||
		have > maxEvalBatch {
		t.Errorf("evaluation batch size %v outside [%v, %v]", have,
			minEvalBatch, maxEvalBatch)
	}
	if c := DefaultConfig(); c.Validate() != nil {
		t.Errorf("default config is invalid: %v", c.Validate())
	}
}
