package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// pairedDataset returns a dataset of n pairs where observation i is
// (i, 2i) and action i is (-i)
func pairedDataset(t *testing.T, n int) *Dataset {
	t.Helper()
	d, err := New(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		obs := mat.NewVecDense(2, []float64{float64(i), float64(2 * i)})
		act := mat.NewVecDense(1, []float64{-float64(i)})
		if err := d.Append(obs, act); err != nil {
			t.Fatal(err)
		}
	}
	return d
}

func checkPaired(t *testing.T, d *Dataset) {
	t.Helper()
	for i := 0; i < d.Len(); i++ {
		obs, act := d.Observation(i), d.Action(i)
		if obs.AtVec(1) != 2*obs.AtVec(0) || act.AtVec(0) != -obs.AtVec(0) {
			t.Fatalf("pair %v broken: obs %v act %v", i, obs.RawVector().Data,
				act.RawVector().Data)
		}
	}
}

func TestAppend(t *testing.T) {
	d := pairedDataset(t, 3)
	if d.Len() != 3 {
		t.Fatalf("want 3 pairs have %v", d.Len())
	}

	tests := []struct {
		name     string
		obs, act mat.Vector
	}{
		{"observation width", mat.NewVecDense(3, nil), mat.NewVecDense(1, nil)},
		{"action width", mat.NewVecDense(2, nil), mat.NewVecDense(2, nil)},
	}
	for _, test := range tests {
		if err := d.Append(test.obs, test.act); err == nil {
			t.Errorf("%v: expected error", test.name)
		}
		if d.Len() != 3 {
			t.Errorf("%v: failed append changed length to %v", test.name,
				d.Len())
		}
	}

	other := pairedDataset(t, 2)
	if err := d.AppendDataset(other); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 5 {
		t.Errorf("want 5 pairs have %v", d.Len())
	}
	if d.Observations().At(4, 0) != 1 {
		t.Errorf("appended pairs out of order")
	}
	checkPaired(t, d)

	wrong, _ := New(3, 1)
	if err := d.AppendDataset(wrong); err == nil {
		t.Error("expected error appending dataset of different width")
	}
}

func TestShuffle(t *testing.T) {
	d := pairedDataset(t, 50)
	d.Shuffle(0)
	checkPaired(t, d)

	if d.Len() != 50 {
		t.Fatalf("shuffle changed length to %v", d.Len())
	}
	seen := make(map[float64]bool)
	for i := 0; i < d.Len(); i++ {
		seen[d.Observation(i).AtVec(0)] = true
	}
	if len(seen) != 50 {
		t.Errorf("shuffle lost pairs: %v distinct of 50", len(seen))
	}

	// Same seed, same permutation
	e := pairedDataset(t, 50)
	e.Shuffle(0)
	if !mat.Equal(d.Observations(), e.Observations()) {
		t.Error("shuffle with equal seeds gave different orders")
	}

	f := pairedDataset(t, 50)
	f.Shuffle(1)
	if mat.Equal(d.Observations(), f.Observations()) {
		t.Error("shuffle with different seeds gave the same order")
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		n, train, validation int
	}{
		{1, 1, 0},
		{2, 1, 1},
		{3, 2, 1},
		{4, 3, 1},
		{5, 4, 1},
		{10, 8, 2},
	}

	for _, test := range tests {
		d := pairedDataset(t, test.n)
		d.Shuffle(0)
		train, validation, err := d.Split(0.8)
		if err != nil {
			t.Fatalf("n = %v: %v", test.n, err)
		}
		if train.Len() != test.train || validation.Len() != test.validation {
			t.Errorf("n = %v: want (%v, %v) have (%v, %v)", test.n, test.train,
				test.validation, train.Len(), validation.Len())
		}
		checkPaired(t, train)
		checkPaired(t, validation)

		// Every pair lands in exactly one partition
		seen := make(map[float64]int)
		for _, part := range []*Dataset{train, validation} {
			for i := 0; i < part.Len(); i++ {
				seen[part.Observation(i).AtVec(0)]++
			}
		}
		for i := 0; i < test.n; i++ {
			if seen[float64(i)] != 1 {
				t.Errorf("n = %v: pair %v appears %v times", test.n, i,
					seen[float64(i)])
			}
		}
	}

	d := pairedDataset(t, 4)
	for _, fraction := range []float64{0, -0.5, 1.5} {
		if _, _, err := d.Split(fraction); err == nil {
			t.Errorf("fraction %v: expected error", fraction)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	d := pairedDataset(t, 7)
	dir := t.TempDir()

	for _, name := range []string{"data.bin", "data.json"} {
		path := filepath.Join(dir, name)
		if err := d.Save(path); err != nil {
			t.Fatalf("%v: save: %v", name, err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("%v: load: %v", name, err)
		}
		if !mat.Equal(d.Observations(), loaded.Observations()) ||
			!mat.Equal(d.Actions(), loaded.Actions()) {
			t.Errorf("%v: loaded dataset differs", name)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, contents string
	}{
		{"malformed", `{"Observations": [[1, 2]`},
		{"missing actions", `{"Observations": [[1, 2]]}`},
		{"missing observations", `{"Actions": [[1]]}`},
		{"length mismatch", `{"Observations": [[1, 2], [3, 4]], "Actions": [[1]]}`},
		{"width mismatch", `{"Observations": [[1, 2], [3]], "Actions": [[1], [2]]}`},
		{"empty", `{"Observations": [], "Actions": []}`},
	}

	dir := t.TempDir()
	for _, test := range tests {
		path := filepath.Join(dir, "data.json")
		if err := os.WriteFile(path, []byte(test.contents), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%v: expected error", test.name)
		}
	}

	if _, err := Load(filepath.Join(dir, "missing.bin")); err == nil {
		t.Error("expected error loading missing file")
	}
}

func TestEmptyMatrices(t *testing.T) {
	d, err := New(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if r, c := d.Observations().Dims(); r != 0 || c != 0 {
		t.Errorf("want empty observations have %v x %v", r, c)
	}
	if _, _, err := d.Split(0.8); err == nil {
		t.Error("expected error splitting an empty dataset")
	}
}
