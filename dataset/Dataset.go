// Package dataset implements storage for paired observation and action
// vectors, such as the state/action pairs labelled by an expert.
//
// A Dataset stores observations and actions in row-major flat buffers
// of fixed widths, so that appending samples never copies the whole
// dataset. The widths are fixed when the Dataset is created and every
// later append is validated against them.
package dataset

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Dataset is a sequence of (observation, action) pairs. Observation i
// is always paired with action i.
type Dataset struct {
	obs    []float64
	act    []float64
	obsDim int
	actDim int
}

// Record is the serialized form of a Dataset
type Record struct {
	Observations [][]float64
	Actions      [][]float64
}

// New returns a new, empty Dataset of observations with obsDim
// features and actions with actDim dimensions
func New(obsDim, actDim int) (*Dataset, error) {
	if obsDim < 1 || actDim < 1 {
		return nil, fmt.Errorf("new: observation (%v) and action (%v) "+
			"dimensions must be positive", obsDim, actDim)
	}
	return &Dataset{obsDim: obsDim, actDim: actDim}, nil
}

// FromRecord returns a new Dataset holding the pairs in r. The widths
// of the Dataset are taken from the first pair in r.
func FromRecord(r Record) (*Dataset, error) {
	if r.Observations == nil {
		return nil, fmt.Errorf("fromRecord: missing observations")
	}
	if r.Actions == nil {
		return nil, fmt.Errorf("fromRecord: missing actions")
	}
	if len(r.Observations) != len(r.Actions) {
		return nil, fmt.Errorf("fromRecord: %v observations but %v actions",
			len(r.Observations), len(r.Actions))
	}
	if len(r.Observations) == 0 {
		return nil, fmt.Errorf("fromRecord: no samples")
	}

	d, err := New(len(r.Observations[0]), len(r.Actions[0]))
	if err != nil {
		return nil, fmt.Errorf("fromRecord: %v", err)
	}
	d.obs = make([]float64, 0, len(r.Observations)*d.obsDim)
	d.act = make([]float64, 0, len(r.Actions)*d.actDim)

	for i := range r.Observations {
		if err := d.appendRaw(r.Observations[i], r.Actions[i]); err != nil {
			return nil, fmt.Errorf("fromRecord: sample %v: %v", i, err)
		}
	}
	return d, nil
}

// Load loads a Dataset from the file at path. Files with a .json
// extension are decoded as a JSON Record, all other files as a gob
// encoded Record.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %v", err)
	}

	var r Record
	if isJSON(path) {
		err = json.Unmarshal(data, &r)
	} else {
		err = gob.NewDecoder(bytes.NewReader(data)).Decode(&r)
	}
	if err != nil {
		return nil, fmt.Errorf("load: could not decode %v: %v", path, err)
	}

	d, err := FromRecord(r)
	if err != nil {
		return nil, fmt.Errorf("load: %v: %v", path, err)
	}
	return d, nil
}

// Save saves the Dataset to a file at path in the format Load expects
func (d *Dataset) Save(path string) error {
	r := d.Record()

	var data []byte
	if isJSON(path) {
		var err error
		if data, err = json.Marshal(r); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	} else {
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(r); err != nil {
			return fmt.Errorf("save: %v", err)
		}
		data = buf.Bytes()
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}

func isJSON(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

// Record returns the pairs of the Dataset as a Record
func (d *Dataset) Record() Record {
	r := Record{
		Observations: make([][]float64, d.Len()),
		Actions:      make([][]float64, d.Len()),
	}
	for i := 0; i < d.Len(); i++ {
		r.Observations[i] = append([]float64{}, d.rawObs(i)...)
		r.Actions[i] = append([]float64{}, d.rawAct(i)...)
	}
	return r
}

// Len returns the number of pairs in the Dataset
func (d *Dataset) Len() int {
	return len(d.obs) / d.obsDim
}

// ObservationDim returns the number of features in each observation
func (d *Dataset) ObservationDim() int {
	return d.obsDim
}

// ActionDim returns the dimension of each action
func (d *Dataset) ActionDim() int {
	return d.actDim
}

// Append appends an (observation, action) pair to the Dataset
func (d *Dataset) Append(obs, act mat.Vector) error {
	o := make([]float64, obs.Len())
	for i := range o {
		o[i] = obs.AtVec(i)
	}
	a := make([]float64, act.Len())
	for i := range a {
		a[i] = act.AtVec(i)
	}

	if err := d.appendRaw(o, a); err != nil {
		return fmt.Errorf("append: %v", err)
	}
	return nil
}

func (d *Dataset) appendRaw(obs, act []float64) error {
	if len(obs) != d.obsDim {
		return fmt.Errorf("observation has %v features but dataset "+
			"observations have %v", len(obs), d.obsDim)
	}
	if len(act) != d.actDim {
		return fmt.Errorf("action has dimension %v but dataset actions "+
			"have dimension %v", len(act), d.actDim)
	}
	for _, v := range obs {
		if math.IsNaN(v) {
			return fmt.Errorf("observation contains NaN")
		}
	}
	for _, v := range act {
		if math.IsNaN(v) {
			return fmt.Errorf("action contains NaN")
		}
	}

	d.obs = append(d.obs, obs...)
	d.act = append(d.act, act...)
	return nil
}

// AppendDataset appends all pairs of other to the end of d, in order
func (d *Dataset) AppendDataset(other *Dataset) error {
	if other.obsDim != d.obsDim || other.actDim != d.actDim {
		return fmt.Errorf("appendDataset: cannot append (%v, %v) pairs to "+
			"a dataset of (%v, %v) pairs", other.obsDim, other.actDim,
			d.obsDim, d.actDim)
	}
	d.obs = append(d.obs, other.obs...)
	d.act = append(d.act, other.act...)
	return nil
}

func (d *Dataset) rawObs(i int) []float64 {
	return d.obs[i*d.obsDim : (i+1)*d.obsDim]
}

func (d *Dataset) rawAct(i int) []float64 {
	return d.act[i*d.actDim : (i+1)*d.actDim]
}

// Observation returns a copy of observation i
func (d *Dataset) Observation(i int) *mat.VecDense {
	return mat.NewVecDense(d.obsDim, append([]float64{}, d.rawObs(i)...))
}

// Action returns a copy of action i
func (d *Dataset) Action(i int) *mat.VecDense {
	return mat.NewVecDense(d.actDim, append([]float64{}, d.rawAct(i)...))
}

// Observations returns the observations as a (Len(), ObservationDim())
// matrix. The matrix shares storage with the Dataset and is only
// valid until the Dataset is next modified. An empty Dataset returns
// an empty matrix.
func (d *Dataset) Observations() *mat.Dense {
	if d.Len() == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(d.Len(), d.obsDim, d.obs[:d.Len()*d.obsDim])
}

// Actions returns the actions as a (Len(), ActionDim()) matrix. The
// matrix shares storage with the Dataset and is only valid until the
// Dataset is next modified. An empty Dataset returns an empty matrix.
func (d *Dataset) Actions() *mat.Dense {
	if d.Len() == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(d.Len(), d.actDim, d.act[:d.Len()*d.actDim])
}

// Shuffle permutes the pairs of the Dataset in place with a
// permutation drawn from a source seeded with seed. Pairs are kept
// intact. Shuffling two Datasets of equal length with the same seed
// applies the same permutation to both.
func (d *Dataset) Shuffle(seed uint64) {
	n := d.Len()
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	obs := make([]float64, len(d.obs))
	act := make([]float64, len(d.act))
	for i, j := range perm {
		copy(obs[i*d.obsDim:(i+1)*d.obsDim], d.rawObs(j))
		copy(act[i*d.actDim:(i+1)*d.actDim], d.rawAct(j))
	}
	d.obs, d.act = obs, act
}

// SplitIndex returns the number of pairs placed in the first
// partition when n pairs are split with the given fraction, which is
// max(1, ⌊fraction · n⌋) for n > 0
func SplitIndex(n int, fraction float64) int {
	if n == 0 {
		return 0
	}
	split := int(math.Floor(fraction * float64(n)))
	if split < 1 {
		split = 1
	}
	if split > n {
		split = n
	}
	return split
}

// Split splits the Dataset in order into a training Dataset holding
// the first SplitIndex(Len(), fraction) pairs and a validation Dataset
// holding the rest. The validation Dataset is empty when the training
// Dataset takes every pair. Both are copies.
func (d *Dataset) Split(fraction float64) (train, validation *Dataset,
	err error) {
	if fraction <= 0 || fraction > 1 || math.IsNaN(fraction) {
		return nil, nil, fmt.Errorf("split: fraction must be in (0, 1], "+
			"got %v", fraction)
	}
	if d.Len() == 0 {
		return nil, nil, fmt.Errorf("split: empty dataset")
	}

	split := SplitIndex(d.Len(), fraction)
	train = &Dataset{
		obs:    append([]float64{}, d.obs[:split*d.obsDim]...),
		act:    append([]float64{}, d.act[:split*d.actDim]...),
		obsDim: d.obsDim,
		actDim: d.actDim,
	}
	validation = &Dataset{
		obs:    append([]float64{}, d.obs[split*d.obsDim:]...),
		act:    append([]float64{}, d.act[split*d.actDim:]...),
		obsDim: d.obsDim,
		actDim: d.actDim,
	}
	return train, validation, nil
}
