// Package regression implements a feed forward regression model
// mapping observation vectors to action vectors, trained by minibatch
// gradient descent on Gorgonia computational graphs.
package regression

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/samuelfneumann/godagger/agent"
	"github.com/samuelfneumann/godagger/initwfn"
	"github.com/samuelfneumann/godagger/network"
	"github.com/samuelfneumann/godagger/solver"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
	"k8s.io/klog/v2"
)

type mode int

const (
	predictMode mode = iota
	lossMode
	trainMode
)

type sessionKey struct {
	batch int
	mode
}

// session is a copy of the model's network with a fixed batch size,
// together with the nodes and VM needed to predict, compute the loss,
// or train with that batch size
type session struct {
	net    network.NeuralNet
	target *G.Node
	mask   *G.Node
	count  *G.Node
	cost   *G.Node

	costVal G.Value
	vm      G.VM
	solver  G.Solver

	// version is the version of the model weights the session holds
	version int

	input, targets, masks []float64
}

// Model is a feed forward regression model. A Model is not safe for
// concurrent use.
type Model struct {
	config Config

	// net holds the weights of record with a batch size of 1. Sessions
	// copy these weights before use and training sessions write their
	// weights back after each call to Fit.
	net      network.NeuralNet
	version  int
	sessions map[sessionKey]*session

	// solvers holds the optimizer of each training batch size
	solvers map[int]G.Solver

	rng *rand.Rand
}

// New returns a new Model predicting outputs values from features
// inputs
func New(features, outputs int, c Config) (*Model, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	acts, err := c.activations()
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	net, err := network.NewMLP(features, 1, outputs, G.NewGraph(),
		c.HiddenSizes, c.biases(), c.InitWFn.InitWFn(), acts)
	if err != nil {
		return nil, fmt.Errorf("new: could not create network: %v", err)
	}

	return newModel(net, c), nil
}

func newModel(net network.NeuralNet, c Config) *Model {
	return &Model{
		config:   c,
		net:      net,
		sessions: make(map[sessionKey]*session),
		solvers:  make(map[int]G.Solver),
		rng:      rand.New(rand.NewSource(c.Seed)),
	}
}

// Features returns the width of the model's inputs
func (m *Model) Features() int {
	return m.net.Features()
}

// Outputs returns the width of the model's predictions
func (m *Model) Outputs() int {
	return m.net.Outputs()
}

// Config returns the configuration of the model
func (m *Model) Config() Config {
	return m.config
}

// Fit trains the model for epochs passes over the rows of X and Y
// with the given minibatch size. Each epoch visits the rows in a
// freshly shuffled order. The final minibatch of an epoch may be
// smaller than batchSize, in which case it is padded and the padding
// is masked out of the loss, so that every row contributes exactly
// once per epoch.
func (m *Model) Fit(X, Y mat.Matrix, batchSize, epochs int) error {
	if batchSize < 1 {
		return fmt.Errorf("fit: batch size must be positive, got %v",
			batchSize)
	}
	if epochs < 1 {
		return fmt.Errorf("fit: epochs must be positive, got %v", epochs)
	}
	n, err := m.checkData(X, Y)
	if err != nil {
		return fmt.Errorf("fit: %v", err)
	}
	if n == 0 {
		return fmt.Errorf("fit: no training data")
	}

	s, err := m.session(batchSize, trainMode)
	if err != nil {
		return fmt.Errorf("fit: %v", err)
	}

	for epoch := 0; epoch < epochs; epoch++ {
		order := m.rng.Perm(n)

		var total float64
		for start := 0; start < n; start += batchSize {
			end := start + batchSize
			if end > n {
				end = n
			}

			loss, err := m.runBatch(s, X, Y, order[start:end])
			if err != nil {
				return fmt.Errorf("fit: epoch %v: %v", epoch, err)
			}
			total += loss * float64(end-start)

			if err := s.solver.Step(s.net.Model()); err != nil {
				return fmt.Errorf("fit: epoch %v: could not step solver: %v",
					epoch, err)
			}
			s.vm.Reset()
		}
		klog.V(1).Infof("regression: epoch %d/%d: loss %.6f", epoch+1,
			epochs, total/float64(n))
	}

	// Write the trained weights back as the weights of record
	if err := m.net.Set(s.net); err != nil {
		return fmt.Errorf("fit: could not store trained weights: %v", err)
	}
	m.version++
	s.version = m.version

	return nil
}

// Evaluate returns the loss of the model on the rows of X and Y. If X
// has no rows, the loss is NaN.
func (m *Model) Evaluate(X, Y mat.Matrix) (float64, error) {
	n, err := m.checkData(X, Y)
	if err != nil {
		return math.NaN(), fmt.Errorf("evaluate: %v", err)
	}
	if n == 0 {
		return math.NaN(), nil
	}

	s, err := m.session(m.config.EvalBatch, lossMode)
	if err != nil {
		return math.NaN(), fmt.Errorf("evaluate: %v", err)
	}

	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}

	var total float64
	for start := 0; start < n; start += m.config.EvalBatch {
		end := start + m.config.EvalBatch
		if end > n {
			end = n
		}
		loss, err := m.runBatch(s, X, Y, rows[start:end])
		s.vm.Reset()
		if err != nil {
			return math.NaN(), fmt.Errorf("evaluate: %v", err)
		}
		total += loss * float64(end-start)
	}
	return total / float64(n), nil
}

// Predict returns the model's predictions for each row of X,
// computed batchSize rows at a time
func (m *Model) Predict(X mat.Matrix, batchSize int) (*mat.Dense, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("predict: batch size must be positive, "+
			"got %v", batchSize)
	}
	n, c := X.Dims()
	if c != m.Features() {
		return nil, fmt.Errorf("predict: model takes %v features but "+
			"input has %v columns", m.Features(), c)
	}
	if n == 0 {
		return nil, fmt.Errorf("predict: no inputs")
	}

	s, err := m.session(batchSize, predictMode)
	if err != nil {
		return nil, fmt.Errorf("predict: %v", err)
	}

	out := mat.NewDense(n, m.Outputs(), nil)
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}

		for i := range s.input {
			s.input[i] = 0
		}
		for i := start; i < end; i++ {
			mat.Row(s.input[(i-start)*c:(i-start+1)*c], i, X)
		}
		if err := s.net.SetInput(s.input); err != nil {
			return nil, fmt.Errorf("predict: %v", err)
		}
		if err := s.vm.RunAll(); err != nil {
			s.vm.Reset()
			return nil, fmt.Errorf("predict: could not run forward pass: %v",
				err)
		}

		pred := s.net.Output().(*tensor.Dense).Float64s()
		for i := start; i < end; i++ {
			outs := m.Outputs()
			out.SetRow(i, pred[(i-start)*outs:(i-start+1)*outs])
		}
		s.vm.Reset()
	}
	return out, nil
}

// Act returns the model's prediction for a single observation
func (m *Model) Act(obs mat.Vector) (*mat.VecDense, error) {
	pred, err := m.Predict(obs.T(), 1)
	if err != nil {
		return nil, fmt.Errorf("act: %v", err)
	}
	return mat.VecDenseCopyOf(pred.RowView(0)), nil
}

// Policy returns a Policy which selects the model's prediction for the
// current observation as its action
func (m *Model) Policy() agent.Policy {
	return agent.PolicyFunc(m.Act)
}

// runBatch sets the inputs, targets, and mask of session s to the
// given rows of X and Y and runs the session's VM, returning the
// loss. The caller must reset the VM.
func (m *Model) runBatch(s *session, X, Y mat.Matrix, rows []int) (float64,
	error) {
	features, outputs := m.Features(), m.Outputs()

	for i := range s.input {
		s.input[i] = 0
	}
	for i := range s.targets {
		s.targets[i] = 0
		s.masks[i] = 0
	}

	for i, row := range rows {
		mat.Row(s.input[i*features:(i+1)*features], row, X)
		targets := s.targets[i*outputs : (i+1)*outputs]
		mat.Row(targets, row, Y)
		for j := range targets {
			targets[j] = m.config.Loss.target(targets[j])
			s.masks[i*outputs+j] = 1
		}
	}

	if err := s.net.SetInput(s.input); err != nil {
		return 0, err
	}
	shape := s.target.Shape().Clone()
	err := G.Let(s.target, tensor.New(tensor.WithShape(shape...),
		tensor.WithBacking(s.targets)))
	if err != nil {
		return 0, fmt.Errorf("could not set targets: %v", err)
	}
	err = G.Let(s.mask, tensor.New(tensor.WithShape(shape...),
		tensor.WithBacking(s.masks)))
	if err != nil {
		return 0, fmt.Errorf("could not set mask: %v", err)
	}
	err = G.Let(s.count, G.NewF64(float64(len(rows)*outputs)))
	if err != nil {
		return 0, fmt.Errorf("could not set count: %v", err)
	}

	if err := s.vm.RunAll(); err != nil {
		return 0, fmt.Errorf("could not run graph: %v", err)
	}

	loss, ok := s.costVal.Data().(float64)
	if !ok {
		return 0, fmt.Errorf("loss has type %T", s.costVal.Data())
	}
	return loss, nil
}

// session returns the session for the given batch size and mode,
// creating it if needed, holding the current weights of record
func (m *Model) session(batch int, md mode) (*session, error) {
	key := sessionKey{batch, md}
	s, ok := m.sessions[key]
	if !ok {
		var err error
		if s, err = m.newSession(batch, md); err != nil {
			return nil, err
		}
		m.sessions[key] = s
		return s, nil
	}

	if s.version != m.version {
		if err := s.net.Set(m.net); err != nil {
			return nil, fmt.Errorf("could not synchronize weights: %v", err)
		}
		s.version = m.version
	}
	return s, nil
}

func (m *Model) newSession(batch int, md mode) (*session, error) {
	net, err := m.net.CloneWithBatch(batch)
	if err != nil {
		return nil, fmt.Errorf("could not clone network: %v", err)
	}
	s := &session{
		net:     net,
		version: m.version,
		input:   make([]float64, batch*m.Features()),
	}

	if md == predictMode {
		s.vm = G.NewTapeMachine(net.Graph())
		return s, nil
	}

	g := net.Graph()
	outputs := m.Outputs()
	s.target = G.NewMatrix(g, tensor.Float64, G.WithShape(batch, outputs),
		G.WithName("target"), G.WithInit(G.Zeroes()))
	s.mask = G.NewMatrix(g, tensor.Float64, G.WithShape(batch, outputs),
		G.WithName("mask"), G.WithInit(G.Zeroes()))
	s.count = G.NewScalar(g, tensor.Float64, G.WithName("count"),
		G.WithValue(1.0))
	s.targets = make([]float64, batch*outputs)
	s.masks = make([]float64, batch*outputs)

	s.cost, err = lossNode(m.config.Loss, net.Prediction(), s.target,
		s.mask, s.count)
	if err != nil {
		return nil, err
	}
	G.Read(s.cost, &s.costVal)

	if md == lossMode {
		s.vm = G.NewTapeMachine(g)
		return s, nil
	}

	if _, err := G.Grad(s.cost, net.Learnables()...); err != nil {
		return nil, fmt.Errorf("could not compute gradient: %v", err)
	}
	s.vm = G.NewTapeMachine(g, G.BindDualValues(net.Learnables()...))
	if sv, ok := m.solvers[batch]; ok {
		s.solver = sv
	} else {
		s.solver = m.config.Solver.Config.Create()
		m.solvers[batch] = s.solver
	}

	return s, nil
}

// Resume continues training with the optimizer state of prev, a model
// of the same architecture, such as the model m was saved from. Once
// resumed, m and prev share their optimizers and prev should no
// longer be trained.
func (m *Model) Resume(prev *Model) error {
	if prev.Features() != m.Features() || prev.Outputs() != m.Outputs() ||
		!equalInts(prev.config.HiddenSizes, m.config.HiddenSizes) {
		return fmt.Errorf("resume: models have different architectures")
	}
	if prev.config.Solver.Type != m.config.Solver.Type {
		return fmt.Errorf("resume: cannot resume %v solver state with a "+
			"%v solver", prev.config.Solver.Type, m.config.Solver.Type)
	}

	for batch, sv := range prev.solvers {
		m.solvers[batch] = sv
	}
	for key, s := range m.sessions {
		if key.mode == trainMode {
			if sv, ok := m.solvers[key.batch]; ok {
				s.solver = sv
			}
		}
	}
	return nil
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// checkData validates that X and Y are paired rows of inputs and
// targets of the widths the model expects, returning the number of
// rows
func (m *Model) checkData(X, Y mat.Matrix) (int, error) {
	xr, xc := X.Dims()
	yr, yc := Y.Dims()
	if xr != yr {
		return 0, fmt.Errorf("%v inputs but %v targets", xr, yr)
	}
	if xr == 0 {
		return 0, nil
	}
	if xc != m.Features() {
		return 0, fmt.Errorf("model takes %v features but inputs have %v "+
			"columns", m.Features(), xc)
	}
	if yc != m.Outputs() {
		return 0, fmt.Errorf("model predicts %v outputs but targets have "+
			"%v columns", m.Outputs(), yc)
	}
	return xr, nil
}

// Close releases the resources held by the model's VMs
func (m *Model) Close() error {
	for key, s := range m.sessions {
		if err := s.vm.Close(); err != nil {
			return fmt.Errorf("close: %v", err)
		}
		delete(m.sessions, key)
	}
	return nil
}

// checkpoint is the serialized form of a Model
type checkpoint struct {
	HiddenSizes []int
	Activations []string
	Loss        LossType
	EvalBatch   int
	Seed        uint64
	Device      string
	Solver      []byte
	InitWFn     []byte
	Net         []byte
}

// Save saves the model to a file at path
func (m *Model) Save(path string) error {
	solverJSON, err := json.Marshal(m.config.Solver)
	if err != nil {
		return fmt.Errorf("save: could not encode solver: %v", err)
	}
	initJSON, err := json.Marshal(m.config.InitWFn)
	if err != nil {
		return fmt.Errorf("save: could not encode initializer: %v", err)
	}
	net, err := m.net.GobEncode()
	if err != nil {
		return fmt.Errorf("save: could not encode network: %v", err)
	}

	c := checkpoint{
		HiddenSizes: m.config.HiddenSizes,
		Activations: m.config.Activations,
		Loss:        m.config.Loss,
		EvalBatch:   m.config.EvalBatch,
		Seed:        m.config.Seed,
		Device:      m.config.Device,
		Solver:      solverJSON,
		InitWFn:     initJSON,
		Net:         net,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("save: could not encode model: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}

// Load loads a Model previously saved with Save. Optimizer state is
// not saved, so training a loaded model starts with fresh optimizer
// state unless the model is resumed from the model it was saved from.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %v", err)
	}

	var c checkpoint
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&c); err != nil {
		return nil, fmt.Errorf("load: could not decode model %v: %v", path,
			err)
	}

	var s solver.Solver
	if err := json.Unmarshal(c.Solver, &s); err != nil {
		return nil, fmt.Errorf("load: could not decode solver: %v", err)
	}
	var init initwfn.InitWFn
	if err := json.Unmarshal(c.InitWFn, &init); err != nil {
		return nil, fmt.Errorf("load: could not decode initializer: %v", err)
	}

	config := Config{
		HiddenSizes: c.HiddenSizes,
		Activations: c.Activations,
		Loss:        c.Loss,
		Solver:      &s,
		InitWFn:     &init,
		EvalBatch:   c.EvalBatch,
		Seed:        c.Seed,
		Device:      c.Device,
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("load: %v", err)
	}

	net, err := network.Decode(c.Net)
	if err != nil {
		return nil, fmt.Errorf("load: could not decode network: %v", err)
	}
	if net.BatchSize() != 1 {
		return nil, fmt.Errorf("load: network has batch size %v",
			net.BatchSize())
	}

	return newModel(net, config), nil
}
