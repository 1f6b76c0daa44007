// Package gym provides access to OpenAI Gym environments.
//
// All environments in the Classic Control, Box2D, and MuJoCo suites
// can be used, each with its default task and episode cutoff. Gym
// environments cannot be rendered.
//
// This is made possible through the Go bindings for OpenAI Gym,
// found at https://github.com/samuelfneumann/GoGym.
package gym

import (
	"fmt"

	"github.com/samuelfneumann/gogym"
	env "github.com/samuelfneumann/godagger/environment"
	ts "github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
)

// stepLimits are the default episode cutoffs of Gym environments
var stepLimits = map[string]int{
	// Classic Control
	"MountainCarContinuous-v0": 999,
	"MountainCar-v0":           200,
	"Pendulum-v0":              200,
	"CartPole-v0":              200,
	"CartPole-v1":              500,
	"Acrobot-v1":               500,

	// MuJoCo
	"Ant-v2":                    1000,
	"Hopper-v2":                 1000,
	"Humanoid-v2":               1000,
	"HumanoidStandup-v2":        1000,
	"Walker2d-v2":               1000,
	"HalfCheetah-v2":            1000,
	"InvertedDoublePendulum-v2": 1000,
	"InvertedPendulum-v2":       1000,
	"Reacher-v2":                50,
	"Swimmer-v2":                1000,

	// Box2D
	"LunarLander-v2":           1000,
	"LunarLanderContinuous-v2": 1000,
	"BipedalWalker-v3":         1600,
	"BipedalWalkerHardcore-v3": 2000,
}

// StepLimit returns the default episode cutoff of the Gym environment
// with the given name and whether the cutoff is known
func StepLimit(name string) (int, bool) {
	steps, ok := stepLimits[name]
	return steps, ok
}

// GymEnv implements access to an OpenAI Gym environment using GoGym
type GymEnv struct {
	gogym.Environment

	name        string
	currentStep ts.TimeStep
	discount    float64
}

// New returns a new GymEnv with the given name, which must be a legal
// name from the OpenAI Gym suite, and the first TimeStep of its first
// episode
func New(name string, discount float64, seed uint64) (*GymEnv,
	ts.TimeStep, error) {
	goGymEnv, err := gogym.Make(name)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: could not create "+
			"environment: %v", err)
	}

	goGymEnv.Seed(int(seed))
	gymEnv := &GymEnv{
		Environment: goGymEnv,
		name:        name,
		discount:    discount,
	}

	t, err := gymEnv.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}
	return gymEnv, t, nil
}

// Step takes a single environmental step
func (g *GymEnv) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	obs, reward, done, err := g.Environment.Step(a)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: could not step "+
			"GoGym environment: %v", err)
	}

	t := ts.New(ts.Mid, reward, g.discount, obs, g.currentStep.Number+1)
	if done {
		t.StepType = ts.Last
	}
	g.currentStep = t

	return t, done, nil
}

// Reset resets the environment to some starting state
func (g *GymEnv) Reset() (ts.TimeStep, error) {
	obs, err := g.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: could not reset "+
			"environment: %v", err)
	}

	t := ts.New(ts.First, 0, g.discount, obs, 0)
	g.currentStep = t

	return t, nil
}

// CurrentTimeStep returns the current timestep in the environment
func (g *GymEnv) CurrentTimeStep() ts.TimeStep {
	return g.currentStep
}

// MaxSteps returns the default episode cutoff of the environment, or 0
// if it is not known
func (g *GymEnv) MaxSteps() int {
	steps, _ := StepLimit(g.name)
	return steps
}

// ObservationSpec returns the observation spec of the environment
func (g *GymEnv) ObservationSpec() env.Spec {
	space := g.ObservationSpace()

	var low, high *mat.VecDense
	switch space.(type) {
	case *gogym.BoxSpace, *gogym.DiscreteSpace:
		low = space.Low()[0]
		high = space.High()[0]
	default:
		panic(fmt.Sprintf("observationSpec: invalid space type %T, "+
			"package gym supports only GoGym's BoxSpace or DiscreteSpace",
			space))
	}
	shape := mat.NewVecDense(low.Len(), nil)

	return env.NewSpec(shape, env.Observation, low, high, env.Continuous)
}

// ActionSpec returns the action specification of the environment
func (g *GymEnv) ActionSpec() env.Spec {
	space := g.ActionSpace()

	var low, high *mat.VecDense
	cardinality := env.Continuous
	switch space.(type) {
	case *gogym.BoxSpace:
		low = space.Low()[0]
		high = space.High()[0]
	case *gogym.DiscreteSpace:
		low = space.Low()[0]
		high = space.High()[0]
		cardinality = env.Discrete
	default:
		panic(fmt.Sprintf("actionSpec: invalid space type %T, package "+
			"gym supports only GoGym's BoxSpace or DiscreteSpace", space))
	}
	shape := mat.NewVecDense(low.Len(), nil)

	return env.NewSpec(shape, env.Action, low, high, cardinality)
}

// DiscountSpec returns the discount specification of the environment
func (g *GymEnv) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	low := mat.NewVecDense(1, []float64{g.discount})

	return env.NewSpec(shape, env.Discount, low, low, env.Continuous)
}

// Close performs resource cleanup after the environment is no longer
// needed
func (g *GymEnv) Close() error {
	g.Environment.Close()
	return nil
}

// Shutdown releases the Python interpreter used by all Gym
// environments. No Gym environment can be created afterwards.
func Shutdown() {
	gogym.Close()
}
