// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"
	"strings"

	env "github.com/samuelfneumann/godagger/environment"
	"github.com/samuelfneumann/godagger/environment/box2d/lunarlander"
	"github.com/samuelfneumann/godagger/environment/classiccontrol/acrobot"
	"github.com/samuelfneumann/godagger/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/godagger/environment/classiccontrol/mountaincar"
	"github.com/samuelfneumann/godagger/environment/classiccontrol/pendulum"
	"github.com/samuelfneumann/godagger/environment/gym"
	ts "github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/spatial/r1"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Cartpole    EnvName = "Cartpole"
	Pendulum    EnvName = "Pendulum"
	LunarLander EnvName = "LunarLanderContinuous"
	MountainCar EnvName = "MountainCarContinuous"
	Acrobot     EnvName = "Acrobot"
)

// TaskName stores the tasks that can be configured with this package.
// Note that not all tasks can be used with all environments. The tasks
// that can be used with each environment are as follows:
//
//	Environment			Task
//	Cartpole			Balance
//	Pendulum			SwingUp
//	Acrobot				SwingUp
//	LunarLanderContinuous		Land
//	MountainCarContinuous		Goal
type TaskName string

// Tasks available for configuration
const (
	Balance TaskName = "Balance"
	SwingUp TaskName = "SwingUp"
	Land    TaskName = "Land"
	Goal    TaskName = "Goal"
)

// Default episode cutoffs
const (
	CartpoleCutoff    uint = 500
	PendulumCutoff    uint = 200
	LunarLanderCutoff uint = 1000
	MountainCarCutoff uint = 999
	AcrobotCutoff     uint = 500
)

// Config implements a specific configuration of a specific environment
// and specific task. Not all environments can have all tasks. If Gym
// is true, Environment names an OpenAI Gym environment which is used
// with its default task and cutoff.
type Config struct {
	Environment   EnvName
	Task          TaskName
	EpisodeCutoff uint
	Discount      float64
	Gym           bool
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, taskName TaskName, episodeCutoff uint,
	discount float64, gym bool) Config {
	return Config{
		Environment:   envName,
		Task:          taskName,
		EpisodeCutoff: episodeCutoff,
		Discount:      discount,
		Gym:           gym,
	}
}

// FromName returns the Config of the environment with the given name
// using its default task and cutoff. Names of built-in environments
// are matched case-insensitively, and an optional version suffix such
// as "-v0" is ignored. All other names are taken to be OpenAI Gym
// environments.
func FromName(name string) Config {
	base := strings.ToLower(name)
	if i := strings.Index(base, "-v"); i >= 0 {
		base = base[:i]
	}

	switch base {
	case strings.ToLower(string(Cartpole)):
		return NewConfig(Cartpole, Balance, CartpoleCutoff, 1.0, false)

	case strings.ToLower(string(Pendulum)):
		return NewConfig(Pendulum, SwingUp, PendulumCutoff, 1.0, false)

	case strings.ToLower(string(LunarLander)):
		return NewConfig(LunarLander, Land, LunarLanderCutoff, 1.0, false)

	case strings.ToLower(string(MountainCar)):
		return NewConfig(MountainCar, Goal, MountainCarCutoff, 1.0, false)

	case strings.ToLower(string(Acrobot)):
		return NewConfig(Acrobot, SwingUp, AcrobotCutoff, 1.0, false)
	}

	return NewConfig(EnvName(name), "", 0, 1.0, true)
}

// Release releases the process-wide resources held by environments of
// the Config. Gym environments share a Python interpreter, which is
// finalized, so no Gym environment can be created afterwards. Release
// does nothing for built-in environments.
func (c Config) Release() {
	if c.Gym {
		gym.Shutdown()
	}
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	if c.Gym {
		return gym.New(string(c.Environment), c.Discount, seed)
	}

	switch c.Environment {
	case Cartpole:
		return CreateCartpole(c.Task, int(c.EpisodeCutoff), seed, c.Discount)

	case Pendulum:
		return CreatePendulum(c.Task, int(c.EpisodeCutoff), seed, c.Discount)

	case LunarLander:
		return CreateLunarLander(c.Task, int(c.EpisodeCutoff), seed,
			c.Discount)

	case MountainCar:
		return CreateMountainCar(c.Task, int(c.EpisodeCutoff), seed,
			c.Discount)

	case Acrobot:
		return CreateAcrobot(c.Task, int(c.EpisodeCutoff), seed, c.Discount)
	}

	return nil, ts.TimeStep{}, fmt.Errorf("create: cannot create "+
		"environment %v, no such environment", c.Environment)
}

// Factory returns a function which creates a new environment as
// described by the Config on each call. The first environment is
// seeded with seed, and each following environment with the next
// seed.
func (c Config) Factory(seed uint64) func() (env.Environment, error) {
	return func() (env.Environment, error) {
		e, _, err := c.Create(seed)
		seed++
		return e, err
	}
}

// CreateCartpole is a factory for creating the Cartpole environment
// with default physical parameters and default task parameters.
func CreateCartpole(taskName TaskName, cutoff int, seed uint64,
	discount float64) (env.Environment, ts.TimeStep, error) {
	bounds := r1.Interval{Min: -0.05, Max: 0.05}
	s := env.NewUniformStarter([]r1.Interval{
		bounds,
		bounds,
		bounds,
		bounds,
	}, seed)

	var task env.Task
	switch taskName {
	case Balance:
		task = cartpole.NewBalance(s, cutoff, cartpole.FailAngle)

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("createCartpole: Cartpole "+
			"environment has no task %v", taskName)
	}

	return cartpole.NewContinuous(task, discount)
}

// CreatePendulum is a factory for creating the Pendulum environment
// with default physical parameters and default task parameters.
func CreatePendulum(taskName TaskName, cutoff int, seed uint64,
	discount float64) (env.Environment, ts.TimeStep, error) {
	angle := r1.Interval{Min: -pendulum.AngleBound, Max: pendulum.AngleBound}
	speed := r1.Interval{Min: -1.0, Max: 1.0}

	s := env.NewUniformStarter([]r1.Interval{angle, speed}, seed)

	var task env.Task
	switch taskName {
	case SwingUp:
		task = pendulum.NewSwingUp(s, cutoff)

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("createPendulum: Pendulum "+
			"environment has no task %v", taskName)
	}

	return pendulum.NewContinuous(task, discount)
}

// CreateLunarLander is a factory for creating the continuous-action
// Lunar Lander environment with default physical parameters and
// default task parameters.
func CreateLunarLander(taskName TaskName, cutoff int, seed uint64,
	discount float64) (env.Environment, ts.TimeStep, error) {
	var task env.Task
	switch taskName {
	case Land:
		task = lunarlander.NewLand(lunarlander.DefaultStarter(seed), cutoff)

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("createLunarLander: Lunar "+
			"Lander environment has no task %v", taskName)
	}

	return lunarlander.NewContinuous(task, discount, seed)
}

// CreateMountainCar is a factory for creating the continuous-action
// Mountain Car environment with default physical parameters and
// default task parameters.
func CreateMountainCar(taskName TaskName, cutoff int, seed uint64,
	discount float64) (env.Environment, ts.TimeStep, error) {
	position := r1.Interval{Min: -0.6, Max: -0.4}
	velocity := r1.Interval{Min: 0.0, Max: 0.0}

	s := env.NewUniformStarter([]r1.Interval{position, velocity}, seed)

	var task env.Task
	switch taskName {
	case Goal:
		task = mountaincar.NewGoal(s, cutoff, mountaincar.GoalPosition)

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("createMountainCar: "+
			"MountainCar environment has no task %v", taskName)
	}

	return mountaincar.NewContinuous(task, discount)
}

// CreateAcrobot is a factory for creating the continuous-action
// Acrobot environment with default physical parameters and default
// task parameters.
func CreateAcrobot(taskName TaskName, cutoff int, seed uint64,
	discount float64) (env.Environment, ts.TimeStep, error) {
	bounds := r1.Interval{Min: -0.1, Max: 0.1}
	s := env.NewUniformStarter([]r1.Interval{
		bounds,
		bounds,
		bounds,
		bounds,
	}, seed)

	var task env.Task
	switch taskName {
	case SwingUp:
		task = acrobot.NewSwingUp(s, cutoff, acrobot.GoalHeight)

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("createAcrobot: Acrobot "+
			"environment has no task %v", taskName)
	}

	return acrobot.NewContinuous(task, discount)
}
