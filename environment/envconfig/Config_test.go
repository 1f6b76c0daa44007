package envconfig

import (
	"testing"

	env "github.com/samuelfneumann/godagger/environment"
	"gonum.org/v1/gonum/mat"
)

func TestFromName(t *testing.T) {
	tests := []struct {
		name string
		want Config
	}{
		{"Cartpole", NewConfig(Cartpole, Balance, CartpoleCutoff, 1, false)},
		{"cartpole-v1", NewConfig(Cartpole, Balance, CartpoleCutoff, 1, false)},
		{"Pendulum-v0", NewConfig(Pendulum, SwingUp, PendulumCutoff, 1, false)},
		{
			"LunarLanderContinuous-v2",
			NewConfig(LunarLander, Land, LunarLanderCutoff, 1, false),
		},
		{
			"MountainCarContinuous-v0",
			NewConfig(MountainCar, Goal, MountainCarCutoff, 1, false),
		},
		{"Acrobot-v1", NewConfig(Acrobot, SwingUp, AcrobotCutoff, 1, false)},
		{"Humanoid-v2", NewConfig("Humanoid-v2", "", 0, 1, true)},
	}

	for _, test := range tests {
		if have := FromName(test.name); have != test.want {
			t.Errorf("%v: want %+v have %+v", test.name, test.want, have)
		}
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name     string
		obsDims  int
		actDims  int
		maxSteps int
	}{
		{"Cartpole", 4, 1, int(CartpoleCutoff)},
		{"Pendulum", 2, 1, int(PendulumCutoff)},
		{"LunarLanderContinuous", 8, 2, int(LunarLanderCutoff)},
		{"MountainCarContinuous", 2, 1, int(MountainCarCutoff)},
		{"Acrobot", 4, 1, int(AcrobotCutoff)},
	}

	for _, test := range tests {
		e, step, err := FromName(test.name).Create(1)
		if err != nil {
			t.Fatalf("%v: %v", test.name, err)
		}

		if have := step.Observation.Len(); have != test.obsDims {
			t.Errorf("%v: want %v features have %v", test.name,
				test.obsDims, have)
		}
		if have := e.ActionSpec().Shape.Len(); have != test.actDims {
			t.Errorf("%v: want %v action dims have %v", test.name,
				test.actDims, have)
		}

		limiter, ok := e.(env.StepLimiter)
		if !ok {
			t.Errorf("%v: environment has no step limit", test.name)
		} else if limiter.MaxSteps() != test.maxSteps {
			t.Errorf("%v: want max steps %v have %v", test.name,
				test.maxSteps, limiter.MaxSteps())
		}

		if c, ok := e.(env.Closer); ok {
			c.Close()
		}
	}
}

func TestCreateErrors(t *testing.T) {
	tests := map[string]Config{
		"environment": NewConfig("Walk", Balance, 10, 1, false),
		"cartpole":    NewConfig(Cartpole, SwingUp, 10, 1, false),
		"pendulum":    NewConfig(Pendulum, Balance, 10, 1, false),
		"lunarlander": NewConfig(LunarLander, SwingUp, 10, 1, false),
		"mountaincar": NewConfig(MountainCar, Land, 10, 1, false),
		"acrobot":     NewConfig(Acrobot, Goal, 10, 1, false),
	}

	for name, c := range tests {
		if _, _, err := c.Create(1); err == nil {
			t.Errorf("%v: expected error", name)
		}
	}
}

func TestFactory(t *testing.T) {
	factory := FromName("Pendulum").Factory(3)

	var starts []*mat.VecDense
	for i := 0; i < 2; i++ {
		e, err := factory()
		if err != nil {
			t.Fatal(err)
		}
		starts = append(starts, e.CurrentTimeStep().Observation)
	}

	if mat.Equal(starts[0], starts[1]) {
		t.Error("environments from the factory have the same start state")
	}
}

func TestRelease(t *testing.T) {
	c := FromName("Cartpole-v1")
	if _, _, err := c.Create(1); err != nil {
		t.Fatal(err)
	}

	// Built-in environments hold no shared resources
	c.Release()
	if _, _, err := c.Create(2); err != nil {
		t.Errorf("could not create environment after release: %v", err)
	}
}
