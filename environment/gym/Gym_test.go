package gym_test

import (
	"testing"

	"github.com/samuelfneumann/godagger/environment/gym"
)

func TestStepLimit(t *testing.T) {
	tests := []struct {
		name  string
		steps int
		known bool
	}{
		{"Pendulum-v0", 200, true},
		{"CartPole-v1", 500, true},
		{"Humanoid-v2", 1000, true},
		{"Reacher-v2", 50, true},
		{"LunarLanderContinuous-v2", 1000, true},
		{"BipedalWalker-v3", 1600, true},
		{"Walk-v0", 0, false},
	}

	for _, test := range tests {
		steps, ok := gym.StepLimit(test.name)
		if steps != test.steps || ok != test.known {
			t.Errorf("%v: want (%v, %v) have (%v, %v)", test.name,
				test.steps, test.known, steps, ok)
		}
	}
}
