package lunarlander

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/godagger/environment"
	"github.com/samuelfneumann/godagger/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestLand(t *testing.T) {
	const steps = 50
	task := NewLand(DefaultStarter(1), steps)
	env, step, err := NewContinuous(task, 0.99, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer env.Close()

	if !step.First() || step.Number != 0 {
		t.Errorf("want first step 0 have %v step %v", step.StepType,
			step.Number)
	}
	if step.Observation.Len() != StateObservations {
		t.Fatalf("want %v features have %v", StateObservations,
			step.Observation.Len())
	}
	if env.MaxSteps() != steps {
		t.Errorf("want max steps %v have %v", steps, env.MaxSteps())
	}

	n := 0
	for last := false; !last; {
		step, last, err = env.Step(mat.NewVecDense(ActionDims, nil))
		if err != nil {
			t.Fatal(err)
		}
		n++
		if n > steps {
			t.Fatalf("episode did not end after %v steps", steps)
		}
	}
	if step.Number != n {
		t.Errorf("want step number %v have %v", n, step.Number)
	}

	if _, _, err := env.Step(mat.NewVecDense(1, nil)); err == nil {
		t.Error("expected error stepping with 1-dimensional action")
	}

	step, err = env.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if !step.First() {
		t.Error("reset did not start a new episode")
	}
}

func TestRender(t *testing.T) {
	env, _, err := NewContinuous(NewLand(DefaultStarter(2), 10), 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer env.Close()

	dir := filepath.Join(t.TempDir(), "frames")
	env.SetFrameDir(dir)
	for i := 0; i < 2; i++ {
		if err := env.Render(); err != nil {
			t.Fatal(err)
		}
	}

	for _, name := range []string{"frame00000.png", "frame00001.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Error(err)
		}
	}
}

func TestInvalidStart(t *testing.T) {
	tests := map[string][]r1.Interval{
		"dims": {{Min: InitialX, Max: InitialX}},
		"x":    {{Min: 0, Max: 0}, {Min: InitialY, Max: InitialY}, {}},
		"y":    {{Min: InitialX, Max: InitialX}, {Min: 0, Max: 0}, {}},
	}
	for name, bounds := range tests {
		s := environment.NewUniformStarter(bounds, 1)
		if _, _, err := NewContinuous(NewLand(s, 10), 1, 1); err == nil {
			t.Errorf("%v: expected error from invalid start", name)
		}
	}
}

func TestFreeFall(t *testing.T) {
	for seed := uint64(0); seed < 5; seed++ {
		env, _, err := NewContinuous(NewLand(DefaultStarter(seed), 1000), 1,
			seed)
		if err != nil {
			t.Fatal(err)
		}

		if env.IsGameOver() {
			t.Errorf("seed %v: game over after reset", seed)
		}

		n := 0
		for last := false; !last; {
			var step timestep.TimeStep
			step, last, err = env.Step(mat.NewVecDense(ActionDims, nil))
			if err != nil {
				t.Fatal(err)
			}
			n++
			if n == 1 && step.Reward <= -50 {
				t.Errorf("seed %v: first step reward %v", seed, step.Reward)
			}
			if !last && env.IsGameOver() {
				t.Fatalf("seed %v: game over at step %v without the "+
					"episode ending", seed, n)
			}
		}

		// Falling from the top of the viewport takes well over 10 steps
		if n <= 10 {
			t.Errorf("seed %v: episode ended after %v steps", seed, n)
		}
		env.Close()
	}
}
