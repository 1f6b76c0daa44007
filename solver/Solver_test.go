package solver

import (
	"encoding/json"
	"testing"

	G "gorgonia.org/gorgonia"
)

func TestNew(t *testing.T) {
	tests := []struct {
		t       Type
		wantErr bool
	}{
		{Adam, false},
		{Vanilla, false},
		{RMSProp, false},
		{Type("Adagrad"), true},
	}

	for _, test := range tests {
		s, err := New(test.t, 1e-3)
		if test.wantErr {
			if err == nil {
				t.Errorf("New(%v): expected error", test.t)
			}
			continue
		}
		if err != nil {
			t.Fatalf("New(%v): %v", test.t, err)
		}
		if s.Type != test.t {
			t.Errorf("New(%v): type %v", test.t, s.Type)
		}
		if s.Solver == nil {
			t.Errorf("New(%v): nil gorgonia solver", test.t)
		}
	}
}

func TestNewInvalidHyperparameters(t *testing.T) {
	if _, err := NewDefaultAdam(-1, 1); err == nil {
		t.Error("expected error for negative step size")
	}
	if _, err := NewAdam(1e-3, 1e-8, 1.0, 0.999, 1); err == nil {
		t.Error("expected error for beta1 = 1")
	}
	if _, err := NewVanilla(0.1, 0, -1); err == nil {
		t.Error("expected error for zero batch size")
	}
}

func TestUnmarshalJSON(t *testing.T) {
	data := []byte(`{"Type": "Adam", "Config": {"StepSize": 0.01,
		"Epsilon": 1e-8, "Beta1": 0.9, "Beta2": 0.999, "Batch": 1}}`)

	var s Solver
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Type != Adam {
		t.Errorf("type: want Adam have %v", s.Type)
	}
	config, ok := s.Config.(AdamConfig)
	if !ok {
		t.Fatalf("config: want AdamConfig have %T", s.Config)
	}
	if config.StepSize != 0.01 {
		t.Errorf("step size: want 0.01 have %v", config.StepSize)
	}
	if _, ok := s.Solver.(*G.AdamSolver); !ok {
		t.Errorf("solver: want *AdamSolver have %T", s.Solver)
	}

	bad := [][]byte{
		[]byte(`{"Type": "Nope", "Config": {}}`),
		[]byte(`{"Config": {}}`),
		[]byte(`{"Type": "Vanilla", "Config": {"StepSize": 0, "Batch": 1}}`),
	}
	for _, b := range bad {
		if err := json.Unmarshal(b, &s); err == nil {
			t.Errorf("unmarshal(%s): expected error", b)
		}
	}
}
