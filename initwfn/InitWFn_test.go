package initwfn

import (
	"encoding/json"
	"testing"

	"gorgonia.org/tensor"
)

func TestUnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{`{"Type": "GlorotU", "Config": {"Gain": 1}}`, GlorotU, false},
		{`{"Type": "HeN", "Config": {"Gain": 2}}`, HeN, false},
		{`{"Type": "Zeroes", "Config": {}}`, Zeroes, false},
		{`{"Type": "Uniform", "Config": {"Low": -1, "High": 1}}`, Uniform, false},
		{`{"Type": "Uniform", "Config": {"Low": 1, "High": -1}}`, "", true},
		{`{"Type": "GlorotN", "Config": {"Gain": 0}}`, "", true},
		{`{"Type": "Xavier", "Config": {}}`, "", true},
	}

	for _, test := range tests {
		var init InitWFn
		err := json.Unmarshal([]byte(test.in), &init)
		if test.wantErr {
			if err == nil {
				t.Errorf("unmarshal(%v): expected error", test.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("unmarshal(%v): %v", test.in, err)
			continue
		}
		if init.Type != test.want {
			t.Errorf("unmarshal(%v): want type %v have %v", test.in,
				test.want, init.Type)
		}
		if init.InitWFn() == nil {
			t.Errorf("unmarshal(%v): nil InitWFn", test.in)
		}
	}
}

func TestZeroes(t *testing.T) {
	init, err := NewZeroes()
	if err != nil {
		t.Fatal(err)
	}
	values := init.InitWFn()(tensor.Float64, 2, 3)
	for _, v := range values.([]float64) {
		if v != 0 {
			t.Fatalf("want all zeroes have %v", values)
		}
	}
}
