package solver

import (
	"testing"

	"github.com/samuelfneumann/gobaseline/resolver"
)

func TestResolveDefault(t *testing.T) {
	s, err := Resolve(nil, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != Adam {
		t.Errorf("type: want(%v) have(%v)", Adam, s.Type)
	}
	if c := s.Config.(AdamConfig); c.StepSize != 0.01 {
		t.Errorf("step size: want(0.01) have(%v)", c.StepSize)
	}
}

func TestResolveLearningRate(t *testing.T) {
	tests := []struct {
		d    *resolver.Descriptor
		want float64
	}{
		// Learning rate inherited from the caller
		{resolver.NewDescriptor(RMSProp.Name(), nil), 0.5},

		// Learning rate set by the descriptor
		{resolver.NewDescriptor(RMSProp.Name(),
			resolver.Kwargs{"learning_rate": 0.1}), 0.1},
		{resolver.NewDescriptor(RMSProp.Name(),
			resolver.Kwargs{"step_size": 0.2}), 0.2},
	}

	for _, test := range tests {
		s, err := Resolve(test.d, 0.5)
		if err != nil {
			t.Fatal(err)
		}
		c, ok := s.Config.(RMSPropConfig)
		if !ok {
			t.Fatalf("config: want RMSPropConfig, have %T", s.Config)
		}
		if c.StepSize != test.want {
			t.Errorf("%v: want(%v) have(%v)", test.d, test.want, c.StepSize)
		}
	}
}

func TestResolveAll(t *testing.T) {
	for _, typ := range []Type{Adam, RMSProp, Vanilla} {
		s, err := Resolve(resolver.NewDescriptor(typ.Name(), nil), 0.01)
		if err != nil {
			t.Errorf("resolve(%v): %v", typ, err)
			continue
		}
		if s.Type != typ || s.Solver == nil {
			t.Errorf("resolve(%v): have %v", typ, s)
		}
	}
}

func TestResolveNotASolver(t *testing.T) {
	r := resolver.NewDescriptor("solver.Adam", resolver.Kwargs{"batch": 1.5})
	if _, err := Resolve(r, 0.01); err == nil {
		t.Error("want error for fractional batch size")
	}
}

func TestNewSolverInvalidType(t *testing.T) {
	if _, err := newSolver(Vanilla, AdamConfig{}); err == nil {
		t.Error("want error for mismatched type and config")
	}
}
