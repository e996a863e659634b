// Package solver wraps Gorgonia Solvers so that they can be described
// in configuration files and constructed through the resolver, for
// example:
//
//	{"type": "solver.Adam", "learning_rate": 0.001}
package solver

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gobaseline/resolver"
	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	RMSProp Type = "RMSProp"
	Vanilla Type = "Vanilla"
)

// Name returns the dotted name the solver type is registered under
func (t Type) Name() string {
	return "solver." + string(t)
}

// Solver wraps a Gorgonia Solver together with the configuration that
// created it.
type Solver struct {
	G.Solver
	Type
	Config
}

// Config implements a Gorgonia Solver configuration and can be used to
// create Gorgonia Solvers they describe.
type Config interface {
	Create() G.Solver

	// ValidType returns whether a specific Solver type can be created
	// with the Config
	ValidType(Type) bool
}

// newSolver returns a new solver with the given type and configuration.
func newSolver(t Type, c Config) (*Solver, error) {
	if !c.ValidType(t) {
		return nil, fmt.Errorf("newSolver: invalid solver type %v for "+
			"configuration %T", t, c)
	}
	solver := Solver{Type: t, Config: c}
	solver.Solver = solver.Config.Create()

	return &solver, nil
}

// String implements the fmt.Stringer interface
func (s *Solver) String() string {
	return fmt.Sprintf("{%v Solver: %+v}", s.Type, s.Config)
}

// stepSize returns the learning rate keyword argument. Both
// "learning_rate" and "step_size" are accepted.
func stepSize(k resolver.Kwargs, def float64) (float64, error) {
	if _, ok := k["step_size"]; ok {
		return k.Float("step_size", def)
	}
	return k.Float("learning_rate", def)
}

// Resolve returns the Solver described by d. The learning rate lr is
// passed to the described solver unless d sets one itself. If d is nil,
// an Adam solver with default hyperparameters is returned.
func Resolve(d *resolver.Descriptor, lr float64) (*Solver, error) {
	if d == nil {
		return NewDefaultAdam(lr, 1)
	}

	var kwargs resolver.Kwargs
	_, hasStep := d.Kwargs["step_size"]
	_, hasLR := d.Kwargs["learning_rate"]
	if !hasStep && !hasLR {
		kwargs = resolver.Kwargs{"learning_rate": lr}
	} else if lr > 0 {
		fmt.Fprintf(os.Stderr, "Warning: solver %v sets its own learning "+
			"rate, ignoring learning rate %v\n", d.Type, lr)
	}

	obj, err := resolver.Object(d, nil, kwargs)
	if err != nil {
		return nil, errors.Wrap(err, "resolve")
	}
	s, ok := obj.(*Solver)
	if !ok {
		return nil, fmt.Errorf("resolve: %v does not describe a Solver, "+
			"have %T", d, obj)
	}
	return s, nil
}
