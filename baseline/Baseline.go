// Package baseline implements baseline value functions. A baseline
// estimates the expected return from a state and is used to reduce the
// variance of policy gradient estimates.
//
// Baselines build their computations when created and are then run
// through a session.Runner which the caller passes to every Predict and
// Update call.
package baseline

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gobaseline/dtype"
	"github.com/samuelfneumann/gobaseline/resolver"
	"github.com/samuelfneumann/gobaseline/session"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotReady is returned when a baseline is run without a runner
	ErrNotReady = errors.New("baseline: no runner to execute computations")

	// ErrUninitialized is returned when a baseline is used before
	// Create has been called
	ErrUninitialized = errors.New("baseline: not created")
)

// UnsupportedShapeError is returned when a baseline is created with a
// number of state inputs it does not support
type UnsupportedShapeError struct {
	Expected int
	Actual   int
}

// Error implements the error interface
func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("baseline: unsupported number of state inputs "+
		"\n\twant(%v)\n\thave(%v)", e.Expected, e.Actual)
}

// StateSpec describes a single state input
type StateSpec struct {
	Shape []int
	Type  dtype.Symbol // Defaults to dtype.Float
}

// Config describes the environment and optimization settings a
// baseline is created with
type Config struct {
	// States maps the name of each state input to its description
	States map[string]StateSpec

	// LearningRate is the learning rate of the baseline's optimizer
	LearningRate float64

	// Optimizer optionally describes the optimizer to use. If nil, an
	// Adam optimizer is used. The optimizer's learning rate is
	// LearningRate unless Optimizer sets one itself.
	Optimizer *resolver.Descriptor
}

// States maps the name of a state input to a batch of states. Each
// row of a batch is a single flattened state.
type States map[string]*mat.Dense

// Baseline is a state value function
type Baseline interface {
	// Create builds the computations of the baseline
	Create(Config) error

	// Predict returns the predicted value of each state in the batch
	Predict(session.Runner, States) ([]float64, error)

	// Update fits the baseline to the returns observed from a batch
	// of states
	Update(session.Runner, States, []float64) error
}

// New returns the Baseline described by d
func New(d *resolver.Descriptor) (Baseline, error) {
	obj, err := resolver.Object(d, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "new")
	}
	b, ok := obj.(Baseline)
	if !ok {
		return nil, fmt.Errorf("new: %v does not describe a Baseline, "+
			"have %T", d, obj)
	}
	return b, nil
}
