// Package session implements the runtime which executes computations
// built in Gorgonia computational graphs.
//
// Components such as baselines build their computations once and then
// run them through a Runner which is passed to them on every call,
// rather than each component owning its own machines. This allows a
// single Runner to execute the computations of many components, and
// allows tests to substitute their own Runner.
package session

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
)

// ErrClosed is returned when running a computation on a closed
// TapeSession
var ErrClosed = errors.New("session closed")

// Feed maps input nodes of a graph to the values they should take
// when a computation is run
type Feed map[*G.Node]G.Value

// Computation is a named computation in a Gorgonia graph
type Computation interface {
	// Name uniquely identifies the computation within a Runner
	Name() string
	Graph() *G.ExprGraph

	// Result returns the value produced by the last run of the
	// computation, or nil if the computation produces no value
	Result() G.Value
}

// Optimization is a Computation which, after running the forward and
// backward passes over its graph, takes a step of its Solver to
// update its learnable nodes
type Optimization interface {
	Computation
	Learnables() G.Nodes
	Model() []G.ValueGrad
	Solver() G.Solver
}

// Runner runs computations. Feed values are set before the computation
// is run, and the computation's result, if any, is returned.
type Runner interface {
	Run(c Computation, feed Feed) (G.Value, error)
}

// machine is a compiled VM for a single graph
type machine struct {
	g  *G.ExprGraph
	vm G.VM
}

// TapeSession is a Runner which runs computations on Gorgonia
// TapeMachines. A TapeMachine is compiled for each computation when it
// is first run and reused afterwards until the computation's graph
// changes. Runs are serialized, so a TapeSession may be shared between
// goroutines.
type TapeSession struct {
	mu       sync.Mutex
	machines map[string]*machine
	closed   bool
}

// New returns a new TapeSession
func New() *TapeSession {
	return &TapeSession{machines: make(map[string]*machine)}
}

// Run runs a computation and returns a copy of its result.
func (s *TapeSession) Run(c Computation, feed Feed) (G.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errors.Wrapf(ErrClosed, "run: %v", c.Name())
	}

	for node, value := range feed {
		if node.Graph() != c.Graph() {
			return nil, fmt.Errorf("run: feed node %v is not in the graph "+
				"of %v", node.Name(), c.Name())
		}
		if err := G.Let(node, value); err != nil {
			return nil, errors.Wrapf(err, "run: could not feed %v",
				node.Name())
		}
	}

	vm := s.machine(c)
	defer vm.Reset()

	if err := vm.RunAll(); err != nil {
		return nil, errors.Wrapf(err, "run: %v", c.Name())
	}

	if opt, ok := c.(Optimization); ok {
		if err := opt.Solver().Step(opt.Model()); err != nil {
			return nil, errors.Wrapf(err, "run: %v: solver step", c.Name())
		}
	}

	result := c.Result()
	if result == nil {
		return nil, nil
	}
	out, err := G.CloneValue(result)
	if err != nil {
		return nil, errors.Wrapf(err, "run: %v: could not copy result",
			c.Name())
	}
	return out, nil
}

// machine returns the VM for c, compiling a new one if c has not been
// run before or if its graph has changed since it was last run
func (s *TapeSession) machine(c Computation) G.VM {
	if m, ok := s.machines[c.Name()]; ok {
		if m.g == c.Graph() {
			return m.vm
		}
		m.vm.Close()
	}

	var vm G.VM
	if opt, ok := c.(Optimization); ok {
		vm = G.NewTapeMachine(c.Graph(), G.BindDualValues(opt.Learnables()...))
	} else {
		vm = G.NewTapeMachine(c.Graph())
	}
	s.machines[c.Name()] = &machine{g: c.Graph(), vm: vm}
	return vm
}

// Len returns the number of compiled machines held by the session
func (s *TapeSession) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.machines)
}

// Close releases all machines of the session. Running a computation on
// a closed session returns ErrClosed.
func (s *TapeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, m := range s.machines {
		if err := m.vm.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "close: %v", name)
		}
		delete(s.machines, name)
	}
	s.closed = true
	return firstErr
}
