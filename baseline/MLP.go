package baseline

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samuelfneumann/gobaseline/dtype"
	"github.com/samuelfneumann/gobaseline/network"
	"github.com/samuelfneumann/gobaseline/session"
	"github.com/samuelfneumann/gobaseline/solver"
	"github.com/samuelfneumann/gobaseline/utils/intutils"
	"github.com/samuelfneumann/gobaseline/utils/matutils"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// DefaultRepeatUpdate is the default number of optimizer steps taken
// by each call to MLP.Update
const DefaultRepeatUpdate = 100

type status int

const (
	uninitialized status = iota
	configured
	ready
)

// MLP is a baseline which predicts state values with a multi-layered
// perceptron with one hidden layer of Size units and a single linear
// output unit.
//
// Each call to Update takes RepeatUpdate optimizer steps on the mean
// squared error between predictions and returns, using the same batch
// at each step.
type MLP struct {
	Size         int
	RepeatUpdate int
	Activation   *network.Activation // Hidden layer; defaults to ReLU
	InitWFn      G.InitWFn           // Defaults to Glorot uniform

	mu        sync.Mutex
	status    status
	scope     string
	stateName string
	features  int
	solver    *solver.Solver

	prediction   *prediction
	optimization *optimization
	loss         float64
}

// NewMLP returns a new MLP baseline. A repeatUpdate of 0 selects
// DefaultRepeatUpdate.
func NewMLP(size, repeatUpdate int) (*MLP, error) {
	if size < 1 {
		return nil, fmt.Errorf("newMLP: size must be positive, have %v",
			size)
	}
	if repeatUpdate == 0 {
		repeatUpdate = DefaultRepeatUpdate
	}
	if repeatUpdate < 0 {
		return nil, fmt.Errorf("newMLP: repeatUpdate must be positive, "+
			"have %v", repeatUpdate)
	}

	return &MLP{Size: size, RepeatUpdate: repeatUpdate}, nil
}

// Create builds the prediction and optimization computations of the
// baseline. Only a single state input is supported.
func (m *MLP) Create(config Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != uninitialized {
		return fmt.Errorf("create: baseline already created")
	}
	if len(config.States) != 1 {
		return &UnsupportedShapeError{Expected: 1, Actual: len(config.States)}
	}
	if m.Size < 1 || m.RepeatUpdate < 1 {
		return fmt.Errorf("create: size (%v) and repeat update (%v) must "+
			"be positive", m.Size, m.RepeatUpdate)
	}

	var name string
	var spec StateSpec
	for n, s := range config.States {
		name, spec = n, s
	}
	if spec.Type == "" {
		spec.Type = dtype.Float
	}
	if _, err := dtype.Graph(spec.Type); err != nil {
		return errors.Wrapf(err, "create: state %v", name)
	}
	features := intutils.Prod(spec.Shape...)
	if features < 1 {
		return fmt.Errorf("create: state %v has no features (shape %v)",
			name, spec.Shape)
	}

	if config.Optimizer == nil && config.LearningRate <= 0 {
		return fmt.Errorf("create: learning rate must be positive, have %v",
			config.LearningRate)
	}
	s, err := solver.Resolve(config.Optimizer, config.LearningRate)
	if err != nil {
		return errors.Wrap(err, "create")
	}

	act := m.Activation
	if act == nil {
		act = network.ReLU()
	}
	initFn := m.InitWFn
	if initFn == nil {
		initFn = G.GlorotU(1.0)
	}

	scope := "mlp_value_function/" + uuid.New().String()
	net, err := network.NewMLP(features, 1, 1, G.NewGraph(), []int{m.Size},
		[]bool{true}, initFn, []*network.Activation{act}, scope)
	if err != nil {
		return errors.Wrap(err, "create")
	}

	m.scope = scope
	m.stateName = name
	m.features = features
	m.solver = s
	m.prediction = &prediction{name: scope + "/predict", net: net}

	// Rebuilt by Update for other batch sizes
	opt, err := m.newOptimization(1)
	if err != nil {
		return errors.Wrap(err, "create")
	}
	m.optimization = opt
	m.status = configured
	return nil
}

// Predict returns the predicted value of each state in the batch.
// Predict does not change the weights of the baseline.
func (m *MLP) Predict(r session.Runner, states States) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	batch, err := m.check(r, states)
	if err != nil {
		return nil, errors.Wrap(err, "predict")
	}
	rows, _ := batch.Dims()

	if m.prediction.net.BatchSize() != rows {
		net, err := m.prediction.net.CloneWithBatch(rows)
		if err != nil {
			return nil, errors.Wrap(err, "predict")
		}
		m.prediction = &prediction{name: m.prediction.name, net: net}
	}

	feed := session.Feed{
		m.prediction.net.Input(): tensor.New(
			tensor.WithShape(rows, m.features),
			tensor.WithBacking(matutils.Flatten(batch)),
		),
	}
	out, err := r.Run(m.prediction, feed)
	if err != nil {
		return nil, errors.Wrap(err, "predict")
	}
	if out == nil {
		return nil, fmt.Errorf("predict: runner returned no predictions")
	}

	data, ok := out.Data().([]float64)
	if !ok || len(data) != rows {
		return nil, fmt.Errorf("predict: runner returned %v predictions "+
			"for %v states", out.Shape(), rows)
	}
	pred := make([]float64, rows)
	copy(pred, data)
	return pred, nil
}

// Update takes RepeatUpdate optimizer steps towards predicting the
// returns of the states in the batch
func (m *MLP) Update(r session.Runner, states States,
	returns []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	batch, err := m.check(r, states)
	if err != nil {
		return errors.Wrap(err, "update")
	}
	rows, _ := batch.Dims()
	if len(returns) != rows {
		return fmt.Errorf("update: invalid number of returns \n\twant(%v)"+
			"\n\thave(%v)", rows, len(returns))
	}

	if m.optimization == nil || m.optimization.net.BatchSize() != rows {
		opt, err := m.newOptimization(rows)
		if err != nil {
			return errors.Wrap(err, "update")
		}
		m.optimization = opt
	}

	target := make([]float64, rows)
	copy(target, returns)
	feed := session.Feed{
		m.optimization.net.Input(): tensor.New(
			tensor.WithShape(rows, m.features),
			tensor.WithBacking(matutils.Flatten(batch)),
		),
		m.optimization.targets: tensor.New(
			tensor.WithShape(rows, 1),
			tensor.WithBacking(target),
		),
	}

	for i := 0; i < m.RepeatUpdate; i++ {
		out, err := r.Run(m.optimization, feed)
		if err != nil {
			// Rebuilt from the prediction weights on the next Update
			m.optimization = nil
			return errors.Wrapf(err, "update: step %v", i)
		}
		if out != nil {
			if loss, ok := out.Data().(float64); ok {
				m.loss = loss
			}
		}
	}

	if err := network.Set(m.prediction.net, m.optimization.net); err != nil {
		return errors.Wrap(err, "update")
	}
	m.status = ready
	return nil
}

// Loss returns the mean squared error computed on the last optimizer
// step
func (m *MLP) Loss() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loss
}

// Features returns the number of features in a flattened state, or 0
// if the baseline has not been created
func (m *MLP) Features() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.features
}

// check ensures the baseline can be run and returns the single batch
// of states
func (m *MLP) check(r session.Runner, states States) (*mat.Dense, error) {
	if r == nil {
		return nil, ErrNotReady
	}
	if m.status == uninitialized {
		return nil, ErrUninitialized
	}
	if len(states) != 1 {
		return nil, &UnsupportedShapeError{Expected: 1, Actual: len(states)}
	}

	batch, ok := states[m.stateName]
	if !ok || batch == nil {
		return nil, fmt.Errorf("no batch for state %q", m.stateName)
	}
	rows, cols := batch.Dims()
	if cols != m.features {
		return nil, fmt.Errorf("invalid number of features in state %q "+
			"\n\twant(%v)\n\thave(%v)", m.stateName, m.features, cols)
	}
	if rows < 1 {
		return nil, fmt.Errorf("empty batch for state %q", m.stateName)
	}
	return batch, nil
}

// newOptimization builds the optimization computation for batches of
// batch states, starting from the current prediction weights
func (m *MLP) newOptimization(batch int) (*optimization, error) {
	net, err := m.prediction.net.CloneWithBatch(batch)
	if err != nil {
		return nil, err
	}

	targets := G.NewMatrix(
		net.Graph(),
		tensor.Float64,
		G.WithShape(batch, 1),
		G.WithName(m.scope+"/returns"),
		G.WithInit(G.Zeroes()),
	)

	loss, err := G.Sub(net.Prediction(), targets)
	if err != nil {
		return nil, err
	}
	if loss, err = G.Square(loss); err != nil {
		return nil, err
	}
	if loss, err = G.Mean(loss); err != nil {
		return nil, err
	}

	opt := &optimization{
		name:    m.scope + "/optimize",
		net:     net,
		targets: targets,
		solver:  m.solver,
	}
	G.Read(loss, &opt.lossVal)

	if _, err := G.Grad(loss, net.Learnables()...); err != nil {
		return nil, err
	}
	return opt, nil
}

// prediction computes the predictions of a network
type prediction struct {
	name string
	net  network.NeuralNet
}

func (p *prediction) Name() string        { return p.name }
func (p *prediction) Graph() *G.ExprGraph { return p.net.Graph() }
func (p *prediction) Result() G.Value     { return p.net.Output() }

// optimization takes a solver step on the mean squared error of a
// network's predictions
type optimization struct {
	name    string
	net     network.NeuralNet
	targets *G.Node
	lossVal G.Value
	solver  *solver.Solver
}

func (o *optimization) Name() string         { return o.name }
func (o *optimization) Graph() *G.ExprGraph  { return o.net.Graph() }
func (o *optimization) Result() G.Value      { return o.lossVal }
func (o *optimization) Learnables() G.Nodes  { return o.net.Learnables() }
func (o *optimization) Model() []G.ValueGrad { return o.net.Model() }
func (o *optimization) Solver() G.Solver     { return o.solver }
