package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// mlp implements a multi-layered perceptron
type mlp struct {
	g       *G.ExprGraph
	name    string
	layers  []*fcLayer
	input   *G.Node
	outputs int

	learnables G.Nodes
	model      []G.ValueGrad

	prediction *G.Node
	predVal    G.Value
}

// NewMLP creates and returns a new multi-layered perceptron in the
// graph g. The network takes batches of batch inputs, each with
// features features, and predicts outputs values for each input.
//
// The MLP has len(hiddenSizes) + 1 layers. For index i, hiddenSizes[i]
// is the number of units in hidden layer i, biases[i] is true if the
// hidden layer has a bias unit, and activations[i] is the activation
// function of the hidden layer. A final linear layer with a bias unit
// is always added to produce the outputs. All weights are initialized
// with init, and all nodes of the network are named with the given
// name as a prefix.
func NewMLP(features, batch, outputs int, g *G.ExprGraph, hiddenSizes []int,
	biases []bool, init G.InitWFn, activations []*Activation,
	name string) (NeuralNet, error) {
	if len(hiddenSizes) != len(activations) {
		msg := "newMLP: invalid number of activations\n\twant(%d)" +
			"\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(activations))
	}
	if len(hiddenSizes) != len(biases) {
		msg := "newMLP: invalid number of biases\n\twant(%d)\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(biases))
	}
	if features < 1 || batch < 1 || outputs < 1 {
		return nil, fmt.Errorf("newMLP: features (%v), batch (%v), and "+
			"outputs (%v) must be positive", features, batch, outputs)
	}

	layers := make([]*fcLayer, 0, len(hiddenSizes)+1)
	in := features
	for i, size := range hiddenSizes {
		if size < 1 {
			return nil, fmt.Errorf("newMLP: hidden layer %v has size %v",
				i, size)
		}
		layerName := fmt.Sprintf("%s/dense%d", name, i)
		layers = append(layers, newFCLayer(g, in, size, biases[i],
			activations[i], init, layerName))
		in = size
	}
	layerName := fmt.Sprintf("%s/dense%d", name, len(hiddenSizes))
	layers = append(layers, newFCLayer(g, in, outputs, true, Identity(), init,
		layerName))

	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, features),
		G.WithName(name+"/input"), G.WithInit(G.Zeroes()))

	net := &mlp{
		g:       g,
		name:    name,
		layers:  layers,
		input:   input,
		outputs: outputs,
	}
	if err := net.fwd(); err != nil {
		return nil, fmt.Errorf("newMLP: could not compute forward pass: %v",
			err)
	}
	return net, nil
}

// fwd adds the forward pass of the network on its input node to the
// graph
func (m *mlp) fwd() error {
	pred := m.input
	var err error
	for i, l := range m.layers {
		if pred, err = l.fwd(pred); err != nil {
			return fmt.Errorf("fwd: could not compute forward pass of "+
				"layer %v: %v", i, err)
		}
	}

	m.prediction = pred
	G.Read(m.prediction, &m.predVal)
	return nil
}

// Graph returns the computational graph of the network
func (m *mlp) Graph() *G.ExprGraph {
	return m.g
}

// CloneWithBatch clones the network, including the current values of
// its weights, into a new graph with a new input batch size
func (m *mlp) CloneWithBatch(batch int) (NeuralNet, error) {
	if batch < 1 {
		return nil, fmt.Errorf("cloneWithBatch: batch size must be "+
			"positive, have %v", batch)
	}

	g := G.NewGraph()
	layers := make([]*fcLayer, len(m.layers))
	for i := range m.layers {
		layers[i] = m.layers[i].cloneTo(g)
	}

	input := G.NewMatrix(g, tensor.Float64,
		G.WithShape(batch, m.Features()), G.WithName(m.name+"/input"),
		G.WithInit(G.Zeroes()))

	net := &mlp{
		g:       g,
		name:    m.name,
		layers:  layers,
		input:   input,
		outputs: m.outputs,
	}
	if err := net.fwd(); err != nil {
		return nil, fmt.Errorf("cloneWithBatch: could not compute forward "+
			"pass: %v", err)
	}
	return net, nil
}

// BatchSize returns the batch size of inputs to the network
func (m *mlp) BatchSize() int {
	return m.input.Shape()[0]
}

// Features returns the number of features in a single input
func (m *mlp) Features() int {
	return m.input.Shape()[1]
}

// Outputs returns the number of values predicted for each input
func (m *mlp) Outputs() int {
	return m.outputs
}

// Input returns the input node of the network
func (m *mlp) Input() *G.Node {
	return m.input
}

// Set sets the weights of the network to be equal to the weights of
// another network
func (m *mlp) Set(source NeuralNet) error {
	return Set(m, source)
}

// Learnables returns the learnable nodes of the network
func (m *mlp) Learnables() G.Nodes {
	if m.learnables == nil {
		learnables := make(G.Nodes, 0, 2*len(m.layers))
		for _, l := range m.layers {
			learnables = append(learnables, l.learnables()...)
		}
		m.learnables = learnables
	}
	return m.learnables
}

// Model returns the learnable nodes with their gradients
func (m *mlp) Model() []G.ValueGrad {
	if m.model == nil {
		model := make([]G.ValueGrad, 0, len(m.Learnables()))
		for _, node := range m.Learnables() {
			model = append(model, node)
		}
		m.model = model
	}
	return m.model
}

// Prediction returns the output node of the network
func (m *mlp) Prediction() *G.Node {
	return m.prediction
}

// Output returns the value of the prediction node
func (m *mlp) Output() G.Value {
	return m.predVal
}
