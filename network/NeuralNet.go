// Package network implements feed forward neural networks as Gorgonia
// computational graphs.
package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// NeuralNet is a neural network which lives in a Gorgonia
// computational graph. Its input node has a fixed batch size; to
// predict batches of a different size, clone the network with
// CloneWithBatch.
type NeuralNet interface {
	Graph() *G.ExprGraph
	CloneWithBatch(int) (NeuralNet, error)
	BatchSize() int
	Features() int
	Outputs() int

	// Input returns the input node of the network, of shape
	// (BatchSize(), Features())
	Input() *G.Node

	Set(NeuralNet) error
	Learnables() G.Nodes
	Model() []G.ValueGrad

	// Prediction returns the output node of the network, of shape
	// (BatchSize(), Outputs())
	Prediction() *G.Node

	// Output returns the value of Prediction() computed on the last
	// run of a machine over Graph()
	Output() G.Value
}

// Set sets the weights of dest to be equal to the weights of source
func Set(dest, source NeuralNet) error {
	sourceNodes := source.Learnables()
	nodes := dest.Learnables()
	if len(sourceNodes) != len(nodes) {
		return fmt.Errorf("set: networks have different numbers of "+
			"learnables \n\twant(%v)\n\thave(%v)", len(nodes),
			len(sourceNodes))
	}

	for i, destLearnable := range nodes {
		sourceLearnable := sourceNodes[i].Clone()
		err := G.Let(destLearnable, sourceLearnable.(*G.Node).Value())
		if err != nil {
			return fmt.Errorf("set: could not set learnable %v: %v", i, err)
		}
	}
	return nil
}
