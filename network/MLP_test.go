package network

import (
	"math"
	"testing"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func run(t *testing.T, net NeuralNet, input []float64) []float64 {
	t.Helper()

	x := tensor.New(tensor.WithShape(net.Input().Shape()...),
		tensor.WithBacking(input))
	if err := G.Let(net.Input(), x); err != nil {
		t.Fatal(err)
	}
	vm := G.NewTapeMachine(net.Graph())
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		t.Fatal(err)
	}

	out := net.Output().Data().([]float64)
	pred := make([]float64, len(out))
	copy(pred, out)
	return pred
}

func TestNewMLPShapes(t *testing.T) {
	g := G.NewGraph()
	net, err := NewMLP(3, 4, 1, g, []int{5}, []bool{true}, G.GlorotU(1.0),
		[]*Activation{ReLU()}, "test")
	if err != nil {
		t.Fatal(err)
	}

	if net.BatchSize() != 4 || net.Features() != 3 || net.Outputs() != 1 {
		t.Errorf("shape: have batch %v, features %v, outputs %v",
			net.BatchSize(), net.Features(), net.Outputs())
	}
	if s := net.Prediction().Shape(); s[0] != 4 || s[1] != 1 {
		t.Errorf("prediction shape: want((4, 1)) have(%v)", s)
	}

	// Hidden weights and bias, output weights and bias
	if n := len(net.Learnables()); n != 4 {
		t.Errorf("learnables: want(4) have(%v)", n)
	}

	pred := run(t, net, make([]float64, 12))
	if len(pred) != 4 {
		t.Errorf("predictions: want(4) have(%v)", len(pred))
	}
}

func TestNewMLPInvalid(t *testing.T) {
	g := G.NewGraph()
	if _, err := NewMLP(3, 4, 1, g, []int{5}, []bool{true, false},
		G.GlorotU(1.0), []*Activation{ReLU()}, "test"); err == nil {
		t.Error("want error for mismatched biases")
	}
	if _, err := NewMLP(3, 4, 1, g, []int{5}, []bool{true},
		G.GlorotU(1.0), nil, "test"); err == nil {
		t.Error("want error for mismatched activations")
	}
	if _, err := NewMLP(0, 4, 1, g, nil, nil, G.GlorotU(1.0), nil,
		"test"); err == nil {
		t.Error("want error for zero features")
	}
}

func TestCloneWithBatchKeepsWeights(t *testing.T) {
	net, err := NewMLP(2, 1, 1, G.NewGraph(), []int{3}, []bool{true},
		G.GlorotU(1.0), []*Activation{TanH()}, "test")
	if err != nil {
		t.Fatal(err)
	}
	clone, err := net.CloneWithBatch(3)
	if err != nil {
		t.Fatal(err)
	}
	if clone.BatchSize() != 3 {
		t.Errorf("batch: want(3) have(%v)", clone.BatchSize())
	}

	single := run(t, net, []float64{0.5, -1})
	batch := run(t, clone, []float64{0.5, -1, 0.5, -1, 0.5, -1})
	for i, v := range batch {
		if math.Abs(v-single[0]) > 1e-12 {
			t.Errorf("prediction %d: want(%v) have(%v)", i, single[0], v)
		}
	}
}

func TestSet(t *testing.T) {
	a, err := NewMLP(2, 1, 1, G.NewGraph(), []int{3}, []bool{true},
		G.GlorotU(1.0), []*Activation{ReLU()}, "a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewMLP(2, 1, 1, G.NewGraph(), []int{3}, []bool{true},
		G.Zeroes(), []*Activation{ReLU()}, "b")
	if err != nil {
		t.Fatal(err)
	}

	if err := Set(b, a); err != nil {
		t.Fatal(err)
	}
	input := []float64{1, 2}
	pa, pb := run(t, a, input), run(t, b, input)
	if math.Abs(pa[0]-pb[0]) > 1e-12 {
		t.Errorf("set: want(%v) have(%v)", pa[0], pb[0])
	}

	c, err := NewMLP(2, 1, 1, G.NewGraph(), nil, nil, G.Zeroes(), nil, "c")
	if err != nil {
		t.Fatal(err)
	}
	if err := Set(c, a); err == nil {
		t.Error("want error for mismatched architectures")
	}
}

func TestActivationByName(t *testing.T) {
	for _, name := range []string{"relu", "tanh", "sigmoid", "identity"} {
		act, err := ActivationByName(name)
		if err != nil {
			t.Errorf("activationByName(%q): %v", name, err)
			continue
		}
		if act.String() != name {
			t.Errorf("string: want(%v) have(%v)", name, act.String())
		}
	}
	if _, err := ActivationByName("softplus"); err == nil {
		t.Error("want error for unknown activation")
	}
}
