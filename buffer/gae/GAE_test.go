package gae

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const tolerance = 1e-9

func fill(t *testing.T, b *Buffer, rewards []float64, terminals []bool) {
	t.Helper()
	for i := range rewards {
		if err := b.Store([]float64{float64(i), -float64(i)}, rewards[i],
			terminals[i]); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNew(t *testing.T) {
	if _, err := New(0, 0.9, 0.9); err == nil {
		t.Error("want error for non-positive obsDim")
	}
	if _, err := New(1, 1.5, 0.9); err == nil {
		t.Error("want error for lambda > 1")
	}
	if _, err := New(1, 0.9, -0.1); err == nil {
		t.Error("want error for gamma < 0")
	}
}

func TestStore(t *testing.T) {
	b, _ := New(2, 0.95, 0.99)
	fill(t, b, []float64{1, 2, 3}, []bool{false, false, true})

	if b.Len() != 3 {
		t.Errorf("len: want(3) have(%v)", b.Len())
	}
	if err := b.Store([]float64{1}, 0, false); err == nil {
		t.Error("want error for wrong observation length")
	}

	states, err := b.States()
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := states.Dims()
	if rows != 3 || cols != 2 {
		t.Errorf("states dims: want(3, 2) have(%v, %v)", rows, cols)
	}
	if states.At(2, 0) != 2 || states.At(2, 1) != -2 {
		t.Errorf("states row 2: want([2 -2]) have(%v)", states.RawRowView(2))
	}

	b.Reset()
	if b.Len() != 0 {
		t.Errorf("len after reset: want(0) have(%v)", b.Len())
	}
	if _, err := b.States(); err == nil {
		t.Error("want error for states of empty buffer")
	}
}

func TestReturns(t *testing.T) {
	b, _ := New(2, 0.95, 0.5)
	fill(t, b, []float64{1, 1, 1, 2}, []bool{false, true, false, false})

	ret, err := b.Returns()
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1.5, 1, 2, 2}
	if !floats.EqualApprox(ret, want, tolerance) {
		t.Errorf("returns: want(%v) have(%v)", want, ret)
	}

	// Computing returns must not consume the stored rewards
	if ret, _ = b.Returns(); !floats.EqualApprox(ret, want, tolerance) {
		t.Errorf("second returns: want(%v) have(%v)", want, ret)
	}
}

func TestAdvantages(t *testing.T) {
	gamma, lambda := 0.9, 0.8
	b, _ := New(2, lambda, gamma)
	rewards := []float64{1, 0, 2, 1}
	terminals := []bool{false, true, false, false}
	values := []float64{0.5, 0.2, 1.0, 0.4}
	fill(t, b, rewards, terminals)

	deltas := []float64{
		1 + gamma*0.2 - 0.5,
		0 - 0.2,
		2 + gamma*0.4 - 1.0,
		1 - 0.4,
	}
	gl := gamma * lambda
	want := []float64{
		deltas[0] + gl*deltas[1],
		deltas[1],
		deltas[2] + gl*deltas[3],
		deltas[3],
	}

	adv, err := b.Advantages(values, false)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(adv, want, tolerance) {
		t.Errorf("advantages: want(%v) have(%v)", want, adv)
	}

	// With λ = 1 and no terminals, advantages equal returns minus values
	b, _ = New(1, 1.0, gamma)
	for _, r := range rewards {
		b.Store([]float64{0}, r, false)
	}
	adv, err = b.Advantages(values, false)
	if err != nil {
		t.Fatal(err)
	}
	ret, _ := b.Returns()
	floats.Sub(ret, values)
	if !floats.EqualApprox(adv, ret, tolerance) {
		t.Errorf("λ=1 advantages: want(%v) have(%v)", ret, adv)
	}
}

func TestAdvantagesStandardized(t *testing.T) {
	b, _ := New(2, 0.95, 0.99)
	fill(t, b, []float64{1, 5, -2, 3, 0}, []bool{false, false, true, false,
		true})

	adv, err := b.Advantages([]float64{0, 1, 0, 2, 1}, true)
	if err != nil {
		t.Fatal(err)
	}
	mean, std := stat.MeanStdDev(adv, nil)
	if math.Abs(mean) > 1e-6 || math.Abs(std-1) > 1e-6 {
		t.Errorf("standardized: want mean 0, std 1, have %v, %v", mean, std)
	}

	if _, err := b.Advantages([]float64{0}, false); err == nil {
		t.Error("want error for wrong number of values")
	}
}
