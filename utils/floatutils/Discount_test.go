package floatutils

import (
	"errors"
	"math"
	"testing"
)

func TestProd(t *testing.T) {
	if p := Prod(); p != 1.0 {
		t.Errorf("prod of empty list: want(1) have(%v)", p)
	}
	if p := Prod(2, 3, 4); p != 24.0 {
		t.Errorf("prod: want(24) have(%v)", p)
	}
}

func TestCumulativeDiscountTerminal(t *testing.T) {
	rewards := []float64{1, 1, 1}
	terminals := []bool{false, true, false}

	returns, err := CumulativeDiscount(rewards, terminals, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{1.5, 1, 1}
	for i := range want {
		if returns[i] != want[i] {
			t.Errorf("return %d: want(%v) have(%v)", i, want[i], returns[i])
		}
	}

	// Rewards must have been overwritten in place
	if &returns[0] != &rewards[0] {
		t.Error("returns do not share the rewards backing array")
	}
}

func TestCumulativeDiscountNoTerminals(t *testing.T) {
	original := []float64{1, -2, 0.5, 3, 4}
	discount := 0.9

	rewards := make([]float64, len(original))
	copy(rewards, original)
	returns, err := CumulativeDiscount(rewards,
		make([]bool, len(rewards)), discount)
	if err != nil {
		t.Fatal(err)
	}

	for n := range original {
		want := 0.0
		for k := n; k < len(original); k++ {
			want += math.Pow(discount, float64(k-n)) * original[k]
		}
		if math.Abs(returns[n]-want) > 1e-12 {
			t.Errorf("return %d: want(%v) have(%v)", n, want, returns[n])
		}
	}
}

func TestCumulativeDiscountZeroDiscount(t *testing.T) {
	rewards := []float64{3, 1, 4, 1, 5}
	terminals := []bool{false, false, true, false, true}

	returns, err := CumulativeDiscount(rewards, terminals, 0.0)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{3, 1, 4, 1, 5}
	for i := range want {
		if returns[i] != want[i] {
			t.Errorf("return %d: want(%v) have(%v)", i, want[i], returns[i])
		}
	}
}

func TestCumulativeDiscountLengthMismatch(t *testing.T) {
	rewards := []float64{1, 2, 3}
	_, err := CumulativeDiscount(rewards, []bool{false, true}, 0.9)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("want ErrLengthMismatch, have %v", err)
	}
	if rewards[0] != 1 || rewards[1] != 2 || rewards[2] != 3 {
		t.Errorf("rewards modified on error: %v", rewards)
	}
}

func TestDiscountedReturns(t *testing.T) {
	rewards := []float64{1, 1, 1}
	returns, err := DiscountedReturns(rewards, []bool{false, false, false},
		1.0)
	if err != nil {
		t.Fatal(err)
	}
	if returns[0] != 3 || returns[1] != 2 || returns[2] != 1 {
		t.Errorf("returns: want([3 2 1]) have(%v)", returns)
	}
	if rewards[0] != 1 {
		t.Errorf("rewards modified: %v", rewards)
	}
}

func TestClip(t *testing.T) {
	if c := Clip(5, -1, 1); c != 1 {
		t.Errorf("clip: want(1) have(%v)", c)
	}
	if c := Clip(-5, -1, 1); c != -1 {
		t.Errorf("clip: want(-1) have(%v)", c)
	}
}
