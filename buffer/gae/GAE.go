// Package gae implements functionality for storing trajectories and
// computing generalized advantage estimates from them
package gae

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gobaseline/utils/floatutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Buffer implements a forward view generalized advantage estimate -
// GAE(λ) - buffer following https://arxiv.org/abs/1506.02438.
//
// The buffer stores one state, reward, and terminal flag per step.
// Steps from consecutive episodes may be stored in the same buffer;
// a step flagged as terminal ends its episode, and neither returns
// nor advantages are propagated backwards across it.
type Buffer struct {
	obsSize int // Size of flattened state observations

	lambda float64 // λ for GAE(λ) calculation
	gamma  float64 // Discount factor ℽ

	obsBuffer  []float64
	rewBuffer  []float64
	termBuffer []bool
}

// New creates and returns a new GAE(λ) buffer
func New(obsDim int, lambda, gamma float64) (*Buffer, error) {
	if obsDim < 1 {
		return nil, fmt.Errorf("new: obsDim must be positive, have %v",
			obsDim)
	}
	if lambda < 0 || lambda > 1 {
		return nil, fmt.Errorf("new: lambda must be in [0, 1], have %v",
			lambda)
	}
	if gamma < 0 || gamma > 1 {
		return nil, fmt.Errorf("new: gamma must be in [0, 1], have %v",
			gamma)
	}

	return &Buffer{
		obsSize: obsDim,
		lambda:  lambda,
		gamma:   gamma,
	}, nil
}

// Store stores a single timestep state, reward, and terminal flag to
// the Buffer.
func (b *Buffer) Store(obs []float64, rew float64, terminal bool) error {
	if len(obs) != b.obsSize {
		return fmt.Errorf("store: illegal obs length \n\twant(%v)\n\thave(%v)",
			b.obsSize, len(obs))
	}

	b.obsBuffer = append(b.obsBuffer, obs...)
	b.rewBuffer = append(b.rewBuffer, rew)
	b.termBuffer = append(b.termBuffer, terminal)
	return nil
}

// Len returns the number of steps stored in the buffer
func (b *Buffer) Len() int {
	return len(b.rewBuffer)
}

// Reset removes all steps from the buffer
func (b *Buffer) Reset() {
	b.obsBuffer = b.obsBuffer[:0]
	b.rewBuffer = b.rewBuffer[:0]
	b.termBuffer = b.termBuffer[:0]
}

// States returns the stored states, one per row. The returned matrix
// does not share memory with the buffer.
func (b *Buffer) States() (*mat.Dense, error) {
	if b.Len() == 0 {
		return nil, fmt.Errorf("states: buffer empty")
	}
	obs := make([]float64, len(b.obsBuffer))
	copy(obs, b.obsBuffer)
	return mat.NewDense(b.Len(), b.obsSize, obs), nil
}

// Returns returns the discounted return of each stored step
func (b *Buffer) Returns() ([]float64, error) {
	ret, err := floatutils.DiscountedReturns(b.rewBuffer, b.termBuffer,
		b.gamma)
	if err != nil {
		return nil, errors.Wrap(err, "returns")
	}
	return ret, nil
}

// Advantages returns the GAE(λ) advantage estimate of each stored
// step, given the value estimate of each step. The temporal difference
// error of step n is:
//
//	δ[n] = r[n] + ℽ V[n+1] (1 - terminal[n]) - V[n]
//
// where V past the final step is taken to be 0. Advantages are the
// δ discounted by ℽλ. If standardize is true, the advantages are
// shifted and scaled to have mean 0 and standard deviation 1.
func (b *Buffer) Advantages(values []float64,
	standardize bool) ([]float64, error) {
	if len(values) != b.Len() {
		return nil, fmt.Errorf("advantages: invalid number of values "+
			"\n\twant(%v)\n\thave(%v)", b.Len(), len(values))
	}

	deltas := make([]float64, b.Len())
	for n := range deltas {
		next := 0.0
		if n+1 < len(values) && !b.termBuffer[n] {
			next = values[n+1]
		}
		deltas[n] = b.rewBuffer[n] + b.gamma*next - values[n]
	}

	adv, err := floatutils.CumulativeDiscount(deltas, b.termBuffer,
		b.gamma*b.lambda)
	if err != nil {
		return nil, errors.Wrap(err, "advantages")
	}

	if standardize && len(adv) > 0 {
		mean, std := stat.MeanStdDev(adv, nil)
		if len(adv) == 1 {
			std = 0
		}
		floats.AddConst(-mean, adv)
		floats.Scale(1/(std+1e-8), adv)
	}
	return adv, nil
}
