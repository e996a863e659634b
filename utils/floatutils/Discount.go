package floatutils

import (
	"github.com/pkg/errors"
)

// ErrLengthMismatch is returned when rewards and terminals of a
// trajectory are not index-aligned.
var ErrLengthMismatch = errors.New("rewards and terminals differ in length")

// CumulativeDiscount computes the discounted return of each step in a
// trajectory, walking from the last step to the first:
//
//	G[n] = r[n] + ℽ G[n+1]
//
// where G[n+1] is taken to be 0 whenever terminals[n] is true, so that
// returns never leak across episode boundaries.
//
// The rewards slice is consumed: each reward is overwritten with its
// discounted return and the same slice is returned. Callers which need
// the original rewards should use DiscountedReturns instead. If
// discount is 0, every return equals its reward and rewards is
// returned untouched.
func CumulativeDiscount(rewards []float64, terminals []bool,
	discount float64) ([]float64, error) {
	if len(rewards) != len(terminals) {
		return nil, errors.Wrapf(ErrLengthMismatch,
			"cumulativeDiscount: \n\twant(%v)\n\thave(%v)", len(rewards),
			len(terminals))
	}
	if discount == 0.0 {
		return rewards, nil
	}

	cumulative := 0.0
	for n := len(rewards) - 1; n >= 0; n-- {
		if terminals[n] {
			cumulative = 0.0
		}
		cumulative = rewards[n] + discount*cumulative
		rewards[n] = cumulative
	}
	return rewards, nil
}

// DiscountedReturns is like CumulativeDiscount but leaves rewards
// unmodified, returning the discounted returns in a new slice.
func DiscountedReturns(rewards []float64, terminals []bool,
	discount float64) ([]float64, error) {
	returns := make([]float64, len(rewards))
	copy(returns, rewards)
	return CumulativeDiscount(returns, terminals, discount)
}
