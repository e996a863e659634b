package main

import (
	"github.com/samuelfneumann/gobaseline/buffer/gae"
	"github.com/samuelfneumann/gobaseline/utils/floatutils"
	"golang.org/x/exp/rand"
)

// walk is a one dimensional random walk on [-1, 1]. Each step the
// position moves left or right by a uniformly random amount up to
// stepSize. Reaching the right boundary gives a reward of 1 and
// reaching the left boundary a reward of -1; both end the episode.
// All other rewards are 0.
type walk struct {
	rng      *rand.Rand
	stepSize float64
	maxSteps int
}

func newWalk(seed uint64, stepSize float64, maxSteps int) *walk {
	return &walk{
		rng:      rand.New(rand.NewSource(seed)),
		stepSize: stepSize,
		maxSteps: maxSteps,
	}
}

// step moves from position and returns the next position, reward, and
// whether the episode ended
func (w *walk) step(position float64) (float64, float64, bool) {
	delta := w.stepSize * (2*w.rng.Float64() - 1)
	next := floatutils.Clip(position+delta, -1.0, 1.0)

	switch next {
	case 1.0:
		return next, 1.0, true
	case -1.0:
		return next, -1.0, true
	}
	return next, 0.0, false
}

// rollout runs one episode from the centre of the walk, storing each
// step in buf, and returns the number of steps taken. An episode cut
// off at maxSteps is stored as terminal.
func (w *walk) rollout(buf *gae.Buffer) (int, error) {
	position := 0.0
	for t := 0; t < w.maxSteps; t++ {
		next, reward, done := w.step(position)
		done = done || t == w.maxSteps-1

		if err := buf.Store([]float64{position}, reward, done); err != nil {
			return t, err
		}
		if done {
			return t + 1, nil
		}
		position = next
	}
	return w.maxSteps, nil
}
