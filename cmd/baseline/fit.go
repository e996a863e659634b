package main

import (
	"fmt"
	"io"
	"log"
	"math"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gobaseline/baseline"
	"github.com/samuelfneumann/gobaseline/buffer/gae"
	"github.com/samuelfneumann/gobaseline/session"
	"github.com/samuelfneumann/gobaseline/utils/progressbar"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// stateName is the name of the single state input of the walk
const stateName = "position"

// evalPositions are the positions the fitted baseline is evaluated at
var evalPositions = []float64{-0.75, -0.5, -0.25, 0, 0.25, 0.5, 0.75}

type fitOptions struct {
	config     fileConfig
	iterations int
	episodes   int
	steps      int
	stepSize   float64
	discount   float64
	lambda     float64
	seed       uint64
	progress   bool

	out    io.Writer
	logger *log.Logger
}

// losser is implemented by baselines which report their training loss
type losser interface {
	Loss() float64
}

// fit builds the configured baseline and alternates between rolling
// out episodes of the walk and updating the baseline on their returns.
// The values predicted at evalPositions are written to out.
func fit(opts fitOptions) error {
	if opts.iterations < 1 || opts.episodes < 1 || opts.steps < 1 {
		return fmt.Errorf("fit: iterations (%v), episodes (%v), and steps "+
			"(%v) must be positive", opts.iterations, opts.episodes,
			opts.steps)
	}

	b, err := baseline.New(opts.config.Baseline)
	if err != nil {
		return errors.Wrap(err, "fit")
	}
	err = b.Create(baseline.Config{
		States: map[string]baseline.StateSpec{
			stateName: {Shape: []int{1}},
		},
		LearningRate: opts.config.LearningRate,
		Optimizer:    opts.config.Optimizer,
	})
	if err != nil {
		return errors.Wrap(err, "fit")
	}

	buf, err := gae.New(1, opts.lambda, opts.discount)
	if err != nil {
		return errors.Wrap(err, "fit")
	}

	sess := session.New()
	defer sess.Close()

	task := newWalk(opts.seed, opts.stepSize, opts.steps)

	var bar *progressbar.ProgressBar
	if opts.progress {
		bar = progressbar.New(opts.logger.Writer(), 40, opts.iterations)
		defer bar.Finish()
	}

	for i := 0; i < opts.iterations; i++ {
		buf.Reset()
		for e := 0; e < opts.episodes; e++ {
			if _, err := task.rollout(buf); err != nil {
				return errors.Wrapf(err, "fit: iteration %v", i)
			}
		}

		states, err := buf.States()
		if err != nil {
			return errors.Wrapf(err, "fit: iteration %v", i)
		}
		batch := baseline.States{stateName: states}
		returns, err := buf.Returns()
		if err != nil {
			return errors.Wrapf(err, "fit: iteration %v", i)
		}

		values, err := b.Predict(sess, batch)
		if err != nil {
			return errors.Wrapf(err, "fit: iteration %v", i)
		}
		adv, err := buf.Advantages(values, false)
		if err != nil {
			return errors.Wrapf(err, "fit: iteration %v", i)
		}

		if err := b.Update(sess, batch, returns); err != nil {
			return errors.Wrapf(err, "fit: iteration %v", i)
		}

		var loss float64
		if l, ok := b.(losser); ok {
			loss = l.Loss()
		}
		absAdv := make([]float64, len(adv))
		for j := range adv {
			absAdv[j] = math.Abs(adv[j])
		}
		meanAbsAdv := floats.Sum(absAdv) / float64(len(absAdv))

		if bar != nil {
			bar.Increment()
			bar.Suffix = fmt.Sprintf("loss: %.4f", loss)
			bar.Display()
		} else {
			opts.logger.Printf("iteration %v: steps=%v loss=%.4f "+
				"mean|advantage|=%.4f", i, buf.Len(), loss, meanAbsAdv)
		}
	}

	return evaluate(b, sess, opts.out)
}

// evaluate writes the values predicted by b at evalPositions
func evaluate(b baseline.Baseline, r session.Runner, out io.Writer) error {
	positions := make([]float64, len(evalPositions))
	copy(positions, evalPositions)
	states := mat.NewDense(len(positions), 1, positions)
	values, err := b.Predict(r, baseline.States{stateName: states})
	if err != nil {
		return errors.Wrap(err, "evaluate")
	}

	for i, v := range values {
		fmt.Fprintf(out, "V(%+.2f) = %+.4f\n", evalPositions[i], v)
	}
	return nil
}
