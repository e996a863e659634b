package solver

import (
	"github.com/samuelfneumann/gobaseline/resolver"
	G "gorgonia.org/gorgonia"
)

func init() {
	resolver.Register(RMSProp.Name(), func(k resolver.Kwargs) (interface{},
		error) {
		lr, err := stepSize(k, 0.001)
		if err != nil {
			return nil, err
		}
		eps, err := k.Float("epsilon", 1e-8)
		if err != nil {
			return nil, err
		}
		rho, err := k.Float("rho", 0.999)
		if err != nil {
			return nil, err
		}
		batch, err := k.Int("batch", 1)
		if err != nil {
			return nil, err
		}
		clip, err := k.Float("clip", -1.0)
		if err != nil {
			return nil, err
		}
		return NewRMSProp(lr, eps, rho, batch, clip)
	})
}

// RMSPropConfig implements a specific configuration of the RMSProp
// solver
type RMSPropConfig struct {
	StepSize float64
	Epsilon  float64
	Rho      float64
	Batch    int
	Clip     float64 // <= 0 if no clipping
}

// NewRMSProp returns a new RMSProp Solver
func NewRMSProp(stepSize, epsilon, rho float64, batchSize int,
	clip float64) (*Solver, error) {
	rmsprop := RMSPropConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Rho:      rho,
		Batch:    batchSize,
		Clip:     clip,
	}

	return newSolver(RMSProp, rmsprop)
}

// Create returns a new Gorgonia RMSProp Solver as described by the
// RMSPropConfig
func (r RMSPropConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(r.StepSize),
		G.WithEps(r.Epsilon),
		G.WithRho(r.Rho),
		G.WithBatchSize(float64(r.Batch)),
	}
	if r.Clip > 0 {
		opts = append(opts, G.WithClip(r.Clip))
	}
	return G.NewRMSPropSolver(opts...)
}

// ValidType returns if the given Solver type is a valid type to be
// created with this config.
func (r RMSPropConfig) ValidType(t Type) bool {
	return t == RMSProp
}
