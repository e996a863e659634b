package solver

import (
	"github.com/samuelfneumann/gobaseline/resolver"
	G "gorgonia.org/gorgonia"
)

func init() {
	resolver.Register(Vanilla.Name(), func(k resolver.Kwargs) (interface{},
		error) {
		lr, err := stepSize(k, 0.01)
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
		return NewVanilla(lr, batch, clip)
	})
}

// VanillaConfig describes a configuration of the vanilla gradient
// descent solver.
type VanillaConfig struct {
	StepSize float64
	Batch    int
	Clip     float64 // <= 0 if no clipping
}

// NewVanilla returns a new Vanilla Solver
func NewVanilla(stepSize float64, batchSize int,
	clip float64) (*Solver, error) {
	vanilla := VanillaConfig{
		StepSize: stepSize,
		Batch:    batchSize,
		Clip:     clip,
	}

	return newSolver(Vanilla, vanilla)
}

// Create returns a Gorgonia Vanilla Solver as described by the
// VanillaConfig
func (v VanillaConfig) Create() G.Solver {
	if v.Clip <= 0 {
		return G.NewVanillaSolver(
			G.WithLearnRate(v.StepSize),
			G.WithBatchSize(float64(v.Batch)),
		)
	}
	return G.NewVanillaSolver(
		G.WithLearnRate(v.StepSize),
		G.WithBatchSize(float64(v.Batch)),
		G.WithClip(v.Clip),
	)
}

// ValidType returns if the given Solver type is a valid type to be
// created with this config.
func (v VanillaConfig) ValidType(t Type) bool {
	return t == Vanilla
}
