// Package initwfn registers Gorgonia weight initialization functions
// with the resolver so that they can be named in configuration files,
// for example:
//
//	{"type": "initwfn.GlorotU", "gain": 1.0}
package initwfn

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gobaseline/resolver"
	G "gorgonia.org/gorgonia"
)

// Type describes different types of InitWFn that are available
type Type string

// Available InitWFn types
const (
	GlorotU  Type = "GlorotU"
	GlorotN  Type = "GlorotN"
	HeU      Type = "HeU"
	HeN      Type = "HeN"
	Gaussian Type = "Gaussian"
	Uniform  Type = "Uniform"
	Zeroes   Type = "Zeroes"
	Constant Type = "Constant"
)

// Name returns the dotted name the InitWFn type is registered under
func (t Type) Name() string {
	return "initwfn." + string(t)
}

func init() {
	resolver.Register(GlorotU.Name(), gained(G.GlorotU))
	resolver.Register(GlorotN.Name(), gained(G.GlorotN))
	resolver.Register(HeU.Name(), gained(G.HeU))
	resolver.Register(HeN.Name(), gained(G.HeN))

	resolver.Register(Gaussian.Name(), func(k resolver.Kwargs) (interface{},
		error) {
		mean, err := k.Float("mean", 0.0)
		if err != nil {
			return nil, err
		}
		stddev, err := k.Float("stddev", 0.1)
		if err != nil {
			return nil, err
		}
		if stddev <= 0 {
			return nil, fmt.Errorf("gaussian: stddev must be positive")
		}
		return G.Gaussian(mean, stddev), nil
	})

	resolver.Register(Uniform.Name(), func(k resolver.Kwargs) (interface{},
		error) {
		low, err := k.Float("low", -0.1)
		if err != nil {
			return nil, err
		}
		high, err := k.Float("high", 0.1)
		if err != nil {
			return nil, err
		}
		if high <= low {
			return nil, fmt.Errorf("uniform: low (%v) must be less than "+
				"high (%v)", low, high)
		}
		return G.Uniform(low, high), nil
	})

	resolver.Register(Zeroes.Name(), func(resolver.Kwargs) (interface{},
		error) {
		return G.Zeroes(), nil
	})

	resolver.Register(Constant.Name(), func(k resolver.Kwargs) (interface{},
		error) {
		value, err := k.Float("value", 1.0)
		if err != nil {
			return nil, err
		}
		return G.ValuesOf(value), nil
	})
}

// gained returns a Factory for initializers parameterized by a gain
func gained(init func(float64) G.InitWFn) resolver.Factory {
	return func(k resolver.Kwargs) (interface{}, error) {
		gain, err := k.Float("gain", 1.0)
		if err != nil {
			return nil, err
		}
		return init(gain), nil
	}
}

// Resolve returns the InitWFn described by d. If d is nil, def is
// returned.
func Resolve(d *resolver.Descriptor, def G.InitWFn) (G.InitWFn, error) {
	if d == nil {
		return def, nil
	}

	obj, err := resolver.Object(d, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "resolve")
	}
	init, ok := obj.(G.InitWFn)
	if !ok {
		return nil, fmt.Errorf("resolve: %v does not describe an InitWFn, "+
			"have %T", d, obj)
	}
	return init, nil
}
