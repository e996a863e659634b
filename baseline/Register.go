package baseline

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gobaseline/initwfn"
	"github.com/samuelfneumann/gobaseline/network"
	"github.com/samuelfneumann/gobaseline/resolver"
)

// MLPName is the dotted name the MLP baseline is registered under
const MLPName = "baseline.MLP"

func init() {
	resolver.Register(MLPName, newMLPFromKwargs)
}

// newMLPFromKwargs constructs an MLP baseline from the keyword
// arguments:
//
//	size          (int, required)    hidden layer units
//	repeat_update (int, default 100) optimizer steps per Update
//	activation    (string, "relu")   hidden layer activation
//	init          (descriptor)       weight initializer
func newMLPFromKwargs(k resolver.Kwargs) (interface{}, error) {
	if _, ok := k["size"]; !ok {
		return nil, fmt.Errorf("%v: missing required argument size", MLPName)
	}
	size, err := k.Int("size", 0)
	if err != nil {
		return nil, errors.Wrap(err, MLPName)
	}
	repeat, err := k.Int("repeat_update", DefaultRepeatUpdate)
	if err != nil {
		return nil, errors.Wrap(err, MLPName)
	}
	if repeat < 1 {
		return nil, fmt.Errorf("%v: repeat_update must be positive, have %v",
			MLPName, repeat)
	}

	m, err := NewMLP(size, repeat)
	if err != nil {
		return nil, errors.Wrap(err, MLPName)
	}

	actName, err := k.String("activation", "relu")
	if err != nil {
		return nil, errors.Wrap(err, MLPName)
	}
	if m.Activation, err = network.ActivationByName(actName); err != nil {
		return nil, errors.Wrap(err, MLPName)
	}

	initDesc, err := k.Descriptor("init")
	if err != nil {
		return nil, errors.Wrap(err, MLPName)
	}
	if m.InitWFn, err = initwfn.Resolve(initDesc, nil); err != nil {
		return nil, errors.Wrap(err, MLPName)
	}

	return m, nil
}
