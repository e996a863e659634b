package dtype

import (
	"errors"
	"reflect"
	"testing"

	"gorgonia.org/tensor"
)

func TestTensor(t *testing.T) {
	tests := []struct {
		in   interface{}
		want tensor.Dtype
	}{
		{"float", tensor.Float32},
		{"int", tensor.Int32},
		{"bool", tensor.Bool},
		{Float, tensor.Float32},
		{reflect.Float64, tensor.Float32},
		{reflect.Int, tensor.Int32},
		{reflect.Bool, tensor.Bool},
	}

	for _, test := range tests {
		have, err := Tensor(test.in)
		if err != nil {
			t.Errorf("tensor(%v): %v", test.in, err)
			continue
		}
		if have != test.want {
			t.Errorf("tensor(%v): want(%v) have(%v)", test.in, test.want, have)
		}
	}
}

func TestGraph(t *testing.T) {
	tests := []struct {
		in   interface{}
		want tensor.Dtype
	}{
		{"float", tensor.Float32},
		{"int", tensor.Int32},
		{Int, tensor.Int32},
		{reflect.Float64, tensor.Float32},
		{tensor.Float32, tensor.Float32},
		{tensor.Int32, tensor.Int32},
	}

	for _, test := range tests {
		have, err := Graph(test.in)
		if err != nil {
			t.Errorf("graph(%v): %v", test.in, err)
			continue
		}
		if have != test.want {
			t.Errorf("graph(%v): want(%v) have(%v)", test.in, test.want, have)
		}
	}
}

func TestInvalidType(t *testing.T) {
	for _, in := range []interface{}{"string", 3, reflect.String} {
		for name, fn := range map[string]func(interface{}) (tensor.Dtype,
			error){"tensor": Tensor, "graph": Graph} {
			_, err := fn(in)
			var typeErr *InvalidTypeError
			if !errors.As(err, &typeErr) {
				t.Errorf("%s(%v): want InvalidTypeError, have %v", name, in, err)
				continue
			}
			if typeErr.Value != in {
				t.Errorf("%s(%v): error carries value %v", name, in,
					typeErr.Value)
			}
		}
	}
}

func TestGraphRejectsBool(t *testing.T) {
	for _, in := range []interface{}{"bool", Bool, reflect.Bool, tensor.Bool} {
		if _, err := Graph(in); err == nil {
			t.Errorf("graph(%v): want error", in)
		}
	}
}
