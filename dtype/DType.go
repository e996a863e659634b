// Package dtype translates the datatype symbols used in state and
// action specifications into concrete tensor datatypes.
//
// Two translations exist. Tensor returns the datatype used to store
// raw data, and supports every symbol. Graph returns the datatype of
// a computational graph node, and supports only numeric symbols,
// since graph nodes take part in gradient computations.
package dtype

import (
	"fmt"
	"reflect"

	"gorgonia.org/tensor"
)

// Symbol is a symbolic datatype name
type Symbol string

// Supported datatype symbols
const (
	Float Symbol = "float"
	Int   Symbol = "int"
	Bool  Symbol = "bool"
)

// InvalidTypeError is returned when a datatype cannot be translated
type InvalidTypeError struct {
	Value interface{}
}

// Error implements the error interface
func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("dtype: type conversion from type %v not supported",
		e.Value)
}

// symbolOf returns the Symbol named by v. The native Go kinds
// reflect.Float64, reflect.Int, and reflect.Bool are equivalent to the
// symbols Float, Int, and Bool respectively.
func symbolOf(v interface{}) (Symbol, bool) {
	switch v := v.(type) {
	case Symbol:
		return v, true
	case string:
		return Symbol(v), true
	case reflect.Kind:
		switch v {
		case reflect.Float64:
			return Float, true
		case reflect.Int:
			return Int, true
		case reflect.Bool:
			return Bool, true
		}
	}
	return "", false
}

// Tensor returns the tensor datatype for storing data of type v
func Tensor(v interface{}) (tensor.Dtype, error) {
	s, _ := symbolOf(v)
	switch s {
	case Float:
		return tensor.Float32, nil
	case Int:
		return tensor.Int32, nil
	case Bool:
		return tensor.Bool, nil
	}
	return tensor.Dtype{}, &InvalidTypeError{v}
}

// Graph returns the datatype of graph nodes holding values of type v.
// Besides symbols and native kinds, Graph accepts the tensor datatypes
// returned by Tensor for numeric symbols.
func Graph(v interface{}) (tensor.Dtype, error) {
	if dt, ok := v.(tensor.Dtype); ok {
		switch dt {
		case tensor.Float32, tensor.Int32:
			return dt, nil
		}
		return tensor.Dtype{}, &InvalidTypeError{v}
	}

	s, _ := symbolOf(v)
	switch s {
	case Float:
		return tensor.Float32, nil
	case Int:
		return tensor.Int32, nil
	}
	return tensor.Dtype{}, &InvalidTypeError{v}
}
