package resolver

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Kwargs holds the keyword arguments passed to a Factory
type Kwargs map[string]interface{}

// Copy returns a shallow copy of k. The copy of a nil Kwargs is an
// empty, non-nil Kwargs.
func (k Kwargs) Copy() Kwargs {
	c := make(Kwargs, len(k))
	for key, value := range k {
		c[key] = value
	}
	return c
}

// Float returns the keyword argument key as a float64, or def if the
// argument was not given
func (k Kwargs) Float(key string, def float64) (float64, error) {
	v, ok := k[key]
	if !ok {
		return def, nil
	}
	switch v := v.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	}
	return 0, fmt.Errorf("float: argument %v has type %T, want float", key, v)
}

// Int returns the keyword argument key as an int, or def if the
// argument was not given. Floats with no fractional part, as produced
// when decoding JSON numbers, are accepted.
func (k Kwargs) Int(key string, def int) (int, error) {
	v, ok := k[key]
	if !ok {
		return def, nil
	}
	switch v := v.(type) {
	case int:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("int: argument %v = %v is not integral",
				key, v)
		}
		return int(v), nil
	case json.Number:
		i, err := v.Int64()
		return int(i), err
	}
	return 0, fmt.Errorf("int: argument %v has type %T, want int", key, v)
}

// Bool returns the keyword argument key as a bool, or def if the
// argument was not given
func (k Kwargs) Bool(key string, def bool) (bool, error) {
	v, ok := k[key]
	if !ok {
		return def, nil
	}
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("bool: argument %v has type %T, want bool",
		key, v)
}

// String returns the keyword argument key as a string, or def if the
// argument was not given
func (k Kwargs) String(key string, def string) (string, error) {
	v, ok := k[key]
	if !ok {
		return def, nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("string: argument %v has type %T, want string",
		key, v)
}

// Descriptor returns the keyword argument key as a nested Descriptor,
// or nil if the argument was not given. Both Descriptors and decoded
// JSON objects are accepted; a plain string is taken as a Descriptor
// with no keyword arguments.
func (k Kwargs) Descriptor(key string) (*Descriptor, error) {
	v, ok := k[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch v := v.(type) {
	case *Descriptor:
		return v, nil
	case Descriptor:
		return &v, nil
	case string:
		return &Descriptor{Type: v}, nil
	case map[string]interface{}:
		fn, kwargs, err := normalize(v)
		if err != nil {
			return nil, errors.Wrapf(err, "descriptor: argument %v", key)
		}
		return &Descriptor{Type: fn, Kwargs: kwargs}, nil
	}
	return nil, fmt.Errorf("descriptor: argument %v has type %T, want "+
		"descriptor", key, v)
}

// Descriptor describes an object to construct. Type is either the
// dotted name of a registered Factory or a Factory itself; Kwargs are
// passed to the Factory when it is called.
//
// In JSON, a Descriptor is an object with a "type" field naming the
// Factory; all other fields are keyword arguments.
type Descriptor struct {
	Type   interface{}
	Kwargs Kwargs
}

// NewDescriptor returns a new Descriptor naming a registered Factory
func NewDescriptor(name string, kwargs Kwargs) *Descriptor {
	return &Descriptor{Type: name, Kwargs: kwargs}
}

// String implements the fmt.Stringer interface
func (d Descriptor) String() string {
	return fmt.Sprintf("{%v %v}", d.Type, map[string]interface{}(d.Kwargs))
}

// MarshalJSON implements the json.Marshaler interface. Only
// Descriptors naming a registered Factory can be marshalled.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	name, ok := d.Type.(string)
	if !ok {
		return nil, fmt.Errorf("marshalJSON: cannot marshal factory of "+
			"type %T", d.Type)
	}

	m := make(map[string]interface{}, len(d.Kwargs)+1)
	for key, value := range d.Kwargs {
		m[key] = value
	}
	m[TypeKey] = name
	return json.Marshal(m)
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	m := map[string]interface{}{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	name, ok := m[TypeKey].(string)
	if !ok {
		return fmt.Errorf("unmarshalJSON: descriptor needs a string %q "+
			"field", TypeKey)
	}
	delete(m, TypeKey)

	d.Type = name
	d.Kwargs = Kwargs(m)
	return nil
}
