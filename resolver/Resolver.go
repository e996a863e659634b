// Package resolver turns configuration descriptors into live objects.
//
// Packages register Factory functions under a dotted name of the form
// "package.Name" when they are initialized. A descriptor then names
// the Factory to call and the keyword arguments to call it with, for
// example:
//
//	{"type": "solver.Adam", "learning_rate": 0.001}
//
// Object resolves such a descriptor and calls the Factory, so that any
// registered component can be constructed from a configuration file.
package resolver

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// TypeKey is the descriptor key naming the Factory to call
const TypeKey = "type"

// ErrResolution is returned when a name cannot be resolved to a
// registered Factory
var ErrResolution = errors.New("cannot resolve function")

// ArgumentError is returned when a descriptor is neither a name nor a
// Factory
type ArgumentError struct {
	Descriptor interface{}
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %v cannot be turned into a function",
		e.Descriptor)
}

// Factory constructs an object from keyword arguments
type Factory func(Kwargs) (interface{}, error)

// Registry maps dotted names to the Factory functions they refer to.
// A Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	packages  map[string]int
}

// NewRegistry returns a new, empty Registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		packages:  make(map[string]int),
	}
}

// Register registers f under the dotted name path. Registering a name
// twice replaces the earlier Factory. Register panics if path is not
// of the form "package.Name" or if f is nil.
func (r *Registry) Register(path string, f Factory) {
	pkg, name := split(path)
	if pkg == "" || name == "" {
		panic(fmt.Sprintf("register: illegal name %q", path))
	}
	if f == nil {
		panic(fmt.Sprintf("register: nil factory for %q", path))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[path]; !ok {
		r.packages[pkg]++
	}
	r.factories[path] = f
}

// Lookup returns the Factory registered under the dotted name path
func (r *Registry) Lookup(path string) (Factory, error) {
	pkg, name := split(path)
	if pkg == "" || name == "" {
		return nil, errors.Wrapf(ErrResolution, "lookup: %q is not of the "+
			"form package.Name", path)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.packages[pkg] == 0 {
		return nil, errors.Wrapf(ErrResolution, "lookup: no package %q", pkg)
	}
	f, ok := r.factories[path]
	if !ok {
		return nil, errors.Wrapf(ErrResolution, "lookup: package %q has no "+
			"%q", pkg, name)
	}
	return f, nil
}

// Names returns the registered names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// Function resolves descriptor to a Factory.
//
// If descriptor is a key of overrides, the mapped Factory is returned.
// Otherwise, a string descriptor is looked up as a dotted name in the
// Registry and a Factory descriptor is returned unchanged. Any other
// descriptor results in an *ArgumentError.
func (r *Registry) Function(descriptor interface{},
	overrides map[string]Factory) (Factory, error) {
	if name, ok := descriptor.(string); ok && overrides != nil {
		if f, ok := overrides[name]; ok {
			return f, nil
		}
	}

	switch d := descriptor.(type) {
	case string:
		return r.Lookup(d)
	case Factory:
		if d != nil {
			return d, nil
		}
	case func(Kwargs) (interface{}, error):
		if d != nil {
			return d, nil
		}
	}
	return nil, &ArgumentError{descriptor}
}

// Object resolves descriptor and calls the resolved Factory.
//
// If descriptor is a Descriptor, *Descriptor, or map[string]interface{}
// the Factory is named by its type and every other entry is passed to
// the Factory as a keyword argument. Any other descriptor is resolved
// with Function and called with no keyword arguments besides kwargs.
// Entries of kwargs override keyword arguments of the same name in the
// descriptor.
func (r *Registry) Object(descriptor interface{},
	overrides map[string]Factory, kwargs Kwargs) (interface{}, error) {
	fn, fullKwargs, err := normalize(descriptor)
	if err != nil {
		return nil, err
	}

	f, err := r.Function(fn, overrides)
	if err != nil {
		return nil, err
	}

	for key, value := range kwargs {
		fullKwargs[key] = value
	}
	return f(fullKwargs)
}

// normalize splits a descriptor into the thing naming the Factory and
// a fresh map of keyword arguments
func normalize(descriptor interface{}) (interface{}, Kwargs, error) {
	switch d := descriptor.(type) {
	case *Descriptor:
		if d == nil {
			return nil, nil, &ArgumentError{descriptor}
		}
		return normalize(*d)

	case Descriptor:
		if d.Type == nil {
			return nil, nil, &ArgumentError{descriptor}
		}
		return d.Type, d.Kwargs.Copy(), nil

	case map[string]interface{}:
		fn, ok := d[TypeKey]
		if !ok {
			return nil, nil, &ArgumentError{descriptor}
		}
		kwargs := make(Kwargs, len(d))
		for key, value := range d {
			if key != TypeKey {
				kwargs[key] = value
			}
		}
		return fn, kwargs, nil
	}

	return descriptor, Kwargs{}, nil
}

// split splits a dotted name at its final dot
func split(path string) (pkg, name string) {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// defaultRegistry is the Registry used by the package level functions.
// Packages register their Factories here when initialized.
var defaultRegistry = NewRegistry()

// Register registers f under path with the default Registry
func Register(path string, f Factory) {
	defaultRegistry.Register(path, f)
}

// Lookup returns the Factory registered under path with the default
// Registry
func Lookup(path string) (Factory, error) {
	return defaultRegistry.Lookup(path)
}

// Names returns the names registered with the default Registry
func Names() []string {
	return defaultRegistry.Names()
}

// Function resolves descriptor to a Factory using the default Registry
func Function(descriptor interface{}, overrides map[string]Factory) (Factory,
	error) {
	return defaultRegistry.Function(descriptor, overrides)
}

// Object resolves descriptor using the default Registry and calls the
// resulting Factory
func Object(descriptor interface{}, overrides map[string]Factory,
	kwargs Kwargs) (interface{}, error) {
	return defaultRegistry.Object(descriptor, overrides, kwargs)
}
