// Package options implements the functional options used to configure registries,
// frames and dictionaries.
package options

import "fmt"

// Option configures a target of type T (usually a pointer to a config struct).
type Option[T any] interface {
	apply(T) error
}

// Func adapts a function into an Option.
type Func[T any] struct {
	name      string
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// Name returns the option name used in error messages.
func (f *Func[T]) Name() string {
	return f.name
}

// New creates an option from a fallible function.
func New[T any](name string, fn func(T) error) *Func[T] {
	return &Func[T]{name: name, applyFunc: fn}
}

// NoError creates an option from a function that cannot fail.
func NoError[T any](name string, fn func(T)) *Func[T] {
	return &Func[T]{
		name: name,
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply applies opts in order and stops at the first failure.
// Nil options are skipped. The returned error names the failing option.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt.apply(target); err != nil {
			if named, ok := opt.(interface{ Name() string }); ok && named.Name() != "" {
				return fmt.Errorf("option %s: %w", named.Name(), err)
			}

			return err
		}
	}

	return nil
}
