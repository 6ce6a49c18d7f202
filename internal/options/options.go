// Package options provides generic functional options for constructors.
//
//	type EngineOption = options.Option[*Engine]
//
//	func WithMaxDepth(depth int) EngineOption {
//	    return options.New(func(e *Engine) error { ... })
//	}
package options

// Option configures a value of type T. A non-nil error aborts construction.
type Option[T any] func(T) error

// New creates an option that may reject its input.
func New[T any](fn func(T) error) Option[T] {
	return fn
}

// NoError creates an option that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return func(target T) error {
		fn(target)
		return nil
	}
}

// Apply applies opts to target in order and stops at the first error.
// Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(target); err != nil {
			return err
		}
	}

	return nil
}
