package opt

// Value holds either a computed value or nothing.
// The zero Value is absent.
type Value[T any] struct {
	v  T
	ok bool
}

// Some wraps a present value.
func Some[T any](v T) Value[T] { return Value[T]{v: v, ok: true} }

// None returns an absent value.
func None[T any]() Value[T] { return Value[T]{} }

// Get returns the value and whether it is present.
func (o Value[T]) Get() (T, bool) { return o.v, o.ok }

// Present reports whether a value was computed.
func (o Value[T]) Present() bool { return o.ok }

// OrElse returns the value, or def when absent.
func (o Value[T]) OrElse(def T) T {
	if !o.ok {
		return def
	}
	return o.v
}
