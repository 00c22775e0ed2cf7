// Package types contains the behavioral interfaces shared by header values.
package types

import "io"

// Renderer renders a value in its wire form.
type Renderer interface {
	RenderTo(w io.Writer) (int, error)
}

type Equalable interface {
	Equal(val any) bool
}

type Hashable interface {
	Hash() uint64
}

type Cloneable[T any] interface {
	Clone() T
}

// Equal reports whether v1 and v2 are equal. Values implementing [Equalable]
// are compared with their Equal method, other values with ==.
func Equal[T comparable](v1, v2 T) bool {
	if e, ok := any(v1).(Equalable); ok {
		return e.Equal(v2)
	}
	return v1 == v2
}

// Clone clones v if it implements [Cloneable], otherwise returns v as is.
func Clone[T any](v T) T {
	if c, ok := any(v).(Cloneable[T]); ok {
		return c.Clone()
	}
	return v
}
