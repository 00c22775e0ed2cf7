package header

import (
	"iter"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/types"
)

// Collection is an ordered sequence of items that runs a validator on every
// insert and replace. Invalid items are rejected with an error instead of being added.
// The zero value is an empty collection that rejects zero items.
type Collection[T comparable] struct {
	items    []T
	validate func(T) error
}

// NewCollection creates a collection that validates items with fn.
// A nil fn rejects zero items (nil pointers, empty strings).
func NewCollection[T comparable](fn func(T) error) *Collection[T] {
	return &Collection[T]{validate: fn}
}

func rejectZero[T comparable](v T) error {
	var zero T
	if v == zero {
		return newMissingValueError("collection item") //errtrace:skip
	}
	return nil
}

func (c *Collection[T]) check(v T) error {
	if c.validate == nil {
		return errtrace.Wrap(rejectZero(v))
	}
	return errtrace.Wrap(c.validate(v))
}

// Add appends items, stopping at the first invalid one.
func (c *Collection[T]) Add(items ...T) error {
	for _, v := range items {
		if err := c.check(v); err != nil {
			return errtrace.Wrap(err)
		}
		c.items = append(c.items, v)
	}
	return nil
}

// Insert inserts v at index i.
func (c *Collection[T]) Insert(i int, v T) error {
	if i < 0 || i > len(c.items) {
		return errtrace.Wrap(newOutOfRangeError("index %d", i))
	}
	if err := c.check(v); err != nil {
		return errtrace.Wrap(err)
	}
	c.items = slices.Insert(c.items, i, v)
	return nil
}

// Set replaces the item at index i.
func (c *Collection[T]) Set(i int, v T) error {
	if i < 0 || i >= len(c.items) {
		return errtrace.Wrap(newOutOfRangeError("index %d", i))
	}
	if err := c.check(v); err != nil {
		return errtrace.Wrap(err)
	}
	c.items[i] = v
	return nil
}

// RemoveAt removes the item at index i.
func (c *Collection[T]) RemoveAt(i int) {
	if i < 0 || i >= len(c.items) {
		return
	}
	c.items = slices.Delete(c.items, i, i+1)
}

// Remove removes the first item equal to v and reports whether it was found.
func (c *Collection[T]) Remove(v T) bool {
	i := c.Index(v)
	if i < 0 {
		return false
	}
	c.RemoveAt(i)
	return true
}

// Index returns the index of the first item equal to v, or -1.
func (c *Collection[T]) Index(v T) int {
	if c == nil {
		return -1
	}
	return slices.IndexFunc(c.items, func(it T) bool { return types.Equal(it, v) })
}

// Contains reports whether the collection holds an item equal to v.
func (c *Collection[T]) Contains(v T) bool { return c.Index(v) >= 0 }

func (c *Collection[T]) Clear() {
	if c != nil {
		c.items = c.items[:0]
	}
}

func (c *Collection[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// At returns the item at index i.
func (c *Collection[T]) At(i int) T { return c.items[i] }

// All iterates over items in insertion order.
func (c *Collection[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if c == nil {
			return
		}
		for i, v := range c.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Items returns a copy of the items.
func (c *Collection[T]) Items() []T {
	if c == nil {
		return nil
	}
	return slices.Clone(c.items)
}

// Clone returns an independent collection with the same validator.
// Items implementing Clone() T are cloned too.
func (c *Collection[T]) Clone() *Collection[T] {
	if c == nil {
		return nil
	}
	c2 := &Collection[T]{validate: c.validate}
	if len(c.items) > 0 {
		c2.items = make([]T, len(c.items))
		for i, v := range c.items {
			c2.items[i] = types.Clone(v)
		}
	}
	return c2
}

// Equal reports whether both collections hold the same multiset of items,
// ignoring order. Each item must match a distinct item of the other collection.
func (c *Collection[T]) Equal(other *Collection[T]) bool {
	return equalUnordered(c.Items(), other.Items(), types.Equal[T])
}

// appendUnchecked adds an item produced by a grammar, which already validated it.
func (c *Collection[T]) appendUnchecked(v T) { c.items = append(c.items, v) }

func equalUnordered[T any](a, b []T, eq func(x, y T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	used := make([]bool, len(b))
outer:
	for _, x := range a {
		for j, y := range b {
			if !used[j] && eq(x, y) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}
