package header

//go:generate go tool errtrace -w .

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
)

// LengthFunc scans one value of T at start and returns the number of bytes
// it spans together with the parsed value. It returns 0 and the zero value
// when input[start:] does not begin with a valid T. Implementations never skip
// leading whitespace and never fail with an error.
type LengthFunc[T any] func(input string, start int) (int, T)

// ValueParser parses header field values of one header.
type ValueParser interface {
	// SupportsMultipleValues reports whether the header is a comma separated list.
	SupportsMultipleValues() bool
	// Comparer returns the function used to compare parsed values
	// of the header in collections, or nil if values compare with their Equal method.
	Comparer() func(a, b any) bool
	// TryParseValue parses one value at index. On success it returns the value
	// (nil when only separators and whitespace remain) and the index of the next value.
	// On failure it returns nil, index unchanged and false.
	TryParseValue(input string, index int) (value any, next int, ok bool)
	// ParseValue is like TryParseValue but returns an [ErrInvalidFormat] error on failure.
	ParseValue(input string, index int) (value any, next int, err error)
}

// Parser wraps a [LengthFunc] into a [ValueParser].
type Parser[T comparable] struct {
	multi  bool
	length LengthFunc[T]
	cmp    func(a, b T) bool
}

// NewSingleParser returns a parser for headers that hold exactly one value.
// Only whitespace may follow the value.
func NewSingleParser[T comparable](length LengthFunc[T], cmp func(a, b T) bool) *Parser[T] {
	return &Parser[T]{length: length, cmp: cmp}
}

// NewListParser returns a parser for comma separated list headers.
// Empty list elements are skipped.
func NewListParser[T comparable](length LengthFunc[T], cmp func(a, b T) bool) *Parser[T] {
	return &Parser[T]{multi: true, length: length, cmp: cmp}
}

func (p *Parser[T]) SupportsMultipleValues() bool { return p.multi }

func (p *Parser[T]) Comparer() func(a, b any) bool {
	if p.cmp == nil {
		return nil
	}
	return func(a, b any) bool {
		x, ok1 := a.(T)
		y, ok2 := b.(T)
		return ok1 && ok2 && p.cmp(x, y)
	}
}

// TryParse is the typed form of [Parser.TryParseValue].
// For list headers a zero value with ok set means that no value was left at index.
func (p *Parser[T]) TryParse(input string, index int) (value T, next int, ok bool) {
	value, next, _, ok = p.tryParse(input, index)
	return value, next, ok
}

// tryParse also reports whether a value was found, as opposed to only separators.
func (p *Parser[T]) tryParse(input string, index int) (value T, next int, found, ok bool) {
	var zero T
	if index < 0 || index > len(input) {
		return zero, index, false, false
	}
	if index == len(input) {
		return zero, index, false, p.multi
	}

	cur, _ := grammar.NextElemIndex(input, index, p.multi)
	if cur == len(input) {
		if p.multi {
			return zero, cur, false, true
		}
		return zero, index, false, false
	}

	n, v := p.length(input, cur)
	if n == 0 {
		return zero, index, false, false
	}

	cur, sep := grammar.NextElemIndex(input, cur+n, p.multi)
	if cur < len(input) && (!p.multi || !sep) {
		return zero, index, false, false
	}
	return v, cur, true, true
}

// Parse is the typed form of [Parser.ParseValue].
func (p *Parser[T]) Parse(input string, index int) (value T, next int, err error) {
	v, next, ok := p.TryParse(input, index)
	if !ok {
		return v, index, errtrace.Wrap(newFormatError(input, index))
	}
	return v, next, nil
}

func (p *Parser[T]) TryParseValue(input string, index int) (value any, next int, ok bool) {
	v, next, found, ok := p.tryParse(input, index)
	if !found {
		return nil, next, ok
	}
	return v, next, true
}

func (p *Parser[T]) ParseValue(input string, index int) (value any, next int, err error) {
	v, next, ok := p.TryParseValue(input, index)
	if !ok {
		return nil, index, errtrace.Wrap(newFormatError(input, index))
	}
	return v, next, nil
}

// parseWhole parses the entire s as a single T.
func parseWhole[T comparable](length LengthFunc[T], s string) (T, error) {
	v, _, err := NewSingleParser(length, nil).Parse(s, 0)
	return v, errtrace.Wrap(err)
}

func tryParseWhole[T comparable](length LengthFunc[T], s string) (T, bool) {
	v, _, ok := NewSingleParser(length, nil).TryParse(s, 0)
	return v, ok
}
