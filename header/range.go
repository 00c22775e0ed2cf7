package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// DefaultRangeUnit is the unit of ranges created without one.
const DefaultRangeUnit = "bytes"

// RangeItem is one byte range of a Range header: "from-to", "from-" or "-suffix".
type RangeItem struct {
	from, to       int64
	hasFrom, hasTo bool
}

// NewRangeItem creates a range item. At least one bound is required,
// bounds must not be negative and from must not exceed to.
func NewRangeItem(from, to *int64) (*RangeItem, error) {
	if from == nil && to == nil {
		return nil, errtrace.Wrap(newMissingValueError("range bounds"))
	}
	ri := &RangeItem{}
	if from != nil {
		if *from < 0 {
			return nil, errtrace.Wrap(newOutOfRangeError("range start %d", *from))
		}
		ri.from, ri.hasFrom = *from, true
	}
	if to != nil {
		if *to < 0 {
			return nil, errtrace.Wrap(newOutOfRangeError("range end %d", *to))
		}
		ri.to, ri.hasTo = *to, true
	}
	if ri.hasFrom && ri.hasTo && ri.from > ri.to {
		return nil, errtrace.Wrap(newOutOfRangeError("range start %d exceeds end %d", ri.from, ri.to))
	}
	return ri, nil
}

// From returns the first byte position, if set.
func (ri *RangeItem) From() (int64, bool) {
	if ri == nil {
		return 0, false
	}
	return ri.from, ri.hasFrom
}

// To returns the last byte position or the suffix length, if set.
func (ri *RangeItem) To() (int64, bool) {
	if ri == nil {
		return 0, false
	}
	return ri.to, ri.hasTo
}

func (ri *RangeItem) RenderTo(w io.Writer) (int, error) {
	if ri == nil {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	if ri.hasFrom {
		cw.WriteInt(ri.from)
	}
	cw.WriteString("-")
	if ri.hasTo {
		cw.WriteInt(ri.to)
	}
	return errtrace.Wrap2(cw.Result())
}

func (ri *RangeItem) String() string {
	if ri == nil {
		return ""
	}
	return renderString(ri)
}

func (ri *RangeItem) Format(f fmt.State, verb rune) {
	type hideMethods RangeItem
	type RangeItem hideMethods
	formatValue(f, verb, ri.String(), (*RangeItem)(ri))
}

func (ri *RangeItem) Equal(val any) bool {
	var other *RangeItem
	switch v := val.(type) {
	case RangeItem:
		other = &v
	case *RangeItem:
		other = v
	default:
		return false
	}

	if ri == other {
		return true
	} else if ri == nil || other == nil {
		return false
	}
	return *ri == *other
}

func (ri *RangeItem) Hash() uint64 {
	if ri == nil {
		return 0
	}
	return util.HashCombine(optHash(ri.from, ri.hasFrom), optHash(ri.to, ri.hasTo))
}

func optHash(v int64, ok bool) uint64 {
	if !ok {
		return ^uint64(0)
	}
	return uint64(v) //nolint:gosec
}

func (ri *RangeItem) Clone() *RangeItem {
	if ri == nil {
		return nil
	}
	ri2 := *ri
	return &ri2
}

// RangeItemLength scans "[from] - [to]" at start, including trailing whitespace.
func RangeItemLength(input string, start int) (int, *RangeItem) {
	if start < 0 || start >= len(input) {
		return 0, nil
	}

	ri := &RangeItem{}
	cur := start
	if n := grammar.NumberLength(input, cur, false); n > 0 {
		v, ok := grammar.ParseInt64(input[cur : cur+n])
		if !ok {
			return 0, nil
		}
		ri.from, ri.hasFrom = v, true
		cur = grammar.SkipWS(input, cur+n)
	}

	if cur == len(input) || input[cur] != '-' {
		return 0, nil
	}
	cur = grammar.SkipWS(input, cur+1)

	if n := grammar.NumberLength(input, cur, false); n > 0 {
		v, ok := grammar.ParseInt64(input[cur : cur+n])
		if !ok {
			return 0, nil
		}
		ri.to, ri.hasTo = v, true
		cur = grammar.SkipWS(input, cur+n)
	}

	if !ri.hasFrom && !ri.hasTo {
		return 0, nil
	}
	if ri.hasFrom && ri.hasTo && ri.from > ri.to {
		return 0, nil
	}
	return cur - start, ri
}

// rangeItemListLength scans a comma separated list of range items at start into dst.
// Empty elements are skipped, but at least one item is required.
func rangeItemListLength(input string, start int, dst *Collection[*RangeItem]) int {
	if start < 0 || start >= len(input) {
		return 0
	}

	cur, _ := grammar.NextElemIndex(input, start, true)
	if cur == len(input) {
		return 0
	}
	for {
		n, ri := RangeItemLength(input, cur)
		if n == 0 {
			return 0
		}
		dst.appendUnchecked(ri)

		var sep bool
		cur, sep = grammar.NextElemIndex(input, cur+n, true)
		if cur < len(input) && !sep {
			return 0
		}
		if cur == len(input) {
			return cur - start
		}
	}
}

// Range is the value of the Range header: a unit and a set of range items.
type Range struct {
	unit   string
	ranges *Collection[*RangeItem]
}

// NewRange creates a "bytes" range with a single item.
func NewRange(from, to *int64) (*Range, error) {
	ri, err := NewRangeItem(from, to)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	r := &Range{unit: DefaultRangeUnit}
	r.Ranges().appendUnchecked(ri)
	return r, nil
}

// NewRangeUnit creates a range with the given unit and no items.
func NewRangeUnit(unit string) (*Range, error) {
	if err := checkToken("range unit", unit); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &Range{unit: unit}, nil
}

func (r *Range) Unit() string {
	if r == nil {
		return ""
	}
	return r.unit
}

// SetUnit replaces the unit. It must be a token.
func (r *Range) SetUnit(unit string) error {
	if err := checkToken("range unit", unit); err != nil {
		return errtrace.Wrap(err)
	}
	r.unit = unit
	return nil
}

// Ranges returns the mutable collection of range items.
func (r *Range) Ranges() *Collection[*RangeItem] {
	if r.ranges == nil {
		r.ranges = NewCollection[*RangeItem](nil)
	}
	return r.ranges
}

func (r *Range) RenderTo(w io.Writer) (int, error) {
	if r == nil {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(r.unit, "=")
	for i, ri := range r.ranges.All() {
		if i > 0 {
			cw.WriteString(", ")
		}
		cw.Call(ri.RenderTo)
	}
	return errtrace.Wrap2(cw.Result())
}

func (r *Range) String() string {
	if r == nil {
		return ""
	}
	return renderString(r)
}

func (r *Range) Format(f fmt.State, verb rune) {
	type hideMethods Range
	type Range hideMethods
	formatValue(f, verb, r.String(), (*Range)(r))
}

// Equal compares units case-insensitively and range items as unordered sets.
func (r *Range) Equal(val any) bool {
	var other *Range
	switch v := val.(type) {
	case Range:
		other = &v
	case *Range:
		other = v
	default:
		return false
	}

	if r == other {
		return true
	} else if r == nil || other == nil {
		return false
	}
	return util.EqFold(r.unit, other.unit) && r.ranges.Equal(other.ranges)
}

func (r *Range) Hash() uint64 {
	if r == nil {
		return 0
	}
	hs := make([]uint64, 0, r.ranges.Len())
	for _, ri := range r.ranges.All() {
		hs = append(hs, ri.Hash())
	}
	return util.HashCombine(util.HashFold(r.unit), util.HashUnordered(hs...))
}

func (r *Range) Clone() *Range {
	if r == nil {
		return nil
	}
	return &Range{unit: r.unit, ranges: r.ranges.Clone()}
}

func (r *Range) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Range) UnmarshalText(data []byte) error {
	v, err := ParseRange(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*r = *v
	return nil
}

// RangeLength scans "unit = item, item..." at start.
func RangeLength(input string, start int) (int, *Range) {
	n := grammar.TokenLength(input, start)
	if n == 0 {
		return 0, nil
	}
	r := &Range{unit: input[start : start+n]}
	cur := grammar.SkipWS(input, start+n)
	if cur == len(input) || input[cur] != '=' {
		return 0, nil
	}
	cur = grammar.SkipWS(input, cur+1)

	n = rangeItemListLength(input, cur, r.Ranges())
	if n == 0 {
		return 0, nil
	}
	return cur + n - start, r
}

// RangeParser parses the Range header.
var RangeParser = NewSingleParser(RangeLength, nil)

func ParseRange(s string) (*Range, error) {
	return errtrace.Wrap2(parseWhole(RangeLength, s))
}

func TryParseRange(s string) (*Range, bool) { return tryParseWhole(RangeLength, s) }
