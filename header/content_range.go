package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// ContentRange is the value of the Content-Range header:
// "unit from-to/length" where either part may be "*".
type ContentRange struct {
	unit                string
	from, to, length    int64
	hasRange, hasLength bool
}

// NewContentRange creates a content range with both a range and a complete length.
func NewContentRange(from, to, length int64) (*ContentRange, error) {
	if length < 0 {
		return nil, errtrace.Wrap(newOutOfRangeError("length %d", length))
	}
	if to < 0 || to > length {
		return nil, errtrace.Wrap(newOutOfRangeError("range end %d for length %d", to, length))
	}
	if from < 0 || from > to {
		return nil, errtrace.Wrap(newOutOfRangeError("range start %d for end %d", from, to))
	}
	return &ContentRange{
		unit:      DefaultRangeUnit,
		from:      from,
		to:        to,
		length:    length,
		hasRange:  true,
		hasLength: true,
	}, nil
}

// NewContentRangeLength creates an unsatisfied range "*/length".
func NewContentRangeLength(length int64) (*ContentRange, error) {
	if length < 0 {
		return nil, errtrace.Wrap(newOutOfRangeError("length %d", length))
	}
	return &ContentRange{unit: DefaultRangeUnit, length: length, hasLength: true}, nil
}

// NewContentRangeSpan creates a range of unknown complete length "from-to/*".
func NewContentRangeSpan(from, to int64) (*ContentRange, error) {
	if to < 0 {
		return nil, errtrace.Wrap(newOutOfRangeError("range end %d", to))
	}
	if from < 0 || from > to {
		return nil, errtrace.Wrap(newOutOfRangeError("range start %d for end %d", from, to))
	}
	return &ContentRange{unit: DefaultRangeUnit, from: from, to: to, hasRange: true}, nil
}

func (cr *ContentRange) Unit() string {
	if cr == nil {
		return ""
	}
	return cr.unit
}

// SetUnit replaces the unit. It must be a token.
func (cr *ContentRange) SetUnit(unit string) error {
	if err := checkToken("range unit", unit); err != nil {
		return errtrace.Wrap(err)
	}
	cr.unit = unit
	return nil
}

// Range returns the first and last byte positions, if present.
func (cr *ContentRange) Range() (from, to int64, ok bool) {
	if cr == nil || !cr.hasRange {
		return 0, 0, false
	}
	return cr.from, cr.to, true
}

// Length returns the complete length, if known.
func (cr *ContentRange) Length() (int64, bool) {
	if cr == nil || !cr.hasLength {
		return 0, false
	}
	return cr.length, true
}

func (cr *ContentRange) RenderTo(w io.Writer) (int, error) {
	if cr == nil {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(cr.unit, " ")
	if cr.hasRange {
		cw.WriteInt(cr.from).WriteString("-").WriteInt(cr.to)
	} else {
		cw.WriteString("*")
	}
	cw.WriteString("/")
	if cr.hasLength {
		cw.WriteInt(cr.length)
	} else {
		cw.WriteString("*")
	}
	return errtrace.Wrap2(cw.Result())
}

func (cr *ContentRange) String() string {
	if cr == nil {
		return ""
	}
	return renderString(cr)
}

func (cr *ContentRange) Format(f fmt.State, verb rune) {
	type hideMethods ContentRange
	type ContentRange hideMethods
	formatValue(f, verb, cr.String(), (*ContentRange)(cr))
}

// Equal compares units case-insensitively and positions exactly.
func (cr *ContentRange) Equal(val any) bool {
	var other *ContentRange
	switch v := val.(type) {
	case ContentRange:
		other = &v
	case *ContentRange:
		other = v
	default:
		return false
	}

	if cr == other {
		return true
	} else if cr == nil || other == nil {
		return false
	}
	return util.EqFold(cr.unit, other.unit) &&
		cr.hasRange == other.hasRange && cr.hasLength == other.hasLength &&
		cr.from == other.from && cr.to == other.to && cr.length == other.length
}

func (cr *ContentRange) Hash() uint64 {
	if cr == nil {
		return 0
	}
	return util.HashCombine(
		util.HashFold(cr.unit),
		optHash(cr.from, cr.hasRange),
		optHash(cr.to, cr.hasRange),
		optHash(cr.length, cr.hasLength),
	)
}

func (cr *ContentRange) Clone() *ContentRange {
	if cr == nil {
		return nil
	}
	cr2 := *cr
	return &cr2
}

func (cr *ContentRange) MarshalText() ([]byte, error) { return []byte(cr.String()), nil }

func (cr *ContentRange) UnmarshalText(data []byte) error {
	v, err := ParseContentRange(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*cr = *v
	return nil
}

// ContentRangeLength scans "unit SP (from-to | *) / (length | *)" at start,
// including trailing whitespace. At least one whitespace must follow the unit.
func ContentRangeLength(input string, start int) (int, *ContentRange) {
	n := grammar.TokenLength(input, start)
	if n == 0 {
		return 0, nil
	}
	cr := &ContentRange{unit: input[start : start+n]}
	cur := start + n
	if grammar.WhitespaceLength(input, cur) == 0 {
		return 0, nil
	}
	cur = grammar.SkipWS(input, cur)
	if cur == len(input) {
		return 0, nil
	}

	if input[cur] == '*' {
		cur = grammar.SkipWS(input, cur+1)
	} else {
		var ok bool
		if cr.from, cur, ok = scanInt64(input, cur); !ok {
			return 0, nil
		}
		if cur == len(input) || input[cur] != '-' {
			return 0, nil
		}
		cur = grammar.SkipWS(input, cur+1)
		if cr.to, cur, ok = scanInt64(input, cur); !ok {
			return 0, nil
		}
		cr.hasRange = true
	}

	if cur == len(input) || input[cur] != '/' {
		return 0, nil
	}
	cur = grammar.SkipWS(input, cur+1)
	if cur == len(input) {
		return 0, nil
	}

	if input[cur] == '*' {
		cur = grammar.SkipWS(input, cur+1)
	} else {
		var ok bool
		if cr.length, cur, ok = scanInt64(input, cur); !ok {
			return 0, nil
		}
		cr.hasLength = true
	}

	if cr.hasRange && (cr.from > cr.to || cr.hasLength && cr.to > cr.length) {
		return 0, nil
	}
	return cur - start, cr
}

// scanInt64 reads a non-negative int64 at cur and skips whitespace after it.
func scanInt64(input string, cur int) (int64, int, bool) {
	n := grammar.NumberLength(input, cur, false)
	if n == 0 {
		return 0, cur, false
	}
	v, ok := grammar.ParseInt64(input[cur : cur+n])
	if !ok {
		return 0, cur, false
	}
	return v, grammar.SkipWS(input, cur+n), true
}

// ContentRangeParser parses the Content-Range header.
var ContentRangeParser = NewSingleParser(ContentRangeLength, nil)

func ParseContentRange(s string) (*ContentRange, error) {
	return errtrace.Wrap2(parseWhole(ContentRangeLength, s))
}

func TryParseContentRange(s string) (*ContentRange, bool) {
	return tryParseWhole(ContentRangeLength, s)
}
