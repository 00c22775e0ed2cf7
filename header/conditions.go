package header

import (
	"fmt"
	"io"
	"math"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// RangeCondition is the value of the If-Range header: an entity tag or a date.
type RangeCondition struct {
	tag  *EntityTag
	date time.Time
}

// NewRangeConditionTag creates a condition on an entity tag.
func NewRangeConditionTag(tag *EntityTag) (*RangeCondition, error) {
	if tag == nil {
		return nil, errtrace.Wrap(newMissingValueError("entity tag"))
	}
	return &RangeCondition{tag: tag}, nil
}

// NewRangeConditionDate creates a condition on a date.
func NewRangeConditionDate(date time.Time) *RangeCondition {
	return &RangeCondition{date: date.UTC()}
}

// EntityTag returns the entity tag, or nil for a date condition.
func (rc *RangeCondition) EntityTag() *EntityTag {
	if rc == nil {
		return nil
	}
	return rc.tag
}

// Date returns the date of a date condition.
func (rc *RangeCondition) Date() (time.Time, bool) {
	if rc == nil || rc.tag != nil {
		return time.Time{}, false
	}
	return rc.date, true
}

func (rc *RangeCondition) RenderTo(w io.Writer) (int, error) {
	if rc == nil {
		return 0, nil
	}
	if rc.tag != nil {
		return errtrace.Wrap2(rc.tag.RenderTo(w))
	}
	return errtrace.Wrap2(io.WriteString(w, grammar.FormatDate(rc.date)))
}

func (rc *RangeCondition) String() string {
	if rc == nil {
		return ""
	}
	return renderString(rc)
}

func (rc *RangeCondition) Format(f fmt.State, verb rune) {
	type hideMethods RangeCondition
	type RangeCondition hideMethods
	formatValue(f, verb, rc.String(), (*RangeCondition)(rc))
}

func (rc *RangeCondition) Equal(val any) bool {
	var other *RangeCondition
	switch v := val.(type) {
	case RangeCondition:
		other = &v
	case *RangeCondition:
		other = v
	default:
		return false
	}

	if rc == other {
		return true
	} else if rc == nil || other == nil {
		return false
	}
	if rc.tag != nil || other.tag != nil {
		return rc.tag.Equal(other.tag)
	}
	return rc.date.Equal(other.date)
}

func (rc *RangeCondition) Hash() uint64 {
	if rc == nil {
		return 0
	}
	if rc.tag != nil {
		return rc.tag.Hash()
	}
	return uint64(rc.date.Unix()) //nolint:gosec
}

func (rc *RangeCondition) Clone() *RangeCondition {
	if rc == nil {
		return nil
	}
	return &RangeCondition{tag: rc.tag.Clone(), date: rc.date}
}

func (rc *RangeCondition) MarshalText() ([]byte, error) { return []byte(rc.String()), nil }

func (rc *RangeCondition) UnmarshalText(data []byte) error {
	v, err := ParseRangeCondition(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*rc = *v
	return nil
}

// RangeConditionLength scans an entity tag or a date at start.
// A date spans the rest of the input.
func RangeConditionLength(input string, start int) (int, *RangeCondition) {
	if start < 0 || start+1 >= len(input) {
		return 0, nil
	}

	if c := input[start]; c == '"' || (c == 'W' || c == 'w') && input[start+1] == '/' {
		n, tag := EntityTagLength(input, start)
		if n == 0 || tag.IsAny() || start+n != len(input) {
			return 0, nil
		}
		return n, &RangeCondition{tag: tag}
	}

	date, ok := grammar.ParseDate(input[start:])
	if !ok {
		return 0, nil
	}
	return len(input) - start, &RangeCondition{date: date}
}

// RangeConditionParser parses the If-Range header.
var RangeConditionParser = NewSingleParser(RangeConditionLength, nil)

func ParseRangeCondition(s string) (*RangeCondition, error) {
	return errtrace.Wrap2(parseWhole(RangeConditionLength, s))
}

func TryParseRangeCondition(s string) (*RangeCondition, bool) {
	return tryParseWhole(RangeConditionLength, s)
}

// MaxDeltaSeconds is the largest delta accepted by delta-seconds values.
const MaxDeltaSeconds = math.MaxInt32 * time.Second

// RetryCondition is the value of the Retry-After header: a delay or a date.
type RetryCondition struct {
	delta   time.Duration
	date    time.Time
	hasDate bool
}

// NewRetryConditionDelta creates a delay condition. The delay is truncated to whole seconds.
func NewRetryConditionDelta(delta time.Duration) (*RetryCondition, error) {
	if delta < 0 || delta > MaxDeltaSeconds {
		return nil, errtrace.Wrap(newOutOfRangeError("retry delay %s", delta))
	}
	return &RetryCondition{delta: delta.Truncate(time.Second)}, nil
}

// NewRetryConditionDate creates a date condition.
func NewRetryConditionDate(date time.Time) *RetryCondition {
	return &RetryCondition{date: date.UTC(), hasDate: true}
}

// Delta returns the delay of a delay condition.
func (rc *RetryCondition) Delta() (time.Duration, bool) {
	if rc == nil || rc.hasDate {
		return 0, false
	}
	return rc.delta, true
}

// Date returns the date of a date condition.
func (rc *RetryCondition) Date() (time.Time, bool) {
	if rc == nil || !rc.hasDate {
		return time.Time{}, false
	}
	return rc.date, true
}

func (rc *RetryCondition) RenderTo(w io.Writer) (int, error) {
	if rc == nil {
		return 0, nil
	}
	if rc.hasDate {
		return errtrace.Wrap2(io.WriteString(w, grammar.FormatDate(rc.date)))
	}
	return errtrace.Wrap2(fmt.Fprint(w, int64(rc.delta/time.Second)))
}

func (rc *RetryCondition) String() string {
	if rc == nil {
		return ""
	}
	return renderString(rc)
}

func (rc *RetryCondition) Format(f fmt.State, verb rune) {
	type hideMethods RetryCondition
	type RetryCondition hideMethods
	formatValue(f, verb, rc.String(), (*RetryCondition)(rc))
}

func (rc *RetryCondition) Equal(val any) bool {
	var other *RetryCondition
	switch v := val.(type) {
	case RetryCondition:
		other = &v
	case *RetryCondition:
		other = v
	default:
		return false
	}

	if rc == other {
		return true
	} else if rc == nil || other == nil {
		return false
	}
	if rc.hasDate != other.hasDate {
		return false
	}
	if rc.hasDate {
		return rc.date.Equal(other.date)
	}
	return rc.delta == other.delta
}

func (rc *RetryCondition) Hash() uint64 {
	if rc == nil {
		return 0
	}
	if rc.hasDate {
		return util.HashCombine(1, uint64(rc.date.Unix())) //nolint:gosec
	}
	return util.HashCombine(0, uint64(rc.delta)) //nolint:gosec
}

func (rc *RetryCondition) Clone() *RetryCondition {
	if rc == nil {
		return nil
	}
	rc2 := *rc
	return &rc2
}

func (rc *RetryCondition) MarshalText() ([]byte, error) { return []byte(rc.String()), nil }

func (rc *RetryCondition) UnmarshalText(data []byte) error {
	v, err := ParseRetryCondition(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*rc = *v
	return nil
}

// RetryConditionLength scans delta-seconds or a date at start.
// Both forms must be the last thing in the input.
func RetryConditionLength(input string, start int) (int, *RetryCondition) {
	if start < 0 || start >= len(input) {
		return 0, nil
	}

	if c := input[start]; c >= '0' && c <= '9' {
		n := grammar.NumberLength(input, start, false)
		secs, ok := grammar.ParseInt32(input[start : start+n])
		if !ok {
			return 0, nil
		}
		cur := grammar.SkipWS(input, start+n)
		if cur != len(input) {
			return 0, nil
		}
		return cur - start, &RetryCondition{delta: time.Duration(secs) * time.Second}
	}

	date, ok := grammar.ParseDate(input[start:])
	if !ok {
		return 0, nil
	}
	return len(input) - start, &RetryCondition{date: date, hasDate: true}
}

// RetryConditionParser parses the Retry-After header.
var RetryConditionParser = NewSingleParser(RetryConditionLength, nil)

func ParseRetryCondition(s string) (*RetryCondition, error) {
	return errtrace.Wrap2(parseWhole(RetryConditionLength, s))
}

func TryParseRetryCondition(s string) (*RetryCondition, bool) {
	return tryParseWhole(RetryConditionLength, s)
}
