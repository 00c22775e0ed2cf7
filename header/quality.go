package header

import (
	"fmt"
	"io"
	"math"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

const qualityParam = "q"

// checkQuality validates q and folds negative zero into zero.
func checkQuality(q float64) (float64, error) {
	if math.IsNaN(q) || q < 0 || q > 1 {
		return 0, newOutOfRangeError("quality %v", q) //errtrace:skip
	}
	if q == 0 {
		q = 0
	}
	return q, nil
}

// getQuality reads the "q" parameter. A malformed value reads as absent.
func getQuality(params *Collection[*NameValue]) (float64, bool) {
	for _, p := range params.All() {
		if util.EqFold(p.name, qualityParam) {
			return grammar.ParseQuality(p.value)
		}
	}
	return 0, false
}

// setQuality stores q as the "q" parameter, replacing an existing one.
func setQuality(params *Collection[*NameValue], q float64) error {
	q, err := checkQuality(q)
	if err != nil {
		return errtrace.Wrap(err)
	}
	v := grammar.FormatQuality(q)
	for _, p := range params.All() {
		if util.EqFold(p.name, qualityParam) {
			p.value = v
			return nil
		}
	}
	params.appendUnchecked(&NameValue{name: qualityParam, value: v})
	return nil
}

func removeQuality(params *Collection[*NameValue]) {
	for i, p := range params.All() {
		if util.EqFold(p.name, qualityParam) {
			params.RemoveAt(i)
			return
		}
	}
}

// StringWithQuality is a token with an optional quality weight,
// e.g. "gzip;q=0.8" in Accept-Encoding.
type StringWithQuality struct {
	value      string
	quality    float64
	hasQuality bool
}

// NewStringWithQuality creates a value without quality.
func NewStringWithQuality(value string) (*StringWithQuality, error) {
	if err := checkToken("value", value); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &StringWithQuality{value: value}, nil
}

// NewStringWithQualityQ creates a value weighted with q, which must be within [0, 1].
func NewStringWithQualityQ(value string, q float64) (*StringWithQuality, error) {
	if err := checkToken("value", value); err != nil {
		return nil, errtrace.Wrap(err)
	}
	q, err := checkQuality(q)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &StringWithQuality{value: value, quality: q, hasQuality: true}, nil
}

func (sq *StringWithQuality) Value() string {
	if sq == nil {
		return ""
	}
	return sq.value
}

func (sq *StringWithQuality) Quality() (float64, bool) {
	if sq == nil {
		return 0, false
	}
	return sq.quality, sq.hasQuality
}

func (sq *StringWithQuality) RenderTo(w io.Writer) (int, error) {
	if sq == nil {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(sq.value)
	if sq.hasQuality {
		cw.WriteString("; q=", grammar.FormatQuality(sq.quality))
	}
	return errtrace.Wrap2(cw.Result())
}

func (sq *StringWithQuality) String() string {
	if sq == nil {
		return ""
	}
	return renderString(sq)
}

func (sq *StringWithQuality) Format(f fmt.State, verb rune) {
	type hideMethods StringWithQuality
	type StringWithQuality hideMethods
	formatValue(f, verb, sq.String(), (*StringWithQuality)(sq))
}

// Equal compares values case-insensitively and qualities exactly.
func (sq *StringWithQuality) Equal(val any) bool {
	var other *StringWithQuality
	switch v := val.(type) {
	case StringWithQuality:
		other = &v
	case *StringWithQuality:
		other = v
	default:
		return false
	}

	if sq == other {
		return true
	} else if sq == nil || other == nil {
		return false
	}
	return util.EqFold(sq.value, other.value) &&
		sq.hasQuality == other.hasQuality &&
		sq.quality == other.quality
}

func (sq *StringWithQuality) Hash() uint64 {
	if sq == nil {
		return 0
	}
	qh := ^uint64(0)
	if sq.hasQuality {
		qh = math.Float64bits(sq.quality)
	}
	return util.HashCombine(util.HashFold(sq.value), qh)
}

func (sq *StringWithQuality) Clone() *StringWithQuality {
	if sq == nil {
		return nil
	}
	sq2 := *sq
	return &sq2
}

func (sq *StringWithQuality) MarshalText() ([]byte, error) { return []byte(sq.String()), nil }

func (sq *StringWithQuality) UnmarshalText(data []byte) error {
	v, err := ParseStringWithQuality(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*sq = *v
	return nil
}

// StringWithQualityLength scans "token [; q = number]" at start, including trailing whitespace.
func StringWithQualityLength(input string, start int) (int, *StringWithQuality) {
	n := grammar.TokenLength(input, start)
	if n == 0 {
		return 0, nil
	}
	sq := &StringWithQuality{value: input[start : start+n]}
	cur := grammar.SkipWS(input, start+n)
	if cur == len(input) || input[cur] != ';' {
		return cur - start, sq
	}

	cur = grammar.SkipWS(input, cur+1)
	if cur == len(input) || (input[cur] != 'q' && input[cur] != 'Q') {
		return 0, nil
	}
	cur = grammar.SkipWS(input, cur+1)
	if cur == len(input) || input[cur] != '=' {
		return 0, nil
	}
	cur = grammar.SkipWS(input, cur+1)

	n = grammar.NumberLength(input, cur, true)
	if n == 0 {
		return 0, nil
	}
	q, ok := grammar.ParseQuality(input[cur : cur+n])
	if !ok {
		return 0, nil
	}
	sq.quality, sq.hasQuality = q, true
	cur = grammar.SkipWS(input, cur+n)
	return cur - start, sq
}

// StringWithQualityListParser parses Accept-Charset, Accept-Encoding and Accept-Language.
var StringWithQualityListParser = NewListParser(StringWithQualityLength, nil)

func ParseStringWithQuality(s string) (*StringWithQuality, error) {
	return errtrace.Wrap2(parseWhole(StringWithQualityLength, s))
}

func TryParseStringWithQuality(s string) (*StringWithQuality, bool) {
	return tryParseWhole(StringWithQualityLength, s)
}
