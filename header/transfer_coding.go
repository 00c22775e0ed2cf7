package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// TransferCoding is a transfer coding with parameters, as used by Transfer-Encoding.
type TransferCoding struct {
	value  string
	params *Collection[*NameValue]
}

func NewTransferCoding(value string) (*TransferCoding, error) {
	if err := checkToken("transfer coding", value); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &TransferCoding{value: value}, nil
}

func (tc *TransferCoding) Value() string {
	if tc == nil {
		return ""
	}
	return tc.value
}

// Parameters returns the mutable parameter collection.
func (tc *TransferCoding) Parameters() *Collection[*NameValue] {
	if tc.params == nil {
		tc.params = newParams()
	}
	return tc.params
}

func (tc *TransferCoding) RenderTo(w io.Writer) (int, error) {
	if tc == nil {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(tc.value)
	cw.Call(func(w io.Writer) (int, error) { return errtrace.Wrap2(renderParams(w, tc.params)) })
	return errtrace.Wrap2(cw.Result())
}

func (tc *TransferCoding) String() string {
	if tc == nil {
		return ""
	}
	return renderString(tc)
}

func (tc *TransferCoding) Format(f fmt.State, verb rune) {
	formatValue(f, verb, tc.String(), tc.raw())
}

func (tc *TransferCoding) raw() any {
	if tc == nil {
		return nil
	}
	return struct {
		Value  string
		Params []*NameValue
	}{tc.value, tc.params.Items()}
}

// Equal compares values case-insensitively and parameters as unordered sets.
func (tc *TransferCoding) Equal(val any) bool {
	var other *TransferCoding
	switch v := val.(type) {
	case TransferCoding:
		other = &v
	case *TransferCoding:
		other = v
	default:
		return false
	}
	return tc.equal(other)
}

func (tc *TransferCoding) equal(other *TransferCoding) bool {
	if tc == other {
		return true
	} else if tc == nil || other == nil {
		return false
	}
	return util.EqFold(tc.value, other.value) && tc.params.Equal(other.params)
}

func (tc *TransferCoding) Hash() uint64 {
	if tc == nil {
		return 0
	}
	return util.HashCombine(util.HashFold(tc.value), hashParams(tc.params))
}

func (tc *TransferCoding) Clone() *TransferCoding {
	if tc == nil {
		return nil
	}
	return &TransferCoding{value: tc.value, params: tc.params.Clone()}
}

func (tc *TransferCoding) MarshalText() ([]byte, error) { return []byte(tc.String()), nil }

func (tc *TransferCoding) UnmarshalText(data []byte) error {
	v, err := ParseTransferCoding(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*tc = *v
	return nil
}

// transferCodingLength scans "token *(; param)" at start into tc.
func transferCodingLength(input string, start int, tc *TransferCoding) int {
	n := grammar.TokenLength(input, start)
	if n == 0 {
		return 0
	}
	tc.value = input[start : start+n]
	cur := grammar.SkipWS(input, start+n)
	if cur == len(input) || input[cur] != ';' {
		return cur - start
	}

	n = paramListLength(input, cur+1, ';', tc.Parameters())
	if n == 0 {
		return 0
	}
	return cur + 1 + n - start
}

// TransferCodingLength scans a transfer coding with parameters at start.
func TransferCodingLength(input string, start int) (int, *TransferCoding) {
	tc := &TransferCoding{}
	if n := transferCodingLength(input, start, tc); n > 0 {
		return n, tc
	}
	return 0, nil
}

// TransferCodingListParser parses the Transfer-Encoding header.
var TransferCodingListParser = NewListParser(TransferCodingLength, nil)

func ParseTransferCoding(s string) (*TransferCoding, error) {
	return errtrace.Wrap2(parseWhole(TransferCodingLength, s))
}

func TryParseTransferCoding(s string) (*TransferCoding, bool) {
	return tryParseWhole(TransferCodingLength, s)
}

// TransferCodingWithQuality is a transfer coding weighted with a "q" parameter, as used by TE.
type TransferCodingWithQuality struct {
	TransferCoding
}

// NewTransferCodingWithQuality creates a coding weighted with q, which must be within [0, 1].
func NewTransferCodingWithQuality(value string, q float64) (*TransferCodingWithQuality, error) {
	tc, err := NewTransferCoding(value)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	tcq := &TransferCodingWithQuality{TransferCoding: *tc}
	if err := setQuality(tcq.Parameters(), q); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return tcq, nil
}

// Quality returns the value of the "q" parameter, if present and well-formed.
func (tcq *TransferCodingWithQuality) Quality() (float64, bool) {
	if tcq == nil {
		return 0, false
	}
	return getQuality(tcq.params)
}

// SetQuality stores q as the "q" parameter. It is rendered with at most 3 decimals.
func (tcq *TransferCodingWithQuality) SetQuality(q float64) error {
	return errtrace.Wrap(setQuality(tcq.Parameters(), q))
}

// RemoveQuality drops the "q" parameter.
func (tcq *TransferCodingWithQuality) RemoveQuality() { removeQuality(tcq.params) }

func (tcq *TransferCodingWithQuality) Format(f fmt.State, verb rune) {
	if tcq == nil {
		formatValue(f, verb, "", nil)
		return
	}
	formatValue(f, verb, tcq.String(), tcq.raw())
}

func (tcq *TransferCodingWithQuality) String() string {
	if tcq == nil {
		return ""
	}
	return tcq.TransferCoding.String()
}

func (tcq *TransferCodingWithQuality) Equal(val any) bool {
	var other *TransferCodingWithQuality
	switch v := val.(type) {
	case TransferCodingWithQuality:
		other = &v
	case *TransferCodingWithQuality:
		other = v
	default:
		return false
	}

	if tcq == other {
		return true
	} else if tcq == nil || other == nil {
		return false
	}
	return tcq.equal(&other.TransferCoding)
}

func (tcq *TransferCodingWithQuality) Clone() *TransferCodingWithQuality {
	if tcq == nil {
		return nil
	}
	return &TransferCodingWithQuality{TransferCoding: *tcq.TransferCoding.Clone()}
}

func (tcq *TransferCodingWithQuality) UnmarshalText(data []byte) error {
	v, err := ParseTransferCodingWithQuality(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*tcq = *v
	return nil
}

// TransferCodingWithQualityLength scans a transfer coding with parameters at start.
func TransferCodingWithQualityLength(input string, start int) (int, *TransferCodingWithQuality) {
	tcq := &TransferCodingWithQuality{}
	if n := transferCodingLength(input, start, &tcq.TransferCoding); n > 0 {
		return n, tcq
	}
	return 0, nil
}

// TransferCodingWithQualityListParser parses the TE header.
var TransferCodingWithQualityListParser = NewListParser(TransferCodingWithQualityLength, nil)

func ParseTransferCodingWithQuality(s string) (*TransferCodingWithQuality, error) {
	return errtrace.Wrap2(parseWhole(TransferCodingWithQualityLength, s))
}

func TryParseTransferCodingWithQuality(s string) (*TransferCodingWithQuality, bool) {
	return tryParseWhole(TransferCodingWithQualityLength, s)
}
