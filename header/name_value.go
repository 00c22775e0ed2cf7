package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// NameValue is a "name[=value]" pair, used for parameters and the Pragma header.
// The value is a token or a quoted-string and is stored as written.
type NameValue struct {
	name  string
	value string
}

// NewNameValue creates a pair. value may be empty, otherwise it must be
// a token or a quoted-string.
func NewNameValue(name, value string) (*NameValue, error) {
	if err := checkToken("parameter name", name); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if err := checkParamValue(value); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &NameValue{name: name, value: value}, nil
}

func checkParamValue(value string) error {
	if value == "" || grammar.ValueLength(value, 0) == len(value) {
		return nil
	}
	return newInvalidValueError("parameter value %q is neither a token nor a quoted string", value) //errtrace:skip
}

func (nv *NameValue) Name() string {
	if nv == nil {
		return ""
	}
	return nv.name
}

// Value returns the value as written, quotes included.
func (nv *NameValue) Value() string {
	if nv == nil {
		return ""
	}
	return nv.value
}

// SetValue replaces the value. An empty value removes it.
func (nv *NameValue) SetValue(value string) error {
	if err := checkParamValue(value); err != nil {
		return errtrace.Wrap(err)
	}
	nv.value = value
	return nil
}

func (nv *NameValue) RenderTo(w io.Writer) (int, error) {
	if nv == nil {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(nv.name)
	if nv.value != "" {
		cw.WriteString("=", nv.value)
	}
	return errtrace.Wrap2(cw.Result())
}

func (nv *NameValue) String() string {
	if nv == nil {
		return ""
	}
	return renderString(nv)
}

func (nv *NameValue) Format(f fmt.State, verb rune) {
	type hideMethods NameValue
	type NameValue hideMethods
	formatValue(f, verb, nv.String(), (*NameValue)(nv))
}

// Equal compares names case-insensitively. Quoted values compare ordinally,
// token values case-insensitively.
func (nv *NameValue) Equal(val any) bool {
	var other *NameValue
	switch v := val.(type) {
	case NameValue:
		other = &v
	case *NameValue:
		other = v
	default:
		return false
	}

	if nv == other {
		return true
	} else if nv == nil || other == nil {
		return false
	}
	return util.EqFold(nv.name, other.name) && equalParamValues(nv.value, other.value)
}

func equalParamValues(v1, v2 string) bool {
	if v1 == "" || v2 == "" {
		return v1 == v2
	}
	if v1[0] == '"' {
		return v1 == v2
	}
	return util.EqFold(v1, v2)
}

func (nv *NameValue) Hash() uint64 {
	if nv == nil {
		return 0
	}
	vh := util.HashFold(nv.value)
	if nv.value != "" && nv.value[0] == '"' {
		vh = util.HashString(nv.value)
	}
	return util.HashCombine(util.HashFold(nv.name), vh)
}

func (nv *NameValue) Clone() *NameValue {
	if nv == nil {
		return nil
	}
	nv2 := *nv
	return &nv2
}

func (nv *NameValue) MarshalText() ([]byte, error) { return []byte(nv.String()), nil }

func (nv *NameValue) UnmarshalText(data []byte) error {
	v, err := ParseNameValue(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*nv = *v
	return nil
}

// NameValueLength scans "name [= value]" at start, including trailing whitespace.
func NameValueLength(input string, start int) (int, *NameValue) {
	n := grammar.TokenLength(input, start)
	if n == 0 {
		return 0, nil
	}
	nv := &NameValue{name: input[start : start+n]}
	cur := grammar.SkipWS(input, start+n)
	if cur == len(input) || input[cur] != '=' {
		return cur - start, nv
	}

	cur = grammar.SkipWS(input, cur+1)
	n = grammar.ValueLength(input, cur)
	if n == 0 {
		return 0, nil
	}
	nv.value = input[cur : cur+n]
	cur = grammar.SkipWS(input, cur+n)
	return cur - start, nv
}

// paramListLength scans a list of pairs separated by delim at start into dst.
// Leading whitespace is skipped. A delimiter must be followed by another pair.
func paramListLength(input string, start int, delim byte, dst *Collection[*NameValue]) int {
	if start < 0 || start >= len(input) {
		return 0
	}
	cur := grammar.SkipWS(input, start)
	for {
		n, nv := NameValueLength(input, cur)
		if n == 0 {
			return 0
		}
		dst.appendUnchecked(nv)
		cur += n
		if cur == len(input) || input[cur] != delim {
			return cur - start
		}
		cur = grammar.SkipWS(input, cur+1)
	}
}

// NameValueListParser parses the Pragma header.
var NameValueListParser = NewListParser(NameValueLength, nil)

func ParseNameValue(s string) (*NameValue, error) {
	return errtrace.Wrap2(parseWhole(NameValueLength, s))
}

func TryParseNameValue(s string) (*NameValue, bool) { return tryParseWhole(NameValueLength, s) }

// NameValueWithParameters is a pair followed by ";"-separated parameters,
// as used by the Expect header.
type NameValueWithParameters struct {
	NameValue
	params *Collection[*NameValue]
}

func NewNameValueWithParameters(name, value string) (*NameValueWithParameters, error) {
	nv, err := NewNameValue(name, value)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &NameValueWithParameters{NameValue: *nv}, nil
}

// Parameters returns the mutable parameter collection.
func (nvp *NameValueWithParameters) Parameters() *Collection[*NameValue] {
	if nvp.params == nil {
		nvp.params = newParams()
	}
	return nvp.params
}

func (nvp *NameValueWithParameters) RenderTo(w io.Writer) (int, error) {
	if nvp == nil {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Call(nvp.NameValue.RenderTo)
	cw.Call(func(w io.Writer) (int, error) { return errtrace.Wrap2(renderParams(w, nvp.params)) })
	return errtrace.Wrap2(cw.Result())
}

func (nvp *NameValueWithParameters) String() string {
	if nvp == nil {
		return ""
	}
	return renderString(nvp)
}

func (nvp *NameValueWithParameters) Format(f fmt.State, verb rune) {
	var raw any
	if nvp != nil {
		raw = struct {
			Name, Value string
			Params      []*NameValue
		}{nvp.name, nvp.value, nvp.params.Items()}
	}
	formatValue(f, verb, nvp.String(), raw)
}

// Equal compares the pair like [NameValue.Equal] and parameters as unordered sets.
func (nvp *NameValueWithParameters) Equal(val any) bool {
	var other *NameValueWithParameters
	switch v := val.(type) {
	case NameValueWithParameters:
		other = &v
	case *NameValueWithParameters:
		other = v
	default:
		return false
	}

	if nvp == other {
		return true
	} else if nvp == nil || other == nil {
		return false
	}
	return nvp.NameValue.Equal(&other.NameValue) && nvp.params.Equal(other.params)
}

func (nvp *NameValueWithParameters) Hash() uint64 {
	if nvp == nil {
		return 0
	}
	return util.HashCombine(nvp.NameValue.Hash(), hashParams(nvp.params))
}

func (nvp *NameValueWithParameters) Clone() *NameValueWithParameters {
	if nvp == nil {
		return nil
	}
	return &NameValueWithParameters{NameValue: nvp.NameValue, params: nvp.params.Clone()}
}

func (nvp *NameValueWithParameters) MarshalText() ([]byte, error) {
	return []byte(nvp.String()), nil
}

func (nvp *NameValueWithParameters) UnmarshalText(data []byte) error {
	v, err := ParseNameValueWithParameters(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*nvp = *v
	return nil
}

// NameValueWithParametersLength scans "name [= value] *(; param)" at start.
func NameValueWithParametersLength(input string, start int) (int, *NameValueWithParameters) {
	n, nv := NameValueLength(input, start)
	if n == 0 {
		return 0, nil
	}
	nvp := &NameValueWithParameters{NameValue: *nv}
	cur := start + n
	if cur == len(input) || input[cur] != ';' {
		return cur - start, nvp
	}

	n = paramListLength(input, cur+1, ';', nvp.Parameters())
	if n == 0 {
		return 0, nil
	}
	return cur + 1 + n - start, nvp
}

// NameValueWithParametersListParser parses the Expect header.
var NameValueWithParametersListParser = NewListParser(NameValueWithParametersLength, nil)

func ParseNameValueWithParameters(s string) (*NameValueWithParameters, error) {
	return errtrace.Wrap2(parseWhole(NameValueWithParametersLength, s))
}

func TryParseNameValueWithParameters(s string) (*NameValueWithParameters, bool) {
	return tryParseWhole(NameValueWithParametersLength, s)
}
