package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

const charsetParam = "charset"

// MediaType is a "type/subtype" media type with parameters, as used by Content-Type.
type MediaType struct {
	mediaType string
	params    *Collection[*NameValue]
}

// NewMediaType creates a media type. mt must be exactly "type/subtype".
func NewMediaType(mt string) (*MediaType, error) {
	if err := checkMediaType(mt); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &MediaType{mediaType: mt}, nil
}

func checkMediaType(mt string) error {
	if mt == "" {
		return newMissingValueError("media type") //errtrace:skip
	}
	if n, v := mediaTypeExprLength(mt, 0); n != len(mt) || v != mt {
		return newInvalidValueError("media type %q is not a type/subtype pair", mt) //errtrace:skip
	}
	return nil
}

// MIMEType returns "type/subtype".
func (mt *MediaType) MIMEType() string {
	if mt == nil {
		return ""
	}
	return mt.mediaType
}

// SetMIMEType replaces "type/subtype".
func (mt *MediaType) SetMIMEType(v string) error {
	if err := checkMediaType(v); err != nil {
		return errtrace.Wrap(err)
	}
	mt.mediaType = v
	return nil
}

// CharSet returns the unquoted "charset" parameter, or "".
func (mt *MediaType) CharSet() string {
	if mt == nil {
		return ""
	}
	for _, p := range mt.params.All() {
		if util.EqFold(p.name, charsetParam) {
			return grammar.Unquote(p.value)
		}
	}
	return ""
}

// SetCharSet sets the "charset" parameter. An empty cs removes it.
func (mt *MediaType) SetCharSet(cs string) error {
	params := mt.Parameters()
	for i, p := range params.All() {
		if util.EqFold(p.name, charsetParam) {
			if cs == "" {
				params.RemoveAt(i)
				return nil
			}
			return errtrace.Wrap(p.SetValue(cs))
		}
	}
	if cs == "" {
		return nil
	}
	nv, err := NewNameValue(charsetParam, cs)
	if err != nil {
		return errtrace.Wrap(err)
	}
	params.appendUnchecked(nv)
	return nil
}

// Parameters returns the mutable parameter collection.
func (mt *MediaType) Parameters() *Collection[*NameValue] {
	if mt.params == nil {
		mt.params = newParams()
	}
	return mt.params
}

func (mt *MediaType) RenderTo(w io.Writer) (int, error) {
	if mt == nil {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(mt.mediaType)
	cw.Call(func(w io.Writer) (int, error) { return errtrace.Wrap2(renderParams(w, mt.params)) })
	return errtrace.Wrap2(cw.Result())
}

func (mt *MediaType) String() string {
	if mt == nil {
		return ""
	}
	return renderString(mt)
}

func (mt *MediaType) Format(f fmt.State, verb rune) {
	formatValue(f, verb, mt.String(), mt.raw())
}

func (mt *MediaType) raw() any {
	if mt == nil {
		return nil
	}
	return struct {
		MediaType string
		Params    []*NameValue
	}{mt.mediaType, mt.params.Items()}
}

// Equal compares media types case-insensitively and parameters as unordered sets.
func (mt *MediaType) Equal(val any) bool {
	var other *MediaType
	switch v := val.(type) {
	case MediaType:
		other = &v
	case *MediaType:
		other = v
	default:
		return false
	}
	return mt.equal(other)
}

func (mt *MediaType) equal(other *MediaType) bool {
	if mt == other {
		return true
	} else if mt == nil || other == nil {
		return false
	}
	return util.EqFold(mt.mediaType, other.mediaType) && mt.params.Equal(other.params)
}

func (mt *MediaType) Hash() uint64 {
	if mt == nil {
		return 0
	}
	return util.HashCombine(util.HashFold(mt.mediaType), hashParams(mt.params))
}

func (mt *MediaType) Clone() *MediaType {
	if mt == nil {
		return nil
	}
	return &MediaType{mediaType: mt.mediaType, params: mt.params.Clone()}
}

func (mt *MediaType) MarshalText() ([]byte, error) { return []byte(mt.String()), nil }

func (mt *MediaType) UnmarshalText(data []byte) error {
	v, err := ParseMediaType(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*mt = *v
	return nil
}

// mediaTypeExprLength scans "type / subtype" at start, including trailing whitespace.
// The returned expression has the whitespace around the slash removed.
func mediaTypeExprLength(input string, start int) (int, string) {
	n := grammar.TokenLength(input, start)
	if n == 0 {
		return 0, ""
	}
	typ := input[start : start+n]
	cur := grammar.SkipWS(input, start+n)
	if cur == len(input) || input[cur] != '/' {
		return 0, ""
	}
	cur = grammar.SkipWS(input, cur+1)
	n = grammar.TokenLength(input, cur)
	if n == 0 {
		return 0, ""
	}
	sub := input[cur : cur+n]
	end := cur + n
	cur = grammar.SkipWS(input, end)

	if len(typ)+len(sub)+1 == end-start {
		return cur - start, input[start:end]
	}
	return cur - start, typ + "/" + sub
}

// mediaTypeLength scans "type/subtype *(; param)" at start into mt.
func mediaTypeLength(input string, start int, mt *MediaType) int {
	n, v := mediaTypeExprLength(input, start)
	if n == 0 {
		return 0
	}
	mt.mediaType = v
	cur := start + n
	if cur == len(input) || input[cur] != ';' {
		return cur - start
	}

	n = paramListLength(input, cur+1, ';', mt.Parameters())
	if n == 0 {
		return 0
	}
	return cur + 1 + n - start
}

// MediaTypeLength scans a media type with parameters at start.
func MediaTypeLength(input string, start int) (int, *MediaType) {
	mt := &MediaType{}
	if n := mediaTypeLength(input, start, mt); n > 0 {
		return n, mt
	}
	return 0, nil
}

var (
	// MediaTypeParser parses the Content-Type header.
	MediaTypeParser = NewSingleParser(MediaTypeLength, nil)
	// MediaTypeListParser parses comma separated media type lists.
	MediaTypeListParser = NewListParser(MediaTypeLength, nil)
)

func ParseMediaType(s string) (*MediaType, error) {
	return errtrace.Wrap2(parseWhole(MediaTypeLength, s))
}

func TryParseMediaType(s string) (*MediaType, bool) { return tryParseWhole(MediaTypeLength, s) }

// MediaTypeWithQuality is a media range weighted with a "q" parameter, as used by Accept.
type MediaTypeWithQuality struct {
	MediaType
}

// NewMediaTypeWithQuality creates a media type weighted with q, which must be within [0, 1].
func NewMediaTypeWithQuality(mt string, q float64) (*MediaTypeWithQuality, error) {
	v, err := NewMediaType(mt)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	mtq := &MediaTypeWithQuality{MediaType: *v}
	if err := setQuality(mtq.Parameters(), q); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return mtq, nil
}

// Quality returns the value of the "q" parameter, if present and well-formed.
func (mtq *MediaTypeWithQuality) Quality() (float64, bool) {
	if mtq == nil {
		return 0, false
	}
	return getQuality(mtq.params)
}

// SetQuality stores q as the "q" parameter. It is rendered with at most 3 decimals.
func (mtq *MediaTypeWithQuality) SetQuality(q float64) error {
	return errtrace.Wrap(setQuality(mtq.Parameters(), q))
}

// RemoveQuality drops the "q" parameter.
func (mtq *MediaTypeWithQuality) RemoveQuality() { removeQuality(mtq.params) }

func (mtq *MediaTypeWithQuality) String() string {
	if mtq == nil {
		return ""
	}
	return mtq.MediaType.String()
}

func (mtq *MediaTypeWithQuality) Format(f fmt.State, verb rune) {
	if mtq == nil {
		formatValue(f, verb, "", nil)
		return
	}
	formatValue(f, verb, mtq.String(), mtq.raw())
}

func (mtq *MediaTypeWithQuality) Equal(val any) bool {
	var other *MediaTypeWithQuality
	switch v := val.(type) {
	case MediaTypeWithQuality:
		other = &v
	case *MediaTypeWithQuality:
		other = v
	default:
		return false
	}

	if mtq == other {
		return true
	} else if mtq == nil || other == nil {
		return false
	}
	return mtq.equal(&other.MediaType)
}

func (mtq *MediaTypeWithQuality) Clone() *MediaTypeWithQuality {
	if mtq == nil {
		return nil
	}
	return &MediaTypeWithQuality{MediaType: *mtq.MediaType.Clone()}
}

func (mtq *MediaTypeWithQuality) UnmarshalText(data []byte) error {
	v, err := ParseMediaTypeWithQuality(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*mtq = *v
	return nil
}

// MediaTypeWithQualityLength scans a media range with parameters at start.
func MediaTypeWithQualityLength(input string, start int) (int, *MediaTypeWithQuality) {
	mtq := &MediaTypeWithQuality{}
	if n := mediaTypeLength(input, start, &mtq.MediaType); n > 0 {
		return n, mtq
	}
	return 0, nil
}

// MediaTypeWithQualityListParser parses the Accept header.
var MediaTypeWithQualityListParser = NewListParser(MediaTypeWithQualityLength, nil)

func ParseMediaTypeWithQuality(s string) (*MediaTypeWithQuality, error) {
	return errtrace.Wrap2(parseWhole(MediaTypeWithQualityLength, s))
}

func TryParseMediaTypeWithQuality(s string) (*MediaTypeWithQuality, bool) {
	return tryParseWhole(MediaTypeWithQualityLength, s)
}
