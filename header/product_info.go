package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// ProductInfo is an element of the User-Agent and Server headers:
// either a [Product] or a parenthesized comment.
type ProductInfo struct {
	product *Product
	comment string
}

// NewProductInfo creates a product element.
func NewProductInfo(p *Product) (*ProductInfo, error) {
	if p == nil {
		return nil, errtrace.Wrap(newMissingValueError("product"))
	}
	return &ProductInfo{product: p}, nil
}

// NewProductComment creates a comment element. comment must include the parentheses.
func NewProductComment(comment string) (*ProductInfo, error) {
	if comment == "" {
		return nil, errtrace.Wrap(newMissingValueError("comment"))
	}
	if !grammar.IsComment(comment) {
		return nil, errtrace.Wrap(newInvalidValueError("%q is not a comment", comment))
	}
	return &ProductInfo{comment: comment}, nil
}

// Product returns the product, or nil for a comment element.
func (pi *ProductInfo) Product() *Product {
	if pi == nil {
		return nil
	}
	return pi.product
}

// Comment returns the comment including its parentheses, or "" for a product element.
func (pi *ProductInfo) Comment() string {
	if pi == nil {
		return ""
	}
	return pi.comment
}

func (pi *ProductInfo) RenderTo(w io.Writer) (int, error) {
	if pi == nil {
		return 0, nil
	}
	if pi.product != nil {
		return errtrace.Wrap2(pi.product.RenderTo(w))
	}
	return errtrace.Wrap2(io.WriteString(w, pi.comment))
}

func (pi *ProductInfo) String() string {
	if pi == nil {
		return ""
	}
	return renderString(pi)
}

func (pi *ProductInfo) Format(f fmt.State, verb rune) {
	type hideMethods ProductInfo
	type ProductInfo hideMethods
	formatValue(f, verb, pi.String(), (*ProductInfo)(pi))
}

// Equal compares products case-insensitively and comments ordinally.
func (pi *ProductInfo) Equal(val any) bool {
	var other *ProductInfo
	switch v := val.(type) {
	case ProductInfo:
		other = &v
	case *ProductInfo:
		other = v
	default:
		return false
	}

	if pi == other {
		return true
	} else if pi == nil || other == nil {
		return false
	}
	if pi.product == nil || other.product == nil {
		return pi.product == other.product && pi.comment == other.comment
	}
	return pi.product.Equal(other.product)
}

func (pi *ProductInfo) Hash() uint64 {
	if pi == nil {
		return 0
	}
	if pi.product != nil {
		return pi.product.Hash()
	}
	return util.HashString(pi.comment)
}

func (pi *ProductInfo) Clone() *ProductInfo {
	if pi == nil {
		return nil
	}
	return &ProductInfo{product: pi.product.Clone(), comment: pi.comment}
}

func (pi *ProductInfo) MarshalText() ([]byte, error) { return []byte(pi.String()), nil }

func (pi *ProductInfo) UnmarshalText(data []byte) error {
	v, err := ParseProductInfo(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*pi = *v
	return nil
}

// ProductInfoLength scans a product or a comment at start, including trailing whitespace.
func ProductInfoLength(input string, start int) (int, *ProductInfo) {
	if start < 0 || start >= len(input) {
		return 0, nil
	}
	if input[start] == '(' {
		n := grammar.CommentLength(input, start)
		if n == 0 {
			return 0, nil
		}
		pi := &ProductInfo{comment: input[start : start+n]}
		return grammar.SkipWS(input, start+n) - start, pi
	}
	n, p := ProductLength(input, start)
	if n == 0 {
		return 0, nil
	}
	return n, &ProductInfo{product: p}
}

// ProductInfoListParser parses the User-Agent and Server headers.
// Unlike other lists, elements are separated by whitespace rather than commas.
var ProductInfoListParser ValueParser = productInfoParser{}

type productInfoParser struct{}

func (productInfoParser) SupportsMultipleValues() bool { return true }

func (productInfoParser) Comparer() func(a, b any) bool { return nil }

func (productInfoParser) TryParseValue(input string, index int) (value any, next int, ok bool) {
	if index < 0 || index >= len(input) {
		return nil, index, false
	}
	cur := grammar.SkipWS(input, index)
	if cur == len(input) {
		return nil, index, false
	}

	n, pi := ProductInfoLength(input, cur)
	if n == 0 {
		return nil, index, false
	}
	cur += n
	// Elements must be separated by whitespace. Comments are self-delimiting.
	if cur < len(input) && !grammar.IsWhitespace(input[cur-1]) && input[cur-1] != ')' && input[cur] != '(' {
		return nil, index, false
	}
	return pi, cur, true
}

func (p productInfoParser) ParseValue(input string, index int) (value any, next int, err error) {
	v, next, ok := p.TryParseValue(input, index)
	if !ok {
		return nil, index, errtrace.Wrap(newFormatError(input, index))
	}
	return v, next, nil
}

func ParseProductInfo(s string) (*ProductInfo, error) {
	return errtrace.Wrap2(parseWhole(ProductInfoLength, s))
}

func TryParseProductInfo(s string) (*ProductInfo, bool) { return tryParseWhole(ProductInfoLength, s) }

// ParseProductInfoList parses a whole User-Agent or Server value.
func ParseProductInfoList(s string) ([]*ProductInfo, error) {
	var list []*ProductInfo
	for i := 0; i < len(s); {
		v, next, err := ProductInfoListParser.ParseValue(s, i)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		list = append(list, v.(*ProductInfo)) //nolint:forcetypeassert
		i = next
	}
	if len(list) == 0 {
		return nil, errtrace.Wrap(newFormatError(s, 0))
	}
	return list, nil
}
