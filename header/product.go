package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Product is a product token with an optional version, e.g. "curl/8.5.0".
type Product struct {
	name    string
	version string
}

// NewProduct creates a product. version may be empty.
func NewProduct(name, version string) (*Product, error) {
	if err := checkToken("product name", name); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if version != "" && !grammar.IsToken(version) {
		return nil, errtrace.Wrap(newInvalidValueError("product version %q is not a token", version))
	}
	return &Product{name: name, version: version}, nil
}

func (p *Product) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

func (p *Product) Version() string {
	if p == nil {
		return ""
	}
	return p.version
}

func (p *Product) RenderTo(w io.Writer) (int, error) {
	if p == nil {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(p.name)
	if p.version != "" {
		cw.WriteString("/", p.version)
	}
	return errtrace.Wrap2(cw.Result())
}

func (p *Product) String() string {
	if p == nil {
		return ""
	}
	return renderString(p)
}

func (p *Product) Format(f fmt.State, verb rune) {
	type hideMethods Product
	type Product hideMethods
	formatValue(f, verb, p.String(), (*Product)(p))
}

// Equal compares name and version case-insensitively.
func (p *Product) Equal(val any) bool {
	var other *Product
	switch v := val.(type) {
	case Product:
		other = &v
	case *Product:
		other = v
	default:
		return false
	}

	if p == other {
		return true
	} else if p == nil || other == nil {
		return false
	}
	return util.EqFold(p.name, other.name) && util.EqFold(p.version, other.version)
}

func (p *Product) Hash() uint64 {
	if p == nil {
		return 0
	}
	return util.HashCombine(util.HashFold(p.name), util.HashFold(p.version))
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	p2 := *p
	return &p2
}

func (p *Product) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Product) UnmarshalText(data []byte) error {
	v, err := ParseProduct(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*p = *v
	return nil
}

// ProductLength scans "name[/version]" at start, including trailing whitespace.
// Whitespace is allowed around the slash.
func ProductLength(input string, start int) (int, *Product) {
	n := grammar.TokenLength(input, start)
	if n == 0 {
		return 0, nil
	}
	p := &Product{name: input[start : start+n]}
	cur := grammar.SkipWS(input, start+n)
	if cur == len(input) || input[cur] != '/' {
		return cur - start, p
	}

	cur = grammar.SkipWS(input, cur+1)
	n = grammar.TokenLength(input, cur)
	if n == 0 {
		return 0, nil
	}
	p.version = input[cur : cur+n]
	cur = grammar.SkipWS(input, cur+n)
	return cur - start, p
}

// ProductListParser parses the Upgrade header.
var ProductListParser = NewListParser(ProductLength, nil)

func ParseProduct(s string) (*Product, error) {
	return errtrace.Wrap2(parseWhole(ProductLength, s))
}

func TryParseProduct(s string) (*Product, bool) { return tryParseWhole(ProductLength, s) }
