package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Authentication is a challenge or credentials: a scheme followed by an opaque parameter string,
// as used by Authorization and WWW-Authenticate.
type Authentication struct {
	scheme    string
	parameter string
}

// NewAuthentication creates a value. parameter may be empty and is not validated.
func NewAuthentication(scheme, parameter string) (*Authentication, error) {
	if err := checkToken("authentication scheme", scheme); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &Authentication{scheme: scheme, parameter: parameter}, nil
}

func (a *Authentication) Scheme() string {
	if a == nil {
		return ""
	}
	return a.scheme
}

func (a *Authentication) Parameter() string {
	if a == nil {
		return ""
	}
	return a.parameter
}

func (a *Authentication) RenderTo(w io.Writer) (int, error) {
	if a == nil {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(a.scheme)
	if a.parameter != "" {
		cw.WriteString(" ", a.parameter)
	}
	return errtrace.Wrap2(cw.Result())
}

func (a *Authentication) String() string {
	if a == nil {
		return ""
	}
	return renderString(a)
}

func (a *Authentication) Format(f fmt.State, verb rune) {
	type hideMethods Authentication
	type Authentication hideMethods
	formatValue(f, verb, a.String(), (*Authentication)(a))
}

// Equal compares schemes case-insensitively and parameters ordinally.
func (a *Authentication) Equal(val any) bool {
	var other *Authentication
	switch v := val.(type) {
	case Authentication:
		other = &v
	case *Authentication:
		other = v
	default:
		return false
	}

	if a == other {
		return true
	} else if a == nil || other == nil {
		return false
	}
	return util.EqFold(a.scheme, other.scheme) && a.parameter == other.parameter
}

func (a *Authentication) Hash() uint64 {
	if a == nil {
		return 0
	}
	return util.HashCombine(util.HashFold(a.scheme), util.HashString(a.parameter))
}

func (a *Authentication) Clone() *Authentication {
	if a == nil {
		return nil
	}
	a2 := *a
	return &a2
}

func (a *Authentication) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Authentication) UnmarshalText(data []byte) error {
	v, err := ParseAuthentication(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*a = *v
	return nil
}

// AuthenticationLength scans "scheme [SP parameter]" at start.
//
// Parameters may themselves contain commas ("Digest a=b, c=d"), so the value ends before
// the first comma that is followed by something other than a name=value pair.
// Such a token starts the next challenge.
func AuthenticationLength(input string, start int) (int, *Authentication) {
	n := grammar.TokenLength(input, start)
	if n == 0 {
		return 0, nil
	}
	a := &Authentication{scheme: input[start : start+n]}
	cur := start + n
	wsLen := grammar.WhitespaceLength(input, cur)
	cur += wsLen
	if cur == len(input) || input[cur] == ',' {
		return cur - start, a
	}
	if wsLen == 0 {
		return 0, nil
	}

	paramStart, paramEnd := cur, cur
	var ok bool
	if cur, paramEnd, ok = skipFirstAuthBlob(input, cur, paramEnd); !ok {
		return 0, nil
	}
	if cur < len(input) {
		if cur, paramEnd, ok = authParamsEnd(input, cur, paramEnd); !ok {
			return 0, nil
		}
	}
	a.parameter = input[paramStart : paramEnd+1]
	return cur - start, a
}

// skipFirstAuthBlob reads everything up to the first comma outside of quoted strings.
// paramEnd tracks the last non-whitespace character.
func skipFirstAuthBlob(input string, cur, paramEnd int) (int, int, bool) {
	for cur < len(input) && input[cur] != ',' {
		if input[cur] == '"' {
			n := grammar.QuotedStringLength(input, cur)
			if n == 0 {
				return cur, paramEnd, false
			}
			cur += n
			paramEnd = cur - 1
			continue
		}
		if n := grammar.WhitespaceLength(input, cur); n > 0 {
			cur += n
			continue
		}
		paramEnd = cur
		cur++
	}
	return cur, paramEnd, true
}

// authParamsEnd consumes ", name=value" pairs that continue the parameter.
// It stops before a comma followed by a bare token, which is the next scheme.
func authParamsEnd(input string, parseEnd, paramEnd int) (int, int, bool) {
	cur := parseEnd
	for cur < len(input) && input[cur] == ',' {
		cur, _ = grammar.NextElemIndex(input, cur+1, true)
		if cur == len(input) {
			return parseEnd, paramEnd, true
		}

		n := grammar.TokenLength(input, cur)
		if n == 0 {
			return parseEnd, paramEnd, false
		}
		cur = grammar.SkipWS(input, cur+n)
		if cur == len(input) || input[cur] != '=' {
			return parseEnd, paramEnd, true
		}

		cur = grammar.SkipWS(input, cur+1)
		n = grammar.ValueLength(input, cur)
		if n == 0 {
			return parseEnd, paramEnd, false
		}
		cur += n
		paramEnd = cur - 1
		cur = grammar.SkipWS(input, cur)
		parseEnd = cur
	}
	return parseEnd, paramEnd, true
}

var (
	// AuthenticationParser parses Authorization and Proxy-Authorization.
	AuthenticationParser = NewSingleParser(AuthenticationLength, nil)
	// AuthenticationListParser parses WWW-Authenticate and Proxy-Authenticate.
	AuthenticationListParser = NewListParser(AuthenticationLength, nil)
)

func ParseAuthentication(s string) (*Authentication, error) {
	return errtrace.Wrap2(parseWhole(AuthenticationLength, s))
}

func TryParseAuthentication(s string) (*Authentication, bool) {
	return tryParseWhole(AuthenticationLength, s)
}
