package header

import (
	"net/url"
	"strings"
	"time"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// DateLength parses an HTTP date spanning the rest of input.
// RFC 1123, RFC 850 and asctime forms are accepted.
func DateLength(input string, start int) (int, time.Time) {
	if start < 0 || start >= len(input) {
		return 0, time.Time{}
	}
	t, ok := grammar.ParseDate(input[start:])
	if !ok {
		return 0, time.Time{}
	}
	return len(input) - start, t
}

// Int32Length scans a non-negative 32-bit integer at start.
func Int32Length(input string, start int) (int, int32) {
	n := grammar.NumberLength(input, start, false)
	if n == 0 {
		return 0, 0
	}
	v, ok := grammar.ParseInt32(input[start : start+n])
	if !ok {
		return 0, 0
	}
	return n, v
}

// Int64Length scans a non-negative 64-bit integer at start.
func Int64Length(input string, start int) (int, int64) {
	n := grammar.NumberLength(input, start, false)
	if n == 0 {
		return 0, 0
	}
	v, ok := grammar.ParseInt64(input[start : start+n])
	if !ok {
		return 0, 0
	}
	return n, v
}

// DeltaSecondsLength scans delta-seconds at start.
func DeltaSecondsLength(input string, start int) (int, time.Duration) {
	n, v := Int32Length(input, start)
	if n == 0 {
		return 0, 0
	}
	return n, time.Duration(v) * time.Second
}

// TokenValueLength scans a token at start.
func TokenValueLength(input string, start int) (int, string) {
	n := grammar.TokenLength(input, start)
	if n == 0 {
		return 0, ""
	}
	return n, input[start : start+n]
}

// URILength parses an absolute or relative URI reference spanning the rest of input.
// Trailing whitespace is ignored, any other whitespace or control character is rejected.
func URILength(input string, start int) (int, *url.URL) {
	if start < 0 || start >= len(input) {
		return 0, nil
	}
	s := strings.TrimRight(input[start:], " \t")
	if s == "" {
		return 0, nil
	}
	for i := 0; i < len(s); i++ {
		if grammar.IsWhitespace(s[i]) || grammar.IsCtl(s[i]) {
			return 0, nil
		}
	}
	u, err := url.Parse(s)
	if err != nil {
		return 0, nil
	}
	return len(input) - start, u
}

var (
	// DateParser parses Date, Expires, Last-Modified, If-Modified-Since and If-Unmodified-Since.
	DateParser = NewSingleParser(DateLength, func(a, b time.Time) bool { return a.Equal(b) })
	// Int32Parser parses Max-Forwards.
	Int32Parser = NewSingleParser(Int32Length, nil)
	// Int64Parser parses Content-Length.
	Int64Parser = NewSingleParser(Int64Length, nil)
	// DeltaSecondsParser parses Age.
	DeltaSecondsParser = NewSingleParser(DeltaSecondsLength, nil)
	// TokenListParser parses comma separated token lists such as Allow or Vary.
	// Tokens compare case-insensitively.
	TokenListParser = NewListParser(TokenValueLength, util.EqFold[string, string])
	// URIParser parses Location, Content-Location and Referer.
	URIParser = NewSingleParser(URILength, func(a, b *url.URL) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.String() == b.String()
	})
)
