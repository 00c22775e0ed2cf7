package grammar_test

import (
	"testing"
	"time"

	"github.com/ghettovoice/httphdr/internal/grammar"
)

func TestUnquote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"empty", "", ""},
		{"empty quote", `""`, ""},
		{"no quote", "abc", "abc"},
		{"with quote", `"abc"`, "abc"},
		{"with quoted pair", `"a\"b\\c"`, `a"b\c`},
		{"unterminated", `"abc`, `"abc`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.Unquote(c.str), c.want; got != want {
				t.Errorf("grammar.Unquote(%q) = %q, want %q", c.str, got, want)
			}
		})
	}
}

func TestCharClasses(t *testing.T) {
	t.Parallel()

	for _, c := range []byte("!#$%&'*+-.^_`|~09azAZ") {
		if !grammar.IsTokenChar(c) {
			t.Errorf("grammar.IsTokenChar(%q) = false, want true", c)
		}
		if grammar.IsSeparator(c) {
			t.Errorf("grammar.IsSeparator(%q) = true, want false", c)
		}
	}
	for _, c := range []byte("()<>@,;:\\\"/[]?={} \t") {
		if grammar.IsTokenChar(c) {
			t.Errorf("grammar.IsTokenChar(%q) = true, want false", c)
		}
		if !grammar.IsSeparator(c) {
			t.Errorf("grammar.IsSeparator(%q) = false, want true", c)
		}
	}
	for _, c := range []byte{0, '\r', '\n', 0x7f, 0x80, 0xff} {
		if grammar.IsTokenChar(c) {
			t.Errorf("grammar.IsTokenChar(%q) = true, want false", c)
		}
	}
	if !grammar.IsCtl('\r') || grammar.IsCtl('a') {
		t.Errorf("grammar.IsCtl misclassifies CR or 'a'")
	}
}

func TestSkipWS(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		str   string
		start int
		want  int
	}{
		{"empty", "", 0, 0},
		{"none", "abc", 0, 0},
		{"spaces and tabs", " \t  x", 0, 4},
		{"folded", " \r\n\tx", 0, 4},
		{"folded no space", "\r\nx", 0, 0},
		{"cr at end", " \r\n", 0, 1},
		{"out of range", "  ", 5, 5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := grammar.SkipWS(c.str, c.start); got != c.want {
				t.Errorf("grammar.SkipWS(%q, %d) = %d, want %d", c.str, c.start, got, c.want)
			}
		})
	}
}

func TestTokenLength(t *testing.T) {
	t.Parallel()

	cases := []struct {
		str   string
		start int
		want  int
	}{
		{"", 0, 0},
		{"token", 0, 5},
		{"token rest", 0, 5},
		{"a,b", 2, 1},
		{" token", 0, 0},
		{"abc", 3, 0},
		{"abc", -1, 0},
	}

	for _, c := range cases {
		if got := grammar.TokenLength(c.str, c.start); got != c.want {
			t.Errorf("grammar.TokenLength(%q, %d) = %d, want %d", c.str, c.start, got, c.want)
		}
		if got := grammar.TokenLength([]byte(c.str), c.start); got != c.want {
			t.Errorf("grammar.TokenLength([]byte(%q), %d) = %d, want %d", c.str, c.start, got, c.want)
		}
	}
}

func TestQuotedStringLength(t *testing.T) {
	t.Parallel()

	cases := []struct {
		str   string
		start int
		want  int
	}{
		{`""`, 0, 2},
		{`"abc" rest`, 0, 5},
		{`x"abc"`, 1, 5},
		{`"a\"b"`, 0, 6},
		{`"a\\"b"`, 0, 5},
		{`"abc`, 0, 0},
		{`"abc\"`, 0, 0},
		{`abc`, 0, 0},
		{"\"a\r\n b\"", 0, 7},
		{"\"a\rb\"", 0, 0},
		{"\"a\nb\"", 0, 0},
		{`"a,b;c"`, 0, 7},
	}

	for _, c := range cases {
		if got := grammar.QuotedStringLength(c.str, c.start); got != c.want {
			t.Errorf("grammar.QuotedStringLength(%q, %d) = %d, want %d", c.str, c.start, got, c.want)
		}
	}
}

func TestCommentLength(t *testing.T) {
	t.Parallel()

	cases := []struct {
		str  string
		want int
	}{
		{"()", 2},
		{"(comment) rest", 9},
		{"(a (nested) comment)", 20},
		{"(a \\) b)", 8},
		{`(with "quote)`, 13},
		{"(unbalanced", 0},
		{"(a (b)", 0},
		{"((((()))))", 10},
		{"(((((())))))", 0},
		{"(a\r\n b)", 7},
		{"(a\rb)", 0},
		{"x", 0},
	}

	for _, c := range cases {
		if got := grammar.CommentLength(c.str, 0); got != c.want {
			t.Errorf("grammar.CommentLength(%q, 0) = %d, want %d", c.str, got, c.want)
		}
	}
}

func TestNumberLength(t *testing.T) {
	t.Parallel()

	cases := []struct {
		str          string
		allowDecimal bool
		want         int
	}{
		{"123", false, 3},
		{"123abc", false, 3},
		{"1.5", false, 1},
		{"1.5", true, 3},
		{"1.5.6", true, 3},
		{".5", true, 0},
		{"1.", true, 2},
		{"", true, 0},
		{"abc", false, 0},
	}

	for _, c := range cases {
		if got := grammar.NumberLength(c.str, 0, c.allowDecimal); got != c.want {
			t.Errorf("grammar.NumberLength(%q, 0, %v) = %d, want %d", c.str, c.allowDecimal, got, c.want)
		}
	}
}

func TestNextElemIndex(t *testing.T) {
	t.Parallel()

	cases := []struct {
		str       string
		skipEmpty bool
		wantIdx   int
		wantFound bool
	}{
		{"", true, 0, false},
		{"a", true, 0, false},
		{"  a", false, 2, false},
		{" , ,, a", true, 6, true},
		{" , ,, a", false, 1, false},
		{",", true, 1, true},
	}

	for _, c := range cases {
		idx, found := grammar.NextElemIndex(c.str, 0, c.skipEmpty)
		if idx != c.wantIdx || found != c.wantFound {
			t.Errorf("grammar.NextElemIndex(%q, 0, %v) = (%d, %v), want (%d, %v)",
				c.str, c.skipEmpty, idx, found, c.wantIdx, c.wantFound)
		}
	}
}

func TestParseInt(t *testing.T) {
	t.Parallel()

	cases64 := []struct {
		str    string
		want   int64
		wantOk bool
	}{
		{"0", 0, true},
		{"123", 123, true},
		{"9223372036854775807", 9223372036854775807, true},
		{"9223372036854775808", 0, false},
		{"99999999999999999999", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"", 0, false},
		{"1a", 0, false},
	}
	for _, c := range cases64 {
		got, ok := grammar.ParseInt64(c.str)
		if got != c.want || ok != c.wantOk {
			t.Errorf("grammar.ParseInt64(%q) = (%d, %v), want (%d, %v)", c.str, got, ok, c.want, c.wantOk)
		}
	}

	cases32 := []struct {
		str    string
		want   int32
		wantOk bool
	}{
		{"2147483647", 2147483647, true},
		{"2147483648", 0, false},
		{"00000000001", 0, false},
		{"42", 42, true},
	}
	for _, c := range cases32 {
		got, ok := grammar.ParseInt32(c.str)
		if got != c.want || ok != c.wantOk {
			t.Errorf("grammar.ParseInt32(%q) = (%d, %v), want (%d, %v)", c.str, got, ok, c.want, c.wantOk)
		}
	}
}

func TestQuality(t *testing.T) {
	t.Parallel()

	parseCases := []struct {
		str    string
		want   float64
		wantOk bool
	}{
		{"1", 1, true},
		{"1.0", 1, true},
		{"0.5", 0.5, true},
		{"0.12345", 0.12345, true},
		{"1.5", 0, false},
		{".5", 0, false},
		{"", 0, false},
		{"0.5x", 0, false},
	}
	for _, c := range parseCases {
		got, ok := grammar.ParseQuality(c.str)
		if got != c.want || ok != c.wantOk {
			t.Errorf("grammar.ParseQuality(%q) = (%v, %v), want (%v, %v)", c.str, got, ok, c.want, c.wantOk)
		}
	}

	fmtCases := []struct {
		q    float64
		want string
	}{
		{1, "1.0"},
		{0, "0.0"},
		{0.5, "0.5"},
		{0.12345, "0.123"},
		{0.9999, "1.0"},
		{0.001, "0.001"},
	}
	for _, c := range fmtCases {
		if got := grammar.FormatQuality(c.q); got != c.want {
			t.Errorf("grammar.FormatQuality(%v) = %q, want %q", c.q, got, c.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC)
	cases := []struct {
		name   string
		str    string
		wantOk bool
	}{
		{"rfc1123", "Sun, 06 Nov 1994 08:49:37 GMT", true},
		{"rfc850", "Sunday, 06-Nov-94 08:49:37 GMT", true},
		{"asctime", "Sun Nov  6 08:49:37 1994", true},
		{"surrounding whitespace", "  Sun, 06 Nov 1994 08:49:37 GMT\t", true},
		{"wrong weekday", "Tue, 06 Nov 1994 08:49:37 GMT", true},
		{"garbage", "yesterday", false},
		{"empty", "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, ok := grammar.ParseDate(c.str)
			if ok != c.wantOk {
				t.Fatalf("grammar.ParseDate(%q) ok = %v, want %v", c.str, ok, c.wantOk)
			}
			if ok && !got.Equal(want) {
				t.Errorf("grammar.ParseDate(%q) = %v, want %v", c.str, got, want)
			}
		})
	}

	if got, want := grammar.FormatDate(want.In(time.FixedZone("X", 3600))), "Sun, 06 Nov 1994 08:49:37 GMT"; got != want {
		t.Errorf("grammar.FormatDate(...) = %q, want %q", got, want)
	}
}
