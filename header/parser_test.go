package header_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httphdr/header"
)

func TestParser_TryParse_List(t *testing.T) {
	t.Parallel()

	weak := must(header.NewEntityTag(`"b"`, true))
	cases := []struct {
		name     string
		input    string
		index    int
		wantVal  *header.EntityTag
		wantNext int
		wantOk   bool
	}{
		{"empty", "", 0, nil, 0, true},
		{"at end", `"a"`, 3, nil, 3, true},
		{"only separators", " , ,, ", 0, nil, 6, true},
		{"first", `"a", W/"b"`, 0, must(header.NewEntityTag(`"a"`, false)), 5, true},
		{"second", `"a", W/"b"`, 5, weak, 10, true},
		{"leading empty elements", `,, W/"b" ,`, 0, weak, 10, true},
		{"missing separator", `"a" "b"`, 0, nil, 0, false},
		{"malformed", `"a", b`, 5, nil, 5, false},
		{"index out of range", `"a"`, 4, nil, 4, false},
		{"negative index", `"a"`, -1, nil, -1, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, next, ok := header.EntityTagListParser.TryParse(c.input, c.index)
			if ok != c.wantOk {
				t.Fatalf("header.EntityTagListParser.TryParse(%q, %d) ok = %v, want %v", c.input, c.index, ok, c.wantOk)
			}
			if next != c.wantNext {
				t.Errorf("header.EntityTagListParser.TryParse(%q, %d) next = %d, want %d", c.input, c.index, next, c.wantNext)
			}
			if diff := cmp.Diff(got, c.wantVal); diff != "" {
				t.Errorf("header.EntityTagListParser.TryParse(%q, %d) value = %v, want %v\ndiff (-got +want):\n%v",
					c.input, c.index, got, c.wantVal, diff)
			}
		})
	}
}

func TestParser_TryParse_Single(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		wantNext int
		wantOk   bool
	}{
		{"empty", "", 0, false},
		{"whitespace", "  ", 0, false},
		{"value", `"a"`, 3, true},
		{"surrounding whitespace", `  W/"a"  `, 9, true},
		{"list", `"a", "b"`, 0, false},
		{"trailing comma", `"a",`, 0, false},
		{"leading comma", `, "a"`, 0, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			_, next, ok := header.EntityTagParser.TryParse(c.input, 0)
			if ok != c.wantOk || next != c.wantNext {
				t.Errorf("header.EntityTagParser.TryParse(%q, 0) = (%d, %v), want (%d, %v)",
					c.input, next, ok, c.wantNext, c.wantOk)
			}
		})
	}
}

func TestParser_MediaType_SingleAndList(t *testing.T) {
	t.Parallel()

	const input = "text/plain; charset=utf-8, next/mediatype"

	if _, next, ok := header.MediaTypeParser.TryParse(input, 0); ok {
		t.Errorf("header.MediaTypeParser.TryParse(%q, 0) = (%d, true), want failure", input, next)
	}

	got, next, ok := header.MediaTypeListParser.TryParse(input, 0)
	if !ok {
		t.Fatalf("header.MediaTypeListParser.TryParse(%q, 0) failed", input)
	}
	if next != 27 {
		t.Errorf("header.MediaTypeListParser.TryParse(%q, 0) next = %d, want 27", input, next)
	}
	if want := "text/plain; charset=utf-8"; got.String() != want {
		t.Errorf("value = %q, want %q", got.String(), want)
	}

	got, next, ok = header.MediaTypeListParser.TryParse(input, next)
	if !ok || next != len(input) || got.MIMEType() != "next/mediatype" {
		t.Errorf("second value = (%v, %d, %v), want (next/mediatype, %d, true)", got, next, ok, len(input))
	}
}

func TestParser_ParseValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		parser   header.ValueParser
		input    string
		wantVal  any
		wantNext int
		wantErr  error
	}{
		{"valid", header.Int64Parser, " 42 ", int64(42), 4, nil},
		{"zero is a value", header.Int64Parser, "0", int64(0), 1, nil},
		{"invalid", header.Int64Parser, "4x", nil, 0, header.ErrInvalidFormat},
		{"empty single", header.Int64Parser, "", nil, 0, header.ErrInvalidFormat},
		{"empty list", header.TokenListParser, "", nil, 0, nil},
		{"token list", header.TokenListParser, "gzip, br", "gzip", 6, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, next, err := c.parser.ParseValue(c.input, 0)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("parser.ParseValue(%q, 0) error = %v, want %v\ndiff (-got +want):\n%v", c.input, err, c.wantErr, diff)
			}
			if next != c.wantNext {
				t.Errorf("parser.ParseValue(%q, 0) next = %d, want %d", c.input, next, c.wantNext)
			}
			if diff := cmp.Diff(got, c.wantVal); diff != "" {
				t.Errorf("parser.ParseValue(%q, 0) value = %v, want %v\ndiff (-got +want):\n%v", c.input, got, c.wantVal, diff)
			}
		})
	}
}

func TestParser_Comparer(t *testing.T) {
	t.Parallel()

	cmpFn := header.TokenListParser.Comparer()
	if cmpFn == nil {
		t.Fatal("header.TokenListParser.Comparer() = nil, want func")
	}
	if !cmpFn("GZIP", "gzip") {
		t.Errorf("comparer(GZIP, gzip) = false, want true")
	}
	if cmpFn("gzip", 1) {
		t.Errorf("comparer(gzip, 1) = true, want false")
	}
	if header.EntityTagListParser.Comparer() != nil {
		t.Errorf("header.EntityTagListParser.Comparer() != nil, want nil")
	}
}
