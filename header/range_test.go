package header_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httphdr/header"
)

func TestNewRangeItem(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		from, to *int64
		want     string
		wantErr  error
	}{
		{"full", header.Int64(0), header.Int64(499), "0-499", nil},
		{"open end", header.Int64(9500), nil, "9500-", nil},
		{"suffix", nil, header.Int64(500), "-500", nil},
		{"single byte", header.Int64(7), header.Int64(7), "7-7", nil},
		{"no bounds", nil, nil, "", header.ErrMissingValue},
		{"from after to", header.Int64(5), header.Int64(1), "", header.ErrOutOfRange},
		{"negative from", header.Int64(-1), nil, "", header.ErrOutOfRange},
		{"negative to", nil, header.Int64(-1), "", header.ErrOutOfRange},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.NewRangeItem(c.from, c.to)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("header.NewRangeItem() error = %v, want %v\ndiff (-got +want):\n%v", err, c.wantErr, diff)
			}
			if c.wantErr != nil && !cmp.Equal(err, header.ErrInvalidArgument, cmpopts.EquateErrors()) {
				t.Errorf("header.NewRangeItem() error = %v, want it to match %v", err, header.ErrInvalidArgument)
			}
			if got.String() != c.want {
				t.Errorf("header.NewRangeItem() = %q, want %q", got.String(), c.want)
			}
		})
	}
}

func TestRangeItemLength(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		input   string
		wantLen int
		want    string
	}{
		{"full", "1-2", 3, "1-2"},
		{"whitespace", "1 - 2 ,", 6, "1-2"},
		{"open end", "10-", 3, "10-"},
		{"suffix", "-10", 3, "-10"},
		{"max int64", "9223372036854775807-", 20, "9223372036854775807-"},
		{"overflow 19 digits", "9223372036854775808-", 0, ""},
		{"overflow 20 digits", "10000000000000000000-", 0, ""},
		{"from after to", "5-1", 0, ""},
		{"dash only", "-", 0, ""},
		{"no dash", "12", 0, ""},
		{"negative", "--1", 0, ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			n, got := header.RangeItemLength(c.input, 0)
			if n != c.wantLen {
				t.Fatalf("header.RangeItemLength(%q, 0) = %d, want %d", c.input, n, c.wantLen)
			}
			if got.String() != c.want {
				t.Errorf("header.RangeItemLength(%q, 0) value = %q, want %q", c.input, got.String(), c.want)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"single", "bytes=0-499", "bytes=0-499", nil},
		{"list", "bytes=0-1, 5-, -3", "bytes=0-1, 5-, -3", nil},
		{"whitespace and empty elements", " bytes = ,0-1,, 2-3 , ", "bytes=0-1, 2-3", nil},
		{"custom unit", "items=1-2", "items=1-2", nil},
		{"no ranges", "bytes=", "", header.ErrInvalidFormat},
		{"only commas", "bytes=,,", "", header.ErrInvalidFormat},
		{"missing separator", "bytes=1-2 3-4", "", header.ErrInvalidFormat},
		{"missing equals", "bytes 1-2", "", header.ErrInvalidFormat},
		{"bad item", "bytes=1-2, x", "", header.ErrInvalidFormat},
		{"empty", "", "", header.ErrInvalidFormat},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.ParseRange(c.input)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("header.ParseRange(%q) error = %v, want %v\ndiff (-got +want):\n%v", c.input, err, c.wantErr, diff)
			}
			if got.String() != c.want {
				t.Errorf("header.ParseRange(%q) = %q, want %q", c.input, got.String(), c.want)
			}
			if got == nil {
				return
			}
			back, err := header.ParseRange(got.String())
			if err != nil || !back.Equal(got) {
				t.Errorf("header.ParseRange(%q) = (%v, %v), want %v", got.String(), back, err, got)
			}
		})
	}
}

func TestRange_Equal(t *testing.T) {
	t.Parallel()

	r1 := must(header.NewRange(header.Int64(1), header.Int64(2)))
	if err := r1.Ranges().Add(must(header.NewRangeItem(header.Int64(3), header.Int64(4)))); err != nil {
		t.Fatalf("r1.Ranges().Add() error = %v, want nil", err)
	}
	r2 := must(header.NewRangeUnit("BYTES"))
	if err := r2.Ranges().Add(
		must(header.NewRangeItem(header.Int64(3), header.Int64(4))),
		must(header.NewRangeItem(header.Int64(1), header.Int64(2))),
	); err != nil {
		t.Fatalf("r2.Ranges().Add() error = %v, want nil", err)
	}

	if !r1.Equal(r2) {
		t.Errorf("%v must equal %v", r1, r2)
	}
	if r1.Hash() != r2.Hash() {
		t.Errorf("equal ranges must have equal hashes")
	}

	r3 := r2.Clone()
	if err := r3.Ranges().Add(must(header.NewRangeItem(nil, header.Int64(1)))); err != nil {
		t.Fatalf("r3.Ranges().Add() error = %v, want nil", err)
	}
	if r3.Equal(r2) {
		t.Errorf("%v must not equal %v", r3, r2)
	}
	if r2.Ranges().Len() != 2 {
		t.Errorf("r2.Clone() must not share ranges")
	}

	if err := r3.Ranges().Add(nil); err == nil {
		t.Errorf("r3.Ranges().Add(nil) error = nil, want error")
	}
	if err := r3.SetUnit(""); err == nil {
		t.Errorf("r3.SetUnit(\"\") error = nil, want error")
	}
}

func TestNewContentRange(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name             string
		from, to, length int64
		want             string
		wantErr          error
	}{
		{"valid", 0, 499, 1234, "bytes 0-499/1234", nil},
		{"to equals length", 0, 10, 10, "bytes 0-10/10", nil},
		{"to after length", 1, 2, 1, "", header.ErrOutOfRange},
		{"from after to", 3, 2, 10, "", header.ErrOutOfRange},
		{"negative from", -1, 2, 10, "", header.ErrOutOfRange},
		{"negative length", 0, 0, -1, "", header.ErrOutOfRange},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.NewContentRange(c.from, c.to, c.length)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("header.NewContentRange(%d, %d, %d) error = %v, want %v\ndiff (-got +want):\n%v",
					c.from, c.to, c.length, err, c.wantErr, diff)
			}
			if got.String() != c.want {
				t.Errorf("header.NewContentRange(%d, %d, %d) = %q, want %q", c.from, c.to, c.length, got.String(), c.want)
			}
		})
	}

	if got := must(header.NewContentRangeLength(42)).String(); got != "bytes */42" {
		t.Errorf("header.NewContentRangeLength(42) = %q, want %q", got, "bytes */42")
	}
	if got := must(header.NewContentRangeSpan(1, 2)).String(); got != "bytes 1-2/*" {
		t.Errorf("header.NewContentRangeSpan(1, 2) = %q, want %q", got, "bytes 1-2/*")
	}
}

func TestParseContentRange(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"full", "bytes 0-499/1234", "bytes 0-499/1234", nil},
		{"whitespace", " bytes  0 - 499 / 1234 ", "bytes 0-499/1234", nil},
		{"unknown length", "bytes 1-2/*", "bytes 1-2/*", nil},
		{"unsatisfied", "bytes */1234", "bytes */1234", nil},
		{"both unknown", "bytes */*", "bytes */*", nil},
		{"custom unit", "pages 1-2/3", "pages 1-2/3", nil},
		{"no space after unit", "bytes*/1", "", header.ErrInvalidFormat},
		{"to after length", "bytes 1-2/1", "", header.ErrInvalidFormat},
		{"from after to", "bytes 3-2/5", "", header.ErrInvalidFormat},
		{"missing to", "bytes 1-/5", "", header.ErrInvalidFormat},
		{"overflow", "bytes 0-1/9223372036854775808", "", header.ErrInvalidFormat},
		{"trailing garbage", "bytes 0-1/2 x", "", header.ErrInvalidFormat},
		{"missing length", "bytes 0-1/", "", header.ErrInvalidFormat},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.ParseContentRange(c.input)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("header.ParseContentRange(%q) error = %v, want %v\ndiff (-got +want):\n%v",
					c.input, err, c.wantErr, diff)
			}
			if got.String() != c.want {
				t.Errorf("header.ParseContentRange(%q) = %q, want %q", c.input, got.String(), c.want)
			}
		})
	}
}

func TestContentRange_Equal(t *testing.T) {
	t.Parallel()

	cr1 := must(header.ParseContentRange("BYTES 1-2/3"))
	cr2 := must(header.NewContentRange(1, 2, 3))
	if !cr1.Equal(cr2) || cr1.Hash() != cr2.Hash() {
		t.Errorf("%v must equal %v with the same hash", cr1, cr2)
	}
	if cr1.Equal(must(header.NewContentRangeSpan(1, 2))) {
		t.Errorf("known length must not equal unknown length")
	}

	clone := cr1.Clone()
	if err := clone.SetUnit("items"); err != nil {
		t.Fatalf("clone.SetUnit() error = %v, want nil", err)
	}
	if cr1.Unit() != "BYTES" {
		t.Errorf("cr1.Clone() must be independent")
	}
	from, to, ok := clone.Range()
	if !ok || from != 1 || to != 2 {
		t.Errorf("clone.Range() = (%d, %d, %v), want (1, 2, true)", from, to, ok)
	}
}
