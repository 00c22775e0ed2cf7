package header_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httphdr/header"
)

func TestRegistry_ParseValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		header       string
		input        string
		want         []string
		wantConsumed int
		wantErr      error
	}{
		{"content length zero", "content-length", "0", []string{"0"}, 1, nil},
		{"case insensitive name", "ACCEPT-ENCODING", "gzip, br;q=0.5", []string{"gzip", "br; q=0.5"}, 14, nil},
		{"partial list", "Accept", "text/html, bad/, */*", []string{"text/html"}, 11, nil},
		{"empty list", "Allow", "", nil, 0, nil},
		{"only separators", "Vary", " , ,", nil, 4, nil},
		{"malformed first element", "If-Match", "tag, \"a\"", nil, 0, header.ErrInvalidFormat},
		{"malformed single", "Content-Length", "12 bytes", nil, 0, header.ErrInvalidFormat},
		{"single with list", "Content-Type", "text/html, text/plain", nil, 0, header.ErrInvalidFormat},
		{"etag", "ETag", `W/"v1"`, []string{`W/"v1"`}, 6, nil},
		{"te", "te", "trailers, deflate;q=0.5", []string{"trailers", "deflate; q=0.5"}, 23, nil},
		{"unknown", "X-Unknown", "a", nil, 0, header.ErrUnknownHeader},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			values, consumed, err := header.ParseValues(c.header, c.input)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("header.ParseValues(%q, %q) error = %v, want %v\ndiff (-got +want):\n%v",
					c.header, c.input, err, c.wantErr, diff)
			}
			if consumed != c.wantConsumed {
				t.Errorf("header.ParseValues(%q, %q) consumed = %d, want %d", c.header, c.input, consumed, c.wantConsumed)
			}
			var got []string
			for _, v := range values {
				got = append(got, fmt.Sprint(v))
			}
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("header.ParseValues(%q, %q) = %v, want %v\ndiff (-got +want):\n%v",
					c.header, c.input, got, c.want, diff)
			}
		})
	}
}

func TestNewRegistry_Options(t *testing.T) {
	t.Parallel()

	r := header.NewRegistry(&header.RegistryOptions{
		Parsers: map[string]header.ValueParser{
			"x-tags":         header.TokenListParser,
			"content-length": nil,
		},
	})

	if _, ok := r.Parser("X-Tags"); !ok {
		t.Errorf("r.Parser(X-Tags) ok = false, want true")
	}
	if _, ok := r.Parser("Content-Length"); ok {
		t.Errorf("r.Parser(Content-Length) ok = true, want false")
	}
	if _, ok := header.DefaultRegistry.Parser("Content-Length"); !ok {
		t.Errorf("options must not change the default registry")
	}
	if !slices.Contains(slices.Collect(r.Names()), "X-Tags") {
		t.Errorf("r.Names() must contain X-Tags")
	}

	values, _, err := r.ParseValues("x-tags", "a, b")
	if err != nil || len(values) != 2 {
		t.Errorf("r.ParseValues(x-tags) = (%v, %v), want 2 values", values, err)
	}
	if _, _, err := r.ParseValues("content-length", "1"); !cmp.Equal(err, header.ErrUnknownHeader, cmpopts.EquateErrors()) {
		t.Errorf("r.ParseValues(content-length) error = %v, want %v", err, header.ErrUnknownHeader)
	}
}

func TestRegistry_Log(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := header.NewRegistry(&header.RegistryOptions{
		Log: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})

	values, consumed, err := r.ParseValues("Accept-Language", "da, en-gb;q=2")
	if err != nil || len(values) != 1 || consumed != 4 {
		t.Fatalf("r.ParseValues() = (%v, %d, %v), want 1 value and 4 consumed", values, consumed, err)
	}
	if out := buf.String(); !strings.Contains(out, "malformed header list tail") || !strings.Contains(out, "Accept-Language") {
		t.Errorf("log output = %q, want a debug record about the list tail", out)
	}
}
