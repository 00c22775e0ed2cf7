package errorutil_test

import (
	"errors"
	"testing"

	"github.com/ghettovoice/httphdr/internal/errorutil"
)

const errSentinel errorutil.Error = "sentinel"

func TestNewWrapperError(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	cases := []struct {
		name    string
		args    []any
		wantMsg string
		wantIs  []error
	}{
		{"no args", nil, "sentinel", []error{errSentinel}},
		{"error", []any{cause}, "sentinel: cause", []error{errSentinel, cause}},
		{"already wrapped", []any{errSentinel}, "sentinel", []error{errSentinel}},
		{"message", []any{"bad input"}, "sentinel: bad input", []error{errSentinel}},
		{"format", []any{"bad %q at %d", "x", 3}, `sentinel: bad "x" at 3`, []error{errSentinel}},
		{"unknown arg", []any{42}, "sentinel", []error{errSentinel}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			err := errorutil.NewWrapperError(errSentinel, c.args...)
			if got := err.Error(); got != c.wantMsg {
				t.Errorf("err.Error() = %q, want %q", got, c.wantMsg)
			}
			for _, target := range c.wantIs {
				if !errors.Is(err, target) {
					t.Errorf("errors.Is(err, %v) = false, want true", target)
				}
			}
		})
	}
}

func TestNewInvalidArgumentError(t *testing.T) {
	t.Parallel()

	err := errorutil.NewInvalidArgumentError(errSentinel)
	if !errors.Is(err, errorutil.ErrInvalidArgument) || !errors.Is(err, errSentinel) {
		t.Errorf("errorutil.NewInvalidArgumentError(errSentinel) = %v, want to match both sentinels", err)
	}
}
