package header

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/types"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Value is implemented by all header value types of the package.
type Value interface {
	types.Renderer
	types.Equalable
	types.Hashable
	fmt.Stringer
}

func renderString(r types.Renderer) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	r.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

func formatValue(f fmt.State, verb rune, s string, raw any) {
	switch verb {
	case 's', 'v':
		if verb == 'v' && (f.Flag('+') || f.Flag('#')) {
			fmt.Fprintf(f, fmt.FormatString(f, verb), raw)
			return
		}
		fmt.Fprint(f, s)
	case 'q':
		fmt.Fprint(f, strconv.Quote(s))
	default:
		fmt.Fprintf(f, fmt.FormatString(f, verb), raw)
	}
}

// renderParams writes each parameter as "; name=value".
func renderParams(w io.Writer, params *Collection[*NameValue]) (int, error) {
	if params.Len() == 0 {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for _, p := range params.All() {
		cw.WriteString("; ").Call(p.RenderTo)
	}
	return errtrace.Wrap2(cw.Result())
}

func hashParams(params *Collection[*NameValue]) uint64 {
	hs := make([]uint64, 0, params.Len())
	for _, p := range params.All() {
		hs = append(hs, p.Hash())
	}
	return util.HashUnordered(hs...)
}

func newParams() *Collection[*NameValue] { return NewCollection[*NameValue](nil) }

// Int64 returns a pointer to v, for optional range bounds.
func Int64(v int64) *int64 { return &v }
