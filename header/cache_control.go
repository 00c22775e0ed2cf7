package header

import (
	"fmt"
	"io"
	"strings"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

const (
	ccNoCache         = "no-cache"
	ccNoStore         = "no-store"
	ccMaxAge          = "max-age"
	ccSharedMaxAge    = "s-maxage"
	ccMaxStale        = "max-stale"
	ccMinFresh        = "min-fresh"
	ccNoTransform     = "no-transform"
	ccOnlyIfCached    = "only-if-cached"
	ccPublic          = "public"
	ccPrivate         = "private"
	ccMustRevalidate  = "must-revalidate"
	ccProxyRevalidate = "proxy-revalidate"
)

// CacheControl is the folded set of Cache-Control directives.
// Directives that are not known are kept in [CacheControl.Extensions].
type CacheControl struct {
	NoCache         bool
	NoStore         bool
	NoTransform     bool
	OnlyIfCached    bool
	Public          bool
	Private         bool
	MustRevalidate  bool
	ProxyRevalidate bool
	// MaxStale is set by a bare max-stale directive. MaxStaleLimit holds its optional delta.
	MaxStale      bool
	MaxStaleLimit *time.Duration
	MaxAge        *time.Duration
	SharedMaxAge  *time.Duration
	MinFresh      *time.Duration

	noCacheHeaders *Collection[string]
	privateHeaders *Collection[string]
	extensions     *Collection[*NameValue]
}

// Seconds returns a pointer to d truncated to whole seconds, for the delta fields.
func Seconds(d time.Duration) *time.Duration {
	d = d.Truncate(time.Second)
	return &d
}

func newHeaderNames() *Collection[string] {
	return NewCollection(func(s string) error { return checkToken("header name", s) })
}

// NoCacheHeaders returns the field names listed by no-cache="...".
func (cc *CacheControl) NoCacheHeaders() *Collection[string] {
	if cc.noCacheHeaders == nil {
		cc.noCacheHeaders = newHeaderNames()
	}
	return cc.noCacheHeaders
}

// PrivateHeaders returns the field names listed by private="...".
func (cc *CacheControl) PrivateHeaders() *Collection[string] {
	if cc.privateHeaders == nil {
		cc.privateHeaders = newHeaderNames()
	}
	return cc.privateHeaders
}

// Extensions returns the directives that have no dedicated field.
func (cc *CacheControl) Extensions() *Collection[*NameValue] {
	if cc.extensions == nil {
		cc.extensions = newParams()
	}
	return cc.extensions
}

func (cc *CacheControl) RenderTo(w io.Writer) (int, error) {
	if cc == nil {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	first := true
	next := func() {
		if !first {
			cw.WriteString(", ")
		}
		first = false
	}
	flag := func(set bool, name string) {
		if set {
			next()
			cw.WriteString(name)
		}
	}
	delta := func(d *time.Duration, name string) {
		if d != nil {
			next()
			cw.WriteString(name, "=").WriteInt(int64(*d / time.Second))
		}
	}
	names := func(set bool, name string, list *Collection[string]) {
		if !set {
			return
		}
		next()
		cw.WriteString(name)
		if list.Len() > 0 {
			cw.WriteString("=\"", strings.Join(list.Items(), ", "), "\"")
		}
	}

	flag(cc.NoStore, ccNoStore)
	flag(cc.NoTransform, ccNoTransform)
	flag(cc.OnlyIfCached, ccOnlyIfCached)
	flag(cc.Public, ccPublic)
	flag(cc.MustRevalidate, ccMustRevalidate)
	flag(cc.ProxyRevalidate, ccProxyRevalidate)
	names(cc.NoCache, ccNoCache, cc.noCacheHeaders)
	delta(cc.MaxAge, ccMaxAge)
	delta(cc.SharedMaxAge, ccSharedMaxAge)
	if cc.MaxStale {
		next()
		cw.WriteString(ccMaxStale)
		if cc.MaxStaleLimit != nil {
			cw.WriteString("=").WriteInt(int64(*cc.MaxStaleLimit / time.Second))
		}
	}
	delta(cc.MinFresh, ccMinFresh)
	names(cc.Private, ccPrivate, cc.privateHeaders)
	for _, ext := range cc.extensions.All() {
		next()
		cw.Call(ext.RenderTo)
	}
	return errtrace.Wrap2(cw.Result())
}

func (cc *CacheControl) String() string {
	if cc == nil {
		return ""
	}
	return renderString(cc)
}

func (cc *CacheControl) Format(f fmt.State, verb rune) {
	type hideMethods CacheControl
	type CacheControl hideMethods
	formatValue(f, verb, cc.String(), (*CacheControl)(cc))
}

// Equal compares all directives. Header name lists compare case-insensitively
// and, like extensions, ignore order.
func (cc *CacheControl) Equal(val any) bool {
	var other *CacheControl
	switch v := val.(type) {
	case CacheControl:
		other = &v
	case *CacheControl:
		other = v
	default:
		return false
	}

	if cc == other {
		return true
	} else if cc == nil || other == nil {
		return false
	}
	return cc.NoCache == other.NoCache &&
		cc.NoStore == other.NoStore &&
		cc.NoTransform == other.NoTransform &&
		cc.OnlyIfCached == other.OnlyIfCached &&
		cc.Public == other.Public &&
		cc.Private == other.Private &&
		cc.MustRevalidate == other.MustRevalidate &&
		cc.ProxyRevalidate == other.ProxyRevalidate &&
		cc.MaxStale == other.MaxStale &&
		equalDelta(cc.MaxStaleLimit, other.MaxStaleLimit) &&
		equalDelta(cc.MaxAge, other.MaxAge) &&
		equalDelta(cc.SharedMaxAge, other.SharedMaxAge) &&
		equalDelta(cc.MinFresh, other.MinFresh) &&
		equalUnordered(cc.noCacheHeaders.Items(), other.noCacheHeaders.Items(), util.EqFold[string, string]) &&
		equalUnordered(cc.privateHeaders.Items(), other.privateHeaders.Items(), util.EqFold[string, string]) &&
		cc.extensions.Equal(other.extensions)
}

func equalDelta(d1, d2 *time.Duration) bool {
	if d1 == nil || d2 == nil {
		return d1 == d2
	}
	return *d1 == *d2
}

func (cc *CacheControl) Hash() uint64 {
	if cc == nil {
		return 0
	}
	var flags uint64
	for i, set := range []bool{
		cc.NoCache, cc.NoStore, cc.NoTransform, cc.OnlyIfCached, cc.Public,
		cc.Private, cc.MustRevalidate, cc.ProxyRevalidate, cc.MaxStale,
	} {
		if set {
			flags |= 1 << i
		}
	}
	hashDelta := func(d *time.Duration) uint64 {
		if d == nil {
			return ^uint64(0)
		}
		return uint64(*d) //nolint:gosec
	}
	hashNames := func(list *Collection[string]) uint64 {
		hs := make([]uint64, 0, list.Len())
		for _, s := range list.All() {
			hs = append(hs, util.HashFold(s))
		}
		return util.HashUnordered(hs...)
	}
	return util.HashCombine(
		flags,
		hashDelta(cc.MaxStaleLimit),
		hashDelta(cc.MaxAge),
		hashDelta(cc.SharedMaxAge),
		hashDelta(cc.MinFresh),
		hashNames(cc.noCacheHeaders),
		hashNames(cc.privateHeaders),
		hashParams(cc.extensions),
	)
}

func (cc *CacheControl) Clone() *CacheControl {
	if cc == nil {
		return nil
	}
	cc2 := *cc
	cloneDelta := func(d *time.Duration) *time.Duration {
		if d == nil {
			return nil
		}
		v := *d
		return &v
	}
	cc2.MaxStaleLimit = cloneDelta(cc.MaxStaleLimit)
	cc2.MaxAge = cloneDelta(cc.MaxAge)
	cc2.SharedMaxAge = cloneDelta(cc.SharedMaxAge)
	cc2.MinFresh = cloneDelta(cc.MinFresh)
	cc2.noCacheHeaders = cc.noCacheHeaders.Clone()
	cc2.privateHeaders = cc.privateHeaders.Clone()
	cc2.extensions = cc.extensions.Clone()
	return &cc2
}

func (cc *CacheControl) MarshalText() ([]byte, error) { return []byte(cc.String()), nil }

func (cc *CacheControl) UnmarshalText(data []byte) error {
	v, err := ParseCacheControl(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*cc = *v
	return nil
}

// CacheControlLength parses the directive list from start to the end of input.
func CacheControlLength(input string, start int) (int, *CacheControl) {
	cc := &CacheControl{}
	if n := cacheControlLength(input, start, cc); n > 0 {
		return n, cc
	}
	return 0, nil
}

// cacheControlLength folds the directives of input[start:] into cc.
// On failure cc is left untouched.
func cacheControlLength(input string, start int, cc *CacheControl) int {
	if start < 0 || start >= len(input) {
		return 0
	}

	var directives []*NameValue
	for cur := start; cur < len(input); {
		nv, next, ok := NameValueListParser.TryParse(input, cur)
		if !ok {
			return 0
		}
		if nv != nil {
			directives = append(directives, nv)
		}
		cur = next
	}

	tmp := cc.Clone()
	for _, nv := range directives {
		if !tmp.apply(nv) {
			return 0
		}
	}
	*cc = *tmp
	return len(input) - start
}

func (cc *CacheControl) apply(nv *NameValue) bool {
	switch strings.ToLower(nv.name) {
	case ccNoStore:
		return setFlag(&cc.NoStore, nv)
	case ccNoTransform:
		return setFlag(&cc.NoTransform, nv)
	case ccOnlyIfCached:
		return setFlag(&cc.OnlyIfCached, nv)
	case ccPublic:
		return setFlag(&cc.Public, nv)
	case ccMustRevalidate:
		return setFlag(&cc.MustRevalidate, nv)
	case ccProxyRevalidate:
		return setFlag(&cc.ProxyRevalidate, nv)
	case ccNoCache:
		return setNames(&cc.NoCache, cc.NoCacheHeaders(), nv)
	case ccPrivate:
		return setNames(&cc.Private, cc.PrivateHeaders(), nv)
	case ccMaxAge:
		return setDelta(&cc.MaxAge, nv)
	case ccSharedMaxAge:
		return setDelta(&cc.SharedMaxAge, nv)
	case ccMinFresh:
		return setDelta(&cc.MinFresh, nv)
	case ccMaxStale:
		cc.MaxStale = true
		if nv.value == "" {
			return true
		}
		return setDelta(&cc.MaxStaleLimit, nv)
	default:
		cc.Extensions().appendUnchecked(nv)
		return true
	}
}

func setFlag(dst *bool, nv *NameValue) bool {
	if nv.value != "" {
		return false
	}
	*dst = true
	return true
}

func setDelta(dst **time.Duration, nv *NameValue) bool {
	secs, ok := grammar.ParseInt32(nv.value)
	if !ok {
		return false
	}
	d := time.Duration(secs) * time.Second
	*dst = &d
	return true
}

// setNames handles a directive that may carry a quoted list of header names.
func setNames(dst *bool, list *Collection[string], nv *NameValue) bool {
	if nv.value == "" {
		*dst = true
		return true
	}
	if !grammar.IsQuoted(nv.value) {
		return false
	}

	s := nv.value[1 : len(nv.value)-1]
	var names []string
	for cur := 0; cur < len(s); {
		name, next, ok := TokenListParser.TryParse(s, cur)
		if !ok {
			return false
		}
		if name != "" {
			names = append(names, name)
		}
		cur = next
	}
	if len(names) == 0 {
		return false
	}
	for _, name := range names {
		list.appendUnchecked(name)
	}
	*dst = true
	return true
}

// CacheControlParser parses the Cache-Control header.
var CacheControlParser = NewListParser(CacheControlLength, nil)

func ParseCacheControl(s string) (*CacheControl, error) {
	cc, _, err := CacheControlParser.Parse(s, 0)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if cc == nil {
		return nil, errtrace.Wrap(newFormatError(s, 0))
	}
	return cc, nil
}

func TryParseCacheControl(s string) (*CacheControl, bool) {
	cc, err := ParseCacheControl(s)
	return cc, err == nil
}

// MergeCacheControl folds the directives of another Cache-Control line into cc.
// Later directives override earlier ones. An empty line is a no-op.
// On error cc is left unchanged.
func MergeCacheControl(cc *CacheControl, s string) error {
	if cc == nil {
		return errtrace.Wrap(newMissingValueError("cache control"))
	}
	start, _ := grammar.NextElemIndex(s, 0, true)
	if start == len(s) {
		return nil
	}
	if cacheControlLength(s, start, cc) == 0 {
		return errtrace.Wrap(newFormatError(s, 0))
	}
	return nil
}
