package header

import (
	"iter"
	"log/slog"
	"maps"
	"net/textproto"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/log"
)

// ErrUnknownHeader is returned when no parser is registered for a header.
const ErrUnknownHeader Error = "unknown header"

// RegistryOptions configures a [Registry].
type RegistryOptions struct {
	// Parsers adds or overrides parsers of the default table, keyed by header name.
	// A nil parser removes the header from the table.
	Parsers map[string]ValueParser
	// Log is used for debug messages about malformed values.
	// If nil, logging is disabled.
	Log *slog.Logger
}

func (o *RegistryOptions) parsers() map[string]ValueParser {
	if o == nil {
		return nil
	}
	return o.Parsers
}

func (o *RegistryOptions) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Noop
	}
	return o.Log
}

// Registry maps header names to value parsers. Names are matched case-insensitively.
// A Registry is safe for concurrent use.
type Registry struct {
	parsers map[string]ValueParser
	log     *slog.Logger
}

// NewRegistry creates a registry with the default parser table,
// customized by opts. opts may be nil.
func NewRegistry(opts *RegistryOptions) *Registry {
	r := &Registry{
		parsers: make(map[string]ValueParser, len(defaultParsers)),
		log:     opts.log(),
	}
	for name, p := range defaultParsers {
		r.parsers[textproto.CanonicalMIMEHeaderKey(name)] = p
	}
	for name, p := range opts.parsers() {
		name = textproto.CanonicalMIMEHeaderKey(name)
		if p == nil {
			delete(r.parsers, name)
			r.log.Debug("header parser removed", slog.String("header", name))
			continue
		}
		r.parsers[name] = p
		r.log.Debug("header parser registered",
			slog.String("header", name),
			slog.Bool("multiple_values", p.SupportsMultipleValues()),
		)
	}
	return r
}

// DefaultRegistry holds the default parser table.
var DefaultRegistry = NewRegistry(nil)

// Parser returns the parser registered for the header name.
func (r *Registry) Parser(name string) (ValueParser, bool) {
	p, ok := r.parsers[textproto.CanonicalMIMEHeaderKey(name)]
	return p, ok
}

// Names iterates over the canonical names of all registered headers.
func (r *Registry) Names() iter.Seq[string] {
	return maps.Keys(r.parsers)
}

// ParseValues parses a raw header value of the named header.
//
// Single-valued headers must be consumed entirely. For list headers parsing stops
// at the first malformed element. The values before it are returned together with
// consumed, the length of the input prefix they were parsed from; the caller decides
// what to do with the rest. An error is returned only if the first element is malformed.
// A list of empty elements yields no values and no error.
func (r *Registry) ParseValues(name, input string) (values []any, consumed int, err error) {
	p, ok := r.Parser(name)
	if !ok {
		return nil, 0, errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownHeader, "%q", name))
	}

	for idx := 0; ; {
		v, next, ok := p.TryParseValue(input, idx)
		if !ok {
			if len(values) == 0 {
				r.log.Debug("failed to parse header value",
					slog.String("header", name),
					slog.Any("input", log.TailValue(input, 128)),
				)
				return nil, idx, errtrace.Wrap(newFormatError(input, idx))
			}
			r.log.Debug("malformed header list tail",
				slog.String("header", name),
				slog.Int("consumed", idx),
				slog.Any("tail", log.TailValue(input[idx:], 128)),
			)
			return values, idx, nil
		}
		if v != nil {
			values = append(values, v)
		}
		if next >= len(input) || next == idx || !p.SupportsMultipleValues() {
			return values, next, nil
		}
		idx = next
	}
}

// ParseValues parses a raw header value with the [DefaultRegistry].
func ParseValues(name, input string) ([]any, int, error) {
	return errtrace.Wrap3(DefaultRegistry.ParseValues(name, input))
}

var defaultParsers = map[string]ValueParser{
	"Accept":              MediaTypeWithQualityListParser,
	"Accept-Charset":      StringWithQualityListParser,
	"Accept-Encoding":     StringWithQualityListParser,
	"Accept-Language":     StringWithQualityListParser,
	"Accept-Ranges":       TokenListParser,
	"Age":                 DeltaSecondsParser,
	"Allow":               TokenListParser,
	"Authorization":       AuthenticationParser,
	"Cache-Control":       CacheControlParser,
	"Connection":          TokenListParser,
	"Content-Encoding":    TokenListParser,
	"Content-Language":    TokenListParser,
	"Content-Length":      Int64Parser,
	"Content-Location":    URIParser,
	"Content-Range":       ContentRangeParser,
	"Content-Type":        MediaTypeParser,
	"Date":                DateParser,
	"ETag":                EntityTagParser,
	"Expect":              NameValueWithParametersListParser,
	"Expires":             DateParser,
	"If-Match":            EntityTagListParser,
	"If-Modified-Since":   DateParser,
	"If-None-Match":       EntityTagListParser,
	"If-Range":            RangeConditionParser,
	"If-Unmodified-Since": DateParser,
	"Last-Modified":       DateParser,
	"Location":            URIParser,
	"Max-Forwards":        Int32Parser,
	"Pragma":              NameValueListParser,
	"Proxy-Authenticate":  AuthenticationListParser,
	"Proxy-Authorization": AuthenticationParser,
	"Range":               RangeParser,
	"Referer":             URIParser,
	"Retry-After":         RetryConditionParser,
	"Server":              ProductInfoListParser,
	"TE":                  TransferCodingWithQualityListParser,
	"Trailer":             TokenListParser,
	"Transfer-Encoding":   TransferCodingListParser,
	"Upgrade":             ProductListParser,
	"User-Agent":          ProductInfoListParser,
	"Vary":                TokenListParser,
	"WWW-Authenticate":    AuthenticationListParser,
}
