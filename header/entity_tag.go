package header

import (
	"fmt"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// EntityTag is an opaque validator: a quoted-string with an optional weak "W/" prefix,
// or the wildcard "*" ([AnyEntityTag]).
type EntityTag struct {
	tag  string
	weak bool
}

// AnyEntityTag is the "*" wildcard entity tag.
var AnyEntityTag = &EntityTag{tag: "*"}

// NewEntityTag creates an entity tag. tag must be a quoted-string including its quotes.
func NewEntityTag(tag string, weak bool) (*EntityTag, error) {
	if tag == "" {
		return nil, errtrace.Wrap(newMissingValueError("entity tag"))
	}
	if !grammar.IsQuoted(tag) {
		return nil, errtrace.Wrap(newInvalidValueError("entity tag %q is not a quoted string", tag))
	}
	return &EntityTag{tag: tag, weak: weak}, nil
}

// Tag returns the quoted tag, or "*" for the wildcard.
func (tag *EntityTag) Tag() string {
	if tag == nil {
		return ""
	}
	return tag.tag
}

func (tag *EntityTag) IsWeak() bool { return tag != nil && tag.weak }

// IsAny reports whether tag is the "*" wildcard.
func (tag *EntityTag) IsAny() bool { return tag != nil && tag.tag == "*" }

func (tag *EntityTag) RenderTo(w io.Writer) (int, error) {
	if tag == nil {
		return 0, nil
	}
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	if tag.weak {
		cw.WriteString("W/")
	}
	cw.WriteString(tag.tag)
	return errtrace.Wrap2(cw.Result())
}

func (tag *EntityTag) String() string {
	if tag == nil {
		return ""
	}
	return renderString(tag)
}

func (tag *EntityTag) Format(f fmt.State, verb rune) {
	type hideMethods EntityTag
	type EntityTag hideMethods
	formatValue(f, verb, tag.String(), (*EntityTag)(tag))
}

// Equal compares tags ordinally, together with the weak flag.
func (tag *EntityTag) Equal(val any) bool {
	var other *EntityTag
	switch v := val.(type) {
	case EntityTag:
		other = &v
	case *EntityTag:
		other = v
	default:
		return false
	}

	if tag == other {
		return true
	} else if tag == nil || other == nil {
		return false
	}
	return tag.weak == other.weak && tag.tag == other.tag
}

func (tag *EntityTag) Hash() uint64 {
	if tag == nil {
		return 0
	}
	var w uint64
	if tag.weak {
		w = 1
	}
	return util.HashCombine(util.HashString(tag.tag), w)
}

// Clone returns a copy of tag. The wildcard is returned as is.
func (tag *EntityTag) Clone() *EntityTag {
	if tag == nil || tag == AnyEntityTag {
		return tag
	}
	tag2 := *tag
	return &tag2
}

func (tag *EntityTag) MarshalText() ([]byte, error) { return []byte(tag.String()), nil }

// UnmarshalText parses data into tag. The shared [AnyEntityTag] cannot be a target.
func (tag *EntityTag) UnmarshalText(data []byte) error {
	if tag == AnyEntityTag {
		return newInvalidValueError("cannot unmarshal into the wildcard entity tag") //errtrace:skip
	}
	v, err := ParseEntityTag(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*tag = *v
	return nil
}

// EntityTagLength scans an entity tag at start, including trailing whitespace.
func EntityTagLength(input string, start int) (int, *EntityTag) {
	if start < 0 || start >= len(input) {
		return 0, nil
	}

	if input[start] == '*' {
		return grammar.SkipWS(input, start+1) - start, AnyEntityTag
	}

	cur := start
	weak := false
	if input[cur] == 'W' || input[cur] == 'w' {
		if cur+2 >= len(input) || input[cur+1] != '/' {
			return 0, nil
		}
		weak = true
		cur = grammar.SkipWS(input, cur+2)
	}

	n := grammar.QuotedStringLength(input, cur)
	if n == 0 {
		return 0, nil
	}
	tag := &EntityTag{tag: input[cur : cur+n], weak: weak}
	cur = grammar.SkipWS(input, cur+n)
	return cur - start, tag
}

var (
	// EntityTagParser parses the single entity tag of the ETag header.
	EntityTagParser = NewSingleParser(EntityTagLength, nil)
	// EntityTagListParser parses If-Match and If-None-Match lists.
	EntityTagListParser = NewListParser(EntityTagLength, nil)
)

// ParseEntityTag parses s as a single entity tag.
func ParseEntityTag(s string) (*EntityTag, error) {
	return errtrace.Wrap2(parseWhole(EntityTagLength, s))
}

func TryParseEntityTag(s string) (*EntityTag, bool) { return tryParseWhole(EntityTagLength, s) }
