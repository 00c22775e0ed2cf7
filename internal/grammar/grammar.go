// Package grammar implements the character classes and scanning primitives
// shared by all HTTP header value grammars (RFC 2616 Section 2.2).
//
// Every XLength function takes an input and a start index and returns the
// number of bytes that form the rule at that position, or 0 when the rule
// does not match. None of them skips leading whitespace.
package grammar

// Byteseq is a string or byte slice input.
type Byteseq interface {
	~string | ~[]byte
}

const (
	cToken uint8 = 1 << iota
	cSeparator
	cWhitespace
	cCtl
)

var octetTypes [256]uint8

func init() {
	for i := range 256 {
		c := byte(i)
		var t uint8
		switch {
		case c == ' ' || c == '\t':
			t = cWhitespace | cSeparator
		case c < 0x20 || c == 0x7f:
			t = cCtl
		case c >= 0x80:
		case isSeparatorByte(c):
			t = cSeparator
		default:
			t = cToken
		}
		octetTypes[c] = t
	}
}

func isSeparatorByte(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=', '{', '}':
		return true
	}
	return false
}

// IsTokenChar reports whether c may appear in a token.
func IsTokenChar(c byte) bool { return octetTypes[c]&cToken != 0 }

// IsSeparator reports whether c is one of the RFC 2616 separators, including SP and HT.
func IsSeparator(c byte) bool { return octetTypes[c]&cSeparator != 0 }

// IsWhitespace reports whether c is SP or HT.
func IsWhitespace(c byte) bool { return octetTypes[c]&cWhitespace != 0 }

// IsCtl reports whether c is a control character.
func IsCtl(c byte) bool { return octetTypes[c]&cCtl != 0 }

// IsToken reports whether the whole s is a non-empty token.
func IsToken[T Byteseq](s T) bool {
	return len(s) > 0 && TokenLength(s, 0) == len(s)
}

// IsQuoted reports whether the whole s is a single quoted-string.
func IsQuoted[T Byteseq](s T) bool {
	return len(s) > 0 && QuotedStringLength(s, 0) == len(s)
}

// IsComment reports whether the whole s is a single comment.
func IsComment[T Byteseq](s T) bool {
	return len(s) > 0 && CommentLength(s, 0) == len(s)
}

// Unquote strips the quotes of a quoted-string and resolves quoted pairs.
// Strings that are not quoted are returned as is.
func Unquote(s string) string {
	if !IsQuoted(s) {
		return s
	}
	s = s[1 : len(s)-1]
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}
