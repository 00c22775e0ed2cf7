package grammar

// MaxCommentNesting limits how deep parenthesized comments may nest.
const MaxCommentNesting = 5

// SkipWS advances i over linear whitespace: SP, HT and folded CRLF followed by SP or HT.
// It returns i unchanged when there is no whitespace at i.
func SkipWS[T Byteseq](s T, i int) int {
	for i < len(s) {
		switch c := s[i]; {
		case c == ' ' || c == '\t':
			i++
		case c == '\r' && isFold(s, i):
			i += 3
		default:
			return i
		}
	}
	return i
}

// WhitespaceLength returns the length of the linear whitespace run at start.
func WhitespaceLength[T Byteseq](s T, start int) int {
	if start < 0 || start >= len(s) {
		return 0
	}
	return SkipWS(s, start) - start
}

func isFold[T Byteseq](s T, i int) bool {
	return i+2 < len(s) && s[i] == '\r' && s[i+1] == '\n' && (s[i+2] == ' ' || s[i+2] == '\t')
}

// TokenLength returns the length of the maximal token run at start.
func TokenLength[T Byteseq](s T, start int) int {
	if start < 0 || start >= len(s) {
		return 0
	}
	i := start
	for i < len(s) && IsTokenChar(s[i]) {
		i++
	}
	return i - start
}

// QuotedStringLength returns the length of the quoted-string at start,
// including both quotes. It returns 0 if s[start] is not a quote or the
// string is not terminated.
func QuotedStringLength[T Byteseq](s T, start int) int {
	if start < 0 || start >= len(s) || s[start] != '"' {
		return 0
	}
	for i := start + 1; i < len(s); {
		n := quotedTextLength(s, i)
		if n == 0 {
			if s[i] == '"' {
				return i - start + 1
			}
			return 0
		}
		i += n
	}
	return 0
}

// CommentLength returns the length of the parenthesized comment at start.
// Comments may nest up to MaxCommentNesting levels.
func CommentLength[T Byteseq](s T, start int) int {
	if start < 0 || start >= len(s) || s[start] != '(' {
		return 0
	}
	depth := 1
	for i := start + 1; i < len(s); {
		switch s[i] {
		case '(':
			if depth == MaxCommentNesting {
				return 0
			}
			depth++
			i++
			continue
		case ')':
			depth--
			i++
			if depth == 0 {
				return i - start
			}
			continue
		case '"':
			i++
			continue
		}
		n := quotedTextLength(s, i)
		if n == 0 {
			return 0
		}
		i += n
	}
	return 0
}

// quotedTextLength returns the length of one unit of quoted text at i:
// a plain character, a quoted pair or a folded line break.
// It returns 0 for a closing quote, a bare CR/LF or a dangling backslash.
func quotedTextLength[T Byteseq](s T, i int) int {
	switch c := s[i]; c {
	case '"':
		return 0
	case '\\':
		if i+1 >= len(s) || s[i+1] == '\r' || s[i+1] == '\n' {
			return 0
		}
		return 2
	case '\r':
		if isFold(s, i) {
			return 3
		}
		return 0
	case '\n':
		return 0
	default:
		return 1
	}
}

// NumberLength returns the length of the digit run at start.
// With allowDecimal a single '.' is accepted after the first digit.
func NumberLength[T Byteseq](s T, start int, allowDecimal bool) int {
	if start < 0 || start >= len(s) || s[start] == '.' {
		return 0
	}
	haveDot := !allowDecimal
	i := start
	for i < len(s) {
		c := s[i]
		if c >= '0' && c <= '9' {
			i++
			continue
		}
		if c == '.' && !haveDot {
			haveDot = true
			i++
			continue
		}
		break
	}
	return i - start
}

// ValueLength returns the length of a parameter value at start,
// which is either a token or a quoted-string.
func ValueLength[T Byteseq](s T, start int) int {
	if n := TokenLength(s, start); n > 0 {
		return n
	}
	return QuotedStringLength(s, start)
}

// NextElemIndex skips whitespace and, if skipEmpty is set, any run of empty
// list elements delimited by commas. found reports whether a comma was skipped.
func NextElemIndex[T Byteseq](s T, i int, skipEmpty bool) (next int, found bool) {
	i = SkipWS(s, i)
	if !skipEmpty {
		return i, false
	}
	for i < len(s) && s[i] == ',' {
		found = true
		i = SkipWS(s, i+1)
	}
	return i, found
}
