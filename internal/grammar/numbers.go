package grammar

import (
	"math"
	"strconv"
	"strings"
)

const (
	// MaxInt32Digits is the digit count of math.MaxInt32.
	MaxInt32Digits = 10
	// MaxInt64Digits is the digit count of math.MaxInt64.
	MaxInt64Digits = 19
)

// ParseInt32 parses an unsigned decimal digit run into a non-negative int32.
// Signs, empty input and values above math.MaxInt32 are rejected.
func ParseInt32[T Byteseq](s T) (int32, bool) {
	v, ok := parseDigits(s, MaxInt32Digits, 32)
	return int32(v), ok
}

// ParseInt64 parses an unsigned decimal digit run into a non-negative int64.
// Signs, empty input and values above math.MaxInt64 are rejected.
func ParseInt64[T Byteseq](s T) (int64, bool) {
	return parseDigits(s, MaxInt64Digits, 64)
}

func parseDigits[T Byteseq](s T, maxDigits, bitSize int) (int64, bool) {
	if len(s) == 0 || len(s) > maxDigits {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseInt(string(s), 10, bitSize)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseQuality parses a qvalue in the range [0, 1].
// More than three fractional digits are tolerated.
func ParseQuality[T Byteseq](s T) (float64, bool) {
	if len(s) == 0 || NumberLength(s, 0, true) != len(s) {
		return 0, false
	}
	q, err := strconv.ParseFloat(string(s), 64)
	if err != nil || q < 0 || q > 1 {
		return 0, false
	}
	return q, true
}

// FormatQuality renders q rounded to three decimals, keeping at least one
// fractional digit: 1 -> "1.0", 0.5 -> "0.5", 0.12345 -> "0.123".
func FormatQuality(q float64) string {
	s := strconv.FormatFloat(math.Round(q*1000)/1000, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
