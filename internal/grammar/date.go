package grammar

import (
	"net/http"
	"strings"
	"time"
)

// ParseDate parses an HTTP-date in any of the RFC 1123, RFC 850 or ANSI C
// asctime forms. Surrounding whitespace is ignored. The weekday name is
// checked for syntax only, a weekday that disagrees with the date is accepted.
func ParseDate(s string) (time.Time, bool) {
	s = strings.Trim(s, " \t")
	if s == "" {
		return time.Time{}, false
	}
	t, err := http.ParseTime(s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// FormatDate renders t in the RFC 1123 form in GMT.
func FormatDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}
