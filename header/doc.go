// Package header implements strict parsers and value types for HTTP/1.1 header field values
// as defined by RFC 2616.
//
// Every value type has a scanning function of the form
//
//	func XLength(input string, start int) (int, *X)
//
// that reports how many bytes of input starting at start form a valid X, or 0.
// Scanners never return errors and never skip leading whitespace. They are lifted
// into [ValueParser] implementations with [NewSingleParser] and [NewListParser],
// which add the comma separated list rules shared by most headers:
//
//	v, next, ok := header.EntityTagListParser.TryParse(`"a", W/"b"`, 0)
//
// Value types are built either by parsing or through validating constructors, so a
// value always renders back to a string its own parser accepts. Equality follows the
// header rules: tokens compare case-insensitively, quoted strings ordinally and
// nested parameter lists as unordered sets. Hash is consistent with Equal.
//
// A [Registry] maps header names to parsers. [DefaultRegistry] covers the request
// and response headers of RFC 2616 that have a structured value.
package header
