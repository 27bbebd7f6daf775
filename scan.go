package tagline

import "strings"

// asciiSpace reports whether c is an ASCII whitespace byte. The parser is
// deliberately not Unicode-aware here: tag boundaries follow ASCII
// semantics only.
func asciiSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// scanQuoted extracts a double-quoted span starting at start, which must
// point at a '"'. It returns the un-escaped content and the offset just
// past the closing quote. Only \" and \\ are escapes; a backslash before
// any other byte (or at end of input) is kept literally. An unterminated
// quote reports ok=false and the caller drops the whole candidate.
func scanQuoted(s string, start int) (content string, next int, ok bool) {
	if start >= len(s) || s[start] != '"' {
		return "", start, false
	}
	var b strings.Builder
	i := start + 1
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\':
			if i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
				b.WriteByte(s[i+1])
				i += 2
				continue
			}
			// Lone backslash: not an escape, keep it.
			b.WriteByte(c)
			i++
		case c == '"':
			return b.String(), i + 1, true
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", start, false
}

// scanToken extracts an unquoted run starting at start, stopping before
// ASCII whitespace, any byte in stops, or end of input. It always
// succeeds; an empty token means the scan started on a boundary.
func scanToken(s string, start int, stops string) (tok string, next int) {
	i := start
	for i < len(s) {
		c := s[i]
		if asciiSpace(c) || strings.IndexByte(stops, c) >= 0 {
			break
		}
		i++
	}
	return s[start:i], i
}

// escapedAt reports whether position i in s is preceded by an odd number
// of consecutive backslashes.
func escapedAt(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
