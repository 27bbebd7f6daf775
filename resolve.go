package tagline

import "strings"

// resolveTag splits the trimmed content of one delimited tag into its type
// name and raw value. Quoted sides go through scanQuoted; the sole
// tolerated shape without a separator is the bare tag ("[deploy]"), which
// resolves to an untyped value. Anything else malformed fails the tag and
// the extractor skips it.
func (p *Parser) resolveTag(content string) (typeName, raw string, ok bool) {
	pos := 0

	if strings.HasPrefix(content, `"`) {
		name, next, qok := scanQuoted(content, 0)
		if !qok {
			return "", "", false
		}
		typeName = name
		pos = next
	} else {
		idx := strings.Index(content, p.sep)
		if idx < 0 {
			// Bare tag: the whole content is an untyped value.
			return "", content, true
		}
		typeName = content[:idx]
		pos = idx
	}

	if !strings.HasPrefix(content[pos:], p.sep) {
		return "", "", false
	}
	pos += len(p.sep)

	if strings.HasPrefix(content[pos:], `"`) {
		val, _, qok := scanQuoted(content, pos)
		if !qok {
			return "", "", false
		}
		return typeName, val, true
	}
	// Unquoted values run to the end of the tag content.
	return typeName, content[pos:], true
}
