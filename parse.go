package tagline

import "strings"

// parseDelimited scans for open/close delimiter pairs. The close scan is
// quote-aware, so a delimiter inside a quoted value does not end the tag.
// A dangling open delimiter advances the cursor past just the opener, so a
// later opener inside the same span is still found.
func (p *Parser) parseDelimited(msg string) []Entity {
	var out []Entity
	cursor := 0
	for {
		rel := strings.Index(msg[cursor:], p.open)
		if rel < 0 {
			break
		}
		openAt := cursor + rel
		inner := openAt + len(p.open)

		closeAt := p.findClose(msg, inner)
		if closeAt < 0 {
			cursor = inner
			continue
		}
		end := closeAt + len(p.close)
		content := strings.TrimSpace(msg[inner:closeAt])
		cursor = end
		if content == "" {
			continue
		}
		name, raw, ok := p.resolveTag(content)
		if !ok {
			continue
		}
		out = append(out, p.newEntity(name, raw, openAt, end))
	}
	return out
}

// findClose returns the index where the close delimiter starts, scanning
// from start, or -1 if it never appears outside quotes. An unescaped '"'
// toggles the in-quotes flag; escaped means preceded by an odd number of
// backslashes.
func (p *Parser) findClose(msg string, start int) int {
	inQuotes := false
	for k := start; k < len(msg); k++ {
		if msg[k] == '"' && !escapedAt(msg, k) {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes && strings.HasPrefix(msg[k:], p.close) {
			return k
		}
	}
	return -1
}

// parseBare scans whitespace-bounded key<sep>value tokens across the whole
// message. Recovery is lenient and local: a failed candidate advances the
// cursor a character or two and the scan restarts, so surrounding prose is
// simply walked over. The cursor strictly increases every iteration.
func (p *Parser) parseBare(msg string) []Entity {
	var out []Entity
	c := 0
	for c < len(msg) {
		for c < len(msg) && asciiSpace(msg[c]) {
			c++
		}
		if c >= len(msg) {
			break
		}
		keyStart := c

		var key string
		var keyEnd int
		if msg[c] == '"' {
			k, next, ok := scanQuoted(msg, c)
			if !ok {
				c++
				continue
			}
			key, keyEnd = k, next
		} else {
			k, next := scanToken(msg, c, p.sep)
			if k == "" {
				// Sitting on the separator itself.
				c++
				continue
			}
			key, keyEnd = k, next
		}

		if !strings.HasPrefix(msg[keyEnd:], p.sep) {
			// No separator after the key: skip the key plus one byte.
			c = keyEnd + 1
			continue
		}
		vStart := keyEnd + len(p.sep)

		var raw string
		var vEnd int
		if vStart < len(msg) && msg[vStart] == '"' {
			v, next, ok := scanQuoted(msg, vStart)
			if !ok {
				// Unterminated quote: resume just past the opener.
				c = vStart + 1
				continue
			}
			raw, vEnd = v, next
		} else {
			// Bare values stop only at whitespace.
			v, next := scanToken(msg, vStart, "")
			if v == "" {
				c = vStart
				continue
			}
			raw, vEnd = v, next
		}

		out = append(out, p.newEntity(key, raw, keyStart, vEnd))
		c = vEnd
	}
	return out
}

func (p *Parser) newEntity(typeName, raw string, start, end int) Entity {
	parsed, formatted, kind := p.resolveType(typeName, raw)
	return Entity{
		Type:      typeName,
		Value:     raw,
		Parsed:    parsed,
		Formatted: formatted,
		Kind:      kind,
		Start:     start,
		End:       end,
	}
}
