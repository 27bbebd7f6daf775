package tagline

import "strings"

// Tag serializes one annotation in this parser's syntax, so that parsing
// the output yields the same (type, value) pair back. Sides that contain
// whitespace, a quote, the separator, or a delimiter are quoted with \"
// and \\ escaping.
func (p *Parser) Tag(name, value string) string {
	var b strings.Builder
	if !p.bare {
		b.WriteString(p.open)
	}
	b.WriteString(p.quoteIfNeeded(name))
	b.WriteString(p.sep)
	b.WriteString(p.quoteIfNeeded(value))
	if !p.bare {
		b.WriteString(p.close)
	}
	return b.String()
}

func (p *Parser) quoteIfNeeded(s string) string {
	needs := s == "" || strings.ContainsAny(s, " \t\n\r\v\f\"\\") || strings.Contains(s, p.sep)
	if !p.bare {
		needs = needs || strings.Contains(s, p.open) || strings.Contains(s, p.close)
	}
	if !needs {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
