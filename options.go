package tagline

import "fmt"

// Default syntax used when Options fields are left zero.
const (
	DefaultOpenDelim  = "["
	DefaultCloseDelim = "]"
	DefaultSeparator  = ":"
)

// Options configures a Parser. The zero value is valid and selects the
// default "[key:value]" syntax.
type Options struct {
	// OpenDelim and CloseDelim bound each tag in delimited mode.
	// Empty fields fall back to "[" and "]".
	OpenDelim  string
	CloseDelim string

	// Delimiters overrides OpenDelim/CloseDelim when non-nil:
	// an empty slice selects delimiter-free mode, a two-element slice
	// selects delimited mode with that pair, any other length is a
	// configuration error.
	Delimiters []string

	// Separator divides a tag's type name from its value in both modes.
	// Empty falls back to ":".
	Separator string

	// Schema maps type names to expected kinds and optional formatters.
	// Unknown type names use automatic inference.
	Schema Schema
}

// resolved is the normalized form all scan logic runs against. Precedence
// (Delimiters over the individual fields, defaults last) is applied here
// once rather than branched on throughout the parser.
type resolved struct {
	open, close string
	sep         string
	bare        bool
}

func (o Options) resolve() (resolved, error) {
	rc := resolved{
		open:  o.OpenDelim,
		close: o.CloseDelim,
		sep:   o.Separator,
	}
	if rc.sep == "" {
		rc.sep = DefaultSeparator
	}

	if o.Delimiters != nil {
		switch len(o.Delimiters) {
		case 0:
			rc.bare = true
			rc.open, rc.close = "", ""
			return rc, nil
		case 2:
			rc.open, rc.close = o.Delimiters[0], o.Delimiters[1]
		default:
			return rc, fmt.Errorf("delimiters override must be empty or a pair, got %d elements", len(o.Delimiters))
		}
	}

	if rc.open == "" && o.Delimiters == nil {
		rc.open = DefaultOpenDelim
	}
	if rc.close == "" && o.Delimiters == nil {
		rc.close = DefaultCloseDelim
	}

	if rc.open == "" {
		return rc, fmt.Errorf("open delimiter cannot be empty")
	}
	if rc.close == "" {
		return rc, fmt.Errorf("close delimiter cannot be empty")
	}
	if rc.open == rc.close {
		return rc, fmt.Errorf("open and close delimiters must differ, both are %q", rc.open)
	}
	return rc, nil
}
