// Package tagline extracts typed annotations from free-form text.
//
// An annotation is a key/value pair embedded in an otherwise unstructured
// message, either wrapped in delimiters ("deploy [env:prod] now") or written
// bare as whitespace-bounded tokens ("deploy env=prod now"). The parser
// recognizes them without disturbing the surrounding text:
// - Quoted keys and values with \" and \\ escapes
// - Schema-driven type coercion (string, number, boolean) with inference fallback
// - Custom per-type formatters
// - Full message reconstruction with formatted substitutions
//
// Malformed candidates (unterminated quotes, missing separators, empty
// values) are dropped silently and scanning continues; only configuration
// errors are ever surfaced, and only at construction time.
package tagline

// Parser extracts annotations from messages. A Parser is immutable after
// New and safe for concurrent use; all scan state is local to one Parse
// call.
type Parser struct {
	open   string // empty in bare mode
	close  string // empty in bare mode
	sep    string
	bare   bool
	schema Schema
}

// New creates a Parser from the given options. A zero Options value yields
// the default "[key:value]" syntax. Invalid configuration (empty or
// colliding delimiters, a malformed Delimiters override) fails here, never
// in Parse.
func New(opts Options) (*Parser, error) {
	rc, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	return &Parser{
		open:   rc.open,
		close:  rc.close,
		sep:    rc.sep,
		bare:   rc.bare,
		schema: opts.Schema,
	}, nil
}

// Parse extracts all annotations from message. It never fails: bad input
// data only reduces the entity count. Entities are returned in scan order,
// which is ascending position order.
func (p *Parser) Parse(message string) *Result {
	var entities []Entity
	if p.bare {
		entities = p.parseBare(message)
	} else {
		entities = p.parseDelimited(message)
	}
	return &Result{Message: message, Entities: entities}
}
