package tagline

import (
	"sort"
	"strings"
)

// Entity is one extracted annotation. Entities are plain immutable records
// with no back-reference to the parser that produced them.
type Entity struct {
	Type      string `json:"type"`            // may be empty (bare delimited tag) or contain spaces (quoted)
	Value     string `json:"value"`           // raw value, quotes stripped, escapes resolved
	Parsed    Value  `json:"parsed_value"`    // value coerced per resolved kind
	Formatted string `json:"formatted_value"` // schema formatter output, or default stringification
	Kind      Kind   `json:"inferred_type"`   // kind actually used, from schema or inference
	Start     int    `json:"position"`        // index of the entity's first byte in the message
	End       int    `json:"end_position"`    // index just past the entity's last byte
}

// Result holds one parse: the original message and its entities in scan
// order. Scan order is ascending Start order in both modes.
type Result struct {
	Message  string   `json:"message"`
	Entities []Entity `json:"entities"`
}

// ByType returns the entities with the given type name, preserving scan
// order.
func (r *Result) ByType(name string) []Entity {
	var out []Entity
	for _, e := range r.Entities {
		if e.Type == name {
			out = append(out, e)
		}
	}
	return out
}

// Types returns the distinct type names encountered, in first-seen order.
func (r *Result) Types() []string {
	seen := make(map[string]struct{}, len(r.Entities))
	var out []string
	for _, e := range r.Entities {
		if _, ok := seen[e.Type]; ok {
			continue
		}
		seen[e.Type] = struct{}{}
		out = append(out, e.Type)
	}
	return out
}

// Format reconstructs the message with each entity's span replaced by its
// formatted value, all surrounding text preserved. Entities are applied in
// ascending Start order even if the list was built by hand out of order;
// an entity overlapping the previous replacement is skipped.
func (r *Result) Format() string {
	if len(r.Entities) == 0 {
		return r.Message
	}
	ents := make([]Entity, len(r.Entities))
	copy(ents, r.Entities)
	sort.SliceStable(ents, func(i, j int) bool { return ents[i].Start < ents[j].Start })

	var b strings.Builder
	last := 0
	for _, e := range ents {
		if e.Start < last || e.End > len(r.Message) {
			continue
		}
		b.WriteString(r.Message[last:e.Start])
		b.WriteString(e.Formatted)
		last = e.End
	}
	b.WriteString(r.Message[last:])
	return b.String()
}
