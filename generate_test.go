package tagline

import "testing"

func TestTag_Delimited(t *testing.T) {
	p := mustParser(t, Options{})
	tests := []struct {
		name, value string
		want        string
	}{
		{"env", "prod", "[env:prod]"},
		{"my key", "v", `["my key":v]`},
		{"k", "a b", `[k:"a b"]`},
		{"k", `say "hi"`, `[k:"say \"hi\""]`},
		{"k", "a:b", `[k:"a:b"]`},
		{"k", "a]b", `[k:"a]b"]`},
	}
	for _, tt := range tests {
		if got := p.Tag(tt.name, tt.value); got != tt.want {
			t.Errorf("Tag(%q, %q) = %q, want %q", tt.name, tt.value, got, tt.want)
		}
	}
}

func TestTag_RoundTripsThroughParse(t *testing.T) {
	parsers := []*Parser{
		mustParser(t, Options{}),
		mustParser(t, Options{Delimiters: []string{}, Separator: "="}),
	}
	pairs := [][2]string{
		{"env", "prod"},
		{"store order", "number 42"},
		{"msg", `say "hello"`},
		{"path", `C:\tmp\x`},
		{"note", "ends in ]"},
	}
	for _, p := range parsers {
		for _, kv := range pairs {
			tag := p.Tag(kv[0], kv[1])
			r := p.Parse(tag)
			if len(r.Entities) != 1 {
				t.Errorf("Parse(Tag(%q, %q)) = %q gave %d entities", kv[0], kv[1], tag, len(r.Entities))
				continue
			}
			e := r.Entities[0]
			if e.Type != kv[0] || e.Value != kv[1] {
				t.Errorf("round trip of (%q, %q) via %q came back as (%q, %q)",
					kv[0], kv[1], tag, e.Type, e.Value)
			}
		}
	}
}
