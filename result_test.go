package tagline

import (
	"reflect"
	"testing"
)

func TestResult_ByType(t *testing.T) {
	p := mustParser(t, Options{})
	r := p.Parse("[env:dev] [region:eu] [env:prod]")

	envs := r.ByType("env")
	if len(envs) != 2 {
		t.Fatalf("expected 2 env entities, got %d", len(envs))
	}
	if envs[0].Value != "dev" || envs[1].Value != "prod" {
		t.Errorf("scan order not preserved: %q, %q", envs[0].Value, envs[1].Value)
	}
	if got := r.ByType("missing"); len(got) != 0 {
		t.Errorf("expected no entities for unknown type, got %+v", got)
	}
}

func TestResult_Types(t *testing.T) {
	p := mustParser(t, Options{})
	r := p.Parse("[env:dev] [region:eu] [env:prod]")
	want := []string{"env", "region"}
	if got := r.Types(); !reflect.DeepEqual(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
}

func TestResult_FormatRoundTrip(t *testing.T) {
	p := mustParser(t, Options{})
	tests := []struct {
		msg  string
		want string
	}{
		{"[op:deploy] now", "deploy now"},
		{"run [env:prod] in [region:eu] today", "run prod in eu today"},
		{"no tags at all", "no tags at all"},
		{"", ""},
		{"[a:1][b:2]", "12"},
	}
	for _, tt := range tests {
		if got := p.Parse(tt.msg).Format(); got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestResult_FormatUsesFormatter(t *testing.T) {
	p := mustParser(t, Options{
		Schema: Schema{
			"count": {Kind: KindNumber, Format: func(v Value) string { return "#" + v.String() }},
		},
	})
	if got := p.Parse("ship [count:7] crates").Format(); got != "ship #7 crates" {
		t.Errorf("Format() = %q, want %q", got, "ship #7 crates")
	}
}

func TestResult_FormatOutOfOrderEntities(t *testing.T) {
	// Hand-built results with unsorted entities still format correctly.
	r := &Result{
		Message: "aa bb cc",
		Entities: []Entity{
			{Start: 6, End: 8, Formatted: "C"},
			{Start: 0, End: 2, Formatted: "A"},
		},
	}
	if got := r.Format(); got != "A bb C" {
		t.Errorf("Format() = %q, want %q", got, "A bb C")
	}
}

func TestResult_FormatSkipsOverlappingEntities(t *testing.T) {
	r := &Result{
		Message: "abcdef",
		Entities: []Entity{
			{Start: 0, End: 4, Formatted: "X"},
			{Start: 2, End: 6, Formatted: "Y"},
		},
	}
	if got := r.Format(); got != "Xef" {
		t.Errorf("Format() = %q, want %q", got, "Xef")
	}
}

func TestResult_PositionOrderingInvariant(t *testing.T) {
	bare := mustParser(t, Options{Delimiters: []string{}, Separator: "="})
	r := bare.Parse("a=1 some words b=2 c=3")
	for i := 1; i < len(r.Entities); i++ {
		prev, cur := r.Entities[i-1], r.Entities[i]
		if prev.Start >= cur.Start {
			t.Errorf("entities out of position order: %d then %d", prev.Start, cur.Start)
		}
		if prev.End > cur.Start {
			t.Errorf("entities overlap in delimiter-free mode: %+v, %+v", prev, cur)
		}
	}
}
