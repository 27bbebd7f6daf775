package tagline

import (
	"encoding/json"
	"math"
	"testing"
)

func TestInferKind(t *testing.T) {
	tests := []struct {
		raw  string
		want Kind
	}{
		{"5", KindNumber},
		{"-12", KindNumber},
		{"3.14", KindNumber},
		{"-0.5", KindNumber},
		{"true", KindBoolean},
		{"FALSE", KindBoolean},
		{"True", KindBoolean},
		{"hello", KindString},
		{"OP-123", KindString},
		{"1.2.3", KindString},
		{"5.", KindString},
		{".5", KindString},
		{"1e3", KindString},
		{"", KindString},
		{"truely", KindString},
	}
	for _, tt := range tests {
		if got := inferKind(tt.raw); got != tt.want {
			t.Errorf("inferKind(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCoerce(t *testing.T) {
	if v := coerce("5", KindNumber); v.Num() != 5 {
		t.Errorf("number 5 = %v", v.Num())
	}
	if v := coerce("-0.5", KindNumber); v.Num() != -0.5 {
		t.Errorf("number -0.5 = %v", v.Num())
	}
	if v := coerce("abc", KindNumber); !math.IsNaN(v.Num()) {
		t.Errorf("forced numeric parse of abc = %v, want NaN", v.Num())
	}
	if v := coerce("TRUE", KindBoolean); !v.Bool() {
		t.Error("TRUE should coerce to true")
	}
	if v := coerce("anything else", KindBoolean); v.Bool() {
		t.Error("non-true text should coerce to false")
	}
	if v := coerce("as-is", KindString); v.Str() != "as-is" {
		t.Errorf("string passthrough = %q", v.Str())
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{NumberValue(5), "5"},
		{NumberValue(5.5), "5.5"},
		{NumberValue(-0.25), "-0.25"},
		{NumberValue(math.NaN()), "NaN"},
		{BoolValue(true), "true"},
		{BoolValue(false), "false"},
		{StringValue("x y"), "x y"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String(%v %v) = %q, want %q", tt.v.Kind(), tt.v.Interface(), got, tt.want)
		}
	}
}

func TestValueMarshalJSON(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{NumberValue(5), "5"},
		{NumberValue(math.NaN()), "null"},
		{BoolValue(true), "true"},
		{StringValue("hi"), `"hi"`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.v)
		if err != nil {
			t.Fatalf("marshal %+v: %v", tt.v, err)
		}
		if string(got) != tt.want {
			t.Errorf("marshal = %s, want %s", got, tt.want)
		}
	}
}

func TestValueUnmarshalJSON(t *testing.T) {
	for _, in := range []Value{NumberValue(5.5), BoolValue(true), StringValue("x")} {
		data, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var out Value
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if out != in {
			t.Errorf("round trip of %+v came back as %+v", in, out)
		}
	}

	// NaN marshals as null and comes back as NaN.
	var out Value
	if err := json.Unmarshal([]byte("null"), &out); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if out.Kind() != KindNumber || !math.IsNaN(out.Num()) {
		t.Errorf("null decoded as %+v, want NaN number", out)
	}

	if err := json.Unmarshal([]byte("[1]"), &out); err == nil {
		t.Error("expected error for array value")
	}
}

// Inference is stable through a stringify round trip: coercing a value and
// re-inferring from its default string form lands on the same kind.
func TestInferKind_IdempotentThroughString(t *testing.T) {
	for _, raw := range []string{"5", "-12", "3.5", "true", "FALSE"} {
		kind := inferKind(raw)
		v := coerce(raw, kind)
		if again := inferKind(v.String()); again != kind {
			t.Errorf("%q: inferred %q, but %q re-infers as %q", raw, kind, v.String(), again)
		}
	}
}

func TestResolveType_SchemaWinsOverInference(t *testing.T) {
	p := mustParser(t, Options{Schema: Schema{"id": {Kind: KindString}}})
	// "42" would infer as number, but the schema pins id to string.
	r := p.Parse("[id:42]")
	if len(r.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(r.Entities))
	}
	e := r.Entities[0]
	if e.Kind != KindString || e.Parsed.Str() != "42" {
		t.Errorf("got kind %q parsed %+v, want string \"42\"", e.Kind, e.Parsed)
	}
}

func TestResolveType_UnknownTypeFallsBackToInference(t *testing.T) {
	p := mustParser(t, Options{Schema: Schema{"known": {Kind: KindString}}})
	r := p.Parse("[other:true]")
	if len(r.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(r.Entities))
	}
	if r.Entities[0].Kind != KindBoolean || !r.Entities[0].Parsed.Bool() {
		t.Errorf("got %+v, want inferred boolean true", r.Entities[0])
	}
}
