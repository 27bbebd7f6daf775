package tagline

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the primitive type of a parsed value.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
)

// Formatter turns a coerced value into its display string.
type Formatter func(v Value) string

// TypeDef declares the expected kind for one annotation type, with an
// optional formatter. A nil Format means default stringification.
type TypeDef struct {
	Kind   Kind
	Format Formatter
}

// Schema maps annotation type names to their declarations. Type names not
// present in the schema fall back to automatic inference.
type Schema map[string]TypeDef

// Value is a tagged string/number/boolean union. Keeping the variant
// explicit (rather than an any) keeps formatting exhaustive.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// StringValue, NumberValue and BoolValue construct Values directly; the
// parser builds them via coerce.
func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }
func BoolValue(b bool) Value      { return Value{kind: KindBoolean, b: b} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string arm (zero unless Kind is KindString).
func (v Value) Str() string { return v.str }

// Num returns the number arm (zero unless Kind is KindNumber).
func (v Value) Num() float64 { return v.num }

// Bool returns the boolean arm (false unless Kind is KindBoolean).
func (v Value) Bool() bool { return v.b }

// Interface returns the underlying value as an any, for callers that hand
// it to reflective APIs (fmt verbs, JSON encoding).
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBoolean:
		return v.b
	default:
		return v.str
	}
}

// String is the default display conversion: numbers drop trailing zeros
// ("5", "5.5", "NaN"), booleans are "true"/"false", strings pass through.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// MarshalJSON emits the underlying primitive, not the wrapper struct.
// NaN has no JSON encoding, so a schema-forced failed numeric parse
// marshals as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber && math.IsNaN(v.num) {
		return []byte("null"), nil
	}
	return json.Marshal(v.Interface())
}

// UnmarshalJSON is the inverse of MarshalJSON: a JSON number, bool, or
// string selects the matching arm, and null restores the NaN number.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = NumberValue(math.NaN())
	case float64:
		*v = NumberValue(x)
	case bool:
		*v = BoolValue(x)
	case string:
		*v = StringValue(x)
	default:
		return fmt.Errorf("value must be a string, number, or boolean, got %T", raw)
	}
	return nil
}

var numberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// inferKind determines a value's kind from its raw text when the schema
// has no entry for its type.
func inferKind(raw string) Kind {
	if numberPattern.MatchString(raw) {
		return KindNumber
	}
	if strings.EqualFold(raw, "true") || strings.EqualFold(raw, "false") {
		return KindBoolean
	}
	return KindString
}

// coerce converts raw text to the given kind. A schema-forced numeric
// parse of non-numeric text yields NaN rather than an error; the parser
// never rejects data for failing its schema.
func coerce(raw string, kind Kind) Value {
	switch kind {
	case KindNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			f = math.NaN()
		}
		return NumberValue(f)
	case KindBoolean:
		return BoolValue(strings.EqualFold(raw, "true"))
	default:
		return StringValue(raw)
	}
}

// resolveType runs the shared schema-or-inference pipeline for one raw
// (type, value) pair and builds the finished entity fields. Both scan
// modes funnel through here, so schema and formatter behavior is
// identical regardless of how the tag was found.
func (p *Parser) resolveType(typeName, raw string) (Value, string, Kind) {
	def, known := p.schema[typeName]
	kind := def.Kind
	if !known || kind == "" {
		kind = inferKind(raw)
	}
	v := coerce(raw, kind)
	if known && def.Format != nil {
		return v, def.Format(v), kind
	}
	return v, v.String(), kind
}
