package dsl

import (
	"context"
	"math"
	"reflect"
	"strconv"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/i18n"
	js "github.com/reoring/skema/jsonschema"
)

// jsonNumber matches json.Number from encoding/json and goccy/go-json.
type jsonNumber interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

func invalidType(expected string) error {
	return skema.Issues{{Path: "/", Code: skema.CodeInvalidType, Message: i18n.T(skema.CodeInvalidType, map[string]string{"expected": expected}), Hint: "expected " + expected}}
}

// ---- int ----

type intType struct {
	min, max *int64
}

// Int returns an integer field type. Values are stored as int64; integral
// floats and JSON numbers are accepted.
func Int() *intType { return &intType{} }

// Min sets an inclusive lower bound.
func (t *intType) Min(n int64) *intType {
	out := *t
	out.min = &n
	return &out
}

// Max sets an inclusive upper bound.
func (t *intType) Max(n int64) *intType {
	out := *t
	out.max = &n
	return &out
}

func (t *intType) Kind() string { return "int" }

func (t *intType) Coerce(ctx context.Context, v any) (any, error) {
	n, ok := toInt64(v)
	if !ok {
		return nil, invalidType("integer")
	}
	if t.min != nil && n < *t.min {
		return nil, skema.Issues{{Path: "/", Code: skema.CodeTooSmall, Message: i18n.T(skema.CodeTooSmall, nil), Params: map[string]any{"min": *t.min, "got": n}}}
	}
	if t.max != nil && n > *t.max {
		return nil, skema.Issues{{Path: "/", Code: skema.CodeTooBig, Message: i18n.T(skema.CodeTooBig, nil), Params: map[string]any{"max": *t.max, "got": n}}}
	}
	return n, nil
}

func (t *intType) JSONSchema() *js.Schema {
	s := &js.Schema{Type: "integer"}
	if t.min != nil {
		s.Minimum = ptrFloat(float64(*t.min))
	}
	if t.max != nil {
		s.Maximum = ptrFloat(float64(*t.max))
	}
	return s
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8, int16, int32, int64:
		return reflect.ValueOf(n).Int(), true
	case uint, uint8, uint16, uint32, uint64:
		u := reflect.ValueOf(n).Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case float32, float64:
		f := reflect.ValueOf(n).Float()
		return integralFloat(f)
	case jsonNumber:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return integralFloat(f)
	}
	return 0, false
}

func integralFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// ---- float ----

type floatType struct {
	min, max *float64
}

// Float returns a float64 field type accepting any Go number or JSON number.
func Float() *floatType { return &floatType{} }

// Min sets an inclusive lower bound.
func (t *floatType) Min(n float64) *floatType {
	out := *t
	out.min = &n
	return &out
}

// Max sets an inclusive upper bound.
func (t *floatType) Max(n float64) *floatType {
	out := *t
	out.max = &n
	return &out
}

func (t *floatType) Kind() string { return "float" }

func (t *floatType) Coerce(ctx context.Context, v any) (any, error) {
	var f float64
	switch n := v.(type) {
	case float32, float64:
		f = reflect.ValueOf(n).Float()
	case int, int8, int16, int32, int64:
		f = float64(reflect.ValueOf(n).Int())
	case uint, uint8, uint16, uint32, uint64:
		f = float64(reflect.ValueOf(n).Uint())
	case jsonNumber:
		x, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return nil, invalidType("number")
		}
		f = x
	default:
		return nil, invalidType("number")
	}
	if t.min != nil && f < *t.min {
		return nil, skema.Issues{{Path: "/", Code: skema.CodeTooSmall, Message: i18n.T(skema.CodeTooSmall, nil), Params: map[string]any{"min": *t.min, "got": f}}}
	}
	if t.max != nil && f > *t.max {
		return nil, skema.Issues{{Path: "/", Code: skema.CodeTooBig, Message: i18n.T(skema.CodeTooBig, nil), Params: map[string]any{"max": *t.max, "got": f}}}
	}
	return f, nil
}

func (t *floatType) JSONSchema() *js.Schema {
	return &js.Schema{Type: "number", Minimum: t.min, Maximum: t.max}
}

// ---- string ----

type stringType struct {
	minLen int
}

// String returns a string field type. Non-strings are rejected.
func String() *stringType { return &stringType{} }

// MinLen requires at least n bytes.
func (t *stringType) MinLen(n int) *stringType {
	out := *t
	out.minLen = n
	return &out
}

func (t *stringType) Kind() string { return "string" }

func (t *stringType) Coerce(ctx context.Context, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, invalidType("string")
	}
	if len(s) < t.minLen {
		return nil, skema.Issues{{Path: "/", Code: skema.CodeTooShort, Message: i18n.T(skema.CodeTooShort, nil), Params: map[string]any{"min": t.minLen, "got": len(s)}}}
	}
	return s, nil
}

func (t *stringType) JSONSchema() *js.Schema {
	s := &js.Schema{Type: "string"}
	if t.minLen > 0 {
		n := t.minLen
		s.MinLength = &n
	}
	return s
}

// ---- bool ----

type boolType struct{}

// Bool returns a boolean field type.
func Bool() *boolType { return &boolType{} }

func (*boolType) Kind() string { return "bool" }

func (*boolType) Coerce(ctx context.Context, v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, invalidType("boolean")
	}
	return b, nil
}

func (*boolType) JSONSchema() *js.Schema { return &js.Schema{Type: "boolean"} }

// ---- any ----

type anyType struct{}

// Any accepts every value unchanged, including nil.
func Any() *anyType { return &anyType{} }

func (*anyType) Kind() string                                   { return "any" }
func (*anyType) Coerce(ctx context.Context, v any) (any, error) { return v, nil }
func (*anyType) JSONSchema() *js.Schema                         { return &js.Schema{} }

func ptrFloat(v float64) *float64 { return &v }
