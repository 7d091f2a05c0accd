package dsl

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/i18n"
	js "github.com/reoring/skema/jsonschema"
)

// ---- time ----

type timeType struct{}

// Time accepts time.Time values and RFC3339 (or RFC3339Nano) strings and
// normalizes them to UTC.
func Time() *timeType { return &timeType{} }

func (*timeType) Kind() string { return "datetime" }

func (*timeType) Coerce(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		tm, err := parseRFC3339(t)
		if err != nil {
			return nil, skema.Issues{{Path: "/", Code: skema.CodeInvalidFormat, Message: i18n.T(skema.CodeInvalidFormat, nil), Hint: "invalid RFC3339 time", Cause: err}}
		}
		return tm.UTC(), nil
	}
	return nil, invalidType("RFC3339 string")
}

func (*timeType) JSONSchema() *js.Schema { return &js.Schema{Type: "string", Format: "date-time"} }

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// ---- uuid ----

type uuidType struct{}

// UUID accepts uuid.UUID values and their canonical string forms.
func UUID() *uuidType { return &uuidType{} }

func (*uuidType) Kind() string { return "uuid" }

func (*uuidType) Coerce(ctx context.Context, v any) (any, error) {
	switch t := v.(type) {
	case uuid.UUID:
		return t, nil
	case string:
		id, err := uuid.Parse(t)
		if err != nil {
			return nil, skema.Issues{{Path: "/", Code: skema.CodeInvalidFormat, Message: i18n.T(skema.CodeInvalidFormat, nil), Hint: "invalid uuid", Cause: err}}
		}
		return id, nil
	}
	return nil, invalidType("uuid string")
}

func (*uuidType) JSONSchema() *js.Schema { return &js.Schema{Type: "string", Format: "uuid"} }

// ---- enum ----

type enumType struct {
	values []string
}

// Enum accepts one of the given strings.
func Enum(values ...string) *enumType { return &enumType{values: slices.Clone(values)} }

func (t *enumType) Kind() string { return "enum(" + strings.Join(t.values, "|") + ")" }

// Values returns the permitted values.
func (t *enumType) Values() []string { return slices.Clone(t.values) }

func (t *enumType) Coerce(ctx context.Context, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, invalidType("string")
	}
	if !slices.Contains(t.values, s) {
		return nil, skema.Issues{{Path: "/", Code: skema.CodeInvalidEnum, Message: i18n.T(skema.CodeInvalidEnum, nil), Params: map[string]any{"allowed": t.Values(), "got": s}}}
	}
	return s, nil
}

func (t *enumType) JSONSchema() *js.Schema {
	enum := make([]any, len(t.values))
	for i, v := range t.values {
		enum[i] = v
	}
	return &js.Schema{Type: "string", Enum: enum}
}
