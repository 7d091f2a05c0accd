package dsl

import (
	"context"
	"reflect"
	"sort"
	"strconv"

	skema "github.com/reoring/skema"
	js "github.com/reoring/skema/jsonschema"
)

// jsonSchemaer is implemented by every field type in this package.
type jsonSchemaer interface{ JSONSchema() *js.Schema }

func schemaOf(t skema.FieldType) *js.Schema {
	if j, ok := t.(jsonSchemaer); ok {
		if s := j.JSONSchema(); s != nil {
			return s
		}
	}
	return &js.Schema{}
}

// ---- list ----

type listType struct {
	elem skema.FieldType
}

// List accepts any slice or array and coerces every element with elem. The
// result is a []any.
func List(elem skema.FieldType) *listType { return &listType{elem: elem} }

func (t *listType) Kind() string { return "list<" + t.elem.Kind() + ">" }

func (t *listType) Coerce(ctx context.Context, v any) (any, error) {
	var items []any
	switch s := v.(type) {
	case []any:
		items = s
	default:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return nil, invalidType("array")
		}
		items = make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
	}
	out := make([]any, len(items))
	var iss skema.Issues
	for i, e := range items {
		cv, err := t.elem.Coerce(ctx, e)
		if err != nil {
			iss = skema.AppendIssues(iss, skema.RebaseIssues("/"+strconv.Itoa(i), err)...)
			if skema.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[i] = cv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (t *listType) JSONSchema() *js.Schema { return &js.Schema{Type: "array", Items: schemaOf(t.elem)} }

// ---- map ----

type mapType struct {
	elem skema.FieldType
}

// Map accepts maps with string keys and coerces every value with elem. The
// result is a map[string]any.
func Map(elem skema.FieldType) *mapType { return &mapType{elem: elem} }

func (t *mapType) Kind() string { return "map<" + t.elem.Kind() + ">" }

func (t *mapType) Coerce(ctx context.Context, v any) (any, error) {
	var src map[string]any
	switch m := v.(type) {
	case map[string]any:
		src = m
	default:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
			return nil, invalidType("object")
		}
		src = make(map[string]any, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			src[it.Key().String()] = it.Value().Interface()
		}
	}
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(src))
	var iss skema.Issues
	for _, k := range keys {
		cv, err := t.elem.Coerce(ctx, src[k])
		if err != nil {
			iss = skema.AppendIssues(iss, skema.RebaseIssues(skema.PointerField(k), err)...)
			if skema.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[k] = cv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (t *mapType) JSONSchema() *js.Schema {
	return &js.Schema{Type: "object", AdditionalProperties: schemaOf(t.elem)}
}

// ---- object ----

type objectType struct {
	schema *skema.Schema
}

// Object nests a schema. Maps are constructed against it with full
// strictness; instances of the same schema are kept as-is; instances of any
// other schema are reconstructed from their deep serialization.
func Object(s *skema.Schema) *objectType { return &objectType{schema: s} }

// Schema returns the nested schema.
func (t *objectType) Schema() *skema.Schema { return t.schema }

func (t *objectType) Kind() string { return "object<" + t.schema.Name() + ">" }

func (t *objectType) Coerce(ctx context.Context, v any) (any, error) {
	switch x := v.(type) {
	case *skema.Instance:
		if x == nil {
			return nil, invalidType("object")
		}
		if x.Schema() == t.schema {
			return x, nil
		}
		return t.schema.Construct(ctx, x.Serialize())
	case map[string]any:
		return t.schema.Construct(ctx, x)
	}
	return nil, invalidType("object")
}

func (t *objectType) JSONSchema() *js.Schema { return t.schema.JSONSchema() }

// ---- nullable ----

type nullableType struct {
	inner skema.FieldType
}

// Nullable lets inner also accept nil.
func Nullable(inner skema.FieldType) *nullableType { return &nullableType{inner: inner} }

func (t *nullableType) Kind() string { return t.inner.Kind() + "?" }

func (t *nullableType) Coerce(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return t.inner.Coerce(ctx, v)
}

func (t *nullableType) JSONSchema() *js.Schema { return schemaOf(t.inner).WithNull() }
