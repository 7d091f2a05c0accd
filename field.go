package skema

import (
	"context"
	"reflect"

	js "github.com/reoring/skema/jsonschema"
)

// Field describes one declared field of a schema. Field values are copied
// into every schema derived from the owner and never modified afterwards.
type Field struct {
	Name string
	Type FieldType
	// Owner is the name of the schema that originally declared the field.
	Owner    string
	Required bool

	hasDefault  bool
	defaultVal  any
	defaultFunc func() any
}

// HasDefault reports whether the field carries a default value or factory.
func (f Field) HasDefault() bool { return f.hasDefault }

// Default returns the default value for the field. For factory defaults a
// fresh value is produced on every call.
func (f Field) Default() (any, bool) {
	if !f.hasDefault {
		return nil, false
	}
	if f.defaultFunc != nil {
		return f.defaultFunc(), true
	}
	return cloneValue(f.defaultVal), true
}

// Equal reports whether two descriptors are the same declaration. Types and
// default factories are compared by identity.
func (f Field) Equal(o Field) bool {
	if f.Name != o.Name || f.Owner != o.Owner || f.Required != o.Required || f.hasDefault != o.hasDefault {
		return false
	}
	if !sameType(f.Type, o.Type) {
		return false
	}
	if (f.defaultFunc == nil) != (o.defaultFunc == nil) {
		return false
	}
	return reflect.DeepEqual(f.defaultVal, o.defaultVal)
}

func (f Field) coerce(ctx context.Context, v any) (any, error) {
	if f.Type == nil {
		return v, nil
	}
	return f.Type.Coerce(ctx, v)
}

func (f Field) jsonSchema() *js.Schema {
	s := &js.Schema{}
	if t, ok := f.Type.(interface{ JSONSchema() *js.Schema }); ok {
		if ts := t.JSONSchema(); ts != nil {
			s = ts
		}
	}
	if f.hasDefault && f.defaultFunc == nil {
		s.Default = f.defaultVal
	}
	return s
}

// sameType compares field types by identity without panicking on
// uncomparable implementations.
func sameType(a, b FieldType) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
