// Package dsl provides the field types used to declare skema schemas.
//
// Every constructor returns a value implementing skema.FieldType (Coerce and
// Kind) plus JSONSchema for export:
//   - Scalars: Int(), Float(), String(), Bool(), Any().
//   - Formats: Time() (RFC3339), UUID(), Enum(values...).
//   - Containers: List(elem), Map(elem), Nullable(t).
//   - Nesting: Object(schema) constructs maps against another schema with its
//     own strictness, so unknown keys are rejected at every depth.
//
// Bounds chain on the numeric and string types and return a new value, so a
// shared base type is never modified:
//
//	age := dsl.Int().Min(0)
//	s := skema.Define("User").
//	    Field("id", dsl.UUID()).DefaultFunc(func() any { return uuid.New() }).
//	    Field("name", dsl.String().MinLen(1)).
//	    Field("age", age).Optional().
//	    MustBuild()
//
// Coercion is conservative: strings are never parsed as numbers and numbers
// are never formatted as strings. Int accepts integral floats and JSON
// numbers because JSON decoders produce them for integer literals.
package dsl
