package skema

import (
	"context"
	"slices"
	"sort"

	"github.com/reoring/skema/i18n"
	js "github.com/reoring/skema/jsonschema"
)

// Schema is an immutable, named set of typed fields plus validator bindings.
// Schemas are produced by Builder.Build, Project and Extend and are safe for
// concurrent use once published.
type Schema struct {
	name       string
	fields     []Field
	index      map[string]int
	validators []Validator
	policy     UnknownPolicy
	parent     *Schema
	registry   *Registry
}

// Name returns the display name.
func (s *Schema) Name() string { return s.name }

// Parent returns the schema this one was projected or extended from, or nil.
func (s *Schema) Parent() *Schema { return s.parent }

// Policy returns the unknown-key policy.
func (s *Schema) Policy() UnknownPolicy { return s.policy }

// Strict reports whether unknown keys are rejected.
func (s *Schema) Strict() bool { return s.policy == UnknownStrict }

// Registry returns the registry holding the schema's name: the one passed to
// Registry.Define, or the private registry of a standalone lineage.
func (s *Schema) Registry() *Registry { return s.registry }

// Fields returns a copy of the field descriptors in declaration order.
func (s *Schema) Fields() []Field { return slices.Clone(s.fields) }

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Field looks up a field descriptor by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// HasField reports whether name is declared.
func (s *Schema) HasField(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Validators returns a copy of the validator bindings in declaration order.
func (s *Schema) Validators() []Validator {
	out := make([]Validator, len(s.validators))
	for i, v := range s.validators {
		out[i] = v.clone()
	}
	return out
}

// Validator looks up a validator binding by name.
func (s *Schema) Validator(name string) (Validator, bool) {
	for _, v := range s.validators {
		if v.Name == name {
			return v.clone(), true
		}
	}
	return Validator{}, false
}

// DerivesFrom reports whether ancestor is s or appears in s's parent chain.
func (s *Schema) DerivesFrom(ancestor *Schema) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

func (s *Schema) String() string { return s.name }

// namedInChain reports whether s or one of its ancestors is called name.
func (s *Schema) namedInChain(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.name == name {
			return true
		}
	}
	return false
}

// Construct validates raw against the schema and returns a fully valid
// Instance, or Issues describing every rejected input (the first one only
// when the context carries WithFailFast).
func (s *Schema) Construct(ctx context.Context, raw map[string]any) (*Instance, error) {
	vals, set, iss := s.collectKnown(ctx, raw)
	if len(iss) > 0 && IsFailFast(ctx) {
		return nil, iss
	}
	if unk := s.collectUnknown(raw); len(unk) > 0 {
		iss = AppendIssues(iss, unk...)
		if IsFailFast(ctx) {
			return nil, iss[:1]
		}
	}
	for _, v := range s.validators {
		if !v.ready(vals) {
			continue
		}
		if vi := v.run(ctx, vals); len(vi) > 0 {
			iss = AppendIssues(iss, vi...)
			if IsFailFast(ctx) {
				return nil, iss
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return &Instance{schema: s, values: vals, set: set}, nil
}

// MustConstruct is like Construct but panics on error.
func (s *Schema) MustConstruct(ctx context.Context, raw map[string]any) *Instance {
	inst, err := s.Construct(ctx, raw)
	if err != nil {
		panic(err)
	}
	return inst
}

// collectKnown coerces declared fields, applies defaults and enforces
// required fields in declaration order.
func (s *Schema) collectKnown(ctx context.Context, raw map[string]any) (Values, map[string]struct{}, Issues) {
	vals := make(Values, len(s.fields))
	set := make(map[string]struct{}, len(raw))
	var iss Issues
	for _, f := range s.fields {
		path := PointerField(f.Name)
		if rv, exists := raw[f.Name]; exists {
			set[f.Name] = struct{}{}
			cv, err := f.coerce(ctx, rv)
			if err != nil {
				iss = AppendIssues(iss, RebaseIssues(path, err)...)
				if IsFailFast(ctx) {
					return vals, set, iss
				}
				continue
			}
			vals[f.Name] = cv
			continue
		}
		if dv, ok := f.Default(); ok {
			// factory output is trusted to be canonical; static defaults were
			// coerced at build time
			vals[f.Name] = dv
			continue
		}
		if f.Required {
			iss = AppendIssues(iss, Issue{Path: path, Code: CodeRequired, Message: i18n.T(CodeRequired, nil), Hint: "required property missing"})
			if IsFailFast(ctx) {
				return vals, set, iss
			}
		}
	}
	return vals, set, iss
}

// collectUnknown reports unknown keys in sorted order for strict schemas.
func (s *Schema) collectUnknown(raw map[string]any) Issues {
	if s.policy != UnknownStrict {
		return nil
	}
	uks := make([]string, 0)
	for k := range raw {
		if _, known := s.index[k]; !known {
			uks = append(uks, k)
		}
	}
	sort.Strings(uks)
	var iss Issues
	for _, k := range uks {
		iss = AppendIssues(iss, Issue{
			Path:    PointerField(k),
			Code:    CodeUnknownKey,
			Message: i18n.T(CodeUnknownKey, map[string]string{"key": k}),
			Hint:    "extra fields not permitted",
			Params:  map[string]any{"key": k, "schema": s.name},
		})
	}
	return iss
}

// JSONSchema projects the schema into a JSON Schema document.
func (s *Schema) JSONSchema() *js.Schema {
	props := make(map[string]*js.Schema, len(s.fields))
	var req []string
	for _, f := range s.fields {
		props[f.Name] = f.jsonSchema()
		if f.Required && !f.hasDefault {
			req = append(req, f.Name)
		}
	}
	out := &js.Schema{Title: s.name, Type: "object", Properties: props, Required: req}
	switch s.policy {
	case UnknownStrict:
		out.AdditionalProperties = false
	case UnknownStrip:
		// accepted then discarded at runtime
		out.AdditionalProperties = true
	}
	return out
}

