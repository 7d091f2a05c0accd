package skema

import (
	"context"
	"slices"
)

// Builder declares a schema. Field declarations keep their order; Build
// validates the declaration and returns an immutable Schema.
type Builder struct {
	name       string
	fields     []Field
	validators []Validator
	policy     UnknownPolicy
	parent     *Schema
	registry   *Registry
	inherited  map[string]struct{}
	dups       []string
	// reuseName is set when an extension borrows its parent's name; such
	// schemas are not registered.
	reuseName bool
}

type fieldStep struct {
	b   *Builder
	idx int
}

// Define starts a standalone schema declaration with safe defaults
// (UnknownStrict). The schema gets a private registry shared by every schema
// derived from it, so derived names cannot collide within the lineage.
func Define(name string) *Builder {
	return &Builder{name: name, policy: UnknownStrict}
}

// Field appends a field. Fields are required unless Default, DefaultFunc or
// Optional is chained.
func (b *Builder) Field(name string, typ FieldType) *fieldStep {
	if slices.ContainsFunc(b.fields, func(f Field) bool { return f.Name == name }) {
		b.dups = append(b.dups, name)
	}
	b.fields = append(b.fields, Field{Name: name, Type: typ, Owner: b.name, Required: true})
	return &fieldStep{b: b, idx: len(b.fields) - 1}
}

// Validator binds rule to the named fields. The validator runs after field
// coercion whenever all of its fields are present on the instance.
func (b *Builder) Validator(name string, rule Rule, fields ...string) *Builder {
	b.validators = append(b.validators, Bind(name, rule, fields...))
	return b
}

// With appends pre-built validator bindings (see the rules package).
func (b *Builder) With(vs ...Validator) *Builder {
	for _, v := range vs {
		b.validators = append(b.validators, v.clone())
	}
	return b
}

// UnknownStrict rejects keys outside the field set (default).
func (b *Builder) UnknownStrict() *Builder {
	b.policy = UnknownStrict
	return b
}

// UnknownStrip silently drops keys outside the field set.
func (b *Builder) UnknownStrip() *Builder {
	b.policy = UnknownStrip
	return b
}

// Required marks the current field as required and returns the builder.
func (f *fieldStep) Required() *Builder {
	fd := &f.b.fields[f.idx]
	fd.Required = true
	return f.b
}

// Optional lets the current field be omitted; omitted fields are absent from
// the instance.
func (f *fieldStep) Optional() *Builder {
	f.b.fields[f.idx].Required = false
	return f.b
}

// Default sets a static default. It is coerced through the field type at
// Build time.
func (f *fieldStep) Default(v any) *Builder {
	fd := &f.b.fields[f.idx]
	fd.Required = false
	fd.hasDefault = true
	fd.defaultVal = v
	fd.defaultFunc = nil
	return f.b
}

// DefaultFunc sets a default factory called for every instance that omits
// the field.
func (f *fieldStep) DefaultFunc(fn func() any) *Builder {
	fd := &f.b.fields[f.idx]
	fd.Required = false
	fd.hasDefault = fn != nil
	fd.defaultVal = nil
	fd.defaultFunc = fn
	return f.b
}

func (f *fieldStep) Field(name string, typ FieldType) *fieldStep { return f.b.Field(name, typ) }
func (f *fieldStep) Validator(name string, rule Rule, fields ...string) *Builder {
	return f.b.Validator(name, rule, fields...)
}
func (f *fieldStep) With(vs ...Validator) *Builder { return f.b.With(vs...) }
func (f *fieldStep) UnknownStrict() *Builder       { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownStrip() *Builder        { return f.b.UnknownStrip() }
func (f *fieldStep) Build() (*Schema, error)       { return f.b.Build() }
func (f *fieldStep) MustBuild() *Schema            { return f.b.MustBuild() }

// Build validates the declaration and returns the schema. Every failure is a
// *DefinitionError; nothing is registered on failure.
func (b *Builder) Build() (*Schema, error) {
	if b.name == "" {
		return nil, defErr(b.name, ErrInvalidName)
	}
	if !b.reuseName && b.parent.namedInChain(b.name) {
		return nil, defErr(b.name, ErrNameConflict)
	}
	if len(b.dups) > 0 {
		return nil, defErr(b.name, ErrDuplicateField, b.dups...)
	}
	fields := slices.Clone(b.fields)
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.Name] = i
	}
	for i := range fields {
		f := &fields[i]
		if _, ok := b.inherited[f.Name]; ok || !f.hasDefault || f.defaultFunc != nil {
			continue
		}
		cv, err := f.coerce(context.Background(), f.defaultVal)
		if err != nil {
			return nil, &DefinitionError{Schema: b.name, Kind: ErrInvalidDefault, Fields: []string{f.Name}, Cause: err}
		}
		f.defaultVal = cv
	}
	var unbound []string
	validators := make([]Validator, 0, len(b.validators))
	for _, v := range b.validators {
		if !v.boundTo(index) {
			unbound = append(unbound, v.Name)
			continue
		}
		validators = append(validators, v.clone())
	}
	if len(unbound) > 0 {
		return nil, defErr(b.name, ErrUnboundValidator, unbound...)
	}
	reg := b.registry
	if reg == nil {
		reg = NewRegistry()
	}
	s := &Schema{
		name:       b.name,
		fields:     fields,
		index:      index,
		validators: validators,
		policy:     b.policy,
		parent:     b.parent,
		registry:   reg,
	}
	if !b.reuseName {
		if err := reg.register(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Extend starts a declaration that inherits every field and validator of s
// and adds new ones. Redeclaring an inherited field is a definition error.
// An empty name reuses s's name.
func (s *Schema) Extend(name string) *Builder {
	reuse := name == ""
	if reuse {
		name = s.name
	}
	inherited := make(map[string]struct{}, len(s.fields))
	for _, f := range s.fields {
		inherited[f.Name] = struct{}{}
	}
	return &Builder{
		name:       name,
		fields:     slices.Clone(s.fields),
		validators: s.Validators(),
		policy:     s.policy,
		parent:     s,
		registry:   s.registry,
		inherited:  inherited,
		reuseName:  reuse,
	}
}
