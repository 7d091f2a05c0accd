package skema

import (
	"slices"
)

type projectConfig struct {
	include    []string
	exclude    []string
	hasInclude bool
	hasExclude bool
}

// ProjectOption selects the fields of a projection.
type ProjectOption func(*projectConfig)

// Include keeps only the named fields. It cannot be combined with Exclude.
func Include(names ...string) ProjectOption {
	return func(c *projectConfig) {
		c.hasInclude = true
		c.include = append(c.include, names...)
	}
}

// Exclude drops the named fields. It cannot be combined with Include.
func Exclude(names ...string) ProjectOption {
	return func(c *projectConfig) {
		c.hasExclude = true
		c.exclude = append(c.exclude, names...)
	}
}

// Project derives a schema exposing a subset of parent's fields.
//
// The field set is parent ∩ include or parent − exclude, in parent order; with
// neither option every field is kept. Validators survive only when every
// field they read survives. The child keeps the parent's unknown policy and
// records parent as its Parent. An empty name reuses the parent's name and
// the child is then not registered. An explicit name must be new to the
// parent's registry and must not match parent or any of its ancestors.
//
// Every failure is a *DefinitionError and leaves parent and its registry
// untouched. Project never mutates parent.
func Project(parent *Schema, name string, opts ...ProjectOption) (*Schema, error) {
	var cfg projectConfig
	for _, o := range opts {
		o(&cfg)
	}
	if parent == nil {
		return nil, defErr(name, ErrNilParent)
	}
	explicit := name != ""
	if !explicit {
		name = parent.name
	} else if parent.namedInChain(name) {
		return nil, defErr(name, ErrNameConflict)
	}
	if cfg.hasInclude && cfg.hasExclude {
		return nil, defErr(name, ErrIncludeExclude)
	}
	names := cfg.include
	if cfg.hasExclude {
		names = cfg.exclude
	}
	var missing []string
	for _, n := range names {
		if !parent.HasField(n) && !slices.Contains(missing, n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return nil, defErr(name, ErrUnknownFields, missing...)
	}

	fields := make([]Field, 0, len(parent.fields))
	for _, f := range parent.fields {
		switch {
		case cfg.hasInclude && !slices.Contains(cfg.include, f.Name):
			continue
		case cfg.hasExclude && slices.Contains(cfg.exclude, f.Name):
			continue
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return nil, defErr(name, ErrEmptySchema)
	}
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.Name] = i
	}
	validators := make([]Validator, 0, len(parent.validators))
	for _, v := range parent.validators {
		if v.boundTo(index) {
			validators = append(validators, v.clone())
		}
	}

	child := &Schema{
		name:       name,
		fields:     fields,
		index:      index,
		validators: validators,
		policy:     parent.policy,
		parent:     parent,
		registry:   parent.registry,
	}
	if explicit {
		if err := child.registry.register(child); err != nil {
			return nil, err
		}
	}
	return child, nil
}

// MustProject is like Project but panics on error. It suits package-level
// declarations evaluated at init.
func MustProject(parent *Schema, name string, opts ...ProjectOption) *Schema {
	s, err := Project(parent, name, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Subclass is the declarative form of Project bound to every schema.
func (s *Schema) Subclass(name string, opts ...ProjectOption) (*Schema, error) {
	return Project(s, name, opts...)
}

// MustSubclass is like Subclass but panics on error.
func (s *Schema) MustSubclass(name string, opts ...ProjectOption) *Schema {
	return MustProject(s, name, opts...)
}
