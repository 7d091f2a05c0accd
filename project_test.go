package skema_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"slices"
	"strings"
	"testing"

	skema "github.com/reoring/skema"
	g "github.com/reoring/skema/dsl"
)

func xyz(t *testing.T, reg *skema.Registry) *skema.Schema {
	t.Helper()
	b := skema.Define("Parent")
	if reg != nil {
		b = reg.Define("Parent")
	}
	s, err := b.
		Field("x", g.Int()).
		Field("y", g.Int()).Default(2).
		Field("z", g.Int()).Optional().
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return s
}

func TestProject_IsChildOfParent(t *testing.T) {
	parent := xyz(t, nil)
	child, err := skema.Project(parent, "Child")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if child.Parent() != parent || !child.DerivesFrom(parent) {
		t.Fatalf("child must record parent")
	}
	if parent.DerivesFrom(child) {
		t.Fatalf("parent must not derive from child")
	}
}

func TestProject_LeavesParentUnchanged(t *testing.T) {
	xBelowY := func(ctx context.Context, v skema.Values) error {
		if v["x"].(int64) >= v["y"].(int64) {
			return errors.New("x must be below y")
		}
		return nil
	}
	parent := skema.Define("Parent").
		Field("x", g.Int()).
		Field("y", g.Int()).Default(2).
		Field("z", g.Int()).Optional().
		Validator("x_below_y", xBelowY, "x", "y").
		MustBuild()
	fields := parent.Fields()
	validators := parent.Validators()

	a := parent.MustSubclass("A", skema.Include("x"))
	b := parent.MustSubclass("B", skema.Exclude("x"))

	after := parent.Fields()
	if len(after) != len(fields) {
		t.Fatalf("parent fields changed: %v", parent.FieldNames())
	}
	for i := range fields {
		if !after[i].Equal(fields[i]) {
			t.Fatalf("parent field %s changed: %+v", fields[i].Name, after[i])
		}
	}
	gotV := parent.Validators()
	if len(gotV) != len(validators) {
		t.Fatalf("parent validators changed: %d -> %d", len(validators), len(gotV))
	}
	for i, v := range validators {
		if gotV[i].Name != v.Name || !slices.Equal(gotV[i].Fields, v.Fields) {
			t.Fatalf("parent validator %s changed: %+v", v.Name, gotV[i])
		}
	}
	if len(a.Validators()) != 0 || len(b.Validators()) != 0 {
		t.Fatalf("projections dropping x must drop x_below_y")
	}
	if !slices.Equal(a.FieldNames(), []string{"x"}) {
		t.Fatalf("A fields=%v", a.FieldNames())
	}
	if !slices.Equal(b.FieldNames(), []string{"y", "z"}) {
		t.Fatalf("B fields=%v", b.FieldNames())
	}
	if _, err := parent.Construct(context.Background(), map[string]any{"x": 1, "z": 3}); err != nil {
		t.Fatalf("parent construct after projections: %v", err)
	}
	_, err := parent.Construct(context.Background(), map[string]any{"x": 5})
	if iss, _ := skema.AsIssues(err); len(iss) != 1 || iss[0].Rule != "x_below_y" {
		t.Fatalf("parent validator must still run, got %v", err)
	}
}

func TestProject_DefaultAndCustomName(t *testing.T) {
	parent := xyz(t, nil)
	if got := skema.MustProject(parent, "").Name(); got != "Parent" {
		t.Fatalf("default name=%q", got)
	}
	if got := skema.MustProject(parent, "Custom").Name(); got != "Custom" {
		t.Fatalf("custom name=%q", got)
	}
}

func TestProject_IsSilent(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	parent := xyz(t, nil)
	_ = skema.MustProject(parent, "", skema.Exclude("z"))
	if buf.Len() != 0 {
		t.Fatalf("projection logged: %q", buf.String())
	}
}

func TestProject_KeepsDefaults(t *testing.T) {
	child := xyz(t, nil).MustSubclass("Child")
	inst, err := child.Construct(context.Background(), map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if v, _ := skema.Get[int64](inst, "y"); v != 2 {
		t.Fatalf("y=%v", v)
	}
	cf, _ := child.Field("y")
	pf, _ := child.Parent().Field("y")
	if cf.Owner != "Parent" || !cf.Equal(pf) {
		t.Fatalf("child field differs from parent: %+v", cf)
	}
}

func TestProject_Include(t *testing.T) {
	child := xyz(t, nil).MustSubclass("Child", skema.Include("x", "y"))
	if !slices.Equal(child.FieldNames(), []string{"x", "y"}) {
		t.Fatalf("fields=%v", child.FieldNames())
	}
	_, err := child.Construct(context.Background(), map[string]any{"x": 1, "z": 3})
	iss, ok := skema.AsIssues(err)
	if !ok || !iss.HasCode("/z", skema.CodeUnknownKey) {
		t.Fatalf("expected unknown_key at /z, got %v", err)
	}
}

func TestProject_Exclude(t *testing.T) {
	child := xyz(t, nil).MustSubclass("Child", skema.Exclude("x"))
	if !slices.Equal(child.FieldNames(), []string{"y", "z"}) {
		t.Fatalf("fields=%v", child.FieldNames())
	}
	if _, err := child.Construct(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("x is gone, so empty input must be valid: %v", err)
	}
}

func TestProject_IncludeOrderFollowsParent(t *testing.T) {
	child := xyz(t, nil).MustSubclass("Child", skema.Include("z", "x"))
	if !slices.Equal(child.FieldNames(), []string{"x", "z"}) {
		t.Fatalf("fields=%v", child.FieldNames())
	}
}

func TestProject_IncludeAndExcludeRejected(t *testing.T) {
	_, err := skema.Project(xyz(t, nil), "Child", skema.Include("x"), skema.Exclude("y"))
	if !errors.Is(err, skema.ErrIncludeExclude) {
		t.Fatalf("expected ErrIncludeExclude, got %v", err)
	}
}

func TestProject_UnknownNamesRejected(t *testing.T) {
	parent := xyz(t, nil)
	for _, opt := range []skema.ProjectOption{skema.Include("q"), skema.Exclude("q")} {
		_, err := skema.Project(parent, "Child", opt)
		if !errors.Is(err, skema.ErrUnknownFields) {
			t.Fatalf("expected ErrUnknownFields, got %v", err)
		}
		var de *skema.DefinitionError
		if !errors.As(err, &de) || !slices.Equal(de.Fields, []string{"q"}) {
			t.Fatalf("expected offending field q, got %v", err)
		}
		if !strings.Contains(err.Error(), "fields not found on base schema") {
			t.Fatalf("message=%q", err.Error())
		}
	}
}

func TestProject_EmptyResultRejected(t *testing.T) {
	_, err := skema.Project(xyz(t, nil), "Child", skema.Exclude("x", "y", "z"))
	if !errors.Is(err, skema.ErrEmptySchema) {
		t.Fatalf("expected ErrEmptySchema, got %v", err)
	}
}

func TestProject_NameConflictInRegistry(t *testing.T) {
	reg := skema.NewRegistry()
	parent := xyz(t, reg)
	if _, err := parent.Subclass("Child", skema.Include("x")); err != nil {
		t.Fatalf("first projection: %v", err)
	}
	_, err := parent.Subclass("Child", skema.Include("y"))
	if !errors.Is(err, skema.ErrNameConflict) {
		t.Fatalf("expected ErrNameConflict, got %v", err)
	}
	if s, _ := reg.Lookup("Child"); !slices.Equal(s.FieldNames(), []string{"x"}) {
		t.Fatalf("registry entry replaced: %v", s.FieldNames())
	}
	// defaulted names keep the parent identity and never collide
	if _, err := parent.Subclass(""); err != nil {
		t.Fatalf("defaulted name: %v", err)
	}
	if !slices.Equal(reg.Names(), []string{"Child", "Parent"}) {
		t.Fatalf("names=%v", reg.Names())
	}
}

func TestProject_StandaloneNameConflict(t *testing.T) {
	parent := xyz(t, nil)
	if _, err := parent.Subclass("Child", skema.Include("x")); err != nil {
		t.Fatalf("first projection: %v", err)
	}
	_, err := parent.Subclass("Child", skema.Include("y"))
	if !errors.Is(err, skema.ErrNameConflict) {
		t.Fatalf("sibling with same name: expected ErrNameConflict, got %v", err)
	}
	if s, _ := parent.Registry().Lookup("Child"); !slices.Equal(s.FieldNames(), []string{"x"}) {
		t.Fatalf("lineage entry replaced: %v", s.FieldNames())
	}
	// unrelated standalone roots do not share names
	if _, err := xyz(t, nil).Subclass("Child", skema.Include("y")); err != nil {
		t.Fatalf("separate lineage: %v", err)
	}
}

func TestProject_AncestorNameRejected(t *testing.T) {
	for _, reg := range []*skema.Registry{nil, skema.NewRegistry()} {
		parent := xyz(t, reg)
		_, err := skema.Project(parent, "Parent", skema.Include("y"))
		if !errors.Is(err, skema.ErrNameConflict) {
			t.Fatalf("registry=%v: expected ErrNameConflict, got %v", reg != nil, err)
		}
		child := parent.MustSubclass("Child", skema.Include("x", "y"))
		_, err = child.Subclass("Parent", skema.Include("y"))
		if !errors.Is(err, skema.ErrNameConflict) {
			t.Fatalf("grandchild named after root: expected ErrNameConflict, got %v", err)
		}
		_, err = child.Extend("Parent").Field("w", g.Int()).Build()
		if !errors.Is(err, skema.ErrNameConflict) {
			t.Fatalf("extension named after root: expected ErrNameConflict, got %v", err)
		}
		var de *skema.DefinitionError
		if !errors.As(err, &de) || de.Schema != "Parent" {
			t.Fatalf("expected *DefinitionError for Parent, got %v", err)
		}
		// defaulted names keep the parent identity
		if _, err := child.Subclass("", skema.Include("y")); err != nil {
			t.Fatalf("defaulted name: %v", err)
		}
		if _, err := child.Extend("").Field("w", g.Int()).Build(); err != nil {
			t.Fatalf("defaulted extension name: %v", err)
		}
	}
}

func TestProject_NilParentRejected(t *testing.T) {
	_, err := skema.Project(nil, "Child", skema.Include("x"))
	if !errors.Is(err, skema.ErrNilParent) {
		t.Fatalf("expected ErrNilParent, got %v", err)
	}
	var de *skema.DefinitionError
	if !errors.As(err, &de) || de.Schema != "Child" {
		t.Fatalf("expected *DefinitionError, got %T", err)
	}
}

func TestProject_ExtendKeepsStrictness(t *testing.T) {
	child := xyz(t, nil).MustSubclass("Child", skema.Include("x"))
	ext, err := child.Extend("Extended").Field("w", g.Int()).Build()
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if !slices.Equal(ext.FieldNames(), []string{"x", "w"}) {
		t.Fatalf("fields=%v", ext.FieldNames())
	}
	ctx := context.Background()
	if _, err := ext.Construct(ctx, map[string]any{"x": 1, "w": 2}); err != nil {
		t.Fatalf("construct: %v", err)
	}
	_, err = ext.Construct(ctx, map[string]any{"x": 1, "w": 2, "y": 3})
	iss, ok := skema.AsIssues(err)
	if !ok || !iss.HasCode("/y", skema.CodeUnknownKey) {
		t.Fatalf("expected unknown_key at /y, got %v", err)
	}
	if iss[0].Hint != "extra fields not permitted" {
		t.Fatalf("hint=%q", iss[0].Hint)
	}
}

func TestProject_ExtendRedeclareRejected(t *testing.T) {
	child := xyz(t, nil).MustSubclass("Child", skema.Include("x"))
	_, err := child.Extend("Extended").Field("x", g.String()).Build()
	if !errors.Is(err, skema.ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
}

func TestProject_PrunesValidatorOfRemovedField(t *testing.T) {
	ruleErr := errors.New("y must exceed x")
	yAboveX := func(ctx context.Context, v skema.Values) error {
		x, _ := v["x"].(int64)
		y, ok := v["y"].(int64)
		if !ok {
			return errors.New("y is missing")
		}
		if y <= x {
			return ruleErr
		}
		return nil
	}
	parent := skema.Define("Parent").
		Field("x", g.Int()).
		Field("y", g.Int()).
		Validator("y_above_x", yAboveX, "x", "y").
		MustBuild()

	child, err := parent.Subclass("Child", skema.Exclude("y"))
	if err != nil {
		t.Fatalf("projection dropping a validated field must succeed: %v", err)
	}
	if _, ok := child.Validator("y_above_x"); ok {
		t.Fatalf("validator should be pruned from child")
	}
	if _, ok := parent.Validator("y_above_x"); !ok {
		t.Fatalf("parent validator must stay")
	}
	if _, err := child.Construct(context.Background(), map[string]any{"x": 5}); err != nil {
		t.Fatalf("child construct: %v", err)
	}

	// the rule is still an ordinary function and fails on its own terms
	if err := yAboveX(context.Background(), skema.Values{"x": int64(1)}); err == nil || err.Error() != "y is missing" {
		t.Fatalf("direct call err=%v", err)
	}

	_, err = parent.Construct(context.Background(), map[string]any{"x": 5, "y": 1})
	iss, ok := skema.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Rule != "y_above_x" || iss[0].Path != "/x" {
		t.Fatalf("expected validator issue on parent, got %v", err)
	}
	if !errors.Is(iss[0].Cause, ruleErr) {
		t.Fatalf("cause=%v", iss[0].Cause)
	}
}

func TestProject_SiblingsIndependent(t *testing.T) {
	parent := xyz(t, nil)
	a := parent.MustSubclass("A", skema.Include("x", "y"))
	b := parent.MustSubclass("B", skema.Include("y", "z"))
	if a.HasField("z") || b.HasField("x") {
		t.Fatalf("siblings leaked fields: %v %v", a.FieldNames(), b.FieldNames())
	}
	if a.Policy() != parent.Policy() || b.Policy() != parent.Policy() {
		t.Fatalf("policy not inherited")
	}
}

func TestProject_StripPolicyInherited(t *testing.T) {
	parent := skema.Define("Loose").Field("a", g.Int()).Field("b", g.Int()).UnknownStrip().MustBuild()
	child := parent.MustSubclass("LooseA", skema.Include("a"))
	inst, err := child.Construct(context.Background(), map[string]any{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("strip child must accept extra keys: %v", err)
	}
	if inst.Has("b") {
		t.Fatalf("b must be dropped")
	}
}

func TestProject_ChildOfY(t *testing.T) {
	parent := skema.Define("Parent").
		Field("x", g.Int()).
		Field("y", g.Int()).Default(2).
		MustBuild()
	child := skema.MustProject(parent, "Child", skema.Include("y"))
	ctx := context.Background()

	inst, err := child.Construct(ctx, map[string]any{"y": 1})
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if y, _ := skema.Get[int64](inst, "y"); y != 1 || inst.Has("x") {
		t.Fatalf("instance=%v", inst.Serialize())
	}
	if def := child.MustConstruct(ctx, nil); !def.Has("y") {
		t.Fatalf("default for y lost")
	}

	_, err = child.Construct(ctx, map[string]any{"x": 1, "y": 1})
	iss, ok := skema.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Params["key"] != "x" {
		t.Fatalf("expected a single issue naming x, got %v", err)
	}
}
