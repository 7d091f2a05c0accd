package skema_test

import (
	"context"
	"strings"
	"testing"

	skema "github.com/reoring/skema"
	g "github.com/reoring/skema/dsl"
)

func pointSchema() *skema.Schema {
	return skema.Define("Point").
		Field("x", g.Int()).
		Field("tags", g.List(g.String())).Default([]any{}).
		MustBuild()
}

func TestConstructFrom_JSON(t *testing.T) {
	inst, err := skema.ConstructFrom(context.Background(), pointSchema(), skema.JSONBytes([]byte(`{"x": 3, "tags": ["a"]}`)))
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if x, _ := skema.Get[int64](inst, "x"); x != 3 {
		t.Fatalf("x=%v", x)
	}
}

func TestConstructFrom_DuplicateKey(t *testing.T) {
	_, err := skema.ConstructFrom(context.Background(), pointSchema(), skema.JSONReader(strings.NewReader(`{"x":1,"x":2}`)))
	iss, ok := skema.AsIssues(err)
	if !ok || !iss.HasCode("/x", skema.CodeDuplicateKey) {
		t.Fatalf("expected duplicate_key at /x, got %v", err)
	}
}

func TestConstructFrom_TrailingData(t *testing.T) {
	_, err := skema.ConstructFrom(context.Background(), pointSchema(), skema.JSONBytes([]byte(`{"x":1} {}`)))
	iss, ok := skema.AsIssues(err)
	if !ok || !iss.HasCode("", skema.CodeParseError) {
		t.Fatalf("expected parse_error, got %v", err)
	}
}

func TestConstructFrom_NonObjectRoot(t *testing.T) {
	_, err := skema.ConstructFrom(context.Background(), pointSchema(), skema.JSONBytes([]byte(`[1,2]`)))
	iss, ok := skema.AsIssues(err)
	if !ok || !iss.HasCode("/", skema.CodeInvalidType) {
		t.Fatalf("expected invalid_type at /, got %v", err)
	}
}

func TestConstructFrom_YAML(t *testing.T) {
	inst, err := skema.ConstructFrom(context.Background(), pointSchema(), skema.YAMLBytes([]byte("x: 4\ntags:\n  - a\n  - b\n")))
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	tags, _ := skema.Get[[]any](inst, "tags")
	if len(tags) != 2 || tags[1] != "b" {
		t.Fatalf("tags=%v", tags)
	}
}

func TestConstructFrom_YAMLUnknownKey(t *testing.T) {
	_, err := skema.ConstructFrom(context.Background(), pointSchema(), skema.YAMLBytes([]byte("x: 4\nz: 1\n")))
	iss, ok := skema.AsIssues(err)
	if !ok || !iss.HasCode("/z", skema.CodeUnknownKey) {
		t.Fatalf("expected unknown_key at /z, got %v", err)
	}
}

func TestConstructFrom_ListElementPath(t *testing.T) {
	_, err := skema.ConstructFrom(context.Background(), pointSchema(), skema.JSONBytes([]byte(`{"x":1,"tags":["a",2]}`)))
	iss, _ := skema.AsIssues(err)
	if !iss.HasCode("/tags/1", skema.CodeInvalidType) {
		t.Fatalf("issues=%v", iss)
	}
}
