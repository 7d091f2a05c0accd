package skema

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/skema/i18n"
)

// Source decodes a wire document into the raw mapping handed to Construct.
type Source interface {
	// Decode returns the decoded document. Decoding problems are reported as
	// Issues (parse_error, duplicate_key, invalid_type).
	Decode() (any, error)
	// Format names the wire format ("json", "yaml").
	Format() string
}

// ConstructFrom decodes src and constructs an instance of s from it.
func ConstructFrom(ctx context.Context, s *Schema, src Source) (*Instance, error) {
	if s == nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: "nil schema"}}
	}
	v, err := src.Decode()
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Hint: "expected object"}}
	}
	return s.Construct(ctx, m)
}

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return jsonSource{r: bytes.NewReader(b)} }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return jsonSource{r: r} }

// YAMLBytes wraps a byte slice as a YAML Source. Only the first document is
// read.
func YAMLBytes(b []byte) Source { return yamlSource{data: b} }

type jsonSource struct{ r io.Reader }

func (jsonSource) Format() string { return "json" }

// Decode walks the token stream so duplicate keys can be reported; numbers
// are kept as json.Number.
func (s jsonSource) Decode() (any, error) {
	dec := json.NewDecoder(s.r)
	dec.UseNumber()
	d := &tokenDecoder{dec: dec}
	v, err := d.value("")
	if err != nil {
		return nil, parseIssue(err)
	}
	if len(d.dups) > 0 {
		return nil, d.dups
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "trailing data after document"}}
	}
	return v, nil
}

type tokenDecoder struct {
	dec  *json.Decoder
	dups Issues
}

func (d *tokenDecoder) value(path string) (any, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, err
	}
	return d.fromToken(tok, path)
}

func (d *tokenDecoder) fromToken(tok json.Token, path string) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return d.object(path)
		case '[':
			return d.array(path)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
	default:
		return t, nil
	}
}

func (d *tokenDecoder) object(path string) (map[string]any, error) {
	out := map[string]any{}
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		p := path + PointerField(key)
		v, err := d.value(p)
		if err != nil {
			return nil, err
		}
		if _, seen := out[key]; seen {
			d.dups = AppendIssues(d.dups, Issue{Path: p, Code: CodeDuplicateKey, Message: i18n.T(CodeDuplicateKey, nil)})
		}
		out[key] = v
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *tokenDecoder) array(path string) ([]any, error) {
	out := []any{}
	for d.dec.More() {
		v, err := d.value(path + "/" + strconv.Itoa(len(out)))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

type yamlSource struct{ data []byte }

func (yamlSource) Format() string { return "yaml" }

func (s yamlSource) Decode() (any, error) {
	var node any
	if err := yaml.Unmarshal(s.data, &node); err != nil {
		return nil, parseIssue(err)
	}
	return yamlToJSONish(node), nil
}

// yamlToJSONish converts YAML maps with non-string keys into map[string]any.
func yamlToJSONish(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = yamlToJSONish(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = yamlToJSONish(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = yamlToJSONish(e)
		}
		return out
	default:
		return v
	}
}

func parseIssue(err error) Issues {
	if errors.Is(err, io.EOF) {
		return Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: "empty document", Cause: err}}
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: err.Error(), Cause: err}}
}
