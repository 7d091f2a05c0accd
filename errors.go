package skema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeDuplicateKey  = "duplicate_key"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeParseError    = "parse_error"
	CodeValidator     = "validator"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer (for example: /state_details/flow_run_id).
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
	// Rule records the validator name that produced this issue, if any.
	Rule string `json:"rule,omitempty"`
	// Params carries structured parameters (e.g., {"min":1, "got":0}) for i18n
	// and observability.
	Params map[string]any `json:"params,omitempty"`
	Cause  error          `json:"-"`
}

// Issues is the error returned when an instance cannot be constructed. It is
// the only error kind expected at request-serving time.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unknown_key at /x
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Paths returns the path of every issue in order.
func (iss Issues) Paths() []string {
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Path)
	}
	return out
}

// HasCode reports whether any issue carries code at path. An empty path
// matches any path.
func (iss Issues) HasCode(path, code string) bool {
	for _, it := range iss {
		if it.Code == code && (path == "" || it.Path == path) {
			return true
		}
	}
	return false
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// RebaseIssues prefixes every issue path in err with base. Errors that are not
// Issues become a single parse_error issue at base.
func RebaseIssues(base string, err error) Issues {
	child, ok := AsIssues(err)
	if !ok {
		return Issues{{Path: base, Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

// PointerField escapes name as a single JSON Pointer segment (RFC 6901).
func PointerField(name string) string {
	return "/" + strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
}

// Definition error kinds. Use errors.Is against a *DefinitionError.
var (
	ErrIncludeExclude   = errors.New("include and exclude are mutually exclusive")
	ErrUnknownFields    = errors.New("fields not found on base schema")
	ErrEmptySchema      = errors.New("schema has no fields")
	ErrNameConflict     = errors.New("schema name already in use")
	ErrDuplicateField   = errors.New("field declared more than once")
	ErrUnboundValidator = errors.New("validator references undeclared fields")
	ErrInvalidDefault   = errors.New("default value does not satisfy field type")
	ErrInvalidName      = errors.New("invalid name")
	ErrNilParent        = errors.New("parent schema is nil")
)

// DefinitionError reports a defect in a schema declaration. It is returned
// synchronously by Build, Project and Subclass and is never retryable.
type DefinitionError struct {
	Schema string   // Name of the schema being defined.
	Kind   error    // One of the Err* kinds above.
	Fields []string // Offending field or validator names, when applicable.
	Cause  error    // Optional underlying error (e.g. issues from a default).
}

func (e *DefinitionError) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "skema: define %q: %v", e.Schema, e.Kind)
	if len(e.Fields) > 0 {
		fmt.Fprintf(b, ": %s", strings.Join(e.Fields, ", "))
	}
	if e.Cause != nil {
		fmt.Fprintf(b, " (%v)", e.Cause)
	}
	return b.String()
}

// Unwrap exposes the kind so errors.Is(err, ErrUnknownFields) works.
func (e *DefinitionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func defErr(schema string, kind error, fields ...string) *DefinitionError {
	return &DefinitionError{Schema: schema, Kind: kind, Fields: fields}
}
