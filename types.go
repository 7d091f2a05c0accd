package skema

import "context"

// UnknownPolicy controls how keys outside a schema's field set are handled.
type UnknownPolicy int

const (
	UnknownStrict UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                       // Drop unknown keys.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrict:
		return "strict"
	case UnknownStrip:
		return "strip"
	default:
		return "unknown"
	}
}

// FieldType coerces and validates a raw field value. Implementations live in
// the dsl package; any type satisfying this interface can be used in Field.
type FieldType interface {
	// Coerce converts v into the field's canonical Go representation or
	// returns Issues rooted at "/".
	Coerce(ctx context.Context, v any) (any, error)
	// Kind is a short human name ("int", "string", "object<Flow>") used in
	// hints and JSON Schema export.
	Kind() string
}

// SerializeOpt controls Instance.Serialize.
type SerializeOpt struct {
	// Shallow keeps nested *Instance values as-is instead of converting them
	// to maps.
	Shallow bool
	// Include restricts output to these top-level keys when non-empty.
	Include []string
	// Exclude drops these top-level keys.
	Exclude []string
	// ExcludeUnset drops fields whose value came from a default rather than
	// the input.
	ExcludeUnset bool
	// ExcludeNone drops fields whose value is nil.
	ExcludeNone bool
}

// ---- construct-time context options ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that stops construction at the first
// issue.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current construction should stop on the
// first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
