package skema

import (
	"slices"

	json "github.com/goccy/go-json"
)

// Instance is a validated value conforming to a Schema. Instances are
// immutable; nested object fields hold *Instance values.
type Instance struct {
	schema *Schema
	values Values
	// set records fields supplied by the input, as opposed to defaults.
	set map[string]struct{}
}

// Schema returns the schema the instance was constructed against.
func (i *Instance) Schema() *Schema { return i.schema }

// Get returns the value of a field and whether it is present on the instance.
// Fields that are not declared on the schema are never present. List and map
// values are copies; nested instances are shared.
func (i *Instance) Get(name string) (any, bool) {
	v, ok := i.values[name]
	return cloneValue(v), ok
}

// Has reports whether the field is present on the instance.
func (i *Instance) Has(name string) bool {
	_, ok := i.values[name]
	return ok
}

// IsSet reports whether the field was supplied by the input rather than
// filled from a default.
func (i *Instance) IsSet(name string) bool {
	_, ok := i.set[name]
	return ok
}

// Keys returns the present field names in declaration order.
func (i *Instance) Keys() []string {
	out := make([]string, 0, len(i.values))
	for _, f := range i.schema.fields {
		if _, ok := i.values[f.Name]; ok {
			out = append(out, f.Name)
		}
	}
	return out
}

// Get returns the field value as T. It reports false when the field is absent
// or holds a different type.
func Get[T any](i *Instance, name string) (T, bool) {
	v, ok := i.values[name]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := cloneValue(v).(T)
	return t, ok
}

// Serialize converts the instance into a map. By default nested instances
// are converted recursively; with Shallow they are returned as-is while lists
// and maps are still copied. Include
// and Exclude filter top-level keys only. When several options are passed
// the last one wins.
func (i *Instance) Serialize(opts ...SerializeOpt) map[string]any {
	var opt SerializeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	out := make(map[string]any, len(i.values))
	for _, k := range i.Keys() {
		if len(opt.Include) > 0 && !slices.Contains(opt.Include, k) {
			continue
		}
		if slices.Contains(opt.Exclude, k) {
			continue
		}
		if opt.ExcludeUnset && !i.IsSet(k) {
			continue
		}
		v := i.values[k]
		if opt.ExcludeNone && v == nil {
			continue
		}
		if opt.Shallow {
			out[k] = cloneValue(v)
			continue
		}
		out[k] = deepValue(v)
	}
	return out
}

// Equal reports whether both instances share a schema and deep-serialize to
// the same values.
func (i *Instance) Equal(o *Instance) bool {
	if i == nil || o == nil {
		return i == o
	}
	if i.schema != o.schema {
		return false
	}
	a, err := json.Marshal(i.Serialize())
	if err != nil {
		return false
	}
	b, err := json.Marshal(o.Serialize())
	if err != nil {
		return false
	}
	return string(a) == string(b)
}

// MarshalJSON encodes the deep serialization of the instance.
func (i *Instance) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Serialize())
}

// deepValue converts nested instances inside v into plain maps, copying
// lists and maps on the way.
func deepValue(v any) any {
	switch t := v.(type) {
	case *Instance:
		if t == nil {
			return nil
		}
		return t.Serialize()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepValue(e)
		}
		return out
	default:
		return v
	}
}

// cloneValue copies list and map containers so neither shared defaults nor
// values handed to callers alias instance state. Nested instances are kept.
func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
