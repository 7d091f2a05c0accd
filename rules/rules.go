// Package rules provides ready-made validator bindings. Each constructor
// returns a skema.Validator naming the fields it reads, so projections drop
// it together with those fields.
package rules

import (
	"context"
	"fmt"
	"reflect"
	"time"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/i18n"
)

// Range requires a numeric field to lie within [min, max].
func Range(field string, min, max float64) skema.Validator {
	name := fmt.Sprintf("%s_in_range", field)
	return skema.Bind(name, func(ctx context.Context, v skema.Values) error {
		x, ok := v.Get(field)
		if !ok || x == nil {
			return nil
		}
		f, ok := toFloat(x)
		if !ok {
			return nil
		}
		p := skema.PointerField(field)
		if f < min {
			return skema.Issues{{Path: p, Code: skema.CodeTooSmall, Message: i18n.T(skema.CodeTooSmall, nil), Params: map[string]any{"min": min, "got": f}}}
		}
		if f > max {
			return skema.Issues{{Path: p, Code: skema.CodeTooBig, Message: i18n.T(skema.CodeTooBig, nil), Params: map[string]any{"max": max, "got": f}}}
		}
		return nil
	}, field)
}

// MinLen requires a string, list or map field to hold at least n elements.
func MinLen(field string, n int) skema.Validator {
	name := fmt.Sprintf("%s_min_len", field)
	return skema.Bind(name, func(ctx context.Context, v skema.Values) error {
		x, ok := v.Get(field)
		if !ok || x == nil {
			return nil
		}
		rv := reflect.ValueOf(x)
		switch rv.Kind() {
		case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		default:
			return nil
		}
		if rv.Len() < n {
			return skema.Issues{{Path: skema.PointerField(field), Code: skema.CodeTooShort, Message: i18n.T(skema.CodeTooShort, nil), Params: map[string]any{"min": n, "got": rv.Len()}}}
		}
		return nil
	}, field)
}

// Requires demands that dependency is non-nil whenever field is non-nil.
// Both fields must be declared for the binding to exist.
func Requires(field, dependency string) skema.Validator {
	name := fmt.Sprintf("%s_requires_%s", field, dependency)
	return skema.Bind(name, func(ctx context.Context, v skema.Values) error {
		x, _ := v.Get(field)
		if x == nil {
			return nil
		}
		if d, _ := v.Get(dependency); d != nil {
			return nil
		}
		return skema.Issues{{
			Path:    skema.PointerField(dependency),
			Code:    skema.CodeValidator,
			Message: fmt.Sprintf("%s is required when %s is set", dependency, field),
			Params:  map[string]any{"field": field, "dependency": dependency},
		}}
	}, field, dependency)
}

// Before requires the time in earlier to not be after the time in later.
// Nil values are ignored.
func Before(earlier, later string) skema.Validator {
	name := fmt.Sprintf("%s_before_%s", earlier, later)
	return skema.Bind(name, func(ctx context.Context, v skema.Values) error {
		a, aok := v[earlier].(time.Time)
		b, bok := v[later].(time.Time)
		if !aok || !bok {
			return nil
		}
		if a.After(b) {
			return skema.Issues{{
				Path:    skema.PointerField(later),
				Code:    skema.CodeValidator,
				Message: fmt.Sprintf("%s must not be before %s", later, earlier),
				Params:  map[string]any{"earlier": earlier, "later": later},
			}}
		}
		return nil
	}, earlier, later)
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
