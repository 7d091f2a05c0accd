package skema

import (
	"context"
	"slices"
)

// Values holds the coerced field values handed to a Rule. Each rule gets its
// own copy; writes to it never reach the instance.
type Values map[string]any

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, x := range v {
		out[k] = cloneValue(x)
	}
	return out
}

// Get returns the value for name and whether it is present.
func (v Values) Get(name string) (any, bool) {
	x, ok := v[name]
	return x, ok
}

// Rule is a cross-field validation function. It is an ordinary function: it
// can be called directly with any Values, bound or not.
type Rule func(ctx context.Context, v Values) error

// Validator binds a named Rule to the fields it reads. A schema only carries
// a validator when every one of those fields is declared on it.
type Validator struct {
	Name   string
	Fields []string
	Rule   Rule
}

// Bind is a convenience constructor for Validator.
func Bind(name string, rule Rule, fields ...string) Validator {
	return Validator{Name: name, Fields: slices.Clone(fields), Rule: rule}
}

// boundTo reports whether every referenced field is in set.
func (v Validator) boundTo(set map[string]int) bool {
	for _, f := range v.Fields {
		if _, ok := set[f]; !ok {
			return false
		}
	}
	return true
}

// ready reports whether every referenced field is present in vals.
func (v Validator) ready(vals Values) bool {
	for _, f := range v.Fields {
		if _, ok := vals[f]; !ok {
			return false
		}
	}
	return true
}

func (v Validator) clone() Validator {
	v.Fields = slices.Clone(v.Fields)
	return v
}

// run executes the rule and attributes its issues to the validator.
func (v Validator) run(ctx context.Context, vals Values) Issues {
	if v.Rule == nil {
		return nil
	}
	err := v.Rule(ctx, vals.clone())
	if err == nil {
		return nil
	}
	path := "/"
	if len(v.Fields) > 0 {
		path = PointerField(v.Fields[0])
	}
	var out Issues
	if child, ok := AsIssues(err); ok {
		for _, it := range child {
			if it.Path == "" {
				it.Path = path
			}
			if it.Code == "" {
				it.Code = CodeValidator
			}
			it.Rule = v.Name
			out = AppendIssues(out, it)
		}
		return out
	}
	return Issues{{Path: path, Code: CodeValidator, Message: err.Error(), Rule: v.Name, Params: map[string]any{"rule": v.Name}, Cause: err}}
}
