// Package middleware validates HTTP request bodies against a skema schema.
// Framework adapters live in the echo and gin submodules and share the
// context helpers and payload shape defined here.
package middleware

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"

	skema "github.com/reoring/skema"
)

type ctxKeyInstance struct{}

// ContextWithInstance attaches a validated instance to the context.
func ContextWithInstance(ctx context.Context, inst *skema.Instance) context.Context {
	return context.WithValue(ctx, ctxKeyInstance{}, inst)
}

// InstanceFromContext retrieves the instance stored by ContextWithInstance.
func InstanceFromContext(ctx context.Context) (*skema.Instance, bool) {
	inst, ok := ctx.Value(ctxKeyInstance{}).(*skema.Instance)
	return inst, ok && inst != nil
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues skema.Issues) map[string]any {
	return map[string]any{"issues": issues}
}

// Decode constructs an instance of s from a JSON request body. Errors that
// are not Issues (read failures) are wrapped as a single parse_error issue so
// callers always answer with the same payload shape.
func Decode(r *http.Request, s *skema.Schema) (*skema.Instance, skema.Issues) {
	inst, err := skema.ConstructFrom(r.Context(), s, skema.JSONReader(r.Body))
	if err == nil {
		return inst, nil
	}
	if iss, ok := skema.AsIssues(err); ok {
		return nil, iss
	}
	return nil, skema.Issues{{Path: "/", Code: skema.CodeParseError, Message: err.Error(), Cause: err}}
}

// ValidateJSON decodes the request body via s, stores the instance in the
// request context and calls next. On failure it answers 400 with the issues.
func ValidateJSON(s *skema.Schema) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inst, iss := Decode(r, s)
			if iss != nil {
				WriteJSON(w, http.StatusBadRequest, ErrorPayload(iss))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithInstance(r.Context(), inst)))
		})
	}
}

// WriteInstance answers with the deep serialization of inst.
func WriteInstance(w http.ResponseWriter, status int, inst *skema.Instance, opts ...skema.SerializeOpt) {
	WriteJSON(w, status, inst.Serialize(opts...))
}

// WriteJSON encodes v as the response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
