package jsonschema

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	// Core
	Title   string `json:"title,omitempty"`
	Type    any    `json:"type,omitempty"` // string, or []string for nullable types
	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`
	Enum    []any  `json:"enum,omitempty"`

	// Number
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// String
	MinLength *int `json:"minLength,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`
}

// WithNull returns a copy of s whose type also admits null.
func (s *Schema) WithNull() *Schema {
	if s == nil {
		return &Schema{}
	}
	out := *s
	switch t := s.Type.(type) {
	case string:
		if t != "" {
			out.Type = []string{t, "null"}
		}
	case []string:
		out.Type = append(append([]string{}, t...), "null")
	}
	return &out
}
