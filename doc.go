// Package skema provides strict, immutable object schemas and projections
// derived from them.
//
//   - Define/Registry.Define declare a schema: ordered typed fields (see the
//     dsl package), defaults, and validator bindings naming the fields they
//     read. Unknown keys are rejected unless UnknownStrip is chosen.
//   - Construct validates a map into an Instance or returns Issues (JSON
//     Pointer, code, message). Nested schemas keep their own strictness.
//   - Serialize turns an Instance back into a map, deep by default or
//     shallow (nested instances kept as live values).
//   - Project (or Schema.Subclass) derives a schema with a subset of the
//     parent's fields. Validators that read a removed field are dropped from
//     the child. Bad declarations fail with *DefinitionError at definition
//     time, never at construction time.
//   - Extend adds new fields on top of any schema, projected or not.
//
// Schemas are built once at init and are read-only afterwards, so Construct
// and Serialize are safe for concurrent use without locking.
//
// Typical usage:
//
//	flow := reg.Define("Flow").
//	    Field("id", dsl.UUID()).DefaultFunc(newID).
//	    Field("name", dsl.String()).
//	    Field("tags", dsl.List(dsl.String())).Default([]any{}).
//	    MustBuild()
//	flowCreate := flow.MustSubclass("FlowCreate", skema.Include("name", "tags"))
//
//	inst, err := skema.ConstructFrom(ctx, flowCreate, skema.JSONBytes(body))
//	wire := inst.Serialize()
package skema
