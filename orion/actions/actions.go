// Package actions declares the request bodies accepted by the orchestration
// API. Each one is a projection of a core entity. Audit fields and runtime
// state are dropped, and validators bound to dropped fields go with them.
package actions

import (
	skema "github.com/reoring/skema"
	"github.com/reoring/skema/orion/core"
)

var (
	// FlowCreate is the body of a flow creation request.
	FlowCreate = core.Flow.MustSubclass("FlowCreate",
		skema.Include("name", "tags", "parameters"))

	// FlowRunCreate is the body of a flow run creation request.
	FlowRunCreate = core.FlowRun.MustSubclass("FlowRunCreate",
		skema.Include(
			"flow_id",
			"flow_version",
			"parameters",
			"parent_task_run_id",
			"context",
			"tags",
			"flow_run_metadata",
		))

	// StateCreate is the body of a state transition request.
	StateCreate = core.State.MustSubclass("StateCreate",
		skema.Include("type", "name", "timestamp", "message", "data", "state_details"))

	// TaskRunCreate is the body of a task run creation request.
	TaskRunCreate = core.TaskRun.MustSubclass("TaskRunCreate",
		skema.Include(
			"flow_run_id",
			"task_key",
			"dynamic_key",
			"cache_key",
			"cache_expiration",
			"task_version",
			"empirical_policy",
			"tags",
			"task_inputs",
			"upstream_task_run_ids",
			"task_run_metadata",
		))
)

// All returns the action schemas in declaration order.
func All() []*skema.Schema {
	return []*skema.Schema{FlowCreate, FlowRunCreate, StateCreate, TaskRunCreate}
}
