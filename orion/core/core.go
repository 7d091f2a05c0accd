// Package core declares the orchestration entities (flows, flow runs, task
// runs and states) as skema schemas. The action schemas accepted by the API
// are projections of these; see package actions.
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	skema "github.com/reoring/skema"
	g "github.com/reoring/skema/dsl"
	"github.com/reoring/skema/rules"
)

// Registry holds every entity and action schema by name.
var Registry = skema.NewRegistry()

// State types.
const (
	StateScheduled = "SCHEDULED"
	StatePending   = "PENDING"
	StateRunning   = "RUNNING"
	StateCompleted = "COMPLETED"
	StateFailed    = "FAILED"
	StateCancelled = "CANCELLED"
)

// StateTypes lists every state type.
var StateTypes = []string{StateScheduled, StatePending, StateRunning, StateCompleted, StateFailed, StateCancelled}

func newID() any { return uuid.New() }
func now() any   { return time.Now().UTC() }

// withORM adds the identity and audit fields shared by stored entities.
func withORM(b *skema.Builder) *skema.Builder {
	return b.
		Field("id", g.UUID()).DefaultFunc(newID).
		Field("created", g.Nullable(g.Time())).Default(nil).
		Field("updated", g.Nullable(g.Time())).Default(nil).
		With(rules.Before("created", "updated"))
}

// ValidateFlowName rejects names containing characters reserved in API paths.
func ValidateFlowName(ctx context.Context, v skema.Values) error {
	name, _ := v["name"].(string)
	if i := strings.IndexAny(name, "/%&><"); i >= 0 {
		return fmt.Errorf("name %q contains reserved character %q", name, name[i])
	}
	return nil
}

// ValidateScheduledTime requires a scheduled time on SCHEDULED states.
func ValidateScheduledTime(ctx context.Context, v skema.Values) error {
	if v["type"] != StateScheduled {
		return nil
	}
	details, _ := v["state_details"].(*skema.Instance)
	if details != nil {
		if t, ok := details.Get("scheduled_time"); ok && t != nil {
			return nil
		}
	}
	return skema.Issues{{Path: "/state_details/scheduled_time", Code: skema.CodeValidator, Message: "scheduled states require a scheduled_time"}}
}

// ValidateRunDetails checks that a run did not end before it started.
func ValidateRunDetails(ctx context.Context, v skema.Values) error {
	rd, _ := v["run_details"].(*skema.Instance)
	if rd == nil {
		return nil
	}
	start, sok := skema.Get[time.Time](rd, "start_time")
	end, eok := skema.Get[time.Time](rd, "end_time")
	if sok && eok && end.Before(start) {
		return skema.Issues{{Path: "/run_details/end_time", Code: skema.CodeValidator, Message: "end_time is before start_time"}}
	}
	return nil
}

var (
	// StateDetails links a state to its run and caching information.
	StateDetails = Registry.Define("StateDetails").
			Field("flow_run_id", g.Nullable(g.UUID())).Default(nil).
			Field("task_run_id", g.Nullable(g.UUID())).Default(nil).
			Field("scheduled_time", g.Nullable(g.Time())).Default(nil).
			Field("cache_key", g.Nullable(g.String())).Default(nil).
			Field("cache_expiration", g.Nullable(g.Time())).Default(nil).
			MustBuild()

	// RunDetails records execution statistics of a state.
	RunDetails = Registry.Define("RunDetails").
			Field("run_count", g.Int().Min(0)).Default(0).
			Field("start_time", g.Nullable(g.Time())).Default(nil).
			Field("end_time", g.Nullable(g.Time())).Default(nil).
			Field("total_run_time_seconds", g.Float().Min(0)).Default(0.0).
			MustBuild()

	// State is a point in the lifecycle of a flow or task run.
	State = Registry.Define("State").
		Field("id", g.UUID()).DefaultFunc(newID).
		Field("type", g.Enum(StateTypes...)).
		Field("name", g.Nullable(g.String())).Default(nil).
		Field("timestamp", g.Time()).DefaultFunc(now).
		Field("message", g.Nullable(g.String())).Default(nil).
		Field("data", g.Any()).Default(nil).
		Field("state_details", g.Object(StateDetails)).Default(map[string]any{}).
		Field("run_details", g.Object(RunDetails)).Default(map[string]any{}).
		Validator("scheduled_time_present", ValidateScheduledTime, "type", "state_details").
		Validator("run_details_consistent", ValidateRunDetails, "run_details").
		MustBuild()

	// Flow is a registered workflow definition.
	Flow = withORM(Registry.Define("Flow")).
		Field("name", g.String().MinLen(1)).
		Field("tags", g.List(g.String())).Default([]any{}).
		Field("parameters", g.Map(g.Any())).Default(map[string]any{}).
		Validator("name_reserved_chars", ValidateFlowName, "name").
		MustBuild()

	// FlowRun is one execution of a flow.
	FlowRun = withORM(Registry.Define("FlowRun")).
		Field("flow_id", g.UUID()).
		Field("flow_version", g.Nullable(g.String())).Default(nil).
		Field("parameters", g.Map(g.Any())).Default(map[string]any{}).
		Field("parent_task_run_id", g.Nullable(g.UUID())).Default(nil).
		Field("context", g.Map(g.Any())).Default(map[string]any{}).
		Field("empirical_config", g.Map(g.Any())).Default(map[string]any{}).
		Field("tags", g.List(g.String())).Default([]any{}).
		Field("flow_run_metadata", g.Map(g.Any())).Default(map[string]any{}).
		Field("state", g.Nullable(g.Object(State))).Default(nil).
		MustBuild()

	// TaskRunPolicy configures retries of a task run.
	TaskRunPolicy = Registry.Define("TaskRunPolicy").
			Field("max_retries", g.Int().Min(0)).Default(0).
			Field("retry_delay_seconds", g.Float().Min(0)).Default(0.0).
			MustBuild()

	// TaskRun is one execution of a task inside a flow run.
	TaskRun = withORM(Registry.Define("TaskRun")).
		Field("flow_run_id", g.UUID()).
		Field("task_key", g.String().MinLen(1)).
		Field("dynamic_key", g.String()).Default("").
		Field("cache_key", g.Nullable(g.String())).Default(nil).
		Field("cache_expiration", g.Nullable(g.Time())).Default(nil).
		Field("task_version", g.Nullable(g.String())).Default(nil).
		Field("empirical_policy", g.Object(TaskRunPolicy)).Default(map[string]any{}).
		Field("tags", g.List(g.String())).Default([]any{}).
		Field("task_inputs", g.Map(g.List(g.Any()))).Default(map[string]any{}).
		Field("upstream_task_run_ids", g.Map(g.UUID())).Default(map[string]any{}).
		Field("task_run_metadata", g.Map(g.Any())).Default(map[string]any{}).
		Field("run_count", g.Int()).Default(0).
		Field("state", g.Nullable(g.Object(State))).Default(nil).
		With(
			rules.Requires("cache_expiration", "cache_key"),
			rules.Range("run_count", 0, 1<<31),
		).
		MustBuild()
)
