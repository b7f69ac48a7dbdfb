// Package engine defines the automation-engine abstraction and its backend
// adapters. It provides a pluggable interface so a job can be driven either
// by an in-process engine or by a durable Temporal-backed one without the
// rest of the job execution subsystem changing.
package engine

import (
	"context"
	"time"

	"github.com/sup-codac/oac-tree-gui/internal/telemetry"
)

type (
	// Engine abstracts workflow registration and execution so backends
	// (Temporal, in-memory) can be swapped without touching the runner or
	// job service layers. Implementations translate these generic types
	// into backend-specific primitives.
	Engine interface {
		// RegisterWorkflow registers a procedure-execution workflow
		// definition with the engine. Called once during service
		// initialization before any job is started.
		RegisterWorkflow(ctx context.Context, def WorkflowDefinition) error

		// RegisterActivity registers an activity definition (a single
		// instruction tick) with the engine. Must be called before
		// starting any job.
		RegisterActivity(ctx context.Context, def ActivityDefinition) error

		// StartWorkflow launches a new job execution and returns a handle
		// for interacting with it. req.ID must be unique for the engine
		// instance.
		StartWorkflow(ctx context.Context, req WorkflowStartRequest) (WorkflowHandle, error)
	}

	// WorkflowDefinition binds a procedure-execution handler to a logical
	// name and default task queue.
	WorkflowDefinition struct {
		// Name is the logical identifier registered with the engine (e.g.,
		// "ProcedureWorkflow").
		Name string
		// TaskQueue is the default queue used when starting new jobs.
		TaskQueue string
		// Handler is the function invoked by the engine to drive the job.
		Handler WorkflowFunc
	}

	// WorkflowFunc is the job execution entry point. It receives a
	// WorkflowContext and the job's input (typically a procedure.Tree),
	// returning a terminal JobState or an error. The function must be
	// deterministic when run on a replaying backend: it must produce the
	// same tick sequence given the same inputs and activity results.
	WorkflowFunc func(ctx WorkflowContext, input any) (any, error)

	// WorkflowContext exposes engine operations to the procedure-execution
	// loop. It wraps engine-specific contexts (Temporal workflow.Context,
	// an in-process context) behind one API.
	//
	// Thread-safety: a WorkflowContext is bound to a single job execution
	// and must not be shared across goroutines.
	WorkflowContext interface {
		// Context returns the Go context for the job. Use this for
		// activity execution and cancellation propagation.
		Context() context.Context

		// WorkflowID returns the unique identifier for this job execution.
		WorkflowID() string

		// RunID returns the engine-assigned run identifier.
		RunID() string

		// ExecuteActivity schedules a single instruction tick and waits
		// for its result.
		ExecuteActivity(ctx context.Context, req ActivityRequest, result any) error

		// ExecuteActivityAsync schedules a tick without blocking and
		// returns a Future.
		ExecuteActivityAsync(ctx context.Context, req ActivityRequest) (Future, error)

		// SignalChannel returns a channel for the given signal name (e.g.
		// "pause", "step", "breakpoint.set"). Job code polls or blocks on
		// this channel to react to commands delivered via the engine's
		// signaling mechanism.
		SignalChannel(name string) SignalChannel

		// Logger returns a logger scoped to this job execution.
		Logger() telemetry.Logger

		// Metrics returns a metrics recorder scoped to this job.
		Metrics() telemetry.Metrics

		// Tracer returns a tracer for creating spans within the job.
		Tracer() telemetry.Tracer

		// Now returns the current time in a manner safe for a replaying
		// backend (e.g., Temporal's workflow.Now).
		Now() time.Time
	}

	// Future represents a pending activity (instruction tick) result.
	Future interface {
		// Get blocks until the activity completes and populates result.
		// Calling Get multiple times returns the same result/error.
		Get(ctx context.Context, result any) error

		// IsReady reports whether Get will return without blocking.
		IsReady() bool
	}

	// ActivityDefinition registers an activity handler with optional
	// defaults.
	ActivityDefinition struct {
		Name    string
		Handler ActivityFunc
		Options ActivityOptions
	}

	// ActivityFunc handles a single instruction tick. Unlike workflows,
	// activities may perform side effects (I/O against real variables).
	ActivityFunc func(ctx context.Context, input any) (any, error)

	// ActivityOptions configures retry and timeout behavior for an
	// activity.
	ActivityOptions struct {
		Queue       string
		RetryPolicy RetryPolicy
		Timeout     time.Duration
	}

	// WorkflowStartRequest describes how to launch a job execution.
	WorkflowStartRequest struct {
		// ID is the job identifier, unique within the engine scope.
		ID string
		// Workflow names the registered WorkflowDefinition to execute.
		Workflow string
		// TaskQueue selects the queue to schedule the job on.
		TaskQueue string
		// Input is the payload passed to the workflow handler (typically
		// a *procedure.Tree).
		Input any
		// Memo stores small diagnostic payloads alongside the execution.
		Memo map[string]any
		// RetryPolicy controls automatic restarts of the start attempt if
		// scheduling fails.
		RetryPolicy RetryPolicy
	}

	// ActivityRequest contains the info needed to schedule one instruction
	// tick from a job's workflow.
	ActivityRequest struct {
		Name        string
		Input       any
		Queue       string
		RetryPolicy RetryPolicy
		Timeout     time.Duration
	}

	// WorkflowHandle allows callers to interact with a running job.
	WorkflowHandle interface {
		// Wait blocks until the job completes, populating result with its
		// terminal state.
		Wait(ctx context.Context, result any) error

		// Signal sends an asynchronous command to the job (pause, resume,
		// step, breakpoint set/remove).
		Signal(ctx context.Context, name string, payload any) error

		// Cancel requests cancellation (Halt) of the job.
		Cancel(ctx context.Context) error
	}

	// RetryPolicy defines retry semantics shared by workflows and
	// activities. Zero-valued fields mean the engine uses its defaults.
	RetryPolicy struct {
		MaxAttempts        int
		InitialInterval    time.Duration
		BackoffCoefficient float64
	}

	// SignalChannel exposes engine signal delivery in a backend-agnostic
	// way.
	SignalChannel interface {
		// Receive blocks until a signal value is delivered and decodes it
		// into dest.
		Receive(ctx context.Context, dest any) error
		// ReceiveAsync attempts to receive a signal without blocking.
		ReceiveAsync(dest any) bool
	}
)
