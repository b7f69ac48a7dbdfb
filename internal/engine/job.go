package engine

import "context"

// Job is a single running procedure execution, bound to one Notifier and
// one Workspace. It is the Go rendering of the underlying engine's IJob:
// the handle a Runner holds once a job has been started, as opposed to
// WorkflowHandle, which is the transport-level handle (Temporal workflow
// execution, or an in-process goroutine) that a Job wraps.
type Job interface {
	// Start begins procedure execution. It does not block for completion.
	Start(ctx context.Context) error

	// Halt requests the job stop as soon as possible, landing in
	// model.JobStateHalted.
	Halt(ctx context.Context) error

	// Pause requests the job switch to WaitingModeWaitForRelease at its
	// next tick boundary.
	Pause(ctx context.Context) error

	// Step releases exactly one pending tick while paused.
	Step(ctx context.Context) error

	// SetBreakpoint arms a breakpoint on the given instruction index.
	SetBreakpoint(ctx context.Context, idx uint32) error

	// RemoveBreakpoint disarms a breakpoint on the given instruction
	// index.
	RemoveBreakpoint(ctx context.Context, idx uint32) error

	// Workspace returns the job's variable store.
	Workspace() Workspace

	// Handle returns the underlying transport-level handle.
	Handle() WorkflowHandle
}
