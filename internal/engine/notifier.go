package engine

import (
	"context"

	"github.com/sup-codac/oac-tree-gui/internal/model"
)

// Notifier is the callback contract an automation engine backend calls
// into as a job executes. It is the Go rendering of the underlying
// engine's IJobInfoIO interface: every method here corresponds one-to-one
// to a method the original C++ job info/IO sink implements.
//
// internal/observer.Observer is the production implementation; engine
// backends (inmem, temporal) hold one Notifier per running job and call
// it from whatever goroutine is driving that job's ticks.
type Notifier interface {
	// InitNumberOfInstructions is called once, before the first tick, with
	// the total instruction count discovered in the procedure tree.
	InitNumberOfInstructions(n uint32)

	// InstructionStateUpdated reports a single instruction's new status
	// and whether a breakpoint is currently set on it in the domain.
	InstructionStateUpdated(idx uint32, status model.InstructionStatus, breakpointSet bool)

	// BreakpointInstructionUpdated reports that execution paused at a
	// breakpoint set on the given instruction index.
	BreakpointInstructionUpdated(idx uint32)

	// VariableUpdated reports a new value and/or connected status for a
	// workspace variable.
	VariableUpdated(idx uint32, value model.AnyValue, connected bool)

	// JobStateUpdated reports a transition of the job's overall state.
	JobStateUpdated(state model.JobState)

	// PutValue reports an instruction publishing a value outward (e.g. an
	// Output instruction), for display purposes only.
	PutValue(value model.AnyValue, description string)

	// GetUserValue blocks the calling (engine) goroutine until the
	// consumer side supplies a value for an Input instruction, or ctx is
	// done. ok is false if no input provider is attached, matching the
	// underlying engine's behavior of logging a warning and returning
	// false.
	GetUserValue(ctx context.Context, id uint64, description string) (value model.AnyValue, ok bool)

	// GetUserChoice blocks until the consumer side supplies a selection
	// among options for a UserChoice instruction. It returns -1 if no
	// choice provider is attached.
	GetUserChoice(ctx context.Context, id uint64, options []string, metadata model.AnyValue) int

	// Interrupt cancels a previously issued GetUserValue/GetUserChoice
	// request identified by id.
	Interrupt(id uint64)

	// Message reports a free-form informational message (e.g. from a
	// Message instruction).
	Message(message string)

	// Log reports a severity-tagged log line from the engine itself.
	Log(severity model.Severity, message string)

	// NextInstructionsUpdated reports the raw, unfiltered set of "next"
	// leaf instruction indices the engine is about to execute.
	NextInstructionsUpdated(indices []uint32)

	// ProcedureTicked is called once per engine tick, after the tick's
	// side effects have been applied, giving the flow controller a chance
	// to pace the next tick.
	ProcedureTicked(ctx context.Context)
}
