package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/sup-codac/oac-tree-gui/internal/engine"
	"github.com/sup-codac/oac-tree-gui/internal/model"
	"github.com/sup-codac/oac-tree-gui/internal/procedure"
)

const signalHalt = "halt"

// run is the engine.WorkflowFunc for a job: it walks the tree in
// preorder, ticking every leaf instruction and honoring breakpoints,
// pause/step (via the shared flowcontrol.Controller), and halt (via a
// signal so it works identically whether driven in-process or over a
// Temporal worker).
func (r *engineRunner) run(wctx engine.WorkflowContext, _ any) (any, error) {
	notifier := r.service.JobInfoIO()
	notifier.InitNumberOfInstructions(r.tree.InstructionCount())
	notifier.JobStateUpdated(model.JobStateRunning)

	halt := wctx.SignalChannel(signalHalt)

	for _, idx := range r.tree.Walk() {
		instr, _ := r.tree.At(idx)
		if instr.Kind == procedure.KindSequence {
			continue
		}

		var haltRequested bool
		halt.ReceiveAsync(&haltRequested)
		if haltRequested {
			notifier.JobStateUpdated(model.JobStateHalted)
			return model.JobStateHalted, nil
		}

		if r.hasBreakpoint(idx) {
			notifier.BreakpointInstructionUpdated(idx)
			r.controller.SetWaitingMode(model.WaitingModeWaitForRelease)
			notifier.JobStateUpdated(model.JobStatePaused)
		}

		wasWaiting := r.controller.WaitingMode() == model.WaitingModeWaitForRelease
		if err := r.controller.Wait(wctx.Context()); err != nil {
			notifier.JobStateUpdated(model.JobStateHalted)
			return model.JobStateHalted, nil
		}
		if wasWaiting {
			notifier.JobStateUpdated(model.JobStateRunning)
		}

		notifier.InstructionStateUpdated(idx, model.InstructionStatusRunning, r.hasBreakpoint(idx))
		notifier.NextInstructionsUpdated([]uint32{idx})

		var out instructionResult
		req := engine.ActivityRequest{Name: r.workflow + "#tick", Input: instructionInput{Idx: idx}}
		if err := wctx.ExecuteActivity(wctx.Context(), req, &out); err != nil {
			notifier.InstructionStateUpdated(idx, model.InstructionStatusFailure, r.hasBreakpoint(idx))
			notifier.Log(model.SeverityError, fmt.Sprintf("instruction %d failed: %v", idx, err))
			notifier.JobStateUpdated(model.JobStateFailed)
			return model.JobStateFailed, nil
		}

		notifier.InstructionStateUpdated(idx, model.InstructionStatusSuccess, r.hasBreakpoint(idx))
		notifier.ProcedureTicked(wctx.Context())
	}

	notifier.JobStateUpdated(model.JobStateSucceeded)
	return model.JobStateSucceeded, nil
}

// instructionInput is passed across the ExecuteActivity boundary, which
// on the Temporal backend is serialized with the default JSON data
// converter: fields must be exported to survive that round trip.
type instructionInput struct {
	Idx uint32
}

type instructionResult struct{}

// tick executes the side effect of a single non-structural instruction.
// It is registered as the workflow's single ActivityDefinition so a
// Temporal-backed RemoteRunner schedules it as a real activity, while an
// in-process LocalRunner simply invokes it on a fresh goroutine.
func (r *engineRunner) tick(ctx context.Context, input any) (any, error) {
	in, ok := input.(instructionInput)
	if !ok {
		return nil, fmt.Errorf("runner: unexpected activity input %T", input)
	}
	instr, ok := r.tree.At(in.Idx)
	if !ok {
		return nil, fmt.Errorf("runner: unknown instruction index %d", in.Idx)
	}
	notifier := r.service.JobInfoIO()

	switch instr.Kind {
	case procedure.KindWait:
		select {
		case <-time.After(time.Duration(instr.TimeoutMillis) * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	case procedure.KindMessage:
		notifier.Message(instr.Text)
	case procedure.KindCopy:
		value, ok := r.workspace.ValueByName(instr.From)
		if !ok {
			return nil, fmt.Errorf("runner: copy: unknown source variable %q", instr.From)
		}
		if err := r.workspace.SetByName(instr.To, value); err != nil {
			return nil, fmt.Errorf("runner: copy: %w", err)
		}
	case procedure.KindInput:
		value, ok := notifier.GetUserValue(ctx, uint64(in.Idx), instr.Description)
		if !ok {
			return nil, fmt.Errorf("runner: input: no value supplied for instruction %d", in.Idx)
		}
		if err := r.workspace.SetByName(instr.Variable, value); err != nil {
			return nil, fmt.Errorf("runner: input: %w", err)
		}
	default:
		return nil, fmt.Errorf("runner: unsupported instruction kind %v", instr.Kind)
	}
	return instructionResult{}, nil
}
