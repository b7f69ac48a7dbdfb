package jobhandler

import (
	"context"

	"github.com/sup-codac/oac-tree-gui/internal/domainevent"
	"github.com/sup-codac/oac-tree-gui/internal/model"
	"github.com/sup-codac/oac-tree-gui/internal/runner"
	"github.com/sup-codac/oac-tree-gui/internal/workspace"
)

// Handler is the per-job façade grounded on AbstractJobHandler: it owns a
// runner.Runner, builds the GUI-facing model.JobItem from the runner's
// static JobInfo, registers one dispatcher callback per domain event
// kind, and exposes the Start/Pause/Step/Stop/Reset/
// OnToggleBreakpointRequest command set.
//
// Handler never mutates JobItem fields except from inside a registered
// dispatcher.Handler callback (called only from Drain) or directly from a
// command method — both run on the caller's single goroutine, never
// concurrently with each other, so no additional locking protects the
// item's fields.
type Handler struct {
	runner runner.Runner
	item   *model.JobItem
	index  *IndexMap
	sync   *workspace.Synchronizer
}

// New constructs a Handler for name, wired to r: it discovers the job's
// static structure via JobInfo, builds the expanded JobItem and IndexMap
// from it, registers dispatcher callbacks, and starts workspace
// synchronization. Breakpoints set on the instruction items are replayed
// to the runner by Start, not by New.
func New(name string, r runner.Runner) *Handler {
	h := &Handler{runner: r, item: model.NewJobItem(name), index: NewIndexMap()}
	h.buildExpandedProcedure()
	h.registerCallbacks()

	h.sync = workspace.New(r.Workspace(), r.JobInfoIO().JobInfoIO())
	h.sync.Start()

	return h
}

// buildExpandedProcedure populates h.item and h.index from the runner's
// static JobInfo, matching SetupExpandedProcedureItem.
func (h *Handler) buildExpandedProcedure() {
	info := h.runner.JobInfo()
	h.item.Name = info.Name
	for _, instr := range info.Instructions {
		item := &model.InstructionItem{Index: instr.Index, Type: instr.Type}
		h.item.Instructions[instr.Index] = item
		h.index.AddInstruction(instr.Index, item)
	}
	for _, v := range info.Variables {
		item := &model.VariableItem{Index: v.Index, Name: v.Name, Available: true}
		h.item.Variables[v.Index] = item
		h.index.AddVariable(v.Index, item)
	}
}

// registerCallbacks wires every domainevent.Kind to the item mutation it
// drives, the six event-routing rules of the job observer contract.
func (h *Handler) registerCallbacks() {
	service := h.runner.JobInfoIO()

	service.On(domainevent.KindInstructionStateUpdated, func(event domainevent.Event) {
		e := event.(domainevent.InstructionStateUpdated)
		if item, ok := h.index.Instruction(e.Index); ok {
			item.Status = e.Status
		}
	})

	service.On(domainevent.KindActiveInstructionChanged, func(event domainevent.Event) {
		e := event.(domainevent.ActiveInstructionChanged)
		active := make(map[uint32]bool, len(e.Indices))
		for _, idx := range e.Indices {
			active[idx] = true
		}
		for _, item := range h.index.Instructions() {
			item.Active = active[item.Index]
		}
	})

	service.On(domainevent.KindBreakpointHit, func(event domainevent.Event) {
		e := event.(domainevent.BreakpointHit)
		if item, ok := h.index.Instruction(e.Index); ok {
			item.BreakpointStatus = model.BreakpointStatusSet
		}
	})

	service.On(domainevent.KindVariableUpdated, func(event domainevent.Event) {
		e := event.(domainevent.VariableUpdated)
		if item, ok := h.index.Variable(e.Index); ok {
			item.Value = e.Value
			item.Available = e.Connected
		}
	})

	service.On(domainevent.KindJobStateChanged, func(event domainevent.Event) {
		e := event.(domainevent.JobStateChanged)
		h.item.Status = model.RunnerStatusFromJobState(e.State)
	})

	service.On(domainevent.KindLog, func(event domainevent.Event) {
		e := event.(domainevent.Log)
		h.item.Log.Append(model.LogEvent{Severity: e.Severity, Source: e.Source, Message: e.Message})
		if e.Severity >= model.SeverityError {
			h.item.Status = model.RunnerStatusStopped
		}
	})
}

// Drain processes every domain event queued for this job since the last
// call, applying the registered callbacks to the GUI item. Callers
// typically invoke this from a GUI event loop tick, or synchronously from
// the job service's wake callback.
func (h *Handler) Drain() {
	h.runner.JobInfoIO().Drain()
}

// JobItem returns the GUI-facing item this handler keeps up to date. The
// pointer is stable for the handler's lifetime.
func (h *Handler) JobItem() *model.JobItem {
	return h.item
}

// Start begins job execution.
func (h *Handler) Start(ctx context.Context) error {
	h.propagateBreakpointsToDomain(ctx)
	return h.runner.Start(ctx)
}

// Pause requests the job pause at its next tick boundary.
func (h *Handler) Pause(ctx context.Context) error {
	return h.runner.Pause(ctx)
}

// Step releases exactly one pending tick while paused.
func (h *Handler) Step(ctx context.Context) error {
	return h.runner.Step(ctx)
}

// Stop requests the job halt as soon as possible. The item's status moves
// to Canceling immediately, ahead of whatever JobStateChanged the engine
// eventually reports, matching FunctionRunner::Stop setting kCanceling
// before it even signals the halt request.
func (h *Handler) Stop(ctx context.Context) error {
	h.item.Status = model.RunnerStatusCanceling
	return h.runner.Stop(ctx)
}

// Reset forwards to the runner's Reset, which restores its flow
// controller and workspace. The item's status, instruction statuses and
// log are not changed.
func (h *Handler) Reset(ctx context.Context) error {
	return h.runner.Reset(ctx)
}

// OnSetVariableRequest propagates a GUI-driven edit of the named
// variable back to the domain workspace, matching
// WorkspaceItemListener::ProcessEventToDomain.
func (h *Handler) OnSetVariableRequest(name string, value model.AnyValue) error {
	if err := h.sync.SetFromUI(name, value); err != nil {
		return model.NewRuntimeError("jobhandler.OnSetVariableRequest", "set from UI", err)
	}
	return nil
}

// Close releases the handler's workspace synchronization, marking every
// variable item unavailable. Callers that are done with a job entirely
// (not merely pausing/stopping it) should call this once.
func (h *Handler) Close() {
	h.sync.Shutdown()
}

// OnToggleBreakpointRequest flips the breakpoint status on the
// instruction item at idx between Unset and Set and propagates the new
// state to the domain runner, matching
// AbstractJobHandler::OnToggleBreakpointRequest's `if (IsRunning())
// return;` guard. It is a no-op while the runner is busy (running,
// paused, or stepping).
func (h *Handler) OnToggleBreakpointRequest(ctx context.Context, idx uint32) error {
	if h.runner.IsBusy() {
		return nil
	}
	item, ok := h.index.Instruction(idx)
	if !ok {
		return model.NewRuntimeError("jobhandler.OnToggleBreakpointRequest", "unknown instruction index", nil)
	}
	if item.BreakpointStatus == model.BreakpointStatusSet {
		item.BreakpointStatus = model.BreakpointStatusUnset
		return h.runner.RemoveBreakpoint(ctx, idx)
	}
	item.BreakpointStatus = model.BreakpointStatusSet
	return h.runner.SetBreakpoint(ctx, idx)
}

// propagateBreakpointsToDomain replays every instruction item currently
// flagged with a breakpoint to the domain runner, matching
// PropagateBreakpointsToDomain: breakpoints toggled on the GUI item
// before Start must still take effect once the job actually runs. A
// Disabled status is deliberately excluded from the domain, matching
// SetDomainBreakpoint: only BreakpointStatusSet ever reaches the runner.
func (h *Handler) propagateBreakpointsToDomain(ctx context.Context) {
	for _, item := range h.index.Instructions() {
		if item.BreakpointStatus == model.BreakpointStatusSet {
			_ = h.runner.SetBreakpoint(ctx, item.Index)
		}
	}
}
