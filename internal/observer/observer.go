// Package observer adapts a running engine's Notifier callbacks into
// domain events, and exposes the predicate waits (WaitForState,
// WaitForFinished) a runner needs to block on job progress.
package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sup-codac/oac-tree-gui/internal/domainevent"
	"github.com/sup-codac/oac-tree-gui/internal/flowcontrol"
	"github.com/sup-codac/oac-tree-gui/internal/model"
	"github.com/sup-codac/oac-tree-gui/internal/reqreply"
)

// Observer implements engine.Notifier, translating every engine
// callback into a domainevent.Event pushed onto a queue, while tracking
// the job's current state for WaitForState/WaitForFinished and routing
// Input/UserChoice instructions through request-reply bridges to the
// UI. It is the single object an engine backend holds per running job.
//
// Thread-safety: all exported methods may be called concurrently from
// whatever goroutine the engine backend uses to drive ticks.
type Observer struct {
	push func(event domainevent.Event)

	valueBridge  *reqreply.Bridge[model.InputRequest, model.AnyValue]
	choiceBridge *reqreply.Bridge[model.ChoiceRequest, int]

	flow *flowcontrol.Controller

	mu      sync.Mutex
	cond    *sync.Cond
	state   model.JobState
	monitor *ActiveInstructionMonitor
}

// New constructs an Observer that pushes every translated event onto
// push. flow paces ProcedureTicked calls in SleepFor mode; it is shared with
// whatever issues Pause/Step/Halt commands for the same job.
func New(push func(event domainevent.Event), flow *flowcontrol.Controller) *Observer {
	o := &Observer{
		push:         push,
		valueBridge:  reqreply.New[model.InputRequest, model.AnyValue](),
		choiceBridge: reqreply.New[model.ChoiceRequest, int](),
		flow:         flow,
		state:        model.JobStateInitial,
	}
	o.cond = sync.NewCond(&o.mu)
	o.monitor = NewActiveInstructionMonitor(IdentityFilter(), o.emitActiveInstructionChanged)
	return o
}

// InitNumberOfInstructions is a no-op: the instruction count is already
// known from the procedure tree the GUI loaded, so nothing further
// needs to be reported here.
func (o *Observer) InitNumberOfInstructions(uint32) {}

// InstructionStateUpdated reports a single instruction's new status. It
// does not update the active instruction monitor; only
// NextInstructionsUpdated feeds the monitor.
func (o *Observer) InstructionStateUpdated(idx uint32, status model.InstructionStatus, breakpointSet bool) {
	o.push(domainevent.InstructionStateUpdated{Index: idx, Status: status, BreakpointSet: breakpointSet})
}

// BreakpointInstructionUpdated reports a breakpoint hit at idx.
func (o *Observer) BreakpointInstructionUpdated(idx uint32) {
	o.push(domainevent.BreakpointHit{Index: idx})
}

// VariableUpdated reports a workspace variable's new value.
func (o *Observer) VariableUpdated(idx uint32, value model.AnyValue, connected bool) {
	o.push(domainevent.VariableUpdated{Index: idx, Value: value, Connected: connected})
}

// JobStateUpdated records the job's new overall state and wakes any
// goroutine blocked in WaitForState/WaitForFinished.
func (o *Observer) JobStateUpdated(state model.JobState) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
	o.push(domainevent.JobStateChanged{State: state})
	o.cond.Broadcast()
}

// PutValue reports an instruction publishing a value outward, folded
// into the job log as an informational message.
func (o *Observer) PutValue(value model.AnyValue, description string) {
	o.push(domainevent.Log{
		Severity: model.SeverityInfo,
		Source:   "job",
		Message:  "put value request > " + description + " " + value.Describe(),
	})
}

// GetUserValue blocks until a UI-side handler answers the pending Input
// instruction, or ctx is done. ok is false when the request is canceled
// through Interrupt or ctx ends before an answer arrives.
func (o *Observer) GetUserValue(ctx context.Context, id uint64, description string) (model.AnyValue, bool) {
	req := model.InputRequest{ID: id, Description: description}
	value, err := o.valueBridge.Get(ctx, req, func() {
		o.push(domainevent.Log{Severity: model.SeverityInfo, Source: "job", Message: "waiting for user value: " + description})
	})
	if err != nil {
		o.push(domainevent.Log{Severity: model.SeverityWarning, Source: "job", Message: "user value request not answered: " + err.Error()})
		return model.AnyValue{}, false
	}
	return value, true
}

// GetUserChoice blocks until a UI-side handler answers the pending
// UserChoice instruction. It returns -1 if no choice provider answers
// before ctx is done.
func (o *Observer) GetUserChoice(ctx context.Context, id uint64, options []string, metadata model.AnyValue) int {
	req := model.ChoiceRequest{ID: id, Options: options, Metadata: metadata}
	choice, err := o.choiceBridge.Get(ctx, req, func() {
		o.push(domainevent.Log{Severity: model.SeverityInfo, Source: "job", Message: "waiting for user choice"})
	})
	if err != nil {
		o.push(domainevent.Log{Severity: model.SeverityWarning, Source: "job", Message: "user choice request not answered: " + err.Error()})
		return -1
	}
	return choice
}

// Interrupt cancels a previously issued GetUserValue/GetUserChoice
// request identified by id. Both bridges are canceled since the
// observer does not track which kind id belongs to; canceling a bridge
// with no pending request is a no-op.
func (o *Observer) Interrupt(uint64) {
	o.valueBridge.Cancel()
	o.choiceBridge.Cancel()
}

// Message reports a free-form informational message.
func (o *Observer) Message(message string) {
	o.push(domainevent.Log{Severity: model.SeverityInfo, Source: "job", Message: message})
}

// Log reports a severity-tagged log line from the engine itself.
func (o *Observer) Log(severity model.Severity, message string) {
	o.push(domainevent.Log{Severity: severity, Source: "engine", Message: message})
}

// NextInstructionsUpdated reports the raw, unfiltered set of "next"
// leaf instruction indices, routing it through the active instruction
// monitor's filter before an ActiveInstructionChanged event is pushed.
func (o *Observer) NextInstructionsUpdated(indices []uint32) {
	o.mu.Lock()
	monitor := o.monitor
	o.mu.Unlock()
	monitor.Update(indices)
}

func (o *Observer) emitActiveInstructionChanged(indices []uint32) {
	o.push(domainevent.ActiveInstructionChanged{Indices: indices})
}

// ProcedureTicked is called once per engine tick. In SleepFor mode it
// waits on the flow controller to pace the next tick. In Proceed and
// WaitForRelease modes it returns at once: the wait for a Step is the
// one the runner makes on the same controller before each tick.
func (o *Observer) ProcedureTicked(ctx context.Context) {
	if o.flow.WaitingMode() != model.WaitingModeSleepFor {
		return
	}
	_ = o.flow.Wait(ctx)
}

// GetCurrentState returns the last state reported via JobStateUpdated.
func (o *Observer) GetCurrentState() model.JobState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// WaitForState blocks until the job reaches state, or ctx is done. It
// returns true if state was reached, false if ctx ended first.
func (o *Observer) WaitForState(ctx context.Context, state model.JobState) bool {
	return o.waitUntil(ctx, func() bool { return o.state == state })
}

// WaitForFinished blocks until the job reaches a terminal state
// (succeeded, failed, or halted), or ctx is done, and returns the
// terminal state reached (or the last observed state if ctx ended
// first).
func (o *Observer) WaitForFinished(ctx context.Context) model.JobState {
	o.waitUntil(ctx, func() bool { return o.state.IsFinished() })
	return o.GetCurrentState()
}

// waitUntil blocks on the condition variable until pred holds or ctx is
// done, mirroring the predicate-wait shape of
// std::condition_variable::wait(lock, pred) while still honoring ctx
// cancellation: a goroutine is parked to broadcast on cancellation since
// sync.Cond has no native context support.
func (o *Observer) waitUntil(ctx context.Context, pred func() bool) bool {
	stop := context.AfterFunc(ctx, func() { o.cond.Broadcast() })
	defer stop()

	o.mu.Lock()
	defer o.mu.Unlock()
	for !pred() && ctx.Err() == nil {
		o.cond.Wait()
	}
	return pred()
}

// SetTickTimeout sets the per-tick pacing delay observed by
// ProcedureTicked's SleepFor mode. A non-positive d disables pacing.
func (o *Observer) SetTickTimeout(d time.Duration) {
	o.flow.SetTickTimeout(d)
}

// SetInstructionActiveFilter replaces the filter the active instruction
// monitor applies to future NextInstructionsUpdated calls.
func (o *Observer) SetInstructionActiveFilter(filter ActiveFilter) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.monitor = NewActiveInstructionMonitor(filter, o.emitActiveInstructionChanged)
}

// AnswerUserValue delivers value as the answer to the oldest pending
// GetUserValue request. It is a no-op if no request is pending.
func (o *Observer) AnswerUserValue(value model.AnyValue) {
	o.valueBridge.Answer(value)
}

// PendingUserValueRequest returns the currently pending GetUserValue
// request, if any.
func (o *Observer) PendingUserValueRequest() (model.InputRequest, bool) {
	return o.valueBridge.Pending()
}

// AnswerUserChoice delivers choice as the answer to the oldest pending
// GetUserChoice request. It is a no-op if no request is pending.
func (o *Observer) AnswerUserChoice(choice int) {
	o.choiceBridge.Answer(choice)
}

// PendingUserChoiceRequest returns the currently pending GetUserChoice
// request, if any.
func (o *Observer) PendingUserChoiceRequest() (model.ChoiceRequest, bool) {
	return o.choiceBridge.Pending()
}
