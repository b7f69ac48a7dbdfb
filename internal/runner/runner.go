// Package runner drives a single procedure.Tree to completion over a
// pluggable engine.Engine backend. It is grounded on
// abstract_domain_runner.h/.cpp: Runner is a narrow interface rather than
// a class hierarchy (the underlying AbstractDomainRunner base class),
// matching the "replace inheritance with a trait/interface" redesign.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/sup-codac/oac-tree-gui/internal/engine"
	"github.com/sup-codac/oac-tree-gui/internal/flowcontrol"
	"github.com/sup-codac/oac-tree-gui/internal/jobservice"
	"github.com/sup-codac/oac-tree-gui/internal/model"
	"github.com/sup-codac/oac-tree-gui/internal/observer"
	"github.com/sup-codac/oac-tree-gui/internal/procedure"
)

// Runner is the command/query surface a job handler drives a running
// procedure through. Both LocalRunner and RemoteRunner implement it;
// callers that only need to start/stop/inspect a job should depend on
// this interface, not on a concrete type.
type Runner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Pause(ctx context.Context) error
	Step(ctx context.Context) error
	Reset(ctx context.Context) error
	SetBreakpoint(ctx context.Context, idx uint32) error
	RemoveBreakpoint(ctx context.Context, idx uint32) error

	JobState() model.JobState
	WaitForFinished(ctx context.Context) model.JobState
	WaitForState(ctx context.Context, state model.JobState) bool
	IsFinished() bool
	IsBusy() bool

	SetTickTimeout(d time.Duration)
	EventCount() int
	JobInfo() Info

	// JobInfoIO exposes the runner's Notifier/dispatcher surface so a
	// job handler can register event handlers and drain them.
	JobInfoIO() *jobservice.Service

	// Workspace exposes the variable store backing this job, the
	// collaborator internal/workspace synchronizes against a GUI item.
	Workspace() *procedure.Workspace
}

// engineRunner is the shared implementation behind LocalRunner and
// RemoteRunner: both back onto an engine.Engine (inmem or temporal) that
// is otherwise identical in shape, per spec.md's observation that the two
// only differ in backend durability, not in command surface.
type engineRunner struct {
	eng        engine.Engine
	tree       *procedure.Tree
	workspace  *procedure.Workspace
	service    *jobservice.Service
	controller *flowcontrol.Controller
	workflowID string
	workflow   string
	taskQueue  string

	bpMu        sync.RWMutex
	breakpoints map[uint32]bool

	handle engine.WorkflowHandle
}

func (r *engineRunner) hasBreakpoint(idx uint32) bool {
	r.bpMu.RLock()
	defer r.bpMu.RUnlock()
	return r.breakpoints[idx]
}

func newEngineRunner(eng engine.Engine, tree *procedure.Tree, workflowID, taskQueue string) *engineRunner {
	controller := flowcontrol.New()
	ws := procedure.NewWorkspace(tree)
	service := jobservice.New(jobservice.WithFlowController(controller))

	r := &engineRunner{
		eng:         eng,
		tree:        tree,
		workspace:   ws,
		service:     service,
		controller:  controller,
		workflowID:  workflowID,
		workflow:    "procedure:" + workflowID,
		taskQueue:   taskQueue,
		breakpoints: make(map[uint32]bool),
	}

	parents := observer.ParentIndexLookup(tree.ParentOf)
	r.service.SetInstructionActiveFilter(observer.AncestorsActiveFilter(parents))
	return r
}

// Workspace exposes the in-process variable store backing this job, the
// collaborator internal/workspace synchronizes against a GUI item.
func (r *engineRunner) Workspace() *procedure.Workspace {
	return r.workspace
}

func (r *engineRunner) JobInfoIO() *jobservice.Service {
	return r.service
}

func (r *engineRunner) JobInfo() Info {
	return infoFromTree(r.tree, r.workspace)
}

func (r *engineRunner) JobState() model.JobState {
	return r.service.JobState()
}

func (r *engineRunner) WaitForFinished(ctx context.Context) model.JobState {
	return r.service.WaitForFinished(ctx)
}

func (r *engineRunner) WaitForState(ctx context.Context, state model.JobState) bool {
	return r.service.WaitForState(ctx, state)
}

func (r *engineRunner) IsFinished() bool {
	return r.JobState().IsFinished()
}

// IsBusy mirrors AbstractDomainRunner::IsBusy's busy-states set
// {kPaused, kStepping, kRunning}.
func (r *engineRunner) IsBusy() bool {
	return r.JobState().IsBusy()
}

func (r *engineRunner) SetTickTimeout(d time.Duration) {
	r.service.SetTickTimeout(d)
}

func (r *engineRunner) EventCount() int {
	return r.service.EventCount()
}

func (r *engineRunner) Start(ctx context.Context) error {
	if err := r.eng.RegisterWorkflow(ctx, engine.WorkflowDefinition{
		Name:      r.workflow,
		TaskQueue: r.taskQueue,
		Handler:   r.run,
	}); err != nil {
		return model.NewRuntimeError("runner.Start", "register workflow", err)
	}
	if err := r.eng.RegisterActivity(ctx, engine.ActivityDefinition{
		Name:    r.workflow + "#tick",
		Handler: r.tick,
	}); err != nil {
		return model.NewRuntimeError("runner.Start", "register activity", err)
	}

	r.controller.SetWaitingMode(model.WaitingModeProceed)
	handle, err := r.eng.StartWorkflow(ctx, engine.WorkflowStartRequest{
		ID:        r.workflowID,
		Workflow:  r.workflow,
		TaskQueue: r.taskQueue,
	})
	if err != nil {
		return model.NewRuntimeError("runner.Start", "start workflow", err)
	}
	r.handle = handle
	return nil
}

func (r *engineRunner) Stop(ctx context.Context) error {
	if r.handle == nil {
		return model.NewRuntimeError("runner.Stop", "job not started", nil)
	}
	r.controller.Interrupt()
	// Release an Input request the job may be blocked on.
	r.service.JobInfoIO().Interrupt(0)
	if err := r.handle.Signal(ctx, signalHalt, true); err != nil {
		return model.NewRuntimeError("runner.Stop", "signal halt", err)
	}
	return nil
}

func (r *engineRunner) Pause(ctx context.Context) error {
	r.controller.SetWaitingMode(model.WaitingModeWaitForRelease)
	r.service.JobInfoIO().JobStateUpdated(model.JobStatePaused)
	return nil
}

func (r *engineRunner) Step(ctx context.Context) error {
	r.service.JobInfoIO().JobStateUpdated(model.JobStateStepping)
	r.controller.Step()
	return nil
}

// Reset restores the controller and workspace to their initial state.
// Callers must only invoke it once IsFinished() is true: it does not
// synchronize against a workflow goroutine still iterating the tree.
func (r *engineRunner) Reset(ctx context.Context) error {
	r.controller.Reset()
	r.controller.SetWaitingMode(model.WaitingModeProceed)
	r.workspace = procedure.NewWorkspace(r.tree)
	return nil
}

func (r *engineRunner) SetBreakpoint(ctx context.Context, idx uint32) error {
	if _, ok := r.tree.At(idx); !ok {
		return model.NewRuntimeError("runner.SetBreakpoint", "unknown instruction index", nil)
	}
	r.bpMu.Lock()
	r.breakpoints[idx] = true
	r.bpMu.Unlock()
	return nil
}

func (r *engineRunner) RemoveBreakpoint(ctx context.Context, idx uint32) error {
	r.bpMu.Lock()
	delete(r.breakpoints, idx)
	r.bpMu.Unlock()
	return nil
}
