// Package jobmanager tracks one jobhandler.Handler per selected
// procedure, grounded on JobManager/m_context_map: a GUI or daemon
// front end selects a procedure, and every subsequent start/pause/
// step/stop request is routed to whichever procedure is currently
// selected, creating its Handler (and Runner) lazily on first
// selection.
package jobmanager

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sup-codac/oac-tree-gui/internal/jobhandler"
	"github.com/sup-codac/oac-tree-gui/internal/model"
	"github.com/sup-codac/oac-tree-gui/internal/procedure"
	"github.com/sup-codac/oac-tree-gui/internal/runner"
	"github.com/sup-codac/oac-tree-gui/internal/telemetry"
)

// RunnerFactory constructs the runner.Runner that a newly selected
// procedure's Handler drives. workflowID identifies the job to the
// chosen engine.Engine backend.
type RunnerFactory func(tree *procedure.Tree, workflowID string) runner.Runner

// Manager is keyed by *procedure.Tree rather than the model.JobItem a
// Handler produces: a JobItem is born together with its Handler, so it
// cannot also identify which procedure to create one for. procedure.Tree
// is this port's ProcedureItem — the stable identity of "the procedure
// the user picked," known before any job exists for it.
type Manager struct {
	mu       sync.RWMutex
	current  *procedure.Tree
	handlers map[*procedure.Tree]*jobhandler.Handler

	newRunner RunnerFactory
	logger    telemetry.Logger
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithRunnerFactory overrides how a selected procedure's Runner is
// constructed. Defaults to runner.NewLocalRunner. A daemon hosting jobs
// over Temporal (cmd/jobmanagerd) supplies a factory that wraps a
// shared engine.Engine in a runner.RemoteRunner instead.
func WithRunnerFactory(f RunnerFactory) Option {
	return func(m *Manager) { m.newRunner = f }
}

// WithLogger sets the logger used for job handler lifecycle messages.
// Defaults to a no-op logger.
func WithLogger(logger telemetry.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// New constructs an empty Manager with no procedure selected.
func New(opts ...Option) *Manager {
	m := &Manager{
		handlers: make(map[*procedure.Tree]*jobhandler.Handler),
		newRunner: func(tree *procedure.Tree, workflowID string) runner.Runner {
			return runner.NewLocalRunner(tree, workflowID)
		},
		logger: telemetry.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetCurrentProcedure selects tree as the procedure the manager's
// commands apply to, grounded on JobManager::SetCurrentProcedure.
// Selecting the procedure already current is a no-op. Selecting one
// with no Handler yet creates it immediately: set current procedure,
// then create its context if absent — the set-then-create ordering the
// underlying draft uses, preserved here rather than deferring creation
// to the first start request.
func (m *Manager) SetCurrentProcedure(tree *procedure.Tree) {
	if tree == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == tree {
		return
	}
	m.current = tree

	if _, ok := m.handlers[tree]; !ok {
		m.createHandlerLocked(tree)
	}
}

// createHandlerLocked mints a fresh workflow ID for every job run, so
// re-selecting a procedure after its prior job completed never collides
// with a closed workflow of the same ID on the engine backend.
func (m *Manager) createHandlerLocked(tree *procedure.Tree) *jobhandler.Handler {
	workflowID := fmt.Sprintf("%s-%s", tree.Name, uuid.NewString())
	r := m.newRunner(tree, workflowID)
	h := jobhandler.New(tree.Name, r)
	m.handlers[tree] = h
	m.logger.Info(context.Background(), "job handler created", "procedure", tree.Name, "workflow_id", workflowID)
	return h
}

// CurrentHandler returns the Handler for the currently selected
// procedure, or nil if none is selected.
func (m *Manager) CurrentHandler() *jobhandler.Handler {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	return m.handlers[m.current]
}

// HandlerFor returns the Handler already created for tree, if any,
// without changing the current selection.
func (m *Manager) HandlerFor(tree *procedure.Tree) (*jobhandler.Handler, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.handlers[tree]
	return h, ok
}

// OnStartProcedureRequest selects tree and starts its job, grounded on
// JobManager::onStartProcedureRequest.
func (m *Manager) OnStartProcedureRequest(ctx context.Context, tree *procedure.Tree) error {
	if tree == nil {
		return nil
	}
	m.SetCurrentProcedure(tree)
	h := m.CurrentHandler()
	if h == nil {
		return nil
	}
	return h.Start(ctx)
}

// OnPauseProcedureRequest pauses the currently selected job, if any,
// grounded on JobManager::onPauseProcedureRequest.
func (m *Manager) OnPauseProcedureRequest(ctx context.Context) error {
	if h := m.CurrentHandler(); h != nil {
		return h.Pause(ctx)
	}
	return nil
}

// OnStopProcedureRequest halts the currently selected job, if any,
// grounded on JobManager::onStopProcedureRequest.
func (m *Manager) OnStopProcedureRequest(ctx context.Context) error {
	if h := m.CurrentHandler(); h != nil {
		return h.Stop(ctx)
	}
	return nil
}

// OnResetProcedureRequest resets the currently selected job, if any.
// JobManager.cpp has no direct counterpart (the underlying GUI rebuilds
// contexts instead of resetting them), but every other Handler command
// is exposed here for symmetry.
func (m *Manager) OnResetProcedureRequest(ctx context.Context) error {
	if h := m.CurrentHandler(); h != nil {
		return h.Reset(ctx)
	}
	return nil
}

// OnMakeStepRequest grounded on JobManager::onMakeStepRequest: if the
// current procedure has no Handler yet, one is created first. If its
// job has never been started, starting it is itself the first step;
// otherwise a single pending tick is released.
func (m *Manager) OnMakeStepRequest(ctx context.Context) error {
	m.mu.Lock()
	tree := m.current
	if tree == nil {
		m.mu.Unlock()
		return nil
	}
	h, ok := m.handlers[tree]
	if !ok {
		h = m.createHandlerLocked(tree)
	}
	m.mu.Unlock()

	if h.JobItem().Status == model.RunnerStatusIdle {
		return h.Start(ctx)
	}
	return h.Step(ctx)
}

// OnToggleBreakpointRequest toggles the breakpoint at idx on the
// currently selected job's instruction, if any.
func (m *Manager) OnToggleBreakpointRequest(ctx context.Context, idx uint32) error {
	h := m.CurrentHandler()
	if h == nil {
		return model.NewRuntimeError("jobmanager.OnToggleBreakpointRequest", "no procedure selected", nil)
	}
	return h.OnToggleBreakpointRequest(ctx, idx)
}

// Handlers returns every Handler created so far, unordered.
func (m *Manager) Handlers() []*jobhandler.Handler {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*jobhandler.Handler, 0, len(m.handlers))
	for _, h := range m.handlers {
		out = append(out, h)
	}
	return out
}
