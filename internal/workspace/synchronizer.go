// Package workspace bridges a domain procedure.Workspace to the
// model.JobItem variable mirrors a jobhandler.Handler owns, grounded on
// WorkspaceSynchronizer/DomainWorkspaceListener/WorkspaceItemListener:
// one callback registered on the domain workspace propagates every
// variable change to the job's Notifier (domain -> GUI), and
// SetFromUI propagates a GUI-driven edit back to the domain workspace
// (GUI -> domain).
package workspace

import (
	"fmt"

	"github.com/sup-codac/oac-tree-gui/internal/engine"
	"github.com/sup-codac/oac-tree-gui/internal/model"
	"github.com/sup-codac/oac-tree-gui/internal/procedure"
)

// Synchronizer owns the single subscription point between a
// procedure.Workspace and the engine.Notifier a job reports through. It
// is the Go counterpart of WorkspaceSynchronizer: constructing one and
// calling Start wires the domain side; Shutdown unwinds it, marking
// every variable unavailable exactly once.
type Synchronizer struct {
	domain   *procedure.Workspace
	notifier engine.Notifier
	guard    engine.CallbackGuard
}

// New constructs a Synchronizer for domain and notifier, matching the
// two-known-upfront WorkspaceSynchronizer constructor. Call Start to
// begin propagating domain variable changes to notifier.
func New(domain *procedure.Workspace, notifier engine.Notifier) *Synchronizer {
	return &Synchronizer{domain: domain, notifier: notifier}
}

// Start subscribes to the domain workspace and replays its current
// values to notifier, so a Notifier attached after the workspace was
// already populated still sees every variable's initial state —
// matching DomainWorkspaceListener's constructor-time subscription plus
// an initial Snapshot replay.
func (s *Synchronizer) Start() {
	s.guard = s.domain.GetCallbackGuard()
	s.domain.RegisterGenericCallback(s.onDomainVariableUpdated, s.guard)

	for _, v := range s.domain.Snapshot() {
		s.notifier.VariableUpdated(v.Index, v.Value, true)
	}
}

func (s *Synchronizer) onDomainVariableUpdated(idx uint32, value model.AnyValue, connected bool) {
	s.notifier.VariableUpdated(idx, value, connected)
}

// SetFromUI propagates a GUI-driven edit of the named variable back to
// the domain workspace, matching WorkspaceItemListener::ProcessEventToDomain.
// The resulting domain-side notification round-trips back to notifier
// through the same callback Start registered, so the GUI item that
// triggered the edit observes its own new value confirmed.
func (s *Synchronizer) SetFromUI(name string, value model.AnyValue) error {
	if err := s.domain.SetByName(name, value); err != nil {
		return fmt.Errorf("workspace: set from UI: %w", err)
	}
	return nil
}

// Shutdown unsubscribes from the domain workspace and marks every
// variable unavailable, matching the WorkspaceSynchronizer destructor's
// loop over GetVariables marking each one unavailable.
func (s *Synchronizer) Shutdown() {
	s.domain.Shutdown()
	if s.guard != nil {
		s.guard.Close()
	}
}
