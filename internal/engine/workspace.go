package engine

import "github.com/sup-codac/oac-tree-gui/internal/model"

// CallbackGuard is a handle returned by Workspace.RegisterGenericCallback;
// releasing it (Close) unregisters the callback. It mirrors the RAII guard
// the underlying workspace uses to tie a variable-update subscription's
// lifetime to a scope.
type CallbackGuard interface {
	Close()
}

// Workspace abstracts the automation engine's variable store so
// internal/workspace can synchronize it against a GUI-facing item without
// depending on which backend (inmem, temporal) is driving the job.
type Workspace interface {
	// GetCallbackGuard returns a fresh, unattached CallbackGuard that a
	// subsequent RegisterGenericCallback call can bind a subscription's
	// lifetime to.
	GetCallbackGuard() CallbackGuard

	// RegisterGenericCallback registers fn to be invoked, with the
	// variable's index and new value, whenever any workspace variable
	// changes. The subscription stays active until guard is closed.
	RegisterGenericCallback(fn func(idx uint32, value model.AnyValue, connected bool), guard CallbackGuard)

	// IsSuccessfullySetup reports whether every variable in the workspace
	// finished its (potentially asynchronous) setup, e.g. a network
	// variable completing its initial connection.
	IsSuccessfullySetup() bool

	// SetValue pushes a new value for the variable at idx into the
	// workspace, the inverse direction of RegisterGenericCallback: a GUI
	// edit flowing back down into the engine.
	SetValue(idx uint32, value model.AnyValue) error
}
