package procedure

import (
	"fmt"
	"sync"

	"github.com/sup-codac/oac-tree-gui/internal/engine"
	"github.com/sup-codac/oac-tree-gui/internal/model"
)

// Workspace is the in-process engine.Workspace backing runner.LocalRunner:
// a fixed set of named variables, indexed in declaration order, that a Copy
// or Input instruction reads and writes directly (no network variables, no
// asynchronous setup, unlike the underlying engine's PV-backed variables).
//
// It plays the role DomainWorkspaceListener's subscription point plays in
// workspace_synchronizer.cpp: RegisterGenericCallback is how
// internal/workspace subscribes to every variable change to mirror it into
// a model.VariableItem.
type Workspace struct {
	mu        sync.RWMutex
	names     []string
	byName    map[string]uint32
	values    []model.AnyValue
	available []bool

	callbacks map[*guard]func(idx uint32, value model.AnyValue, connected bool)
	nextGuard int
}

type guard struct {
	id int
	w  *Workspace
}

func (g *guard) Close() {
	g.w.mu.Lock()
	delete(g.w.callbacks, g)
	g.w.mu.Unlock()
}

// NewWorkspace constructs a Workspace populated from tree's declared
// variables, each immediately marked available.
func NewWorkspace(tree *Tree) *Workspace {
	w := &Workspace{
		byName:    make(map[string]uint32, len(tree.Variables)),
		callbacks: make(map[*guard]func(uint32, model.AnyValue, bool)),
	}
	for _, v := range tree.Variables {
		idx := uint32(len(w.names))
		w.names = append(w.names, v.Name)
		w.byName[v.Name] = idx
		w.values = append(w.values, v.Value)
		w.available = append(w.available, true)
	}
	return w
}

func (w *Workspace) GetCallbackGuard() engine.CallbackGuard {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextGuard++
	return &guard{id: w.nextGuard, w: w}
}

func (w *Workspace) RegisterGenericCallback(fn func(idx uint32, value model.AnyValue, connected bool), g engine.CallbackGuard) {
	gg, ok := g.(*guard)
	if !ok || fn == nil {
		return
	}
	w.mu.Lock()
	w.callbacks[gg] = fn
	w.mu.Unlock()
}

func (w *Workspace) IsSuccessfullySetup() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, ok := range w.available {
		if !ok {
			return false
		}
	}
	return true
}

// SetValue writes value into the variable at idx and notifies every
// registered callback.
func (w *Workspace) SetValue(idx uint32, value model.AnyValue) error {
	w.mu.Lock()
	if int(idx) >= len(w.values) {
		w.mu.Unlock()
		return fmt.Errorf("procedure: workspace: variable index %d out of range", idx)
	}
	w.values[idx] = value
	callbacks := w.snapshotCallbacksLocked()
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(idx, value, true)
	}
	return nil
}

// SetByName writes value into the named variable, the form a Copy or
// Input instruction uses.
func (w *Workspace) SetByName(name string, value model.AnyValue) error {
	idx, ok := w.IndexOf(name)
	if !ok {
		return fmt.Errorf("procedure: workspace: unknown variable %q", name)
	}
	return w.SetValue(idx, value)
}

// ValueByName returns the named variable's current value.
func (w *Workspace) ValueByName(name string) (model.AnyValue, bool) {
	idx, ok := w.IndexOf(name)
	if !ok {
		return model.AnyValue{}, false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.values[idx], true
}

// IndexOf returns the engine index assigned to the named variable.
func (w *Workspace) IndexOf(name string) (uint32, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	idx, ok := w.byName[name]
	return idx, ok
}

// NameAt returns the variable name assigned to idx.
func (w *Workspace) NameAt(idx uint32) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if int(idx) >= len(w.names) {
		return "", false
	}
	return w.names[idx], true
}

// Snapshot returns every variable's current (index, name, value) triple,
// in index order: the set of VariableUpdated events a runner replays to a
// freshly attached Notifier so it sees the workspace's initial state.
func (w *Workspace) Snapshot() []struct {
	Index uint32
	Name  string
	Value model.AnyValue
} {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]struct {
		Index uint32
		Name  string
		Value model.AnyValue
	}, len(w.names))
	for i, name := range w.names {
		out[i] = struct {
			Index uint32
			Name  string
			Value model.AnyValue
		}{Index: uint32(i), Name: name, Value: w.values[i]}
	}
	return out
}

// Shutdown marks every variable unavailable, matching
// WorkspaceSynchronizer's destructor marking every WorkspaceItem variable
// unavailable, and notifies callbacks of the resulting disconnect.
func (w *Workspace) Shutdown() {
	w.mu.Lock()
	for i := range w.available {
		w.available[i] = false
	}
	callbacks := w.snapshotCallbacksLocked()
	values := make([]model.AnyValue, len(w.values))
	copy(values, w.values)
	w.mu.Unlock()

	for idx, value := range values {
		for _, fn := range callbacks {
			fn(uint32(idx), value, false)
		}
	}
}

func (w *Workspace) snapshotCallbacksLocked() []func(uint32, model.AnyValue, bool) {
	out := make([]func(uint32, model.AnyValue, bool), 0, len(w.callbacks))
	for _, fn := range w.callbacks {
		out = append(out, fn)
	}
	return out
}
