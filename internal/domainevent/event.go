// Package domainevent defines the tagged union of events posted by the
// automation engine across the engine/consumer thread boundary, and the
// thread-safe FIFO queue that carries them.
package domainevent

import (
	"fmt"

	"github.com/sup-codac/oac-tree-gui/internal/model"
)

// Kind identifies the concrete shape of an Event, letting subscribers
// filter or route without a type switch.
type Kind int

const (
	// KindEmpty is the sentinel kind posted for an event with no payload
	// (mirrors std::monostate in the underlying engine's variant).
	KindEmpty Kind = iota
	KindInstructionStateUpdated
	KindVariableUpdated
	KindJobStateChanged
	KindLog
	KindActiveInstructionChanged
	KindBreakpointHit
)

func (k Kind) String() string {
	switch k {
	case KindInstructionStateUpdated:
		return "InstructionStateUpdated"
	case KindVariableUpdated:
		return "VariableUpdated"
	case KindJobStateChanged:
		return "JobStateChanged"
	case KindLog:
		return "Log"
	case KindActiveInstructionChanged:
		return "ActiveInstructionChanged"
	case KindBreakpointHit:
		return "BreakpointHit"
	default:
		return "Empty"
	}
}

// Event is the interface implemented by every concrete domain event. It is
// the Go rendering of domain_event_t, the std::variant used by the
// underlying engine to carry a heterogeneous sequence of notifications
// through one FIFO channel.
type Event interface {
	// Kind returns the concrete event kind, used by the dispatcher to route
	// to per-kind handlers without a type switch.
	Kind() Kind
	// String renders a short human-readable summary, used in trace logging.
	String() string
}

type (
	// Empty is the sentinel event posted for a default-constructed
	// domain_event_t. IsValid reports false for it.
	Empty struct{}

	// InstructionStateUpdated reports that a single instruction finished a
	// state transition (e.g., became Running, or finished as Success).
	// BreakpointSet mirrors the runner's current breakpoint set at the
	// moment the event was emitted, not the GUI's BreakpointStatus (a
	// disabled breakpoint is absent from the domain, so it reports false
	// here the same as an unset one).
	InstructionStateUpdated struct {
		Index         uint32
		Status        model.InstructionStatus
		BreakpointSet bool
	}

	// VariableUpdated reports a new value and/or connected status for a
	// single workspace variable.
	VariableUpdated struct {
		Index     uint32
		Value     model.AnyValue
		Connected bool
	}

	// JobStateChanged reports a transition of the job's overall JobState.
	JobStateChanged struct {
		State model.JobState
	}

	// Log reports a single message emitted by the engine or one of its
	// instructions (PutValue request, Message instruction, warning on a
	// missing user-input provider, ...).
	Log struct {
		Severity model.Severity
		Source   string
		Message  string
	}

	// ActiveInstructionChanged reports the current set of "next" leaf
	// instruction indices the engine is about to execute, already passed
	// through whatever active-instruction filter is installed.
	ActiveInstructionChanged struct {
		Indices []uint32
	}

	// BreakpointHit reports that execution paused because a breakpoint was
	// set on the given instruction index.
	BreakpointHit struct {
		Index uint32
	}
)

func (Empty) Kind() Kind                        { return KindEmpty }
func (InstructionStateUpdated) Kind() Kind      { return KindInstructionStateUpdated }
func (VariableUpdated) Kind() Kind              { return KindVariableUpdated }
func (JobStateChanged) Kind() Kind              { return KindJobStateChanged }
func (Log) Kind() Kind                          { return KindLog }
func (ActiveInstructionChanged) Kind() Kind      { return KindActiveInstructionChanged }
func (BreakpointHit) Kind() Kind                { return KindBreakpointHit }

func (Empty) String() string { return "<empty>" }

func (e InstructionStateUpdated) String() string {
	return fmt.Sprintf("InstructionStateUpdated(index=%d, status=%s, breakpoint_set=%t)", e.Index, e.Status, e.BreakpointSet)
}

func (e VariableUpdated) String() string {
	return fmt.Sprintf("VariableUpdated(index=%d, connected=%t, value=%s)", e.Index, e.Connected, e.Value.Describe())
}

func (e JobStateChanged) String() string {
	return fmt.Sprintf("JobStateChanged(state=%s)", e.State)
}

func (e Log) String() string {
	return fmt.Sprintf("Log(severity=%s, source=%q, message=%q)", e.Severity, e.Source, e.Message)
}

func (e ActiveInstructionChanged) String() string {
	return fmt.Sprintf("ActiveInstructionChanged(indices=%v)", e.Indices)
}

func (e BreakpointHit) String() string {
	return fmt.Sprintf("BreakpointHit(index=%d)", e.Index)
}

// IsValid reports whether e carries a real payload, i.e. is not the Empty
// sentinel. A nil Event is also invalid.
func IsValid(e Event) bool {
	if e == nil {
		return false
	}
	_, empty := e.(Empty)
	return !empty
}
