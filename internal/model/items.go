package model

// InstructionStatus is the GUI-facing execution status of a single
// instruction, derived from the instruction states reported by
// InstructionStateUpdated events.
type InstructionStatus int

const (
	InstructionStatusNotStarted InstructionStatus = iota
	InstructionStatusRunning
	InstructionStatusSuccess
	InstructionStatusFailure
)

func (s InstructionStatus) String() string {
	switch s {
	case InstructionStatusRunning:
		return "Running"
	case InstructionStatusSuccess:
		return "Success"
	case InstructionStatusFailure:
		return "Failure"
	default:
		return "NotStarted"
	}
}

// BreakpointStatus is the GUI-facing breakpoint state of a single
// instruction, grounded on AbstractJobHandler::SetDomainBreakpoint:
// BreakpointStatusSet is the only status propagated to the domain runner
// as an active breakpoint; BreakpointStatusDisabled is a GUI-only status
// (shown with a distinct icon) that still removes the breakpoint from the
// domain, exactly like BreakpointStatusUnset.
type BreakpointStatus int

const (
	BreakpointStatusUnset BreakpointStatus = iota
	BreakpointStatusSet
	BreakpointStatusDisabled
)

func (s BreakpointStatus) String() string {
	switch s {
	case BreakpointStatusSet:
		return "Set"
	case BreakpointStatusDisabled:
		return "Disabled"
	default:
		return "Unset"
	}
}

// InstructionItem is the GUI-facing mirror of a single instruction in the
// procedure tree. It is updated in place by the job handler as
// InstructionStateUpdated and ActiveInstructionChanged events arrive; the
// job handler never replaces the pointer, so UI code holding a reference
// keeps seeing live updates.
type InstructionItem struct {
	// Index is the engine-assigned instruction index, stable for the
	// lifetime of the job.
	Index uint32
	// Type is the instruction type name, e.g. "Sequence" or "Wait".
	Type string
	// Status is the last reported execution status.
	Status InstructionStatus
	// Active reports whether this instruction is part of the job's current
	// active-instruction set (see ActiveInstructionChanged).
	Active bool
	// BreakpointStatus reports the GUI-facing breakpoint state of this
	// instruction.
	BreakpointStatus BreakpointStatus
}

// VariableItem is the GUI-facing mirror of a single workspace variable. It
// is updated in place by the job handler / workspace synchronizer as
// VariableUpdated events arrive.
type VariableItem struct {
	// Index is the engine-assigned variable index.
	Index uint32
	// Name is the variable's declared name in the workspace.
	Name string
	// Value is the last reported value.
	Value AnyValue
	// Available reports whether the variable is currently connected. A
	// variable is marked unavailable on job shutdown even if its last
	// known value is kept for display.
	Available bool
}

// JobItem is the GUI-facing aggregate for one job: its procedure name, run
// status, and the full set of instruction and variable mirrors indexed by
// engine index.
type JobItem struct {
	// Name identifies the job for display, typically the procedure name.
	Name string
	// Status is the last computed RunnerStatus for this job.
	Status RunnerStatus
	// Instructions maps engine instruction index to its GUI mirror.
	Instructions map[uint32]*InstructionItem
	// Variables maps engine variable index to its GUI mirror.
	Variables map[uint32]*VariableItem
	// Log holds every log event produced by this job.
	Log *JobLog
}

// NewJobItem constructs an empty JobItem ready to be populated as a job's
// procedure tree and workspace are discovered.
func NewJobItem(name string) *JobItem {
	return &JobItem{
		Name:         name,
		Status:       RunnerStatusIdle,
		Instructions: make(map[uint32]*InstructionItem),
		Variables:    make(map[uint32]*VariableItem),
		Log:          NewJobLog(),
	}
}
