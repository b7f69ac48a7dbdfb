package observer

// ActiveInstructionMonitor turns the raw "next instructions" indices an
// engine reports at each tick into the filtered set an Observer should
// actually publish as an ActiveInstructionChanged event. It exists as
// its own type, independent of Observer, so the filter it applies can
// be swapped out (SetInstructionActiveFilter) without touching the
// mutex/condition-variable state Observer guards.
type ActiveInstructionMonitor struct {
	filter   ActiveFilter
	callback func(indices []uint32)
}

// NewActiveInstructionMonitor constructs a monitor that applies filter
// to every reported index set before invoking callback. A nil filter is
// treated as IdentityFilter.
func NewActiveInstructionMonitor(filter ActiveFilter, callback func(indices []uint32)) *ActiveInstructionMonitor {
	if filter == nil {
		filter = IdentityFilter()
	}
	return &ActiveInstructionMonitor{filter: filter, callback: callback}
}

// Update applies the monitor's filter to the raw leaf instruction
// indices an engine tick just reported and forwards the result to the
// callback, unconditionally: the decision of whether a given filtered
// set is worth reporting again belongs to the callback, not the
// monitor.
func (m *ActiveInstructionMonitor) Update(indices []uint32) {
	if m == nil || m.callback == nil {
		return
	}
	m.callback(m.filter(indices))
}
