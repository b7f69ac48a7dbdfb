// Package jobhandler wires one running job (a runner.Runner) to one
// GUI-facing model.JobItem: it owns the breakpoint commands, routes every
// domain event to the item's in-place mutation, and keeps the
// index<->item correspondence as a standalone map rather than
// back-pointers on the items themselves.
package jobhandler

import "github.com/sup-codac/oac-tree-gui/internal/model"

// IndexMap is the bidirectional instruction/variable index to GUI item
// correspondence a Handler owns. Keeping it as a standalone type (rather
// than back-pointers stored on InstructionItem/VariableItem) avoids the
// item <-> handler cyclic reference the underlying
// ProcedureItemJobInfoBuilder has.
type IndexMap struct {
	instructions map[uint32]*model.InstructionItem
	variables    map[uint32]*model.VariableItem
}

// NewIndexMap constructs an empty IndexMap.
func NewIndexMap() *IndexMap {
	return &IndexMap{
		instructions: make(map[uint32]*model.InstructionItem),
		variables:    make(map[uint32]*model.VariableItem),
	}
}

// AddInstruction registers item under idx.
func (m *IndexMap) AddInstruction(idx uint32, item *model.InstructionItem) {
	m.instructions[idx] = item
}

// AddVariable registers item under idx.
func (m *IndexMap) AddVariable(idx uint32, item *model.VariableItem) {
	m.variables[idx] = item
}

// Instruction returns the GUI item for an instruction index, if known.
func (m *IndexMap) Instruction(idx uint32) (*model.InstructionItem, bool) {
	item, ok := m.instructions[idx]
	return item, ok
}

// Variable returns the GUI item for a variable index, if known.
func (m *IndexMap) Variable(idx uint32) (*model.VariableItem, bool) {
	item, ok := m.variables[idx]
	return item, ok
}

// Instructions returns every registered instruction item, unordered.
func (m *IndexMap) Instructions() []*model.InstructionItem {
	out := make([]*model.InstructionItem, 0, len(m.instructions))
	for _, item := range m.instructions {
		out = append(out, item)
	}
	return out
}
