// Package procedure provides an in-memory instruction tree and a minimal
// XML loader for it, filling the role the underlying engine's procedure
// file format plays: something runner.LocalRunner can actually execute
// end to end. The wire format itself is out of scope (see
// internal/procedure/xml.go), so the schema here is deliberately small:
// just enough to cover a Sequence of Wait, Message, Copy, and Input
// instructions.
package procedure

import "github.com/sup-codac/oac-tree-gui/internal/model"

// Kind identifies an instruction's behavior.
type Kind int

const (
	KindSequence Kind = iota
	KindWait
	KindMessage
	KindCopy
	KindInput
)

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "Sequence"
	case KindWait:
		return "Wait"
	case KindMessage:
		return "Message"
	case KindCopy:
		return "Copy"
	case KindInput:
		return "Input"
	default:
		return "Unknown"
	}
}

// Instruction is a single node in a Tree. Fields not relevant to Kind are
// left zero-valued: a Wait instruction only uses TimeoutMillis, a Copy
// instruction only uses From/To, and so on.
type Instruction struct {
	Index    uint32
	Kind     Kind
	Children []uint32

	// TimeoutMillis is the sleep duration, in milliseconds, for a Wait
	// instruction.
	TimeoutMillis int64

	// Text is the message shown by a Message instruction.
	Text string

	// From/To name workspace variables for a Copy instruction.
	From string
	To   string

	// Variable and Description drive a GetUserValue call for an Input
	// instruction: the result is written into the named workspace
	// variable.
	Variable    string
	Description string
}

// Variable declares one named entry in a Tree's workspace, with its
// initial value.
type Variable struct {
	Name  string
	Value model.AnyValue
}

// Tree is a complete procedure: a root instruction, every instruction
// reachable from it indexed by engine index, and the workspace variables
// it declares.
type Tree struct {
	Name         string
	Root         uint32
	Instructions map[uint32]*Instruction
	Variables    []Variable

	parent map[uint32]uint32
	order  []uint32
}

// finalize computes the parent-index table and a stable preorder walk
// order, both derived once after a Tree's instructions are fully known
// (either from the builder or the XML loader).
func (t *Tree) finalize() {
	t.parent = make(map[uint32]uint32, len(t.Instructions))
	t.order = nil

	var walk func(idx uint32)
	walk = func(idx uint32) {
		t.order = append(t.order, idx)
		instr := t.Instructions[idx]
		for _, child := range instr.Children {
			t.parent[child] = idx
			walk(child)
		}
	}
	walk(t.Root)
}

// ParentOf implements observer.ParentIndexLookup for this tree's
// instruction graph, so a runner can build
// observer.AncestorsActiveFilter(tree.ParentOf) at job-construction time.
func (t *Tree) ParentOf(idx uint32) (parent uint32, ok bool) {
	parent, ok = t.parent[idx]
	return parent, ok
}

// Walk returns every instruction index in a stable preorder (parents
// before children, siblings in declaration order).
func (t *Tree) Walk() []uint32 {
	out := make([]uint32, len(t.order))
	copy(out, t.order)
	return out
}

// InstructionCount reports the total number of instructions in the tree,
// the value an engine reports once via Notifier.InitNumberOfInstructions.
func (t *Tree) InstructionCount() uint32 {
	return uint32(len(t.Instructions))
}

// At returns the instruction at idx.
func (t *Tree) At(idx uint32) (*Instruction, bool) {
	instr, ok := t.Instructions[idx]
	return instr, ok
}
