package procedure

import "github.com/sup-codac/oac-tree-gui/internal/model"

// Builder assembles a Tree programmatically, assigning indices in the
// order nodes are created. It exists so tests and internal/procedure's
// own demo fixtures can construct trees without going through XML.
type Builder struct {
	name  string
	instr map[uint32]*Instruction
	vars  []Variable
	next  uint32
}

// NewBuilder starts a new Tree builder named name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name, instr: make(map[uint32]*Instruction)}
}

// Variable declares a workspace variable with an initial value.
func (b *Builder) Variable(name string, value model.AnyValue) *Builder {
	b.vars = append(b.vars, Variable{Name: name, Value: value})
	return b
}

func (b *Builder) add(instr *Instruction) uint32 {
	idx := b.next
	b.next++
	instr.Index = idx
	b.instr[idx] = instr
	return idx
}

// Wait adds a Wait instruction and returns its index.
func (b *Builder) Wait(timeoutMillis int64) uint32 {
	return b.add(&Instruction{Kind: KindWait, TimeoutMillis: timeoutMillis})
}

// Message adds a Message instruction and returns its index.
func (b *Builder) Message(text string) uint32 {
	return b.add(&Instruction{Kind: KindMessage, Text: text})
}

// Copy adds a Copy instruction and returns its index.
func (b *Builder) Copy(from, to string) uint32 {
	return b.add(&Instruction{Kind: KindCopy, From: from, To: to})
}

// Input adds an Input instruction and returns its index.
func (b *Builder) Input(variable, description string) uint32 {
	return b.add(&Instruction{Kind: KindInput, Variable: variable, Description: description})
}

// Sequence adds a Sequence instruction over the given child indices and
// returns its index.
func (b *Builder) Sequence(children ...uint32) uint32 {
	return b.add(&Instruction{Kind: KindSequence, Children: children})
}

// Build finalizes the tree with root as its top-level instruction.
func (b *Builder) Build(root uint32) *Tree {
	t := &Tree{Name: b.name, Root: root, Instructions: b.instr, Variables: b.vars}
	t.finalize()
	return t
}
