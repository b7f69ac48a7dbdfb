package runner

import "github.com/sup-codac/oac-tree-gui/internal/procedure"

// InstructionInfo describes one instruction in a job's static structure,
// the piece of information a job handler needs to build its
// index-to-item map without reaching back into the procedure tree
// itself.
type InstructionInfo struct {
	Index    uint32
	Type     string
	Children []uint32
}

// VariableInfo describes one workspace variable in a job's static
// structure.
type VariableInfo struct {
	Index uint32
	Name  string
}

// Info is the static shape of a job: every instruction and every
// workspace variable, discovered once at construction time. It mirrors
// AbstractDomainRunner::GetJobInfo.
type Info struct {
	Name         string
	Root         uint32
	Instructions []InstructionInfo
	Variables    []VariableInfo
}

// infoFromTree builds an Info snapshot from a procedure tree and its
// workspace.
func infoFromTree(tree *procedure.Tree, ws *procedure.Workspace) Info {
	info := Info{Name: tree.Name, Root: tree.Root}
	for _, idx := range tree.Walk() {
		instr, _ := tree.At(idx)
		info.Instructions = append(info.Instructions, InstructionInfo{
			Index:    instr.Index,
			Type:     instr.Kind.String(),
			Children: append([]uint32(nil), instr.Children...),
		})
	}
	for _, snap := range ws.Snapshot() {
		info.Variables = append(info.Variables, VariableInfo{Index: snap.Index, Name: snap.Name})
	}
	return info
}
