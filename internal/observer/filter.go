package observer

// ActiveFilter narrows a set of candidate "next" instruction indices down
// to the ones that should actually be reported as active, e.g. to mute
// noisy container instructions and only surface their leaves. It mirrors
// the underlying engine's active_filter_t alias
// (std::function<std::set<uint32>(const std::set<uint32>&)>).
type ActiveFilter func(indices []uint32) []uint32

// IdentityFilter passes every candidate index through unchanged. It
// mirrors CreateInstructionIdentityFilter.
func IdentityFilter() ActiveFilter {
	return func(indices []uint32) []uint32 {
		out := make([]uint32, len(indices))
		copy(out, indices)
		return out
	}
}

// MuteAllFilter reports no active instructions at all, regardless of
// input. It mirrors CreateInstructionMuteAllFilter and is used when the
// consumer side has no use for active-instruction highlighting (e.g. a
// headless runner).
func MuteAllFilter() ActiveFilter {
	return func([]uint32) []uint32 { return nil }
}

// ParentIndexLookup reports the parent instruction index for idx, and
// whether idx has a parent at all (false for the root instruction).
type ParentIndexLookup func(idx uint32) (parent uint32, ok bool)

// AncestorsActiveFilter expands every candidate leaf index to include all
// of its ancestors, so a container instruction (Sequence, ParallelSequence,
// ...) is reported active whenever one of its children is. It mirrors
// CreateInstructionAncestorFilter, which is built from a job's
// GetParentIndices table.
func AncestorsActiveFilter(parentOf ParentIndexLookup) ActiveFilter {
	return func(indices []uint32) []uint32 {
		seen := make(map[uint32]struct{})
		var out []uint32
		add := func(idx uint32) {
			if _, ok := seen[idx]; ok {
				return
			}
			seen[idx] = struct{}{}
			out = append(out, idx)
		}
		for _, idx := range indices {
			add(idx)
			cur := idx
			for {
				parent, ok := parentOf(cur)
				if !ok {
					break
				}
				add(parent)
				cur = parent
			}
		}
		return out
	}
}
