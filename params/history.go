package params

// History is a linear undo/redo stack of full RenderParams snapshots. A
// snapshot is pushed before each mutating interaction (button press or drag
// start, not per intermediate drag frame); any push after an undo discards
// the redo branch.
type History struct {
	undo []RenderParams
	redo []RenderParams
}

// Push records the pre-mutation state and clears the redo stack.
func (h *History) Push(p RenderParams) {
	h.undo = append(h.undo, p.Clone())
	h.redo = h.redo[:0]
}

// Undo moves current onto the redo stack and returns the most recently
// pushed snapshot. ok is false when there is nothing to undo.
func (h *History) Undo(current RenderParams) (restored RenderParams, ok bool) {
	if len(h.undo) == 0 {
		return current, false
	}
	h.redo = append(h.redo, current.Clone())
	restored = h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return restored, true
}

// Redo is the inverse of Undo.
func (h *History) Redo(current RenderParams) (restored RenderParams, ok bool) {
	if len(h.redo) == 0 {
		return current, false
	}
	h.undo = append(h.undo, current.Clone())
	restored = h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return restored, true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the number of undoable snapshots.
func (h *History) Depth() int { return len(h.undo) }
