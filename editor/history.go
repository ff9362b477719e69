package editor

import "github.com/venuekit/floorplan/plan"

// historyLimit bounds the undo depth; beyond it the oldest snapshot falls
// off the far end.
const historyLimit = 64

// History is a linear undo/redo stack over whole-document snapshots.
//
// Click-atomic actions call Checkpoint right before mutating. Drags call
// Arm at pointer-down, MarkDirty on every delta (only the first one takes
// the snapshot) and Disarm at pointer-up, so a gesture of any length costs
// exactly one undo step.
type History struct {
	past    []*plan.Document
	future  []*plan.Document
	pending *plan.Document
}

// Checkpoint records the pre-mutation document and invalidates the redo
// branch.
func (h *History) Checkpoint(doc *plan.Document) {
	h.push(doc.Clone())
}

// Arm stages a snapshot of the pre-gesture document without committing it.
func (h *History) Arm(doc *plan.Document) {
	h.pending = doc.Clone()
}

// MarkDirty commits the staged snapshot on the gesture's first effective
// delta; later calls within the same gesture are no-ops.
func (h *History) MarkDirty() {
	if h.pending == nil {
		return
	}
	h.push(h.pending)
	h.pending = nil
}

// Disarm drops a staged snapshot that never became dirty (pointer-up).
func (h *History) Disarm() {
	h.pending = nil
}

func (h *History) push(snap *plan.Document) {
	h.past = append(h.past, snap)
	if len(h.past) > historyLimit {
		h.past = h.past[1:]
	}
	h.future = h.future[:0]
}

// Undo swaps the current document for the newest past snapshot. ok is
// false when there is nothing to undo.
func (h *History) Undo(current *plan.Document) (*plan.Document, bool) {
	if len(h.past) == 0 {
		return current, false
	}
	h.pending = nil
	snap := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, current)
	return snap, true
}

// Redo is the inverse of Undo.
func (h *History) Redo(current *plan.Document) (*plan.Document, bool) {
	if len(h.future) == 0 {
		return current, false
	}
	h.pending = nil
	snap := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, current)
	return snap, true
}

// Drop discards the newest past snapshot. Used when a checkpointed action
// turns out to be a no-op (e.g. a refused placement): the document was
// never mutated, so the snapshot must not become an undo step.
func (h *History) Drop() {
	if n := len(h.past); n > 0 {
		h.past = h.past[:n-1]
	}
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }
