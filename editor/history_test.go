package editor

import (
	"testing"

	"github.com/venuekit/floorplan/plan"
)

func docWithPoint(x float64) *plan.Document {
	d := plan.New()
	d.AddPoint(x, 0)
	return d
}

func TestHistoryLinear(t *testing.T) {
	var h History
	cur := docWithPoint(0)

	h.Checkpoint(cur)
	cur = docWithPoint(1)
	h.Checkpoint(cur)
	cur = docWithPoint(2)

	cur, ok := h.Undo(cur)
	if !ok || cur.Points[0].X != 1 {
		t.Fatalf("undo should restore x=1, got %+v", cur.Points)
	}
	cur, ok = h.Undo(cur)
	if !ok || cur.Points[0].X != 0 {
		t.Fatalf("undo should restore x=0")
	}
	if _, ok := h.Undo(cur); ok {
		t.Fatalf("undo past the beginning should report false")
	}
	cur, ok = h.Redo(cur)
	if !ok || cur.Points[0].X != 1 {
		t.Fatalf("redo should restore x=1")
	}
	cur, ok = h.Redo(cur)
	if !ok || cur.Points[0].X != 2 {
		t.Fatalf("redo should restore x=2")
	}
	if _, ok := h.Redo(cur); ok {
		t.Fatalf("redo past the end should report false")
	}
}

func TestCheckpointClearsFuture(t *testing.T) {
	var h History
	cur := docWithPoint(0)
	h.Checkpoint(cur)
	cur = docWithPoint(1)

	cur, _ = h.Undo(cur)
	if !h.CanRedo() {
		t.Fatalf("redo branch should exist after undo")
	}
	h.Checkpoint(cur)
	if h.CanRedo() {
		t.Fatalf("a new action must clear the redo branch")
	}
}

func TestGestureSnapshotOnce(t *testing.T) {
	var h History
	cur := docWithPoint(0)

	h.Arm(cur)
	// gesture with many deltas
	for i := 1; i <= 5; i++ {
		cur.Points[0].X = float64(i)
		h.MarkDirty()
	}
	h.Disarm()

	if len(h.past) != 1 {
		t.Fatalf("a drag must cost exactly one undo step, got %d", len(h.past))
	}
	restored, ok := h.Undo(cur)
	if !ok || restored.Points[0].X != 0 {
		t.Fatalf("undo should restore the pre-drag document, got %+v", restored.Points)
	}
}

func TestArmWithoutDeltaCostsNothing(t *testing.T) {
	var h History
	cur := docWithPoint(0)
	h.Arm(cur)
	h.Disarm()
	if h.CanUndo() {
		t.Fatalf("a click that never moved must not create an undo step")
	}
}

func TestHistoryLimit(t *testing.T) {
	var h History
	cur := docWithPoint(0)
	for i := 0; i < historyLimit+10; i++ {
		h.Checkpoint(cur)
	}
	if len(h.past) != historyLimit {
		t.Fatalf("history should cap at %d, got %d", historyLimit, len(h.past))
	}
}

func TestDropDiscardsSnapshot(t *testing.T) {
	var h History
	h.Checkpoint(docWithPoint(0))
	h.Drop()
	if h.CanUndo() {
		t.Fatalf("Drop should remove the snapshot")
	}
	h.Drop() // empty drop is a no-op
}
