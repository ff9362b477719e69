package plan

import "math"

// OpeningKind tags the two opening families. Same-kind overlaps merge,
// cross-kind overlaps block.
type OpeningKind int

const (
	KindDoor OpeningKind = iota
	KindWindow
)

func (k OpeningKind) String() string {
	if k == KindDoor {
		return "door"
	}
	return "window"
}

// Overlap is the outcome of testing a proposed opening interval against a
// wall's existing openings.
type Overlap struct {
	// Blocked reports an intersection with an opposite-kind opening.
	// When set, nothing else in the result is meaningful and the caller
	// must not mutate the document.
	Blocked bool
	// Absorb lists same-kind opening ids whose intervals intersect the
	// proposal; committing requires deleting them.
	Absorb []int
	// Min/Max span the union of the proposal with every absorbed
	// interval, in meters along the wall.
	Min, Max float64
}

// Merged reports whether committing the proposal swallows neighbors.
func (o Overlap) Merged() bool { return len(o.Absorb) > 0 }

// Width of the (possibly unioned) committed interval.
func (o Overlap) Width() float64 { return o.Max - o.Min }

// Offset of the (possibly unioned) committed interval's center.
func (o Overlap) Offset() float64 { return o.Min + (o.Max-o.Min)/2 }

func intervalsOverlap(aMin, aMax, bMin, bMax float64) bool {
	return math.Max(aMin, bMin) < math.Min(aMax, bMax)
}

// CheckOverlap tests placing (or dragging, with excludeID set to the moving
// opening's id) an opening of the given kind on a wall. It never mutates
// the document. excludeID 0 means "no exclusion".
//
// Post-commit guarantee: same-kind intervals on a wall stay pairwise
// disjoint, and a door interval never intersects a window interval.
func (d *Document) CheckOverlap(wallID int, offset, width float64, kind OpeningKind, excludeID int) Overlap {
	min := offset - width/2
	max := offset + width/2
	res := Overlap{Min: min, Max: max}

	// Opposite-kind openings block outright.
	if kind == KindDoor {
		for _, w := range d.Windows {
			if w.WallID == wallID && intervalsOverlap(min, max, w.Offset-w.Width/2, w.Offset+w.Width/2) {
				res.Blocked = true
				return res
			}
		}
	} else {
		for _, o := range d.Doors {
			if o.WallID == wallID && intervalsOverlap(min, max, o.Offset-o.Width/2, o.Offset+o.Width/2) {
				res.Blocked = true
				return res
			}
		}
	}

	// Same-kind overlaps are unioned into one spanning interval.
	absorb := func(id int, oMin, oMax float64) {
		if !intervalsOverlap(res.Min, res.Max, oMin, oMax) {
			return
		}
		res.Absorb = append(res.Absorb, id)
		res.Min = math.Min(res.Min, oMin)
		res.Max = math.Max(res.Max, oMax)
	}
	if kind == KindDoor {
		for _, o := range d.Doors {
			if o.WallID == wallID && o.ID != excludeID {
				absorb(o.ID, o.Offset-o.Width/2, o.Offset+o.Width/2)
			}
		}
	} else {
		for _, w := range d.Windows {
			if w.WallID == wallID && w.ID != excludeID {
				absorb(w.ID, w.Offset-w.Width/2, w.Offset+w.Width/2)
			}
		}
	}
	return res
}

// ClampOffset shifts a centered interval so it fits [0, limit]; the
// width is preserved when it fits at all.
func ClampOffset(offset, width, limit float64) (float64, bool) {
	if width <= 0 || width > limit {
		return 0, false
	}
	half := width / 2
	if offset-half < 0 {
		offset = half
	}
	if offset+half > limit {
		offset = limit - half
	}
	return offset, true
}

// PlaceDoor commits a door on a wall, merging same-kind neighbors and
// refusing cross-kind collisions. Returns the id of the resulting door
// (which spans the merged union when merging occurred).
func (d *Document) PlaceDoor(wallID int, offset, width, height float64) (int, bool) {
	if height <= 0 {
		return 0, false
	}
	w, ok := d.Wall(wallID)
	if !ok {
		return 0, false
	}
	offset, ok = ClampOffset(offset, width, d.WallLengthM(*w))
	if !ok {
		return 0, false
	}
	res := d.CheckOverlap(wallID, offset, width, KindDoor, 0)
	if res.Blocked {
		return 0, false
	}
	for _, id := range res.Absorb {
		d.DeleteDoor(id)
	}
	id := d.NextID()
	d.Doors = append(d.Doors, Door{
		ID: id, WallID: wallID,
		Offset: res.Offset(), Width: res.Width(), Height: height,
	})
	return id, true
}

// PlaceWindow is the window counterpart of PlaceDoor.
func (d *Document) PlaceWindow(wallID int, offset, width, height, sill float64) (int, bool) {
	if height <= 0 || sill < 0 {
		return 0, false
	}
	w, ok := d.Wall(wallID)
	if !ok {
		return 0, false
	}
	offset, ok = ClampOffset(offset, width, d.WallLengthM(*w))
	if !ok {
		return 0, false
	}
	res := d.CheckOverlap(wallID, offset, width, KindWindow, 0)
	if res.Blocked {
		return 0, false
	}
	for _, id := range res.Absorb {
		d.DeleteWindow(id)
	}
	id := d.NextID()
	d.Windows = append(d.Windows, Window{
		ID: id, WallID: wallID,
		Offset: res.Offset(), Width: res.Width(), Height: height,
		HeightFromGround: sill,
	})
	return id, true
}

// SlideDoor moves an existing door along its wall. Blocked moves are
// no-ops; moves into same-kind neighbors merge into the moved door, which
// takes on the union interval.
func (d *Document) SlideDoor(id int, offset float64) bool {
	o, ok := d.Door(id)
	if !ok {
		return false
	}
	w, ok := d.Wall(o.WallID)
	if !ok {
		return false
	}
	offset, ok = ClampOffset(offset, o.Width, d.WallLengthM(*w))
	if !ok {
		return false
	}
	res := d.CheckOverlap(o.WallID, offset, o.Width, KindDoor, id)
	if res.Blocked {
		return false
	}
	for _, aid := range res.Absorb {
		d.DeleteDoor(aid)
	}
	// deletion may have moved the record
	o, _ = d.Door(id)
	o.Offset = res.Offset()
	o.Width = res.Width()
	return true
}

// SlideWindow is the window counterpart of SlideDoor.
func (d *Document) SlideWindow(id int, offset float64) bool {
	o, ok := d.Window(id)
	if !ok {
		return false
	}
	w, ok := d.Wall(o.WallID)
	if !ok {
		return false
	}
	offset, ok = ClampOffset(offset, o.Width, d.WallLengthM(*w))
	if !ok {
		return false
	}
	res := d.CheckOverlap(o.WallID, offset, o.Width, KindWindow, id)
	if res.Blocked {
		return false
	}
	for _, aid := range res.Absorb {
		d.DeleteWindow(aid)
	}
	o, _ = d.Window(id)
	o.Offset = res.Offset()
	o.Width = res.Width()
	return true
}
