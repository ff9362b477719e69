package editor

import (
	"github.com/jakecoffman/cp"

	"github.com/venuekit/floorplan/plan"
)

// Mode is the active editing tool.
type Mode int

const (
	ModeSelect Mode = iota
	ModeDraw
	ModePan
	ModeDoor
	ModeWindow
	ModeStage
)

func (m Mode) String() string {
	switch m {
	case ModeSelect:
		return "Select"
	case ModeDraw:
		return "Draw"
	case ModePan:
		return "Pan"
	case ModeDoor:
		return "Door"
	case ModeWindow:
		return "Window"
	case ModeStage:
		return "Stage"
	default:
		return "Unknown"
	}
}

// Button identifies a pointer button; the frontend maps its own codes.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// SelKind tags what a Selection refers to.
type SelKind int

const (
	SelNone SelKind = iota
	SelPoint
	SelWall
	SelDoor
	SelWindow
	SelStage
)

type Selection struct {
	Kind SelKind
	ID   int
}

// Ghost is the live preview of an opening placement in Door/Window mode.
// Valid means the committed placement would not be blocked (merging still
// counts as valid).
type Ghost struct {
	Active bool
	WallID int
	Offset float64 // meters
	Width  float64 // meters
	Valid  bool
}

// Defaults are the dimensions applied to newly placed entities; they come
// from config.
type Defaults struct {
	WallThickness float64
	WallHeight    float64
	WallTexture   string
	DoorWidth     float64
	DoorHeight    float64
	WindowWidth   float64
	WindowHeight  float64
	WindowSill    float64
	StageWidth    float64
	StageDepth    float64
	StageHeight   float64
	StageColor    string
}

// pickupRadiusPx is the screen-space hit radius; dividing by zoom keeps
// picking comfortable at any magnification.
const pickupRadiusPx = 10.0

// wallPickupRadiusPx is the wider radius used to attach opening ghosts.
const wallPickupRadiusPx = 30.0

// Session is the editing state machine. All methods run synchronously on
// the caller's (UI) goroutine; the session owns its document exclusively.
type Session struct {
	Camera Camera

	doc      *plan.Document
	history  History
	defaults Defaults
	mode     Mode

	sel   Selection
	hover Selection

	// chained wall drawing
	chainPointID int

	ghost Ghost

	// drag/pan state
	dragging   bool
	dragStartW cp.Vector // world position at drag start
	dragOrig   []cp.Vector
	panning    bool
	panButton  bool // pan initiated by a pointer button (vs. Pan mode idle)
	lastScreen cp.Vector
	spaceHeld  bool

	onChange func(*plan.Document)
}

func NewSession(doc *plan.Document, defaults Defaults, onChange func(*plan.Document)) *Session {
	if doc == nil {
		doc = plan.New()
	}
	return &Session{
		Camera:   NewCamera(),
		doc:      doc,
		defaults: defaults,
		mode:     ModeSelect,
		onChange: onChange,
	}
}

func (s *Session) Doc() *plan.Document  { return s.doc }
func (s *Session) Mode() Mode           { return s.mode }
func (s *Session) Selection() Selection { return s.sel }
func (s *Session) Hover() Selection     { return s.hover }
func (s *Session) Ghost() Ghost         { return s.ghost }
func (s *Session) ChainPointID() int    { return s.chainPointID }
func (s *Session) CanUndo() bool        { return s.history.CanUndo() }
func (s *Session) CanRedo() bool        { return s.history.CanRedo() }

// commit fires the change notification after a committed mutation.
func (s *Session) commit() {
	if s.onChange != nil {
		s.onChange(s.doc)
	}
}

// ReplaceDocument swaps in an externally loaded document (file open or
// reload). The current state becomes an undo step.
func (s *Session) ReplaceDocument(doc *plan.Document) {
	if doc == nil {
		doc = plan.New()
	}
	s.history.Checkpoint(s.doc)
	s.doc = doc
	s.clearTransient()
	s.commit()
}

// SetMode switches tools. Any transition clears the selection and every
// in-progress placement.
func (s *Session) SetMode(m Mode) {
	s.mode = m
	s.clearTransient()
}

func (s *Session) clearTransient() {
	s.sel = Selection{}
	s.hover = Selection{}
	s.chainPointID = 0
	s.ghost = Ghost{}
	s.dragging = false
	s.history.Disarm()
}

func (s *Session) SetSpaceHeld(held bool) {
	s.spaceHeld = held
	if !held && !s.panButton {
		s.panning = false
	}
}

// Wheel zooms about the cursor.
func (s *Session) Wheel(screen cp.Vector, dy float64) {
	if dy == 0 {
		return
	}
	factor := 1.1
	if dy < 0 {
		factor = 1 / 1.1
	}
	s.Camera.ZoomAt(screen, factor)
}

func (s *Session) PointerDown(screen cp.Vector, button Button) {
	if button == ButtonMiddle || s.spaceHeld || s.mode == ModePan {
		s.panning = true
		s.panButton = true
		s.lastScreen = screen
		return
	}
	if button != ButtonLeft {
		return
	}
	world := s.Camera.ScreenToWorld(screen)
	s.lastScreen = screen

	switch s.mode {
	case ModeSelect:
		s.sel = s.hitTest(world)
		if s.sel.Kind != SelNone {
			s.dragging = true
			s.dragStartW = world
			s.dragOrig = s.selectionAnchors()
			s.history.Arm(s.doc)
		}
	case ModeDraw:
		s.drawClick(world)
	case ModeDoor:
		s.commitGhost(plan.KindDoor)
	case ModeWindow:
		s.commitGhost(plan.KindWindow)
	case ModeStage:
		pos := Snap(world)
		s.history.Checkpoint(s.doc)
		df := s.defaults
		if id, ok := s.doc.AddStage(pos.X, pos.Y, df.StageWidth, df.StageDepth, df.StageHeight, 0, df.StageColor); ok {
			s.sel = Selection{Kind: SelStage, ID: id}
			s.commit()
		} else {
			s.history.Drop()
		}
	}
}

func (s *Session) PointerMove(screen cp.Vector) {
	if s.panning {
		delta := screen.Sub(s.lastScreen)
		s.Camera.Pan = s.Camera.Pan.Add(delta)
		s.lastScreen = screen
		return
	}
	world := s.Camera.ScreenToWorld(screen)

	switch s.mode {
	case ModeSelect:
		if s.dragging {
			s.dragSelection(world)
		} else {
			s.hover = s.hitTest(world)
		}
	case ModeDoor:
		s.updateGhost(world, plan.KindDoor)
	case ModeWindow:
		s.updateGhost(world, plan.KindWindow)
	}
	s.lastScreen = screen
}

func (s *Session) PointerUp(screen cp.Vector, button Button) {
	if button == ButtonMiddle || s.panButton {
		s.panning = false
		s.panButton = false
	}
	if button == ButtonLeft {
		s.dragging = false
		s.dragOrig = nil
		s.history.Disarm()
	}
}

// KeyEscape clears the active draw chain and the current selection without
// touching committed geometry.
func (s *Session) KeyEscape() {
	s.chainPointID = 0
	s.sel = Selection{}
	s.ghost = Ghost{}
}

// KeyDelete removes the selected entity (with cascades).
func (s *Session) KeyDelete() {
	if s.sel.Kind == SelNone {
		return
	}
	s.history.Checkpoint(s.doc)
	var deleted bool
	switch s.sel.Kind {
	case SelPoint:
		deleted = s.doc.DeletePoint(s.sel.ID)
	case SelWall:
		deleted = s.doc.DeleteWall(s.sel.ID)
	case SelDoor:
		deleted = s.doc.DeleteDoor(s.sel.ID)
	case SelWindow:
		deleted = s.doc.DeleteWindow(s.sel.ID)
	case SelStage:
		deleted = s.doc.DeleteStage(s.sel.ID)
	}
	if !deleted {
		s.history.Drop()
		return
	}
	s.sel = Selection{}
	s.hover = Selection{}
	s.commit()
}

func (s *Session) Undo() {
	doc, ok := s.history.Undo(s.doc)
	if !ok {
		return
	}
	s.doc = doc
	s.sel = Selection{}
	s.hover = Selection{}
	s.chainPointID = 0
	s.commit()
}

func (s *Session) Redo() {
	doc, ok := s.history.Redo(s.doc)
	if !ok {
		return
	}
	s.doc = doc
	s.sel = Selection{}
	s.hover = Selection{}
	s.chainPointID = 0
	s.commit()
}

// drawClick implements chained wall drawing: each click places (or reuses)
// a point; with an active chain point a wall connects it to the clicked
// point, which becomes the new chain point.
func (s *Session) drawClick(world cp.Vector) {
	pos := Snap(world)

	targetID := 0
	if p, ok := s.pointAt(world); ok {
		targetID = p.ID
	} else {
		// At high zoom the pickup radius is smaller than a grid cell, so
		// a miss can still snap onto an existing point's coordinates;
		// reuse it instead of stacking a coincident duplicate.
		for i := range s.doc.Points {
			if s.doc.Points[i].Vec().Equal(pos) {
				targetID = s.doc.Points[i].ID
				break
			}
		}
	}

	if targetID != 0 {
		if s.chainPointID == 0 || s.chainPointID == targetID {
			// redirect only, no mutation: no snapshot
			s.chainPointID = targetID
			return
		}
		s.history.Checkpoint(s.doc)
		df := s.defaults
		if _, ok := s.doc.AddWall(s.chainPointID, targetID, df.WallThickness, df.WallHeight, df.WallTexture); !ok {
			s.history.Drop()
			return
		}
		s.chainPointID = targetID
		s.commit()
		return
	}

	s.history.Checkpoint(s.doc)
	id := s.doc.AddPoint(pos.X, pos.Y)
	if s.chainPointID != 0 {
		df := s.defaults
		s.doc.AddWall(s.chainPointID, id, df.WallThickness, df.WallHeight, df.WallTexture)
	}
	s.chainPointID = id
	s.commit()
}

func (s *Session) updateGhost(world cp.Vector, kind plan.OpeningKind) {
	width := s.defaults.DoorWidth
	if kind == plan.KindWindow {
		width = s.defaults.WindowWidth
	}
	wallID, offset, ok := s.nearestWall(world, wallPickupRadiusPx/s.Camera.Zoom)
	if !ok {
		s.ghost = Ghost{}
		return
	}
	w, _ := s.doc.Wall(wallID)
	offset, fits := plan.ClampOffset(offset, width, s.doc.WallLengthM(*w))
	if !fits {
		s.ghost = Ghost{}
		return
	}
	res := s.doc.CheckOverlap(wallID, offset, width, kind, 0)
	s.ghost = Ghost{
		Active: true,
		WallID: wallID,
		Offset: offset,
		Width:  width,
		Valid:  !res.Blocked,
	}
}

func (s *Session) commitGhost(kind plan.OpeningKind) {
	g := s.ghost
	if !g.Active || !g.Valid {
		return
	}
	s.history.Checkpoint(s.doc)
	df := s.defaults
	var ok bool
	if kind == plan.KindDoor {
		_, ok = s.doc.PlaceDoor(g.WallID, g.Offset, g.Width, df.DoorHeight)
	} else {
		_, ok = s.doc.PlaceWindow(g.WallID, g.Offset, g.Width, df.WindowHeight, df.WindowSill)
	}
	if !ok {
		s.history.Drop()
		return
	}
	s.ghost = Ghost{}
	s.commit()
}

// selectionAnchors records the positions a drag displaces, in drag order.
func (s *Session) selectionAnchors() []cp.Vector {
	switch s.sel.Kind {
	case SelPoint:
		if p, ok := s.doc.Point(s.sel.ID); ok {
			return []cp.Vector{p.Vec()}
		}
	case SelWall:
		if w, ok := s.doc.Wall(s.sel.ID); ok {
			if a, b, ok := s.doc.WallEnds(*w); ok {
				return []cp.Vector{a, b}
			}
		}
	case SelStage:
		if st, ok := s.doc.Stage(s.sel.ID); ok {
			return []cp.Vector{{X: st.X, Y: st.Y}}
		}
	}
	return nil
}

func (s *Session) dragSelection(world cp.Vector) {
	delta := world.Sub(s.dragStartW)
	changed := false

	switch s.sel.Kind {
	case SelPoint:
		if len(s.dragOrig) != 1 {
			return
		}
		p, ok := s.doc.Point(s.sel.ID)
		if !ok {
			return
		}
		pos := Snap(s.dragOrig[0].Add(delta))
		if pos.X != p.X || pos.Y != p.Y {
			s.history.MarkDirty()
			p.X, p.Y = pos.X, pos.Y
			changed = true
		}
	case SelWall:
		if len(s.dragOrig) != 2 {
			return
		}
		w, ok := s.doc.Wall(s.sel.ID)
		if !ok {
			return
		}
		sp, okS := s.doc.Point(w.StartPointID)
		ep, okE := s.doc.Point(w.EndPointID)
		if !okS || !okE {
			return
		}
		a := Snap(s.dragOrig[0].Add(delta))
		b := Snap(s.dragOrig[1].Add(delta))
		if a.X != sp.X || a.Y != sp.Y || b.X != ep.X || b.Y != ep.Y {
			s.history.MarkDirty()
			sp.X, sp.Y = a.X, a.Y
			ep.X, ep.Y = b.X, b.Y
			changed = true
		}
	case SelStage:
		if len(s.dragOrig) != 1 {
			return
		}
		st, ok := s.doc.Stage(s.sel.ID)
		if !ok {
			return
		}
		pos := Snap(s.dragOrig[0].Add(delta))
		if pos.X != st.X || pos.Y != st.Y {
			s.history.MarkDirty()
			st.X, st.Y = pos.X, pos.Y
			changed = true
		}
	case SelDoor, SelWindow:
		changed = s.dragOpening(world)
	}

	if changed {
		s.commit()
	}
}

// dragOpening slides the selected opening along its wall, merging
// neighbors live and refusing to cross a blocker.
func (s *Session) dragOpening(world cp.Vector) bool {
	var wallID int
	if s.sel.Kind == SelDoor {
		o, ok := s.doc.Door(s.sel.ID)
		if !ok {
			return false
		}
		wallID = o.WallID
	} else {
		o, ok := s.doc.Window(s.sel.ID)
		if !ok {
			return false
		}
		wallID = o.WallID
	}
	w, ok := s.doc.Wall(wallID)
	if !ok {
		return false
	}
	a, b, ok := s.doc.WallEnds(*w)
	if !ok {
		return false
	}
	_, t := plan.ClosestPointOnSegment(world, a, b)
	offset := t * s.doc.WallLengthM(*w)

	before := s.doc.Clone()
	var moved bool
	if s.sel.Kind == SelDoor {
		moved = s.doc.SlideDoor(s.sel.ID, offset)
	} else {
		moved = s.doc.SlideWindow(s.sel.ID, offset)
	}
	if !moved || s.doc.Equal(before) {
		return false
	}
	s.history.MarkDirty()
	return true
}

// pointAt finds a document point within pickup radius of a world position.
func (s *Session) pointAt(world cp.Vector) (*plan.Point, bool) {
	radius := pickupRadiusPx / s.Camera.Zoom
	var best *plan.Point
	bestDist := radius
	for i := range s.doc.Points {
		p := &s.doc.Points[i]
		if d := p.Vec().Distance(world); d <= bestDist {
			best = p
			bestDist = d
		}
	}
	return best, best != nil
}

// nearestWall projects world onto the closest wall within radius and
// returns the offset along it in meters.
func (s *Session) nearestWall(world cp.Vector, radius float64) (wallID int, offset float64, ok bool) {
	bestDist := radius
	for _, w := range s.doc.Walls {
		a, b, okW := s.doc.WallEnds(w)
		if !okW || a.Equal(b) {
			continue
		}
		proj, t := plan.ClosestPointOnSegment(world, a, b)
		if d := proj.Distance(world); d <= bestDist {
			bestDist = d
			wallID = w.ID
			offset = t * s.doc.WallLengthM(w)
			ok = true
		}
	}
	return wallID, offset, ok
}

// openingSegment computes the world-space endpoints of an opening's
// interval on its wall.
func (s *Session) openingSegment(wallID int, offset, width float64) (cp.Vector, cp.Vector, bool) {
	w, ok := s.doc.Wall(wallID)
	if !ok {
		return cp.Vector{}, cp.Vector{}, false
	}
	a, b, ok := s.doc.WallEnds(*w)
	if !ok || a.Equal(b) {
		return cp.Vector{}, cp.Vector{}, false
	}
	dir := b.Sub(a).Normalize()
	min := a.Add(dir.Mult((offset - width/2) * plan.PixelsPerMeter))
	max := a.Add(dir.Mult((offset + width/2) * plan.PixelsPerMeter))
	return min, max, true
}

// OpeningSegment is the exported form used by the renderer for doors,
// windows and the ghost.
func (s *Session) OpeningSegment(wallID int, offset, width float64) (cp.Vector, cp.Vector, bool) {
	return s.openingSegment(wallID, offset, width)
}

// hitTest resolves the entity under the cursor: points first, then
// openings, then walls, then stages; single mutually exclusive result.
func (s *Session) hitTest(world cp.Vector) Selection {
	if p, ok := s.pointAt(world); ok {
		return Selection{Kind: SelPoint, ID: p.ID}
	}
	radius := pickupRadiusPx / s.Camera.Zoom

	for _, o := range s.doc.Doors {
		if a, b, ok := s.openingSegment(o.WallID, o.Offset, o.Width); ok {
			if proj, _ := plan.ClosestPointOnSegment(world, a, b); proj.Distance(world) <= radius {
				return Selection{Kind: SelDoor, ID: o.ID}
			}
		}
	}
	for _, o := range s.doc.Windows {
		if a, b, ok := s.openingSegment(o.WallID, o.Offset, o.Width); ok {
			if proj, _ := plan.ClosestPointOnSegment(world, a, b); proj.Distance(world) <= radius {
				return Selection{Kind: SelWindow, ID: o.ID}
			}
		}
	}
	for _, w := range s.doc.Walls {
		a, b, ok := s.doc.WallEnds(w)
		if !ok {
			continue
		}
		pick := radius
		if half := w.Thickness * plan.PixelsPerMeter / 2; half > pick {
			pick = half
		}
		if proj, _ := plan.ClosestPointOnSegment(world, a, b); proj.Distance(world) <= pick {
			return Selection{Kind: SelWall, ID: w.ID}
		}
	}
	for _, st := range s.doc.Stages {
		if stageContains(st, world) {
			return Selection{Kind: SelStage, ID: st.ID}
		}
	}
	return Selection{}
}

// stageContains tests a world point against a stage's rotated footprint.
func stageContains(st plan.Stage, world cp.Vector) bool {
	local := world.Sub(cp.Vector{X: st.X, Y: st.Y}).Rotate(cp.ForAngle(-st.Rotation))
	halfW := st.Width * plan.PixelsPerMeter / 2
	halfD := st.Depth * plan.PixelsPerMeter / 2
	return local.X >= -halfW && local.X <= halfW && local.Y >= -halfD && local.Y <= halfD
}
