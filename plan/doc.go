// Package plan holds the in-memory floorplan document: points, walls,
// doors, windows and stage platforms, plus the invariants that tie them
// together (cascade deletion, opening collision/merge).
//
// Units are mixed on purpose: point coordinates and stage centers are
// world-space pixels at PixelsPerMeter, while wall thickness/height and
// every opening dimension are meters. The reconstruction math depends on
// this convention, so it must not be "normalized away".
package plan

import (
	"math"

	"github.com/jakecoffman/cp"
)

// PixelsPerMeter converts document pixel coordinates to meters.
const PixelsPerMeter = 100.0

type Point struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Vec returns the point position as a plan-space vector (pixels).
func (p Point) Vec() cp.Vector { return cp.Vector{X: p.X, Y: p.Y} }

type Wall struct {
	ID           int     `json:"id"`
	StartPointID int     `json:"startPointId"`
	EndPointID   int     `json:"endPointId"`
	Thickness    float64 `json:"thickness"` // meters
	Height       float64 `json:"height"`    // meters
	Texture      string  `json:"texture,omitempty"`
}

type Door struct {
	ID     int     `json:"id"`
	WallID int     `json:"wallId"`
	Offset float64 `json:"offset"` // meters from the wall's start point
	Width  float64 `json:"width"`  // meters
	Height float64 `json:"height"` // meters
}

type Window struct {
	ID               int     `json:"id"`
	WallID           int     `json:"wallId"`
	Offset           float64 `json:"offset"`
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	HeightFromGround float64 `json:"heightFromGround"` // sill elevation, meters
}

type Stage struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"` // center, pixels
	Y        float64 `json:"y"`
	Width    float64 `json:"width"` // meters
	Depth    float64 `json:"depth"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"` // radians about the center
	Color    string  `json:"color,omitempty"`
}

// Document is the complete floorplan. The zero value is not usable; call
// New or Decode.
type Document struct {
	Points  []Point  `json:"points"`
	Walls   []Wall   `json:"walls"`
	Doors   []Door   `json:"doors"`
	Windows []Window `json:"windows"`
	Stages  []Stage  `json:"stages"`

	nextID int
}

func New() *Document {
	return &Document{
		Points:  []Point{},
		Walls:   []Wall{},
		Doors:   []Door{},
		Windows: []Window{},
		Stages:  []Stage{},
		nextID:  1,
	}
}

// NextID hands out a document-unique id.
func (d *Document) NextID() int {
	if d.nextID < 1 {
		d.renumber()
	}
	id := d.nextID
	d.nextID++
	return id
}

// renumber derives the id counter from the highest id present; used after
// decoding a document whose counter was never serialized.
func (d *Document) renumber() {
	max := 0
	for _, p := range d.Points {
		if p.ID > max {
			max = p.ID
		}
	}
	for _, w := range d.Walls {
		if w.ID > max {
			max = w.ID
		}
	}
	for _, o := range d.Doors {
		if o.ID > max {
			max = o.ID
		}
	}
	for _, o := range d.Windows {
		if o.ID > max {
			max = o.ID
		}
	}
	for _, s := range d.Stages {
		if s.ID > max {
			max = s.ID
		}
	}
	d.nextID = max + 1
}

func (d *Document) Point(id int) (*Point, bool) {
	for i := range d.Points {
		if d.Points[i].ID == id {
			return &d.Points[i], true
		}
	}
	return nil, false
}

func (d *Document) Wall(id int) (*Wall, bool) {
	for i := range d.Walls {
		if d.Walls[i].ID == id {
			return &d.Walls[i], true
		}
	}
	return nil, false
}

func (d *Document) Door(id int) (*Door, bool) {
	for i := range d.Doors {
		if d.Doors[i].ID == id {
			return &d.Doors[i], true
		}
	}
	return nil, false
}

func (d *Document) Window(id int) (*Window, bool) {
	for i := range d.Windows {
		if d.Windows[i].ID == id {
			return &d.Windows[i], true
		}
	}
	return nil, false
}

func (d *Document) Stage(id int) (*Stage, bool) {
	for i := range d.Stages {
		if d.Stages[i].ID == id {
			return &d.Stages[i], true
		}
	}
	return nil, false
}

// WallEnds resolves a wall's endpoints. ok is false when either point is
// missing, which the cascade rules make impossible for committed walls but
// callers still guard against.
func (d *Document) WallEnds(w Wall) (start, end cp.Vector, ok bool) {
	sp, okS := d.Point(w.StartPointID)
	ep, okE := d.Point(w.EndPointID)
	if !okS || !okE {
		return cp.Vector{}, cp.Vector{}, false
	}
	return sp.Vec(), ep.Vec(), true
}

// WallLengthM returns a wall's length in meters (0 for broken references).
func (d *Document) WallLengthM(w Wall) float64 {
	s, e, ok := d.WallEnds(w)
	if !ok {
		return 0
	}
	return s.Distance(e) / PixelsPerMeter
}

func (d *Document) AddPoint(x, y float64) int {
	id := d.NextID()
	d.Points = append(d.Points, Point{ID: id, X: x, Y: y})
	return id
}

// AddWall connects two existing points. Zero-length walls (identical
// endpoints) and broken references are refused.
func (d *Document) AddWall(startID, endID int, thickness, height float64, texture string) (int, bool) {
	if startID == endID || thickness <= 0 || height <= 0 {
		return 0, false
	}
	sp, okS := d.Point(startID)
	ep, okE := d.Point(endID)
	if !okS || !okE {
		return 0, false
	}
	if sp.X == ep.X && sp.Y == ep.Y {
		return 0, false
	}
	id := d.NextID()
	d.Walls = append(d.Walls, Wall{
		ID:           id,
		StartPointID: startID,
		EndPointID:   endID,
		Thickness:    thickness,
		Height:       height,
		Texture:      texture,
	})
	return id, true
}

func (d *Document) AddStage(x, y, width, depth, height, rotation float64, color string) (int, bool) {
	if width <= 0 || depth <= 0 || height <= 0 {
		return 0, false
	}
	id := d.NextID()
	d.Stages = append(d.Stages, Stage{
		ID: id, X: x, Y: y,
		Width: width, Depth: depth, Height: height,
		Rotation: rotation, Color: color,
	})
	return id, true
}

// WallsAtPoint lists the walls touching a point.
func (d *Document) WallsAtPoint(pointID int) []Wall {
	var out []Wall
	for _, w := range d.Walls {
		if w.StartPointID == pointID || w.EndPointID == pointID {
			out = append(out, w)
		}
	}
	return out
}

// DeletePoint removes a point, every wall touching it and, transitively,
// every opening on those walls.
func (d *Document) DeletePoint(id int) bool {
	if _, ok := d.Point(id); !ok {
		return false
	}
	for _, w := range d.WallsAtPoint(id) {
		d.DeleteWall(w.ID)
	}
	d.Points = deleteByID(d.Points, id, func(p Point) int { return p.ID })
	return true
}

// DeleteWall removes a wall and its openings. Endpoints stay; orphan
// points are legal geometry (a half-drawn chain).
func (d *Document) DeleteWall(id int) bool {
	if _, ok := d.Wall(id); !ok {
		return false
	}
	kept := d.Doors[:0]
	for _, o := range d.Doors {
		if o.WallID != id {
			kept = append(kept, o)
		}
	}
	d.Doors = kept
	keptW := d.Windows[:0]
	for _, o := range d.Windows {
		if o.WallID != id {
			keptW = append(keptW, o)
		}
	}
	d.Windows = keptW
	d.Walls = deleteByID(d.Walls, id, func(w Wall) int { return w.ID })
	return true
}

func (d *Document) DeleteDoor(id int) bool {
	if _, ok := d.Door(id); !ok {
		return false
	}
	d.Doors = deleteByID(d.Doors, id, func(o Door) int { return o.ID })
	return true
}

func (d *Document) DeleteWindow(id int) bool {
	if _, ok := d.Window(id); !ok {
		return false
	}
	d.Windows = deleteByID(d.Windows, id, func(o Window) int { return o.ID })
	return true
}

func (d *Document) DeleteStage(id int) bool {
	if _, ok := d.Stage(id); !ok {
		return false
	}
	d.Stages = deleteByID(d.Stages, id, func(s Stage) int { return s.ID })
	return true
}

func deleteByID[T any](s []T, id int, key func(T) int) []T {
	out := s[:0]
	for _, v := range s {
		if key(v) != id {
			out = append(out, v)
		}
	}
	return out
}

// Clone returns a deep copy. History snapshots and the export payload rely
// on clones never sharing backing arrays with the live document.
func (d *Document) Clone() *Document {
	c := &Document{
		Points:  make([]Point, len(d.Points)),
		Walls:   make([]Wall, len(d.Walls)),
		Doors:   make([]Door, len(d.Doors)),
		Windows: make([]Window, len(d.Windows)),
		Stages:  make([]Stage, len(d.Stages)),
		nextID:  d.nextID,
	}
	copy(c.Points, d.Points)
	copy(c.Walls, d.Walls)
	copy(c.Doors, d.Doors)
	copy(c.Windows, d.Windows)
	copy(c.Stages, d.Stages)
	return c
}

// Equal compares documents field by field, in order. Used by tests and the
// history manager's no-op detection.
func (d *Document) Equal(o *Document) bool {
	if len(d.Points) != len(o.Points) || len(d.Walls) != len(o.Walls) ||
		len(d.Doors) != len(o.Doors) || len(d.Windows) != len(o.Windows) ||
		len(d.Stages) != len(o.Stages) {
		return false
	}
	for i := range d.Points {
		if d.Points[i] != o.Points[i] {
			return false
		}
	}
	for i := range d.Walls {
		if d.Walls[i] != o.Walls[i] {
			return false
		}
	}
	for i := range d.Doors {
		if d.Doors[i] != o.Doors[i] {
			return false
		}
	}
	for i := range d.Windows {
		if d.Windows[i] != o.Windows[i] {
			return false
		}
	}
	for i := range d.Stages {
		if d.Stages[i] != o.Stages[i] {
			return false
		}
	}
	return true
}

// ClosestPointOnSegment projects p onto segment ab and also reports the
// normalized parameter t in [0,1].
func ClosestPointOnSegment(p, a, b cp.Vector) (cp.Vector, float64) {
	d := b.Sub(a)
	lenSq := d.LengthSq()
	if lenSq == 0 {
		return a, 0
	}
	t := p.Sub(a).Dot(d) / lenSq
	t = math.Max(0, math.Min(1, t))
	return a.Add(d.Mult(t)), t
}
