package recon

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/venuekit/floorplan/plan"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func wallDoc(t *testing.T) (*plan.Document, plan.Wall) {
	t.Helper()
	d := plan.New()
	a := d.AddPoint(0, 0)
	b := d.AddPoint(4*plan.PixelsPerMeter, 0)
	wid, ok := d.AddWall(a, b, 0.2, 2.5, "plaster")
	if !ok {
		t.Fatalf("AddWall failed")
	}
	w, _ := d.Wall(wid)
	return d, *w
}

func boxesOfKind(boxes []Box, kind BoxKind) []Box {
	var out []Box
	for _, b := range boxes {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

func TestSegmentDoorScenario(t *testing.T) {
	// 4.00 m wall, 2.50 m high; door 0.90 m wide at offset 2.00 m.
	d, w := wallDoc(t)
	if _, ok := d.PlaceDoor(w.ID, 2.0, 0.9, 2.1); !ok {
		t.Fatalf("door setup failed")
	}

	boxes := SegmentWall(d, w, NewMaterials(nil))
	walls := boxesOfKind(boxes, BoxWall)
	headers := boxesOfKind(boxes, BoxHeader)
	if len(walls) != 2 || len(headers) != 1 {
		t.Fatalf("expected 2 wall segments + 1 header, got %d + %d", len(walls), len(headers))
	}
	for _, seg := range walls {
		if !almostEqual(seg.Size.X, 1.55) {
			t.Fatalf("load-bearing segment length %v, want 1.55", seg.Size.X)
		}
		if !almostEqual(seg.Size.Y, 2.5) || !almostEqual(seg.Center.Y, 1.25) {
			t.Fatalf("full segment should span the wall height, got %+v", seg)
		}
	}
	h := headers[0]
	if !almostEqual(h.Size.X, 0.9) || !almostEqual(h.Size.Y, 2.5-2.1) {
		t.Fatalf("header %vx%v, want 0.9x0.4", h.Size.X, h.Size.Y)
	}
	if !almostEqual(h.Center.Y, 2.1+0.2) {
		t.Fatalf("header should sit on the door, center y=%v", h.Center.Y)
	}
	if len(boxesOfKind(boxes, BoxSill)) != 0 {
		t.Fatalf("doors have no sill")
	}
}

func TestSegmentWindowSillAndHeader(t *testing.T) {
	d, w := wallDoc(t)
	if _, ok := d.PlaceWindow(w.ID, 2.0, 1.2, 1.0, 0.9); !ok {
		t.Fatalf("window setup failed")
	}

	boxes := SegmentWall(d, w, NewMaterials(nil))
	sills := boxesOfKind(boxes, BoxSill)
	headers := boxesOfKind(boxes, BoxHeader)
	if len(sills) != 1 || len(headers) != 1 {
		t.Fatalf("expected sill + header, got %d + %d", len(sills), len(headers))
	}
	if !almostEqual(sills[0].Size.Y, 0.9) {
		t.Fatalf("sill height %v, want 0.9", sills[0].Size.Y)
	}
	// sill + window + header == wall height
	if !almostEqual(sills[0].Size.Y+1.0+headers[0].Size.Y, 2.5) {
		t.Fatalf("sill (%v) + window (1.0) + header (%v) should equal 2.5",
			sills[0].Size.Y, headers[0].Size.Y)
	}
	if !almostEqual(sills[0].Center.Y, 0.45) {
		t.Fatalf("sill center y=%v, want 0.45", sills[0].Center.Y)
	}

	// A ground-level window emits no sill.
	d2, w2 := wallDoc(t)
	d2.PlaceWindow(w2.ID, 2.0, 1.2, 1.0, 0)
	if n := len(boxesOfKind(SegmentWall(d2, w2, NewMaterials(nil)), BoxSill)); n != 0 {
		t.Fatalf("zero elevation should emit no sill, got %d", n)
	}
}

func TestSegmentationConservation(t *testing.T) {
	cases := []struct {
		name    string
		doors   []float64 // centers, width 0.8
		windows []float64 // centers, width 0.6
	}{
		{"empty_wall", nil, nil},
		{"single_door", []float64{2.0}, nil},
		{"mixed", []float64{0.6}, []float64{2.0, 3.2}},
		{"flush_ends", []float64{0.4, 3.6}, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, w := wallDoc(t)
			total := 0.0
			for _, off := range c.doors {
				if _, ok := d.PlaceDoor(w.ID, off, 0.8, 2.1); !ok {
					t.Fatalf("door at %v failed", off)
				}
				total += 0.8
			}
			for _, off := range c.windows {
				if _, ok := d.PlaceWindow(w.ID, off, 0.6, 1.0, 0.9); !ok {
					t.Fatalf("window at %v failed", off)
				}
				total += 0.6
			}

			boxes := SegmentWall(d, w, NewMaterials(nil))
			for _, seg := range boxesOfKind(boxes, BoxWall) {
				total += seg.Size.X
			}
			if !almostEqual(total, 4.0) {
				t.Fatalf("segment lengths + opening widths = %v, want wall length 4.0", total)
			}
		})
	}
}

func TestSegmentWallOrientation(t *testing.T) {
	// A vertical wall in plan space: boxes run along world Z.
	d := plan.New()
	a := d.AddPoint(100, 0)
	b := d.AddPoint(100, 3*plan.PixelsPerMeter)
	wid, _ := d.AddWall(a, b, 0.2, 2.5, "")
	w, _ := d.Wall(wid)

	boxes := SegmentWall(d, *w, NewMaterials(nil))
	if len(boxes) != 1 {
		t.Fatalf("expected one segment, got %d", len(boxes))
	}
	box := boxes[0]
	if !almostEqual(box.Yaw, math.Pi/2) {
		t.Fatalf("yaw = %v, want pi/2", box.Yaw)
	}
	if !almostEqual(box.Center.X, 1.0) || !almostEqual(box.Center.Z, 1.5) {
		t.Fatalf("center = %+v", box.Center)
	}
	corners := box.Corners()
	minZ, maxZ := corners[0].Z, corners[0].Z
	for _, c := range corners {
		minZ = math.Min(minZ, c.Z)
		maxZ = math.Max(maxZ, c.Z)
	}
	if !almostEqual(maxZ-minZ, 3.0) {
		t.Fatalf("box should span 3 m along Z, got %v", maxZ-minZ)
	}
}

func squareDoc(t *testing.T) *plan.Document {
	t.Helper()
	d := plan.New()
	a := d.AddPoint(0, 0)
	b := d.AddPoint(400, 0)
	c := d.AddPoint(400, 300)
	e := d.AddPoint(0, 300)
	d.AddWall(a, b, 0.2, 2.5, "")
	d.AddWall(b, c, 0.2, 2.5, "")
	d.AddWall(c, e, 0.2, 2.5, "")
	d.AddWall(e, a, 0.2, 2.5, "")
	return d
}

func TestPerimeterClosure(t *testing.T) {
	t.Run("simple_loop", func(t *testing.T) {
		d := squareDoc(t)
		loop := Perimeter(d)
		if len(loop) != 4 {
			t.Fatalf("square loop should yield 4 points, got %d", len(loop))
		}
		seen := map[int]bool{}
		for _, p := range loop {
			seen[p.ID] = true
		}
		if len(seen) != 4 {
			t.Fatalf("loop points should be distinct")
		}
	})

	t.Run("tree_has_no_floor", func(t *testing.T) {
		d := plan.New()
		a := d.AddPoint(0, 0)
		b := d.AddPoint(400, 0)
		c := d.AddPoint(400, 300)
		d.AddWall(a, b, 0.2, 2.5, "")
		d.AddWall(b, c, 0.2, 2.5, "")
		if loop := Perimeter(d); loop != nil {
			t.Fatalf("open graph should yield no perimeter, got %v", loop)
		}
	})

	t.Run("branch_keeps_biggest_room", func(t *testing.T) {
		d := squareDoc(t)
		// dangling spur off one corner
		p, _ := d.Point(d.Points[0].ID)
		spur := d.AddPoint(p.X-200, p.Y-200)
		d.AddWall(d.Points[0].ID, spur, 0.2, 2.5, "")
		loop := Perimeter(d)
		if len(loop) != 4 {
			t.Fatalf("spur must not break the loop, got %d points", len(loop))
		}
	})

	t.Run("two_loops_largest_wins", func(t *testing.T) {
		d := squareDoc(t)
		// a small separate triangle
		x := d.AddPoint(1000, 1000)
		y := d.AddPoint(1060, 1000)
		z := d.AddPoint(1060, 1060)
		d.AddWall(x, y, 0.2, 2.5, "")
		d.AddWall(y, z, 0.2, 2.5, "")
		d.AddWall(z, x, 0.2, 2.5, "")
		loop := Perimeter(d)
		if len(loop) != 4 {
			t.Fatalf("larger room should win, got %d points", len(loop))
		}
	})
}

func TestBuildScene(t *testing.T) {
	d := squareDoc(t)
	wid := d.Walls[0].ID
	d.PlaceDoor(wid, 2.0, 0.9, 2.1)
	d.AddStage(200, 150, 2, 1.5, 0.4, 0.3, "#a0522d")

	s := Build(d, NewMaterials(nil))
	if s.Empty() {
		t.Fatalf("scene should not be empty")
	}
	if s.Floor == nil || s.Ceiling == nil {
		t.Fatalf("closed loop should produce floor and ceiling")
	}
	if len(s.Floor.Points) != 4 {
		t.Fatalf("floor polygon should have 4 points, got %d", len(s.Floor.Points))
	}
	if !almostEqual(s.Ceiling.Points[0].Y, 2.5) {
		t.Fatalf("ceiling should sit at the max wall height")
	}
	if n := len(boxesOfKind(s.Boxes, BoxPost)); n != 4 {
		t.Fatalf("expected a post per corner, got %d", n)
	}
	if n := len(boxesOfKind(s.Boxes, BoxStage)); n != 1 {
		t.Fatalf("expected the stage box, got %d", n)
	}

	// Open graph still meshes walls, just no floor.
	d2 := plan.New()
	a := d2.AddPoint(0, 0)
	b := d2.AddPoint(400, 0)
	d2.AddWall(a, b, 0.2, 2.5, "")
	s2 := Build(d2, NewMaterials(nil))
	if s2.Floor != nil || s2.Ceiling != nil {
		t.Fatalf("open graph should have no slabs")
	}
	if len(boxesOfKind(s2.Boxes, BoxWall)) != 1 {
		t.Fatalf("wall should still mesh")
	}
}

func TestTriangulate(t *testing.T) {
	cases := []struct {
		name string
		ring []cp.Vector
		want int // triangle count; n-2 for a simple polygon
	}{
		{"triangle", []cp.Vector{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}}, 1},
		{"square", []cp.Vector{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}, 2},
		{"l_shape", []cp.Vector{
			{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 4}, {X: 0, Y: 4},
		}, 4},
		{"degenerate", []cp.Vector{{X: 0, Y: 0}, {X: 1, Y: 1}}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tris := Triangulate(c.ring)
			if len(tris) != c.want {
				t.Fatalf("got %d triangles, want %d", len(tris), c.want)
			}
			// Triangle areas must sum to the polygon area.
			if c.want > 0 {
				var sum float64
				for _, tri := range tris {
					a, b, cc := c.ring[tri[0]], c.ring[tri[1]], c.ring[tri[2]]
					sum += math.Abs(cross2(b.Sub(a), cc.Sub(a))) / 2
				}
				if want := math.Abs(ringArea(c.ring)); !almostEqual(sum, want) {
					t.Fatalf("triangle area %v, polygon area %v", sum, want)
				}
			}
		})
	}
}

func TestMaterials(t *testing.T) {
	m := NewMaterials(map[string]Material{
		"brick": {Name: "brick", Color: [3]float64{0.6, 0.25, 0.2}},
	})
	if got := m.Lookup("brick"); got.Name != "brick" {
		t.Fatalf("palette lookup failed: %+v", got)
	}
	if got := m.Lookup("granite"); got != DefaultMaterial {
		t.Fatalf("unknown texture should fall back to default")
	}
	if got := m.Lookup(""); got != DefaultMaterial {
		t.Fatalf("empty texture should fall back to default")
	}

	hex := m.Hex("#ff8000")
	if !almostEqual(hex.Color[0], 1.0) || !almostEqual(hex.Color[1], 128.0/255) || hex.Color[2] != 0 {
		t.Fatalf("hex parse wrong: %+v", hex.Color)
	}
	if bad := m.Hex("nope"); bad.Color == ([3]float64{}) {
		t.Fatalf("malformed color should use the fallback tone")
	}
}
