package plan

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestCascadeDeletion(t *testing.T) {
	cases := []struct {
		name      string
		deletePt  bool // otherwise delete the wall
		wantWalls int
		wantDoors int
		wantWins  int
	}{
		{"delete_point_cascades", true, 1, 0, 0},
		{"delete_wall_cascades", false, 1, 0, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := New()
			a := d.AddPoint(0, 0)
			b := d.AddPoint(400, 0)
			e := d.AddPoint(400, 300)
			w1, _ := d.AddWall(a, b, 0.2, 2.5, "")
			w2, _ := d.AddWall(b, e, 0.2, 2.5, "")
			if _, ok := d.PlaceDoor(w1, 2.0, 0.9, 2.1); !ok {
				t.Fatalf("door setup failed")
			}
			if _, ok := d.PlaceWindow(w1, 0.6, 1.0, 1.0, 0.9); !ok {
				t.Fatalf("window setup failed")
			}
			_ = w2

			if c.deletePt {
				if !d.DeletePoint(a) {
					t.Fatalf("DeletePoint failed")
				}
				if _, ok := d.Point(a); ok {
					t.Fatalf("point %d should be gone", a)
				}
			} else {
				if !d.DeleteWall(w1) {
					t.Fatalf("DeleteWall failed")
				}
			}
			if len(d.Walls) != c.wantWalls {
				t.Fatalf("expected %d walls, got %d", c.wantWalls, len(d.Walls))
			}
			if len(d.Doors) != c.wantDoors || len(d.Windows) != c.wantWins {
				t.Fatalf("openings should cascade: %d doors %d windows", len(d.Doors), len(d.Windows))
			}
		})
	}
}

func TestDeletePointSharedEndpoint(t *testing.T) {
	d := New()
	a := d.AddPoint(0, 0)
	b := d.AddPoint(400, 0)
	e := d.AddPoint(400, 300)
	d.AddWall(a, b, 0.2, 2.5, "")
	d.AddWall(b, e, 0.2, 2.5, "")

	// b touches both walls; deleting it removes both.
	if !d.DeletePoint(b) {
		t.Fatalf("DeletePoint failed")
	}
	if len(d.Walls) != 0 {
		t.Fatalf("both walls should cascade, got %d", len(d.Walls))
	}
	if len(d.Points) != 2 {
		t.Fatalf("unrelated points should survive, got %d", len(d.Points))
	}
}

func TestAddWallValidation(t *testing.T) {
	d := New()
	a := d.AddPoint(0, 0)
	b := d.AddPoint(0, 0) // coincident
	e := d.AddPoint(100, 0)

	if _, ok := d.AddWall(a, a, 0.2, 2.5, ""); ok {
		t.Fatalf("self wall should be refused")
	}
	if _, ok := d.AddWall(a, b, 0.2, 2.5, ""); ok {
		t.Fatalf("zero-length wall should be refused")
	}
	if _, ok := d.AddWall(a, 999, 0.2, 2.5, ""); ok {
		t.Fatalf("missing endpoint should be refused")
	}
	if _, ok := d.AddWall(a, e, 0, 2.5, ""); ok {
		t.Fatalf("non-positive thickness should be refused")
	}
	if _, ok := d.AddWall(a, e, 0.2, 2.5, "brick"); !ok {
		t.Fatalf("valid wall should be accepted")
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := New()
	a := d.AddPoint(0, 0)
	b := d.AddPoint(400, 0)
	wid, _ := d.AddWall(a, b, 0.2, 2.5, "")
	d.PlaceDoor(wid, 2.0, 0.9, 2.1)

	c := d.Clone()
	if !c.Equal(d) {
		t.Fatalf("clone should compare equal")
	}
	c.Points[0].X = 123
	c.Doors[0].Offset = 3.0
	if d.Points[0].X == 123 || d.Doors[0].Offset == 3.0 {
		t.Fatalf("clone shares backing arrays with the original")
	}
	if c.Equal(d) {
		t.Fatalf("Equal should notice the divergence")
	}
}

func TestWallLengthAndProjection(t *testing.T) {
	d := New()
	a := d.AddPoint(0, 0)
	b := d.AddPoint(300, 400) // 500 px = 5 m
	wid, _ := d.AddWall(a, b, 0.2, 2.5, "")
	w, _ := d.Wall(wid)

	if got := d.WallLengthM(*w); !almostEqual(got, 5.0) {
		t.Fatalf("length = %v, want 5", got)
	}

	// (300,0)·(300,400) / |(300,400)|² = 90000/250000 = 0.36
	pt, tt := ClosestPointOnSegment(cp.Vector{X: 300, Y: 0}, cp.Vector{}, cp.Vector{X: 300, Y: 400})
	if !almostEqual(tt, 0.36) {
		t.Fatalf("t = %v, want 0.36", tt)
	}
	if !almostEqual(pt.X, 108) || !almostEqual(pt.Y, 144) {
		t.Fatalf("projection = %+v", pt)
	}

	// Ends clamp.
	_, tt = ClosestPointOnSegment(cp.Vector{X: -50, Y: -50}, cp.Vector{}, cp.Vector{X: 300, Y: 400})
	if tt != 0 {
		t.Fatalf("t should clamp to 0, got %v", tt)
	}
}

func TestNextIDAfterDecode(t *testing.T) {
	d := New()
	a := d.AddPoint(0, 0)
	b := d.AddPoint(400, 0)
	d.AddWall(a, b, 0.2, 2.5, "")

	enc, err := Encode(d)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := Decode(enc)
	id := got.NextID()
	for _, p := range got.Points {
		if p.ID == id {
			t.Fatalf("NextID %d collides with existing point", id)
		}
	}
	for _, w := range got.Walls {
		if w.ID == id {
			t.Fatalf("NextID %d collides with existing wall", id)
		}
	}
}
