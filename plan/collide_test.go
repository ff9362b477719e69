package plan

import (
	"math"
	"testing"
)

func testWall(t *testing.T) (*Document, int) {
	t.Helper()
	d := New()
	p1 := d.AddPoint(0, 0)
	p2 := d.AddPoint(4*PixelsPerMeter, 0) // 4 m wall
	wid, ok := d.AddWall(p1, p2, 0.2, 2.5, "plaster")
	if !ok {
		t.Fatalf("AddWall failed")
	}
	return d, wid
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDisjointInsertions(t *testing.T) {
	d, wid := testWall(t)

	offsets := []float64{0.5, 1.5, 2.5, 3.5}
	for _, off := range offsets {
		if _, ok := d.PlaceDoor(wid, off, 0.8, 2.1); !ok {
			t.Fatalf("door at %v should place", off)
		}
	}
	if len(d.Doors) != len(offsets) {
		t.Fatalf("expected %d doors, got %d", len(offsets), len(d.Doors))
	}
	for i, a := range d.Doors {
		for j, b := range d.Doors {
			if i == j {
				continue
			}
			if intervalsOverlap(a.Offset-a.Width/2, a.Offset+a.Width/2, b.Offset-b.Width/2, b.Offset+b.Width/2) {
				t.Fatalf("doors %d and %d overlap", a.ID, b.ID)
			}
		}
	}
}

func TestMergeUnion(t *testing.T) {
	cases := []struct {
		name       string
		existing   []float64 // door centers, width 0.8 each
		insertOff  float64
		insertW    float64
		wantMin    float64
		wantMax    float64
		wantAbsorb int
	}{
		{"two_neighbors", []float64{1.0, 2.0}, 1.5, 0.8, 0.6, 2.4, 2},
		{"one_neighbor", []float64{1.0}, 1.5, 0.8, 0.6, 1.9, 1},
		{"touching_is_disjoint", []float64{1.0}, 1.8, 0.8, 1.4, 2.2, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, wid := testWall(t)
			for _, off := range c.existing {
				if _, ok := d.PlaceDoor(wid, off, 0.8, 2.1); !ok {
					t.Fatalf("setup door at %v failed", off)
				}
			}
			id, ok := d.PlaceDoor(wid, c.insertOff, c.insertW, 2.1)
			if !ok {
				t.Fatalf("insert should succeed")
			}
			wantCount := len(c.existing) - c.wantAbsorb + 1
			if len(d.Doors) != wantCount {
				t.Fatalf("expected %d doors after merge, got %d", wantCount, len(d.Doors))
			}
			o, ok := d.Door(id)
			if !ok {
				t.Fatalf("inserted door %d missing", id)
			}
			if !almostEqual(o.Offset-o.Width/2, c.wantMin) || !almostEqual(o.Offset+o.Width/2, c.wantMax) {
				t.Fatalf("merged interval [%v,%v], want [%v,%v]",
					o.Offset-o.Width/2, o.Offset+o.Width/2, c.wantMin, c.wantMax)
			}
		})
	}
}

func TestBlockerRejection(t *testing.T) {
	d, wid := testWall(t)
	if _, ok := d.PlaceWindow(wid, 2.0, 1.2, 1.0, 0.9); !ok {
		t.Fatalf("window should place")
	}
	before := d.Clone()

	if _, ok := d.PlaceDoor(wid, 2.0, 0.9, 2.1); ok {
		t.Fatalf("door over window should be rejected")
	}
	if !d.Equal(before) {
		t.Fatalf("rejected placement mutated the document")
	}

	// And symmetrically: a window over a door.
	d2, wid2 := testWall(t)
	d2.PlaceDoor(wid2, 1.0, 0.9, 2.1)
	before2 := d2.Clone()
	if _, ok := d2.PlaceWindow(wid2, 1.2, 1.2, 1.0, 0.9); ok {
		t.Fatalf("window over door should be rejected")
	}
	if !d2.Equal(before2) {
		t.Fatalf("rejected placement mutated the document")
	}
}

func TestCheckOverlapExclusion(t *testing.T) {
	d, wid := testWall(t)
	id, _ := d.PlaceDoor(wid, 2.0, 0.9, 2.1)

	// Without exclusion the door collides with itself.
	res := d.CheckOverlap(wid, 2.0, 0.9, KindDoor, 0)
	if len(res.Absorb) != 1 {
		t.Fatalf("expected self-overlap, got %v", res.Absorb)
	}
	res = d.CheckOverlap(wid, 2.0, 0.9, KindDoor, id)
	if res.Blocked || len(res.Absorb) != 0 {
		t.Fatalf("excluded drag should be clean, got %+v", res)
	}
}

func TestSlideDoor(t *testing.T) {
	t.Run("merges_neighbor", func(t *testing.T) {
		d, wid := testWall(t)
		a, _ := d.PlaceDoor(wid, 1.0, 0.8, 2.1)
		if _, ok := d.PlaceDoor(wid, 2.5, 0.8, 2.1); !ok {
			t.Fatalf("setup failed")
		}
		if !d.SlideDoor(a, 2.0) {
			t.Fatalf("slide should succeed")
		}
		if len(d.Doors) != 1 {
			t.Fatalf("expected one merged door, got %d", len(d.Doors))
		}
		o := d.Doors[0]
		if o.ID != a {
			t.Fatalf("moved door should survive the merge")
		}
		if !almostEqual(o.Offset-o.Width/2, 1.6) || !almostEqual(o.Offset+o.Width/2, 2.9) {
			t.Fatalf("merged interval [%v,%v]", o.Offset-o.Width/2, o.Offset+o.Width/2)
		}
	})

	t.Run("blocked_by_window", func(t *testing.T) {
		d, wid := testWall(t)
		a, _ := d.PlaceDoor(wid, 0.8, 0.8, 2.1)
		d.PlaceWindow(wid, 2.5, 1.0, 1.0, 0.9)
		before := d.Clone()
		if d.SlideDoor(a, 2.5) {
			t.Fatalf("slide into window should fail")
		}
		if !d.Equal(before) {
			t.Fatalf("failed slide mutated the document")
		}
	})

	t.Run("clamped_to_wall", func(t *testing.T) {
		d, wid := testWall(t)
		a, _ := d.PlaceDoor(wid, 2.0, 0.9, 2.1)
		if !d.SlideDoor(a, 10.0) {
			t.Fatalf("slide should clamp, not fail")
		}
		o, _ := d.Door(a)
		if !almostEqual(o.Offset+o.Width/2, 4.0) {
			t.Fatalf("door should end flush with the wall end, got max %v", o.Offset+o.Width/2)
		}
	})
}

func TestPlacementClampAndValidation(t *testing.T) {
	d, wid := testWall(t)

	if _, ok := d.PlaceDoor(wid, 2.0, 0, 2.1); ok {
		t.Fatalf("zero-width door should be refused")
	}
	if _, ok := d.PlaceDoor(wid, 2.0, 5.0, 2.1); ok {
		t.Fatalf("door wider than the wall should be refused")
	}
	id, ok := d.PlaceDoor(wid, 0.1, 0.9, 2.1)
	if !ok {
		t.Fatalf("near-end door should clamp and place")
	}
	o, _ := d.Door(id)
	if !almostEqual(o.Offset-o.Width/2, 0) {
		t.Fatalf("clamped door should start at 0, got %v", o.Offset-o.Width/2)
	}
}
