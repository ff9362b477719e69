package recon

import (
	"math"
	"sort"

	"github.com/venuekit/floorplan/plan"
)

// sliceEps discards sub-millimeter slivers produced by clamping.
const sliceEps = 1e-3

// opening is the segmentation walk's flattened view of a door or window.
type opening struct {
	kind      plan.OpeningKind
	min, max  float64 // meters along the wall
	height    float64
	elevation float64 // sill height; zero for doors
}

// SegmentWall decomposes one wall into boxes: full-height segments in the
// gaps around openings, a sill and a header per window, a header per door.
// The boxes are positioned in world space along the wall's axis.
func SegmentWall(doc *plan.Document, w plan.Wall, mats *Materials) []Box {
	a, b, ok := doc.WallEnds(w)
	if !ok {
		return nil
	}
	length := doc.WallLengthM(w)
	if length <= sliceEps || w.Height <= 0 || w.Thickness <= 0 {
		return nil
	}

	dir := b.Sub(a).Normalize()
	yaw := math.Atan2(dir.Y, dir.X) // plan Y becomes world Z
	origin := Vec3{a.X / plan.PixelsPerMeter, 0, a.Y / plan.PixelsPerMeter}
	axis := Vec3{math.Cos(yaw), 0, math.Sin(yaw)}
	mat := mats.Lookup(w.Texture)

	// box emits a sub-segment spanning [min,max] along the wall between
	// bottom and top heights.
	var out []Box
	box := func(kind BoxKind, min, max, bottom, top float64) {
		if max-min <= sliceEps || top-bottom <= sliceEps {
			return
		}
		mid := (min + max) / 2
		out = append(out, Box{
			Kind:     kind,
			Size:     Vec3{max - min, top - bottom, w.Thickness},
			Center:   origin.Add(axis.Mult(mid)).Add(Vec3{0, bottom + (top-bottom)/2, 0}),
			Yaw:      yaw,
			Material: mat,
		})
	}

	openings := collectOpenings(doc, w.ID, length)
	cursor := 0.0
	for _, o := range openings {
		box(BoxWall, cursor, o.min, 0, w.Height)
		if o.kind == plan.KindWindow {
			box(BoxSill, o.min, o.max, 0, o.elevation)
			box(BoxHeader, o.min, o.max, o.elevation+o.height, w.Height)
		} else {
			box(BoxHeader, o.min, o.max, o.height, w.Height)
		}
		if o.max > cursor {
			cursor = o.max
		}
	}
	box(BoxWall, cursor, length, 0, w.Height)
	return out
}

func collectOpenings(doc *plan.Document, wallID int, length float64) []opening {
	var out []opening
	for _, o := range doc.Doors {
		if o.WallID == wallID {
			out = append(out, opening{
				kind:   plan.KindDoor,
				min:    math.Max(0, o.Offset-o.Width/2),
				max:    math.Min(length, o.Offset+o.Width/2),
				height: math.Min(o.Height, doorCeiling(doc, wallID)),
			})
		}
	}
	for _, o := range doc.Windows {
		if o.WallID == wallID {
			out = append(out, opening{
				kind:      plan.KindWindow,
				min:       math.Max(0, o.Offset-o.Width/2),
				max:       math.Min(length, o.Offset+o.Width/2),
				height:    o.Height,
				elevation: o.HeightFromGround,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].min < out[j].min })
	return out
}

// doorCeiling caps a door's height at its wall height so a too-tall door
// degrades to a full-height gap instead of inverting the header.
func doorCeiling(doc *plan.Document, wallID int) float64 {
	if w, ok := doc.Wall(wallID); ok {
		return w.Height
	}
	return math.Inf(1)
}

// CornerPosts emits a square post at every point with at least one
// connected wall, spanning the tallest connected wall for visual
// continuity at joints.
func CornerPosts(doc *plan.Document, mats *Materials) []Box {
	var out []Box
	for _, p := range doc.Points {
		walls := doc.WallsAtPoint(p.ID)
		if len(walls) == 0 {
			continue
		}
		height, side := 0.0, 0.0
		tex := ""
		for _, w := range walls {
			if w.Height > height {
				height = w.Height
				tex = w.Texture
			}
			if w.Thickness > side {
				side = w.Thickness
			}
		}
		if height <= 0 || side <= 0 {
			continue
		}
		out = append(out, Box{
			Kind:     BoxPost,
			Size:     Vec3{side, height, side},
			Center:   Vec3{p.X / plan.PixelsPerMeter, height / 2, p.Y / plan.PixelsPerMeter},
			Material: mats.Lookup(tex),
		})
	}
	return out
}

// StageBoxes emits one platform box per stage.
func StageBoxes(doc *plan.Document, mats *Materials) []Box {
	var out []Box
	for _, st := range doc.Stages {
		if st.Width <= 0 || st.Depth <= 0 || st.Height <= 0 {
			continue
		}
		out = append(out, Box{
			Kind:     BoxStage,
			Size:     Vec3{st.Width, st.Height, st.Depth},
			Center:   Vec3{st.X / plan.PixelsPerMeter, st.Height / 2, st.Y / plan.PixelsPerMeter},
			Yaw:      st.Rotation,
			Material: mats.Hex(st.Color),
		})
	}
	return out
}
