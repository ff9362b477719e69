package recon

import (
	"github.com/jakecoffman/cp"

	"github.com/venuekit/floorplan/plan"
)

// FloorMaterial and CeilingMaterial texture the horizontal slabs.
var (
	FloorMaterial   = Material{Name: "parquet", Color: [3]float64{0.55, 0.41, 0.26}}
	CeilingMaterial = Material{Name: "ceiling", Color: [3]float64{0.95, 0.95, 0.93}}
)

// Build reconstructs the 3D scene for a document. It never mutates the
// document; degenerate geometry (open wall graphs, zero-length walls)
// silently skips the affected output while everything else still meshes.
func Build(doc *plan.Document, mats *Materials) *Scene {
	if mats == nil {
		mats = NewMaterials(nil)
	}
	s := &Scene{}

	for _, w := range doc.Walls {
		s.Boxes = append(s.Boxes, SegmentWall(doc, w, mats)...)
	}
	s.Boxes = append(s.Boxes, CornerPosts(doc, mats)...)
	s.Boxes = append(s.Boxes, StageBoxes(doc, mats)...)

	if loop := Perimeter(doc); len(loop) >= 3 {
		ceiling := 0.0
		for _, w := range doc.Walls {
			if w.Height > ceiling {
				ceiling = w.Height
			}
		}
		floor := make([]Vec3, len(loop))
		ceil := make([]Vec3, len(loop))
		for i, p := range loop {
			x := p.X / plan.PixelsPerMeter
			z := p.Y / plan.PixelsPerMeter
			floor[i] = Vec3{x, 0, z}
			ceil[i] = Vec3{x, ceiling, z}
		}
		s.Floor = &Polygon{Points: floor, Material: FloorMaterial, FaceUp: true}
		if ceiling > 0 {
			s.Ceiling = &Polygon{Points: ceil, Material: CeilingMaterial, FaceUp: false}
		}
	}
	return s
}

// Ring projects a polygon back to 2D for triangulation.
func (p *Polygon) Ring() []cp.Vector {
	ring := make([]cp.Vector, len(p.Points))
	for i, v := range p.Points {
		ring[i] = cp.Vector{X: v.X, Y: v.Z}
	}
	return ring
}
