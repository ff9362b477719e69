package export

import (
	"bytes"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/venuekit/floorplan/recon"
)

// boxQuads lists each cuboid face as corner indices into Box.Corners()
// (bottom ring 0-3, top ring 4-7), wound outward.
var boxQuads = [6][4]int{
	{0, 1, 2, 3}, // bottom
	{7, 6, 5, 4}, // top
	{0, 4, 5, 1}, // -z
	{2, 6, 7, 3}, // +z
	{3, 7, 4, 0}, // -x
	{1, 5, 6, 2}, // +x
}

// bucket accumulates flat-shaded triangle geometry for one material.
type bucket struct {
	material  recon.Material
	positions [][3]float32
	normals   [][3]float32
	indices   []uint32
}

func (b *bucket) triangle(a, c, d recon.Vec3) {
	n := normal(a, c, d)
	base := uint32(len(b.positions))
	for _, v := range []recon.Vec3{a, c, d} {
		b.positions = append(b.positions, [3]float32{float32(v.X), float32(v.Y), float32(v.Z)})
		b.normals = append(b.normals, n)
	}
	b.indices = append(b.indices, base, base+1, base+2)
}

func normal(a, b, c recon.Vec3) [3]float32 {
	e1 := recon.Vec3{X: b.X - a.X, Y: b.Y - a.Y, Z: b.Z - a.Z}
	e2 := recon.Vec3{X: c.X - a.X, Y: c.Y - a.Y, Z: c.Z - a.Z}
	n := recon.Vec3{
		X: e1.Y*e2.Z - e1.Z*e2.Y,
		Y: e1.Z*e2.X - e1.X*e2.Z,
		Z: e1.X*e2.Y - e1.Y*e2.X,
	}
	if l := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z); l > 0 {
		n = n.Mult(1 / l)
	}
	return [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
}

// encodeGLB builds a glTF document from the scene and serializes it as a
// binary GLB container in memory.
func encodeGLB(scene *recon.Scene) ([]byte, error) {
	buckets := map[string]*bucket{}
	order := []string{}
	get := func(m recon.Material) *bucket {
		b, ok := buckets[m.Name]
		if !ok {
			b = &bucket{material: m}
			buckets[m.Name] = b
			order = append(order, m.Name)
		}
		return b
	}

	for _, box := range scene.Boxes {
		corners := box.Corners()
		b := get(box.Material)
		for _, q := range boxQuads {
			b.triangle(corners[q[0]], corners[q[1]], corners[q[2]])
			b.triangle(corners[q[0]], corners[q[2]], corners[q[3]])
		}
	}
	for _, poly := range []*recon.Polygon{scene.Floor, scene.Ceiling} {
		if poly == nil {
			continue
		}
		b := get(poly.Material)
		for _, tri := range recon.Triangulate(poly.Ring()) {
			p0, p1, p2 := poly.Points[tri[0]], poly.Points[tri[1]], poly.Points[tri[2]]
			if poly.FaceUp {
				// ear clipping is counter-clockwise in plan coords,
				// which faces -Y once mapped to the ground plane
				b.triangle(p0, p2, p1)
			} else {
				b.triangle(p0, p1, p2)
			}
		}
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "floorplan-studio"

	mesh := &gltf.Mesh{Name: "floorplan"}
	for _, name := range order {
		b := buckets[name]
		if len(b.indices) == 0 {
			continue
		}
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: b.material.Name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float32{
					float32(b.material.Color[0]),
					float32(b.material.Color[1]),
					float32(b.material.Color[2]),
					1,
				},
				MetallicFactor:  gltf.Float(0.05),
				RoughnessFactor: gltf.Float(0.9),
			},
		})
		matIdx := uint32(len(doc.Materials) - 1)
		mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
			Indices: gltf.Index(modeler.WriteIndices(doc, b.indices)),
			Attributes: map[string]uint32{
				gltf.POSITION: modeler.WritePosition(doc, b.positions),
				gltf.NORMAL:   modeler.WriteNormal(doc, b.normals),
			},
			Material: gltf.Index(matIdx),
		})
	}

	doc.Meshes = append(doc.Meshes, mesh)
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: "room",
		Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
