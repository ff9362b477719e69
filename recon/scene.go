// Package recon derives a 3D room description from a 2D floorplan: walls
// are decomposed into rectangular sub-segments around their openings,
// connected walls yield floor and ceiling polygons, and corner posts cover
// the joints. The output Scene is a plain mesh description consumed by the
// exporter and the live preview; it never references editor-only state.
//
// All Scene dimensions are meters with Y up; the plan's pixel Y axis maps
// to Z.
package recon

import (
	"fmt"
	"math"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Mult(s float64) Vec3  { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Material is a named base color from the palette.
type Material struct {
	Name  string
	Color [3]float64 // linear RGB, 0..1
}

// DefaultMaterial is used when a wall names no texture or an unknown one.
var DefaultMaterial = Material{Name: "plaster", Color: [3]float64{0.91, 0.89, 0.85}}

// Materials resolves texture ids and stage colors to materials. Lookups
// are cached for the session lifetime; the registry is read-mostly and
// only ever touched from the UI goroutine.
type Materials struct {
	palette map[string]Material
	cache   map[string]Material
}

func NewMaterials(palette map[string]Material) *Materials {
	if palette == nil {
		palette = map[string]Material{}
	}
	return &Materials{palette: palette, cache: map[string]Material{}}
}

// Lookup resolves a wall texture id.
func (m *Materials) Lookup(texture string) Material {
	if texture == "" {
		return DefaultMaterial
	}
	if mat, ok := m.cache[texture]; ok {
		return mat
	}
	mat, ok := m.palette[texture]
	if !ok {
		mat = DefaultMaterial
	}
	m.cache[texture] = mat
	return mat
}

// Hex resolves a "#rrggbb" stage color; malformed values fall back to the
// default stage wood tone.
func (m *Materials) Hex(hex string) Material {
	if hex == "" {
		hex = "#a0522d"
	}
	if mat, ok := m.cache[hex]; ok {
		return mat
	}
	mat := Material{Name: hex, Color: HexColor(hex)}
	m.cache[hex] = mat
	return mat
}

// HexColor parses "#rrggbb" into linear RGB; malformed values fall back
// to the default stage wood tone.
func HexColor(hex string) [3]float64 {
	var r, g, b int
	if n, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); n == 3 && err == nil {
		return [3]float64{float64(r) / 255, float64(g) / 255, float64(b) / 255}
	}
	return [3]float64{0.63, 0.32, 0.18}
}

// BoxKind labels what a box represents; the exporter groups node names by
// kind and tests assert against it.
type BoxKind int

const (
	BoxWall BoxKind = iota
	BoxSill
	BoxHeader
	BoxPost
	BoxStage
)

func (k BoxKind) String() string {
	switch k {
	case BoxWall:
		return "wall"
	case BoxSill:
		return "sill"
	case BoxHeader:
		return "header"
	case BoxPost:
		return "post"
	case BoxStage:
		return "stage"
	default:
		return "box"
	}
}

// Box is an oriented cuboid: Size.X runs along the local axis (wall
// direction), Size.Y is vertical, Size.Z is thickness. Yaw rotates the
// local axis about Y.
type Box struct {
	Kind     BoxKind
	Size     Vec3
	Center   Vec3
	Yaw      float64
	Material Material
}

// Corners returns the eight world-space vertices, yaw baked in, ordered as
// the four bottom corners then the four top corners (counter-clockwise
// seen from above).
func (b Box) Corners() [8]Vec3 {
	ax := Vec3{math.Cos(b.Yaw), 0, math.Sin(b.Yaw)}
	az := Vec3{-math.Sin(b.Yaw), 0, math.Cos(b.Yaw)}
	hx, hy, hz := b.Size.X/2, b.Size.Y/2, b.Size.Z/2

	var out [8]Vec3
	i := 0
	for _, y := range []float64{-hy, hy} {
		for _, c := range [4][2]float64{{-hx, -hz}, {hx, -hz}, {hx, hz}, {-hx, hz}} {
			out[i] = b.Center.
				Add(ax.Mult(c[0])).
				Add(az.Mult(c[1])).
				Add(Vec3{0, y, 0})
			i++
		}
	}
	return out
}

// Polygon is a planar ring (no repeated closing point) lying at a fixed
// height, used for the floor and ceiling slabs.
type Polygon struct {
	Points   []Vec3
	Material Material
	// FaceUp selects the surface normal (+Y for the floor, -Y for the
	// ceiling).
	FaceUp bool
}

// Scene is the reconstructed room.
type Scene struct {
	Boxes   []Box
	Floor   *Polygon
	Ceiling *Polygon
}

// Empty reports a scene with nothing to mesh.
func (s *Scene) Empty() bool {
	return s == nil || (len(s.Boxes) == 0 && s.Floor == nil && s.Ceiling == nil)
}
