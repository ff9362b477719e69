// Package editor contains the interactive core of the floorplan tool: the
// camera transform, the gesture-scoped history manager, and the session
// state machine that routes pointer/keyboard events into document
// mutations. It is frontend-agnostic; cmd/editor adapts ebiten input to
// these types.
package editor

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	MinZoom = 0.1
	MaxZoom = 5.0
	// GridSize is the snap spacing in world pixels (0.2 m at 100 px/m).
	GridSize = 20.0
)

// Camera maps between screen and world space: screen = world*zoom + pan.
type Camera struct {
	Pan  cp.Vector
	Zoom float64
}

func NewCamera() Camera { return Camera{Zoom: 1} }

func (c Camera) WorldToScreen(w cp.Vector) cp.Vector {
	return w.Mult(c.Zoom).Add(c.Pan)
}

func (c Camera) ScreenToWorld(s cp.Vector) cp.Vector {
	if c.Zoom == 0 {
		return s
	}
	return s.Sub(c.Pan).Mult(1 / c.Zoom)
}

// ZoomAt scales the zoom by factor while keeping the world point under the
// given screen cursor fixed.
func (c *Camera) ZoomAt(cursor cp.Vector, factor float64) {
	if c.Zoom == 0 {
		c.Zoom = 1
	}
	world := c.ScreenToWorld(cursor)
	z := c.Zoom * factor
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	c.Zoom = z
	c.Pan = cursor.Sub(world.Mult(z))
}

// Snap rounds a world coordinate to the grid. Every coordinate written
// into the document goes through here first.
func Snap(v cp.Vector) cp.Vector {
	return cp.Vector{
		X: math.Round(v.X/GridSize) * GridSize,
		Y: math.Round(v.Y/GridSize) * GridSize,
	}
}
