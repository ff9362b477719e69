package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/venuekit/floorplan/editor"
	"github.com/venuekit/floorplan/plan"
)

var (
	backgroundColor = color.RGBA{24, 26, 30, 255}
	gridColor       = color.RGBA{44, 48, 54, 255}
	axisColor       = color.RGBA{64, 70, 78, 255}
	wallColor       = color.RGBA{150, 150, 150, 255}
	hoverColor      = color.RGBA{200, 200, 200, 255}
	stageFillColor  = color.RGBA{120, 70, 40, 90}
	ghostOKColor    = color.RGBA{80, 220, 120, 200}
	ghostBadColor   = color.RGBA{230, 70, 70, 200}
)

// Canvas renders the document through the session's camera. It draws in
// screen space; entity sizes scale with zoom, handles stay constant.
type Canvas struct{}

func (c *Canvas) Draw(screen *ebiten.Image, s *editor.Session) {
	screen.Fill(backgroundColor)
	cam := s.Camera
	doc := s.Doc()

	c.drawGrid(screen, cam)

	sel := s.Selection()
	hover := s.Hover()

	for _, w := range doc.Walls {
		a, b, ok := doc.WallEnds(w)
		if !ok {
			continue
		}
		sa, sb := cam.WorldToScreen(a), cam.WorldToScreen(b)
		thick := float32(w.Thickness * plan.PixelsPerMeter * cam.Zoom)
		if thick < 1 {
			thick = 1
		}
		col := color.Color(wallColor)
		switch {
		case sel.Kind == editor.SelWall && sel.ID == w.ID:
			col = colornames.Orange
		case hover.Kind == editor.SelWall && hover.ID == w.ID:
			col = hoverColor
		}
		vector.StrokeLine(screen, float32(sa.X), float32(sa.Y), float32(sb.X), float32(sb.Y), thick, col, true)
	}

	for _, o := range doc.Doors {
		c.drawOpening(screen, s, o.WallID, o.Offset, o.Width, pick(sel, hover, editor.SelDoor, o.ID, colornames.Sandybrown))
	}
	for _, o := range doc.Windows {
		c.drawOpening(screen, s, o.WallID, o.Offset, o.Width, pick(sel, hover, editor.SelWindow, o.ID, colornames.Skyblue))
	}

	for _, st := range doc.Stages {
		c.drawStage(screen, cam, st, sel.Kind == editor.SelStage && sel.ID == st.ID)
	}

	for _, p := range doc.Points {
		sp := cam.WorldToScreen(p.Vec())
		r := float32(4)
		col := color.Color(colornames.White)
		switch {
		case p.ID == s.ChainPointID():
			col, r = colornames.Lime, 6
		case sel.Kind == editor.SelPoint && sel.ID == p.ID:
			col, r = colornames.Orange, 6
		case hover.Kind == editor.SelPoint && hover.ID == p.ID:
			col = hoverColor
		}
		vector.FillCircle(screen, float32(sp.X), float32(sp.Y), r, col, true)
	}

	if g := s.Ghost(); g.Active {
		if a, b, ok := s.OpeningSegment(g.WallID, g.Offset, g.Width); ok {
			sa, sb := cam.WorldToScreen(a), cam.WorldToScreen(b)
			col := ghostOKColor
			if !g.Valid {
				col = ghostBadColor
			}
			vector.StrokeLine(screen, float32(sa.X), float32(sa.Y), float32(sb.X), float32(sb.Y), 8, col, true)
		}
	}
}

func pick(sel, hover editor.Selection, kind editor.SelKind, id int, base color.Color) color.Color {
	switch {
	case sel.Kind == kind && sel.ID == id:
		return colornames.Orange
	case hover.Kind == kind && hover.ID == id:
		return hoverColor
	}
	return base
}

func (c *Canvas) drawOpening(screen *ebiten.Image, s *editor.Session, wallID int, offset, width float64, col color.Color) {
	a, b, ok := s.OpeningSegment(wallID, offset, width)
	if !ok {
		return
	}
	w, ok := s.Doc().Wall(wallID)
	if !ok {
		return
	}
	thick := float32(w.Thickness*plan.PixelsPerMeter*s.Camera.Zoom) + 2
	sa, sb := s.Camera.WorldToScreen(a), s.Camera.WorldToScreen(b)
	vector.StrokeLine(screen, float32(sa.X), float32(sa.Y), float32(sb.X), float32(sb.Y), thick, col, true)
}

func (c *Canvas) drawStage(screen *ebiten.Image, cam editor.Camera, st plan.Stage, selected bool) {
	halfW := st.Width * plan.PixelsPerMeter / 2
	halfD := st.Depth * plan.PixelsPerMeter / 2
	center := cp.Vector{X: st.X, Y: st.Y}
	rot := cp.ForAngle(st.Rotation)
	corners := [4]cp.Vector{
		{X: -halfW, Y: -halfD},
		{X: halfW, Y: -halfD},
		{X: halfW, Y: halfD},
		{X: -halfW, Y: halfD},
	}
	var sc [4]cp.Vector
	for i, v := range corners {
		sc[i] = cam.WorldToScreen(v.Rotate(rot).Add(center))
	}

	if st.Rotation == 0 {
		w := float32(sc[2].X - sc[0].X)
		h := float32(sc[2].Y - sc[0].Y)
		vector.FillRect(screen, float32(sc[0].X), float32(sc[0].Y), w, h, stageFillColor, false)
	}
	edge := color.Color(colornames.Peru)
	if selected {
		edge = colornames.Orange
	}
	for i := range sc {
		a, b := sc[i], sc[(i+1)%4]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, edge, true)
	}
}

// drawGrid strokes snap lines across the viewport, coarsening the step
// when zoomed far out so lines stay at least a few pixels apart.
func (c *Canvas) drawGrid(screen *ebiten.Image, cam editor.Camera) {
	bounds := screen.Bounds()
	sw, sh := float64(bounds.Dx()), float64(bounds.Dy())

	step := editor.GridSize
	for step*cam.Zoom < 8 {
		step *= 5
	}

	topLeft := cam.ScreenToWorld(cp.Vector{})
	bottomRight := cam.ScreenToWorld(cp.Vector{X: sw, Y: sh})

	for x := math.Floor(topLeft.X/step) * step; x <= bottomRight.X; x += step {
		sx := float32(x*cam.Zoom + cam.Pan.X)
		col := color.Color(gridColor)
		if x == 0 {
			col = axisColor
		}
		vector.StrokeLine(screen, sx, 0, sx, float32(sh), 1, col, false)
	}
	for y := math.Floor(topLeft.Y/step) * step; y <= bottomRight.Y; y += step {
		sy := float32(y*cam.Zoom + cam.Pan.Y)
		col := color.Color(gridColor)
		if y == 0 {
			col = axisColor
		}
		vector.StrokeLine(screen, 0, sy, float32(sw), sy, 1, col, false)
	}
}
