package renderer

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp"
)

// Zoom limits in pixels per mm
const (
	minZoom = 0.01
	maxZoom = 1000.0
)

// Camera maps footprint coordinates (mm, Y down) onto a raster image.
type Camera struct {
	// Center position in world coordinates (mm)
	CenterX float64
	CenterY float64

	// Zoom level (pixels per mm)
	Zoom float64

	// Image dimensions (pixels)
	ScreenWidth  int
	ScreenHeight int

	// FlipView mirrors the X axis, showing the footprint as seen from the back.
	FlipView bool
}

// NewCamera creates a camera centred on the origin at 10 pixels per mm.
func NewCamera(screenWidth, screenHeight int) *Camera {
	return &Camera{
		Zoom:         10.0,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// WorldToScreen converts world coordinates (mm) to image coordinates (pixels)
func (c *Camera) WorldToScreen(pos sexp.Position) (float64, float64) {
	x := pos.X - c.CenterX
	y := pos.Y - c.CenterY
	if c.FlipView {
		x = -x
	}

	x = x*c.Zoom + float64(c.ScreenWidth)/2.0
	y = y*c.Zoom + float64(c.ScreenHeight)/2.0
	return x, y
}

// ScreenToWorld converts image coordinates (pixels) to world coordinates (mm)
func (c *Camera) ScreenToWorld(screenX, screenY float64) sexp.Position {
	x := (screenX - float64(c.ScreenWidth)/2.0) / c.Zoom
	y := (screenY - float64(c.ScreenHeight)/2.0) / c.Zoom
	if c.FlipView {
		x = -x
	}
	return sexp.Position{X: x + c.CenterX, Y: y + c.CenterY}
}

// Fit centres the camera on bbox and zooms so the box fills the given
// fraction of the image along its tighter axis.
func (c *Camera) Fit(bbox sexp.BoundingBox, fill float64) {
	width := bbox.Width()
	height := bbox.Height()
	if width <= 0 || height <= 0 {
		return
	}

	center := bbox.Center()
	c.CenterX = center.X
	c.CenterY = center.Y

	zoomX := float64(c.ScreenWidth) * fill / width
	zoomY := float64(c.ScreenHeight) * fill / height
	c.Zoom = math.Max(minZoom, math.Min(maxZoom, math.Min(zoomX, zoomY)))
}

// Scale converts a length in mm to pixels, never thinner than one pixel.
func (c *Camera) Scale(mm float64) float64 {
	return math.Max(1.0, mm*c.Zoom)
}

// VisibleBounds returns the world area covered by the image.
func (c *Camera) VisibleBounds() sexp.BoundingBox {
	bb := sexp.NewBoundingBox()
	bb.Expand(c.ScreenToWorld(0, 0))
	bb.Expand(c.ScreenToWorld(float64(c.ScreenWidth), float64(c.ScreenHeight)))
	return bb
}
