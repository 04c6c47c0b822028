package renderer

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp"
)

// Transform places a shape defined around its own origin: scale, then
// rotate, then translate.
type Transform struct {
	TranslateX float64
	TranslateY float64
	Rotate     float64 // Degrees, counter-clockwise as KiCad stores them
	ScaleX     float64
	ScaleY     float64
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		ScaleX: 1.0,
		ScaleY: 1.0,
	}
}

// Placement returns the transform for an item at pos.
func Placement(pos sexp.PositionAngle) Transform {
	t := NewTransform()
	t.TranslateX = pos.X
	t.TranslateY = pos.Y
	t.Rotate = float64(pos.Angle)
	return t
}

// Apply applies the transformation to a position
func (t Transform) Apply(pos sexp.Position) sexp.Position {
	x := pos.X * t.ScaleX
	y := pos.Y * t.ScaleY

	// KiCad's Y axis points down, so a counter-clockwise angle on screen
	// is a negative rotation in these coordinates.
	if t.Rotate != 0 {
		rad := -t.Rotate * math.Pi / 180.0
		cos, sin := math.Cos(rad), math.Sin(rad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}

	return sexp.Position{X: x + t.TranslateX, Y: y + t.TranslateY}
}

// ApplyInverse undoes Apply.
func (t Transform) ApplyInverse(pos sexp.Position) sexp.Position {
	x := pos.X - t.TranslateX
	y := pos.Y - t.TranslateY

	if t.Rotate != 0 {
		rad := t.Rotate * math.Pi / 180.0
		cos, sin := math.Cos(rad), math.Sin(rad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}

	if t.ScaleX != 0 {
		x /= t.ScaleX
	}
	if t.ScaleY != 0 {
		y /= t.ScaleY
	}
	return sexp.Position{X: x, Y: y}
}

// RectCorners returns the corners of a width × height rectangle centred on
// the transform's origin, in drawing order.
func (t Transform) RectCorners(width, height float64) [4]sexp.Position {
	hw, hh := width/2, height/2
	return [4]sexp.Position{
		t.Apply(sexp.Pos(-hw, -hh)),
		t.Apply(sexp.Pos(hw, -hh)),
		t.Apply(sexp.Pos(hw, hh)),
		t.Apply(sexp.Pos(-hw, hh)),
	}
}
