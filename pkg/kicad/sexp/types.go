// Package sexp provides the geometry value types shared by the KiCad
// footprint writer, reader and renderer, and helpers for navigating
// parsed S-expressions.
//
// All coordinates are in millimetres and all angles in degrees, which is
// what KiCad 6 and later store in footprint files.
package sexp

import "math"

// Position represents a 2D coordinate in the KiCad coordinate system
// (X to the right, Y down).
type Position struct {
	X float64 // X coordinate in mm
	Y float64 // Y coordinate in mm
}

// Pos is shorthand for Position{X: x, Y: y}.
func Pos(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Add returns the sum of two positions.
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

// Distance returns the Euclidean distance to another position.
func (p Position) Distance(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// IsFinite reports whether both coordinates are finite.
func (p Position) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Angle represents rotation in degrees
type Angle float64

// PositionAngle combines position with rotation
type PositionAngle struct {
	Position
	Angle Angle
}

// At is shorthand for an unrotated PositionAngle.
func At(x, y float64) PositionAngle {
	return PositionAngle{Position: Position{X: x, Y: y}}
}

// Size represents dimensions
type Size struct {
	Width  float64 // Width in mm
	Height float64 // Height in mm
}

// StrokeType is the dash style of a graphic outline.
type StrokeType string

// Stroke types understood by KiCad 7
const (
	StrokeDefault    StrokeType = "default"
	StrokeSolid      StrokeType = "solid"
	StrokeDash       StrokeType = "dash"
	StrokeDot        StrokeType = "dot"
	StrokeDashDot    StrokeType = "dash_dot"
	StrokeDashDotDot StrokeType = "dash_dot_dot"
)

// Valid reports whether t is a known stroke type.
func (t StrokeType) Valid() bool {
	switch t {
	case StrokeDefault, StrokeSolid, StrokeDash, StrokeDot, StrokeDashDot, StrokeDashDotDot:
		return true
	}
	return false
}

// Stroke defines line/outline appearance
type Stroke struct {
	Width float64    // Line width in mm
	Type  StrokeType // Dash style; empty means default
}

// BoundingBox represents a rectangular boundary
type BoundingBox struct {
	Min Position // Minimum (top-left) corner
	Max Position // Maximum (bottom-right) corner
}

// NewBoundingBox creates an empty bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Position{X: math.Inf(1), Y: math.Inf(1)},
		Max: Position{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// IsEmpty checks if the bounding box is empty
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Contains checks if a position is within the bounding box
func (bb BoundingBox) Contains(pos Position) bool {
	return pos.X >= bb.Min.X && pos.X <= bb.Max.X &&
		pos.Y >= bb.Min.Y && pos.Y <= bb.Max.Y
}

// Expand expands the bounding box to include a position
func (bb *BoundingBox) Expand(pos Position) {
	bb.Min.X = math.Min(bb.Min.X, pos.X)
	bb.Min.Y = math.Min(bb.Min.Y, pos.Y)
	bb.Max.X = math.Max(bb.Max.X, pos.X)
	bb.Max.Y = math.Max(bb.Max.Y, pos.Y)
}

// ExpandBox expands to include another bounding box
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if !other.IsEmpty() {
		bb.Expand(other.Min)
		bb.Expand(other.Max)
	}
}

// Grow returns the box enlarged by margin on every side.
func (bb BoundingBox) Grow(margin float64) BoundingBox {
	return BoundingBox{
		Min: Position{X: bb.Min.X - margin, Y: bb.Min.Y - margin},
		Max: Position{X: bb.Max.X + margin, Y: bb.Max.Y + margin},
	}
}

// Width returns the width of the bounding box
func (bb BoundingBox) Width() float64 {
	return bb.Max.X - bb.Min.X
}

// Height returns the height of the bounding box
func (bb BoundingBox) Height() float64 {
	return bb.Max.Y - bb.Min.Y
}

// Center returns the center point of the bounding box
func (bb BoundingBox) Center() Position {
	return Position{
		X: (bb.Min.X + bb.Max.X) / 2.0,
		Y: (bb.Min.Y + bb.Max.Y) / 2.0,
	}
}

// GrLine represents a line graphic element
type GrLine struct {
	Start  Position // Start position
	End    Position // End position
	Stroke Stroke   // Line stroke
	Layer  string   // Layer name
}

// Length returns the centreline length of the line.
func (l GrLine) Length() float64 {
	return l.Start.Distance(l.End)
}

// GrRect represents a rectangle graphic element
type GrRect struct {
	Start  Position // Top-left corner
	End    Position // Bottom-right corner
	Stroke Stroke   // Rectangle stroke
	Layer  string   // Layer name
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
