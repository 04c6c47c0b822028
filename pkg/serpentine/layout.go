// Package serpentine lays out a heater trace as a zig-zag of parallel
// fingers between two pads and emits it into a footprint.
//
// In the pattern's own frame (before Offset), with pitch δ = clearance +
// trace width and n fingers: pad 1 sits at (0,0) and pad 2 at (δ,0).
// Finger i runs from (iδ,δ) to (iδ,H). Consecutive fingers are joined
// alternately at y=H and y=δ, the last finger drops back to y=0 and a
// terminal segment along y=0 returns to pad 2. For an even finger count
// this is one open chain from pad 1 to pad 2.
package serpentine

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/footprint"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/trace"
)

const (
	// PadRoundRatio is the corner ratio of both connection pads.
	PadRoundRatio = 0.25

	// DefaultOutlineWidth is the silkscreen outline stroke in mm.
	DefaultOutlineWidth = 0.5

	// Points closer than this (mm) are the same node when walking the path.
	joinTolerance = 1e-9
)

// Params describes one serpentine.
type Params struct {
	Segments     int     // Number of fingers, even and >= 2
	Height       float64 // y of the bottom bridges; fingers run from δ to Height
	Clearance    float64 // Gap between adjacent fingers in mm
	TraceWidth   float64 // Copper width in mm
	Offset       sexp.Position
	OutlineWidth float64 // Silkscreen stroke; defaults to DefaultOutlineWidth
}

// Delta returns the finger pitch.
func (p Params) Delta() float64 {
	return p.Clearance + p.TraceWidth
}

// Centered returns the offset that puts the middle of the finger field on
// the footprint origin.
func Centered(segments int, height, clearance, traceWidth float64) sexp.Position {
	delta := clearance + traceWidth
	return sexp.Pos(-float64(segments-1)*delta/2, -height/2)
}

// Layout is the computed geometry of a serpentine.
type Layout struct {
	params  Params
	delta   float64
	lines   []sexp.GrLine
	pads    []footprint.Pad
	outline sexp.GrRect
}

// Generate lays out p and emits it into fp.
func Generate(fp footprint.Footprint, p Params) error {
	l, err := NewLayout(p)
	if err != nil {
		return err
	}
	return l.Emit(fp)
}

// NewLayout validates p and computes the segments, pads and outline.
// Segments are produced in a fixed order: start bridge, fingers, inner
// bridges, closing bridge, terminal segment.
func NewLayout(p Params) (*Layout, error) {
	if err := trace.RequirePositive("height", p.Height); err != nil {
		return nil, err
	}
	if err := trace.RequirePositive("clearance", p.Clearance); err != nil {
		return nil, err
	}
	if err := trace.RequirePositive("trace width", p.TraceWidth); err != nil {
		return nil, err
	}
	if !p.Offset.IsFinite() {
		return nil, fmt.Errorf("%w: offset (%g, %g) must be finite", trace.ErrInvalidInput, p.Offset.X, p.Offset.Y)
	}
	if p.OutlineWidth == 0 {
		p.OutlineWidth = DefaultOutlineWidth
	}
	if err := trace.RequirePositive("outline width", p.OutlineWidth); err != nil {
		return nil, err
	}

	delta := p.Delta()
	if p.Segments < 2 {
		return nil, &trace.GeometryError{
			Reason: fmt.Sprintf("%d fingers, need at least 2", p.Segments),
			Height: p.Height, Delta: delta,
		}
	}
	if p.Height <= delta {
		return nil, &trace.GeometryError{Reason: "fingers shorter than their pitch", Height: p.Height, Delta: delta}
	}

	l := &Layout{params: p, delta: delta}
	n := p.Segments
	h := p.Height
	inner := float64(n-1) * delta

	l.line(0, 0, 0, delta)

	for i := 0; i < n; i++ {
		x := float64(i) * delta
		l.line(x, delta, x, h)
	}

	for i := 0; i < n-1; i++ {
		y := h
		if i%2 == 1 {
			y = delta
		}
		l.line(float64(i)*delta, y, float64(i+1)*delta, y)
	}

	l.line(inner, delta, inner, 0)
	l.line(delta, 0, inner, 0)

	size := sexp.Size{Width: p.TraceWidth, Height: p.TraceWidth}
	for i, x := range []float64{0, delta} {
		l.pads = append(l.pads, footprint.Pad{
			Number:             fmt.Sprint(i + 1),
			Shape:              footprint.RoundRect,
			Position:           sexp.PositionAngle{Position: p.Offset.Add(sexp.Pos(x, 0))},
			Size:               size,
			Layers:             footprint.DefaultPadLayers,
			RoundRatio:         PadRoundRatio,
			ThermalBridgeAngle: footprint.DefaultThermalBridgeAngle,
		})
	}

	c := p.Clearance
	l.outline = sexp.GrRect{
		Start:  p.Offset.Add(sexp.Pos(-c, -c)),
		End:    p.Offset.Add(sexp.Pos(inner+c, h+c)),
		Stroke: sexp.Stroke{Width: p.OutlineWidth},
		Layer:  footprint.LayerFrontSilk,
	}

	return l, nil
}

func (l *Layout) line(x1, y1, x2, y2 float64) {
	l.lines = append(l.lines, sexp.GrLine{
		Start:  l.params.Offset.Add(sexp.Pos(x1, y1)),
		End:    l.params.Offset.Add(sexp.Pos(x2, y2)),
		Stroke: sexp.Stroke{Width: l.params.TraceWidth},
	})
}

// Emit adds the lines, then both pads, then the outline to fp.
func (l *Layout) Emit(fp footprint.Footprint) error {
	for i, line := range l.lines {
		if err := fp.AddLine(line); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	for _, pad := range l.pads {
		if err := fp.AddSMDPad(pad); err != nil {
			return fmt.Errorf("pad %s: %w", pad.Number, err)
		}
	}
	if err := fp.AddRectangle(l.outline); err != nil {
		return fmt.Errorf("outline: %w", err)
	}
	return nil
}

// Params returns the parameters with defaults applied.
func (l *Layout) Params() Params { return l.params }

// Lines returns a copy of the copper segments in emission order.
func (l *Layout) Lines() []sexp.GrLine {
	return append([]sexp.GrLine(nil), l.lines...)
}

// Pads returns copies of the two connection pads.
func (l *Layout) Pads() []footprint.Pad {
	return append([]footprint.Pad(nil), l.pads...)
}

// Outline returns the silkscreen rectangle.
func (l *Layout) Outline() sexp.GrRect { return l.outline }

// Length returns the summed centreline length of all segments, which is
// Segments·(Height+δ) - δ.
func (l *Layout) Length() float64 {
	lengths := make([]float64, len(l.lines))
	for i, line := range l.lines {
		lengths[i] = line.Length()
	}
	return floats.Sum(lengths)
}

// Width returns the board width the pattern needs: the finger field plus
// one clearance on each side.
func (l *Layout) Width() float64 {
	return float64(l.params.Segments-1)*l.delta + 2*l.params.Clearance
}

// BoundingBox returns the extent of copper and silkscreen, including
// stroke widths.
func (l *Layout) BoundingBox() sexp.BoundingBox {
	bb := sexp.NewBoundingBox()
	for _, line := range l.lines {
		half := line.Stroke.Width / 2
		bb.ExpandBox(pointBox(line.Start, half))
		bb.ExpandBox(pointBox(line.End, half))
	}
	for _, pad := range l.pads {
		bb.ExpandBox(pointBox(pad.Position.Position, pad.Size.Width/2))
	}
	half := l.outline.Stroke.Width / 2
	bb.ExpandBox(pointBox(l.outline.Start, half))
	bb.ExpandBox(pointBox(l.outline.End, half))
	return bb
}

func pointBox(p sexp.Position, margin float64) sexp.BoundingBox {
	return sexp.BoundingBox{Min: p, Max: p}.Grow(margin)
}

// Path walks the segments from pad 1 and returns the visited points. It
// fails unless every segment is used exactly once and the walk ends on
// pad 2.
func (l *Layout) Path() ([]sexp.Position, error) {
	cur := l.pads[0].Position.Position
	end := l.pads[1].Position.Position
	used := make([]bool, len(l.lines))
	path := []sexp.Position{cur}

	for step := 0; step < len(l.lines); step++ {
		next, ok := -1, false
		var to sexp.Position
		for i, line := range l.lines {
			if used[i] {
				continue
			}
			if samePoint(line.Start, cur) {
				next, to, ok = i, line.End, true
			} else if samePoint(line.End, cur) {
				next, to, ok = i, line.Start, true
			}
			if ok {
				break
			}
		}
		if !ok {
			return path, fmt.Errorf("path breaks at (%g, %g) after %d of %d segments", cur.X, cur.Y, step, len(l.lines))
		}
		used[next] = true
		cur = to
		path = append(path, cur)
	}

	if !samePoint(cur, end) {
		return path, fmt.Errorf("path ends at (%g, %g), not at pad 2 (%g, %g)", cur.X, cur.Y, end.X, end.Y)
	}
	return path, nil
}

func samePoint(a, b sexp.Position) bool {
	return scalar.EqualWithinAbs(a.X, b.X, joinTolerance) && scalar.EqualWithinAbs(a.Y, b.Y, joinTolerance)
}
