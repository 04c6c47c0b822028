package footprint

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp"
)

// Recorder is a Footprint that only keeps the resolved items. It applies
// the same validation and defaults as KiCad, so a recording can be
// replayed into any other backend or handed to the renderer.
type Recorder struct {
	collector
}

var _ Footprint = (*Recorder)(nil)

// NewRecorder creates a recorder whose lines default to layer, or F.Cu if
// layer is empty.
func NewRecorder(layer string) *Recorder {
	if layer == "" {
		layer = LayerFrontCopper
	}
	return &Recorder{collector: collector{layer: layer}}
}

// Replay adds every recorded item to fp in order.
func (r *Recorder) Replay(fp Footprint) error {
	for i, it := range r.items {
		var err error
		switch it.Kind {
		case ItemText:
			err = fp.AddText(it.Text)
		case ItemLine:
			err = fp.AddLine(it.Line)
		case ItemRect:
			err = fp.AddRectangle(it.Rect)
		case ItemPad:
			err = fp.AddSMDPad(it.Pad)
		}
		if err != nil {
			return fmt.Errorf("replay item %d (%s): %w", i, it.Kind, err)
		}
	}
	return nil
}

// Lines returns the recorded lines in order.
func (r *Recorder) Lines() []sexp.GrLine {
	var out []sexp.GrLine
	for _, it := range r.items {
		if it.Kind == ItemLine {
			out = append(out, it.Line)
		}
	}
	return out
}

// Pads returns the recorded pads in order.
func (r *Recorder) Pads() []Pad {
	var out []Pad
	for _, it := range r.items {
		if it.Kind == ItemPad {
			out = append(out, it.Pad)
		}
	}
	return out
}

// Rects returns the recorded rectangles in order.
func (r *Recorder) Rects() []sexp.GrRect {
	var out []sexp.GrRect
	for _, it := range r.items {
		if it.Kind == ItemRect {
			out = append(out, it.Rect)
		}
	}
	return out
}

// Evaluate returns a one-line-per-item summary for logs and debugging.
func (r *Recorder) Evaluate() string {
	var b strings.Builder
	for _, it := range r.items {
		switch it.Kind {
		case ItemText:
			fmt.Fprintf(&b, "text %s %q at (%g, %g) on %s\n",
				it.Text.Kind, it.Text.Content, it.Text.Position.X, it.Text.Position.Y, it.Text.Layer)
		case ItemLine:
			fmt.Fprintf(&b, "line (%g, %g)-(%g, %g) width %g on %s\n",
				it.Line.Start.X, it.Line.Start.Y, it.Line.End.X, it.Line.End.Y, it.Line.Stroke.Width, it.Line.Layer)
		case ItemRect:
			fmt.Fprintf(&b, "rect (%g, %g)-(%g, %g) width %g on %s\n",
				it.Rect.Start.X, it.Rect.Start.Y, it.Rect.End.X, it.Rect.End.Y, it.Rect.Stroke.Width, it.Rect.Layer)
		case ItemPad:
			fmt.Fprintf(&b, "pad %q %s at (%g, %g) size %gx%g on %s\n",
				it.Pad.Number, it.Pad.Shape, it.Pad.Position.X, it.Pad.Position.Y,
				it.Pad.Size.Width, it.Pad.Size.Height, strings.Join(it.Pad.Layers, ","))
		}
	}
	return b.String()
}
