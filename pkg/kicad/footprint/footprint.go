// Package footprint builds KiCad footprints (.kicad_mod) from graphic
// primitives.
//
// Footprint is the capability every backend implements: KiCad serializes
// to the S-expression file format, Recorder keeps the resolved items for
// inspection, replay and rendering.
package footprint

import (
	"fmt"
	"time"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp"
)

// Footprint accumulates primitives in call order.
//
// Each Add call validates its item, fills in defaults and appends it; a
// rejected item leaves the footprint unchanged. Evaluate renders the
// current state and does not modify it.
type Footprint interface {
	AddText(t Text) error
	AddLine(l sexp.GrLine) error
	AddRectangle(r sexp.GrRect) error
	AddSMDPad(p Pad) error
	Evaluate() string
}

// BoardType is the assembly attribute of the footprint.
type BoardType string

const (
	SMD         BoardType = "smd"
	ThroughHole BoardType = "through_hole"
)

// TextKind selects which footprint field a text item is.
type TextKind string

const (
	TextReference TextKind = "reference"
	TextValue     TextKind = "value"
	TextUser      TextKind = "user"
)

// PadShape is the copper shape of a pad.
type PadShape string

// RoundRect is the only pad shape the heater uses.
const RoundRect PadShape = "roundrect"

// Defaults applied to zero-valued fields
const (
	DefaultGenerator          = "custom"
	DefaultThermalBridgeAngle = 45
	DefaultTextSize           = 1.0
	DefaultTextThickness      = 0.15
)

// Text is a footprint text field (fp_text).
type Text struct {
	Kind     TextKind // Defaults to value
	Content  string
	Position sexp.PositionAngle
	Layer    string // Defaults to F.SilkS
}

// Pad is a surface-mount pad.
type Pad struct {
	Number             string // Pad number, e.g. "1"
	Shape              PadShape
	Position           sexp.PositionAngle
	Size               sexp.Size
	Layers             []string // Defaults to F.Cu, F.Paste, F.Mask
	RoundRatio         float64  // Corner radius as a fraction of the shorter side
	ThermalBridgeAngle float64  // Degrees; defaults to 45
}

// Header is the identity of a footprint.
type Header struct {
	Name      string
	Version   int       // Date-coded, see DateVersion
	Type      BoardType // Defaults to smd
	Layer     string    // Defaults to F.Cu
	Generator string    // Bare keyword; defaults to custom
}

// DateVersion returns the date-coded version YYYYMMDD for t.
func DateVersion(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// ItemKind tags the primitive held by an Item.
type ItemKind int

const (
	ItemText ItemKind = iota
	ItemLine
	ItemRect
	ItemPad
)

func (k ItemKind) String() string {
	switch k {
	case ItemText:
		return "text"
	case ItemLine:
		return "line"
	case ItemRect:
		return "rect"
	case ItemPad:
		return "pad"
	}
	return fmt.Sprintf("ItemKind(%d)", int(k))
}

// Item is one accumulated primitive with its defaults resolved. Only the
// field matching Kind is set.
type Item struct {
	Kind ItemKind
	Text Text
	Line sexp.GrLine
	Rect sexp.GrRect
	Pad  Pad
}

// Layer returns the layer the item is drawn on; pads report their first layer.
func (it Item) Layer() string {
	switch it.Kind {
	case ItemText:
		return it.Text.Layer
	case ItemLine:
		return it.Line.Layer
	case ItemRect:
		return it.Rect.Layer
	case ItemPad:
		if len(it.Pad.Layers) > 0 {
			return it.Pad.Layers[0]
		}
	}
	return ""
}
