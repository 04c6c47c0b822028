package footprint

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp"
)

// maxRoundRatio is the largest corner ratio KiCad accepts (a full semicircle).
const maxRoundRatio = 0.5

// collector validates items, resolves their defaults and keeps them in
// call order. It is shared by every Footprint implementation.
type collector struct {
	layer string // Default layer for lines
	items []Item
}

func (c *collector) AddText(t Text) error {
	if t.Kind == "" {
		t.Kind = TextValue
	}
	switch t.Kind {
	case TextReference, TextValue, TextUser:
	default:
		return serializationErr("text", "kind", "unknown text kind %q", t.Kind)
	}
	if err := checkUTF8("text", "content", t.Content); err != nil {
		return err
	}
	if !t.Position.IsFinite() || !isFinite(float64(t.Position.Angle)) {
		return serializationErr("text", "position", "coordinates must be finite")
	}
	if t.Layer == "" {
		t.Layer = LayerFrontSilk
	}
	if err := checkLayer("text", t.Layer); err != nil {
		return err
	}

	c.items = append(c.items, Item{Kind: ItemText, Text: t})
	return nil
}

func (c *collector) AddLine(l sexp.GrLine) error {
	if l.Layer == "" {
		l.Layer = c.layer
	}
	stroke, err := checkGraphic("line", l.Start, l.End, l.Stroke, l.Layer)
	if err != nil {
		return err
	}
	l.Stroke = stroke

	c.items = append(c.items, Item{Kind: ItemLine, Line: l})
	return nil
}

func (c *collector) AddRectangle(r sexp.GrRect) error {
	if r.Layer == "" {
		r.Layer = LayerFrontSilk
	}
	stroke, err := checkGraphic("rect", r.Start, r.End, r.Stroke, r.Layer)
	if err != nil {
		return err
	}
	r.Stroke = stroke

	c.items = append(c.items, Item{Kind: ItemRect, Rect: r})
	return nil
}

func (c *collector) AddSMDPad(p Pad) error {
	if strings.TrimSpace(p.Number) == "" {
		return serializationErr("pad", "number", "pad number is empty")
	}
	if err := checkUTF8("pad", "number", p.Number); err != nil {
		return err
	}
	item := "pad " + p.Number

	if p.Shape == "" {
		p.Shape = RoundRect
	}
	if p.Shape != RoundRect {
		return serializationErr(item, "shape", "unsupported pad shape %q", p.Shape)
	}
	if !p.Position.IsFinite() || !isFinite(float64(p.Position.Angle)) {
		return serializationErr(item, "position", "coordinates must be finite")
	}
	if !positive(p.Size.Width) || !positive(p.Size.Height) {
		return serializationErr(item, "size", "size %gx%g must be positive", p.Size.Width, p.Size.Height)
	}
	if !isFinite(p.RoundRatio) || p.RoundRatio < 0 || p.RoundRatio > maxRoundRatio {
		return serializationErr(item, "roundrect_rratio", "ratio %g outside [0, %g]", p.RoundRatio, maxRoundRatio)
	}
	if p.ThermalBridgeAngle == 0 {
		p.ThermalBridgeAngle = DefaultThermalBridgeAngle
	}
	if !isFinite(p.ThermalBridgeAngle) {
		return serializationErr(item, "thermal_bridge_angle", "angle must be finite")
	}

	if p.Layers == nil {
		p.Layers = DefaultPadLayers
	}
	if len(p.Layers) == 0 {
		return serializationErr(item, "layers", "layer set is empty")
	}
	seen := make(map[string]bool, len(p.Layers))
	for _, layer := range p.Layers {
		if err := checkLayer(item, layer); err != nil {
			return err
		}
		if seen[layer] {
			return serializationErr(item, "layers", "layer %q listed twice", layer)
		}
		seen[layer] = true
	}
	// Own the slice so later caller edits cannot reach the stored item.
	p.Layers = append([]string(nil), p.Layers...)

	c.items = append(c.items, Item{Kind: ItemPad, Pad: p})
	return nil
}

// Items returns a copy of the accumulated items in call order.
func (c *collector) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of accumulated items.
func (c *collector) Len() int {
	return len(c.items)
}

func checkGraphic(item string, start, end sexp.Position, stroke sexp.Stroke, layer string) (sexp.Stroke, error) {
	if !start.IsFinite() || !end.IsFinite() {
		return stroke, serializationErr(item, "position", "coordinates must be finite")
	}
	if !positive(stroke.Width) {
		return stroke, serializationErr(item, "width", "stroke width %g must be positive", stroke.Width)
	}
	if stroke.Type == "" {
		stroke.Type = sexp.StrokeDefault
	}
	if !stroke.Type.Valid() {
		return stroke, serializationErr(item, "type", "unknown stroke type %q", stroke.Type)
	}
	return stroke, checkLayer(item, layer)
}

func checkLayer(item, layer string) error {
	if layer == "" {
		return serializationErr(item, "layer", "layer is empty")
	}
	if !IsLayer(layer) {
		return serializationErr(item, "layer", "unknown layer %q", layer)
	}
	return nil
}

// checkHeader fills header defaults and validates the identity fields.
func checkHeader(h Header) (Header, error) {
	if strings.TrimSpace(h.Name) == "" {
		return h, serializationErr("header", "name", "footprint name is empty")
	}
	if err := checkUTF8("header", "name", h.Name); err != nil {
		return h, err
	}
	if h.Version <= 0 {
		return h, serializationErr("header", "version", "version %d must be positive", h.Version)
	}
	if h.Type == "" {
		h.Type = SMD
	}
	if h.Type != SMD && h.Type != ThroughHole {
		return h, serializationErr("header", "type", "unknown board type %q", h.Type)
	}
	if h.Layer == "" {
		h.Layer = LayerFrontCopper
	}
	if err := checkLayer("header", h.Layer); err != nil {
		return h, err
	}
	if h.Generator == "" {
		h.Generator = DefaultGenerator
	}
	if err := checkUTF8("header", "generator", h.Generator); err != nil {
		return h, err
	}
	if !isKeyword(h.Generator) {
		return h, serializationErr("header", "generator", "generator %q is not a bare keyword", h.Generator)
	}
	return h, nil
}

// checkUTF8 rejects strings the writer would otherwise mangle into U+FFFD.
func checkUTF8(item, field, s string) error {
	if !utf8.ValidString(s) {
		return serializationErr(item, field, "%q is not valid UTF-8", s)
	}
	return nil
}

// isKeyword reports whether s can be written as a bare symbol.
func isKeyword(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, " \t\r\n()\"#")
}

func positive(v float64) bool {
	return isFinite(v) && v > 0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
