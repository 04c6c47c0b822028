package footprint

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp/kicadsexp"
)

// Module is a footprint read back from a .kicad_mod file.
type Module struct {
	Header     Header
	Attributes []string // Flags after the board type in (attr ...)
	Items      []Item   // All supported items in file order
}

// Lines returns the fp_line items in file order.
func (m *Module) Lines() []sexp.GrLine {
	var out []sexp.GrLine
	for _, it := range m.Items {
		if it.Kind == ItemLine {
			out = append(out, it.Line)
		}
	}
	return out
}

// Rects returns the fp_rect items in file order.
func (m *Module) Rects() []sexp.GrRect {
	var out []sexp.GrRect
	for _, it := range m.Items {
		if it.Kind == ItemRect {
			out = append(out, it.Rect)
		}
	}
	return out
}

// Pads returns the pads in file order.
func (m *Module) Pads() []Pad {
	var out []Pad
	for _, it := range m.Items {
		if it.Kind == ItemPad {
			out = append(out, it.Pad)
		}
	}
	return out
}

// Texts returns the fp_text items in file order.
func (m *Module) Texts() []Text {
	var out []Text
	for _, it := range m.Items {
		if it.Kind == ItemText {
			out = append(out, it.Text)
		}
	}
	return out
}

// HasAttribute reports whether the (attr ...) node lists flag.
func (m *Module) HasAttribute(flag string) bool {
	for _, a := range m.Attributes {
		if a == flag {
			return true
		}
	}
	return false
}

// ParseFile reads and parses a .kicad_mod file
func ParseFile(filename string) (*Module, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// ParseString parses a footprint held in a string.
func ParseString(s string) (*Module, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a footprint and checks that every field uses the quoting
// KiCad expects: a bare keyword where a quoted string belongs (or the
// reverse) is an error.
func Parse(r io.Reader) (*Module, error) {
	root, err := kicadsexp.ParseOne(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}

	if tag, err := sexp.GetNodeName(root); err != nil || tag != "footprint" {
		return nil, fmt.Errorf("not a KiCad footprint: expected 'footprint', got '%s'", root.Head())
	}

	m := &Module{}
	if err := parseHeader(root, m); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	for i, item := range root.Items()[2:] {
		node, ok := item.(*kicadsexp.List)
		if !ok {
			return nil, fmt.Errorf("item %d: unexpected atom %s", i, item)
		}

		var (
			it  Item
			err error
		)
		switch node.Tag() {
		case "fp_text":
			it.Kind = ItemText
			it.Text, err = parseText(node)
		case "fp_line":
			it.Kind = ItemLine
			it.Line, err = parseLine(node)
		case "fp_rect":
			it.Kind = ItemRect
			it.Rect, err = parseRect(node)
		case "pad":
			it.Kind = ItemPad
			it.Pad, err = parsePad(node)
		default:
			// Header nodes and unsupported items
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", node.Tag(), err)
		}
		m.Items = append(m.Items, it)
	}

	return m, nil
}

// parseHeader extracts name, version, generator, layer and attributes.
func parseHeader(root *kicadsexp.List, m *Module) error {
	if root.Len() < 2 {
		return fmt.Errorf("missing footprint name")
	}
	name, err := sexp.GetQuoted(root, 1)
	if err != nil {
		return fmt.Errorf("footprint name: %w", err)
	}
	m.Header.Name = name

	for _, key := range []string{"version", "generator", "layer", "attr"} {
		if nodes := sexp.FindAllNodes(root, key); len(nodes) > 1 {
			return fmt.Errorf("duplicate '%s' node", key)
		}
	}

	versionNode, ok := sexp.FindNode(root, "version")
	if !ok {
		return fmt.Errorf("missing version")
	}
	if m.Header.Version, err = sexp.GetInt(versionNode, 1); err != nil {
		return fmt.Errorf("version: %w", err)
	}

	m.Header.Generator = "unknown"
	if genNode, ok := sexp.FindNode(root, "generator"); ok {
		if m.Header.Generator, err = sexp.GetSymbol(genNode, 1); err != nil {
			return fmt.Errorf("generator: %w", err)
		}
	}

	if m.Header.Layer, err = sexp.GetLayer(root); err != nil {
		return err
	}

	if attrNode, ok := sexp.FindNode(root, "attr"); ok {
		// (attr <type> <flag>...), all bare keywords
		values := sexp.GetListItems(attrNode)
		if len(values) == 0 {
			return fmt.Errorf("attr: missing board type")
		}
		for i, v := range values {
			sym, ok := v.(kicadsexp.Symbol)
			if !ok {
				return fmt.Errorf("attr: expected keyword at index %d, got %s", i+1, v)
			}
			if i == 0 {
				m.Header.Type = BoardType(sym)
				continue
			}
			m.Attributes = append(m.Attributes, string(sym))
		}
	}
	return nil
}

// parseText expects (fp_text kind "text" (at x y [angle]) (layer "l") ...)
func parseText(node *kicadsexp.List) (Text, error) {
	var t Text

	kind, err := sexp.GetSymbol(node, 1)
	if err != nil {
		return t, fmt.Errorf("failed to parse text kind: %w", err)
	}
	t.Kind = TextKind(kind)

	if t.Content, err = sexp.GetQuoted(node, 2); err != nil {
		return t, fmt.Errorf("failed to parse text content: %w", err)
	}

	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return t, fmt.Errorf("missing required 'at' position")
	}
	if t.Position, err = sexp.GetPosition(atNode); err != nil {
		return t, err
	}

	t.Layer, err = sexp.GetLayer(node)
	return t, err
}

func parseLine(node *kicadsexp.List) (sexp.GrLine, error) {
	var l sexp.GrLine
	var err error
	l.Start, l.End, l.Stroke, l.Layer, err = parseGraphic(node)
	return l, err
}

func parseRect(node *kicadsexp.List) (sexp.GrRect, error) {
	var r sexp.GrRect
	var err error
	r.Start, r.End, r.Stroke, r.Layer, err = parseGraphic(node)
	if err != nil {
		return r, err
	}
	if fillNode, ok := sexp.FindNode(node, "fill"); ok {
		if !sexp.HasSymbol(fillNode, "none") && !sexp.HasSymbol(fillNode, "no") {
			return r, fmt.Errorf("filled rectangles are not supported")
		}
	}
	return r, nil
}

// parseGraphic reads the fields fp_line and fp_rect share:
// (start x y) (end x y) (stroke ...) (layer "l")
func parseGraphic(node *kicadsexp.List) (start, end sexp.Position, stroke sexp.Stroke, layer string, err error) {
	startNode, ok := sexp.FindNode(node, "start")
	if !ok {
		return start, end, stroke, layer, fmt.Errorf("missing required 'start' field")
	}
	if start, err = sexp.GetPositionXY(startNode); err != nil {
		return start, end, stroke, layer, fmt.Errorf("start: %w", err)
	}

	endNode, ok := sexp.FindNode(node, "end")
	if !ok {
		return start, end, stroke, layer, fmt.Errorf("missing required 'end' field")
	}
	if end, err = sexp.GetPositionXY(endNode); err != nil {
		return start, end, stroke, layer, fmt.Errorf("end: %w", err)
	}

	if strokeNode, ok := sexp.FindNode(node, "stroke"); ok {
		if stroke, err = sexp.GetStroke(strokeNode); err != nil {
			return start, end, stroke, layer, err
		}
	}

	layer, err = sexp.GetLayer(node)
	return start, end, stroke, layer, err
}

// parsePad extracts a pad definition from a footprint
// Expected format: (pad "number" type shape (at x y [angle]) (size w h) (layers ...) ...)
func parsePad(node *kicadsexp.List) (Pad, error) {
	var pad Pad

	// Parse pad number/name (second element after "pad")
	number, err := sexp.GetQuoted(node, 1)
	if err != nil {
		return pad, fmt.Errorf("failed to parse pad number: %w", err)
	}
	pad.Number = number

	// Parse pad type (third element: thru_hole, smd, connect, np_thru_hole)
	padType, err := sexp.GetSymbol(node, 2)
	if err != nil {
		return pad, fmt.Errorf("failed to parse pad type: %w", err)
	}
	if padType != string(SMD) {
		return pad, fmt.Errorf("unsupported pad type %q", padType)
	}

	// Parse pad shape (fourth element: circle, rect, oval, roundrect, trapezoid, custom)
	shape, err := sexp.GetSymbol(node, 3)
	if err != nil {
		return pad, fmt.Errorf("failed to parse pad shape: %w", err)
	}
	pad.Shape = PadShape(shape)

	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return pad, fmt.Errorf("missing required 'at' position")
	}
	if pad.Position, err = sexp.GetPosition(atNode); err != nil {
		return pad, err
	}

	sizeNode, found := sexp.FindNode(node, "size")
	if !found {
		return pad, fmt.Errorf("missing required 'size' field")
	}
	if pad.Size, err = sexp.GetSize(sizeNode); err != nil {
		return pad, err
	}

	layersNode, found := sexp.FindNode(node, "layers")
	if !found {
		return pad, fmt.Errorf("missing required 'layers' field")
	}
	if pad.Layers, err = sexp.GetLayers(layersNode); err != nil {
		return pad, err
	}

	// Optional fields
	if ratioNode, found := sexp.FindNode(node, "roundrect_rratio"); found {
		if pad.RoundRatio, err = sexp.GetFloat(ratioNode, 1); err != nil {
			return pad, fmt.Errorf("roundrect_rratio: %w", err)
		}
	}
	if angleNode, found := sexp.FindNode(node, "thermal_bridge_angle"); found {
		if pad.ThermalBridgeAngle, err = sexp.GetFloat(angleNode, 1); err != nil {
			return pad, fmt.Errorf("thermal_bridge_angle: %w", err)
		}
	}

	return pad, nil
}
