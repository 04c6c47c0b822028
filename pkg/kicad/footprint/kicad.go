package footprint

import (
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp/kicadsexp"
)

// KiCad serializes a footprint to the KiCad 7 .kicad_mod format.
//
// KiCad accepts S-expressions with or without quotes in general but
// requires quotes around real strings (names, pad numbers, layer names)
// and none around keywords. The serializer applies that rule per field.
type KiCad struct {
	collector
	header Header
}

var _ Footprint = (*KiCad)(nil)

// NewKiCad creates an empty footprint. The header must carry a name and a
// positive version; other fields default to an SMD part on F.Cu generated
// by "custom".
func NewKiCad(h Header) (*KiCad, error) {
	h, err := checkHeader(h)
	if err != nil {
		return nil, err
	}
	return &KiCad{
		collector: collector{layer: h.Layer},
		header:    h,
	}, nil
}

// Header returns the resolved footprint identity.
func (k *KiCad) Header() Header {
	return k.header
}

// Evaluate renders the header and all items in call order.
func (k *KiCad) Evaluate() string {
	return kicadsexp.MarshalIndent(k.Tree(), "  ")
}

// Tree returns the S-expression tree Evaluate writes.
func (k *KiCad) Tree() *kicadsexp.List {
	h := k.header
	root := kicadsexp.L(
		kicadsexp.Sym("footprint"), kicadsexp.Str(h.Name),
		kicadsexp.L(kicadsexp.Sym("version"), kicadsexp.Int(h.Version)),
		kicadsexp.L(kicadsexp.Sym("generator"), kicadsexp.Sym(h.Generator)),
		kicadsexp.L(kicadsexp.Sym("layer"), kicadsexp.Str(h.Layer)),
		kicadsexp.L(kicadsexp.Sym("attr"), kicadsexp.Sym(string(h.Type)),
			kicadsexp.Sym("exclude_from_pos_files"),
			kicadsexp.Sym("exclude_from_bom"),
		),
	)

	for _, it := range k.items {
		root.Append(itemNode(it))
	}
	return root
}

func itemNode(it Item) kicadsexp.Sexp {
	switch it.Kind {
	case ItemText:
		return textNode(it.Text)
	case ItemLine:
		return graphicNode("fp_line", it.Line.Start, it.Line.End, it.Line.Stroke, it.Line.Layer, false)
	case ItemRect:
		return graphicNode("fp_rect", it.Rect.Start, it.Rect.End, it.Rect.Stroke, it.Rect.Layer, true)
	default:
		return padNode(it.Pad)
	}
}

// (fp_text value "heater" (at 0 0) (layer "F.SilkS") (effects (font (size 1 1) (thickness 0.15))))
func textNode(t Text) kicadsexp.Sexp {
	return kicadsexp.L(
		kicadsexp.Sym("fp_text"), kicadsexp.Sym(string(t.Kind)), kicadsexp.Str(t.Content),
		atNode(t.Position),
		layerNode(t.Layer),
		kicadsexp.L(kicadsexp.Sym("effects"),
			kicadsexp.L(kicadsexp.Sym("font"),
				kicadsexp.L(kicadsexp.Sym("size"), kicadsexp.Num(DefaultTextSize), kicadsexp.Num(DefaultTextSize)),
				kicadsexp.L(kicadsexp.Sym("thickness"), kicadsexp.Num(DefaultTextThickness)),
			),
		),
	)
}

// (fp_line (start x y) (end x y) (stroke (width w) (type default)) (layer "F.Cu"))
func graphicNode(tag string, start, end sexp.Position, stroke sexp.Stroke, layer string, fill bool) kicadsexp.Sexp {
	node := kicadsexp.L(
		kicadsexp.Sym(tag),
		xyNode("start", start),
		xyNode("end", end),
		kicadsexp.L(kicadsexp.Sym("stroke"),
			kicadsexp.L(kicadsexp.Sym("width"), kicadsexp.Num(stroke.Width)),
			kicadsexp.L(kicadsexp.Sym("type"), kicadsexp.Sym(string(stroke.Type))),
		),
	)
	if fill {
		node.Append(kicadsexp.L(kicadsexp.Sym("fill"), kicadsexp.Sym("none")))
	}
	node.Append(layerNode(layer))
	return node
}

// (pad "1" smd roundrect (at x y) (size w h) (layers "F.Cu" ...) (roundrect_rratio 0.25) (thermal_bridge_angle 45))
func padNode(p Pad) kicadsexp.Sexp {
	layers := kicadsexp.L(kicadsexp.Sym("layers"))
	for _, layer := range p.Layers {
		layers.Append(kicadsexp.Str(layer))
	}

	return kicadsexp.L(
		kicadsexp.Sym("pad"), kicadsexp.Str(p.Number), kicadsexp.Sym(string(SMD)), kicadsexp.Sym(string(p.Shape)),
		atNode(p.Position),
		kicadsexp.L(kicadsexp.Sym("size"), kicadsexp.Num(p.Size.Width), kicadsexp.Num(p.Size.Height)),
		layers,
		kicadsexp.L(kicadsexp.Sym("roundrect_rratio"), kicadsexp.Num(p.RoundRatio)),
		kicadsexp.L(kicadsexp.Sym("thermal_bridge_angle"), kicadsexp.Num(p.ThermalBridgeAngle)),
	)
}

func atNode(pos sexp.PositionAngle) *kicadsexp.List {
	node := xyNode("at", pos.Position)
	if pos.Angle != 0 {
		node.Append(kicadsexp.Num(float64(pos.Angle)))
	}
	return node
}

func xyNode(tag string, pos sexp.Position) *kicadsexp.List {
	return kicadsexp.L(kicadsexp.Sym(tag), kicadsexp.Num(pos.X), kicadsexp.Num(pos.Y))
}

func layerNode(layer string) *kicadsexp.List {
	return kicadsexp.L(kicadsexp.Sym("layer"), kicadsexp.Str(layer))
}
