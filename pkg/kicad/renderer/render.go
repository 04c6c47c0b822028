// Package renderer rasterises footprint items into a preview image.
//
// Drawing is headless: shapes are filled with golang.org/x/image/vector
// and text uses the fixed basicfont face, so a preview can be produced on
// a build machine without a display.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/footprint"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp"
)

// Defaults for zero-valued Options fields
const (
	DefaultPixelsPerMM = 10.0
	DefaultMargin      = 1.0 // mm
	DefaultMaxPixels   = 4096
)

// discSides is the polygon resolution of round line caps.
const discSides = 16

// Options controls the preview image.
type Options struct {
	PixelsPerMM float64      // Resolution; the image shrinks to fit MaxPixels
	Margin      float64      // Border around the items in mm
	MaxPixels   int          // Upper bound for the longer image side
	Layers      *LayerConfig // nil shows every layer
	Flip        bool         // Mirror as seen from the back
}

func (o Options) withDefaults() Options {
	if o.PixelsPerMM <= 0 {
		o.PixelsPerMM = DefaultPixelsPerMM
	}
	if o.Margin < 0 || math.IsNaN(o.Margin) {
		o.Margin = 0
	} else if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	return o
}

// Bounds returns the area covered by items, including stroke widths and
// pad extents. Text contributes only its anchor point.
func Bounds(items []footprint.Item) sexp.BoundingBox {
	bb := sexp.NewBoundingBox()
	grow := func(p sexp.Position, margin float64) {
		bb.ExpandBox(sexp.BoundingBox{Min: p, Max: p}.Grow(margin))
	}

	for _, it := range items {
		switch it.Kind {
		case footprint.ItemText:
			grow(it.Text.Position.Position, 0)
		case footprint.ItemLine:
			grow(it.Line.Start, it.Line.Stroke.Width/2)
			grow(it.Line.End, it.Line.Stroke.Width/2)
		case footprint.ItemRect:
			grow(it.Rect.Start, it.Rect.Stroke.Width/2)
			grow(it.Rect.End, it.Rect.Stroke.Width/2)
		case footprint.ItemPad:
			for _, corner := range Placement(it.Pad.Position).RectCorners(it.Pad.Size.Width, it.Pad.Size.Height) {
				grow(corner, 0)
			}
		}
	}
	return bb
}

// Render draws items onto a new image sized to fit them. Copper is drawn
// first, then pads, then the other layers, then text.
func Render(items []footprint.Item, opts Options) *image.NRGBA {
	opts = opts.withDefaults()

	bb := Bounds(items)
	if bb.IsEmpty() {
		bb = sexp.BoundingBox{}
	}
	bb = bb.Grow(opts.Margin)

	zoom := opts.PixelsPerMM
	if longest := math.Max(bb.Width(), bb.Height()) * zoom; longest > float64(opts.MaxPixels) {
		zoom *= float64(opts.MaxPixels) / longest
	}
	width := min(opts.MaxPixels, max(1, int(math.Ceil(bb.Width()*zoom))))
	height := min(opts.MaxPixels, max(1, int(math.Ceil(bb.Height()*zoom))))

	camera := NewCamera(width, height)
	camera.Zoom = zoom
	camera.Fit(bb, 1.0)
	camera.FlipView = opts.Flip

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(ColorBackground), image.Point{}, draw.Src)

	p := &painter{
		img:    img,
		z:      vector.NewRasterizer(width, height),
		camera: camera,
	}

	visible := make([]footprint.Item, 0, len(items))
	for _, it := range items {
		if opts.Layers.itemVisible(it) {
			visible = append(visible, it)
		}
	}

	for _, it := range visible {
		if it.Kind == footprint.ItemLine && footprint.IsCopperLayer(it.Line.Layer) {
			p.line(it.Line.Start, it.Line.End, it.Line.Stroke.Width, LayerColor(it.Line.Layer))
		}
	}
	for _, it := range visible {
		if it.Kind == footprint.ItemPad {
			p.pad(it.Pad)
		}
	}
	for _, it := range visible {
		switch {
		case it.Kind == footprint.ItemLine && !footprint.IsCopperLayer(it.Line.Layer):
			p.line(it.Line.Start, it.Line.End, it.Line.Stroke.Width, LayerColor(it.Line.Layer))
		case it.Kind == footprint.ItemRect:
			p.rect(it.Rect)
		}
	}
	for _, it := range visible {
		if it.Kind == footprint.ItemText {
			p.text(it.Text)
		}
	}

	return img
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// painter fills shapes given in world coordinates.
type painter struct {
	img    *image.NRGBA
	z      *vector.Rasterizer
	camera *Camera
}

// fill draws one closed polygon given in image coordinates.
func (p *painter) fill(col color.Color, pts ...[2]float64) {
	if len(pts) < 3 {
		return
	}
	b := p.img.Bounds()
	p.z.Reset(b.Dx(), b.Dy())
	p.z.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, pt := range pts[1:] {
		p.z.LineTo(float32(pt[0]), float32(pt[1]))
	}
	p.z.ClosePath()
	p.z.Draw(p.img, b, image.NewUniform(col), image.Point{})
}

func (p *painter) screen(pos sexp.Position) [2]float64 {
	x, y := p.camera.WorldToScreen(pos)
	return [2]float64{x, y}
}

// disc fills a circle of radius r pixels around c.
func (p *painter) disc(c [2]float64, r float64, col color.Color) {
	pts := make([][2]float64, discSides)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / discSides
		pts[i] = [2]float64{c[0] + r*math.Cos(a), c[1] + r*math.Sin(a)}
	}
	p.fill(col, pts...)
}

// line draws a segment with round caps, as KiCad does.
func (p *painter) line(start, end sexp.Position, width float64, col color.Color) {
	a, b := p.screen(start), p.screen(end)
	hw := p.camera.Scale(width) / 2

	dx, dy := b[0]-a[0], b[1]-a[1]
	length := math.Hypot(dx, dy)
	if length > 0 {
		nx, ny := -dy/length*hw, dx/length*hw
		p.fill(col,
			[2]float64{a[0] + nx, a[1] + ny},
			[2]float64{b[0] + nx, b[1] + ny},
			[2]float64{b[0] - nx, b[1] - ny},
			[2]float64{a[0] - nx, a[1] - ny},
		)
	}
	p.disc(a, hw, col)
	if length > 0 {
		p.disc(b, hw, col)
	}
}

// rect draws the outline of a graphic rectangle.
func (p *painter) rect(r sexp.GrRect) {
	col := LayerColor(r.Layer)
	corners := []sexp.Position{r.Start, sexp.Pos(r.End.X, r.Start.Y), r.End, sexp.Pos(r.Start.X, r.End.Y)}
	for i, c := range corners {
		p.line(c, corners[(i+1)%len(corners)], r.Stroke.Width, col)
	}
}

// pad fills the pad body. Rounded corners are not drawn.
func (p *painter) pad(pad footprint.Pad) {
	corners := Placement(pad.Position).RectCorners(pad.Size.Width, pad.Size.Height)
	pts := make([][2]float64, len(corners))
	for i, c := range corners {
		pts[i] = p.screen(c)
	}
	p.fill(ColorPadSMD, pts...)
}

// text draws the content centred on its anchor with a fixed-size face.
func (p *painter) text(t footprint.Text) {
	x, y := p.camera.WorldToScreen(t.Position.Position)
	d := font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(LayerColor(t.Layer)),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(t.Content).Ceil()
	metrics := basicfont.Face7x13.Metrics()
	d.Dot = fixed.P(int(x)-width/2, int(y)+(metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2)
	d.DrawString(t.Content)
}
