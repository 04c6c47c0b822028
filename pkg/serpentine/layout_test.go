package serpentine

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/footprint"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/materials"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/trace"
)

const (
	testHeight    = 99.6
	testClearance = 0.2
	testWidth     = 0.5143206449860227
)

func params(n int) Params {
	return Params{Segments: n, Height: testHeight, Clearance: testClearance, TraceWidth: testWidth}
}

func record(t *testing.T, p Params) *footprint.Recorder {
	t.Helper()
	rec := footprint.NewRecorder("")
	if err := Generate(rec, p); err != nil {
		t.Fatalf("Generate(n=%d) error = %v", p.Segments, err)
	}
	return rec
}

func TestGenerateCounts(t *testing.T) {
	for _, n := range []int{2, 4, 6, 10, 26} {
		rec := record(t, params(n))

		if got := len(rec.Lines()); got != 2*n+2 {
			t.Errorf("n=%d: %d lines, want %d", n, got, 2*n+2)
		}
		if got := len(rec.Rects()); got != 1 {
			t.Errorf("n=%d: %d rects, want 1", n, got)
		}

		pads := rec.Pads()
		if len(pads) != 2 || pads[0].Number != "1" || pads[1].Number != "2" {
			t.Fatalf("n=%d: pads = %+v", n, pads)
		}

		// Lines 1..n are the fingers.
		delta := testClearance + testWidth
		for i, l := range rec.Lines()[1 : n+1] {
			x := float64(i) * delta
			if l.Start != sexp.Pos(x, delta) || l.End != sexp.Pos(x, testHeight) {
				t.Errorf("n=%d: finger %d = %v-%v", n, i, l.Start, l.End)
			}
		}
	}
}

func TestEmitOrder(t *testing.T) {
	rec := record(t, params(4))
	items := rec.Items()

	for i, it := range items {
		var want footprint.ItemKind
		switch {
		case i < 10:
			want = footprint.ItemLine
		case i < 12:
			want = footprint.ItemPad
		default:
			want = footprint.ItemRect
		}
		if it.Kind != want {
			t.Errorf("item %d kind = %s, want %s", i, it.Kind, want)
		}
	}
}

func TestPathIsOneChain(t *testing.T) {
	for n := 2; n <= 40; n += 2 {
		for _, offset := range []sexp.Position{{}, Centered(n, testHeight, testClearance, testWidth), sexp.Pos(12.5, -3)} {
			p := params(n)
			p.Offset = offset
			l, err := NewLayout(p)
			if err != nil {
				t.Fatalf("NewLayout(n=%d) error = %v", n, err)
			}

			path, err := l.Path()
			if err != nil {
				t.Fatalf("n=%d offset=%v: %v", n, offset, err)
			}
			if len(path) != 2*n+3 {
				t.Errorf("n=%d: path has %d points, want %d", n, len(path), 2*n+3)
			}
			pads := l.Pads()
			if path[0] != pads[0].Position.Position {
				t.Errorf("n=%d: path starts at %v, not pad 1", n, path[0])
			}
			if last := path[len(path)-1]; !samePoint(last, pads[1].Position.Position) {
				t.Errorf("n=%d: path ends at %v, not pad 2", n, last)
			}
		}
	}
}

func TestNoOverlappingSegments(t *testing.T) {
	for n := 2; n <= 20; n += 2 {
		l, err := NewLayout(params(n))
		if err != nil {
			t.Fatal(err)
		}
		lines := l.Lines()
		for i := range lines {
			for j := i + 1; j < len(lines); j++ {
				if overlap := collinearOverlap(lines[i], lines[j]); overlap > joinTolerance {
					t.Errorf("n=%d: segments %d and %d overlap by %g mm", n, i, j, overlap)
				}
			}
		}
	}
}

// collinearOverlap returns the shared length of two axis-aligned segments
// on the same line, or 0.
func collinearOverlap(a, b sexp.GrLine) float64 {
	if a.Length() == 0 || b.Length() == 0 {
		return 0
	}
	vertical := func(l sexp.GrLine) bool { return l.Start.X == l.End.X }
	switch {
	case vertical(a) && vertical(b) && a.Start.X == b.Start.X:
		return span(a.Start.Y, a.End.Y, b.Start.Y, b.End.Y)
	case !vertical(a) && !vertical(b) && a.Start.Y == b.Start.Y:
		return span(a.Start.X, a.End.X, b.Start.X, b.End.X)
	}
	return 0
}

func span(a1, a2, b1, b2 float64) float64 {
	lo := math.Max(math.Min(a1, a2), math.Min(b1, b2))
	hi := math.Min(math.Max(a1, a2), math.Max(b1, b2))
	return math.Max(0, hi-lo)
}

func TestLengthMatchesSizing(t *testing.T) {
	calc, err := trace.NewCalculator(materials.Copper, 225, 0.07, 10)
	if err != nil {
		t.Fatal(err)
	}
	sizing, err := calc.SerpentineSizing(testHeight, testClearance, 500)
	if err != nil {
		t.Fatal(err)
	}

	p := Params{Segments: sizing.Segments, Height: testHeight, Clearance: testClearance, TraceWidth: calc.Width()}
	l, err := NewLayout(p)
	if err != nil {
		t.Fatal(err)
	}

	if !scalar.EqualWithinRel(l.Length(), sizing.Length, 1e-12) {
		t.Errorf("Length() = %v, sizing length %v", l.Length(), sizing.Length)
	}
	if !scalar.EqualWithinRel(l.Width(), sizing.BoardWidth(testClearance), 1e-12) {
		t.Errorf("Width() = %v, sizing board width %v", l.Width(), sizing.BoardWidth(testClearance))
	}

	for n := 2; n <= 30; n += 2 {
		l, _ := NewLayout(params(n))
		delta := testClearance + testWidth
		want := float64(n)*(testHeight+delta) - delta
		if !scalar.EqualWithinRel(l.Length(), want, 1e-12) {
			t.Errorf("n=%d: Length() = %v, want %v", n, l.Length(), want)
		}
	}
}

func TestTwoFingerTerminal(t *testing.T) {
	l, err := NewLayout(params(2))
	if err != nil {
		t.Fatal(err)
	}
	lines := l.Lines()
	terminal := lines[len(lines)-1]
	if terminal.Length() != 0 {
		t.Errorf("terminal segment = %v-%v, want a point at pad 2", terminal.Start, terminal.End)
	}
	if terminal.Start != l.Pads()[1].Position.Position {
		t.Errorf("terminal at %v, pad 2 at %v", terminal.Start, l.Pads()[1].Position.Position)
	}
}

func TestPadsAndOutline(t *testing.T) {
	offset := sexp.Pos(-3, 4)
	p := params(6)
	p.Offset = offset
	l, err := NewLayout(p)
	if err != nil {
		t.Fatal(err)
	}
	delta := p.Delta()

	pads := l.Pads()
	wantPos := []sexp.Position{offset, offset.Add(sexp.Pos(delta, 0))}
	for i, pad := range pads {
		if pad.Position.Position != wantPos[i] {
			t.Errorf("pad %s at %v, want %v", pad.Number, pad.Position.Position, wantPos[i])
		}
		if pad.Size != (sexp.Size{Width: testWidth, Height: testWidth}) {
			t.Errorf("pad %s size = %v", pad.Number, pad.Size)
		}
		if pad.RoundRatio != 0.25 || pad.ThermalBridgeAngle != 45 || pad.Shape != footprint.RoundRect {
			t.Errorf("pad %s = %+v", pad.Number, pad)
		}
	}

	o := l.Outline()
	if o.Start != offset.Add(sexp.Pos(-testClearance, -testClearance)) {
		t.Errorf("outline start = %v", o.Start)
	}
	if o.End != offset.Add(sexp.Pos(5*delta+testClearance, testHeight+testClearance)) {
		t.Errorf("outline end = %v", o.End)
	}
	if o.Layer != "F.SilkS" || o.Stroke.Width != DefaultOutlineWidth {
		t.Errorf("outline = %+v", o)
	}

	bb := l.BoundingBox()
	for _, line := range l.Lines() {
		if !bb.Contains(line.Start) || !bb.Contains(line.End) {
			t.Errorf("bounding box %v misses segment %v-%v", bb, line.Start, line.End)
		}
	}
	if !bb.Contains(o.Start) || !bb.Contains(o.End) {
		t.Errorf("bounding box %v misses outline", bb)
	}
}

func TestCentered(t *testing.T) {
	n := 6
	p := params(n)
	p.Offset = Centered(n, testHeight, testClearance, testWidth)
	l, err := NewLayout(p)
	if err != nil {
		t.Fatal(err)
	}

	fingers := l.Lines()[1 : n+1]
	first, last := fingers[0], fingers[n-1]
	if !scalar.EqualWithinAbs(first.Start.X, -last.Start.X, 1e-12) {
		t.Errorf("fingers span %v..%v, not centred", first.Start.X, last.Start.X)
	}
	if !scalar.EqualWithinAbs(l.Pads()[0].Position.Y, -testHeight/2, 1e-12) {
		t.Errorf("pad row at y=%v, want %v", l.Pads()[0].Position.Y, -testHeight/2)
	}
	if !scalar.EqualWithinAbs(first.End.Y, testHeight/2, 1e-12) {
		t.Errorf("fingers end at y=%v, want %v", first.End.Y, testHeight/2)
	}
}

func TestNewLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Params)
		want   error
	}{
		{"zero fingers", func(p *Params) { p.Segments = 0 }, trace.ErrDegenerateGeometry},
		{"one finger", func(p *Params) { p.Segments = 1 }, trace.ErrDegenerateGeometry},
		{"fingers shorter than pitch", func(p *Params) { p.Height = 0.5 }, trace.ErrDegenerateGeometry},
		{"zero height", func(p *Params) { p.Height = 0 }, trace.ErrInvalidInput},
		{"NaN height", func(p *Params) { p.Height = math.NaN() }, trace.ErrInvalidInput},
		{"negative clearance", func(p *Params) { p.Clearance = -0.2 }, trace.ErrInvalidInput},
		{"zero trace width", func(p *Params) { p.TraceWidth = 0 }, trace.ErrInvalidInput},
		{"infinite offset", func(p *Params) { p.Offset.X = math.Inf(1) }, trace.ErrInvalidInput},
		{"negative outline width", func(p *Params) { p.OutlineWidth = -1 }, trace.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := params(4)
			tt.modify(&p)
			_, err := NewLayout(p)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewLayout() error = %v, want %v", err, tt.want)
			}

			rec := footprint.NewRecorder("")
			if err := Generate(rec, p); !errors.Is(err, tt.want) {
				t.Errorf("Generate() error = %v, want %v", err, tt.want)
			}
			if rec.Len() != 0 {
				t.Errorf("Generate() emitted %d items on error", rec.Len())
			}
		})
	}
}

func TestGenerateIntoKiCad(t *testing.T) {
	n := 6
	k, err := footprint.NewKiCad(footprint.Header{Name: "heater", Version: 20240101})
	if err != nil {
		t.Fatal(err)
	}
	p := params(n)
	p.Offset = Centered(n, testHeight, testClearance, testWidth)
	if err := Generate(k, p); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	m, err := footprint.ParseString(k.Evaluate())
	if err != nil {
		t.Fatalf("output does not parse back: %v", err)
	}
	if len(m.Lines()) != 2*n+2 || len(m.Rects()) != 1 || len(m.Pads()) != 2 {
		t.Errorf("parsed %d lines, %d rects, %d pads", len(m.Lines()), len(m.Rects()), len(m.Pads()))
	}
	for _, l := range m.Lines() {
		if l.Layer != "F.Cu" || l.Stroke.Width != testWidth {
			t.Errorf("line %+v", l)
		}
	}
}
