package footprint

import (
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp"
)

func recordSample(t *testing.T, fp Footprint) {
	t.Helper()
	mustAdd(t, fp.AddText(Text{Kind: TextReference, Content: "H1", Position: sexp.At(0, -3)}))
	mustAdd(t, fp.AddLine(sexp.GrLine{Start: sexp.Pos(0, 0), End: sexp.Pos(0, 0.7), Stroke: sexp.Stroke{Width: 0.5}}))
	mustAdd(t, fp.AddLine(sexp.GrLine{Start: sexp.Pos(0, 0.7), End: sexp.Pos(0, 20), Stroke: sexp.Stroke{Width: 0.5}}))
	mustAdd(t, fp.AddSMDPad(Pad{Number: "1", Size: sexp.Size{Width: 0.5, Height: 0.5}, RoundRatio: 0.25}))
	mustAdd(t, fp.AddRectangle(sexp.GrRect{Start: sexp.Pos(-0.2, -0.2), End: sexp.Pos(1, 20.2), Stroke: sexp.Stroke{Width: 0.5}}))
}

func TestRecorderReplayMatchesDirectOutput(t *testing.T) {
	direct := newTestKiCad(t)
	recordSample(t, direct)

	rec := NewRecorder("")
	recordSample(t, rec)

	replayed := newTestKiCad(t)
	if err := rec.Replay(replayed); err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	if got, want := replayed.Evaluate(), direct.Evaluate(); got != want {
		t.Errorf("replayed output differs:\n%s\nwant\n%s", got, want)
	}
}

func TestRecorderAccessors(t *testing.T) {
	rec := NewRecorder("B.Cu")
	recordSample(t, rec)

	if got := len(rec.Lines()); got != 2 {
		t.Errorf("Lines() = %d, want 2", got)
	}
	if got := len(rec.Pads()); got != 1 {
		t.Errorf("Pads() = %d, want 1", got)
	}
	if got := len(rec.Rects()); got != 1 {
		t.Errorf("Rects() = %d, want 1", got)
	}
	for _, l := range rec.Lines() {
		if l.Layer != "B.Cu" {
			t.Errorf("line layer = %q, want recorder default B.Cu", l.Layer)
		}
	}

	kinds := []ItemKind{ItemText, ItemLine, ItemLine, ItemPad, ItemRect}
	items := rec.Items()
	if len(items) != len(kinds) {
		t.Fatalf("Items() len = %d, want %d", len(items), len(kinds))
	}
	for i, it := range items {
		if it.Kind != kinds[i] {
			t.Errorf("item %d kind = %s, want %s", i, it.Kind, kinds[i])
		}
	}

	// Items returns a copy
	items[0].Kind = ItemPad
	if rec.Items()[0].Kind != ItemText {
		t.Error("Items() exposed internal storage")
	}
}

func TestRecorderEvaluate(t *testing.T) {
	rec := NewRecorder("")
	recordSample(t, rec)

	lines := strings.Split(strings.TrimSpace(rec.Evaluate()), "\n")
	if len(lines) != 5 {
		t.Fatalf("Evaluate() lines = %d, want 5:\n%s", len(lines), rec.Evaluate())
	}
	want := []string{"text ", "line ", "line ", "pad ", "rect "}
	for i, prefix := range want {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
		}
	}
	if !strings.Contains(lines[3], `"1"`) || !strings.Contains(lines[3], "F.Cu,F.Paste,F.Mask") {
		t.Errorf("pad summary = %q", lines[3])
	}
}

func TestReplayStopsAtFirstError(t *testing.T) {
	rec := NewRecorder("")
	mustAdd(t, rec.AddLine(sexp.GrLine{End: sexp.Pos(1, 0), Stroke: sexp.Stroke{Width: 0.1}}))
	mustAdd(t, rec.AddLine(sexp.GrLine{End: sexp.Pos(0, 1), Stroke: sexp.Stroke{Width: 0.1}, Layer: "In5.Cu"}))

	// A recorder on its own accepts both, so replay into one that rejects
	// inner layers by swapping in a stricter target.
	target := &rejectLayer{Recorder: NewRecorder(""), layer: "In5.Cu"}
	err := rec.Replay(target)
	if err == nil || !strings.Contains(err.Error(), "replay item 1 (line)") {
		t.Fatalf("Replay() error = %v", err)
	}
	if target.Len() != 1 {
		t.Errorf("target holds %d items, want 1", target.Len())
	}
}

type rejectLayer struct {
	*Recorder
	layer string
}

func (r *rejectLayer) AddLine(l sexp.GrLine) error {
	if l.Layer == r.layer {
		return serializationErr("line", "layer", "layer %q not allowed", l.Layer)
	}
	return r.Recorder.AddLine(l)
}
