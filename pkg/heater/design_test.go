package heater

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/footprint"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/materials"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/trace"
)

// defaultInput is the dashboard's starting point: 12 V, 10 A, 225 °C rise,
// 2 oz copper, 0.2 mm clearance on a 100 mm board.
func defaultInput() Input {
	return Input{
		Voltage:         12,
		MaxCurrent:      10,
		TemperatureRise: 225,
		Material:        materials.Copper,
		Thickness:       trace.ThicknessFromOunces(2),
		Clearance:       0.2,
		BoardHeight:     100,
	}
}

func TestDesignReference(t *testing.T) {
	res, err := Design(defaultInput())
	require.NoError(t, err)

	assert.InEpsilon(t, 0.5143206449860227, res.Width, 1e-12)
	assert.InEpsilon(t, 1.2, res.MinResistance, 1e-12)
	assert.InEpsilon(t, 2511.7984987689483, res.MinLength, 1e-9)
	assert.InDelta(t, 99.6, res.FingerHeight, 1e-12)
	assert.Equal(t, 26, res.Sizing.Segments)
	assert.InEpsilon(t, 2607.4580161246504, res.Sizing.Length, 1e-9)
	assert.InEpsilon(t, 18.258016124650567, res.BoardWidth, 1e-9)
	assert.InEpsilon(t, 1.2457008875843754, res.Resistance, 1e-9)
	assert.InEpsilon(t, 9.633131130917013, res.Current, 1e-9)
	assert.InEpsilon(t, 115.59757357100415, res.Power, 1e-9)
	assert.InEpsilon(t, 120.0, res.MaxPower, 1e-12)
}

func TestDesignErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(in *Input)
		want   error
	}{
		{"zero voltage", func(in *Input) { in.Voltage = 0 }, trace.ErrInvalidInput},
		{"negative current", func(in *Input) { in.MaxCurrent = -1 }, trace.ErrInvalidInput},
		{"NaN temperature rise", func(in *Input) { in.TemperatureRise = math.NaN() }, trace.ErrInvalidInput},
		{"zero thickness", func(in *Input) { in.Thickness = 0 }, trace.ErrInvalidInput},
		{"missing material", func(in *Input) { in.Material = materials.Material{} }, trace.ErrInvalidInput},
		{"zero clearance", func(in *Input) { in.Clearance = 0 }, trace.ErrInvalidInput},
		{"infinite board height", func(in *Input) { in.BoardHeight = math.Inf(1) }, trace.ErrInvalidInput},
		{"board smaller than clearance", func(in *Input) { in.BoardHeight = 0.3 }, trace.ErrDegenerateGeometry},
		{"fingers shorter than pitch", func(in *Input) { in.Voltage, in.BoardHeight = 0.05, 1.0 }, trace.ErrDegenerateGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := defaultInput()
			tt.modify(&in)
			_, err := Design(in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResultLayout(t *testing.T) {
	res, err := Design(defaultInput())
	require.NoError(t, err)

	layout, err := res.Layout()
	require.NoError(t, err)

	assert.InEpsilon(t, res.Sizing.Length, layout.Length(), 1e-12)
	assert.InEpsilon(t, res.BoardWidth, layout.Width(), 1e-12)

	_, err = layout.Path()
	assert.NoError(t, err)

	// Centred: the finger field spans the origin symmetrically.
	bb := layout.BoundingBox()
	assert.InDelta(t, 0, bb.Center().X, 1e-9)
	assert.InDelta(t, 0, bb.Center().Y, 1e-9)
}

func TestResultRecord(t *testing.T) {
	res, err := Design(defaultInput())
	require.NoError(t, err)

	rec, err := res.Record("")
	require.NoError(t, err)

	n := res.Sizing.Segments
	assert.Len(t, rec.Lines(), 2*n+2)
	assert.Len(t, rec.Pads(), 2)
	assert.Len(t, rec.Rects(), 1)

	items := rec.Items()
	require.Equal(t, footprint.ItemText, items[0].Kind)
	require.Equal(t, footprint.ItemText, items[1].Kind)
	assert.Equal(t, "REF**", items[0].Text.Content)
	assert.Equal(t, DefaultName, items[1].Text.Content)
	assert.Less(t, items[0].Text.Position.Y, rec.Rects()[0].Start.Y)
	assert.Greater(t, items[1].Text.Position.Y, rec.Rects()[0].End.Y)
}

func TestResultFootprint(t *testing.T) {
	res, err := Design(defaultInput())
	require.NoError(t, err)

	out, err := res.Footprint("my_heater", 20240101)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "(footprint \"my_heater\"\n  (version 20240101)\n"), out[:60])

	m, err := footprint.ParseString(out)
	require.NoError(t, err)

	n := res.Sizing.Segments
	assert.Equal(t, "my_heater", m.Header.Name)
	assert.Equal(t, 20240101, m.Header.Version)
	assert.Len(t, m.Lines(), 2*n+2)
	assert.Len(t, m.Rects(), 1)
	assert.Len(t, m.Texts(), 2)
	require.Len(t, m.Pads(), 2)
	assert.Equal(t, "1", m.Pads()[0].Number)
	assert.Equal(t, "2", m.Pads()[1].Number)
	assert.True(t, m.HasAttribute("exclude_from_bom"))

	again, err := res.Footprint("my_heater", 20240101)
	require.NoError(t, err)
	assert.Equal(t, out, again, "footprint output is not deterministic")

	_, err = res.Footprint("my_heater", 0)
	assert.ErrorIs(t, err, footprint.ErrSerialization)
}

func TestSweep(t *testing.T) {
	heights := []float64{100, 50, 0.3, 75, 1.0}

	points, err := Sweep(context.Background(), defaultInput(), heights, 2)
	require.NoError(t, err)
	require.Len(t, points, len(heights))

	wantSegments := map[float64]int{100: 26, 50: 50, 75: 34}
	for i, p := range points {
		assert.Equal(t, heights[i], p.BoardHeight, "points out of order")
		if p.BoardHeight < 2 {
			assert.ErrorIs(t, p.Err, trace.ErrDegenerateGeometry)
			assert.Nil(t, p.Result)
			continue
		}
		require.NoError(t, p.Err)
		assert.Equal(t, wantSegments[p.BoardHeight], p.Result.Sizing.Segments, "height %g", p.BoardHeight)
	}
}

func TestSweepMatchesSerialDesign(t *testing.T) {
	heights := make([]float64, 40)
	for i := range heights {
		heights[i] = 20 + float64(i)*5
	}

	points, err := Sweep(context.Background(), defaultInput(), heights, 0)
	require.NoError(t, err)

	for i, h := range heights {
		in := defaultInput()
		in.BoardHeight = h
		want, err := Design(in)
		require.NoError(t, err)
		assert.Equal(t, *want, *points[i].Result, "height %g", h)
	}
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, defaultInput(), []float64{50, 100}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
