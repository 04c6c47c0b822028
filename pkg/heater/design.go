// Package heater turns supply and board constraints into a sized
// serpentine heater and its KiCad footprint.
package heater

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/footprint"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/materials"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/serpentine"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/trace"
)

// DefaultName is the footprint name used when none is given.
const DefaultName = "heater"

// Input is what the designer chooses.
type Input struct {
	Voltage         float64 // Supply voltage in V
	MaxCurrent      float64 // Current limit in A
	TemperatureRise float64 // Allowed rise above ambient in °C
	Material        materials.Material
	Thickness       float64 // Foil thickness in mm
	Clearance       float64 // Finger spacing and border margin in mm
	BoardHeight     float64 // Board height in mm
}

// Result is a sized heater with its electrical figures.
type Result struct {
	Input Input

	Width         float64 // Trace width in mm
	MinResistance float64 // Ω needed to stay under MaxCurrent
	MinLength     float64 // Trace length in mm giving MinResistance
	FingerHeight  float64 // BoardHeight minus the top and bottom clearance
	Sizing        trace.Sizing
	BoardWidth    float64 // mm

	Resistance float64 // Ω of the realised trace
	Current    float64 // A drawn at Voltage
	Power      float64 // W dissipated at Voltage
	MaxPower   float64 // W at the current limit
}

// Design sizes a heater for in.
//
// Because the finger count is rounded down, the realised trace can be
// slightly shorter than MinLength, in which case Current exceeds
// MaxCurrent by a small margin.
func Design(in Input) (*Result, error) {
	calc, err := trace.NewCalculator(in.Material, in.TemperatureRise, in.Thickness, in.MaxCurrent)
	if err != nil {
		return nil, err
	}
	if err := trace.RequirePositive("board height", in.BoardHeight); err != nil {
		return nil, err
	}
	if err := trace.RequirePositive("clearance", in.Clearance); err != nil {
		return nil, err
	}

	minResistance, err := trace.MinResistance(in.Voltage, in.MaxCurrent)
	if err != nil {
		return nil, err
	}
	minLength, err := calc.LengthFromResistance(minResistance)
	if err != nil {
		return nil, err
	}

	fingerHeight := in.BoardHeight - 2*in.Clearance
	if fingerHeight <= 0 {
		return nil, &trace.GeometryError{
			Reason: fmt.Sprintf("board height %g mm leaves no room inside %g mm clearance", in.BoardHeight, in.Clearance),
			Height: fingerHeight,
			Delta:  in.Clearance + calc.Width(),
		}
	}

	sizing, err := calc.SerpentineSizing(fingerHeight, in.Clearance, minLength)
	if err != nil {
		return nil, err
	}

	resistance, err := calc.ResistanceFromLength(sizing.Length)
	if err != nil {
		return nil, err
	}
	current := in.Voltage / resistance

	return &Result{
		Input:         in,
		Width:         calc.Width(),
		MinResistance: minResistance,
		MinLength:     minLength,
		FingerHeight:  fingerHeight,
		Sizing:        sizing,
		BoardWidth:    sizing.BoardWidth(in.Clearance),
		Resistance:    resistance,
		Current:       current,
		Power:         in.Voltage * current,
		MaxPower:      in.Voltage * in.MaxCurrent,
	}, nil
}

// Params returns the serpentine parameters, centred on the origin.
func (r *Result) Params() serpentine.Params {
	n := r.Sizing.Segments
	return serpentine.Params{
		Segments:   n,
		Height:     r.FingerHeight,
		Clearance:  r.Input.Clearance,
		TraceWidth: r.Width,
		Offset:     serpentine.Centered(n, r.FingerHeight, r.Input.Clearance, r.Width),
	}
}

// Layout computes the serpentine geometry.
func (r *Result) Layout() (*serpentine.Layout, error) {
	return serpentine.NewLayout(r.Params())
}

// Record emits the footprint items into a Recorder: the serpentine plus
// reference and value texts above and below the outline.
func (r *Result) Record(name string) (*footprint.Recorder, error) {
	if name == "" {
		name = DefaultName
	}
	layout, err := r.Layout()
	if err != nil {
		return nil, err
	}

	rec := footprint.NewRecorder(footprint.LayerFrontCopper)
	outline := layout.Outline()
	textGap := footprint.DefaultTextSize * 1.5
	texts := []footprint.Text{
		{
			Kind:     footprint.TextReference,
			Content:  "REF**",
			Position: sexp.At(0, outline.Start.Y-textGap),
			Layer:    footprint.LayerFrontSilk,
		},
		{
			Kind:     footprint.TextValue,
			Content:  name,
			Position: sexp.At(0, outline.End.Y+textGap),
			Layer:    "F.Fab",
		},
	}
	for _, t := range texts {
		if err := rec.AddText(t); err != nil {
			return nil, err
		}
	}

	if err := layout.Emit(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Footprint renders the heater as a .kicad_mod document.
func (r *Result) Footprint(name string, version int) (string, error) {
	if name == "" {
		name = DefaultName
	}
	rec, err := r.Record(name)
	if err != nil {
		return "", err
	}

	k, err := footprint.NewKiCad(footprint.Header{Name: name, Version: version})
	if err != nil {
		return "", err
	}
	if err := rec.Replay(k); err != nil {
		return "", err
	}
	return k.Evaluate(), nil
}
