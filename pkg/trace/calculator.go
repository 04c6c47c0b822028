// Package trace sizes a copper trace for use as a PCB heater.
//
// Width follows the IPC-2221 curve fit for external layers. The fit works
// in mils, so inputs are converted from millimetres and the result is
// converted back.
package trace

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/materials"
)

// IPC-2221 external layer constants: I = k · ΔT^b · A^c, A in mils².
const (
	ipcK = 0.048
	ipcB = 0.44
	ipcC = 0.735
)

// Unit conversion constants
const (
	MilsToMM       = 0.0254       // 1 mil = 0.0254 mm
	MMToMils       = 1 / MilsToMM // Convert mm to mils (multiply by this)
	OunceThickness = 0.035        // Foil thickness of 1 oz/ft² copper in mm
)

// Calculator derives trace dimensions for one material, temperature rise,
// foil thickness and current. It is an immutable value: the width is
// computed once in NewCalculator, so equal inputs compare equal with ==.
type Calculator struct {
	material        materials.Material
	temperatureRise float64 // °C
	thickness       float64 // mm
	maxCurrent      float64 // A
	width           float64 // mm, derived
}

// NewCalculator validates the inputs and precomputes the trace width.
func NewCalculator(m materials.Material, temperatureRise, thickness, maxCurrent float64) (Calculator, error) {
	checks := []struct {
		field string
		value float64
	}{
		{"resistivity", m.Resistivity},
		{"temperature rise", temperatureRise},
		{"thickness", thickness},
		{"max current", maxCurrent},
	}
	for _, c := range checks {
		if err := RequirePositive(c.field, c.value); err != nil {
			return Calculator{}, err
		}
	}

	w := ipcWidth(temperatureRise, thickness, maxCurrent)
	if err := RequirePositive("width", w); err != nil {
		return Calculator{}, fmt.Errorf("inputs out of range for IPC-2221 fit: %w", err)
	}

	return Calculator{
		material:        m,
		temperatureRise: temperatureRise,
		thickness:       thickness,
		maxCurrent:      maxCurrent,
		width:           w,
	}, nil
}

// ipcWidth returns the trace width in mm.
func ipcWidth(temperatureRise, thickness, current float64) float64 {
	area := math.Pow(current/(ipcK*math.Pow(temperatureRise, ipcB)), 1/ipcC) // mils²
	return area / (thickness * MMToMils) * MilsToMM
}

// Material returns the conductor material.
func (c Calculator) Material() materials.Material { return c.material }

// TemperatureRise returns the permitted temperature rise in °C.
func (c Calculator) TemperatureRise() float64 { return c.temperatureRise }

// Thickness returns the foil thickness in mm.
func (c Calculator) Thickness() float64 { return c.thickness }

// MaxCurrent returns the design current in A.
func (c Calculator) MaxCurrent() float64 { return c.maxCurrent }

// Width returns the trace width in mm.
func (c Calculator) Width() float64 { return c.width }

// crossSection returns the trace cross-section in m².
func (c Calculator) crossSection() float64 {
	return c.thickness * c.width * 1e-6
}

// ResistanceFromLength returns the resistance in Ω of a trace length in mm.
func (c Calculator) ResistanceFromLength(length float64) (float64, error) {
	if err := RequirePositive("length", length); err != nil {
		return 0, err
	}
	return c.material.Resistivity * length / c.crossSection() * 1e-3, nil
}

// LengthFromResistance returns the trace length in mm that has the given
// resistance in Ω. It is the inverse of ResistanceFromLength.
func (c Calculator) LengthFromResistance(resistance float64) (float64, error) {
	if err := RequirePositive("resistance", resistance); err != nil {
		return 0, err
	}
	return resistance * c.crossSection() / c.material.Resistivity * 1e3, nil
}

// ThicknessFromOunces converts a copper weight in oz/ft² to foil thickness in mm.
func ThicknessFromOunces(oz float64) float64 {
	return oz * OunceThickness
}

// MinResistance returns the smallest load resistance in Ω that keeps the
// current at or below maxCurrent for the given supply voltage.
func MinResistance(voltage, maxCurrent float64) (float64, error) {
	if err := RequirePositive("voltage", voltage); err != nil {
		return 0, err
	}
	if err := RequirePositive("max current", maxCurrent); err != nil {
		return 0, err
	}
	return voltage / maxCurrent, nil
}
