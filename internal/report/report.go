// Package report writes a heater design summary as YAML.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/heater"
)

// Report is the serialised form of a design.
type Report struct {
	Name       string     `yaml:"name"`
	Version    int        `yaml:"version,omitempty"`
	Input      Input      `yaml:"input"`
	Trace      Trace      `yaml:"trace"`
	Board      Board      `yaml:"board"`
	Electrical Electrical `yaml:"electrical"`
}

// Input echoes the design request.
type Input struct {
	VoltageV         float64 `yaml:"voltage_v"`
	MaxCurrentA      float64 `yaml:"max_current_a"`
	TemperatureRiseC float64 `yaml:"temperature_rise_c"`
	Material         string  `yaml:"material"`
	ResistivityOhmM  float64 `yaml:"resistivity_ohm_m"`
	ThicknessMM      float64 `yaml:"thickness_mm"`
	ClearanceMM      float64 `yaml:"clearance_mm"`
}

// Trace describes the serpentine.
type Trace struct {
	WidthMM     float64 `yaml:"width_mm"`
	MinLengthMM float64 `yaml:"min_length_mm"`
	LengthMM    float64 `yaml:"length_mm"`
	Segments    int     `yaml:"segments"`
	PitchMM     float64 `yaml:"pitch_mm"`
}

// Board is the board outline.
type Board struct {
	WidthMM        float64 `yaml:"width_mm"`
	HeightMM       float64 `yaml:"height_mm"`
	FingerHeightMM float64 `yaml:"finger_height_mm"`
}

// Electrical holds the operating point at the supply voltage.
type Electrical struct {
	MinResistanceOhm float64 `yaml:"min_resistance_ohm"`
	ResistanceOhm    float64 `yaml:"resistance_ohm"`
	CurrentA         float64 `yaml:"current_a"`
	PowerW           float64 `yaml:"power_w"`
	MaxPowerW        float64 `yaml:"max_power_w"`
}

// New builds the report for res. An empty name uses heater.DefaultName.
func New(res *heater.Result, name string, version int) *Report {
	if name == "" {
		name = heater.DefaultName
	}
	in := res.Input
	return &Report{
		Name:    name,
		Version: version,
		Input: Input{
			VoltageV:         in.Voltage,
			MaxCurrentA:      in.MaxCurrent,
			TemperatureRiseC: in.TemperatureRise,
			Material:         in.Material.Name,
			ResistivityOhmM:  in.Material.Resistivity,
			ThicknessMM:      in.Thickness,
			ClearanceMM:      in.Clearance,
		},
		Trace: Trace{
			WidthMM:     res.Width,
			MinLengthMM: res.MinLength,
			LengthMM:    res.Sizing.Length,
			Segments:    res.Sizing.Segments,
			PitchMM:     res.Sizing.Delta,
		},
		Board: Board{
			WidthMM:        res.BoardWidth,
			HeightMM:       in.BoardHeight,
			FingerHeightMM: res.FingerHeight,
		},
		Electrical: Electrical{
			MinResistanceOhm: res.MinResistance,
			ResistanceOhm:    res.Resistance,
			CurrentA:         res.Current,
			PowerW:           res.Power,
			MaxPowerW:        res.MaxPower,
		},
	}
}

// Write encodes r to w.
func Write(w io.Writer, r *Report) error {
	encoder := yaml.NewEncoder(w, yaml.Indent(2))

	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return encoder.Close()
}

// WriteFile writes r to path, replacing any existing file.
func WriteFile(path string, r *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := Write(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read decodes a report written by Write.
func Read(rd io.Reader) (*Report, error) {
	var r Report
	if err := yaml.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}
