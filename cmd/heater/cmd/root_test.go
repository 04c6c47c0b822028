package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceHeater/internal/config"
	"github.com/OpenTraceLab/OpenTraceHeater/internal/report"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/trace"
)

var designKeys = []string{
	config.KeyVoltage, config.KeyCurrent, config.KeyTemperatureRise, config.KeyMaterial,
	config.KeyOunces, config.KeyClearance, config.KeyHeight, config.KeyName,
}

// run executes the CLI with args. Flag values persist between runs of the
// same command tree, so design flags and outputs are reset first.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	pf := rootCmd.PersistentFlags()
	for _, key := range designKeys {
		require.NoError(t, pf.Set(key, pf.Lookup(key).DefValue))
	}
	calcReport, generatePreview, inspectPreview, generateVersion = "", "", "", 0

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCalc(t *testing.T) {
	out, err := run(t, "calc")
	require.NoError(t, err)

	assert.Contains(t, out, "Segments:     26\n")
	assert.Contains(t, out, "PCB width:    18.26 mm\n")
	assert.Contains(t, out, "Power:        115.60 W (max 120.00 W)\n")
	assert.NotContains(t, out, "Report written")
}

func TestCalcReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")

	out, err := run(t, "calc", "--height", "50", "--report", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Segments:     50\n")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := report.Read(f)
	require.NoError(t, err)
	assert.Equal(t, 50, r.Trace.Segments)
	assert.Equal(t, 50.0, r.Board.HeightMM)
}

func TestCalcRejectsInvalidSettings(t *testing.T) {
	_, err := run(t, "calc", "--ounces", "3")
	assert.ErrorIs(t, err, trace.ErrInvalidInput)

	_, err = run(t, "calc", "--material", "Unobtainium")
	assert.ErrorIs(t, err, trace.ErrInvalidInput)
}

func TestGenerateAndInspect(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "heater.kicad_mod")
	png := filepath.Join(dir, "heater.png")

	out, err := run(t, "generate", "-o", fp, "--preview", png, "--name", "test_heater", "--footprint-version", "20240101")
	require.NoError(t, err)
	assert.Contains(t, out, `Footprint "test_heater" written`)
	assert.Contains(t, out, "Preview written")

	data, err := os.ReadFile(fp)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "(footprint \"test_heater\"\n  (version 20240101)\n"))

	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	out, err = run(t, "inspect", fp)
	require.NoError(t, err)
	for _, want := range []string{
		"Footprint: test_heater\n",
		"  Version: 20240101\n",
		"  Texts: 2\n",
		"  Lines: 54\n",
		"  Rectangles: 1\n",
		"  Pads: 2\n",
		"  Track length: 2607.46 mm\n",
	} {
		assert.Contains(t, out, want)
	}
}

func TestInspectMissingFile(t *testing.T) {
	_, err := run(t, "inspect", filepath.Join(t.TempDir(), "missing.kicad_mod"))
	assert.Error(t, err)
}

func TestSweepTable(t *testing.T) {
	out, err := run(t, "sweep", "--heights", "50,0.3,100", "--limit", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "HEIGHT (mm)"))

	assert.Equal(t, "50", strings.Fields(lines[1])[2])
	assert.True(t, strings.HasPrefix(lines[2], "0.30"))
	assert.Contains(t, lines[2], trace.ErrDegenerateGeometry.Error())
	assert.Equal(t, "26", strings.Fields(lines[3])[2])
}

func TestMaterials(t *testing.T) {
	out, err := run(t, "materials")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "* Copper"))
}
