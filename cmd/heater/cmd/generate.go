package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/footprint"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/renderer"
)

var (
	generateOutput  string
	generatePreview string
	generatePPMM    float64
	generateVersion int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the heater as a KiCad footprint",
	Long: `Size the heater for the current settings and write it as a KiCad footprint
(.kicad_mod). The footprint version defaults to today's date (YYYYMMDD).

With --preview a PNG rendering of the footprint is written as well.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "footprint.kicad_mod", "footprint file to write")
	generateCmd.Flags().StringVar(&generatePreview, "preview", "", "also write a PNG preview to this file")
	generateCmd.Flags().Float64Var(&generatePPMM, "ppmm", renderer.DefaultPixelsPerMM, "preview resolution in pixels per mm")
	generateCmd.Flags().IntVar(&generateVersion, "footprint-version", 0, "footprint version (default today as YYYYMMDD)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, res, err := design()
	if err != nil {
		return err
	}

	version := generateVersion
	if version == 0 {
		version = footprint.DateVersion(time.Now())
	}

	text, err := res.Footprint(cfg.Name, version)
	if err != nil {
		return fmt.Errorf("failed to build footprint: %w", err)
	}
	if err := os.WriteFile(generateOutput, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write footprint: %w", err)
	}
	slog.Debug("footprint written", "file", generateOutput, "bytes", len(text), "version", version)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Footprint %q written to %s\n", cfg.Name, generateOutput)
	fmt.Fprintf(out, "  Segments: %d, track length %.2f mm, board %.2f x %.2f mm\n",
		res.Sizing.Segments, res.Sizing.Length, res.BoardWidth, res.Input.BoardHeight)

	if generatePreview == "" {
		return nil
	}
	rec, err := res.Record(cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to build preview: %w", err)
	}
	if err := writePreview(generatePreview, rec.Items(), renderer.Options{PixelsPerMM: generatePPMM}); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Preview written to %s\n", generatePreview)
	return nil
}

// writePreview renders items to a PNG file.
func writePreview(path string, items []footprint.Item, opts renderer.Options) error {
	img := renderer.Render(items, opts)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preview: %w", err)
	}
	if err := renderer.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	slog.Debug("preview written", "file", path, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return f.Close()
}
