package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/footprint"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/renderer"
)

var inspectPreview string

var inspectCmd = &cobra.Command{
	Use:   "inspect <footprint_file>",
	Short: "Show footprint information",
	Long: `Read a .kicad_mod footprint written by generate and print its header,
item counts and extent. With --preview the parsed footprint is rendered to PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectPreview, "preview", "", "write a PNG rendering to this file")
}

func runInspect(cmd *cobra.Command, args []string) error {
	filename := args[0]
	m, err := footprint.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing footprint: %w", err)
	}

	out := cmd.OutOrStdout()
	h := m.Header
	fmt.Fprintf(out, "Footprint: %s\n", h.Name)
	fmt.Fprintf(out, "  Version: %d\n", h.Version)
	fmt.Fprintf(out, "  Generator: %s\n", h.Generator)
	fmt.Fprintf(out, "  Layer: %s\n", h.Layer)
	if h.Type != "" {
		fmt.Fprintf(out, "  Type: %s", h.Type)
		if len(m.Attributes) > 0 {
			fmt.Fprintf(out, " (%s)", strings.Join(m.Attributes, ", "))
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "  Texts: %d\n", len(m.Texts()))
	fmt.Fprintf(out, "  Lines: %d\n", len(m.Lines()))
	fmt.Fprintf(out, "  Rectangles: %d\n", len(m.Rects()))
	fmt.Fprintf(out, "  Pads: %d\n", len(m.Pads()))

	var length float64
	for _, l := range m.Lines() {
		length += l.Length()
	}
	if length > 0 {
		fmt.Fprintf(out, "  Track length: %.2f mm\n", length)
	}

	bbox := renderer.Bounds(m.Items)
	if !bbox.IsEmpty() {
		fmt.Fprintf(out, "  Size: %.2f x %.2f mm\n", bbox.Width(), bbox.Height())
		fmt.Fprintf(out, "  Center: (%.2f, %.2f) mm\n", bbox.Center().X, bbox.Center().Y)
	}

	if inspectPreview != "" {
		if err := writePreview(inspectPreview, m.Items, renderer.Options{}); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Preview written to %s\n", inspectPreview)
	}
	return nil
}
