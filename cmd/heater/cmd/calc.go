package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceHeater/internal/report"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/heater"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/footprint"
)

var calcReport string

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Print the heater design",
	Long: `Size the heater for the current settings and print its electrical and
mechanical figures. With --report the design is also written as YAML.`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.Flags().StringVar(&calcReport, "report", "", "write a YAML design report to this file")
}

func runCalc(cmd *cobra.Command, args []string) error {
	cfg, res, err := design()
	if err != nil {
		return err
	}

	printDesign(cmd.OutOrStdout(), res)

	if calcReport != "" {
		r := report.New(res, cfg.Name, footprint.DateVersion(time.Now()))
		if err := report.WriteFile(calcReport, r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Report written to %s\n", calcReport)
	}
	return nil
}

func printDesign(w io.Writer, res *heater.Result) {
	in := res.Input
	fmt.Fprintf(w, "Heater design (%s, %g V, %g A limit, +%g °C)\n",
		in.Material, in.Voltage, in.MaxCurrent, in.TemperatureRise)
	fmt.Fprintf(w, "  Power:        %.2f W (max %.2f W)\n", res.Power, res.MaxPower)
	fmt.Fprintf(w, "  Resistance:   %.4f Ω (min %.4f Ω)\n", res.Resistance, res.MinResistance)
	fmt.Fprintf(w, "  Current:      %.3f A\n", res.Current)
	fmt.Fprintf(w, "  Segments:     %d\n", res.Sizing.Segments)
	fmt.Fprintf(w, "  Track length: %.2f mm\n", res.Sizing.Length)
	fmt.Fprintf(w, "  Trace width:  %.4f mm\n", res.Width)
	fmt.Fprintf(w, "  PCB width:    %.2f mm\n", res.BoardWidth)
	fmt.Fprintf(w, "  PCB height:   %.2f mm\n", in.BoardHeight)
}
