package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/heater"
)

var (
	sweepHeights []float64
	sweepLimit   int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compare designs across board heights",
	Long: `Size the heater for each board height in --heights, in parallel, and print
one row per height. Heights that cannot hold a heater are reported inline.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepHeights, "heights", []float64{50, 75, 100, 150, 200}, "board heights in mm")
	sweepCmd.Flags().IntVar(&sweepLimit, "limit", 0, "maximum designs computed at once (0 = unlimited)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	base, err := cfg.Input()
	if err != nil {
		return err
	}

	slog.Debug("sweeping", "heights", len(sweepHeights), "limit", sweepLimit)
	points, err := heater.Sweep(cmd.Context(), base, sweepHeights, sweepLimit)
	if err != nil {
		return fmt.Errorf("sweep interrupted: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "HEIGHT (mm)\tWIDTH (mm)\tSEGMENTS\tLENGTH (mm)\tR (Ω)\tCURRENT (A)\tPOWER (W)")
	for _, p := range points {
		if p.Err != nil {
			fmt.Fprintf(w, "%.2f\t-\t-\t-\t-\t-\t%v\n", p.BoardHeight, p.Err)
			continue
		}
		r := p.Result
		fmt.Fprintf(w, "%.2f\t%.2f\t%d\t%.2f\t%.4f\t%.3f\t%.2f\n",
			p.BoardHeight, r.BoardWidth, r.Sizing.Segments, r.Sizing.Length, r.Resistance, r.Current, r.Power)
	}
	return w.Flush()
}
