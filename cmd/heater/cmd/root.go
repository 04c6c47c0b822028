package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/OpenTraceLab/OpenTraceHeater/internal/config"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/heater"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// Set by initConfig
	cfgUsed string
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "heater",
	Short: "OpenTraceHeater - PCB trace heater designer",
	Long: `OpenTraceHeater (heater) sizes a serpentine copper trace that turns a PCB
into a resistive heater, and writes it as a KiCad footprint.

Design values come from flags, HEATER_* environment variables or a
.heater.yaml file in the working or home directory.

Examples:
  heater calc --voltage 24 --current 5            # Print the design
  heater generate -o heater.kicad_mod --preview heater.png
  heater sweep --heights 50,75,100                # Compare board heights
  heater inspect heater.kicad_mod                 # Read a footprint back`,
	Version: "0.1.0",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
		if cfgUsed != "" {
			slog.Debug("using config file", "file", cfgUsed)
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command; an interrupt cancels running sweeps.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./.heater.yaml or $HOME/.heater.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	d := config.Default()
	pf.Float64(config.KeyVoltage, d.Voltage, "supply voltage in V")
	pf.Float64(config.KeyCurrent, d.Current, "maximum current in A")
	pf.Float64(config.KeyTemperatureRise, d.TemperatureRise, "allowed temperature rise in °C")
	pf.String(config.KeyMaterial, d.Material, "trace material")
	pf.Float64(config.KeyOunces, d.Ounces, "copper weight in oz/ft² (1 or 2)")
	pf.Float64(config.KeyClearance, d.Clearance, "trace spacing and border clearance in mm")
	pf.Float64(config.KeyHeight, d.Height, "board height in mm")
	pf.String(config.KeyName, d.Name, "footprint name")

	for _, key := range []string{
		config.KeyVoltage, config.KeyCurrent, config.KeyTemperatureRise, config.KeyMaterial,
		config.KeyOunces, config.KeyClearance, config.KeyHeight, config.KeyName,
	} {
		if err := viper.BindPFlag(key, pf.Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// initConfig loads configuration from the config file and environment.
func initConfig() {
	v := viper.GetViper()
	config.Bind(v)
	cfgUsed, cfgErr = config.ReadFile(v, cfgFile)
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// loadConfig returns the validated settings.
func loadConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	return config.Load(viper.GetViper())
}

// design sizes the heater described by the current settings.
func design() (*config.Config, *heater.Result, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	in, err := cfg.Input()
	if err != nil {
		return nil, nil, err
	}

	res, err := heater.Design(in)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to design heater: %w", err)
	}
	slog.Debug("sizing",
		"width_mm", res.Width,
		"min_length_mm", res.MinLength,
		"segments", res.Sizing.Segments,
		"length_mm", res.Sizing.Length,
	)
	if res.Current > in.MaxCurrent {
		slog.Warn("rounded finger count draws more than the current limit",
			"current_a", res.Current, "limit_a", in.MaxCurrent)
	}
	return cfg, res, nil
}
