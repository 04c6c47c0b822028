// Package config holds the heater design settings shared by the CLI
// commands. Values come from defaults, an optional YAML file, HEATER_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/OpenTraceLab/OpenTraceHeater/pkg/heater"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/materials"
	"github.com/OpenTraceLab/OpenTraceHeater/pkg/trace"
)

// Setting keys. Flags use the same names; environment variables are
// HEATER_ followed by the key in upper case with dashes as underscores.
const (
	KeyVoltage         = "voltage"
	KeyCurrent         = "current"
	KeyTemperatureRise = "temperature-rise"
	KeyMaterial        = "material"
	KeyOunces          = "ounces"
	KeyClearance       = "clearance"
	KeyHeight          = "height"
	KeyName            = "name"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "HEATER"

// FileName is the config file searched for when none is given.
const FileName = ".heater"

// Config is a complete heater design request.
type Config struct {
	Voltage         float64 `mapstructure:"voltage"`          // V
	Current         float64 `mapstructure:"current"`          // A
	TemperatureRise float64 `mapstructure:"temperature-rise"` // °C
	Material        string  `mapstructure:"material"`
	Ounces          float64 `mapstructure:"ounces"`    // Copper weight, oz/ft²
	Clearance       float64 `mapstructure:"clearance"` // mm
	Height          float64 `mapstructure:"height"`    // Board height in mm
	Name            string  `mapstructure:"name"`      // Footprint name
}

// Default returns the settings the heater dashboard starts with.
func Default() *Config {
	return &Config{
		Voltage:         12,
		Current:         10,
		TemperatureRise: 225,
		Material:        materials.Default().Name,
		Ounces:          2,
		Clearance:       0.2,
		Height:          100,
		Name:            heater.DefaultName,
	}
}

// limit is an accepted closed range; open marks a lower bound that is
// itself rejected.
type limit struct {
	key    string
	value  float64
	lo, hi float64
	open   bool
}

// Validate checks every value against the ranges the dashboard offers.
// Errors wrap trace.ErrInvalidInput.
func (c *Config) Validate() error {
	limits := []limit{
		{KeyVoltage, c.Voltage, 1, 50, false},
		{KeyCurrent, c.Current, 1, 36, false},
		{KeyTemperatureRise, c.TemperatureRise, 10, 500, false},
		{KeyClearance, c.Clearance, 0, 10, true},
		{KeyHeight, c.Height, 10, 400, false},
	}
	for _, l := range limits {
		below := l.value < l.lo || (l.open && l.value == l.lo)
		if math.IsNaN(l.value) || below || l.value > l.hi {
			bracket := "["
			if l.open {
				bracket = "("
			}
			return fmt.Errorf("%s %g outside %s%g, %g]: %w", l.key, l.value, bracket, l.lo, l.hi, trace.ErrInvalidInput)
		}
	}

	if c.Ounces != 1 && c.Ounces != 2 {
		return fmt.Errorf("%s %g: only 1 oz and 2 oz copper are supported: %w", KeyOunces, c.Ounces, trace.ErrInvalidInput)
	}
	if _, ok := materials.Lookup(c.Material); !ok {
		return fmt.Errorf("unknown %s %q (known: %s): %w", KeyMaterial, c.Material, strings.Join(materials.Names(), ", "), trace.ErrInvalidInput)
	}
	if c.Name == "" {
		c.Name = heater.DefaultName
	}
	return nil
}

// Input converts the settings into a design request.
func (c *Config) Input() (heater.Input, error) {
	m, ok := materials.Lookup(c.Material)
	if !ok {
		return heater.Input{}, fmt.Errorf("unknown %s %q: %w", KeyMaterial, c.Material, trace.ErrInvalidInput)
	}
	return heater.Input{
		Voltage:         c.Voltage,
		MaxCurrent:      c.Current,
		TemperatureRise: c.TemperatureRise,
		Material:        m,
		Thickness:       trace.ThicknessFromOunces(c.Ounces),
		Clearance:       c.Clearance,
		BoardHeight:     c.Height,
	}, nil
}

// Bind registers the defaults and environment overrides on v.
func Bind(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyVoltage, d.Voltage)
	v.SetDefault(KeyCurrent, d.Current)
	v.SetDefault(KeyTemperatureRise, d.TemperatureRise)
	v.SetDefault(KeyMaterial, d.Material)
	v.SetDefault(KeyOunces, d.Ounces)
	v.SetDefault(KeyClearance, d.Clearance)
	v.SetDefault(KeyHeight, d.Height)
	v.SetDefault(KeyName, d.Name)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// ReadFile loads the YAML config file into v. With an empty path it looks
// for .heater.yaml in the working directory and then the home directory,
// and a missing file is not an error. It returns the file used, if any.
func ReadFile(v *viper.Viper, path string) (string, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(FileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
