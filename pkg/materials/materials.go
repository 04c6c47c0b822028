// Package materials holds the read-only table of conductor materials the
// trace calculator can size a heater for.
package materials

import (
	"fmt"
	"strings"
)

// Material describes a conductor by its bulk electrical resistivity.
type Material struct {
	Name        string  // Display name, e.g. "Copper"
	Symbol      string  // Chemical symbol, e.g. "Cu"
	Resistivity float64 // Electrical resistivity in Ω·m
}

func (m Material) String() string {
	return fmt.Sprintf("%s (%s, %g Ω·m)", m.Name, m.Symbol, m.Resistivity)
}

// Copper is annealed copper at 20 °C, the only foil fabs plate outer layers with.
var Copper = Material{Name: "Copper", Symbol: "Cu", Resistivity: 1.72e-8}

// registry is ordered; the first entry is the default.
var registry = []Material{
	Copper,
}

// All returns the known materials in registry order.
// The returned slice is a copy and may be modified by the caller.
func All() []Material {
	out := make([]Material, len(registry))
	copy(out, registry)
	return out
}

// Default returns the first registered material.
func Default() Material {
	return registry[0]
}

// Lookup finds a material by name or symbol, ignoring case.
func Lookup(name string) (Material, bool) {
	name = strings.TrimSpace(name)
	for _, m := range registry {
		if strings.EqualFold(m.Name, name) || strings.EqualFold(m.Symbol, name) {
			return m, true
		}
	}
	return Material{}, false
}

// Names returns the material names in registry order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, m := range registry {
		names = append(names, m.Name)
	}
	return names
}
