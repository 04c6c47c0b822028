package footprint

import (
	"strconv"
	"strings"
)

// Layer names used by the heater footprint
const (
	LayerFrontCopper = "F.Cu"
	LayerFrontPaste  = "F.Paste"
	LayerFrontMask   = "F.Mask"
	LayerFrontSilk   = "F.SilkS"
)

// DefaultPadLayers are the layers of an SMD pad on the front side.
var DefaultPadLayers = []string{LayerFrontCopper, LayerFrontPaste, LayerFrontMask}

// footprintLayers are the fixed layer names a footprint item may use.
var footprintLayers = map[string]bool{
	"F.Cu": true, "B.Cu": true,
	"F.Adhes": true, "B.Adhes": true,
	"F.Paste": true, "B.Paste": true,
	"F.SilkS": true, "B.SilkS": true,
	"F.Mask": true, "B.Mask": true,
	"F.CrtYd": true, "B.CrtYd": true,
	"F.Fab": true, "B.Fab": true,
	"Dwgs.User": true, "Cmts.User": true,
	"Eco1.User": true, "Eco2.User": true,
	"Edge.Cuts": true, "Margin": true,
	// Wildcards used by through-hole pads
	"*.Cu": true, "*.Mask": true, "*.Paste": true,
}

// IsLayer reports whether name is a layer KiCad accepts in a footprint,
// including inner copper (In1.Cu .. In30.Cu) and user layers (User.1 .. User.9).
func IsLayer(name string) bool {
	if footprintLayers[name] {
		return true
	}
	if n, ok := strings.CutPrefix(name, "In"); ok {
		if num, ok := strings.CutSuffix(n, ".Cu"); ok {
			i, err := strconv.Atoi(num)
			return err == nil && i >= 1 && i <= 30
		}
	}
	if n, ok := strings.CutPrefix(name, "User."); ok {
		i, err := strconv.Atoi(n)
		return err == nil && i >= 1 && i <= 9
	}
	return false
}

// IsCopperLayer reports whether name is a copper layer.
func IsCopperLayer(name string) bool {
	return strings.HasSuffix(name, ".Cu") && IsLayer(name)
}
