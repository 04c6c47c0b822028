package renderer

import "image/color"

// KiCad Classic theme colors
var classicColors = map[string]color.NRGBA{
	// Copper layers
	"F.Cu":   {R: 200, G: 52, B: 52, A: 255},   // Front copper (red)
	"B.Cu":   {R: 77, G: 127, B: 196, A: 255},  // Back copper (blue)
	"In1.Cu": {R: 127, G: 200, B: 127, A: 255}, // Inner layer 1
	"In2.Cu": {R: 206, G: 125, B: 44, A: 255},  // Inner layer 2

	// Silkscreen
	"F.SilkS": {R: 242, G: 237, B: 161, A: 255},
	"B.SilkS": {R: 232, G: 178, B: 167, A: 255},

	// Solder mask and paste
	"F.Mask":  {R: 216, G: 100, B: 255, A: 102},
	"B.Mask":  {R: 2, G: 255, B: 238, A: 102},
	"F.Paste": {R: 180, G: 160, B: 154, A: 230},
	"B.Paste": {R: 0, G: 194, B: 194, A: 230},

	// Fabrication and courtyard
	"F.Fab":   {R: 175, G: 175, B: 175, A: 255},
	"B.Fab":   {R: 88, G: 93, B: 132, A: 255},
	"F.CrtYd": {R: 255, G: 38, B: 226, A: 255},
	"B.CrtYd": {R: 38, G: 233, B: 255, A: 255},

	"Dwgs.User": {R: 194, G: 194, B: 194, A: 255},
	"Cmts.User": {R: 89, G: 148, B: 220, A: 255},
	"Edge.Cuts": {R: 208, G: 210, B: 205, A: 255},
}

// Special colors
var (
	ColorPadSMD     = color.NRGBA{R: 227, G: 183, B: 46, A: 255} // SMD pad (gold)
	ColorBackground = color.NRGBA{R: 0, G: 16, B: 35, A: 255}    // Background (dark blue)
	ColorUnknown    = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
)

// LayerColor returns the classic KiCad color for a layer, or gray for
// layers without one.
func LayerColor(layer string) color.NRGBA {
	if c, ok := classicColors[layer]; ok {
		return c
	}
	return ColorUnknown
}
