package renderer

import "github.com/OpenTraceLab/OpenTraceHeater/pkg/kicad/footprint"

// LayerConfig controls which layers are drawn. A fresh config shows every
// layer.
type LayerConfig struct {
	visible   map[string]bool
	hideOther bool // Layers not in visible are hidden
}

// NewLayerConfig creates a layer configuration with all layers visible.
func NewLayerConfig() *LayerConfig {
	return &LayerConfig{visible: make(map[string]bool)}
}

// SetVisible sets the visibility of a specific layer
func (lc *LayerConfig) SetVisible(layer string, visible bool) {
	lc.visible[layer] = visible
}

// IsVisible reports whether layer is drawn. A nil config shows everything.
func (lc *LayerConfig) IsVisible(layer string) bool {
	if lc == nil {
		return true
	}
	if visible, ok := lc.visible[layer]; ok {
		return visible
	}
	return !lc.hideOther
}

// ShowAll resets to the default of every layer visible.
func (lc *LayerConfig) ShowAll() {
	lc.visible = make(map[string]bool)
	lc.hideOther = false
}

// ShowOnly shows only the specified layers, hiding all others
func (lc *LayerConfig) ShowOnly(layers ...string) {
	lc.visible = make(map[string]bool, len(layers))
	lc.hideOther = true
	for _, layer := range layers {
		lc.visible[layer] = true
	}
}

func (lc *LayerConfig) ShowCopperOnly() {
	lc.ShowOnly(footprint.LayerFrontCopper, "B.Cu")
}

func (lc *LayerConfig) HideSilkscreen() {
	lc.SetVisible(footprint.LayerFrontSilk, false)
	lc.SetVisible("B.SilkS", false)
}

// itemVisible reports whether any layer of it is visible. Pads live on
// several layers at once.
func (lc *LayerConfig) itemVisible(it footprint.Item) bool {
	if it.Kind == footprint.ItemPad {
		for _, layer := range it.Pad.Layers {
			if lc.IsVisible(layer) {
				return true
			}
		}
		return false
	}
	return lc.IsVisible(it.Layer())
}
