package label

import "github.com/rizalw/pricetag/internal/photo"

// LayerKind names a section of a label. The set and order of sections is
// pipeline configuration, not a hardcoded sequence.
type LayerKind string

const (
	LayerPhoto   LayerKind = "photo"
	LayerName    LayerKind = "name"
	LayerBarcode LayerKind = "barcode"
	LayerQty     LayerKind = "qty"
	LayerPrice   LayerKind = "price"
)

// Config describes one label pipeline variant: canvas width, per-section
// heights, typography and the declarative layer list.
type Config struct {
	// Width is the canvas width shared by all sections.
	Width int
	// Padding is inserted between consecutive sections.
	Padding int
	// SidePadding is the horizontal margin around the barcode raster.
	SidePadding int

	PhotoHeight   int
	NameHeight    int
	BarcodeHeight int
	QtyHeight     int
	PriceHeight   int

	NameFontSize  float64
	PriceFontSize float64
	QtyFontSize   float64
	CodeFontSize  float64

	// IncludeCodeText prints the human-readable code inside the barcode section.
	IncludeCodeText bool

	// Fit selects how product photos are resized into the photo section.
	Fit photo.FitPolicy

	// Layers is the section order for a single label, BulkLayers for the
	// replicated unit of a bulk label.
	Layers     []LayerKind
	BulkLayers []LayerKind
}

// DefaultConfig is the 540px chat-display variant: photo, name, barcode and
// price, with a quantity badge added in bulk mode.
func DefaultConfig() Config {
	return Config{
		Width:         540,
		Padding:       10,
		SidePadding:   40,
		PhotoHeight:   300,
		NameHeight:    80,
		BarcodeHeight: 200,
		QtyHeight:     60,
		PriceHeight:   80,
		NameFontSize:  18,
		PriceFontSize: 28,
		QtyFontSize:   32,
		CodeFontSize:  18,
		Fit:           photo.FitContain,
		Layers:        []LayerKind{LayerPhoto, LayerName, LayerBarcode, LayerPrice},
		BulkLayers:    []LayerKind{LayerPhoto, LayerName, LayerBarcode, LayerQty, LayerPrice},
	}
}

// PrintConfig is the wide photo-less variant used for shelf printing.
func PrintConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 800
	cfg.Padding = 20
	cfg.SidePadding = 60
	cfg.NameHeight = 100
	cfg.BarcodeHeight = 260
	cfg.PriceHeight = 100
	cfg.NameFontSize = 22
	cfg.PriceFontSize = 36
	cfg.IncludeCodeText = true
	cfg.Layers = []LayerKind{LayerName, LayerBarcode, LayerPrice}
	cfg.BulkLayers = []LayerKind{LayerName, LayerBarcode, LayerQty, LayerPrice}
	return cfg
}

func (c Config) heightFor(kind LayerKind) int {
	switch kind {
	case LayerPhoto:
		return c.PhotoHeight
	case LayerName:
		return c.NameHeight
	case LayerBarcode:
		return c.BarcodeHeight
	case LayerQty:
		return c.QtyHeight
	case LayerPrice:
		return c.PriceHeight
	}
	return 0
}

func (c Config) stackHeight(kinds []LayerKind) int {
	total := 0
	for i, k := range kinds {
		total += c.heightFor(k)
		if i > 0 {
			total += c.Padding
		}
	}
	return total
}

// LabelHeight is the total height of a single label built from this config.
func (c Config) LabelHeight() int {
	return c.stackHeight(c.Layers)
}

// BulkUnitHeight is the height of one copy inside a bulk label.
func (c Config) BulkUnitHeight() int {
	return c.stackHeight(c.BulkLayers)
}
