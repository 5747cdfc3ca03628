// Package barcode encodes product codes into barcode rasters, selecting the
// symbology from the shape of the code and memoizing rendered output.
package barcode

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
	lru "github.com/hashicorp/golang-lru/v2"

	apperrors "github.com/rizalw/pricetag/pkg/errors"
)

// Symbology identifies the barcode encoding standard.
type Symbology string

const (
	SymbologyEAN13   Symbology = "ean13"
	SymbologyUPCA    Symbology = "upca"
	SymbologyCode128 Symbology = "code128"
)

// Detect selects a symbology from the shape of the code: all digits and
// 13 long is EAN-13, all digits and 12 long is UPC-A, anything else is
// Code128, which accepts arbitrary text.
func Detect(code string) Symbology {
	if isDigits(code) {
		switch len(code) {
		case 13:
			return SymbologyEAN13
		case 12:
			return SymbologyUPCA
		}
	}
	return SymbologyCode128
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Rendered is an immutable cached barcode raster.
type Rendered struct {
	Symbology Symbology
	Code      string
	PNG       []byte
	Width     int
	Height    int
}

// Decode returns the raster as an image for compositing.
func (r *Rendered) Decode() (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(r.PNG))
	if err != nil {
		return nil, fmt.Errorf("decode cached barcode: %w", err)
	}
	return img, nil
}

// Options control the rendered module geometry.
type Options struct {
	// Scale is the horizontal pixel width of one barcode module.
	Scale int
	// ModuleHeight is the pixel height of the bars.
	ModuleHeight int
}

// DefaultOptions returns the geometry used by the standard label pipeline.
func DefaultOptions() Options {
	return Options{
		Scale:        3,
		ModuleHeight: 140,
	}
}

// DefaultCacheSize bounds the render cache. Entries are identical for a given
// key forever, so eviction only costs a re-render.
const DefaultCacheSize = 512

// Renderer encodes codes into barcode PNGs with an LRU render cache.
// It is safe for concurrent use.
type Renderer struct {
	opts   Options
	cache  *lru.Cache[string, *Rendered]
	logger *slog.Logger

	// encode is swapped out in tests to count encoder invocations.
	encode func(sym Symbology, code string) (bc.Barcode, error)
}

// NewRenderer creates a renderer with a bounded cache. cacheSize falls back
// to DefaultCacheSize when not positive.
func NewRenderer(opts Options, cacheSize int, logger *slog.Logger) (*Renderer, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *Rendered](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create barcode cache: %w", err)
	}
	return &Renderer{
		opts:   opts,
		cache:  cache,
		logger: logger,
		encode: encodeSymbology,
	}, nil
}

// Render encodes the given code with the symbology selected by Detect.
// A cache hit returns the identical bytes without re-invoking the encoder.
// Encoding failures are returned as a barcode render error and never cached.
func (r *Renderer) Render(code string) (*Rendered, error) {
	sym := Detect(code)
	key := string(sym) + ":" + code

	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}

	encoded, err := r.encode(sym, code)
	if err != nil {
		return nil, apperrors.BarcodeRender(string(sym), code, err)
	}

	modules := encoded.Bounds().Dx()
	scaled, err := bc.Scale(encoded, modules*r.opts.Scale, r.opts.ModuleHeight)
	if err != nil {
		return nil, apperrors.BarcodeRender(string(sym), code, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, apperrors.BarcodeRender(string(sym), code, err)
	}

	rendered := &Rendered{
		Symbology: sym,
		Code:      code,
		PNG:       buf.Bytes(),
		Width:     scaled.Bounds().Dx(),
		Height:    scaled.Bounds().Dy(),
	}
	r.cache.Add(key, rendered)

	if r.logger != nil {
		r.logger.Debug("barcode rendered",
			slog.String("symbology", string(sym)),
			slog.String("code", code),
		)
	}

	return rendered, nil
}

// encodeSymbology maps a symbology to its encoder. UPC-A is the EAN-13
// subset with a leading zero, which is how scanners read it back.
func encodeSymbology(sym Symbology, code string) (bc.Barcode, error) {
	switch sym {
	case SymbologyEAN13:
		return ean.Encode(code)
	case SymbologyUPCA:
		return ean.Encode("0" + code)
	default:
		return code128.Encode(code)
	}
}
