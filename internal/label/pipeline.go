package label

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rizalw/pricetag/internal/barcode"
	"github.com/rizalw/pricetag/internal/domain"
	"github.com/rizalw/pricetag/internal/photo"
	apperrors "github.com/rizalw/pricetag/pkg/errors"
)

// Bulk quantity bounds. Requests outside this range are rejected before any
// rendering happens.
const (
	BulkMinQty = 1
	BulkMaxQty = 200
)

// Pipeline assembles product labels from a config. One pipeline instance
// serves both the single and bulk variants; the bulk variant builds the unit
// stack once and replicates it.
type Pipeline struct {
	cfg      Config
	barcodes *barcode.Renderer
	photos   *photo.Fetcher
	logger   *slog.Logger
}

func NewPipeline(cfg Config, barcodes *barcode.Renderer, photos *photo.Fetcher, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		barcodes: barcodes,
		photos:   photos,
		logger:   logger.With("component", "label_pipeline"),
	}
}

// Config returns the pipeline's variant configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// BuildLabel composes a single label for the product.
func (p *Pipeline) BuildLabel(ctx context.Context, product domain.Product) (*ComposedLabel, error) {
	layers, err := p.buildLayers(ctx, product, p.cfg.Layers, 0)
	if err != nil {
		return nil, err
	}
	return Compose(layers, p.cfg.Width, p.cfg.Padding, 1), nil
}

// BuildBulkLabel composes qty stacked copies of the bulk unit. The unit is
// rendered once; the total height is exactly qty times the unit height.
func (p *Pipeline) BuildBulkLabel(ctx context.Context, product domain.Product, qty int) (*ComposedLabel, error) {
	if qty < BulkMinQty || qty > BulkMaxQty {
		return nil, apperrors.InvalidQuantity(qty, BulkMinQty, BulkMaxQty)
	}
	layers, err := p.buildLayers(ctx, product, p.cfg.BulkLayers, qty)
	if err != nil {
		return nil, err
	}
	return Compose(layers, p.cfg.Width, p.cfg.Padding, qty), nil
}

// buildLayers renders every section of the stack. The barcode encode and the
// photo fetch are independent, so they run concurrently; a barcode failure
// aborts the label while a photo failure already degraded to a placeholder
// inside the fetcher.
func (p *Pipeline) buildLayers(ctx context.Context, product domain.Product, kinds []LayerKind, qty int) ([]Layer, error) {
	var (
		rendered *barcode.Rendered
		photoImg image.Image
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, k := range kinds {
		switch k {
		case LayerBarcode:
			g.Go(func() error {
				var err error
				rendered, err = p.barcodes.Render(product.Code())
				return err
			})
		case LayerPhoto:
			g.Go(func() error {
				photoImg = p.photos.Acquire(gctx, product.ImageURL, p.cfg.Width, p.cfg.PhotoHeight, p.cfg.Fit)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	layers := make([]Layer, 0, len(kinds))
	for _, k := range kinds {
		h := p.cfg.heightFor(k)
		switch k {
		case LayerPhoto:
			layers = append(layers, photoSection(photoImg, p.cfg.Width, h))
		case LayerName:
			layers = append(layers, textSection(LayerName, product.DisplayName(), p.cfg.Width, h, nameStyle(p.cfg.NameFontSize)))
		case LayerBarcode:
			l, err := barcodeSection(rendered, p.cfg.Width, h, p.cfg.SidePadding, p.cfg.IncludeCodeText, p.cfg.CodeFontSize)
			if err != nil {
				return nil, err
			}
			layers = append(layers, l)
		case LayerQty:
			layers = append(layers, textSection(LayerQty, fmt.Sprintf("Qty: %d", qty), p.cfg.Width, h, qtyStyle(p.cfg.QtyFontSize)))
		case LayerPrice:
			layers = append(layers, textSection(LayerPrice, product.DisplayPrice(), p.cfg.Width, h, priceStyle(p.cfg.PriceFontSize)))
		}
	}
	return layers, nil
}
