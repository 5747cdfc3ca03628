package repository

import (
	"context"

	"github.com/rizalw/pricetag/internal/domain"
)

// ProductRepository defines the interface for catalog lookups.
type ProductRepository interface {
	// GetByPLU retrieves a product by its store PLU.
	GetByPLU(ctx context.Context, plu string) (*domain.Product, error)

	// GetByBarcode retrieves a product by its retail barcode.
	GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error)

	// GetByCode retrieves a product matching the code as either a PLU or
	// a barcode, preferring the PLU match.
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
}
