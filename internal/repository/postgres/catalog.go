package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rizalw/pricetag/internal/domain"
	apperrors "github.com/rizalw/pricetag/pkg/errors"
)

// CatalogRepository implements repository.ProductRepository using PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

const productColumns = `plu, COALESCE(barcode, ''), COALESCE(name, ''), COALESCE(price, ''), COALESCE(image_url, '')`

// GetByPLU retrieves a product by its PLU.
func (r *CatalogRepository) GetByPLU(ctx context.Context, plu string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE plu = $1`
	return r.scanProduct(ctx, query, plu)
}

// GetByBarcode retrieves a product by its barcode.
func (r *CatalogRepository) GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE barcode = $1`
	return r.scanProduct(ctx, query, barcode)
}

// GetByCode retrieves a product matching the code as PLU or barcode, the
// PLU match winning when both exist.
func (r *CatalogRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE plu = $1 OR barcode = $1
		ORDER BY (plu = $1) DESC
		LIMIT 1`
	return r.scanProduct(ctx, query, code)
}

func (r *CatalogRepository) scanProduct(ctx context.Context, query string, arg string) (*domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&p.PLU,
		&p.Barcode,
		&p.Name,
		&p.Price,
		&p.ImageURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", arg)
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &p, nil
}
