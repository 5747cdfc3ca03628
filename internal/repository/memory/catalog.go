package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rizalw/pricetag/internal/domain"
	apperrors "github.com/rizalw/pricetag/pkg/errors"
)

// CatalogRepository implements repository.ProductRepository over an
// in-memory index loaded from a JSON catalog file.
type CatalogRepository struct {
	mu        sync.RWMutex
	byPLU     map[string]*domain.Product
	byBarcode map[string]*domain.Product
}

// catalogRow tolerates the legacy export field names alongside the current
// ones; exports from the old sheet use nama/gambar.
type catalogRow struct {
	PLU      string `json:"plu"`
	Barcode  string `json:"barcode"`
	Name     string `json:"name"`
	Nama     string `json:"nama"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url"`
	Gambar   string `json:"gambar"`
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		byPLU:     make(map[string]*domain.Product),
		byBarcode: make(map[string]*domain.Product),
	}
}

// LoadFile reads a JSON array of catalog rows and replaces the index.
func (r *CatalogRepository) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog: %w", err)
	}
	return r.Load(data)
}

// Load parses catalog JSON and replaces the index atomically.
func (r *CatalogRepository) Load(data []byte) (int, error) {
	var rows []catalogRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return 0, fmt.Errorf("parse catalog: %w", err)
	}

	byPLU := make(map[string]*domain.Product, len(rows))
	byBarcode := make(map[string]*domain.Product, len(rows))
	count := 0
	for _, row := range rows {
		p := row.toProduct()
		if p.PLU == "" && p.Barcode == "" {
			continue
		}
		if p.PLU != "" {
			byPLU[p.PLU] = p
		}
		if p.Barcode != "" {
			byBarcode[p.Barcode] = p
		}
		count++
	}

	r.mu.Lock()
	r.byPLU = byPLU
	r.byBarcode = byBarcode
	r.mu.Unlock()

	return count, nil
}

// Put inserts or replaces a single product. Used by tests and seeding.
func (r *CatalogRepository) Put(p domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := p
	if stored.PLU != "" {
		r.byPLU[stored.PLU] = &stored
	}
	if stored.Barcode != "" {
		r.byBarcode[stored.Barcode] = &stored
	}
}

func (r *CatalogRepository) GetByPLU(ctx context.Context, plu string) (*domain.Product, error) {
	r.mu.RLock()
	p, ok := r.byPLU[plu]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFound("product", plu)
	}
	cp := *p
	return &cp, nil
}

func (r *CatalogRepository) GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	r.mu.RLock()
	p, ok := r.byBarcode[barcode]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFound("product", barcode)
	}
	cp := *p
	return &cp, nil
}

func (r *CatalogRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	if p, err := r.GetByPLU(ctx, code); err == nil {
		return p, nil
	}
	return r.GetByBarcode(ctx, code)
}

func (row catalogRow) toProduct() *domain.Product {
	name := row.Name
	if name == "" {
		name = row.Nama
	}
	imageURL := row.ImageURL
	if imageURL == "" {
		imageURL = row.Gambar
	}
	return &domain.Product{
		PLU:      strings.TrimSpace(row.PLU),
		Barcode:  strings.TrimSpace(row.Barcode),
		Name:     strings.TrimSpace(name),
		Price:    strings.TrimSpace(row.Price),
		ImageURL: strings.TrimSpace(imageURL),
	}
}
