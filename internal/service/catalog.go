package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rizalw/pricetag/internal/domain"
	"github.com/rizalw/pricetag/internal/repository"
	apperrors "github.com/rizalw/pricetag/pkg/errors"
	"github.com/rizalw/pricetag/pkg/logger"
)

// DefaultProductCacheSize bounds the resolved-product cache.
const DefaultProductCacheSize = 2000

// CatalogService resolves user-supplied codes to catalog products. Lookup
// order is PLU first, then barcode; optionally a digits-only retry handles
// codes pasted with separators or check-digit suffixes.
type CatalogService struct {
	repo          repository.ProductRepository
	cache         *lru.Cache[string, *domain.Product]
	digitFallback bool
	logger        *slog.Logger
}

type CatalogOption func(*CatalogService)

// WithDigitFallback toggles the digits-only retry for codes that contain
// separator characters.
func WithDigitFallback(enabled bool) CatalogOption {
	return func(s *CatalogService) {
		s.digitFallback = enabled
	}
}

func NewCatalogService(repo repository.ProductRepository, cacheSize int, log *slog.Logger, opts ...CatalogOption) (*CatalogService, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultProductCacheSize
	}
	cache, err := lru.New[string, *domain.Product](cacheSize)
	if err != nil {
		return nil, err
	}
	s := &CatalogService{
		repo:          repo,
		cache:         cache,
		digitFallback: true,
		logger:        log.With("component", "catalog_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Resolve looks a code up as a PLU, then as a barcode, then (when enabled)
// retries with non-digit characters stripped. Hits are cached keyed by the
// raw input.
func (s *CatalogService) Resolve(ctx context.Context, code string) (*domain.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.InvalidInput("empty product code")
	}

	if p, ok := s.cache.Get(code); ok {
		cp := *p
		return &cp, nil
	}

	p, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	cp := *p
	s.cache.Add(code, &cp)
	return p, nil
}

func (s *CatalogService) lookup(ctx context.Context, code string) (*domain.Product, error) {
	log := logger.FromContext(ctx)

	p, err := s.repo.GetByPLU(ctx, code)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	p, err = s.repo.GetByBarcode(ctx, code)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if s.digitFallback {
		stripped := digitsOnly(code)
		if stripped != "" && stripped != code {
			log.Debug("retrying lookup with digits only", "code", code, "stripped", stripped)
			p, err = s.repo.GetByCode(ctx, stripped)
			if err == nil {
				return p, nil
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
		}
	}

	return nil, apperrors.NotFound("product", code)
}

// ResolveResult is one entry of a batch resolution, in input order.
type ResolveResult struct {
	Code    string
	Product *domain.Product
	Err     error
}

// ResolveMany resolves each code independently, preserving input order.
// Individual misses do not abort the batch.
func (s *CatalogService) ResolveMany(ctx context.Context, codes []string) []ResolveResult {
	results := make([]ResolveResult, len(codes))
	for i, code := range codes {
		p, err := s.Resolve(ctx, code)
		results[i] = ResolveResult{Code: code, Product: p, Err: err}
	}
	return results
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
