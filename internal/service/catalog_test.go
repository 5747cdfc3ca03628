package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rizalw/pricetag/internal/domain"
	apperrors "github.com/rizalw/pricetag/pkg/errors"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByPLU(ctx context.Context, plu string) (*domain.Product, error) {
	args := m.Called(ctx, plu)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	args := m.Called(ctx, barcode)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	args := m.Called(ctx, code)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func newService(t *testing.T, repo *mockRepo, opts ...CatalogOption) *CatalogService {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewCatalogService(repo, 16, log, opts...)
	require.NoError(t, err)
	return s
}

func TestResolvePLUWinsOverBarcode(t *testing.T) {
	repo := new(mockRepo)
	byPLU := &domain.Product{PLU: "12345", Name: "plu match"}
	repo.On("GetByPLU", mock.Anything, "12345").Return(byPLU, nil)

	s := newService(t, repo)
	p, err := s.Resolve(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "plu match", p.Name)

	// barcode lookup never consulted when the PLU matches
	repo.AssertNotCalled(t, "GetByBarcode", mock.Anything, mock.Anything)
}

func TestResolveFallsBackToBarcode(t *testing.T) {
	repo := new(mockRepo)
	notFound := apperrors.NotFound("product", "8999999038908")
	byBarcode := &domain.Product{PLU: "10000019", Barcode: "8999999038908"}
	repo.On("GetByPLU", mock.Anything, "8999999038908").Return(nil, notFound)
	repo.On("GetByBarcode", mock.Anything, "8999999038908").Return(byBarcode, nil)

	s := newService(t, repo)
	p, err := s.Resolve(context.Background(), "8999999038908")
	require.NoError(t, err)
	assert.Equal(t, "10000019", p.PLU)
}

func TestResolveDigitFallback(t *testing.T) {
	repo := new(mockRepo)
	miss := apperrors.NotFound("product", "x")
	hit := &domain.Product{PLU: "10000019"}
	repo.On("GetByPLU", mock.Anything, "1000-0019").Return(nil, miss)
	repo.On("GetByBarcode", mock.Anything, "1000-0019").Return(nil, miss)
	repo.On("GetByCode", mock.Anything, "10000019").Return(hit, nil)

	s := newService(t, repo)
	p, err := s.Resolve(context.Background(), "1000-0019")
	require.NoError(t, err)
	assert.Equal(t, "10000019", p.PLU)
	repo.AssertExpectations(t)
}

func TestResolveDigitFallbackDisabled(t *testing.T) {
	repo := new(mockRepo)
	miss := apperrors.NotFound("product", "x")
	repo.On("GetByPLU", mock.Anything, "1000-0019").Return(nil, miss)
	repo.On("GetByBarcode", mock.Anything, "1000-0019").Return(nil, miss)

	s := newService(t, repo, WithDigitFallback(false))
	_, err := s.Resolve(context.Background(), "1000-0019")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
}

func TestResolveRepositoryErrorPropagates(t *testing.T) {
	repo := new(mockRepo)
	infra := fmt.Errorf("query product: %w", errors.New("connection refused"))
	repo.On("GetByPLU", mock.Anything, "12345").Return(nil, infra)

	s := newService(t, repo)
	_, err := s.Resolve(context.Background(), "12345")

	// backend failures must not be reported as a missing product
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorContains(t, err, "connection refused")
	repo.AssertNotCalled(t, "GetByBarcode", mock.Anything, mock.Anything)
}

func TestResolveNotFound(t *testing.T) {
	repo := new(mockRepo)
	miss := apperrors.NotFound("product", "777")
	repo.On("GetByPLU", mock.Anything, "777").Return(nil, miss)
	repo.On("GetByBarcode", mock.Anything, "777").Return(nil, miss)

	s := newService(t, repo)
	_, err := s.Resolve(context.Background(), "777")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolveEmptyCode(t *testing.T) {
	s := newService(t, new(mockRepo))
	_, err := s.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestResolveCachesHits(t *testing.T) {
	repo := new(mockRepo)
	hit := &domain.Product{PLU: "12345", Name: "cached"}
	repo.On("GetByPLU", mock.Anything, "12345").Return(hit, nil).Once()

	s := newService(t, repo)
	for i := 0; i < 3; i++ {
		p, err := s.Resolve(context.Background(), "12345")
		require.NoError(t, err)
		assert.Equal(t, "cached", p.Name)
	}
	repo.AssertExpectations(t)
}

func TestResolveMissesNotCached(t *testing.T) {
	repo := new(mockRepo)
	miss := apperrors.NotFound("product", "777")
	repo.On("GetByPLU", mock.Anything, "777").Return(nil, miss).Twice()
	repo.On("GetByBarcode", mock.Anything, "777").Return(nil, miss).Twice()

	s := newService(t, repo, WithDigitFallback(false))
	for i := 0; i < 2; i++ {
		_, err := s.Resolve(context.Background(), "777")
		require.Error(t, err)
	}
	repo.AssertExpectations(t)
}

func TestResolveManyPreservesOrder(t *testing.T) {
	repo := new(mockRepo)
	miss := apperrors.NotFound("product", "miss")
	repo.On("GetByPLU", mock.Anything, "111").Return(&domain.Product{PLU: "111"}, nil)
	repo.On("GetByPLU", mock.Anything, "miss").Return(nil, miss)
	repo.On("GetByBarcode", mock.Anything, "miss").Return(nil, miss)
	repo.On("GetByPLU", mock.Anything, "333").Return(&domain.Product{PLU: "333"}, nil)

	s := newService(t, repo, WithDigitFallback(false))
	results := s.ResolveMany(context.Background(), []string{"111", "miss", "333"})

	require.Len(t, results, 3)
	assert.Equal(t, "111", results[0].Code)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "111", results[0].Product.PLU)

	assert.Equal(t, "miss", results[1].Code)
	assert.ErrorIs(t, results[1].Err, apperrors.ErrNotFound)
	assert.Nil(t, results[1].Product)

	require.NoError(t, results[2].Err)
	assert.Equal(t, "333", results[2].Product.PLU)
}
