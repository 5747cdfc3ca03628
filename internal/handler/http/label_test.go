package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizalw/pricetag/internal/barcode"
	"github.com/rizalw/pricetag/internal/domain"
	"github.com/rizalw/pricetag/internal/label"
	"github.com/rizalw/pricetag/internal/photo"
	"github.com/rizalw/pricetag/internal/repository/memory"
	"github.com/rizalw/pricetag/internal/service"
	"github.com/rizalw/pricetag/pkg/health"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo := memory.NewCatalogRepository()
	repo.Put(domain.Product{
		PLU:     "10000019",
		Barcode: "8992702000018",
		Name:    "Indomilk Susu Kental Manis Putih 370G",
		Price:   "Rp 12.500",
	})

	catalog, err := service.NewCatalogService(repo, 16, log)
	require.NoError(t, err)

	renderer, err := barcode.NewRenderer(barcode.DefaultOptions(), 16, log)
	require.NoError(t, err)
	fetcher := photo.NewFetcher(100*time.Millisecond, log)
	pipeline := label.NewPipeline(label.DefaultConfig(), renderer, fetcher, log)

	return NewRouter(catalog, pipeline, health.NewHandler(), log)
}

func TestLookupFound(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lookup?q=10000019", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "10000019", resp.Data.PLU)
	assert.Equal(t, "Rp 12.500", resp.Data.Price)
}

func TestLookupByBarcode(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lookup?q=8992702000018", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"plu":"10000019"`)
}

func TestLookupNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lookup?q=99999", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestLookupMissingQuery(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lookup", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImagePNG(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/image?q=10000019", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("\x89PNG"), rec.Body.Bytes()[:4])
}

func TestImageSVG(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/image?q=10000019&format=svg", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<svg"))
	assert.Contains(t, body, "Indomilk")
}

func TestImageBulkQty(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/image?q=10000019&qty=3&format=svg", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	// qty badge present in the bulk variant
	assert.Contains(t, rec.Body.String(), "Qty: 3")
}

func TestImageInvalidFormat(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/image?q=10000019&format=gif", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageInvalidQty(t *testing.T) {
	router := newTestRouter(t)

	for _, qty := range []string{"0", "-2", "201", "abc"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/image?q=10000019&qty="+qty, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "qty %s", qty)
	}
}

func TestImageNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/image?q=404404", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsExposed(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
