package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/rizalw/pricetag/internal/label"
	"github.com/rizalw/pricetag/internal/service"
	apperrors "github.com/rizalw/pricetag/pkg/errors"
	"github.com/rizalw/pricetag/pkg/httputil"
)

// LabelHandler handles HTTP requests for product lookup and label images.
type LabelHandler struct {
	catalog  *service.CatalogService
	pipeline *label.Pipeline
	logger   *slog.Logger
}

func NewLabelHandler(catalog *service.CatalogService, pipeline *label.Pipeline, logger *slog.Logger) *LabelHandler {
	return &LabelHandler{
		catalog:  catalog,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Lookup handles GET /lookup?q=<code> and returns the resolved product as JSON.
func (h *LabelHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("q"))
	if code == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("query parameter q is required"), h.logger)
		return
	}

	product, err := h.catalog.Resolve(r.Context(), code)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Image handles GET /image?q=<code>&format=png|svg&qty=<n> and returns the
// composed label. qty > 1 produces a bulk label.
func (h *LabelHandler) Image(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("q"))
	if code == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("query parameter q is required"), h.logger)
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "png"
	}
	if format != "png" && format != "svg" {
		httputil.WriteError(w, r, apperrors.InvalidInput("format must be png or svg"), h.logger)
		return
	}

	qty, err := parseQty(r.URL.Query().Get("qty"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product, err := h.catalog.Resolve(r.Context(), code)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var composed *label.ComposedLabel
	if qty > 1 {
		composed, err = h.pipeline.BuildBulkLabel(r.Context(), *product, qty)
	} else {
		composed, err = h.pipeline.BuildLabel(r.Context(), *product)
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	switch format {
	case "svg":
		out, err := composed.SVG()
		if err != nil {
			httputil.WriteError(w, r, apperrors.Internal(err), h.logger)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out)
	default:
		out, err := composed.PNG()
		if err != nil {
			httputil.WriteError(w, r, apperrors.Internal(err), h.logger)
			return
		}
		httputil.WritePNG(w, out)
	}
}

func parseQty(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidInput("qty must be a positive integer")
	}
	if qty < label.BulkMinQty || qty > label.BulkMaxQty {
		return 0, apperrors.InvalidQuantity(qty, label.BulkMinQty, label.BulkMaxQty)
	}
	return qty, nil
}
