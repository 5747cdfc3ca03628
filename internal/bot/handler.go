package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rizalw/pricetag/internal/domain"
	"github.com/rizalw/pricetag/internal/label"
	"github.com/rizalw/pricetag/internal/service"
	apperrors "github.com/rizalw/pricetag/pkg/errors"
	"github.com/rizalw/pricetag/pkg/logger"
)

// DefaultBulkCommandMax is the tighter quantity ceiling applied at the
// command layer; the pipeline itself allows up to label.BulkMaxQty.
const DefaultBulkCommandMax = 100

// maxBatchCodes bounds a single .plu message.
const maxBatchCodes = 20

// User-facing reply strings. The bot speaks Indonesian.
const (
	msgSearching      = "⏳ Mencari produk..."
	msgBuildingLabel  = "⏳ Membuat barcode..."
	msgBatchHeader    = "*Hasil Pencarian:*"
	msgBatchNotFound  = "Tidak ditemukan"
	msgNotFound       = "❌ PLU/Barcode %q tidak ditemukan\n\nGunakan:\n• PLU: 10000019\n• Barcode: 8992702000018\n• Multiple: .plu 10000019 10000020\n• Bulk: .bulk 10 10000019"
	msgGenericFailure = "❌ Gagal membuat label, coba lagi nanti"
	msgBulkUsage      = "Format: .bulk <qty> [plu]\nContoh: .bulk 10 10000019"
	msgPLUUsage       = "Format: .plu <kode1> <kode2> ...\nContoh: .plu 10000019 10000020"
	msgBulkBuilding   = "⏳ Membuat %d label..."
	msgBulkCaption    = "✅ Bulk %dx %s"
	msgBulkFailure    = "❌ Error membuat bulk"
	msgBulkNoLast     = "Belum ada produk terakhir, sertakan kode: .bulk <qty> <plu>"
	msgHelp           = "Kirim kode PLU atau barcode untuk membuat label.\n" +
		"Perintah:\n" +
		".plu <kode1> <kode2> ... - cari beberapa produk\n" +
		".bulk <qty> [plu] - label rangkap"
)

// Handler parses chat commands and drives the catalog and label pipeline.
type Handler struct {
	catalog   *service.CatalogService
	pipeline  *label.Pipeline
	transport Transport
	sessions  SessionStore
	bulkMax   int
	logger    *slog.Logger
}

type HandlerOption func(*Handler)

// WithBulkCommandMax overrides the command-layer bulk quantity ceiling.
func WithBulkCommandMax(max int) HandlerOption {
	return func(h *Handler) {
		if max > 0 {
			h.bulkMax = max
		}
	}
}

func NewHandler(catalog *service.CatalogService, pipeline *label.Pipeline, transport Transport, sessions SessionStore, log *slog.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		catalog:   catalog,
		pipeline:  pipeline,
		transport: transport,
		sessions:  sessions,
		bulkMax:   DefaultBulkCommandMax,
		logger:    log.With("component", "bot_handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleMessage routes one inbound message. Messages from the bot itself
// and empty messages are ignored.
func (h *Handler) HandleMessage(ctx context.Context, msg Message) {
	if msg.FromSelf {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	log := h.logger.With("chat_id", msg.ChatID)
	ctx = logger.NewContext(logger.WithChatID(ctx, msg.ChatID), log)

	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, ".plu"):
		h.handleBatch(ctx, msg.ChatID, strings.Fields(text)[1:])
	case strings.HasPrefix(lower, ".bulk"):
		h.handleBulk(ctx, msg.ChatID, strings.Fields(text)[1:])
	case strings.HasPrefix(text, "."):
		h.sendText(ctx, msg.ChatID, msgHelp)
	default:
		h.handleLookup(ctx, msg.ChatID, text)
	}
}

// handleLookup resolves a bare code and replies with a single label image.
func (h *Handler) handleLookup(ctx context.Context, chatID, code string) {
	log := logger.FromContext(ctx)
	h.sendText(ctx, chatID, msgBuildingLabel)

	product, err := h.catalog.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.sendText(ctx, chatID, fmt.Sprintf(msgNotFound, code))
			return
		}
		log.Error("lookup failed", "code", code, "error", err)
		h.sendText(ctx, chatID, msgGenericFailure)
		return
	}

	lbl, err := h.pipeline.BuildLabel(ctx, *product)
	if err != nil {
		log.Error("label build failed", "code", code, "error", err)
		h.sendText(ctx, chatID, msgGenericFailure)
		return
	}
	png, err := lbl.PNG()
	if err != nil {
		log.Error("label encode failed", "code", code, "error", err)
		h.sendText(ctx, chatID, msgGenericFailure)
		return
	}

	caption := fmt.Sprintf("%s\n%s", product.DisplayName(), product.DisplayPrice())
	if err := h.transport.SendImage(ctx, chatID, png, caption); err != nil {
		log.Error("send image failed", "error", apperrors.Transport(err))
		return
	}

	h.rememberProduct(ctx, chatID, product)
}

// handleBatch resolves each code and replies with a found/not-found list.
func (h *Handler) handleBatch(ctx context.Context, chatID string, codes []string) {
	if len(codes) == 0 {
		h.sendText(ctx, chatID, msgPLUUsage)
		return
	}
	if len(codes) > maxBatchCodes {
		codes = codes[:maxBatchCodes]
	}

	h.sendText(ctx, chatID, msgSearching)

	results := h.catalog.ResolveMany(ctx, codes)

	var b strings.Builder
	b.WriteString(msgBatchHeader)
	for _, res := range results {
		b.WriteString("\n")
		if res.Err != nil {
			fmt.Fprintf(&b, "❌ %s: %s", res.Code, msgBatchNotFound)
			continue
		}
		fmt.Fprintf(&b, "✅ %s: %s - %s", res.Code, res.Product.DisplayName(), res.Product.DisplayPrice())
	}
	h.sendText(ctx, chatID, b.String())
}

// handleBulk parses `.bulk <qty> [code]`; the code falls back to the chat's
// last resolved product.
func (h *Handler) handleBulk(ctx context.Context, chatID string, args []string) {
	log := logger.FromContext(ctx)

	if len(args) == 0 {
		h.sendText(ctx, chatID, msgBulkUsage)
		return
	}

	qty, err := strconv.Atoi(args[0])
	if err != nil || qty < 1 || qty > h.bulkMax {
		h.sendText(ctx, chatID, msgBulkUsage)
		return
	}

	var product *domain.Product
	if len(args) > 1 {
		product, err = h.catalog.Resolve(ctx, args[1])
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				h.sendText(ctx, chatID, fmt.Sprintf(msgNotFound, args[1]))
				return
			}
			log.Error("bulk lookup failed", "code", args[1], "error", err)
			h.sendText(ctx, chatID, msgBulkFailure)
			return
		}
	} else {
		sess, err := h.sessions.Get(ctx, chatID)
		if err != nil {
			log.Error("session load failed", "error", err)
		}
		if sess.LastProduct == nil {
			h.sendText(ctx, chatID, msgBulkNoLast)
			return
		}
		product = sess.LastProduct
	}

	h.sendText(ctx, chatID, fmt.Sprintf(msgBulkBuilding, qty))

	lbl, err := h.pipeline.BuildBulkLabel(ctx, *product, qty)
	if err != nil {
		log.Error("bulk build failed", "plu", product.PLU, "qty", qty, "error", err)
		h.sendText(ctx, chatID, msgBulkFailure)
		return
	}
	png, err := lbl.PNG()
	if err != nil {
		log.Error("bulk encode failed", "plu", product.PLU, "error", err)
		h.sendText(ctx, chatID, msgBulkFailure)
		return
	}

	caption := fmt.Sprintf(msgBulkCaption, qty, product.PLU)
	if err := h.transport.SendImage(ctx, chatID, png, caption); err != nil {
		log.Error("send image failed", "error", apperrors.Transport(err))
		return
	}

	h.rememberProduct(ctx, chatID, product)
}

func (h *Handler) rememberProduct(ctx context.Context, chatID string, p *domain.Product) {
	sess, err := h.sessions.Get(ctx, chatID)
	if err != nil {
		logger.FromContext(ctx).Error("session load failed", "error", err)
		sess = Session{}
	}
	sess.LastProduct = p
	if err := h.sessions.Set(ctx, chatID, sess); err != nil {
		logger.FromContext(ctx).Error("session save failed", "error", err)
	}
}

func (h *Handler) sendText(ctx context.Context, chatID, text string) {
	if err := h.transport.SendText(ctx, chatID, text); err != nil {
		logger.FromContext(ctx).Error("send text failed", "error", apperrors.Transport(err))
	}
}
