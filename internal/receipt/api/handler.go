package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ms-restaurant/internal/logger"
	"ms-restaurant/internal/models"
	"ms-restaurant/internal/receipt/db"
	"ms-restaurant/internal/receipt/qr"
	"ms-restaurant/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type ReceiptStore interface {
	GetReceiptByNumber(ctx context.Context, number int) (*models.ReceiptRecord, error)
	ListReceipts(ctx context.Context, tableID int) ([]models.ReceiptRecord, error)
}

// Handler serves read-only lookups over the receipt archive.
type Handler struct {
	Store       ReceiptStore
	QRGenerator *qr.QRGenerator
	Logger      *logger.Logger
}

func NewHandler(store ReceiptStore, secret string, log *logger.Logger) *Handler {
	return &Handler{Store: store, QRGenerator: qr.NewQRGenerator(secret), Logger: log}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Route("/api/receipts", func(r chi.Router) {
		r.Get("/", h.ListReceipts)
		r.Post("/verify", h.VerifyReceipt)
		r.Get("/{number}", h.GetReceipt)
		r.Get("/{number}/text", h.GetReceiptText)
		r.Get("/{number}/qr", h.GetReceiptQR)
	})
	return r
}

// ListReceipts handles GET /api/receipts[?table=n]
func (h *Handler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	tableID := 0
	if raw := r.URL.Query().Get("table"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid table", err))
			return
		}
		tableID = parsed
	}

	records, err := h.Store.ListReceipts(r.Context(), tableID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to list receipts: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("failed to list receipts", err))
		return
	}
	if records == nil {
		records = []models.ReceiptRecord{}
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("receipts", records))
}

func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	record, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("receipt", record))
}

// GetReceiptText returns the receipt exactly as it was written to disk.
func (h *Handler) GetReceiptText(w http.ResponseWriter, r *http.Request) {
	record, ok := h.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", record.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(record.Body))
}

func (h *Handler) GetReceiptQR(w http.ResponseWriter, r *http.Request) {
	record, ok := h.lookup(w, r)
	if !ok {
		return
	}
	png, err := h.QRGenerator.EncodePNG(qr.PayloadForRecord(*record))
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("failed to generate QR code", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// VerifyReceipt checks a scanned QR token against the archive.
// Expected POST request body: {"token": "..."}
func (h *Handler) VerifyReceipt(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("token is required", err))
		return
	}

	payload, err := h.QRGenerator.Decode(body.Token)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid QR token", err))
		return
	}

	record, err := h.Store.GetReceiptByNumber(r.Context(), payload.Number)
	if errors.Is(err, db.ErrReceiptNotFound) {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("receipt not found", err))
		return
	}
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("failed to load receipt", err))
		return
	}

	if qr.PayloadForRecord(*record) != payload {
		h.Logger.Warn("API", fmt.Sprintf("QR token for receipt #%d does not match the archive", payload.Number))
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse("receipt does not match archive", nil))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("receipt verified", record))
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*models.ReceiptRecord, bool) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < utils.MinTransactionNumber || number > utils.MaxTransactionNumber {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid receipt number", err))
		return nil, false
	}

	record, err := h.Store.GetReceiptByNumber(r.Context(), number)
	if errors.Is(err, db.ErrReceiptNotFound) {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("receipt not found", err))
		return nil, false
	}
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to load receipt #%d: %v", number, err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("failed to load receipt", err))
		return nil, false
	}
	return record, true
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.Logger.LogAPI(r.Method, r.URL.Path, strconv.Itoa(ww.Status()), time.Since(start).String())
	})
}
