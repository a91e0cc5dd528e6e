// Package web exposes cart actions and cached cart reads over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nikolayk812/storefront/internal/action"
	"github.com/nikolayk812/storefront/internal/cartcookie"
	"github.com/nikolayk812/storefront/internal/domain"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("Invalid request body")

// CartReader serves authoritative cart reads, usually through a cache.
type CartReader interface {
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
}

type Config struct {
	Gateway       *action.Gateway
	Reader        CartReader
	SecureCookies bool
	Logger        *zap.Logger
}

type handler struct {
	gateway *action.Gateway
	reader  CartReader
	secure  bool
	logger  *zap.Logger
}

type lineRequest struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("gateway is nil")
	}
	if cfg.Reader == nil {
		return nil, fmt.Errorf("reader is nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &handler{
		gateway: cfg.Gateway,
		reader:  cfg.Reader,
		secure:  cfg.SecureCookies,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /cart", h.handleGetCart)
	mux.HandleFunc("POST /cart", h.handleCreateCart)
	mux.HandleFunc("POST /cart/lines", h.handleAddLine)
	mux.HandleFunc("PATCH /cart/lines", h.handleUpdateLine)
	mux.HandleFunc("DELETE /cart/lines/{merchandiseId}", h.handleRemoveLine)
	mux.HandleFunc("GET /checkout", h.handleCheckout)

	return logRequests(logger, mux), nil
}

func (h *handler) ids(w http.ResponseWriter, r *http.Request) *cartcookie.Store {
	return cartcookie.NewStore(w, r, h.secure)
}

func (h *handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartcookie.Read(r)
	if !ok {
		writeJSON(w, http.StatusOK, domain.EmptyCart())
		return
	}

	cart, err := h.reader.GetCart(r.Context(), cartID)
	if err != nil {
		h.logger.Warn("cart read failed", zap.String("cart_id", cartID), zap.Error(err))
		writeText(w, http.StatusBadGateway, action.Result(err))
		return
	}

	if cart == nil {
		// checkout completed, start over with a new cart on the next add
		cartcookie.Clear(w, h.secure)
		writeJSON(w, http.StatusOK, domain.EmptyCart())
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

func (h *handler) handleCreateCart(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.gateway.CreateCartAndSetCookie(r.Context(), h.ids(w, r)))
}

func (h *handler) handleAddLine(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLine(w, r)
	if err != nil {
		h.logger.Debug("line request rejected", zap.Error(err))
		writeText(w, http.StatusBadRequest, action.Result(errInvalidBody))
		return
	}

	writeResult(w, h.gateway.AddItem(r.Context(), h.ids(w, r), req.MerchandiseID, req.Quantity))
}

func (h *handler) handleUpdateLine(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLine(w, r)
	if err != nil {
		h.logger.Debug("line request rejected", zap.Error(err))
		writeText(w, http.StatusBadRequest, action.Result(errInvalidBody))
		return
	}

	writeResult(w, h.gateway.UpdateItemQuantity(r.Context(), h.ids(w, r), req.MerchandiseID, req.Quantity))
}

func (h *handler) handleRemoveLine(w http.ResponseWriter, r *http.Request) {
	merchandiseID := r.PathValue("merchandiseId")

	writeResult(w, h.gateway.RemoveItem(r.Context(), h.ids(w, r), merchandiseID))
}

func (h *handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	url, result := h.gateway.RedirectToCheckout(r.Context(), h.ids(w, r))
	if result != action.Success {
		writeResult(w, result)
		return
	}

	http.Redirect(w, r, url, http.StatusSeeOther)
}

func decodeLine(w http.ResponseWriter, r *http.Request) (lineRequest, error) {
	var req lineRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return lineRequest{}, fmt.Errorf("dec.Decode: %w", err)
	}

	return req, nil
}

func writeResult(w http.ResponseWriter, result string) {
	status := http.StatusOK
	if action.IsError(result) {
		status = http.StatusUnprocessableEntity
	}
	writeText(w, status, result)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func logRequests(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
