package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/cart"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/cartid"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
)

type CartHandler struct {
	carts  *cart.Service
	secure bool
	log    *zap.Logger
}

func NewCartHandler(carts *cart.Service, secure bool, log *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		secure: secure,
		log:    log,
	}
}

// store binds the cart identity to this request's cookie pair.
func (h *CartHandler) store(w http.ResponseWriter, r *http.Request) cartid.Store {
	return cartid.NewCookieStore(w, r, h.secure)
}

type addLinesRequestDTO struct {
	Lines []struct {
		MerchandiseID string `json:"merchandise_id"`
		Quantity      int    `json:"quantity"`
	} `json:"lines"`
}

type updateLineRequestDTO struct {
	LineID   string `json:"line_id"`
	Quantity int    `json:"quantity"`
}

type removeLinesRequestDTO struct {
	LineIDs []string `json:"line_ids"`
}

// EnsureCart resolves (or lazily creates) the browser's cart.
func (h *CartHandler) EnsureCart(w http.ResponseWriter, r *http.Request) {
	id, err := h.carts.EnsureCart(r.Context(), h.store(w, r))
	if err != nil {
		respondGatewayError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"cart_id": id})
}

// GetCart returns the current snapshot. No persisted identifier means
// an empty cart, not an error and not a gateway call.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, _ := h.store(w, r).Get()

	snap, err := h.carts.GetSnapshot(r.Context(), id)
	if err != nil {
		respondGatewayError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// AddLines adds one or more merchandise lines, creating the cart first
// if the browser has none. Quantities are clamped into [1,10] at this
// boundary; out-of-range values never reach the platform.
func (h *CartHandler) AddLines(w http.ResponseWriter, r *http.Request) {
	var req addLinesRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(req.Lines) == 0 {
		respondError(w, http.StatusBadRequest, "no_lines", "at least one line is required")
		return
	}

	lines := make([]domain.LineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		if l.MerchandiseID == "" {
			respondError(w, http.StatusBadRequest, "invalid_merchandise_id", "merchandise_id is required")
			return
		}
		lines = append(lines, domain.LineInput{
			MerchandiseID: l.MerchandiseID,
			Quantity:      domain.ClampQuantity(l.Quantity),
		})
	}

	store := h.store(w, r)
	cartID, err := h.carts.EnsureCart(r.Context(), store)
	if err != nil {
		respondGatewayError(w, err)
		return
	}

	if err := h.carts.AddLines(r.Context(), cartID, lines); err != nil {
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"cart_id": cartID})
}

// UpdateLine changes one line's quantity, clamped into [1,10].
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var req updateLineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.LineID == "" {
		respondError(w, http.StatusBadRequest, "invalid_line_id", "line_id is required")
		return
	}

	cartID, ok := h.store(w, r).Get()
	if !ok {
		respondError(w, http.StatusBadRequest, "no_cart", "no cart to operate on")
		return
	}

	quantity := domain.ClampQuantity(req.Quantity)
	if err := h.carts.UpdateLineQuantity(r.Context(), cartID, req.LineID, quantity); err != nil {
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"cart_id": cartID})
}

// RemoveLines removes one or more lines.
func (h *CartHandler) RemoveLines(w http.ResponseWriter, r *http.Request) {
	var req removeLinesRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(req.LineIDs) == 0 {
		respondError(w, http.StatusBadRequest, "no_lines", "at least one line_id is required")
		return
	}

	cartID, ok := h.store(w, r).Get()
	if !ok {
		respondError(w, http.StatusBadRequest, "no_cart", "no cart to operate on")
		return
	}

	if err := h.carts.RemoveLines(r.Context(), cartID, req.LineIDs); err != nil {
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"cart_id": cartID})
}
