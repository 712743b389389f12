package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/cart"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/shopify"
)

// envelope is the uniform response shape of every API endpoint. Callers
// render error states from it without exception handling.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Error: message, Code: code}); err != nil {
		zap.L().Warn("failed to encode error response", zap.Error(err))
	}
}

// respondGatewayError maps cart/gateway failures onto the uniform
// envelope. Domain errors carry the platform's message verbatim;
// transport failures get a generic message and never leak internals.
func respondGatewayError(w http.ResponseWriter, err error) {
	var domainErr *shopify.DomainError
	switch {
	case errors.As(err, &domainErr):
		respondError(w, http.StatusUnprocessableEntity, "user_error", domainErr.Message)
	case errors.Is(err, cart.ErrQuantityOutOfRange):
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 10")
	case errors.Is(err, cart.ErrNoCart):
		respondError(w, http.StatusBadRequest, "no_cart", "no cart to operate on")
	case errors.Is(err, cart.ErrNoLines):
		respondError(w, http.StatusBadRequest, "no_lines", "nothing to apply")
	case errors.Is(err, shopify.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not found")
	default:
		respondError(w, http.StatusBadGateway, "gateway_error", "failed to reach the commerce platform")
	}
}
