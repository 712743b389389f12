package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/currency"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/shopify"
)

// ProductGateway is the slice of the platform client the catalog
// passthrough needs.
type ProductGateway interface {
	ListProducts(ctx context.Context, first int) ([]domain.Product, error)
	ProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
}

type ProductHandler struct {
	gateway ProductGateway
	log     *zap.Logger
}

func NewProductHandler(gateway ProductGateway, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		gateway: gateway,
		log:     log,
	}
}

// productResponse decorates a product with a display price rendered
// in the conventions of its currency.
type productResponse struct {
	domain.Product
	FormattedMinPrice string `json:"formatted_min_price"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		Product:           p,
		FormattedMinPrice: currency.FormatPrice(p.MinPrice.Amount, p.MinPrice.CurrencyCode),
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.gateway.ListProducts(r.Context(), 20)
	if err != nil {
		respondGatewayError(w, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *ProductHandler) ByHandle(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	if handle == "" {
		respondError(w, http.StatusBadRequest, "invalid_handle", "product handle is required")
		return
	}

	product, err := h.gateway.ProductByHandle(r.Context(), handle)
	if errors.Is(err, shopify.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondGatewayError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(*product))
}
