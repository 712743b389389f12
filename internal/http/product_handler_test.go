package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/shopify"
)

type stubProductGateway struct {
	products []domain.Product
	err      error
}

func (g *stubProductGateway) ListProducts(_ context.Context, first int) ([]domain.Product, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.products, nil
}

func (g *stubProductGateway) ProductByHandle(_ context.Context, handle string) (*domain.Product, error) {
	if g.err != nil {
		return nil, g.err
	}
	for i := range g.products {
		if g.products[i].Handle == handle {
			return &g.products[i], nil
		}
	}
	return nil, shopify.ErrProductNotFound
}

func productRouterFor(gw *stubProductGateway) chi.Router {
	h := NewProductHandler(gw, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/products", h.List)
	r.Get("/products/{handle}", h.ByHandle)
	return r
}

func TestProductHandler_List(t *testing.T) {
	r := productRouterFor(&stubProductGateway{products: []domain.Product{
		{ID: "gid://shopify/Product/1", Handle: "example-t-shirt", Title: "Example T-Shirt",
			MinPrice: domain.Money{Amount: "19.99", CurrencyCode: "BRL"}},
		{ID: "gid://shopify/Product/2", Handle: "aviator-sunglasses", Title: "Aviator Sunglasses",
			MinPrice: domain.Money{Amount: "129.90", CurrencyCode: "BRL"}},
	}})

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var env struct {
		Success bool `json:"success"`
		Data    []struct {
			domain.Product
			FormattedMinPrice string `json:"formatted_min_price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Len(t, env.Data, 2)
	assert.Equal(t, "R$ 19,99", env.Data[0].FormattedMinPrice)
	assert.Equal(t, "R$ 129,90", env.Data[1].FormattedMinPrice)
}

func TestProductHandler_ByHandle(t *testing.T) {
	r := productRouterFor(&stubProductGateway{products: []domain.Product{
		{ID: "gid://shopify/Product/1", Handle: "example-t-shirt", Title: "Example T-Shirt",
			MinPrice: domain.Money{Amount: "19.99", CurrencyCode: "BRL"}},
	}})

	req := httptest.NewRequest(http.MethodGet, "/products/example-t-shirt", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Example T-Shirt")
	assert.Contains(t, rr.Body.String(), `"formatted_min_price":"R$ 19,99"`)
}

func TestProductHandler_UnknownHandleIs404(t *testing.T) {
	r := productRouterFor(&stubProductGateway{})

	req := httptest.NewRequest(http.MethodGet, "/products/nope", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "not_found", env.Code)
}

func TestProductHandler_GatewayFailureIs502(t *testing.T) {
	r := productRouterFor(&stubProductGateway{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadGateway, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection refused", "transport details must not leak")
}
