package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
)

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// fakeStorefront answers GraphQL over httptest, routing on the query
// text and recording what arrived.
type fakeStorefront struct {
	t        *testing.T
	server   *httptest.Server
	requests []gqlRequest
	respond  func(req gqlRequest) string
}

func newFakeStorefront(t *testing.T, respond func(req gqlRequest) string) *fakeStorefront {
	t.Helper()
	f := &fakeStorefront{t: t, respond: respond}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("X-Shopify-Storefront-Access-Token"))

		var req gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.requests = append(f.requests, req)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.respond(req)))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeStorefront) client() *Client {
	return NewClient(f.server.URL, "test-token", zap.NewNop())
}

const cartJSON = `{
	"id": "gid://shopify/Cart/abc",
	"checkoutUrl": "https://shop.example/checkout/abc",
	"lines": {
		"edges": [
			{
				"node": {
					"id": "gid://shopify/CartLine/1",
					"quantity": 2,
					"merchandise": {
						"id": "gid://shopify/ProductVariant/11",
						"title": "Small",
						"priceV2": {"amount": "19.99", "currencyCode": "BRL"},
						"product": {
							"title": "Example T-Shirt",
							"images": {"edges": [{"node": {"url": "https://cdn.example/shirt.jpg", "altText": "shirt"}}]}
						}
					}
				}
			}
		]
	},
	"cost": {
		"totalAmount": {"amount": "39.98", "currencyCode": "BRL"},
		"subtotalAmount": {"amount": "39.98", "currencyCode": "BRL"}
	}
}`

func TestGetCart_FlattensConnections(t *testing.T) {
	f := newFakeStorefront(t, func(gqlRequest) string {
		return `{"data": {"cart": ` + cartJSON + `}}`
	})

	snap, err := f.client().GetCart(context.Background(), "gid://shopify/Cart/abc")
	require.NoError(t, err)

	assert.Equal(t, "gid://shopify/Cart/abc", snap.ID)
	assert.Equal(t, "https://shop.example/checkout/abc", snap.CheckoutURL)
	require.Len(t, snap.Lines, 1)
	line := snap.Lines[0]
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "gid://shopify/ProductVariant/11", line.MerchandiseID)
	assert.Equal(t, "Example T-Shirt", line.ProductTitle)
	assert.Equal(t, "https://cdn.example/shirt.jpg", line.ImageURL)
	assert.Equal(t, domain.Money{Amount: "19.99", CurrencyCode: "BRL"}, line.UnitPrice)
	assert.Equal(t, "39.98", snap.Total.Amount)
}

func TestGetCart_NullCartIsNotFound(t *testing.T) {
	f := newFakeStorefront(t, func(gqlRequest) string {
		return `{"data": {"cart": null}}`
	})

	_, err := f.client().GetCart(context.Background(), "gid://shopify/Cart/expired")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCreateCart_ReturnsSnapshot(t *testing.T) {
	f := newFakeStorefront(t, func(gqlRequest) string {
		return `{"data": {"cartCreate": {"cart": ` + cartJSON + `, "userErrors": []}}}`
	})

	snap, err := f.client().CreateCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/abc", snap.ID)
}

func TestCreateCart_NullCartWithoutUserErrorsIsAnError(t *testing.T) {
	f := newFakeStorefront(t, func(gqlRequest) string {
		return `{"data": {"cartCreate": {"cart": null, "userErrors": []}}}`
	})

	_, err := f.client().CreateCart(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart missing")
}

func TestAddCartLines_SendsAllLinesInOneRequest(t *testing.T) {
	f := newFakeStorefront(t, func(gqlRequest) string {
		return `{"data": {"cartLinesAdd": {"cart": {"id": "gid://shopify/Cart/abc"}, "userErrors": []}}}`
	})

	err := f.client().AddCartLines(context.Background(), "gid://shopify/Cart/abc", []domain.LineInput{
		{MerchandiseID: "gid://shopify/ProductVariant/11", Quantity: 1},
		{MerchandiseID: "gid://shopify/ProductVariant/12", Quantity: 3},
	})
	require.NoError(t, err)

	require.Len(t, f.requests, 1)
	lines, ok := f.requests[0].Variables["lines"].([]interface{})
	require.True(t, ok)
	require.Len(t, lines, 2)
	first, ok := lines[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "gid://shopify/ProductVariant/11", first["merchandiseId"])
	assert.Equal(t, float64(1), first["quantity"])
}

func TestAddCartLines_UserErrorSurfacesAsDomainError(t *testing.T) {
	f := newFakeStorefront(t, func(gqlRequest) string {
		return `{"data": {"cartLinesAdd": {"cart": null,
			"userErrors": [{"field": ["lines"], "message": "Merchandise is sold out"}]}}}`
	})

	err := f.client().AddCartLines(context.Background(), "gid://shopify/Cart/abc", []domain.LineInput{
		{MerchandiseID: "gid://shopify/ProductVariant/11", Quantity: 1},
	})

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Merchandise is sold out", domainErr.Message)
}

func TestCreateAccessToken_InvalidCredentials(t *testing.T) {
	f := newFakeStorefront(t, func(gqlRequest) string {
		return `{"data": {"customerAccessTokenCreate": {"customerAccessToken": null,
			"customerUserErrors": [{"code": "UNIDENTIFIED_CUSTOMER", "field": null, "message": "Unidentified customer"}]}}}`
	})

	_, err := f.client().CreateAccessToken(context.Background(), "ana@example.com", "wrong")

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Unidentified customer", domainErr.Message)
}

func TestCreateAccessToken_Success(t *testing.T) {
	f := newFakeStorefront(t, func(gqlRequest) string {
		return `{"data": {"customerAccessTokenCreate": {
			"customerAccessToken": {"accessToken": "tok-123", "expiresAt": "2026-09-30T00:00:00Z"},
			"customerUserErrors": []}}}`
	})

	token, err := f.client().CreateAccessToken(context.Background(), "ana@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestProductByHandle_NullIsNotFound(t *testing.T) {
	f := newFakeStorefront(t, func(gqlRequest) string {
		return `{"data": {"productByHandle": null}}`
	})

	_, err := f.client().ProductByHandle(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListProducts(t *testing.T) {
	f := newFakeStorefront(t, func(gqlRequest) string {
		return `{"data": {"products": {"edges": [
			{"node": {"id": "gid://shopify/Product/1", "title": "Example T-Shirt", "handle": "example-t-shirt",
				"priceRange": {"minVariantPrice": {"amount": "19.99", "currencyCode": "BRL"}},
				"images": {"edges": [{"node": {"url": "https://cdn.example/shirt.jpg", "altText": ""}}]}}}
		]}}}`
	})

	products, err := f.client().ListProducts(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "example-t-shirt", products[0].Handle)
	assert.Equal(t, "19.99", products[0].MinPrice.Amount)
	require.Len(t, products[0].Images, 1)
}

func TestRun_GraphQLErrorsAreWrapped(t *testing.T) {
	f := newFakeStorefront(t, func(gqlRequest) string {
		return `{"errors": [{"message": "Throttled"}]}`
	})

	_, err := f.client().GetCart(context.Background(), "gid://shopify/Cart/abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storefront request")
	assert.NotErrorIs(t, err, ErrCartNotFound)
}

func TestRun_TransportFailure(t *testing.T) {
	f := newFakeStorefront(t, func(gqlRequest) string { return "{}" })
	c := f.client()
	f.server.Close()

	_, err := c.GetCart(context.Background(), "gid://shopify/Cart/abc")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "storefront request"))
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	f := newFakeStorefront(t, func(gqlRequest) string {
		return `{"data": {"customerCreate": {"customer": null,
			"customerUserErrors": [{"code": "TAKEN", "field": ["email"], "message": "Email has already been taken"}]}}}`
	})

	_, err := f.client().CreateCustomer(context.Background(), domain.RegisterInput{
		Email:    "taken@example.com",
		Password: "hunter22",
	})

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "Email has already been taken", domainErr.Message)
}
