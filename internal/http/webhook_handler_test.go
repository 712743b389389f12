package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/webhook"
)

const webhookSecret = "whsec_test"

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

type recordingOrderStore struct {
	mu     sync.Mutex
	orders []*domain.Order
}

func (s *recordingOrderStore) UpsertOrder(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, order)
	return nil
}

func newWebhookTestHandler(orders webhook.OrderStore) *WebhookHandler {
	p := webhook.NewProcessor(orders, nil, nil, zap.NewNop())
	return NewWebhookHandler(webhookSecret, p, 1<<20, zap.NewNop())
}

func deliver(h *WebhookHandler, topic string, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks", bytes.NewReader(body))
	req.Header.Set("X-Shopify-Topic", topic)
	req.Header.Set("X-Shopify-Shop-Domain", "shop.myshopify.com")
	if signature != "" {
		req.Header.Set("X-Shopify-Hmac-Sha256", signature)
	}
	rr := httptest.NewRecorder()
	h.Handle(rr, req)
	return rr
}

func TestWebhookHandler_ValidSignatureAccepted(t *testing.T) {
	orders := &recordingOrderStore{}
	h := newWebhookTestHandler(orders)

	body := []byte(`{"id": 1001, "order_number": 1, "email": "jon@example.com", "total_price": "10.00", "currency": "BRL", "financial_status": "paid"}`)
	rr := deliver(h, "orders/create", body, signBody(body))

	require.Equal(t, http.StatusOK, rr.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.True(t, env.Success)
	require.Len(t, orders.orders, 1)
	assert.Equal(t, int64(1001), orders.orders[0].ID)
}

func TestWebhookHandler_TamperedBodyRejectedBeforeProcessing(t *testing.T) {
	orders := &recordingOrderStore{}
	h := newWebhookTestHandler(orders)

	body := []byte(`{"id": 1001}`)
	sig := signBody(body)
	tampered := []byte(`{"id": 1002}`)
	rr := deliver(h, "orders/create", tampered, sig)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, orders.orders, "tampered deliveries must have no side effects")
}

func TestWebhookHandler_MissingSignatureRejected(t *testing.T) {
	h := newWebhookTestHandler(&recordingOrderStore{})

	rr := deliver(h, "orders/create", []byte(`{"id": 1}`), "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWebhookHandler_ProcessingFailureAnswers500(t *testing.T) {
	h := newWebhookTestHandler(&recordingOrderStore{})

	// Valid signature over a body the processor cannot decode.
	body := []byte(`{"id": "not-a-number"}`)
	rr := deliver(h, "orders/create", body, signBody(body))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "processing_failed", env.Code)
}

func TestWebhookHandler_UnhandledTopicAcknowledged(t *testing.T) {
	h := newWebhookTestHandler(&recordingOrderStore{})

	body := []byte(`{"id": 1}`)
	rr := deliver(h, "customers/delete", body, signBody(body))
	assert.Equal(t, http.StatusOK, rr.Code)
}
