package http

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/webhook"
)

// Platform webhook headers.
const (
	headerHMAC  = "X-Shopify-Hmac-Sha256"
	headerTopic = "X-Shopify-Topic"
	headerShop  = "X-Shopify-Shop-Domain"
)

type WebhookHandler struct {
	secret    string
	processor *webhook.Processor
	maxBody   int64
	log       *zap.Logger
}

func NewWebhookHandler(secret string, processor *webhook.Processor, maxBody int64, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		secret:    secret,
		processor: processor,
		maxBody:   maxBody,
		log:       log,
	}
}

// Handle receives a platform webhook delivery. The signature is checked
// over the raw body before any parsing side effects; failures are 401,
// processing errors 500 so the platform redelivers, everything else 200.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBody))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "read_failed", "webhook processing failed")
		return
	}

	if !webhook.Verify(body, r.Header.Get(headerHMAC), h.secret) {
		h.log.Warn("invalid webhook signature", zap.String("topic", r.Header.Get(headerTopic)))
		respondError(w, http.StatusUnauthorized, "invalid_signature", "invalid signature")
		return
	}

	topic := r.Header.Get(headerTopic)
	shop := r.Header.Get(headerShop)

	if err := h.processor.Process(r.Context(), topic, shop, body); err != nil {
		h.log.Error("webhook processing failed", zap.String("topic", topic), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "processing_failed", "webhook processing failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"topic": topic})
}
