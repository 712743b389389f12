// Package webhook verifies and processes the commerce platform's
// outbound webhooks: signature checking, topic dispatch into the local
// projections, and an optional relay onto Kafka.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
)

// Topics this storefront handles. Anything else is acknowledged and
// logged so the platform stops redelivering it.
const (
	TopicOrdersCreate    = "orders/create"
	TopicOrdersUpdated   = "orders/updated"
	TopicProductsCreate  = "products/create"
	TopicProductsUpdate  = "products/update"
	TopicInventoryUpdate = "inventory_levels/update"
)

// OrderStore receives order projections.
type OrderStore interface {
	UpsertOrder(ctx context.Context, order *domain.Order) error
}

// CatalogStore receives product and inventory projections.
type CatalogStore interface {
	UpsertProduct(ctx context.Context, p *domain.CatalogProduct) error
	UpdateInventory(ctx context.Context, inventoryItemID int64, available int) error
}

// Publisher relays verified events downstream.
type Publisher interface {
	Publish(ctx context.Context, topic, shop string, body []byte) error
}

// Processor dispatches verified webhook bodies by topic. Any nil
// collaborator disables that concern: a storefront without Postgres
// still acknowledges order webhooks.
type Processor struct {
	orders  OrderStore
	catalog CatalogStore
	relay   Publisher
	log     *zap.Logger
}

func NewProcessor(orders OrderStore, catalog CatalogStore, relay Publisher, log *zap.Logger) *Processor {
	return &Processor{
		orders:  orders,
		catalog: catalog,
		relay:   relay,
		log:     log,
	}
}

// Process handles one verified webhook delivery. A returned error means
// the delivery must be answered 500 so the platform redelivers it.
func (p *Processor) Process(ctx context.Context, topic, shop string, body []byte) error {
	p.log.Info("webhook received", zap.String("topic", topic), zap.String("shop", shop))

	switch topic {
	case TopicOrdersCreate, TopicOrdersUpdated:
		if err := p.processOrder(ctx, body); err != nil {
			return err
		}
	case TopicProductsCreate, TopicProductsUpdate:
		if err := p.processProduct(ctx, body); err != nil {
			return err
		}
	case TopicInventoryUpdate:
		if err := p.processInventory(ctx, body); err != nil {
			return err
		}
	default:
		p.log.Info("unhandled webhook topic", zap.String("topic", topic))
		return nil
	}

	if p.relay != nil {
		// A failed relay fails the whole delivery; the platform's
		// redelivery keeps the downstream stream complete.
		if err := p.relay.Publish(ctx, topic, shop, body); err != nil {
			return err
		}
	}
	return nil
}

type orderPayload struct {
	ID              int64              `json:"id"`
	OrderNumber     int64              `json:"order_number"`
	Email           string             `json:"email"`
	TotalPrice      float64            `json:"total_price,string"`
	Currency        string             `json:"currency"`
	FinancialStatus string             `json:"financial_status"`
	LineItems       []domain.OrderItem `json:"line_items"`
}

func (p *Processor) processOrder(ctx context.Context, body []byte) error {
	var payload orderPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decode order webhook: %w", err)
	}
	if payload.ID == 0 {
		return fmt.Errorf("order webhook missing id")
	}
	if p.orders == nil {
		return nil
	}

	order := &domain.Order{
		ID:              payload.ID,
		OrderNumber:     payload.OrderNumber,
		Email:           payload.Email,
		TotalPrice:      payload.TotalPrice,
		Currency:        payload.Currency,
		FinancialStatus: payload.FinancialStatus,
		Items:           payload.LineItems,
	}
	return p.orders.UpsertOrder(ctx, order)
}

type productPayload struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	Status   string `json:"status"`
	Variants []struct {
		ID                int64   `json:"id"`
		Title             string  `json:"title"`
		Price             float64 `json:"price,string"`
		SKU               string  `json:"sku"`
		InventoryItemID   int64   `json:"inventory_item_id"`
		InventoryQuantity int     `json:"inventory_quantity"`
	} `json:"variants"`
}

func (p *Processor) processProduct(ctx context.Context, body []byte) error {
	var payload productPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decode product webhook: %w", err)
	}
	if payload.ID == 0 {
		return fmt.Errorf("product webhook missing id")
	}
	if p.catalog == nil {
		return nil
	}

	product := &domain.CatalogProduct{
		ID:     payload.ID,
		Title:  payload.Title,
		Handle: payload.Handle,
		Status: payload.Status,
	}
	for _, v := range payload.Variants {
		product.Variants = append(product.Variants, domain.CatalogVariant{
			ID:                v.ID,
			Title:             v.Title,
			Price:             v.Price,
			SKU:               v.SKU,
			InventoryItemID:   v.InventoryItemID,
			InventoryQuantity: v.InventoryQuantity,
		})
	}
	return p.catalog.UpsertProduct(ctx, product)
}

type inventoryPayload struct {
	InventoryItemID int64 `json:"inventory_item_id"`
	Available       int   `json:"available"`
}

func (p *Processor) processInventory(ctx context.Context, body []byte) error {
	var payload inventoryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decode inventory webhook: %w", err)
	}
	if p.catalog == nil {
		return nil
	}
	return p.catalog.UpdateInventory(ctx, payload.InventoryItemID, payload.Available)
}
