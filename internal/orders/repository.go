package orders

import (
	"context"
	"errors"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// Repository persists the local order projection fed by the orders/*
// webhooks. Webhook delivery is at-least-once, so writes are upserts.
type Repository interface {
	UpsertOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrdersByEmail(ctx context.Context, email string, limit int) ([]domain.Order, error)
	ListRecentOrders(ctx context.Context, limit int) ([]domain.Order, error)
}
