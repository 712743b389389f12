package cache

import (
	"context"
	"errors"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
)

// SnapshotCache holds point-in-time cart views keyed by cart id. Delete
// after a mutation is the only coherence mechanism: every surface
// refetches and converges on the next read.
type SnapshotCache interface {
	Get(ctx context.Context, cartID string) (*domain.CartSnapshot, error)
	Set(ctx context.Context, cartID string, snap *domain.CartSnapshot) error
	Delete(ctx context.Context, cartID string) error
}

var ErrCacheMiss = errors.New("cache miss")
