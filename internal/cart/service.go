// Package cart is the synchronization layer between the storefront's UI
// surfaces and the remote cart owned by the commerce platform. Every
// mutation round-trips through the platform and invalidates the cached
// snapshot, so all surfaces refetch and converge on the same view.
package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/cache"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/cartid"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/shopify"
)

var (
	// ErrQuantityOutOfRange marks a quantity that never reaches the
	// platform.
	ErrQuantityOutOfRange = errors.New("quantity out of range")

	// ErrNoCart marks a mutation attempted without a resolvable cart id.
	ErrNoCart = errors.New("no cart identifier")

	// ErrNoLines marks a mutation carrying nothing to apply.
	ErrNoLines = errors.New("no lines given")
)

// Gateway is the slice of the platform client the cart layer needs.
type Gateway interface {
	CreateCart(ctx context.Context) (*domain.CartSnapshot, error)
	AddCartLines(ctx context.Context, cartID string, lines []domain.LineInput) error
	UpdateCartLine(ctx context.Context, cartID, lineID string, quantity int) error
	RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) error
	GetCart(ctx context.Context, cartID string) (*domain.CartSnapshot, error)
}

type Service struct {
	gateway Gateway
	cache   cache.SnapshotCache
	log     *zap.Logger
	sfg     singleflight.Group // prevents cache stampede per cart id

	// mu serializes cache fills against invalidations. gens counts
	// invalidations per cart id; a fill whose fetch began before the
	// latest invalidation is dropped, so a slow read can never re-cache
	// a pre-mutation snapshot.
	mu   sync.Mutex
	gens map[string]uint64
}

func NewService(gateway Gateway, cache cache.SnapshotCache, log *zap.Logger) *Service {
	return &Service{
		gateway: gateway,
		cache:   cache,
		log:     log,
		gens:    make(map[string]uint64),
	}
}

// EnsureCart returns the persisted cart identifier, creating a remote
// cart only when none is persisted. The store is re-checked immediately
// before persisting: an identifier that appeared during the create await
// wins and the freshly created cart is abandoned. Called twice in
// sequence with a persisted id, the second call issues zero create calls.
func (s *Service) EnsureCart(ctx context.Context, store cartid.Store) (string, error) {
	if id, ok := store.Get(); ok {
		return id, nil
	}

	snap, err := s.gateway.CreateCart(ctx)
	if err != nil {
		return "", err
	}

	if id, ok := store.Get(); ok {
		// Lost the first-visit race. The winner's cart is already
		// persisted; the one just created stays empty and expires
		// on the platform side.
		s.log.Debug("cart create race lost, keeping persisted id",
			zap.String("persisted", id), zap.String("abandoned", snap.ID))
		return id, nil
	}

	store.Set(snap.ID)
	return snap.ID, nil
}

// AddLine adds a single merchandise line.
func (s *Service) AddLine(ctx context.Context, cartID, merchandiseID string, quantity int) error {
	return s.AddLines(ctx, cartID, []domain.LineInput{
		{MerchandiseID: merchandiseID, Quantity: quantity},
	})
}

// AddLines adds all given lines in one gateway round trip, then
// invalidates the snapshot for cartID.
func (s *Service) AddLines(ctx context.Context, cartID string, lines []domain.LineInput) error {
	if cartID == "" {
		return ErrNoCart
	}
	if len(lines) == 0 {
		return ErrNoLines
	}
	for _, l := range lines {
		if !domain.ValidQuantity(l.Quantity) {
			return ErrQuantityOutOfRange
		}
	}

	if err := s.gateway.AddCartLines(ctx, cartID, lines); err != nil {
		s.log.Warn("add cart lines failed", zap.String("cart_id", cartID), zap.Error(err))
		return err
	}

	s.invalidate(cartID)
	return nil
}

// UpdateLineQuantity changes one line's quantity. Out-of-range values
// are rejected here; the platform never sees them.
func (s *Service) UpdateLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error {
	if cartID == "" {
		return ErrNoCart
	}
	if !domain.ValidQuantity(quantity) {
		return ErrQuantityOutOfRange
	}

	if err := s.gateway.UpdateCartLine(ctx, cartID, lineID, quantity); err != nil {
		s.log.Warn("update cart line failed", zap.String("cart_id", cartID), zap.Error(err))
		return err
	}

	s.invalidate(cartID)
	return nil
}

// RemoveLines removes one or more lines, then invalidates the snapshot.
func (s *Service) RemoveLines(ctx context.Context, cartID string, lineIDs []string) error {
	if cartID == "" {
		return ErrNoCart
	}
	if len(lineIDs) == 0 {
		return ErrNoLines
	}

	if err := s.gateway.RemoveCartLines(ctx, cartID, lineIDs); err != nil {
		s.log.Warn("remove cart lines failed", zap.String("cart_id", cartID), zap.Error(err))
		return err
	}

	s.invalidate(cartID)
	return nil
}

// GetSnapshot returns the current view of the cart. An absent identifier
// yields an empty cart without touching the gateway, and so does a cart
// the platform has expired.
func (s *Service) GetSnapshot(ctx context.Context, cartID string) (*domain.CartSnapshot, error) {
	if cartID == "" {
		return domain.EmptyCart(""), nil
	}

	v, err, _ := s.sfg.Do(cartID, func() (interface{}, error) {
		snap, err := s.cache.Get(ctx, cartID)
		if err == nil {
			return snap, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("snapshot cache get failed", zap.String("cart_id", cartID), zap.Error(err))
		}

		gen := s.generation(cartID)
		snap, err = s.gateway.GetCart(ctx, cartID)
		if errors.Is(err, shopify.ErrCartNotFound) {
			// Stale identifier: the remote cart expired. Treated as
			// absent, never as an error that blocks checkout.
			return domain.EmptyCart(cartID), nil
		}
		if err != nil {
			return nil, err
		}

		s.fillCache(cartID, gen, snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.CartSnapshot), nil
}

func (s *Service) generation(cartID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[cartID]
}

// fillCache stores a fetched snapshot unless the cart was invalidated
// after the fetch began. Fill and invalidation run under the same lock,
// so whichever lands second wins the cache state.
func (s *Service) fillCache(cartID string, gen uint64, snap *domain.CartSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[cartID] != gen {
		s.log.Debug("dropping snapshot fill for invalidated cart", zap.String("cart_id", cartID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, cartID, snap); err != nil {
		s.log.Warn("snapshot cache set failed", zap.String("cart_id", cartID), zap.Error(err))
	}
}

// invalidate drops the cached snapshot so every surface refetches. A
// failed delete is only logged: a cache that cannot be deleted cannot be
// read either, so surfaces still converge via the miss path.
func (s *Service) invalidate(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[cartID]++

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, cartID); err != nil {
		s.log.Warn("snapshot cache invalidate failed", zap.String("cart_id", cartID), zap.Error(err))
	}
}
