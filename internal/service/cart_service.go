package service

import (
	"context"

	"cart-service/internal/apperr"
	"cart-service/internal/models"
	"cart-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService resolves and projects per-owner carts
type CartService struct {
	store  Store
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store Store) *CartService {
	return &CartService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// GetOrCreate returns the owner's cart, lazily creating it on first
// access. A concurrent creation race is decided by the store's unique
// owner constraint; the loser re-fetches the winner's cart.
func (s *CartService) GetOrCreate(ctx context.Context, ownerID string) (*models.Cart, error) {
	if ownerID == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "owner id must not be empty")
	}

	cart, err := s.store.GetCartByOwner(ctx, ownerID)
	if err == nil {
		return cart, nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	cart = &models.Cart{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
	}
	err = s.store.CreateCart(ctx, cart)
	if err == nil {
		s.logger.Info("Cart created",
			zap.String("cart_id", cart.ID),
			zap.String("owner_id", ownerID))
		return cart, nil
	}
	if apperr.IsKind(err, apperr.KindConflict) {
		// Lost the creation race; the other caller's cart is ours.
		return s.store.GetCartByOwner(ctx, ownerID)
	}
	return nil, err
}

// View returns the formatted projection of the owner's cart, with
// line and cart totals computed on read.
func (s *CartService) View(ctx context.Context, ownerID string) (*models.CartView, error) {
	cart, err := s.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return models.NewCartView(cart), nil
}
