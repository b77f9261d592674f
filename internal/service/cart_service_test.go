package service

import (
	"context"
	"testing"

	"cart-service/internal/apperr"
	"cart-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateExisting(t *testing.T) {
	st := &MockStore{}
	svc := NewCartService(st)
	ctx := context.Background()

	existing := &models.Cart{ID: "cart-1", OwnerID: "user-1"}
	st.On("GetCartByOwner", ctx, "user-1").Return(existing, nil)

	cart, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)
	st.AssertNotCalled(t, "CreateCart", mock.Anything, mock.Anything)
}

func TestGetOrCreateLazilyCreates(t *testing.T) {
	st := &MockStore{}
	svc := NewCartService(st)
	ctx := context.Background()

	st.On("GetCartByOwner", ctx, "user-1").
		Return(nil, apperr.New(apperr.KindNotFound, "cart not found for owner: user-1"))
	st.On("CreateCart", ctx, mock.MatchedBy(func(c *models.Cart) bool {
		return c.OwnerID == "user-1" && c.ID != ""
	})).Return(nil)

	cart, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", cart.OwnerID)
	st.AssertExpectations(t)
}

func TestGetOrCreateLosesRace(t *testing.T) {
	st := &MockStore{}
	svc := NewCartService(st)
	ctx := context.Background()

	winner := &models.Cart{ID: "cart-winner", OwnerID: "user-1"}

	// First fetch misses, the create loses on the unique constraint,
	// the re-fetch finds the winner's cart.
	st.On("GetCartByOwner", ctx, "user-1").
		Return(nil, apperr.New(apperr.KindNotFound, "cart not found for owner: user-1")).Once()
	st.On("CreateCart", ctx, mock.Anything).
		Return(apperr.New(apperr.KindConflict, "cart already exists for owner: user-1"))
	st.On("GetCartByOwner", ctx, "user-1").Return(winner, nil).Once()

	cart, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "cart-winner", cart.ID)
	st.AssertExpectations(t)
}

func TestGetOrCreateEmptyOwner(t *testing.T) {
	svc := NewCartService(&MockStore{})

	_, err := svc.GetOrCreate(context.Background(), "")
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
}

func TestViewComputesTotals(t *testing.T) {
	st := &MockStore{}
	svc := NewCartService(st)
	ctx := context.Background()

	cart := &models.Cart{
		ID:      "cart-1",
		OwnerID: "user-1",
		Items: []models.CartItem{
			{ProductID: "p1", ProductName: "Widget", Quantity: 3, ProductPrice: decimal.NewFromFloat(10.00)},
		},
	}
	st.On("GetCartByOwner", ctx, "user-1").Return(cart, nil)

	view, err := svc.View(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Items[0].LineTotal.Equal(decimal.NewFromFloat(30.00)))
	assert.True(t, view.Total.Equal(decimal.NewFromFloat(30.00)))
}
