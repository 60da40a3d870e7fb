package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kommerce/shop/internal/models"
)

func TestCartAdd_CreatesCartAndRecomputesTotals(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	u := seedUser(t, r, "cart@example.com")
	a := seedProduct(t, r, "productA", 10)
	b := seedProduct(t, r, "productB", 5)

	view, err := svc.Add(ctx, u.ID, a.ID, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, float64(20), view.TotalAmount)
	assert.Equal(t, uint(2), view.TotalCartItems)

	view, err = svc.Add(ctx, u.ID, b.ID, 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, float64(25), view.TotalAmount)
	assert.Equal(t, uint(3), view.TotalCartItems)

	// Persisted totals match the returned view.
	cart, err := r.FindCartByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(25), cart.TotalAmount)
	assert.Equal(t, uint(3), cart.TotalItems)
}

func TestCartAdd_SameProductAccumulatesIntoOneLine(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	u := seedUser(t, r, "cart@example.com")
	p := seedProduct(t, r, "productA", 10)

	_, err := svc.Add(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)
	view, err := svc.Add(ctx, u.ID, p.ID, 3)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, uint(5), view.Items[0].Quantity)
	assert.Equal(t, float64(50), view.TotalAmount)
}

func TestCartAdd_Validation(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	u := seedUser(t, r, "cart@example.com")
	p := seedProduct(t, r, "productA", 10)

	_, err := svc.Add(ctx, u.ID, p.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Add(ctx, u.ID, p.ID, -2)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Add(ctx, u.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartTotals_ReflectLivePrices(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	u := seedUser(t, r, "cart@example.com")
	p := seedProduct(t, r, "productA", 10)

	_, err := svc.Add(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)

	p.Price = 15
	require.NoError(t, r.SaveProduct(ctx, p, nil))

	view, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(30), view.TotalAmount)
}

func TestCartGet_MissingCartIsSyntheticEmpty(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	view, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, uint(42), view.UserID)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalAmount)
	assert.Zero(t, view.TotalCartItems)
}

func TestCartUpdateQuantity_ReplacesNotAccumulates(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	u := seedUser(t, r, "cart@example.com")
	p := seedProduct(t, r, "productA", 10)

	_, err := svc.Add(ctx, u.ID, p.ID, 5)
	require.NoError(t, err)

	view, err := svc.UpdateQuantity(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, uint(2), view.Items[0].Quantity)
	assert.Equal(t, float64(20), view.TotalAmount)
}

func TestCartUpdateQuantity_NotFoundLeavesCartUnchanged(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	u := seedUser(t, r, "cart@example.com")
	p := seedProduct(t, r, "productA", 10)
	other := seedProduct(t, r, "productB", 5)

	_, err := svc.Add(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, u.ID, other.ID, 7)
	assert.ErrorIs(t, err, ErrNotFound)

	// No cart at all is also a not-found.
	_, err = svc.UpdateQuantity(ctx, 999, p.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	view, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, uint(2), view.Items[0].Quantity)
}

func TestCartRemoveItem(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	u := seedUser(t, r, "cart@example.com")
	a := seedProduct(t, r, "productA", 10)
	b := seedProduct(t, r, "productB", 5)

	_, err := svc.Add(ctx, u.ID, a.ID, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, u.ID, b.ID, 1)
	require.NoError(t, err)

	view, err := svc.RemoveItem(ctx, u.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, float64(5), view.TotalAmount)
	assert.Equal(t, uint(1), view.TotalCartItems)

	// Removing an absent product fails and mutates nothing.
	_, err = svc.RemoveItem(ctx, u.ID, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	view, err = svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	// Emptying the cart keeps the row around.
	view, err = svc.RemoveItem(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalAmount)

	cart, err := r.FindCartByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartAdd_PublishesEvent(t *testing.T) {
	r := newTestRepo(t)
	pub := &recordingPublisher{}
	svc := &CartService{Repo: r, Events: pub}
	ctx := context.Background()

	u := seedUser(t, r, "cart@example.com")
	p := seedProduct(t, r, "productA", 10)

	_, err := svc.Add(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, TopicCartEvents, pub.events[0]["_topic"])
	assert.Equal(t, "cart_item_added", pub.events[0]["type"])
}

func TestCartRecompute_MissingProductFailsValidation(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	u := seedUser(t, r, "cart@example.com")
	p := seedProduct(t, r, "productA", 10)

	_, err := svc.Add(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)

	require.NoError(t, r.DeleteProduct(ctx, p.ID))

	_, err = svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
