package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kommerce/shop/internal/logging"
	"github.com/kommerce/shop/internal/models"
	"github.com/kommerce/shop/internal/repo"
	"github.com/kommerce/shop/internal/transport"
)

// CartService maintains the single active cart per user. Every mutation
// recomputes the derived totals from current product prices and persists the
// cart before returning, so the stored totals never drift from the items.
type CartService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

// Get returns the user's cart expanded with product details, or a synthetic
// empty cart when none exists. Never a not-found error.
func (s *CartService) Get(ctx context.Context, userID uint) (*transport.CartView, error) {
	cart, err := s.Repo.FindCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyCartView(userID), nil
		}
		return nil, err
	}

	view, err := s.recompute(ctx, cart)
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *CartService) Add(ctx context.Context, userID, productID uint, quantity int) (*transport.CartView, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", userID)

	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}

	if _, err := s.Repo.FindProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product with that ID does not exist", ErrNotFound)
		}
		return nil, err
	}

	cart, err := s.Repo.FindCartByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		cart = &models.Cart{UserID: userID}
	}

	// Same product again accumulates onto the existing line, it never
	// becomes a second line item.
	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += uint(quantity)
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: uint(quantity)})
	}

	view, err := s.recompute(ctx, cart)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}

	l.Info("item added to cart", "product_id", productID, "quantity", quantity)
	publish(ctx, s.Events, TopicCartEvents, fmt.Sprint(userID), map[string]interface{}{
		"type":       "cart_item_added",
		"userID":     userID,
		"productID":  productID,
		"quantity":   quantity,
		"totalItems": cart.TotalItems,
	})
	return view, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) (*transport.CartView, error) {
	l := logging.FromContext(ctx).With("svc", "cart.update", "user_id", userID)

	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	cart, err := s.Repo.FindCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart not found", ErrNotFound)
		}
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = uint(quantity)
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: product not found in cart", ErrNotFound)
	}

	view, err := s.recompute(ctx, cart)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}

	l.Info("cart item updated", "product_id", productID, "quantity", quantity)
	publish(ctx, s.Events, TopicCartEvents, fmt.Sprint(userID), map[string]interface{}{
		"type":      "cart_item_updated",
		"userID":    userID,
		"productID": productID,
		"quantity":  quantity,
	})
	return view, nil
}

// RemoveItem drops one line item. The cart row survives even when it ends
// up empty.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) (*transport.CartView, error) {
	l := logging.FromContext(ctx).With("svc", "cart.remove", "user_id", userID)

	cart, err := s.Repo.FindCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart not found", ErrNotFound)
		}
		return nil, err
	}

	kept := cart.Items[:0]
	removed := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil, fmt.Errorf("%w: product not found in cart", ErrNotFound)
	}
	cart.Items = kept

	view, err := s.recompute(ctx, cart)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}

	l.Info("cart item removed", "product_id", productID)
	publish(ctx, s.Events, TopicCartEvents, fmt.Sprint(userID), map[string]interface{}{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": productID,
	})
	return view, nil
}

// recompute re-reads current product prices, rewrites the cart's derived
// totals and builds the expanded view. Totals reflect live pricing, not
// pricing at add time.
func (s *CartService) recompute(ctx context.Context, cart *models.Cart) (*transport.CartView, error) {
	ids := make([]uint, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products := map[uint]models.Product{}
	if len(ids) > 0 {
		var err error
		products, err = s.Repo.ProductsByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	view := &transport.CartView{
		UserID: cart.UserID,
		Items:  make([]transport.CartItemView, 0, len(cart.Items)),
	}

	var totalAmount float64
	var totalItems uint
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d is no longer available", ErrValidation, item.ProductID)
		}
		lineTotal := product.Price * float64(item.Quantity)
		totalAmount += lineTotal
		totalItems += item.Quantity
		view.Items = append(view.Items, transport.CartItemView{
			Product:   product,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
	}

	cart.TotalAmount = totalAmount
	cart.TotalItems = totalItems
	view.TotalAmount = totalAmount
	view.TotalCartItems = totalItems
	return view, nil
}

func emptyCartView(userID uint) *transport.CartView {
	return &transport.CartView{
		UserID: userID,
		Items:  []transport.CartItemView{},
	}
}
