package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/kommerce/shop/internal/logging"
	"github.com/kommerce/shop/internal/models"
	"github.com/kommerce/shop/internal/payment"
	"github.com/kommerce/shop/internal/repo"
	"github.com/kommerce/shop/internal/transport"
)

// PaymentProvider opens hosted checkout sessions. Amounts are in the
// currency's minor unit.
type PaymentProvider interface {
	Initialize(ctx context.Context, amountMinorUnits int64, email string) (*payment.Checkout, error)
}

// OrderService converts carts into orders and reconciles asynchronous
// payment confirmations against them.
type OrderService struct {
	Repo    *repo.GormRepo
	Payment PaymentProvider
	Events  EventPublisher
}

// PlaceOrder snapshots the user's cart into an order, opens a checkout
// session and clears the cart. The order is written before the cart is
// deleted and the two writes are not atomic: a failure in between leaves the
// order as the source of truth and the stale cart behind. Provider failure
// is the safe direction: nothing is written and the cart stays intact so
// the user can retry.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint) (*transport.PlaceOrderResponse, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "user_id", userID)

	cart, err := s.Repo.FindCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no cart found for this user", ErrValidation)
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty, add items to cart first", ErrValidation)
	}

	ids := make([]uint, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Billing comes from this snapshot, not from the cart's stored totals.
	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	var totalAmount float64
	var totalItems uint
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d is no longer available", ErrValidation, item.ProductID)
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
		totalAmount += product.Price * float64(item.Quantity)
		totalItems += item.Quantity
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrValidation)
		}
		return nil, err
	}

	amountMinor := int64(math.Round(totalAmount * 100))
	checkout, err := s.Payment.Initialize(ctx, amountMinor, user.Email)
	if err != nil {
		l.Error("payment initialization failed", "error", err)
		return nil, fmt.Errorf("%w: failed to initialize payment: %v", ErrProvider, err)
	}

	order := &models.Order{
		UserID:           userID,
		Items:            orderItems,
		TotalAmount:      totalAmount,
		TotalItems:       totalItems,
		PaymentStatus:    models.PaymentStatusPending,
		PaymentReference: checkout.Reference,
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	// Best effort: the order already exists and the checkout session is
	// live, so a failed cart delete must not fail the placement.
	if err := s.Repo.DeleteCartByUser(ctx, userID); err != nil {
		l.Error("cart delete after order creation failed", "order_id", order.ID, "error", err)
	}

	l.Info("order placed", "order_id", order.ID, "reference", order.PaymentReference, "total", order.TotalAmount)
	publish(ctx, s.Events, TopicOrderEvents, fmt.Sprint(userID), map[string]interface{}{
		"type":      "order_created",
		"userID":    userID,
		"orderID":   order.ID,
		"reference": order.PaymentReference,
		"total":     order.TotalAmount,
	})

	return &transport.PlaceOrderResponse{
		Order:      order,
		PaymentURL: checkout.AuthorizationURL,
	}, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID, limit, offset)
}

// HandlePaymentEvent applies a signature-verified provider confirmation.
// Deliveries are at-least-once and possibly duplicated; paid is terminal, so
// replays of charge.success settle into no-ops. Unknown references and
// unhandled event types are acknowledged without mutation.
func (s *OrderService) HandlePaymentEvent(ctx context.Context, evt transport.WebhookEvent) error {
	l := logging.FromContext(ctx).With("svc", "order.webhook", "event", evt.Event)

	if evt.Event != "charge.success" {
		l.Debug("ignoring unhandled event type")
		return nil
	}

	order, err := s.Repo.FindOrderByReference(ctx, evt.Data.Reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("no order found for payment reference", "reference", evt.Data.Reference)
			return nil
		}
		return err
	}

	if order.PaymentStatus != models.PaymentStatusPending {
		l.Info("order already settled", "order_id", order.ID, "status", order.PaymentStatus)
		return nil
	}

	order.PaymentStatus = models.PaymentStatusPaid
	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return err
	}

	l.Info("payment confirmed", "order_id", order.ID, "reference", order.PaymentReference)
	publish(ctx, s.Events, TopicOrderEvents, fmt.Sprint(order.UserID), map[string]interface{}{
		"type":      "order_paid",
		"userID":    order.UserID,
		"orderID":   order.ID,
		"reference": order.PaymentReference,
	})
	return nil
}
