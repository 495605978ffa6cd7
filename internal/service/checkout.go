package service

import (
	"context"
	"strings"

	"github.com/atelierhq/workshop-studio/internal/model"
)

// CheckoutService turns a cart into an order.  Unit prices are
// captured from the live products at purchase time and stock is taken
// with the same conditional-update discipline as workshop seats, so
// two concurrent checkouts can never oversell the last unit.  Payment
// is simulated: a successful checkout creates the order directly in
// PAID state.
type CheckoutService struct {
	store    Store
	notifier Notifier
}

// NewCheckoutService wires the service to its store and notifier.
func NewCheckoutService(store Store, notifier Notifier) *CheckoutService {
	if store == nil || notifier == nil {
		panic("nil dependency passed to NewCheckoutService")
	}
	return &CheckoutService{store: store, notifier: notifier}
}

// CartItem is one line of a checkout request.
type CartItem struct {
	ProductID uint64 `json:"product_id"`
	Quantity  uint32 `json:"quantity"`
}

// Checkout validates the cart, decrements stock per item and creates
// the order with its items in one transaction.  Any failure (unknown
// product, insufficient stock) rolls everything back, leaving no
// partial order and no consumed stock.
//
// Errors: ErrInvalidInput, repository.ErrProductNotFound,
// repository.ErrOutOfStock.
func (s *CheckoutService) Checkout(ctx context.Context, name, email string, items []CartItem) (model.Order, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || len(items) == 0 {
		return model.Order{}, ErrInvalidInput
	}
	// Merge duplicate lines so a product is decremented once.
	merged := make([]CartItem, 0, len(items))
	seen := map[uint64]int{}
	for _, it := range items {
		if it.ProductID == 0 || it.Quantity == 0 {
			return model.Order{}, ErrInvalidInput
		}
		if i, ok := seen[it.ProductID]; ok {
			merged[i].Quantity += it.Quantity
			continue
		}
		seen[it.ProductID] = len(merged)
		merged = append(merged, it)
	}

	var order model.Order
	err := s.store.InTx(ctx, func(tx Tx) error {
		var total uint32
		lines := make([]model.OrderItem, 0, len(merged))
		for _, it := range merged {
			p, err := tx.ProductByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if err := tx.DecrementStock(ctx, p.ID, it.Quantity); err != nil {
				return err
			}
			lines = append(lines, model.OrderItem{
				ProductID:      p.ID,
				Quantity:       it.Quantity,
				UnitPriceCents: p.PriceCents,
			})
			total += p.PriceCents * it.Quantity
		}
		order = model.Order{
			CustomerName:  strings.TrimSpace(name),
			CustomerEmail: strings.TrimSpace(email),
			TotalCents:    total,
			Status:        model.OrderPaid,
		}
		if err := tx.CreateOrder(ctx, &order); err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := tx.CreateOrderItems(ctx, lines); err != nil {
			return err
		}
		order.Items = lines
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	go s.notifier.OrderConfirmed(context.WithoutCancel(ctx), OrderNotification{
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		OrderID:       order.ID,
		TotalCents:    order.TotalCents,
	})
	return order, nil
}
