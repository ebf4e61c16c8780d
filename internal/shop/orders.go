package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
	"github.com/ViacheslavGIT/MegaMart/internal/store"
)

// CheckoutInput is what the client submits. Total and Address are
// stored as sent; the address form is checked by the client.
type CheckoutInput struct {
	Address models.Address
	Items   []models.LineItem
	Total   float64
}

type Orders struct {
	orders    OrderStore
	products  ProductStore
	publisher OrderPublisher
	now       func() time.Time
}

func NewOrders(orders OrderStore, products ProductStore, publisher OrderPublisher) *Orders {
	return &Orders{orders: orders, products: products, publisher: publisher, now: time.Now}
}

func validateCheckout(in CheckoutInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: no products", ErrInvalidInput)
	}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
		}
		if it.Price < 0 {
			return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
		}
	}
	if in.Total < 0 {
		return fmt.Errorf("%w: total must not be negative", ErrInvalidInput)
	}
	return nil
}

// LineItemsTotal sums price times quantity without float drift.
func LineItemsTotal(items []models.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Checkout stores an order snapshot. Prices are not re-read from the
// catalog; a declared total that disagrees with the line items is only
// logged.
func (o *Orders) Checkout(ctx context.Context, userID string, in CheckoutInput) (*models.Order, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %w", err)
	}
	if err := validateCheckout(in); err != nil {
		return nil, err
	}

	if sum := LineItemsTotal(in.Items); !sum.Equal(decimal.NewFromFloat(in.Total)) {
		slog.Warn("Declared order total differs from line items",
			"user_id", userID, "declared", in.Total, "computed", sum.String())
	}

	items := make([]models.LineItem, len(in.Items))
	for i, it := range in.Items {
		it.Product = nil
		items[i] = it
	}
	order := &models.Order{
		UserID:    uid,
		Items:     items,
		Total:     in.Total,
		Address:   in.Address,
		CreatedAt: o.now().UTC().Truncate(time.Millisecond),
	}
	if err := o.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	slog.Info("Order created", "order_id", order.ID.Hex(), "user_id", userID, "items", len(items), "total", order.Total)

	if o.publisher != nil {
		if err := o.publisher.PublishOrderCreated(ctx, order); err != nil {
			slog.Error("Failed to publish order event", "order_id", order.ID.Hex(), "error", err)
		}
	}
	return order, nil
}

func (o *Orders) List(ctx context.Context, userID string) ([]models.Order, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %w", err)
	}
	orders, err := o.orders.ListByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := o.attachProducts(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (o *Orders) Get(ctx context.Context, userID, orderID string) (*models.Order, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("user %w", err)
	}
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, fmt.Errorf("order %w", ErrNotFound)
	}
	order, err := o.orders.GetForUser(ctx, uid, oid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("order %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	orders := []models.Order{*order}
	if err := o.attachProducts(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// attachProducts resolves line item references for display. Items whose
// id is malformed or no longer exists keep only their snapshot.
func (o *Orders) attachProducts(ctx context.Context, orders []models.Order) error {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, order := range orders {
		for _, it := range order.Items {
			if oid, err := primitive.ObjectIDFromHex(it.ProductID); err == nil && !seen[oid] {
				seen[oid] = true
				ids = append(ids, oid)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}
	found, err := o.products.GetMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve order products: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	for i := range orders {
		for j := range orders[i].Items {
			oid, err := primitive.ObjectIDFromHex(orders[i].Items[j].ProductID)
			if err != nil {
				continue
			}
			if p, ok := byID[oid]; ok {
				orders[i].Items[j].Product = &p
			}
		}
	}
	return nil
}
