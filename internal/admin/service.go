// Package admin serves the read-only order and shipment views of the admin
// console. Callers must pass the authorization gate first.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tournevent/fulfillment/internal/store"
	"github.com/tournevent/fulfillment/pkg/carrier"
)

// RecentOrdersLimit is the size of the recent-orders listing.
const RecentOrdersLimit = 12

var (
	ErrMissingOrderID = carrier.NewError(carrier.KindMalformedInput, "Missing orderId")
	ErrInvalidOrderID = carrier.NewError(carrier.KindMalformedInput, "Invalid orderId")
	ErrOrderNotFound  = carrier.NewError(carrier.KindNotFound, "Order not found")
)

// Store is the subset of the store used by the admin views.
type Store interface {
	OrderByID(ctx context.Context, id uuid.UUID) (*store.Order, error)
	ShipmentsForOrder(ctx context.Context, orderID uuid.UUID) ([]store.Shipment, error)
	RecentOrders(ctx context.Context, limit int) ([]store.OrderSummary, error)
}

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

// OrderDetail returns one order.
func (s *Service) OrderDetail(ctx context.Context, orderID string) (*store.Order, error) {
	id, err := ParseOrderID(orderID)
	if err != nil {
		return nil, err
	}

	order, err := s.store.OrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	return order, nil
}

// Shipments returns the order's shipments, newest first. An order without
// shipments, or an unknown order, yields an empty list.
func (s *Service) Shipments(ctx context.Context, orderID string) ([]store.Shipment, error) {
	id, err := ParseOrderID(orderID)
	if err != nil {
		return nil, err
	}

	shipments, err := s.store.ShipmentsForOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load shipments: %w", err)
	}
	if shipments == nil {
		shipments = []store.Shipment{}
	}
	return shipments, nil
}

// RecentOrders returns the newest orders with their customer.
func (s *Service) RecentOrders(ctx context.Context) ([]store.OrderSummary, error) {
	orders, err := s.store.RecentOrders(ctx, RecentOrdersLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent orders: %w", err)
	}
	if orders == nil {
		orders = []store.OrderSummary{}
	}
	return orders, nil
}

// ParseOrderID validates a path order id.
func ParseOrderID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, ErrMissingOrderID
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidOrderID
	}
	return id, nil
}
