package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository runs the gateway's read-only queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CustomerByAuthUserID returns the customer linked to an identity user.
func (r *Repository) CustomerByAuthUserID(ctx context.Context, authUserID string) (*Customer, error) {
	var row Customer
	err := r.db.WithContext(ctx).
		Where("auth_user_id = ?", strings.TrimSpace(authUserID)).
		Take(&row).
		Error
	if err != nil {
		return nil, translate("customer by auth user", err)
	}
	return &row, nil
}

// RolesForCustomer returns the customer's role names.
func (r *Repository) RolesForCustomer(ctx context.Context, customerID uuid.UUID) ([]string, error) {
	var roles []string
	err := r.db.WithContext(ctx).
		Model(&CustomerRole{}).
		Where("customer_id = ?", customerID).
		Pluck("role", &roles).
		Error
	if err != nil {
		return nil, translate("roles for customer", err)
	}
	return roles, nil
}

// OrderByID returns a single order.
func (r *Repository) OrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var row Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&row).
		Error
	if err != nil {
		return nil, translate("order by id", err)
	}
	return &row, nil
}

// ShipmentsForOrder returns an order's shipments, newest first.
func (r *Repository) ShipmentsForOrder(ctx context.Context, orderID uuid.UUID) ([]Shipment, error) {
	rows := []Shipment{}
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, translate("shipments for order", err)
	}
	return rows, nil
}

type recentOrderRow struct {
	ID             uuid.UUID `gorm:"column:id"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	TotalCents     int64     `gorm:"column:total_cents"`
	IsTraining     bool      `gorm:"column:is_training"`
	OrderStatus    string    `gorm:"column:order_status"`
	PaymentStatus  string    `gorm:"column:payment_status"`
	ShippingStatus string    `gorm:"column:shipping_status"`
	Customers      JSON      `gorm:"column:customers"`
}

const customersSubquery = `(SELECT json_agg(json_build_object(
	'firstName', c.first_name,
	'lastName', c.last_name,
	'email', c.email))
	FROM customers c WHERE c.id = o.customer_id) AS customers`

// RecentOrders returns the newest orders with their customer attached.
func (r *Repository) RecentOrders(ctx context.Context, limit int) ([]OrderSummary, error) {
	var rows []recentOrderRow
	err := r.db.WithContext(ctx).
		Table("orders AS o").
		Select("o.id, o.created_at, o.total_cents, o.is_training, o.order_status, o.payment_status, o.shipping_status, " + customersSubquery).
		Order("o.created_at DESC").
		Limit(limit).
		Scan(&rows).
		Error
	if err != nil {
		return nil, translate("recent orders", err)
	}

	items := make([]OrderSummary, 0, len(rows))
	for _, row := range rows {
		customer, err := NormalizeCustomer(row.Customers)
		if err != nil {
			return nil, translate("recent orders", err)
		}
		items = append(items, OrderSummary{
			ID:             row.ID,
			CreatedAt:      row.CreatedAt,
			TotalCents:     row.TotalCents,
			IsTraining:     row.IsTraining,
			OrderStatus:    row.OrderStatus,
			PaymentStatus:  row.PaymentStatus,
			ShippingStatus: row.ShippingStatus,
			Customer:       customer,
		})
	}
	return items, nil
}

// ListShippingPackages returns every package, defaults first then by name.
func (r *Repository) ListShippingPackages(ctx context.Context) ([]ShippingPackage, error) {
	rows := []ShippingPackage{}
	err := r.db.WithContext(ctx).
		Order("is_default DESC").
		Order("name ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, translate("list shipping packages", err)
	}
	return rows, nil
}
