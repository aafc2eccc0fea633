package store

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Customer is a storefront customer linked to an identity-service user.
type Customer struct {
	ID         uuid.UUID `gorm:"column:id;primaryKey" json:"id"`
	AuthUserID string    `gorm:"column:auth_user_id" json:"authUserId"`
	FirstName  string    `gorm:"column:first_name" json:"firstName"`
	LastName   string    `gorm:"column:last_name" json:"lastName"`
	Email      string    `gorm:"column:email" json:"email"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerRole grants a role to a customer.
type CustomerRole struct {
	CustomerID uuid.UUID `gorm:"column:customer_id"`
	Role       string    `gorm:"column:role"`
}

func (CustomerRole) TableName() string {
	return "customer_roles"
}

// Order is a placed order.
type Order struct {
	ID              uuid.UUID  `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"createdAt"`
	CustomerID      *uuid.UUID `gorm:"column:customer_id" json:"customerId"`
	TotalCents      int64      `gorm:"column:total_cents" json:"totalCents"`
	IsTraining      bool       `gorm:"column:is_training" json:"isTraining"`
	OrderStatus     string     `gorm:"column:order_status" json:"orderStatus"`
	PaymentStatus   string     `gorm:"column:payment_status" json:"paymentStatus"`
	ShippingStatus  string     `gorm:"column:shipping_status" json:"shippingStatus"`
	ShippingAddress JSON       `gorm:"column:shipping_address" json:"shippingAddress"`
}

func (Order) TableName() string {
	return "orders"
}

// Shipment is a label purchased for an order.
type Shipment struct {
	ID             uuid.UUID `gorm:"column:id;primaryKey" json:"id"`
	OrderID        uuid.UUID `gorm:"column:order_id" json:"orderId"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"createdAt"`
	Carrier        string    `gorm:"column:carrier" json:"carrier"`
	ServiceLevel   string    `gorm:"column:service_level" json:"serviceLevel"`
	TrackingNumber string    `gorm:"column:tracking_number" json:"trackingNumber"`
	TrackingURL    string    `gorm:"column:tracking_url" json:"trackingUrl"`
	LabelURL       string    `gorm:"column:label_url" json:"labelUrl"`
	TransactionID  string    `gorm:"column:transaction_id" json:"transactionId"`
	Status         string    `gorm:"column:status" json:"status"`
}

func (Shipment) TableName() string {
	return "shipments"
}

// ShippingPackage is a predefined parcel size.
type ShippingPackage struct {
	ID           uuid.UUID `gorm:"column:id;primaryKey" json:"id"`
	Name         string    `gorm:"column:name" json:"name"`
	Length       float64   `gorm:"column:length" json:"length"`
	Width        float64   `gorm:"column:width" json:"width"`
	Height       float64   `gorm:"column:height" json:"height"`
	DistanceUnit string    `gorm:"column:distance_unit" json:"distanceUnit"`
	Weight       float64   `gorm:"column:weight" json:"weight"`
	MassUnit     string    `gorm:"column:mass_unit" json:"massUnit"`
	IsDefault    bool      `gorm:"column:is_default" json:"isDefault"`
}

func (ShippingPackage) TableName() string {
	return "shipping_packages"
}

// CustomerName is the customer projection attached to order summaries.
type CustomerName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// OrderSummary is one row of the recent-orders listing.
type OrderSummary struct {
	ID             uuid.UUID     `json:"id"`
	CreatedAt      time.Time     `json:"createdAt"`
	TotalCents     int64         `json:"totalCents"`
	IsTraining     bool          `json:"isTraining"`
	OrderStatus    string        `json:"orderStatus"`
	PaymentStatus  string        `json:"paymentStatus"`
	ShippingStatus string        `json:"shippingStatus"`
	Customer       *CustomerName `json:"customer"`
}

// JSON holds a json/jsonb column verbatim.
type JSON []byte

// Scan implements sql.Scanner.
func (j *JSON) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSON(v)
	default:
		return fmt.Errorf("store: cannot scan %T into JSON", value)
	}
	return nil
}

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return []byte(j), nil
}

// IsNull reports whether the value is absent or JSON null.
func (j JSON) IsNull() bool {
	trimmed := bytes.TrimSpace(j)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j.IsNull() {
		return []byte("null"), nil
	}
	if !json.Valid(j) {
		return nil, fmt.Errorf("store: invalid JSON value")
	}
	return []byte(j), nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	*j = append((*j)[:0], data...)
	return nil
}
