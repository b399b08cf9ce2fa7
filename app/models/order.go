package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Order statuses seen in the admin workflow.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Statuses lists the known statuses in lifecycle order.
var Statuses = []string{StatusPending, StatusConfirmed, StatusPreparing, StatusDelivered, StatusCancelled}

var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to
// another. Delivered and cancelled are terminal; unknown statuses never
// transition.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// KnownStatus reports whether s is one of Statuses.
func KnownStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order is a customer checkout. TotalAmount is stored exactly as submitted
// and is never recomputed from Items.
type Order struct {
	ID              uint      `gorm:"primaryKey"                       json:"id"`
	CustomerName    string    `gorm:"size:255;not null"                json:"customerName"`
	CustomerPhone   string    `gorm:"size:64;not null"                 json:"customerPhone"`
	CustomerAddress string    `gorm:"type:text;not null"               json:"customerAddress"`
	DeliveryDate    string    `gorm:"size:32;not null"                 json:"deliveryDate"`
	DeliveryTime    *string   `gorm:"size:64"                          json:"deliveryTime"`
	TotalAmount     float64   `gorm:"not null;default:0"               json:"totalAmount"`
	PaymentMethod   *string   `gorm:"size:64"                          json:"paymentMethod"`
	Items           LineItems `gorm:"type:text;not null"               json:"items"`
	Status          string    `gorm:"size:50;not null;default:pending;index" json:"status"`
	CreatedAt       time.Time `gorm:"index"                            json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// OrderInput is the checkout payload.
type OrderInput struct {
	CustomerName    string     `json:"customerName"              validate:"required"`
	CustomerPhone   string     `json:"customerPhone"             validate:"required"`
	CustomerAddress string     `json:"customerAddress"           validate:"required"`
	DeliveryDate    string     `json:"deliveryDate"              validate:"required"`
	DeliveryTime    *string    `json:"deliveryTime,omitempty"`
	TotalAmount     Amount     `json:"totalAmount"`
	PaymentMethod   *string    `json:"paymentMethod,omitempty"`
	Items           []LineItem `json:"items"                     validate:"required,min=1"`
}

// LineItem is one product line of an order.
type LineItem struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Price    Amount `json:"price"`
	Quantity int    `json:"quantity"`
}

// Subtotal is price × quantity.
func (li LineItem) Subtotal() float64 {
	return float64(li.Price) * float64(li.Quantity)
}

// LineItems is persisted as a JSON text column.
type LineItems []LineItem

// Value implements driver.Valuer. A nil list is stored as "[]".
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]LineItem(l))
	if err != nil {
		return nil, fmt.Errorf("models: encode items: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner. Content that does not decode as a list of
// items reads back as an empty list rather than failing the row.
func (l *LineItems) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	}
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		*l = LineItems{}
		return nil
	}
	*l = items
	return nil
}

// Amount is a money value that decodes from either a JSON number or a
// numeric string. Unparseable or negative input decodes to 0.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*a = 0
			return nil
		}
		*a = Amount(ParsePrice(s))
		return nil
	}
	*a = Amount(ParsePrice(strings.TrimSpace(string(b))))
	return nil
}
