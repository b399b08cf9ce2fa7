// Package cart accumulates line items on the shopper's side and turns them
// into a checkout payload. A Cart is safe for concurrent use.
package cart

import (
	"errors"
	"sync"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/pkg/collection"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart  = errors.New("cart is empty")
	ErrOutOfStock = errors.New("product is out of stock")
)

// Cart holds one line per product id, in the order products were added.
type Cart struct {
	mu    sync.Mutex
	items []models.LineItem
}

func New() *Cart {
	return &Cart{}
}

// Add puts qty of p in the cart (at least one). Adding a product that is
// already present raises its quantity.
func (c *Cart) Add(p models.Product, qty int) error {
	if !p.InStock {
		return ErrOutOfStock
	}
	if qty < 1 {
		qty = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(p.ID); i >= 0 {
		c.items[i].Quantity += qty
		return nil
	}
	c.items = append(c.items, models.LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    models.Amount(p.Price),
		Quantity: qty,
	})
	return nil
}

// SetQuantity changes the quantity of a line, never below one. It reports
// whether the product was in the cart.
func (c *Cart) SetQuantity(id uint, qty int) bool {
	if qty < 1 {
		qty = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return false
	}
	c.items[i].Quantity = qty
	return true
}

// Remove drops the line for id.
func (c *Cart) Remove(id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = collection.Filter(c.items, func(it models.LineItem) bool { return it.ID != id })
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Items returns a copy of the lines.
func (c *Cart) Items() []models.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.LineItem{}, c.items...)
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return collection.Reduce(c.items, 0, func(n int, it models.LineItem) int { return n + it.Quantity })
}

// Total is Σ price × quantity.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := collection.Reduce(c.items, decimal.Zero, func(sum decimal.Decimal, it models.LineItem) decimal.Decimal {
		return sum.Add(decimal.NewFromFloat(float64(it.Price)).Mul(decimal.NewFromInt(int64(it.Quantity))))
	})
	return total.InexactFloat64()
}

func (c *Cart) index(id uint) int {
	return collection.IndexOf(c.items, func(it models.LineItem) bool { return it.ID == id })
}

// CustomerDetails is what the checkout form collects.
type CustomerDetails struct {
	Name          string
	Phone         string
	Address       string
	DeliveryDate  string
	DeliveryTime  string
	PaymentMethod string
}

// Checkout builds the order payload for the current contents. The cart
// total is sent as totalAmount. The cart itself is left as is; clear it
// once the order has been accepted.
func (c *Cart) Checkout(d CustomerDetails) (models.OrderInput, error) {
	items := c.Items()
	if len(items) == 0 {
		return models.OrderInput{}, ErrEmptyCart
	}
	return models.OrderInput{
		CustomerName:    d.Name,
		CustomerPhone:   d.Phone,
		CustomerAddress: d.Address,
		DeliveryDate:    d.DeliveryDate,
		DeliveryTime:    optional(d.DeliveryTime),
		TotalAmount:     models.Amount(c.Total()),
		PaymentMethod:   optional(d.PaymentMethod),
		Items:           items,
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
