// Package dashboard is the admin's view of the order book. It pulls the
// full list from the server, filters and sorts it locally, and applies
// status changes optimistically: the local copy changes first and is put
// back if the server rejects the update.
package dashboard

import (
	"context"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/app/report"
	"github.com/shashiranjanraj/cakeshop/pkg/collection"
)

// OrderAPI is the part of the server API the dashboard uses.
type OrderAPI interface {
	Orders(ctx context.Context) ([]models.Order, error)
	SetOrderStatus(ctx context.Context, id uint, status string) (*models.Order, error)
}

// Sort orders.
const (
	Newest = "newest"
	Oldest = "oldest"
)

// AllStatuses disables the status filter.
const AllStatuses = "all"

// Filter selects the visible orders.
type Filter struct {
	Status string // a status, or "" / AllStatuses
	Query  string // case-insensitive search
	Sort   string // Newest (default) or Oldest
}

type Dashboard struct {
	api OrderAPI

	mu     sync.RWMutex
	orders []models.Order
}

func New(api OrderAPI) *Dashboard {
	return &Dashboard{api: api}
}

// Refresh replaces the local list with the server's. On error the previous
// list is kept.
func (d *Dashboard) Refresh(ctx context.Context) error {
	orders, err := d.api.Orders(ctx)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.orders = orders
	d.mu.Unlock()
	return nil
}

// Orders returns a copy of the local list.
func (d *Dashboard) Orders() []models.Order {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Order{}, d.orders...)
}

// Visible applies f to the local list.
func (d *Dashboard) Visible(f Filter) []models.Order {
	list := d.Orders()

	if f.Status != "" && f.Status != AllStatuses {
		want := strings.ToLower(f.Status)
		list = collection.Filter(list, func(o models.Order) bool { return strings.ToLower(o.Status) == want })
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		list = collection.Filter(list, func(o models.Order) bool { return matches(o, q) })
	}

	if f.Sort == Oldest {
		return collection.SortedBy(list, func(a, b models.Order) bool { return a.CreatedAt.Before(b.CreatedAt) })
	}
	return collection.SortedBy(list, func(a, b models.Order) bool { return a.CreatedAt.After(b.CreatedAt) })
}

func matches(o models.Order, q string) bool {
	return strings.Contains(strings.ToLower(o.CustomerName), q) ||
		strings.Contains(strings.ToLower(o.CustomerPhone), q) ||
		strings.Contains(strconv.FormatUint(uint64(o.ID), 10), q) ||
		strings.Contains(strings.ToLower(o.CustomerAddress), q) ||
		collection.Contains(o.Items, func(it models.LineItem) bool {
			return strings.Contains(strings.ToLower(it.Name), q)
		})
}

// ChangeStatus sets the status of order id. The local copy is updated
// before the request is sent; if the request fails the previous copy is
// restored and the error returned. A status equal to the current one
// (ignoring case) sends nothing.
func (d *Dashboard) ChangeStatus(ctx context.Context, id uint, status string) error {
	status = strings.ToLower(status)

	d.mu.Lock()
	i := d.index(id)
	if i < 0 {
		d.mu.Unlock()
		return nil
	}
	prev := d.orders[i]
	if report.NormalizeStatus(prev.Status) == status {
		d.mu.Unlock()
		return nil
	}
	d.orders[i].Status = status
	d.mu.Unlock()

	updated, err := d.api.SetOrderStatus(ctx, id, status)

	d.mu.Lock()
	defer d.mu.Unlock()
	i = d.index(id)
	if i < 0 {
		return err
	}
	if err != nil {
		d.orders[i] = prev
		return err
	}
	if updated != nil {
		d.orders[i] = *updated
	}
	return nil
}

func (d *Dashboard) index(id uint) int {
	return collection.IndexOf(d.orders, func(o models.Order) bool { return o.ID == id })
}

// Summary covers every loaded order.
func (d *Dashboard) Summary() report.Summary {
	return report.Summarize(d.Orders())
}

// MonthSummary covers the loaded orders created in m.
func (d *Dashboard) MonthSummary(m report.Month) report.Summary {
	return report.SummarizeMonth(d.Orders(), m)
}

// ExportCSV writes the orders selected by f.
func (d *Dashboard) ExportCSV(w io.Writer, f Filter) error {
	return report.WriteCSV(w, d.Visible(f))
}

// ExportMonthCSV writes the loaded orders created in m. It reports false,
// writing nothing, when the month has no orders.
func (d *Dashboard) ExportMonthCSV(w io.Writer, m report.Month) (bool, error) {
	orders := report.FilterMonth(d.Orders(), m)
	if len(orders) == 0 {
		return false, nil
	}
	return true, report.WriteCSV(w, orders)
}
