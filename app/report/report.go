// Package report derives revenue figures from a list of orders. Everything
// here is a pure function of its input; nothing is persisted.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/pkg/collection"
	"github.com/shopspring/decimal"
)

// OtherStatus buckets statuses outside models.Statuses.
const OtherStatus = "other"

// Summary is the revenue view of a set of orders. Net is gross minus the
// total of cancelled orders.
type Summary struct {
	TotalOrders     int            `json:"totalOrders"`
	Counts          map[string]int `json:"counts"`
	Gross           float64        `json:"gross"`
	CancelledAmount float64        `json:"cancelledAmount"`
	Net             float64        `json:"net"`
}

// NormalizeStatus lower-cases s; an empty status counts as pending.
func NormalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return models.StatusPending
	}
	return s
}

// Summarize counts orders per status and sums their totals.
func Summarize(orders []models.Order) Summary {
	counts := make(map[string]int, len(models.Statuses)+1)
	for _, s := range models.Statuses {
		counts[s] = 0
	}
	counts[OtherStatus] = 0

	gross, cancelled := decimal.Zero, decimal.Zero
	for _, o := range orders {
		status := NormalizeStatus(o.Status)
		if models.KnownStatus(status) {
			counts[status]++
		} else {
			counts[OtherStatus]++
		}

		amount := decimal.NewFromFloat(o.TotalAmount)
		gross = gross.Add(amount)
		if status == models.StatusCancelled {
			cancelled = cancelled.Add(amount)
		}
	}

	return Summary{
		TotalOrders:     len(orders),
		Counts:          counts,
		Gross:           gross.InexactFloat64(),
		CancelledAmount: cancelled.InexactFloat64(),
		Net:             gross.Sub(cancelled).InexactFloat64(),
	}
}

// Month is a calendar month. Orders are assigned to months by their UTC
// creation time.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("report: month %q must look like 2026-02", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	t = t.UTC()
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Contains reports whether t falls inside m.
func (m Month) Contains(t time.Time) bool {
	return MonthOf(t) == m
}

// FilterMonth keeps the orders created during m. Orders without a creation
// time are dropped.
func FilterMonth(orders []models.Order, m Month) []models.Order {
	return collection.Filter(orders, func(o models.Order) bool {
		return !o.CreatedAt.IsZero() && m.Contains(o.CreatedAt)
	})
}

// SummarizeMonth is Summarize over FilterMonth.
func SummarizeMonth(orders []models.Order, m Month) Summary {
	return Summarize(FilterMonth(orders, m))
}

// Money formats an amount the way the storefront does: ₹ and two decimals.
func Money(v float64) string {
	return "₹" + decimal.NewFromFloat(v).StringFixed(2)
}
