package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/pkg/collection"
	"github.com/shopspring/decimal"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{
	"Order ID", "Created At", "Status", "Customer Name", "Phone", "Address",
	"Delivery Date", "Delivery Time", "Payment Method", "Total Amount",
	"Items (name (qty x price))",
}

// amountColumn is where the summary rows put their figures.
const amountColumn = 9

// WriteCSV writes one row per order followed by a blank line and the gross,
// cancelled and net summary rows.
func WriteCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, o := range orders {
		if err := cw.Write(orderRow(o)); err != nil {
			return err
		}
	}

	sum := Summarize(orders)
	rows := [][]string{
		nil,
		summaryRow("SUMMARY - Gross Amount", Money(sum.Gross)),
		summaryRow("SUMMARY - Cancelled Amount", "- "+Money(sum.CancelledAmount)),
		summaryRow("SUMMARY - Net Revenue", Money(sum.Net)),
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("report: write csv: %w", err)
	}
	return nil
}

// FileName is the download name for an export: orders-2026-02.csv for a
// month, orders-all-<date>.csv otherwise.
func FileName(m *Month, now time.Time) string {
	if m != nil {
		return "orders-" + m.String() + ".csv"
	}
	return "orders-all-" + now.UTC().Format("2006-01-02") + ".csv"
}

func orderRow(o models.Order) []string {
	created := ""
	if !o.CreatedAt.IsZero() {
		created = o.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z")
	}
	return []string{
		strconv.FormatUint(uint64(o.ID), 10),
		created,
		o.Status,
		o.CustomerName,
		o.CustomerPhone,
		flatten(o.CustomerAddress),
		o.DeliveryDate,
		deref(o.DeliveryTime),
		deref(o.PaymentMethod),
		decimal.NewFromFloat(o.TotalAmount).StringFixed(2),
		ItemsSummary(o.Items),
	}
}

// ItemsSummary renders items as "name (qty x ₹price)" joined by " ; ".
func ItemsSummary(items []models.LineItem) string {
	parts := collection.Map(items, func(it models.LineItem) string {
		name := it.Name
		if name == "" {
			name = "Item"
		}
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		return fmt.Sprintf("%s (%d x %s)", name, qty, Money(float64(it.Price)))
	})
	return strings.Join(parts, " ; ")
}

func summaryRow(label, amount string) []string {
	row := make([]string, len(CSVHeader))
	row[0] = label
	row[amountColumn] = amount
	return row
}

func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ").Replace(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
