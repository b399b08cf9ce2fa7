package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(id uint, total float64, status string, created time.Time) models.Order {
	return models.Order{ID: id, TotalAmount: total, Status: status, CreatedAt: created}
}

func TestSummarizeRevenue(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		order(1, 100, "delivered", now),
		order(2, 50, "cancelled", now),
		order(3, 30, "pending", now),
	}
	s := Summarize(orders)
	assert.Equal(t, 180.0, s.Gross)
	assert.Equal(t, 50.0, s.CancelledAmount)
	assert.Equal(t, 130.0, s.Net)
	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, 1, s.Counts["delivered"])
	assert.Equal(t, 0, s.Counts["preparing"])
}

func TestSummarizeNormalizesStatus(t *testing.T) {
	s := Summarize([]models.Order{
		order(1, 10, "", time.Time{}),
		order(2, 20, "CANCELLED", time.Time{}),
		order(3, 0.1, "shipped", time.Time{}),
		order(4, 0.2, "Pending", time.Time{}),
	})
	assert.Equal(t, 2, s.Counts["pending"])
	assert.Equal(t, 1, s.Counts["cancelled"])
	assert.Equal(t, 1, s.Counts[OtherStatus])
	assert.Equal(t, 30.3, s.Gross, "decimal sums avoid float drift")
	assert.Equal(t, 20.0, s.CancelledAmount)
	assert.Equal(t, 10.3, s.Net)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalOrders)
	assert.Zero(t, s.Gross)
	assert.Len(t, s.Counts, 6)
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2026-02")
	require.NoError(t, err)
	assert.Equal(t, Month{Year: 2026, Month: time.February}, m)
	assert.Equal(t, "2026-02", m.String())

	for _, bad := range []string{"", "2026", "2026-13", "02-2026", "2026-2x"} {
		_, err := ParseMonth(bad)
		assert.Error(t, err, bad)
	}
}

func TestFilterMonth(t *testing.T) {
	feb := time.Date(2026, time.February, 14, 10, 0, 0, 0, time.UTC)
	mar := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		order(1, 100, "delivered", feb),
		order(2, 40, "cancelled", feb.Add(24*time.Hour)),
		order(3, 70, "pending", mar),
		order(4, 5, "pending", time.Time{}),
	}

	m := Month{Year: 2026, Month: time.February}
	got := FilterMonth(orders, m)
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)

	s := SummarizeMonth(orders, m)
	assert.Equal(t, 2, s.TotalOrders)
	assert.Equal(t, 140.0, s.Gross)
	assert.Equal(t, 100.0, s.Net)

	assert.Empty(t, FilterMonth(orders, Month{Year: 2025, Month: time.February}))
}

func TestWriteCSV(t *testing.T) {
	created := time.Date(2026, time.February, 14, 10, 30, 0, 0, time.UTC)
	slot := "Evening"
	orders := []models.Order{
		{
			ID: 7, CreatedAt: created, Status: "delivered",
			CustomerName: "Asha, R", CustomerPhone: "999", CustomerAddress: "12 MG Road\nBengaluru",
			DeliveryDate: "2026-02-14", DeliveryTime: &slot, TotalAmount: 100,
			Items: models.LineItems{{ID: 1, Name: "Vanilla", Price: 25, Quantity: 2}, {ID: 2, Name: "Candles", Price: 50, Quantity: 1}},
		},
		{ID: 8, CreatedAt: created, Status: "cancelled", CustomerName: "Ravi", TotalAmount: 50},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, orders))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "", lines[3], "blank line before summary")

	records, err := csv.NewReader(strings.NewReader(strings.Join(append(lines[:3:3], lines[4:]...), "\n"))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, CSVHeader, records[0])

	row := records[1]
	assert.Equal(t, "7", row[0])
	assert.Equal(t, "2026-02-14T10:30:00.000Z", row[1])
	assert.Equal(t, "Asha, R", row[3])
	assert.Equal(t, "12 MG Road Bengaluru", row[5])
	assert.Equal(t, "Evening", row[7])
	assert.Equal(t, "", row[8])
	assert.Equal(t, "100.00", row[9])
	assert.Equal(t, "Vanilla (2 x ₹25.00) ; Candles (1 x ₹50.00)", row[10])

	assert.Equal(t, "SUMMARY - Gross Amount", records[3][0])
	assert.Equal(t, "₹150.00", records[3][9])
	assert.Equal(t, "- ₹50.00", records[4][9])
	assert.Equal(t, "SUMMARY - Net Revenue", records[5][0])
	assert.Equal(t, "₹100.00", records[5][9])
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	m := Month{Year: 2026, Month: time.February}
	assert.Equal(t, "orders-2026-02.csv", FileName(&m, now))
	assert.Equal(t, "orders-all-2026-03-03.csv", FileName(nil, now))
}

func TestItemsSummaryDefaults(t *testing.T) {
	assert.Equal(t, "Item (1 x ₹0.00)", ItemsSummary([]models.LineItem{{}}))
	assert.Equal(t, "", ItemsSummary(nil))
}
