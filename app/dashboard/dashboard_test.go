package dashboard

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/app/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu      sync.Mutex
	orders  []models.Order
	listErr error
	setErr  error
	calls   int
	gate    chan struct{} // when set, SetOrderStatus waits on it
	entered chan struct{}
}

func (f *fakeAPI) Orders(context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Order{}, f.orders...), nil
}

func (f *fakeAPI) SetOrderStatus(_ context.Context, id uint, status string) (*models.Order, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.setErr != nil {
		return nil, f.setErr
	}
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			o := f.orders[i]
			return &o, nil
		}
	}
	return nil, errors.New("Order not found")
}

var base = time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)

func seed() *fakeAPI {
	return &fakeAPI{orders: []models.Order{
		{ID: 1, CustomerName: "Asha", CustomerPhone: "98450", CustomerAddress: "MG Road", Status: "pending", TotalAmount: 100, CreatedAt: base,
			Items: models.LineItems{{ID: 1, Name: "Red Velvet", Price: 100, Quantity: 1}}},
		{ID: 2, CustomerName: "Ravi", CustomerPhone: "99000", CustomerAddress: "Indiranagar", Status: "Cancelled", TotalAmount: 50, CreatedAt: base.Add(time.Hour)},
		{ID: 13, CustomerName: "Meera", CustomerPhone: "91234", CustomerAddress: "Koramangala", Status: "delivered", TotalAmount: 30, CreatedAt: base.AddDate(0, 1, 0)},
	}}
}

func loaded(t *testing.T, api *fakeAPI) *Dashboard {
	t.Helper()
	d := New(api)
	require.NoError(t, d.Refresh(context.Background()))
	return d
}

func ids(orders []models.Order) []uint {
	out := make([]uint, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestRefreshKeepsListOnError(t *testing.T) {
	api := seed()
	d := loaded(t, api)
	api.listErr = errors.New("offline")
	assert.Error(t, d.Refresh(context.Background()))
	assert.Len(t, d.Orders(), 3)
}

func TestVisible(t *testing.T) {
	d := loaded(t, seed())

	assert.Equal(t, []uint{13, 2, 1}, ids(d.Visible(Filter{})))
	assert.Equal(t, []uint{1, 2, 13}, ids(d.Visible(Filter{Sort: Oldest})))
	assert.Equal(t, []uint{2}, ids(d.Visible(Filter{Status: "cancelled"})))
	assert.Len(t, d.Visible(Filter{Status: AllStatuses}), 3)

	assert.Equal(t, []uint{1}, ids(d.Visible(Filter{Query: "velvet"})), "item names are searched")
	assert.Equal(t, []uint{2}, ids(d.Visible(Filter{Query: "INDIRA"})))
	assert.Equal(t, []uint{13}, ids(d.Visible(Filter{Query: "13"})), "order id is searched")
	assert.Equal(t, []uint{2}, ids(d.Visible(Filter{Query: "990"})))
	assert.Empty(t, d.Visible(Filter{Query: "velvet", Status: "delivered"}))
}

func TestChangeStatusOptimisticThenConfirmed(t *testing.T) {
	api := seed()
	api.gate = make(chan struct{})
	api.entered = make(chan struct{})
	d := loaded(t, api)

	done := make(chan error)
	go func() { done <- d.ChangeStatus(context.Background(), 1, "Confirmed") }()

	<-api.entered
	assert.Equal(t, "confirmed", d.Visible(Filter{Query: "asha"})[0].Status, "applied before the server answers")
	close(api.gate)

	require.NoError(t, <-done)
	assert.Equal(t, "confirmed", d.Visible(Filter{Query: "asha"})[0].Status)
}

func TestChangeStatusRevertsOnFailure(t *testing.T) {
	api := seed()
	api.setErr = errors.New("500")
	d := loaded(t, api)

	err := d.ChangeStatus(context.Background(), 1, "preparing")
	assert.Error(t, err)
	assert.Equal(t, "pending", d.Visible(Filter{Query: "asha"})[0].Status)
	assert.Equal(t, 1, api.calls, "no retry")
}

func TestChangeStatusNoopWhenUnchanged(t *testing.T) {
	api := seed()
	d := loaded(t, api)

	require.NoError(t, d.ChangeStatus(context.Background(), 2, "cancelled"))
	require.NoError(t, d.ChangeStatus(context.Background(), 99, "cancelled"))
	assert.Zero(t, api.calls)
}

func TestSummaries(t *testing.T) {
	d := loaded(t, seed())

	s := d.Summary()
	assert.Equal(t, 180.0, s.Gross)
	assert.Equal(t, 50.0, s.CancelledAmount)
	assert.Equal(t, 130.0, s.Net)

	feb := d.MonthSummary(report.Month{Year: 2026, Month: time.February})
	assert.Equal(t, 2, feb.TotalOrders)
	assert.Equal(t, 100.0, feb.Net)
}

func TestExports(t *testing.T) {
	d := loaded(t, seed())

	var buf bytes.Buffer
	require.NoError(t, d.ExportCSV(&buf, Filter{Status: "delivered"}))
	assert.Contains(t, buf.String(), "Meera")
	assert.NotContains(t, buf.String(), "Asha")
	assert.True(t, strings.HasPrefix(buf.String(), "Order ID,"))

	buf.Reset()
	ok, err := d.ExportMonthCSV(&buf, report.Month{Year: 2025, Month: time.January})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, buf.Len())

	ok, err = d.ExportMonthCSV(&buf, report.Month{Year: 2026, Month: time.March})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "SUMMARY - Net Revenue")
}
