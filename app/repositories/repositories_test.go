package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}))
	return db
}

func sampleOrder() *models.Order {
	return &models.Order{
		CustomerName:    "Asha",
		CustomerPhone:   "9999999999",
		CustomerAddress: "12 MG Road",
		DeliveryDate:    "2026-02-14",
		TotalAmount:     20,
		Items:           models.LineItems{{ID: 1, Name: "Vanilla", Price: 10, Quantity: 2}},
		Status:          models.StatusPending,
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newDB(t))

	u := &models.User{Username: "baker", Password: "pw", Role: "user"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := repo.FindByUsername(ctx, "baker")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.CheckPassword("pw"))

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "baker", byID.Username)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, repo.Create(ctx, &models.User{Username: "baker", Password: "x"}))
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newDB(t))

	first := &models.Product{Name: "Truffle", Price: 650, InStock: true}
	second := &models.Product{Name: "Sold out", Price: 100, InStock: false}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Sold out", all[0].Name, "newest id first")
	assert.False(t, all[0].InStock, "false is stored, not replaced by a default")

	first.Price = 700
	require.NoError(t, repo.Save(ctx, first))
	got, err := repo.Find(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 700.0, got.Price)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.Find(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), ErrNotFound)
}

func TestProductRepositoryEmptyListIsNotNil(t *testing.T) {
	all, err := NewProductRepository(newDB(t)).All(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestOrderRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newDB(t))

	o := sampleOrder()
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.Find(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Items, got.Items)
	assert.Equal(t, 20.0, got.TotalAmount)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Nil(t, got.DeliveryTime)

	_, err = repo.Find(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderMalformedItemsReadBackEmpty(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	repo := NewOrderRepository(db)

	o := sampleOrder()
	require.NoError(t, repo.Create(ctx, o))
	require.NoError(t, db.Exec("UPDATE orders SET items = ? WHERE id = ?", "{broken", o.ID).Error)

	got, err := repo.Find(ctx, o.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].Items)
}

func TestOrderUpdateStatusVerbatim(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newDB(t))

	o := sampleOrder()
	require.NoError(t, repo.Create(ctx, o))
	require.NoError(t, repo.UpdateStatus(ctx, o, "out-for-delivery"))

	got, err := repo.Find(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "out-for-delivery", got.Status)
}

func TestOrderConcurrentStatusLastWriterWins(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newDB(t))

	o := sampleOrder()
	require.NoError(t, repo.Create(ctx, o))

	statuses := []string{models.StatusConfirmed, models.StatusCancelled}
	var wg sync.WaitGroup
	errs := make([]error, len(statuses))
	for i, s := range statuses {
		wg.Add(1)
		go func(i int, s string) {
			defer wg.Done()
			cur, err := repo.Find(ctx, o.ID)
			if err != nil {
				errs[i] = err
				return
			}
			errs[i] = repo.UpdateStatus(ctx, cur, s)
		}(i, s)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	got, err := repo.Find(ctx, o.ID)
	require.NoError(t, err)
	assert.Contains(t, statuses, got.Status)
}
