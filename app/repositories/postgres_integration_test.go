//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresOrderAndProductStores(t *testing.T) {
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("cakeshop"),
		postgres.WithUsername("cakeshop"),
		postgres.WithPassword("cakeshop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}))

	users := NewUserRepository(db)
	require.NoError(t, users.Create(ctx, &models.User{Username: "admin", Password: "pw", Role: "admin"}))
	assert.ErrorIs(t, users.Create(ctx, &models.User{Username: "admin", Password: "pw"}), ErrDuplicate)

	products := NewProductRepository(db)
	p := &models.Product{Name: "Truffle", Price: 650.5, InStock: false}
	require.NoError(t, products.Create(ctx, p))
	gotP, err := products.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 650.5, gotP.Price)
	assert.False(t, gotP.InStock)

	orders := NewOrderRepository(db)
	o := sampleOrder()
	require.NoError(t, orders.Create(ctx, o))
	require.NoError(t, orders.UpdateStatus(ctx, o, models.StatusDelivered))

	gotO, err := orders.Find(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Items, gotO.Items)
	assert.Equal(t, models.StatusDelivered, gotO.Status)
}
