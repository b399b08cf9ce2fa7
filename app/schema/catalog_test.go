package schema

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/app/repositories"
	"github.com/shashiranjanraj/cakeshop/app/services"
	"github.com/shashiranjanraj/cakeshop/pkg/database"
)

func catalogSchema(t *testing.T) graphql.Schema {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.Product{}))

	choc, fruit := "chocolate", "fruit"
	require.NoError(t, db.Create(&models.Product{Name: "Truffle", Price: 550, Category: &choc, InStock: true}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Mango", Price: 480, Category: &fruit, InStock: false}).Error)

	catalog := services.NewCatalogService(repositories.NewProductRepository(db), nil, nil)
	s, err := Catalog(catalog)
	require.NoError(t, err)
	return s
}

func run(t *testing.T, s graphql.Schema, query string) map[string]interface{} {
	t.Helper()
	res := graphql.Do(graphql.Params{Schema: s, RequestString: query, Context: context.Background()})
	require.Empty(t, res.Errors)
	return res.Data.(map[string]interface{})
}

func TestProductsQuery(t *testing.T) {
	s := catalogSchema(t)

	data := run(t, s, `{ products { id name price inStock category } }`)
	products := data["products"].([]interface{})
	require.Len(t, products, 2)

	newest := products[0].(map[string]interface{})
	assert.Equal(t, "Mango", newest["name"])
	assert.Equal(t, false, newest["inStock"])
	assert.Equal(t, 480.0, newest["price"])
}

func TestProductsByCategory(t *testing.T) {
	s := catalogSchema(t)

	data := run(t, s, `{ products(category: "chocolate") { name } }`)
	products := data["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "Truffle", products[0].(map[string]interface{})["name"])
}

func TestProductQuery(t *testing.T) {
	s := catalogSchema(t)

	data := run(t, s, `{ product(id: 1) { id name imageUrl } }`)
	p := data["product"].(map[string]interface{})
	assert.Equal(t, 1, p["id"])
	assert.Equal(t, "Truffle", p["name"])
	assert.Nil(t, p["imageUrl"])

	data = run(t, s, `{ product(id: 99) { id } }`)
	assert.Nil(t, data["product"])
}
