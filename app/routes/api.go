package routes

import (
	"github.com/shashiranjanraj/cakeshop/app/controllers"
	"github.com/shashiranjanraj/cakeshop/app/services"
	"github.com/shashiranjanraj/cakeshop/pkg/ctx"
	"github.com/shashiranjanraj/cakeshop/pkg/middleware"
	"github.com/shashiranjanraj/cakeshop/pkg/rbac"
	"github.com/shashiranjanraj/cakeshop/pkg/router"
)

// Services are the handlers' dependencies.
type Services struct {
	Auth    *services.AuthService
	Catalog *services.CatalogService
	Orders  *services.OrderService
}

// RegisterAPI mounts every /api route. Mutating catalog calls and the
// reports need an admin token; orders are open so shoppers can check out
// without an account.
func RegisterAPI(r *router.Router, s Services) {
	authController := controllers.NewAuthController(s.Auth)
	productController := controllers.NewProductController(s.Catalog)
	orderController := controllers.NewOrderController(s.Orders)
	reportController := controllers.NewReportController(s.Orders)

	admin := []router.Middleware{middleware.Auth(s.Auth), rbac.RequireAdmin}

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", "auth.register", ctx.Wrap(authController.Register))
	authRoutes.Post("/login", "auth.login", ctx.Wrap(authController.Login))

	products := api.Group("/products")
	products.Get("/", "products.index", ctx.Wrap(productController.Index))
	products.Get("/{id}", "products.show", ctx.Wrap(productController.Show))
	products.Post("/", "products.store", ctx.Wrap(productController.Store), admin...)
	products.Put("/{id}", "products.update", ctx.Wrap(productController.Update), admin...)
	products.Delete("/{id}", "products.destroy", ctx.Wrap(productController.Destroy), admin...)

	orders := api.Group("/orders")
	orders.Get("/", "orders.index", ctx.Wrap(orderController.Index))
	orders.Post("/", "orders.store", ctx.Wrap(orderController.Store))
	orders.Get("/{id}", "orders.show", ctx.Wrap(orderController.Show))
	orders.Put("/{id}/status", "orders.status", ctx.Wrap(orderController.UpdateStatus))

	reports := api.Group("/reports", admin...)
	reports.Get("/revenue", "reports.revenue", ctx.Wrap(reportController.Revenue))
	reports.Get("/orders.csv", "reports.orders_csv", ctx.Wrap(reportController.OrdersCSV))
}
