// Package kernel assembles the HTTP handler: global middleware, the API
// routes, GraphQL, health, metrics and uploaded images.
package kernel

import (
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/cakeshop/app/controllers"
	"github.com/shashiranjanraj/cakeshop/app/repositories"
	"github.com/shashiranjanraj/cakeshop/app/routes"
	"github.com/shashiranjanraj/cakeshop/app/schema"
	"github.com/shashiranjanraj/cakeshop/app/services"
	"github.com/shashiranjanraj/cakeshop/pkg/cache"
	"github.com/shashiranjanraj/cakeshop/pkg/ctx"
	"github.com/shashiranjanraj/cakeshop/pkg/event"
	"github.com/shashiranjanraj/cakeshop/pkg/graphql"
	"github.com/shashiranjanraj/cakeshop/pkg/metrics"
	"github.com/shashiranjanraj/cakeshop/pkg/middleware"
	"github.com/shashiranjanraj/cakeshop/pkg/reqid"
	"github.com/shashiranjanraj/cakeshop/pkg/router"
	"github.com/shashiranjanraj/cakeshop/pkg/storage"
)

// Options are the shared resources the handlers run on.
type Options struct {
	DB     *gorm.DB
	Cache  cache.Store       // nil disables the product list cache
	Disk   storage.Disk      // where product images go
	Events *event.Dispatcher // nil disables order events

	// UploadsDir is served on /uploads when set (local disk only).
	UploadsDir string

	StrictTransitions bool

	// RateLimit is requests per client per minute; 0 turns it off.
	RateLimit int
}

// HTTPKernel owns the router and the services behind it.
type HTTPKernel struct {
	router   *router.Router
	services routes.Services
}

// NewHTTPKernel wires repositories into services and mounts everything.
func NewHTTPKernel(o Options) (*HTTPKernel, error) {
	svc := routes.Services{
		Auth: services.NewAuthService(repositories.NewUserRepository(o.DB)),
		Catalog: services.NewCatalogService(
			repositories.NewProductRepository(o.DB),
			services.NewDiskImageStore(o.Disk),
			o.Cache,
		),
		Orders: services.NewOrderService(repositories.NewOrderRepository(o.DB), o.Events, o.StrictTransitions),
	}

	catalogSchema, err := schema.Catalog(svc.Catalog)
	if err != nil {
		return nil, fmt.Errorf("kernel: graphql schema: %w", err)
	}

	r := router.New()

	// Outermost first: metrics see the full latency; the request id and
	// request logger exist before Recovery so panics are logged with them.
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.CORSOptionsFromConfig()))
	if o.RateLimit > 0 {
		r.Use(middleware.RateLimit(o.RateLimit, time.Minute))
	}

	r.Get("/health", "health", ctx.Wrap(controllers.Health))
	r.HandleFunc("/metrics", metrics.Handler())
	r.HandleFunc("/graphql", graphql.Handler(catalogSchema))
	if o.UploadsDir != "" {
		r.Static("/uploads", o.UploadsDir)
	}

	routes.RegisterAPI(r, svc)
	r.NotFound(ctx.Wrap(controllers.NotFound))

	return &HTTPKernel{router: r, services: svc}, nil
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists the named routes, for `cakeshop route:list`.
func (k *HTTPKernel) Routes() []router.RouteInfo { return k.router.Routes() }

// Services exposes the wired services to the server bootstrap.
func (k *HTTPKernel) Services() routes.Services { return k.services }
