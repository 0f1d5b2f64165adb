package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Rogerio-17/cardapio-digital-web/internal/cart"
	"github.com/Rogerio-17/cardapio-digital-web/internal/catalog"
	"github.com/Rogerio-17/cardapio-digital-web/internal/checkout"
	"github.com/Rogerio-17/cardapio-digital-web/internal/metrics"
	"github.com/Rogerio-17/cardapio-digital-web/internal/orders"
	"github.com/Rogerio-17/cardapio-digital-web/internal/postal"
)

const (
	ServiceName      = "menu-service"
	metricsSubsystem = "menu_service"
)

type Deps struct {
	Catalog      catalog.Repository
	Carts        *cart.Service
	Submitter    checkout.Submitter
	ChangePolicy checkout.ChangePolicy
	Postal       postal.Lookuper
	Orders       *orders.Service
	Registry     *prometheus.Registry
	Logger       logrus.FieldLogger

	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	if d.Registry == nil {
		d.Registry = metrics.NewRegistry()
	}
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 30 * time.Second
	}

	catalogHandler := NewCatalogHandler(d.Catalog, d.RequestTimeout, d.Logger)
	cartHandler := NewCartHandler(d.Carts, d.Catalog, d.RequestTimeout, d.Logger)
	checkoutHandler := NewCheckoutHandler(d.Carts, d.Catalog, d.Submitter, d.ChangePolicy, d.RequestTimeout, d.Logger)
	postalHandler := NewPostalHandler(d.Postal, d.RequestTimeout, d.Logger)
	ordersHandler := NewOrdersHandler(d.Orders, d.Catalog, d.RequestTimeout, d.Logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(d.Logger))
	r.Use(MetricsMiddleware(metrics.NewServerMetrics(d.Registry, metricsSubsystem)))
	r.Use(middleware.Timeout(d.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler(d.Registry))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", catalogHandler.ListRestaurants)
			r.Post("/", catalogHandler.Register)
			r.Get("/slug-suggestion", catalogHandler.SuggestSlug)
			r.Post("/registration/steps/{step}", catalogHandler.ValidateRegistrationStep)
			r.Get("/{slug}", catalogHandler.GetRestaurant)
			r.Get("/{slug}/products/{productID}", catalogHandler.GetProduct)
			r.Get("/{slug}/orders", ordersHandler.Dashboard)
			r.With(SessionMiddleware).Post("/{slug}/checkout", checkoutHandler.Finalize)
			r.With(SessionMiddleware).Post("/{slug}/checkout/validate", checkoutHandler.Validate)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(SessionMiddleware)
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Patch("/items/{itemID}", cartHandler.UpdateItem)
			r.Delete("/items/{itemID}", cartHandler.RemoveItem)
		})

		r.With(SessionMiddleware).Get("/postal-codes/{code}", postalHandler.Lookup)

		r.Route("/orders/{orderID}", func(r chi.Router) {
			r.Get("/", ordersHandler.GetOrder)
			r.Patch("/status", ordersHandler.UpdateStatus)
		})
	})

	return otelhttp.NewHandler(r, ServiceName)
}
