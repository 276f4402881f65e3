package httpapi

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/handlers"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

type Deps struct {
	Logger           *log.Logger
	CORSAllowOrigins []string

	Session   *session.Session
	Toasts    *notify.Queue
	Catalog   *storefront.CatalogView
	Cart      *storefront.CartView
	Orders    *storefront.OrdersView
	Customers *storefront.CustomersView
	Products  *storefront.ProductsView
	Shipping  *storefront.ShippingView
	Sales     *storefront.SalesView

	HealthProbes []clients.HealthProbe
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// outer -> inner
	r.Use(middleware.Logging(d.Logger))
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.CORS(d.CORSAllowOrigins))
	r.Use(middleware.Recover(d.Logger))

	health := &handlers.HealthHandler{Probes: d.HealthProbes}
	r.Get("/health", health.Self)
	r.Get("/health/upstream", health.Upstream)

	auth := handlers.NewAuthHandler(d.Session, d.Cart, d.Catalog, d.Orders)
	cat := handlers.NewCatalogHandler(d.Catalog)
	notes := handlers.NewNotificationsHandler(d.Toasts)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", auth.Login)
		r.Post("/auth/register", auth.Register)
		r.Post("/auth/logout", auth.Logout)
		r.Get("/auth/me", auth.Me)

		// browsing the catalog needs no session; adding does
		r.Get("/catalog", cat.List)

		r.Get("/notifications", notes.List)
		r.Delete("/notifications/{id}", notes.Dismiss)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(d.Session))

			r.Post("/catalog/{productId}/add", cat.Add)

			cart := handlers.NewCartHandler(d.Cart)
			r.Get("/cart", cart.Get)
			r.Post("/cart/reload", cart.Reload)
			r.Patch("/cart/items/{itemId}", cart.UpdateQuantity)
			r.Delete("/cart/items/{itemId}", cart.RemoveItem)
			r.Post("/cart/new", cart.NewCart)

			orders := handlers.NewOrdersHandler(d.Orders)
			r.Get("/orders", orders.List)
			r.Get("/orders/shipments", orders.Shipments)
			r.Put("/orders/shipment", orders.SelectShipment)
			r.Post("/orders", orders.Create)
			r.Post("/orders/new-cart", orders.NewCart)

			customers := handlers.NewCustomersHandler(d.Customers)
			products := handlers.NewAdminHandler[model.Product, model.NewProduct](d.Products)
			shipping := handlers.NewAdminHandler[model.Shipment, model.NewShipment](d.Shipping)
			sales := handlers.NewAdminHandler[model.Sale, model.NewSale](d.Sales)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/customers", customers.List)
				r.Post("/customers", customers.Create)
				r.Post("/customers/{id}/toggle-admin", customers.ToggleAdmin)
				r.Get("/products", products.List)
				r.Post("/products", products.Create)
				r.Get("/shipments", shipping.List)
				r.Post("/shipments", shipping.Create)
				r.Get("/sales", sales.List)
				r.Post("/sales", sales.Create)
			})
		})
	})

	return r
}
