package storefront

import (
	"context"
	"log"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/journal"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type UserSource interface {
	User() *model.User
}

type CartAPI interface {
	Mine(ctx context.Context) (*model.Cart, error)
	New(ctx context.Context) (model.Cart, error)
	AddItem(ctx context.Context, cartID, productID, quantity int) (model.CartItem, error)
	Items(ctx context.Context, cartID int) ([]model.CartItem, error)
	Summary(ctx context.Context, cartID int) (model.CartSummary, error)
	UpdateItem(ctx context.Context, itemID, quantity int) (model.CartItem, error)
	DeleteItem(ctx context.Context, itemID int) error
}

type OrderAPI interface {
	List(ctx context.Context) ([]model.Order, error)
	Create(ctx context.Context, in model.NewOrder) (model.Order, error)
	Total(ctx context.Context, orderID int) (model.OrderTotal, error)
}

type SaleAPI interface {
	List(ctx context.Context) ([]model.Sale, error)
	Create(ctx context.Context, in model.NewSale) (model.Sale, error)
}

type ProductAPI interface {
	List(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, in model.NewProduct) (model.Product, error)
}

type ShippingAPI interface {
	List(ctx context.Context) ([]model.Shipment, error)
	Create(ctx context.Context, in model.NewShipment) (model.Shipment, error)
}

type CustomerAPI interface {
	List(ctx context.Context) ([]model.Customer, error)
	Create(ctx context.Context, in model.NewCustomer) (model.Customer, error)
	Carts(ctx context.Context, customerID int) ([]model.Cart, error)
	SetAdmin(ctx context.Context, customerID int, isAdmin bool) (model.Customer, error)
}

type Notifier interface {
	Info(message string) int64
	Success(message string) int64
	Error(message string) int64
}

type Signals interface {
	Publish(ctx context.Context, kind events.Kind) (events.Signal, bool)
	Subscribe(h events.Handler, kinds ...events.Kind) (unsubscribe func())
}

// Deps is shared by every view. Journal may be nil.
type Deps struct {
	Users     UserSource
	Carts     CartAPI
	Orders    OrderAPI
	Sales     SaleAPI
	Products  ProductAPI
	Shipping  ShippingAPI
	Customers CustomerAPI
	Toasts    Notifier
	Signals   Signals
	Journal   journal.Repository
	Logger    *log.Logger
}

// WithBackend fills the API fields from the typed backend clients.
func (d Deps) WithBackend(b *clients.Backend) Deps {
	d.Carts = b.Carts
	d.Orders = b.Orders
	d.Sales = b.Sales
	d.Products = b.Products
	d.Shipping = b.Shipping
	d.Customers = b.Customers
	return d
}
