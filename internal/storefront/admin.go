package storefront

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type validator interface {
	Validate() error
}

// AdminState keeps the last load error for display next to the list.
type AdminState[T any] struct {
	Items    []T    `json:"items"`
	Error    string `json:"error,omitempty"`
	Loading  bool   `json:"loading"`
	Updating int    `json:"updating,omitempty"`
}

// adminList is the list-and-create behaviour shared by the admin screens.
type adminList[T any, N validator] struct {
	noun   string
	list   func(ctx context.Context) ([]T, error)
	create func(ctx context.Context, in N) (T, error)
	toasts Notifier

	mu       sync.Mutex
	items    []T
	lastErr  string
	loading  bool
	updating int
}

func (a *adminList[T, N]) Load(ctx context.Context) error {
	a.mu.Lock()
	a.loading, a.lastErr = true, ""
	a.mu.Unlock()

	items, err := a.list(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = false
	if err != nil {
		a.lastErr = err.Error()
		return fmt.Errorf("load %ss: %w", a.noun, err)
	}
	a.items = items
	return nil
}

// Create validates in locally, creates it and reloads the list.
func (a *adminList[T, N]) Create(ctx context.Context, in N) (T, error) {
	var zero T
	if err := in.Validate(); err != nil {
		return zero, err
	}

	out, err := a.create(ctx, in)
	if err != nil {
		a.mu.Lock()
		a.lastErr = err.Error()
		a.mu.Unlock()
		a.toasts.Error("Error creating " + a.noun)
		return zero, fmt.Errorf("create %s: %w", a.noun, err)
	}

	a.toasts.Success(capitalize(a.noun) + " created")
	// a failed reload shows up in lastErr
	_ = a.Load(ctx)
	return out, nil
}

func (a *adminList[T, N]) State() AdminState[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AdminState[T]{
		Items:    append([]T{}, a.items...),
		Error:    a.lastErr,
		Loading:  a.loading,
		Updating: a.updating,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type ProductsView struct {
	*adminList[model.Product, model.NewProduct]
}

func NewProductsView(d Deps) *ProductsView {
	return &ProductsView{&adminList[model.Product, model.NewProduct]{
		noun: "product", list: d.Products.List, create: d.Products.Create, toasts: d.Toasts,
	}}
}

type ShippingView struct {
	*adminList[model.Shipment, model.NewShipment]
}

func NewShippingView(d Deps) *ShippingView {
	return &ShippingView{&adminList[model.Shipment, model.NewShipment]{
		noun: "shipping option", list: d.Shipping.List, create: d.Shipping.Create, toasts: d.Toasts,
	}}
}

type SalesView struct {
	*adminList[model.Sale, model.NewSale]
}

func NewSalesView(d Deps) *SalesView {
	return &SalesView{&adminList[model.Sale, model.NewSale]{
		noun: "sale", list: d.Sales.List, create: d.Sales.Create, toasts: d.Toasts,
	}}
}

type CustomersView struct {
	*adminList[model.Customer, model.NewCustomer]
	customers CustomerAPI
}

func NewCustomersView(d Deps) *CustomersView {
	return &CustomersView{
		adminList: &adminList[model.Customer, model.NewCustomer]{
			noun: "customer", list: d.Customers.List, create: d.Customers.Create, toasts: d.Toasts,
		},
		customers: d.Customers,
	}
}

// ToggleAdmin flips the customer's admin flag on the backend and replaces the
// local record with whatever the backend returned.
func (v *CustomersView) ToggleAdmin(ctx context.Context, customerID int) (model.Customer, error) {
	v.mu.Lock()
	current, found := false, false
	for _, c := range v.items {
		if c.ID == customerID {
			current, found = c.IsAdmin, true
			break
		}
	}
	if found {
		v.updating = customerID
	}
	v.mu.Unlock()

	if !found {
		return model.Customer{}, fmt.Errorf("%w: customer %d is not listed", ErrInvalidInput, customerID)
	}

	updated, err := v.customers.SetAdmin(ctx, customerID, !current)

	v.mu.Lock()
	if v.updating == customerID {
		v.updating = 0
	}
	if err == nil {
		for i := range v.items {
			if v.items[i].ID == customerID {
				v.items[i] = updated
			}
		}
	}
	v.mu.Unlock()

	if err != nil {
		v.toasts.Error("Error updating admin status")
		return model.Customer{}, fmt.Errorf("toggle admin %d: %w", customerID, err)
	}

	role := "a customer"
	if updated.IsAdmin {
		role = "an administrator"
	}
	v.toasts.Success(updated.FirstName + " is now " + role)
	return updated, nil
}
