package storefront

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

const msgCatalogLocked = `Your cart is locked because it already has an order. Go to "My Cart" to request a new one.`

type CatalogState struct {
	Products []model.Product `json:"products"`
	Query    string          `json:"query,omitempty"`
	Cart     *model.Cart     `json:"cart"`
	Locked   bool            `json:"locked"`
	Loading  bool            `json:"loading"`
}

type CatalogView struct {
	users    UserSource
	products ProductAPI
	carts    CartAPI
	orders   OrderAPI
	toasts   Notifier
	signals  Signals
	logger   *log.Logger

	mu       sync.Mutex
	list     []model.Product
	cart     *model.Cart
	locked   bool
	loading  bool
	loaded   bool
	resolved bool

	unsubscribe func()
}

func NewCatalogView(d Deps) *CatalogView {
	v := &CatalogView{
		users:    d.Users,
		products: d.Products,
		carts:    d.Carts,
		orders:   d.Orders,
		toasts:   d.Toasts,
		signals:  d.Signals,
		logger:   d.Logger,
	}
	v.unsubscribe = d.Signals.Subscribe(v.onSignal, events.KindNewCartRequested, events.KindOrderPlaced)
	return v
}

func (v *CatalogView) Close() { v.unsubscribe() }

func (v *CatalogView) onSignal(ctx context.Context, s events.Signal) {
	if err := v.ResolveCart(ctx); err != nil {
		v.logger.Printf("catalog cart refresh on %s: %v", s.Kind, err)
	}
}

// Mount loads products and resolves the cart on first use.
func (v *CatalogView) Mount(ctx context.Context) error {
	v.mu.Lock()
	loaded, resolved := v.loaded, v.resolved
	v.mu.Unlock()

	if !loaded {
		if err := v.Load(ctx); err != nil {
			return err
		}
	}
	if !resolved {
		return v.ResolveCart(ctx)
	}
	return nil
}

func (v *CatalogView) Load(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.loading = false
		v.mu.Unlock()
	}()

	list, err := v.products.List(ctx)
	if err != nil {
		toastLoadError(v.toasts, "Error loading products", err)
		return fmt.Errorf("load products: %w", err)
	}

	v.mu.Lock()
	v.list, v.loaded = list, true
	v.mu.Unlock()
	return nil
}

// ResolveCart refreshes the active cart and its lock. Without a user there is
// no cart and nothing is locked.
func (v *CatalogView) ResolveCart(ctx context.Context) error {
	if v.users.User() == nil {
		v.setCart(nil, false)
		return nil
	}

	cart, err := v.carts.Mine(ctx)
	if err != nil {
		toastLoadError(v.toasts, "Error loading cart", err)
		return fmt.Errorf("resolve cart: %w", err)
	}
	if cart == nil {
		v.setCart(nil, false)
		return nil
	}
	v.setCart(cart, cartLocked(ctx, v.orders, cart.ID, v.logger))
	return nil
}

func (v *CatalogView) setCart(cart *model.Cart, locked bool) {
	v.mu.Lock()
	v.cart, v.locked, v.resolved = cart, locked, true
	v.mu.Unlock()
}

func (v *CatalogView) AddToCart(ctx context.Context, productID int) error {
	if v.users.User() == nil {
		return ErrNotAuthenticated
	}

	v.mu.Lock()
	cart, locked := v.cart, v.locked
	v.mu.Unlock()

	if locked {
		v.toasts.Error(msgCatalogLocked)
		return ErrCartLocked
	}
	if cart == nil {
		if err := v.ResolveCart(ctx); err != nil {
			return err
		}
		v.mu.Lock()
		cart, locked = v.cart, v.locked
		v.mu.Unlock()
	}
	if locked {
		v.toasts.Error(msgCatalogLocked)
		return ErrCartLocked
	}
	if cart == nil {
		v.toasts.Error("Cart not available")
		return ErrNoActiveCart
	}

	if _, err := v.carts.AddItem(ctx, cart.ID, productID, 1); err != nil {
		if !sessionExpired(err) {
			v.toasts.Error("Error adding to cart: " + err.Error())
		}
		return fmt.Errorf("add product %d: %w", productID, err)
	}
	v.toasts.Success("Added to cart")
	v.signals.Publish(ctx, events.KindCartUpdated)
	return nil
}

// Filter matches q against name or brand, case-insensitively. An empty q
// returns every product.
func (v *CatalogView) Filter(q string) []model.Product {
	v.mu.Lock()
	list := v.list
	v.mu.Unlock()
	return filterProducts(list, q)
}

func filterProducts(list []model.Product, q string) []model.Product {
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]model.Product, 0, len(list))
	for _, p := range list {
		if needle == "" ||
			strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.BrandOr("")), needle) {
			out = append(out, p)
		}
	}
	return out
}

func (v *CatalogView) State(q string) CatalogState {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := CatalogState{
		Products: filterProducts(v.list, q),
		Query:    q,
		Locked:   v.locked,
		Loading:  v.loading,
	}
	if v.cart != nil {
		c := *v.cart
		st.Cart = &c
	}
	return st
}

// Reset drops the resolved cart; the product list is shared by every user.
func (v *CatalogView) Reset() {
	v.mu.Lock()
	v.cart, v.locked, v.resolved = nil, false, false
	v.mu.Unlock()
}
