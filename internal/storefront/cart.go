package storefront

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

// CartPhase is the client-observed lifecycle of the active cart.
type CartPhase string

const (
	CartEmpty  CartPhase = "empty"
	CartActive CartPhase = "active"
	CartLocked CartPhase = "locked"
)

const (
	msgCartLocked      = "This cart is locked because it already has an order"
	msgQuantityUpdated = "Quantity updated"
	msgItemRemoved     = "Product removed from cart"
	msgNewCart         = "New cart created! You can keep shopping"
)

type CartLine struct {
	Item      model.CartItem `json:"item"`
	UnitPrice string         `json:"unitPrice"`
	LineTotal string         `json:"lineTotal"`
}

// CartState is a copy; mutating it does not affect the view.
type CartState struct {
	Cart      *model.Cart        `json:"cart"`
	Items     []CartLine         `json:"items"`
	Summary   *model.CartSummary `json:"summary"`
	Subtotal  string             `json:"subtotal"`
	ItemCount int                `json:"itemCount"`
	Locked    bool               `json:"locked"`
	CanEdit   bool               `json:"canEdit"`
	Loading   bool               `json:"loading"`
	Phase     CartPhase          `json:"phase"`
}

// CartView reconciles the active cart with the order list. State is guarded by
// mu, which is never held across a backend call: overlapping operations
// interleave and the last response to arrive wins.
type CartView struct {
	users   UserSource
	carts   CartAPI
	orders  OrderAPI
	toasts  Notifier
	signals Signals
	logger  *log.Logger

	mu      sync.Mutex
	cart    *model.Cart
	items   []model.CartItem
	summary *model.CartSummary
	locked  bool
	loading int
	loaded  bool

	unsubscribe func()
}

func NewCartView(d Deps) *CartView {
	v := &CartView{
		users:   d.Users,
		carts:   d.Carts,
		orders:  d.Orders,
		toasts:  d.Toasts,
		signals: d.Signals,
		logger:  d.Logger,
	}
	v.unsubscribe = d.Signals.Subscribe(v.onSignal,
		events.KindCartUpdated, events.KindNewCartRequested, events.KindOrderPlaced)
	return v
}

func (v *CartView) Close() { v.unsubscribe() }

func (v *CartView) onSignal(ctx context.Context, s events.Signal) {
	if v.users.User() == nil {
		return
	}
	if err := v.Load(ctx); err != nil {
		v.logger.Printf("cart reload on %s: %v", s.Kind, err)
	}
}

// Mount loads the cart the first time the view is shown.
func (v *CartView) Mount(ctx context.Context) error {
	v.mu.Lock()
	loaded := v.loaded
	v.mu.Unlock()
	if loaded {
		return nil
	}
	return v.Load(ctx)
}

func (v *CartView) Load(ctx context.Context) error {
	if v.users.User() == nil {
		return ErrNotAuthenticated
	}

	v.setLoading(true)
	defer v.setLoading(false)

	cart, err := v.carts.Mine(ctx)
	if err != nil {
		return v.loadFailed(err)
	}
	if cart == nil {
		v.mu.Lock()
		v.cart, v.items, v.summary, v.locked, v.loaded = nil, nil, nil, false, true
		v.mu.Unlock()
		return nil
	}

	locked := cartLocked(ctx, v.orders, cart.ID, v.logger)

	items, err := v.carts.Items(ctx, cart.ID)
	if err != nil {
		return v.loadFailed(err)
	}
	summary, err := v.carts.Summary(ctx, cart.ID)
	if err != nil {
		return v.loadFailed(err)
	}

	v.mu.Lock()
	v.cart, v.items, v.summary, v.locked, v.loaded = cart, items, &summary, locked, true
	v.mu.Unlock()
	return nil
}

func (v *CartView) loadFailed(err error) error {
	toastLoadError(v.toasts, "Error loading cart", err)
	return fmt.Errorf("load cart: %w", err)
}

// guard returns the current cart id when the cart may be edited.
func (v *CartView) guard() (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.locked {
		return 0, ErrCartLocked
	}
	if v.cart == nil {
		return 0, ErrNoActiveCart
	}
	return v.cart.ID, nil
}

func (v *CartView) UpdateQuantity(ctx context.Context, itemID, quantity int) error {
	cartID, err := v.guard()
	if err != nil {
		if errors.Is(err, ErrCartLocked) {
			v.toasts.Error(msgCartLocked)
		}
		return err
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	v.mu.Lock()
	for i := range v.items {
		if v.items[i].ID == itemID {
			v.items[i].Quantity = quantity
		}
	}
	v.mu.Unlock()

	if _, err := v.carts.UpdateItem(ctx, itemID, quantity); err != nil {
		v.toasts.Error("Error updating quantity")
		return v.rollback(ctx, err)
	}
	if err := v.refreshSummary(ctx, cartID); err != nil {
		v.toasts.Error("Error updating quantity")
		return v.rollback(ctx, err)
	}
	v.toasts.Success(msgQuantityUpdated)
	return nil
}

func (v *CartView) RemoveItem(ctx context.Context, itemID int) error {
	cartID, err := v.guard()
	if err != nil {
		if errors.Is(err, ErrCartLocked) {
			v.toasts.Error(msgCartLocked)
		}
		return err
	}

	v.mu.Lock()
	kept := v.items[:0:0]
	for _, it := range v.items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	v.items = kept
	v.mu.Unlock()

	if err := v.carts.DeleteItem(ctx, itemID); err != nil {
		v.toasts.Error("Error removing product")
		return v.rollback(ctx, err)
	}
	if err := v.refreshSummary(ctx, cartID); err != nil {
		v.toasts.Error("Error removing product")
		return v.rollback(ctx, err)
	}
	v.toasts.Success(msgItemRemoved)
	return nil
}

func (v *CartView) refreshSummary(ctx context.Context, cartID int) error {
	summary, err := v.carts.Summary(ctx, cartID)
	if err != nil {
		return err
	}
	v.mu.Lock()
	if v.cart != nil && v.cart.ID == cartID {
		v.summary = &summary
	}
	v.mu.Unlock()
	return nil
}

// rollback discards optimistic changes by reloading from the backend and
// returns the error that caused it.
func (v *CartView) rollback(ctx context.Context, cause error) error {
	if err := v.Load(ctx); err != nil {
		v.logger.Printf("cart rollback reload: %v", err)
	}
	return cause
}

func (v *CartView) RequestNewCart(ctx context.Context) error {
	if err := requestNewCart(ctx, v.carts, v.toasts); err != nil {
		return err
	}
	if err := v.Load(ctx); err != nil {
		v.logger.Printf("reload after new cart: %v", err)
	}
	v.signals.Publish(ctx, events.KindNewCartRequested)
	return nil
}

func requestNewCart(ctx context.Context, carts CartAPI, toasts Notifier) error {
	if _, err := carts.New(ctx); err != nil {
		toasts.Error("Error creating new cart: " + err.Error())
		return fmt.Errorf("new cart: %w", err)
	}
	toasts.Success(msgNewCart)
	return nil
}

func (v *CartView) State() CartState {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := CartState{
		Locked:   v.locked,
		CanEdit:  v.cart != nil && !v.locked,
		Loading:  v.loading > 0,
		Subtotal: model.FormatMoney(decimal.Zero),
		Phase:    CartEmpty,
		Items:    make([]CartLine, 0, len(v.items)),
	}
	if v.cart != nil {
		c := *v.cart
		st.Cart = &c
		st.Phase = CartActive
		if v.locked {
			st.Phase = CartLocked
		}
	}
	for _, it := range v.items {
		if it.Product != nil {
			p := *it.Product
			it.Product = &p
		}
		st.Items = append(st.Items, CartLine{
			Item:      it,
			UnitPrice: model.FormatMoney(it.UnitPrice()),
			LineTotal: model.FormatMoney(it.LineTotal()),
		})
	}
	if v.summary != nil {
		s := *v.summary
		st.Summary = &s
		st.Subtotal = model.FormatMoney(s.Subtotal)
		st.ItemCount = s.TotalItems
	}
	return st
}

func (v *CartView) setLoading(on bool) {
	v.mu.Lock()
	if on {
		v.loading++
	} else {
		v.loading--
	}
	v.mu.Unlock()
}

// Reset forgets the cart so the next Mount reloads it, e.g. after a user change.
func (v *CartView) Reset() {
	v.mu.Lock()
	v.cart, v.items, v.summary, v.locked, v.loaded = nil, nil, nil, false, false
	v.mu.Unlock()
}
