package storefront

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/journal"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

// NoPaymentMethod is shown for orders whose sale has not been created.
const NoPaymentMethod = "N/A"

// OrderLine is an order with its frozen total, if any.
type OrderLine struct {
	Order         model.Order     `json:"order"`
	Total         decimal.Decimal `json:"total"`
	TotalText     string          `json:"totalText"`
	PaymentMethod string          `json:"paymentMethod"`
	Frozen        bool            `json:"frozen"`
}

type OrdersState struct {
	Orders           []OrderLine      `json:"orders"`
	Shipments        []model.Shipment `json:"shipments"`
	SelectedShipment int              `json:"selectedShipment,omitempty"`
	Loading          bool             `json:"loading"`
	Creating         bool             `json:"creating"`
}

// Checkout is the outcome of a completed order creation.
type Checkout struct {
	Order model.Order     `json:"order"`
	Total decimal.Decimal `json:"total"`
	Sale  model.Sale      `json:"sale"`
}

type OrdersView struct {
	users     UserSource
	carts     CartAPI
	customers CustomerAPI
	orders    OrderAPI
	sales     SaleAPI
	shipping  ShippingAPI
	toasts    Notifier
	signals   Signals
	journal   journal.Repository
	logger    *log.Logger

	mu        sync.Mutex
	lines     []OrderLine
	shipments []model.Shipment
	selected  int
	loading   bool
	creating  bool
	loaded    bool
}

func NewOrdersView(d Deps) *OrdersView {
	return &OrdersView{
		users:     d.Users,
		carts:     d.Carts,
		customers: d.Customers,
		orders:    d.Orders,
		sales:     d.Sales,
		shipping:  d.Shipping,
		toasts:    d.Toasts,
		signals:   d.Signals,
		journal:   d.Journal,
		logger:    d.Logger,
	}
}

// Mount loads shipments and orders the first time the view is shown.
func (v *OrdersView) Mount(ctx context.Context) error {
	v.mu.Lock()
	loaded := v.loaded
	v.mu.Unlock()
	if loaded {
		return nil
	}
	if v.users.User() == nil {
		return ErrNotAuthenticated
	}
	if err := v.LoadShipments(ctx); err != nil {
		v.logger.Printf("mount orders: %v", err)
	}
	return v.Load(ctx)
}

// Load lists the user's orders: every order on a cart the user ever owned,
// joined with its sale.
func (v *OrdersView) Load(ctx context.Context) error {
	user := v.users.User()
	if user == nil {
		return ErrNotAuthenticated
	}

	v.setFlag(&v.loading, true)
	defer v.setFlag(&v.loading, false)

	lines, err := v.fetchLines(ctx, user.ID)
	if err != nil {
		toastLoadError(v.toasts, "Error loading orders", err)
		return fmt.Errorf("load orders: %w", err)
	}

	v.mu.Lock()
	v.lines, v.loaded = lines, true
	v.mu.Unlock()
	return nil
}

func (v *OrdersView) fetchLines(ctx context.Context, customerID int) ([]OrderLine, error) {
	all, err := v.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	carts, err := v.customers.Carts(ctx, customerID)
	if err != nil {
		return nil, err
	}
	owned := make(map[int]bool, len(carts))
	for _, c := range carts {
		owned[c.ID] = true
	}
	sales, err := v.sales.List(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]OrderLine, 0, len(all))
	for _, o := range all {
		if !owned[o.CartID] {
			continue
		}
		line := OrderLine{Order: o, Total: decimal.Zero, PaymentMethod: NoPaymentMethod}
		if s, ok := model.FindSaleForOrder(sales, o.ID); ok {
			line.Total, line.PaymentMethod, line.Frozen = s.Total, s.PaymentMethod, true
		}
		line.TotalText = model.FormatMoney(line.Total)
		lines = append(lines, line)
	}
	return lines, nil
}

// LoadShipments lists shipping options and preselects the first one unless the
// current selection is still offered.
func (v *OrdersView) LoadShipments(ctx context.Context) error {
	list, err := v.shipping.List(ctx)
	if err != nil {
		v.toasts.Error("Error loading shipping options: " + err.Error())
		return fmt.Errorf("load shipments: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.shipments = list
	if !hasShipment(list, v.selected) {
		v.selected = 0
		if len(list) > 0 {
			v.selected = list[0].ID
		}
	}
	return nil
}

func (v *OrdersView) SelectShipment(id int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !hasShipment(v.shipments, id) {
		return fmt.Errorf("%w: %d", ErrUnknownShipment, id)
	}
	v.selected = id
	return nil
}

func hasShipment(list []model.Shipment, id int) bool {
	if id == 0 {
		return false
	}
	for _, s := range list {
		if s.ID == id {
			return true
		}
	}
	return false
}

// CreateOrderFromCart turns the active cart into an order and freezes its
// total in a sale. Steps are not atomic: a failure after the order exists is
// left for the journal reconciler.
func (v *OrdersView) CreateOrderFromCart(ctx context.Context) (Checkout, error) {
	user := v.users.User()
	if user == nil {
		return Checkout{}, ErrNotAuthenticated
	}

	v.setFlag(&v.creating, true)
	defer v.setFlag(&v.creating, false)

	res, err := v.checkout(ctx, user.ID)
	if err != nil {
		return res, err
	}

	v.toasts.Success("Order created! Total: " + model.FormatMoney(res.Total))
	if err := v.Load(ctx); err != nil {
		v.logger.Printf("reload after order %d: %v", res.Order.ID, err)
	}
	v.signals.Publish(ctx, events.KindOrderPlaced)
	return res, nil
}

func (v *OrdersView) checkout(ctx context.Context, customerID int) (Checkout, error) {
	var res Checkout

	cart, err := v.carts.Mine(ctx)
	if err != nil {
		return res, v.checkoutFailed(err)
	}
	if cart == nil {
		v.toasts.Error("No active cart")
		return res, ErrNoActiveCart
	}

	items, err := v.carts.Items(ctx, cart.ID)
	if err != nil {
		return res, v.checkoutFailed(err)
	}
	if len(items) == 0 {
		v.toasts.Error("The cart is empty")
		return res, ErrEmptyCart
	}

	all, err := v.orders.List(ctx)
	if err != nil {
		return res, v.checkoutFailed(err)
	}
	if _, dup := model.FindOrderForCart(all, cart.ID); dup {
		v.toasts.Error("You already have an active order. The current cart is reserved for it.")
		return res, ErrDuplicateOrder
	}

	v.mu.Lock()
	shipmentID := v.selected
	v.mu.Unlock()
	if shipmentID == 0 {
		v.toasts.Error("You must select a shipping option")
		return res, ErrNoShipment
	}

	order, err := v.orders.Create(ctx, model.NewOrder{CartID: cart.ID, ShipmentID: shipmentID})
	if err != nil {
		return res, v.checkoutFailed(err)
	}
	res.Order = order
	v.record("record", func(r journal.Repository) error {
		return r.Record(ctx, journal.Entry{OrderID: order.ID, CartID: cart.ID, ShipmentID: shipmentID, CustomerID: customerID})
	})

	total, err := v.orders.Total(ctx, order.ID)
	if err != nil {
		v.markFailed(ctx, order.ID, err)
		return res, v.checkoutFailed(err)
	}
	res.Total = total.Total
	v.record("total", func(r journal.Repository) error {
		return r.MarkTotal(ctx, order.ID, total.Total)
	})

	sale, err := v.sales.Create(ctx, model.NewSale{
		OrderID:       order.ID,
		PaymentMethod: model.PendingPaymentMethod,
		Total:         total.Total,
	})
	if err != nil {
		v.markFailed(ctx, order.ID, err)
		return res, v.checkoutFailed(err)
	}
	res.Sale = sale
	v.record("frozen", func(r journal.Repository) error {
		return r.MarkFrozen(ctx, order.ID, sale.ID)
	})
	return res, nil
}

func (v *OrdersView) checkoutFailed(err error) error {
	v.toasts.Error("Error creating order: " + err.Error())
	return fmt.Errorf("create order: %w", err)
}

func (v *OrdersView) markFailed(ctx context.Context, orderID int, cause error) {
	v.record("failed", func(r journal.Repository) error {
		return r.MarkFailed(ctx, orderID, cause.Error())
	})
}

// record writes to the journal when one is configured. Journal failures are
// logged and never fail the checkout.
func (v *OrdersView) record(step string, fn func(journal.Repository) error) {
	if v.journal == nil {
		return
	}
	if err := fn(v.journal); err != nil {
		v.logger.Printf("checkout journal %s: %v", step, err)
	}
}

func (v *OrdersView) RequestNewCart(ctx context.Context) error {
	if err := requestNewCart(ctx, v.carts, v.toasts); err != nil {
		return err
	}
	if err := v.Load(ctx); err != nil {
		v.logger.Printf("reload after new cart: %v", err)
	}
	v.signals.Publish(ctx, events.KindNewCartRequested)
	return nil
}

func (v *OrdersView) State() OrdersState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return OrdersState{
		Orders:           append([]OrderLine{}, v.lines...),
		Shipments:        append([]model.Shipment{}, v.shipments...),
		SelectedShipment: v.selected,
		Loading:          v.loading,
		Creating:         v.creating,
	}
}

func (v *OrdersView) setFlag(f *bool, on bool) {
	v.mu.Lock()
	*f = on
	v.mu.Unlock()
}

func (v *OrdersView) Reset() {
	v.mu.Lock()
	v.lines, v.loaded = nil, false
	v.mu.Unlock()
}
