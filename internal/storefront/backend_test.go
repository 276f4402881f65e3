package storefront

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/journal"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
)

// fakeBackend is an in-memory tienda API for one logged-in customer.
type fakeBackend struct {
	mu sync.Mutex

	customerID int
	active     *model.Cart
	carts      []model.Cart
	items      map[int]model.CartItem
	products   []model.Product
	shipments  []model.Shipment
	orders     []model.Order
	sales      []model.Sale
	customers  []model.Customer

	// failures maps "METHOD /pattern" to the status returned instead.
	failures map[string]int
	// adminOverride, when set, is what PATCH /clientes/{id}/admin stores.
	adminOverride *bool

	calls  []string
	nextID int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		customerID: 4,
		items:      map[int]model.CartItem{},
		failures:   map[string]int{},
		nextID:     100,
	}
}

func (b *fakeBackend) id() int {
	b.nextID++
	return b.nextID
}

func (b *fakeBackend) fail(route string, status int) {
	b.mu.Lock()
	b.failures[route] = status
	b.mu.Unlock()
}

func (b *fakeBackend) heal(route string) {
	b.mu.Lock()
	delete(b.failures, route)
	b.mu.Unlock()
}

func (b *fakeBackend) resetCalls() {
	b.mu.Lock()
	b.calls = nil
	b.mu.Unlock()
}

func (b *fakeBackend) callLog() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) count(route string) int {
	n := 0
	for _, c := range b.callLog() {
		if c == route {
			n++
		}
	}
	return n
}

// seedCart makes cartID the active cart.
func (b *fakeBackend) seedCart(cartID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := model.Cart{ID: cartID, CustomerID: b.customerID}
	b.active = &c
	b.carts = append(b.carts, c)
}

func (b *fakeBackend) seedProduct(name, brand string, price int64) model.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := model.Product{ID: b.id(), Name: name, Price: decimal.NewFromInt(price)}
	if brand != "" {
		p.Brand = &brand
	}
	b.products = append(b.products, p)
	return p
}

func (b *fakeBackend) seedItem(cartID int, p model.Product, qty int) model.CartItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	it := model.CartItem{ID: b.id(), CartID: cartID, ProductID: p.ID, Quantity: qty}
	b.items[it.ID] = it
	return it
}

func (b *fakeBackend) seedShipment(kind string, cost int64) model.Shipment {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := model.Shipment{ID: b.id(), Type: kind, Cost: decimal.NewFromInt(cost)}
	b.shipments = append(b.shipments, s)
	return s
}

func (b *fakeBackend) seedOrder(cartID, shipmentID int) model.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	o := model.Order{ID: b.id(), CartID: cartID, ShipmentID: shipmentID}
	b.orders = append(b.orders, o)
	return o
}

func (b *fakeBackend) product(id int) *model.Product {
	for _, p := range b.products {
		if p.ID == id {
			p := p
			return &p
		}
	}
	return nil
}

func (b *fakeBackend) cartItems(cartID int) []model.CartItem {
	out := []model.CartItem{}
	for _, it := range b.items {
		if it.CartID == cartID {
			it.Product = b.product(it.ProductID)
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *fakeBackend) serverItems(cartID int) []model.CartItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cartItems(cartID)
}

func (b *fakeBackend) salesSnapshot() []model.Sale {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Sale(nil), b.sales...)
}

func (b *fakeBackend) ordersSnapshot() []model.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Order(nil), b.orders...)
}

func (b *fakeBackend) handler() http.Handler {
	r := chi.NewRouter()
	route := func(method, pattern string, fn func(w http.ResponseWriter, r *http.Request)) {
		key := method + " " + pattern
		r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			b.mu.Lock()
			b.calls = append(b.calls, key)
			status, failing := b.failures[key]
			b.mu.Unlock()
			if failing {
				writeJSON(w, status, map[string]string{"detail": "injected failure on " + key})
				return
			}
			b.mu.Lock()
			defer b.mu.Unlock()
			fn(w, req)
		}))
	}

	route(http.MethodGet, "/carrito/me", func(w http.ResponseWriter, _ *http.Request) {
		if b.active == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Carrito no encontrado"})
			return
		}
		writeJSON(w, http.StatusOK, b.active)
	})
	route(http.MethodPost, "/carrito/nuevo", func(w http.ResponseWriter, _ *http.Request) {
		c := model.Cart{ID: b.id(), CustomerID: b.customerID}
		b.active = &c
		b.carts = append(b.carts, c)
		writeJSON(w, http.StatusCreated, c)
	})
	route(http.MethodGet, "/carrito/{id}/productos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, b.cartItems(pathID(r)))
	})
	route(http.MethodPost, "/carrito/{id}/productos", func(w http.ResponseWriter, r *http.Request) {
		var in model.AddCartItem
		_ = json.NewDecoder(r.Body).Decode(&in)
		it := model.CartItem{ID: b.id(), CartID: pathID(r), ProductID: in.ProductID, Quantity: in.Quantity}
		b.items[it.ID] = it
		writeJSON(w, http.StatusCreated, it)
	})
	route(http.MethodGet, "/carrito/{id}/resumen", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		sum := model.CartSummary{CartID: id, Subtotal: decimal.Zero}
		for _, it := range b.cartItems(id) {
			sum.TotalItems += it.Quantity
			sum.Subtotal = sum.Subtotal.Add(it.LineTotal())
		}
		writeJSON(w, http.StatusOK, sum)
	})
	route(http.MethodPatch, "/carrito/item/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in model.UpdateCartItem
		_ = json.NewDecoder(r.Body).Decode(&in)
		it, ok := b.items[pathID(r)]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Item no encontrado"})
			return
		}
		it.Quantity = in.Quantity
		b.items[it.ID] = it
		writeJSON(w, http.StatusOK, it)
	})
	route(http.MethodDelete, "/carrito/item/{id}", func(w http.ResponseWriter, r *http.Request) {
		delete(b.items, pathID(r))
		w.WriteHeader(http.StatusNoContent)
	})

	route(http.MethodGet, "/productos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.products)
	})
	route(http.MethodPost, "/productos", func(w http.ResponseWriter, r *http.Request) {
		var in model.NewProduct
		_ = json.NewDecoder(r.Body).Decode(&in)
		p := model.Product{ID: b.id(), Name: in.Name, Brand: in.Brand, Price: in.Price, Description: in.Description}
		b.products = append(b.products, p)
		writeJSON(w, http.StatusCreated, p)
	})
	route(http.MethodGet, "/envios", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.shipments)
	})
	route(http.MethodPost, "/envios", func(w http.ResponseWriter, r *http.Request) {
		var in model.NewShipment
		_ = json.NewDecoder(r.Body).Decode(&in)
		s := model.Shipment{ID: b.id(), Type: in.Type, Cost: in.Cost, DeliveryDays: in.DeliveryDays}
		b.shipments = append(b.shipments, s)
		writeJSON(w, http.StatusCreated, s)
	})

	route(http.MethodGet, "/pedidos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.orders)
	})
	route(http.MethodPost, "/pedidos", func(w http.ResponseWriter, r *http.Request) {
		var in model.NewOrder
		_ = json.NewDecoder(r.Body).Decode(&in)
		o := model.Order{ID: b.id(), CartID: in.CartID, ShipmentID: in.ShipmentID}
		b.orders = append(b.orders, o)
		writeJSON(w, http.StatusCreated, o)
	})
	route(http.MethodGet, "/pedidos/{id}/total", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		for _, o := range b.orders {
			if o.ID != id {
				continue
			}
			total := decimal.Zero
			for _, it := range b.cartItems(o.CartID) {
				total = total.Add(it.LineTotal())
			}
			for _, s := range b.shipments {
				if s.ID == o.ShipmentID {
					total = total.Add(s.Cost)
				}
			}
			writeJSON(w, http.StatusOK, model.OrderTotal{OrderID: id, Total: total})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Pedido no encontrado"})
	})
	route(http.MethodGet, "/ventas", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.sales)
	})
	route(http.MethodPost, "/ventas", func(w http.ResponseWriter, r *http.Request) {
		var in model.NewSale
		_ = json.NewDecoder(r.Body).Decode(&in)
		s := model.Sale{ID: b.id(), OrderID: in.OrderID, PaymentMethod: in.PaymentMethod, Total: in.Total}
		b.sales = append(b.sales, s)
		writeJSON(w, http.StatusCreated, s)
	})

	route(http.MethodGet, "/clientes", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, b.customers)
	})
	route(http.MethodPost, "/clientes", func(w http.ResponseWriter, r *http.Request) {
		var in model.NewCustomer
		_ = json.NewDecoder(r.Body).Decode(&in)
		c := model.Customer{ID: b.id(), FirstName: in.FirstName, LastName: in.LastName, BirthDate: in.BirthDate, NationalID: in.NationalID, Email: in.Email}
		b.customers = append(b.customers, c)
		writeJSON(w, http.StatusCreated, c)
	})
	route(http.MethodGet, "/clientes/{id}/carritos", func(w http.ResponseWriter, r *http.Request) {
		out := []model.Cart{}
		for _, c := range b.carts {
			if c.CustomerID == pathID(r) {
				out = append(out, c)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	route(http.MethodPatch, "/clientes/{id}/admin", func(w http.ResponseWriter, r *http.Request) {
		var in model.AdminFlag
		_ = json.NewDecoder(r.Body).Decode(&in)
		if b.adminOverride != nil {
			in.IsAdmin = *b.adminOverride
		}
		for i, c := range b.customers {
			if c.ID == pathID(r) {
				b.customers[i].IsAdmin = in.IsAdmin
				writeJSON(w, http.StatusOK, b.customers[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Cliente no encontrado"})
	})
	return r
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type staticUser struct {
	mu sync.Mutex
	u  *model.User
}

func (s *staticUser) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.u
}

func (s *staticUser) set(u *model.User) {
	s.mu.Lock()
	s.u = u
	s.mu.Unlock()
}

type fixture struct {
	be      *fakeBackend
	users   *staticUser
	toasts  *notify.Queue
	bus     *events.Bus
	journal *journal.MemoryRepository
	deps    Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	be := newFakeBackend()
	srv := httptest.NewServer(be.handler())
	t.Cleanup(srv.Close)

	logger := log.New(io.Discard, "", 0)
	bus := events.NewBus("test", logger, 32)
	t.Cleanup(bus.Close)

	f := &fixture{
		be:      be,
		users:   &staticUser{u: &model.User{ID: be.customerID, Email: "ana@example.com", FirstName: "Ana", LastName: "Lopez"}},
		toasts:  notify.NewQueue(),
		bus:     bus,
		journal: journal.NewMemoryRepository(),
	}
	base := clients.NewClient("tienda", srv.URL, srv.Client())
	f.deps = Deps{
		Users:   f.users,
		Toasts:  f.toasts,
		Signals: bus,
		Journal: f.journal,
		Logger:  logger,
	}.WithBackend(clients.NewBackend(base))
	return f
}

func (f *fixture) toastMessages() []string {
	var out []string
	for _, t := range f.toasts.Active() {
		out = append(out, string(t.Level)+": "+t.Message)
	}
	return out
}

// signalRecorder collects every signal published on the fixture bus.
type signalRecorder struct {
	mu    sync.Mutex
	kinds []events.Kind
}

func (f *fixture) recordSignals() *signalRecorder {
	rec := &signalRecorder{}
	f.bus.Subscribe(func(_ context.Context, s events.Signal) {
		rec.mu.Lock()
		rec.kinds = append(rec.kinds, s.Kind)
		rec.mu.Unlock()
	})
	return rec
}

func (r *signalRecorder) has(k events.Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, got := range r.kinds {
		if got == k {
			return true
		}
	}
	return false
}
