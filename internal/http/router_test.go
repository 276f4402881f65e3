package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/journal"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

// tienda is a tiny backend: one customer, cart 7 with one line, optional order.
type tienda struct {
	mu       sync.Mutex
	locked   bool
	empty    bool
	patches  int
	orderHit int
}

func (tb *tienda) routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{"access_token":"tok","token_type":"bearer"}`)
	})
	r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeBody(w, http.StatusUnauthorized, `{"detail":"Not authenticated"}`)
			return
		}
		writeBody(w, http.StatusOK, `{"pk_id_cliente":4,"correo":"ana@example.com","primer_nombre":"Ana","primer_apellido":"Lopez"}`)
	})
	r.Get("/carrito/me", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{"pk_id_carrito_compra":7,"fk_id_cliente":4}`)
	})
	r.Get("/pedidos", func(w http.ResponseWriter, r *http.Request) {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		if tb.locked {
			writeBody(w, http.StatusOK, `[{"pk_id_pedido":1,"fk_id_carrito_compra":7,"fk_id_envio":1}]`)
			return
		}
		writeBody(w, http.StatusOK, `[]`)
	})
	r.Post("/pedidos", func(w http.ResponseWriter, r *http.Request) {
		tb.mu.Lock()
		tb.orderHit++
		tb.mu.Unlock()
		writeBody(w, http.StatusCreated, `{"pk_id_pedido":2,"fk_id_carrito_compra":7,"fk_id_envio":1}`)
	})
	r.Get("/carrito/7/productos", func(w http.ResponseWriter, r *http.Request) {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		if tb.empty {
			writeBody(w, http.StatusOK, `[]`)
			return
		}
		writeBody(w, http.StatusOK, `[{"pk_id_carrito_producto":70,"fk_id_carrito_compra":7,"fk_id_producto":1,"cantidad":2,
			"producto":{"pk_id_producto":1,"nombre":"P1","precio":10}}]`)
	})
	r.Get("/carrito/7/resumen", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{"carrito_id":7,"total_items":2,"subtotal":20.00}`)
	})
	r.Patch("/carrito/item/70", func(w http.ResponseWriter, r *http.Request) {
		tb.mu.Lock()
		tb.patches++
		tb.mu.Unlock()
		writeBody(w, http.StatusOK, `{"pk_id_carrito_producto":70,"fk_id_carrito_compra":7,"fk_id_producto":1,"cantidad":3}`)
	})
	r.Get("/envios", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `[{"pk_id_envio":1,"tipo_envio":"Standard","costo_envio":5}]`)
	})
	r.Get("/productos", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `[{"pk_id_producto":1,"nombre":"P1","marca":"Acme","precio":10},{"pk_id_producto":2,"nombre":"Lamp","precio":30}]`)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{"status":"ok"}`)
	})
	return r
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newRouterForBackend(t *testing.T, baseURL string, httpClient *http.Client) (http.Handler, *notify.Queue) {
	t.Helper()
	logger := log.New(io.Discard, "", 0)

	base := clients.NewClient("tienda", baseURL, httpClient)
	backend := clients.NewBackend(base)
	sess := session.New(backend.Auth, session.NewMemoryStore(), logger)

	bus := events.NewBus("router-test", logger, 16)
	t.Cleanup(bus.Close)

	toasts := notify.NewQueue()
	deps := storefront.Deps{
		Users:   sess,
		Toasts:  toasts,
		Signals: bus,
		Journal: journal.NewMemoryRepository(),
		Logger:  logger,
	}.WithBackend(backend)

	cart := storefront.NewCartView(deps)
	catalog := storefront.NewCatalogView(deps)
	t.Cleanup(cart.Close)
	t.Cleanup(catalog.Close)

	return NewRouter(Deps{
		Logger:           logger,
		CORSAllowOrigins: []string{"*"},
		Session:          sess,
		Toasts:           toasts,
		Catalog:          catalog,
		Cart:             cart,
		Orders:           storefront.NewOrdersView(deps),
		Customers:        storefront.NewCustomersView(deps),
		Products:         storefront.NewProductsView(deps),
		Shipping:         storefront.NewShippingView(deps),
		Sales:            storefront.NewSalesView(deps),
		HealthProbes:     []clients.HealthProbe{{Name: "tienda", Client: base, Path: "/health"}},
	}), toasts
}

func newTestRouter(t *testing.T) (http.Handler, *tienda, *notify.Queue) {
	t.Helper()
	tb := &tienda{}
	srv := httptest.NewServer(tb.routes())
	t.Cleanup(srv.Close)
	h, toasts := newRouterForBackend(t, srv.URL, srv.Client())
	return h, tb, toasts
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func login(t *testing.T, h http.Handler) {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/api/auth/login", `{"correo":"ana@example.com","contrasena":"secret1"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestHealthRoutes(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rr := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "storefront", decode(t, rr)["service"])

	rr = do(t, h, http.MethodGet, "/health/upstream", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode(t, rr)["status"])
}

func TestCorrelationIDEchoAndGeneration(t *testing.T) {
	h, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-Id", "abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc", rr.Header().Get("X-Correlation-Id"))

	rr = do(t, h, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rr.Header().Get("X-Correlation-Id"))
}

func TestSessionRoutesRequireLogin(t *testing.T) {
	h, _, _ := newTestRouter(t)

	for _, path := range []string{"/api/cart", "/api/orders", "/api/admin/customers"} {
		rr := do(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
		assert.NotEmpty(t, decode(t, rr)["error"])
	}

	rr := do(t, h, http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCatalogIsPublicAndFiltered(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rr := do(t, h, http.MethodGet, "/api/catalog?q=acme", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var st storefront.CatalogState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	require.Len(t, st.Products, 1)
	assert.Equal(t, "P1", st.Products[0].Name)
	assert.Nil(t, st.Cart)
}

func TestCartAfterLogin(t *testing.T) {
	h, _, _ := newTestRouter(t)
	login(t, h)

	rr := do(t, h, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var st storefront.CartState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, "$20.00", st.Subtotal)
	assert.Equal(t, 2, st.ItemCount)
	assert.True(t, st.CanEdit)
}

func TestLockedCartPatchIsConflictWithoutBackendCall(t *testing.T) {
	h, tb, toasts := newTestRouter(t)
	tb.locked = true
	login(t, h)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/cart", "").Code)

	rr := do(t, h, http.MethodPatch, "/api/cart/items/70", `{"quantity":3}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Zero(t, tb.patches)

	var found bool
	for _, n := range toasts.Active() {
		found = found || strings.Contains(n.Message, "locked")
	}
	assert.True(t, found)
}

func TestBadQuantityIsBadRequest(t *testing.T) {
	h, _, _ := newTestRouter(t)
	login(t, h)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/cart", "").Code)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPatch, "/api/cart/items/70", `{"quantity":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPatch, "/api/cart/items/abc", `{"quantity":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPatch, "/api/cart/items/70", `{"qty":1}`).Code)
}

func TestOrderOnEmptyCartIsUnprocessable(t *testing.T) {
	h, tb, _ := newTestRouter(t)
	tb.empty = true
	login(t, h)

	rr := do(t, h, http.MethodPost, "/api/orders", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, storefront.ErrEmptyCart.Error(), decode(t, rr)["error"])
	assert.Zero(t, tb.orderHit)
}

func TestUnknownShipmentIsBadRequest(t *testing.T) {
	h, _, _ := newTestRouter(t)
	login(t, h)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/orders/shipments", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/api/orders/shipment", `{"shipmentId":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/api/orders/shipment", `{"shipmentId":9}`).Code)
}

func TestUnreachableBackendIsBadGateway(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	h, _ := newRouterForBackend(t, url, &http.Client{})
	rr := do(t, h, http.MethodPost, "/api/auth/login", `{"correo":"ana@example.com","contrasena":"secret1"}`)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, decode(t, rr)["error"], "check that it is running on port")
}

func TestNotificationsListAndDismiss(t *testing.T) {
	h, _, toasts := newTestRouter(t)
	id := toasts.Info("hello")

	rr := do(t, h, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []notify.Toast
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "hello", list[0].Message)

	path := "/api/notifications/" + strconv.FormatInt(id, 10)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, path, "").Code)
}
