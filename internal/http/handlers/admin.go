package handlers

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

// adminList is satisfied by every storefront admin view.
type adminList[T any, N any] interface {
	Load(ctx context.Context) error
	Create(ctx context.Context, in N) (T, error)
	State() storefront.AdminState[T]
}

type AdminHandler[T any, N any] struct{ v adminList[T, N] }

func NewAdminHandler[T any, N any](v adminList[T, N]) *AdminHandler[T, N] {
	return &AdminHandler[T, N]{v: v}
}

// List reloads on every call; a failed load still returns the old items with
// the error attached.
func (h *AdminHandler[T, N]) List(w http.ResponseWriter, r *http.Request) {
	if err := h.v.Load(r.Context()); err != nil && StatusFor(err) == http.StatusUnauthorized {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.v.State())
}

func (h *AdminHandler[T, N]) Create(w http.ResponseWriter, r *http.Request) {
	var in N
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, r, err)
		return
	}
	out, err := h.v.Create(r.Context(), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

type CustomersHandler struct {
	*AdminHandler[model.Customer, model.NewCustomer]
	v *storefront.CustomersView
}

func NewCustomersHandler(v *storefront.CustomersView) *CustomersHandler {
	return &CustomersHandler{AdminHandler: NewAdminHandler[model.Customer, model.NewCustomer](v), v: v}
}

func (h *CustomersHandler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	updated, err := h.v.ToggleAdmin(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
