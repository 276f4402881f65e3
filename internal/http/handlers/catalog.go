package handlers

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

type CatalogHandler struct{ v *storefront.CatalogView }

func NewCatalogHandler(v *storefront.CatalogView) *CatalogHandler { return &CatalogHandler{v: v} }

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.v.Mount(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.v.State(r.URL.Query().Get("q")))
}

func (h *CatalogHandler) Add(w http.ResponseWriter, r *http.Request) {
	productID, err := intParam(r, "productId")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.v.AddToCart(r.Context(), productID); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.v.State(""))
}
