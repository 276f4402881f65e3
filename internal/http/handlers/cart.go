package handlers

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

type CartHandler struct{ v *storefront.CartView }

func NewCartHandler(v *storefront.CartView) *CartHandler { return &CartHandler{v: v} }

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	if err := h.v.Mount(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.v.State())
}

func (h *CartHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.v.Load(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.v.State())
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	itemID, err := intParam(r, "itemId")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.v.UpdateQuantity(r.Context(), itemID, req.Quantity); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.v.State())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := intParam(r, "itemId")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.v.RemoveItem(r.Context(), itemID); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.v.State())
}

func (h *CartHandler) NewCart(w http.ResponseWriter, r *http.Request) {
	if err := h.v.RequestNewCart(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.v.State())
}
