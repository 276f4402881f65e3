package handlers

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

type OrdersHandler struct{ v *storefront.OrdersView }

func NewOrdersHandler(v *storefront.OrdersView) *OrdersHandler { return &OrdersHandler{v: v} }

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.v.Mount(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.v.State())
}

func (h *OrdersHandler) Shipments(w http.ResponseWriter, r *http.Request) {
	if err := h.v.LoadShipments(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.v.State())
}

type shipmentRequest struct {
	ShipmentID int `json:"shipmentId"`
}

func (h *OrdersHandler) SelectShipment(w http.ResponseWriter, r *http.Request) {
	var req shipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.v.SelectShipment(req.ShipmentID); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.v.State())
}

func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	res, err := h.v.CreateOrderFromCart(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *OrdersHandler) NewCart(w http.ResponseWriter, r *http.Request) {
	if err := h.v.RequestNewCart(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.v.State())
}
