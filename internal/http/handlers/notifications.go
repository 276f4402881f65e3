package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

type NotificationsHandler struct{ q *notify.Queue }

func NewNotificationsHandler(q *notify.Queue) *NotificationsHandler {
	return &NotificationsHandler{q: q}
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.q.Active())
}

func (h *NotificationsHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, r, storefront.ErrInvalidInput)
		return
	}
	if !h.q.Dismiss(id) {
		middleware.WriteError(w, r, http.StatusNotFound, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
