package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", storefront.ErrInvalidInput, err)
	}
	return nil
}

func intParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", storefront.ErrInvalidInput, name)
	}
	return id, nil
}

// StatusFor maps view and backend errors onto the BFF's HTTP statuses.
func StatusFor(err error) int {
	var apiErr *clients.APIError
	switch {
	case errors.Is(err, storefront.ErrNotAuthenticated), errors.Is(err, clients.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, storefront.ErrCartLocked), errors.Is(err, storefront.ErrDuplicateOrder):
		return http.StatusConflict
	case errors.Is(err, storefront.ErrEmptyCart), errors.Is(err, storefront.ErrNoShipment),
		errors.Is(err, storefront.ErrNoActiveCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storefront.ErrInvalidInput), errors.Is(err, storefront.ErrInvalidQuantity),
		errors.Is(err, storefront.ErrUnknownShipment):
		return http.StatusBadRequest
	case errors.Is(err, clients.ErrUnreachable):
		return http.StatusBadGateway
	case errors.As(err, &apiErr):
		return apiErr.Status
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage prefers the backend's own wording over our wrapping.
func errorMessage(err error) string {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	var unreachable *clients.UnreachableError
	if errors.As(err, &unreachable) {
		return unreachable.Error()
	}
	if errors.Is(err, clients.ErrSessionExpired) {
		return clients.ErrSessionExpired.Error()
	}
	return err.Error()
}

func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	middleware.WriteError(w, r, StatusFor(err), errorMessage(err))
}
