package handlers

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storefront"
)

type Session interface {
	Login(ctx context.Context, creds model.Credentials) (*model.User, error)
	Register(ctx context.Context, in model.NewCustomer) (*model.User, error)
	Logout(ctx context.Context) error
	User() *model.User
}

// Resetter is a view holding per-user state.
type Resetter interface {
	Reset()
}

type AuthHandler struct {
	session Session
	views   []Resetter
}

func NewAuthHandler(s Session, views ...Resetter) *AuthHandler {
	return &AuthHandler{session: s, views: views}
}

func (h *AuthHandler) resetViews() {
	for _, v := range h.views {
		v.Reset()
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeErr(w, r, err)
		return
	}
	u, err := h.session.Login(r.Context(), creds)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.resetViews()
	writeJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in model.NewCustomer
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, r, err)
		return
	}
	u, err := h.session.Register(r.Context(), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	h.resetViews()
	writeJSON(w, http.StatusCreated, u)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	h.resetViews()
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := h.session.User()
	if u == nil {
		writeErr(w, r, storefront.ErrNotAuthenticated)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
