package storefront

import (
	"errors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// Guard errors are returned before any backend call is made.
var (
	ErrCartLocked       = errors.New("this cart is locked because it already has an order")
	ErrEmptyCart        = errors.New("the cart is empty")
	ErrNoShipment       = errors.New("a shipping option must be selected")
	ErrDuplicateOrder   = errors.New("you already have an active order; the current cart is reserved for it")
	ErrNoActiveCart     = errors.New("no active cart")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrUnknownShipment  = errors.New("unknown shipping option")
	ErrNotAuthenticated = session.ErrNotAuthenticated
	ErrInvalidInput     = model.ErrInvalidInput
)
