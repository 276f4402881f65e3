package storefront

import (
	"context"
	"errors"
	"log"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

// cartLocked reports whether any order references cartID. The order list is
// admin-only on the backend, so a failed lookup reads as unlocked.
func cartLocked(ctx context.Context, orders OrderAPI, cartID int, logger *log.Logger) bool {
	list, err := orders.List(ctx)
	if err != nil {
		logger.Printf("lock check for cart %d: %v", cartID, err)
		return false
	}
	_, ok := model.FindOrderForCart(list, cartID)
	return ok
}

func sessionExpired(err error) bool {
	return errors.Is(err, clients.ErrSessionExpired)
}

// toastLoadError reports a failed list load unless the session expired.
func toastLoadError(t Notifier, prefix string, err error) {
	if !sessionExpired(err) {
		t.Error(prefix + ": " + err.Error())
	}
}
