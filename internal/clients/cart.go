package clients

import (
	"context"
	"net/http"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

func (cc *CartClient) ByCustomer(ctx context.Context, customerID int) (*model.Cart, error) {
	return cc.getCart(ctx, "/carrito/"+strconv.Itoa(customerID))
}

// Mine returns the caller's active cart, or nil when the backend has none (404).
func (cc *CartClient) Mine(ctx context.Context) (*model.Cart, error) {
	return cc.getCart(ctx, "/carrito/me")
}

func (cc *CartClient) getCart(ctx context.Context, path string) (*model.Cart, error) {
	var out model.Cart
	if err := cc.c.get(ctx, path, &out); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (cc *CartClient) New(ctx context.Context) (model.Cart, error) {
	var out model.Cart
	err := cc.c.post(ctx, "/carrito/nuevo", nil, &out)
	return out, err
}

func (cc *CartClient) AddItem(ctx context.Context, cartID, productID, quantity int) (model.CartItem, error) {
	var out model.CartItem
	err := cc.c.post(ctx, "/carrito/"+strconv.Itoa(cartID)+"/productos", model.AddCartItem{ProductID: productID, Quantity: quantity}, &out)
	return out, err
}

func (cc *CartClient) Items(ctx context.Context, cartID int) ([]model.CartItem, error) {
	var out []model.CartItem
	if err := cc.c.get(ctx, "/carrito/"+strconv.Itoa(cartID)+"/productos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (cc *CartClient) Summary(ctx context.Context, cartID int) (model.CartSummary, error) {
	var out model.CartSummary
	err := cc.c.get(ctx, "/carrito/"+strconv.Itoa(cartID)+"/resumen", &out)
	return out, err
}

func (cc *CartClient) UpdateItem(ctx context.Context, itemID, quantity int) (model.CartItem, error) {
	var out model.CartItem
	err := cc.c.patch(ctx, "/carrito/item/"+strconv.Itoa(itemID), model.UpdateCartItem{Quantity: quantity}, &out)
	return out, err
}

func (cc *CartClient) DeleteItem(ctx context.Context, itemID int) error {
	return cc.c.delete(ctx, "/carrito/item/"+strconv.Itoa(itemID))
}
