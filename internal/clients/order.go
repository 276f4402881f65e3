package clients

import (
	"context"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

// List returns every order in the backend. The endpoint is admin-only.
func (oc *OrderClient) List(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	if err := oc.c.get(ctx, "/pedidos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (oc *OrderClient) Create(ctx context.Context, in model.NewOrder) (model.Order, error) {
	var out model.Order
	err := oc.c.post(ctx, "/pedidos", in, &out)
	return out, err
}

func (oc *OrderClient) Total(ctx context.Context, orderID int) (model.OrderTotal, error) {
	var out model.OrderTotal
	err := oc.c.get(ctx, "/pedidos/"+strconv.Itoa(orderID)+"/total", &out)
	return out, err
}
