package clients

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type ShippingClient struct{ c *Client }

func NewShippingClient(c *Client) *ShippingClient { return &ShippingClient{c: c} }

func (sc *ShippingClient) List(ctx context.Context) ([]model.Shipment, error) {
	var out []model.Shipment
	if err := sc.c.get(ctx, "/envios", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (sc *ShippingClient) Create(ctx context.Context, in model.NewShipment) (model.Shipment, error) {
	var out model.Shipment
	err := sc.c.post(ctx, "/envios", in, &out)
	return out, err
}
