package clients

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type ProductClient struct{ c *Client }

func NewProductClient(c *Client) *ProductClient { return &ProductClient{c: c} }

func (pc *ProductClient) List(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	if err := pc.c.get(ctx, "/productos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (pc *ProductClient) Create(ctx context.Context, in model.NewProduct) (model.Product, error) {
	var out model.Product
	err := pc.c.post(ctx, "/productos", in, &out)
	return out, err
}
