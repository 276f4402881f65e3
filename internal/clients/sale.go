package clients

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type SaleClient struct{ c *Client }

func NewSaleClient(c *Client) *SaleClient { return &SaleClient{c: c} }

func (sc *SaleClient) List(ctx context.Context) ([]model.Sale, error) {
	var out []model.Sale
	if err := sc.c.get(ctx, "/ventas", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (sc *SaleClient) Create(ctx context.Context, in model.NewSale) (model.Sale, error) {
	var out model.Sale
	err := sc.c.post(ctx, "/ventas", in, &out)
	return out, err
}
