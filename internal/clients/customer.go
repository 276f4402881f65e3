package clients

import (
	"context"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type CustomerClient struct{ c *Client }

func NewCustomerClient(c *Client) *CustomerClient { return &CustomerClient{c: c} }

func (cc *CustomerClient) List(ctx context.Context) ([]model.Customer, error) {
	var out []model.Customer
	if err := cc.c.get(ctx, "/clientes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (cc *CustomerClient) Create(ctx context.Context, in model.NewCustomer) (model.Customer, error) {
	var out model.Customer
	err := cc.c.post(ctx, "/clientes", in, &out)
	return out, err
}

// Carts lists every cart the customer has owned, not only the active one.
func (cc *CustomerClient) Carts(ctx context.Context, customerID int) ([]model.Cart, error) {
	var out []model.Cart
	if err := cc.c.get(ctx, "/clientes/"+strconv.Itoa(customerID)+"/carritos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (cc *CustomerClient) SetAdmin(ctx context.Context, customerID int, isAdmin bool) (model.Customer, error) {
	var out model.Customer
	err := cc.c.patch(ctx, "/clientes/"+strconv.Itoa(customerID)+"/admin", model.AdminFlag{IsAdmin: isAdmin}, &out)
	return out, err
}
