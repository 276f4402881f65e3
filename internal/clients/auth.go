package clients

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type AuthClient struct{ c *Client }

func NewAuthClient(c *Client) *AuthClient { return &AuthClient{c: c} }

func (ac *AuthClient) Register(ctx context.Context, in model.NewCustomer) (model.Customer, error) {
	var out model.Customer
	err := ac.c.post(ctx, "/auth/register", in, &out)
	return out, err
}

func (ac *AuthClient) Login(ctx context.Context, creds model.Credentials) (model.Token, error) {
	var out model.Token
	err := ac.c.post(ctx, "/auth/login", creds, &out)
	return out, err
}

func (ac *AuthClient) Me(ctx context.Context) (model.User, error) {
	var out model.User
	err := ac.c.get(ctx, "/auth/me", &out)
	return out, err
}

// SetToken forwards to the shared transport so every resource client sends it.
func (ac *AuthClient) SetToken(token string) { ac.c.SetToken(token) }
