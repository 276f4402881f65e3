package clients

// Backend bundles the typed clients that share one transport.
type Backend struct {
	Base      *Client
	Customers *CustomerClient
	Auth      *AuthClient
	Products  *ProductClient
	Carts     *CartClient
	Shipping  *ShippingClient
	Orders    *OrderClient
	Sales     *SaleClient
}

func NewBackend(base *Client) *Backend {
	return &Backend{
		Base:      base,
		Customers: NewCustomerClient(base),
		Auth:      NewAuthClient(base),
		Products:  NewProductClient(base),
		Carts:     NewCartClient(base),
		Shipping:  NewShippingClient(base),
		Orders:    NewOrderClient(base),
		Sales:     NewSaleClient(base),
	}
}
