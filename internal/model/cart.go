package model

import "github.com/shopspring/decimal"

type Cart struct {
	ID         int `json:"pk_id_carrito_compra"`
	CustomerID int `json:"fk_id_cliente"`
}

type CartItem struct {
	ID        int      `json:"pk_id_carrito_producto"`
	CartID    int      `json:"fk_id_carrito_compra"`
	ProductID int      `json:"fk_id_producto"`
	Quantity  int      `json:"cantidad"`
	Product   *Product `json:"producto,omitempty"`
}

// UnitPrice is zero when the backend did not embed the product.
func (it CartItem) UnitPrice() decimal.Decimal {
	if it.Product == nil {
		return decimal.Zero
	}
	return it.Product.Price
}

func (it CartItem) LineTotal() decimal.Decimal {
	return it.UnitPrice().Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type AddCartItem struct {
	ProductID int `json:"fk_id_producto"`
	Quantity  int `json:"cantidad"`
}

type UpdateCartItem struct {
	Quantity int `json:"cantidad"`
}

// CartSummary is computed by the backend over the cart's items.
type CartSummary struct {
	CartID     int             `json:"carrito_id"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}
