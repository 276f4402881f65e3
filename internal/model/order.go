package model

import "github.com/shopspring/decimal"

// Order ("pedido") references the cart it was created from.
type Order struct {
	ID         int `json:"pk_id_pedido"`
	CartID     int `json:"fk_id_carrito_compra"`
	ShipmentID int `json:"fk_id_envio"`
}

type NewOrder struct {
	CartID     int `json:"fk_id_carrito_compra"`
	ShipmentID int `json:"fk_id_envio"`
}

type OrderTotal struct {
	OrderID int             `json:"pedido_id"`
	Total   decimal.Decimal `json:"total"`
}

// Sale ("venta") freezes an order's total at creation time.
type Sale struct {
	ID            int             `json:"pk_id_venta"`
	OrderID       int             `json:"fk_id_pedido"`
	PaymentMethod string          `json:"metodo_pago"`
	Total         decimal.Decimal `json:"total"`
}

type NewSale struct {
	OrderID       int             `json:"fk_id_pedido"`
	PaymentMethod string          `json:"metodo_pago"`
	Total         decimal.Decimal `json:"total"`
}

// PendingPaymentMethod is recorded on sales created as part of checkout.
const PendingPaymentMethod = "Pendiente"

// FindOrderForCart returns the first order referencing cartID.
func FindOrderForCart(orders []Order, cartID int) (Order, bool) {
	for _, o := range orders {
		if o.CartID == cartID {
			return o, true
		}
	}
	return Order{}, false
}

func FindSaleForOrder(sales []Sale, orderID int) (Sale, bool) {
	for _, s := range sales {
		if s.OrderID == orderID {
			return s, true
		}
	}
	return Sale{}, false
}
