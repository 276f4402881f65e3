package model

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int             `json:"pk_id_producto"`
	Name        string          `json:"nombre"`
	Brand       *string         `json:"marca,omitempty"`
	Price       decimal.Decimal `json:"precio"`
	Description *string         `json:"descripcion,omitempty"`
}

func (p Product) BrandOr(def string) string {
	if p.Brand == nil || *p.Brand == "" {
		return def
	}
	return *p.Brand
}

type NewProduct struct {
	Name        string          `json:"nombre"`
	Brand       *string         `json:"marca,omitempty"`
	Price       decimal.Decimal `json:"precio"`
	Description *string         `json:"descripcion,omitempty"`
}

// Shipment is a shipping option ("envio").
type Shipment struct {
	ID           int             `json:"pk_id_envio"`
	Type         string          `json:"tipo_envio"`
	Cost         decimal.Decimal `json:"costo_envio"`
	DeliveryDays *int            `json:"dias_entrega,omitempty"`
}

type NewShipment struct {
	Type         string          `json:"tipo_envio"`
	Cost         decimal.Decimal `json:"costo_envio"`
	DeliveryDays *int            `json:"dias_entrega,omitempty"`
}
