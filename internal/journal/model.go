package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status tracks how far checkout got for one order.
type Status string

const (
	StatusOrderCreated  Status = "order_created"
	StatusTotalComputed Status = "total_computed"
	StatusFrozen        Status = "frozen"
	StatusFailed        Status = "failed"
)

// Entry is keyed by order id. Total is unset until the backend computed it.
type Entry struct {
	OrderID    int                 `json:"orderId"`
	CartID     int                 `json:"cartId"`
	ShipmentID int                 `json:"shipmentId"`
	CustomerID int                 `json:"customerId"`
	Total      decimal.NullDecimal `json:"total"`
	Status     Status              `json:"status"`
	SaleID     int                 `json:"saleId,omitempty"`
	LastError  string              `json:"lastError,omitempty"`
	Attempts   int                 `json:"attempts"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

func (e Entry) Frozen() bool { return e.Status == StatusFrozen }
