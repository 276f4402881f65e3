package model

import "github.com/shopspring/decimal"

// FormatMoney renders an amount the way the storefront displays prices, e.g. "$20.00".
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlationId,omitempty"`
}
