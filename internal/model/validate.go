package model

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// ErrInvalidInput is returned before any backend call when a payload fails
// client-side validation.
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return invalid("email and password are required")
	}
	return nil
}

func (c NewCustomer) Validate() error {
	switch {
	case strings.TrimSpace(c.FirstName) == "":
		return invalid("first name is required")
	case strings.TrimSpace(c.LastName) == "":
		return invalid("last name is required")
	case strings.TrimSpace(c.NationalID) == "":
		return invalid("national id is required")
	}
	if _, err := time.Parse("2006-01-02", c.BirthDate); err != nil {
		return invalid("birth date must be YYYY-MM-DD")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return invalid("email %q is not valid", c.Email)
	}
	if len(c.Password) < MinPasswordLength {
		return invalid("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

func (p NewProduct) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("product name is required")
	}
	if p.Price.IsNegative() {
		return invalid("price must not be negative")
	}
	return nil
}

func (s NewShipment) Validate() error {
	if strings.TrimSpace(s.Type) == "" {
		return invalid("shipment type is required")
	}
	if s.Cost.IsNegative() {
		return invalid("shipping cost must not be negative")
	}
	if s.DeliveryDays != nil && *s.DeliveryDays < 0 {
		return invalid("delivery days must not be negative")
	}
	return nil
}

func (s NewSale) Validate() error {
	if s.OrderID <= 0 {
		return invalid("order id is required")
	}
	if strings.TrimSpace(s.PaymentMethod) == "" {
		return invalid("payment method is required")
	}
	if s.Total.IsNegative() {
		return invalid("total must not be negative")
	}
	return nil
}
