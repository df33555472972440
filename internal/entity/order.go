package entity

import (
	"encoding/json"
	"time"
)

type Customer struct {
	FirstName string `json:"first_name,omitempty" validate:"max=255"`
	Name      string `json:"name,omitempty"       validate:"max=255"`
	Email     string `json:"email,omitempty"      validate:"omitempty,email,max=255"`
	Phone     string `json:"phone,omitempty"      validate:"max=50"`
}

// DisplayName prefers the gateway's first_name field over name.
func (c Customer) DisplayName() string {
	if c.FirstName != "" {
		return c.FirstName
	}
	return c.Name
}

type Expiry struct {
	StartTime       time.Time
	DurationMinutes int
}

// TransactionRequest is what the storefront asks the gateway to charge.
// GrossAmount is forwarded as declared; it is not recomputed from Items.
type TransactionRequest struct {
	OrderID       string `validate:"required"`
	ClientOrderID string
	GrossAmount   int64 `validate:"gt=0"`
	Customer      Customer
	Items         []Item `validate:"required,min=1,dive"`
	Selection     []json.RawMessage
	CustomField1  string `validate:"max=255"`
	CustomField2  string `validate:"max=255"`
	Expiry        Expiry
}

// ItemsTotal is the sum of price times quantity over Items.
func (r *TransactionRequest) ItemsTotal() int64 {
	var total int64
	for _, it := range r.Items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

type TransactionResult struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url,omitempty"`
	OrderID     string `json:"order_id"`
}
