package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoicePayload is posted to the invoice email function. Keys follow the
// contract that function already reads.
type InvoicePayload struct {
	OrderID        string          `json:"order_id"`
	CustomerName   string          `json:"nama"`
	CustomerEmail  string          `json:"email"`
	Total          decimal.Decimal `json:"total"`
	Items          []ModuleItem    `json:"modulDipilih"`
	Status         string          `json:"status"`
	GrossAmount    string          `json:"gross_amount"`
	SettlementTime *string         `json:"settlement_time"`
	DownloadLinks  []ModuleItem    `json:"downloadLinks"`
	DownloadURL    *string         `json:"download_url"`
	FromEmail      string          `json:"from_email,omitempty"`
}

type Outcome string

const (
	OutcomeDelivered  Outcome = "delivered"
	OutcomeRejected   Outcome = "rejected"
	OutcomeSuppressed Outcome = "suppressed"
)

// Reconciliation is the result of processing one notification. Reason is set
// for rejections and wraps one of the package sentinel errors.
type Reconciliation struct {
	Outcome     Outcome
	Message     string
	OrderID     string
	Reason      error
	Items       []ModuleItem
	InvoiceSent bool
}

type EventType string

const (
	EventPaymentSettled        EventType = "payment.settled"
	EventInvoiceDispatchFailed EventType = "invoice.dispatch_failed"
)

// PaymentEvent is published to the event bus. Dispatch failures are recorded
// here only; nothing consumes them for automatic redelivery.
type PaymentEvent struct {
	Type              EventType `json:"type"`
	OrderID           string    `json:"order_id"`
	NormalizedOrderID string    `json:"normalized_order_id"`
	CustomerEmail     string    `json:"customer_email"`
	GrossAmount       string    `json:"gross_amount"`
	Modules           []string  `json:"modules"`
	Error             string    `json:"error,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}
