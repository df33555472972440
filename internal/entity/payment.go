package entity

import "encoding/json"

const StatusSettlement = "settlement"

// PaymentNotification is the gateway's asynchronous status callback. Nothing in
// it is trusted until the signature over the required fields is verified.
type PaymentNotification struct {
	OrderID           FlexString `json:"order_id"           validate:"required"`
	StatusCode        FlexString `json:"status_code"        validate:"required"`
	GrossAmount       FlexString `json:"gross_amount"       validate:"required"`
	SignatureKey      FlexString `json:"signature_key"      validate:"required"`
	TransactionStatus FlexString `json:"transaction_status"`
	TransactionID     FlexString `json:"transaction_id"`
	FraudStatus       FlexString `json:"fraud_status"`
	PaymentType       FlexString `json:"payment_type"`
	SettlementTime    FlexString `json:"settlement_time"`
	CustomerEmail     FlexString `json:"customer_email"`
	Email             FlexString `json:"email"`

	CustomerDetails json.RawMessage `json:"customer_details"`
	ItemDetails     json.RawMessage `json:"item_details"`
	ModuleSelection json.RawMessage `json:"modulDipilih"`
	CustomField1    json.RawMessage `json:"custom_field1"`
	CustomField2    json.RawMessage `json:"custom_field2"`
	CustomFields    json.RawMessage `json:"custom_fields"`
	CustomField     json.RawMessage `json:"customField"`
	CustomFieldOne  json.RawMessage `json:"customField1"`
}

type TransactionStatus struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	PaymentType       string `json:"payment_type,omitempty"`
	GrossAmount       string `json:"gross_amount,omitempty"`
}
