package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDataNotFound = errors.New("data not found")
	ErrInvalidData  = errors.New("invalid data")

	ErrInvalidSignature     = errors.New("invalid signature key")
	ErrCustomerEmailMissing = errors.New("customer email missing")
	ErrNoModules            = errors.New("no modules found in order")

	ErrOrderIDConflict = errors.New("order id has already been taken")
	ErrGateway         = errors.New("payment gateway error")
	ErrInvoiceDispatch = errors.New("invoice dispatch failed")

	ErrLinkSignature = errors.New("invalid download signature")
	ErrLinkExpired   = errors.New("download link expired")
)

const _statusNotFound = 404

// GatewayError carries the HTTP status and messages returned by the payment
// gateway. It matches ErrGateway, ErrOrderIDConflict when the gateway
// rejected a duplicate order id, and ErrDataNotFound on 404.
type GatewayError struct {
	StatusCode int
	Messages   []string
	Body       []byte
}

func (e *GatewayError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("payment gateway returned status %d", e.StatusCode)
	}
	return fmt.Sprintf(
		"payment gateway returned status %d: %s",
		e.StatusCode,
		strings.Join(e.Messages, "; "),
	)
}

func (e *GatewayError) Is(target error) bool {
	switch target {
	case ErrGateway:
		return true
	case ErrOrderIDConflict:
		return e.OrderIDTaken()
	case ErrDataNotFound:
		return e.StatusCode == _statusNotFound
	default:
		return false
	}
}

func (e *GatewayError) OrderIDTaken() bool {
	for _, msg := range e.Messages {
		if strings.Contains(strings.ToLower(msg), "has already been taken") {
			return true
		}
	}
	return false
}
