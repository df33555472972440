package service

import (
	"context"

	"github.com/tammimikun/kids-worksheet-store/internal/entity"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock_service

type (
	PaymentGateway interface {
		CreateTransaction(ctx context.Context, req *entity.TransactionRequest) (*entity.TransactionResult, error)
		TransactionStatus(ctx context.Context, orderID string) (*entity.TransactionStatus, error)
	}

	InvoiceSender interface {
		Send(ctx context.Context, payload *entity.InvoicePayload) error
	}

	EventPublisher interface {
		Publish(ctx context.Context, event *entity.PaymentEvent) error
	}

	OrderIDGenerator interface {
		Next() string
	}
)
