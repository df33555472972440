package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/tammimikun/kids-worksheet-store/internal/entity"
	"github.com/tammimikun/kids-worksheet-store/internal/modules"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
	"github.com/tammimikun/kids-worksheet-store/pkg/metric"
)

const (
	_defaultMaxAttempts   = 3
	_defaultExpiryMinutes = 15

	_customFieldMaxLen = 240
	_customerNameMax   = 80
	_customerEmailMax  = 120
	_summaryHeadSize   = 3

	opCreateTransaction = "create_transaction"
)

type TransactionOption func(*TransactionService)

func WithMaxAttempts(n int) TransactionOption {
	return func(s *TransactionService) {
		s.maxAttempts = n
	}
}

func WithExpiryMinutes(minutes int) TransactionOption {
	return func(s *TransactionService) {
		s.expiryMinutes = minutes
	}
}

func WithTransactionClock(now func() time.Time) TransactionOption {
	return func(s *TransactionService) {
		s.now = now
	}
}

// TransactionService starts gateway transactions. The gateway is the
// authority on order id uniqueness: a duplicate id is retried with a fresh one
// up to maxAttempts calls in total.
type TransactionService struct {
	gateway  PaymentGateway
	ids      OrderIDGenerator
	logger   logger.Logger
	metrics  metric.Gateway
	validate *validator.Validate

	maxAttempts   int
	expiryMinutes int
	now           func() time.Time
}

func NewTransactionService(
	gateway PaymentGateway,
	ids OrderIDGenerator,
	logger logger.Logger,
	metrics metric.Gateway,
	opts ...TransactionOption,
) *TransactionService {
	s := &TransactionService{
		gateway:       gateway,
		ids:           ids,
		logger:        logger,
		metrics:       metrics,
		validate:      validator.New(),
		maxAttempts:   _defaultMaxAttempts,
		expiryMinutes: _defaultExpiryMinutes,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TransactionService) Create(
	ctx context.Context,
	req *entity.TransactionRequest,
) (*entity.TransactionResult, error) {
	const op = "service.TransactionService.Create"
	log := s.logger.Ctx(ctx)

	req.OrderID = s.ids.Next()
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, entity.ErrInvalidData, err)
	}

	if req.CustomField1 == "" {
		req.CustomField1 = customerField(req.Customer.DisplayName(), req.Customer.Email)
	}
	if req.CustomField2 == "" {
		req.CustomField2 = moduleField(moduleNames(req))
	}
	req.Expiry = entity.Expiry{StartTime: s.now(), DurationMinutes: s.expiryMinutes}

	if total := req.ItemsTotal(); total != req.GrossAmount {
		log.LogAttrs(ctx, logger.WarnLevel, "gross amount differs from item total",
			logger.String("op", op),
			logger.Int64("gross_amount", req.GrossAmount),
			logger.Int64("items_total", total),
		)
	}

	log.LogAttrs(ctx, logger.InfoLevel, "create transaction started",
		logger.String("op", op),
		logger.String("client_order_id", req.ClientOrderID),
		logger.Int("items_count", len(req.Items)),
	)

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt > 1 {
			req.OrderID = s.ids.Next()
			s.metrics.IncrementRetries(opCreateTransaction)
		}

		res, err := s.gateway.CreateTransaction(ctx, req)
		if err == nil {
			log.LogAttrs(ctx, logger.InfoLevel, "transaction created",
				logger.String("op", op),
				logger.String("order_id", res.OrderID),
				logger.Int("attempt", attempt),
			)
			return res, nil
		}

		lastErr = err
		if !errors.Is(err, entity.ErrOrderIDConflict) {
			break
		}
		log.LogAttrs(ctx, logger.WarnLevel, "order id taken, regenerating",
			logger.String("op", op),
			logger.String("order_id", req.OrderID),
			logger.Int("attempt", attempt),
		)
	}

	log.LogAttrs(ctx, logger.ErrorLevel, "create transaction failed",
		logger.String("op", op),
		logger.String("order_id", req.OrderID),
		logger.Any("error", lastErr),
	)
	return nil, fmt.Errorf("%s: %w", op, lastErr)
}

func (s *TransactionService) Status(ctx context.Context, orderID string) (*entity.TransactionStatus, error) {
	const op = "service.TransactionService.Status"

	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%s: order_id: %w", op, entity.ErrInvalidData)
	}

	status, err := s.gateway.TransactionStatus(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return status, nil
}

func moduleNames(req *entity.TransactionRequest) []string {
	if names := modules.SelectionNames(req.Selection); len(names) > 0 {
		return names
	}
	names := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		names = append(names, it.Name)
	}
	return names
}

// customerField carries name and email back to the webhook through
// custom_field1. Empty when no email is known or the field would not fit.
func customerField(name, email string) string {
	if email == "" {
		return ""
	}
	b, err := json.Marshal(map[string]string{
		"nama":  truncateRunes(name, _customerNameMax),
		"email": truncateRunes(email, _customerEmailMax),
	})
	if err != nil || len(b) > _customFieldMaxLen {
		return ""
	}
	return string(b)
}

// moduleField carries the module list through custom_field2, falling back to
// the first few names plus a count when the full list does not fit.
func moduleField(names []string) string {
	if len(names) == 0 {
		return ""
	}
	if b, err := json.Marshal(map[string]any{"modules": names}); err == nil && len(b) <= _customFieldMaxLen {
		return string(b)
	}

	head := names
	if len(head) > _summaryHeadSize {
		head = head[:_summaryHeadSize]
	}
	b, err := json.Marshal(map[string]any{"modules": head, "more": len(names) - len(head)})
	if err != nil || len(b) > _customFieldMaxLen {
		return ""
	}
	return string(b)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
