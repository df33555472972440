package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/tammimikun/kids-worksheet-store/internal/download"
	"github.com/tammimikun/kids-worksheet-store/internal/entity"
	"github.com/tammimikun/kids-worksheet-store/internal/modules"
	"github.com/tammimikun/kids-worksheet-store/internal/orderid"
	"github.com/tammimikun/kids-worksheet-store/internal/signature"
	"github.com/tammimikun/kids-worksheet-store/pkg/cache"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
	"github.com/tammimikun/kids-worksheet-store/pkg/metric"
)

const (
	_defaultInvoiceTimeout = 30 * time.Second
	_defaultEventTimeout   = 5 * time.Second
	_defaultRedeliveryTTL  = 24 * time.Hour

	MsgInvalidNotification = "Invalid notification data"
	MsgMissingFields       = "Missing required fields for signature validation"
	MsgInvalidSignature    = "Invalid signature key"
	MsgEmailMissing        = "Customer email missing"
	MsgNoModules           = "No modules found in order"
	MsgProcessed           = "Webhook processed"
	MsgAlreadyProcessed    = "Already processed"
)

type WebhookOption func(*WebhookService)

func WithInvoiceTimeout(d time.Duration) WebhookOption {
	return func(s *WebhookService) {
		s.invoiceTimeout = d
	}
}

func WithEvents(events EventPublisher) WebhookOption {
	return func(s *WebhookService) {
		s.events = events
	}
}

// WithRedeliveryGuard remembers dispatched orders for ttl so a repeated
// settlement notification does not send a second invoice.
func WithRedeliveryGuard(delivered cache.Cache[string, time.Time], ttl time.Duration) WebhookOption {
	return func(s *WebhookService) {
		s.delivered = delivered
		s.redeliveryTTL = ttl
	}
}

func WithWebhookClock(now func() time.Time) WebhookOption {
	return func(s *WebhookService) {
		s.now = now
	}
}

// WebhookService turns a gateway notification into one of three outcomes.
// Only a settled, authentic notification with a reachable customer and at
// least one module is delivered, and it dispatches exactly one invoice.
type WebhookService struct {
	serverKey string
	resolver  *modules.Resolver
	links     download.Strategy
	invoices  InvoiceSender
	events    EventPublisher
	delivered cache.Cache[string, time.Time]
	logger    logger.Logger
	metrics   metric.Webhook
	validate  *validator.Validate

	redeliveryTTL  time.Duration
	invoiceTimeout time.Duration
	now            func() time.Time
}

func NewWebhookService(
	serverKey string,
	resolver *modules.Resolver,
	links download.Strategy,
	invoices InvoiceSender,
	logger logger.Logger,
	metrics metric.Webhook,
	opts ...WebhookOption,
) *WebhookService {
	s := &WebhookService{
		serverKey:      serverKey,
		resolver:       resolver,
		links:          links,
		invoices:       invoices,
		logger:         logger,
		metrics:        metrics,
		validate:       validator.New(),
		redeliveryTTL:  _defaultRedeliveryTTL,
		invoiceTimeout: _defaultInvoiceTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reconcile never reports business failures as errors; they come back as a
// rejected or suppressed Reconciliation. An error means an internal fault.
func (s *WebhookService) Reconcile(ctx context.Context, payload []byte) (res *entity.Reconciliation, err error) {
	const op = "service.WebhookService.Reconcile"

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%s: panic: %v", op, r)
			s.metrics.Outcome("error", "panic")
			return
		}
		s.metrics.ObserveDuration(time.Since(start))
		s.metrics.Outcome(string(res.Outcome), reasonLabel(res.Reason))
	}()

	return s.reconcile(ctx, payload), nil
}

func (s *WebhookService) reconcile(ctx context.Context, payload []byte) *entity.Reconciliation {
	const op = "service.WebhookService.reconcile"
	log := s.logger.Ctx(ctx)

	var n entity.PaymentNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		log.LogAttrs(ctx, logger.WarnLevel, "notification is not a JSON object",
			logger.String("op", op),
			logger.Any("error", err),
		)
		return rejected("", MsgInvalidNotification, fmt.Errorf("%s: %w: %w", op, entity.ErrInvalidData, err))
	}

	orderID := n.OrderID.String()
	if err := s.validate.Struct(&n); err != nil {
		log.LogAttrs(ctx, logger.WarnLevel, "notification missing required fields",
			logger.String("op", op),
			logger.String("order_id", orderID),
			logger.Any("error", err),
		)
		return rejected(orderID, MsgMissingFields, fmt.Errorf("%s: %w", op, entity.ErrInvalidData))
	}

	if !signature.Verify(orderID, n.StatusCode.String(), n.GrossAmount.String(), s.serverKey, n.SignatureKey.String()) {
		log.LogAttrs(ctx, logger.WarnLevel, "invalid signature key",
			logger.String("op", op),
			logger.String("order_id", orderID),
		)
		return rejected(orderID, MsgInvalidSignature, fmt.Errorf("%s: %w", op, entity.ErrInvalidSignature))
	}

	normalized := orderid.Normalize(orderID)
	log = log.With("order_id", orderID, "normalized_order_id", normalized)

	status := n.TransactionStatus.String()
	if status != entity.StatusSettlement {
		log.Infow("payment not settled, invoice not sent", "transaction_status", status)
		return &entity.Reconciliation{Outcome: entity.OutcomeSuppressed, Message: MsgProcessed, OrderID: orderID}
	}

	who := resolveIdentity(&n)
	if who.email == "" {
		log.Errorw("customer email not found")
		return rejected(orderID, MsgEmailMissing, fmt.Errorf("%s: %w", op, entity.ErrCustomerEmailMissing))
	}

	items, source := s.resolver.ResolveWithSource(&n)
	if len(items) == 0 {
		log.Errorw("no modules found")
		return rejected(orderID, MsgNoModules, fmt.Errorf("%s: %w", op, entity.ErrNoModules))
	}
	links := download.BuildLinks(s.links, items)

	if !s.claim(orderID) {
		log.Infow("notification already processed, invoice not sent again")
		return &entity.Reconciliation{Outcome: entity.OutcomeSuppressed, Message: MsgAlreadyProcessed, OrderID: orderID}
	}

	invoice := s.invoicePayload(&n, who, links)
	log.Infow("dispatching invoice",
		"email", who.email,
		"modules", len(links),
		"module_source", string(source),
	)

	res := &entity.Reconciliation{
		Outcome: entity.OutcomeDelivered,
		Message: MsgProcessed,
		OrderID: orderID,
		Items:   links,
	}

	if err := s.dispatch(ctx, invoice); err != nil {
		s.release(orderID)
		log.Errorw("invoice dispatch failed", "error", err)
		s.publish(ctx, log, newEvent(entity.EventInvoiceDispatchFailed, &n, normalized, who.email, links, s.now(), err))
		return res
	}

	res.InvoiceSent = true
	s.publish(ctx, log, newEvent(entity.EventPaymentSettled, &n, normalized, who.email, links, s.now(), nil))
	return res
}

// dispatch calls the invoice function once. It is detached from the caller's
// cancellation so a gateway hanging up does not abort a half-sent email.
func (s *WebhookService) dispatch(ctx context.Context, payload *entity.InvoicePayload) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.invoiceTimeout)
	defer cancel()

	return s.invoices.Send(ctx, payload)
}

func (s *WebhookService) publish(ctx context.Context, log logger.Logger, event *entity.PaymentEvent) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), _defaultEventTimeout)
	defer cancel()

	if err := s.events.Publish(ctx, event); err != nil {
		log.Warnw("publish payment event failed", "type", string(event.Type), "error", err)
	}
}

func (s *WebhookService) claim(orderID string) bool {
	if s.delivered == nil {
		return true
	}
	return s.delivered.Add(orderID, s.now(), s.redeliveryTTL)
}

func (s *WebhookService) release(orderID string) {
	if s.delivered != nil {
		s.delivered.Remove(orderID)
	}
}

func (s *WebhookService) invoicePayload(
	n *entity.PaymentNotification,
	who identity,
	links []entity.ModuleItem,
) *entity.InvoicePayload {
	total, err := decimal.NewFromString(n.GrossAmount.String())
	if err != nil {
		s.logger.Warnw("gross amount is not a decimal", "gross_amount", n.GrossAmount.String())
		total = decimal.Zero
	}

	p := &entity.InvoicePayload{
		OrderID:       n.OrderID.String(),
		CustomerName:  who.name,
		CustomerEmail: who.email,
		Total:         total,
		Items:         links,
		Status:        n.TransactionStatus.String(),
		GrossAmount:   n.GrossAmount.String(),
		DownloadLinks: links,
	}
	if st := n.SettlementTime.String(); st != "" {
		p.SettlementTime = &st
	}
	if len(links) > 0 {
		p.DownloadURL = &links[0].DownloadURL
	}
	return p
}

func newEvent(
	t entity.EventType,
	n *entity.PaymentNotification,
	normalized, email string,
	links []entity.ModuleItem,
	at time.Time,
	cause error,
) *entity.PaymentEvent {
	names := make([]string, len(links))
	for i, l := range links {
		names[i] = l.Name
	}
	ev := &entity.PaymentEvent{
		Type:              t,
		OrderID:           n.OrderID.String(),
		NormalizedOrderID: normalized,
		CustomerEmail:     email,
		GrossAmount:       n.GrossAmount.String(),
		Modules:           names,
		OccurredAt:        at.UTC(),
	}
	if cause != nil {
		ev.Error = cause.Error()
	}
	return ev
}

func rejected(orderID, msg string, reason error) *entity.Reconciliation {
	return &entity.Reconciliation{
		Outcome: entity.OutcomeRejected,
		Message: msg,
		OrderID: orderID,
		Reason:  reason,
	}
}

func reasonLabel(reason error) string {
	switch {
	case reason == nil:
		return "none"
	case errors.Is(reason, entity.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(reason, entity.ErrCustomerEmailMissing):
		return "email_missing"
	case errors.Is(reason, entity.ErrNoModules):
		return "no_modules"
	case errors.Is(reason, entity.ErrInvalidData):
		return "invalid_data"
	default:
		return "other"
	}
}
