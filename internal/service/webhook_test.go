package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/tammimikun/kids-worksheet-store/internal/download"
	"github.com/tammimikun/kids-worksheet-store/internal/entity"
	"github.com/tammimikun/kids-worksheet-store/internal/modules"
	"github.com/tammimikun/kids-worksheet-store/internal/service"
	mock_service "github.com/tammimikun/kids-worksheet-store/internal/service/mock"
	"github.com/tammimikun/kids-worksheet-store/internal/signature"
	"github.com/tammimikun/kids-worksheet-store/pkg/cache"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
	"github.com/tammimikun/kids-worksheet-store/pkg/metric"
)

const (
	testServerKey = "SB-Mid-server-test"
	testBaseURL   = "https://kidsworksheet.store/Modul"
)

type notification map[string]any

func settled(orderID, email string, items ...string) notification {
	details := make([]map[string]any, 0, len(items))
	for _, name := range items {
		details = append(details, map[string]any{"id": gofakeit.UUID(), "name": name, "price": 50000, "quantity": 1})
	}
	return notification{
		"order_id":           orderID,
		"status_code":        "200",
		"gross_amount":       "150000.00",
		"transaction_status": "settlement",
		"settlement_time":    "2026-10-18 10:31:00",
		"customer_details":   map[string]any{"first_name": "Budi", "email": email},
		"item_details":       details,
	}
}

// signed adds a valid signature_key unless one is already set.
func (n notification) signed() notification {
	if _, ok := n["signature_key"]; !ok {
		n["signature_key"] = signature.Compute(
			n["order_id"].(string), n["status_code"].(string), n["gross_amount"].(string), testServerKey,
		)
	}
	return n
}

func (n notification) bytes(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(n)
	require.NoError(t, err)
	return b
}

type WebhookSuite struct {
	suite.Suite

	ctrl      *gomock.Controller
	invoices  *mock_service.MockInvoiceSender
	events    *mock_service.MockEventPublisher
	delivered *cache.LRUCache[string, time.Time]
	svc       *service.WebhookService
}

func TestWebhookSuite(t *testing.T) {
	suite.Run(t, new(WebhookSuite))
}

func (s *WebhookSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.invoices = mock_service.NewMockInvoiceSender(s.ctrl)
	s.events = mock_service.NewMockEventPublisher(s.ctrl)

	metrics := metric.NewFactory()
	var err error
	s.delivered, err = cache.NewLRUCache[string, time.Time](100, logger.NewNop(), metrics.Cache(), cache.WithName("delivered"))
	s.Require().NoError(err)

	s.svc = service.NewWebhookService(
		testServerKey,
		modules.NewResolver(),
		download.NewDirect(testBaseURL, ".pdf"),
		s.invoices,
		logger.NewNop(),
		metrics.Webhook(),
		service.WithEvents(s.events),
		service.WithRedeliveryGuard(s.delivered, time.Hour),
	)
}

func (s *WebhookSuite) TestDelivered() {
	var sent *entity.InvoicePayload
	s.invoices.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *entity.InvoicePayload) error {
			sent = p
			return nil
		}).
		Times(1)
	s.events.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *entity.PaymentEvent) error {
			s.Equal(entity.EventPaymentSettled, e.Type)
			s.Equal("KWS-10182026-0001-123", e.NormalizedOrderID)
			return nil
		})

	payload := settled("KWS-10182026-0001-123-7", "budi@example.com", "Math Basics").signed().bytes(s.T())
	res, err := s.svc.Reconcile(context.Background(), payload)
	s.Require().NoError(err)

	s.Equal(entity.OutcomeDelivered, res.Outcome)
	s.Equal(service.MsgProcessed, res.Message)
	s.Equal("KWS-10182026-0001-123-7", res.OrderID)
	s.True(res.InvoiceSent)

	s.Require().NotNil(sent)
	s.Equal("budi@example.com", sent.CustomerEmail)
	s.Equal("Budi", sent.CustomerName)
	s.Equal("KWS-10182026-0001-123-7", sent.OrderID)
	s.Equal("150000", sent.Total.String())
	s.Require().Len(sent.DownloadLinks, 1)
	s.Equal(testBaseURL+"/Math-Basics.pdf", sent.DownloadLinks[0].DownloadURL)
	s.Require().NotNil(sent.DownloadURL)
	s.Equal(testBaseURL+"/Math-Basics.pdf", *sent.DownloadURL)
	s.Require().NotNil(sent.SettlementTime)
}

func (s *WebhookSuite) TestOneLinkPerModule() {
	var sent *entity.InvoicePayload
	s.invoices.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *entity.InvoicePayload) error {
			sent = p
			return nil
		})
	s.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	n := settled("KWS-10182026-0002-001", "budi@example.com", "A: Letters", "B/Numbers", "a: letters")
	res, err := s.svc.Reconcile(context.Background(), n.signed().bytes(s.T()))
	s.Require().NoError(err)

	s.Equal(entity.OutcomeDelivered, res.Outcome)
	s.Len(res.Items, 2)
	s.Require().Len(sent.DownloadLinks, 2)
	s.Equal(testBaseURL+"/A--Letters.pdf", sent.DownloadLinks[0].DownloadURL)
	s.Equal(testBaseURL+"/B-Numbers.pdf", sent.DownloadLinks[1].DownloadURL)
}

func (s *WebhookSuite) TestRejected() {
	tests := []struct {
		name    string
		payload func() []byte
		msg     string
		reason  error
	}{
		{
			name:    "not json",
			payload: func() []byte { return []byte("{not json") },
			msg:     service.MsgInvalidNotification,
			reason:  entity.ErrInvalidData,
		},
		{
			name: "missing signature fields",
			payload: func() []byte {
				n := settled("KWS-1", "budi@example.com", "Math")
				delete(n, "gross_amount")
				n["signature_key"] = "abc"
				return n.bytes(s.T())
			},
			msg:    service.MsgMissingFields,
			reason: entity.ErrInvalidData,
		},
		{
			name: "wrong signature",
			payload: func() []byte {
				n := settled("KWS-1", "budi@example.com", "Math")
				n["signature_key"] = signature.Compute("KWS-1", "200", "150000.00", "other-key")
				return n.bytes(s.T())
			},
			msg:    service.MsgInvalidSignature,
			reason: entity.ErrInvalidSignature,
		},
		{
			name: "signature over normalized id",
			payload: func() []byte {
				n := settled("KWS-1-22", "budi@example.com", "Math")
				n["signature_key"] = signature.Compute("KWS-1", "200", "150000.00", testServerKey)
				return n.bytes(s.T())
			},
			msg:    service.MsgInvalidSignature,
			reason: entity.ErrInvalidSignature,
		},
		{
			name: "email missing",
			payload: func() []byte {
				n := settled("KWS-2", "", "Math")
				return n.signed().bytes(s.T())
			},
			msg:    service.MsgEmailMissing,
			reason: entity.ErrCustomerEmailMissing,
		},
		{
			name: "no modules",
			payload: func() []byte {
				n := settled("KWS-3", "budi@example.com")
				n["item_details"] = []any{map[string]any{"price": 1000}}
				return n.signed().bytes(s.T())
			},
			msg:    service.MsgNoModules,
			reason: entity.ErrNoModules,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			res, err := s.svc.Reconcile(context.Background(), tt.payload())
			s.Require().NoError(err)
			s.Equal(entity.OutcomeRejected, res.Outcome)
			s.Equal(tt.msg, res.Message)
			s.True(errors.Is(res.Reason, tt.reason), "reason %v", res.Reason)
			s.False(res.InvoiceSent)
		})
	}
}

func (s *WebhookSuite) TestNotSettledSuppressed() {
	for _, status := range []string{"pending", "capture", "deny", "expire", "cancel"} {
		s.Run(status, func() {
			n := settled("KWS-4", "budi@example.com", "Math")
			n["transaction_status"] = status
			res, err := s.svc.Reconcile(context.Background(), n.signed().bytes(s.T()))
			s.Require().NoError(err)
			s.Equal(entity.OutcomeSuppressed, res.Outcome)
			s.Equal(service.MsgProcessed, res.Message)
		})
	}
}

func (s *WebhookSuite) TestNumericFields() {
	s.invoices.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)
	s.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	payload := []byte(`{
		"order_id": "KWS-5",
		"status_code": 200,
		"gross_amount": 75000.00,
		"transaction_status": "settlement",
		"signature_key": "` + signature.Compute("KWS-5", "200", "75000.00", testServerKey) + `",
		"customer_email": "numeric@example.com",
		"custom_field2": "{\"modules\":[\"Shapes\"]}"
	}`)

	res, err := s.svc.Reconcile(context.Background(), payload)
	s.Require().NoError(err)
	s.Equal(entity.OutcomeDelivered, res.Outcome)
	s.Equal([]entity.ModuleItem{{Name: "Shapes", DownloadURL: testBaseURL + "/Shapes.pdf"}}, res.Items)
}

func (s *WebhookSuite) TestDispatchFailureStaysDelivered() {
	s.invoices.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		Return(entity.ErrInvoiceDispatch)
	s.events.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *entity.PaymentEvent) error {
			s.Equal(entity.EventInvoiceDispatchFailed, e.Type)
			s.NotEmpty(e.Error)
			return nil
		})

	res, err := s.svc.Reconcile(context.Background(), settled("KWS-6", "a@example.com", "Math").signed().bytes(s.T()))
	s.Require().NoError(err)
	s.Equal(entity.OutcomeDelivered, res.Outcome)
	s.Equal(service.MsgProcessed, res.Message)
	s.False(res.InvoiceSent)
	s.False(s.delivered.Has("KWS-6"), "failed dispatch must release the claim")
}

func (s *WebhookSuite) TestRedeliverySuppressed() {
	s.invoices.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	s.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	payload := settled("KWS-7", "a@example.com", "Math").signed().bytes(s.T())

	first, err := s.svc.Reconcile(context.Background(), payload)
	s.Require().NoError(err)
	s.Equal(entity.OutcomeDelivered, first.Outcome)

	second, err := s.svc.Reconcile(context.Background(), payload)
	s.Require().NoError(err)
	s.Equal(entity.OutcomeSuppressed, second.Outcome)
	s.Equal(service.MsgAlreadyProcessed, second.Message)
}

func (s *WebhookSuite) TestConcurrentDuplicatesSendOnce() {
	var sends atomic.Int32
	s.invoices.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *entity.InvoicePayload) error {
			sends.Add(1)
			time.Sleep(10 * time.Millisecond)
			return nil
		}).
		AnyTimes()
	s.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	payload := settled("KWS-8", "a@example.com", "Math").signed().bytes(s.T())

	var (
		wg        sync.WaitGroup
		delivered atomic.Int32
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.svc.Reconcile(context.Background(), payload)
			if err == nil && res.Outcome == entity.OutcomeDelivered {
				delivered.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), sends.Load())
	s.Equal(int32(1), delivered.Load())
}

func (s *WebhookSuite) TestPanicIsInternalFault() {
	s.invoices.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *entity.InvoicePayload) error {
			panic("boom")
		})

	res, err := s.svc.Reconcile(context.Background(), settled("KWS-9", "a@example.com", "Math").signed().bytes(s.T()))
	s.Require().Error(err)
	s.Nil(res)
}

func TestWebhookService_WithoutGuard(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	invoices := mock_service.NewMockInvoiceSender(ctrl)
	invoices.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	svc := service.NewWebhookService(
		testServerKey,
		modules.NewResolver(),
		download.NewDirect(testBaseURL, ".pdf"),
		invoices,
		logger.NewNop(),
		metric.NewFactory().Webhook(),
		service.WithInvoiceTimeout(time.Second),
	)

	payload := settled("KWS-10", "a@example.com", "Math").signed().bytes(t)
	for range 2 {
		res, err := svc.Reconcile(context.Background(), payload)
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeDelivered, res.Outcome)
		assert.True(t, res.InvoiceSent)
	}
}
