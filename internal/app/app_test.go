package app

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/tammimikun/kids-worksheet-store/internal/config"
	"github.com/tammimikun/kids-worksheet-store/internal/download"
	"github.com/tammimikun/kids-worksheet-store/internal/entity"
	"github.com/tammimikun/kids-worksheet-store/internal/events"
	"github.com/tammimikun/kids-worksheet-store/internal/signature"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
	"github.com/tammimikun/kids-worksheet-store/pkg/metric"
)

const (
	flowServerKey = "SB-Mid-server-flow"
	flowClientKey = "SB-Mid-client-flow"
)

// PaymentFlowSuite drives the service over HTTP with the gateway and the
// invoice function replaced by local servers.
type PaymentFlowSuite struct {
	suite.Suite

	midtrans *httptest.Server
	invoices *httptest.Server
	app      *httptest.Server
	client   *http.Client
	stop     func()

	mu       sync.Mutex
	received []entity.InvoicePayload
	orders   map[string]bool
}

func TestPaymentFlowSuite(t *testing.T) {
	suite.Run(t, new(PaymentFlowSuite))
}

func (s *PaymentFlowSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.orders = make(map[string]bool)
	s.received = nil

	s.midtrans = httptest.NewServer(http.HandlerFunc(s.serveMidtrans))
	s.invoices = httptest.NewServer(http.HandlerFunc(s.serveInvoice))

	cfg := s.config()
	log := logger.NewNop()
	metrics := metric.NewFactory()

	links, err := download.New(cfg.Download)
	s.Require().NoError(err)
	publisher, err := events.New(cfg.Events, log, metrics.Events())
	s.Require().NoError(err)
	delivered, err := initDeliveredCache(&cfg.Redelivery, log, metrics)
	s.Require().NoError(err)
	s.stop = func() { stopCache(delivered) }

	handler := newPaymentHandler(
		cfg,
		initTransactionService(cfg, log, metrics),
		initWebhookService(cfg, links, publisher, delivered, log, metrics),
		links,
		log,
		metrics,
	)
	s.app = httptest.NewServer(handler.Engine())
	s.client = &http.Client{
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *PaymentFlowSuite) TearDownTest() {
	s.stop()
	s.app.Close()
	s.invoices.Close()
	s.midtrans.Close()
}

func (s *PaymentFlowSuite) config() *config.Config {
	return &config.Config{
		Env: "local",
		Gateway: config.Gateway{
			ServerKey:     flowServerKey,
			ClientKey:     flowClientKey,
			SnapURL:       s.midtrans.URL + "/snap/v1",
			APIURL:        s.midtrans.URL + "/v2",
			Timeout:       2 * time.Second,
			MaxAttempts:   3,
			ExpiryMinutes: 15,
		},
		Invoice: config.Invoice{
			URL:       s.invoices.URL,
			Timeout:   2 * time.Second,
			FromEmail: "noreply@kidsworksheet.store",
		},
		Download: config.Download{
			Mode:      download.ModeSigned,
			BaseURL:   "https://kidsworksheet.store/Modul",
			Extension: ".pdf",
			Secret:    "link-secret",
			TTL:       time.Hour,
		},
		OrderID:    config.OrderID{Prefix: "KWS"},
		Redelivery: config.Redelivery{Enabled: true, Capacity: 100, TTL: time.Hour, CleanupInterval: time.Minute},
		Events:     config.Events{Driver: events.DriverNone},
	}
}

func (s *PaymentFlowSuite) serveMidtrans(w http.ResponseWriter, r *http.Request) {
	user, _, _ := r.BasicAuth()
	if user != flowServerKey {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/snap/v1/transactions":
		var req struct {
			TransactionDetails struct {
				OrderID string `json:"order_id"`
			} `json:"transaction_details"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		s.mu.Lock()
		s.orders[req.TransactionDetails.OrderID] = true
		s.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprintf(w, `{"token":"tok-%s","redirect_url":"https://pay/%s"}`,
			req.TransactionDetails.OrderID, req.TransactionDetails.OrderID)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v2/"):
		orderID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v2/"), "/status")
		s.mu.Lock()
		known := s.orders[orderID]
		s.mu.Unlock()
		if !known {
			_, _ = io.WriteString(w, `{"status_code":"404","status_message":"Transaction doesn't exist."}`)
			return
		}
		_, _ = fmt.Fprintf(w,
			`{"status_code":"200","order_id":%q,"transaction_status":"settlement","payment_type":"qris","gross_amount":"40000.00"}`,
			orderID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *PaymentFlowSuite) serveInvoice(w http.ResponseWriter, r *http.Request) {
	var p entity.InvoicePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.received = append(s.received, p)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"success":true,"message":"Invoice sent"}`)
}

func (s *PaymentFlowSuite) post(path string, body any) map[string]any {
	b, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := s.client.Post(s.app.URL+path, "application/json", strings.NewReader(string(b)))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var out map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *PaymentFlowSuite) get(path string) *http.Response {
	resp, err := s.client.Get(s.app.URL + path)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *PaymentFlowSuite) createOrder(email string, modules ...string) string {
	items := make([]map[string]any, 0, len(modules))
	for i, name := range modules {
		items = append(items, map[string]any{"id": fmt.Sprint(i + 1), "name": name, "price": 20000, "quantity": 1})
	}

	res := s.post("/create-transaction", map[string]any{
		"transaction_details": map[string]any{"gross_amount": 20000 * len(modules)},
		"customer_details":    map[string]any{"first_name": gofakeit.FirstName(), "email": email},
		"item_details":        items,
	})
	s.Require().Equal(true, res["success"])
	s.Require().Equal(flowClientKey, res["client_key"])

	orderID, _ := res["order_id"].(string)
	s.Require().Regexp(`^KWS-\d{8}-\d{4}-\d{3}$`, orderID)
	return orderID
}

func (s *PaymentFlowSuite) notify(orderID, status, email string, modules ...string) map[string]any {
	items := make([]map[string]any, 0, len(modules))
	for _, name := range modules {
		items = append(items, map[string]any{"name": name, "price": 20000, "quantity": 1})
	}
	gross := fmt.Sprintf("%d.00", 20000*len(modules))

	return s.post("/payment-webhook", map[string]any{
		"order_id":           orderID,
		"status_code":        "200",
		"gross_amount":       gross,
		"signature_key":      signature.Compute(orderID, "200", gross, flowServerKey),
		"transaction_status": status,
		"customer_details":   map[string]any{"email": email},
		"item_details":       items,
	})
}

func (s *PaymentFlowSuite) TestSettlementDeliversOneInvoice() {
	email := gofakeit.Email()
	orderID := s.createOrder(email, "Math Basics", "Reading Fun")

	pending := s.notify(orderID, "pending", email, "Math Basics", "Reading Fun")
	s.Equal("suppressed", pending["outcome"])

	res := s.notify(orderID, "settlement", email, "Math Basics", "Reading Fun")
	s.Equal("delivered", res["outcome"])
	s.Equal("Webhook processed", res["message"])

	again := s.notify(orderID, "settlement", email, "Math Basics", "Reading Fun")
	s.Equal("suppressed", again["outcome"])
	s.Equal("Already processed", again["message"])

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Require().Len(s.received, 1)
	invoice := s.received[0]
	s.Equal(orderID, invoice.OrderID)
	s.Equal(email, invoice.CustomerEmail)
	s.Equal("40000", invoice.Total.String())
	s.Equal("noreply@kidsworksheet.store", invoice.FromEmail)
	s.Require().Len(invoice.DownloadLinks, 2)
	s.Contains(invoice.DownloadLinks[0].DownloadURL, "file=Math-Basics.pdf")
}

func (s *PaymentFlowSuite) TestSignedLinkRedirects() {
	email := gofakeit.Email()
	orderID := s.createOrder(email, "Shapes")
	s.notify(orderID, "settlement", email, "Shapes")

	s.mu.Lock()
	s.Require().Len(s.received, 1)
	link := s.received[0].DownloadLinks[0].DownloadURL
	s.mu.Unlock()

	u, err := url.Parse(link)
	s.Require().NoError(err)

	resp := s.get("/download?" + u.RawQuery)
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("https://kidsworksheet.store/Modul/Shapes.pdf", resp.Header.Get("Location"))

	q := u.Query()
	q.Set("sig", strings.Repeat("0", 64))
	resp = s.get("/download?" + q.Encode())
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *PaymentFlowSuite) TestForgedNotificationRejected() {
	res := s.post("/payment-webhook", map[string]any{
		"order_id":           "KWS-10182026-0001-001",
		"status_code":        "200",
		"gross_amount":       "20000.00",
		"signature_key":      signature.Compute("KWS-10182026-0001-001", "200", "20000.00", "guessed-key"),
		"transaction_status": "settlement",
		"customer_details":   map[string]any{"email": gofakeit.Email()},
		"item_details":       []map[string]any{{"name": "Math"}},
	})
	s.Equal("rejected", res["outcome"])
	s.Equal("Invalid signature key", res["error"])

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Empty(s.received)
}

func (s *PaymentFlowSuite) TestCheckStatus() {
	orderID := s.createOrder(gofakeit.Email(), "Math Basics")

	resp := s.get("/check-status?order_id=" + orderID)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var status entity.TransactionStatus
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&status))
	s.Equal(orderID, status.OrderID)
	s.Equal("settlement", status.TransactionStatus)

	resp = s.get("/check-status?order_id=KWS-unknown")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestInitDeliveredCacheDisabled(t *testing.T) {
	t.Parallel()

	c, err := initDeliveredCache(&config.Redelivery{Enabled: false}, logger.NewNop(), metric.NewFactory())
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestRequestTimeoutCoversRetryBudget(t *testing.T) {
	t.Parallel()

	cfg := config.Gateway{Timeout: 10 * time.Second, MaxAttempts: 3}
	require.Equal(t, 35*time.Second, requestTimeout(cfg))
	require.Greater(t, requestTimeout(cfg), time.Duration(cfg.MaxAttempts)*cfg.Timeout)
}
