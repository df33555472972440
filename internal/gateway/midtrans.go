package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tammimikun/kids-worksheet-store/internal/config"
	"github.com/tammimikun/kids-worksheet-store/internal/entity"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
	"github.com/tammimikun/kids-worksheet-store/pkg/metric"
)

const (
	ProductionSnapURL = "https://app.midtrans.com/snap/v1"
	SandboxSnapURL    = "https://app.sandbox.midtrans.com/snap/v1"
	ProductionAPIURL  = "https://api.midtrans.com/v2"
	SandboxAPIURL     = "https://api.sandbox.midtrans.com/v2"

	expiryTimeLayout = "2006-01-02 15:04:05 -0700"

	opCreate = "create_transaction"
	opStatus = "transaction_status"
)

type (
	snapRequest struct {
		TransactionDetails transactionDetails `json:"transaction_details"`
		CustomerDetails    customerDetails    `json:"customer_details"`
		ItemDetails        []itemDetail       `json:"item_details"`
		CreditCard         creditCard         `json:"credit_card"`
		CustomField1       string             `json:"custom_field1,omitempty"`
		CustomField2       string             `json:"custom_field2,omitempty"`
		Expiry             *expiry            `json:"expiry,omitempty"`
		ModuleSelection    []json.RawMessage  `json:"modulDipilih,omitempty"`
	}

	transactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	}

	customerDetails struct {
		FirstName string `json:"first_name,omitempty"`
		Email     string `json:"email,omitempty"`
		Phone     string `json:"phone,omitempty"`
	}

	itemDetail struct {
		ID       string `json:"id,omitempty"`
		Price    int64  `json:"price"`
		Quantity int    `json:"quantity"`
		Name     string `json:"name"`
	}

	creditCard struct {
		Secure bool `json:"secure"`
	}

	expiry struct {
		StartTime string `json:"start_time"`
		Unit      string `json:"unit"`
		Duration  int    `json:"duration"`
	}

	snapResponse struct {
		Token         string   `json:"token"`
		RedirectURL   string   `json:"redirect_url"`
		ErrorMessages []string `json:"error_messages"`
	}

	statusResponse struct {
		StatusCode        string `json:"status_code"`
		StatusMessage     string `json:"status_message"`
		OrderID           string `json:"order_id"`
		TransactionStatus string `json:"transaction_status"`
		FraudStatus       string `json:"fraud_status"`
		PaymentType       string `json:"payment_type"`
		GrossAmount       string `json:"gross_amount"`
	}
)

// Midtrans talks to the Snap API for transaction creation and to the core API
// for status lookups. Both authenticate with the server key.
type Midtrans struct {
	client  *resty.Client
	snapURL string
	apiURL  string
	log     logger.Logger
	metrics metric.Gateway
}

func NewMidtrans(cfg config.Gateway, log logger.Logger, metrics metric.Gateway) *Midtrans {
	snapURL, apiURL := SandboxSnapURL, SandboxAPIURL
	if cfg.IsProduction {
		snapURL, apiURL = ProductionSnapURL, ProductionAPIURL
	}
	if cfg.SnapURL != "" {
		snapURL = cfg.SnapURL
	}
	if cfg.APIURL != "" {
		apiURL = cfg.APIURL
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.ServerKey, "").
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &Midtrans{
		client:  client,
		snapURL: strings.TrimRight(snapURL, "/"),
		apiURL:  strings.TrimRight(apiURL, "/"),
		log:     log.With("component", "gateway.midtrans"),
		metrics: metrics,
	}
}

func (m *Midtrans) CreateTransaction(
	ctx context.Context,
	req *entity.TransactionRequest,
) (*entity.TransactionResult, error) {
	const op = "gateway.Midtrans.CreateTransaction"

	start := time.Now()
	defer func() { m.metrics.ObserveDuration(opCreate, time.Since(start)) }()

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(toSnapRequest(req)).
		Post(m.snapURL + "/transactions")
	if err != nil {
		m.metrics.IncrementFailures(opCreate)
		return nil, fmt.Errorf("%s: %w: %w", op, entity.ErrGateway, err)
	}

	var body snapResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil && resp.IsSuccess() {
		m.metrics.IncrementFailures(opCreate)
		return nil, fmt.Errorf("%s: decode response: %w: %w", op, entity.ErrGateway, err)
	}

	if !resp.IsSuccess() || body.Token == "" {
		m.metrics.IncrementFailures(opCreate)
		m.log.Warnw("snap rejected transaction",
			"order_id", req.OrderID,
			"status", resp.StatusCode(),
			"messages", body.ErrorMessages,
		)
		return nil, fmt.Errorf("%s: %w", op, &entity.GatewayError{
			StatusCode: resp.StatusCode(),
			Messages:   body.ErrorMessages,
			Body:       resp.Body(),
		})
	}

	return &entity.TransactionResult{
		Token:       body.Token,
		RedirectURL: body.RedirectURL,
		OrderID:     req.OrderID,
	}, nil
}

func (m *Midtrans) TransactionStatus(ctx context.Context, orderID string) (*entity.TransactionStatus, error) {
	const op = "gateway.Midtrans.TransactionStatus"

	start := time.Now()
	defer func() { m.metrics.ObserveDuration(opStatus, time.Since(start)) }()

	resp, err := m.client.R().
		SetContext(ctx).
		Get(m.apiURL + "/" + url.PathEscape(orderID) + "/status")
	if err != nil {
		m.metrics.IncrementFailures(opStatus)
		return nil, fmt.Errorf("%s: %w: %w", op, entity.ErrGateway, err)
	}

	var body statusResponse
	_ = json.Unmarshal(resp.Body(), &body)

	// The core API reports some failures with HTTP 200 and the real code in the body.
	status := resp.StatusCode()
	if code, convErr := strconv.Atoi(body.StatusCode); convErr == nil && code >= http.StatusBadRequest {
		status = code
	}
	if status >= http.StatusBadRequest || !resp.IsSuccess() {
		m.metrics.IncrementFailures(opStatus)
		var messages []string
		if body.StatusMessage != "" {
			messages = []string{body.StatusMessage}
		}
		return nil, fmt.Errorf("%s: %w", op, &entity.GatewayError{
			StatusCode: status,
			Messages:   messages,
			Body:       resp.Body(),
		})
	}

	return &entity.TransactionStatus{
		OrderID:           body.OrderID,
		TransactionStatus: body.TransactionStatus,
		FraudStatus:       body.FraudStatus,
		PaymentType:       body.PaymentType,
		GrossAmount:       body.GrossAmount,
	}, nil
}

func toSnapRequest(req *entity.TransactionRequest) snapRequest {
	items := make([]itemDetail, len(req.Items))
	for i, it := range req.Items {
		items[i] = itemDetail{ID: it.ID, Price: it.Price, Quantity: it.Quantity, Name: it.Name}
	}

	out := snapRequest{
		TransactionDetails: transactionDetails{OrderID: req.OrderID, GrossAmount: req.GrossAmount},
		CustomerDetails: customerDetails{
			FirstName: req.Customer.DisplayName(),
			Email:     req.Customer.Email,
			Phone:     req.Customer.Phone,
		},
		ItemDetails:     items,
		CreditCard:      creditCard{Secure: true},
		CustomField1:    req.CustomField1,
		CustomField2:    req.CustomField2,
		ModuleSelection: req.Selection,
	}
	if req.Expiry.DurationMinutes > 0 {
		out.Expiry = &expiry{
			StartTime: req.Expiry.StartTime.Format(expiryTimeLayout),
			Unit:      "minute",
			Duration:  req.Expiry.DurationMinutes,
		}
	}
	return out
}
