package invoice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tammimikun/kids-worksheet-store/internal/config"
	"github.com/tammimikun/kids-worksheet-store/internal/entity"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
	"github.com/tammimikun/kids-worksheet-store/pkg/metric"
)

const userAgent = "payment-webhook/1.0"

type response struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client posts invoice payloads to the email function. A call is made once;
// there is no retry.
type Client struct {
	client    *resty.Client
	url       string
	fromEmail string
	log       logger.Logger
	metrics   metric.Invoice
}

func NewClient(cfg config.Invoice, log logger.Logger, metrics metric.Invoice) *Client {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", userAgent)
	// The provider key stays with the invoice function; only its own token is sent.
	if cfg.AuthToken != "" {
		client.SetAuthToken(cfg.AuthToken)
	}

	return &Client{
		client:    client,
		url:       cfg.URL,
		fromEmail: cfg.FromEmail,
		log:       log.With("component", "invoice.client"),
		metrics:   metrics,
	}
}

func (c *Client) Send(ctx context.Context, payload *entity.InvoicePayload) error {
	const op = "invoice.Client.Send"

	if payload.FromEmail == "" {
		payload.FromEmail = c.fromEmail
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.url)
	if err != nil {
		c.metrics.Failed("transport", time.Since(start))
		return fmt.Errorf("%s: %w: %w", op, entity.ErrInvoiceDispatch, err)
	}

	if !resp.IsSuccess() {
		c.metrics.Failed("status", time.Since(start))
		return fmt.Errorf("%s: %w: status %d: %s", op, entity.ErrInvoiceDispatch, resp.StatusCode(), truncate(resp.String()))
	}

	var body response
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Success != nil && !*body.Success {
		c.metrics.Failed("rejected", time.Since(start))
		return fmt.Errorf("%s: %w: %s", op, entity.ErrInvoiceDispatch, firstNonEmpty(body.Error, body.Message))
	}

	c.metrics.Sent(time.Since(start))
	c.log.Infow("invoice dispatched",
		"order_id", payload.OrderID,
		"status", resp.StatusCode(),
	)
	return nil
}

const _maxBodyInError = 256

func truncate(s string) string {
	if len(s) > _maxBodyInError {
		return s[:_maxBodyInError]
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return "rejected by invoice function"
}
