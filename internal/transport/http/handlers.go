package httpt

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
)

const (
	_defaultContextTimeout = 20 * time.Second
	_maxWebhookBody        = 1 << 20
)

// @Summary Service status
// @Tags Health
// @Produce json
// @Success 200 {object} httpt.healthResponse
// @Router / [get]
func (h *PaymentHandler) rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Message:     "Payment service is running",
		Timestamp:   h.now().UTC().Format(time.RFC3339),
		Environment: h.env,
	})
}

// @Summary Create a Snap transaction
// @Description Issues a Snap token under a freshly generated order id. Order id collisions are retried with new ids.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body httpt.createTransactionRequest true "Transaction details, nested or legacy flat form"
// @Success 200 {object} httpt.createTransactionResponse
// @Failure 400 {object} httpt.ErrorResponse "Missing required fields"
// @Failure 500 {object} httpt.ErrorResponse "Failed to create transaction"
// @Router /create-transaction [post]
func (h *PaymentHandler) createTransactionHandler(c *gin.Context) {
	const op = "transport.createTransactionHandler"

	log := h.log.Ctx(c.Request.Context())

	var body createTransactionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.handleMissingFields(c, op, err)
		return
	}
	req, err := body.toEntity()
	if err != nil {
		h.handleMissingFields(c, op, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.txs.Create(ctx, req)
	if err != nil {
		h.handleCreateError(c, err, op)
		return
	}

	log.LogAttrs(ctx, logger.InfoLevel, "transaction token issued",
		logger.String("order_id", res.OrderID),
	)

	c.JSON(http.StatusOK, createTransactionResponse{
		Success:     true,
		Token:       res.Token,
		RedirectURL: res.RedirectURL,
		OrderID:     res.OrderID,
		ClientKey:   h.clientKey,
	})
}

// @Summary Transaction status
// @Tags Transactions
// @Produce json
// @Param order_id query string true "Order id"
// @Success 200 {object} entity.TransactionStatus
// @Failure 400 {object} httpt.ErrorResponse "order_id required"
// @Failure 404 {object} httpt.ErrorResponse "Midtrans error"
// @Failure 502 {object} httpt.ErrorResponse
// @Failure 504 {object} httpt.ErrorResponse
// @Router /check-status [get]
func (h *PaymentHandler) checkStatusHandler(c *gin.Context) {
	const op = "transport.checkStatusHandler"

	orderID := c.Query("order_id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "order_id required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status, err := h.txs.Status(ctx, orderID)
	if err != nil {
		h.handleStatusError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, status)
}

// webhookHandler acknowledges every notification it could evaluate with 200 so
// the gateway stops retrying. Only an internal fault yields 500.
//
// @Summary Midtrans payment notification
// @Description Always answers 200 with the reconciliation outcome. Only an internal fault yields 500.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param notification body entity.PaymentNotification true "Midtrans notification"
// @Success 200 {object} httpt.webhookResponse
// @Failure 500 {object} httpt.ErrorResponse
// @Router /payment-webhook [post]
func (h *PaymentHandler) webhookHandler(c *gin.Context) {
	const op = "transport.webhookHandler"

	ctx := c.Request.Context()
	log := h.log.Ctx(ctx)

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, _maxWebhookBody))
	if err != nil {
		log.LogAttrs(ctx, logger.WarnLevel, "read webhook body failed",
			logger.String("op", op),
			logger.Any("error", err),
		)
		payload = nil
	}

	res, err := h.webhooks.Reconcile(ctx, payload)
	if err != nil {
		log.LogAttrs(ctx, logger.ErrorLevel, "webhook processing failed",
			logger.String("op", op),
			logger.Any("error", err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal server error",
			Details: err.Error(),
		})
		return
	}

	log.LogAttrs(ctx, logger.InfoLevel, "webhook handled",
		logger.String("order_id", res.OrderID),
		logger.String("outcome", string(res.Outcome)),
		logger.String("message", res.Message),
		logger.Bool("invoice_sent", res.InvoiceSent),
	)

	c.JSON(http.StatusOK, newWebhookResponse(res))
}

// @Summary Redeem a signed download link
// @Tags Downloads
// @Param file query string true "File name"
// @Param exp query string true "Expiry, unix milliseconds"
// @Param sig query string true "Link signature"
// @Success 302 "Redirect to the file"
// @Failure 400 {object} httpt.ErrorResponse
// @Failure 403 {object} httpt.ErrorResponse "Invalid signature"
// @Failure 410 {object} httpt.ErrorResponse "Link expired"
// @Router /download [get]
func (h *PaymentHandler) downloadHandler(c *gin.Context) {
	const op = "transport.downloadHandler"

	target, err := h.links.Verify(c.Query("file"), c.Query("exp"), c.Query("sig"))
	if err != nil {
		h.handleLinkError(c, err, op)
		return
	}

	c.Redirect(http.StatusFound, target)
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
