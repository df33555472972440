package httpt

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tammimikun/kids-worksheet-store/internal/entity"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
)

func (h *PaymentHandler) handleMissingFields(c *gin.Context, op string, err error) {
	h.log.LogAttrs(c.Request.Context(), logger.WarnLevel, "create transaction rejected",
		logger.String("op", op),
		logger.Any("error", err),
		logger.String("client_ip", c.ClientIP()),
	)

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:    "Missing required fields",
		Required: requiredCreateFields,
	})
}

func (h *PaymentHandler) handleCreateError(c *gin.Context, err error, op string) {
	log := h.log.Ctx(c.Request.Context())

	switch {
	case errors.Is(err, entity.ErrInvalidData):
		log.LogAttrs(c.Request.Context(), logger.WarnLevel, "invalid transaction data",
			logger.String("op", op),
			logger.Any("error", err),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid transaction data", Details: err.Error()})
	default:
		log.LogAttrs(c.Request.Context(), logger.ErrorLevel, "create transaction failed",
			logger.String("op", op),
			logger.Any("error", err),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to create transaction",
			Details: err.Error(),
		})
	}
}

// handleStatusError surfaces the gateway's own status code and body.
func (h *PaymentHandler) handleStatusError(c *gin.Context, err error, op string) {
	log := h.log.Ctx(c.Request.Context())
	log.LogAttrs(c.Request.Context(), logger.ErrorLevel, "check status failed",
		logger.String("op", op),
		logger.String("order_id", c.Query("order_id")),
		logger.Any("error", err),
	)

	var gwErr *entity.GatewayError
	switch {
	case errors.As(err, &gwErr) && gwErr.StatusCode >= http.StatusBadRequest:
		c.JSON(gwErr.StatusCode, ErrorResponse{Error: "Midtrans error", Details: gatewayDetails(gwErr)})
	case errors.Is(err, entity.ErrInvalidData):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "order_id required"})
	case isTimeout(err):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "Request timed out"})
	case errors.Is(err, entity.ErrGateway):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Midtrans error", Details: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to check status", Details: err.Error()})
	}
}

func (h *PaymentHandler) handleLinkError(c *gin.Context, err error, op string) {
	h.log.LogAttrs(c.Request.Context(), logger.WarnLevel, "download link refused",
		logger.String("op", op),
		logger.String("file", c.Query("file")),
		logger.Any("error", err),
	)

	switch {
	case errors.Is(err, entity.ErrLinkExpired):
		c.JSON(http.StatusGone, ErrorResponse{Error: "Link expired"})
	case errors.Is(err, entity.ErrLinkSignature):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Invalid signature"})
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid download link"})
	}
}

func gatewayDetails(err *entity.GatewayError) any {
	if json.Valid(err.Body) && len(err.Body) > 0 {
		return json.RawMessage(err.Body)
	}
	if len(err.Messages) > 0 {
		return err.Messages
	}
	return err.Error()
}
