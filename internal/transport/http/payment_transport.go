package httpt

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tammimikun/kids-worksheet-store/internal/entity"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
	"github.com/tammimikun/kids-worksheet-store/pkg/metric"
)

//go:generate mockgen -source=payment_transport.go -destination=mock/payment_transport.go -package=mock_httpt

type (
	TransactionService interface {
		Create(ctx context.Context, req *entity.TransactionRequest) (*entity.TransactionResult, error)
		Status(ctx context.Context, orderID string) (*entity.TransactionStatus, error)
	}

	Reconciler interface {
		Reconcile(ctx context.Context, payload []byte) (*entity.Reconciliation, error)
	}

	LinkVerifier interface {
		Verify(file, exp, sig string) (string, error)
	}
)

type Option func(*PaymentHandler)

// WithLinkVerifier enables GET /download for signed links.
func WithLinkVerifier(v LinkVerifier) Option {
	return func(h *PaymentHandler) {
		h.links = v
	}
}

func WithCORSOrigins(origins []string) Option {
	return func(h *PaymentHandler) {
		h.origins = origins
	}
}

func WithEnvironment(env string) Option {
	return func(h *PaymentHandler) {
		h.env = env
	}
}

// WithRequestTimeout bounds gateway-backed handlers. It should cover every
// creation attempt the service may make.
func WithRequestTimeout(d time.Duration) Option {
	return func(h *PaymentHandler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *PaymentHandler) {
		h.now = now
	}
}

type PaymentHandler struct {
	txs       TransactionService
	webhooks  Reconciler
	links     LinkVerifier
	clientKey string
	env       string
	origins   []string
	timeout   time.Duration
	now       func() time.Time
	log       logger.Logger
	metrics   metric.HTTP
	router    *gin.Engine
}

func NewPaymentHandler(
	txs TransactionService,
	webhooks Reconciler,
	clientKey string,
	log logger.Logger,
	metrics metric.HTTP,
	opts ...Option,
) *PaymentHandler {
	h := &PaymentHandler{
		txs:       txs,
		webhooks:  webhooks,
		clientKey: clientKey,
		env:       "local",
		timeout:   _defaultContextTimeout,
		now:       time.Now,
		log:       log,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(h)
	}

	router := gin.New()

	router.Use(h.requestIDMiddleware())
	router.Use(h.loggingMiddleware())
	router.Use(gin.Recovery())
	if len(h.origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  h.origins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}))
	}

	h.router = router
	h.setupRoutes()

	return h
}

func (h *PaymentHandler) Engine() *gin.Engine {
	return h.router
}
