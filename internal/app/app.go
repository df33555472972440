package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tammimikun/kids-worksheet-store/internal/config"
	"github.com/tammimikun/kids-worksheet-store/internal/download"
	"github.com/tammimikun/kids-worksheet-store/internal/events"
	"github.com/tammimikun/kids-worksheet-store/internal/gateway"
	"github.com/tammimikun/kids-worksheet-store/internal/invoice"
	"github.com/tammimikun/kids-worksheet-store/internal/modules"
	"github.com/tammimikun/kids-worksheet-store/internal/orderid"
	"github.com/tammimikun/kids-worksheet-store/internal/service"
	httpt "github.com/tammimikun/kids-worksheet-store/internal/transport/http"
	"github.com/tammimikun/kids-worksheet-store/pkg/cache"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
	"github.com/tammimikun/kids-worksheet-store/pkg/metric"
)

const (
	_deliveredCacheName   = "delivered"
	_requestTimeoutMargin = 5 * time.Second
)

func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)

	metrics := initMetrics(ctx, eg, &cfg.Metrics, log)

	links, err := download.New(cfg.Download)
	if err != nil {
		return fmt.Errorf("app.Run: %w", err)
	}

	publisher, err := events.New(cfg.Events, log, metrics.Events())
	if err != nil {
		return fmt.Errorf("app.Run: %w", err)
	}
	defer closePublisher(publisher, log)

	delivered, err := initDeliveredCache(&cfg.Redelivery, log, metrics)
	if err != nil {
		return err
	}
	defer stopCache(delivered)

	txService := initTransactionService(cfg, log, metrics)
	webhookService := initWebhookService(cfg, links, publisher, delivered, log, metrics)

	handler := newPaymentHandler(cfg, txService, webhookService, links, log, metrics)
	initHTTPServer(ctx, eg, cfg, handler, log)

	return waitForShutdown(eg)
}

func initMetrics(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Metrics,
	log logger.Logger,
) metric.Factory {
	metrics := metric.NewFactory()

	hostPort := net.JoinHostPort(cfg.Host, cfg.Port)
	metricsServer := &http.Server{
		Addr:              hostPort,
		Handler:           metrics.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	eg.Go(func() error {
		log.Infow("starting metrics server", "port", cfg.Port)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app.initMetrics: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.WriteTimeout)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	return metrics
}

// initDeliveredCache returns nil when the redelivery guard is disabled.
func initDeliveredCache(
	cfg *config.Redelivery,
	log logger.Logger,
	metrics metric.Factory,
) (*cache.LRUCache[string, time.Time], error) {
	if !cfg.Enabled {
		return nil, nil
	}
	delivered, err := cache.NewLRUCache[string, time.Time](
		cfg.Capacity,
		log.With("component", "cache"),
		metrics.Cache(),
		cache.WithName(_deliveredCacheName),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initDeliveredCache: %w", err)
	}
	delivered.StartCleanup(cfg.CleanupInterval)
	return delivered, nil
}

func stopCache(delivered *cache.LRUCache[string, time.Time]) {
	if delivered != nil {
		delivered.StopCleanup()
	}
}

func closePublisher(publisher events.Publisher, log logger.Logger) {
	if err := publisher.Close(); err != nil {
		log.Warnw("close event publisher", "error", err)
	}
}

func initTransactionService(
	cfg *config.Config,
	log logger.Logger,
	metrics metric.Factory,
) *service.TransactionService {
	midtrans := gateway.NewMidtrans(cfg.Gateway, log, metrics.Gateway())

	return service.NewTransactionService(
		midtrans,
		orderid.New(cfg.OrderID.Prefix),
		log.With("component", "transaction service"),
		metrics.Gateway(),
		service.WithMaxAttempts(cfg.Gateway.MaxAttempts),
		service.WithExpiryMinutes(cfg.Gateway.ExpiryMinutes),
	)
}

func initWebhookService(
	cfg *config.Config,
	links download.Strategy,
	publisher events.Publisher,
	delivered *cache.LRUCache[string, time.Time],
	log logger.Logger,
	metrics metric.Factory,
) *service.WebhookService {
	opts := []service.WebhookOption{
		service.WithInvoiceTimeout(cfg.Invoice.Timeout),
		service.WithEvents(publisher),
	}
	if delivered != nil {
		opts = append(opts, service.WithRedeliveryGuard(delivered, cfg.Redelivery.TTL))
	}

	return service.NewWebhookService(
		cfg.Gateway.ServerKey,
		modules.NewResolver(modules.WithLogger(log.With("component", "modules"))),
		links,
		invoice.NewClient(cfg.Invoice, log, metrics.Invoice()),
		log.With("component", "webhook service"),
		metrics.Webhook(),
		opts...,
	)
}

func initHTTPServer(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Config,
	handler *httpt.PaymentHandler,
	log logger.Logger,
) {
	httpServer := httpt.NewHTTPServer(handler.Engine(), &cfg.HTTP, log.With("component", "http server"))

	eg.Go(func() error {
		return httpServer.Start(ctx)
	})
}

// requestTimeout covers the full creation retry budget plus a margin for
// the handler's own work.
func requestTimeout(cfg config.Gateway) time.Duration {
	return time.Duration(cfg.MaxAttempts)*cfg.Timeout + _requestTimeoutMargin
}

func newPaymentHandler(
	cfg *config.Config,
	txService *service.TransactionService,
	webhookService *service.WebhookService,
	links download.Strategy,
	log logger.Logger,
	metrics metric.Factory,
) *httpt.PaymentHandler {
	opts := []httpt.Option{
		httpt.WithCORSOrigins(cfg.HTTP.CORSOrigins),
		httpt.WithEnvironment(cfg.Env),
		httpt.WithRequestTimeout(requestTimeout(cfg.Gateway)),
	}
	if verifier, ok := links.(httpt.LinkVerifier); ok {
		opts = append(opts, httpt.WithLinkVerifier(verifier))
	}

	return httpt.NewPaymentHandler(
		txService,
		webhookService,
		cfg.Gateway.ClientKey,
		log.With("component", "http"),
		metrics.HTTP(),
		opts...,
	)
}

func waitForShutdown(eg *errgroup.Group) error {
	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("app.waitForShutdown: application failed: %w", err)
	}
	return nil
}
