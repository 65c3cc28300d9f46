package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/it23631960/pearl-logistics-user/internal/backend"
	"github.com/it23631960/pearl-logistics-user/internal/cart"
	"github.com/it23631960/pearl-logistics-user/internal/checkout"
	"github.com/it23631960/pearl-logistics-user/internal/config"
	"github.com/it23631960/pearl-logistics-user/internal/handlers"
	"github.com/it23631960/pearl-logistics-user/internal/health"
	"github.com/it23631960/pearl-logistics-user/internal/invoice"
	appmw "github.com/it23631960/pearl-logistics-user/internal/middleware"
	"github.com/it23631960/pearl-logistics-user/internal/observability"
	"github.com/it23631960/pearl-logistics-user/internal/reports"
	"github.com/it23631960/pearl-logistics-user/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("storefront")

	client := backend.NewClient(cfg.Backend.BaseURL, backend.WithTimeout(cfg.Backend.Timeout))

	sessions := session.NewManager(cfg.Session.SigningKey, cfg.Session.Secure)

	aggregator, err := cart.NewAggregator(cart.AggregatorDeps{
		Backend: client,
		Logger:  logger.Named("cart"),
	})
	if err != nil {
		logger.Fatal("failed to initialise cart aggregator", zap.Error(err))
	}

	coordinator, err := checkout.NewCoordinator(checkout.CoordinatorDeps{
		Orders: client,
		Cart:   aggregator,
		Logger: logger.Named("checkout"),
	})
	if err != nil {
		logger.Fatal("failed to initialise checkout coordinator", zap.Error(err))
	}

	renderer := invoice.NewRenderer(invoice.Branding{
		Name:         cfg.Store.Name,
		Tagline:      cfg.Store.Tagline,
		SupportEmail: cfg.Store.Support,
	})

	saver := reports.NewSaver(client, logger.Named("reports"))

	authHandlers := handlers.NewAuthHandlers(client, sessions)
	cartHandlers := handlers.NewCartHandlers(aggregator)
	checkoutHandlers := handlers.NewCheckoutHandlers(coordinator, client)
	orderHandlers := handlers.NewOrderHandlers(client, renderer, saver)
	reportHandlers := handlers.NewReportHandlers(client)

	router := handlers.NewRouter(
		handlers.WithMiddleware(sessions.Middleware, appmw.Logger(logger)),
		handlers.WithBackendProbe(health.NewProbe(cfg.Backend.BaseURL)),
		handlers.WithAuthRoutes(authHandlers.Routes),
		handlers.WithCartRoutes(cartHandlers.Routes),
		handlers.WithCheckoutRoutes(checkoutHandlers.Routes),
		handlers.WithOrderRoutes(orderHandlers.Routes),
		handlers.WithReportRoutes(reportHandlers.Routes),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal("server failed", zap.Error(err))
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}

	// Let in-flight invoice uploads drain before exit.
	saver.Wait()
	logger.Info("storefront stopped")
}
