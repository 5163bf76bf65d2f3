package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-paywall/internal/adapter"
	"github.com/feral-file/ff-paywall/internal/api/middleware"
	"github.com/feral-file/ff-paywall/internal/api/rest"
	"github.com/feral-file/ff-paywall/internal/api/server"
	"github.com/feral-file/ff-paywall/internal/availability"
	"github.com/feral-file/ff-paywall/internal/checkout"
	"github.com/feral-file/ff-paywall/internal/config"
	"github.com/feral-file/ff-paywall/internal/ipn"
	"github.com/feral-file/ff-paywall/internal/logger"
	"github.com/feral-file/ff-paywall/internal/notification"
	"github.com/feral-file/ff-paywall/internal/paypal"
	"github.com/feral-file/ff-paywall/internal/providers/jetstream"
	"github.com/feral-file/ff-paywall/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "paywall-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Feral File Paywall API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clock := adapter.NewClock()
	ioAdapter := adapter.NewIO()
	jsonAdapter := adapter.NewJSON()
	httpClient := adapter.NewHTTPClient(cfg.PayPal.VerifyTimeout)

	// Notification sink: JetStream when configured, the log otherwise
	var sink notification.Sink
	if cfg.NATS.URL != "" {
		publisher, err := jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter, adapter.NewJCS())
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err))
		}
		defer publisher.Close()
		logger.InfoCtx(ctx, "Connected to NATS", zap.String("stream", cfg.NATS.StreamName))
		sink = publisher
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, notifications will be logged only")
		sink = notification.NewLogSink()
	}

	// Alert fan-out pool
	pool := pond.NewPool(cfg.Notification.Worker.WorkerPoolSize, pond.WithQueueSize(cfg.Notification.Worker.WorkerQueueSize))
	defer pool.StopAndWait()

	alerter := notification.NewAlerter(notification.AlerterConfig{
		SiteName:      cfg.Site.Name,
		NoReplyUserID: cfg.Site.NoReplyUserID,
	}, dataStore, sink, pool)

	// Domain services
	verifyURL, verifyHost := cfg.PayPal.VerifyEndpoint()
	verifier := paypal.NewVerifier(paypal.VerifierConfig{
		URL:           verifyURL,
		Host:          verifyHost,
		Attempts:      cfg.PayPal.VerifyAttempts,
		RetryInterval: cfg.PayPal.RetryInterval,
	}, httpClient, ioAdapter)
	resolver := availability.NewResolver(dataStore)
	evaluator := availability.NewEvaluator(dataStore, cfg.Site.WWWRoot)

	ipnHandler := ipn.NewHandler(ipn.Dependencies{
		Store:    dataStore,
		Resolver: resolver,
		Verifier: verifier,
		Alerter:  alerter,
		Clock:    clock,
		JSON:     jsonAdapter,
	})
	checkoutService := checkout.NewService(checkout.Config{
		SiteName:    cfg.Site.Name,
		WWWRoot:     cfg.Site.WWWRoot,
		CheckoutURL: cfg.PayPal.CheckoutURL(),
	}, dataStore, resolver, evaluator, clock)

	restHandler := rest.NewHandler(rest.Config{
		WWWRoot: cfg.Site.WWWRoot,
	}, rest.Dependencies{
		IPN:       ipnHandler,
		Checkout:  checkoutService,
		Resolver:  resolver,
		Evaluator: evaluator,
		Store:     dataStore,
		IO:        ioAdapter,
	})

	// Create server config
	serverConfig := server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
			CookieName:   cfg.Auth.CookieName,
		},
	}

	srv := server.New(serverConfig, restHandler)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Let in-flight notifications finish their verification round-trip
	shutdownTimeout := time.Duration(cfg.PayPal.VerifyAttempts)*(cfg.PayPal.VerifyTimeout+cfg.PayPal.RetryInterval) + 5*time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, fmt.Errorf("server forced to shutdown: %w", err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
