package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/farmsip-backend/api/controllers"
	"github.com/angelmondragon/farmsip-backend/api/routes"
	"github.com/angelmondragon/farmsip-backend/internal/customers"
	"github.com/angelmondragon/farmsip-backend/internal/farms"
	"github.com/angelmondragon/farmsip-backend/internal/ledger"
	"github.com/angelmondragon/farmsip-backend/internal/orchestration"
	"github.com/angelmondragon/farmsip-backend/internal/payments"
	razorpaywebhook "github.com/angelmondragon/farmsip-backend/internal/webhooks/razorpay"
	"github.com/angelmondragon/farmsip-backend/pkg/config"
	"github.com/angelmondragon/farmsip-backend/pkg/db"
	"github.com/angelmondragon/farmsip-backend/pkg/logger"
	"github.com/angelmondragon/farmsip-backend/pkg/metrics"
	"github.com/angelmondragon/farmsip-backend/pkg/migrate"
	"github.com/angelmondragon/farmsip-backend/pkg/pubsub"
	"github.com/angelmondragon/farmsip-backend/pkg/razorpay"
	"github.com/angelmondragon/farmsip-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if cfg.Payments.RequireWebhookSign && cfg.Razorpay.WebhookSecret == "" {
		logg.Error(context.Background(), "razorpay webhook secret is required", errors.New("webhook signature verification enabled without a secret"))
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	readiness := []controllers.ReadinessCheck{
		{Name: "database", Pinger: dbClient},
		{Name: "redis", Pinger: redisClient},
	}

	var farmSetup orchestration.FarmSetup
	if cfg.FarmSetup.UsesPubSub() {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.FarmSetup, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		publisher, err := pubsubClient.FarmSetupPublisher()
		if err != nil {
			logg.Error(context.Background(), "failed to create farm setup publisher", err)
			os.Exit(1)
		}
		defer publisher.Stop()
		pubsubSetup, err := orchestration.NewPubSubFarmSetup(publisher, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create farm setup", err)
			os.Exit(1)
		}
		farmSetup = pubsubSetup
		readiness = append(readiness, controllers.ReadinessCheck{Name: "pubsub", Pinger: pubsubClient})
	} else {
		farmSetup = orchestration.NewLogFarmSetup(logg)
	}

	paymentMetrics := metrics.NewPaymentMetrics(prometheus.DefaultRegisterer)

	bridge, err := orchestration.NewBridge(farmSetup, logg, paymentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create orchestration bridge", err)
		os.Exit(1)
	}

	gate, err := farms.NewValidationGate(customers.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create validation gate", err)
		os.Exit(1)
	}
	farmService, err := farms.NewService(farms.ServiceParams{
		Repo:   farms.NewRepository(dbClient.DB()),
		Gate:   gate,
		Tx:     dbClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create farm service", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create payment ledger", err)
		os.Exit(1)
	}

	razorpayClient, err := razorpay.NewClient(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		razorpay.WithBaseURL(cfg.Razorpay.BaseURL),
		razorpay.WithTimeout(cfg.Razorpay.Timeout),
		razorpay.WithCallbackURL(cfg.Razorpay.CallbackURL),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create razorpay client", err)
		os.Exit(1)
	}
	gateway, err := payments.NewRazorpayGateway(razorpayClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gateway", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(payments.ServiceParams{
		Repo:     payments.NewRepository(dbClient.DB()),
		Ledger:   ledgerService,
		Gateway:  gateway,
		Tx:       dbClient,
		Notifier: bridge,
		Currency: cfg.Payments.Currency,
		Logger:   logg,
		Metrics:  paymentMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	guard, err := razorpaywebhook.NewIdempotencyGuard(redisClient, cfg.Payments.WebhookDedupeTTL, razorpaywebhook.DefaultScope)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}
	webhookService, err := razorpaywebhook.NewService(razorpaywebhook.ServiceParams{
		Events:   razorpaywebhook.NewEventRepository(dbClient.DB()),
		Payments: paymentService,
		Guard:    guard,
		Logger:   logg,
		Metrics:  paymentMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"farmSetup":   cfg.FarmSetup.Driver,
		"currency":    cfg.Payments.Currency,
		"sqlite":      cfg.FeatureFlags.UseSQLite,
		"requireSign": cfg.Payments.RequireWebhookSign,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:          cfg,
			Logger:          logg,
			Farms:           farmService,
			Payments:        paymentService,
			Webhooks:        webhookService,
			IdempotencyKeys: redisClient,
			Readiness:       readiness,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown failed", err)
		}
		logg.Info(shutdownCtx, "api server shut down gracefully")
	}
}
