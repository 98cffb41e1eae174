package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/farmsip-backend/internal/cron"
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

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

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

	farmSetup, closeFarmSetup, err := buildFarmSetup(cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create farm setup", err)
		os.Exit(1)
	}
	defer closeFarmSetup()

	paymentMetrics := metrics.NewPaymentMetrics(prometheus.DefaultRegisterer)
	paymentService, err := buildPaymentService(cfg, logg, dbClient, farmSetup, paymentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	expiryJob, err := cron.NewPaymentLinkExpiryJob(cron.PaymentLinkExpiryJobParams{
		Logger:    logg,
		Payments:  paymentService,
		BatchSize: cfg.Cron.ExpiryBatchSize,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment link expiry job", err)
		os.Exit(1)
	}

	jobs := []cron.Job{expiryJob}
	if cfg.Cron.WebhookEventRetention > 0 {
		retentionJob, err := cron.NewWebhookEventRetentionJob(cron.WebhookEventRetentionJobParams{
			Logger:     logg,
			Repository: razorpaywebhook.NewEventRepository(dbClient.DB()),
			Retention:  cfg.Cron.WebhookEventRetention,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create webhook event retention job", err)
			os.Exit(1)
		}
		jobs = append(jobs, retentionJob)
	}

	lock, err := cron.NewRedisLock(redisClient, cfg.Cron.LockKey, cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(jobs...),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"interval": cfg.Cron.Interval.String(),
		"lockKey":  cfg.Cron.LockKey,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func buildFarmSetup(cfg *config.Config, logg *logger.Logger) (orchestration.FarmSetup, func(), error) {
	if !cfg.FarmSetup.UsesPubSub() {
		return orchestration.NewLogFarmSetup(logg), func() {}, nil
	}

	client, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.FarmSetup, logg)
	if err != nil {
		return nil, nil, err
	}
	publisher, err := client.FarmSetupPublisher()
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	setup, err := orchestration.NewPubSubFarmSetup(publisher, logg)
	if err != nil {
		publisher.Stop()
		_ = client.Close()
		return nil, nil, err
	}
	closeFn := func() {
		publisher.Stop()
		if err := client.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}
	return setup, closeFn, nil
}

func buildPaymentService(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, setup orchestration.FarmSetup, m *metrics.PaymentMetrics) (payments.Service, error) {
	bridge, err := orchestration.NewBridge(setup, logg, m)
	if err != nil {
		return nil, err
	}
	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()))
	if err != nil {
		return nil, err
	}
	client, err := razorpay.NewClient(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		razorpay.WithBaseURL(cfg.Razorpay.BaseURL),
		razorpay.WithTimeout(cfg.Razorpay.Timeout),
		razorpay.WithCallbackURL(cfg.Razorpay.CallbackURL),
	)
	if err != nil {
		return nil, err
	}
	gateway, err := payments.NewRazorpayGateway(client)
	if err != nil {
		return nil, err
	}
	return payments.NewService(payments.ServiceParams{
		Repo:     payments.NewRepository(dbClient.DB()),
		Ledger:   ledgerService,
		Gateway:  gateway,
		Tx:       dbClient,
		Notifier: bridge,
		Currency: cfg.Payments.Currency,
		Logger:   logg,
		Metrics:  m,
	})
}
