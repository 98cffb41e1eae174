package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/farmsip-backend/api/controllers"
	webhookcontrollers "github.com/angelmondragon/farmsip-backend/api/controllers/webhooks"
	"github.com/angelmondragon/farmsip-backend/api/middleware"
	"github.com/angelmondragon/farmsip-backend/internal/farms"
	"github.com/angelmondragon/farmsip-backend/internal/payments"
	"github.com/angelmondragon/farmsip-backend/pkg/config"
	"github.com/angelmondragon/farmsip-backend/pkg/logger"
)

// Dependencies are the services and probes the HTTP surface is built from.
type Dependencies struct {
	Config          *config.Config
	Logger          *logger.Logger
	Farms           farms.Service
	Payments        payments.Service
	Webhooks        webhookcontrollers.RazorpayWebhookService
	IdempotencyKeys middleware.IdempotencyStore
	Readiness       []controllers.ReadinessCheck
	// Gatherer backs /metrics; prometheus.DefaultGatherer when nil.
	Gatherer prometheus.Gatherer
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness...))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/razorpay", webhookcontrollers.RazorpayWebhook(deps.Webhooks, cfg.Razorpay.WebhookSecret, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if deps.IdempotencyKeys != nil {
			r.Use(middleware.Idempotency(deps.IdempotencyKeys, logg))
		}

		r.Post("/farms", controllers.FarmCreate(deps.Farms, logg))
		r.Get("/farms/{farmId}", controllers.FarmDetail(deps.Farms, logg))
		r.Patch("/farms/{farmId}/status", controllers.FarmUpdateStatus(deps.Farms, logg))

		r.Post("/payment-links", controllers.PaymentLinkCreate(deps.Payments, logg))
		r.Get("/customers/{customerId}/payments", controllers.PaymentHistoryList(deps.Payments, logg))
		r.Route("/payments/{paymentId}", func(r chi.Router) {
			r.Post("/retry", controllers.PaymentRetry(deps.Payments, logg))
			r.Post("/refund", controllers.PaymentRefund(deps.Payments, logg))
		})
	})

	return r
}
