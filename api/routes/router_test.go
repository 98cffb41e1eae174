package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmsip-backend/internal/farms"
	"github.com/angelmondragon/farmsip-backend/internal/payments"
	razorpaywebhook "github.com/angelmondragon/farmsip-backend/internal/webhooks/razorpay"
	"github.com/angelmondragon/farmsip-backend/pkg/config"
	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/logger"
)

type stubFarms struct {
	farms.Service
}

func (stubFarms) GetFarmByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	return &models.Farm{ID: id}, nil
}

type stubPayments struct {
	payments.Service
	mu      sync.Mutex
	retries int
}

func (s *stubPayments) RetryFailedPayment(ctx context.Context, historyID uuid.UUID) (*models.PaymentLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retries++
	return &models.PaymentLink{ID: uuid.New()}, nil
}

func (s *stubPayments) RefundPayment(ctx context.Context, historyID uuid.UUID, amount *decimal.Decimal) error {
	return nil
}

type stubWebhooks struct {
	calls int
}

func (s *stubWebhooks) HandleWebhook(ctx context.Context, delivery razorpaywebhook.Delivery) (razorpaywebhook.Outcome, error) {
	s.calls++
	return razorpaywebhook.OutcomeIgnored, nil
}

type memoryKeys struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memoryKeys) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryKeys) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memoryKeys) IdempotencyKey(scope, id string) string {
	return scope + ":" + id
}

func newTestRouter(t *testing.T) (http.Handler, *stubPayments, *stubWebhooks) {
	t.Helper()
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	pay := &stubPayments{}
	hooks := &stubWebhooks{}
	handler := NewRouter(Dependencies{
		Config:          cfg,
		Logger:          logger.Nop(),
		Farms:           stubFarms{},
		Payments:        pay,
		Webhooks:        hooks,
		IdempotencyKeys: &memoryKeys{data: map[string]string{}},
		Gatherer:        prometheus.NewRegistry(),
	})
	return handler, pay, hooks
}

func TestRouterServesHealthAndMetrics(t *testing.T) {
	handler, _, _ := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouterFarmAndWebhookRoutes(t *testing.T) {
	handler, _, hooks := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/farms/"+uuid.NewString(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected farm detail 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/razorpay", strings.NewReader(`{}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected webhook 200, got %d", rec.Code)
	}
	if hooks.calls != 1 {
		t.Fatalf("expected webhook service call, got %d", hooks.calls)
	}
}

func TestRouterReplaysIdempotentRetry(t *testing.T) {
	handler, pay, _ := newTestRouter(t)
	path := "/api/v1/payments/" + uuid.NewString() + "/retry"

	var bodies []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Idempotency-Key", "retry-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201, got %d (%s)", i, rec.Code, rec.Body.String())
		}
		bodies = append(bodies, rec.Body.String())
	}

	if pay.retries != 1 {
		t.Fatalf("expected one retry issued, got %d", pay.retries)
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("expected replayed response body")
	}
}
