package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPaymentMetricsCountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPaymentMetrics(reg)

	m.ObserveWebhook("payment_link.paid", "transitioned")
	m.ObserveWebhook("payment_link.paid", "transitioned")
	m.ObserveWebhook("", "ignored")
	m.ObserveBridgeCall("trigger", nil)
	m.ObserveBridgeCall("cancel", errors.New("publish failed"))
	m.ObserveIssued("retry")

	if got := testutil.ToFloat64(m.webhooks.WithLabelValues("payment_link.paid", "transitioned")); got != 2 {
		t.Fatalf("expected 2 paid webhooks, got %v", got)
	}
	if got := testutil.ToFloat64(m.webhooks.WithLabelValues("unknown", "ignored")); got != 1 {
		t.Fatalf("expected empty kind to normalize to unknown, got %v", got)
	}
	if got := testutil.ToFloat64(m.bridgeCalls.WithLabelValues("cancel", "error")); got != 1 {
		t.Fatalf("expected 1 failed cancel, got %v", got)
	}
	if got := testutil.ToFloat64(m.issued.WithLabelValues("retry")); got != 1 {
		t.Fatalf("expected 1 retry issuance, got %v", got)
	}
}

func TestMetricsWithoutRegistererAreNoops(t *testing.T) {
	var nilMetrics *PaymentMetrics
	nilMetrics.ObserveWebhook("x", "y")
	NewPaymentMetrics(nil).ObserveBridgeCall("trigger", nil)

	cron := NewCronJobMetrics(nil)
	cron.ObserveDuration("job", time.Second)
	cron.IncSuccess("job")
	cron.IncFailure("job")
}

func TestCronJobMetricsRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	m.IncSuccess("payment_link_expiry")
	m.IncFailure("")

	if got := testutil.ToFloat64(m.success.WithLabelValues("payment_link_expiry")); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected 1 unknown failure, got %v", got)
	}
}
