package metrics

import "github.com/prometheus/client_golang/prometheus"

// PaymentMetrics counts webhook outcomes and farm-setup bridge calls.
type PaymentMetrics struct {
	webhooks    *prometheus.CounterVec
	bridgeCalls *prometheus.CounterVec
	issued      *prometheus.CounterVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	webhooks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhook_events_total",
		Help: "Inbound payment gateway webhook events by kind and outcome.",
	}, []string{"kind", "outcome"})
	bridgeCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "farm_setup_bridge_calls_total",
		Help: "Farm setup trigger/cancel calls by command and result.",
	}, []string{"command", "result"})
	issued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_links_issued_total",
		Help: "Payment links issued, split by first issuance and retry.",
	}, []string{"source"})
	reg.MustRegister(webhooks, bridgeCalls, issued)
	return &PaymentMetrics{
		webhooks:    webhooks,
		bridgeCalls: bridgeCalls,
		issued:      issued,
	}
}

// ObserveWebhook records one processed webhook.
func (p *PaymentMetrics) ObserveWebhook(kind, outcome string) {
	if p == nil || p.webhooks == nil {
		return
	}
	p.webhooks.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// ObserveBridgeCall records one farm setup collaborator call.
func (p *PaymentMetrics) ObserveBridgeCall(command string, err error) {
	if p == nil || p.bridgeCalls == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.bridgeCalls.WithLabelValues(normalizeLabel(command), result).Inc()
}

// ObserveIssued records one payment link issuance.
func (p *PaymentMetrics) ObserveIssued(source string) {
	if p == nil || p.issued == nil {
		return
	}
	p.issued.WithLabelValues(normalizeLabel(source)).Inc()
}
