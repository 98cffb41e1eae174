package enums

// WebhookEventKind is the closed set of gateway events the engine reacts to. Anything else
// decodes to WebhookEventUnrecognized and is recorded but never acted upon.
type WebhookEventKind string

const (
	WebhookEventPaymentLinkPaid    WebhookEventKind = "payment_link.paid"
	WebhookEventPaymentLinkExpired WebhookEventKind = "payment_link.expired"
	WebhookEventPaymentFailed      WebhookEventKind = "payment.failed"
	WebhookEventPaymentCaptured    WebhookEventKind = "payment.captured"
	WebhookEventUnrecognized       WebhookEventKind = "unrecognized"
)

// ParseWebhookEventKind maps the raw gateway event name onto the closed set.
func ParseWebhookEventKind(value string) WebhookEventKind {
	switch kind := WebhookEventKind(value); kind {
	case WebhookEventPaymentLinkPaid,
		WebhookEventPaymentLinkExpired,
		WebhookEventPaymentFailed,
		WebhookEventPaymentCaptured:
		return kind
	default:
		return WebhookEventUnrecognized
	}
}

func (k WebhookEventKind) String() string {
	return string(k)
}
