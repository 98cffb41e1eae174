package enums

import "testing"

func TestPaymentLinkStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to PaymentLinkStatus
		allowed  bool
	}{
		{PaymentLinkStatusCreated, PaymentLinkStatusPending, true},
		{PaymentLinkStatusCreated, PaymentLinkStatusPaid, true},
		{PaymentLinkStatusPending, PaymentLinkStatusExpired, true},
		{PaymentLinkStatusPending, PaymentLinkStatusCreated, false},
		{PaymentLinkStatusPaid, PaymentLinkStatusPaid, false},
		{PaymentLinkStatusPaid, PaymentLinkStatusFailed, false},
		{PaymentLinkStatusExpired, PaymentLinkStatusPaid, false},
		{PaymentLinkStatusFailed, PaymentLinkStatusPending, false},
		{PaymentLinkStatus("BOGUS"), PaymentLinkStatusPaid, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestPaymentLinkStatusTerminalSet(t *testing.T) {
	for _, status := range []PaymentLinkStatus{PaymentLinkStatusPaid, PaymentLinkStatusFailed, PaymentLinkStatusExpired} {
		if !status.IsTerminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	for _, status := range OpenPaymentLinkStatuses {
		if status.IsTerminal() {
			t.Fatalf("expected %s to be open", status)
		}
	}
}

func TestParseWebhookEventKind(t *testing.T) {
	if ParseWebhookEventKind("payment_link.paid") != WebhookEventPaymentLinkPaid {
		t.Fatal("expected paid kind")
	}
	if ParseWebhookEventKind("payment.authorized") != WebhookEventUnrecognized {
		t.Fatal("expected unknown events to be unrecognized")
	}
	if ParseWebhookEventKind("") != WebhookEventUnrecognized {
		t.Fatal("expected empty event to be unrecognized")
	}
}

func TestPaymentHistoryStatusRefundable(t *testing.T) {
	if !PaymentHistoryStatusSuccess.IsRefundable() {
		t.Fatal("success should be refundable")
	}
	for _, status := range []PaymentHistoryStatus{PaymentHistoryStatusPending, PaymentHistoryStatusFailed, PaymentHistoryStatusRefunded} {
		if status.IsRefundable() {
			t.Fatalf("%s should not be refundable", status)
		}
	}
}

func TestParseFarmStatus(t *testing.T) {
	status, err := ParseFarmStatus("GROWING")
	if err != nil || status != FarmStatusGrowing {
		t.Fatalf("unexpected parse result %q %v", status, err)
	}
	if _, err := ParseFarmStatus("growing"); err == nil {
		t.Fatal("labels are case sensitive")
	}
}
