package enums

import "fmt"

// PaymentLinkStatus tracks a gateway-hosted payment link. Status only moves forward and the
// terminal set admits no further transition.
type PaymentLinkStatus string

const (
	PaymentLinkStatusCreated PaymentLinkStatus = "CREATED"
	PaymentLinkStatusPending PaymentLinkStatus = "PENDING"
	PaymentLinkStatusPaid    PaymentLinkStatus = "PAID"
	PaymentLinkStatusFailed  PaymentLinkStatus = "FAILED"
	PaymentLinkStatusExpired PaymentLinkStatus = "EXPIRED"
)

var validPaymentLinkStatuses = []PaymentLinkStatus{
	PaymentLinkStatusCreated,
	PaymentLinkStatusPending,
	PaymentLinkStatusPaid,
	PaymentLinkStatusFailed,
	PaymentLinkStatusExpired,
}

var paymentLinkStatusRank = map[PaymentLinkStatus]int{
	PaymentLinkStatusCreated: 0,
	PaymentLinkStatusPending: 1,
	PaymentLinkStatusPaid:    2,
	PaymentLinkStatusFailed:  2,
	PaymentLinkStatusExpired: 2,
}

// OpenPaymentLinkStatuses lists the statuses a link can still leave.
var OpenPaymentLinkStatuses = []PaymentLinkStatus{
	PaymentLinkStatusCreated,
	PaymentLinkStatusPending,
}

// String implements fmt.Stringer.
func (s PaymentLinkStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PaymentLinkStatus.
func (s PaymentLinkStatus) IsValid() bool {
	for _, candidate := range validPaymentLinkStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the link reached PAID, FAILED or EXPIRED.
func (s PaymentLinkStatus) IsTerminal() bool {
	return s == PaymentLinkStatusPaid || s == PaymentLinkStatusFailed || s == PaymentLinkStatusExpired
}

// CanTransitionTo reports whether next is a forward move from s.
func (s PaymentLinkStatus) CanTransitionTo(next PaymentLinkStatus) bool {
	if !s.IsValid() || !next.IsValid() || s.IsTerminal() {
		return false
	}
	return paymentLinkStatusRank[next] > paymentLinkStatusRank[s]
}

// ParsePaymentLinkStatus converts raw input into a PaymentLinkStatus.
func ParsePaymentLinkStatus(value string) (PaymentLinkStatus, error) {
	for _, candidate := range validPaymentLinkStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment link status %q", value)
}
