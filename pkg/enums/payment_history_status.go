package enums

import "fmt"

// PaymentHistoryStatus tracks one issuance attempt in the payment ledger.
type PaymentHistoryStatus string

const (
	PaymentHistoryStatusPending  PaymentHistoryStatus = "PENDING"
	PaymentHistoryStatusSuccess  PaymentHistoryStatus = "SUCCESS"
	PaymentHistoryStatusFailed   PaymentHistoryStatus = "FAILED"
	PaymentHistoryStatusRefunded PaymentHistoryStatus = "REFUNDED"
)

var validPaymentHistoryStatuses = []PaymentHistoryStatus{
	PaymentHistoryStatusPending,
	PaymentHistoryStatusSuccess,
	PaymentHistoryStatusFailed,
	PaymentHistoryStatusRefunded,
}

// String implements fmt.Stringer.
func (s PaymentHistoryStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PaymentHistoryStatus.
func (s PaymentHistoryStatus) IsValid() bool {
	for _, candidate := range validPaymentHistoryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePaymentHistoryStatus converts raw input into a PaymentHistoryStatus.
func ParsePaymentHistoryStatus(value string) (PaymentHistoryStatus, error) {
	for _, candidate := range validPaymentHistoryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment history status %q", value)
}

// IsRefundable reports whether a refund may be issued from this status.
func (s PaymentHistoryStatus) IsRefundable() bool {
	return s == PaymentHistoryStatusSuccess
}
