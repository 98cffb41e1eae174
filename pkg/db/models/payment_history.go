package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmsip-backend/pkg/enums"
)

// MaxPaymentRetries caps PaymentHistory.RetryCount.
const MaxPaymentRetries = 3

// PaymentHistory is the ledger entry for one issuance attempt. Amount is in major units.
type PaymentHistory struct {
	ID             uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PaymentLinkID  uuid.UUID                  `gorm:"column:payment_link_id;type:uuid;not null;uniqueIndex:ux_payment_histories_payment_link_id" json:"paymentLinkId"`
	CustomerID     uuid.UUID                  `gorm:"column:customer_id;type:uuid;not null;index:ix_payment_histories_customer_id" json:"customerId"`
	Amount         decimal.Decimal            `gorm:"column:amount;type:numeric(14,2);not null" json:"amount"`
	Status         enums.PaymentHistoryStatus `gorm:"column:status;type:payment_history_status;not null" json:"status"`
	Method         *string                    `gorm:"column:method" json:"method,omitempty"`
	TransactionID  *string                    `gorm:"column:transaction_id" json:"transactionId,omitempty"`
	FailureReason  *string                    `gorm:"column:failure_reason" json:"failureReason,omitempty"`
	RefundedAmount decimal.NullDecimal        `gorm:"column:refunded_amount;type:numeric(14,2)" json:"refundedAmount"`
	RetryCount     int                        `gorm:"column:retry_count;not null;default:0" json:"retryCount"`
	CreatedAt      time.Time                  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time                  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// CanRetry reports whether another retry is allowed for this entry.
func (p *PaymentHistory) CanRetry() bool {
	return p != nil && p.RetryCount < MaxPaymentRetries
}
