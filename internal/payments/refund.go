package payments

import (
	"context"
	"fmt"

	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RefundPayment moves a SUCCESS entry to REFUNDED. A nil amount refunds the full amount; a
// provided amount must be positive and at most the paid amount. Money movement itself happens
// outside this service.
func (s *service) RefundPayment(ctx context.Context, historyID uuid.UUID, amount *decimal.Decimal) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		entries := s.ledger.WithTx(tx)
		entry, err := entries.FindForUpdate(ctx, historyID)
		if err != nil {
			return err
		}
		if !entry.Status.IsRefundable() {
			return pkgerrors.New(pkgerrors.CodeInvalidStateTransition,
				fmt.Sprintf("cannot refund payment in status %s", entry.Status)).
				WithDetails(map[string]any{"status": entry.Status, "required": enums.PaymentHistoryStatusSuccess})
		}

		refunded := entry.Amount
		if amount != nil {
			if !amount.IsPositive() || amount.GreaterThan(entry.Amount) {
				return pkgerrors.New(pkgerrors.CodeValidation, "refund amount must be positive and not exceed the paid amount")
			}
			refunded = *amount
		}

		entry.Status = enums.PaymentHistoryStatusRefunded
		entry.RefundedAmount = decimal.NewNullDecimal(refunded)
		if err := entries.Update(ctx, entry); err != nil {
			return err
		}

		logCtx := s.logg.WithFields(ctx, map[string]any{
			"payment_history_id": entry.ID.String(),
			"refunded_amount":    refunded.String(),
		})
		s.logg.Info(logCtx, "payment refunded")
		return nil
	})
}
