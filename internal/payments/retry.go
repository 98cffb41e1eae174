package payments

import (
	"context"

	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const retryDescription = "Retry payment for farm setup"

// errRetryDenied is returned both for unknown entries and for exhausted ones.
func errRetryDenied() error {
	return pkgerrors.New(pkgerrors.CodeRetryExhausted, "payment cannot be retried")
}

// RetryFailedPayment issues a fresh link for the same customer and amount and bumps the original
// entry's retry count, all while holding the entry's row lock. At most MaxPaymentRetries retries
// succeed per entry.
func (s *service) RetryFailedPayment(ctx context.Context, historyID uuid.UUID) (*models.PaymentLink, error) {
	var link *models.PaymentLink
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		entries := s.ledger.WithTx(tx)
		entry, err := entries.FindForUpdate(ctx, historyID)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return errRetryDenied()
			}
			return err
		}
		if !entry.CanRetry() {
			return errRetryDenied()
		}

		var farmID *uuid.UUID
		original, err := s.repo.WithTx(tx).FindByID(ctx, entry.PaymentLinkID, false)
		switch {
		case err == nil:
			farmID = original.FarmID
		case !isNotFound(err):
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load original payment link")
		}

		issued, err := s.issue(ctx, tx, CreatePaymentLinkInput{
			FarmID:      farmID,
			CustomerID:  entry.CustomerID,
			Amount:      entry.Amount,
			Description: retryDescription,
		})
		if err != nil {
			return err
		}

		entry.RetryCount++
		if err := entries.Update(ctx, entry); err != nil {
			return err
		}
		link = issued
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveIssued(issueSourceRetry)
	logCtx := s.logg.WithFields(s.logg.WithPaymentLinkID(ctx, link.ID.String()), map[string]any{
		"payment_history_id": historyID.String(),
	})
	s.logg.Info(logCtx, "payment retried")
	return link, nil
}
