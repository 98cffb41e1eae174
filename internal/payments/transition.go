package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransitionInput moves one link (and its ledger entry) to a new status. An empty HistoryStatus
// leaves the entry's status as is; non-nil payment details are recorded either way.
type TransitionInput struct {
	LinkID        uuid.UUID
	LinkStatus    enums.PaymentLinkStatus
	HistoryStatus enums.PaymentHistoryStatus
	Method        *string
	TransactionID *string
	FailureReason *string
}

// TransitionResult reports what happened. Transitioned is false for unknown links and for links
// whose current status does not admit the move (terminal replays included).
type TransitionResult struct {
	Link         *models.PaymentLink
	Previous     enums.PaymentLinkStatus
	Transitioned bool
}

// ApplyTransition runs the move under row locks on the link, then on its ledger entry, and
// notifies the outcome listener only after commit and only for real transitions into a
// terminal status.
func (s *service) ApplyTransition(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	if !input.LinkStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment link status %q", input.LinkStatus))
	}
	if input.HistoryStatus != "" && !input.HistoryStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment history status %q", input.HistoryStatus))
	}

	result := &TransitionResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		link, err := repo.FindByID(ctx, input.LinkID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock payment link")
		}
		result.Link = link
		result.Previous = link.Status
		if !link.Status.CanTransitionTo(input.LinkStatus) {
			return nil
		}

		now := s.now().UTC()
		link.Status = input.LinkStatus
		link.UpdatedAt = now
		if err := repo.Save(ctx, link); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment link")
		}

		entries := s.ledger.WithTx(tx)
		entry, err := entries.FindByPaymentLinkForUpdate(ctx, link.ID)
		if err != nil {
			if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return err
			}
			s.logg.Warn(s.logg.WithPaymentLinkID(ctx, link.ID.String()), "payment link has no ledger entry")
		} else {
			applyHistoryChange(entry, input)
			if err := entries.Update(ctx, entry); err != nil {
				return err
			}
		}
		result.Transitioned = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Transitioned {
		logCtx := s.logg.WithFields(s.logg.WithPaymentLinkID(ctx, result.Link.ID.String()), map[string]any{
			"from": result.Previous,
			"to":   result.Link.Status,
		})
		s.logg.Info(logCtx, "payment link transitioned")
		s.notify(ctx, result.Link)
	}
	return result, nil
}

func applyHistoryChange(entry *models.PaymentHistory, input TransitionInput) {
	if input.HistoryStatus != "" {
		entry.Status = input.HistoryStatus
	}
	if input.Method != nil {
		entry.Method = input.Method
	}
	if input.TransactionID != nil {
		entry.TransactionID = input.TransactionID
	}
	if input.FailureReason != nil {
		entry.FailureReason = input.FailureReason
	}
}

func (s *service) notify(ctx context.Context, link *models.PaymentLink) {
	if s.notifier == nil {
		return
	}
	switch link.Status {
	case enums.PaymentLinkStatusPaid:
		s.notifier.OnPaymentSucceeded(ctx, link)
	case enums.PaymentLinkStatusExpired, enums.PaymentLinkStatusFailed:
		s.notifier.OnPaymentClosed(ctx, link)
	}
}
