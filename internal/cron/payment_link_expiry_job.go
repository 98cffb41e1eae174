package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/farmsip-backend/internal/payments"
	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	"github.com/angelmondragon/farmsip-backend/pkg/logger"
	"go.uber.org/multierr"
)

const defaultExpiryBatchSize = 200

// PaymentLinkExpiryJobParams configure the overdue payment link sweep.
type PaymentLinkExpiryJobParams struct {
	Logger    *logger.Logger
	Payments  overdueLinkExpirer
	BatchSize int
}

type overdueLinkExpirer interface {
	ListOverdueLinks(ctx context.Context, limit int) ([]models.PaymentLink, error)
	ApplyTransition(ctx context.Context, input payments.TransitionInput) (*payments.TransitionResult, error)
}

// NewPaymentLinkExpiryJob builds the job that expires open links past their expiry for which the
// gateway never sent an expiry event.
func NewPaymentLinkExpiryJob(params PaymentLinkExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Payments == nil {
		return nil, fmt.Errorf("payments service required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultExpiryBatchSize
	}
	return &paymentLinkExpiryJob{
		logg:     params.Logger,
		payments: params.Payments,
		batch:    batch,
	}, nil
}

type paymentLinkExpiryJob struct {
	logg     *logger.Logger
	payments overdueLinkExpirer
	batch    int
}

func (j *paymentLinkExpiryJob) Name() string { return "payment_link_expiry" }

func (j *paymentLinkExpiryJob) Run(ctx context.Context) error {
	links, err := j.payments.ListOverdueLinks(ctx, j.batch)
	if err != nil {
		return fmt.Errorf("query overdue payment links: %w", err)
	}

	var (
		errs    []error
		expired int
	)
	for _, link := range links {
		result, err := j.payments.ApplyTransition(ctx, payments.TransitionInput{
			LinkID:        link.ID,
			LinkStatus:    enums.PaymentLinkStatusExpired,
			HistoryStatus: enums.PaymentHistoryStatusFailed,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("expire payment link %s: %w", link.ID, err))
			continue
		}
		if result.Transitioned {
			expired++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"overdue": len(links),
		"expired": expired,
		"failed":  len(errs),
	})
	j.logg.Info(logCtx, "payment link expiry sweep complete")
	return multierr.Combine(errs...)
}
