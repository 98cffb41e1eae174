package orchestration

import (
	"context"
	"errors"

	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/logger"
	"github.com/angelmondragon/farmsip-backend/pkg/metrics"
	"github.com/google/uuid"
)

// Bridge couples terminal payment outcomes to farm provisioning. Calls are fire-and-forget:
// failures are logged and counted, never returned to the payment transition.
type Bridge struct {
	setup   FarmSetup
	logg    *logger.Logger
	metrics *metrics.PaymentMetrics
}

// NewBridge builds the bridge over a farm setup collaborator.
func NewBridge(setup FarmSetup, logg *logger.Logger, m *metrics.PaymentMetrics) (*Bridge, error) {
	if setup == nil {
		return nil, errors.New("farm setup collaborator required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Bridge{setup: setup, logg: logg, metrics: m}, nil
}

// OnPaymentSucceeded triggers farm setup for a link that just became PAID.
func (b *Bridge) OnPaymentSucceeded(ctx context.Context, link *models.PaymentLink) {
	b.dispatch(ctx, link, CommandTriggerFarmSetup, b.setup.TriggerFarmSetup)
}

// OnPaymentClosed cancels farm setup for a link that just became EXPIRED or FAILED.
func (b *Bridge) OnPaymentClosed(ctx context.Context, link *models.PaymentLink) {
	b.dispatch(ctx, link, CommandCancelFarmSetup, b.setup.CancelFarmSetup)
}

func (b *Bridge) dispatch(ctx context.Context, link *models.PaymentLink, command string, call func(context.Context, uuid.UUID) error) {
	if link == nil {
		return
	}
	logCtx := b.logg.WithField(b.logg.WithPaymentLinkID(ctx, link.ID.String()), "command", command)
	if link.FarmID == nil {
		b.logg.Info(logCtx, "payment link has no farm; skipping farm setup command")
		return
	}
	logCtx = b.logg.WithFarmID(logCtx, link.FarmID.String())

	// commands must outlive the inbound request
	err := call(context.WithoutCancel(ctx), *link.FarmID)
	b.metrics.ObserveBridgeCall(command, err)
	if err != nil {
		b.logg.Error(logCtx, "farm setup command failed", err)
	}
}
