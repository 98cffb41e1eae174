package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/farmsip-backend/pkg/logger"
)

type WebhookEventRetentionJobParams struct {
	Logger     *logger.Logger
	Repository webhookEventPurger
	// Retention is how long deliveries stay in the event log.
	Retention time.Duration
}

type webhookEventPurger interface {
	DeleteReceivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

func NewWebhookEventRetentionJob(params WebhookEventRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("webhook event repository required")
	}
	if params.Retention <= 0 {
		return nil, fmt.Errorf("retention must be positive")
	}
	return &webhookEventRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: params.Retention,
		now:       time.Now,
	}, nil
}

type webhookEventRetentionJob struct {
	logg      *logger.Logger
	repo      webhookEventPurger
	retention time.Duration
	now       func() time.Time
}

func (j *webhookEventRetentionJob) Name() string { return "webhook_event_retention" }

func (j *webhookEventRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.repo.DeleteReceivedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("webhook event retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"retention":    j.retention.String(),
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "webhook event retention cleanup complete")
	return nil
}
