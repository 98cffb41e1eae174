package razorpaywebhook

import (
	"context"
	"time"

	"github.com/angelmondragon/farmsip-backend/internal/payments"
	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/angelmondragon/farmsip-backend/pkg/logger"
	"github.com/angelmondragon/farmsip-backend/pkg/metrics"
	"github.com/google/uuid"
)

const defaultFailureReason = "payment failed"

// Outcome describes what a delivery did. Every outcome is acknowledged to the gateway.
type Outcome string

const (
	OutcomeTransitioned Outcome = "transitioned"
	OutcomeNoOp         Outcome = "no_op"
	OutcomeUnknownLink  Outcome = "unknown_link"
	OutcomeIgnored      Outcome = "ignored"
	OutcomeDuplicate    Outcome = "duplicate"
)

type linkTransitioner interface {
	ResolveLink(ctx context.Context, ref string) (*models.PaymentLink, error)
	ApplyTransition(ctx context.Context, input payments.TransitionInput) (*payments.TransitionResult, error)
}

// Delivery is one raw webhook request. EventID is the gateway's delivery id when present.
type Delivery struct {
	Body    []byte
	EventID string
}

type ServiceParams struct {
	Events   EventRepository
	Payments linkTransitioner
	Guard    *IdempotencyGuard
	Logger   *logger.Logger
	Metrics  *metrics.PaymentMetrics
	Now      func() time.Time
}

// Service records every delivery and turns the recognized ones into payment link transitions.
type Service struct {
	events   EventRepository
	payments linkTransitioner
	guard    *IdempotencyGuard
	logg     *logger.Logger
	metrics  *metrics.PaymentMetrics
	now      func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Events == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "webhook event repository required")
	}
	if params.Payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments service required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		events:   params.Events,
		payments: params.Payments,
		guard:    params.Guard,
		logg:     logg,
		metrics:  params.Metrics,
		now:      now,
	}, nil
}

// HandleWebhook records the delivery, then applies it. Unknown events, unknown links and
// replays are not errors; only infrastructure failures are, so the gateway redelivers.
func (s *Service) HandleWebhook(ctx context.Context, delivery Delivery) (Outcome, error) {
	env := Decode(delivery.Body)
	kind := env.Event.Kind()
	ctx = s.logg.WithFields(ctx, map[string]any{
		"webhook_event": env.Name,
		"webhook_kind":  kind.String(),
	})

	if err := s.record(ctx, env, delivery.EventID); err != nil {
		s.metrics.ObserveWebhook(kind.String(), "error")
		return "", err
	}

	if s.guard != nil && delivery.EventID != "" {
		seen, err := s.guard.CheckAndMark(ctx, delivery.EventID)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "webhook dedupe unavailable")
		} else if seen {
			s.metrics.ObserveWebhook(kind.String(), string(OutcomeDuplicate))
			return OutcomeDuplicate, nil
		}
	}

	outcome, err := s.apply(ctx, env.Event)
	if err != nil {
		if s.guard != nil && delivery.EventID != "" {
			if delErr := s.guard.Delete(ctx, delivery.EventID); delErr != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", delErr.Error()), "release webhook dedupe key")
			}
		}
		s.metrics.ObserveWebhook(kind.String(), "error")
		return "", err
	}
	s.metrics.ObserveWebhook(kind.String(), string(outcome))
	return outcome, nil
}

func (s *Service) record(ctx context.Context, env Envelope, eventID string) error {
	event := &models.PaymentWebhookEvent{
		ID:         uuid.New(),
		Event:      env.Name,
		Kind:       env.Event.Kind(),
		AccountID:  env.AccountID,
		Payload:    env.Payload,
		ReceivedAt: s.now().UTC(),
	}
	if eventID != "" {
		event.GatewayEventID = &eventID
	}
	if ref := env.Event.LinkRef(); ref != "" {
		event.PaymentLinkRef = &ref
	}
	if err := s.events.Create(ctx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record webhook event")
	}
	return nil
}

func (s *Service) apply(ctx context.Context, event Event) (Outcome, error) {
	input, ok := transitionFor(event)
	if !ok {
		s.logg.Info(ctx, "webhook event ignored")
		return OutcomeIgnored, nil
	}

	link, err := s.payments.ResolveLink(ctx, event.LinkRef())
	if err != nil {
		return "", err
	}
	if link == nil {
		s.logg.Warn(s.logg.WithField(ctx, "payment_link_ref", event.LinkRef()), "webhook references unknown payment link")
		return OutcomeUnknownLink, nil
	}

	input.LinkID = link.ID
	result, err := s.payments.ApplyTransition(ctx, input)
	if err != nil {
		return "", err
	}
	if !result.Transitioned {
		return OutcomeNoOp, nil
	}
	return OutcomeTransitioned, nil
}

// transitionFor maps a decoded event onto the link/ledger move it causes.
func transitionFor(event Event) (payments.TransitionInput, bool) {
	switch e := event.(type) {
	case EventPaymentLinkPaid:
		return payments.TransitionInput{
			LinkStatus:    enums.PaymentLinkStatusPaid,
			HistoryStatus: enums.PaymentHistoryStatusSuccess,
			Method:        optional(e.Method),
			TransactionID: optional(e.PaymentID),
		}, e.Ref != ""
	case EventPaymentLinkExpired:
		return payments.TransitionInput{
			LinkStatus:    enums.PaymentLinkStatusExpired,
			HistoryStatus: enums.PaymentHistoryStatusFailed,
		}, e.Ref != ""
	case EventPaymentFailed:
		reason := e.Reason
		if reason == "" {
			reason = defaultFailureReason
		}
		return payments.TransitionInput{
			LinkStatus:    enums.PaymentLinkStatusFailed,
			HistoryStatus: enums.PaymentHistoryStatusFailed,
			Method:        optional(e.Method),
			TransactionID: optional(e.PaymentID),
			FailureReason: &reason,
		}, e.Ref != ""
	case EventPaymentCaptured:
		return payments.TransitionInput{
			LinkStatus:    enums.PaymentLinkStatusPending,
			Method:        optional(e.Method),
			TransactionID: optional(e.PaymentID),
		}, e.Ref != ""
	default:
		return payments.TransitionInput{}, false
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
