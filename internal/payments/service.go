package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/farmsip-backend/internal/ledger"
	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/angelmondragon/farmsip-backend/pkg/logger"
	"github.com/angelmondragon/farmsip-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultCurrency = "INR"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service issues payment links and drives their lifecycle together with the payment ledger.
type Service interface {
	CreatePaymentLink(ctx context.Context, input CreatePaymentLinkInput) (*models.PaymentLink, error)
	RetryFailedPayment(ctx context.Context, historyID uuid.UUID) (*models.PaymentLink, error)
	RefundPayment(ctx context.Context, historyID uuid.UUID, amount *decimal.Decimal) error
	GetPaymentHistory(ctx context.Context, customerID uuid.UUID) ([]models.PaymentHistory, error)
	ResolveLink(ctx context.Context, ref string) (*models.PaymentLink, error)
	ApplyTransition(ctx context.Context, input TransitionInput) (*TransitionResult, error)
	ListOverdueLinks(ctx context.Context, limit int) ([]models.PaymentLink, error)
}

// ServiceParams wires the payments service.
type ServiceParams struct {
	Repo     Repository
	Ledger   ledger.Service
	Gateway  Gateway
	Tx       txRunner
	Notifier OutcomeNotifier
	Currency string
	Logger   *logger.Logger
	Metrics  *metrics.PaymentMetrics
	Now      func() time.Time
}

type service struct {
	repo     Repository
	ledger   ledger.Service
	gateway  Gateway
	tx       txRunner
	notifier OutcomeNotifier
	currency string
	logg     *logger.Logger
	metrics  *metrics.PaymentMetrics
	now      func() time.Time
}

// NewService builds the payments service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payment link repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("payment ledger required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		ledger:   params.Ledger,
		gateway:  params.Gateway,
		tx:       params.Tx,
		notifier: params.Notifier,
		currency: currency,
		logg:     logg,
		metrics:  params.Metrics,
		now:      now,
	}, nil
}

// GetPaymentHistory returns the customer's ledger entries oldest first; empty for no activity.
func (s *service) GetPaymentHistory(ctx context.Context, customerID uuid.UUID) ([]models.PaymentHistory, error) {
	return s.ledger.ListByCustomer(ctx, customerID)
}

// ResolveLink maps a gateway-supplied reference to a link. Our own ids are tried first, then the
// provider's id. Unknown references return nil, nil.
func (s *service) ResolveLink(ctx context.Context, ref string) (*models.PaymentLink, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	var (
		link *models.PaymentLink
		err  error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		link, err = s.repo.FindByID(ctx, id, false)
	} else {
		link, err = s.repo.FindByGatewayReference(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve payment link")
	}
	return link, nil
}

// ListOverdueLinks returns open links past their expiry.
func (s *service) ListOverdueLinks(ctx context.Context, limit int) ([]models.PaymentLink, error) {
	links, err := s.repo.ListOverdue(ctx, s.now().UTC(), limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list overdue payment links")
	}
	return links, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
