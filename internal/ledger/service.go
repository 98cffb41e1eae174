package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is the append/update audit trail of payment attempts per customer.
type Service interface {
	WithTx(tx *gorm.DB) Service
	Append(ctx context.Context, input AppendInput) (*models.PaymentHistory, error)
	Get(ctx context.Context, id uuid.UUID) (*models.PaymentHistory, error)
	FindForUpdate(ctx context.Context, id uuid.UUID) (*models.PaymentHistory, error)
	FindByPaymentLinkForUpdate(ctx context.Context, linkID uuid.UUID) (*models.PaymentHistory, error)
	Update(ctx context.Context, entry *models.PaymentHistory) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.PaymentHistory, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// AppendInput captures the data a new PENDING entry requires.
type AppendInput struct {
	PaymentLinkID uuid.UUID       `json:"payment_link_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx), now: s.now}
}

// Append inserts a PENDING entry with a zero retry count.
func (s *service) Append(ctx context.Context, input AppendInput) (*models.PaymentHistory, error) {
	if input.PaymentLinkID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment link id is required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	now := s.now().UTC()
	entry := &models.PaymentHistory{
		ID:            uuid.New(),
		PaymentLinkID: input.PaymentLinkID,
		CustomerID:    input.CustomerID,
		Amount:        input.Amount,
		Status:        enums.PaymentHistoryStatusPending,
		RetryCount:    0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append payment history")
	}
	return entry, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.PaymentHistory, error) {
	return s.find(ctx, id, false)
}

// FindForUpdate loads the entry holding its row lock until the surrounding transaction ends.
func (s *service) FindForUpdate(ctx context.Context, id uuid.UUID) (*models.PaymentHistory, error) {
	return s.find(ctx, id, true)
}

func (s *service) FindByPaymentLinkForUpdate(ctx context.Context, linkID uuid.UUID) (*models.PaymentHistory, error) {
	entry, err := s.repo.FindByPaymentLinkID(ctx, linkID, true)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return entry, nil
}

// Update persists a mutated entry and stamps updated_at.
func (s *service) Update(ctx context.Context, entry *models.PaymentHistory) error {
	if entry == nil || entry.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment history entry is required")
	}
	if !entry.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment history status %q", entry.Status))
	}
	if entry.RetryCount > models.MaxPaymentRetries {
		return pkgerrors.New(pkgerrors.CodeRetryExhausted, "retry count above limit")
	}
	entry.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment history")
	}
	return nil
}

// ListByCustomer returns the customer's entries oldest first; never nil.
func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.PaymentHistory, error) {
	if customerID == uuid.Nil {
		return []models.PaymentHistory{}, nil
	}
	entries, err := s.repo.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list payment history")
	}
	if entries == nil {
		entries = []models.PaymentHistory{}
	}
	return entries, nil
}

func (s *service) find(ctx context.Context, id uuid.UUID, lock bool) (*models.PaymentHistory, error) {
	entry, err := s.repo.FindByID(ctx, id, lock)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return entry, nil
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "payment history not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment history")
}
