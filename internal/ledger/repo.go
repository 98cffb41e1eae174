package ledger

import (
	"context"

	"github.com/angelmondragon/farmsip-backend/pkg/db"
	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for payment history entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.PaymentHistory) error
	Save(ctx context.Context, entry *models.PaymentHistory) error
	FindByID(ctx context.Context, id uuid.UUID, lock bool) (*models.PaymentHistory, error)
	FindByPaymentLinkID(ctx context.Context, linkID uuid.UUID, lock bool) (*models.PaymentHistory, error)
	ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]models.PaymentHistory, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.PaymentHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) Save(ctx context.Context, entry *models.PaymentHistory) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID, lock bool) (*models.PaymentHistory, error) {
	var entry models.PaymentHistory
	if err := r.query(ctx, lock).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) FindByPaymentLinkID(ctx context.Context, linkID uuid.UUID, lock bool) (*models.PaymentHistory, error) {
	var entry models.PaymentHistory
	if err := r.query(ctx, lock).First(&entry, "payment_link_id = ?", linkID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListByCustomerID(ctx context.Context, customerID uuid.UUID) ([]models.PaymentHistory, error) {
	var entries []models.PaymentHistory
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) query(ctx context.Context, lock bool) *gorm.DB {
	q := r.db.WithContext(ctx)
	if lock {
		q = db.ForUpdate(q)
	}
	return q
}
