package payments

import (
	"context"
	"time"

	"github.com/angelmondragon/farmsip-backend/pkg/db"
	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists payment links.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, link *models.PaymentLink) error
	Save(ctx context.Context, link *models.PaymentLink) error
	FindByID(ctx context.Context, id uuid.UUID, lock bool) (*models.PaymentLink, error)
	FindByGatewayReference(ctx context.Context, ref string) (*models.PaymentLink, error)
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]models.PaymentLink, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a payment link repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, link *models.PaymentLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *repository) Save(ctx context.Context, link *models.PaymentLink) error {
	return r.db.WithContext(ctx).Save(link).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID, lock bool) (*models.PaymentLink, error) {
	q := r.db.WithContext(ctx)
	if lock {
		q = db.ForUpdate(q)
	}
	var link models.PaymentLink
	if err := q.First(&link, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *repository) FindByGatewayReference(ctx context.Context, ref string) (*models.PaymentLink, error) {
	var link models.PaymentLink
	if err := r.db.WithContext(ctx).First(&link, "gateway_reference = ?", ref).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ListOverdue returns open links whose expiry has passed, oldest expiry first.
func (r *repository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]models.PaymentLink, error) {
	var links []models.PaymentLink
	q := r.db.WithContext(ctx).
		Where("status IN ?", enums.OpenPaymentLinkStatuses).
		Where("expires_at <= ?", now).
		Order("expires_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
