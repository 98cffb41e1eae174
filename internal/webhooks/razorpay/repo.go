package razorpaywebhook

import (
	"context"
	"time"

	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventRepository appends to the inbound webhook log.
type EventRepository interface {
	Create(ctx context.Context, event *models.PaymentWebhookEvent) error
	ListByLinkRef(ctx context.Context, ref string) ([]models.PaymentWebhookEvent, error)
	DeleteReceivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.PaymentWebhookEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) ListByLinkRef(ctx context.Context, ref string) ([]models.PaymentWebhookEvent, error) {
	var events []models.PaymentWebhookEvent
	err := r.db.WithContext(ctx).
		Where("payment_link_ref = ?", ref).
		Order("received_at ASC").
		Find(&events).Error
	return events, err
}

// DeleteReceivedBefore purges deliveries older than the cutoff and returns how many went.
func (r *eventRepository) DeleteReceivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("received_at < ?", cutoff).
		Delete(&models.PaymentWebhookEvent{})
	return res.RowsAffected, res.Error
}
