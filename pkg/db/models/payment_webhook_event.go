package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmsip-backend/pkg/enums"
)

// PaymentWebhookEvent is the append-only record of every inbound gateway delivery.
type PaymentWebhookEvent struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	GatewayEventID *string                `gorm:"column:gateway_event_id;index:ix_payment_webhook_events_gateway_event_id"`
	Event          string                 `gorm:"column:event;not null"`
	Kind           enums.WebhookEventKind `gorm:"column:kind;not null"`
	AccountID      string                 `gorm:"column:account_id"`
	PaymentLinkRef *string                `gorm:"column:payment_link_ref;index:ix_payment_webhook_events_link_ref"`
	Payload        json.RawMessage        `gorm:"column:payload;type:jsonb;not null"`
	ReceivedAt     time.Time              `gorm:"column:received_at;not null"`
}
