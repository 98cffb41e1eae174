package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/angelmondragon/farmsip-backend/pkg/db/types"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
)

// PaymentLink is one issuance attempt. Retries create new links; a link is never re-issued.
type PaymentLink struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	GatewayReference *string                 `gorm:"column:gateway_reference;uniqueIndex:ux_payment_links_gateway_reference" json:"gatewayReference,omitempty"`
	AmountMinor      int64                   `gorm:"column:amount_minor;not null" json:"amount"`
	Currency         string                  `gorm:"column:currency;not null" json:"currency"`
	Description      string                  `gorm:"column:description;not null" json:"description"`
	URL              string                  `gorm:"column:url;not null" json:"paymentUrl"`
	Status           enums.PaymentLinkStatus `gorm:"column:status;type:payment_link_status;not null;index:ix_payment_links_status_expires_at,priority:1" json:"status"`
	ExpiresAt        time.Time               `gorm:"column:expires_at;not null;index:ix_payment_links_status_expires_at,priority:2" json:"expiresAt"`
	CustomerID       uuid.UUID               `gorm:"column:customer_id;type:uuid;not null;index:ix_payment_links_customer_id" json:"customerId"`
	FarmID           *uuid.UUID              `gorm:"column:farm_id;type:uuid" json:"farmId,omitempty"`
	Metadata         dbtypes.StringMap       `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
