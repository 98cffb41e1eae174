package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmsip-backend/pkg/enums"
)

// Customer is owned by onboarding; this service only reads it.
type Customer struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	Phone     string          `gorm:"column:phone;not null;uniqueIndex:ux_customers_phone" json:"phone"`
	KYCStatus enums.KYCStatus `gorm:"column:kyc_status;type:kyc_status;not null" json:"kycStatus"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
