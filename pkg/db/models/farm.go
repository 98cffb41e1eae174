package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmsip-backend/pkg/enums"
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `gorm:"column:latitude;not null" json:"latitude"`
	Longitude float64 `gorm:"column:longitude;not null" json:"longitude"`
}

// Farm is a customer's plot. PlantCount is always floor(AreaAcres*500); farms are never deleted.
type Farm struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerID  uuid.UUID        `gorm:"column:customer_id;type:uuid;not null;index:ix_farms_customer_id" json:"customerId"`
	Name        string           `gorm:"column:name;not null" json:"name"`
	Coordinates Coordinates      `gorm:"embedded" json:"coordinates"`
	AreaAcres   float64          `gorm:"column:area_acres;not null" json:"area"`
	PlantCount  int              `gorm:"column:plant_count;not null" json:"plantCount"`
	HealthScore int              `gorm:"column:health_score;not null;default:100" json:"healthScore"`
	Status      enums.FarmStatus `gorm:"column:status;type:farm_status;not null" json:"status"`
	Tasks       []FarmTask       `gorm:"foreignKey:FarmID" json:"tasks"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
