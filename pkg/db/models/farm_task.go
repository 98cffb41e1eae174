package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmsip-backend/pkg/enums"
)

// FarmTask is one of the five setup activities scheduled when a farm is created.
type FarmTask struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FarmID        uuid.UUID          `gorm:"column:farm_id;type:uuid;not null;index:ix_farm_tasks_farm_id;uniqueIndex:ux_farm_tasks_farm_type,priority:1" json:"farmId"`
	Type          enums.TaskType     `gorm:"column:type;type:task_type;not null;uniqueIndex:ux_farm_tasks_farm_type,priority:2" json:"type"`
	Status        enums.TaskStatus   `gorm:"column:status;type:task_status;not null" json:"status"`
	Priority      enums.TaskPriority `gorm:"column:priority;type:task_priority;not null" json:"priority"`
	ScheduledDate time.Time          `gorm:"column:scheduled_date;not null" json:"scheduledDate"`
	CompletedDate *time.Time         `gorm:"column:completed_date" json:"completedDate,omitempty"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
