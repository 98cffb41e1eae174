package farms

import (
	"context"
	"time"

	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists farms and their setup tasks.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateFarm(ctx context.Context, farm *models.Farm) error
	CreateTasks(ctx context.Context, tasks []models.FarmTask) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.FarmStatus, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a farms repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateFarm(ctx context.Context, farm *models.Farm) error {
	return r.db.WithContext(ctx).Omit("Tasks").Create(farm).Error
}

func (r *repository) CreateTasks(ctx context.Context, tasks []models.FarmTask) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}

// FindByID loads the farm with its tasks in schedule order.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("scheduled_date ASC")
		}).
		First(&farm, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &farm, nil
}

// UpdateStatus overwrites the status label and reports whether the farm exists.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.FarmStatus, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Farm{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
