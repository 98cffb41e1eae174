package farms

import (
	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CreateFarmInput carries everything CreateFarm needs.
type CreateFarmInput struct {
	CustomerID       uuid.UUID
	Name             string
	Coordinates      models.Coordinates
	Area             float64
	FeasibilityScore float64
}
