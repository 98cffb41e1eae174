package farms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/angelmondragon/farmsip-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	plantsPerAcre      = 500
	initialHealthScore = 100
)

var (
	ErrCustomerNotEligible = errors.New("customer not found or KYC not verified")
	ErrFeasibilityTooLow   = errors.New("feasibility score below threshold")
	ErrInvalidArea         = errors.New("invalid area: must be greater than 0 and at most 100 acres")
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service creates and reads farms and owns their status label.
type Service interface {
	CreateFarm(ctx context.Context, input CreateFarmInput) (*models.Farm, error)
	GetFarmByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	UpdateFarmStatus(ctx context.Context, id uuid.UUID, status enums.FarmStatus) (*models.Farm, error)
}

// ServiceParams wires the farm lifecycle service.
type ServiceParams struct {
	Repo   Repository
	Gate   *ValidationGate
	Tx     txRunner
	Logger *logger.Logger
	Now    func() time.Time
}

type service struct {
	repo Repository
	gate *ValidationGate
	tx   txRunner
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the farm lifecycle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("farms repository required")
	}
	if params.Gate == nil {
		return nil, fmt.Errorf("validation gate required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo: params.Repo,
		gate: params.Gate,
		tx:   params.Tx,
		logg: logg,
		now:  now,
	}, nil
}

// CreateFarm validates customer, feasibility and area in that order, then persists the farm and
// its five setup tasks in a single transaction.
func (s *service) CreateFarm(ctx context.Context, input CreateFarmInput) (*models.Farm, error) {
	ok, err := s.gate.ValidateCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrCustomerNotEligible, ErrCustomerNotEligible.Error())
	}
	if !ValidateFeasibility(input.FeasibilityScore) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrFeasibilityTooLow, ErrFeasibilityTooLow.Error())
	}
	if !ValidateArea(input.Area) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidArea, ErrInvalidArea.Error())
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farm name is required")
	}

	now := s.now().UTC()
	farm := &models.Farm{
		ID:          uuid.New(),
		CustomerID:  input.CustomerID,
		Name:        name,
		Coordinates: input.Coordinates,
		AreaAcres:   input.Area,
		PlantCount:  PlantCount(input.Area),
		HealthScore: initialHealthScore,
		Status:      enums.FarmStatusSetup,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateFarm(ctx, farm); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create farm")
		}
		tasks := ScheduleSetupTasks(farm.ID, now)
		if err := repo.CreateTasks(ctx, tasks); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create setup tasks")
		}
		farm.Tasks = tasks
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFarmID(s.logg.WithCustomerID(ctx, farm.CustomerID.String()), farm.ID.String())
	s.logg.Info(s.logg.WithField(logCtx, "plant_count", farm.PlantCount), "farm created")
	return farm, nil
}

// GetFarmByID returns nil, nil when the farm does not exist.
func (s *service) GetFarmByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	farm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load farm")
	}
	return farm, nil
}

// UpdateFarmStatus overwrites the status label. Any known status is accepted from any other.
func (s *service) UpdateFarmStatus(ctx context.Context, id uuid.UUID, status enums.FarmStatus) (*models.Farm, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid farm status %q", status))
	}

	var farm *models.Farm
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		found, err := repo.UpdateStatus(ctx, id, status, s.now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update farm status")
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
		}
		farm, err = repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload farm")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(s.logg.WithFarmID(ctx, id.String()), "status", status), "farm status updated")
	return farm, nil
}

// PlantCount is floor(area*500) computed on the decimal value of area, so 1.9 acres yields 950.
func PlantCount(area float64) int {
	return int(decimal.NewFromFloat(area).Mul(decimal.NewFromInt(plantsPerAcre)).Floor().IntPart())
}
