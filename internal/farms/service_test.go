package farms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/farmsip-backend/pkg/db/dbtest"
	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubTxRunner struct {
	calls int
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

type stubRepo struct {
	createFarmErr  error
	createTasksErr error
	farms          []*models.Farm
	tasks          []models.FarmTask
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) CreateFarm(ctx context.Context, farm *models.Farm) error {
	if s.createFarmErr != nil {
		return s.createFarmErr
	}
	s.farms = append(s.farms, farm)
	return nil
}

func (s *stubRepo) CreateTasks(ctx context.Context, tasks []models.FarmTask) error {
	if s.createTasksErr != nil {
		return s.createTasksErr
	}
	s.tasks = append(s.tasks, tasks...)
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	for _, farm := range s.farms {
		if farm.ID == id {
			return farm, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.FarmStatus, at time.Time) (bool, error) {
	for _, farm := range s.farms {
		if farm.ID == id {
			farm.Status = status
			farm.UpdatedAt = at
			return true, nil
		}
	}
	return false, nil
}

func newStubService(t *testing.T, lookup CustomerLookup, repo Repository, now time.Time) Service {
	t.Helper()
	gate, err := NewValidationGate(lookup)
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		Repo: repo,
		Gate: gate,
		Tx:   &stubTxRunner{},
		Now:  func() time.Time { return now },
	})
	require.NoError(t, err)
	return svc
}

func validInput(customerID uuid.UUID) CreateFarmInput {
	return CreateFarmInput{
		CustomerID:       customerID,
		Name:             "North plot",
		Coordinates:      models.Coordinates{Latitude: 18.52, Longitude: 73.85},
		Area:             1.5,
		FeasibilityScore: 0.85,
	}
}

func TestCreateFarmValidationOrder(t *testing.T) {
	verified := &models.Customer{ID: uuid.New(), KYCStatus: enums.KYCStatusVerified}
	pending := &models.Customer{ID: uuid.New(), KYCStatus: enums.KYCStatusPending}

	cases := []struct {
		name  string
		input CreateFarmInput
		want  error
	}{
		{
			name:  "unverified customer wins over bad score and area",
			input: CreateFarmInput{CustomerID: pending.ID, Name: "x", Area: 0, FeasibilityScore: 0.1},
			want:  ErrCustomerNotEligible,
		},
		{
			name:  "unknown customer",
			input: CreateFarmInput{CustomerID: uuid.New(), Name: "x", Area: 5, FeasibilityScore: 0.9},
			want:  ErrCustomerNotEligible,
		},
		{
			name:  "feasibility wins over area",
			input: CreateFarmInput{CustomerID: verified.ID, Name: "x", Area: 101, FeasibilityScore: 0.69999},
			want:  ErrFeasibilityTooLow,
		},
		{
			name:  "zero area",
			input: CreateFarmInput{CustomerID: verified.ID, Name: "x", Area: 0, FeasibilityScore: 0.7},
			want:  ErrInvalidArea,
		},
		{
			name:  "negative area",
			input: CreateFarmInput{CustomerID: verified.ID, Name: "x", Area: -1, FeasibilityScore: 0.7},
			want:  ErrInvalidArea,
		},
		{
			name:  "area above limit",
			input: CreateFarmInput{CustomerID: verified.ID, Name: "x", Area: 101, FeasibilityScore: 0.7},
			want:  ErrInvalidArea,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubRepo{}
			svc := newStubService(t, newLookup(verified, pending), repo, time.Now())

			farm, err := svc.CreateFarm(context.Background(), tc.input)
			require.Nil(t, farm)
			require.ErrorIs(t, err, tc.want)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
			assert.Empty(t, repo.farms, "nothing may be persisted on validation failure")
		})
	}
}

func TestCreateFarmSkipsLaterChecksOnCustomerFailure(t *testing.T) {
	lookup := newLookup()
	svc := newStubService(t, lookup, &stubRepo{}, time.Now())

	_, err := svc.CreateFarm(context.Background(), validInput(uuid.New()))
	require.ErrorIs(t, err, ErrCustomerNotEligible)
	assert.Equal(t, 1, lookup.calls)
}

func TestCreateFarmBuildsFarm(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), KYCStatus: enums.KYCStatusVerified}
	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	repo := &stubRepo{}
	svc := newStubService(t, newLookup(customer), repo, now)

	farm, err := svc.CreateFarm(context.Background(), validInput(customer.ID))
	require.NoError(t, err)
	assert.Equal(t, 750, farm.PlantCount)
	assert.Equal(t, 100, farm.HealthScore)
	assert.Equal(t, enums.FarmStatusSetup, farm.Status)
	assert.Equal(t, now, farm.CreatedAt)
	require.Len(t, farm.Tasks, SetupTaskCount)
	require.Len(t, repo.tasks, SetupTaskCount)
	for _, task := range farm.Tasks {
		assert.Equal(t, farm.ID, task.FarmID)
		assert.True(t, task.ScheduledDate.After(farm.CreatedAt))
	}
}

func TestCreateFarmRequiresName(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), KYCStatus: enums.KYCStatusVerified}
	svc := newStubService(t, newLookup(customer), &stubRepo{}, time.Now())

	input := validInput(customer.ID)
	input.Name = "   "
	_, err := svc.CreateFarm(context.Background(), input)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateFarmPropagatesTaskFailure(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), KYCStatus: enums.KYCStatusVerified}
	svc := newStubService(t, newLookup(customer), &stubRepo{createTasksErr: errors.New("disk full")}, time.Now())

	farm, err := svc.CreateFarm(context.Background(), validInput(customer.ID))
	require.Nil(t, farm)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

func TestPlantCount(t *testing.T) {
	cases := map[float64]int{
		1.5:   750,
		1.9:   950,
		0.1:   50,
		100:   50000,
		2.333: 1166,
		0.001: 0,
	}
	for area, want := range cases {
		if got := PlantCount(area); got != want {
			t.Fatalf("PlantCount(%v) = %d, want %d", area, got, want)
		}
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	gate, _ := NewValidationGate(newLookup())
	_, err := NewService(ServiceParams{Gate: gate, Tx: &stubTxRunner{}})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Repo: &stubRepo{}, Tx: &stubTxRunner{}})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Repo: &stubRepo{}, Gate: gate})
	require.Error(t, err)
}

type failingTaskRepo struct {
	Repository
}

func (f failingTaskRepo) WithTx(tx *gorm.DB) Repository {
	return failingTaskRepo{Repository: f.Repository.WithTx(tx)}
}

func (f failingTaskRepo) CreateTasks(ctx context.Context, tasks []models.FarmTask) error {
	return errors.New("tasks insert failed")
}

func seedCustomer(t *testing.T, conn *gorm.DB, status enums.KYCStatus) *models.Customer {
	t.Helper()
	customer := &models.Customer{ID: uuid.New(), Name: "Ravi", Phone: uuid.NewString(), KYCStatus: status}
	require.NoError(t, conn.Create(customer).Error)
	return customer
}

type dbCustomerLookup struct {
	conn *gorm.DB
}

func (d dbCustomerLookup) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := d.conn.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func TestServiceWithSQLite(t *testing.T) {
	client := dbtest.Open(t)
	ctx := context.Background()
	customer := seedCustomer(t, client.DB(), enums.KYCStatusVerified)

	gate, err := NewValidationGate(dbCustomerLookup{conn: client.DB()})
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{Repo: NewRepository(client.DB()), Gate: gate, Tx: client})
	require.NoError(t, err)

	farm, err := svc.CreateFarm(ctx, validInput(customer.ID))
	require.NoError(t, err)

	loaded, err := svc.GetFarmByID(ctx, farm.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Tasks, SetupTaskCount)
	assert.Equal(t, enums.TaskTypeSoilPreparation, loaded.Tasks[0].Type)
	assert.Equal(t, enums.TaskTypeInitialCare, loaded.Tasks[4].Type)
	assert.Equal(t, 750, loaded.PlantCount)
	assert.InDelta(t, 18.52, loaded.Coordinates.Latitude, 1e-9)

	missing, err := svc.GetFarmByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	updated, err := svc.UpdateFarmStatus(ctx, farm.ID, enums.FarmStatusProducing)
	require.NoError(t, err)
	assert.Equal(t, enums.FarmStatusProducing, updated.Status)
	require.Len(t, updated.Tasks, SetupTaskCount)

	_, err = svc.UpdateFarmStatus(ctx, uuid.New(), enums.FarmStatusGrowing)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.UpdateFarmStatus(ctx, farm.ID, enums.FarmStatus("HARVESTED"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateFarmIsAtomic(t *testing.T) {
	client := dbtest.Open(t)
	ctx := context.Background()
	customer := seedCustomer(t, client.DB(), enums.KYCStatusVerified)

	gate, err := NewValidationGate(dbCustomerLookup{conn: client.DB()})
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		Repo: failingTaskRepo{Repository: NewRepository(client.DB())},
		Gate: gate,
		Tx:   client,
	})
	require.NoError(t, err)

	_, err = svc.CreateFarm(ctx, validInput(customer.ID))
	require.Error(t, err)

	var farms int64
	require.NoError(t, client.DB().Model(&models.Farm{}).Count(&farms).Error)
	assert.Zero(t, farms, "farm must roll back with its tasks")
}
