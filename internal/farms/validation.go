package farms

import (
	"context"
	"errors"

	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// MinFeasibilityScore is inclusive.
	MinFeasibilityScore = 0.7
	// MaxAreaAcres is inclusive; the lower bound (0) is exclusive.
	MaxAreaAcres = 100.0
)

// CustomerLookup resolves customers owned by onboarding.
type CustomerLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

// ValidationGate checks whether a farm may be created for a customer.
type ValidationGate struct {
	customers CustomerLookup
}

// NewValidationGate builds a gate over the customer lookup.
func NewValidationGate(customers CustomerLookup) (*ValidationGate, error) {
	if customers == nil {
		return nil, errors.New("customer lookup required")
	}
	return &ValidationGate{customers: customers}, nil
}

// ValidateCustomer is true iff the customer exists and has completed KYC. Lookup failures other
// than absence are returned as dependency errors.
func (g *ValidationGate) ValidateCustomer(ctx context.Context, customerID uuid.UUID) (bool, error) {
	if customerID == uuid.Nil {
		return false, nil
	}
	customer, err := g.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "customer lookup failed")
	}
	return customer != nil && customer.KYCStatus == enums.KYCStatusVerified, nil
}

// ValidateFeasibility reports whether the site score clears the threshold.
func ValidateFeasibility(score float64) bool {
	return score >= MinFeasibilityScore
}

// ValidateArea reports whether 0 < area <= 100.
func ValidateArea(area float64) bool {
	return area > 0 && area <= MaxAreaAcres
}
