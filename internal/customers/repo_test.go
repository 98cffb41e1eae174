package customers

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/farmsip-backend/pkg/db/dbtest"
	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepositoryFindByID(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	customer := &models.Customer{Name: "Asha", Phone: "+919800000001", KYCStatus: enums.KYCStatusVerified}
	require.NoError(t, repo.Create(ctx, customer))
	require.NotEqual(t, uuid.Nil, customer.ID)

	got, err := repo.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	require.Equal(t, enums.KYCStatusVerified, got.KYCStatus)
	require.Equal(t, "+919800000001", got.Phone)

	_, err = repo.FindByID(ctx, uuid.New())
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
