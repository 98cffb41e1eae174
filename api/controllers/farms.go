package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmsip-backend/api/responses"
	"github.com/angelmondragon/farmsip-backend/api/validators"
	"github.com/angelmondragon/farmsip-backend/internal/farms"
	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/angelmondragon/farmsip-backend/pkg/logger"
)

const maxFarmNameLength = 120

type coordinatesRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type farmCreateRequest struct {
	CustomerID       string             `json:"customerId" validate:"required,uuid"`
	Name             string             `json:"name" validate:"required"`
	Coordinates      coordinatesRequest `json:"coordinates"`
	Area             *float64           `json:"area" validate:"required"`
	FeasibilityScore *float64           `json:"feasibilityScore" validate:"required"`
}

func (r farmCreateRequest) toInput() (farms.CreateFarmInput, error) {
	customerID, err := uuid.Parse(strings.TrimSpace(r.CustomerID))
	if err != nil {
		return farms.CreateFarmInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customerId")
	}
	return farms.CreateFarmInput{
		CustomerID: customerID,
		Name:       validators.SanitizeString(r.Name, maxFarmNameLength),
		Coordinates: models.Coordinates{
			Latitude:  r.Coordinates.Latitude,
			Longitude: r.Coordinates.Longitude,
		},
		Area:             *r.Area,
		FeasibilityScore: *r.FeasibilityScore,
	}, nil
}

type farmStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// FarmCreate validates eligibility and creates a farm with its setup schedule.
func FarmCreate(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farm service unavailable"))
			return
		}

		var req farmCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farm, err := svc.CreateFarm(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, farm)
	}
}

// FarmDetail returns a farm with its tasks.
func FarmDetail(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farm service unavailable"))
			return
		}

		farmID, err := validators.ParseUUIDParam(r, "farmId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farm, err := svc.GetFarmByID(r.Context(), farmID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if farm == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found"))
			return
		}
		responses.WriteSuccess(w, farm)
	}
}

// FarmUpdateStatus sets a farm's lifecycle status.
func FarmUpdateStatus(svc farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farm service unavailable"))
			return
		}

		farmID, err := validators.ParseUUIDParam(r, "farmId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req farmStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseFarmStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid farm status"))
			return
		}

		farm, err := svc.UpdateFarmStatus(r.Context(), farmID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farm)
	}
}
