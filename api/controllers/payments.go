package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmsip-backend/api/responses"
	"github.com/angelmondragon/farmsip-backend/api/validators"
	"github.com/angelmondragon/farmsip-backend/internal/payments"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/angelmondragon/farmsip-backend/pkg/logger"
)

type paymentLinkCreateRequest struct {
	FarmID      *string          `json:"farmId" validate:"omitempty,uuid"`
	CustomerID  string           `json:"customerId" validate:"required,uuid"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Description string           `json:"description" validate:"required"`
}

func (r paymentLinkCreateRequest) toInput() (payments.CreatePaymentLinkInput, error) {
	customerID, err := uuid.Parse(strings.TrimSpace(r.CustomerID))
	if err != nil {
		return payments.CreatePaymentLinkInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customerId")
	}
	input := payments.CreatePaymentLinkInput{
		CustomerID:  customerID,
		Amount:      *r.Amount,
		Description: strings.TrimSpace(r.Description),
	}
	if r.FarmID != nil {
		farmID, err := uuid.Parse(strings.TrimSpace(*r.FarmID))
		if err != nil {
			return payments.CreatePaymentLinkInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid farmId")
		}
		input.FarmID = &farmID
	}
	return input, nil
}

type refundRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// PaymentLinkCreate issues a hosted payment link and its ledger entry.
func PaymentLinkCreate(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		var req paymentLinkCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.CreatePaymentLink(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

// PaymentHistoryList returns a customer's ledger entries, oldest first.
func PaymentHistoryList(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		customerID, err := validators.ParseUUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.GetPaymentHistory(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// PaymentRetry issues a fresh link for a failed ledger entry.
func PaymentRetry(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		paymentID, err := validators.ParseUUIDParam(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.RetryFailedPayment(r.Context(), paymentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

// PaymentRefund marks a successful ledger entry refunded. The body is optional; without an
// amount the full payment is refunded.
func PaymentRefund(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		paymentID, err := validators.ParseUUIDParam(r, "paymentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req refundRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		if err := svc.RefundPayment(r.Context(), paymentID, req.Amount); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": paymentID, "status": "REFUNDED"})
	}
}
