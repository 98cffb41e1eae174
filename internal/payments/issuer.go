package payments

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/farmsip-backend/internal/ledger"
	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/farmsip-backend/pkg/db/types"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// LinkTTL is how long a hosted link stays payable.
	LinkTTL = 7 * 24 * time.Hour

	linkTypeFarmSetup = "farm_setup"
	issueSourceNew    = "new"
	issueSourceRetry  = "retry"
)

var minorUnitsPerMajor = decimal.NewFromInt(100)

// CreatePaymentLinkInput is the internal issuance request. Amount is in major units.
type CreatePaymentLinkInput struct {
	FarmID      *uuid.UUID
	CustomerID  uuid.UUID
	Amount      decimal.Decimal
	Description string
}

// CreatePaymentLink issues a CREATED link and appends its PENDING ledger entry.
func (s *service) CreatePaymentLink(ctx context.Context, input CreatePaymentLinkInput) (*models.PaymentLink, error) {
	var link *models.PaymentLink
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		issued, err := s.issue(ctx, tx, input)
		if err != nil {
			return err
		}
		link = issued
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveIssued(issueSourceNew)
	return link, nil
}

// issue runs inside the caller's transaction so retries can chain issuance with the retry count
// bump atomically.
func (s *service) issue(ctx context.Context, tx *gorm.DB, input CreatePaymentLinkInput) (*models.PaymentLink, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	minor := input.Amount.Mul(minorUnitsPerMajor)
	if !minor.IsInteger() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount has more precision than the currency allows")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}

	now := s.now().UTC()
	link := &models.PaymentLink{
		ID:          uuid.New(),
		AmountMinor: minor.IntPart(),
		Currency:    s.currency,
		Description: description,
		Status:      enums.PaymentLinkStatusCreated,
		ExpiresAt:   now.Add(LinkTTL),
		CustomerID:  input.CustomerID,
		FarmID:      input.FarmID,
		Metadata:    linkMetadata(input),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	hosted, err := s.gateway.CreatePaymentLink(ctx, GatewayLinkRequest{
		ReferenceID: link.ID.String(),
		AmountMinor: link.AmountMinor,
		Currency:    link.Currency,
		Description: link.Description,
		ExpiresAt:   link.ExpiresAt,
		Notes:       link.Metadata,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment gateway unavailable")
	}
	link.URL = hosted.URL
	if hosted.ID != "" {
		ref := hosted.ID
		link.GatewayReference = &ref
	}

	if err := s.repo.WithTx(tx).Create(ctx, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist payment link")
	}
	if _, err := s.ledger.WithTx(tx).Append(ctx, ledger.AppendInput{
		PaymentLinkID: link.ID,
		CustomerID:    link.CustomerID,
		Amount:        input.Amount,
	}); err != nil {
		return nil, err
	}

	logCtx := s.logg.WithPaymentLinkID(s.logg.WithCustomerID(ctx, link.CustomerID.String()), link.ID.String())
	s.logg.Info(s.logg.WithField(logCtx, "amount_minor", link.AmountMinor), "payment link issued")
	return link, nil
}

func linkMetadata(input CreatePaymentLinkInput) dbtypes.StringMap {
	meta := dbtypes.StringMap{
		"customerId": input.CustomerID.String(),
		"type":       linkTypeFarmSetup,
	}
	if input.FarmID != nil {
		meta["farmId"] = input.FarmID.String()
	}
	return meta
}
