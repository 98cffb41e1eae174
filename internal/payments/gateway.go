package payments

import (
	"context"
	"time"

	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
)

// GatewayLinkRequest is what the hosted-link provider needs to mint a payable URL.
type GatewayLinkRequest struct {
	ReferenceID string
	AmountMinor int64
	Currency    string
	Description string
	ExpiresAt   time.Time
	Notes       map[string]string
}

// GatewayLink is the provider's answer: its own id and the URL to hand to the customer.
type GatewayLink struct {
	ID  string
	URL string
}

// Gateway issues hosted payment links.
type Gateway interface {
	CreatePaymentLink(ctx context.Context, req GatewayLinkRequest) (*GatewayLink, error)
}

// OutcomeNotifier is told about every link that just reached a terminal status.
type OutcomeNotifier interface {
	OnPaymentSucceeded(ctx context.Context, link *models.PaymentLink)
	OnPaymentClosed(ctx context.Context, link *models.PaymentLink)
}
