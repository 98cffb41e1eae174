package payments

import (
	"context"
	"errors"

	"github.com/angelmondragon/farmsip-backend/pkg/razorpay"
)

type razorpayLinkCreator interface {
	CreatePaymentLink(ctx context.Context, req razorpay.CreateLinkRequest) (*razorpay.PaymentLink, error)
}

// RazorpayGateway adapts the Razorpay client to Gateway.
type RazorpayGateway struct {
	client razorpayLinkCreator
}

// NewRazorpayGateway wraps a Razorpay client.
func NewRazorpayGateway(client razorpayLinkCreator) (*RazorpayGateway, error) {
	if client == nil {
		return nil, errors.New("razorpay client required")
	}
	return &RazorpayGateway{client: client}, nil
}

func (g *RazorpayGateway) CreatePaymentLink(ctx context.Context, req GatewayLinkRequest) (*GatewayLink, error) {
	link, err := g.client.CreatePaymentLink(ctx, razorpay.CreateLinkRequest{
		Amount:      req.AmountMinor,
		Currency:    req.Currency,
		Description: req.Description,
		ReferenceID: req.ReferenceID,
		ExpireBy:    req.ExpiresAt.Unix(),
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &GatewayLink{ID: link.ID, URL: link.ShortURL}, nil
}
