package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/angelmondragon/farmsip-backend/api/responses"
	razorpaywebhook "github.com/angelmondragon/farmsip-backend/internal/webhooks/razorpay"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/angelmondragon/farmsip-backend/pkg/logger"
	"github.com/angelmondragon/farmsip-backend/pkg/razorpay"
)

const maxWebhookBodyBytes = 1 << 20

type RazorpayWebhookService interface {
	HandleWebhook(ctx context.Context, delivery razorpaywebhook.Delivery) (razorpaywebhook.Outcome, error)
}

// RazorpayWebhook verifies and hands gateway deliveries to the processor. Ignored, unknown and
// replayed events are acknowledged with 200 so the gateway stops redelivering; only
// infrastructure failures surface as 5xx. An empty secret disables signature checks.
func RazorpayWebhook(svc RazorpayWebhookService, secret string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
			return
		}

		if secret != "" {
			signature := r.Header.Get(razorpay.SignatureHeader)
			if signature == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "razorpay signature missing"))
				return
			}
			if !razorpay.VerifyWebhookSignature(payload, signature, secret) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "razorpay signature invalid"))
				return
			}
		}

		eventID := r.Header.Get(razorpay.EventIDHeader)
		if logg != nil && eventID != "" {
			ctx = logg.WithField(ctx, "gateway_event_id", eventID)
		}

		outcome, err := svc.HandleWebhook(ctx, razorpaywebhook.Delivery{Body: payload, EventID: eventID})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithField(ctx, "outcome", string(outcome)), "razorpay webhook handled")
		}
		responses.WriteSuccess(w, map[string]string{"outcome": string(outcome)})
	}
}
