package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	razorpaywebhook "github.com/angelmondragon/farmsip-backend/internal/webhooks/razorpay"
	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
	"github.com/angelmondragon/farmsip-backend/pkg/razorpay"
)

const testSecret = "whsec_farmsip"

type fakeRazorpayWebhookService struct {
	calls      int
	deliveries []razorpaywebhook.Delivery
	outcome    razorpaywebhook.Outcome
	err        error
}

func (f *fakeRazorpayWebhookService) HandleWebhook(ctx context.Context, delivery razorpaywebhook.Delivery) (razorpaywebhook.Outcome, error) {
	f.calls++
	f.deliveries = append(f.deliveries, delivery)
	return f.outcome, f.err
}

var paidPayload = []byte(`{"event":"payment_link.paid","payload":{"payment_link":{"entity":{"id":"plink_1"}}}}`)

func signedRequest(body []byte, secret string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/razorpay", bytes.NewReader(body))
	req.Header.Set(razorpay.SignatureHeader, razorpay.Sign(body, secret))
	req.Header.Set(razorpay.EventIDHeader, "evt_123")
	return req
}

func TestRazorpayWebhook_ValidSignature(t *testing.T) {
	svc := &fakeRazorpayWebhookService{outcome: razorpaywebhook.OutcomeTransitioned}
	rec := httptest.NewRecorder()

	RazorpayWebhook(svc, testSecret, nil).ServeHTTP(rec, signedRequest(paidPayload, testSecret))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.calls != 1 {
		t.Fatalf("expected service called once, got %d", svc.calls)
	}
	if svc.deliveries[0].EventID != "evt_123" {
		t.Fatalf("expected event id forwarded, got %q", svc.deliveries[0].EventID)
	}
	if !bytes.Equal(svc.deliveries[0].Body, paidPayload) {
		t.Fatalf("expected raw body forwarded")
	}
	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data["outcome"] != string(razorpaywebhook.OutcomeTransitioned) {
		t.Fatalf("unexpected outcome %v", body.Data)
	}
}

func TestRazorpayWebhook_InvalidSignature(t *testing.T) {
	svc := &fakeRazorpayWebhookService{}
	rec := httptest.NewRecorder()

	RazorpayWebhook(svc, testSecret, nil).ServeHTTP(rec, signedRequest(paidPayload, "wrong-secret"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not run for forged deliveries")
	}
}

func TestRazorpayWebhook_MissingSignature(t *testing.T) {
	svc := &fakeRazorpayWebhookService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/razorpay", bytes.NewReader(paidPayload))
	rec := httptest.NewRecorder()

	RazorpayWebhook(svc, testSecret, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRazorpayWebhook_NoSecretSkipsVerification(t *testing.T) {
	svc := &fakeRazorpayWebhookService{outcome: razorpaywebhook.OutcomeIgnored}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/razorpay", bytes.NewReader([]byte(`garbage`)))
	rec := httptest.NewRecorder()

	RazorpayWebhook(svc, "", nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for ignored delivery, got %d", rec.Code)
	}
}

func TestRazorpayWebhook_InfrastructureFailureIsRetryable(t *testing.T) {
	svc := &fakeRazorpayWebhookService{err: pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("db down"), "record webhook event")}
	rec := httptest.NewRecorder()

	RazorpayWebhook(svc, testSecret, nil).ServeHTTP(rec, signedRequest(paidPayload, testSecret))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 so the gateway redelivers, got %d", rec.Code)
	}
}
