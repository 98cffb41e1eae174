package razorpaywebhook

import (
	"encoding/json"
	"testing"

	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNestedPaymentLinkPaid(t *testing.T) {
	body := []byte(`{
		"event": "payment_link.paid",
		"account_id": "acc_123",
		"created_at": 1767225600,
		"payload": {
			"payment_link": {"entity": {"id": "plink_1", "reference_id": "", "status": "paid", "amount": 2000000}},
			"payment": {"entity": {"id": "pay_9", "method": "upi", "amount": 2000000, "currency": "INR"}}
		}
	}`)

	env := Decode(body)

	assert.Equal(t, "payment_link.paid", env.Name)
	assert.Equal(t, "acc_123", env.AccountID)
	assert.Equal(t, int64(1767225600), env.CreatedAt)
	paid, ok := env.Event.(EventPaymentLinkPaid)
	require.True(t, ok)
	assert.Equal(t, "plink_1", paid.Ref)
	assert.Equal(t, "pay_9", paid.PaymentID)
	assert.Equal(t, "upi", paid.Method)
	assert.JSONEq(t, string(body), string(env.Payload))
}

func TestDecodePrefersReferenceID(t *testing.T) {
	env := Decode([]byte(`{"event":"payment_link.expired","payload":{"payment_link":{"entity":{"id":"plink_1","reference_id":"7b0c3f7e-2f41-4a39-9a52-4bb8a1f0c0de"}}}}`))

	expired, ok := env.Event.(EventPaymentLinkExpired)
	require.True(t, ok)
	assert.Equal(t, "7b0c3f7e-2f41-4a39-9a52-4bb8a1f0c0de", expired.Ref)
}

func TestDecodeFlatEntity(t *testing.T) {
	env := Decode([]byte(`{"event":"payment.failed","entity":{"id":"pay_1","payment_link_id":"plink_4","method":"card","error_description":"card declined"}}`))

	failed, ok := env.Event.(EventPaymentFailed)
	require.True(t, ok)
	assert.Equal(t, "plink_4", failed.Ref)
	assert.Equal(t, "card declined", failed.Reason)
	assert.Equal(t, enums.WebhookEventPaymentFailed, failed.Kind())
}

func TestDecodeCapturedWithoutLink(t *testing.T) {
	env := Decode([]byte(`{"event":"payment.captured","entity":{"id":"pay_1","order_id":"order_1"}}`))

	captured, ok := env.Event.(EventPaymentCaptured)
	require.True(t, ok)
	assert.Empty(t, captured.LinkRef())
}

func TestDecodeUnrecognizedAndMalformed(t *testing.T) {
	env := Decode([]byte(`{"event":"refund.processed","entity":{"id":"rfnd_1"}}`))
	unknown, ok := env.Event.(EventUnrecognized)
	require.True(t, ok)
	assert.Equal(t, "refund.processed", unknown.Name)

	env = Decode([]byte(`not json`))
	assert.Equal(t, enums.WebhookEventUnrecognized, env.Event.Kind())
	var raw string
	require.NoError(t, json.Unmarshal(env.Payload, &raw))
	assert.Equal(t, "not json", raw)
}
