package razorpay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestClientCreatePaymentLinkRequest(t *testing.T) {
	const expectedURL = "http://rzp.test/v1/payment_links"

	var captured *http.Request
	var payload map[string]any
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"id":"plink_Abc","short_url":"https://rzp.io/i/xyz","status":"created","amount":2000000,"currency":"INR"}`), nil
	})

	client, err := NewClient("rzp_test_key", "secret",
		WithBaseURL("http://rzp.test/v1"),
		WithHTTPClient(&http.Client{Transport: rt}),
		WithCallbackURL("https://farmsip.example/paid"),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	link, err := client.CreatePaymentLink(context.Background(), CreateLinkRequest{
		Amount:      2000000,
		Currency:    "INR",
		Description: "Farm setup",
		ReferenceID: "0b7c",
		ExpireBy:    1767225600,
		Notes:       map[string]string{"type": "farm_setup"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if captured.URL.String() != expectedURL || captured.Method != http.MethodPost {
		t.Fatalf("unexpected request %s %s", captured.Method, captured.URL)
	}
	user, pass, ok := captured.BasicAuth()
	if !ok || user != "rzp_test_key" || pass != "secret" {
		t.Fatalf("expected basic auth with key pair")
	}
	if payload["amount"].(float64) != 2000000 || payload["reference_id"] != "0b7c" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if payload["callback_url"] != "https://farmsip.example/paid" || payload["callback_method"] != "get" {
		t.Fatalf("expected default callback, got %v", payload)
	}
	if link.ID != "plink_Abc" || link.ShortURL != "https://rzp.io/i/xyz" {
		t.Fatalf("unexpected link %+v", link)
	}
}

func TestClientCreatePaymentLinkErrors(t *testing.T) {
	cases := []struct {
		name string
		resp *http.Response
		want string
	}{
		{
			name: "api error",
			resp: jsonResponse(http.StatusBadRequest, `{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too low"}}`),
			want: "amount too low",
		},
		{
			name: "missing url",
			resp: jsonResponse(http.StatusOK, `{"id":"plink_1"}`),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rt := roundTripFunc(func(req *http.Request) (*http.Response, error) { return tc.resp, nil })
			client, _ := NewClient("k", "s", WithHTTPClient(&http.Client{Transport: rt}))

			_, err := client.CreatePaymentLink(context.Background(), CreateLinkRequest{Amount: 100, Currency: "INR"})
			if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
				t.Fatalf("expected dependency error, got %v", err)
			}
			if tc.want != "" && !strings.Contains(errors.Unwrap(err).Error(), tc.want) {
				t.Fatalf("expected cause to mention %q, got %v", tc.want, errors.Unwrap(err))
			}
		})
	}
}

func TestNewClientRequiresKeys(t *testing.T) {
	if _, err := NewClient("", "s"); err == nil {
		t.Fatal("expected key id error")
	}
	if _, err := NewClient("k", " "); err == nil {
		t.Fatal("expected key secret error")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment_link.paid"}`)
	sig := Sign(body, "whsec")

	if !VerifyWebhookSignature(body, sig, "whsec") {
		t.Fatal("expected valid signature")
	}
	if !VerifyWebhookSignature(body, strings.ToUpper(sig), "whsec") {
		t.Fatal("hex case should not matter")
	}
	if VerifyWebhookSignature(body, sig, "other") {
		t.Fatal("wrong secret must fail")
	}
	if VerifyWebhookSignature([]byte(`{"event":"payment_link.expired"}`), sig, "whsec") {
		t.Fatal("tampered body must fail")
	}
	if VerifyWebhookSignature(body, "", "whsec") || VerifyWebhookSignature(body, sig, "") {
		t.Fatal("empty signature or secret must fail")
	}
}
