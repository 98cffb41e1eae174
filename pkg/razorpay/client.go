package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/farmsip-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://api.razorpay.com/v1"
	defaultTimeout              = 10 * time.Second
	responseBodyReadLimit int64 = 1024
)

var (
	errKeyIDRequired     = errors.New("razorpay key id is required")
	errKeySecretRequired = errors.New("razorpay key secret is required")
)

// Client wraps the Razorpay Payment Links API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	keyID       string
	keySecret   string
	callbackURL string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout sets the HTTP timeout on the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithCallbackURL sets where the hosted page redirects after payment.
func WithCallbackURL(callbackURL string) Option {
	return func(c *Client) {
		c.callbackURL = strings.TrimSpace(callbackURL)
	}
}

// NewClient builds a Razorpay client authenticated with the key pair.
func NewClient(keyID, keySecret string, opts ...Option) (*Client, error) {
	keyID = strings.TrimSpace(keyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	keySecret = strings.TrimSpace(keySecret)
	if keySecret == "" {
		return nil, errKeySecretRequired
	}

	client := &Client{
		keyID:      keyID,
		keySecret:  keySecret,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	return client, nil
}

// CreateLinkRequest mirrors the payment link create payload. Amount is in minor units.
type CreateLinkRequest struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Description    string            `json:"description"`
	ReferenceID    string            `json:"reference_id,omitempty"`
	ExpireBy       int64             `json:"expire_by,omitempty"`
	Notes          map[string]string `json:"notes,omitempty"`
	CallbackURL    string            `json:"callback_url,omitempty"`
	CallbackMethod string            `json:"callback_method,omitempty"`
}

// PaymentLink is the subset of the API response the engine uses.
type PaymentLink struct {
	ID          string `json:"id"`
	ShortURL    string `json:"short_url"`
	Status      string `json:"status"`
	ReferenceID string `json:"reference_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreatePaymentLink asks Razorpay to host a payable link.
func (c *Client) CreatePaymentLink(ctx context.Context, req CreateLinkRequest) (*PaymentLink, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "razorpay client not configured")
	}
	if req.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if req.CallbackURL == "" && c.callbackURL != "" {
		req.CallbackURL = c.callbackURL
		req.CallbackMethod = "get"
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal payment link request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("payment_links"), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build payment link request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute payment link request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, describeError(raw)), "payment link request failed")
	}

	var link PaymentLink
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment link response")
	}
	if link.ID == "" || link.ShortURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment link response missing id or url")
	}
	return &link, nil
}

func describeError(raw []byte) string {
	var parsed apiError
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Description != "" {
		return fmt.Sprintf("%s: %s", parsed.Error.Code, parsed.Error.Description)
	}
	return strings.TrimSpace(string(raw))
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
