// Package paymob talks to the Paymob Accept API used for hosted checkout.
package paymob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
)

const (
	DefaultBaseURL                = "https://accept.paymobsolutions.com/api"
	paymentKeyExpirySeconds       = 3600
	responseBodyReadLimit   int64 = 1024
)

var (
	errCredentialsRequired = errors.New("paymob api key or username/password is required")
	errIntegrationRequired = errors.New("paymob integration id is required")
)

// Credentials authenticate against /auth/tokens. Username/password wins over
// the API key when both are present.
type Credentials struct {
	APIKey   string
	Username string
	Password string
}

func (c Credentials) body() map[string]string {
	if strings.TrimSpace(c.Username) != "" {
		return map[string]string{"username": c.Username, "password": c.Password}
	}
	return map[string]string{"api_key": c.APIKey}
}

// Client wraps the three-step Accept flow: auth token, order, payment key.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	creds         Credentials
	integrationID int
	iframeID      string
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

// WithBaseURL overrides the Accept API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds a Paymob client for one integration + iframe.
func NewClient(creds Credentials, integrationID int, iframeID string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(creds.APIKey) == "" && strings.TrimSpace(creds.Username) == "" {
		return nil, errCredentialsRequired
	}
	if integrationID <= 0 {
		return nil, errIntegrationRequired
	}

	client := &Client{
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		baseURL:       DefaultBaseURL,
		creds:         creds,
		integrationID: integrationID,
		iframeID:      strings.TrimSpace(iframeID),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// OrderRequest registers an order; MerchantOrderID is our payment id.
type OrderRequest struct {
	AmountCents     int64
	Currency        string
	MerchantOrderID string
}

// BillingData is the minimal billing block Accept requires for a payment key.
type BillingData struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// PaymentKeyRequest asks for the token that opens the hosted iframe.
type PaymentKeyRequest struct {
	AmountCents int64
	Currency    string
	OrderID     int64
	Billing     BillingData
}

// AuthToken exchanges credentials for a short-lived bearer token.
func (c *Client) AuthToken(ctx context.Context) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, "auth/tokens", "", c.creds.body(), &resp); err != nil {
		return "", fmt.Errorf("paymob auth: %w", err)
	}
	if resp.Token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUpstream, "paymob auth: no token in response")
	}
	return resp.Token, nil
}

// CreateOrder registers an order and returns Paymob's order id.
func (c *Client) CreateOrder(ctx context.Context, token string, req OrderRequest) (int64, error) {
	payload := map[string]any{
		"amount_cents":      req.AmountCents,
		"currency":          currencyOrDefault(req.Currency),
		"merchant_order_id": req.MerchantOrderID,
		"delivery_needed":   "false",
	}
	var resp struct {
		ID *int64 `json:"id"`
	}
	if err := c.post(ctx, "ecommerce/orders", token, payload, &resp); err != nil {
		return 0, fmt.Errorf("paymob create order: %w", err)
	}
	if resp.ID == nil {
		return 0, pkgerrors.New(pkgerrors.CodeUpstream, "paymob create order: no id in response")
	}
	return *resp.ID, nil
}

// PaymentKey returns the payment token for the hosted iframe.
func (c *Client) PaymentKey(ctx context.Context, token string, req PaymentKeyRequest) (string, error) {
	payload := map[string]any{
		"amount_cents":   req.AmountCents,
		"currency":       currencyOrDefault(req.Currency),
		"order_id":       req.OrderID,
		"integration_id": c.integrationID,
		"billing_data":   req.Billing,
		"expiration":     paymentKeyExpirySeconds,
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, "acceptance/payment_keys", token, payload, &resp); err != nil {
		return "", fmt.Errorf("paymob payment key: %w", err)
	}
	if resp.Token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUpstream, "paymob payment key: no token in response")
	}
	return resp.Token, nil
}

// RedirectURL is the hosted iframe URL the browser is sent to.
func (c *Client) RedirectURL(paymentKey string) string {
	return fmt.Sprintf("%s/acceptance/iframes/%s?payment_token=%s",
		strings.TrimRight(c.baseURL, "/"), url.PathEscape(c.iframeID), url.QueryEscape(paymentKey))
}

// FormatOrderID renders an order id the way it is stored and echoed back.
func FormatOrderID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (c *Client) post(ctx context.Context, path, token string, payload any, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeUpstream, "paymob client not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request")
	}

	endpoint := fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), strings.TrimLeft(path, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "request failed")
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode response")
	}
	return nil
}

func currencyOrDefault(currency string) string {
	if strings.TrimSpace(currency) == "" {
		return "EGP"
	}
	return currency
}
