package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	authBodyLimit  = 200
	orderBodyLimit = 300
)

// Config carries everything the client needs; it is built once at startup
// from the process configuration rather than read from ambient globals.
type Config struct {
	BaseURL      string
	ClientID     string
	Secret       string
	TokenTimeout time.Duration
	OrderTimeout time.Duration
	Logger       zerolog.Logger
}

// Client talks to the PayPal REST API. Token exchange and order operations
// use separate timeouts: the token endpoint is expected to answer quickly,
// order creation and capture get more headroom. There are no retries; every
// upstream failure surfaces immediately.
type Client struct {
	baseURL     string
	clientID    string
	secret      string
	tokenClient *http.Client
	orderClient *http.Client
	log         zerolog.Logger
}

// NewClient constructs a Client from config. Credentials may be absent: the
// client is still usable for Configured checks, and operations fail with
// ErrNotConfigured until credentials are provided.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("paypal base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse paypal base url: %w", err)
	}
	tokenTimeout := cfg.TokenTimeout
	if tokenTimeout <= 0 {
		tokenTimeout = 15 * time.Second
	}
	orderTimeout := cfg.OrderTimeout
	if orderTimeout <= 0 {
		orderTimeout = 20 * time.Second
	}
	transport := otelhttp.NewTransport(http.DefaultTransport)
	return &Client{
		baseURL:     base,
		clientID:    strings.TrimSpace(cfg.ClientID),
		secret:      strings.TrimSpace(cfg.Secret),
		tokenClient: &http.Client{Timeout: tokenTimeout, Transport: transport},
		orderClient: &http.Client{Timeout: orderTimeout, Transport: transport},
		log:         cfg.Logger,
	}, nil
}

// Configured reports whether both provider credentials are present.
func (c *Client) Configured() bool {
	return c != nil && c.clientID != "" && c.secret != ""
}

// ClientIDSet reports whether the client id alone is present. Used by the
// diagnostics endpoint, which flags each credential separately.
func (c *Client) ClientIDSet() bool { return c != nil && c.clientID != "" }

// SecretSet reports whether the secret alone is present.
func (c *Client) SecretSet() bool { return c != nil && c.secret != "" }

// AccessToken exchanges the configured client credentials for a short-lived
// bearer token.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en_US")
	req.Header.Set("X-Correlation-Id", uuid.NewString())

	resp, err := c.tokenClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Stage: StageAuth, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Stage: StageAuth, StatusCode: resp.StatusCode, Body: err.Error()}
	}
	if resp.StatusCode >= 400 {
		c.log.Warn().Int("status", resp.StatusCode).Msg("paypal token exchange rejected")
		return "", &UpstreamError{Stage: StageAuth, StatusCode: resp.StatusCode, Body: truncate(body, authBodyLimit)}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", &UpstreamError{Stage: StageAuth, StatusCode: resp.StatusCode, Body: "malformed token response"}
	}
	if token.AccessToken == "" {
		return "", &UpstreamError{Stage: StageAuth, StatusCode: resp.StatusCode, Body: "empty access token"}
	}
	return token.AccessToken, nil
}

// CreateOrder authenticates and submits an order to the provider, returning
// the provider-issued order id.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (string, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("encode order: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/checkout/orders", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Correlation-Id", uuid.NewString())

	resp, err := c.orderClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Stage: StageCreate, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Stage: StageCreate, StatusCode: resp.StatusCode, Body: err.Error()}
	}
	if resp.StatusCode >= 400 {
		c.log.Warn().Int("status", resp.StatusCode).Msg("paypal order creation rejected")
		return "", &UpstreamError{Stage: StageCreate, StatusCode: resp.StatusCode, Body: truncate(body, orderBodyLimit)}
	}

	var created orderResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", &UpstreamError{Stage: StageCreate, StatusCode: resp.StatusCode, Body: "malformed order response"}
	}
	return created.ID, nil
}

// CaptureOrder re-authenticates and captures a previously created order.
// The order must already exist upstream; there is no local record to check
// against. The provider's capture response is returned verbatim.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	captureURL := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", c.baseURL, url.PathEscape(orderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, captureURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build capture request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Correlation-Id", uuid.NewString())

	resp, err := c.orderClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Stage: StageCapture, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Stage: StageCapture, StatusCode: resp.StatusCode, Body: err.Error()}
	}
	if resp.StatusCode >= 400 {
		c.log.Warn().Int("status", resp.StatusCode).Str("order_id", orderID).Msg("paypal capture rejected")
		return nil, &UpstreamError{Stage: StageCapture, StatusCode: resp.StatusCode, Body: truncate(body, orderBodyLimit)}
	}
	return json.RawMessage(body), nil
}
