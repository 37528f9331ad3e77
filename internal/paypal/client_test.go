package paypal_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sarigama-yerra/checkout-api/internal/paypal"
)

type stubProvider struct {
	tokenStatus   int
	tokenBody     string
	orderStatus   int
	orderBody     string
	captureStatus int
	captureBody   string

	tokenCalls   int
	orderCalls   int
	captureCalls int

	lastAuthHeader string
	lastOrderBody  []byte
}

func (s *stubProvider) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		s.tokenCalls++
		s.lastAuthHeader = r.Header.Get("Authorization")
		w.WriteHeader(s.tokenStatus)
		_, _ = w.Write([]byte(s.tokenBody))
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		s.orderCalls++
		s.lastAuthHeader = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		s.lastOrderBody = body
		w.WriteHeader(s.orderStatus)
		_, _ = w.Write([]byte(s.orderBody))
	})
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		s.captureCalls++
		w.WriteHeader(s.captureStatus)
		_, _ = w.Write([]byte(s.captureBody))
	})
	return mux
}

func newStub() *stubProvider {
	return &stubProvider{
		tokenStatus:   http.StatusOK,
		tokenBody:     `{"access_token": "test-token", "token_type": "Bearer"}`,
		orderStatus:   http.StatusCreated,
		orderBody:     `{"id": "5O190127TN364715T", "status": "CREATED"}`,
		captureStatus: http.StatusCreated,
		captureBody:   `{"id": "5O190127TN364715T", "status": "COMPLETED"}`,
	}
}

func newClient(t *testing.T, baseURL string) *paypal.Client {
	t.Helper()
	client, err := paypal.NewClient(paypal.Config{
		BaseURL:  baseURL,
		ClientID: "client-id",
		Secret:   "client-secret",
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	return client
}

func minimalOrder() paypal.OrderRequest {
	return paypal.OrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypal.PurchaseUnit{{
			Amount: paypal.Amount{CurrencyCode: "EUR", Value: "24.99"},
		}},
		ApplicationContext: paypal.ApplicationContext{
			ShippingPreference: "SET_PROVIDED_ADDRESS",
			UserAction:         "PAY_NOW",
		},
	}
}

func TestAccessToken(t *testing.T) {
	stub := newStub()
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	client := newClient(t, srv.URL)
	token, err := client.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "test-token", token)
	require.True(t, strings.HasPrefix(stub.lastAuthHeader, "Basic "))
}

func TestAccessTokenRequiresCredentials(t *testing.T) {
	client, err := paypal.NewClient(paypal.Config{BaseURL: "https://api-m.sandbox.paypal.com", Logger: zerolog.Nop()})
	require.NoError(t, err)
	require.False(t, client.Configured())

	_, err = client.AccessToken(context.Background())
	require.ErrorIs(t, err, paypal.ErrNotConfigured)
}

func TestAccessTokenUpstreamRejection(t *testing.T) {
	stub := newStub()
	stub.tokenStatus = http.StatusUnauthorized
	stub.tokenBody = `{"error": "invalid_client", "error_description": "Client Authentication failed"}`
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	_, err := newClient(t, srv.URL).AccessToken(context.Background())
	upstream, ok := paypal.AsUpstreamError(err)
	require.True(t, ok)
	require.Equal(t, paypal.StageAuth, upstream.Stage)
	require.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	require.Contains(t, upstream.Body, "invalid_client")
	require.Contains(t, err.Error(), "PayPal auth failed")
}

func TestAccessTokenTruncatesErrorBody(t *testing.T) {
	stub := newStub()
	stub.tokenStatus = http.StatusInternalServerError
	stub.tokenBody = strings.Repeat("x", 1000)
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	_, err := newClient(t, srv.URL).AccessToken(context.Background())
	upstream, ok := paypal.AsUpstreamError(err)
	require.True(t, ok)
	require.Len(t, upstream.Body, 200)
}

func TestCreateOrder(t *testing.T) {
	stub := newStub()
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	orderID, err := newClient(t, srv.URL).CreateOrder(context.Background(), minimalOrder())
	require.NoError(t, err)
	require.Equal(t, "5O190127TN364715T", orderID)
	require.Equal(t, 1, stub.tokenCalls)
	require.Equal(t, 1, stub.orderCalls)
	require.Equal(t, "Bearer test-token", stub.lastAuthHeader)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(stub.lastOrderBody, &sent))
	require.Equal(t, "CAPTURE", sent["intent"])
}

func TestCreateOrderAbortsWhenAuthFails(t *testing.T) {
	stub := newStub()
	stub.tokenStatus = http.StatusUnauthorized
	stub.tokenBody = `{"error": "invalid_client"}`
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	_, err := newClient(t, srv.URL).CreateOrder(context.Background(), minimalOrder())
	upstream, ok := paypal.AsUpstreamError(err)
	require.True(t, ok)
	require.Equal(t, paypal.StageAuth, upstream.Stage)
	require.Equal(t, 0, stub.orderCalls, "order endpoint must not be called after auth failure")
}

func TestCreateOrderUpstreamRejection(t *testing.T) {
	stub := newStub()
	stub.orderStatus = http.StatusUnprocessableEntity
	stub.orderBody = `{"name": "UNPROCESSABLE_ENTITY", "details": [{"issue": "CURRENCY_NOT_SUPPORTED"}]}` + strings.Repeat("x", 500)
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	_, err := newClient(t, srv.URL).CreateOrder(context.Background(), minimalOrder())
	upstream, ok := paypal.AsUpstreamError(err)
	require.True(t, ok)
	require.Equal(t, paypal.StageCreate, upstream.Stage)
	require.Len(t, upstream.Body, 300)
	require.Contains(t, upstream.Body, "CURRENCY_NOT_SUPPORTED")
}

func TestCaptureOrderRelaysRawResponse(t *testing.T) {
	stub := newStub()
	stub.captureBody = `{"id": "ABC", "status": "COMPLETED", "purchase_units": [{"payments": {"captures": [{"id": "CAP-1"}]}}]}`
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	raw, err := newClient(t, srv.URL).CaptureOrder(context.Background(), "ABC")
	require.NoError(t, err)
	require.JSONEq(t, stub.captureBody, string(raw))
	require.Equal(t, 1, stub.tokenCalls, "capture re-authenticates")
}

func TestCaptureOrderUpstreamRejection(t *testing.T) {
	stub := newStub()
	stub.captureStatus = http.StatusNotFound
	stub.captureBody = `{"name": "RESOURCE_NOT_FOUND"}`
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	_, err := newClient(t, srv.URL).CaptureOrder(context.Background(), "MISSING")
	upstream, ok := paypal.AsUpstreamError(err)
	require.True(t, ok)
	require.Equal(t, paypal.StageCapture, upstream.Stage)
	require.Contains(t, err.Error(), "PayPal capture failed")
}
