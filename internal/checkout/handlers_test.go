package checkout_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sarigama-yerra/checkout-api/internal/checkout"
	"github.com/sarigama-yerra/checkout-api/internal/paypal"
	"github.com/sarigama-yerra/checkout-api/internal/pricing"
)

// providerStub is a minimal PayPal lookalike: token endpoint, order
// creation, and capture, each with a configurable response.
type providerStub struct {
	mu sync.Mutex

	tokenStatus int
	tokenBody   string
	orderCalls  int
}

func (p *providerStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, _ *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()
		w.WriteHeader(p.tokenStatus)
		_, _ = w.Write([]byte(p.tokenBody))
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, _ *http.Request) {
		p.mu.Lock()
		p.orderCalls++
		p.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "ORDER-1", "status": "CREATED"}`))
	})
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "ORDER-1", "status": "COMPLETED"}`))
	})
	return mux
}

func newCheckoutHandler(t *testing.T, baseURL, clientID, secret string) *checkout.Handler {
	t.Helper()
	client, err := paypal.NewClient(paypal.Config{
		BaseURL:  baseURL,
		ClientID: clientID,
		Secret:   secret,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	return &checkout.Handler{Svc: &checkout.Service{
		Engine:  pricing.NewEngine(),
		Gateway: client,
		Log:     zerolog.Nop(),
	}}
}

func post(t *testing.T, fn http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code, resp.Error.Message
}

const validCreateBody = `{
	"quantity": 2,
	"address": {"country": "Germany", "city": "Munich", "postal_code": "80331", "street": "Marienplatz 1"}
}`

func TestCreateOrderReturnsProviderOrderID(t *testing.T) {
	stub := &providerStub{tokenStatus: http.StatusOK, tokenBody: `{"access_token": "tok"}`}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	handler := newCheckoutHandler(t, srv.URL, "id", "secret")
	rec := post(t, handler.CreateOrder, "/api/checkout/create-order", validCreateBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp checkout.CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ORDER-1", resp.OrderID)
	require.Equal(t, 49.98, resp.Total)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	require.Contains(t, fields, "order_id")
	require.Contains(t, fields, "total")
}

func TestCreateOrderFailsWithoutCredentials(t *testing.T) {
	handler := newCheckoutHandler(t, "https://api-m.sandbox.paypal.com", "", "")

	rec := post(t, handler.CreateOrder, "/api/checkout/create-order", validCreateBody)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	code, _ := decodeError(t, rec)
	require.Equal(t, "PAYPAL_NOT_CONFIGURED", code)
}

func TestCreateOrderStopsAfterAuthRejection(t *testing.T) {
	stub := &providerStub{tokenStatus: http.StatusUnauthorized, tokenBody: `{"error": "invalid_client"}`}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	handler := newCheckoutHandler(t, srv.URL, "id", "bad-secret")
	rec := post(t, handler.CreateOrder, "/api/checkout/create-order", validCreateBody)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	code, message := decodeError(t, rec)
	require.Equal(t, "PAYPAL_AUTH_FAILED", code)
	require.Contains(t, message, "PayPal auth failed")
	require.Contains(t, message, "invalid_client")
	require.Equal(t, 0, stub.orderCalls, "order creation must not be attempted after auth failure")
}

func TestCreateOrderRejectsInvalidBody(t *testing.T) {
	handler := newCheckoutHandler(t, "https://api-m.sandbox.paypal.com", "id", "secret")

	rec := post(t, handler.CreateOrder, "/api/checkout/create-order", `{"quantity": 0, "address": {}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	code, _ := decodeError(t, rec)
	require.Equal(t, "VALIDATION_ERROR", code)
}

func TestCaptureOrderRelaysProviderJSON(t *testing.T) {
	stub := &providerStub{tokenStatus: http.StatusOK, tokenBody: `{"access_token": "tok"}`}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	handler := newCheckoutHandler(t, srv.URL, "id", "secret")
	rec := post(t, handler.CaptureOrder, "/api/checkout/capture-order", `{"order_id": "ORDER-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id": "ORDER-1", "status": "COMPLETED"}`, rec.Body.String())
}

func TestCaptureOrderRequiresOrderID(t *testing.T) {
	handler := newCheckoutHandler(t, "https://api-m.sandbox.paypal.com", "id", "secret")

	rec := post(t, handler.CaptureOrder, "/api/checkout/capture-order", `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	code, _ := decodeError(t, rec)
	require.Equal(t, "VALIDATION_ERROR", code)
}
