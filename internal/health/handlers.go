package health

import (
	"net/http"

	"github.com/sarigama-yerra/checkout-api/internal/common"
)

// CredentialChecker reports presence of the payment provider credentials
// without exposing their values.
type CredentialChecker interface {
	ClientIDSet() bool
	SecretSet() bool
}

// Handler exposes the liveness message and operational diagnostics.
type Handler struct {
	Checker CredentialChecker
}

// Root returns the liveness message for the API root.
func (h Handler) Root(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]string{"message": "Ecommerce Backend Running"})
}

// Diagnostics flags whether the provider credentials are configured. Only
// presence is reported, never the secret values themselves.
func (h Handler) Diagnostics(w http.ResponseWriter, _ *http.Request) {
	clientFlag := "❌ Not Set"
	secretFlag := "❌ Not Set"
	if h.Checker != nil {
		if h.Checker.ClientIDSet() {
			clientFlag = "✅ Set"
		}
		if h.Checker.SecretSet() {
			secretFlag = "✅ Set"
		}
	}
	common.JSON(w, http.StatusOK, map[string]string{
		"backend":       "✅ Running",
		"paypal_client": clientFlag,
		"paypal_secret": secretFlag,
	})
}

// Live reports liveness status for orchestration probes.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
