package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under the json field names the client actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldViolation describes a single failed validation constraint.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// DecodeValid decodes a JSON request body into dst and validates it against
// its struct tags. Malformed bodies and constraint violations both map to
// HTTP 422 so the schema contract is enforced before any business logic runs.
func DecodeValid(r *http.Request, dst any) *AppError {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return NewAppError("VALIDATION_ERROR", "invalid request body", http.StatusUnprocessableEntity, err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]FieldViolation, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, FieldViolation{
					Field: fieldPath(fe.Namespace()),
					Rule:  fe.Tag(),
					Param: fe.Param(),
				})
			}
			return &AppError{
				Code:       "VALIDATION_ERROR",
				Message:    "request validation failed",
				HTTPStatus: http.StatusUnprocessableEntity,
				Err:        err,
				Details:    details,
			}
		}
		return NewAppError("VALIDATION_ERROR", "request validation failed", http.StatusUnprocessableEntity, err)
	}
	return nil
}

// fieldPath strips the root struct name from a validator namespace, leaving
// a dotted path like "address.postal_code".
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}
