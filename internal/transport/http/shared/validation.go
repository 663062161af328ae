package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"hrmconsole/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

var validate = validator.New()

// Decode reads a JSON body into dst and runs its validate tags. It writes the
// failure response itself and reports whether the caller may continue.
func Decode(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
			return false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		FailValidation(w, requestID, Issues(err))
		return false
	}
	return true
}

// Issues flattens validator errors into field/reason pairs, sorted by field.
func Issues(err error) []ValidationIssue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationIssue{{Reason: err.Error()}}
	}
	out := make([]ValidationIssue, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationIssue{Field: jsonName(fe.Field()), Reason: reason(fe)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field == out[j].Field {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Field < out[j].Field
	})
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date in " + fe.Param() + " format"
	}
	return "failed " + fe.Tag() + " check"
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func FailValidation(w http.ResponseWriter, requestID string, issues []ValidationIssue) {
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": issues},
		requestID,
	)
}
