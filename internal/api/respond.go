package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bher20/tariffmanager/internal/billing"
	"github.com/bher20/tariffmanager/internal/catalog"
	"github.com/bher20/tariffmanager/internal/compare"
	"github.com/bher20/tariffmanager/internal/invoice"
	"github.com/bher20/tariffmanager/internal/notification"
	"github.com/bher20/tariffmanager/internal/tariff"
)

// APIError is an RFC 7807 problem details body.
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeNotFound      = "not_found"
	ErrorTypeBadRequest    = "bad_request"
	ErrorTypeUnprocessable = "no_offers_available"
	ErrorTypeUnavailable   = "service_unavailable"
	ErrorTypeInternal      = "internal_error"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIError{
		Type:   errorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

func errorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrorTypeBadRequest
	case http.StatusNotFound:
		return ErrorTypeNotFound
	case http.StatusUnprocessableEntity:
		return ErrorTypeUnprocessable
	case http.StatusServiceUnavailable:
		return ErrorTypeUnavailable
	default:
		return ErrorTypeInternal
	}
}

func respondValidationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(APIError{
		Type:   ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: fields,
	})
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "hexcolor":
		return "Must be a hex color such as #1f4e79"
	default:
		return "Validation failed: " + fe.Tag()
	}
}

func toJSONFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// respondServiceError maps domain errors to HTTP statuses.
func respondServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		respondWithError(w, apiErr.Status, apiErr.Detail)
	case errors.Is(err, catalog.ErrTariffNotFound),
		errors.Is(err, compare.ErrComparisonNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, compare.ErrNoCandidateTariffs):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, tariff.ErrInvalidTariff),
		errors.Is(err, billing.ErrInvalidConsumption),
		errors.Is(err, billing.ErrInvalidPeriodCount),
		errors.Is(err, invoice.ErrUnrecognized),
		errors.Is(err, invoice.ErrIncomplete),
		errors.Is(err, invoice.ErrUnreadablePDF),
		errors.Is(err, notification.ErrNoRecipient),
		errors.Is(err, notification.ErrInvalidRecipient):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, notification.ErrDisabled):
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Error("request failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
