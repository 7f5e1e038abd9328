package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/sindhu-tours/internal/domain"
	"github.com/diagnosis/sindhu-tours/pkg/logger"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	WriteErrorWithDetails(w, statusCode, message, code, "")
}

// WriteErrorWithDetails writes a structured JSON error response with additional details
func WriteErrorWithDetails(w http.ResponseWriter, statusCode int, message, code, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeRateLimit          = "RATE_LIMIT_EXCEEDED"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeEmailNotVerified   = "EMAIL_NOT_VERIFIED"
	CodeNotAdmin           = "NOT_ADMIN"
	CodeCapacityExceeded   = "CAPACITY_EXCEEDED"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeReviewNotAllowed   = "REVIEW_NOT_ALLOWED"
	CodeReviewExists       = "REVIEW_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

func RateLimit(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}

func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message, CodeConflict)
}

// FromError maps a service error onto the envelope. Validation and backend
// rejections are surfaced verbatim; anything else is logged and hidden.
func FromError(ctx context.Context, w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		WriteErrorWithDetails(w, http.StatusBadRequest, ve.Message, CodeInvalidInput, ve.Field)
		return
	}
	var ce *domain.CapacityError
	if errors.As(err, &ce) {
		WriteError(w, http.StatusBadRequest, ce.Error(), CodeCapacityExceeded)
		return
	}

	for _, m := range errorMap {
		if errors.Is(err, m.err) {
			WriteError(w, m.status, m.err.Error(), m.code)
			return
		}
	}

	logger.ErrorContext(ctx, "request failed", "error", err)
	InternalError(w, "something went wrong, please try again")
}

var errorMap = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
	{domain.ErrLoginToBook, http.StatusUnauthorized, CodeUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{domain.ErrEmailNotVerified, http.StatusForbidden, CodeEmailNotVerified},
	{domain.ErrNotAdmin, http.StatusForbidden, CodeNotAdmin},
	{domain.ErrForbidden, http.StatusForbidden, CodeForbidden},
	{domain.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{domain.ErrEmailExists, http.StatusConflict, CodeEmailExists},
	{domain.ErrTokenInvalid, http.StatusBadRequest, CodeInvalidToken},
	{domain.ErrCapacityExceeded, http.StatusBadRequest, CodeCapacityExceeded},
	{domain.ErrBookingInFlight, http.StatusConflict, CodeConflict},
	{domain.ErrNothingToComplete, http.StatusConflict, CodeInvalidTransition},
	{domain.ErrInvalidTransition, http.StatusConflict, CodeInvalidTransition},
	{domain.ErrReviewNotAllowed, http.StatusConflict, CodeReviewNotAllowed},
	{domain.ErrReviewExists, http.StatusConflict, CodeReviewExists},
}
