package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("please login to continue")
	ErrForbidden          = errors.New("you do not have access to this resource")
	ErrNotAdmin           = errors.New("Not authorized as admin")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("please confirm your email before signing in")
	ErrEmailExists        = errors.New("Email already registered")
	ErrTokenInvalid       = errors.New("confirmation link is invalid or has expired")

	ErrLoginToBook       = errors.New("Please login to book a tour")
	ErrCapacityExceeded  = errors.New("booking exceeds tour capacity")
	ErrBookingInFlight   = errors.New("a booking with this idempotency key is still being processed")
	ErrInvalidTransition = errors.New("booking status change not allowed")
	ErrNothingToComplete = fmt.Errorf("%w: tour has no confirmed bookings to complete", ErrInvalidTransition)
	ErrReviewNotAllowed  = errors.New("reviews are only accepted for completed tours")
	ErrReviewExists      = errors.New("this booking has already been reviewed")
)

// ValidationError is a rejected input detected before any backend call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// CapacityError carries the tour limit so the message can name it.
type CapacityError struct {
	MaxPeople int
}

func (e *CapacityError) Error() string {
	return "Maximum " + strconv.Itoa(e.MaxPeople) + " people allowed for this tour"
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }
