package handler

import (
	"errors"

	"github.com/bskmt/club-api/internal/model"
	"github.com/bskmt/club-api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrMembershipNotFound):
		return model.NewNotFoundError("membership")

	// ===== Renewal Window Errors → 422 =====
	case errors.Is(err, service.ErrRenewalTooEarly),
		errors.Is(err, service.ErrRenewalTooLate),
		errors.Is(err, service.ErrRenewalNotNeeded):
		return model.NewRenewalClosedError(err.Error())

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrCapacityExceeded):
		return model.NewCapacityExceededError(err.Error())
	case errors.Is(err, service.ErrAlreadyAwarded),
		errors.Is(err, service.ErrPassInProgress):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 400/422 =====
	case errors.Is(err, service.ErrMembershipInactive):
		return model.NewRenewalClosedError(err.Error())
	case errors.Is(err, service.ErrUnknownAction),
		errors.Is(err, service.ErrInvalidRenewalType),
		errors.Is(err, service.ErrInvalidAmount):
		return model.NewBadRequestError(err.Error())
	}

	// ===== Default → 500 =====
	return model.NewInternalError("")
}
