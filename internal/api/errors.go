package api

import (
	"errors"
	"net/http"

	"github.com/lexikon/lexikon-api/internal/domain"
	"github.com/lexikon/lexikon-api/internal/domain/practice"
	"github.com/lexikon/lexikon-api/internal/service"
	"github.com/lexikon/lexikon-api/internal/service/practice_session"
	"github.com/lexikon/lexikon-api/internal/store"
)

// MapErrorToStatusCode translates service and domain errors to HTTP status
// codes. Unrecognized errors map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, practice_session.ErrDeckNotFound),
		errors.Is(err, service.ErrDeckNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDeckNotOwned):
		return http.StatusForbidden
	case errors.Is(err, practice.ErrSessionComplete):
		return http.StatusConflict
	case errors.Is(err, practice_session.ErrInvalidCount),
		errors.Is(err, practice_session.ErrInvalidDirection),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrDeckNameEmpty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for the error. Internal
// details stay in the logs.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, practice_session.ErrDeckNotFound),
		errors.Is(err, service.ErrDeckNotFound),
		store.IsNotFoundError(err):
		return "Deck not found"
	case errors.Is(err, service.ErrDeckNotOwned):
		return "Deck not owned by user"
	case errors.Is(err, practice.ErrSessionComplete):
		return "Practice session is already complete"
	case errors.Is(err, practice_session.ErrInvalidCount):
		return "Requested count cannot be negative"
	case errors.Is(err, practice_session.ErrInvalidDirection):
		return "Invalid practice direction"
	case errors.Is(err, domain.ErrInvalidFilter):
		return "Invalid card filter"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"
	case errors.Is(err, domain.ErrDeckNameEmpty):
		return "Deck name cannot be empty"
	default:
		return "An internal error occurred"
	}
}
