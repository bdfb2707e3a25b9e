package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrDocumentNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrTitleExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrEmptyUpdate),
		errors.Is(err, domain.ErrInvalidTimestamp),
		errors.Is(err, domain.ErrCardQuestionEmpty),
		errors.Is(err, domain.ErrCardAnswerEmpty),
		errors.Is(err, domain.ErrCardNegativeSuccessCount),
		errors.Is(err, domain.ErrCardDueDateZero),
		errors.Is(err, domain.ErrDocumentTitleEmpty),
		errors.Is(err, domain.ErrDocumentContentEmpty),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Special cases
	case errors.Is(err, store.ErrNoCardDue):
		return http.StatusNoContent

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Not found errors
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrDocumentNotFound):
		return "Document not found"

	// Conflict errors
	case errors.Is(err, store.ErrTitleExists):
		return "A document with this title already exists"

	// Bad request errors
	case errors.Is(err, service.ErrEmptyUpdate):
		return "No fields provided for update"

	case errors.Is(err, domain.ErrInvalidTimestamp):
		return "Invalid date format. Use ISO format (YYYY-MM-DDTHH:MM:SS)"

	case errors.Is(err, domain.ErrCardQuestionEmpty),
		errors.Is(err, domain.ErrCardAnswerEmpty),
		errors.Is(err, domain.ErrCardNegativeSuccessCount),
		errors.Is(err, domain.ErrCardDueDateZero):
		return "Invalid card data"

	case errors.Is(err, domain.ErrDocumentTitleEmpty),
		errors.Is(err, domain.ErrDocumentContentEmpty):
		return "Invalid document data"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// No card due is handled separately with StatusNoContent

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes internal details from validator errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'CreateCardRequest.Question' Error:Field
		// validation for 'Question' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}
