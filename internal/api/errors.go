package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/relay-api/internal/api/apierr"
	"github.com/phrazzld/relay-api/internal/domain"
	"github.com/phrazzld/relay-api/internal/store"
)

// MapStoreError converts store and domain errors into tagged API errors so
// the normalizer can answer with the right status. Unknown errors become
// handler errors without a status (reported as 500).
func MapStoreError(err error, notFoundMessage string) error {
	switch {
	case err == nil:
		return nil
	case store.IsNotFoundError(err):
		return apierr.NotFound(notFoundMessage)
	case errors.Is(err, store.ErrEmailExists):
		return apierr.Conflict("Email already exists", err)
	case store.IsDuplicateError(err):
		return apierr.Conflict("Resource already exists", err)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return apierr.Validation(validationMessage(err), err)
	default:
		return apierr.Handler(0, "", err)
	}
}

// validationMessage returns the innermost domain message, e.g.
// "validation failed: invalid email format".
func validationMessage(err error) string {
	if msg := domainMessage(err); msg != "" {
		return msg
	}
	return "Invalid entity data"
}

func domainMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, domain.ErrValidation) && !errors.Is(err, store.ErrInvalidEntity) {
		return err.Error()
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if msg := domainMessage(e); msg != "" {
				return msg
			}
		}
	case interface{ Unwrap() error }:
		return domainMessage(u.Unwrap())
	}
	return ""
}

// SanitizeValidationError turns validator output into a client message
// naming the first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return "Invalid " + fe.Field() + ": " + getValidationTagMessage(fe.Tag())
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte":
		return "too small"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
