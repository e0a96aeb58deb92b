package service

import (
	"notesapi/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

// validationFailure maps a validator error to its 422 body. Anything that is
// not a field error means the validator itself was misused.
func validationFailure(err error) apierror.ErrorResponse {
	if structured := apierror.FromValidationError(err); structured != nil {
		return structured
	}

	log.Errorf("unexpected validator failure: %v", err)
	return apierror.InternalServerError
}
