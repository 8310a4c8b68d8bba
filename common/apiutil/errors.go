package apiutil

import (
	"encoding/json"

	"github.com/Aidin1998/foodgram/pkg/errors"
)

// ProblemFromError converts any error into RFC 7807 ProblemDetails.
// Unknown errors become a generic 500 so internals never leak.
func ProblemFromError(err error, instance string) *errors.ProblemDetails {
	var problem *errors.ProblemDetails
	if errors.As(err, &problem) {
		return problem
	}

	var domainErr *errors.Error
	if errors.As(err, &domainErr) {
		return domainErr.ToProblemDetails(instance)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return errors.NewValidationError("malformed JSON body", instance)
	case errors.As(err, &typeErr):
		return errors.NewValidationError(typeErr.Field+" has an invalid type", instance)
	}

	return errors.NewInternalError("An unexpected error occurred", instance)
}
