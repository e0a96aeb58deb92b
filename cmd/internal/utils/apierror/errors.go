package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError  = NewSimple(http.StatusBadRequest, "Malformed JSON body")
	InternalServerError = NewSimple(http.StatusInternalServerError, "Internal server error")

	NotFoundError = NewSimple(http.StatusNotFound, "Resource not found")

	/*
	 * Used for authentications
	 */
	UnauthorizedError        = NewSimple(http.StatusUnauthorized, "Unauthenticated")
	InvalidAuthTokenError    = NewSimple(http.StatusUnauthorized, "Invalid or expired authentication token")
	IDPUserNotFoundError     = NewSimple(http.StatusUnauthorized, "User not found")
	CredentialsMismatchError = NewSimple(http.StatusUnauthorized, "Credentials mismatch")
	UserAlreadyExistsError   = NewSimple(http.StatusConflict, "Email already exists")

	InvalidOrderFieldError     = NewInvalidQueryParamError("orderBy", "a sortable note field")
	InvalidOrderDirectionError = NewInvalidQueryParamError("orderIn", "one of: asc, desc")
)

// FromValidationError collects every failing field of a validator run.
// Field names are whatever the validator reports, so register a tag name
// func if JSON names are wanted.
func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	problems := NewStructured(http.StatusUnprocessableEntity)
	for _, fe := range ve {
		field := fe.Field()

		switch fe.Tag() {
		case "required":
			problems.Add(field, "This field is required")
		case "min":
			problems.Add(field, "Value is too short, min: "+fe.Param())
		case "max":
			problems.Add(field, "Value is too long, max: "+fe.Param())
		case "email":
			problems.Add(field, "Value must be a valid email address")
		case "url", "http_url":
			problems.Add(field, "Value must be a valid URL")
		case "calendardate":
			problems.Add(field, "Value must be a valid date (YYYY-MM-DD)")
		case "eqfield":
			problems.Add(field, "Value must match "+fe.Param())

		default:
			problems.Add(field, "Invalid value provided")
		}
	}
	return problems
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

// NewFieldTypeError reports a JSON value that could not be decoded into the expected type.
func NewFieldTypeError(field, dataType string) *StructuredError {
	s := NewStructured(http.StatusUnprocessableEntity)
	s.Add(field, "Value must be of type "+dataType)
	return s
}

func NewInvalidQueryParamError(name, expected string) *APIError {
	return NewSimple(http.StatusBadRequest, "Query parameter '%s' is invalid, expected %s", name, expected)
}
