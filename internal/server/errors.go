package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-variants/internal/capture"
	"github.com/jonathan/resume-variants/internal/fetch"
	"github.com/jonathan/resume-variants/internal/library"
	"github.com/jonathan/resume-variants/internal/schemas"
	"github.com/jonathan/resume-variants/internal/store"
	"github.com/jonathan/resume-variants/internal/types"
	"github.com/jonathan/resume-variants/internal/variants"
)

// RequestError is a malformed request body or query parameter
type RequestError struct {
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		requestErr  *RequestError
		inputErr    *variants.InputError
		mismatchErr *variants.BaseMismatchError
		typesErr    *types.ValidationError
		schemaErr   *schemas.ValidationError
		fieldErrs   validator.ValidationErrors
		fetchErr    *fetch.Error
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, library.ErrNotFound),
		errors.Is(err, library.ErrBaseNotFound),
		errors.Is(err, store.ErrDraftNotFound),
		errors.Is(err, store.ErrSuggestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, library.ErrAlreadyExists),
		errors.Is(err, store.ErrNothingToUndo),
		errors.Is(err, store.ErrDraftBusy):
		return http.StatusConflict
	case errors.As(err, &requestErr),
		errors.As(err, &inputErr),
		errors.As(err, &mismatchErr),
		errors.As(err, &typesErr),
		errors.As(err, &schemaErr),
		errors.As(err, &fieldErrs),
		errors.Is(err, store.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, capture.ErrEmptyPosting):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
