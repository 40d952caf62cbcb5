package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-variants/internal/capture"
	"github.com/jonathan/resume-variants/internal/fetch"
	"github.com/jonathan/resume-variants/internal/library"
	"github.com/jonathan/resume-variants/internal/store"
	"github.com/jonathan/resume-variants/internal/types"
	"github.com/jonathan/resume-variants/internal/variants"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"resume not found", fmt.Errorf("get: %w", library.ErrNotFound), http.StatusNotFound},
		{"base not found", library.ErrBaseNotFound, http.StatusNotFound},
		{"draft not found", fmt.Errorf("%w: d1", store.ErrDraftNotFound), http.StatusNotFound},
		{"suggestion not found", store.ErrSuggestionNotFound, http.StatusNotFound},
		{"duplicate id", fmt.Errorf("failed to save variant: %w", library.ErrAlreadyExists), http.StatusConflict},
		{"nothing to undo", store.ErrNothingToUndo, http.StatusConflict},
		{"draft busy", store.ErrDraftBusy, http.StatusConflict},
		{"invalid status", fmt.Errorf("%w: %q", store.ErrInvalidStatus, "maybe"), http.StatusBadRequest},
		{"input error", &variants.InputError{Cause: errors.New("bad")}, http.StatusBadRequest},
		{"record validation", &types.ValidationError{Field: "name", Message: "is required"}, http.StatusBadRequest},
		{"request error", &RequestError{Message: "bad body"}, http.StatusBadRequest},
		{"empty posting", capture.ErrEmptyPosting, http.StatusUnprocessableEntity},
		{"deadline", fmt.Errorf("generate: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"fetch failure", &fetch.Error{URL: "https://x", Message: "status 503"}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestRequestError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &RequestError{Message: "invalid request body", Cause: cause}
	assert.Equal(t, "invalid request body: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)
}
