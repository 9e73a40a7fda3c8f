package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughWrapped(t *testing.T) {
	base := NewNotFound("news")
	wrapped := fmt.Errorf("loading article: %w", base)

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "news not found", de.Message)
}

func TestToDomainError_UnknownIsInternal(t *testing.T) {
	de := ToDomainError(errors.New("connection refused"))
	require.NotNil(t, de)
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "internal server error", de.Message)
}

func TestToDomainError_FiberErrors(t *testing.T) {
	tests := []struct {
		in       *fiber.Error
		wantCode string
	}{
		{fiber.ErrNotFound, "NOT_FOUND"},
		{fiber.ErrMethodNotAllowed, "VALIDATION_FAILED"},
		{fiber.ErrRequestEntityTooLarge, "VALIDATION_FAILED"},
		{fiber.ErrUnauthorized, "UNAUTHORIZED"},
		{fiber.ErrServiceUnavailable, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.in.Message, func(t *testing.T) {
			de := ToDomainError(tt.in)
			assert.Equal(t, tt.wantCode, de.Code)
			assert.Equal(t, tt.in.Code, de.HTTPStatus)
		})
	}
}

func TestNewUploadError_Status(t *testing.T) {
	cause := errors.New("boom")
	assert.True(t, IsStatus(NewUploadError(cause, true), http.StatusBadRequest))
	assert.True(t, IsStatus(NewUploadError(cause, false), http.StatusInternalServerError))
	assert.ErrorIs(t, NewUploadError(cause, false), cause)
}

func TestToDomainError_Nil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
