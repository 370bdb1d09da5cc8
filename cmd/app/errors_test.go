package main

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"StorefrontAPI/internal/query"
	"StorefrontAPI/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestToErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		code       string
		unexpected bool
	}{
		{"validation", &services.ValidationError{Message: "validation failed", Fields: map[string]string{"email": "email"}}, http.StatusBadRequest, "VALIDATION_ERROR", false},
		{"query", &query.Error{Field: "page", Reason: "must be >= 1"}, http.StatusBadRequest, "VALIDATION_ERROR", false},
		{"invalid reference", fmt.Errorf("%w: products_category_id_fkey", services.ErrInvalidReference), http.StatusBadRequest, "INVALID_REFERENCE", false},
		{"unauthorized", fmt.Errorf("%w: missing authorization header", services.ErrUnauthorized), http.StatusUnauthorized, "UNAUTHORIZED", false},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", false},
		{"forbidden", fmt.Errorf("%w: admin role required", services.ErrForbidden), http.StatusForbidden, "FORBIDDEN", false},
		{"not found", services.ErrNotFound, http.StatusNotFound, "NOT_FOUND", false},
		{"conflict", fmt.Errorf("%w: products_slug_key", services.ErrConflict), http.StatusConflict, "CONFLICT", false},
		{"self action", fmt.Errorf("%w: cannot deactivate yourself", services.ErrSelfActionDenied), http.StatusUnprocessableEntity, "SELF_ACTION_DENIED", false},
		{"not configured", services.ErrNotConfigured, http.StatusNotImplemented, "NOT_IMPLEMENTED", false},
		{"echo 413", echo.ErrStatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", false},
		{"unknown", errors.New("pq: connection reset"), http.StatusInternalServerError, "INTERNAL", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, unexpected := toErrorResponse(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
			assert.Equal(t, body.Error, body.Message)
			assert.Equal(t, tt.unexpected, unexpected)
		})
	}
}

func TestToErrorResponse_HidesInternals(t *testing.T) {
	_, body, _ := toErrorResponse(errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	assert.Equal(t, "internal server error", body.Error)
	assert.Equal(t, "internal server error", body.Message)
	assert.Nil(t, body.Details)
}

func TestToErrorResponse_QueryDetails(t *testing.T) {
	_, body, _ := toErrorResponse(&query.Error{Field: "order", Reason: "must be asc or desc"})
	assert.Equal(t, map[string]string{"order": "must be asc or desc"}, body.Details)
}
