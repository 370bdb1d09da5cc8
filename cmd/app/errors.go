package main

import (
	"errors"
	"net/http"

	"StorefrontAPI/internal/query"
	"StorefrontAPI/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// errorResponse carries the text twice: "error" for API clients and
// "message" for the web frontend.
type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// toErrorResponse maps a service error to its HTTP status and body. The
// boolean reports whether the error is unexpected and worth logging.
func toErrorResponse(err error) (int, errorResponse, bool) {
	status, body, unexpected := classifyError(err)
	body.Message = body.Error
	return status, body, unexpected
}

func classifyError(err error) (int, errorResponse, bool) {
	var (
		verr *services.ValidationError
		qerr *query.Error
		herr *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, errorResponse{Error: verr.Message, Code: "VALIDATION_ERROR", Details: verr.Fields}, false
	case errors.As(err, &qerr):
		return http.StatusBadRequest, errorResponse{
			Error:   "invalid query parameters",
			Code:    "VALIDATION_ERROR",
			Details: map[string]string{qerr.Field: qerr.Reason},
		}, false
	case errors.Is(err, services.ErrInvalidReference):
		return http.StatusBadRequest, errorResponse{Error: "referenced resource does not exist", Code: "INVALID_REFERENCE"}, false
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials", Code: "INVALID_CREDENTIALS"}, false
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{Error: err.Error(), Code: "UNAUTHORIZED"}, false
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: err.Error(), Code: "FORBIDDEN"}, false
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "resource not found", Code: "NOT_FOUND"}, false
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, errorResponse{Error: err.Error(), Code: "CONFLICT"}, false
	case errors.Is(err, services.ErrSelfActionDenied):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: "SELF_ACTION_DENIED"}, false
	case errors.Is(err, services.ErrNotConfigured):
		return http.StatusNotImplemented, errorResponse{Error: err.Error(), Code: "NOT_IMPLEMENTED"}, false
	case errors.As(err, &herr):
		msg := http.StatusText(herr.Code)
		if s, ok := herr.Message.(string); ok {
			msg = s
		}
		return herr.Code, errorResponse{Error: msg, Code: httpCode(herr.Code)}, herr.Code >= 500
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "INTERNAL"}, true
	}
}

func httpCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	default:
		if status >= 500 {
			return "INTERNAL"
		}
		return "ERROR"
	}
}

func httpErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body, unexpected := toErrorResponse(err)
		if unexpected {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Warn("failed to write error response", zap.Error(err))
		}
	}
}
