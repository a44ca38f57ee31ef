package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmehra2102/todo-api/internal/domain"
	"github.com/dmehra2102/todo-api/internal/middleware"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// APIError is returned by handlers and rendered by HTTPErrorHandler.
type APIError struct {
	Status int
	Body   ErrorResponse
	Err    error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Body.Error, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Body.Error)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) StatusCode() int {
	return e.Status
}

// mapDomainError translates repository and validation failures. summary is
// the client-facing description used for 500s.
func mapDomainError(err error, summary string) *APIError {
	var ve *domain.ValidationError
	var nf *domain.NotFoundError

	switch {
	case errors.As(err, &ve):
		return &APIError{
			Status: http.StatusBadRequest,
			Body:   ErrorResponse{Error: "invalid request", Message: ve.Error()},
			Err:    err,
		}
	case errors.As(err, &nf):
		return &APIError{
			Status: http.StatusNotFound,
			Body:   ErrorResponse{Error: nf.Error()},
			Err:    err,
		}
	case errors.Is(err, domain.ErrTodoNotFound):
		return &APIError{
			Status: http.StatusNotFound,
			Body:   ErrorResponse{Error: err.Error()},
			Err:    err,
		}
	default:
		return &APIError{
			Status: http.StatusInternalServerError,
			Body:   ErrorResponse{Error: summary, Message: err.Error()},
			Err:    err,
		}
	}
}

// HTTPErrorHandler renders every error that reaches echo as a JSON body with
// the same shape as handler errors.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError
		var echoErr *echo.HTTPError

		status := http.StatusInternalServerError
		body := ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)}

		switch {
		case errors.As(err, &apiErr):
			status = apiErr.Status
			body = apiErr.Body
		case errors.As(err, &echoErr):
			status = echoErr.Code
			if msg, ok := echoErr.Message.(string); ok {
				body = ErrorResponse{Error: msg}
			} else {
				body = ErrorResponse{Error: http.StatusText(status)}
			}
		default:
			logger.Error("unhandled error",
				zap.Error(err),
				zap.String("request_id", middleware.GetRequestID(c)),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Warn("failed to write error response", zap.Error(writeErr))
		}
	}
}
