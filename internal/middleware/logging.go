package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID reuses the caller's X-Request-ID or generates one, and echoes it
// back on the response.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			c.Set(requestIDKey, requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			return next(c)
		}
	}
}

func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func Logging(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			requestID := GetRequestID(c)

			logger.Debug("HTTP request started",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("request_id", requestID),
			)

			err := next(c)

			duration := time.Since(start)
			status := ResolveStatus(c, err)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("route", c.Path()),
				zap.String("path", req.URL.Path),
				zap.String("request_id", requestID),
				zap.Int("status", status),
				zap.Duration("duration", duration),
				zap.String("ip", c.RealIP()),
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("HTTP request failed", append(fields, zap.Error(err))...)
			case status >= http.StatusBadRequest:
				logger.Warn("HTTP request rejected", append(fields, zap.Error(err))...)
			default:
				logger.Info("HTTP request completed", fields...)
			}

			return err
		}
	}
}

// ResolveStatus reports the status code the client will see. When err is
// non-nil the response has not been written yet, so it is derived from err.
func ResolveStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}

	var coded interface{ StatusCode() int }
	if errors.As(err, &coded) {
		return coded.StatusCode()
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}

	return http.StatusInternalServerError
}
