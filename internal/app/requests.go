package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/dmehra2102/todo-api/internal/domain"
	"github.com/dmehra2102/todo-api/internal/infrastructure/config"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AddTodoRequest struct {
	Value       string `json:"value" validate:"required,max=255"`
	IsCompleted *bool  `json:"isCompleted"`
}

type DeleteTodoResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON parses the request body regardless of Content-Type. Every
// failure is a client error.
func decodeJSON(c echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError("body", "request body is required")
		}
		return domain.NewValidationError("body", "invalid JSON: "+err.Error())
	}

	if dec.More() {
		return domain.NewValidationError("body", "unexpected data after JSON object")
	}

	return nil
}

func validateStruct(v *validator.Validate, payload any) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return domain.NewValidationError("", err.Error())
	}

	fe := validationErrors[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "max":
		msg = fmt.Sprintf("must not exceed %s characters", fe.Param())
	default:
		msg = fmt.Sprintf("failed %s validation", fe.Tag())
	}

	return domain.NewValidationError(fe.Field(), msg)
}

func parseID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, domain.NewValidationError("id", fmt.Sprintf("%q is not a positive integer", raw))
	}
	return id, nil
}

func parseListFilter(c echo.Context, cfg config.APIConfig) (domain.ListFilter, error) {
	filter := domain.ListFilter{Page: 1, PageSize: cfg.DefaultPageSize}

	err := echo.QueryParamsBinder(c).
		Int("page", &filter.Page).
		Int("pageSize", &filter.PageSize).
		BindError()
	if err != nil {
		var be *echo.BindingError
		if errors.As(err, &be) {
			return filter, domain.NewValidationError(be.Field, "must be an integer")
		}
		return filter, domain.NewValidationError("query", err.Error())
	}

	filter.Normalize(cfg.DefaultPageSize, cfg.MaxPageSize)
	return filter, nil
}
