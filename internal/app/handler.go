package app

import (
	"fmt"
	"net/http"

	"github.com/dmehra2102/todo-api/internal/domain"
	"github.com/dmehra2102/todo-api/internal/infrastructure/config"
	"github.com/dmehra2102/todo-api/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type TodoHandler struct {
	repo     domain.Repository
	logger   *zap.Logger
	tracer   trace.Tracer
	validate *validator.Validate
	cfg      config.APIConfig
}

func NewTodoHandler(repo domain.Repository, logger *zap.Logger, cfg config.APIConfig) *TodoHandler {
	return &TodoHandler{
		repo:     repo,
		logger:   logger,
		tracer:   otel.Tracer("todo-handler"),
		validate: newValidator(),
		cfg:      cfg,
	}
}

// Register mounts the todo routes under /api plus the health check.
func (h *TodoHandler) Register(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/get-todo", h.ListTodos)
	api.POST("/add-todo", h.AddTodo)
	api.POST("/update-todo/:id", h.UpdateTodo)
	api.POST("/del-todo/:id", h.DeleteTodo)

	e.GET("/healthz", h.Health)
}

func (h *TodoHandler) ListTodos(c echo.Context) error {
	ctx, span := h.tracer.Start(c.Request().Context(), "ListTodos")
	defer span.End()

	filter, err := parseListFilter(c, h.cfg)
	if err != nil {
		return mapDomainError(err, "failed to list todo items")
	}

	span.SetAttributes(
		attribute.Int("page", filter.Page),
		attribute.Int("page_size", filter.PageSize),
	)

	page, err := h.repo.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("failed to list todo items",
			zap.Error(err),
			zap.Int("page", filter.Page),
			zap.Int("page_size", filter.PageSize),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		return mapDomainError(err, "failed to list todo items")
	}

	return c.JSON(http.StatusOK, page)
}

func (h *TodoHandler) AddTodo(c echo.Context) error {
	ctx, span := h.tracer.Start(c.Request().Context(), "AddTodo")
	defer span.End()

	// Validate Request
	var req AddTodoRequest
	if err := decodeJSON(c, &req); err != nil {
		return mapDomainError(err, "failed to add todo item")
	}
	if err := validateStruct(h.validate, &req); err != nil {
		return mapDomainError(err, "failed to add todo item")
	}

	// create domain entity
	item, err := domain.NewTodoItem(req.Value, req.IsCompleted != nil && *req.IsCompleted)
	if err != nil {
		return mapDomainError(err, "failed to add todo item")
	}

	created, err := h.repo.Add(ctx, item.Value, item.IsCompleted)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("failed to persist todo item",
			zap.Error(err),
			zap.Int("value_length", len(item.Value)),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		return mapDomainError(err, "failed to add todo item")
	}

	span.SetAttributes(attribute.Int64("todo.id", created.ID))
	h.logger.Info("todo item created",
		zap.Int64("todo_id", created.ID),
		zap.String("request_id", middleware.GetRequestID(c)),
	)

	return c.JSON(http.StatusCreated, created)
}

// UpdateTodo toggles the completion flag of one item.
func (h *TodoHandler) UpdateTodo(c echo.Context) error {
	ctx, span := h.tracer.Start(c.Request().Context(), "UpdateTodo")
	defer span.End()

	id, err := parseID(c)
	if err != nil {
		return mapDomainError(err, "failed to update todo item")
	}
	span.SetAttributes(attribute.Int64("todo.id", id))

	updated, err := h.repo.ToggleComplete(ctx, id)
	if err != nil {
		apiErr := mapDomainError(err, "failed to update todo item")
		if apiErr.Status == http.StatusInternalServerError {
			span.RecordError(err)
			h.logger.Error("failed to toggle todo item",
				zap.Error(err),
				zap.Int64("todo_id", id),
				zap.String("request_id", middleware.GetRequestID(c)),
			)
		}
		return apiErr
	}

	h.logger.Info("todo item toggled",
		zap.Int64("todo_id", id),
		zap.Bool("is_completed", updated.IsCompleted),
		zap.String("request_id", middleware.GetRequestID(c)),
	)

	return c.JSON(http.StatusOK, updated)
}

func (h *TodoHandler) DeleteTodo(c echo.Context) error {
	ctx, span := h.tracer.Start(c.Request().Context(), "DeleteTodo")
	defer span.End()

	id, err := parseID(c)
	if err != nil {
		return mapDomainError(err, "failed to delete todo item")
	}
	span.SetAttributes(attribute.Int64("todo.id", id))

	if err := h.repo.Delete(ctx, id); err != nil {
		apiErr := mapDomainError(err, "failed to delete todo item")
		if apiErr.Status == http.StatusInternalServerError {
			span.RecordError(err)
			h.logger.Error("failed to delete todo item",
				zap.Error(err),
				zap.Int64("todo_id", id),
				zap.String("request_id", middleware.GetRequestID(c)),
			)
		}
		return apiErr
	}

	h.logger.Info("todo item deleted",
		zap.Int64("todo_id", id),
		zap.String("request_id", middleware.GetRequestID(c)),
	)

	return c.JSON(http.StatusOK, DeleteTodoResponse{
		Success: true,
		Message: fmt.Sprintf("todo item with id %d deleted", id),
	})
}

func (h *TodoHandler) Health(c echo.Context) error {
	if err := h.repo.Ping(c.Request().Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
