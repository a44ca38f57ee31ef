package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmehra2102/todo-api/internal/domain"
	"github.com/dmehra2102/todo-api/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultQueryTimeout = 5 * time.Second

const selectColumns = `SELECT id, value, is_completed, created_at FROM todo_items`

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repository struct {
	db           *sql.DB
	dialect      Dialect
	queryTimeout time.Duration
	tracer       trace.Tracer
}

var _ domain.Repository = (*Repository)(nil)

func NewRepository(db *sql.DB, dialect Dialect, cfg config.DatabaseConfig) *Repository {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	return &Repository{
		db:           db,
		dialect:      dialect,
		queryTimeout: timeout,
		tracer:       otel.Tracer("sql-repository"),
	}
}

func (r *Repository) List(ctx context.Context, filter domain.ListFilter) (*domain.PageResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "repository.List")
	defer span.End()

	span.SetAttributes(
		attribute.Int("page", filter.Page),
		attribute.Int("page_size", filter.PageSize),
	)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM todo_items").Scan(&total); err != nil {
		span.RecordError(err)
		return nil, storageError("list", fmt.Errorf("failed to count todo items: %w", err))
	}

	offset, ok := filter.Offset()
	if !ok || int64(offset) >= total {
		span.SetAttributes(attribute.Int64("total_count", total), attribute.Bool("past_end", true))
		return domain.NewPageResult(nil, total, filter), nil
	}

	// id breaks ties between rows inserted in the same transaction.
	query := r.dialect.Rebind(selectColumns + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`)

	rows, err := r.db.QueryContext(ctx, query, filter.PageSize, offset)
	if err != nil {
		span.RecordError(err)
		return nil, storageError("list", fmt.Errorf("failed to list todo items: %w", err))
	}
	defer rows.Close()

	items := make([]*domain.TodoItem, 0, filter.PageSize)
	for rows.Next() {
		item, err := scanTodoItem(rows)
		if err != nil {
			span.RecordError(err)
			return nil, storageError("list", fmt.Errorf("failed to scan todo item: %w", err))
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, storageError("list", fmt.Errorf("error iterating todo items: %w", err))
	}

	span.SetAttributes(
		attribute.Int64("total_count", total),
		attribute.Int("returned_count", len(items)),
	)

	return domain.NewPageResult(items, total, filter), nil
}

// Add inserts the row and re-reads it inside one transaction so the caller
// gets the store-assigned id and created_at.
func (r *Repository) Add(ctx context.Context, value string, isCompleted bool) (*domain.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "repository.Add")
	defer span.End()

	var created *domain.TodoItem
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		insert := r.dialect.Rebind(`INSERT INTO todo_items (value, is_completed) VALUES (?, ?) RETURNING id`)

		var id int64
		if err := tx.QueryRowContext(ctx, insert, value, isCompleted).Scan(&id); err != nil {
			return fmt.Errorf("failed to insert todo item: %w", err)
		}
		span.SetAttributes(attribute.Int64("todo.id", id))

		item, err := r.getByID(ctx, tx, id)
		if err != nil {
			return err
		}
		created = item
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, storageError("add", err)
	}

	return created, nil
}

// ToggleComplete negates is_completed with a single UPDATE, so concurrent
// toggles of the same id never lose a write.
func (r *Repository) ToggleComplete(ctx context.Context, id int64) (*domain.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "repository.ToggleComplete")
	defer span.End()

	span.SetAttributes(attribute.Int64("todo.id", id))

	var updated *domain.TodoItem
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		query := r.dialect.Rebind(`UPDATE todo_items SET is_completed = NOT is_completed WHERE id = ?`)

		result, err := tx.ExecContext(ctx, query, id)
		if err != nil {
			return fmt.Errorf("failed to toggle todo item: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			span.SetAttributes(attribute.Bool("not_found", true))
			return &domain.NotFoundError{ID: id}
		}

		item, err := r.getByID(ctx, tx, id)
		if err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrTodoNotFound) {
			span.RecordError(err)
		}
		return nil, storageError("toggle", err)
	}

	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "repository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("todo.id", id))

	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM todo_items WHERE id = ?`), id)
	if err != nil {
		span.RecordError(err)
		return storageError("delete", fmt.Errorf("failed to delete todo item: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageError("delete", fmt.Errorf("failed to get rows affected: %w", err))
	}

	if rowsAffected == 0 {
		span.SetAttributes(attribute.Bool("not_found", true))
		return &domain.NotFoundError{ID: id}
	}

	return nil
}

func (r *Repository) AddBatch(ctx context.Context, items []*domain.TodoItem) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "repository.AddBatch")
	defer span.End()

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, r.dialect.Rebind(`
			INSERT INTO todo_items (value, is_completed) VALUES (?, ?)
		`))
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, item := range items {
			if _, err := stmt.ExecContext(ctx, item.Value, item.IsCompleted); err != nil {
				return fmt.Errorf("failed to insert todo item %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return storageError("add_batch", err)
	}

	span.SetAttributes(attribute.Int("batch_size", len(items)))
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	if err := r.db.PingContext(ctx); err != nil {
		return storageError("ping", err)
	}
	return nil
}

// withTx runs fn in a transaction. The deferred rollback is a no-op once
// Commit has succeeded.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *Repository) getByID(ctx context.Context, q queryer, id int64) (*domain.TodoItem, error) {
	row := q.QueryRowContext(ctx, r.dialect.Rebind(selectColumns+` WHERE id = ?`), id)

	item, err := scanTodoItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to get todo item: %w", err)
	}
	return item, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodoItem(s scanner) (*domain.TodoItem, error) {
	item := &domain.TodoItem{}
	var createdAt timestamp

	if err := s.Scan(&item.ID, &item.Value, &item.IsCompleted, &createdAt); err != nil {
		return nil, err
	}

	item.CreatedAt = createdAt.Time
	return item, nil
}
