package sqlstore

import (
	"errors"
	"strconv"

	"github.com/dmehra2102/todo-api/internal/domain"
	"github.com/lib/pq"
	sqlitedrv "modernc.org/sqlite"
)

// storageError wraps err for op, keeping NotFound untouched so callers can
// still tell the two apart.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrTodoNotFound) {
		return err
	}

	var se *domain.StorageError
	if errors.As(err, &se) {
		return err
	}

	return &domain.StorageError{Op: op, Code: driverCode(err), Err: err}
}

// driverCode extracts the engine's error code: the SQLSTATE for Postgres,
// the extended result code for SQLite.
func driverCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	var liteErr *sqlitedrv.Error
	if errors.As(err, &liteErr) {
		return strconv.Itoa(liteErr.Code())
	}

	return ""
}
