package sqlstore

import (
	"fmt"

	"github.com/dmehra2102/todo-api/internal/infrastructure/config"
	"github.com/jmoiron/sqlx"
)

// Dialect captures the few places the supported engines disagree.
// Queries are written with '?' placeholders and rebound per dialect.
type Dialect struct {
	Name       string
	DriverName string
	bindType   int
}

var (
	Postgres = Dialect{Name: config.DriverPostgres, DriverName: "postgres", bindType: sqlx.DOLLAR}
	SQLite   = Dialect{Name: config.DriverSQLite, DriverName: "sqlite", bindType: sqlx.QUESTION}
)

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverPostgres:
		return Postgres, nil
	case config.DriverSQLite:
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver: %q", driver)
	}
}

// Rebind rewrites '?' placeholders into the engine's bind style.
func (d Dialect) Rebind(query string) string {
	return sqlx.Rebind(d.bindType, query)
}
