// Package sqlstore serves the catalog from a SQL database through
// go-repository-bun repositories. SQLite and Postgres are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Drivers lists the accepted driver names.
var Drivers = []string{DriverSQLite, DriverPostgres}

// OpenDB opens and pings a bun.DB for driver.
func OpenDB(ctx context.Context, driver, dsn string) (*bun.DB, error) {
	var dialect schema.Dialect
	switch driver {
	case DriverSQLite:
		dialect = sqlitedialect.New()
	case DriverPostgres:
		dialect = pgdialect.New()
	default:
		return nil, goerrors.New(fmt.Sprintf("unsupported catalog driver %q", driver), goerrors.CategoryBadInput).
			WithTextCode("CATALOG_UNSUPPORTED_DRIVER")
	}

	sqldb, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "open catalog database")
	}
	if driver == DriverSQLite {
		// in-memory databases are per connection
		sqldb.SetMaxOpenConns(1)
	}
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "ping catalog database")
	}
	return bun.NewDB(sqldb, dialect), nil
}

// Open opens the database, creates the tables and returns a Store.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	db, err := OpenDB(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	store := New(db, opts...)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}
