// Package sqlstore mirrors the storefront catalogue and carts in a relational
// database through go-repository-bun repositories. SQLite (mattn/go-sqlite3)
// and Postgres (lib/pq) are supported.
//
// Products, collections, pages and carts are rows keyed by a generated UUID,
// with the storefront handle (or cart id) as the repository identifier.
// Nested product data such as variants, images and SEO is stored as JSON.
// Collection membership and menu items live in their own ordered tables.
//
//	db, err := sqlstore.Open("sqlite3", "file:store.db")
//	store := sqlstore.New(db)
//	err = store.CreateSchema(ctx)
//	err = store.Seed(ctx, catalog)
package sqlstore

import (
	"database/sql"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Open connects to dsn with driver and wraps the pool in a bun.DB using the
// matching dialect. In-memory SQLite databases are pinned to one connection
// so every query sees the same database.
func Open(driver, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "sqlstore: open "+driver)
	}

	switch driver {
	case DriverSQLite:
		if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
			sqldb.SetMaxOpenConns(1)
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case DriverPostgres:
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		_ = sqldb.Close()
		return nil, goerrors.New("sqlstore: unsupported driver "+driver, goerrors.CategoryValidation).
			WithTextCode("UNSUPPORTED_DRIVER")
	}
}
