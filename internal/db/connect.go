package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens the report-log DB and ensures its schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:tracker.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/tracker?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one writer; keeps :memory: databases on a single connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS report_log (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  report_id TEXT NOT NULL UNIQUE,
  typ TEXT NOT NULL,
  roll_no TEXT NOT NULL DEFAULT '',
  student_name TEXT NOT NULL DEFAULT '',
  subjects INTEGER NOT NULL,
  final_percentage REAL NOT NULL,
  final_grade TEXT NOT NULL,
  grade_points INTEGER NOT NULL,
  export_key TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS report_log (
  seq BIGSERIAL PRIMARY KEY,
  report_id TEXT NOT NULL UNIQUE,
  typ TEXT NOT NULL,
  roll_no TEXT NOT NULL DEFAULT '',
  student_name TEXT NOT NULL DEFAULT '',
  subjects INTEGER NOT NULL,
  final_percentage DOUBLE PRECISION NOT NULL,
  final_grade TEXT NOT NULL,
  grade_points INTEGER NOT NULL,
  export_key TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL
);
`
