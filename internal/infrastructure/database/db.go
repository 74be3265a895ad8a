package database

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/samber/oops"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS "user" (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS post (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		author_id INTEGER NOT NULL,
		created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		FOREIGN KEY (author_id) REFERENCES "user" (id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_post_created ON post(created)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS "user" (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS post (
		id BIGSERIAL PRIMARY KEY,
		author_id BIGINT NOT NULL REFERENCES "user" (id),
		created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		title TEXT NOT NULL,
		body TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_post_created ON post(created)`,
}

// post goes first so the foreign key never blocks the drop
var dropSchema = []string{
	`DROP TABLE IF EXISTS post`,
	`DROP TABLE IF EXISTS "user"`,
}

type Options struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

type DB struct {
	*sqlx.DB
	driver string
}

// Open connects to the configured store. SQLite is limited to a single open
// connection, which also keeps ":memory:" databases alive across requests.
func Open(opts Options) (*DB, error) {
	var driverName string
	switch opts.Driver {
	case DriverSQLite, "":
		opts.Driver = DriverSQLite
		driverName = "sqlite"
	case DriverPostgres:
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", opts.Driver)
	}

	db, err := sqlx.Connect(driverName, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)

		// Enable WAL mode for better concurrency (allows concurrent reads/writes)
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}

		if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}

		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	return &DB{DB: db, driver: opts.Driver}, nil
}

func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// EnsureSchema creates missing tables and leaves existing data untouched
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range db.schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return oops.In("database").With("driver", db.driver).Wrapf(err, "failed to create schema")
		}
	}
	return nil
}

// InitSchema drops every table and recreates the schema in one transaction.
// All existing users and posts are lost.
func (db *DB) InitSchema(ctx context.Context) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return oops.In("database").Wrapf(err, "failed to begin schema reset")
	}
	defer tx.Rollback()

	statements := append(append([]string{}, dropSchema...), db.schema()...)
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return oops.In("database").With("driver", db.driver).Wrapf(err, "failed to reset schema")
		}
	}

	if err := tx.Commit(); err != nil {
		return oops.In("database").Wrapf(err, "failed to commit schema reset")
	}
	return nil
}

func (db *DB) schema() []string {
	if db.driver == DriverPostgres {
		return postgresSchema
	}
	return sqliteSchema
}
