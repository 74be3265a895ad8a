package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/samber/oops"

	"github.com/martijn/quill/internal/core/repository"
)

// ErrGatewayClosed is returned when a closed Gateway is used again
var ErrGatewayClosed = errors.New("database gateway is closed")

// querier is the subset of sqlx shared by *sqlx.Conn, *sqlx.Tx and Gateway
type querier interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

// Gateway is the per-request handle on the store. The connection is taken
// from the pool on first use, reused for every statement of the request and
// handed back by Close. A Gateway is not safe for concurrent use.
type Gateway struct {
	db     *DB
	conn   *sqlx.Conn
	closed bool
}

var _ repository.Store = (*Gateway)(nil)

// Gateway returns a fresh request-scoped gateway; no connection is held yet
func (db *DB) Gateway() *Gateway {
	return &Gateway{db: db}
}

func (g *Gateway) acquire(ctx context.Context) (*sqlx.Conn, error) {
	if g.closed {
		return nil, ErrGatewayClosed
	}
	if g.conn == nil {
		conn, err := g.db.Connx(ctx)
		if err != nil {
			return nil, oops.In("database").Wrapf(err, "failed to acquire connection")
		}
		g.conn = conn
	}
	return g.conn, nil
}

// Acquired reports whether the gateway currently holds a connection
func (g *Gateway) Acquired() bool {
	return g.conn != nil
}

func (g *Gateway) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	conn, err := g.acquire(ctx)
	if err != nil {
		return err
	}
	return conn.GetContext(ctx, dest, query, args...)
}

func (g *Gateway) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	conn, err := g.acquire(ctx)
	if err != nil {
		return err
	}
	return conn.SelectContext(ctx, dest, query, args...)
}

func (g *Gateway) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	conn, err := g.acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn.ExecContext(ctx, query, args...)
}

func (g *Gateway) Rebind(query string) string {
	return g.db.Rebind(query)
}

func (g *Gateway) Users() repository.UserRepository {
	return &userRepository{q: g}
}

func (g *Gateway) Posts() repository.PostRepository {
	return &postRepository{q: g}
}

// Write runs fn in a transaction on the request's connection and commits
// only if fn succeeds.
func (g *Gateway) Write(ctx context.Context, fn func(tx repository.Store) error) error {
	conn, err := g.acquire(ctx)
	if err != nil {
		return err
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return oops.In("database").Wrapf(err, "failed to begin transaction")
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&txStore{Tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return oops.In("database").Wrapf(err, "failed to commit transaction")
	}
	committed = true
	return nil
}

// Close returns the connection to the pool. Further use fails with
// ErrGatewayClosed.
func (g *Gateway) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if g.conn == nil {
		return nil
	}
	err := g.conn.Close()
	g.conn = nil
	if err != nil {
		return oops.In("database").Wrapf(err, "failed to release connection")
	}
	return nil
}

// txStore is the Store handed to Write callbacks
type txStore struct {
	*sqlx.Tx
}

func (s *txStore) Users() repository.UserRepository {
	return &userRepository{q: s.Tx}
}

func (s *txStore) Posts() repository.PostRepository {
	return &postRepository{q: s.Tx}
}

// Write joins the surrounding transaction
func (s *txStore) Write(ctx context.Context, fn func(tx repository.Store) error) error {
	return fn(s)
}

func (s *txStore) Close() error {
	return nil
}
