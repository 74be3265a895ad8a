package repository

import "context"

// Store is the request-scoped handle on the relational store.
type Store interface {
	Users() UserRepository
	Posts() PostRepository

	// Write runs fn inside a single commit boundary. The Store passed to fn is
	// bound to the transaction; if fn returns an error nothing is committed.
	Write(ctx context.Context, fn func(tx Store) error) error

	// Close releases the underlying connection. It is safe to call more than once.
	Close() error
}
