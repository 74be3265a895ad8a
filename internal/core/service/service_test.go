package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/martijn/quill/internal/core/repository"
	"github.com/martijn/quill/internal/infrastructure/database"
)

// countingHasher records how many comparisons were made
type countingHasher struct {
	*BcryptHasher
	verifies int
}

func (h *countingHasher) Verify(password, hash string) (bool, error) {
	h.verifies++
	return h.BcryptHasher.Verify(password, hash)
}

type testEnv struct {
	db          *database.DB
	hasher      *countingHasher
	credentials *CredentialService
	posts       *PostService
}

// setupTestEnv creates services over an in-memory SQLite database
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(database.Options{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.EnsureSchema(context.Background()))

	hasher := &countingHasher{BcryptHasher: NewBcryptHasher(bcrypt.MinCost)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		db:          db,
		hasher:      hasher,
		credentials: NewCredentialService(hasher, logger),
		posts:       NewPostService(),
	}
}

// gateway opens a request-scoped store that is closed with the test. The
// SQLite pool holds a single connection, so only one gateway may be in use
// at a time; use withStore when the test touches the database afterwards.
func (env *testEnv) gateway(t *testing.T) *database.Gateway {
	t.Helper()

	gateway := env.db.Gateway()
	t.Cleanup(func() { gateway.Close() })
	return gateway
}

// withStore runs fn with a gateway that is closed as soon as fn returns
func (env *testEnv) withStore(t *testing.T, fn func(store repository.Store)) {
	t.Helper()

	gateway := env.db.Gateway()
	defer func() {
		require.NoError(t, gateway.Close())
	}()
	fn(gateway)
}

func (env *testEnv) register(t *testing.T, username, password string) error {
	t.Helper()

	var err error
	env.withStore(t, func(store repository.Store) {
		err = env.credentials.Register(context.Background(), store, username, password)
	})
	return err
}

func (env *testEnv) verify(t *testing.T, username, password string) (int64, error) {
	t.Helper()

	var (
		userID int64
		err    error
	)
	env.withStore(t, func(store repository.Store) {
		userID, err = env.credentials.Verify(context.Background(), store, username, password)
	})
	return userID, err
}

func (env *testEnv) count(t *testing.T, table string) int {
	t.Helper()

	var n int
	require.NoError(t, env.db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}
