package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantKind ValidationKind
		wantMsg  string
	}{
		{"empty username", "", "a", EmptyField, "Username is required."},
		{"empty password", "a", "", EmptyField, "Password is required."},
		{"both empty", "", "", EmptyField, "Username is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)

			err := env.register(t, tt.username, tt.password)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.wantKind, validationErr.Kind)
			assert.Equal(t, tt.wantMsg, validationErr.Message)
			assert.Equal(t, 0, env.count(t, `"user"`))
		})
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	env := setupTestEnv(t)

	require.NoError(t, env.register(t, "a", "a"))

	var stored string
	require.NoError(t, env.db.Get(&stored, `SELECT password FROM "user" WHERE username = 'a'`))
	assert.NotEqual(t, "a", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("a")))
}

func TestRegister_Duplicate(t *testing.T) {
	env := setupTestEnv(t)

	require.NoError(t, env.register(t, "test", "test"))

	err := env.register(t, "test", "other")

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, DuplicateUsername, validationErr.Kind)
	assert.Equal(t, "User test is already registered.", validationErr.Message)
	assert.Equal(t, 1, env.count(t, `"user"`))
}

func TestVerify(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.register(t, "test", "test"))

	tests := []struct {
		name     string
		username string
		password string
		wantKind AuthKind
		wantMsg  string
	}{
		{"unknown username", "a", "test", UnknownUsername, "Incorrect username."},
		{"bad password", "test", "a", BadPassword, "Incorrect password."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.hasher.verifies = 0

			userID, err := env.verify(t, tt.username, tt.password)

			assert.Zero(t, userID)
			var authErr *AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.wantKind, authErr.Kind)
			assert.Equal(t, tt.wantMsg, authErr.Message)
			assert.Equal(t, 1, env.hasher.verifies, "both failures cost one comparison")

			message, ok := UserMessage(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantMsg, message)
		})
	}
}

func TestVerify_Success(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.register(t, "test", "test"))

	userID, err := env.verify(t, "test", "test")
	require.NoError(t, err)

	user, err := env.gateway(t).Users().FindByID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "test", user.Username)
}

func TestUserMessage_OtherErrors(t *testing.T) {
	_, ok := UserMessage(errors.New("disk full"))
	assert.False(t, ok)

	_, ok = UserMessage(nil)
	assert.False(t, ok)
}
