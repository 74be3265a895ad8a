// Package session turns a signed, client-held token into the identity of the
// caller. Nothing about a session is stored server-side.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultLifetime  = 24 * time.Hour
	DefaultAlgorithm = "HS256"

	issuer = "quill"
)

var ErrInvalidToken = errors.New("invalid session token")

// Token is the whole session state: a reference to one user, nothing else
type Token struct {
	ID        string
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a shared secret
type Codec struct {
	secret   []byte
	method   jwt.SigningMethod
	lifetime time.Duration
	now      func() time.Time
}

func NewCodec(secret, algorithm string, lifetime time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}

	var method jwt.SigningMethod
	switch algorithm {
	case "HS256", "":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported session algorithm: %s", algorithm)
	}

	return &Codec{
		secret:   []byte(secret),
		method:   method,
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

func (c *Codec) Lifetime() time.Duration {
	return c.lifetime
}

// Issue starts a brand-new session for userID. Every call yields a new token
// id, so nothing from an earlier session carries over.
func (c *Codec) Issue(userID int64) Token {
	now := c.now().Truncate(time.Second)
	return Token{
		ID:        uuid.New().String(),
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(c.lifetime),
	}
}

func (c *Codec) Encode(t Token) (string, error) {
	if t.UserID == 0 {
		return "", errors.New("session token has no user")
	}

	token := jwt.NewWithClaims(c.method, claims{
		UserID: t.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        t.ID,
			Subject:   strconv.FormatInt(t.UserID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(t.IssuedAt),
			NotBefore: jwt.NewNumericDate(t.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(t.ExpiresAt),
		},
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature, algorithm and expiry. Every failure wraps
// ErrInvalidToken.
func (c *Codec) Decode(raw string) (Token, error) {
	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	cl, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || cl.UserID == 0 {
		return Token{}, ErrInvalidToken
	}

	t := Token{
		ID:     cl.ID,
		UserID: cl.UserID,
	}
	if cl.IssuedAt != nil {
		t.IssuedAt = cl.IssuedAt.Time
	}
	if cl.ExpiresAt != nil {
		t.ExpiresAt = cl.ExpiresAt.Time
	}
	return t, nil
}
