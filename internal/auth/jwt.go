package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredentials is returned when a login attempt does not match the
// configured admin identity.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// ErrInvalidToken is returned when a presented token fails verification.
var ErrInvalidToken = errors.New("auth: invalid token")

// Identity describes the authenticated user carried by a verified token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Claims represents the JWT claims issued at login.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Config wires the single-admin identity and signing material.
type Config struct {
	Secret        string
	AdminEmail    string
	AdminPassword string
	TokenExpiry   time.Duration
}

// Manager issues and verifies HS256 tokens for the single admin account.
type Manager struct {
	secret      []byte
	adminEmail  string
	adminPass   string
	tokenExpiry time.Duration
	now         func() time.Time
}

// NewManager creates a token manager from the supplied configuration.
func NewManager(cfg Config) *Manager {
	expiry := cfg.TokenExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &Manager{
		secret:      []byte(cfg.Secret),
		adminEmail:  cfg.AdminEmail,
		adminPass:   cfg.AdminPassword,
		tokenExpiry: expiry,
		now:         time.Now,
	}
}

// WithClock overrides the clock used to stamp tokens. Intended for tests.
func (m *Manager) WithClock(clock func() time.Time) *Manager {
	if clock != nil {
		m.now = clock
	}
	return m
}

// Login checks the credentials against the configured admin identity and
// returns a signed token plus its expiry.
func (m *Manager) Login(email, password string) (Identity, string, time.Time, error) {
	if email != m.adminEmail || password != m.adminPass {
		return Identity{}, "", time.Time{}, ErrInvalidCredentials
	}

	identity := Identity{ID: "1", Email: m.adminEmail}
	now := m.now()
	expiresAt := now.Add(m.tokenExpiry)

	claims := &Claims{
		UserID: identity.ID,
		Email:  identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return Identity{}, "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return identity, signed, expiresAt, nil
}

// Verify parses a token string and returns the identity it carries. The
// signing method must be exactly HS256.
func (m *Manager) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	return Identity{ID: claims.UserID, Email: claims.Email}, nil
}
