// Package auth issues and verifies the bearer tokens protecting the API.
// The app is single-user: credentials are configured, not stored in the
// database.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned for a missing, malformed or expired token.
	ErrInvalidToken = errors.New("invalid token")
)

type Service struct {
	secret       []byte
	username     string
	passwordHash string
	tokenTTL     time.Duration
}

func NewService(secret, username, passwordHash string, tokenTTL time.Duration) *Service {
	return &Service{
		secret:       []byte(secret),
		username:     username,
		passwordHash: passwordHash,
		tokenTTL:     tokenTTL,
	}
}

// Login checks the credentials and returns a signed token. Wrong username
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(username, password string) (string, error) {
	if username != s.username {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify parses a token and returns its subject.
func (s *Service) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}

		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// HashPassword produces a bcrypt hash suitable for the PASSWORD_HASH setting.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hash), nil
}
