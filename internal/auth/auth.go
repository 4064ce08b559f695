// Package auth resolves the session token issued after third-party login
// into a request-scoped identity. The core never reads cookies or tokens
// itself; handlers receive the identity through the request context.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds session-token verification parameters.
type Config struct {
	Secret string
	Issuer string
}

// Identity is the authenticated user resolved once per request.
type Identity struct {
	// UserID is the identity provider's subject id.
	UserID string
	// FirstName is the given name carried in the token, may be empty.
	FirstName string
}

// ErrMissingToken is returned when no session token is present.
var ErrMissingToken = errors.New("missing session token")

// ErrInvalidToken wraps parsing/validation errors.
var ErrInvalidToken = errors.New("invalid session token")

// Parse validates a session token and returns the identity it carries.
func Parse(token string, cfg Config) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, ErrInvalidToken
	}
	firstName, _ := claims["given_name"].(string)

	return &Identity{UserID: subject, FirstName: firstName}, nil
}
