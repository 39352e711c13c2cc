// Package auth resolves bearer credentials issued by the external identity
// provider into stable external user identifiers.
package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// Verifier validates a bearer credential and returns the subject it was
// issued for.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// JWTConfig describes how tokens are checked. Exactly one of Secret or
// PublicKeyPEM must be set.
type JWTConfig struct {
	Secret       string
	PublicKeyPEM []byte
	Issuer       string
	Audience     string
}

// JWTVerifier validates HS256 or RS256 signed identity tokens.
type JWTVerifier struct {
	secret    []byte
	publicKey *rsa.PublicKey
	options   []jwt.ParserOption
}

// NewJWTVerifier builds a verifier from cfg
func NewJWTVerifier(cfg JWTConfig) (*JWTVerifier, error) {
	v := &JWTVerifier{}

	switch {
	case cfg.Secret != "" && len(cfg.PublicKeyPEM) > 0:
		return nil, errors.New("configure either a shared secret or a public key, not both")
	case cfg.Secret != "":
		v.secret = []byte(cfg.Secret)
		v.options = append(v.options, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	case len(cfg.PublicKeyPEM) > 0:
		key, err := jwt.ParseRSAPublicKeyFromPEM(cfg.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		v.publicKey = key
		v.options = append(v.options, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	default:
		return nil, errors.New("a shared secret or a public key is required")
	}

	v.options = append(v.options, jwt.WithExpirationRequired())
	if cfg.Issuer != "" {
		v.options = append(v.options, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		v.options = append(v.options, jwt.WithAudience(cfg.Audience))
	}

	return v, nil
}

// NewJWTVerifierFromFile reads the PEM public key at path
func NewJWTVerifierFromFile(path, issuer, audience string) (*JWTVerifier, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	return NewJWTVerifier(JWTConfig{PublicKeyPEM: pem, Issuer: issuer, Audience: audience})
}

// Verify parses and validates the token and returns its subject claim.
func (v *JWTVerifier) Verify(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, v.key, v.options...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return "", ErrInvalidToken
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return subject, nil
}

func (v *JWTVerifier) key(token *jwt.Token) (interface{}, error) {
	if v.publicKey != nil {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.publicKey, nil
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return v.secret, nil
}

// StaticVerifier maps fixed tokens to subjects. It is meant for local
// development and tests.
type StaticVerifier map[string]string

// Verify looks the token up in the map
func (v StaticVerifier) Verify(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	subject, ok := v[token]
	if !ok {
		return "", ErrInvalidToken
	}
	return subject, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}
