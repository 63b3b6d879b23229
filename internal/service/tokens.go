package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by TokenIssuer.Verify for any unusable token.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer mints bearer tokens for a subject and recovers the subject
// from a presented token.
type TokenIssuer interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
}

// StaticTokenIssuer uses the subject itself as the token. It never expires.
type StaticTokenIssuer struct{}

func (StaticTokenIssuer) Issue(subject string) (string, error) {
	return subject, nil
}

func (StaticTokenIssuer) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}

// jwtIssuerName is the iss claim of every token this service signs.
const jwtIssuerName = "taskapi"

// JWTTokenIssuer signs HS256 tokens carrying sub, iss, iat and exp.
type JWTTokenIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewJWTTokenIssuer(secret string, ttl time.Duration) *JWTTokenIssuer {
	return &JWTTokenIssuer{
		key: []byte(secret),
		ttl: ttl,
		now: time.Now,
	}
}

func (j *JWTTokenIssuer) Issue(subject string) (string, error) {
	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		Issuer:   jwtIssuerName,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if j.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (j *JWTTokenIssuer) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return j.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(jwtIssuerName),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
