package service

import (
	"crypto/subtle"

	"github.com/deppfellow/taskapi/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier decides whether a username/password pair may obtain a token.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// StaticCredentials accepts exactly one configured account.
//
// The password is compared in constant time, or against a bcrypt hash when
// one is configured.
type StaticCredentials struct {
	username     []byte
	password     []byte
	passwordHash []byte
}

func NewStaticCredentials(cfg config.AuthConfig) *StaticCredentials {
	creds := &StaticCredentials{username: []byte(cfg.Username)}
	if cfg.PasswordHash != "" {
		creds.passwordHash = []byte(cfg.PasswordHash)
	} else {
		creds.password = []byte(cfg.Password)
	}
	return creds
}

func (c *StaticCredentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), c.username) == 1

	var passOK bool
	if c.passwordHash != nil {
		passOK = bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), c.password) == 1
	}

	return userOK && passOK
}
