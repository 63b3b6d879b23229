package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/taskapi/internal/config"
	"github.com/deppfellow/taskapi/internal/errs"
	"github.com/deppfellow/taskapi/internal/model"
	"github.com/deppfellow/taskapi/internal/server"
)

// TokenType is the token_type returned by the token endpoint.
const TokenType = "bearer"

// ErrTokenEndpointDisabled is returned by Login when an external identity
// provider issues tokens.
var ErrTokenEndpointDisabled = errors.New("token endpoint disabled in clerk mode")

// AuthService issues and checks bearer tokens for the single configured user.
//
// In clerk mode, tokens are verified by the Clerk middleware and the service
// only configures the SDK key.
type AuthService struct {
	mode        string
	username    string
	credentials CredentialVerifier
	tokens      TokenIssuer
}

func NewAuthService(s *server.Server) (*AuthService, error) {
	return newAuthService(s.Config.Auth)
}

func newAuthService(cfg config.AuthConfig) (*AuthService, error) {
	svc := &AuthService{
		mode:        cfg.Mode,
		username:    cfg.Username,
		credentials: NewStaticCredentials(cfg),
	}

	switch cfg.Mode {
	case config.AuthModeStatic, "":
		svc.mode = config.AuthModeStatic
		svc.tokens = StaticTokenIssuer{}
	case config.AuthModeJWT:
		svc.tokens = NewJWTTokenIssuer(cfg.SecretKey, cfg.TokenTTL)
	case config.AuthModeClerk:
		clerk.SetKey(cfg.SecretKey)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}

	return svc, nil
}

func (a *AuthService) Mode() string {
	return a.mode
}

// Login exchanges a username/password pair for a bearer token.
func (a *AuthService) Login(_ context.Context, username, password string) (*model.TokenResponse, error) {
	if a.tokens == nil {
		return nil, ErrTokenEndpointDisabled
	}

	if !a.credentials.Verify(username, password) {
		return nil, errs.NewBadRequestError("Incorrect username or password", false, nil, nil, nil)
	}

	token, err := a.tokens.Issue(username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   TokenType,
	}, nil
}

// Authorize resolves a presented bearer token to the username it was issued
// for. Any token that does not name the configured user is rejected.
func (a *AuthService) Authorize(token string) (string, error) {
	if a.tokens == nil {
		return "", ErrTokenEndpointDisabled
	}

	subject, err := a.tokens.Verify(token)
	if err != nil || subject != a.username {
		return "", errs.NewUnauthorizedError("Invalid authentication credentials", false)
	}

	return subject, nil
}
