package handler

import (
	"github.com/deppfellow/taskapi/internal/model"
	"github.com/deppfellow/taskapi/internal/server"
	"github.com/deppfellow/taskapi/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Handler
	auth *service.AuthService
}

func NewAuthHandler(s *server.Server, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{
		Handler: NewHandler(s),
		auth:    auth,
	}
}

// Token exchanges form-encoded username and password for a bearer token.
func (h *AuthHandler) Token(c echo.Context, req *model.TokenRequest) (*model.TokenResponse, error) {
	return h.auth.Login(c.Request().Context(), req.Username, req.Password)
}
