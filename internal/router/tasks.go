package router

import (
	"net/http"

	"github.com/deppfellow/taskapi/internal/config"
	"github.com/deppfellow/taskapi/internal/handler"
	"github.com/deppfellow/taskapi/internal/middleware"
	"github.com/deppfellow/taskapi/internal/service"
	"github.com/labstack/echo/v4"
)

// registerAuthRoutes serves POST /token unless an external identity
// provider issues the tokens.
func registerAuthRoutes(r *echo.Echo, h *handler.Handlers, services *service.Services) {
	if services.Auth.Mode() == config.AuthModeClerk {
		return
	}

	r.POST("/token", handler.Handle(h.Auth.Handler, h.Auth.Token, http.StatusOK))
}

// registerTaskRoutes mounts the task CRUD. Create and delete require a
// bearer token; auth runs before a database session is taken.
func registerTaskRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	var session []echo.MiddlewareFunc
	if m.Session != nil {
		session = append(session, m.Session.DBSession())
	}
	guarded := append([]echo.MiddlewareFunc{m.Auth.RequireAuth}, session...)

	tasks := r.Group("/tasks")

	tasks.POST("", handler.Handle(h.Tasks.Handler, h.Tasks.CreateTask, http.StatusOK), guarded...)
	tasks.GET("", handler.Handle(h.Tasks.Handler, h.Tasks.ListTasks, http.StatusOK), session...)
	tasks.GET("/:id", handler.Handle(h.Tasks.Handler, h.Tasks.GetTask, http.StatusOK), session...)
	tasks.PUT("/:id", handler.Handle(h.Tasks.Handler, h.Tasks.UpdateTask, http.StatusOK), session...)
	tasks.DELETE("/:id", handler.Handle(h.Tasks.Handler, h.Tasks.DeleteTask, http.StatusOK), guarded...)
}
