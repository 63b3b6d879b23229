package handler

import (
	"github.com/deppfellow/taskapi/internal/middleware"
	"github.com/deppfellow/taskapi/internal/model"
	"github.com/deppfellow/taskapi/internal/server"
	"github.com/deppfellow/taskapi/internal/service"
	"github.com/labstack/echo/v4"
)

type TaskHandler struct {
	Handler
	tasks *service.TaskService
}

func NewTaskHandler(s *server.Server, tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{
		Handler: NewHandler(s),
		tasks:   tasks,
	}
}

func (h *TaskHandler) CreateTask(c echo.Context, req *model.CreateTaskRequest) (*model.Task, error) {
	return h.tasks.Create(c.Request().Context(), middleware.GetUserID(c), req.TaskFields)
}

func (h *TaskHandler) ListTasks(c echo.Context, _ *model.ListTasksRequest) ([]model.Task, error) {
	return h.tasks.List(c.Request().Context())
}

func (h *TaskHandler) GetTask(c echo.Context, req *model.TaskIDRequest) (*model.Task, error) {
	return h.tasks.Get(c.Request().Context(), req.ID)
}

// UpdateTask replaces all fields of the task; PUT is unguarded so the actor
// is only known when a caller happens to be authenticated.
func (h *TaskHandler) UpdateTask(c echo.Context, req *model.UpdateTaskRequest) (*model.Task, error) {
	return h.tasks.Update(c.Request().Context(), middleware.GetUserID(c), req.ID, req.TaskFields)
}

func (h *TaskHandler) DeleteTask(c echo.Context, req *model.TaskIDRequest) (*model.DeleteTaskResponse, error) {
	return h.tasks.Delete(c.Request().Context(), middleware.GetUserID(c), req.ID)
}
