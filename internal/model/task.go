package model

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Task is a persisted task record.
//
// Description is a pointer so an absent description renders as JSON null.
type Task struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	IsCompleted bool    `json:"is_completed"`
}

// TaskFields are the client-writable fields of a Task. Create and Update
// both take the full set; omitted fields fall back to their zero value.
type TaskFields struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	IsCompleted bool    `json:"is_completed"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	TaskFields
}

func (r *CreateTaskRequest) Validate() error {
	return validate.Struct(r)
}

// ListTasksRequest is the (empty) input of GET /tasks.
type ListTasksRequest struct{}

func (r *ListTasksRequest) Validate() error {
	return nil
}

// TaskIDRequest addresses a single task through the {id} path parameter.
type TaskIDRequest struct {
	ID int64 `param:"id"`
}

func (r *TaskIDRequest) Validate() error {
	return nil
}

// UpdateTaskRequest is PUT /tasks/{id}: the path id plus a full replacement body.
type UpdateTaskRequest struct {
	ID int64 `param:"id" json:"-"`
	TaskFields
}

func (r *UpdateTaskRequest) Validate() error {
	return validate.Struct(r)
}

// DeleteTaskResponse confirms a deletion.
type DeleteTaskResponse struct {
	Message string `json:"message"`
}
