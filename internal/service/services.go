// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/deppfellow/taskapi/internal/lib/job"
	"github.com/deppfellow/taskapi/internal/repository"
	"github.com/deppfellow/taskapi/internal/server"
)

type Services struct {
	Auth  *AuthService
	Tasks *TaskService
	Job   *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	authService, err := NewAuthService(s)
	if err != nil {
		return nil, err
	}

	// A nil *JobService must not become a non-nil EventPublisher.
	var events EventPublisher
	if s.Job != nil {
		events = s.Job
	}

	return &Services{
		Auth:  authService,
		Tasks: NewTaskService(repos.Tasks, events, s.Logger),
		Job:   s.Job,
	}, nil
}
