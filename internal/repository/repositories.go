package repository

import (
	"github.com/deppfellow/taskapi/internal/database"
	"github.com/deppfellow/taskapi/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Tasks *TaskRepository
}

// NewRepositories constructs the repository container on the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	var pool database.Querier
	if s.DB != nil {
		pool = s.DB.Pool
	}

	return &Repositories{
		Tasks: NewTaskRepository(pool),
	}
}
