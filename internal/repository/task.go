package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/taskapi/internal/database"
	"github.com/deppfellow/taskapi/internal/model"
	"github.com/deppfellow/taskapi/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

const tasksTable = "tasks"

const taskColumns = "id, title, description, is_completed"

// TaskRepository reads and writes the tasks table.
//
// Every method runs on the request session found in ctx, and only falls back
// to the pool when called outside a request.
type TaskRepository struct {
	pool database.Querier
}

func NewTaskRepository(pool database.Querier) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) q(ctx context.Context) database.Querier {
	return database.QuerierFor(ctx, r.pool)
}

func scanTask(row pgx.Row) (*model.Task, error) {
	var task model.Task
	if err := row.Scan(&task.ID, &task.Title, &task.Description, &task.IsCompleted); err != nil {
		return nil, err
	}
	return &task, nil
}

// Create inserts a task and returns it with its generated id.
func (r *TaskRepository) Create(ctx context.Context, fields model.TaskFields) (*model.Task, error) {
	stmt := `
		INSERT INTO tasks (title, description, is_completed)
		VALUES (@title, @description, @is_completed)
		RETURNING ` + taskColumns

	task, err := scanTask(r.q(ctx).QueryRow(ctx, stmt, pgx.NamedArgs{
		"title":        fields.Title,
		"description":  fields.Description,
		"is_completed": fields.IsCompleted,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	return task, nil
}

// List returns every task in id order. An empty table yields an empty slice.
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Task])
	if err != nil {
		return nil, fmt.Errorf("failed to collect task rows: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Get returns the task with id, or a "tasks" tagged pgx.ErrNoRows.
func (r *TaskRepository) Get(ctx context.Context, id int64) (*model.Task, error) {
	task, err := scanTask(r.q(ctx).QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = @id`,
		pgx.NamedArgs{"id": id},
	))
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", id, sqlerr.WrapNoRows(tasksTable, err))
	}
	return task, nil
}

// Update overwrites all client-writable fields of task id.
func (r *TaskRepository) Update(ctx context.Context, id int64, fields model.TaskFields) (*model.Task, error) {
	stmt := `
		UPDATE tasks
		SET title = @title, description = @description, is_completed = @is_completed
		WHERE id = @id
		RETURNING ` + taskColumns

	task, err := scanTask(r.q(ctx).QueryRow(ctx, stmt, pgx.NamedArgs{
		"id":           id,
		"title":        fields.Title,
		"description":  fields.Description,
		"is_completed": fields.IsCompleted,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to update task %d: %w", id, sqlerr.WrapNoRows(tasksTable, err))
	}
	return task, nil
}

// Delete removes task id and returns the removed row.
func (r *TaskRepository) Delete(ctx context.Context, id int64) (*model.Task, error) {
	task, err := scanTask(r.q(ctx).QueryRow(ctx,
		`DELETE FROM tasks WHERE id = @id RETURNING `+taskColumns,
		pgx.NamedArgs{"id": id},
	))
	if err != nil {
		return nil, fmt.Errorf("failed to delete task %d: %w", id, sqlerr.WrapNoRows(tasksTable, err))
	}
	return task, nil
}
