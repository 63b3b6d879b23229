package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/deppfellow/taskapi/internal/database"
	"github.com/deppfellow/taskapi/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool connects to TASKAPI_TEST_DATABASE_URL, migrates it and empties the
// tasks table. Tests are skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TASKAPI_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TASKAPI_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, url)
	require.NoError(t, err)
	defer conn.Close(ctx)

	migrator, err := tern.NewMigrator(ctx, conn, "schema_version")
	require.NoError(t, err)
	migrationsFS, err := database.MigrationFS()
	require.NoError(t, err)
	require.NoError(t, migrator.LoadMigrations(migrationsFS))
	require.NoError(t, migrator.Migrate(ctx))

	_, err = conn.Exec(ctx, "TRUNCATE tasks RESTART IDENTITY")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func ptr(s string) *string { return &s }

func TestTaskRepository_Lifecycle(t *testing.T) {
	pool := testPool(t)
	repo := NewTaskRepository(pool)
	ctx := context.Background()

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks)

	created, err := repo.Create(ctx, model.TaskFields{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Nil(t, created.Description)
	assert.False(t, created.IsCompleted)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := repo.Update(ctx, created.ID, model.TaskFields{Title: "Buy oat milk", Description: ptr("2 litres"), IsCompleted: true})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, "2 litres", *updated.Description)
	assert.True(t, updated.IsCompleted)

	// Full replacement: omitted fields reset.
	reset, err := repo.Update(ctx, created.ID, model.TaskFields{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Nil(t, reset.Description)
	assert.False(t, reset.IsCompleted)

	_, err = repo.Create(ctx, model.TaskFields{Title: "Walk dog"})
	require.NoError(t, err)

	tasks, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(1), tasks[0].ID)
	assert.Equal(t, int64(2), tasks[1].ID)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = repo.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
	assert.Contains(t, err.Error(), "table:tasks")
}

func TestTaskRepository_MissingRows(t *testing.T) {
	pool := testPool(t)
	repo := NewTaskRepository(pool)
	ctx := context.Background()

	_, err := repo.Get(ctx, 404)
	assert.True(t, errors.Is(err, pgx.ErrNoRows))

	_, err = repo.Update(ctx, 404, model.TaskFields{Title: "x"})
	assert.True(t, errors.Is(err, pgx.ErrNoRows))

	_, err = repo.Delete(ctx, 404)
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}

func TestTaskRepository_UsesRequestSession(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()

	// The repository has no pool of its own, so the session must be used.
	repo := NewTaskRepository(nil)
	created, err := repo.Create(database.WithSession(ctx, conn), model.TaskFields{Title: "session"})
	require.NoError(t, err)
	assert.Equal(t, "session", created.Title)
}
