package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/momonga11/notenext-server/internal/apperror"
	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/repository/specification"
	"github.com/momonga11/notenext-server/internal/repository/unitofwork"
	"github.com/momonga11/notenext-server/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	return gormDB
}

func TestGormConnection(t *testing.T) {
	gormDB := openTestDB(t)

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ProjectRepository())
	assert.NotNil(t, uow.NoteRepository())
	assert.NotNil(t, uow.ImageRepository())

	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	t.Run("Check Note Repository", func(t *testing.T) {
		count, err := uow.NoteRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Note count: %d", count)
	})
}

// TestVersionedUpdate drives the compare-and-set through real SQL: a stale
// claimed version must conflict without touching the row.
func TestVersionedUpdate(t *testing.T) {
	gormDB := openTestDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	project := entity.Project{Id: uuid.New(), Name: "cas test"}
	require.NoError(t, uow.ProjectRepository().Create(ctx, &project))

	folder := entity.Folder{Id: uuid.New(), ProjectId: project.Id, Name: "cas folder"}
	require.NoError(t, uow.FolderRepository().Create(ctx, &folder))

	note := entity.Note{Id: uuid.New(), ProjectId: project.Id, FolderId: folder.Id, Title: "v0"}
	require.NoError(t, uow.NoteRepository().Create(ctx, &note))

	// The full update column set, including the htmltext column whose name
	// does not follow the snake-case default.
	updated, err := uow.NoteRepository().UpdateVersioned(ctx, note.Id, 0, map[string]any{
		"title":    "v1",
		"text":     "plain v1",
		"htmltext": "<p>v1</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.LockVersion)
	assert.Equal(t, "v1", updated.Title)
	assert.Equal(t, "<p>v1</p>", updated.HtmlText)

	_, err = uow.NoteRepository().UpdateVersioned(ctx, note.Id, 0, map[string]any{"title": "lost race"})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	fresh, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: note.Id})
	require.NoError(t, err)
	assert.Equal(t, "v1", fresh.Title)
	assert.Equal(t, "<p>v1</p>", fresh.HtmlText)
	assert.Equal(t, 1, fresh.LockVersion)
}

// TestProjectCascade verifies that deleting a project takes its folders,
// notes and tasks with it through the FK chain.
func TestProjectCascade(t *testing.T) {
	gormDB := openTestDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	project := entity.Project{Id: uuid.New(), Name: "cascade test"}
	require.NoError(t, uow.ProjectRepository().Create(ctx, &project))

	folder := entity.Folder{Id: uuid.New(), ProjectId: project.Id, Name: "cascade folder"}
	require.NoError(t, uow.FolderRepository().Create(ctx, &folder))

	note := entity.Note{Id: uuid.New(), ProjectId: project.Id, FolderId: folder.Id, Title: "doomed"}
	require.NoError(t, uow.NoteRepository().Create(ctx, &note))

	task := entity.Task{Id: uuid.New(), ProjectId: project.Id, NoteId: note.Id}
	require.NoError(t, uow.TaskRepository().Create(ctx, &task))

	require.NoError(t, uow.ProjectRepository().Delete(ctx, project.Id))

	gone, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: note.Id})
	require.NoError(t, err)
	assert.Nil(t, gone)

	goneTask, err := uow.TaskRepository().FindOne(ctx, specification.ByID{ID: task.Id})
	require.NoError(t, err)
	assert.Nil(t, goneTask)
}
