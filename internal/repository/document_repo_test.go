package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fyerfyer/civic-doc-system/internal/models"
)

func setupTestRepo(t *testing.T) DocumentRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Document{}, &models.DocumentTask{}))

	return NewDocumentRepositoryWithDB(db)
}

func testDocument(id string) *models.Document {
	return &models.Document{
		ID:         id,
		FileName:   id + ".pdf",
		FileType:   "pdf",
		FilePath:   "2024/01/01/" + id + ".pdf",
		FileSize:   1024,
		Status:     models.DocStatusUploaded,
		UploadedAt: time.Now(),
		UpdatedAt:  time.Now(),
	}
}

func TestDocumentRepositoryCreateAndGet(t *testing.T) {
	repo := setupTestRepo(t)

	doc := testDocument("doc-1")
	require.NoError(t, repo.Create(doc))

	got, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1.pdf", got.FileName)
	assert.Equal(t, models.DocStatusUploaded, got.Status)

	t.Run("empty id rejected", func(t *testing.T) {
		assert.Error(t, repo.Create(&models.Document{}))
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := repo.GetByID("nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrDocumentNotFound)
	})
}

func TestDocumentRepositoryUpdateStatus(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.Create(testDocument("doc-1")))

	t.Run("processing", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus("doc-1", models.DocStatusProcessing, ""))
		got, err := repo.GetByID("doc-1")
		require.NoError(t, err)
		assert.Equal(t, models.DocStatusProcessing, got.Status)
	})

	t.Run("completed sets progress and timestamp", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus("doc-1", models.DocStatusCompleted, ""))
		got, err := repo.GetByID("doc-1")
		require.NoError(t, err)
		assert.Equal(t, 100, got.Progress)
		assert.NotNil(t, got.ProcessedAt)
	})

	t.Run("failed keeps error message", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus("doc-1", models.DocStatusFailed, "boom"))
		got, err := repo.GetByID("doc-1")
		require.NoError(t, err)
		assert.Equal(t, "boom", got.Error)
	})

	t.Run("missing document", func(t *testing.T) {
		err := repo.UpdateStatus("nope", models.DocStatusProcessing, "")
		assert.ErrorIs(t, err, models.ErrDocumentNotFound)
	})
}

func TestDocumentRepositoryUpdateProgress(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.Create(testDocument("doc-1")))

	require.NoError(t, repo.UpdateProgress("doc-1", 40))
	got, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, 40, got.Progress)

	assert.ErrorIs(t, repo.UpdateProgress("nope", 10), models.ErrDocumentNotFound)
}

func TestDocumentRepositoryList(t *testing.T) {
	repo := setupTestRepo(t)

	docs := []*models.Document{
		testDocument("doc-1"),
		testDocument("doc-2"),
		testDocument("doc-3"),
	}
	docs[0].DocType = models.TypeBill
	docs[1].DocType = models.TypeHansard
	docs[2].DocType = models.TypeBill
	docs[2].Status = models.DocStatusCompleted

	for i, d := range docs {
		d.UploadedAt = time.Now().Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(d))
	}

	t.Run("no filters", func(t *testing.T) {
		got, total, err := repo.List(0, 10, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, got, 3)
	})

	t.Run("newest first", func(t *testing.T) {
		got, _, err := repo.List(0, 10, nil)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "doc-3", got[0].ID)
	})

	t.Run("filter by doc type", func(t *testing.T) {
		got, total, err := repo.List(0, 10, map[string]interface{}{"doc_type": models.TypeBill})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, got, 2)
	})

	t.Run("filter by status", func(t *testing.T) {
		_, total, err := repo.List(0, 10, map[string]interface{}{"status": models.DocStatusCompleted})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("paging", func(t *testing.T) {
		got, total, err := repo.List(1, 1, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, got, 1)
		assert.Equal(t, "doc-2", got[0].ID)
	})
}

func TestDocumentRepositoryDelete(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.Create(testDocument("doc-1")))
	require.NoError(t, repo.SaveTask(&models.DocumentTask{
		TaskID:     "task-1",
		DocumentID: "doc-1",
		TaskType:   "document_process",
		Status:     "pending",
	}))

	require.NoError(t, repo.Delete("doc-1"))

	_, err := repo.GetByID("doc-1")
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)

	tasks, err := repo.GetTasks("doc-1")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDocumentRepositoryTasks(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.Create(testDocument("doc-1")))

	t.Run("empty task id rejected", func(t *testing.T) {
		assert.Error(t, repo.SaveTask(&models.DocumentTask{DocumentID: "doc-1"}))
	})

	require.NoError(t, repo.SaveTask(&models.DocumentTask{
		TaskID:     "task-1",
		DocumentID: "doc-1",
		TaskType:   "document_process",
		Status:     "pending",
	}))
	require.NoError(t, repo.SaveTask(&models.DocumentTask{
		TaskID:     "task-2",
		DocumentID: "doc-1",
		TaskType:   "document_reprocess",
		Status:     "pending",
	}))

	tasks, err := repo.GetTasks("doc-1")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}
